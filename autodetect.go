// This file is part of https://github.com/racingmars/charconv/
// Copyright 2025 by Matthew R. Wilson, licensed under the MIT license.
// See LICENSE in the project root for license information.

package charconv

import (
	"bytes"

	"go.uber.org/zap"
)

// detectWindow bounds how much input the JIS detector examines.
const detectWindow = 1024

// delegating is the part shared by the autodetecting engines: once a
// charset is chosen, everything is passed to its engine. Until then the
// undecided bytes stay unconsumed in the caller's buffer.
type delegating struct {
	owner string
	cs    Charset
	eng   decodeEngine
}

func (d *delegating) detected() Charset { return d.cs }

func (d *delegating) commit(cs Charset, reason string) {
	d.cs = cs
	d.eng = cs.(*charset).newDec()
	Logger().Debug("charset detected",
		zap.String("charset", d.owner),
		zap.String("detected", cs.Name()),
		zap.String("reason", reason))
}

func (d *delegating) reset() {
	d.cs = nil
	d.eng = nil
}

func (d *delegating) flush(out *CharBuffer) Result {
	if d.eng == nil {
		return Underflow
	}
	return d.eng.flush(out)
}

// jisAutoDecoder tells ISO-2022-JP, EUC-JP and Shift_JIS apart.
type jisAutoDecoder struct {
	delegating
}

func newJISAutoDecoder() *jisAutoDecoder {
	return &jisAutoDecoder{delegating{owner: "x-JISAutoDetect"}}
}

func (d *jisAutoDecoder) decode(in *ByteBuffer, out *CharBuffer, eoi bool) Result {
	if d.eng != nil {
		return d.eng.decode(in, out, eoi)
	}

	// ASCII is the same in all three candidates.
	src, dst := in.rest(), out.rest()
	n := 0
	for n < len(src) && src[n] < 0x80 && src[n] != esc {
		if n >= len(dst) {
			return decoded(in, n, out, n, Overflow)
		}
		dst[n] = uint16(src[n])
		n++
	}
	in.pos += n
	out.pos += n
	if n == len(src) {
		return Underflow
	}

	cs, reason := d.choose(src[n:], eoi)
	if cs == nil {
		return Underflow
	}
	d.commit(cs, reason)
	return d.eng.decode(in, out, eoi)
}

// choose picks a charset for src, which starts at a non-ASCII byte or ESC.
// It returns nil until src fills the detection window or the input ends,
// so the choice never depends on where the input was split.
func (d *jisAutoDecoder) choose(src []byte, eoi bool) (Charset, string) {
	if src[0] == esc {
		return ISO2022JP, "escape sequence"
	}
	full := len(src) >= detectWindow
	if !full && !eoi {
		return nil, ""
	}
	if full {
		src = src[:detectWindow]
	}

	euc := trialDecode(EUCJP, src)
	sjis := trialDecode(ShiftJIS, src)
	switch {
	case euc.failed && sjis.failed:
		return ShiftJIS, "default"
	case euc.failed:
		return ShiftJIS, "invalid as EUC-JP"
	case sjis.failed:
		return EUCJP, "invalid as Shift_JIS"
	}

	// At the real end of input a trailing partial character is an error.
	if !full {
		switch {
		case euc.consumed == len(src) && sjis.consumed < len(src):
			return EUCJP, "Shift_JIS ends mid-character"
		case sjis.consumed == len(src) && euc.consumed < len(src):
			return ShiftJIS, "EUC-JP ends mid-character"
		}
	}

	// Judge the longest prefix that both read whole.
	m := len(src)
	for euc.consumed < m || sjis.consumed < m {
		m = min(euc.consumed, sjis.consumed)
		if m == 0 {
			return ShiftJIS, "default"
		}
		euc, sjis = trialDecode(EUCJP, src[:m]), trialDecode(ShiftJIS, src[:m])
	}
	if japaneseScore(euc.text) > japaneseScore(sjis.text) {
		return EUCJP, "text heuristic"
	}
	return ShiftJIS, "text heuristic"
}

type trial struct {
	failed   bool
	consumed int
	text     []uint16
}

// trialDecode decodes src with a scratch engine of cs.
func trialDecode(cs Charset, src []byte) trial {
	eng := cs.(*charset).newDec()
	in := WrapBytes(src)
	out := NewCharBuffer(len(src))
	cr := eng.decode(in, out, false)
	out.Flip()
	return trial{failed: cr.IsError(), consumed: in.Position(), text: out.rest()}
}

// japaneseScore rates how much text looks like ordinary Japanese: kana and
// kanji count for it, half-width katakana (what EUC-JP bytes look like
// when read as Shift_JIS) counts against it.
func japaneseScore(text []uint16) int {
	score := 0
	for _, c := range text {
		switch {
		case c >= 0x3041 && c <= 0x30FF:
			score += 2
		case c >= 0x4E00 && c <= 0x9FFF:
			score++
		case c >= 0xFF61 && c <= 0xFF9F:
			score -= 2
		}
	}
	return score
}

// bomAutoDecoder picks a Unicode form from a byte order mark and falls
// back to UTF-8.
type bomAutoDecoder struct {
	delegating
}

func newBOMAutoDecoder() *bomAutoDecoder {
	return &bomAutoDecoder{delegating{owner: "x-UTF-BOM-AutoDetect"}}
}

// boms is ordered so that FF FE 00 00 is read as UTF-32LE before UTF-16LE.
var boms = []struct {
	mark []byte
	cs   *Charset
}{
	{[]byte{0x00, 0x00, 0xFE, 0xFF}, &UTF32BE},
	{[]byte{0xFF, 0xFE, 0x00, 0x00}, &UTF32LE},
	{[]byte{0xEF, 0xBB, 0xBF}, &UTF8},
	{[]byte{0xFE, 0xFF}, &UTF16BE},
	{[]byte{0xFF, 0xFE}, &UTF16LE},
}

// sniffBOM returns the charset and mark length for the start of src, or
// more if src is a proper prefix of a mark and input may follow.
func sniffBOM(src []byte, eoi bool) (cs Charset, n int, more bool) {
	for _, b := range boms {
		switch {
		case bytes.HasPrefix(src, b.mark):
			return *b.cs, len(b.mark), false
		case !eoi && len(src) < len(b.mark) && bytes.HasPrefix(b.mark, src):
			return nil, 0, true
		}
	}
	return UTF8, 0, false
}

func (d *bomAutoDecoder) decode(in *ByteBuffer, out *CharBuffer, eoi bool) Result {
	if d.eng != nil {
		return d.eng.decode(in, out, eoi)
	}
	cs, n, more := sniffBOM(in.rest(), eoi)
	if more {
		return Underflow
	}
	in.pos += n
	reason := "byte order mark"
	if n == 0 {
		reason = "no byte order mark"
	}
	d.commit(cs, reason)
	return d.eng.decode(in, out, eoi)
}
