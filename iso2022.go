// This file is part of https://github.com/racingmars/charconv/
// Copyright 2025 by Matthew R. Wilson, licensed under the MIT license.
// See LICENSE in the project root for license information.

package charconv

// ISO-2022 control bytes.
const (
	esc = 0x1B
	so  = 0x0E
	si  = 0x0F
)

// graphicSet identifies a coded character set that can be designated into
// one of the G0-G3 registers.
type graphicSet uint8

const (
	setNone graphicSet = iota
	setASCII
	setJISRoman
	setJISKana
	setJIS0208
	setJIS0212
	setKSC5601
	setGB2312
	setCNS1
	setCNS2
	numGraphicSets
)

// setTable holds the data for one graphic set: a 94-character single-byte
// set or a 94x94 double-byte set in GL form.
type setTable struct {
	single SingleByteTable
	double DoubleByteTable
}

func (t setTable) width() int {
	if t.double != nil {
		return 2
	}
	return 1
}

// designator is an escape sequence (the bytes after ESC) that puts a
// graphic set into a register.
type designator struct {
	seq string
	reg int
	set graphicSet
}

// encodeRule is one way the encoder may represent a character: the set it
// comes from and the designator that makes the set available.
type encodeRule struct {
	set   graphicSet
	desig designator
}

type iso2022Config struct {
	tables      [numGraphicSets]setTable
	designators []designator

	// lockingShift enables SO/SI between G0 and G1; singleShift enables
	// ESC N / ESC O for one character from G2 / G3.
	lockingShift bool
	singleShift  bool

	// resetAtNewline drops G1-G3 designations and the locking shift after
	// CR or LF, as ISO-2022-CN requires.
	resetAtNewline bool

	// encodeRules lists, in order of preference, how non-ASCII characters
	// are encoded. A nil list means the charset cannot encode.
	encodeRules []encodeRule
}

// iso2022State is the register state shared by the ISO-2022 decoder and
// encoder. It changes only through transition.
type iso2022State struct {
	g       [4]graphicSet
	shifted bool // SO in effect: GL is G1
	single  int  // 2 or 3 while a single shift is pending, else 0
}

type iso2022Event uint8

const (
	evReset iso2022Event = iota
	evDesignate
	evShiftOut
	evShiftIn
	evSingleShift
	evGraphic
	evNewline
)

// transition applies one event. reg and set are used by evDesignate and
// evSingleShift only.
func (s *iso2022State) transition(ev iso2022Event, reg int, set graphicSet) {
	switch ev {
	case evReset:
		*s = iso2022State{g: [4]graphicSet{setASCII}}
	case evDesignate:
		s.g[reg] = set
	case evShiftOut:
		s.shifted = true
	case evShiftIn:
		s.shifted = false
	case evSingleShift:
		s.single = reg
	case evGraphic:
		s.single = 0
	case evNewline:
		s.g[1], s.g[2], s.g[3] = setNone, setNone, setNone
		s.shifted = false
		s.single = 0
	}
}

// active returns the set that the next graphic byte is interpreted in.
func (s *iso2022State) active() graphicSet {
	if s.single != 0 {
		return s.g[s.single]
	}
	if s.shifted {
		return s.g[1]
	}
	return s.g[0]
}

func newISO2022State() iso2022State {
	var s iso2022State
	s.transition(evReset, 0, setNone)
	return s
}

// matchEscape matches the bytes after an ESC at the start of rest against
// the known sequences. It returns the designator index (or -1 for a single
// shift, with ss set), the number of bytes matched after ESC, and whether
// more input is needed to decide. When nothing matches, n is the number of
// bytes examined after ESC, including the first mismatching one.
func (c *iso2022Config) matchEscape(rest []byte) (idx int, ss int, n int, more bool) {
	if c.singleShift && len(rest) > 0 {
		switch rest[0] {
		case 'N':
			return -1, 2, 1, false
		case 'O':
			return -1, 3, 1, false
		}
	}
	longest := 0
	for i, d := range c.designators {
		k := 0
		for k < len(d.seq) && k < len(rest) && rest[k] == d.seq[k] {
			k++
		}
		if k == len(d.seq) {
			return i, 0, k, false
		}
		if k == len(rest) {
			more = true
		}
		if k > longest {
			longest = k
		}
	}
	if more {
		return -1, 0, 0, true
	}
	return -1, 0, longest + 1, false
}

type iso2022Decoder struct {
	cfg   *iso2022Config
	state iso2022State
}

func newISO2022Decoder(cfg *iso2022Config) *iso2022Decoder {
	return &iso2022Decoder{cfg: cfg, state: newISO2022State()}
}

func (d *iso2022Decoder) reset() { d.state.transition(evReset, 0, setNone) }

func (d *iso2022Decoder) flush(*CharBuffer) Result { return Underflow }

func (d *iso2022Decoder) decode(in *ByteBuffer, out *CharBuffer, eoi bool) Result {
	src, dst := in.rest(), out.rest()
	sp, dp := 0, 0
	for sp < len(src) {
		b := src[sp]
		switch {
		case b == esc:
			idx, ss, n, more := d.cfg.matchEscape(src[sp+1:])
			if more {
				return decoded(in, sp, out, dp, Underflow)
			}
			if ss != 0 {
				d.state.transition(evSingleShift, ss, setNone)
			} else if idx >= 0 {
				des := d.cfg.designators[idx]
				d.state.transition(evDesignate, des.reg, des.set)
			} else {
				return decoded(in, sp, out, dp, Malformed(n+1))
			}
			sp += n + 1
			continue

		case b == so || b == si:
			if !d.cfg.lockingShift {
				return decoded(in, sp, out, dp, Malformed(1))
			}
			if b == so {
				d.state.transition(evShiftOut, 0, setNone)
			} else {
				d.state.transition(evShiftIn, 0, setNone)
			}
			sp++
			continue

		case b >= 0x80:
			return decoded(in, sp, out, dp, Malformed(1))
		}

		if dp >= len(dst) {
			return decoded(in, sp, out, dp, Overflow)
		}

		// Controls, space and DEL are the same in every set.
		if b <= 0x20 || b == 0x7F {
			dst[dp] = uint16(b)
			sp++
			dp++
			if d.cfg.resetAtNewline && (b == '\n' || b == '\r') {
				d.state.transition(evNewline, 0, setNone)
			}
			continue
		}

		set := d.state.active()
		if set == setNone {
			return decoded(in, sp, out, dp, Malformed(1))
		}
		t := d.cfg.tables[set]
		var r rune
		var ok bool
		n := t.width()
		if n == 1 {
			r, ok = t.single.DecodeByte(b)
		} else {
			if sp+1 >= len(src) {
				return decoded(in, sp, out, dp, Underflow)
			}
			b2 := src[sp+1]
			if b2 < 0x21 || b2 > 0x7E {
				return decoded(in, sp, out, dp, Malformed(1))
			}
			r, ok = t.double.DecodePair(b, b2)
		}
		if !ok {
			return decoded(in, sp, out, dp, Unmappable(n))
		}
		w := putRune(dst[dp:], r)
		if w == 0 {
			return decoded(in, sp, out, dp, Overflow)
		}
		d.state.transition(evGraphic, 0, setNone)
		sp += n
		dp += w
	}
	return decoded(in, sp, out, dp, Underflow)
}

type iso2022Encoder struct {
	cfg   *iso2022Config
	state iso2022State
}

func newISO2022Encoder(cfg *iso2022Config) *iso2022Encoder {
	return &iso2022Encoder{cfg: cfg, state: newISO2022State()}
}

func (e *iso2022Encoder) reset() { e.state.transition(evReset, 0, setNone) }

// toASCII appends the sequence returning to ASCII in GL, without changing
// the state.
func (e *iso2022Encoder) toASCII(buf []byte) []byte {
	if e.state.shifted {
		buf = append(buf, si)
	}
	if e.state.g[0] != setASCII {
		buf = append(buf, esc, '(', 'B')
	}
	return buf
}

func (e *iso2022Encoder) enterASCII() {
	if e.state.shifted {
		e.state.transition(evShiftIn, 0, setNone)
	}
	if e.state.g[0] != setASCII {
		e.state.transition(evDesignate, 0, setASCII)
	}
}

func (e *iso2022Encoder) flush(out *ByteBuffer) Result {
	var scratch [4]byte
	seq := e.toASCII(scratch[:0])
	if out.Remaining() < len(seq) {
		return Overflow
	}
	out.PutSlice(seq)
	e.enterASCII()
	return Underflow
}

func (e *iso2022Encoder) prepareReplacement(out *ByteBuffer, n int) bool {
	var scratch [4]byte
	seq := e.toASCII(scratch[:0])
	if out.Remaining() < len(seq)+n {
		return false
	}
	out.PutSlice(seq)
	e.enterASCII()
	return true
}

// encodeRune builds the bytes for r, designation and shifts included, in
// buf. It returns the rule used (or -1 for ASCII) and false if r cannot be
// encoded.
func (e *iso2022Encoder) encodeRune(r rune, buf []byte) ([]byte, int, bool) {
	switch {
	case r == esc || r == so || r == si:
		// These would be read back as escape sequences and shifts.
		return buf, -1, false
	case r < 0x80:
		return append(e.toASCII(buf), byte(r)), -1, true
	}
	for i, rule := range e.cfg.encodeRules {
		t := e.cfg.tables[rule.set]
		var b1, b2 byte
		var ok bool
		if t.double != nil {
			b1, b2, ok = t.double.EncodeRune(r)
		} else {
			b1, ok = t.single.EncodeRune(r)
		}
		if !ok {
			continue
		}

		reg := rule.desig.reg
		if e.state.g[reg] != rule.set {
			buf = append(buf, esc)
			buf = append(buf, rule.desig.seq...)
		}
		switch reg {
		case 0:
			if e.state.shifted {
				buf = append(buf, si)
			}
		case 1:
			if !e.state.shifted {
				buf = append(buf, so)
			}
		case 2:
			buf = append(buf, esc, 'N')
		case 3:
			buf = append(buf, esc, 'O')
		}
		buf = append(buf, b1)
		if t.double != nil {
			buf = append(buf, b2)
		}
		return buf, i, true
	}
	return buf, -1, false
}

// commit updates the state after the bytes from encodeRune were written.
func (e *iso2022Encoder) commit(r rune, rule int) {
	if rule < 0 {
		e.enterASCII()
		if e.cfg.resetAtNewline && (r == '\n' || r == '\r') {
			e.state.transition(evNewline, 0, setNone)
		}
		return
	}
	d := e.cfg.encodeRules[rule].desig
	e.state.transition(evDesignate, d.reg, d.set)
	switch d.reg {
	case 0:
		e.state.transition(evShiftIn, 0, setNone)
	case 1:
		e.state.transition(evShiftOut, 0, setNone)
	}
}

func (e *iso2022Encoder) encode(in *CharBuffer, out *ByteBuffer, eoi bool) Result {
	src, dst := in.rest(), out.rest()
	sp, dp := 0, 0
	var scratch [16]byte
	for sp < len(src) {
		r, n, bad := codePointAt(src, sp)
		if bad {
			return encoded(in, sp, out, dp, Malformed(1))
		}
		if n == 0 {
			return encoded(in, sp, out, dp, Underflow)
		}
		seq, rule, ok := e.encodeRune(r, scratch[:0])
		if !ok {
			return encoded(in, sp, out, dp, Unmappable(n))
		}
		if dp+len(seq) > len(dst) {
			return encoded(in, sp, out, dp, Overflow)
		}
		dp += copy(dst[dp:], seq)
		e.commit(r, rule)
		sp += n
	}
	return encoded(in, sp, out, dp, Underflow)
}

// Single-byte 94-character sets, indexed by GL byte.

// glASCII is ASCII as a G0 set.
type glASCII struct{}

func (glASCII) DecodeByte(b byte) (rune, bool) { return rune(b), b < 0x80 }

func (glASCII) EncodeRune(r rune) (byte, bool) {
	if r > 0x20 && r < 0x7F {
		return byte(r), true
	}
	return 0, false
}

// glJISRoman is JIS X 0201 Roman: ASCII with YEN SIGN at 0x5C and
// OVERLINE at 0x7E.
type glJISRoman struct{}

func (glJISRoman) DecodeByte(b byte) (rune, bool) {
	switch b {
	case 0x5C:
		return 0x00A5, true
	case 0x7E:
		return 0x203E, true
	}
	return rune(b), b < 0x80
}

func (glJISRoman) EncodeRune(r rune) (byte, bool) {
	switch r {
	case 0x00A5:
		return 0x5C, true
	case 0x203E:
		return 0x7E, true
	case 0x5C, 0x7E:
		return 0, false
	}
	if r > 0x20 && r < 0x7F {
		return byte(r), true
	}
	return 0, false
}

// glJISKana is JIS X 0201 Katakana in GL, 0x21-0x5F.
type glJISKana struct{}

func (glJISKana) DecodeByte(b byte) (rune, bool) {
	if b >= 0x21 && b <= 0x5F {
		return 0xFF61 + rune(b-0x21), true
	}
	return 0, false
}

func (glJISKana) EncodeRune(r rune) (byte, bool) {
	if r >= 0xFF61 && r <= 0xFF9F {
		return byte(r - 0xFF61 + 0x21), true
	}
	return 0, false
}
