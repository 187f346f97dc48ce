// This file is part of https://github.com/racingmars/charconv/
// Copyright 2025 by Matthew R. Wilson, licensed under the MIT license.
// See LICENSE in the project root for license information.

package charconv

import (
	"bytes"
	"errors"
	"strings"
	"testing"
)

// vectors are well-known encodings of short strings.
var vectors = []struct {
	charset string
	text    string
	bytes   []byte
}{
	{"US-ASCII", "Hi!", []byte("Hi!")},
	{"ISO-8859-1", "café", []byte{'c', 'a', 'f', 0xE9}},
	{"UTF-8", "a€😀", []byte{'a', 0xE2, 0x82, 0xAC, 0xF0, 0x9F, 0x98, 0x80}},
	{"CESU-8", "a😀", []byte{'a', 0xED, 0xA0, 0xBD, 0xED, 0xB8, 0x80}},
	{"UTF-16BE", "A€", []byte{0x00, 0x41, 0x20, 0xAC}},
	{"UTF-16LE", "A€", []byte{0x41, 0x00, 0xAC, 0x20}},
	{"UTF-16", "A", []byte{0xFE, 0xFF, 0x00, 0x41}},
	{"x-UTF-16LE-BOM", "A", []byte{0xFF, 0xFE, 0x41, 0x00}},
	{"UTF-32BE", "😀", []byte{0x00, 0x01, 0xF6, 0x00}},
	{"UTF-32LE", "A", []byte{0x41, 0x00, 0x00, 0x00}},
	{"UTF-32", "A", []byte{0x00, 0x00, 0x00, 0x41}},
	{"X-UTF-32BE-BOM", "A", []byte{0x00, 0x00, 0xFE, 0xFF, 0x00, 0x00, 0x00, 0x41}},
	{"X-UTF-32LE-BOM", "A", []byte{0xFF, 0xFE, 0x00, 0x00, 0x41, 0x00, 0x00, 0x00}},
	{"IBM037", "Hello, 1", []byte{0xC8, 0x85, 0x93, 0x93, 0x96, 0x6B, 0x40, 0xF1}},
	{"IBM1047", "[]", []byte{0xAD, 0xBD}},
	{"windows-1252", "€", []byte{0x80}},
	{"KOI8-R", "Да", []byte{0xE4, 0xC1}},
	{"x-IBM037-3270", "A≤", []byte{0xC1, 0x08, 0x8C}},
	{"Shift_JIS", "日本ｱ", []byte{0x93, 0xFA, 0x96, 0x7B, 0xB1}},
	{"EUC-JP", "日本ｱ", []byte{0xC6, 0xFC, 0xCB, 0xDC, 0x8E, 0xB1}},
	{"EUC-KR", "가한", []byte{0xB0, 0xA1, 0xC7, 0xD1}},
	{"GB2312", "中文", []byte{0xD6, 0xD0, 0xCE, 0xC4}},
	{"GBK", "中丂", []byte{0xD6, 0xD0, 0x81, 0x40}},
	{"Big5", "中", []byte{0xA4, 0xA4}},
	{"ISO-2022-JP", "あ", []byte{0x1B, 0x24, 0x42, 0x24, 0x22, 0x1B, 0x28, 0x42}},
	{"ISO-2022-JP", "a日本b", []byte{'a', 0x1B, 0x24, 0x42, 0x46, 0x7C, 0x4B, 0x5C, 0x1B, 0x28, 0x42, 'b'}},
	{"ISO-2022-KR", "가a", []byte{0x1B, 0x24, 0x29, 0x43, 0x0E, 0x30, 0x21, 0x0F, 'a'}},
	{"x-ISO-2022-CN-GB", "中", []byte{0x1B, 0x24, 0x29, 0x41, 0x0E, 0x56, 0x50, 0x0F}},
	{"x-ISO-2022-CN-GB", "中\n中", []byte{
		0x1B, 0x24, 0x29, 0x41, 0x0E, 0x56, 0x50, 0x0F, '\n',
		0x1B, 0x24, 0x29, 0x41, 0x0E, 0x56, 0x50, 0x0F}},
}

func TestVectors(t *testing.T) {
	for _, v := range vectors {
		t.Run(v.charset+"/"+v.text, func(t *testing.T) {
			cs := MustLookup(v.charset)

			got, err := MustNewEncoder(cs).EncodeAll(v.text)
			if err != nil {
				t.Fatalf("encode: %v", err)
			}
			if !bytes.Equal(got, v.bytes) {
				t.Errorf("encoded % X, want % X", got, v.bytes)
			}

			text, err := cs.NewDecoder().DecodeAll(v.bytes)
			if err != nil {
				t.Fatalf("decode: %v", err)
			}
			if text != v.text {
				t.Errorf("decoded %q, want %q", text, v.text)
			}
		})
	}
}

func TestDecodeOnlyVectors(t *testing.T) {
	tests := []struct {
		charset string
		bytes   []byte
		text    string
	}{
		// JIS X 0212 through SS3
		{"EUC-JP", []byte{0x8F, 0xA1, 0xC0}, "＼"},
		// ISO-2022-CN accepts what the GB flavour writes.
		{"ISO-2022-CN", []byte{0x1B, 0x24, 0x29, 0x41, 0x0E, 0x56, 0x50, 0x0F, 'x'}, "中x"},
		// Older JIS X 0208 designation and half-width katakana.
		{"ISO-2022-JP", []byte{0x1B, 0x24, 0x40, 0x24, 0x22, 0x1B, 0x28, 0x49, 0x31, 0x1B, 0x28, 0x42}, "あｱ"},
		// JIS Roman yen sign.
		{"ISO-2022-JP", []byte{0x1B, 0x28, 0x4A, 0x5C, 0x1B, 0x28, 0x42, 0x5C}, "¥\\"},
		// U+FEFF after the start is a character.
		{"UTF-16", []byte{0x00, 0x41, 0xFE, 0xFF}, "A\uFEFF"},
		// Explicit byte order ignores the mark.
		{"UTF-16BE", []byte{0xFE, 0xFF, 0x00, 0x41}, "\uFEFFA"},
		// A mark switches UTF-16 to little-endian.
		{"UTF-16", []byte{0xFF, 0xFE, 0x41, 0x00}, "A"},
		{"UTF-32", []byte{0xFF, 0xFE, 0x00, 0x00, 0x41, 0x00, 0x00, 0x00}, "A"},
		// x-UTF-16LE-BOM defaults to little-endian but honours a BE mark.
		{"x-UTF-16LE-BOM", []byte{0xFE, 0xFF, 0x00, 0x41}, "A"},
		{"x-UTF-16LE-BOM", []byte{0x41, 0x00}, "A"},
	}
	for _, tt := range tests {
		t.Run(tt.charset, func(t *testing.T) {
			got, err := MustLookup(tt.charset).NewDecoder().DecodeAll(tt.bytes)
			if err != nil {
				t.Fatalf("decode: %v", err)
			}
			if got != tt.text {
				t.Errorf("decoded %q, want %q", got, tt.text)
			}
		})
	}
}

func TestDecodeErrors(t *testing.T) {
	tests := []struct {
		name    string
		charset string
		bytes   []byte
		want    Result
		offset  int
	}{
		{"utf8 overlong", "UTF-8", []byte{0xC0, 0x80}, Malformed(1), 0},
		{"utf8 surrogate", "UTF-8", []byte{'a', 0xED, 0xA0, 0x80}, Malformed(1), 1},
		{"utf8 bad continuation", "UTF-8", []byte{0xE2, 0x82, 'x'}, Malformed(2), 0},
		{"utf8 truncated", "UTF-8", []byte{'a', 'b', 0xE2, 0x82}, Malformed(2), 2},
		{"utf8 above max", "UTF-8", []byte{0xF4, 0x90, 0x80, 0x80}, Malformed(1), 0},
		{"utf8 stray continuation", "UTF-8", []byte{0x80}, Malformed(1), 0},
		{"cesu 4-byte form", "CESU-8", []byte{0xF0, 0x9F, 0x98, 0x80}, Malformed(1), 0},
		{"cesu lone low", "CESU-8", []byte{0xED, 0xB8, 0x80}, Malformed(3), 0},
		{"ascii high byte", "US-ASCII", []byte{'a', 0x80}, Malformed(1), 1},
		{"utf16 lone low", "UTF-16BE", []byte{0xDC, 0x00}, Malformed(2), 0},
		{"utf16 high then other", "UTF-16BE", []byte{0xD8, 0x00, 0x00, 0x41}, Malformed(2), 0},
		{"utf16 odd length", "UTF-16BE", []byte{0x00, 0x41, 0x00}, Malformed(1), 2},
		{"utf32 too large", "UTF-32BE", []byte{0x00, 0x11, 0x00, 0x00}, Malformed(4), 0},
		{"utf32 surrogate", "UTF-32LE", []byte{0x00, 0xD8, 0x00, 0x00}, Malformed(4), 0},
		{"sjis bad trail", "Shift_JIS", []byte{0x93, 0x20}, Malformed(1), 0},
		{"sjis bad lead", "Shift_JIS", []byte{0xA0}, Malformed(1), 0},
		{"sjis truncated", "Shift_JIS", []byte{'x', 0x93}, Malformed(1), 1},
		{"euc bad trail", "EUC-KR", []byte{0xB0, 0x41}, Malformed(1), 0},
		{"euc-jp bad kana", "EUC-JP", []byte{0x8E, 0xE0}, Malformed(1), 0},
		{"iso-2022 high byte", "ISO-2022-JP", []byte{0xA4}, Malformed(1), 0},
		{"iso-2022 unknown escape", "ISO-2022-JP", []byte{0x1B, 0x28, 0x5A}, Malformed(3), 0},
		{"iso-2022 truncated escape", "ISO-2022-JP", []byte{'a', 0x1B, 0x24}, Malformed(2), 1},
		{"iso-2022-jp shift", "ISO-2022-JP", []byte{0x0E}, Malformed(1), 0},
		{"iso-2022-cn unset g1", "ISO-2022-CN", []byte{0x0E, 0x56, 0x50}, Malformed(1), 1},
		{"iso-2022-cn missing plane", "ISO-2022-CN", []byte{0x1B, 0x24, 0x29, 0x47, 0x0E, 0x44, 0x21}, Unmappable(2), 5},
		{"ebcdic 3270 unassigned escape", "x-IBM037-3270", []byte{0x08, 0x41}, Unmappable(2), 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := MustLookup(tt.charset).NewDecoder()
			in := WrapBytes(tt.bytes)
			out := NewCharBuffer(16)
			cr := d.Decode(in, out, true)
			if cr != tt.want {
				t.Fatalf("Decode = %v, want %v", cr, tt.want)
			}
			if in.Position() != tt.offset {
				t.Errorf("input position %d, want %d", in.Position(), tt.offset)
			}

			_, err := MustLookup(tt.charset).NewDecoder().DecodeAll(tt.bytes)
			var ce *CodingError
			if !errors.As(err, &ce) {
				t.Fatalf("DecodeAll error %v is not a CodingError", err)
			}
			if ce.Offset != tt.offset || ce.Length != tt.want.Length() || ce.Op != PhaseDecode {
				t.Errorf("CodingError %+v", ce)
			}
		})
	}
}

func TestEUCJPSupplementAcrossCalls(t *testing.T) {
	d := EUCJP.NewDecoder()
	out := NewCharBuffer(4)

	in := NewByteBuffer(8)
	in.PutSlice([]byte{0x8F, 0xA1})
	in.Flip()
	if cr := d.Decode(in, out, false); cr != Underflow {
		t.Fatalf("first Decode = %v, want Underflow", cr)
	}
	if in.Position() != 0 || out.Position() != 0 {
		t.Fatalf("partial character consumed: in %v out %v", in, out)
	}

	in.Compact()
	in.Put(0xC0)
	in.Flip()
	if cr := d.Decode(in, out, true); cr != Underflow {
		t.Fatalf("second Decode = %v", cr)
	}
	if cr := d.Flush(out); cr != Underflow {
		t.Fatalf("Flush = %v", cr)
	}
	out.Flip()
	if got := out.Chars(); len(got) != 1 || got[0] != 0xFF3C {
		t.Errorf("decoded %X, want FF3C", got)
	}
}

func TestEncodeErrors(t *testing.T) {
	tests := []struct {
		name    string
		charset string
		chars   []uint16
		want    Result
		offset  int
	}{
		{"ascii euro", "US-ASCII", []uint16{'a', 0x20AC}, Unmappable(1), 1},
		{"latin1 supplementary", "ISO-8859-1", []uint16{0xD83D, 0xDE00}, Unmappable(2), 0},
		{"lone low", "UTF-8", []uint16{'a', 0xDC00}, Malformed(1), 1},
		{"high then other", "UTF-16BE", []uint16{0xD800, 'a'}, Malformed(1), 0},
		{"trailing high", "UTF-8", []uint16{'a', 0xD800}, Malformed(1), 1},
		{"sjis hangul", "Shift_JIS", []uint16{0xAC00}, Unmappable(1), 0},
		{"ebcdic cjk", "IBM037", []uint16{0x4E2D}, Unmappable(1), 0},
		{"iso-2022-kr thai", "ISO-2022-KR", []uint16{0x0E01}, Unmappable(1), 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := MustNewEncoder(MustLookup(tt.charset))
			in := WrapChars(tt.chars)
			out := NewByteBuffer(32)
			cr := e.Encode(in, out, true)
			if cr != tt.want {
				t.Fatalf("Encode = %v, want %v", cr, tt.want)
			}
			if in.Position() != tt.offset {
				t.Errorf("input position %d, want %d", in.Position(), tt.offset)
			}
		})
	}
}

func TestLoneHighSurrogate(t *testing.T) {
	e := MustNewEncoder(UTF8)
	in := WrapChars([]uint16{0xD800})
	out := NewByteBuffer(8)
	if cr := e.Encode(in, out, false); cr != Underflow {
		t.Errorf("Encode without end of input = %v, want Underflow", cr)
	}
	if in.Position() != 0 {
		t.Errorf("high surrogate consumed")
	}
	if cr := e.Encode(in, out, true); cr != Malformed(1) {
		t.Errorf("Encode at end of input = %v, want Malformed(1)", cr)
	}

	// Completed by the next call.
	e.Reset()
	buf := NewCharBuffer(4)
	buf.Put(0xD83D)
	buf.Flip()
	if cr := e.Encode(buf, out, false); cr != Underflow {
		t.Fatalf("Encode = %v", cr)
	}
	buf.Compact()
	buf.Put(0xDE00)
	buf.Flip()
	if cr := e.Encode(buf, out, true); cr != Underflow {
		t.Fatalf("Encode = %v", cr)
	}
	out.Flip()
	if got := out.Bytes(); !bytes.Equal(got, []byte{0xF0, 0x9F, 0x98, 0x80}) {
		t.Errorf("encoded % X", got)
	}
}

func TestErrorActions(t *testing.T) {
	in := []byte{'a', 0xFF, 'b', 0xC0, 0x80, 'c'}
	tests := []struct {
		action Action
		want   string
	}{
		{Ignore, "abc"},
		{Replace, "a�b��c"},
	}
	for _, tt := range tests {
		t.Run(tt.action.String(), func(t *testing.T) {
			got, err := UTF8.NewDecoder().OnMalformedInput(tt.action).DecodeAll(in)
			if err != nil {
				t.Fatal(err)
			}
			if got != tt.want {
				t.Errorf("got %q, want %q", got, tt.want)
			}
		})
	}

	d := UTF8.NewDecoder().OnMalformedInput(Replace)
	if err := d.ReplaceWith("?"); err != nil {
		t.Fatal(err)
	}
	if err := d.ReplaceWith("?!"); !errors.Is(err, ErrIllegalReplacement) {
		t.Errorf("two-char replacement accepted for UTF-8: %v", err)
	}
	if got, _ := d.DecodeAll([]byte{0xFF}); got != "?" {
		t.Errorf("custom replacement gave %q", got)
	}
	if err := d.ReplaceWith(""); !errors.Is(err, ErrIllegalReplacement) {
		t.Errorf("empty replacement: %v", err)
	}
}

func TestEncodeReplacement(t *testing.T) {
	tests := []struct {
		charset string
		text    string
		want    []byte
	}{
		{"US-ASCII", "a€b", []byte("a?b")},
		{"IBM037", "a中", []byte{0x81, 0x3F}},
		{"UTF-16BE", "a\xff", []byte{0x00, 'a', 0xFF, 0xFD}},
		// The shift state is closed before the replacement.
		{"ISO-2022-JP", "あ가", []byte{0x1B, 0x24, 0x42, 0x24, 0x22, 0x1B, 0x28, 0x42, '?'}},
		{"ISO-2022-KR", "가ก", []byte{0x1B, 0x24, 0x29, 0x43, 0x0E, 0x30, 0x21, 0x0F, '?'}},
	}
	for _, tt := range tests {
		t.Run(tt.charset, func(t *testing.T) {
			e := MustNewEncoder(MustLookup(tt.charset)).OnUnmappableCharacter(Replace)
			got, err := e.EncodeAll(tt.text)
			if err != nil {
				t.Fatal(err)
			}
			if !bytes.Equal(got, tt.want) {
				t.Errorf("got % X, want % X", got, tt.want)
			}
		})
	}

	e := MustNewEncoder(USASCII)
	if err := e.ReplaceWith([]byte{0x80}); !errors.Is(err, ErrIllegalReplacement) {
		t.Errorf("non-ASCII replacement accepted: %v", err)
	}
	if err := e.ReplaceWith([]byte("??")); !errors.Is(err, ErrIllegalReplacement) {
		t.Errorf("overlong replacement accepted: %v", err)
	}
	if r := MustNewEncoder(MustLookup("cp037")).Replacement(); !bytes.Equal(r, []byte{0x3F}) {
		t.Errorf("EBCDIC replacement % X", r)
	}
}

func TestCoderStateMachine(t *testing.T) {
	d := UTF8.NewDecoder()
	in, out := WrapBytes([]byte("x")), NewCharBuffer(4)

	expectPanic(t, "Flush before end of input", func() { d.Flush(out) })

	d.Decode(in, out, true)
	expectPanic(t, "Decode(false) after Decode(true)", func() { d.Decode(in, out, false) })
	if cr := d.Flush(out); cr != Underflow {
		t.Errorf("Flush = %v", cr)
	}
	if cr := d.Flush(out); cr != Underflow {
		t.Errorf("second Flush = %v", cr)
	}
	expectPanic(t, "Decode after Flush", func() { d.Decode(in, out, true) })

	d.Reset()
	in = WrapBytes([]byte("y"))
	if cr := d.Decode(in, out, false); cr != Underflow {
		t.Errorf("Decode after Reset = %v", cr)
	}

	var ierr *Error
	func() {
		defer func() {
			err, _ := recover().(error)
			if !errors.As(err, &ierr) || !errors.Is(err, ErrIllegalState) {
				t.Errorf("panic value %v is not an illegal-state Error", err)
			}
		}()
		e := MustNewEncoder(UTF8)
		e.Flush(NewByteBuffer(4))
	}()
}

func TestCanEncode(t *testing.T) {
	tests := []struct {
		charset string
		text    string
		want    bool
	}{
		{"US-ASCII", "plain", true},
		{"US-ASCII", "é", false},
		{"Shift_JIS", "日本語", true},
		{"Shift_JIS", "한", false},
		{"x-IBM037-3270", "≤", true},
		{"IBM037", "≤", false},
		{"UTF-8", "😀", true},
	}
	for _, tt := range tests {
		e := MustNewEncoder(MustLookup(tt.charset))
		if got := e.CanEncodeString(tt.text); got != tt.want {
			t.Errorf("%s CanEncodeString(%q) = %v", tt.charset, tt.text, got)
		}
		_, err := e.EncodeAll(tt.text)
		if (err == nil) != tt.want {
			t.Errorf("%s EncodeAll(%q) error %v disagrees with CanEncodeString", tt.charset, tt.text, err)
		}
	}

	e := MustNewEncoder(UTF8)
	if e.CanEncodeChar(0xD800) {
		t.Error("lone surrogate reported encodable")
	}
	if !e.CanEncodeRune(0x1F600) {
		t.Error("supplementary rune reported unencodable")
	}
}

func TestOverflowResumes(t *testing.T) {
	// Small buffers force Overflow at nearly every step; the result must be
	// the same as converting in one go. Eight bytes holds the longest
	// single ISO-2022 step.
	for _, name := range []string{"UTF-8", "UTF-16", "Shift_JIS", "EUC-JP", "ISO-2022-JP", "x-IBM037-3270"} {
		t.Run(name, func(t *testing.T) {
			cs := MustLookup(name)
			text := "ab日本語≤😀"
			if !MustNewEncoder(cs).CanEncodeString(text) {
				text = "ab日本語"
				if !MustNewEncoder(cs).CanEncodeString(text) {
					text = "ab≤c"
				}
			}
			want, err := MustNewEncoder(cs).EncodeAll(text)
			if err != nil {
				t.Fatal(err)
			}

			e := MustNewEncoder(cs)
			in := WrapString(text)
			var got []byte
			out := NewByteBuffer(8)
			for {
				cr := e.Encode(in, out, true)
				out.Flip()
				got = append(got, out.Bytes()...)
				out.Clear()
				if cr.IsUnderflow() {
					break
				}
				if !cr.IsOverflow() {
					t.Fatalf("Encode = %v", cr)
				}
			}
			for {
				cr := e.Flush(out)
				out.Flip()
				got = append(got, out.Bytes()...)
				out.Clear()
				if cr.IsUnderflow() {
					break
				}
			}
			if !bytes.Equal(got, want) {
				t.Errorf("chunked % X, want % X", got, want)
			}

			d := cs.NewDecoder()
			src := WrapBytes(want)
			chars := NewCharBuffer(2)
			var text16 []uint16
			for {
				cr := d.Decode(src, chars, true)
				chars.Flip()
				text16 = append(text16, chars.Chars()...)
				chars.Clear()
				if cr.IsUnderflow() {
					break
				}
				if !cr.IsOverflow() {
					t.Fatalf("Decode = %v", cr)
				}
			}
			if s := WrapChars(text16).String(); s != text {
				t.Errorf("decoded %q, want %q", s, text)
			}
		})
	}
}

func TestShiftBytesUnmappable(t *testing.T) {
	tests := []struct {
		charsets []string
		runes    []rune
		replaced string
	}{
		{[]string{"ISO-2022-JP", "ISO-2022-KR", "x-ISO-2022-CN-GB"}, []rune{0x0E, 0x0F, 0x1B}, "a?b"},
		{[]string{"x-IBM037-3270", "x-IBM1047-3270", "x-IBM01140-3270"}, []rune{0x97}, "a\x1ab"},
	}
	for _, tt := range tests {
		for _, name := range tt.charsets {
			cs := MustLookup(name)
			for _, r := range tt.runes {
				e := MustNewEncoder(cs)
				if e.CanEncodeRune(r) {
					t.Errorf("%s: CanEncodeRune(%U) = true", name, r)
				}
				if cr := e.Encode(WrapChars([]uint16{uint16(r)}), NewByteBuffer(16), true); cr != Unmappable(1) {
					t.Errorf("%s: Encode(%U) = %v", name, r, cr)
				}

				b, err := e.OnUnmappableCharacter(Replace).EncodeAll("a" + string(r) + "b")
				if err != nil {
					t.Fatalf("%s: %v", name, err)
				}
				text, err := cs.NewDecoder().DecodeAll(b)
				if err != nil || text != tt.replaced {
					t.Errorf("%s: %U replaced as % X, decoded %q, %v", name, r, b, text, err)
				}
			}
		}
	}

	// Without the graphic escape, 0x08 is an ordinary byte.
	if b, err := MustNewEncoder(MustLookup("IBM037")).EncodeAll("\u0097"); err != nil || !bytes.Equal(b, []byte{0x08}) {
		t.Errorf("IBM037 U+0097 = % X, %v", b, err)
	}
}

// encodableCharsets returns the registered charsets that can encode,
// leaving out the small ones other tests register.
func encodableCharsets() []Charset {
	var list []Charset
	for _, cs := range Charsets() {
		if cs.CanEncode() && !strings.HasPrefix(cs.Name(), "test-") {
			list = append(list, cs)
		}
	}
	return list
}

// testRunes returns the BMP code points outside the surrogate range and a
// few supplementary ones. Short runs take a sample.
func testRunes() []rune {
	step := rune(1)
	if testing.Short() {
		step = 7
	}
	var rs []rune
	for r := rune(0); r <= 0xFFFF; r += step {
		if r < 0xD800 || r > 0xDFFF {
			rs = append(rs, r)
		}
	}
	return append(rs, 0x10000, 0x1F600, 0x20B9F, 0x10FFFF)
}

func TestCanEncodeEveryRune(t *testing.T) {
	runes := testRunes()
	for _, cs := range encodableCharsets() {
		t.Run(cs.Name(), func(t *testing.T) {
			t.Parallel()
			e := MustNewEncoder(cs)
			failures := 0
			for _, r := range runes {
				can := e.CanEncodeRune(r)
				_, err := e.EncodeAll(string(r))
				if can != (err == nil) {
					t.Errorf("%U: CanEncodeRune = %v, EncodeAll error %v", r, can, err)
					if failures++; failures == 10 {
						t.FailNow()
					}
				}
			}
		})
	}
}

func TestRoundTripEveryRune(t *testing.T) {
	runes := testRunes()
	for _, cs := range encodableCharsets() {
		t.Run(cs.Name(), func(t *testing.T) {
			t.Parallel()
			e := MustNewEncoder(cs)
			d := cs.NewDecoder()
			failures := 0
			fail := func(format string, args ...any) {
				t.Errorf(format, args...)
				if failures++; failures == 10 {
					t.FailNow()
				}
			}
			for _, r := range runes {
				// A leading U+FEFF is read back as a byte order mark.
				if r == 0xFEFF || !e.CanEncodeRune(r) {
					continue
				}
				b, err := e.EncodeAll(string(r))
				if err != nil {
					fail("%U: %v", r, err)
					continue
				}
				text, err := d.DecodeAll(b)
				if err != nil {
					fail("%U encoded as % X does not decode: %v", r, b, err)
					continue
				}
				// Fallbacks decode to another character, which must
				// encode the same way.
				again, err := e.EncodeAll(text)
				if err != nil || !bytes.Equal(again, b) {
					fail("%U encoded as % X, decoded %q, encoded again as % X, %v", r, b, text, again, err)
				}
			}
		})
	}
}

// sampleText is "A" followed by those of a few characters that e can
// encode.
func sampleText(e *Encoder) string {
	var sb strings.Builder
	sb.WriteByte('A')
	for _, r := range "é日€ｱ가中≤😀" {
		if e.CanEncodeRune(r) {
			sb.WriteRune(r)
		}
	}
	return sb.String()
}

// repeatsWithoutProgress calls step until a call moves neither position,
// then checks that further calls return the same result and still move
// nothing.
func repeatsWithoutProgress(t *testing.T, what string, step func() Result, pos func() [2]int) {
	t.Helper()
	for i := 0; i < 4; i++ {
		before := pos()
		cr := step()
		if pos() != before {
			continue
		}
		for j := 0; j < 2; j++ {
			if again := step(); again != cr || pos() != before {
				t.Errorf("%s: %v at %v, then %v at %v", what, cr, before, again, pos())
				return
			}
		}
		return
	}
	t.Errorf("%s: every call made progress", what)
}

func TestNoProgressRepeat(t *testing.T) {
	// Decode-only charsets read data written by a related charset.
	sources := map[string]Charset{
		"x-JISAutoDetect":      EUCJP,
		"x-UTF-BOM-AutoDetect": UTF16,
		"ISO-2022-CN":          ISO2022CNGB,
	}
	for _, cs := range Charsets() {
		if strings.HasPrefix(cs.Name(), "test-") {
			continue
		}
		src := cs
		if !cs.CanEncode() {
			if src = sources[cs.Name()]; src == nil {
				continue
			}
		}
		t.Run(cs.Name(), func(t *testing.T) {
			data, err := MustNewEncoder(src).EncodeAll(sampleText(MustNewEncoder(src)))
			if err != nil {
				t.Fatal(err)
			}

			decodeCases := []struct {
				name string
				data []byte
				out  int
			}{
				{"decode into full buffer", data, 0},
				{"decode cut input", data[:len(data)-1], 2*len(data) + 8},
			}
			for _, c := range decodeCases {
				d := cs.NewDecoder()
				in, out := WrapBytes(c.data), NewCharBuffer(c.out)
				repeatsWithoutProgress(t, c.name,
					func() Result { return d.Decode(in, out, false) },
					func() [2]int { return [2]int{in.Position(), out.Position()} })
			}

			if !cs.CanEncode() {
				return
			}
			e := MustNewEncoder(cs)
			units := append(toUTF16(sampleText(e)), 0xD83D)
			encodeCases := []struct {
				name string
				out  int
			}{
				{"encode into full buffer", 0},
				{"encode cut surrogate pair", 8*len(units) + 16},
			}
			for _, c := range encodeCases {
				e.Reset()
				in, out := WrapChars(units), NewByteBuffer(c.out)
				repeatsWithoutProgress(t, c.name,
					func() Result { return e.Encode(in, out, false) },
					func() [2]int { return [2]int{in.Position(), out.Position()} })
			}
		})
	}
}
