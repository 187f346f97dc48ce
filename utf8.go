// This file is part of https://github.com/racingmars/charconv/
// Copyright 2025 by Matthew R. Wilson, licensed under the MIT license.
// See LICENSE in the project root for license information.

package charconv

// acceptRange gives the valid range of the first continuation byte after a
// given lead byte. Later continuation bytes are always 0x80-0xBF.
type acceptRange struct{ lo, hi byte }

var acceptRanges = [...]acceptRange{
	0: {0x80, 0xBF},
	1: {0xA0, 0xBF}, // E0: no overlong 3-byte forms
	2: {0x80, 0x9F}, // ED: no surrogates
	3: {0x90, 0xBF}, // F0: no overlong 4-byte forms
	4: {0x80, 0x8F}, // F4: nothing above U+10FFFF
}

// utf8Lead returns the sequence length and accept range index for a lead
// byte, or 0 for bytes that cannot start a sequence (80-C1, F5-FF).
func utf8Lead(b byte) (n int, accept int) {
	switch {
	case b < 0x80:
		return 1, 0
	case b < 0xC2:
		return 0, 0
	case b < 0xE0:
		return 2, 0
	case b == 0xE0:
		return 3, 1
	case b == 0xED:
		return 3, 2
	case b < 0xF0:
		return 3, 0
	case b == 0xF0:
		return 4, 3
	case b < 0xF4:
		return 4, 0
	case b == 0xF4:
		return 4, 4
	}
	return 0, 0
}

// utf8Check validates the sequence starting at src[0]. It returns the
// sequence length when complete and valid; otherwise bad is the length of
// the maximal valid prefix (at least 1) when invalid, or 0 when src ends
// before the sequence is complete.
func utf8Check(src []byte, acceptTable *[5]acceptRange) (n int, bad int) {
	n, ai := utf8Lead(src[0])
	if n == 0 {
		return 0, 1
	}
	for i := 1; i < n; i++ {
		if i >= len(src) {
			return 0, 0
		}
		lo, hi := byte(0x80), byte(0xBF)
		if i == 1 {
			lo, hi = acceptTable[ai].lo, acceptTable[ai].hi
		}
		if src[i] < lo || src[i] > hi {
			return 0, i
		}
	}
	return n, 0
}

func utf8Rune(src []byte, n int) rune {
	switch n {
	case 1:
		return rune(src[0])
	case 2:
		return rune(src[0]&0x1F)<<6 | rune(src[1]&0x3F)
	case 3:
		return rune(src[0]&0x0F)<<12 | rune(src[1]&0x3F)<<6 | rune(src[2]&0x3F)
	}
	return rune(src[0]&0x07)<<18 | rune(src[1]&0x3F)<<12 | rune(src[2]&0x3F)<<6 | rune(src[3]&0x3F)
}

func appendUTF8(dst []byte, r rune) []byte {
	switch {
	case r < 0x80:
		return append(dst, byte(r))
	case r < 0x800:
		return append(dst, 0xC0|byte(r>>6), 0x80|byte(r)&0x3F)
	case r < 0x10000:
		return append(dst, 0xE0|byte(r>>12), 0x80|byte(r>>6)&0x3F, 0x80|byte(r)&0x3F)
	}
	return append(dst, 0xF0|byte(r>>18), 0x80|byte(r>>12)&0x3F, 0x80|byte(r>>6)&0x3F, 0x80|byte(r)&0x3F)
}

type utf8Decoder struct {
	statelessDecoder
}

func (utf8Decoder) decode(in *ByteBuffer, out *CharBuffer, eoi bool) Result {
	src, dst := in.rest(), out.rest()
	sp, dp := 0, 0
	for sp < len(src) {
		if dp >= len(dst) {
			return decoded(in, sp, out, dp, Overflow)
		}
		if b := src[sp]; b < 0x80 {
			dst[dp] = uint16(b)
			sp++
			dp++
			continue
		}
		n, bad := utf8Check(src[sp:], &acceptRanges)
		if bad > 0 {
			return decoded(in, sp, out, dp, Malformed(bad))
		}
		if n == 0 {
			return decoded(in, sp, out, dp, Underflow)
		}
		w := putRune(dst[dp:], utf8Rune(src[sp:], n))
		if w == 0 {
			return decoded(in, sp, out, dp, Overflow)
		}
		sp += n
		dp += w
	}
	return decoded(in, sp, out, dp, Underflow)
}

type utf8Encoder struct {
	statelessEncoder
}

func (utf8Encoder) encode(in *CharBuffer, out *ByteBuffer, eoi bool) Result {
	src, dst := in.rest(), out.rest()
	sp, dp := 0, 0
	var buf [4]byte
	for sp < len(src) {
		if c := src[sp]; c < 0x80 {
			if dp >= len(dst) {
				return encoded(in, sp, out, dp, Overflow)
			}
			dst[dp] = byte(c)
			sp++
			dp++
			continue
		}
		r, n, bad := codePointAt(src, sp)
		if bad {
			return encoded(in, sp, out, dp, Malformed(1))
		}
		if n == 0 {
			return encoded(in, sp, out, dp, Underflow)
		}
		seq := appendUTF8(buf[:0], r)
		if dp+len(seq) > len(dst) {
			return encoded(in, sp, out, dp, Overflow)
		}
		dp += copy(dst[dp:], seq)
		sp += n
	}
	return encoded(in, sp, out, dp, Underflow)
}

// CESU-8 is UTF-8 in which each UTF-16 code unit is encoded separately, so
// supplementary characters take two 3-byte sequences and no 4-byte form
// exists.

var cesuAcceptRanges = [...]acceptRange{
	0: {0x80, 0xBF},
	1: {0xA0, 0xBF},
	2: {0x80, 0xBF}, // ED: surrogate halves are the point
	3: {0, 0},
	4: {0, 0},
}

type cesu8Decoder struct {
	statelessDecoder
}

// cesuUnit decodes one 1-3 byte sequence into a code unit.
func cesuUnit(src []byte) (c uint16, n int, bad int) {
	if src[0] >= 0xF0 {
		return 0, 0, 1
	}
	n, bad = utf8Check(src, &cesuAcceptRanges)
	if n == 0 {
		return 0, 0, bad
	}
	return uint16(utf8Rune(src, n)), n, 0
}

func (cesu8Decoder) decode(in *ByteBuffer, out *CharBuffer, eoi bool) Result {
	src, dst := in.rest(), out.rest()
	sp, dp := 0, 0
	for sp < len(src) {
		if dp >= len(dst) {
			return decoded(in, sp, out, dp, Overflow)
		}
		c, n, bad := cesuUnit(src[sp:])
		if bad > 0 {
			return decoded(in, sp, out, dp, Malformed(bad))
		}
		if n == 0 {
			return decoded(in, sp, out, dp, Underflow)
		}
		if !isSurrogate(c) {
			dst[dp] = c
			sp += n
			dp++
			continue
		}
		if isLowSurrogate(c) {
			return decoded(in, sp, out, dp, Malformed(3))
		}

		// A high surrogate must be followed by an encoded low surrogate.
		if sp+n >= len(src) {
			return decoded(in, sp, out, dp, Underflow)
		}
		c2, n2, bad2 := cesuUnit(src[sp+n:])
		if n2 == 0 && bad2 == 0 {
			return decoded(in, sp, out, dp, Underflow)
		}
		if bad2 > 0 || !isLowSurrogate(c2) {
			return decoded(in, sp, out, dp, Malformed(3))
		}
		if dp+2 > len(dst) {
			return decoded(in, sp, out, dp, Overflow)
		}
		dst[dp], dst[dp+1] = c, c2
		sp += n + n2
		dp += 2
	}
	return decoded(in, sp, out, dp, Underflow)
}

type cesu8Encoder struct {
	statelessEncoder
}

func (cesu8Encoder) encode(in *CharBuffer, out *ByteBuffer, eoi bool) Result {
	src, dst := in.rest(), out.rest()
	sp, dp := 0, 0
	var buf [6]byte
	for sp < len(src) {
		_, n, bad := codePointAt(src, sp)
		if bad {
			return encoded(in, sp, out, dp, Malformed(1))
		}
		if n == 0 {
			return encoded(in, sp, out, dp, Underflow)
		}
		seq := buf[:0]
		for i := 0; i < n; i++ {
			seq = appendUTF8(seq, rune(src[sp+i]))
		}
		if dp+len(seq) > len(dst) {
			return encoded(in, sp, out, dp, Overflow)
		}
		dp += copy(dst[dp:], seq)
		sp += n
	}
	return encoded(in, sp, out, dp, Underflow)
}
