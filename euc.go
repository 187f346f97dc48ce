// This file is part of https://github.com/racingmars/charconv/
// Copyright 2025 by Matthew R. Wilson, licensed under the MIT license.
// See LICENSE in the project root for license information.

package charconv

const (
	ss2 = 0x8E
	ss3 = 0x8F
)

// eucConfig describes an EUC charset. All double-byte tables are in GL
// form (row and cell bytes 0x21-0x7E); EUC sets the high bit of both.
//
//	G0  ASCII
//	G1  g1, two bytes A1-FE
//	G2  SS2 + one byte A1-DF half-width katakana (kana), or
//	    SS2 + A1+p + two bytes for CNS 11643 plane p+1 (planes)
//	G3  SS3 + two bytes A1-FE (g3)
type eucConfig struct {
	g1     DoubleByteTable
	kana   bool
	g3     DoubleByteTable
	planes []DoubleByteTable // index 0 is plane 1; nil entries are unsupported
}

func isEUCByte(b byte) bool { return b >= 0xA1 && b <= 0xFE }

type eucDecoder struct {
	statelessDecoder
	cfg *eucConfig
}

func (d *eucDecoder) decode(in *ByteBuffer, out *CharBuffer, eoi bool) Result {
	src, dst := in.rest(), out.rest()
	sp, dp := 0, 0
	for sp < len(src) {
		if dp >= len(dst) {
			return decoded(in, sp, out, dp, Overflow)
		}
		b1 := src[sp]
		avail := len(src) - sp

		var r rune
		var ok bool
		var n int
		switch {
		case b1 < 0x80:
			r, ok, n = rune(b1), true, 1

		case isEUCByte(b1):
			if avail < 2 {
				return decoded(in, sp, out, dp, Underflow)
			}
			if !isEUCByte(src[sp+1]) {
				return decoded(in, sp, out, dp, Malformed(1))
			}
			r, ok = d.cfg.g1.DecodePair(b1&0x7F, src[sp+1]&0x7F)
			n = 2

		case b1 == ss2 && d.cfg.kana:
			if avail < 2 {
				return decoded(in, sp, out, dp, Underflow)
			}
			b2 := src[sp+1]
			if b2 < 0xA1 || b2 > 0xDF {
				return decoded(in, sp, out, dp, Malformed(1))
			}
			r, ok, n = 0xFF61+rune(b2-0xA1), true, 2

		case b1 == ss2 && d.cfg.planes != nil:
			if avail < 2 {
				return decoded(in, sp, out, dp, Underflow)
			}
			p := int(src[sp+1]) - 0xA1
			if p < 0 || p >= 16 {
				return decoded(in, sp, out, dp, Malformed(1))
			}
			for i := 2; i < 4; i++ {
				if avail <= i {
					return decoded(in, sp, out, dp, Underflow)
				}
				if !isEUCByte(src[sp+i]) {
					return decoded(in, sp, out, dp, Malformed(1))
				}
			}
			n = 4
			if p < len(d.cfg.planes) && d.cfg.planes[p] != nil {
				r, ok = d.cfg.planes[p].DecodePair(src[sp+2]&0x7F, src[sp+3]&0x7F)
			}

		case b1 == ss3 && d.cfg.g3 != nil:
			for i := 1; i < 3; i++ {
				if avail <= i {
					return decoded(in, sp, out, dp, Underflow)
				}
				if !isEUCByte(src[sp+i]) {
					return decoded(in, sp, out, dp, Malformed(1))
				}
			}
			r, ok = d.cfg.g3.DecodePair(src[sp+1]&0x7F, src[sp+2]&0x7F)
			n = 3

		default:
			return decoded(in, sp, out, dp, Malformed(1))
		}

		if !ok {
			return decoded(in, sp, out, dp, Unmappable(n))
		}
		w := putRune(dst[dp:], r)
		if w == 0 {
			return decoded(in, sp, out, dp, Overflow)
		}
		sp += n
		dp += w
	}
	return decoded(in, sp, out, dp, Underflow)
}

type eucEncoder struct {
	statelessEncoder
	cfg *eucConfig
}

// encodeRune returns the EUC bytes for r in buf, or 0 if r is unmapped.
func (e *eucEncoder) encodeRune(r rune, buf *[4]byte) int {
	if r < 0x80 {
		buf[0] = byte(r)
		return 1
	}
	if e.cfg.kana && r >= 0xFF61 && r <= 0xFF9F {
		buf[0], buf[1] = ss2, byte(r-0xFF61+0xA1)
		return 2
	}
	if b1, b2, ok := e.cfg.g1.EncodeRune(r); ok {
		buf[0], buf[1] = b1|0x80, b2|0x80
		return 2
	}
	if e.cfg.g3 != nil {
		if b1, b2, ok := e.cfg.g3.EncodeRune(r); ok {
			buf[0], buf[1], buf[2] = ss3, b1|0x80, b2|0x80
			return 3
		}
	}
	for p := 1; p < len(e.cfg.planes); p++ {
		if e.cfg.planes[p] == nil {
			continue
		}
		if b1, b2, ok := e.cfg.planes[p].EncodeRune(r); ok {
			buf[0], buf[1], buf[2], buf[3] = ss2, byte(0xA1+p), b1|0x80, b2|0x80
			return 4
		}
	}
	return 0
}

func (e *eucEncoder) encode(in *CharBuffer, out *ByteBuffer, eoi bool) Result {
	src, dst := in.rest(), out.rest()
	sp, dp := 0, 0
	var buf [4]byte
	for sp < len(src) {
		r, n, bad := codePointAt(src, sp)
		if bad {
			return encoded(in, sp, out, dp, Malformed(1))
		}
		if n == 0 {
			return encoded(in, sp, out, dp, Underflow)
		}
		w := e.encodeRune(r, &buf)
		if w == 0 {
			return encoded(in, sp, out, dp, Unmappable(n))
		}
		if dp+w > len(dst) {
			return encoded(in, sp, out, dp, Overflow)
		}
		copy(dst[dp:], buf[:w])
		dp += w
		sp += n
	}
	return encoded(in, sp, out, dp, Underflow)
}
