// This file is part of https://github.com/racingmars/charconv/
// Copyright 2025 by Matthew R. Wilson, licensed under the MIT license.
// See LICENSE in the project root for license information.

package charconv

// sjisConfig is Shift_JIS over a JIS X 0208 table in GL form. Lead bytes
// 0x81-0x9F and 0xE0-0xEF address the 94 rows two at a time; 0xF0-0xFC is
// the user-defined area, well formed but never mapped.
type sjisConfig struct {
	jis0208 DoubleByteTable
}

func isSJISLead(b byte) bool {
	return (b >= 0x81 && b <= 0x9F) || (b >= 0xE0 && b <= 0xFC)
}

func isSJISTrail(b byte) bool {
	return (b >= 0x40 && b <= 0x7E) || (b >= 0x80 && b <= 0xFC)
}

// sjisToJIS converts a Shift_JIS pair to JIS X 0208 row/cell bytes.
func sjisToJIS(b1, b2 byte) (j1, j2 byte) {
	row := int(b1)
	if row >= 0xE0 {
		row -= 0x40
	}
	row = (row-0x81)*2 + 0x21
	cell := int(b2)
	if cell >= 0x80 {
		cell--
	}
	if cell >= 0x9E {
		row++
		cell -= 0x9E - 0x21
	} else {
		cell -= 0x40 - 0x21
	}
	return byte(row), byte(cell)
}

// jisToSJIS is the inverse of sjisToJIS.
func jisToSJIS(j1, j2 byte) (b1, b2 byte) {
	row, cell := int(j1)-0x21, int(j2)-0x21
	lead := row/2 + 0x81
	if lead > 0x9F {
		lead += 0x40
	}
	var trail int
	if row%2 == 0 {
		trail = cell + 0x40
		if trail >= 0x7F {
			trail++
		}
	} else {
		trail = cell + 0x9F
	}
	return byte(lead), byte(trail)
}

type sjisDecoder struct {
	statelessDecoder
	cfg *sjisConfig
}

func (d *sjisDecoder) decode(in *ByteBuffer, out *CharBuffer, eoi bool) Result {
	src, dst := in.rest(), out.rest()
	sp, dp := 0, 0
	for sp < len(src) {
		if dp >= len(dst) {
			return decoded(in, sp, out, dp, Overflow)
		}
		b1 := src[sp]
		switch {
		case b1 < 0x80:
			dst[dp] = uint16(b1)
			sp++
			dp++
			continue
		case b1 >= 0xA1 && b1 <= 0xDF:
			dst[dp] = 0xFF61 + uint16(b1-0xA1)
			sp++
			dp++
			continue
		case !isSJISLead(b1):
			return decoded(in, sp, out, dp, Malformed(1))
		}

		if sp+1 >= len(src) {
			return decoded(in, sp, out, dp, Underflow)
		}
		b2 := src[sp+1]
		if !isSJISTrail(b2) {
			return decoded(in, sp, out, dp, Malformed(1))
		}
		if b1 >= 0xF0 {
			return decoded(in, sp, out, dp, Unmappable(2))
		}
		r, ok := d.cfg.jis0208.DecodePair(sjisToJIS(b1, b2))
		if !ok {
			return decoded(in, sp, out, dp, Unmappable(2))
		}
		n := putRune(dst[dp:], r)
		if n == 0 {
			return decoded(in, sp, out, dp, Overflow)
		}
		sp += 2
		dp += n
	}
	return decoded(in, sp, out, dp, Underflow)
}

type sjisEncoder struct {
	statelessEncoder
	cfg *sjisConfig
}

func (e *sjisEncoder) encode(in *CharBuffer, out *ByteBuffer, eoi bool) Result {
	src, dst := in.rest(), out.rest()
	sp, dp := 0, 0
	for sp < len(src) {
		r, n, bad := codePointAt(src, sp)
		if bad {
			return encoded(in, sp, out, dp, Malformed(1))
		}
		if n == 0 {
			return encoded(in, sp, out, dp, Underflow)
		}

		switch {
		case r < 0x80:
			if dp >= len(dst) {
				return encoded(in, sp, out, dp, Overflow)
			}
			dst[dp] = byte(r)
			dp++
		case r >= 0xFF61 && r <= 0xFF9F:
			if dp >= len(dst) {
				return encoded(in, sp, out, dp, Overflow)
			}
			dst[dp] = byte(r - 0xFF61 + 0xA1)
			dp++
		default:
			j1, j2, ok := e.cfg.jis0208.EncodeRune(r)
			if !ok {
				return encoded(in, sp, out, dp, Unmappable(n))
			}
			if dp+2 > len(dst) {
				return encoded(in, sp, out, dp, Overflow)
			}
			dst[dp], dst[dp+1] = jisToSJIS(j1, j2)
			dp += 2
		}
		sp += n
	}
	return encoded(in, sp, out, dp, Underflow)
}
