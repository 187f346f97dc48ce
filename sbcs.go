// This file is part of https://github.com/racingmars/charconv/
// Copyright 2025 by Matthew R. Wilson, licensed under the MIT license.
// See LICENSE in the project root for license information.

package charconv

// sbcsConfig describes a single-byte charset. With a graphic escape byte
// set, that byte shifts the one byte after it into a second table, the
// way 3270 terminals reach the APL/text symbols of IBM CP310.
type sbcsConfig struct {
	table SingleByteTable

	// unmappedIsMalformed reports bytes missing from the table as
	// malformed rather than unmappable (US-ASCII's high half).
	unmappedIsMalformed bool

	hasGE   bool
	ge      byte
	geTable SingleByteTable
}

type sbcsDecoder struct {
	statelessDecoder
	cfg *sbcsConfig
}

func (d *sbcsDecoder) decode(in *ByteBuffer, out *CharBuffer, eoi bool) Result {
	src, dst := in.rest(), out.rest()
	sp, dp := 0, 0
	for sp < len(src) {
		if dp >= len(dst) {
			return decoded(in, sp, out, dp, Overflow)
		}
		b := src[sp]

		// Enter graphic escape if necessary.
		if d.cfg.hasGE && b == d.cfg.ge {
			if sp+1 >= len(src) {
				return decoded(in, sp, out, dp, Underflow)
			}
			r, ok := d.cfg.geTable.DecodeByte(src[sp+1])
			if !ok {
				return decoded(in, sp, out, dp, Unmappable(2))
			}
			n := putRune(dst[dp:], r)
			if n == 0 {
				return decoded(in, sp, out, dp, Overflow)
			}
			sp += 2
			dp += n
			continue
		}

		r, ok := d.cfg.table.DecodeByte(b)
		if !ok {
			if d.cfg.unmappedIsMalformed {
				return decoded(in, sp, out, dp, Malformed(1))
			}
			return decoded(in, sp, out, dp, Unmappable(1))
		}
		n := putRune(dst[dp:], r)
		if n == 0 {
			return decoded(in, sp, out, dp, Overflow)
		}
		sp++
		dp += n
	}
	return decoded(in, sp, out, dp, Underflow)
}

type sbcsEncoder struct {
	statelessEncoder
	cfg *sbcsConfig
}

func (e *sbcsEncoder) encode(in *CharBuffer, out *ByteBuffer, eoi bool) Result {
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

		// A character stored at the graphic escape byte cannot be written.
		if b, ok := e.cfg.table.EncodeRune(r); ok && !(e.cfg.hasGE && b == e.cfg.ge) {
			if dp >= len(dst) {
				return encoded(in, sp, out, dp, Overflow)
			}
			dst[dp] = b
			dp++
			sp += n
			continue
		}
		if e.cfg.hasGE {
			// Include graphic escape character to switch to the GE table.
			if b, ok := e.cfg.geTable.EncodeRune(r); ok {
				if dp+2 > len(dst) {
					return encoded(in, sp, out, dp, Overflow)
				}
				dst[dp], dst[dp+1] = e.cfg.ge, b
				dp += 2
				sp += n
				continue
			}
		}
		return encoded(in, sp, out, dp, Unmappable(n))
	}
	return encoded(in, sp, out, dp, Underflow)
}

// asciiTable is US-ASCII.
type asciiTable struct{}

func (asciiTable) DecodeByte(b byte) (rune, bool) {
	return rune(b), b < 0x80
}

func (asciiTable) EncodeRune(r rune) (byte, bool) {
	if r >= 0 && r < 0x80 {
		return byte(r), true
	}
	return 0, false
}

// latin1Table is ISO-8859-1, where every byte is its own code point.
type latin1Table struct{}

func (latin1Table) DecodeByte(b byte) (rune, bool) { return rune(b), true }

func (latin1Table) EncodeRune(r rune) (byte, bool) {
	if r >= 0 && r < 0x100 {
		return byte(r), true
	}
	return 0, false
}
