// This file is part of https://github.com/racingmars/charconv/
// Copyright 2025 by Matthew R. Wilson, licensed under the MIT license.
// See LICENSE in the project root for license information.

package charconv

// byteSet is a set of byte values, used for lead and trail byte ranges.
type byteSet [256]bool

func byteRange(ranges ...[2]byte) *byteSet {
	var s byteSet
	for _, r := range ranges {
		for b := int(r[0]); b <= int(r[1]); b++ {
			s[b] = true
		}
	}
	return &s
}

// dbcsConfig describes a stateless double-byte charset whose table is
// indexed by the raw lead and trail bytes (GBK, Big5, loaded tables).
// Bytes that are not lead bytes go through single.
type dbcsConfig struct {
	single SingleByteTable
	lead   *byteSet
	trail  *byteSet
	table  DoubleByteTable
}

type dbcsDecoder struct {
	statelessDecoder
	cfg *dbcsConfig
}

func (d *dbcsDecoder) decode(in *ByteBuffer, out *CharBuffer, eoi bool) Result {
	src, dst := in.rest(), out.rest()
	sp, dp := 0, 0
	for sp < len(src) {
		if dp >= len(dst) {
			return decoded(in, sp, out, dp, Overflow)
		}
		b1 := src[sp]
		if !d.cfg.lead[b1] {
			r, ok := d.cfg.single.DecodeByte(b1)
			if !ok {
				return decoded(in, sp, out, dp, Unmappable(1))
			}
			dst[dp] = uint16(r)
			sp++
			dp++
			continue
		}

		if sp+1 >= len(src) {
			return decoded(in, sp, out, dp, Underflow)
		}
		b2 := src[sp+1]
		if !d.cfg.trail[b2] {
			return decoded(in, sp, out, dp, Malformed(1))
		}
		r, ok := d.cfg.table.DecodePair(b1, b2)
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

type dbcsEncoder struct {
	statelessEncoder
	cfg *dbcsConfig
}

func (e *dbcsEncoder) encode(in *CharBuffer, out *ByteBuffer, eoi bool) Result {
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

		if b, ok := e.cfg.single.EncodeRune(r); ok && !e.cfg.lead[b] {
			if dp >= len(dst) {
				return encoded(in, sp, out, dp, Overflow)
			}
			dst[dp] = b
			dp++
			sp += n
			continue
		}
		b1, b2, ok := e.cfg.table.EncodeRune(r)
		if !ok {
			return encoded(in, sp, out, dp, Unmappable(n))
		}
		if dp+2 > len(dst) {
			return encoded(in, sp, out, dp, Overflow)
		}
		dst[dp], dst[dp+1] = b1, b2
		dp += 2
		sp += n
	}
	return encoded(in, sp, out, dp, Underflow)
}
