// This file is part of https://github.com/racingmars/charconv/
// Copyright 2025 by Matthew R. Wilson, licensed under the MIT license.
// See LICENSE in the project root for license information.

package charconv

// EBCDIC shift controls for mixed single/double-byte data.
const (
	ebcdicSO = 0x0E
	ebcdicSI = 0x0F
)

// ebcdicMixedConfig is a host mixed charset (IBM930 and friends): SO
// switches to double-byte mode, SI back to single-byte mode.
type ebcdicMixedConfig struct {
	single SingleByteTable
	double DoubleByteTable
	lead   *byteSet
	trail  *byteSet
}

type ebcdicMixedDecoder struct {
	cfg     *ebcdicMixedConfig
	shifted bool
}

func (d *ebcdicMixedDecoder) reset()                   { d.shifted = false }
func (d *ebcdicMixedDecoder) flush(*CharBuffer) Result { return Underflow }

func (d *ebcdicMixedDecoder) decode(in *ByteBuffer, out *CharBuffer, eoi bool) Result {
	src, dst := in.rest(), out.rest()
	sp, dp := 0, 0
	for sp < len(src) {
		b1 := src[sp]
		switch b1 {
		case ebcdicSO:
			d.shifted = true
			sp++
			continue
		case ebcdicSI:
			d.shifted = false
			sp++
			continue
		}
		if dp >= len(dst) {
			return decoded(in, sp, out, dp, Overflow)
		}

		if !d.shifted {
			r, ok := d.cfg.single.DecodeByte(b1)
			if !ok {
				return decoded(in, sp, out, dp, Unmappable(1))
			}
			dst[dp] = uint16(r)
			sp++
			dp++
			continue
		}

		if !d.cfg.lead[b1] {
			return decoded(in, sp, out, dp, Malformed(1))
		}
		if sp+1 >= len(src) {
			return decoded(in, sp, out, dp, Underflow)
		}
		b2 := src[sp+1]
		if !d.cfg.trail[b2] {
			return decoded(in, sp, out, dp, Malformed(1))
		}
		r, ok := d.cfg.double.DecodePair(b1, b2)
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

type ebcdicMixedEncoder struct {
	cfg     *ebcdicMixedConfig
	shifted bool
}

func (e *ebcdicMixedEncoder) reset() { e.shifted = false }

// flush returns to single-byte mode.
func (e *ebcdicMixedEncoder) flush(out *ByteBuffer) Result {
	if e.shifted {
		if !out.HasRemaining() {
			return Overflow
		}
		out.Put(ebcdicSI)
		e.shifted = false
	}
	return Underflow
}

func (e *ebcdicMixedEncoder) prepareReplacement(out *ByteBuffer, n int) bool {
	need := n
	if e.shifted {
		need++
	}
	if out.Remaining() < need {
		return false
	}
	if e.shifted {
		out.Put(ebcdicSI)
		e.shifted = false
	}
	return true
}

func (e *ebcdicMixedEncoder) encode(in *CharBuffer, out *ByteBuffer, eoi bool) Result {
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

		if b, ok := e.cfg.single.EncodeRune(r); ok && b != ebcdicSO && b != ebcdicSI {
			need := 1
			if e.shifted {
				need++
			}
			if dp+need > len(dst) {
				return encoded(in, sp, out, dp, Overflow)
			}
			if e.shifted {
				dst[dp] = ebcdicSI
				dp++
				e.shifted = false
			}
			dst[dp] = b
			dp++
			sp += n
			continue
		}

		b1, b2, ok := e.cfg.double.EncodeRune(r)
		if !ok {
			return encoded(in, sp, out, dp, Unmappable(n))
		}
		need := 2
		if !e.shifted {
			need++
		}
		if dp+need > len(dst) {
			return encoded(in, sp, out, dp, Overflow)
		}
		if !e.shifted {
			dst[dp] = ebcdicSO
			dp++
			e.shifted = true
		}
		dst[dp], dst[dp+1] = b1, b2
		dp += 2
		sp += n
	}
	return encoded(in, sp, out, dp, Underflow)
}
