// This file is part of https://github.com/racingmars/charconv/
// Copyright 2025 by Matthew R. Wilson, licensed under the MIT license.
// See LICENSE in the project root for license information.

package charconv

type utf32Decoder struct {
	form    unicodeForm
	le      bool
	started bool
}

func newUTF32Decoder(f unicodeForm) *utf32Decoder {
	return &utf32Decoder{form: f, le: f.littleEndian}
}

func (d *utf32Decoder) reset() {
	d.le = d.form.littleEndian
	d.started = false
}

func (d *utf32Decoder) flush(*CharBuffer) Result { return Underflow }

func be32(b []byte) uint32 {
	return uint32(b[0])<<24 | uint32(b[1])<<16 | uint32(b[2])<<8 | uint32(b[3])
}

func le32(b []byte) uint32 {
	return uint32(b[3])<<24 | uint32(b[2])<<16 | uint32(b[1])<<8 | uint32(b[0])
}

func (d *utf32Decoder) decode(in *ByteBuffer, out *CharBuffer, eoi bool) Result {
	src, dst := in.rest(), out.rest()
	sp, dp := 0, 0

	if !d.started {
		if len(src) < 4 {
			return Underflow
		}
		if d.form.detectBOM {
			switch {
			case be32(src) == 0xFEFF:
				d.le = false
				sp = 4
			case le32(src) == 0xFEFF:
				d.le = true
				sp = 4
			}
		}
		d.started = true
	}

	for sp+4 <= len(src) {
		var cp uint32
		if d.le {
			cp = le32(src[sp:])
		} else {
			cp = be32(src[sp:])
		}
		if cp > 0x10FFFF || (cp >= surrHighStart && cp < surrEnd) {
			return decoded(in, sp, out, dp, Malformed(4))
		}
		w := putRune(dst[dp:], rune(cp))
		if w == 0 {
			return decoded(in, sp, out, dp, Overflow)
		}
		sp += 4
		dp += w
	}
	return decoded(in, sp, out, dp, Underflow)
}

type utf32Encoder struct {
	form    unicodeForm
	started bool
}

func newUTF32Encoder(f unicodeForm) *utf32Encoder { return &utf32Encoder{form: f} }

func (e *utf32Encoder) reset()                   { e.started = false }
func (e *utf32Encoder) flush(*ByteBuffer) Result { return Underflow }

func (e *utf32Encoder) put(dst []byte, r rune) {
	v := uint32(r)
	if e.form.littleEndian {
		dst[0], dst[1], dst[2], dst[3] = byte(v), byte(v>>8), byte(v>>16), byte(v>>24)
	} else {
		dst[0], dst[1], dst[2], dst[3] = byte(v>>24), byte(v>>16), byte(v>>8), byte(v)
	}
}

func (e *utf32Encoder) encode(in *CharBuffer, out *ByteBuffer, eoi bool) Result {
	src, dst := in.rest(), out.rest()
	sp, dp := 0, 0

	if !e.started && len(src) > 0 {
		if e.form.writeBOM {
			if len(dst) < 4 {
				return Overflow
			}
			e.put(dst, 0xFEFF)
			dp = 4
		}
		e.started = true
	}

	for sp < len(src) {
		r, n, bad := codePointAt(src, sp)
		if bad {
			return encoded(in, sp, out, dp, Malformed(1))
		}
		if n == 0 {
			return encoded(in, sp, out, dp, Underflow)
		}
		if dp+4 > len(dst) {
			return encoded(in, sp, out, dp, Overflow)
		}
		e.put(dst[dp:], r)
		sp += n
		dp += 4
	}
	return encoded(in, sp, out, dp, Underflow)
}
