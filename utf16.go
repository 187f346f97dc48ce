// This file is part of https://github.com/racingmars/charconv/
// Copyright 2025 by Matthew R. Wilson, licensed under the MIT license.
// See LICENSE in the project root for license information.

package charconv

// unicodeForm describes the byte order handling of a UTF-16 or UTF-32
// charset.
type unicodeForm struct {
	// littleEndian is the byte order used when no BOM says otherwise.
	littleEndian bool

	// detectBOM makes the decoder look for a byte order mark at the very
	// start of the input. A mark found there is consumed and fixes the
	// byte order; anywhere else U+FEFF is an ordinary character.
	detectBOM bool

	// writeBOM makes the encoder emit a mark before the first character.
	writeBOM bool
}

type utf16Decoder struct {
	form    unicodeForm
	le      bool
	started bool
}

func newUTF16Decoder(f unicodeForm) *utf16Decoder {
	return &utf16Decoder{form: f, le: f.littleEndian}
}

func (d *utf16Decoder) reset() {
	d.le = d.form.littleEndian
	d.started = false
}

func (d *utf16Decoder) flush(*CharBuffer) Result { return Underflow }

func (d *utf16Decoder) unit(src []byte) uint16 {
	if d.le {
		return uint16(src[1])<<8 | uint16(src[0])
	}
	return uint16(src[0])<<8 | uint16(src[1])
}

func (d *utf16Decoder) decode(in *ByteBuffer, out *CharBuffer, eoi bool) Result {
	src, dst := in.rest(), out.rest()
	sp, dp := 0, 0

	if !d.started {
		if len(src) < 2 {
			return Underflow
		}
		if d.form.detectBOM {
			switch {
			case src[0] == 0xFE && src[1] == 0xFF:
				d.le = false
				sp = 2
			case src[0] == 0xFF && src[1] == 0xFE:
				d.le = true
				sp = 2
			}
		}
		d.started = true
	}

	for sp+2 <= len(src) {
		if dp >= len(dst) {
			return decoded(in, sp, out, dp, Overflow)
		}
		c := d.unit(src[sp:])
		if !isSurrogate(c) {
			dst[dp] = c
			sp += 2
			dp++
			continue
		}
		if isLowSurrogate(c) {
			return decoded(in, sp, out, dp, Malformed(2))
		}
		if sp+4 > len(src) {
			return decoded(in, sp, out, dp, Underflow)
		}
		c2 := d.unit(src[sp+2:])
		if !isLowSurrogate(c2) {
			return decoded(in, sp, out, dp, Malformed(2))
		}
		if dp+2 > len(dst) {
			return decoded(in, sp, out, dp, Overflow)
		}
		dst[dp], dst[dp+1] = c, c2
		sp += 4
		dp += 2
	}
	return decoded(in, sp, out, dp, Underflow)
}

type utf16Encoder struct {
	form    unicodeForm
	started bool
}

func newUTF16Encoder(f unicodeForm) *utf16Encoder { return &utf16Encoder{form: f} }

func (e *utf16Encoder) reset()                   { e.started = false }
func (e *utf16Encoder) flush(*ByteBuffer) Result { return Underflow }

func (e *utf16Encoder) put(dst []byte, c uint16) {
	if e.form.littleEndian {
		dst[0], dst[1] = byte(c), byte(c>>8)
	} else {
		dst[0], dst[1] = byte(c>>8), byte(c)
	}
}

func (e *utf16Encoder) encode(in *CharBuffer, out *ByteBuffer, eoi bool) Result {
	src, dst := in.rest(), out.rest()
	sp, dp := 0, 0

	if !e.started && len(src) > 0 {
		if e.form.writeBOM {
			if len(dst) < 2 {
				return Overflow
			}
			e.put(dst, 0xFEFF)
			dp = 2
		}
		e.started = true
	}

	for sp < len(src) {
		_, n, bad := codePointAt(src, sp)
		if bad {
			return encoded(in, sp, out, dp, Malformed(1))
		}
		if n == 0 {
			return encoded(in, sp, out, dp, Underflow)
		}
		if dp+2*n > len(dst) {
			return encoded(in, sp, out, dp, Overflow)
		}
		for i := 0; i < n; i++ {
			e.put(dst[dp:], src[sp+i])
			dp += 2
		}
		sp += n
	}
	return encoded(in, sp, out, dp, Underflow)
}
