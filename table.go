// This file is part of https://github.com/racingmars/charconv/
// Copyright 2025 by Matthew R. Wilson, licensed under the MIT license.
// See LICENSE in the project root for license information.

package charconv

import "unicode/utf16"

// SingleByteTable maps between single bytes and code points. Concrete
// tables live in the table package.
type SingleByteTable interface {
	// DecodeByte returns the code point for b, or false if b is unmapped.
	DecodeByte(b byte) (rune, bool)

	// EncodeRune returns the byte for r, or false if r has no mapping.
	EncodeRune(r rune) (byte, bool)
}

// DoubleByteTable maps between two-byte codes and code points. The meaning
// of the two bytes (GL row/cell, EUC, or a vendor layout) depends on the
// codec the table is handed to.
type DoubleByteTable interface {
	// DecodePair returns the code point for the pair, or false if it is
	// unmapped.
	DecodePair(b1, b2 byte) (rune, bool)

	// EncodeRune returns the pair for r, or false if r has no mapping.
	EncodeRune(r rune) (b1, b2 byte, ok bool)
}

// putRune writes r as one or two code units into dst. It returns the
// number written, or 0 if dst is too short.
func putRune(dst []uint16, r rune) int {
	if r < 0x10000 {
		if len(dst) < 1 {
			return 0
		}
		dst[0] = uint16(r)
		return 1
	}
	if len(dst) < 2 {
		return 0
	}
	hi, lo := utf16.EncodeRune(r)
	dst[0], dst[1] = uint16(hi), uint16(lo)
	return 2
}

func decoded(in *ByteBuffer, sp int, out *CharBuffer, dp int, r Result) Result {
	in.pos += sp
	out.pos += dp
	return r
}

func encoded(in *CharBuffer, sp int, out *ByteBuffer, dp int, r Result) Result {
	in.pos += sp
	out.pos += dp
	return r
}

// statelessDecoder and statelessEncoder provide the no-op reset and flush
// of codecs that carry nothing between calls.
type statelessDecoder struct{}

func (statelessDecoder) reset()                   {}
func (statelessDecoder) flush(*CharBuffer) Result { return Underflow }

type statelessEncoder struct{}

func (statelessEncoder) reset()                   {}
func (statelessEncoder) flush(*ByteBuffer) Result { return Underflow }
