// This file is part of https://github.com/racingmars/charconv/
// Copyright 2025 by Matthew R. Wilson, licensed under the MIT license.
// See LICENSE in the project root for license information.

package codepage

import (
	"unicode/utf8"

	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/japanese"
	"golang.org/x/text/encoding/korean"
	"golang.org/x/text/encoding/simplifiedchinese"
	"golang.org/x/text/encoding/traditionalchinese"

	"github.com/racingmars/charconv/table"
)

// decodeOne decodes src as exactly one character. x/text decoders replace
// bad input with U+FFFD, so a U+FFFD result counts as unmapped.
func decodeOne(d *encoding.Decoder, src []byte) (rune, bool) {
	var dst [16]byte
	d.Reset()
	n, m, err := d.Transform(dst[:], src, true)
	if err != nil || m != len(src) || n == 0 {
		return 0, false
	}
	r, size := utf8.DecodeRune(dst[:n])
	if size != n || r == utf8.RuneError {
		return 0, false
	}
	return r, true
}

// glFromEUC derives a 94x94 table in GL form (row and cell 0x21-0x7E) by
// decoding prefix+(row|0x80)+(cell|0x80) for rows up to lastRow. Code
// order decides which code a duplicated code point encodes to.
func glFromEUC(name string, enc encoding.Encoding, prefix []byte, lastRow byte) *table.DoubleByte {
	t := table.NewDoubleByte(name)
	d := enc.NewDecoder()
	src := make([]byte, len(prefix)+2)
	copy(src, prefix)
	for row := byte(0x21); row <= lastRow; row++ {
		for cell := byte(0x21); cell <= 0x7E; cell++ {
			src[len(prefix)] = row | 0x80
			src[len(prefix)+1] = cell | 0x80
			if r, ok := decodeOne(d, src); ok {
				t.Set(row, cell, r, table.RoundTrip)
			}
		}
	}
	return t
}

// rawFromDBCS derives a table indexed by raw lead and trail bytes.
func rawFromDBCS(name string, enc encoding.Encoding, leadLo, leadHi byte, trails [][2]byte) *table.DoubleByte {
	t := table.NewDoubleByte(name)
	d := enc.NewDecoder()
	var src [2]byte
	for lead := int(leadLo); lead <= int(leadHi); lead++ {
		for _, tr := range trails {
			for trail := int(tr[0]); trail <= int(tr[1]); trail++ {
				src[0], src[1] = byte(lead), byte(trail)
				if r, ok := decodeOne(d, src[:]); ok {
					t.Set(byte(lead), byte(trail), r, table.RoundTrip)
				}
			}
		}
	}
	return t
}

var (
	jis0208 = newLazyDouble("JIS_X0208", func() *table.DoubleByte {
		return glFromEUC("JIS_X0208", japanese.EUCJP, nil, 0x7E)
	})

	jis0212 = newLazyDouble("JIS_X0212", func() *table.DoubleByte {
		t := glFromEUC("JIS_X0212", japanese.EUCJP, []byte{0x8F}, 0x7E)
		// FULLWIDTH REVERSE SOLIDUS at 0x2140 is a vendor addition that
		// JIS X 0212 itself leaves unassigned. It decodes only; the
		// character encodes through JIS X 0208.
		if _, ok := t.DecodePair(0x21, 0x40); !ok {
			t.Set(0x21, 0x40, 0xFF3C, table.DecodeOnly)
		}
		return t
	})

	ksc5601 = newLazyDouble("KS_C_5601", func() *table.DoubleByte {
		return glFromEUC("KS_C_5601", korean.EUCKR, nil, 0x7E)
	})

	gb2312 = newLazyDouble("GB2312", func() *table.DoubleByte {
		return glFromEUC("GB2312", simplifiedchinese.GBK, nil, 0x77)
	})

	gbk = newLazyDouble("GBK", func() *table.DoubleByte {
		return rawFromDBCS("GBK", simplifiedchinese.GBK, 0x81, 0xFE,
			[][2]byte{{0x40, 0x7E}, {0x80, 0xFE}})
	})

	big5 = newLazyDouble("Big5", func() *table.DoubleByte {
		return rawFromDBCS("Big5", traditionalchinese.Big5, 0xA1, 0xF9,
			[][2]byte{{0x40, 0x7E}, {0xA1, 0xFE}})
	})
)

// JIS0208 returns JIS X 0208 in GL form.
func JIS0208() *table.DoubleByte { return jis0208.get() }

// JIS0212 returns JIS X 0212 in GL form.
func JIS0212() *table.DoubleByte { return jis0212.get() }

// KSC5601 returns KS X 1001 (KS C 5601) in GL form.
func KSC5601() *table.DoubleByte { return ksc5601.get() }

// GB2312 returns GB 2312 in GL form.
func GB2312() *table.DoubleByte { return gb2312.get() }

// GBK returns GBK indexed by raw bytes.
func GBK() *table.DoubleByte { return gbk.get() }

// Big5 returns Big5 indexed by raw bytes, lead bytes 0xA1-0xF9.
func Big5() *table.DoubleByte { return big5.get() }
