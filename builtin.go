// This file is part of https://github.com/racingmars/charconv/
// Copyright 2025 by Matthew R. Wilson, licensed under the MIT license.
// See LICENSE in the project root for license information.

package charconv

import (
	"strings"
	"sync"

	"github.com/racingmars/charconv/internal/codepage"
	"github.com/racingmars/charconv/table"
)

var (
	sizeSingle     = sizing{1, 1, 1, 1}
	sizeGE         = sizing{1, 1, 1, 2}
	sizeDouble     = sizing{0.5, 1, 2, 2}
	sizeEUCJP      = sizing{0.5, 1, 3, 3}
	sizeEUCTW      = sizing{0.5, 1, 4, 4}
	sizeMixed      = sizing{0.5, 1, 2, 3}
	sizeISO2022    = sizing{0.5, 1, 4, 8}
	sizeUTF8       = sizing{1, 1, 1.1, 3}
	sizeUTF16      = sizing{0.5, 1, 2, 2}
	sizeUTF16BOM   = sizing{0.5, 1, 2, 4}
	sizeUTF32      = sizing{0.25, 1, 4, 4}
	sizeUTF32BOM   = sizing{0.25, 1, 4, 8}
	sizeAutoDetect = sizing{0.5, 1, 0, 0}
)

// ebcdicSub is the EBCDIC SUB control, the replacement byte of the
// EBCDIC charsets.
const ebcdicSub = 0x3F

// sbcsCharset builds a single-byte charset whose configuration is made on
// first use.
func sbcsCharset(name string, aliases []string, cfg func() *sbcsConfig, size sizing, repl byte) *charset {
	return &charset{
		name:     name,
		aliases:  aliases,
		newDec:   func() decodeEngine { return &sbcsDecoder{cfg: cfg()} },
		newEnc:   func() encodeEngine { return &sbcsEncoder{cfg: cfg()} },
		size:     size,
		repl:     []byte{repl},
		hasASCII: true,
	}
}

func dbcsCharset(name string, aliases []string, cfg func() *dbcsConfig) *charset {
	return &charset{
		name:     name,
		aliases:  aliases,
		newDec:   func() decodeEngine { return &dbcsDecoder{cfg: cfg()} },
		newEnc:   func() encodeEngine { return &dbcsEncoder{cfg: cfg()} },
		size:     sizeDouble,
		repl:     []byte{'?'},
		hasASCII: true,
	}
}

func eucCharset(name string, aliases []string, cfg func() *eucConfig, size sizing) *charset {
	return &charset{
		name:     name,
		aliases:  aliases,
		newDec:   func() decodeEngine { return &eucDecoder{cfg: cfg()} },
		newEnc:   func() encodeEngine { return &eucEncoder{cfg: cfg()} },
		size:     size,
		repl:     []byte{'?'},
		hasASCII: true,
	}
}

// iso2022Charset builds an ISO-2022 charset. It encodes only if the
// configuration has encode rules.
func iso2022Charset(name string, aliases []string, cfg func() *iso2022Config, encodes bool) *charset {
	cs := &charset{
		name:     name,
		aliases:  aliases,
		newDec:   func() decodeEngine { return newISO2022Decoder(cfg()) },
		size:     sizeISO2022,
		repl:     []byte{'?'},
		hasASCII: true,
	}
	if encodes {
		cs.newEnc = func() encodeEngine { return newISO2022Encoder(cfg()) }
	}
	return cs
}

func utf16Charset(name string, aliases []string, f unicodeForm) *charset {
	size, repl := sizeUTF16, []byte{0xFF, 0xFD}
	if f.writeBOM {
		size = sizeUTF16BOM
	}
	if f.littleEndian {
		repl = []byte{0xFD, 0xFF}
	}
	return &charset{
		name:    name,
		aliases: aliases,
		newDec:  func() decodeEngine { return newUTF16Decoder(f) },
		newEnc:  func() encodeEngine { return newUTF16Encoder(f) },
		size:    size,
		repl:    repl,
		unicode: true,
	}
}

func utf32Charset(name string, aliases []string, f unicodeForm) *charset {
	size, repl := sizeUTF32, []byte{0, 0, 0xFF, 0xFD}
	if f.writeBOM {
		size = sizeUTF32BOM
	}
	if f.littleEndian {
		repl = []byte{0xFD, 0xFF, 0, 0}
	}
	return &charset{
		name:    name,
		aliases: aliases,
		newDec:  func() decodeEngine { return newUTF32Decoder(f) },
		newEnc:  func() encodeEngine { return newUTF32Encoder(f) },
		size:    size,
		repl:    repl,
		unicode: true,
	}
}

// Configurations of the built-in multi-byte charsets. Each is made once,
// on first use, because the tables behind them are derived at run time.
var (
	asciiConfig  = &sbcsConfig{table: asciiTable{}, unmappedIsMalformed: true}
	latin1Config = &sbcsConfig{table: latin1Table{}}

	eucJPConfig = sync.OnceValue(func() *eucConfig {
		return &eucConfig{g1: codepage.JIS0208(), kana: true, g3: codepage.JIS0212()}
	})
	eucKRConfig = sync.OnceValue(func() *eucConfig {
		return &eucConfig{g1: codepage.KSC5601()}
	})
	eucCNConfig = sync.OnceValue(func() *eucConfig {
		return &eucConfig{g1: codepage.GB2312()}
	})
	sjisConfigOnce = sync.OnceValue(func() *sjisConfig {
		return &sjisConfig{jis0208: codepage.JIS0208()}
	})
	gbkConfig = sync.OnceValue(func() *dbcsConfig {
		return &dbcsConfig{
			single: asciiTable{},
			lead:   byteRange([2]byte{0x81, 0xFE}),
			trail:  byteRange([2]byte{0x40, 0x7E}, [2]byte{0x80, 0xFE}),
			table:  codepage.GBK(),
		}
	})
	big5Config = sync.OnceValue(func() *dbcsConfig {
		return &dbcsConfig{
			single: asciiTable{},
			lead:   byteRange([2]byte{0xA1, 0xF9}),
			trail:  byteRange([2]byte{0x40, 0x7E}, [2]byte{0xA1, 0xFE}),
			table:  codepage.Big5(),
		}
	})

	iso2022JPConfig = sync.OnceValue(func() *iso2022Config {
		cfg := &iso2022Config{
			designators: []designator{
				{"(B", 0, setASCII},
				{"(J", 0, setJISRoman},
				{"$@", 0, setJIS0208},
				{"$B", 0, setJIS0208},
				{"(I", 0, setJISKana},
				{"$(D", 0, setJIS0212},
			},
			encodeRules: []encodeRule{
				{setJIS0208, designator{"$B", 0, setJIS0208}},
				{setJISRoman, designator{"(J", 0, setJISRoman}},
			},
		}
		cfg.tables[setASCII] = setTable{single: glASCII{}}
		cfg.tables[setJISRoman] = setTable{single: glJISRoman{}}
		cfg.tables[setJISKana] = setTable{single: glJISKana{}}
		cfg.tables[setJIS0208] = setTable{double: codepage.JIS0208()}
		cfg.tables[setJIS0212] = setTable{double: codepage.JIS0212()}
		return cfg
	})

	iso2022KRConfig = sync.OnceValue(func() *iso2022Config {
		cfg := &iso2022Config{
			designators:  []designator{{"$)C", 1, setKSC5601}},
			lockingShift: true,
			encodeRules:  []encodeRule{{setKSC5601, designator{"$)C", 1, setKSC5601}}},
		}
		cfg.tables[setASCII] = setTable{single: glASCII{}}
		cfg.tables[setKSC5601] = setTable{double: codepage.KSC5601()}
		return cfg
	})

	iso2022CNConfig = sync.OnceValue(func() *iso2022Config {
		return newISO2022CNConfig(nil, nil, false)
	})
	iso2022CNGBConfig = sync.OnceValue(func() *iso2022Config {
		return newISO2022CNConfig(nil, nil, true)
	})
)

var (
	gbDesignator   = designator{"$)A", 1, setGB2312}
	cns1Designator = designator{"$)G", 1, setCNS1}
	cns2Designator = designator{"$*H", 2, setCNS2}
)

// newISO2022CNConfig returns the ISO-2022-CN configuration (RFC 1922).
// Missing CNS 11643 planes decode as unmappable. With encodeGB the encoder
// uses GB 2312; otherwise it uses whichever CNS planes were supplied.
func newISO2022CNConfig(cns1, cns2 DoubleByteTable, encodeGB bool) *iso2022Config {
	cfg := &iso2022Config{
		designators:    []designator{gbDesignator, cns1Designator, cns2Designator},
		lockingShift:   true,
		singleShift:    true,
		resetAtNewline: true,
	}
	switch {
	case encodeGB:
		cfg.encodeRules = []encodeRule{{setGB2312, gbDesignator}}
	default:
		if cns1 != nil {
			cfg.encodeRules = append(cfg.encodeRules, encodeRule{setCNS1, cns1Designator})
		}
		if cns2 != nil {
			cfg.encodeRules = append(cfg.encodeRules, encodeRule{setCNS2, cns2Designator})
		}
	}
	if cns1 == nil {
		cns1 = table.NewDoubleByte("CNS11643-1")
	}
	if cns2 == nil {
		cns2 = table.NewDoubleByte("CNS11643-2")
	}
	cfg.tables[setASCII] = setTable{single: glASCII{}}
	cfg.tables[setGB2312] = setTable{double: codepage.GB2312()}
	cfg.tables[setCNS1] = setTable{double: cns1}
	cfg.tables[setCNS2] = setTable{double: cns2}
	return cfg
}

// Built-in charsets.
var (
	USASCII Charset = sbcsCharset("US-ASCII",
		[]string{"iso-ir-6", "ANSI_X3.4-1986", "ISO_646.irv:1991", "ASCII", "ISO646-US", "us",
			"IBM367", "cp367", "csASCII", "646", "iso_646.irv:1983", "ANSI_X3.4-1968", "ascii7"},
		func() *sbcsConfig { return asciiConfig }, sizeSingle, '?')

	ISO88591 Charset = sbcsCharset("ISO-8859-1",
		[]string{"iso-ir-100", "ISO_8859-1", "latin1", "l1", "IBM819", "cp819", "csISOLatin1",
			"819", "IBM-819", "ISO8859_1", "ISO_8859-1:1987", "8859_1", "ISO8859-1"},
		func() *sbcsConfig { return latin1Config }, sizeSingle, '?')

	UTF8 Charset = &charset{
		name:    "UTF-8",
		aliases: []string{"UTF8", "unicode-1-1-utf-8"},
		newDec:  func() decodeEngine { return utf8Decoder{} },
		newEnc:  func() encodeEngine { return utf8Encoder{} },
		size:    sizeUTF8,
		repl:    []byte{'?'},
		unicode: true,
	}

	CESU8 Charset = &charset{
		name:    "CESU-8",
		aliases: []string{"CESU8", "csCESU-8"},
		newDec:  func() decodeEngine { return cesu8Decoder{} },
		newEnc:  func() encodeEngine { return cesu8Encoder{} },
		size:    sizeUTF8,
		repl:    []byte{'?'},
		unicode: true,
	}

	UTF16 Charset = utf16Charset("UTF-16", []string{"UTF_16", "utf16", "unicode", "UnicodeBig"},
		unicodeForm{detectBOM: true, writeBOM: true})
	UTF16BE Charset = utf16Charset("UTF-16BE",
		[]string{"UTF_16BE", "ISO-10646-UCS-2", "X-UTF-16BE", "UnicodeBigUnmarked"},
		unicodeForm{})
	UTF16LE Charset = utf16Charset("UTF-16LE",
		[]string{"UTF_16LE", "X-UTF-16LE", "UnicodeLittleUnmarked"},
		unicodeForm{littleEndian: true})
	UTF16LEBOM Charset = utf16Charset("x-UTF-16LE-BOM", []string{"UnicodeLittle"},
		unicodeForm{littleEndian: true, detectBOM: true, writeBOM: true})

	UTF32 Charset = utf32Charset("UTF-32", []string{"UTF_32", "UTF32"},
		unicodeForm{detectBOM: true})
	UTF32BE Charset = utf32Charset("UTF-32BE", []string{"UTF_32BE", "X-UTF-32BE"},
		unicodeForm{})
	UTF32LE Charset = utf32Charset("UTF-32LE", []string{"UTF_32LE", "X-UTF-32LE"},
		unicodeForm{littleEndian: true})
	UTF32BEBOM Charset = utf32Charset("X-UTF-32BE-BOM", []string{"UTF_32BE_BOM", "UTF-32BE-BOM"},
		unicodeForm{detectBOM: true, writeBOM: true})
	UTF32LEBOM Charset = utf32Charset("X-UTF-32LE-BOM", []string{"UTF_32LE_BOM", "UTF-32LE-BOM"},
		unicodeForm{littleEndian: true, detectBOM: true, writeBOM: true})

	EUCJP Charset = eucCharset("EUC-JP",
		[]string{"csEUCPkdFmtjapanese", "x-euc-jp", "eucjis", "Extended_UNIX_Code_Packed_Format_for_Japanese",
			"euc_jp", "eucjp", "x-eucjp"},
		eucJPConfig, sizeEUCJP)
	EUCKR Charset = eucCharset("EUC-KR",
		[]string{"ksc5601-1987", "csEUCKR", "ksc5601_1987", "ksc5601", "5601", "euc_kr", "ksc_5601",
			"ks_c_5601-1987", "euckr"},
		eucKRConfig, sizeDouble)
	GB2312 Charset = eucCharset("GB2312",
		[]string{"euc-cn", "x-EUC-CN", "euccn", "EUC_CN", "gb2312-80", "gb2312-1980"},
		eucCNConfig, sizeDouble)

	GBK  Charset = withContains(dbcsCharset("GBK", []string{"CP936", "windows-936"}, gbkConfig), "GB2312")
	Big5 Charset = dbcsCharset("Big5", []string{"csBig5"}, big5Config)

	ShiftJIS Charset = &charset{
		name:     "Shift_JIS",
		aliases:  []string{"x-sjis", "sjis", "shift-jis", "ms_kanji", "csShiftJIS"},
		newDec:   func() decodeEngine { return &sjisDecoder{cfg: sjisConfigOnce()} },
		newEnc:   func() encodeEngine { return &sjisEncoder{cfg: sjisConfigOnce()} },
		size:     sizeDouble,
		repl:     []byte{'?'},
		hasASCII: true,
	}

	ISO2022JP Charset = iso2022Charset("ISO-2022-JP",
		[]string{"csjisencoding", "iso2022jp", "jis", "jis_encoding", "csISO2022JP"},
		iso2022JPConfig, true)
	ISO2022KR Charset = iso2022Charset("ISO-2022-KR", []string{"ISO2022KR", "csISO2022KR"},
		iso2022KRConfig, true)
	ISO2022CN Charset = iso2022Charset("ISO-2022-CN", []string{"csISO2022CN", "ISO2022CN"},
		iso2022CNConfig, false)
	ISO2022CNGB Charset = withContains(iso2022Charset("x-ISO-2022-CN-GB", []string{"ISO2022CN_GB"},
		iso2022CNGBConfig, true), "GB2312")

	JISAutoDetect Charset = &charset{
		name:    "x-JISAutoDetect",
		aliases: []string{"JISAutoDetect"},
		newDec:  func() decodeEngine { return newJISAutoDecoder() },
		size:    sizeAutoDetect,
	}

	UTFBOMAutoDetect Charset = &charset{
		name:    "x-UTF-BOM-AutoDetect",
		aliases: []string{"UTF-BOM"},
		newDec:  func() decodeEngine { return newBOMAutoDecoder() },
		size:    sizeAutoDetect,
	}
)

func withContains(c *charset, names ...string) *charset {
	c.contains = append(c.contains, names...)
	return c
}

// tableCharsets returns the single-byte charsets backed by x/text charmaps,
// plus a 3270 variant of each EBCDIC one that reaches CP310 through the
// graphic escape byte.
func tableCharsets() []Charset {
	var list []Charset
	for _, info := range codepage.SingleByteCharsets {
		cfg := sync.OnceValue(func() *sbcsConfig {
			return &sbcsConfig{table: info.Table()}
		})
		repl := byte('?')
		if info.EBCDIC {
			repl = ebcdicSub
		}
		list = append(list, sbcsCharset(info.Name, info.Aliases, cfg, sizeSingle, repl))
		if !info.EBCDIC {
			continue
		}

		geCfg := sync.OnceValue(func() *sbcsConfig {
			return &sbcsConfig{
				table:   info.Table(),
				hasGE:   true,
				ge:      codepage.GraphicEscape,
				geTable: codepage.CP310(),
			}
		})
		var aliases []string
		for _, a := range info.Aliases {
			if strings.HasPrefix(a, "cp") {
				aliases = append(aliases, a+"-3270")
			}
		}
		list = append(list, sbcsCharset("x-"+info.Name+"-3270", aliases, geCfg, sizeGE, ebcdicSub))
	}
	return list
}

func init() {
	builtins := []Charset{
		USASCII, ISO88591, UTF8, CESU8,
		UTF16, UTF16BE, UTF16LE, UTF16LEBOM,
		UTF32, UTF32BE, UTF32LE, UTF32BEBOM, UTF32LEBOM,
		EUCJP, EUCKR, GB2312, GBK, Big5, ShiftJIS,
		ISO2022JP, ISO2022KR, ISO2022CN, ISO2022CNGB,
		JISAutoDetect, UTFBOMAutoDetect,
	}
	builtins = append(builtins, tableCharsets()...)
	for _, cs := range builtins {
		MustRegister(cs)
	}
}
