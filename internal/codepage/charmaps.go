// This file is part of https://github.com/racingmars/charconv/
// Copyright 2025 by Matthew R. Wilson, licensed under the MIT license.
// See LICENSE in the project root for license information.

package codepage

import (
	"unicode/utf8"

	"golang.org/x/text/encoding/charmap"

	"github.com/racingmars/charconv/table"
)

// SingleByteInfo describes one built-in single-byte charset.
type SingleByteInfo struct {
	Name    string
	Aliases []string

	// EBCDIC charsets do not keep ASCII in the low half.
	EBCDIC bool

	table *lazy[*table.SingleByte]
}

// Table returns the charset's mapping table, building it on first use.
func (i *SingleByteInfo) Table() *table.SingleByte { return i.table.get() }

func fromCharmap(name string, ebcdic bool, cm *charmap.Charmap, aliases ...string) *SingleByteInfo {
	return &SingleByteInfo{
		Name:    name,
		Aliases: aliases,
		EBCDIC:  ebcdic,
		table: newLazySingle(name, func() *table.SingleByte {
			return singleFromCharmap(name, cm)
		}),
	}
}

// singleFromCharmap copies an x/text charmap. Bytes that x/text decodes
// to U+FFFD are undefined.
func singleFromCharmap(name string, cm *charmap.Charmap) *table.SingleByte {
	t := table.NewSingleByte(name)
	for b := 0; b < 256; b++ {
		r := cm.DecodeByte(byte(b))
		if r == utf8.RuneError {
			continue
		}
		kind := table.RoundTrip
		if eb, ok := cm.EncodeRune(r); !ok || int(eb) != b {
			kind = table.DecodeOnly
		}
		t.Set(byte(b), r, kind)
	}
	return t
}

// SingleByteCharsets lists the built-in table-driven single-byte charsets
// in catalogue order.
var SingleByteCharsets = []*SingleByteInfo{
	fromCharmap("IBM037", true, charmap.CodePage037, "cp037", "ibm-37", "cpibm37", "ebcdic-cp-us", "037"),
	fromCharmap("IBM1047", true, charmap.CodePage1047, "cp1047", "ibm-1047", "1047"),
	fromCharmap("IBM01140", true, charmap.CodePage1140, "cp01140", "ccsid01140", "ibm-1140", "1140"),
	fromCharmap("IBM437", false, charmap.CodePage437, "cp437", "ibm-437", "437", "cspc8codepage437"),
	fromCharmap("IBM850", false, charmap.CodePage850, "cp850", "ibm-850", "850"),
	fromCharmap("IBM852", false, charmap.CodePage852, "cp852", "ibm-852", "852"),
	fromCharmap("IBM855", false, charmap.CodePage855, "cp855", "ibm-855", "855"),
	fromCharmap("IBM00858", false, charmap.CodePage858, "cp858", "ccsid00858", "ibm-858", "858"),
	fromCharmap("IBM860", false, charmap.CodePage860, "cp860", "ibm-860", "860"),
	fromCharmap("IBM862", false, charmap.CodePage862, "cp862", "ibm-862", "862"),
	fromCharmap("IBM863", false, charmap.CodePage863, "cp863", "ibm-863", "863"),
	fromCharmap("IBM865", false, charmap.CodePage865, "cp865", "ibm-865", "865"),
	fromCharmap("IBM866", false, charmap.CodePage866, "cp866", "ibm-866", "866"),
	fromCharmap("ISO-8859-2", false, charmap.ISO8859_2, "iso8859_2", "latin2", "l2", "iso-ir-101"),
	fromCharmap("ISO-8859-3", false, charmap.ISO8859_3, "iso8859_3", "latin3", "l3", "iso-ir-109"),
	fromCharmap("ISO-8859-4", false, charmap.ISO8859_4, "iso8859_4", "latin4", "l4", "iso-ir-110"),
	fromCharmap("ISO-8859-5", false, charmap.ISO8859_5, "iso8859_5", "cyrillic", "iso-ir-144"),
	fromCharmap("ISO-8859-6", false, charmap.ISO8859_6, "iso8859_6", "arabic", "iso-ir-127"),
	fromCharmap("ISO-8859-7", false, charmap.ISO8859_7, "iso8859_7", "greek", "iso-ir-126"),
	fromCharmap("ISO-8859-8", false, charmap.ISO8859_8, "iso8859_8", "hebrew", "iso-ir-138"),
	fromCharmap("ISO-8859-9", false, charmap.ISO8859_9, "iso8859_9", "latin5", "l5", "iso-ir-148"),
	fromCharmap("ISO-8859-10", false, charmap.ISO8859_10, "iso8859_10", "latin6", "l6"),
	fromCharmap("ISO-8859-13", false, charmap.ISO8859_13, "iso8859_13", "latin7"),
	fromCharmap("ISO-8859-14", false, charmap.ISO8859_14, "iso8859_14", "latin8"),
	fromCharmap("ISO-8859-15", false, charmap.ISO8859_15, "iso8859_15", "latin9", "latin0"),
	fromCharmap("ISO-8859-16", false, charmap.ISO8859_16, "iso8859_16", "latin10"),
	fromCharmap("KOI8-R", false, charmap.KOI8R, "koi8_r", "koi8", "cskoi8r"),
	fromCharmap("KOI8-U", false, charmap.KOI8U, "koi8_u"),
	fromCharmap("x-MacRoman", false, charmap.Macintosh, "macroman", "macintosh", "mac"),
	fromCharmap("x-windows-874", false, charmap.Windows874, "windows-874", "ms874", "cp874"),
	fromCharmap("windows-1250", false, charmap.Windows1250, "cp1250"),
	fromCharmap("windows-1251", false, charmap.Windows1251, "cp1251"),
	fromCharmap("windows-1252", false, charmap.Windows1252, "cp1252"),
	fromCharmap("windows-1253", false, charmap.Windows1253, "cp1253"),
	fromCharmap("windows-1254", false, charmap.Windows1254, "cp1254"),
	fromCharmap("windows-1255", false, charmap.Windows1255, "cp1255"),
	fromCharmap("windows-1256", false, charmap.Windows1256, "cp1256"),
	fromCharmap("windows-1257", false, charmap.Windows1257, "cp1257"),
	fromCharmap("windows-1258", false, charmap.Windows1258, "cp1258"),
}
