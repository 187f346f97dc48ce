// This file is part of https://github.com/racingmars/charconv/
// Copyright 2025 by Matthew R. Wilson, licensed under the MIT license.
// See LICENSE in the project root for license information.

package main

import (
	"bytes"
	"fmt"
	"go/format"
	"io"
	"strings"
	"unicode"

	"github.com/racingmars/charconv/table"
)

// writeGo writes a Go file for package codepage declaring t as a lazily
// built table, in the same layout as the hand-maintained tables there.
func writeGo(w io.Writer, name, source string, t *table.SingleByte) error {
	ident := goIdent(name)
	var b bytes.Buffer

	fmt.Fprintln(&b, "// This file is part of https://github.com/racingmars/charconv/")
	fmt.Fprintln(&b, "// Copyright 2025 by Matthew R. Wilson, licensed under the MIT license.")
	fmt.Fprintln(&b, "// See LICENSE in the project root for license information.")
	fmt.Fprintln(&b)
	fmt.Fprintf(&b, "// Code generated by mktable from %s. DO NOT EDIT.\n", source)
	fmt.Fprintln(&b)
	fmt.Fprintln(&b, "package codepage")
	fmt.Fprintln(&b)
	fmt.Fprintln(&b, `import "github.com/racingmars/charconv/table"`)
	fmt.Fprintln(&b)

	fmt.Fprintf(&b, "var %s = newLazySingle(%q, func() *table.SingleByte {\n", ident, name)
	fmt.Fprintf(&b, "\treturn singleFromGrid(%q, %sToUnicode, %sFallbacks)\n", name, ident, ident)
	fmt.Fprintln(&b, "})")
	fmt.Fprintln(&b)

	// Byte to code point, 0x00-0xFF
	fmt.Fprintf(&b, "// '\\uFFFD' marks byte positions not assigned in %s.\n", name)
	fmt.Fprintf(&b, "var %sToUnicode = []rune{\n", ident)
	fmt.Fprintf(&b, "\t/*         x0      x1      x2      x3      x4      x5      x6      x7      x8      x9      xA      xB      xC      xD      xE      xF */\n")
	for row := 0; row < 16; row++ {
		fmt.Fprintf(&b, "\t/* %Xx */ ", row)
		for col := 0; col < 16; col++ {
			r, ok := t.DecodeByte(byte(row<<4 | col))
			if !ok {
				r = unicode.ReplacementChar
			}
			fmt.Fprintf(&b, "0x%04X, ", r)
		}
		fmt.Fprintln(&b)
	}
	fmt.Fprintln(&b, "}")
	fmt.Fprintln(&b)

	// Code points that encode to a byte decoding to something else
	fmt.Fprintf(&b, "var %sFallbacks = map[rune]byte{\n", ident)
	n := 0
	for _, e := range t.Entries() {
		if e.Kind != table.Fallback {
			continue
		}
		if n%4 == 0 {
			b.WriteString("\t")
		}
		fmt.Fprintf(&b, "0x%04X: 0x%02X, ", e.Rune, e.Code)
		n++
		if n%4 == 0 {
			b.WriteString("\n")
		}
	}
	if n%4 != 0 {
		b.WriteString("\n")
	}
	fmt.Fprintln(&b, "}")

	src, err := format.Source(b.Bytes())
	if err != nil {
		return fmt.Errorf("formatting generated source: %w", err)
	}
	_, err = w.Write(src)
	return err
}

// goIdent turns a charset name such as "IBM-1047" or "037" into an
// unexported identifier: cp1047, cp037.
func goIdent(name string) string {
	var b strings.Builder
	b.WriteString("cp")
	for _, r := range strings.TrimPrefix(strings.ToLower(name), "ibm") {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			b.WriteRune(r)
		}
	}
	return b.String()
}
