// This file is part of https://github.com/racingmars/charconv/
// Copyright 2025 by Matthew R. Wilson, licensed under the MIT license.
// See LICENSE in the project root for license information.

package charconv_test

import (
	"fmt"
	"io"
	"strings"

	"github.com/racingmars/charconv"
)

func ExampleLookup() {
	cs, err := charconv.Lookup("sjis")
	if err != nil {
		fmt.Println(err)
		return
	}
	text, _ := cs.NewDecoder().DecodeAll([]byte{0x93, 0xfa, 0x96, 0x7b})
	fmt.Println(cs.Name(), text)
	// Output: Shift_JIS 日本
}

func ExampleEncoder_EncodeAll() {
	e := charconv.MustNewEncoder(charconv.ISO2022JP)
	b, _ := e.EncodeAll("あ")
	fmt.Printf("% X\n", b)
	// Output: 1B 24 42 24 22 1B 28 42
}

func ExampleDecoder_OnMalformedInput() {
	d := charconv.UTF8.NewDecoder().OnMalformedInput(charconv.Replace)
	text, err := d.DecodeAll([]byte("a\xc0\x80b"))
	fmt.Printf("%q %v\n", text, err)
	// Output: "a��b" <nil>
}

func ExampleDecoder_Decode() {
	d := charconv.EUCJP.NewDecoder()
	out := charconv.NewCharBuffer(4)

	// The three-byte character is split between calls.
	fmt.Println(d.Decode(charconv.WrapBytes([]byte{0x8f, 0xa1}), out, false))
	fmt.Println(d.Decode(charconv.WrapBytes([]byte{0x8f, 0xa1, 0xc0}), out, true))
	out.Flip()
	fmt.Printf("%U\n", []rune(out.String()))
	// Output:
	// UNDERFLOW
	// UNDERFLOW
	// [U+FF3C]
}

func ExampleNewReader() {
	r := charconv.NewReader(strings.NewReader("\xc8\x85\x93\x93\x96"), charconv.MustLookup("cp037"))
	b, _ := io.ReadAll(r)
	fmt.Println(string(b))
	// Output: Hello
}
