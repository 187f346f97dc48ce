// This file is part of https://github.com/racingmars/charconv/
// Copyright 2025 by Matthew R. Wilson, licensed under the MIT license.
// See LICENSE in the project root for license information.

package charconv

const (
	surrHighStart = 0xD800
	surrLowStart  = 0xDC00
	surrEnd       = 0xE000
)

func isHighSurrogate(c uint16) bool { return c >= surrHighStart && c < surrLowStart }
func isLowSurrogate(c uint16) bool  { return c >= surrLowStart && c < surrEnd }
func isSurrogate(c uint16) bool     { return c >= surrHighStart && c < surrEnd }

// codePointAt reads the code point starting at src[i] for an encoder.
//
//   - n == 0: src[i] is a high surrogate and src ends after it; the caller
//     returns Underflow and waits for the low half.
//   - bad: src[i] is an unpaired surrogate; the caller returns Malformed(1).
//   - otherwise r spans n (1 or 2) code units.
func codePointAt(src []uint16, i int) (r rune, n int, bad bool) {
	c := src[i]
	if !isSurrogate(c) {
		return rune(c), 1, false
	}
	if isLowSurrogate(c) {
		return 0, 1, true
	}
	if i+1 >= len(src) {
		return 0, 0, false
	}
	d := src[i+1]
	if !isLowSurrogate(d) {
		return 0, 1, true
	}
	return 0x10000 + (rune(c)-surrHighStart)<<10 + (rune(d) - surrLowStart), 2, false
}
