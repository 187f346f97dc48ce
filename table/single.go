// This file is part of https://github.com/racingmars/charconv/
// Copyright 2025 by Matthew R. Wilson, licensed under the MIT license.
// See LICENSE in the project root for license information.

package table

import "sort"

// SingleByte is a 256-entry byte <-> code point table.
type SingleByte struct {
	name string

	// Byte to code point for bytes 0x00-0xFF; -1 where unmapped.
	b2u [256]rune

	// Code point to byte for code points 0x00-0xFF, the fast path.
	u2b    [256]byte
	u2bSet [256]bool

	// Code points above 0xFF.
	highu2b map[rune]byte
}

// NewSingleByte returns an empty table.
func NewSingleByte(name string) *SingleByte {
	t := &SingleByte{name: name, highu2b: make(map[rune]byte)}
	for i := range t.b2u {
		t.b2u[i] = -1
	}
	return t
}

// Name returns the name the table was created with.
func (t *SingleByte) Name() string { return t.name }

// Set adds a mapping. For the encode direction the first mapping of a code
// point wins, so later duplicates behave as decode-only.
func (t *SingleByte) Set(b byte, r rune, m Mapping) {
	if m != Fallback {
		t.b2u[b] = r
	}
	if m == DecodeOnly {
		return
	}
	if r >= 0 && r < 0x100 {
		if !t.u2bSet[r] {
			t.u2b[r] = b
			t.u2bSet[r] = true
		}
		return
	}
	if _, ok := t.highu2b[r]; !ok {
		t.highu2b[r] = b
	}
}

// DecodeByte returns the code point for b.
func (t *SingleByte) DecodeByte(b byte) (rune, bool) {
	r := t.b2u[b]
	return r, r >= 0
}

// EncodeRune returns the byte for r.
func (t *SingleByte) EncodeRune(r rune) (byte, bool) {
	if r >= 0 && r < 0x100 {
		// "Fast path" is array look up of code points 0x00-0xFF
		return t.u2b[r], t.u2bSet[r]
	}
	b, ok := t.highu2b[r]
	return b, ok
}

// Entries lists the table's mappings in byte order, followed by encode-only
// fallbacks in code point order.
func (t *SingleByte) Entries() []Entry {
	var out []Entry
	for b := 0; b < 256; b++ {
		r := t.b2u[b]
		if r < 0 {
			continue
		}
		kind := DecodeOnly
		if eb, ok := t.EncodeRune(r); ok && int(eb) == b {
			kind = RoundTrip
		}
		out = append(out, Entry{Code: uint32(b), Len: 1, Rune: r, Kind: kind})
	}

	var fallbacks []Entry
	add := func(r rune, b byte) {
		if t.b2u[b] != r {
			fallbacks = append(fallbacks, Entry{Code: uint32(b), Len: 1, Rune: r, Kind: Fallback})
		}
	}
	for r := 0; r < 0x100; r++ {
		if t.u2bSet[r] {
			add(rune(r), t.u2b[r])
		}
	}
	for r, b := range t.highu2b {
		add(r, b)
	}
	sort.Slice(fallbacks, func(i, j int) bool { return fallbacks[i].Rune < fallbacks[j].Rune })
	return append(out, fallbacks...)
}

// SingleByteFrom builds a table from one-byte entries.
func SingleByteFrom(name string, entries []Entry) (*SingleByte, error) {
	t := NewSingleByte(name)
	for _, e := range entries {
		if e.Len != 1 {
			return nil, wrongShape(name, e)
		}
		t.Set(byte(e.Code), e.Rune, e.Kind)
	}
	return t, nil
}
