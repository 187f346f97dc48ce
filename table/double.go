// This file is part of https://github.com/racingmars/charconv/
// Copyright 2025 by Matthew R. Wilson, licensed under the MIT license.
// See LICENSE in the project root for license information.

package table

import "sort"

// DoubleByte is a two-byte code <-> code point table. Decoding goes
// through a two-level array indexed by lead then trail byte; only lead
// bytes that have mappings get a second-level row.
type DoubleByte struct {
	name string
	rows [256]*[256]rune
	enc  map[rune]uint16

	trailMin, trailMax byte
}

// NewDoubleByte returns an empty table.
func NewDoubleByte(name string) *DoubleByte {
	return &DoubleByte{name: name, enc: make(map[rune]uint16), trailMin: 0xFF}
}

// Name returns the name the table was created with.
func (t *DoubleByte) Name() string { return t.name }

// Set adds a mapping for the pair b1 b2. For the encode direction the
// first mapping of a code point wins.
func (t *DoubleByte) Set(b1, b2 byte, r rune, m Mapping) {
	if m != Fallback {
		row := t.rows[b1]
		if row == nil {
			row = new([256]rune)
			for i := range row {
				row[i] = -1
			}
			t.rows[b1] = row
		}
		row[b2] = r
		if b2 < t.trailMin {
			t.trailMin = b2
		}
		if b2 > t.trailMax {
			t.trailMax = b2
		}
	}
	if m == DecodeOnly {
		return
	}
	if _, ok := t.enc[r]; !ok {
		t.enc[r] = uint16(b1)<<8 | uint16(b2)
	}
}

// DecodePair returns the code point for b1 b2.
func (t *DoubleByte) DecodePair(b1, b2 byte) (rune, bool) {
	row := t.rows[b1]
	if row == nil {
		return 0, false
	}
	r := row[b2]
	return r, r >= 0
}

// EncodeRune returns the pair for r.
func (t *DoubleByte) EncodeRune(r rune) (b1, b2 byte, ok bool) {
	c, ok := t.enc[r]
	return byte(c >> 8), byte(c), ok
}

// IsLead reports whether any mapping starts with b.
func (t *DoubleByte) IsLead(b byte) bool { return t.rows[b] != nil }

// TrailRange returns the lowest and highest trail byte in the table. For an
// empty table lo > hi.
func (t *DoubleByte) TrailRange() (lo, hi byte) { return t.trailMin, t.trailMax }

// Len returns the number of decodable pairs.
func (t *DoubleByte) Len() int {
	n := 0
	for _, row := range t.rows {
		if row == nil {
			continue
		}
		for _, r := range row {
			if r >= 0 {
				n++
			}
		}
	}
	return n
}

// Entries lists the table's mappings in code order, followed by
// encode-only fallbacks in code point order.
func (t *DoubleByte) Entries() []Entry {
	var out []Entry
	for b1, row := range t.rows {
		if row == nil {
			continue
		}
		for b2, r := range row {
			if r < 0 {
				continue
			}
			code := uint16(b1)<<8 | uint16(b2)
			kind := DecodeOnly
			if c, ok := t.enc[r]; ok && c == code {
				kind = RoundTrip
			}
			out = append(out, Entry{Code: uint32(code), Len: 2, Rune: r, Kind: kind})
		}
	}

	var fallbacks []Entry
	for r, code := range t.enc {
		if d, ok := t.DecodePair(byte(code>>8), byte(code)); !ok || d != r {
			fallbacks = append(fallbacks, Entry{Code: uint32(code), Len: 2, Rune: r, Kind: Fallback})
		}
	}
	sort.Slice(fallbacks, func(i, j int) bool { return fallbacks[i].Rune < fallbacks[j].Rune })
	return append(out, fallbacks...)
}

// DoubleByteFrom builds a table from two-byte entries.
func DoubleByteFrom(name string, entries []Entry) (*DoubleByte, error) {
	t := NewDoubleByte(name)
	for _, e := range entries {
		if e.Len != 2 {
			return nil, wrongShape(name, e)
		}
		t.Set(byte(e.Code>>8), byte(e.Code), e.Rune, e.Kind)
	}
	return t, nil
}
