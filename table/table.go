// This file is part of https://github.com/racingmars/charconv/
// Copyright 2025 by Matthew R. Wilson, licensed under the MIT license.
// See LICENSE in the project root for license information.

// Package table holds byte/code point mapping data for the charconv
// codecs: in-memory single- and double-byte tables, a parser for ICU .ucm
// mapping files, and a compact CBOR bundle format for compiled tables.
package table

import (
	"errors"
	"fmt"
)

// Mapping says in which directions an entry applies.
type Mapping uint8

const (
	// RoundTrip entries decode and encode.
	RoundTrip Mapping = 0

	// Fallback entries only encode: the code point is written as the
	// bytes, but the bytes decode to something else.
	Fallback Mapping = 1

	// DecodeOnly entries only decode.
	DecodeOnly Mapping = 3
)

// Entry is one mapping: Len bytes held big-endian in Code, and a code
// point.
type Entry struct {
	Code uint32  `cbor:"c"`
	Len  uint8   `cbor:"l"`
	Rune rune    `cbor:"u"`
	Kind Mapping `cbor:"k,omitempty"`
}

// Bytes returns the byte sequence of e.
func (e Entry) Bytes() []byte {
	b := make([]byte, e.Len)
	for i := int(e.Len) - 1; i >= 0; i-- {
		b[i] = byte(e.Code >> (8 * (int(e.Len) - 1 - i)))
	}
	return b
}

func (e Entry) String() string {
	return fmt.Sprintf("<U%04X> % X |%d", e.Rune, e.Bytes(), e.Kind)
}

var (
	// ErrMalformedUCM matches every error from ParseUCM.
	ErrMalformedUCM = errors.New("table: malformed UCM data")

	// ErrDigestMismatch is returned when a bundle's content does not match
	// its recorded digest.
	ErrDigestMismatch = errors.New("table: bundle digest mismatch")

	// ErrWrongShape is returned when entries do not fit the table being
	// built, such as a two-byte entry for a single-byte table.
	ErrWrongShape = errors.New("table: entry does not fit table")
)

func wrongShape(name string, e Entry) error {
	return fmt.Errorf("%w: %s: %v", ErrWrongShape, name, e)
}
