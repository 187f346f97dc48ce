// This file is part of https://github.com/racingmars/charconv/
// Copyright 2025 by Matthew R. Wilson, licensed under the MIT license.
// See LICENSE in the project root for license information.

package charconv

import (
	"slices"
	"strings"
)

// Charset is a named character encoding. Charsets are immutable and safe
// to share between goroutines; the Decoders and Encoders they create are
// not.
type Charset interface {
	// Name returns the canonical name, e.g. "Shift_JIS".
	Name() string

	// Aliases returns the other names Lookup accepts for this charset.
	Aliases() []string

	// NewDecoder returns a decoder in its reset state with the Report
	// action for both error kinds.
	NewDecoder() *Decoder

	// NewEncoder returns an encoder in its reset state. It fails with
	// ErrEncodeUnsupported for decode-only charsets.
	NewEncoder() (*Encoder, error)

	// CanEncode reports whether NewEncoder succeeds.
	CanEncode() bool

	// Contains reports whether every character of cs can be represented
	// in this charset.
	Contains(cs Charset) bool
}

// sizing holds the buffer estimates handed to new coders.
type sizing struct {
	avgCharsPerByte, maxCharsPerByte float32
	avgBytesPerChar, maxBytesPerChar float32
}

// charset is the implementation behind every Charset in this package: a
// name plus factories for its engines.
type charset struct {
	name    string
	aliases []string

	newDec func() decodeEngine
	newEnc func() encodeEngine // nil for decode-only charsets

	size sizing
	repl []byte

	// unicode charsets contain every charset; hasASCII ones contain
	// US-ASCII. contains names further charsets by canonical name.
	unicode  bool
	hasASCII bool
	contains []string
}

func (c *charset) Name() string { return c.name }

func (c *charset) Aliases() []string { return slices.Clone(c.aliases) }

func (c *charset) NewDecoder() *Decoder {
	return newDecoder(c, c.newDec(), c.size.avgCharsPerByte, c.size.maxCharsPerByte)
}

func (c *charset) NewEncoder() (*Encoder, error) {
	if c.newEnc == nil {
		return nil, NewError(PhaseEncode, KindEncodeUnsupported).Charset(c.name).Build()
	}
	return newEncoder(c, c.newEnc, c.size.avgBytesPerChar, c.size.maxBytesPerChar, slices.Clone(c.repl)), nil
}

func (c *charset) CanEncode() bool { return c.newEnc != nil }

func (c *charset) Contains(cs Charset) bool {
	if cs == nil {
		return false
	}
	name := cs.Name()
	switch {
	case c.unicode, strings.EqualFold(name, c.name):
		return true
	case c.hasASCII && name == "US-ASCII":
		return true
	}
	for _, n := range c.contains {
		if strings.EqualFold(n, name) {
			return true
		}
	}
	return false
}

func (c *charset) String() string { return c.name }

// MustNewEncoder is NewEncoder for charsets known to encode; it panics on
// decode-only charsets.
func MustNewEncoder(cs Charset) *Encoder {
	e, err := cs.NewEncoder()
	if err != nil {
		panic(err)
	}
	return e
}
