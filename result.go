// This file is part of https://github.com/racingmars/charconv/
// Copyright 2025 by Matthew R. Wilson, licensed under the MIT license.
// See LICENSE in the project root for license information.

package charconv

import "strconv"

type resultKind uint8

const (
	kindUnderflow resultKind = iota
	kindOverflow
	kindMalformed
	kindUnmappable
)

// Result is the outcome of one conversion step. Every Decode, Encode and
// Flush call returns one. Results are plain values: two results are equal
// (==) when they have the same kind and length, so Underflow and Overflow
// may be compared directly.
type Result struct {
	kind   resultKind
	length int
}

var (
	// Underflow means all available input was consumed, or more input is
	// needed to make progress. It is not an error.
	Underflow = Result{kind: kindUnderflow}

	// Overflow means the output buffer filled up before the input was
	// fully consumed. It is not an error: drain or grow the output and call
	// again.
	Overflow = Result{kind: kindOverflow}
)

// Malformed returns the result for n input units that do not form a valid
// sequence in the source encoding. n must be positive.
func Malformed(n int) Result {
	if n <= 0 {
		panic("charconv: malformed-input length must be positive, got " + strconv.Itoa(n))
	}
	return Result{kind: kindMalformed, length: n}
}

// Unmappable returns the result for a valid n-unit input sequence that has
// no representation in the target. n must be positive.
func Unmappable(n int) Result {
	if n <= 0 {
		panic("charconv: unmappable-character length must be positive, got " + strconv.Itoa(n))
	}
	return Result{kind: kindUnmappable, length: n}
}

func (r Result) IsUnderflow() bool  { return r.kind == kindUnderflow }
func (r Result) IsOverflow() bool   { return r.kind == kindOverflow }
func (r Result) IsMalformed() bool  { return r.kind == kindMalformed }
func (r Result) IsUnmappable() bool { return r.kind == kindUnmappable }

// IsError reports whether r is a malformed-input or unmappable-character
// result.
func (r Result) IsError() bool {
	return r.kind == kindMalformed || r.kind == kindUnmappable
}

// Length returns the number of input units implicated by an error result,
// or 0 for Underflow and Overflow.
func (r Result) Length() int {
	return r.length
}

func (r Result) String() string {
	switch r.kind {
	case kindUnderflow:
		return "UNDERFLOW"
	case kindOverflow:
		return "OVERFLOW"
	case kindMalformed:
		return "MALFORMED[" + strconv.Itoa(r.length) + "]"
	default:
		return "UNMAPPABLE[" + strconv.Itoa(r.length) + "]"
	}
}

// Err converts an error result into a *CodingError. It returns nil for
// Underflow and Overflow.
func (r Result) Err() error {
	if !r.IsError() {
		return nil
	}
	return &CodingError{Kind: r.errorKind(), Length: r.length, Offset: -1}
}

func (r Result) errorKind() Kind {
	if r.kind == kindMalformed {
		return KindMalformedInput
	}
	return KindUnmappableCharacter
}
