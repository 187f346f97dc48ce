// This file is part of https://github.com/racingmars/charconv/
// Copyright 2025 by Matthew R. Wilson, licensed under the MIT license.
// See LICENSE in the project root for license information.

package charconv

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrMalformedInput matches any error reporting input that is not
	// valid in the source encoding.
	ErrMalformedInput = errors.New("charconv: malformed input")

	// ErrUnmappableCharacter matches any error reporting a character that
	// has no representation in the target encoding.
	ErrUnmappableCharacter = errors.New("charconv: unmappable character")

	// ErrUnsupportedCharset is returned by Lookup for unknown names.
	ErrUnsupportedCharset = errors.New("charconv: unsupported charset")

	// ErrCharsetNotDetected is returned by DetectedCharset before an
	// autodetecting decoder has committed to a charset.
	ErrCharsetNotDetected = errors.New("charconv: charset not yet detected")

	// ErrIllegalState is the panic value (wrapped in an *Error) when a
	// Decoder or Encoder is driven out of order, e.g. Flush before the
	// final end-of-input call.
	ErrIllegalState = errors.New("charconv: illegal coder state")

	// ErrIllegalReplacement is returned by ReplaceWith when the
	// replacement cannot be used.
	ErrIllegalReplacement = errors.New("charconv: illegal replacement")

	// ErrInvalidTable matches errors from building or loading mapping
	// tables.
	ErrInvalidTable = errors.New("charconv: invalid mapping table")

	// ErrEncodeUnsupported is returned by NewEncoder for decode-only
	// charsets such as the autodetecting ones.
	ErrEncodeUnsupported = errors.New("charconv: charset does not support encoding")
)

// Phase indicates where in processing the error occurred
type Phase string

const (
	PhaseDecode Phase = "decode" // bytes to chars
	PhaseEncode Phase = "encode" // chars to bytes
	PhaseLookup Phase = "lookup" // charset lookup and registration
	PhaseLoad   Phase = "load"   // mapping table construction
	PhaseConfig Phase = "config" // coder configuration
)

// Kind categorizes the error
type Kind string

const (
	KindMalformedInput        Kind = "malformed_input"
	KindUnmappableCharacter   Kind = "unmappable_character"
	KindUnsupportedCharset    Kind = "unsupported_charset"
	KindNotDetected           Kind = "not_detected"
	KindIllegalState          Kind = "illegal_state"
	KindIllegalReplacement    Kind = "illegal_replacement"
	KindInvalidTable          Kind = "invalid_table"
	KindDuplicateRegistration Kind = "duplicate_registration"
	KindInvalidArgument       Kind = "invalid_argument"
	KindEncodeUnsupported     Kind = "encode_unsupported"
)

var kindSentinels = map[Kind]error{
	KindMalformedInput:      ErrMalformedInput,
	KindUnmappableCharacter: ErrUnmappableCharacter,
	KindUnsupportedCharset:  ErrUnsupportedCharset,
	KindNotDetected:         ErrCharsetNotDetected,
	KindIllegalState:        ErrIllegalState,
	KindIllegalReplacement:  ErrIllegalReplacement,
	KindInvalidTable:        ErrInvalidTable,
	KindEncodeUnsupported:   ErrEncodeUnsupported,
}

// Error is the structured error type used for everything outside the
// conversion loops: lookups, table construction, coder configuration and
// misuse of the coder state machine.
type Error struct {
	Cause   error
	Phase   Phase
	Kind    Kind
	Charset string
	Detail  string
}

// Error implements the error interface
func (e *Error) Error() string {
	var b strings.Builder

	b.WriteByte('[')
	b.WriteString(string(e.Phase))
	b.WriteString("] ")
	b.WriteString(string(e.Kind))

	if e.Charset != "" {
		b.WriteString(" (")
		b.WriteString(e.Charset)
		b.WriteByte(')')
	}

	if e.Detail != "" {
		b.WriteString(": ")
		b.WriteString(e.Detail)
	}

	if e.Cause != nil {
		b.WriteString(" (caused by: ")
		b.WriteString(e.Cause.Error())
		b.WriteByte(')')
	}

	return b.String()
}

// Unwrap returns the underlying error
func (e *Error) Unwrap() error {
	return e.Cause
}

// Is reports whether target matches this error. Another *Error matches on
// Phase and Kind; the package sentinels match on Kind alone.
func (e *Error) Is(target error) bool {
	if t, ok := target.(*Error); ok {
		return e.Phase == t.Phase && e.Kind == t.Kind
	}
	if s, ok := kindSentinels[e.Kind]; ok {
		return s == target
	}
	return false
}

// Builder provides structured error construction
type Builder struct {
	err Error
}

// NewError creates a new error builder
func NewError(phase Phase, kind Kind) *Builder {
	return &Builder{
		err: Error{
			Phase: phase,
			Kind:  kind,
		},
	}
}

// Charset sets the charset name
func (b *Builder) Charset(name string) *Builder {
	b.err.Charset = name
	return b
}

// Cause sets the underlying error
func (b *Builder) Cause(err error) *Builder {
	b.err.Cause = err
	return b
}

// Detail sets the human-readable detail message
func (b *Builder) Detail(msg string, args ...any) *Builder {
	if len(args) > 0 {
		b.err.Detail = fmt.Sprintf(msg, args...)
	} else {
		b.err.Detail = msg
	}
	return b
}

// Build returns the constructed error
func (b *Builder) Build() *Error {
	return &b.err
}

func illegalState(phase Phase, charset, detail string) *Error {
	return &Error{
		Phase:   phase,
		Kind:    KindIllegalState,
		Charset: charset,
		Detail:  detail,
	}
}

// CodingError reports a malformed-input or unmappable-character condition
// surfaced by the convenience conversions (DecodeAll, EncodeAll and the
// transform adapters) when the corresponding action is Report.
type CodingError struct {
	// Op is "decode" or "encode".
	Op Phase

	// Charset is the name of the charset being converted.
	Charset string

	Kind Kind

	// Length is the number of input units (bytes when decoding, UTF-16
	// code units when encoding) implicated by the error.
	Length int

	// Offset is the index of the first offending input unit from the start
	// of the conversion, or -1 when unknown.
	Offset int
}

func (e *CodingError) Error() string {
	var b strings.Builder
	b.WriteString("charconv: ")
	if e.Op != "" {
		b.WriteString(string(e.Op))
		b.WriteString(" ")
	}
	if e.Charset != "" {
		b.WriteString(e.Charset)
		b.WriteString(": ")
	}
	if e.Kind == KindMalformedInput {
		b.WriteString("malformed input")
	} else {
		b.WriteString("unmappable character")
	}
	fmt.Fprintf(&b, " of length %d", e.Length)
	if e.Offset >= 0 {
		fmt.Fprintf(&b, " at offset %d", e.Offset)
	}
	return b.String()
}

// Is matches ErrMalformedInput or ErrUnmappableCharacter.
func (e *CodingError) Is(target error) bool {
	return kindSentinels[e.Kind] == target
}
