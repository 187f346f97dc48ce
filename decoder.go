// This file is part of https://github.com/racingmars/charconv/
// Copyright 2025 by Matthew R. Wilson, licensed under the MIT license.
// See LICENSE in the project root for license information.

package charconv

import (
	"unicode/utf16"
	"unicode/utf8"
)

// decodeEngine is implemented by every codec family. decode converts as
// much as it can and returns the raw outcome; error actions are applied by
// Decoder, never by the engine. An engine returns Underflow when it needs
// more input, even at end of input: the driver turns leftover bytes into a
// malformed-input result.
type decodeEngine interface {
	decode(in *ByteBuffer, out *CharBuffer, eoi bool) Result
	reset()
	flush(out *CharBuffer) Result
}

// detector is implemented by autodetecting engines.
type detector interface {
	detected() Charset
}

type coderState uint8

const (
	stateReset coderState = iota
	stateCoding
	stateEnd
	stateFlushed
)

var stateNames = [...]string{"reset", "coding", "end", "flushed"}

// Decoder converts bytes in one charset into UTF-16 code units. A Decoder
// is a single-goroutine state machine: create one per conversion session
// (Charset.NewDecoder) and do not share it between goroutines.
//
// The low-level sequence is Reset, any number of Decode calls with
// endOfInput false, one or more Decode calls with endOfInput true, then
// Flush. DecodeAll and DecodeChars run the whole sequence.
type Decoder struct {
	cs  Charset
	eng decodeEngine

	avgCharsPerByte float32
	maxCharsPerByte float32

	malformed   Action
	unmappable  Action
	replacement string
	repl        []uint16

	state coderState
}

func newDecoder(cs Charset, eng decodeEngine, avg, max float32) *Decoder {
	return &Decoder{
		cs:              cs,
		eng:             eng,
		avgCharsPerByte: avg,
		maxCharsPerByte: max,
		replacement:     "�",
		repl:            []uint16{0xFFFD},
	}
}

// Charset returns the charset that created this decoder.
func (d *Decoder) Charset() Charset { return d.cs }

// AverageCharsPerByte is the expected number of code units produced per
// input byte.
func (d *Decoder) AverageCharsPerByte() float32 { return d.avgCharsPerByte }

// MaxCharsPerByte is the most code units a single input byte can produce.
func (d *Decoder) MaxCharsPerByte() float32 { return d.maxCharsPerByte }

// MalformedInputAction returns the action applied to malformed input.
func (d *Decoder) MalformedInputAction() Action { return d.malformed }

// UnmappableCharacterAction returns the action applied to unmappable
// characters.
func (d *Decoder) UnmappableCharacterAction() Action { return d.unmappable }

// OnMalformedInput sets the action for malformed input. It takes effect on
// the next Decode call.
func (d *Decoder) OnMalformedInput(a Action) *Decoder {
	d.malformed = a
	return d
}

// OnUnmappableCharacter sets the action for unmappable characters. It
// takes effect on the next Decode call.
func (d *Decoder) OnUnmappableCharacter(a Action) *Decoder {
	d.unmappable = a
	return d
}

// Replacement returns the string written by the Replace action.
func (d *Decoder) Replacement() string { return d.replacement }

// ReplaceWith sets the replacement string. It must be non-empty and no
// longer, in UTF-16 code units, than MaxCharsPerByte.
func (d *Decoder) ReplaceWith(s string) error {
	if s == "" || !utf8.ValidString(s) {
		return NewError(PhaseConfig, KindIllegalReplacement).
			Charset(d.cs.Name()).Detail("replacement must be non-empty valid text").Build()
	}
	u := toUTF16(s)
	if float32(len(u)) > d.maxCharsPerByte {
		return NewError(PhaseConfig, KindIllegalReplacement).
			Charset(d.cs.Name()).
			Detail("replacement of %d chars exceeds %.1f chars per byte", len(u), d.maxCharsPerByte).
			Build()
	}
	d.replacement = s
	d.repl = u
	return nil
}

// IsAutoDetecting reports whether this decoder picks its charset from the
// input.
func (d *Decoder) IsAutoDetecting() bool {
	_, ok := d.eng.(detector)
	return ok
}

// IsCharsetDetected reports whether the actual charset is known. It is
// always true for ordinary decoders and, for autodetecting ones, turns
// true once and stays true until Reset.
func (d *Decoder) IsCharsetDetected() bool {
	det, ok := d.eng.(detector)
	return !ok || det.detected() != nil
}

// DetectedCharset returns the charset being decoded. Autodetecting
// decoders return ErrCharsetNotDetected until enough input has been seen.
func (d *Decoder) DetectedCharset() (Charset, error) {
	det, ok := d.eng.(detector)
	if !ok {
		return d.cs, nil
	}
	if cs := det.detected(); cs != nil {
		return cs, nil
	}
	return nil, NewError(PhaseDecode, KindNotDetected).Charset(d.cs.Name()).Build()
}

// Reset discards all conversion state.
func (d *Decoder) Reset() *Decoder {
	d.eng.reset()
	d.state = stateReset
	return d
}

// Decode converts bytes from in into code units in out, advancing both
// positions. endOfInput reports whether in holds the last of the input.
//
// The result is Underflow when in is drained or more input is needed,
// Overflow when out is full, or an error result when the configured action
// is Report. Calling Decode with endOfInput false after a call with
// endOfInput true, or after Flush, panics.
func (d *Decoder) Decode(in *ByteBuffer, out *CharBuffer, endOfInput bool) Result {
	next := stateCoding
	if endOfInput {
		next = stateEnd
	}
	if d.state != stateReset && d.state != stateCoding && !(endOfInput && d.state == stateEnd) {
		panic(illegalState(PhaseDecode, d.cs.Name(),
			"decode("+boolName(endOfInput)+") in state "+stateNames[d.state]))
	}
	d.state = next

	for {
		cr := d.eng.decode(in, out, endOfInput)
		if cr.IsOverflow() {
			return cr
		}
		if cr.IsUnderflow() {
			if endOfInput && in.HasRemaining() {
				cr = Malformed(in.Remaining())
			} else {
				return cr
			}
		}

		action := d.malformed
		if cr.IsUnmappable() {
			action = d.unmappable
		}
		switch action {
		case Report:
			return cr
		case Replace:
			if out.Remaining() < len(d.repl) {
				return Overflow
			}
			out.PutSlice(d.repl)
		}
		in.SetPosition(in.Position() + cr.Length())
	}
}

// Flush writes any output the decoder is holding back. It must follow a
// Decode call with endOfInput true. Once it has returned Underflow, further
// calls return Underflow without doing anything.
func (d *Decoder) Flush(out *CharBuffer) Result {
	switch d.state {
	case stateEnd:
		cr := d.eng.flush(out)
		if cr.IsUnderflow() {
			d.state = stateFlushed
		}
		return cr
	case stateFlushed:
		return Underflow
	}
	panic(illegalState(PhaseDecode, d.cs.Name(), "flush in state "+stateNames[d.state]))
}

// DecodeChars decodes all remaining bytes of in into a new buffer, which is
// returned flipped and ready for reading. The decoder is reset first and
// left flushed. Under the Report action the first error is returned as a
// *CodingError and in is left at the offending byte.
func (d *Decoder) DecodeChars(in *ByteBuffer) (*CharBuffer, error) {
	start := in.Position()
	n := int(float32(in.Remaining())*d.avgCharsPerByte) + 1
	out := NewCharBuffer(n)

	d.Reset()
	flushing := false
	for {
		var cr Result
		if flushing {
			cr = d.Flush(out)
		} else {
			cr = d.Decode(in, out, true)
			if cr.IsUnderflow() {
				flushing = true
				cr = d.Flush(out)
			}
		}
		if cr.IsUnderflow() {
			break
		}
		if cr.IsOverflow() {
			out = growChars(out, 2*out.Capacity()+1)
			continue
		}
		return nil, &CodingError{
			Op:      PhaseDecode,
			Charset: d.cs.Name(),
			Kind:    cr.errorKind(),
			Length:  cr.Length(),
			Offset:  in.Position() - start,
		}
	}
	out.Flip()
	return out, nil
}

// DecodeAll decodes b in one go and returns the text as a Go string.
// Unpaired surrogates in the decoded text become U+FFFD.
func (d *Decoder) DecodeAll(b []byte) (string, error) {
	out, err := d.DecodeChars(WrapBytes(b))
	if err != nil {
		return "", err
	}
	return string(utf16.Decode(out.rest())), nil
}

func growChars(b *CharBuffer, n int) *CharBuffer {
	nb := NewCharBuffer(n)
	b.Flip()
	nb.PutSlice(b.rest())
	return nb
}

func boolName(b bool) string {
	if b {
		return "true"
	}
	return "false"
}
