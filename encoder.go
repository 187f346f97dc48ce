// This file is part of https://github.com/racingmars/charconv/
// Copyright 2025 by Matthew R. Wilson, licensed under the MIT license.
// See LICENSE in the project root for license information.

package charconv

import "unicode/utf16"

// encodeEngine is the encoding mirror of decodeEngine.
type encodeEngine interface {
	encode(in *CharBuffer, out *ByteBuffer, eoi bool) Result
	reset()
	flush(out *ByteBuffer) Result
}

// replacementPreparer is implemented by stateful encoders that must shift
// back to their initial state before a replacement is written. prepare
// reports false, writing nothing, if out cannot hold the shift sequence
// plus n replacement bytes.
type replacementPreparer interface {
	prepareReplacement(out *ByteBuffer, n int) bool
}

// Encoder converts UTF-16 code units into bytes in one charset. Like
// Decoder it is a single-goroutine state machine.
type Encoder struct {
	cs        Charset
	eng       encodeEngine
	newEngine func() encodeEngine

	avgBytesPerChar float32
	maxBytesPerChar float32

	malformed   Action
	unmappable  Action
	replacement []byte

	state coderState
}

func newEncoder(cs Charset, newEngine func() encodeEngine, avg, max float32, repl []byte) *Encoder {
	return &Encoder{
		cs:              cs,
		eng:             newEngine(),
		newEngine:       newEngine,
		avgBytesPerChar: avg,
		maxBytesPerChar: max,
		replacement:     repl,
	}
}

// Charset returns the charset that created this encoder.
func (e *Encoder) Charset() Charset { return e.cs }

// AverageBytesPerChar is the expected number of bytes produced per input
// code unit.
func (e *Encoder) AverageBytesPerChar() float32 { return e.avgBytesPerChar }

// MaxBytesPerChar is the most bytes a single input code unit can produce,
// not counting shift sequences written by Flush.
func (e *Encoder) MaxBytesPerChar() float32 { return e.maxBytesPerChar }

// MalformedInputAction returns the action applied to unpaired surrogates.
func (e *Encoder) MalformedInputAction() Action { return e.malformed }

// UnmappableCharacterAction returns the action applied to characters the
// charset cannot represent.
func (e *Encoder) UnmappableCharacterAction() Action { return e.unmappable }

// OnMalformedInput sets the action for malformed input.
func (e *Encoder) OnMalformedInput(a Action) *Encoder {
	e.malformed = a
	return e
}

// OnUnmappableCharacter sets the action for unmappable characters.
func (e *Encoder) OnUnmappableCharacter(a Action) *Encoder {
	e.unmappable = a
	return e
}

// Replacement returns a copy of the bytes written by the Replace action.
func (e *Encoder) Replacement() []byte {
	return append([]byte(nil), e.replacement...)
}

// ReplaceWith sets the replacement bytes. They must be non-empty, no longer
// than MaxBytesPerChar, and legal in this charset.
func (e *Encoder) ReplaceWith(b []byte) error {
	if len(b) == 0 || float32(len(b)) > e.maxBytesPerChar {
		return NewError(PhaseConfig, KindIllegalReplacement).
			Charset(e.cs.Name()).
			Detail("replacement length %d outside 1..%.0f", len(b), e.maxBytesPerChar).
			Build()
	}
	if !e.IsLegalReplacement(b) {
		return NewError(PhaseConfig, KindIllegalReplacement).
			Charset(e.cs.Name()).
			Detail("replacement % X does not decode cleanly", b).
			Build()
	}
	e.replacement = append([]byte(nil), b...)
	return nil
}

// IsLegalReplacement reports whether b decodes without error in this
// charset.
func (e *Encoder) IsLegalReplacement(b []byte) bool {
	d := e.cs.NewDecoder()
	d.OnMalformedInput(Report).OnUnmappableCharacter(Report)
	_, err := d.DecodeChars(WrapBytes(b))
	return err == nil
}

// CanEncodeChar reports whether the single code unit c can be encoded.
// Surrogates cannot be encoded on their own.
func (e *Encoder) CanEncodeChar(c uint16) bool {
	return e.canEncode([]uint16{c})
}

// CanEncodeRune reports whether r can be encoded.
func (e *Encoder) CanEncodeRune(r rune) bool {
	if r < 0 || r > 0x10FFFF || (r >= 0xD800 && r < 0xE000) {
		return false
	}
	return e.canEncode(utf16.AppendRune(nil, r))
}

// CanEncodeString reports whether every character of s can be encoded.
func (e *Encoder) CanEncodeString(s string) bool {
	return e.canEncode(toUTF16(s))
}

// canEncode runs a scratch engine so the encoder's own state is untouched.
func (e *Encoder) canEncode(u []uint16) bool {
	eng := e.newEngine()
	in := WrapChars(u)
	out := NewByteBuffer(int(e.maxBytesPerChar+1)*len(u) + 16)
	for {
		cr := eng.encode(in, out, true)
		if cr.IsOverflow() {
			out = growBytes(out, 2*out.Capacity())
			continue
		}
		if cr.IsError() || in.HasRemaining() {
			return false
		}
		break
	}
	return true
}

// Reset discards all conversion state.
func (e *Encoder) Reset() *Encoder {
	e.eng.reset()
	e.state = stateReset
	return e
}

// Encode converts code units from in into bytes in out, advancing both
// positions. The results and state rules are those of Decoder.Decode, with
// unpaired surrogates reported as malformed input.
func (e *Encoder) Encode(in *CharBuffer, out *ByteBuffer, endOfInput bool) Result {
	next := stateCoding
	if endOfInput {
		next = stateEnd
	}
	if e.state != stateReset && e.state != stateCoding && !(endOfInput && e.state == stateEnd) {
		panic(illegalState(PhaseEncode, e.cs.Name(),
			"encode("+boolName(endOfInput)+") in state "+stateNames[e.state]))
	}
	e.state = next

	for {
		cr := e.eng.encode(in, out, endOfInput)
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

		action := e.malformed
		if cr.IsUnmappable() {
			action = e.unmappable
		}
		switch action {
		case Report:
			return cr
		case Replace:
			if p, ok := e.eng.(replacementPreparer); ok {
				if !p.prepareReplacement(out, len(e.replacement)) {
					return Overflow
				}
			} else if out.Remaining() < len(e.replacement) {
				return Overflow
			}
			out.PutSlice(e.replacement)
		}
		in.SetPosition(in.Position() + cr.Length())
	}
}

// Flush writes any trailing shift sequence. It must follow an Encode call
// with endOfInput true.
func (e *Encoder) Flush(out *ByteBuffer) Result {
	switch e.state {
	case stateEnd:
		cr := e.eng.flush(out)
		if cr.IsUnderflow() {
			e.state = stateFlushed
		}
		return cr
	case stateFlushed:
		return Underflow
	}
	panic(illegalState(PhaseEncode, e.cs.Name(), "flush in state "+stateNames[e.state]))
}

// EncodeChars encodes all remaining code units of in into a new buffer,
// returned flipped. The encoder is reset first and left flushed.
func (e *Encoder) EncodeChars(in *CharBuffer) (*ByteBuffer, error) {
	start := in.Position()
	n := int(float32(in.Remaining())*e.avgBytesPerChar) + 1
	out := NewByteBuffer(n)

	e.Reset()
	flushing := false
	for {
		var cr Result
		if flushing {
			cr = e.Flush(out)
		} else {
			cr = e.Encode(in, out, true)
			if cr.IsUnderflow() {
				flushing = true
				cr = e.Flush(out)
			}
		}
		if cr.IsUnderflow() {
			break
		}
		if cr.IsOverflow() {
			out = growBytes(out, 2*out.Capacity()+1)
			continue
		}
		return nil, &CodingError{
			Op:      PhaseEncode,
			Charset: e.cs.Name(),
			Kind:    cr.errorKind(),
			Length:  cr.Length(),
			Offset:  in.Position() - start,
		}
	}
	out.Flip()
	return out, nil
}

// EncodeAll encodes s. Invalid UTF-8 in s is encoded as U+FFFD.
func (e *Encoder) EncodeAll(s string) ([]byte, error) {
	out, err := e.EncodeChars(WrapString(s))
	if err != nil {
		return nil, err
	}
	return out.rest(), nil
}

// EncodeUTF16 encodes a sequence of code units, which may contain unpaired
// surrogates.
func (e *Encoder) EncodeUTF16(u []uint16) ([]byte, error) {
	out, err := e.EncodeChars(WrapChars(u))
	if err != nil {
		return nil, err
	}
	return out.rest(), nil
}

func growBytes(b *ByteBuffer, n int) *ByteBuffer {
	nb := NewByteBuffer(n)
	b.Flip()
	nb.PutSlice(b.rest())
	return nb
}
