// This file is part of https://github.com/racingmars/charconv/
// Copyright 2025 by Matthew R. Wilson, licensed under the MIT license.
// See LICENSE in the project root for license information.

package charconv

import (
	"io"
	"unicode/utf16"
	"unicode/utf8"

	"golang.org/x/text/encoding"
	"golang.org/x/text/transform"
)

// decodeTransformer runs a Decoder as a transform.Transformer from the
// charset to UTF-8.
type decodeTransformer struct {
	d      *Decoder
	chars  *CharBuffer
	offset int
	done   bool
}

// Transformer returns a transform.Transformer that decodes to UTF-8 with
// this decoder. Errors reported under the Report action are returned as
// *CodingError with Offset counted from the start of the stream.
func (d *Decoder) Transformer() transform.Transformer {
	return &decodeTransformer{d: d}
}

func (t *decodeTransformer) Reset() {
	t.d.Reset()
	t.offset = 0
	t.done = false
}

func (t *decodeTransformer) Transform(dst, src []byte, atEOF bool) (nDst, nSrc int, err error) {
	if t.done {
		return 0, 0, nil
	}

	// Every code unit becomes at most three bytes of UTF-8.
	n := len(dst) / 3
	if t.chars == nil || t.chars.Capacity() < n {
		t.chars = NewCharBuffer(n)
	}
	out := t.chars
	out.Clear()
	out.SetLimit(n)
	in := WrapBytes(src)

	cr := t.d.Decode(in, out, atEOF)
	if cr.IsUnderflow() && atEOF {
		cr = t.d.Flush(out)
	}
	out.Flip()
	nDst = putUTF8(dst, out.rest())
	nSrc = in.Position()

	switch {
	case cr.IsOverflow():
		err = transform.ErrShortDst
	case cr.IsError():
		err = &CodingError{
			Op:      PhaseDecode,
			Charset: t.d.cs.Name(),
			Kind:    cr.errorKind(),
			Length:  cr.Length(),
			Offset:  t.offset + nSrc,
		}
	case atEOF:
		t.done = true
	case nSrc < len(src):
		err = transform.ErrShortSrc
	}
	t.offset += nSrc
	return nDst, nSrc, err
}

// putUTF8 writes u as UTF-8 into dst, which must be large enough. Lone
// surrogates become U+FFFD.
func putUTF8(dst []byte, u []uint16) int {
	n := 0
	for i := 0; i < len(u); i++ {
		r := rune(u[i])
		switch {
		case isHighSurrogate(u[i]) && i+1 < len(u) && isLowSurrogate(u[i+1]):
			r = utf16.DecodeRune(r, rune(u[i+1]))
			i++
		case isSurrogate(u[i]):
			r = utf8.RuneError
		}
		n += utf8.EncodeRune(dst[n:], r)
	}
	return n
}

// encodeTransformer runs an Encoder as a transform.Transformer from UTF-8
// to the charset.
type encodeTransformer struct {
	e      *Encoder
	units  []uint16
	starts []int
	offset int
	done   bool
}

// Transformer returns a transform.Transformer that encodes UTF-8 with
// this encoder. Invalid UTF-8 in the source is read as U+FFFD. Errors
// reported under the Report action are returned as *CodingError whose
// Offset is the byte offset of the offending character in the UTF-8
// stream.
func (e *Encoder) Transformer() transform.Transformer {
	return &encodeTransformer{e: e}
}

func (t *encodeTransformer) Reset() {
	t.e.Reset()
	t.offset = 0
	t.done = false
}

// load converts src to code units, recording where each unit starts in
// src. A partial UTF-8 sequence at the end is left out unless atEOF.
func (t *encodeTransformer) load(src []byte, atEOF bool) {
	t.units, t.starts = t.units[:0], t.starts[:0]
	i := 0
	for i < len(src) {
		if !atEOF && !utf8.FullRune(src[i:]) {
			break
		}
		r, size := utf8.DecodeRune(src[i:])
		if r >= 0x10000 {
			hi, lo := utf16.EncodeRune(r)
			t.units = append(t.units, uint16(hi), uint16(lo))
			t.starts = append(t.starts, i, i)
		} else {
			t.units = append(t.units, uint16(r))
			t.starts = append(t.starts, i)
		}
		i += size
	}
	t.starts = append(t.starts, i)
}

func (t *encodeTransformer) Transform(dst, src []byte, atEOF bool) (nDst, nSrc int, err error) {
	if t.done {
		return 0, 0, nil
	}
	t.load(src, atEOF)
	in := WrapChars(t.units)
	out := WrapBytes(dst)

	cr := t.e.Encode(in, out, atEOF)
	if cr.IsUnderflow() && atEOF {
		cr = t.e.Flush(out)
	}
	nDst = out.Position()
	nSrc = t.starts[in.Position()]

	switch {
	case cr.IsOverflow():
		err = transform.ErrShortDst
	case cr.IsError():
		err = &CodingError{
			Op:      PhaseEncode,
			Charset: t.e.cs.Name(),
			Kind:    cr.errorKind(),
			Length:  cr.Length(),
			Offset:  t.offset + nSrc,
		}
	case atEOF:
		t.done = true
	case nSrc < len(src):
		err = transform.ErrShortSrc
	}
	t.offset += nSrc
	return nDst, nSrc, err
}

// NewReader returns a reader that decodes r from cs to UTF-8. Malformed
// and unmappable input is replaced with U+FFFD.
func NewReader(r io.Reader, cs Charset) io.Reader {
	d := cs.NewDecoder().OnMalformedInput(Replace).OnUnmappableCharacter(Replace)
	return transform.NewReader(r, d.Transformer())
}

// NewWriter returns a writer that encodes UTF-8 written to it into cs on
// w. Characters cs cannot represent are replaced with its replacement
// bytes. Close must be called to flush any final shift sequence.
func NewWriter(w io.Writer, cs Charset) (io.WriteCloser, error) {
	e, err := cs.NewEncoder()
	if err != nil {
		return nil, err
	}
	e.OnMalformedInput(Replace).OnUnmappableCharacter(Replace)
	return transform.NewWriter(w, e.Transformer()), nil
}

// xtextEncoding adapts a Charset to encoding.Encoding.
type xtextEncoding struct {
	cs Charset
}

// Encoding returns cs as a golang.org/x/text encoding.Encoding, so it can
// be used wherever x/text encodings are accepted. Both directions replace
// errors rather than reporting them. For decode-only charsets the encoder
// fails every transform with ErrEncodeUnsupported.
func Encoding(cs Charset) encoding.Encoding {
	return xtextEncoding{cs: cs}
}

func (x xtextEncoding) NewDecoder() *encoding.Decoder {
	d := x.cs.NewDecoder().OnMalformedInput(Replace).OnUnmappableCharacter(Replace)
	return &encoding.Decoder{Transformer: d.Transformer()}
}

func (x xtextEncoding) NewEncoder() *encoding.Encoder {
	e, err := x.cs.NewEncoder()
	if err != nil {
		return &encoding.Encoder{Transformer: errTransformer{err}}
	}
	e.OnMalformedInput(Replace).OnUnmappableCharacter(Replace)
	return &encoding.Encoder{Transformer: e.Transformer()}
}

func (x xtextEncoding) String() string { return x.cs.Name() }

type errTransformer struct{ err error }

func (t errTransformer) Transform(dst, src []byte, atEOF bool) (int, int, error) {
	return 0, 0, t.err
}

func (errTransformer) Reset() {}
