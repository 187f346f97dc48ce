// This file is part of https://github.com/racingmars/charconv/
// Copyright 2025 by Matthew R. Wilson, licensed under the MIT license.
// See LICENSE in the project root for license information.

package main

import (
	"errors"
	"fmt"
	"io"

	"go.uber.org/zap"

	"github.com/racingmars/charconv"
)

// converter streams bytes from one charset to another through a fixed set
// of buffers, using the incremental Decode/Encode calls directly.
type converter struct {
	dec *charconv.Decoder
	enc *charconv.Encoder
	log *zap.Logger

	in    *charconv.ByteBuffer
	chars *charconv.CharBuffer
	out   *charconv.ByteBuffer

	// bytes and chars consumed before the current buffer contents, for
	// error offsets
	readOffset int
	charOffset int
}

func newConverter(dec *charconv.Decoder, enc *charconv.Encoder, size int, log *zap.Logger) *converter {
	if size < 16 {
		size = 16
	}
	// The JIS detector holds up to 1 KiB undecided before choosing.
	if dec.IsAutoDetecting() && size < 1024 {
		size = 1024
	}
	nchars := int(float32(size)*dec.MaxCharsPerByte()) + 2
	nout := int(float32(nchars)*enc.MaxBytesPerChar()) + 16
	return &converter{
		dec:   dec,
		enc:   enc,
		log:   log,
		in:    charconv.NewByteBuffer(size),
		chars: charconv.NewCharBuffer(nchars),
		out:   charconv.NewByteBuffer(nout),
	}
}

// run converts everything from r to w.
func (c *converter) run(r io.Reader, w io.Writer) error {
	c.dec.Reset()
	c.enc.Reset()

	eof := false
	for !eof {
		// in is in fill mode here.
		n, err := r.Read(c.in.Array()[c.in.Position():c.in.Limit()])
		c.in.SetPosition(c.in.Position() + n)
		if errors.Is(err, io.EOF) {
			eof = true
		} else if err != nil {
			return err
		}

		c.in.Flip()
		if err := c.decode(w, eof); err != nil {
			return err
		}
		c.readOffset += c.in.Position()
		c.in.Compact()
	}

	for {
		cr := c.dec.Flush(c.chars)
		if err := c.encode(w, false); err != nil {
			return err
		}
		if cr.IsUnderflow() {
			break
		}
	}
	if err := c.encode(w, true); err != nil {
		return err
	}
	for {
		cr := c.enc.Flush(c.out)
		if err := c.write(w); err != nil {
			return err
		}
		if cr.IsUnderflow() {
			break
		}
	}
	c.log.Debug("conversion complete",
		zap.String("from", c.dec.Charset().Name()),
		zap.String("to", c.enc.Charset().Name()),
		zap.Int("bytes_read", c.readOffset))
	return nil
}

// decode decodes all it can from in, encoding as chars fills up.
func (c *converter) decode(w io.Writer, eof bool) error {
	for {
		cr := c.dec.Decode(c.in, c.chars, eof)
		if err := c.encode(w, false); err != nil {
			return err
		}
		if cr.IsError() {
			return &charconv.CodingError{
				Op:      charconv.PhaseDecode,
				Charset: c.dec.Charset().Name(),
				Kind:    kindOf(cr),
				Length:  cr.Length(),
				Offset:  c.readOffset + c.in.Position(),
			}
		}
		if cr.IsUnderflow() {
			return nil
		}
	}
}

// encode encodes the pending chars and writes the result. With final set,
// the chars are the last of the input.
func (c *converter) encode(w io.Writer, final bool) error {
	c.chars.Flip()
	defer func() {
		c.charOffset += c.chars.Position()
		c.chars.Compact()
	}()
	for {
		cr := c.enc.Encode(c.chars, c.out, final)
		if cr.IsError() {
			return &charconv.CodingError{
				Op:      charconv.PhaseEncode,
				Charset: c.enc.Charset().Name(),
				Kind:    kindOf(cr),
				Length:  cr.Length(),
				Offset:  c.charOffset + c.chars.Position(),
			}
		}
		if err := c.write(w); err != nil {
			return err
		}
		if cr.IsUnderflow() {
			return nil
		}
	}
}

func (c *converter) write(w io.Writer) error {
	c.out.Flip()
	_, err := w.Write(c.out.Bytes())
	c.out.Clear()
	return err
}

func kindOf(cr charconv.Result) charconv.Kind {
	if cr.IsUnmappable() {
		return charconv.KindUnmappableCharacter
	}
	return charconv.KindMalformedInput
}

// detect reads up to limit bytes from r and reports which charset the
// autodetecting cs settles on.
func detect(r io.Reader, cs charconv.Charset, limit int64) (charconv.Charset, error) {
	d := cs.NewDecoder().
		OnMalformedInput(charconv.Replace).
		OnUnmappableCharacter(charconv.Replace)
	if !d.IsAutoDetecting() {
		return nil, fmt.Errorf("%s does not detect charsets", cs.Name())
	}
	data, err := io.ReadAll(io.LimitReader(r, limit))
	if err != nil {
		return nil, err
	}
	in := charconv.WrapBytes(data)
	out := charconv.NewCharBuffer(len(data) + 1)
	for !d.IsCharsetDetected() {
		out.Clear()
		cr := d.Decode(in, out, true)
		if cr.IsUnderflow() {
			break
		}
	}
	return d.DetectedCharset()
}
