// This file is part of https://github.com/racingmars/charconv/
// Copyright 2025 by Matthew R. Wilson, licensed under the MIT license.
// See LICENSE in the project root for license information.

package charconv

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"testing"
	"testing/iotest"

	"golang.org/x/text/transform"
)

func TestNewReader(t *testing.T) {
	const text = "日本語のテキスト, with ASCII"
	tests := []struct {
		cs   Charset
		wrap func(io.Reader) io.Reader
	}{
		{ShiftJIS, func(r io.Reader) io.Reader { return r }},
		{EUCJP, iotest.OneByteReader},
		{ISO2022JP, iotest.HalfReader},
		{UTF16, iotest.OneByteReader},
	}
	for _, tt := range tests {
		data := mustEncode(t, tt.cs, text)
		got, err := io.ReadAll(NewReader(tt.wrap(bytes.NewReader(data)), tt.cs))
		if err != nil || string(got) != text {
			t.Errorf("%s: read %q, %v", tt.cs.Name(), got, err)
		}
	}

	got, err := io.ReadAll(NewReader(bytes.NewReader([]byte{'a', 0xFF, 'b'}), UTF8))
	if err != nil || string(got) != "a�b" {
		t.Errorf("malformed input read as %q, %v", got, err)
	}
}

func TestNewWriter(t *testing.T) {
	var buf bytes.Buffer
	w, err := NewWriter(&buf, ISO2022JP)
	if err != nil {
		t.Fatal(err)
	}
	// The first write ends inside the UTF-8 encoding of 日.
	for _, s := range []string{"a\xe6", "\x97\xa5本"} {
		if _, err := io.WriteString(w, s); err != nil {
			t.Fatal(err)
		}
	}
	if err := w.Close(); err != nil {
		t.Fatal(err)
	}
	want := []byte{'a', 0x1B, 0x24, 0x42, 0x46, 0x7C, 0x4B, 0x5C, 0x1B, 0x28, 0x42}
	if !bytes.Equal(buf.Bytes(), want) {
		t.Errorf("wrote % X, want % X", buf.Bytes(), want)
	}

	buf.Reset()
	w, _ = NewWriter(&buf, USASCII)
	io.WriteString(w, "naïve")
	w.Close()
	if buf.String() != "na?ve" {
		t.Errorf("unmappable written as %q", buf.String())
	}

	if _, err := NewWriter(&buf, JISAutoDetect); !errors.Is(err, ErrEncodeUnsupported) {
		t.Errorf("decode-only writer error %v", err)
	}
}

func TestEncoding(t *testing.T) {
	enc := Encoding(ShiftJIS)
	if fmt.Sprint(enc) != "Shift_JIS" {
		t.Errorf("encoding name %v", enc)
	}
	b, err := enc.NewEncoder().String("日本ｱ")
	if err != nil || b != "\x93\xfa\x96\x7b\xb1" {
		t.Errorf("encoded %q, %v", b, err)
	}
	s, err := enc.NewDecoder().String(b)
	if err != nil || s != "日本ｱ" {
		t.Errorf("decoded %q, %v", s, err)
	}

	if _, err := Encoding(UTFBOMAutoDetect).NewEncoder().String("x"); !errors.Is(err, ErrEncodeUnsupported) {
		t.Errorf("decode-only encoder error %v", err)
	}
}

func TestTransformerErrors(t *testing.T) {
	_, _, err := transform.String(UTF8.NewDecoder().Transformer(), "abc\xff")
	var ce *CodingError
	if !errors.As(err, &ce) || ce.Kind != KindMalformedInput || ce.Offset != 3 {
		t.Errorf("decode error %v", err)
	}

	_, _, err = transform.String(MustNewEncoder(USASCII).Transformer(), "aé€")
	if !errors.As(err, &ce) || ce.Kind != KindUnmappableCharacter || ce.Offset != 1 || ce.Length != 1 {
		t.Errorf("encode error %v", err)
	}

	// Offsets count bytes of the UTF-8 input, not code units.
	_, _, err = transform.String(MustNewEncoder(ISO88591).Transformer(), "é😀")
	if !errors.As(err, &ce) || ce.Offset != 2 || ce.Length != 2 {
		t.Errorf("supplementary encode error %v", err)
	}
}
