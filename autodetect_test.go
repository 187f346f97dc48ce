// This file is part of https://github.com/racingmars/charconv/
// Copyright 2025 by Matthew R. Wilson, licensed under the MIT license.
// See LICENSE in the project root for license information.

package charconv

import (
	"bytes"
	"errors"
	"io"
	"strings"
	"testing"
	"testing/iotest"
)

func mustEncode(t *testing.T, cs Charset, s string) []byte {
	t.Helper()
	b, err := MustNewEncoder(cs).EncodeAll(s)
	if err != nil {
		t.Fatalf("encoding %q as %s: %v", s, cs.Name(), err)
	}
	return b
}

func TestJISAutoDetect(t *testing.T) {
	const text = "こんにちは、世界"
	tests := []struct {
		name string
		data []byte
		want Charset
	}{
		{"iso-2022-jp", mustEncode(t, ISO2022JP, "ab"+text), ISO2022JP},
		{"euc-jp", mustEncode(t, EUCJP, "ab"+text), EUCJP},
		{"shift_jis", mustEncode(t, ShiftJIS, "ab"+text), ShiftJIS},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			want, err := tt.want.NewDecoder().DecodeAll(tt.data)
			if err != nil {
				t.Fatal(err)
			}
			for _, chunk := range []int{1, 3, len(tt.data)} {
				d := JISAutoDetect.NewDecoder()
				if got := decodeChunked(t, d, tt.data, chunk); got != want {
					t.Errorf("chunk %d: decoded %q, want %q", chunk, got, want)
				}
				cs, err := d.DetectedCharset()
				if err != nil {
					t.Fatalf("chunk %d: %v", chunk, err)
				}
				if cs != tt.want {
					t.Errorf("chunk %d: detected %s, want %s", chunk, cs.Name(), tt.want.Name())
				}
			}
		})
	}
}

func TestJISAutoDetectStreamedEUC(t *testing.T) {
	// Read as Shift_JIS, C6 is a whole half-width katakana and FC starts
	// a pair, so a cut after C6 FC once made Shift_JIS look better.
	tests := []struct {
		name string
		text string
	}{
		{"short", "日本語ｱ＼テスト"},
		{"JIS X 0212 first", "丂日本語"},
		// Longer than the detection window, which then ends mid-character.
		{"window", "丂" + strings.Repeat("テキスト", 160)},
	}
	for _, tt := range tests {
		data := mustEncode(t, EUCJP, tt.text)
		for _, direct := range []bool{false, true} {
			d := JISAutoDetect.NewDecoder()
			for at := 0; at <= len(data); at++ {
				if got := decodeSplit(t, d, data, at, direct); got != tt.text {
					t.Fatalf("%s: split at %d (direct %v): decoded %q", tt.name, at, direct, got)
				}
				if cs, _ := d.DetectedCharset(); cs != EUCJP {
					t.Fatalf("%s: split at %d (direct %v): detected %v", tt.name, at, direct, cs)
				}
			}
		}
	}

	const text = "日本語のテキスト"
	r := NewReader(iotest.OneByteReader(bytes.NewReader(mustEncode(t, EUCJP, text))), JISAutoDetect)
	got, err := io.ReadAll(r)
	if err != nil || string(got) != text {
		t.Errorf("one-byte reader: %q, %v", got, err)
	}
}

func TestJISAutoDetectWaits(t *testing.T) {
	d := JISAutoDetect.NewDecoder()
	in := WrapBytes([]byte{'a', 0xC6, 0xFC})
	out := NewCharBuffer(8)
	if cr := d.Decode(in, out, false); !cr.IsUnderflow() || in.Position() != 1 || out.Position() != 1 {
		t.Fatalf("Decode = %v, consumed %d, wrote %d", cr, in.Position(), out.Position())
	}
	if d.IsCharsetDetected() {
		t.Error("charset chosen before input ended")
	}
	if cr := d.Decode(in, out, true); !cr.IsUnderflow() {
		t.Fatalf("Decode at end of input = %v", cr)
	}
	out.Flip()
	if cs, _ := d.DetectedCharset(); cs != EUCJP || out.String() != "a日" {
		t.Errorf("detected %v, decoded %q", cs, out.String())
	}
}

func TestJISAutoDetectTrailingLead(t *testing.T) {
	// B1 B2 B3 is a kanji plus a cut-off character in EUC-JP but three
	// whole characters in Shift_JIS.
	d := JISAutoDetect.NewDecoder()
	got, err := d.DecodeAll([]byte{0xB1, 0xB2, 0xB3})
	if err != nil || got != "ｱｲｳ" {
		t.Fatalf("DecodeAll = %q, %v", got, err)
	}
	if cs, _ := d.DetectedCharset(); cs != ShiftJIS {
		t.Errorf("detected %v, want Shift_JIS", cs)
	}
}

func TestJISAutoDetectASCII(t *testing.T) {
	d := JISAutoDetect.NewDecoder()
	if !d.IsAutoDetecting() {
		t.Fatal("x-JISAutoDetect decoder is not autodetecting")
	}
	got, err := d.DecodeAll([]byte("plain text\n"))
	if err != nil || got != "plain text\n" {
		t.Fatalf("DecodeAll = %q, %v", got, err)
	}
	if d.IsCharsetDetected() {
		t.Error("ASCII input committed to a charset")
	}
	if _, err := d.DetectedCharset(); !errors.Is(err, ErrCharsetNotDetected) {
		t.Errorf("DetectedCharset error %v", err)
	}

	// Detection is per session.
	if _, err := d.DecodeAll([]byte{0x1B, 0x24, 0x42, 0x24, 0x22, 0x1B, 0x28, 0x42}); err != nil {
		t.Fatal(err)
	}
	if !d.IsCharsetDetected() {
		t.Fatal("escape sequence not detected")
	}
	d.Reset()
	if d.IsCharsetDetected() {
		t.Error("Reset kept the detected charset")
	}

	if UTF8.NewDecoder().IsAutoDetecting() || !UTF8.NewDecoder().IsCharsetDetected() {
		t.Error("plain decoder reports autodetection")
	}
	if cs, _ := UTF8.NewDecoder().DetectedCharset(); cs != UTF8 {
		t.Errorf("plain decoder detected %v", cs)
	}
}

func TestAutoDetectDecodeOnly(t *testing.T) {
	for _, cs := range []Charset{JISAutoDetect, UTFBOMAutoDetect} {
		if cs.CanEncode() {
			t.Errorf("%s reports it can encode", cs.Name())
		}
		if _, err := cs.NewEncoder(); !errors.Is(err, ErrEncodeUnsupported) {
			t.Errorf("%s NewEncoder error %v", cs.Name(), err)
		}
	}
}

func TestBOMAutoDetect(t *testing.T) {
	tests := []struct {
		name string
		data []byte
		want Charset
		text string
	}{
		{"utf-8 bom", []byte{0xEF, 0xBB, 0xBF, 'h', 'i'}, UTF8, "hi"},
		{"no bom", []byte("h\xc3\xa9"), UTF8, "hé"},
		{"empty", nil, UTF8, ""},
		{"utf-16be", []byte{0xFE, 0xFF, 0x00, 'h', 0x00, 'i'}, UTF16BE, "hi"},
		{"utf-16le", []byte{0xFF, 0xFE, 'h', 0x00, 'i', 0x00}, UTF16LE, "hi"},
		{"utf-32be", []byte{0x00, 0x00, 0xFE, 0xFF, 0x00, 0x00, 0x00, 'h'}, UTF32BE, "h"},
		{"utf-32le", []byte{0xFF, 0xFE, 0x00, 0x00, 'h', 0x00, 0x00, 0x00}, UTF32LE, "h"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for _, chunk := range []int{1, 2, 64} {
				d := UTFBOMAutoDetect.NewDecoder()
				if got := decodeChunked(t, d, tt.data, chunk); got != tt.text {
					t.Errorf("chunk %d: decoded %q, want %q", chunk, got, tt.text)
				}
				cs, err := d.DetectedCharset()
				if err != nil {
					t.Fatal(err)
				}
				if cs != tt.want {
					t.Errorf("chunk %d: detected %s, want %s", chunk, cs.Name(), tt.want.Name())
				}
			}
		})
	}

	// A lone FF at end of input is not a mark.
	_, err := UTFBOMAutoDetect.NewDecoder().DecodeAll([]byte{0xFF})
	if !errors.Is(err, ErrMalformedInput) {
		t.Errorf("lone FF: %v", err)
	}
}

func TestJapaneseScore(t *testing.T) {
	kanji := japaneseScore(toUTF16("日本語のテキスト"))
	kana := japaneseScore(toUTF16("ｱｲｳｴｵ"))
	if kanji <= 0 || kana >= 0 {
		t.Errorf("scores kanji=%d half-width=%d", kanji, kana)
	}
}
