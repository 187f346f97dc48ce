// This file is part of https://github.com/racingmars/charconv/
// Copyright 2025 by Matthew R. Wilson, licensed under the MIT license.
// See LICENSE in the project root for license information.

package charconv

import (
	"errors"
	"io"
	"slices"
	"strings"
	"testing"

	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"github.com/racingmars/charconv/table"
)

func TestLookup(t *testing.T) {
	tests := []struct {
		name string
		want string
	}{
		{"UTF-8", "UTF-8"},
		{"utf8", "UTF-8"},
		{"  Shift_JIS ", "Shift_JIS"},
		{"SJIS", "Shift_JIS"},
		{"cp037", "IBM037"},
		{"CP037-3270", "x-IBM037-3270"},
		{"latin1", "ISO-8859-1"},
		{"ASCII", "US-ASCII"},
		{"euc_jp", "EUC-JP"},
		{"unicodebig", "UTF-16"},
		{"jisautodetect", "x-JISAutoDetect"},
	}
	for _, tt := range tests {
		cs, err := Lookup(tt.name)
		if err != nil {
			t.Errorf("Lookup(%q): %v", tt.name, err)
			continue
		}
		if cs.Name() != tt.want {
			t.Errorf("Lookup(%q) = %s, want %s", tt.name, cs.Name(), tt.want)
		}
		if !IsSupported(tt.name) {
			t.Errorf("IsSupported(%q) = false", tt.name)
		}
	}

	_, err := Lookup("no-such-charset")
	if !errors.Is(err, ErrUnsupportedCharset) {
		t.Errorf("unknown charset error %v", err)
	}
	if IsSupported("no-such-charset") {
		t.Error("IsSupported accepted an unknown name")
	}
	expectPanic(t, "MustLookup of unknown name", func() { MustLookup("no-such-charset") })
}

func testTable() *table.SingleByte {
	t := table.NewSingleByte("test")
	t.Set(0x41, 'A', table.RoundTrip)
	t.Set(0x42, 'B', table.RoundTrip)
	t.Set(0x3F, '?', table.RoundTrip)
	return t
}

func TestRegister(t *testing.T) {
	core, logs := observer.New(zap.DebugLevel)
	SetLogger(zap.New(core))
	t.Cleanup(func() { SetLogger(nil) })

	cs := NewSingleByteCharset("test-registry", testTable(), "test-registry-alias")
	if err := Register(cs); err != nil {
		t.Fatal(err)
	}
	if got, _ := Lookup("TEST-REGISTRY-ALIAS"); got != cs {
		t.Errorf("alias lookup gave %v", got)
	}
	if logs.FilterMessage("registered charset").Len() != 1 {
		t.Errorf("registration not logged: %v", logs.All())
	}

	// A clash on any name rejects the whole charset.
	dup := NewSingleByteCharset("test-registry-2", testTable(), "utf8")
	err := Register(dup)
	var cerr *Error
	if !errors.As(err, &cerr) || cerr.Kind != KindDuplicateRegistration {
		t.Fatalf("duplicate registration error %v", err)
	}
	if IsSupported("test-registry-2") {
		t.Error("rejected charset is partly registered")
	}
	expectPanic(t, "MustRegister duplicate", func() { MustRegister(dup) })
}

func TestCharsetsSorted(t *testing.T) {
	list := Charsets()
	if len(list) < 60 {
		t.Errorf("only %d charsets registered", len(list))
	}
	sorted := slices.IsSortedFunc(list, func(a, b Charset) int {
		return strings.Compare(strings.ToLower(a.Name()), strings.ToLower(b.Name()))
	})
	if !sorted {
		t.Error("Charsets() is not sorted by name")
	}
	for _, name := range []string{"UTF-8", "Shift_JIS", "ISO-2022-CN", "x-IBM1047-3270", "x-UTF-BOM-AutoDetect"} {
		if !slices.ContainsFunc(list, func(cs Charset) bool { return cs.Name() == name }) {
			t.Errorf("%s missing from Charsets()", name)
		}
	}
}

func TestDefault(t *testing.T) {
	if Default() != UTF8 {
		t.Fatalf("default charset %s", Default().Name())
	}
	SetDefault(ISO88591)
	t.Cleanup(func() { SetDefault(UTF8) })
	if Default() != ISO88591 {
		t.Errorf("SetDefault did not take effect")
	}
}

func TestContains(t *testing.T) {
	tests := []struct {
		cs, other Charset
		want      bool
	}{
		{UTF8, ShiftJIS, true},
		{UTF16LE, MustLookup("IBM037"), true},
		{ShiftJIS, USASCII, true},
		{ShiftJIS, ShiftJIS, true},
		{USASCII, UTF8, false},
		{GBK, GB2312, true},
		{GB2312, GBK, false},
		{ISO2022CNGB, GB2312, true},
		{EUCKR, ShiftJIS, false},
		{UTF8, nil, false},
	}
	for _, tt := range tests {
		if got := tt.cs.Contains(tt.other); got != tt.want {
			t.Errorf("%s.Contains(%v) = %v", tt.cs.Name(), tt.other, got)
		}
	}
}

func TestAliasesCopied(t *testing.T) {
	a := UTF8.Aliases()
	a[0] = "changed"
	if UTF8.Aliases()[0] == "changed" {
		t.Error("Aliases exposes internal state")
	}
}

func TestParseAction(t *testing.T) {
	tests := []struct {
		in   string
		want Action
	}{
		{"", Report},
		{"report", Report},
		{"IGNORE", Ignore},
		{" replace ", Replace},
	}
	for _, tt := range tests {
		got, err := ParseAction(tt.in)
		if err != nil || got != tt.want {
			t.Errorf("ParseAction(%q) = %v, %v", tt.in, got, err)
		}
	}
	_, err := ParseAction("skip")
	var cerr *Error
	if !errors.As(err, &cerr) || cerr.Kind != KindInvalidArgument {
		t.Errorf("ParseAction(skip) error %v", err)
	}
}

func TestErrorFormatting(t *testing.T) {
	err := NewError(PhaseLoad, KindInvalidTable).
		Charset("IBM930").
		Detail("bad row %d", 3).
		Cause(io.ErrUnexpectedEOF).
		Build()
	want := "[load] invalid_table (IBM930): bad row 3 (caused by: unexpected EOF)"
	if err.Error() != want {
		t.Errorf("Error() = %q, want %q", err.Error(), want)
	}
	if !errors.Is(err, io.ErrUnexpectedEOF) || !errors.Is(err, ErrInvalidTable) {
		t.Error("errors.Is does not see the cause and the kind")
	}
	if !errors.Is(err, NewError(PhaseLoad, KindInvalidTable).Build()) {
		t.Error("errors.Is does not match on phase and kind")
	}
	if errors.Is(err, NewError(PhaseLookup, KindInvalidTable).Build()) {
		t.Error("errors.Is matched a different phase")
	}

	ce := &CodingError{Op: PhaseDecode, Charset: "UTF-8", Kind: KindMalformedInput, Length: 1, Offset: 4}
	if got := ce.Error(); got != "charconv: decode UTF-8: malformed input of length 1 at offset 4" {
		t.Errorf("CodingError text %q", got)
	}
	if !errors.Is(ce, ErrMalformedInput) || errors.Is(ce, ErrUnmappableCharacter) {
		t.Error("CodingError matches the wrong sentinel")
	}
}
