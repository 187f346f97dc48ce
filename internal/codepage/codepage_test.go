// This file is part of https://github.com/racingmars/charconv/
// Copyright 2025 by Matthew R. Wilson, licensed under the MIT license.
// See LICENSE in the project root for license information.

package codepage

import (
	"testing"

	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"github.com/racingmars/charconv/table"
)

func TestCP310(t *testing.T) {
	tab := CP310()
	if r, ok := tab.DecodeByte(0x8C); !ok || r != '≤' {
		t.Errorf("DecodeByte(8C) = %q, %v", r, ok)
	}
	if _, ok := tab.DecodeByte(0x00); ok {
		t.Error("unassigned byte 00 decodes")
	}
	for _, r := range []rune{'≤', '◊', '⋄', '◆'} {
		want := unicodeToCP310[r]
		if b, ok := tab.EncodeRune(r); !ok || b != want {
			t.Errorf("EncodeRune(%q) = %02X, %v; want %02X", r, b, ok, want)
		}
	}
	if CP310() != tab {
		t.Error("CP310 rebuilt on second call")
	}
}

func TestSingleFromGrid(t *testing.T) {
	grid := make([]rune, 256)
	for i := range grid {
		grid[i] = '�'
	}
	grid[0x41] = 'A'
	grid[0x42] = 'B'
	tab := singleFromGrid("grid", grid, map[rune]byte{'a': 0x41, 'B': 0x42})

	if r, ok := tab.DecodeByte(0x41); !ok || r != 'A' {
		t.Errorf("DecodeByte(41) = %q, %v", r, ok)
	}
	if _, ok := tab.DecodeByte(0x43); ok {
		t.Error("placeholder byte decodes")
	}
	if b, ok := tab.EncodeRune('a'); !ok || b != 0x41 {
		t.Errorf("fallback EncodeRune('a') = %02X, %v", b, ok)
	}
	var fallbacks int
	for _, e := range tab.Entries() {
		if e.Kind == table.Fallback {
			fallbacks++
		}
	}
	if fallbacks != 1 {
		t.Errorf("%d fallback entries, want 1", fallbacks)
	}
}

func TestSingleByteCharsets(t *testing.T) {
	seen := make(map[string]bool)
	for _, info := range SingleByteCharsets {
		if seen[info.Name] {
			t.Errorf("%s listed twice", info.Name)
		}
		seen[info.Name] = true
	}

	tests := []struct {
		name string
		b    byte
		r    rune
	}{
		{"IBM037", 0xC1, 'A'},
		{"IBM037", 0x40, ' '},
		{"IBM1047", 0xAD, '['},
		{"windows-1252", 0x80, '€'},
		{"KOI8-R", 0xE4, 'Д'},
		{"IBM437", 0xB3, '│'},
	}
	for _, tt := range tests {
		var info *SingleByteInfo
		for _, i := range SingleByteCharsets {
			if i.Name == tt.name {
				info = i
			}
		}
		if info == nil {
			t.Errorf("%s not listed", tt.name)
			continue
		}
		tab := info.Table()
		if r, ok := tab.DecodeByte(tt.b); !ok || r != tt.r {
			t.Errorf("%s: DecodeByte(%02X) = %q, %v", tt.name, tt.b, r, ok)
		}
		if b, ok := tab.EncodeRune(tt.r); !ok || b != tt.b {
			t.Errorf("%s: EncodeRune(%q) = %02X, %v", tt.name, tt.r, b, ok)
		}
	}
}

func TestCJKTables(t *testing.T) {
	tests := []struct {
		name   string
		tab    func() *table.DoubleByte
		b1, b2 byte
		r      rune
	}{
		{"JIS0208", JIS0208, 0x46, 0x7C, '日'},
		{"JIS0212", JIS0212, 0x30, 0x21, '丂'},
		{"KSC5601", KSC5601, 0x30, 0x21, '가'},
		{"GB2312", GB2312, 0x56, 0x50, '中'},
		{"GBK", GBK, 0xD6, 0xD0, '中'},
		{"GBK", GBK, 0x81, 0x40, '丂'},
		{"Big5", Big5, 0xA4, 0xA4, '中'},
	}
	for _, tt := range tests {
		tab := tt.tab()
		if r, ok := tab.DecodePair(tt.b1, tt.b2); !ok || r != tt.r {
			t.Errorf("%s: DecodePair(%02X %02X) = %q, %v", tt.name, tt.b1, tt.b2, r, ok)
		}
		if b1, b2, ok := tab.EncodeRune(tt.r); !ok || b1 != tt.b1 || b2 != tt.b2 {
			t.Errorf("%s: EncodeRune(%q) = %02X %02X, %v", tt.name, tt.r, b1, b2, ok)
		}
	}

	if r, ok := JIS0212().DecodePair(0x21, 0x40); !ok || r != 0xFF3C {
		t.Errorf("JIS0212 21 40 = %U, %v", r, ok)
	}
	if _, ok := GB2312().DecodePair(0x78, 0x21); ok {
		t.Error("GB2312 has rows past 0x77")
	}
	if JIS0208().Len() < 6000 || GBK().Len() < 20000 {
		t.Errorf("tables too small: JIS0208 %d, GBK %d", JIS0208().Len(), GBK().Len())
	}
}

func TestTableLogging(t *testing.T) {
	core, logs := observer.New(zap.DebugLevel)
	SetLogger(zap.New(core))
	t.Cleanup(func() { SetLogger(nil) })

	l := newLazySingle("logged", func() *table.SingleByte {
		tab := table.NewSingleByte("logged")
		tab.Set(0x41, 'A', table.RoundTrip)
		return tab
	})
	l.get()
	l.get()

	entries := logs.FilterMessage("built mapping table").All()
	if len(entries) != 1 {
		t.Fatalf("%d log entries, want 1", len(entries))
	}
	fields := entries[0].ContextMap()
	if fields["table"] != "logged" || fields["entries"] != int64(1) {
		t.Errorf("log fields %v", fields)
	}
}
