// This file is part of https://github.com/racingmars/charconv/
// Copyright 2025 by Matthew R. Wilson, licensed under the MIT license.
// See LICENSE in the project root for license information.

// Package codepage provides the mapping tables behind the built-in
// charsets. Tables are derived on first use from the golang.org/x/text
// encodings and cached for the life of the process.
package codepage

import (
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/racingmars/charconv/table"
)

// GraphicEscape is the 3270 "graphic escape" byte that shifts the next
// byte into CP310.
const GraphicEscape = 0x08

var (
	logMu  sync.RWMutex
	logger = zap.NewNop()
)

// SetLogger sets the logger used to report table construction.
func SetLogger(l *zap.Logger) {
	if l == nil {
		l = zap.NewNop()
	}
	logMu.Lock()
	logger = l
	logMu.Unlock()
}

func log() *zap.Logger {
	logMu.RLock()
	defer logMu.RUnlock()
	return logger
}

// lazy builds a table once, on first request.
type lazy[T any] struct {
	name  string
	once  sync.Once
	build func() T
	size  func(T) int
	t     T
}

func (l *lazy[T]) get() T {
	l.once.Do(func() {
		start := time.Now()
		l.t = l.build()
		log().Debug("built mapping table",
			zap.String("table", l.name),
			zap.Int("entries", l.size(l.t)),
			zap.Duration("elapsed", time.Since(start)))
	})
	return l.t
}

func newLazySingle(name string, build func() *table.SingleByte) *lazy[*table.SingleByte] {
	return &lazy[*table.SingleByte]{name: name, build: build,
		size: func(t *table.SingleByte) int { return len(t.Entries()) }}
}

func newLazyDouble(name string, build func() *table.DoubleByte) *lazy[*table.DoubleByte] {
	return &lazy[*table.DoubleByte]{name: name, build: build,
		size: func(t *table.DoubleByte) int { return t.Len() }}
}

var cp310 = newLazySingle("IBM310", func() *table.SingleByte {
	return singleFromGrid("IBM310", cp310ToUnicode, unicodeToCP310)
})

// singleFromGrid builds a table from a 256-entry byte to code point grid,
// where '\uFFFD' marks unassigned bytes. Code points in encode that do not
// round trip through the grid are added as encode-only fallbacks.
func singleFromGrid(name string, grid []rune, encode map[rune]byte) *table.SingleByte {
	t := table.NewSingleByte(name)
	for b, r := range grid {
		if r != '\uFFFD' {
			t.Set(byte(b), r, table.RoundTrip)
		}
	}
	for r, b := range encode {
		if d, ok := t.DecodeByte(b); !ok || d != r {
			t.Set(b, r, table.Fallback)
		}
	}
	return t
}

// CP310 returns the IBM CP310 graphic escape table.
func CP310() *table.SingleByte { return cp310.get() }

// Certain characters are supported in the "graphic escape" CP310. These are
// arbitrary Unicode code points, so we will look them up via a map. For
// simplicity of our mapping implementation, we will not support the italic
// underlined A-Z characters that require combining characters.
//
// The map is shared by every charset that uses graphic escape.
//
// https://public.dhe.ibm.com/software/globalization/gcoc/attachments/CP00310.pdf
var unicodeToCP310 = map[rune]byte{
	'◊': 0x70, '⋄': 0x70, '◆': 0x70, '∧': 0x71, '⋀': 0x71, '¨': 0x72,
	'⌻': 0x73, '⍸': 0x74, '⍷': 0x75, '⊢': 0x76, '⊣': 0x77, '∨': 0x78,
	'∼': 0x80, '║': 0x81, '═': 0x82, '⎸': 0x83, '⎹': 0x84, '│': 0x85,
	'⎥': 0x85, '↑': 0x8A, '↓': 0x8B, '≤': 0x8C, '⌈': 0x8D, '⌊': 0x8E,
	'→': 0x8F, '⎕': 0x90, '▌': 0x91, '▐': 0x92, '▀': 0x93, '▄': 0x94,
	'█': 0x95, '⊃': 0x9A, '⊂': 0x9B, '⌑': 0x9C, '¤': 0x9C, '○': 0x9D,
	'±': 0x9E, '←': 0x9F, '¯': 0xA0, '‾': 0xA0, '°': 0xA1, '─': 0xA2,
	'∙': 0xA3, '•': 0xA3, 'ₙ': 0xA4, '∩': 0xAA, '⋂': 0xAA, '∪': 0xAB,
	'⋃': 0xAB, '⊥': 0xAC, '≥': 0xAE, '∘': 0xAF, '⍺': 0xB0, 'α': 0xB0,
	'∊': 0xB1, '∈': 0xB1, 'ε': 0xB1, '⍳': 0xB2, 'ι': 0xB2, '⍴': 0xB3,
	'ρ': 0xB3, '⍵': 0xB4, 'ω': 0xB4, '×': 0xB6, '∖': 0xB7, '÷': 0xB8,
	'∇': 0xBA, '∆': 0xBB, '⊤': 0xBC, '≠': 0xBE, '∣': 0xBF, '⁽': 0xC1,
	'⁺': 0xC2, '■': 0xC3, '∎': 0xC3, '└': 0xC4, '┌': 0xC5, '├': 0xC6,
	'┴': 0xC7, '⍲': 0xCA, '⍱': 0xCB, '⌷': 0xCC, '⌽': 0xCD, '⍂': 0xCE,
	'⍉': 0xCF, '⁾': 0xD1, '⁻': 0xD2, '┼': 0xD3, '┘': 0xD4, '┐': 0xD5,
	'┤': 0xD6, '┬': 0xD7, '¶': 0xD8, '⌶': 0xDA, 'ǃ': 0xDB, '⍒': 0xDC,
	'⍋': 0xDD, '⍞': 0xDE, '⍝': 0xDF, '≡': 0xE0, '₁': 0xE1, '₂': 0xE2,
	'₃': 0xE3, '⍤': 0xE4, '⍥': 0xE5, '⍪': 0xE6, '€': 0xE7, '⌿': 0xEA,
	'⍀': 0xEB, '∵': 0xEC, '⊖': 0xED, '⌹': 0xEE, '⍕': 0xEF, '⁰': 0xF0,
	'¹': 0xF1, '²': 0xF2, '³': 0xF3, '⁴': 0xF4, '⁵': 0xF5, '⁶': 0xF6,
	'⁷': 0xF7, '⁸': 0xF8, '⁹': 0xF9, '⍫': 0xFB, '⍙': 0xFC, '⍟': 0xFD,
	'⍎': 0xFE,
}

// '�', the Unicode replacement character, is used as a placeholder in byte
// positions that are not assigned in this codepage.
var cp310ToUnicode = []rune{
	/*       x0   x1   x2   x3   x4   x5   x6   x7   x8   x9   xA   xB   xC   xD   xE   xF */
	/* 0x */ '�', '�', '�', '�', '�', '�', '�', '�', '�', '�', '�', '�', '�', '�', '�', '�',
	/* 1x */ '�', '�', '�', '�', '�', '�', '�', '�', '�', '�', '�', '�', '�', '�', '�', '�',
	/* 2x */ '�', '�', '�', '�', '�', '�', '�', '�', '�', '�', '�', '�', '�', '�', '�', '�',
	/* 3x */ '�', '�', '�', '�', '�', '�', '�', '�', '�', '�', '�', '�', '�', '�', '�', '�',
	/* 4x */ '�', '�', '�', '�', '�', '�', '�', '�', '�', '�', '�', '�', '�', '�', '�', '�',
	/* 5x */ '�', '�', '�', '�', '�', '�', '�', '�', '�', '�', '�', '�', '�', '�', '�', '�',
	/* 6x */ '�', '�', '�', '�', '�', '�', '�', '�', '�', '�', '�', '�', '�', '�', '�', '�',
	/* 7x */ '◊', '∧', '¨', '⌻', '⍸', '⍷', '⊢', '⊣', '∨', '�', '�', '�', '�', '�', '�', '�',
	/* 8x */ '∼', '║', '═', '⎸', '⎹', '⎥', '�', '�', '�', '�', '↑', '↓', '≤', '⌈', '⌊', '→',
	/* 9x */ '⎕', '▌', '▐', '▀', '▄', '█', '�', '�', '�', '�', '⊃', '⊂', '⌑', '○', '±', '←',
	/* Ax */ '‾', '°', '─', '•', 'ₙ', '�', '�', '�', '�', '�', '∩', '⋃', '⊥', '�', '≥', '∘',
	/* Bx */ '⍺', '∈', '⍳', '⍴', 'ω', '�', '×', '∖', '÷', '�', '∇', '∆', '⊤', '�', '≠', '∣',
	/* Cx */ '�', '⁽', '⁺', '■', '└', '┌', '├', '┴', '�', '�', '⍲', '⍱', '⌷', '⌽', '⍂', '⍉',
	/* Dx */ '�', '⁾', '⁻', '┼', '┘', '┐', '┤', '┬', '¶', '�', '⌶', 'ǃ', '⍒', '⍋', '⍞', '⍝',
	/* Ex */ '≡', '₁', '₂', '₃', '⍤', '⍥', '⍪', '€', '�', '�', '⌿', '⍀', '∵', '⊖', '⌹', '⍕',
	/* Fx */ '⁰', '¹', '²', '³', '⁴', '⁵', '⁶', '⁷', '⁸', '⁹', '�', '⍫', '⍙', '⍟', '⍎', '�',
}
