// This file is part of https://github.com/racingmars/charconv/
// Copyright 2025 by Matthew R. Wilson, licensed under the MIT license.
// See LICENSE in the project root for license information.

package main

import (
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/racingmars/charconv"
)

var (
	headerStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#FAFAFA")).
			Background(lipgloss.Color("#7D56F4"))

	nameStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#98FB98"))

	aliasStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#666666"))

	decodeOnlyStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FF6B6B"))
)

// listCharsets writes one line per registered charset: its name, whether
// it can encode and its aliases.
func listCharsets(w io.Writer, charsets []charconv.Charset) error {
	width := len("NAME")
	for _, cs := range charsets {
		width = max(width, len(cs.Name()))
	}

	var b strings.Builder
	b.WriteString(headerStyle.Render(pad("NAME", width) + "  " + pad("ENCODE", 6) + "  ALIASES"))
	b.WriteByte('\n')
	for _, cs := range charsets {
		b.WriteString(nameStyle.Render(pad(cs.Name(), width)))
		b.WriteString("  ")
		if cs.CanEncode() {
			b.WriteString(pad("yes", 6))
		} else {
			b.WriteString(decodeOnlyStyle.Render(pad("no", 6)))
		}
		if aliases := cs.Aliases(); len(aliases) > 0 {
			b.WriteString("  ")
			b.WriteString(aliasStyle.Render(strings.Join(aliases, ", ")))
		}
		b.WriteByte('\n')
	}
	_, err := io.WriteString(w, b.String())
	return err
}

// pad pads s with spaces to n bytes. Styles are applied after padding so
// escape sequences do not count toward the width.
func pad(s string, n int) string {
	if len(s) >= n {
		return s
	}
	return s + strings.Repeat(" ", n-len(s))
}
