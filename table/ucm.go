// This file is part of https://github.com/racingmars/charconv/
// Copyright 2025 by Matthew R. Wilson, licensed under the MIT license.
// See LICENSE in the project root for license information.

package table

import (
	"bufio"
	"fmt"
	"io"
	"regexp"
	"strconv"
	"strings"
)

// UCM is a parsed ICU .ucm mapping file (the format of
// https://github.com/unicode-org/icu-data).
type UCM struct {
	// Name is the <code_set_name> header value.
	Name string

	// Class is the <uconv_class> header value: SBCS, DBCS, MBCS or
	// EBCDIC_STATEFUL.
	Class string

	// MBMax and MBMin are <mb_cur_max> and <mb_cur_min>.
	MBMax, MBMin int

	// Subchar is the <subchar> substitution byte sequence.
	Subchar []byte

	// Subchar1 is the single-byte <subchar1> of a mixed-width table.
	Subchar1 []byte

	// Entries holds the CHARMAP lines in file order. |2 lines (subchar1
	// mappings) and multi-code-point lines are not kept.
	Entries []Entry
}

var (
	reCodePoint = regexp.MustCompile(`<U([0-9A-Fa-f]+)>`)
	reByte      = regexp.MustCompile(`\\x([0-9A-Fa-f]{2})`)
	rePrecision = regexp.MustCompile(`\|([0-4])\s*$`)
)

// ParseUCM reads a .ucm file.
func ParseUCM(r io.Reader) (*UCM, error) {
	u := &UCM{MBMax: 1, MBMin: 1}
	s := bufio.NewScanner(r)
	s.Buffer(make([]byte, 64*1024), 1024*1024)

	lineno := 0
	var incharmap, done bool
	for s.Scan() {
		lineno++
		line := strings.TrimSpace(s.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		if !incharmap {
			if line == "CHARMAP" {
				incharmap = true
				continue
			}
			if err := u.header(line); err != nil {
				return nil, parseError(lineno, err.Error())
			}
			continue
		}

		if line == "END CHARMAP" {
			done = true
			break
		}

		e, keep, err := parseUcmLine(line)
		if err != nil {
			return nil, parseError(lineno, err.Error())
		}
		if keep {
			u.Entries = append(u.Entries, e)
		}
	}
	if err := s.Err(); err != nil {
		return nil, err
	}
	if !done {
		return nil, parseError(lineno, "missing CHARMAP ... END CHARMAP section")
	}
	if u.Name == "" {
		return nil, parseError(lineno, "missing <code_set_name>")
	}
	return u, nil
}

func (u *UCM) header(line string) error {
	if !strings.HasPrefix(line, "<") {
		return nil
	}
	end := strings.IndexByte(line, '>')
	if end < 0 {
		return fmt.Errorf("bad header line %q", line)
	}
	key := line[1:end]
	val := strings.Trim(strings.TrimSpace(line[end+1:]), `"`)

	var err error
	switch key {
	case "code_set_name":
		u.Name = val
	case "uconv_class":
		u.Class = val
	case "mb_cur_max":
		u.MBMax, err = strconv.Atoi(val)
	case "mb_cur_min":
		u.MBMin, err = strconv.Atoi(val)
	case "subchar":
		u.Subchar, err = parseBytes(val)
	case "subchar1":
		u.Subchar1, err = parseBytes(val)
	}
	if err != nil {
		return fmt.Errorf("header <%s>: %v", key, err)
	}
	return nil
}

// parseUcmLine parses "<UXXXX> \xYY[\xZZ...] |n". keep is false for
// lines that are valid but not represented.
func parseUcmLine(s string) (e Entry, keep bool, err error) {
	cps := reCodePoint.FindAllStringSubmatch(s, -1)
	if len(cps) == 0 {
		return e, false, fmt.Errorf("no code point in %q", s)
	}
	if len(cps) > 1 {
		return e, false, nil
	}
	cp, err := strconv.ParseInt(cps[0][1], 16, 32)
	if err != nil || cp > 0x10FFFF {
		return e, false, fmt.Errorf("bad code point in %q", s)
	}

	bs, err := parseBytes(s[strings.Index(s, ">")+1:])
	if err != nil {
		return e, false, err
	}
	if len(bs) > 4 {
		return e, false, fmt.Errorf("byte sequence longer than 4 in %q", s)
	}

	kind := RoundTrip
	if m := rePrecision.FindStringSubmatch(s); m != nil {
		switch m[1] {
		case "0":
		case "1":
			kind = Fallback
		case "3":
			kind = DecodeOnly
		default:
			// |2 is a subchar1 mapping and |4 a reverse fallback to a
			// sequence we do not model.
			return e, false, nil
		}
	}

	var code uint32
	for _, b := range bs {
		code = code<<8 | uint32(b)
	}
	return Entry{Code: code, Len: uint8(len(bs)), Rune: rune(cp), Kind: kind}, true, nil
}

func parseBytes(s string) ([]byte, error) {
	m := reByte.FindAllStringSubmatch(s, -1)
	if len(m) == 0 {
		return nil, fmt.Errorf("no byte sequence in %q", s)
	}
	out := make([]byte, len(m))
	for i, x := range m {
		v, err := strconv.ParseUint(x[1], 16, 8)
		if err != nil {
			return nil, err
		}
		out[i] = byte(v)
	}
	return out, nil
}

// SingleByte builds a table from the one-byte entries.
func (u *UCM) SingleByte() (*SingleByte, error) {
	return SingleByteFrom(u.Name, u.entriesOfLen(1))
}

// DoubleByte builds a table from the two-byte entries.
func (u *UCM) DoubleByte() (*DoubleByte, error) {
	return DoubleByteFrom(u.Name, u.entriesOfLen(2))
}

func (u *UCM) entriesOfLen(n uint8) []Entry {
	var out []Entry
	for _, e := range u.Entries {
		if e.Len == n {
			out = append(out, e)
		}
	}
	return out
}

// ParseError reports the line a UCM parse failed on.
type ParseError struct {
	Line int
	Msg  string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("table: ucm line %d: %s", e.Line, e.Msg)
}

// Is matches ErrMalformedUCM.
func (e *ParseError) Is(target error) bool { return target == ErrMalformedUCM }

func parseError(line int, msg string) error {
	return &ParseError{Line: line, Msg: msg}
}
