// This file is part of https://github.com/racingmars/charconv/
// Copyright 2025 by Matthew R. Wilson, licensed under the MIT license.
// See LICENSE in the project root for license information.

package charconv

import (
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/racingmars/charconv/table"
)

// Charsets built from caller-supplied tables. None of these are
// registered; pass them to Register to make them visible to Lookup.

// NewSingleByteCharset returns a single-byte charset over t. The
// replacement byte is the encoding of '?' if t has one, else of U+001A.
func NewSingleByteCharset(name string, t SingleByteTable, aliases ...string) Charset {
	cfg := &sbcsConfig{table: t}
	return sbcsCharset(name, aliases, func() *sbcsConfig { return cfg }, sizeSingle, singleReplacement(t))
}

func singleReplacement(t SingleByteTable) byte {
	for _, r := range []rune{'?', 0x1A} {
		if b, ok := t.EncodeRune(r); ok {
			return b
		}
	}
	return '?'
}

// NewDoubleByteCharset returns a stateless mixed single/double-byte
// charset. Bytes that start a pair in double are lead bytes; the others go
// through single.
func NewDoubleByteCharset(name string, single SingleByteTable, double *table.DoubleByte, aliases ...string) Charset {
	cfg := &dbcsConfig{single: single, table: double}
	cfg.lead, cfg.trail = leadTrail(double)
	cs := dbcsCharset(name, aliases, func() *dbcsConfig { return cfg })
	cs.repl = []byte{singleReplacement(single)}
	return cs
}

// NewEBCDICMixedCharset returns a host mixed charset that switches
// between single and double in shift-out/shift-in fashion.
func NewEBCDICMixedCharset(name string, single SingleByteTable, double *table.DoubleByte, aliases ...string) Charset {
	cfg := &ebcdicMixedConfig{single: single, double: double}
	cfg.lead, cfg.trail = leadTrail(double)
	return &charset{
		name:     name,
		aliases:  aliases,
		newDec:   func() decodeEngine { return &ebcdicMixedDecoder{cfg: cfg} },
		newEnc:   func() encodeEngine { return &ebcdicMixedEncoder{cfg: cfg} },
		size:     sizeMixed,
		repl:     []byte{singleReplacement(single)},
		hasASCII: true,
	}
}

func leadTrail(t *table.DoubleByte) (lead, trail *byteSet) {
	lead = new(byteSet)
	for b := 0; b < 256; b++ {
		lead[b] = t.IsLead(byte(b))
	}
	lo, hi := t.TrailRange()
	if lo > hi {
		return lead, new(byteSet)
	}
	return lead, byteRange([2]byte{lo, hi})
}

// NewEUCTW returns x-EUC-TW over CNS 11643 planes given in GL form,
// planes[0] being plane 1. Plane 1 is reached both directly and through
// the four-byte 8E A1 form; missing planes decode as unmappable.
func NewEUCTW(planes ...DoubleByteTable) Charset {
	if len(planes) == 0 || planes[0] == nil {
		planes = append([]DoubleByteTable{table.NewDoubleByte("CNS11643-1")}, planes...)
	}
	cfg := &eucConfig{g1: planes[0], planes: planes}
	return eucCharset("x-EUC-TW", []string{"euc_tw", "euctw", "cns11643", "EUC-TW"},
		func() *eucConfig { return cfg }, sizeEUCTW)
}

// NewISO2022CNS returns x-ISO-2022-CN-CNS: ISO-2022-CN that encodes with
// the given CNS 11643 planes 1 and 2 (GL form). Either may be nil.
func NewISO2022CNS(plane1, plane2 DoubleByteTable) Charset {
	cfg := newISO2022CNConfig(plane1, plane2, false)
	return iso2022Charset("x-ISO-2022-CN-CNS", []string{"ISO2022CN_CNS"},
		func() *iso2022Config { return cfg }, len(cfg.encodeRules) > 0)
}

// FromUCM builds a charset from a parsed .ucm file according to its
// <uconv_class>: SBCS, DBCS or MBCS with at most two bytes per
// character, or EBCDIC_STATEFUL.
func FromUCM(u *table.UCM, aliases ...string) (Charset, error) {
	single, err := u.SingleByte()
	if err != nil {
		return nil, loadError(u.Name, err)
	}

	var cs Charset
	switch strings.ToUpper(u.Class) {
	case "SBCS":
		cs = NewSingleByteCharset(u.Name, single, aliases...)
	case "DBCS", "MBCS", "EBCDIC_STATEFUL":
		if u.MBMax > 2 {
			return nil, NewError(PhaseLoad, KindInvalidTable).Charset(u.Name).
				Detail("%d-byte characters are not supported", u.MBMax).Build()
		}
		double, err := u.DoubleByte()
		if err != nil {
			return nil, loadError(u.Name, err)
		}
		if strings.EqualFold(u.Class, "EBCDIC_STATEFUL") {
			cs = NewEBCDICMixedCharset(u.Name, single, double, aliases...)
		} else {
			cs = NewDoubleByteCharset(u.Name, single, double, aliases...)
		}
	default:
		return nil, NewError(PhaseLoad, KindInvalidTable).Charset(u.Name).
			Detail("unsupported uconv_class %q", u.Class).Build()
	}

	if repl := ucmReplacement(cs, u); repl != nil {
		cs.(*charset).repl = repl
	}
	return cs, nil
}

// ucmReplacement returns the first of <subchar> and <subchar1> that is a
// legal replacement for cs, or nil. A mixed EBCDIC charset replaces in
// single-byte mode, so only a one-byte sequence will do there.
func ucmReplacement(cs Charset, u *table.UCM) []byte {
	e, err := cs.NewEncoder()
	if err != nil {
		return nil
	}
	mixed := strings.EqualFold(u.Class, "EBCDIC_STATEFUL")
	for _, sub := range [][]byte{u.Subchar, u.Subchar1} {
		if len(sub) == 0 || mixed && len(sub) != 1 {
			continue
		}
		if e.ReplaceWith(sub) == nil {
			return sub
		}
	}
	return nil
}

// FromBundle builds a charset from a compiled table bundle.
func FromBundle(b *table.Bundle) (Charset, error) {
	return FromUCM(b.UCM(), b.Aliases...)
}

// LoadTable reads a table file and builds its charset. Files named
// *.ucm, optionally followed by .zst, .zstd or .lz4, are parsed as UCM;
// anything else is read as a bundle.
func LoadTable(path string, aliases ...string) (Charset, error) {
	start := time.Now()
	base := strings.TrimSuffix(strings.TrimSuffix(strings.TrimSuffix(path, ".zst"), ".zstd"), ".lz4")

	var cs Charset
	if strings.HasSuffix(strings.ToLower(base), ".ucm") {
		u, err := table.LoadUCM(path)
		if err != nil {
			return nil, loadError(path, err)
		}
		if cs, err = FromUCM(u, aliases...); err != nil {
			return nil, err
		}
	} else {
		b, err := table.LoadBundle(path)
		if err != nil {
			return nil, loadError(path, err)
		}
		b.Aliases = append(b.Aliases, aliases...)
		if cs, err = FromBundle(b); err != nil {
			return nil, err
		}
	}

	Logger().Debug("loaded mapping table",
		zap.String("path", path),
		zap.String("charset", cs.Name()),
		zap.Duration("elapsed", time.Since(start)))
	return cs, nil
}

// RegisterTable loads a table file and registers the charset.
func RegisterTable(path string, aliases ...string) (Charset, error) {
	cs, err := LoadTable(path, aliases...)
	if err != nil {
		return nil, err
	}
	if err := Register(cs); err != nil {
		return nil, err
	}
	return cs, nil
}

func loadError(name string, err error) error {
	return NewError(PhaseLoad, KindInvalidTable).Charset(name).Cause(err).Build()
}
