// This file is part of https://github.com/racingmars/charconv/
// Copyright 2025 by Matthew R. Wilson, licensed under the MIT license.
// See LICENSE in the project root for license information.

// mktable compiles ICU .ucm mapping files from
// https://github.com/unicode-org/icu-data into table bundles that
// charconv.LoadTable reads, or into Go source for the built-in code page
// package.
//
//	mktable -i ibm-930_P120-1999.ucm -o ibm930.ctb.zst -a cp930 -a ibm-930
//	mktable -i ibm-037_P100-1995.ucm --go -n 037 > internal/codepage/cp037.go
//
// The output compression follows the -o suffix: .zst or .zstd for zstd,
// .lz4 for LZ4, anything else uncompressed.
package main

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/spf13/pflag"

	"github.com/racingmars/charconv/table"
)

func main() {
	if err := run(os.Args[1:], os.Stdout); err != nil {
		fmt.Fprintf(os.Stderr, "mktable: %v\n", err)
		os.Exit(1)
	}
}

func run(args []string, stdout io.Writer) error {
	var (
		input   string
		output  string
		name    string
		aliases []string
		goSrc   bool
	)
	flags := pflag.NewFlagSet("mktable", pflag.ContinueOnError)
	flags.StringVarP(&input, "input", "i", "", "input .ucm file, optionally .zst or .lz4 compressed")
	flags.StringVarP(&output, "output", "o", "", "output file (default: standard output)")
	flags.StringVarP(&name, "name", "n", "", "charset name (default: the <code_set_name> of the input)")
	flags.StringArrayVarP(&aliases, "alias", "a", nil, "charset alias; repeatable")
	flags.BoolVar(&goSrc, "go", false, "write Go source for a single-byte table instead of a bundle")

	if err := flags.Parse(args); err != nil {
		if err == pflag.ErrHelp {
			return nil
		}
		return err
	}
	if input == "" {
		return errors.New("-i is required")
	}

	u, err := table.LoadUCM(input)
	if err != nil {
		return err
	}
	if name != "" {
		u.Name = name
	}
	for _, r := range duplicates(u) {
		fmt.Fprintf(os.Stderr, "WARNING: duplicate codepoint U+%04X\n", r)
	}

	var buf bytes.Buffer
	if goSrc {
		t, err := u.SingleByte()
		if err != nil {
			return err
		}
		if err := writeGo(&buf, u.Name, filepath.Base(input), t); err != nil {
			return err
		}
	} else {
		b := table.NewBundle(u, aliases...)
		if _, err := b.WriteTo(&buf); err != nil {
			return err
		}
	}

	if output == "" {
		_, err := stdout.Write(buf.Bytes())
		return err
	}
	if goSrc {
		return os.WriteFile(output, buf.Bytes(), 0o644)
	}
	f, err := table.Create(output)
	if err != nil {
		return err
	}
	if _, err := f.Write(buf.Bytes()); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

// duplicates returns the code points with more than one round-trip
// mapping. Only the first is used for encoding.
func duplicates(u *table.UCM) []rune {
	seen := make(map[rune]bool)
	var dups []rune
	for _, e := range u.Entries {
		if e.Kind != table.RoundTrip {
			continue
		}
		if seen[e.Rune] {
			dups = append(dups, e.Rune)
		}
		seen[e.Rune] = true
	}
	return dups
}
