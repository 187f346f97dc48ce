// This file is part of https://github.com/racingmars/charconv/
// Copyright 2025 by Matthew R. Wilson, licensed under the MIT license.
// See LICENSE in the project root for license information.

// charconv converts text between character sets, in the manner of iconv.
//
//	charconv -f cp037 -t UTF-8 < dataset.ebcdic > dataset.txt
//	charconv --detect -f x-JISAutoDetect < unknown.txt
//	charconv --list
//
// Settings can also come from a YAML (or commented JSON) file given with
// --config; flags on the command line win.
package main

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/pflag"
	"go.uber.org/zap"

	"github.com/racingmars/charconv"
)

func main() {
	if err := run(os.Args[1:], os.Stdin, os.Stdout); err != nil {
		fmt.Fprintf(os.Stderr, "charconv: %v\n", err)
		os.Exit(1)
	}
}

func run(args []string, stdin io.Reader, stdout io.Writer) error {
	var (
		cfg        Config
		configPath string
		list       bool
		detectOnly bool
	)

	flags := pflag.NewFlagSet("charconv", pflag.ContinueOnError)
	flags.StringVarP(&cfg.From, "from", "f", "", "charset of the input (default: the default charset)")
	flags.StringVarP(&cfg.To, "to", "t", "", "charset of the output (default: the default charset)")
	flags.StringVar(&cfg.Malformed, "malformed", "", "action for malformed input: report, ignore or replace")
	flags.StringVar(&cfg.Unmappable, "unmappable", "", "action for unmappable characters: report, ignore or replace")
	flags.StringVar(&cfg.Replacement, "replacement", "", "replacement text used when decoding")
	flags.IntVar(&cfg.BufferSize, "buffer", 0, "input buffer size in bytes")
	flags.StringArrayVar(&cfg.Tables, "table", nil, "load and register a mapping table (.ucm or bundle); repeatable")
	flags.StringVar(&cfg.LogLevel, "log-level", "", "log level: debug, info, warn or error")
	flags.StringVar(&configPath, "config", "", "read settings from this YAML or JSON file")
	flags.BoolVar(&list, "list", false, "list supported charsets and exit")
	flags.BoolVar(&detectOnly, "detect", false, "print the charset the --from autodetector picks and exit")

	if err := flags.Parse(args); err != nil {
		if err == pflag.ErrHelp {
			return nil
		}
		return err
	}
	if flags.NArg() > 0 {
		return fmt.Errorf("unexpected arguments: %v", flags.Args())
	}

	if configPath != "" {
		fileCfg, err := loadConfig(configPath)
		if err != nil {
			return err
		}
		cfg = mergeFlags(*fileCfg, cfg, flags)
	}
	cfg.applyDefaults()

	log, err := newLogger(cfg.LogLevel)
	if err != nil {
		return err
	}
	defer log.Sync() //nolint:errcheck
	charconv.SetLogger(log)

	for _, path := range cfg.Tables {
		cs, err := charconv.RegisterTable(path)
		if err != nil {
			return err
		}
		log.Info("registered table", zap.String("path", path), zap.String("charset", cs.Name()))
	}

	if list {
		return listCharsets(stdout, charconv.Charsets())
	}

	from, err := charconv.Lookup(cfg.From)
	if err != nil {
		return err
	}
	if detectOnly {
		cs, err := detect(stdin, from, 64*1024)
		if err != nil {
			return err
		}
		_, err = fmt.Fprintln(stdout, cs.Name())
		return err
	}

	to, err := charconv.Lookup(cfg.To)
	if err != nil {
		return err
	}
	dec, enc, err := newCoders(&cfg, from, to)
	if err != nil {
		return err
	}

	c := newConverter(dec, enc, cfg.BufferSize, log)
	return c.run(stdin, stdout)
}

// mergeFlags overlays the flags set on the command line onto the file
// settings.
func mergeFlags(file, cmd Config, flags *pflag.FlagSet) Config {
	set := func(name string, dst *string, v string) {
		if flags.Changed(name) {
			*dst = v
		}
	}
	set("from", &file.From, cmd.From)
	set("to", &file.To, cmd.To)
	set("malformed", &file.Malformed, cmd.Malformed)
	set("unmappable", &file.Unmappable, cmd.Unmappable)
	set("replacement", &file.Replacement, cmd.Replacement)
	set("log-level", &file.LogLevel, cmd.LogLevel)
	if flags.Changed("buffer") {
		file.BufferSize = cmd.BufferSize
	}
	file.Tables = append(file.Tables, cmd.Tables...)
	return file
}

// newCoders builds the decoder and encoder for a conversion. The decoding
// replacement is also used when encoding.
func newCoders(cfg *Config, from, to charconv.Charset) (*charconv.Decoder, *charconv.Encoder, error) {
	malformed, unmappable, err := cfg.actions()
	if err != nil {
		return nil, nil, err
	}

	dec := from.NewDecoder().OnMalformedInput(malformed).OnUnmappableCharacter(unmappable)
	enc, err := to.NewEncoder()
	if err != nil {
		return nil, nil, err
	}
	enc.OnMalformedInput(malformed).OnUnmappableCharacter(unmappable)

	if cfg.Replacement != "" {
		if err := dec.ReplaceWith(cfg.Replacement); err != nil {
			return nil, nil, err
		}
		// The target keeps its own replacement when this one is too long
		// or not encodable there.
		b, err := charconv.MustNewEncoder(to).EncodeAll(cfg.Replacement)
		if err == nil {
			err = enc.ReplaceWith(b)
		}
		if err != nil {
			charconv.Logger().Debug("keeping target replacement",
				zap.String("charset", to.Name()),
				zap.String("replacement", cfg.Replacement),
				zap.Binary("default", enc.Replacement()),
				zap.Error(err))
		}
	}
	return dec, enc, nil
}
