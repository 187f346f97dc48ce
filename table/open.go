// This file is part of https://github.com/racingmars/charconv/
// Copyright 2025 by Matthew R. Wilson, licensed under the MIT license.
// See LICENSE in the project root for license information.

package table

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/klauspost/compress/zstd"
	"github.com/pierrec/lz4/v4"
)

// Compression identifies how a table file is compressed. It is chosen
// from the file name suffix.
type Compression uint8

const (
	CompressionNone Compression = iota
	CompressionZstd
	CompressionLZ4
)

// String returns the human-readable name of a compression.
func (c Compression) String() string {
	switch c {
	case CompressionNone:
		return "none"
	case CompressionZstd:
		return "zstd"
	case CompressionLZ4:
		return "lz4"
	default:
		return fmt.Sprintf("unknown(%d)", c)
	}
}

// CompressionFor returns the compression implied by path's suffix: .zst
// or .zstd for zstd, .lz4 for LZ4, anything else for none.
func CompressionFor(path string) Compression {
	switch {
	case strings.HasSuffix(path, ".zst"), strings.HasSuffix(path, ".zstd"):
		return CompressionZstd
	case strings.HasSuffix(path, ".lz4"):
		return CompressionLZ4
	}
	return CompressionNone
}

type readCloser struct {
	io.Reader
	close func() error
}

func (r readCloser) Close() error { return r.close() }

// Open opens a table file, decompressing it on the fly according to its
// suffix.
func Open(path string) (io.ReadCloser, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	r, err := NewReader(f, CompressionFor(path))
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("table: %s: %w", path, err)
	}
	return readCloser{Reader: r, close: func() error {
		if c, ok := r.(io.Closer); ok && r != io.Reader(f) {
			c.Close()
		}
		return f.Close()
	}}, nil
}

// NewReader wraps r with a decompressor.
func NewReader(r io.Reader, c Compression) (io.Reader, error) {
	switch c {
	case CompressionNone:
		return r, nil
	case CompressionZstd:
		d, err := zstd.NewReader(r)
		if err != nil {
			return nil, err
		}
		return d.IOReadCloser(), nil
	case CompressionLZ4:
		return lz4.NewReader(r), nil
	}
	return nil, fmt.Errorf("unknown compression %v", c)
}

type writeCloser struct {
	io.Writer
	close func() error
}

func (w writeCloser) Close() error { return w.close() }

// Create creates a table file, compressing according to its suffix. The
// file is complete only after Close returns nil.
func Create(path string) (io.WriteCloser, error) {
	f, err := os.Create(path)
	if err != nil {
		return nil, err
	}

	var zw io.WriteCloser
	switch CompressionFor(path) {
	case CompressionZstd:
		zw, err = zstd.NewWriter(f, zstd.WithEncoderLevel(zstd.SpeedBetterCompression))
		if err != nil {
			f.Close()
			return nil, err
		}
	case CompressionLZ4:
		zw = lz4.NewWriter(f)
	default:
		return f, nil
	}
	return writeCloser{Writer: zw, close: func() error {
		return errors.Join(zw.Close(), f.Close())
	}}, nil
}

// LoadUCM opens and parses a possibly compressed .ucm file.
func LoadUCM(path string) (*UCM, error) {
	r, err := Open(path)
	if err != nil {
		return nil, err
	}
	defer r.Close()
	u, err := ParseUCM(r)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return u, nil
}
