// This file is part of https://github.com/racingmars/charconv/
// Copyright 2025 by Matthew R. Wilson, licensed under the MIT license.
// See LICENSE in the project root for license information.

//go:build !unix

package charconv

// directMem on platforms without mmap is a separate heap allocation. The
// buffers built on it still hide it from Array.
type directMem struct {
	b []byte
	u []uint16
}

func allocDirect(n int) *directMem {
	if n < 0 {
		bufferPanic("negative capacity:", n)
	}
	return &directMem{b: make([]byte, n), u: make([]uint16, n/2)}
}

func (m *directMem) chars(n int) []uint16 {
	return m.u[:n]
}
