// This file is part of https://github.com/racingmars/charconv/
// Copyright 2025 by Matthew R. Wilson, licensed under the MIT license.
// See LICENSE in the project root for license information.

//go:build unix

package charconv

import (
	"runtime"
	"unsafe"

	"golang.org/x/sys/unix"
)

// directMem is an anonymous private mapping. It is unmapped when the last
// buffer view referring to it becomes unreachable.
type directMem struct {
	b []byte
}

func allocDirect(n int) *directMem {
	if n < 0 {
		bufferPanic("negative capacity:", n)
	}
	if n == 0 {
		return &directMem{b: []byte{}}
	}
	b, err := unix.Mmap(-1, 0, n, unix.PROT_READ|unix.PROT_WRITE,
		unix.MAP_ANON|unix.MAP_PRIVATE)
	if err != nil {
		panic("charconv: mmap of direct buffer failed: " + err.Error())
	}
	m := &directMem{b: b}
	runtime.SetFinalizer(m, func(m *directMem) {
		_ = unix.Munmap(m.b)
	})
	return m
}

// chars views the mapping as n UTF-16 code units. Mappings are page
// aligned so the conversion is always suitably aligned.
func (m *directMem) chars(n int) []uint16 {
	if n == 0 {
		return []uint16{}
	}
	return unsafe.Slice((*uint16)(unsafe.Pointer(&m.b[0])), n)
}
