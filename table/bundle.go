// This file is part of https://github.com/racingmars/charconv/
// Copyright 2025 by Matthew R. Wilson, licensed under the MIT license.
// See LICENSE in the project root for license information.

package table

import (
	"bytes"
	"fmt"
	"io"

	"github.com/fxamacker/cbor/v2"
	"github.com/zeebo/blake3"
)

// Bundle is a compiled mapping table: the data of a .ucm file in a compact
// CBOR form, with a BLAKE3 digest of its content.
type Bundle struct {
	Name     string   `cbor:"name"`
	Aliases  []string `cbor:"aliases,omitempty"`
	Class    string   `cbor:"class"`
	MBMax    int      `cbor:"mb_max"`
	Subchar  []byte   `cbor:"subchar,omitempty"`
	Subchar1 []byte   `cbor:"subchar1,omitempty"`
	Entries  []Entry  `cbor:"entries"`

	// Digest is the keyed BLAKE3 hash of the deterministic encoding of
	// every other field.
	Digest []byte `cbor:"digest,omitempty"`
}

// encMode is Core Deterministic Encoding (RFC 8949 section 4.2), so the
// digest of a bundle does not depend on who wrote it.
var encMode cbor.EncMode

var decMode cbor.DecMode

// bundleKey separates bundle digests from any other BLAKE3 use.
var bundleKey = blake3.Sum256([]byte("charconv table bundle v1"))

func init() {
	var err error
	encMode, err = cbor.CoreDetEncOptions().EncMode()
	if err != nil {
		panic("table: CBOR encoder initialization failed: " + err.Error())
	}
	decMode, err = cbor.DecOptions{}.DecMode()
	if err != nil {
		panic("table: CBOR decoder initialization failed: " + err.Error())
	}
}

// NewBundle compiles a parsed UCM file.
func NewBundle(u *UCM, aliases ...string) *Bundle {
	return &Bundle{
		Name:     u.Name,
		Aliases:  aliases,
		Class:    u.Class,
		MBMax:    u.MBMax,
		Subchar:  u.Subchar,
		Subchar1: u.Subchar1,
		Entries:  u.Entries,
	}
}

// UCM returns the bundle's content as a UCM value.
func (b *Bundle) UCM() *UCM {
	return &UCM{
		Name:     b.Name,
		Class:    b.Class,
		MBMax:    b.MBMax,
		MBMin:    1,
		Subchar:  b.Subchar,
		Subchar1: b.Subchar1,
		Entries:  b.Entries,
	}
}

func (b *Bundle) digest() ([]byte, error) {
	content := *b
	content.Digest = nil
	data, err := encMode.Marshal(&content)
	if err != nil {
		return nil, err
	}
	h, err := blake3.NewKeyed(bundleKey[:])
	if err != nil {
		panic("table: BLAKE3 keyed hash initialization failed: " + err.Error())
	}
	h.Write(data)
	return h.Sum(nil), nil
}

// Seal sets Digest from the current content.
func (b *Bundle) Seal() error {
	d, err := b.digest()
	if err != nil {
		return err
	}
	b.Digest = d
	return nil
}

// Verify checks Digest against the content.
func (b *Bundle) Verify() error {
	d, err := b.digest()
	if err != nil {
		return err
	}
	if !bytes.Equal(d, b.Digest) {
		return fmt.Errorf("%w: %s", ErrDigestMismatch, b.Name)
	}
	return nil
}

// WriteTo seals b and writes its encoding to w.
func (b *Bundle) WriteTo(w io.Writer) (int64, error) {
	if err := b.Seal(); err != nil {
		return 0, err
	}
	data, err := encMode.Marshal(b)
	if err != nil {
		return 0, err
	}
	n, err := w.Write(data)
	return int64(n), err
}

// ReadBundle decodes a bundle from r and verifies its digest.
func ReadBundle(r io.Reader) (*Bundle, error) {
	var b Bundle
	if err := decMode.NewDecoder(r).Decode(&b); err != nil {
		return nil, fmt.Errorf("table: decoding bundle: %w", err)
	}
	if err := b.Verify(); err != nil {
		return nil, err
	}
	return &b, nil
}

// LoadBundle opens, decompresses and verifies a bundle file.
func LoadBundle(path string) (*Bundle, error) {
	r, err := Open(path)
	if err != nil {
		return nil, err
	}
	defer r.Close()
	b, err := ReadBundle(r)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return b, nil
}
