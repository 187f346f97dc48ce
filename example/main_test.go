// This file is part of https://github.com/racingmars/charconv/
// Copyright 2025 by Matthew R. Wilson, licensed under the MIT license.
// See LICENSE in the project root for license information.

package main

import (
	"bytes"
	"io"
	"net"
	"testing"
	"time"

	"go.uber.org/zap"

	"github.com/racingmars/charconv"
)

func TestTelnetReader(t *testing.T) {
	in := []byte{
		'a', iac, nop, 'b',
		iac, do, binaryOption, 'c',
		iac, sb, 24, 0, 'x', iac, iac, 'y', iac, se, 'd',
		iac, iac, 'e',
	}
	got, err := io.ReadAll(newTelnetReader(bytes.NewReader(in)))
	if err != nil {
		t.Fatal(err)
	}
	want := []byte{'a', 'b', 'c', 'd', iac, 'e'}
	if !bytes.Equal(got, want) {
		t.Errorf("got % X, want % X", got, want)
	}
}

func TestTelnetReaderSplitCommand(t *testing.T) {
	// One byte per read, so commands straddle reads.
	in := []byte{'a', iac, will, binaryOption, iac, iac, 'b'}
	got, err := io.ReadAll(newTelnetReader(&oneByteReader{in}))
	if err != nil {
		t.Fatal(err)
	}
	if want := []byte{'a', iac, 'b'}; !bytes.Equal(got, want) {
		t.Errorf("got % X, want % X", got, want)
	}
}

type oneByteReader struct{ b []byte }

func (r *oneByteReader) Read(p []byte) (int, error) {
	if len(r.b) == 0 {
		return 0, io.EOF
	}
	p[0] = r.b[0]
	r.b = r.b[1:]
	return 1, nil
}

func TestTelnetWriter(t *testing.T) {
	var buf bytes.Buffer
	n, err := telnetWriter{&buf}.Write([]byte{1, iac, 2})
	if err != nil || n != 3 {
		t.Fatalf("Write = %d, %v", n, err)
	}
	if want := []byte{1, iac, iac, 2}; !bytes.Equal(buf.Bytes(), want) {
		t.Errorf("got % X, want % X", buf.Bytes(), want)
	}
}

func TestEcho(t *testing.T) {
	server, client := net.Pipe()
	defer client.Close()

	done := make(chan error, 1)
	go func() { done <- handle(server, charconv.MustLookup("cp037"), zap.NewNop()) }()

	offer := make([]byte, 6)
	if _, err := io.ReadFull(client, offer); err != nil {
		t.Fatal(err)
	}
	if want := []byte{iac, will, binaryOption, iac, do, binaryOption}; !bytes.Equal(offer, want) {
		t.Fatalf("offer % X, want % X", offer, want)
	}
	if _, err := client.Write([]byte{iac, will, binaryOption, iac, do, binaryOption}); err != nil {
		t.Fatal(err)
	}

	// "hi", a command, U+009F (0xFF in CP037, so escaped), newline
	if _, err := client.Write([]byte{0x88, 0x89, iac, nop, iac, iac, 0x25}); err != nil {
		t.Fatal(err)
	}
	reply := make([]byte, 5)
	client.SetReadDeadline(time.Now().Add(5 * time.Second))
	if _, err := io.ReadFull(client, reply); err != nil {
		t.Fatal(err)
	}
	if want := []byte{0xC8, 0xC9, iac, iac, 0x25}; !bytes.Equal(reply, want) {
		t.Errorf("reply % X, want % X", reply, want)
	}

	client.Close()
	select {
	case err := <-done:
		if err != nil {
			t.Errorf("handle: %v", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("handle did not return")
	}
}

func TestNegotiateRefused(t *testing.T) {
	server, client := net.Pipe()
	defer client.Close()
	defer server.Close()

	done := make(chan error, 1)
	go func() { done <- negotiateBinary(server, 5*time.Second) }()

	offer := make([]byte, 6)
	if _, err := io.ReadFull(client, offer); err != nil {
		t.Fatal(err)
	}
	client.Write([]byte{iac, wont, binaryOption})
	if err := <-done; err != errNoBinary {
		t.Errorf("got %v, want errNoBinary", err)
	}
}
