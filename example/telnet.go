// This file is part of https://github.com/racingmars/charconv/
// Copyright 2025 by Matthew R. Wilson, licensed under the MIT license.
// See LICENSE in the project root for license information.

package main

import (
	"errors"
	"io"
	"net"
	"time"
)

const (
	se   = 240 // 0xf0
	nop  = 241 // 0xf1
	sb   = 250 // 0xfa
	will = 251 // 0xfb
	wont = 252 // 0xfc
	do   = 253 // 0xfd
	dont = 254 // 0xfe
	iac  = 255 // 0xff

	binaryOption = 0
)

// errNoBinary indicates that the telnet client would not switch to binary
// mode, so 8-bit host data cannot be exchanged.
var errNoBinary = errors.New("couldn't negotiate telnet binary mode")

// errTelnet indicates an unexpected response in the telnet protocol.
var errTelnet = errors.New("telnet protocol error")

// negotiateBinary asks the client to exchange data in binary mode in both
// directions and waits up to timeout for it to agree.
func negotiateBinary(conn net.Conn, timeout time.Duration) error {
	if _, err := conn.Write([]byte{iac, will, binaryOption, iac, do, binaryOption}); err != nil {
		return err
	}

	conn.SetReadDeadline(time.Now().Add(timeout))
	defer conn.SetReadDeadline(time.Time{})

	// The two answers may arrive in either order.
	var gotDo, gotWill bool
	var buf [3]byte
	for !gotDo || !gotWill {
		if _, err := io.ReadFull(conn, buf[:]); err != nil {
			return err
		}
		if buf[0] != iac || buf[2] != binaryOption {
			return errTelnet
		}
		switch buf[1] {
		case do:
			gotDo = true
		case will:
			gotWill = true
		case dont, wont:
			return errNoBinary
		default:
			return errTelnet
		}
	}
	return nil
}

// telnetReader passes through the data bytes of a telnet stream, dropping
// commands and subnegotiations and unescaping doubled IAC bytes.
type telnetReader struct {
	r     io.Reader
	state int
	buf   []byte
}

const (
	stateData = iota
	stateCommand
	stateOption
	stateSubneg
	stateSubnegIAC
)

func newTelnetReader(r io.Reader) *telnetReader {
	return &telnetReader{r: r, buf: make([]byte, 1024)}
}

func (t *telnetReader) Read(p []byte) (int, error) {
	for {
		n := len(p)
		if n > len(t.buf) {
			n = len(t.buf)
		}
		bn, err := t.r.Read(t.buf[:n])

		out := 0
		for _, b := range t.buf[:bn] {
			switch t.state {
			case stateData:
				if b == iac {
					t.state = stateCommand
				} else {
					p[out] = b
					out++
				}
			case stateCommand:
				switch {
				case b == iac:
					p[out] = iac
					out++
					t.state = stateData
				case b == sb:
					t.state = stateSubneg
				case b >= will && b <= dont:
					t.state = stateOption
				default:
					t.state = stateData
				}
			case stateOption:
				t.state = stateData
			case stateSubneg:
				if b == iac {
					t.state = stateSubnegIAC
				}
			case stateSubnegIAC:
				if b == se {
					t.state = stateData
				} else {
					t.state = stateSubneg
				}
			}
		}

		// A read that held only commands is not the end of the stream.
		if out > 0 || err != nil {
			return out, err
		}
	}
}

// telnetWriter escapes IAC bytes in data written to a telnet stream.
type telnetWriter struct {
	w io.Writer
}

func (t telnetWriter) Write(p []byte) (int, error) {
	buf := make([]byte, 0, len(p)+8)
	for _, b := range p {
		if b == iac {
			buf = append(buf, iac)
		}
		buf = append(buf, b)
	}
	if _, err := t.w.Write(buf); err != nil {
		return 0, err
	}
	return len(p), nil
}
