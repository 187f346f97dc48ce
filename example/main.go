// This file is part of https://github.com/racingmars/charconv/
// Copyright 2025 by Matthew R. Wilson, licensed under the MIT license.
// See LICENSE in the project root for license information.

// example is a line echo server for telnet clients sending host-encoded
// text, such as a tn3270 gateway in line mode or a test harness. Each line
// received is decoded from the chosen charset, logged, and sent back
// upper-cased in the same charset.
package main

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"net"
	"os"
	"strings"
	"time"

	"github.com/spf13/pflag"
	"go.uber.org/zap"

	"github.com/racingmars/charconv"
)

func main() {
	listen := pflag.StringP("listen", "l", ":3270", "address to listen on")
	name := pflag.StringP("charset", "c", "cp037", "charset of the client's data")
	pflag.Parse()

	log, err := zap.NewDevelopment()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	defer log.Sync() //nolint:errcheck
	charconv.SetLogger(log)

	cs, err := charconv.Lookup(*name)
	if err != nil {
		log.Fatal("unknown charset", zap.Error(err))
	}
	if !cs.CanEncode() {
		log.Fatal("charset cannot encode", zap.String("charset", cs.Name()))
	}

	ln, err := net.Listen("tcp", *listen)
	if err != nil {
		log.Fatal("listen failed", zap.Error(err))
	}
	log.Info("listening", zap.String("addr", ln.Addr().String()), zap.String("charset", cs.Name()))

	for {
		conn, err := ln.Accept()
		if err != nil {
			log.Fatal("accept failed", zap.Error(err))
		}
		go func() {
			clog := log.With(zap.String("remote", conn.RemoteAddr().String()))
			if err := handle(conn, cs, clog); err != nil {
				clog.Warn("connection ended", zap.Error(err))
			}
		}()
	}
}

// handle runs the echo loop on one connection until the client goes away.
func handle(conn net.Conn, cs charconv.Charset, log *zap.Logger) error {
	defer conn.Close()

	if err := negotiateBinary(conn, 5*time.Second); err != nil {
		return err
	}

	w, err := charconv.NewWriter(telnetWriter{conn}, cs)
	if err != nil {
		return err
	}
	defer w.Close()

	s := bufio.NewScanner(charconv.NewReader(newTelnetReader(conn), cs))
	for s.Scan() {
		line := s.Text()
		log.Info("line received", zap.String("text", line))
		if _, err := io.WriteString(w, strings.ToUpper(line)+"\n"); err != nil {
			return err
		}
	}
	if err := s.Err(); err != nil && !errors.Is(err, io.EOF) {
		return err
	}
	return nil
}
