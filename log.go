// This file is part of https://github.com/racingmars/charconv/
// Copyright 2025 by Matthew R. Wilson, licensed under the MIT license.
// See LICENSE in the project root for license information.

package charconv

import (
	"sync"

	"go.uber.org/zap"

	"github.com/racingmars/charconv/internal/codepage"
)

var (
	logMu  sync.RWMutex
	logger = zap.NewNop()
)

// Logger returns the package logger. It is a no-op logger unless
// SetLogger has been called.
func Logger() *zap.Logger {
	logMu.RLock()
	defer logMu.RUnlock()
	return logger
}

// SetLogger sets the logger used for the rare events worth reporting:
// table construction and loading, charset registration and autodetection
// decisions. Conversion loops never log. A nil logger disables logging.
func SetLogger(l *zap.Logger) {
	if l == nil {
		l = zap.NewNop()
	}
	logMu.Lock()
	logger = l
	logMu.Unlock()
	codepage.SetLogger(l.Named("codepage"))
}
