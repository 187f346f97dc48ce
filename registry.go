// This file is part of https://github.com/racingmars/charconv/
// Copyright 2025 by Matthew R. Wilson, licensed under the MIT license.
// See LICENSE in the project root for license information.

package charconv

import (
	"slices"
	"strings"
	"sync"

	"go.uber.org/zap"
)

var registry = struct {
	sync.RWMutex
	byName map[string]Charset
	list   []Charset
}{byName: make(map[string]Charset)}

// defaultCharset is the charset the command-line tools fall back to.
// Other charsets may be selected globally with SetDefault.
var defaultCharset Charset = UTF8

func normalize(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}

// Register adds cs to the catalogue under its name and aliases. It fails
// if any of those names is already taken.
func Register(cs Charset) error {
	names := append([]string{cs.Name()}, cs.Aliases()...)

	registry.Lock()
	defer registry.Unlock()
	for _, n := range names {
		if prev, ok := registry.byName[normalize(n)]; ok {
			return NewError(PhaseLookup, KindDuplicateRegistration).
				Charset(cs.Name()).
				Detail("name %q already used by %s", n, prev.Name()).
				Build()
		}
	}
	for _, n := range names {
		registry.byName[normalize(n)] = cs
	}
	registry.list = append(registry.list, cs)

	Logger().Debug("registered charset",
		zap.String("charset", cs.Name()),
		zap.Strings("aliases", cs.Aliases()))
	return nil
}

// MustRegister is Register for package initialization; it panics on a
// name clash.
func MustRegister(cs Charset) Charset {
	if err := Register(cs); err != nil {
		panic(err)
	}
	return cs
}

// Lookup returns the charset with the given name or alias. Matching is
// case-insensitive.
func Lookup(name string) (Charset, error) {
	registry.RLock()
	cs, ok := registry.byName[normalize(name)]
	registry.RUnlock()
	if !ok {
		return nil, NewError(PhaseLookup, KindUnsupportedCharset).Charset(name).Build()
	}
	return cs, nil
}

// MustLookup is Lookup for names known to be registered; it panics if
// name is not.
func MustLookup(name string) Charset {
	cs, err := Lookup(name)
	if err != nil {
		panic(err)
	}
	return cs
}

// IsSupported reports whether Lookup(name) would succeed.
func IsSupported(name string) bool {
	_, err := Lookup(name)
	return err == nil
}

// Charsets returns every registered charset ordered by name.
func Charsets() []Charset {
	registry.RLock()
	list := slices.Clone(registry.list)
	registry.RUnlock()
	slices.SortFunc(list, func(a, b Charset) int {
		return strings.Compare(strings.ToLower(a.Name()), strings.ToLower(b.Name()))
	})
	return list
}

// Default returns the default charset, UTF-8 unless changed by SetDefault.
func Default() Charset {
	registry.RLock()
	defer registry.RUnlock()
	return defaultCharset
}

// SetDefault sets the default charset. This is a global setting intended
// for application initialization.
func SetDefault(cs Charset) {
	registry.Lock()
	defaultCharset = cs
	registry.Unlock()
}
