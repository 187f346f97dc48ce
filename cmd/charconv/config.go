// This file is part of https://github.com/racingmars/charconv/
// Copyright 2025 by Matthew R. Wilson, licensed under the MIT license.
// See LICENSE in the project root for license information.

package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/tidwall/jsonc"
	"gopkg.in/yaml.v3"

	"github.com/racingmars/charconv"
)

// defaultBufferSize is the size of the input buffer when neither the
// config file nor --buffer sets one.
const defaultBufferSize = 8192

// Config holds the settings that can come from a config file. Flags given
// on the command line override them.
type Config struct {
	From        string   `yaml:"from"`
	To          string   `yaml:"to"`
	Malformed   string   `yaml:"malformed"`
	Unmappable  string   `yaml:"unmappable"`
	Replacement string   `yaml:"replacement"`
	BufferSize  int      `yaml:"buffer_size"`
	Tables      []string `yaml:"tables"`
	LogLevel    string   `yaml:"log_level"`
}

// loadConfig reads a YAML config file, or a JSON one with comments if the
// name ends in .json or .jsonc.
func loadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	if strings.HasSuffix(path, ".jsonc") || strings.HasSuffix(path, ".json") {
		data = jsonc.ToJSON(data)
	}

	var c Config
	if err := yaml.Unmarshal(data, &c); err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}
	return &c, nil
}

// applyDefaults fills unset fields.
func (c *Config) applyDefaults() {
	if c.From == "" {
		c.From = charconv.Default().Name()
	}
	if c.To == "" {
		c.To = charconv.Default().Name()
	}
	if c.BufferSize <= 0 {
		c.BufferSize = defaultBufferSize
	}
	if c.LogLevel == "" {
		c.LogLevel = "warn"
	}
}

// actions parses the malformed and unmappable settings.
func (c *Config) actions() (malformed, unmappable charconv.Action, err error) {
	if malformed, err = charconv.ParseAction(c.Malformed); err != nil {
		return 0, 0, fmt.Errorf("malformed: %w", err)
	}
	if unmappable, err = charconv.ParseAction(c.Unmappable); err != nil {
		return 0, 0, fmt.Errorf("unmappable: %w", err)
	}
	return malformed, unmappable, nil
}
