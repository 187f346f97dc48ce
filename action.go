// This file is part of https://github.com/racingmars/charconv/
// Copyright 2025 by Matthew R. Wilson, licensed under the MIT license.
// See LICENSE in the project root for license information.

package charconv

import "strings"

// Action selects what a Decoder or Encoder does when it meets malformed
// input or an unmappable character. The zero value is Report.
type Action uint8

const (
	// Report returns the error result to the caller and leaves the input
	// positioned at the start of the offending sequence.
	Report Action = iota

	// Ignore drops the offending input and continues.
	Ignore

	// Replace writes the coder's replacement to the output, drops the
	// offending input and continues.
	Replace
)

func (a Action) String() string {
	switch a {
	case Report:
		return "report"
	case Ignore:
		return "ignore"
	case Replace:
		return "replace"
	}
	return "unknown"
}

// ParseAction converts "report", "ignore" or "replace" (any case) into an
// Action.
func ParseAction(s string) (Action, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "report", "":
		return Report, nil
	case "ignore":
		return Ignore, nil
	case "replace":
		return Replace, nil
	}
	return Report, NewError(PhaseConfig, KindInvalidArgument).
		Detail("unknown error action %q", s).Build()
}
