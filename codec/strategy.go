package codec

import (
	"fmt"
	"strings"
)

// DefaultFileThreshold is the sequence length from which outbound transfers
// go through a temporary file unless told otherwise.
const DefaultFileThreshold = 10000

// Strategy is how an outbound sequence reaches the foreign runtime.
type Strategy uint8

const (
	Inline     Strategy = iota // comma-joined decimal text
	FileBacked                 // raw binary buffer in a temp file
)

func (s Strategy) String() string {
	if s == FileBacked {
		return "file"
	}
	return "inline"
}

// Override is the caller's say in strategy selection.
type Override uint8

const (
	Unset Override = iota
	ForceInline
	ForceFile
)

func (o Override) String() string {
	switch o {
	case ForceInline:
		return "false"
	case ForceFile:
		return "true"
	default:
		return "auto"
	}
}

// ParseOverride reads "auto", "true"/"file" or "false"/"inline".
func ParseOverride(s string) (Override, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "auto", "na":
		return Unset, nil
	case "true", "file", "yes":
		return ForceFile, nil
	case "false", "inline", "no":
		return ForceInline, nil
	default:
		return Unset, fmt.Errorf("unknown use-file value %q", s)
	}
}

// SelectStrategy is a pure function of the sequence length and override.
// A non-positive threshold falls back to DefaultFileThreshold.
func SelectStrategy(n int, override Override, threshold int) Strategy {
	if threshold <= 0 {
		threshold = DefaultFileThreshold
	}
	switch override {
	case ForceFile:
		return FileBacked
	case ForceInline:
		return Inline
	}
	if n < threshold {
		return Inline
	}
	return FileBacked
}
