package toon

import (
	"errors"
	"fmt"
)

var (
	// ErrSyntax is matched by every *ParseError, so callers can detect a
	// malformed document with errors.Is and fall back to another format.
	ErrSyntax = errors.New("toon: syntax error")

	ErrMissingKey = errors.New("toon: missing key")
)

// ParseError describes a structural problem found while decoding.
type ParseError struct {
	Offset int    // Byte offset into the input
	Reason string // What was wrong
	Near   string // Input text starting at Offset, truncated
}

func (e *ParseError) Error() string {
	if e.Near == "" {
		return fmt.Sprintf("toon: %s at offset %d", e.Reason, e.Offset)
	}
	return fmt.Sprintf("toon: %s at offset %d near %q", e.Reason, e.Offset, e.Near)
}

func (e *ParseError) Unwrap() error {
	return ErrSyntax
}
