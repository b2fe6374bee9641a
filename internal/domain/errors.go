package domain

import (
	"errors"
	"fmt"

	m "github.com/mouse-blink/traefik-replace/internal/model"
)

var (
	// ErrDuplicateMapping is returned when two explicit mappings share a key (case-insensitive).
	ErrDuplicateMapping = errors.New("duplicate mapping key")
	// ErrUnresolvedPlaceholder is returned when a placeholder has no mapping and no usable environment value.
	ErrUnresolvedPlaceholder = errors.New("unresolved placeholder")
	// ErrMalformedPlaceholder is returned when a placeholder match carries no identifier.
	ErrMalformedPlaceholder = errors.New("malformed placeholder")
	// ErrInvalidOutput is returned when rendered content no longer parses in its config format.
	ErrInvalidOutput = errors.New("invalid generated output")
	// ErrInvalidRoot is returned when the scan root is missing or not a directory.
	ErrInvalidRoot = errors.New("invalid root path")
)

// UnresolvedPlaceholderError names the file and key that could not be resolved.
type UnresolvedPlaceholderError struct {
	File m.Path
	Key  string
}

func (e *UnresolvedPlaceholderError) Error() string {
	return fmt.Sprintf("no mapping was found for %q in %s", e.Key, e.File)
}

func (e *UnresolvedPlaceholderError) Unwrap() error {
	return ErrUnresolvedPlaceholder
}
