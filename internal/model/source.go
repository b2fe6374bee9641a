// Package model defines the data structures shared by the generator layers.
package model

import "strings"

// Path represents a file system path.
type Path string

// String returns the path as a plain string.
func (p Path) String() string {
	return string(p)
}

// Mapping is one explicit key/value pair supplied by the caller.
type Mapping struct {
	Key   string
	Value string
}

// Placeholder is a single `$NAME` or `${NAME}` occurrence found in a file.
// Offset and Length are byte positions into the scanned content.
type Placeholder struct {
	Offset int
	Length int
	Name   string
}

// End returns the offset of the first byte after the placeholder.
func (p Placeholder) End() int {
	return p.Offset + p.Length
}

// ValueSource tells where a resolved value came from.
type ValueSource string

const (
	// SourceMapping marks a value supplied through explicit mappings.
	SourceMapping ValueSource = "mapping"
	// SourceEnvironment marks a value read from the process environment.
	SourceEnvironment ValueSource = "environment"
)

// NormalizeKey returns the canonical form used for case-insensitive key comparison.
func NormalizeKey(key string) string {
	return strings.ToLower(key)
}
