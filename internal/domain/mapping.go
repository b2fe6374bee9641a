package domain

import (
	"fmt"
	"log/slog"
	"os"
	"strings"

	m "github.com/mouse-blink/traefik-replace/internal/model"
)

// LookupEnvFunc matches os.LookupEnv so tests can supply a fake environment.
type LookupEnvFunc func(key string) (string, bool)

type mappingEntry struct {
	key    string
	value  string
	source m.ValueSource
}

// MappingTable resolves placeholder names. Keys are compared case-insensitively
// through m.NormalizeKey for both lookups and duplicate detection.
//
// Explicit mappings always win. Environment values are looked up lazily and
// cached on first success, so a key keeps its value for the rest of the run
// even if the environment changes. Entries are never removed.
//
// A MappingTable belongs to a single run and is not safe for concurrent use.
type MappingTable struct {
	entries   map[string]mappingEntry
	lookupEnv LookupEnvFunc
}

// NewMappingTable builds a table from explicit mappings. A nil lookupEnv uses os.LookupEnv.
func NewMappingTable(mappings []m.Mapping, lookupEnv LookupEnvFunc) (*MappingTable, error) {
	if lookupEnv == nil {
		lookupEnv = os.LookupEnv
	}

	table := &MappingTable{
		entries:   make(map[string]mappingEntry, len(mappings)),
		lookupEnv: lookupEnv,
	}

	for _, mapping := range mappings {
		normalized := m.NormalizeKey(mapping.Key)
		if existing, ok := table.entries[normalized]; ok {
			return nil, fmt.Errorf("%w: %q conflicts with %q", ErrDuplicateMapping, mapping.Key, existing.key)
		}

		table.entries[normalized] = mappingEntry{key: mapping.Key, value: mapping.Value, source: m.SourceMapping}
	}

	return table, nil
}

// Resolve returns the value for key, falling back to the environment variable
// named exactly key. Blank environment values count as missing.
func (t *MappingTable) Resolve(key string) (string, bool) {
	normalized := m.NormalizeKey(key)

	if entry, ok := t.entries[normalized]; ok {
		return entry.value, true
	}

	value, ok := t.lookupEnv(key)
	if !ok || strings.TrimSpace(value) == "" {
		return "", false
	}

	t.entries[normalized] = mappingEntry{key: key, value: value, source: m.SourceEnvironment}
	slog.Debug("cached environment value", "key", key)

	return value, true
}

// Source reports where a cached key came from.
func (t *MappingTable) Source(key string) (m.ValueSource, bool) {
	entry, ok := t.entries[m.NormalizeKey(key)]
	if !ok {
		return "", false
	}

	return entry.source, true
}

// Len returns the number of cached keys.
func (t *MappingTable) Len() int {
	return len(t.entries)
}
