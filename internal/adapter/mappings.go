package adapter

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"gopkg.in/yaml.v3"

	m "github.com/mouse-blink/traefik-replace/internal/model"
)

// ErrInvalidMappingsFile is returned when a mappings file is not a flat YAML mapping.
var ErrInvalidMappingsFile = errors.New("invalid mappings file")

// ParseMappingString parses mappings written as "key1=value1;key2=value2".
// Pairs may also be separated by commas. Fragments without a key or a value
// are logged and skipped. Duplicates are kept so the mapping table can reject them.
func ParseMappingString(raw string) []m.Mapping {
	fragments := strings.FieldsFunc(raw, func(r rune) bool {
		return r == ';' || r == ','
	})

	mappings := make([]m.Mapping, 0, len(fragments))

	for _, fragment := range fragments {
		if strings.TrimSpace(fragment) == "" {
			continue
		}

		key, value, ok := strings.Cut(fragment, "=")
		key = strings.TrimSpace(key)

		if !ok || key == "" || value == "" {
			slog.Error("could not parse mapping", "fragment", fragment)
			continue
		}

		mappings = append(mappings, m.Mapping{Key: key, Value: value})
	}

	return mappings
}

// ParseMappingsYAML reads a flat YAML mapping of placeholder names to values.
// Keys are returned in document order, duplicates included.
func ParseMappingsYAML(data []byte) ([]m.Mapping, error) {
	var doc yaml.Node
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidMappingsFile, err)
	}

	// An empty document decodes to a zero node.
	if doc.Kind == 0 || len(doc.Content) == 0 {
		return nil, nil
	}

	root := doc.Content[0]
	if root.Kind != yaml.MappingNode {
		return nil, fmt.Errorf("%w: line %d: expected a mapping of names to values", ErrInvalidMappingsFile, root.Line)
	}

	mappings := make([]m.Mapping, 0, len(root.Content)/2)

	for i := 0; i+1 < len(root.Content); i += 2 {
		keyNode, valueNode := root.Content[i], root.Content[i+1]

		if keyNode.Kind != yaml.ScalarNode || valueNode.Kind != yaml.ScalarNode {
			return nil, fmt.Errorf("%w: line %d: value for %q must be a scalar", ErrInvalidMappingsFile, keyNode.Line, keyNode.Value)
		}

		mappings = append(mappings, m.Mapping{Key: keyNode.Value, Value: valueNode.Value})
	}

	return mappings, nil
}
