package adapter

import (
	"errors"
	"fmt"
	"path/filepath"

	toml "github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"

	m "github.com/mouse-blink/traefik-replace/internal/model"
)

// ErrUnsupportedFormat is returned when no parser is registered for an extension.
var ErrUnsupportedFormat = errors.New("unsupported config format")

// ConfigValidator checks that rendered content still parses in its file format.
type ConfigValidator interface {
	Validate(path m.Path, content []byte) error
}

// FormatValidator validates YAML and TOML documents by decoding them.
type FormatValidator struct{}

// NewFormatValidator creates a validator for the formats Traefik reads.
func NewFormatValidator() *FormatValidator {
	return &FormatValidator{}
}

// Validate decodes content with the parser matching the extension of path.
func (v *FormatValidator) Validate(path m.Path, content []byte) error {
	switch ext := filepath.Ext(string(path)); ext {
	case ".yml", ".yaml":
		var doc any
		if err := yaml.Unmarshal(content, &doc); err != nil {
			return fmt.Errorf("parse yaml %s: %w", path, err)
		}
	case ".toml":
		var doc map[string]any
		if err := toml.Unmarshal(content, &doc); err != nil {
			return fmt.Errorf("parse toml %s: %w", path, err)
		}
	default:
		return fmt.Errorf("%w: %q", ErrUnsupportedFormat, ext)
	}

	return nil
}
