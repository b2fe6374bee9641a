package domain

import (
	"bytes"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/mouse-blink/traefik-replace/internal/adapter"
	m "github.com/mouse-blink/traefik-replace/internal/model"
)

const defaultGeneratedPerm os.FileMode = 0o644

// utf8BOM is dropped from sources; generated files never carry one.
var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// Rewriter resolves the placeholders of one file at a time and writes the
// generated sibling.
type Rewriter interface {
	ProcessFile(path m.Path) (m.FileResult, error)
}

// RewriterOption configures a Rewriter.
type RewriterOption func(*rewriter)

// WithDryRun renders output into the result instead of writing it.
func WithDryRun(dryRun bool) RewriterOption {
	return func(r *rewriter) {
		r.dryRun = dryRun
	}
}

// WithValidator checks rendered output with v before it is written or previewed.
func WithValidator(v adapter.ConfigValidator) RewriterOption {
	return func(r *rewriter) {
		r.validator = v
	}
}

type rewriter struct {
	fs        adapter.SourceFSAdapter
	table     *MappingTable
	validator adapter.ConfigValidator
	dryRun    bool
}

// NewRewriter creates a Rewriter that resolves names through table.
func NewRewriter(fs adapter.SourceFSAdapter, table *MappingTable, opts ...RewriterOption) Rewriter {
	r := &rewriter{fs: fs, table: table}
	for _, opt := range opts {
		opt(r)
	}

	return r
}

// ProcessFile substitutes every placeholder in path. Nothing is written unless
// every placeholder resolves, and files without placeholders are left alone.
func (r *rewriter) ProcessFile(path m.Path) (m.FileResult, error) {
	result := m.FileResult{Source: path, Status: m.StatusFailed}

	slog.Info("processing file", "file", path)

	raw, err := r.fs.ReadFile(path)
	if err != nil {
		result.Err = fmt.Errorf("read %s: %w", path, err)
		return result, result.Err
	}

	content := string(bytes.TrimPrefix(raw, utf8BOM))

	placeholders, err := ScanPlaceholders(content)
	if err != nil {
		result.Err = fmt.Errorf("scan %s: %w", path, err)
		return result, result.Err
	}

	if len(placeholders) == 0 {
		slog.Debug("no placeholders found", "file", path)

		result.Status = m.StatusUnchanged

		return result, nil
	}

	result.Placeholders = len(placeholders)

	rendered, sources, err := r.render(path, content, placeholders)
	if err != nil {
		result.Err = err
		return result, err
	}

	result.Sources = sources

	result.Generated = GeneratedPath(path)

	if r.validator != nil {
		if err := r.validator.Validate(result.Generated, []byte(rendered)); err != nil {
			slog.Error("generated output does not parse", "file", path, "error", err)
			result.Err = fmt.Errorf("%w: %w", ErrInvalidOutput, err)

			return result, result.Err
		}
	}

	if r.dryRun {
		result.Status = m.StatusPreview
		result.Original = content
		result.Rendered = rendered

		return result, nil
	}

	perm := defaultGeneratedPerm
	if info, err := r.fs.FileInfo(path); err == nil {
		perm = info.Mode().Perm()
	}

	if err := r.fs.WriteFileAtomic(result.Generated, []byte(rendered), perm); err != nil {
		result.Err = fmt.Errorf("write %s: %w", result.Generated, err)
		return result, result.Err
	}

	result.Status = m.StatusGenerated
	slog.Info("generated file", "file", path, "generated", result.Generated)

	return result, nil
}

// render copies the spans between placeholders verbatim and substitutes each
// placeholder with its resolved value. It also reports where each key came from.
func (r *rewriter) render(path m.Path, content string, placeholders []m.Placeholder) (string, map[string]m.ValueSource, error) {
	var out strings.Builder
	out.Grow(len(content))

	sources := make(map[string]m.ValueSource, len(placeholders))
	cursor := 0

	for _, p := range placeholders {
		value, ok := r.table.Resolve(p.Name)
		if !ok {
			slog.Error("no mapping was found", "file", path, "key", p.Name)
			return "", nil, &UnresolvedPlaceholderError{File: path, Key: p.Name}
		}

		if source, ok := r.table.Source(p.Name); ok {
			sources[p.Name] = source
		}

		slog.Debug("found key", "file", path, "key", p.Name, "source", sources[p.Name])

		out.WriteString(content[cursor:p.Offset])
		out.WriteString(value)
		cursor = p.End()
	}

	out.WriteString(content[cursor:])

	return out.String(), sources, nil
}
