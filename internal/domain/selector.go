package domain

import (
	"iter"
	"log/slog"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/mouse-blink/traefik-replace/internal/adapter"
	m "github.com/mouse-blink/traefik-replace/internal/model"
)

// GeneratedMarker is inserted before the extension of every generated file.
const GeneratedMarker = ".g"

// DefaultExtensions lists the configuration file types processed when none are configured.
var DefaultExtensions = []string{".yml", ".toml"}

// FileSelector finds candidate configuration files under a root directory.
type FileSelector interface {
	Select(root m.Path, recursive bool) iter.Seq2[m.Path, error]
}

type fileSelector struct {
	fs         adapter.SourceFSAdapter
	extensions []string
}

// NewFileSelector creates a selector that accepts files with the given extensions.
// An empty list falls back to DefaultExtensions.
func NewFileSelector(fs adapter.SourceFSAdapter, extensions ...string) FileSelector {
	if len(extensions) == 0 {
		extensions = DefaultExtensions
	}

	return &fileSelector{fs: fs, extensions: slices.Clone(extensions)}
}

// Select lazily yields candidate files. Symlinks are followed to their target,
// so mounted ConfigMap trees are picked up. A filesystem error is yielded once and
// ends the sequence; stopping iteration early stops the walk.
func (s *fileSelector) Select(root m.Path, recursive bool) iter.Seq2[m.Path, error] {
	return func(yield func(m.Path, error) bool) {
		stopped := false

		err := s.fs.Walk(root, recursive, func(path string, info os.FileInfo, err error) error {
			if err != nil {
				return err
			}

			if !s.IsCandidate(m.Path(path)) {
				return nil
			}

			if info.Mode()&os.ModeSymlink != 0 {
				target, err := s.fs.FileInfo(m.Path(path))
				if err != nil {
					slog.Warn("skipping broken symlink", "file", path, "error", err)
					return nil
				}

				info = target
			}

			if !info.Mode().IsRegular() {
				return nil
			}

			if !yield(m.Path(path), nil) {
				stopped = true
				return filepath.SkipAll
			}

			return nil
		})

		if err != nil && !stopped {
			yield("", err)
		}
	}
}

// IsCandidate reports whether path has an accepted extension and is not itself generated.
func (s *fileSelector) IsCandidate(path m.Path) bool {
	ext := filepath.Ext(string(path))
	if !slices.Contains(s.extensions, ext) {
		return false
	}

	return !IsGenerated(path)
}

// IsGenerated reports whether the file name carries the generated marker.
// A hand-written `name.g.yml` is indistinguishable from generated output.
func IsGenerated(path m.Path) bool {
	base := filepath.Base(string(path))
	stem := strings.TrimSuffix(base, filepath.Ext(base))

	return strings.HasSuffix(stem, GeneratedMarker)
}

// GeneratedPath derives the sibling output path: `dir/name.ext` becomes `dir/name.g.ext`.
func GeneratedPath(path m.Path) m.Path {
	dir, base := filepath.Split(string(path))
	ext := filepath.Ext(base)
	stem := strings.TrimSuffix(base, ext)

	return m.Path(filepath.Join(dir, stem+GeneratedMarker+ext))
}
