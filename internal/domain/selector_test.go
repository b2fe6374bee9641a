package domain

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/mouse-blink/traefik-replace/internal/adapter"
	adaptermocks "github.com/mouse-blink/traefik-replace/internal/adapter/mocks"
	m "github.com/mouse-blink/traefik-replace/internal/model"
)

func newMemTree(t *testing.T, files map[string]string) afero.Fs {
	t.Helper()

	fs := afero.NewMemMapFs()
	for path, content := range files {
		require.NoError(t, fs.MkdirAll(filepath.Dir(path), 0o755))
		require.NoError(t, afero.WriteFile(fs, path, []byte(content), 0o644))
	}

	return fs
}

func collect(t *testing.T, selector FileSelector, root m.Path, recursive bool) []m.Path {
	t.Helper()

	var paths []m.Path
	for path, err := range selector.Select(root, recursive) {
		require.NoError(t, err)
		paths = append(paths, path)
	}

	return paths
}

func TestFileSelector_Select(t *testing.T) {
	fs := newMemTree(t, map[string]string{
		"/conf/traefik.yml":           "a",
		"/conf/traefik.g.yml":         "generated",
		"/conf/rules.toml":            "b",
		"/conf/readme.md":             "c",
		"/conf/values.yaml":           "d",
		"/conf/UPPER.YML":             "e",
		"/conf/dynamic/routers.yml":   "f",
		"/conf/dynamic/routers.g.yml": "generated",
		"/conf/dynamic/deep/tls.toml": "g",
	})
	selector := NewFileSelector(adapter.NewSourceFSAdapter(fs))

	t.Run("top level only", func(t *testing.T) {
		got := collect(t, selector, "/conf", false)
		assert.Equal(t, []m.Path{"/conf/rules.toml", "/conf/traefik.yml"}, got)
	})

	t.Run("recursive", func(t *testing.T) {
		got := collect(t, selector, "/conf", true)
		assert.Equal(t, []m.Path{
			"/conf/dynamic/deep/tls.toml",
			"/conf/dynamic/routers.yml",
			"/conf/rules.toml",
			"/conf/traefik.yml",
		}, got)
	})

	t.Run("custom extensions", func(t *testing.T) {
		yamlOnly := NewFileSelector(adapter.NewSourceFSAdapter(fs), ".yaml", ".md")
		got := collect(t, yamlOnly, "/conf", false)
		assert.Equal(t, []m.Path{"/conf/readme.md", "/conf/values.yaml"}, got)
	})

	t.Run("stopping early ends the walk", func(t *testing.T) {
		var got []m.Path
		for path, err := range selector.Select("/conf", true) {
			require.NoError(t, err)
			got = append(got, path)
			break
		}

		assert.Len(t, got, 1)
	})
}

func TestFileSelector_SelectMissingRoot(t *testing.T) {
	selector := NewFileSelector(adapter.NewSourceFSAdapter(afero.NewMemMapFs()))

	var errs []error
	for path, err := range selector.Select("/missing", true) {
		assert.Empty(t, path)
		errs = append(errs, err)
	}

	require.Len(t, errs, 1)
	assert.True(t, errors.Is(errs[0], os.ErrNotExist))
}

func TestFileSelector_SelectWalkErrorAfterFiles(t *testing.T) {
	walkErr := errors.New("permission denied")

	fsAdapter := adaptermocks.NewMockSourceFSAdapter(t)
	fsAdapter.EXPECT().Walk(m.Path("/conf"), true, mock.Anything).
		RunAndReturn(func(_ m.Path, _ bool, fn adapter.FilepathWalkFunc) error {
			info := fileInfo(t, "traefik.yml")
			if err := fn("/conf/traefik.yml", info, nil); err != nil {
				return err
			}

			return fn("/conf/locked", nil, walkErr)
		}).Once()

	selector := NewFileSelector(fsAdapter)

	var paths []m.Path
	var errs []error
	for path, err := range selector.Select("/conf", true) {
		if err != nil {
			errs = append(errs, err)
			continue
		}
		paths = append(paths, path)
	}

	assert.Equal(t, []m.Path{"/conf/traefik.yml"}, paths)
	require.Len(t, errs, 1)
	assert.ErrorIs(t, errs[0], walkErr)
}

func TestIsGenerated(t *testing.T) {
	tests := []struct {
		path m.Path
		want bool
	}{
		{"/conf/traefik.yml", false},
		{"/conf/traefik.g.yml", true},
		{"/conf/traefik.g.toml", true},
		{"/conf/g.yml", false},
		{"/conf/config.gyml", false},
		// Known naming constraint: hand-written files with the marker are skipped too.
		{"/conf/catalog.g.yml", true},
	}

	for _, tt := range tests {
		t.Run(string(tt.path), func(t *testing.T) {
			assert.Equal(t, tt.want, IsGenerated(tt.path))
		})
	}
}

func TestGeneratedPath(t *testing.T) {
	tests := []struct {
		in   m.Path
		want m.Path
	}{
		{"/conf/traefik.yml", "/conf/traefik.g.yml"},
		{"/conf/dynamic/rules.toml", "/conf/dynamic/rules.g.toml"},
		{"/conf/my.router.yml", "/conf/my.router.g.yml"},
		{"traefik.yml", "traefik.g.yml"},
	}

	for _, tt := range tests {
		t.Run(string(tt.in), func(t *testing.T) {
			got := GeneratedPath(tt.in)
			assert.Equal(t, tt.want, got)
			assert.True(t, IsGenerated(got))
		})
	}
}

func fileInfo(t *testing.T, name string) os.FileInfo {
	t.Helper()

	fs := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(fs, "/"+name, []byte("x"), 0o644))

	info, err := fs.Stat("/" + name)
	require.NoError(t, err)

	return info
}

func TestFileSelector_SelectFollowsSymlinks(t *testing.T) {
	root := t.TempDir()
	dataDir := filepath.Join(root, "..data")
	require.NoError(t, os.Mkdir(dataDir, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(dataDir, "traefik.yml"), []byte("host: $HOST\n"), 0o644))

	link := filepath.Join(root, "traefik.yml")
	require.NoError(t, os.Symlink(filepath.Join("..data", "traefik.yml"), link))
	require.NoError(t, os.Symlink(filepath.Join(root, "missing.yml"), filepath.Join(root, "broken.yml")))
	require.NoError(t, os.Symlink("..data", filepath.Join(root, "dir.yml")))

	selector := NewFileSelector(adapter.NewLocalSourceFSAdapter())

	got := collect(t, selector, m.Path(root), false)
	assert.Equal(t, []m.Path{m.Path(link)}, got)
}
