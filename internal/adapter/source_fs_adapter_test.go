package adapter

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	m "github.com/mouse-blink/traefik-replace/internal/model"
)

func TestLocalSourceFSAdapter_Walk(t *testing.T) {
	t.Run("non recursive skips nested files", func(t *testing.T) {
		adapter := NewLocalSourceFSAdapter()

		root := t.TempDir()
		writeTestFile(t, filepath.Join(root, "traefik.yml"), "entryPoints: {}\n")

		nestedDir := filepath.Join(root, "dynamic")
		mustMkdir(t, nestedDir)
		writeTestFile(t, filepath.Join(nestedDir, "routers.yml"), "http: {}\n")

		var visited []string
		err := adapter.Walk(m.Path(root), false, func(path string, _ os.FileInfo, err error) error {
			if err != nil {
				return err
			}
			visited = append(visited, path)
			return nil
		})
		if err != nil {
			t.Fatalf("Walk() error = %v", err)
		}

		for _, forbidden := range []string{nestedDir, filepath.Join(nestedDir, "routers.yml")} {
			if containsPath(visited, forbidden) {
				t.Fatalf("Walk() unexpectedly visited %s when recursive is false", forbidden)
			}
		}

		if !containsPath(visited, filepath.Join(root, "traefik.yml")) {
			t.Fatalf("Walk() did not visit top-level file")
		}
	})

	t.Run("recursive visits nested files", func(t *testing.T) {
		adapter := NewLocalSourceFSAdapter()

		root := t.TempDir()
		writeTestFile(t, filepath.Join(root, "traefik.yml"), "entryPoints: {}\n")

		nestedDir := filepath.Join(root, "dynamic")
		mustMkdir(t, nestedDir)
		child := filepath.Join(nestedDir, "routers.toml")
		writeTestFile(t, child, "[http]\n")

		var visited []string
		err := adapter.Walk(m.Path(root), true, func(path string, _ os.FileInfo, err error) error {
			if err != nil {
				return err
			}
			visited = append(visited, path)
			return nil
		})
		if err != nil {
			t.Fatalf("Walk() error = %v", err)
		}

		if !containsPath(visited, child) {
			t.Fatalf("Walk() did not visit nested file when recursive")
		}
	})

	t.Run("missing root reports error to callback", func(t *testing.T) {
		adapter := NewSourceFSAdapter(afero.NewMemMapFs())

		var gotErr error
		err := adapter.Walk(m.Path("/does/not/exist"), true, func(_ string, _ os.FileInfo, err error) error {
			gotErr = err
			return err
		})

		require.Error(t, err)
		assert.Equal(t, gotErr, err)
	})
}

func TestLocalSourceFSAdapter_ReadFile(t *testing.T) {
	adapter := NewLocalSourceFSAdapter()

	root := t.TempDir()
	path := filepath.Join(root, "traefik.yml")
	content := "entryPoints:\r\n  web:\r\n    address: \":${PORT}\"\r\n"
	writeTestFile(t, path, content)

	got, err := adapter.ReadFile(m.Path(path))
	if err != nil {
		t.Fatalf("ReadFile() error = %v", err)
	}

	if string(got) != content {
		t.Fatalf("ReadFile() = %q, want %q", string(got), content)
	}
}

func TestLocalSourceFSAdapter_WriteFileAtomic(t *testing.T) {
	t.Run("creates file with content and mode", func(t *testing.T) {
		fs := afero.NewMemMapFs()
		require.NoError(t, fs.MkdirAll("/etc/traefik", 0o755))
		adapter := NewSourceFSAdapter(fs)

		err := adapter.WriteFileAtomic("/etc/traefik/traefik.g.yml", []byte("port: 8080\n"), 0o640)
		require.NoError(t, err)

		got, err := afero.ReadFile(fs, "/etc/traefik/traefik.g.yml")
		require.NoError(t, err)
		assert.Equal(t, "port: 8080\n", string(got))

		info, err := fs.Stat("/etc/traefik/traefik.g.yml")
		require.NoError(t, err)
		assert.Equal(t, os.FileMode(0o640), info.Mode().Perm())
	})

	t.Run("overwrites existing file and leaves no temp files", func(t *testing.T) {
		root := t.TempDir()
		target := filepath.Join(root, "traefik.g.yml")
		writeTestFile(t, target, "stale content that is longer than the new one\n")

		adapter := NewLocalSourceFSAdapter()
		require.NoError(t, adapter.WriteFileAtomic(m.Path(target), []byte("fresh\n"), 0o644))

		got, err := os.ReadFile(target)
		require.NoError(t, err)
		assert.Equal(t, "fresh\n", string(got))

		entries, err := os.ReadDir(root)
		require.NoError(t, err)
		require.Len(t, entries, 1)
		assert.Equal(t, "traefik.g.yml", entries[0].Name())
	})

	t.Run("fails when directory is missing", func(t *testing.T) {
		adapter := NewSourceFSAdapter(afero.NewReadOnlyFs(afero.NewMemMapFs()))

		err := adapter.WriteFileAtomic("/missing/traefik.g.yml", []byte("x"), 0o644)
		require.Error(t, err)
	})
}

func TestLocalSourceFSAdapter_FileInfo(t *testing.T) {
	adapter := NewLocalSourceFSAdapter()

	root := t.TempDir()
	path := filepath.Join(root, "traefik.toml")
	writeTestFile(t, path, "[entryPoints]\n")

	info, err := adapter.FileInfo(m.Path(path))
	if err != nil {
		t.Fatalf("FileInfo() error = %v", err)
	}

	if info.IsDir() {
		t.Fatalf("FileInfo() reported file as directory")
	}

	dirInfo, err := adapter.FileInfo(m.Path(root))
	if err != nil {
		t.Fatalf("FileInfo() error = %v", err)
	}

	if !dirInfo.IsDir() {
		t.Fatalf("FileInfo() reported directory as file")
	}
}

func TestLocalSourceFSAdapter_PathHelpers(t *testing.T) {
	adapter := NewLocalSourceFSAdapter()

	base := m.Path("/tmp/traefik")
	target := m.Path("/tmp/traefik/dynamic/conf/routers.yml")

	rel, err := adapter.RelPath(base, target)
	if err != nil {
		t.Fatalf("RelPath() error = %v", err)
	}

	if string(rel) != filepath.Join("dynamic", "conf", "routers.yml") {
		t.Fatalf("RelPath() = %s, want %s", rel, filepath.Join("dynamic", "conf", "routers.yml"))
	}

	abs, err := adapter.AbsPath("/tmp/traefik/../traefik/./dynamic")
	require.NoError(t, err)
	assert.Equal(t, m.Path(filepath.Join("/tmp", "traefik", "dynamic")), abs)

	wd, err := os.Getwd()
	require.NoError(t, err)

	abs, err = adapter.AbsPath("conf")
	require.NoError(t, err)
	assert.Equal(t, m.Path(filepath.Join(wd, "conf")), abs)
}

func writeTestFile(t *testing.T, path, contents string) {
	t.Helper()
	if err := os.WriteFile(path, []byte(contents), 0o644); err != nil {
		t.Fatalf("failed to write %s: %v", path, err)
	}
}

func mustMkdir(t *testing.T, path string) {
	t.Helper()
	if err := os.Mkdir(path, 0o755); err != nil {
		t.Fatalf("failed to create dir %s: %v", path, err)
	}
}

func containsPath(paths []string, target string) bool {
	for _, p := range paths {
		if p == target {
			return true
		}
	}

	return false
}
