package adapter

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	m "github.com/mouse-blink/vendoring/internal/model"
)

func TestLocalSourceFSAdapter_Walk(t *testing.T) {
	t.Run("non recursive skips nested files", func(t *testing.T) {
		adapter := NewLocalSourceFSAdapter()

		root := t.TempDir()
		writeTestFile(t, filepath.Join(root, "six.py"), "import os\n")

		nestedDir := filepath.Join(root, "requests")
		mustMkdir(t, nestedDir)
		writeTestFile(t, filepath.Join(nestedDir, "__init__.py"), "")

		var visited []string
		err := adapter.Walk(m.Path(root), false, func(path string, info os.FileInfo, err error) error {
			if err != nil {
				return err
			}
			visited = append(visited, path)
			return nil
		})
		require.NoError(t, err)

		assert.NotContains(t, visited, filepath.Join(nestedDir, "__init__.py"))
		assert.Contains(t, visited, filepath.Join(root, "six.py"))
	})

	t.Run("recursive visits nested files", func(t *testing.T) {
		adapter := NewLocalSourceFSAdapter()

		root := t.TempDir()
		child := filepath.Join(root, "requests", "adapters.py")
		writeTestFile(t, child, "import urllib3\n")

		var visited []string
		err := adapter.Walk(m.Path(root), true, func(path string, info os.FileInfo, err error) error {
			if err != nil {
				return err
			}
			visited = append(visited, path)
			return nil
		})
		require.NoError(t, err)

		assert.Contains(t, visited, child)
	})
}

func TestLocalSourceFSAdapter_ReadWriteFile(t *testing.T) {
	adapter := NewLocalSourceFSAdapter()

	root := t.TempDir()
	path := filepath.Join(root, "pkg", "mod.py")

	require.NoError(t, adapter.WriteFile(m.Path(path), []byte("import six\n"), 0o644))

	got, err := adapter.ReadFile(m.Path(path))
	require.NoError(t, err)
	assert.Equal(t, "import six\n", string(got))

	require.NoError(t, adapter.WriteFile(m.Path(path), []byte("import ns.six\n"), 0o600))

	got, err = adapter.ReadFile(m.Path(path))
	require.NoError(t, err)
	assert.Equal(t, "import ns.six\n", string(got))

	info, err := adapter.FileInfo(m.Path(path))
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o600), info.Mode().Perm())

	entries, err := os.ReadDir(filepath.Dir(path))
	require.NoError(t, err)
	require.Len(t, entries, 1, "temporary files must not be left behind")
	assert.Equal(t, "mod.py", entries[0].Name())
}

func TestLocalSourceFSAdapter_Exists(t *testing.T) {
	adapter := NewLocalSourceFSAdapter()
	root := t.TempDir()

	ok, err := adapter.Exists(m.Path(root))
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = adapter.Exists(m.Path(filepath.Join(root, "missing")))
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestLocalSourceFSAdapter_Remove(t *testing.T) {
	adapter := NewLocalSourceFSAdapter()
	root := t.TempDir()

	file := filepath.Join(root, "a.py")
	writeTestFile(t, file, "")
	dir := filepath.Join(root, "pkg")
	writeTestFile(t, filepath.Join(dir, "b.py"), "")

	require.NoError(t, adapter.Remove(m.Path(file)))
	require.Error(t, adapter.Remove(m.Path(dir)), "Remove must not delete non-empty directories")
	require.NoError(t, adapter.RemoveAll(m.Path(dir)))

	entries, err := adapter.ReadDir(m.Path(root))
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestLocalSourceFSAdapter_Glob(t *testing.T) {
	adapter := NewLocalSourceFSAdapter()

	root := t.TempDir()
	writeTestFile(t, filepath.Join(root, "b.patch"), "")
	writeTestFile(t, filepath.Join(root, "a.patch"), "")
	writeTestFile(t, filepath.Join(root, "notes.txt"), "")
	writeTestFile(t, filepath.Join(root, "nested", "c.patch"), "")

	tests := []struct {
		name    string
		pattern string
		want    []string
	}{
		{"top level", "*.patch", []string{"a.patch", "b.patch"}},
		{"recursive", "**/*.patch", []string{"a.patch", "b.patch", "nested/c.patch"}},
		{"no match", "*.diff", nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := adapter.Glob(m.Path(root), tt.pattern)
			require.NoError(t, err)

			var want []m.Path
			for _, rel := range tt.want {
				want = append(want, m.Path(filepath.Join(root, filepath.FromSlash(rel))))
			}

			assert.ElementsMatch(t, want, got)
		})
	}

	_, err := adapter.Glob(m.Path(root), "[")
	require.Error(t, err)
}

func TestLocalSourceFSAdapter_RelPath(t *testing.T) {
	adapter := NewLocalSourceFSAdapter()

	rel, err := adapter.RelPath(m.Path("/a/b"), m.Path("/a/b/c/d.py"))
	require.NoError(t, err)
	assert.Equal(t, m.Path(filepath.Join("c", "d.py")), rel)

	_, err = adapter.RelPath(m.Path("/a/b"), m.Path("/a/c"))
	require.Error(t, err)
}

func writeTestFile(t *testing.T, path, content string) {
	t.Helper()

	mustMkdir(t, filepath.Dir(path))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
}

func mustMkdir(t *testing.T, path string) {
	t.Helper()

	require.NoError(t, os.MkdirAll(path, 0o755))
}
