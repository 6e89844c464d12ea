package adapter

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	m "github.com/mouse-blink/vendoring/internal/model"
)

func TestStateStore(t *testing.T) {
	store := NewStateStore()
	path := m.Path(filepath.Join(t.TempDir(), ".vendoring_cache", "do-not-commit.interactive.current-package"))

	got, err := store.Load(path)
	require.NoError(t, err)
	assert.Empty(t, got)

	require.NoError(t, store.Save(path, "urllib3"))

	got, err = store.Load(path)
	require.NoError(t, err)
	assert.Equal(t, "urllib3", got)

	require.NoError(t, store.Clear(path))
	assert.NoDirExists(t, filepath.Dir(string(path)))
	require.NoError(t, store.Clear(path), "clearing twice is not an error")

	got, err = store.Load(path)
	require.NoError(t, err)
	assert.Empty(t, got)
}
