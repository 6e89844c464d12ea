package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mouse-blink/vendoring/internal/adapter"
	m "github.com/mouse-blink/vendoring/internal/model"
)

func TestCleanupExisting(t *testing.T) {
	t.Run("keeps protected files only", func(t *testing.T) {
		dest := t.TempDir()
		writeFile(t, dest+"/__init__.py", "")
		writeFile(t, dest+"/vendor.txt", "six==1.16.0\n")
		writeFile(t, dest+"/six.py", "")
		writeFile(t, dest+"/vendor.txt.d/x", "")
		writeFile(t, dest+"/requests/__init__.py", "")

		wf := NewWorkflow(Adapters{FS: adapter.NewLocalSourceFSAdapter()}, Options{}).(*workflow)
		reporter := newRecordingReporter()

		removed, err := wf.cleanupExisting(reporter.Logger(), m.Configuration{
			Destination:    m.Path(dest),
			ProtectedFiles: []string{"__init__.py", "vendor.txt", "vendor.txt.d"},
		})
		require.NoError(t, err)

		assert.Equal(t, 3, removed)
		assert.FileExists(t, dest+"/__init__.py")
		assert.FileExists(t, dest+"/vendor.txt")
		assert.NoFileExists(t, dest+"/six.py")
		assert.NoDirExists(t, dest+"/vendor.txt.d", "directories are never protected")
		assert.NoDirExists(t, dest+"/requests")
	})

	t.Run("missing destination", func(t *testing.T) {
		wf := NewWorkflow(Adapters{FS: adapter.NewLocalSourceFSAdapter()}, Options{}).(*workflow)
		reporter := newRecordingReporter()

		removed, err := wf.cleanupExisting(reporter.Logger(), m.Configuration{
			Destination: m.Path(t.TempDir() + "/missing"),
		})
		require.NoError(t, err)
		assert.Zero(t, removed)
	})
}
