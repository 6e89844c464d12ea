package cmd

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	m "github.com/mouse-blink/vendoring/internal/model"
)

func TestUpdateCmd(t *testing.T) {
	t.Run("all packages", func(t *testing.T) {
		mockWorkflow, _ := useMockWorkflow(t)

		cmd, out, _ := newTestRoot(newUpdateCmd())

		mockWorkflow.On("Update", mock.Anything, anyReporter, absPath(t, "."), "").
			Return([]m.PinnedPackage(nil), nil).Once()

		cmd.SetArgs([]string{"update"})
		require.NoError(t, cmd.Execute())

		assert.Contains(t, out.String(), "Everything is up-to-date.")
	})

	t.Run("one package", func(t *testing.T) {
		mockWorkflow, _ := useMockWorkflow(t)

		cmd, out, _ := newTestRoot(newUpdateCmd())

		mockWorkflow.On("Update", mock.Anything, anyReporter, absPath(t, "project"), "six").
			Return([]m.PinnedPackage{{Name: "six", Version: "1.17.0"}}, nil).Once()

		cmd.SetArgs([]string{"update", "project", "six"})
		require.NoError(t, cmd.Execute())

		assert.Contains(t, out.String(), "1.17.0")
	})
}
