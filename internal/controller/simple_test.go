package controller

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	m "github.com/mouse-blink/vendoring/internal/model"
)

func newTestCmd() (*cobra.Command, *bytes.Buffer, *bytes.Buffer) {
	var out, errOut bytes.Buffer

	cmd := &cobra.Command{}
	cmd.SetOut(&out)
	cmd.SetErr(&errOut)

	return cmd, &out, &errOut
}

func TestSimpleUI_Task(t *testing.T) {
	t.Run("quiet success hides info", func(t *testing.T) {
		cmd, out, _ := newTestCmd()
		ui := NewSimpleUI(cmd, false)

		err := ui.Task("Clean existing libraries", func(logger *log.Logger) error {
			logger.Info("Removed existing items", "count", 3)

			return nil
		})
		require.NoError(t, err)

		output := out.String()
		assert.Contains(t, output, "Clean existing libraries")
		assert.Contains(t, output, "Done!")
		assert.NotContains(t, output, "Removed existing items")
		assert.Equal(t, 1, strings.Count(output, "\n"), "status goes on the task line")
	})

	t.Run("warnings are always shown", func(t *testing.T) {
		cmd, out, _ := newTestCmd()
		ui := NewSimpleUI(cmd, false)

		err := ui.Task("Add vendored libraries", func(logger *log.Logger) error {
			logger.Info("hidden")
			logger.Warn("Got unexpected non-Python file")

			return nil
		})
		require.NoError(t, err)

		output := out.String()
		assert.Contains(t, output, "...\n  WARN Got unexpected non-Python file\n")
		assert.Contains(t, output, "  Done!\n")
		assert.NotContains(t, output, "hidden")
	})

	t.Run("failure replays the log", func(t *testing.T) {
		cmd, out, _ := newTestCmd()
		ui := NewSimpleUI(cmd, false)
		boom := errors.New("boom")

		err := ui.Task("Fetch licenses", func(logger *log.Logger) error {
			logger.Info("Downloading https://example.com/LICENSE")

			return boom
		})
		require.ErrorIs(t, err, boom)

		output := out.String()
		assert.Contains(t, output, "  INFO Downloading https://example.com/LICENSE\n")
		assert.Contains(t, output, "Failed!")
		assert.NotContains(t, output, "Done!")
	})

	t.Run("verbose streams debug output", func(t *testing.T) {
		cmd, out, _ := newTestCmd()
		ui := NewSimpleUI(cmd, true)

		err := ui.Task("Load configuration", func(logger *log.Logger) error {
			logger.Debug("reading pyproject.toml")

			return nil
		})
		require.NoError(t, err)

		assert.Contains(t, out.String(), "DEBU reading pyproject.toml")
	})
}

func TestSimpleUI_DisplaySummary(t *testing.T) {
	cmd, out, _ := newTestCmd()
	ui := NewSimpleUI(cmd, false)

	ui.DisplaySummary(m.Summary{
		Libraries: []m.Library{
			{Name: "six", Kind: m.LibraryModule},
			{Name: "requests", Kind: m.LibraryPackage},
		},
		RewrittenFiles: map[string]int{"requests": 4, "six": 1},
		Licenses:       []m.Path{"a", "b"},
		Stubs:          []m.Path{"c"},
	})

	output := out.String()

	for _, want := range []string{
		"LIBRARY",
		"requests",
		"package",
		"six",
		"module",
		"TOTAL LIBRARIES 2",
		"5",
		"Licenses: 2, stubs: 1, patches: 0",
	} {
		assert.Contains(t, output, want)
	}

	assert.Less(t, bytes.Index(out.Bytes(), []byte("requests")), bytes.Index(out.Bytes(), []byte("six")))
}

func TestSimpleUI_DisplaySummary_Empty(t *testing.T) {
	cmd, out, _ := newTestCmd()

	NewSimpleUI(cmd, false).DisplaySummary(m.Summary{})

	assert.Equal(t, "No libraries vendored.\n", out.String())
}

func TestSimpleUI_DisplayUpdates(t *testing.T) {
	cmd, out, _ := newTestCmd()
	ui := NewSimpleUI(cmd, false)

	ui.DisplayUpdates(nil)
	assert.Equal(t, "Everything is up-to-date.\n", out.String())

	out.Reset()
	ui.DisplayUpdates([]m.PinnedPackage{{Name: "requests", Version: "2.31.0"}})
	assert.Contains(t, out.String(), "requests")
	assert.Contains(t, out.String(), "2.31.0")
}

func TestSimpleUI_DisplayError(t *testing.T) {
	cmd, out, errOut := newTestCmd()

	NewSimpleUI(cmd, false).DisplayError(errors.New("first\nsecond"))

	assert.Empty(t, out.String())
	assert.Contains(t, errOut.String(), "Error:")
	assert.Contains(t, errOut.String(), "\n  first\n  second\n")
}

func TestSimpleUI_DisplayRewrittenAndSuccess(t *testing.T) {
	cmd, out, _ := newTestCmd()
	ui := NewSimpleUI(cmd, false)

	ui.DisplayRewritten("src/pkg/_vendor", []m.Path{"a.py", "b.py"})
	ui.DisplaySuccess("Wrote vendor.cdx.json")

	assert.Contains(t, out.String(), "Rewrote 2 file(s) under src/pkg/_vendor\n")
	assert.Contains(t, out.String(), "Wrote vendor.cdx.json")
}
