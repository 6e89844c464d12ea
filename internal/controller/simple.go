package controller

import (
	"fmt"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	m "github.com/mouse-blink/vendoring/internal/model"
)

// SimpleUI implements UI with plain lines written to the command output.
type SimpleUI struct {
	cmd     *cobra.Command
	verbose bool
}

// NewSimpleUI creates a new SimpleUI.
func NewSimpleUI(cmd *cobra.Command, verbose bool) *SimpleUI {
	return &SimpleUI{cmd: cmd, verbose: verbose}
}

// Task prints the task name, runs fn and reports its outcome. Without
// verbose output the log of a task is only shown when it fails.
func (s *SimpleUI) Task(name string, fn func(logger *log.Logger) error) error {
	out := s.cmd.OutOrStdout()

	_, _ = fmt.Fprintf(out, "%s...", taskStyle.Render(name))

	w := &taskWriter{out: out, verbose: s.verbose, lineOpen: true}

	if err := fn(newLogger(w, s.verbose)); err != nil {
		w.replay()
		w.finish(errorStyle.Render("Failed!"))

		return err
	}

	w.finish(doneStyle.Render("Done!"))

	return nil
}

// Logger returns a logger writing straight to the command output.
func (s *SimpleUI) Logger() *log.Logger {
	return newLogger(s.cmd.OutOrStdout(), s.verbose)
}

// DisplaySummary prints a table of the vendored libraries.
func (s *SimpleUI) DisplaySummary(summary m.Summary) {
	renderSummary(s.cmd.OutOrStdout(), summary)
}

// DisplayUpdates prints the requirements that changed.
func (s *SimpleUI) DisplayUpdates(updated []m.PinnedPackage) {
	renderUpdates(s.cmd.OutOrStdout(), updated)
}

func (s *SimpleUI) DisplayRewritten(root m.Path, changed []m.Path) {
	renderRewritten(s.cmd.OutOrStdout(), root, changed)
}

func (s *SimpleUI) DisplaySuccess(message string) {
	_, _ = fmt.Fprintln(s.cmd.OutOrStdout(), doneStyle.Render(message))
}

// DisplayError prints err to the command's error output.
func (s *SimpleUI) DisplayError(err error) {
	renderError(s.cmd.ErrOrStderr(), err)
}
