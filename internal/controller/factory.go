package controller

import (
	"io"
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/term"
)

// NewUI creates a UI based on whether TTY mode is enabled.
// When useTTY is true, it returns a TUI (Bubble Tea).
// When useTTY is false, it returns a SimpleUI (plain text).
func NewUI(cmd *cobra.Command, useTTY, verbose bool) UI {
	if useTTY {
		return NewTUI(cmd.OutOrStdout(), verbose)
	}

	return NewSimpleUI(cmd, verbose)
}

// IsTTY reports whether w is an interactive terminal. Redirected output and
// writers that are not files are never terminals.
func IsTTY(w io.Writer) bool {
	file, ok := w.(*os.File)
	if !ok {
		return false
	}

	return term.IsTerminal(int(file.Fd()))
}
