package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mouse-blink/vendoring/internal/controller"
)

// ExitError carries the process exit code of a failed command whose error
// was already shown to the user.
type ExitError struct {
	Code int
	Err  error
}

func (e *ExitError) Error() string {
	if e.Err != nil {
		return e.Err.Error()
	}

	return fmt.Sprintf("exit status %d", e.Code)
}

func (e *ExitError) Unwrap() error {
	return e.Err
}

// fail shows err through ui and silences cobra's own reporting.
func fail(cmd *cobra.Command, ui controller.UI, err error) error {
	ui.DisplayError(err)

	cmd.SilenceErrors = true
	cmd.SilenceUsage = true

	return &ExitError{Code: 1, Err: err}
}
