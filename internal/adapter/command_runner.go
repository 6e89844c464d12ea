package adapter

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os/exec"
	"strings"

	"github.com/charmbracelet/log"
	"mvdan.cc/sh/v3/syntax"

	m "github.com/mouse-blink/vendoring/internal/model"
)

// CommandRunner executes external tools (pip, git) and streams their output
// into the task log.
type CommandRunner interface {
	// Run executes command in dir. An empty dir inherits the working
	// directory of the process.
	Run(ctx context.Context, logger *log.Logger, dir m.Path, command []string) error
}

// CommandError reports a command that exited with a non-zero status.
type CommandError struct {
	Command  string
	ExitCode int
}

func (e *CommandError) Error() string {
	return fmt.Sprintf("command exited with non-zero exit code: %d (%s)", e.ExitCode, e.Command)
}

// LocalCommandRunner runs commands with os/exec.
type LocalCommandRunner struct{}

// NewLocalCommandRunner constructs a LocalCommandRunner.
func NewLocalCommandRunner() *LocalCommandRunner {
	return &LocalCommandRunner{}
}

// Run merges stdout and stderr and logs every non-empty line as it arrives.
func (r *LocalCommandRunner) Run(ctx context.Context, logger *log.Logger, dir m.Path, command []string) error {
	if len(command) == 0 {
		return errors.New("empty command")
	}

	line := QuoteCommand(command)
	logger.Info("Running " + line)

	// #nosec G204 - the command line comes from the vendoring configuration
	cmd := exec.CommandContext(ctx, command[0], command[1:]...)
	cmd.Dir = string(dir)

	pr, pw := io.Pipe()
	cmd.Stdout = pw
	cmd.Stderr = pw

	done := make(chan struct{})

	go func() {
		defer close(done)

		scanner := bufio.NewScanner(pr)
		scanner.Buffer(make([]byte, 64*1024), 1024*1024)

		for scanner.Scan() {
			if text := strings.TrimRight(scanner.Text(), " \t\r"); text != "" {
				logger.Info("  " + text)
			}
		}

		_, _ = io.Copy(io.Discard, pr)
	}()

	err := cmd.Run()
	_ = pw.Close()

	<-done

	if err == nil {
		return nil
	}

	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		return &CommandError{Command: line, ExitCode: exitErr.ExitCode()}
	}

	return fmt.Errorf("running %s: %w", line, err)
}

// QuoteCommand renders command the way a user would type it in a shell.
func QuoteCommand(command []string) string {
	parts := make([]string, 0, len(command))

	for _, arg := range command {
		quoted, err := syntax.Quote(arg, syntax.LangBash)
		if err != nil {
			quoted = fmt.Sprintf("%q", arg)
		}

		parts = append(parts, quoted)
	}

	return strings.Join(parts, " ")
}
