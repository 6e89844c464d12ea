package controller

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/log"

	m "github.com/mouse-blink/vendoring/internal/model"
)

// maxVisibleLines is how many recent log lines a running task shows under
// its spinner.
const maxVisibleLines = 4

var logLineStyle = lipgloss.NewStyle().Faint(true)

type taskDoneMsg struct {
	err error
}

type taskLogMsg string

// taskModel shows a spinner next to the running task and the tail of its log.
type taskModel struct {
	name    string
	spinner spinner.Model
	lines   []string
	done    bool
	err     error
}

func newTaskModel(name string) taskModel {
	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = lipgloss.NewStyle().Foreground(lipgloss.Color("6"))

	return taskModel{name: name, spinner: s}
}

func (t taskModel) Init() tea.Cmd {
	return t.spinner.Tick
}

func (t taskModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case taskLogMsg:
		for _, line := range strings.Split(string(msg), "\n") {
			if strings.TrimSpace(line) == "" {
				continue
			}

			t.lines = append(t.lines, line)
		}

		if len(t.lines) > maxVisibleLines {
			t.lines = t.lines[len(t.lines)-maxVisibleLines:]
		}

		return t, nil
	case taskDoneMsg:
		t.done = true
		t.err = msg.err

		return t, tea.Quit
	case spinner.TickMsg:
		var cmd tea.Cmd

		t.spinner, cmd = t.spinner.Update(msg)

		return t, cmd
	}

	return t, nil
}

func (t taskModel) View() string {
	if t.done {
		return ""
	}

	var b strings.Builder

	b.WriteString(t.spinner.View())
	b.WriteString(" ")
	b.WriteString(taskStyle.Render(t.name))
	b.WriteString("\n")

	for _, line := range t.lines {
		b.WriteString("    ")
		b.WriteString(logLineStyle.Render(line))
		b.WriteString("\n")
	}

	return b.String()
}

// programWriter prints log records above the running program.
type programWriter struct {
	program *tea.Program
}

func (p programWriter) Write(b []byte) (int, error) {
	p.program.Println(strings.TrimRight(string(b), "\n"))

	return len(b), nil
}

// TUI implements UI using Bubble Tea for interactive display.
type TUI struct {
	output  io.Writer
	verbose bool
}

// NewTUI creates a new TUI.
func NewTUI(output io.Writer, verbose bool) *TUI {
	return &TUI{output: output, verbose: verbose}
}

// Task runs fn while a spinner shows the task name.
func (t *TUI) Task(name string, fn func(logger *log.Logger) error) error {
	program := tea.NewProgram(newTaskModel(name),
		tea.WithOutput(t.output),
		tea.WithInput(nil),
		tea.WithoutSignalHandler(),
	)

	w := &taskWriter{
		out:     programWriter{program: program},
		verbose: t.verbose,
		onLine: func(line string) {
			program.Send(taskLogMsg(line))
		},
	}

	result := make(chan error, 1)

	go func() {
		err := fn(newLogger(w, t.verbose))
		result <- err

		program.Send(taskDoneMsg{err: err})
	}()

	// A failing display does not fail the task.
	_, _ = program.Run()
	err := <-result

	w.mu.Lock()
	w.out = t.output
	w.onLine = nil
	w.lineOpen = true
	w.mu.Unlock()

	_, _ = fmt.Fprintf(t.output, "%s...", taskStyle.Render(name))

	if err != nil {
		w.replay()
		w.finish(errorStyle.Render("Failed!"))

		return err
	}

	w.finish(doneStyle.Render("Done!"))

	return nil
}

// Logger returns a logger writing straight to the output.
func (t *TUI) Logger() *log.Logger {
	return newLogger(t.output, t.verbose)
}

func (t *TUI) DisplaySummary(summary m.Summary) {
	renderSummary(t.output, summary)
}

func (t *TUI) DisplayUpdates(updated []m.PinnedPackage) {
	renderUpdates(t.output, updated)
}

func (t *TUI) DisplayRewritten(root m.Path, changed []m.Path) {
	renderRewritten(t.output, root, changed)
}

func (t *TUI) DisplaySuccess(message string) {
	_, _ = fmt.Fprintln(t.output, doneStyle.Render(message))
}

func (t *TUI) DisplayError(err error) {
	renderError(t.output, err)
}
