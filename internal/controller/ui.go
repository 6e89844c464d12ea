// Package controller renders vendoring progress and results.
package controller

import (
	"bytes"
	"fmt"
	"io"
	"slices"
	"strings"
	"sync"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/log"
	"github.com/charmbracelet/x/ansi"
	"github.com/olekukonko/tablewriter"

	"github.com/mouse-blink/vendoring/internal/domain"
	m "github.com/mouse-blink/vendoring/internal/model"
)

// UI reports workflow progress and prints command results. Implementations
// can use different output methods (simple text, TUI, etc).
type UI interface {
	domain.Reporter
	DisplaySummary(summary m.Summary)
	DisplayUpdates(updated []m.PinnedPackage)
	DisplayRewritten(root m.Path, changed []m.Path)
	DisplaySuccess(message string)
	DisplayError(err error)
}

var (
	doneStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("2")).Bold(true)
	errorStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("1")).Bold(true)
	warningStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("3"))
	taskStyle    = lipgloss.NewStyle().Bold(true)
)

// taskWriter collects the log output of one task. Warnings and errors are
// forwarded to out immediately, everything else waits in the buffer until
// the task fails. In verbose mode every record is forwarded.
type taskWriter struct {
	mu      sync.Mutex
	out     io.Writer
	buf     bytes.Buffer
	verbose bool
	onLine  func(line string)
	// lineOpen is set while the task header waits for its status.
	lineOpen bool
}

// Write receives one formatted log record per call.
func (w *taskWriter) Write(p []byte) (int, error) {
	w.mu.Lock()
	defer w.mu.Unlock()

	record := string(p)

	if w.onLine != nil {
		w.onLine(strings.TrimRight(record, "\n"))
	}

	if w.verbose || isWarning(record) {
		w.breakLine()

		if _, err := io.WriteString(w.out, indent(record)); err != nil {
			return 0, err
		}

		return len(p), nil
	}

	return w.buf.Write(p)
}

// replay writes the buffered records to out.
func (w *taskWriter) replay() {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.buf.Len() == 0 {
		return
	}

	w.breakLine()

	_, _ = io.WriteString(w.out, indent(w.buf.String()))
	w.buf.Reset()
}

// finish prints the task status, on the header line when nothing else was
// written since.
func (w *taskWriter) finish(status string) {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.lineOpen {
		_, _ = fmt.Fprintf(w.out, " %s\n", status)
		w.lineOpen = false

		return
	}

	_, _ = fmt.Fprintf(w.out, "  %s\n", status)
}

func (w *taskWriter) breakLine() {
	if w.lineOpen {
		_, _ = io.WriteString(w.out, "\n")
		w.lineOpen = false
	}
}

func isWarning(record string) bool {
	plain := ansi.Strip(record)

	return strings.HasPrefix(plain, "WARN") || strings.HasPrefix(plain, "ERRO")
}

func indent(text string) string {
	lines := strings.SplitAfter(text, "\n")

	var b strings.Builder

	for _, line := range lines {
		if line == "" {
			continue
		}

		b.WriteString("  ")
		b.WriteString(line)
	}

	return b.String()
}

func newLogger(w io.Writer, verbose bool) *log.Logger {
	level := log.InfoLevel
	if verbose {
		level = log.DebugLevel
	}

	logger := log.NewWithOptions(w, log.Options{Level: level})
	styles := log.DefaultStyles()
	styles.Levels[log.WarnLevel] = warningStyle.SetString("WARN")
	styles.Levels[log.ErrorLevel] = errorStyle.SetString("ERRO")
	logger.SetStyles(styles)

	return logger
}

func renderSummary(w io.Writer, summary m.Summary) {
	if len(summary.Libraries) == 0 {
		_, _ = fmt.Fprintln(w, "No libraries vendored.")

		return
	}

	libraries := slices.Clone(summary.Libraries)
	slices.SortFunc(libraries, func(a, b m.Library) int {
		return strings.Compare(a.Name, b.Name)
	})

	var tableBuffer bytes.Buffer

	table := tablewriter.NewWriter(&tableBuffer)
	table.SetHeader([]string{"Library", "Kind", "Rewritten files"})
	table.SetBorder(false)
	table.SetCenterSeparator("")
	table.SetColumnAlignment([]int{tablewriter.ALIGN_LEFT, tablewriter.ALIGN_LEFT, tablewriter.ALIGN_CENTER})

	rewritten := 0

	for _, lib := range libraries {
		count := summary.RewrittenFiles[lib.Name]
		rewritten += count

		table.Append([]string{lib.Name, string(lib.Kind), fmt.Sprintf("%d", count)})
	}

	table.SetFooter([]string{
		fmt.Sprintf("Total libraries %d", len(libraries)),
		"",
		fmt.Sprintf("%d", rewritten),
	})

	table.Render()

	_, _ = fmt.Fprintf(w, "\n%s\n", tableBuffer.String())
	_, _ = fmt.Fprintf(w, "Licenses: %d, stubs: %d, patches: %d\n",
		len(summary.Licenses), len(summary.Stubs), len(summary.Patches))
}

func renderUpdates(w io.Writer, updated []m.PinnedPackage) {
	if len(updated) == 0 {
		_, _ = fmt.Fprintln(w, "Everything is up-to-date.")

		return
	}

	var tableBuffer bytes.Buffer

	table := tablewriter.NewWriter(&tableBuffer)
	table.SetHeader([]string{"Package", "Version"})
	table.SetBorder(false)
	table.SetCenterSeparator("")
	table.SetColumnAlignment([]int{tablewriter.ALIGN_LEFT, tablewriter.ALIGN_LEFT})

	for _, pkg := range updated {
		table.Append([]string{pkg.Name, pkg.Version})
	}

	table.Render()

	_, _ = fmt.Fprintf(w, "\n%s", tableBuffer.String())
}

func renderRewritten(w io.Writer, root m.Path, changed []m.Path) {
	_, _ = fmt.Fprintf(w, "Rewrote %d file(s) under %s\n", len(changed), root)
}

func renderError(w io.Writer, err error) {
	_, _ = fmt.Fprintln(w, errorStyle.Render("Error:"))
	_, _ = io.WriteString(w, indent(err.Error()+"\n"))
}
