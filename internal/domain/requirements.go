package domain

import (
	"bufio"
	"bytes"
	"fmt"
	"regexp"
	"strings"

	m "github.com/mouse-blink/vendoring/internal/model"
)

// versionPattern is the PEP 440 version grammar.
const versionPattern = `v?(?:(?:[0-9]+!)?[0-9]+(?:\.[0-9]+)*` +
	`(?:[-_\.]?(?:a|b|c|rc|alpha|beta|pre|preview)[-_\.]?[0-9]*)?` +
	`(?:-[0-9]+|[-_\.]?(?:post|rev|r)[-_\.]?[0-9]*)?` +
	`(?:[-_\.]?dev[-_\.]?[0-9]*)?)` +
	`(?:\+[a-z0-9]+(?:[-_\.][a-z0-9]+)*)?`

var pinnedPattern = regexp.MustCompile(`(?i)^(\s*)([A-Z][A-Z0-9\-._]*)\s*==\s*(` + versionPattern + `)(.*)$`)

// RequirementLine is a requirements file line that is not a `name==version`
// pin.
type RequirementLine struct {
	Number int
	Text   string
}

// RequirementsError lists every line of a requirements file that could not
// be parsed.
type RequirementsError struct {
	Path  m.Path
	Lines []RequirementLine
}

func (e *RequirementsError) Error() string {
	var b strings.Builder

	fmt.Fprintf(&b, "could not parse requirements in %s:", e.Path)

	for _, line := range e.Lines {
		fmt.Fprintf(&b, "\n  line %d: %q", line.Number, line.Text)
	}

	return b.String()
}

func parsePinnedPackages(path m.Path, content []byte) ([]m.PinnedPackage, error) {
	var (
		packages []m.PinnedPackage
		failed   []RequirementLine
	)

	scanner := bufio.NewScanner(bytes.NewReader(content))
	number := 0

	for scanner.Scan() {
		number++

		line := scanner.Text()

		groups := pinnedPattern.FindStringSubmatch(line)
		if groups == nil {
			failed = append(failed, RequirementLine{Number: number, Text: line})

			continue
		}

		packages = append(packages, m.PinnedPackage{
			Prefix:  groups[1],
			Name:    groups[2],
			Version: groups[3],
			Suffix:  groups[4],
		})
	}

	if err := scanner.Err(); err != nil {
		return nil, err
	}

	if len(failed) > 0 {
		return nil, &RequirementsError{Path: path, Lines: failed}
	}

	return packages, nil
}

func (w *workflow) readRequirements(path m.Path) ([]m.PinnedPackage, error) {
	content, err := w.fsAdapter.ReadFile(path)
	if err != nil {
		return nil, err
	}

	return parsePinnedPackages(path, content)
}

func (w *workflow) writeRequirements(path m.Path, packages []m.PinnedPackage) error {
	var b bytes.Buffer

	for _, pkg := range packages {
		b.WriteString(pkg.String())
		b.WriteByte('\n')
	}

	return w.fsAdapter.WriteFile(path, b.Bytes(), 0o644)
}

var separatorRun = regexp.MustCompile(`[-_.]+`)

// canonicalName normalises a distribution name the way package indexes
// compare them.
func canonicalName(name string) string {
	return separatorRun.ReplaceAllString(strings.ToLower(name), "-")
}
