package domain

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/charmbracelet/log"

	"github.com/mouse-blink/vendoring/internal/domain/rewrite"
	m "github.com/mouse-blink/vendoring/internal/model"
)

const pythonFileExt = ".py"

// substitution is a compiled transformations.substitute entry.
type substitution struct {
	re      *regexp.Regexp
	replace string
}

type pendingWrite struct {
	path    m.Path
	content []byte
	perm    os.FileMode
}

// RewriteTree applies rewrite.Rewrite to every .py file under root.
func (w *workflow) RewriteTree(logger *log.Logger, root m.Path, rules *rewrite.RuleSet, exclude ...string) ([]m.Path, error) {
	for _, pattern := range exclude {
		if !doublestar.ValidatePattern(pattern) {
			return nil, fmt.Errorf("invalid exclude pattern %q", pattern)
		}
	}

	return w.transformTree(logger, root, nil, rules, exclude)
}

// transformTree runs substitutions and import rewriting over the tree in two
// phases: every file is transformed in memory first, and only when all of
// them succeeded are the changed files written back.
func (w *workflow) transformTree(
	logger *log.Logger,
	root m.Path,
	subs []substitution,
	rules *rewrite.RuleSet,
	exclude []string,
) ([]m.Path, error) {
	info, err := w.fsAdapter.FileInfo(root)
	if err != nil {
		return nil, err
	}

	if !info.IsDir() {
		return nil, fmt.Errorf("%s is not a directory", root)
	}

	var writes []pendingWrite

	err = w.fsAdapter.Walk(root, true, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}

		if info.IsDir() || !strings.HasSuffix(path, pythonFileExt) {
			return nil
		}

		rel := filepath.ToSlash(w.relative(root, m.Path(path)))
		if excluded(rel, exclude) {
			logger.Debug("Skipping excluded file", "file", rel)

			return nil
		}

		src, err := w.fsAdapter.ReadFile(m.Path(path))
		if err != nil {
			return err
		}

		out := applySubstitutions(src, subs)

		out, err = rewrite.Rewrite(out, rules)
		if err != nil {
			return rewrite.WithPath(err, rel)
		}

		if bytes.Equal(src, out) {
			return nil
		}

		writes = append(writes, pendingWrite{path: m.Path(path), content: out, perm: info.Mode().Perm()})

		return nil
	})
	if err != nil {
		return nil, err
	}

	changed := make([]m.Path, 0, len(writes))

	for _, pw := range writes {
		if err := w.fsAdapter.WriteFile(pw.path, pw.content, pw.perm); err != nil {
			return changed, fmt.Errorf("writing %s: %w", pw.path, err)
		}

		logger.Debug("Rewrote imports", "file", w.relative(root, pw.path))

		changed = append(changed, pw.path)
	}

	return changed, nil
}

func excluded(rel string, patterns []string) bool {
	for _, pattern := range patterns {
		if ok, _ := doublestar.Match(pattern, rel); ok {
			return true
		}
	}

	return false
}

func compileSubstitutions(subs []m.Substitution) ([]substitution, error) {
	compiled := make([]substitution, 0, len(subs))

	for _, sub := range subs {
		re, err := regexp.Compile(sub.Match)
		if err != nil {
			return nil, fmt.Errorf("invalid substitution pattern %q: %w", sub.Match, err)
		}

		compiled = append(compiled, substitution{re: re, replace: expandTemplate(sub.Replace)})
	}

	return compiled, nil
}

func applySubstitutions(src []byte, subs []substitution) []byte {
	for _, sub := range subs {
		src = sub.re.ReplaceAll(src, []byte(sub.replace))
	}

	return src
}

// expandTemplate turns a Python replacement string into a regexp template:
// `\1` and `\g<name>` become `${1}` and `${name}`, and literal `$` is escaped.
func expandTemplate(replace string) string {
	var b strings.Builder

	for i := 0; i < len(replace); i++ {
		c := replace[i]

		if c == '$' {
			b.WriteString("$$")

			continue
		}

		if c != '\\' || i+1 == len(replace) {
			b.WriteByte(c)

			continue
		}

		next := replace[i+1]

		switch {
		case isDigit(next):
			end := i + 2
			if end < len(replace) && isDigit(replace[end]) {
				end++
			}

			b.WriteString("${" + replace[i+1:end] + "}")
			i = end - 1
		case next == 'g' && i+2 < len(replace) && replace[i+2] == '<':
			closing := strings.IndexByte(replace[i+3:], '>')
			if closing < 0 {
				b.WriteString(replace[i:])

				return b.String()
			}

			b.WriteString("${" + replace[i+3:i+3+closing] + "}")
			i += 3 + closing
		case next == 'n':
			b.WriteByte('\n')
			i++
		case next == 't':
			b.WriteByte('\t')
			i++
		case next == '\\':
			b.WriteByte('\\')
			i++
		default:
			b.WriteByte(c)
		}
	}

	return b.String()
}

func isDigit(c byte) bool {
	return c >= '0' && c <= '9'
}
