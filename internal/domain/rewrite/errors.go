package rewrite

import (
	"errors"
	"fmt"
	"strings"
)

// ParseError reports source that could not be tokenized or an import
// statement outside the supported grammar.
type ParseError struct {
	Path   string
	Line   int
	Column int
	Msg    string
}

func (e *ParseError) Error() string {
	loc := fmt.Sprintf("%d:%d", e.Line, e.Column)
	if e.Path != "" {
		loc = e.Path + ":" + loc
	}

	return loc + ": " + e.Msg
}

// AmbiguousRuleError reports a module reference that more than one rule
// claims with different namespaces.
type AmbiguousRuleError struct {
	Path       string
	Line       int
	Reference  string
	Namespaces []string
}

func (e *AmbiguousRuleError) Error() string {
	var loc string

	switch {
	case e.Path != "" && e.Line > 0:
		loc = fmt.Sprintf("%s:%d: ", e.Path, e.Line)
	case e.Path != "":
		loc = e.Path + ": "
	case e.Line > 0:
		loc = fmt.Sprintf("line %d: ", e.Line)
	}

	return fmt.Sprintf("%sambiguous rewrite of %q: claimed by namespaces %s",
		loc, e.Reference, strings.Join(e.Namespaces, ", "))
}

// WithPath attaches a file path to rewrite errors so they can be reported
// against the file that produced them. Other errors are returned unchanged.
func WithPath(err error, path string) error {
	var parseErr *ParseError
	if errors.As(err, &parseErr) {
		e := *parseErr
		e.Path = path

		return &e
	}

	var ambiguous *AmbiguousRuleError
	if errors.As(err, &ambiguous) {
		e := *ambiguous
		e.Path = path

		return &e
	}

	return err
}
