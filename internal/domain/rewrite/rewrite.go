// Package rewrite moves Python import statements under a vendoring namespace.
//
// Only the import grammar is parsed: `import a.b as c, d`, `from a.b import
// (c, d as e)`, relative `from . import x` and the string argument of
// `__import__(...)` / `importlib.import_module(...)`. Everything else in the
// file is tokenized just enough to skip comments and string literals.
package rewrite

import (
	"bytes"
	"errors"
	"fmt"
	"strings"
)

type edit struct {
	offset int
	text   string
}

type parser struct {
	tokens []token
	pos    int
	rules  *RuleSet
	edits  []edit
}

// Rewrite returns src with every import of a module covered by rules moved
// under that rule's namespace. Statements that match no rule, comments and
// unrelated string literals are preserved byte for byte. When nothing
// changes src itself is returned.
func Rewrite(src []byte, rules *RuleSet) ([]byte, error) {
	tokens, err := tokenize(src)
	if err != nil {
		return nil, err
	}

	p := &parser{tokens: tokens, rules: rules}
	if err := p.parseFile(); err != nil {
		return nil, err
	}

	return applyEdits(src, p.edits), nil
}

func applyEdits(src []byte, edits []edit) []byte {
	if len(edits) == 0 {
		return src
	}

	var b bytes.Buffer
	b.Grow(len(src) + len(edits)*len(edits[0].text))

	last := 0
	for _, e := range edits {
		b.Write(src[last:e.offset])
		b.WriteString(e.text)
		last = e.offset
	}

	b.Write(src[last:])

	return b.Bytes()
}

func (p *parser) tok() token {
	return p.tokens[p.pos]
}

func (p *parser) peek(n int) token {
	i := min(p.pos+n, len(p.tokens)-1)

	return p.tokens[i]
}

func (p *parser) behind(n int) (token, bool) {
	if p.pos-n < 0 {
		return token{}, false
	}

	return p.tokens[p.pos-n], true
}

func (p *parser) advance() {
	if p.pos < len(p.tokens)-1 {
		p.pos++
	}
}

func (p *parser) errorf(t token, format string, args ...any) error {
	return &ParseError{Line: t.line, Column: t.col, Msg: fmt.Sprintf(format, args...)}
}

func (p *parser) parseFile() error {
	atStart := true

	for {
		t := p.tok()

		switch {
		case t.kind == tokenEOF:
			return nil
		case t.kind == tokenNewline:
			atStart = true

			p.advance()
		case atStart && t.is(tokenName, "import"):
			if err := p.parseImport(); err != nil {
				return err
			}
		case atStart && t.is(tokenName, "from"):
			if err := p.parseFrom(); err != nil {
				return err
			}
		default:
			if err := p.dynamicImport(); err != nil {
				return err
			}

			// `if x: import y` and `a; import b` start a new simple statement.
			atStart = t.kind == tokenOp && t.depth == 0 && (t.text == ";" || t.text == ":")

			p.advance()
		}
	}
}

// parseImport handles `import dotted [as name] (, dotted [as name])*`.
func (p *parser) parseImport() error {
	p.advance()

	for {
		module, first, err := p.parseDottedName()
		if err != nil {
			return err
		}

		if err := p.rewriteModule(module, first.offset, first.line); err != nil {
			return err
		}

		if p.tok().is(tokenName, "as") {
			p.advance()

			if err := p.expectIdentifier("alias after 'as'"); err != nil {
				return err
			}
		}

		if !p.tok().is(tokenOp, ",") {
			break
		}

		p.advance()
	}

	return p.endStatement()
}

// parseFrom handles `from [.]* [dotted] import (* | names | (names))`.
func (p *parser) parseFrom() error {
	start := p.tok()
	p.advance()

	level := 0
	for p.tok().is(tokenOp, ".") {
		level++

		p.advance()
	}

	var (
		module string
		first  token
	)

	if !p.tok().is(tokenName, "import") {
		name, tok, err := p.parseDottedName()
		if err != nil {
			return err
		}

		module, first = name, tok
	} else if level == 0 {
		return p.errorf(p.tok(), "expected module name after 'from'")
	}

	if !p.tok().is(tokenName, "import") {
		return p.errorf(p.tok(), "expected 'import' in from-import started at line %d, found %s", start.line, p.tok().describe())
	}

	p.advance()

	if err := p.parseImportTargets(); err != nil {
		return err
	}

	// Relative imports resolve inside the vendored package already.
	if level == 0 {
		if err := p.rewriteModule(module, first.offset, first.line); err != nil {
			return err
		}
	}

	return p.endStatement()
}

func (p *parser) parseImportTargets() error {
	switch {
	case p.tok().is(tokenOp, "*"):
		p.advance()

		return nil
	case p.tok().is(tokenOp, "("):
		open := p.tok()
		p.advance()

		if err := p.parseImportNames(true); err != nil {
			return err
		}

		if !p.tok().is(tokenOp, ")") {
			return p.errorf(p.tok(), "expected ')' closing import list opened at line %d, found %s", open.line, p.tok().describe())
		}

		p.advance()

		return nil
	default:
		return p.parseImportNames(false)
	}
}

func (p *parser) parseImportNames(parenthesized bool) error {
	for {
		if err := p.expectIdentifier("imported name"); err != nil {
			return err
		}

		if p.tok().is(tokenName, "as") {
			p.advance()

			if err := p.expectIdentifier("alias after 'as'"); err != nil {
				return err
			}
		}

		if !p.tok().is(tokenOp, ",") {
			return nil
		}

		p.advance()

		if parenthesized && p.tok().is(tokenOp, ")") {
			return nil
		}
	}
}

func (p *parser) parseDottedName() (string, token, error) {
	first := p.tok()
	if !isIdentifier(first) {
		return "", first, p.errorf(first, "expected module name, found %s", first.describe())
	}

	parts := []string{first.text}

	p.advance()

	for p.tok().is(tokenOp, ".") {
		p.advance()

		t := p.tok()
		if !isIdentifier(t) {
			return "", first, p.errorf(t, "expected name after '.', found %s", t.describe())
		}

		parts = append(parts, t.text)

		p.advance()
	}

	return strings.Join(parts, "."), first, nil
}

func (p *parser) expectIdentifier(what string) error {
	t := p.tok()
	if !isIdentifier(t) {
		return p.errorf(t, "expected %s, found %s", what, t.describe())
	}

	p.advance()

	return nil
}

func (p *parser) endStatement() error {
	t := p.tok()

	switch {
	case t.kind == tokenNewline || t.kind == tokenEOF:
		return nil
	case t.is(tokenOp, ";"):
		p.advance()

		return nil
	default:
		return p.errorf(t, "unexpected %s after import statement", t.describe())
	}
}

// dynamicImport rewrites the literal module argument of __import__("x") and
// importlib.import_module("x"). Any other shape is left alone.
func (p *parser) dynamicImport() error {
	t := p.tok()
	if t.kind != tokenName || !p.isImporterCall(t) {
		return nil
	}

	open, arg, after := p.peek(1), p.peek(2), p.peek(3)
	if !open.is(tokenOp, "(") || arg.kind != tokenString {
		return nil
	}

	if !after.is(tokenOp, ",") && !after.is(tokenOp, ")") {
		return nil
	}

	module, ok := moduleLiteral(arg)
	if !ok {
		return nil
	}

	return p.rewriteModule(module, arg.offset+arg.prefixLen+arg.quoteLen, arg.line)
}

func (p *parser) isImporterCall(t token) bool {
	prev, ok := p.behind(1)
	attribute := ok && prev.is(tokenOp, ".")

	switch t.text {
	case "__import__":
		return !attribute
	case "import_module":
		if !attribute {
			return true
		}

		owner, ok := p.behind(2)
		if !ok || !owner.is(tokenName, "importlib") {
			return false
		}

		dot, ok := p.behind(3)

		return !ok || !dot.is(tokenOp, ".")
	}

	return false
}

func (p *parser) rewriteModule(module string, offset, line int) error {
	rule, ok, err := p.rules.resolve(module)
	if err != nil {
		var ambiguous *AmbiguousRuleError
		if errors.As(err, &ambiguous) {
			ambiguous.Line = line
		}

		return err
	}

	if ok {
		p.edits = append(p.edits, edit{offset: offset, text: rule.Namespace + "."})
	}

	return nil
}

func moduleLiteral(t token) (string, bool) {
	switch strings.ToLower(t.text[:t.prefixLen]) {
	case "", "u", "r":
	default:
		return "", false
	}

	body := t.text[t.prefixLen+t.quoteLen : len(t.text)-t.quoteLen]
	if !isDottedName(body) {
		return "", false
	}

	return body, true
}

func isIdentifier(t token) bool {
	return t.kind == tokenName && isIdentifierText(t.text)
}
