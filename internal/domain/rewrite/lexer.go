package rewrite

import (
	"bytes"
	"fmt"
	"strings"
	"unicode"
	"unicode/utf8"
)

type tokenKind int

const (
	tokenName tokenKind = iota
	tokenString
	tokenNumber
	tokenOp
	tokenNewline
	tokenEOF
)

// token is a lexical element of Python source. Comments, indentation and
// line continuations are dropped; newlines inside brackets are not reported.
type token struct {
	kind   tokenKind
	text   string
	offset int
	line   int
	col    int
	depth  int // bracket nesting before the token

	// string literals only
	prefixLen int
	quoteLen  int
}

func (t token) is(kind tokenKind, text string) bool {
	return t.kind == kind && t.text == text
}

func (t token) describe() string {
	switch t.kind {
	case tokenEOF:
		return "end of file"
	case tokenNewline:
		return "end of line"
	case tokenString:
		return "string literal"
	default:
		return fmt.Sprintf("%q", t.text)
	}
}

type lexer struct {
	src       []byte
	pos       int
	line      int
	lineStart int
	depth     int
}

const byteOrderMark = "\ufeff"

func tokenize(src []byte) ([]token, error) {
	lx := &lexer{src: src, line: 1}
	if bytes.HasPrefix(src, []byte(byteOrderMark)) {
		lx.pos = len(byteOrderMark)
		lx.lineStart = lx.pos
	}

	var tokens []token

	for {
		tok, err := lx.next()
		if err != nil {
			return nil, err
		}

		tokens = append(tokens, tok)
		if tok.kind == tokenEOF {
			return tokens, nil
		}
	}
}

func (lx *lexer) errorf(line, col int, format string, args ...any) error {
	return &ParseError{Line: line, Column: col, Msg: fmt.Sprintf(format, args...)}
}

func (lx *lexer) col() int {
	return lx.pos - lx.lineStart + 1
}

func (lx *lexer) newline(width int) {
	lx.pos += width
	lx.line++
	lx.lineStart = lx.pos
}

func (lx *lexer) next() (token, error) {
	for lx.pos < len(lx.src) {
		c := lx.src[lx.pos]

		switch {
		case c == ' ' || c == '\t' || c == '\f':
			lx.pos++
		case c == '\\':
			width := newlineWidth(lx.src, lx.pos+1)
			if width == 0 {
				return token{}, lx.errorf(lx.line, lx.col(), "unexpected character after line continuation")
			}

			lx.pos++
			lx.newline(width)
		case c == '\n' || c == '\r':
			tok := token{kind: tokenNewline, offset: lx.pos, line: lx.line, col: lx.col(), depth: lx.depth}
			lx.newline(newlineWidth(lx.src, lx.pos))

			if lx.depth == 0 {
				return tok, nil
			}
		case c == '#':
			for lx.pos < len(lx.src) && lx.src[lx.pos] != '\n' && lx.src[lx.pos] != '\r' {
				lx.pos++
			}
		default:
			return lx.scan()
		}
	}

	return token{kind: tokenEOF, offset: lx.pos, line: lx.line, col: lx.col(), depth: lx.depth}, nil
}

func (lx *lexer) scan() (token, error) {
	start := lx.pos
	tok := token{offset: start, line: lx.line, col: lx.col(), depth: lx.depth}
	c := lx.src[start]
	r, size := utf8.DecodeRune(lx.src[start:])

	switch {
	case c == '"' || c == '\'':
		return lx.scanString(tok, 0)
	case isIdentStart(r):
		end := start + size
		for end < len(lx.src) {
			r, w := utf8.DecodeRune(lx.src[end:])
			if !isIdentPart(r) {
				break
			}

			end += w
		}

		word := string(lx.src[start:end])
		lx.pos = end

		if end < len(lx.src) && (lx.src[end] == '"' || lx.src[end] == '\'') && isStringPrefix(word) {
			return lx.scanString(tok, len(word))
		}

		tok.kind = tokenName
		tok.text = word

		return tok, nil
	case isDigit(c) || (c == '.' && start+1 < len(lx.src) && isDigit(lx.src[start+1])):
		end := start + 1
		for end < len(lx.src) && (isDigit(lx.src[end]) || isASCIILetter(lx.src[end]) || lx.src[end] == '_' || lx.src[end] == '.') {
			end++
		}

		lx.pos = end
		tok.kind = tokenNumber
		tok.text = string(lx.src[start:end])

		return tok, nil
	case c == ':' && start+1 < len(lx.src) && lx.src[start+1] == '=':
		lx.pos += 2
		tok.kind = tokenOp
		tok.text = ":="

		return tok, nil
	}

	switch c {
	case '(', '[', '{':
		lx.depth++
	case ')', ']', '}':
		if lx.depth > 0 {
			lx.depth--
		}
	}

	lx.pos += size
	tok.kind = tokenOp
	tok.text = string(lx.src[start:lx.pos])

	return tok, nil
}

// scanString consumes a string literal whose opening quote is at lx.pos.
// Replacement fields of f- and t-strings are scanned as expressions, so they
// may hold nested literals that reuse the enclosing quote.
func (lx *lexer) scanString(tok token, prefixLen int) (token, error) {
	q := lx.src[lx.pos]
	prefix := strings.ToLower(string(lx.src[tok.offset : tok.offset+prefixLen]))
	formatted := strings.ContainsAny(prefix, "ft")

	quoteLen := 1
	if lx.pos+2 < len(lx.src) && lx.src[lx.pos+1] == q && lx.src[lx.pos+2] == q {
		quoteLen = 3
	}

	lx.pos += quoteLen

	for {
		if lx.pos >= len(lx.src) {
			return token{}, lx.errorf(tok.line, tok.col, "unterminated string literal")
		}

		c := lx.src[lx.pos]

		switch {
		case c == '\\':
			lx.skipEscape()
		case c == '\n' || c == '\r':
			if quoteLen == 1 {
				return token{}, lx.errorf(tok.line, tok.col, "unterminated string literal")
			}

			lx.newline(newlineWidth(lx.src, lx.pos))
		case c == q && (quoteLen == 1 || (lx.pos+2 < len(lx.src) && lx.src[lx.pos+1] == q && lx.src[lx.pos+2] == q)):
			lx.pos += quoteLen
			tok.kind = tokenString
			tok.text = string(lx.src[tok.offset:lx.pos])
			tok.prefixLen = prefixLen
			tok.quoteLen = quoteLen

			return tok, nil
		case formatted && (c == '{' || c == '}') && lx.pos+1 < len(lx.src) && lx.src[lx.pos+1] == c:
			lx.pos += 2
		case formatted && c == '{':
			lx.pos++

			if err := lx.scanReplacementField(tok); err != nil {
				return token{}, err
			}
		default:
			lx.pos++
		}
	}
}

func (lx *lexer) skipEscape() {
	lx.pos++
	if width := newlineWidth(lx.src, lx.pos); width > 0 {
		lx.newline(width)
	} else if lx.pos < len(lx.src) {
		lx.pos++
	}
}

// scanReplacementField consumes an f-string `{expr!r:spec}` field up to and
// including its closing brace. lx.pos is just after the opening brace.
func (lx *lexer) scanReplacementField(str token) error {
	depth := 0

	for lx.pos < len(lx.src) {
		start := lx.pos
		c := lx.src[start]
		r, size := utf8.DecodeRune(lx.src[start:])

		switch {
		case c == '\\':
			lx.skipEscape()
		case c == '\n' || c == '\r':
			lx.newline(newlineWidth(lx.src, lx.pos))
		case c == '#':
			for lx.pos < len(lx.src) && lx.src[lx.pos] != '\n' && lx.src[lx.pos] != '\r' {
				lx.pos++
			}
		case c == '"' || c == '\'':
			if _, err := lx.scanString(token{offset: start, line: lx.line, col: lx.col()}, 0); err != nil {
				return err
			}
		case isIdentStart(r):
			nested := token{offset: start, line: lx.line, col: lx.col()}

			end := start + size
			for end < len(lx.src) {
				r, w := utf8.DecodeRune(lx.src[end:])
				if !isIdentPart(r) {
					break
				}

				end += w
			}

			lx.pos = end

			if end < len(lx.src) && (lx.src[end] == '"' || lx.src[end] == '\'') && isStringPrefix(string(lx.src[start:end])) {
				if _, err := lx.scanString(nested, end-start); err != nil {
					return err
				}
			}
		case c == '(' || c == '[' || c == '{':
			depth++
			lx.pos++
		case c == ')' || c == ']':
			depth--
			lx.pos++
		case c == '}':
			lx.pos++

			if depth == 0 {
				return nil
			}

			depth--
		case c == '!' && lx.pos+1 < len(lx.src) && lx.src[lx.pos+1] == '=':
			lx.pos += 2
		case c == ':' && depth == 0:
			lx.pos++

			return lx.scanFormatSpec(str)
		default:
			lx.pos += size
		}
	}

	return lx.errorf(str.line, str.col, "unterminated string literal")
}

// scanFormatSpec consumes the format spec of a replacement field, which may
// nest further fields, up to and including the field's closing brace.
func (lx *lexer) scanFormatSpec(str token) error {
	for lx.pos < len(lx.src) {
		switch c := lx.src[lx.pos]; {
		case c == '\\':
			lx.skipEscape()
		case c == '\n' || c == '\r':
			lx.newline(newlineWidth(lx.src, lx.pos))
		case c == '{':
			lx.pos++

			if err := lx.scanReplacementField(str); err != nil {
				return err
			}
		case c == '}':
			lx.pos++

			return nil
		default:
			lx.pos++
		}
	}

	return lx.errorf(str.line, str.col, "unterminated string literal")
}

func newlineWidth(src []byte, i int) int {
	if i >= len(src) {
		return 0
	}

	switch src[i] {
	case '\n':
		return 1
	case '\r':
		if i+1 < len(src) && src[i+1] == '\n' {
			return 2
		}

		return 1
	}

	return 0
}

func isStringPrefix(word string) bool {
	switch strings.ToLower(word) {
	case "r", "u", "b", "f", "t", "br", "rb", "fr", "rf", "tr", "rt":
		return true
	}

	return false
}

func isIdentStart(r rune) bool {
	return r == '_' || unicode.IsLetter(r)
}

func isIdentPart(r rune) bool {
	return isIdentStart(r) || unicode.IsDigit(r) || unicode.In(r, unicode.Mn, unicode.Mc, unicode.Pc)
}

func isDigit(c byte) bool {
	return c >= '0' && c <= '9'
}

func isASCIILetter(c byte) bool {
	return (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}

var keywords = map[string]struct{}{
	"False": {}, "None": {}, "True": {}, "and": {}, "as": {}, "assert": {}, "async": {},
	"await": {}, "break": {}, "class": {}, "continue": {}, "def": {}, "del": {}, "elif": {},
	"else": {}, "except": {}, "finally": {}, "for": {}, "from": {}, "global": {}, "if": {},
	"import": {}, "in": {}, "is": {}, "lambda": {}, "nonlocal": {}, "not": {}, "or": {},
	"pass": {}, "raise": {}, "return": {}, "try": {}, "while": {}, "with": {}, "yield": {},
}

func isIdentifierText(s string) bool {
	if s == "" {
		return false
	}

	if _, ok := keywords[s]; ok {
		return false
	}

	for i, r := range s {
		if i == 0 && !isIdentStart(r) {
			return false
		}

		if !isIdentPart(r) {
			return false
		}
	}

	return true
}
