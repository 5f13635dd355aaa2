// Package parser reads rewrite-specification source into core statements.
//
// # Usage
//
//	stmt, err := parser.ParseStatement("rw app_base (append nil ?x) => ?x")
//	if err != nil {
//	    // handle error
//	}
//
// Every accepted statement has passed the hole-consistency check: no name
// is used both as a hole and as an id within the statement.
//
// # Grammar Overview
//
//	definitions := SEP* [statement (SEP+ statement)*] SEP* EOF
//	statement   := rewrite | function | datatype | goal | casesplit
//	term        := terminal | "(" "match" term arm* ")" | "(" terminal term* ")"
//	terminal    := (IDENT | HOLE) ("::" annotAtom)*
//
// See parser_stmt.go and parser_expr.go for the detailed rules.
package parser

import (
	"fmt"
	"os"

	"github.com/leapstack-labs/rwspec/pkg/core"
	"github.com/leapstack-labs/rwspec/pkg/token"
)

// Parser parses rewrite-specification source.
type Parser struct {
	lexer  *Lexer
	token  Token // current token
	peek   Token // lookahead token
	peek2  Token // second lookahead token
	prev   Token // last consumed token
	errors []error
	opts   options

	// nextPlaceholder is the index handed to the next "_" annotation.
	nextPlaceholder uint

	// depth counts open parentheses of the term being parsed.
	depth     int
	// wholeTerm is set when the input is a single term (ParseExpression).
	wholeTerm bool
}

// NewParser creates a new parser for the given input.
func NewParser(src string, opts ...Option) *Parser {
	p := &Parser{
		lexer:           NewLexer(src),
		opts:            buildOptions(opts),
		nextPlaceholder: 1,
	}
	// Read three tokens to initialize current, peek, and peek2
	p.nextToken()
	p.nextToken()
	p.nextToken()
	return p
}

// Source is a parsed file: accepted statements with their spans, plus the
// comments the lexer collected.
type Source struct {
	Statements core.Definitions
	Spans      []token.Span // Spans[i] covers Statements[i]
	Comments   []*token.Comment
}

// ParseStatement parses exactly one statement.
func ParseStatement(src string, opts ...Option) (core.Statement, error) {
	p := NewParser(src, opts...)
	p.skipSeparators()
	stmt, _ := p.parseValidStatement()
	if len(p.errors) > 0 {
		return nil, p.errors[0]
	}
	p.skipSeparators()
	if !p.check(TOKEN_EOF) {
		p.addError(fmt.Sprintf(ErrUnexpectedToken, p.token.Type, TOKEN_EOF))
		return nil, p.errors[0]
	}
	return stmt, nil
}

// ParseDefinitions parses a sequence of blank-line separated statements and
// fails on the first invalid one.
func ParseDefinitions(src string, opts ...Option) (core.Definitions, error) {
	s, err := ParseSource(src, opts...)
	if err != nil {
		return nil, err
	}
	return s.Statements, nil
}

// ParseSource is ParseDefinitions that also returns spans and comments.
func ParseSource(src string, opts ...Option) (*Source, error) {
	p := NewParser(src, opts...)
	s := &Source{Statements: core.Definitions{}}

	p.skipSeparators()
	for !p.check(TOKEN_EOF) {
		stmt, span := p.parseValidStatement()
		if len(p.errors) > 0 {
			return nil, p.errors[0]
		}
		s.Statements = append(s.Statements, stmt)
		s.Spans = append(s.Spans, span)

		if !p.endStatement() {
			return nil, p.errors[0]
		}
	}
	s.Comments = p.lexer.Comments
	return s, nil
}

// ParseDefinitionsPartial parses every statement it can. A statement that
// fails to parse or validate is dropped and its error recorded; parsing
// resumes at the next blank line. Accepted statements are never affected by
// a later failure.
func ParseDefinitionsPartial(src string, opts ...Option) (*Source, []error) {
	p := NewParser(src, opts...)
	s := &Source{Statements: core.Definitions{}}
	var errs []error

	p.skipSeparators()
	for !p.check(TOKEN_EOF) {
		stmt, span := p.parseValidStatement()
		if len(p.errors) == 0 {
			p.endStatement()
		}
		if len(p.errors) > 0 {
			errs = append(errs, p.errors[0])
			p.errors = nil
			p.synchronize()
			continue
		}
		s.Statements = append(s.Statements, stmt)
		s.Spans = append(s.Spans, span)
	}
	s.Comments = p.lexer.Comments
	return s, errs
}

// ParseExpression parses a single term.
func ParseExpression(src string) (core.Expression, error) {
	p := NewParser(src)
	p.wholeTerm = true
	p.skipSeparators()
	e := p.parseTerm()
	if len(p.errors) > 0 {
		return nil, p.errors[0]
	}
	p.skipSeparators()
	if !p.check(TOKEN_EOF) {
		p.addError(fmt.Sprintf(ErrUnexpectedToken, p.token.Type, TOKEN_EOF))
		return nil, p.errors[0]
	}
	return e, nil
}

// ParseFile reads and parses the file at path.
func ParseFile(path string, opts ...Option) (core.Definitions, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}
	defs, err := ParseDefinitions(string(data), opts...)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return defs, nil
}

// ---------- Token Helpers ----------

// nextToken advances to the next token.
func (p *Parser) nextToken() {
	p.prev = p.token
	p.token = p.peek
	p.peek = p.peek2
	p.peek2 = p.lexer.NextToken()
}

// check returns true if the current token is of the given type.
func (p *Parser) check(t TokenType) bool {
	return p.token.Type == t
}

// match consumes the current token if it matches and returns true.
func (p *Parser) match(t TokenType) bool {
	if p.check(t) {
		p.nextToken()
		return true
	}
	return false
}

// expect consumes the current token if it matches, otherwise adds an error.
func (p *Parser) expect(t TokenType) bool {
	if p.check(t) {
		p.nextToken()
		return true
	}
	p.unexpected(t.String())
	return false
}

// unexpected records an error for the current token.
func (p *Parser) unexpected(expected string) {
	if p.check(TOKEN_ILLEGAL) {
		p.errors = append(p.errors, &LexError{
			Pos:     p.token.Pos,
			Message: fmt.Sprintf(ErrIllegalCharacter, p.token.Literal),
		})
		return
	}
	p.addError(fmt.Sprintf(ErrUnexpectedToken, describe(p.token), expected))
}

// addError adds a parse error.
func (p *Parser) addError(msg string) {
	p.errors = append(p.errors, &ParseError{
		Pos:     p.token.Pos,
		Message: msg,
	})
}

// failed reports whether an error has been recorded.
func (p *Parser) failed() bool {
	return len(p.errors) > 0
}

func (p *Parser) skipSeparators() {
	for p.match(TOKEN_SEP) {
	}
}

// endStatement consumes the separator after a statement. It fails unless
// the statement is followed by a blank line or the end of input.
func (p *Parser) endStatement() bool {
	if p.check(TOKEN_EOF) {
		return true
	}
	if !p.check(TOKEN_SEP) {
		p.addError(fmt.Sprintf(ErrMissingSeparator, describe(p.token)))
		return false
	}
	p.skipSeparators()
	return true
}

// synchronize skips to the start of the next statement.
func (p *Parser) synchronize() {
	for !p.check(TOKEN_EOF) && !p.check(TOKEN_SEP) {
		p.nextToken()
	}
	p.skipSeparators()
}

// prevEnd returns the position just past the last consumed token.
func (p *Parser) prevEnd() Position {
	width := len(p.prev.Literal)
	if p.prev.Type == TOKEN_HOLE {
		width++ // leading '?'
	}
	return Position{
		Line:   p.prev.Pos.Line,
		Column: p.prev.Pos.Column + width,
		Offset: p.prev.Pos.Offset + width,
	}
}

// describe renders a token for error messages.
func describe(tok Token) string {
	switch tok.Type {
	case TOKEN_IDENT:
		return fmt.Sprintf("identifier %q", tok.Literal)
	case TOKEN_HOLE:
		return fmt.Sprintf("hole %q", "?"+tok.Literal)
	case TOKEN_EOF, TOKEN_SEP:
		return tok.Type.String()
	default:
		return fmt.Sprintf("%q", tok.Type.String())
	}
}
