package parser

import "fmt"

// ParseError represents a parsing error with position information.
type ParseError struct {
	Pos     Position
	Message string
	Err     error // underlying cause, e.g. *core.HoleConflictError
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("parse error at line %d, column %d: %s", e.Pos.Line, e.Pos.Column, e.Message)
}

// Unwrap returns the underlying cause.
func (e *ParseError) Unwrap() error {
	return e.Err
}

// LexError represents a lexical analysis error.
type LexError struct {
	Pos     Position
	Message string
}

func (e *LexError) Error() string {
	return fmt.Sprintf("lexer error at line %d, column %d: %s", e.Pos.Line, e.Pos.Column, e.Message)
}

// Common error messages
const (
	ErrUnexpectedToken  = "unexpected token %s, expected %s"
	ErrIllegalCharacter = "illegal character %q"
	ErrExpectedTerm     = "expected a term, got %s"
	ErrExpectedStmt     = "expected a statement (rw, fun, datatype, prove, split), got %s"
	ErrMissingSeparator = "statements must be separated by a blank line, got %s"
	ErrBadPlaceholder   = "invalid placeholder %q"
)
