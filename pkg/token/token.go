// Package token defines the token types for rewrite-specification parsing.
package token

import "fmt"

// TokenType represents the type of a lexical token.
//
//nolint:revive // Accept stutter as token.TokenType is clear and widely used
type TokenType int32

const (
	// Special tokens
	EOF TokenType = iota
	ILLEGAL
	SEP // one or more blank lines between statements

	// Literals
	IDENT // append, nil, x'
	HOLE  // ?x

	// Punctuation
	LPAREN  // (
	RPAREN  // )
	COMMA   // ,
	COLON   // :
	DCOLON  // ::
	EQ      // =
	ARROW   // =>
	BIARROW // <=>
	SEARCH  // |>
	IMPLIES // ==>
	RARROW  // ->
	PIPE    // |

	// Keywords
	RW
	FUN
	DATATYPE
	PROVE
	SPLIT
	BY
	INTO
	IF
	MATCH
)

// String returns a human-readable representation of the token type.
func (t TokenType) String() string {
	if name, ok := tokenNames[t]; ok {
		return name
	}
	return fmt.Sprintf("TOKEN(%d)", t)
}

// tokenNames maps token types to their string representations.
var tokenNames = map[TokenType]string{
	EOF:     "EOF",
	ILLEGAL: "ILLEGAL",
	SEP:     "blank line",

	IDENT: "IDENT",
	HOLE:  "HOLE",

	LPAREN:  "(",
	RPAREN:  ")",
	COMMA:   ",",
	COLON:   ":",
	DCOLON:  "::",
	EQ:      "=",
	ARROW:   "=>",
	BIARROW: "<=>",
	SEARCH:  "|>",
	IMPLIES: "==>",
	RARROW:  "->",
	PIPE:    "|",

	RW:       "rw",
	FUN:      "fun",
	DATATYPE: "datatype",
	PROVE:    "prove",
	SPLIT:    "split",
	BY:       "by",
	INTO:     "into",
	IF:       "if",
	MATCH:    "match",
}

// keywords maps keyword strings to their token types. Keywords are case-sensitive.
var keywords = map[string]TokenType{
	"rw":       RW,
	"fun":      FUN,
	"datatype": DATATYPE,
	"prove":    PROVE,
	"split":    SPLIT,
	"by":       BY,
	"into":     INTO,
	"if":       IF,
	"match":    MATCH,
}

// LookupIdent returns the token type for the given identifier.
// If the identifier is a keyword, the keyword token type is returned.
// Otherwise, IDENT is returned.
func LookupIdent(ident string) TokenType {
	if tok, ok := keywords[ident]; ok {
		return tok
	}
	return IDENT
}

// IsKeyword returns true if the token type is a keyword.
func IsKeyword(t TokenType) bool {
	return t >= RW && t <= MATCH
}

// IsStatementStart returns true if the token type begins a statement.
func IsStatementStart(t TokenType) bool {
	switch t {
	case RW, FUN, DATATYPE, PROVE, SPLIT:
		return true
	}
	return false
}

// Keywords returns all reserved words in declaration order.
func Keywords() []string {
	out := make([]string, 0, len(keywords))
	for t := RW; t <= MATCH; t++ {
		out = append(out, tokenNames[t])
	}
	return out
}

// Token represents a lexical token with position information.
type Token struct {
	Type    TokenType
	Literal string
	Pos     Position
}
