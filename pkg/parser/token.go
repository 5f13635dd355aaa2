package parser

import "github.com/leapstack-labs/rwspec/pkg/token"

// TokenType is an alias for token.TokenType.
type TokenType = token.TokenType

// Token is an alias for token.Token.
type Token = token.Token

// Position is an alias for token.Position.
type Position = token.Position

// LookupIdent is re-exported from token package.
var LookupIdent = token.LookupIdent

//nolint:revive // TOKEN_* names are intentionally ALL_CAPS
const (
	// Special tokens
	TOKEN_EOF     = token.EOF
	TOKEN_ILLEGAL = token.ILLEGAL
	TOKEN_SEP     = token.SEP

	// Literals
	TOKEN_IDENT = token.IDENT
	TOKEN_HOLE  = token.HOLE

	// Punctuation
	TOKEN_LPAREN  = token.LPAREN
	TOKEN_RPAREN  = token.RPAREN
	TOKEN_COMMA   = token.COMMA
	TOKEN_COLON   = token.COLON
	TOKEN_DCOLON  = token.DCOLON
	TOKEN_EQ      = token.EQ
	TOKEN_ARROW   = token.ARROW
	TOKEN_BIARROW = token.BIARROW
	TOKEN_SEARCH  = token.SEARCH
	TOKEN_IMPLIES = token.IMPLIES
	TOKEN_RARROW  = token.RARROW
	TOKEN_PIPE    = token.PIPE

	// Keywords
	TOKEN_RW       = token.RW
	TOKEN_FUN      = token.FUN
	TOKEN_DATATYPE = token.DATATYPE
	TOKEN_PROVE    = token.PROVE
	TOKEN_SPLIT    = token.SPLIT
	TOKEN_BY       = token.BY
	TOKEN_INTO     = token.INTO
	TOKEN_IF       = token.IF
	TOKEN_MATCH    = token.MATCH
)
