package parser

import "github.com/leapstack-labs/rwspec/pkg/token"

// Lexer tokenizes rewrite-specification source.
type Lexer struct {
	input   string
	pos     int  // current position in input
	readPos int  // reading position (after current char)
	ch      byte // current char under examination
	line    int  // current line number (1-based)
	col     int  // current column number (1-based)

	emitted bool // a non-separator token has been produced

	// Comments collected during lexing (for formatter)
	Comments []*token.Comment
}

// NewLexer creates a new Lexer for the given input.
func NewLexer(input string) *Lexer {
	l := &Lexer{
		input: input,
		line:  1,
		col:   0,
	}
	l.readChar()
	return l
}

// readChar advances to the next character.
func (l *Lexer) readChar() {
	if l.ch == '\n' {
		l.line++
		l.col = 0
	}
	if l.readPos >= len(l.input) {
		l.ch = 0 // ASCII NUL = EOF
	} else {
		l.ch = l.input[l.readPos]
	}
	l.pos = l.readPos
	l.readPos++
	l.col++
}

// peekChar returns the next character without advancing.
func (l *Lexer) peekChar() byte {
	return l.peekCharAt(0)
}

// peekCharAt returns the character n positions after the next one.
func (l *Lexer) peekCharAt(n int) byte {
	if l.readPos+n >= len(l.input) {
		return 0
	}
	return l.input[l.readPos+n]
}

// currentPos returns the current position.
func (l *Lexer) currentPos() Position {
	return Position{
		Line:   l.line,
		Column: l.col,
		Offset: l.pos,
	}
}

// NextToken returns the next token.
func (l *Lexer) NextToken() Token {
	blank := l.skipWhitespaceAndComments()

	pos := l.currentPos()

	// Blank lines separate statements; leading and trailing runs are dropped.
	if blank && l.emitted && l.ch != 0 {
		l.emitted = false
		return Token{Type: TOKEN_SEP, Literal: "", Pos: pos}
	}

	var tok Token
	tok.Pos = pos

	switch l.ch {
	case 0:
		tok.Type = TOKEN_EOF
		tok.Literal = ""
		return tok
	case '(':
		tok = l.newToken(TOKEN_LPAREN, "(")
	case ')':
		tok = l.newToken(TOKEN_RPAREN, ")")
	case ',':
		tok = l.newToken(TOKEN_COMMA, ",")
	case ':':
		if l.peekChar() == ':' {
			l.readChar()
			tok = Token{Type: TOKEN_DCOLON, Literal: "::", Pos: pos}
		} else {
			tok = l.newToken(TOKEN_COLON, ":")
		}
	case '=':
		switch {
		case l.peekChar() == '>':
			l.readChar()
			tok = Token{Type: TOKEN_ARROW, Literal: "=>", Pos: pos}
		case l.peekChar() == '=' && l.peekCharAt(1) == '>':
			l.readChar()
			l.readChar()
			tok = Token{Type: TOKEN_IMPLIES, Literal: "==>", Pos: pos}
		default:
			tok = l.newToken(TOKEN_EQ, "=")
		}
	case '<':
		if l.peekChar() == '=' && l.peekCharAt(1) == '>' {
			l.readChar()
			l.readChar()
			tok = Token{Type: TOKEN_BIARROW, Literal: "<=>", Pos: pos}
		} else {
			tok = l.newToken(TOKEN_ILLEGAL, "<")
		}
	case '|':
		if l.peekChar() == '>' {
			l.readChar()
			tok = Token{Type: TOKEN_SEARCH, Literal: "|>", Pos: pos}
		} else {
			tok = l.newToken(TOKEN_PIPE, "|")
		}
	case '-':
		if l.peekChar() == '>' {
			l.readChar()
			tok = Token{Type: TOKEN_RARROW, Literal: "->", Pos: pos}
		} else {
			tok = l.newToken(TOKEN_ILLEGAL, "-")
		}
	case '?':
		if isIdentStart(l.peekChar()) {
			l.readChar() // skip '?'
			tok = Token{Type: TOKEN_HOLE, Literal: l.readIdentifier(), Pos: pos}
			l.emitted = true
			return tok
		}
		tok = l.newToken(TOKEN_ILLEGAL, "?")
	default:
		if isIdentStart(l.ch) {
			tok.Literal = l.readIdentifier()
			tok.Type = LookupIdent(tok.Literal)
			tok.Pos = pos
			l.emitted = true
			return tok
		}
		tok = l.newToken(TOKEN_ILLEGAL, string(l.ch))
	}

	l.readChar()
	l.emitted = true
	return tok
}

// newToken creates a new token.
func (l *Lexer) newToken(tokenType TokenType, literal string) Token {
	return Token{Type: tokenType, Literal: literal, Pos: l.currentPos()}
}

// skipWhitespaceAndComments skips whitespace and collects comments. It
// reports whether a blank line was crossed. A comment line is not blank.
func (l *Lexer) skipWhitespaceAndComments() bool {
	blank := false
	newlines := 0
	for {
		for l.ch == ' ' || l.ch == '\t' || l.ch == '\n' || l.ch == '\r' {
			if l.ch == '\n' {
				newlines++
				if newlines >= 2 {
					blank = true
				}
			}
			l.readChar()
		}

		// Collect line comment (-- ...)
		if l.ch == '-' && l.peekChar() == '-' {
			l.collectLineComment()
			newlines = 0
			continue
		}

		return blank
	}
}

// collectLineComment collects a line comment.
func (l *Lexer) collectLineComment() {
	startPos := l.currentPos()
	startOffset := l.pos

	// Consume until end of line
	for l.ch != '\n' && l.ch != 0 {
		l.readChar()
	}

	l.Comments = append(l.Comments, &token.Comment{
		Kind: token.LineComment,
		Text: l.input[startOffset:l.pos],
		Span: token.Span{Start: startPos, End: l.currentPos()},
	})
}

// readIdentifier reads an identifier: a letter, digit, or underscore,
// followed by those and primes or dots.
func (l *Lexer) readIdentifier() string {
	start := l.pos
	for isIdentStart(l.ch) || l.ch == '\'' || l.ch == '.' {
		l.readChar()
	}
	return l.input[start:l.pos]
}

func isIdentStart(ch byte) bool {
	return isLetter(ch) || isDigit(ch) || ch == '_'
}

func isLetter(ch byte) bool {
	return ('a' <= ch && ch <= 'z') || ('A' <= ch && ch <= 'Z')
}

func isDigit(ch byte) bool {
	return '0' <= ch && ch <= '9'
}

// Tokenize returns every token of input up to and including EOF.
func Tokenize(input string) []Token {
	l := NewLexer(input)
	var tokens []Token
	for {
		tok := l.NextToken()
		tokens = append(tokens, tok)
		if tok.Type == TOKEN_EOF {
			break
		}
	}
	return tokens
}
