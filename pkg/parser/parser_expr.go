package parser

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/leapstack-labs/rwspec/pkg/core"
	"github.com/leapstack-labs/rwspec/pkg/token"
)

// Term parsing.
//
//	term       := terminal
//	           | "(" "match" term arm* ")"
//	           | "(" terminal term* ")"
//	arm        := "(" "=>" term term ")"
//	terminal   := (IDENT | HOLE | keyword) ("::" annotAtom)*
//	annot      := annotAtom ("::" annotAtom)*
//	annotAtom  := "_" | "_N" | term
//
// Inside an annotation atom, terminals take no "::" suffix of their own, so
// x::nat::_1 annotates x with both nat and _1.
//
// A keyword other than match is read as an Id inside parentheses, and as
// the whole input of ParseExpression. Elsewhere keywords delimit statements.

// parseTerm parses a term with annotation suffixes allowed.
func (p *Parser) parseTerm() core.Expression {
	return p.parseTermIn(true)
}

func (p *Parser) parseTermIn(annotated bool) core.Expression {
	switch {
	case p.check(TOKEN_IDENT), p.check(TOKEN_HOLE), p.keywordAsID():
		t, ok := p.parseTerminal(annotated)
		if !ok {
			return nil
		}
		return core.NewLeaf(t)

	case p.check(TOKEN_LPAREN):
		p.nextToken() // consume (
		p.depth++
		defer func() { p.depth-- }()
		if p.check(TOKEN_MATCH) {
			return p.parseMatch(annotated)
		}
		head, ok := p.parseTerminal(annotated)
		if !ok {
			return nil
		}
		args := []core.Expression{}
		for !p.check(TOKEN_RPAREN) {
			arg := p.parseTermIn(annotated)
			if p.failed() {
				return nil
			}
			args = append(args, arg)
		}
		p.nextToken() // consume )
		return core.NewOp(head, args...)
	}

	p.unexpected("a term")
	return nil
}

// parseMatch parses the remainder of "(match scrutinee arm*)".
func (p *Parser) parseMatch(annotated bool) core.Expression {
	p.nextToken() // consume match

	scrutinee := p.parseTermIn(annotated)
	if p.failed() {
		return nil
	}

	arms := []core.Arm{}
	for !p.check(TOKEN_RPAREN) {
		if !p.expect(TOKEN_LPAREN) || !p.expect(TOKEN_ARROW) {
			return nil
		}
		pattern := p.parseTermIn(annotated)
		if p.failed() {
			return nil
		}
		body := p.parseTermIn(annotated)
		if p.failed() || !p.expect(TOKEN_RPAREN) {
			return nil
		}
		arms = append(arms, core.Arm{Pattern: pattern, Body: body})
	}
	p.nextToken() // consume )
	return core.NewMatch(scrutinee, arms...)
}

// parseTerminal parses an identifier or hole with optional "::" annotations.
func (p *Parser) parseTerminal(annotated bool) (core.Terminal, bool) {
	var t core.Terminal
	switch {
	case p.check(TOKEN_IDENT):
		t = core.ID(p.token.Literal)
	case p.check(TOKEN_HOLE):
		t = core.Hole(p.token.Literal)
	case p.keywordAsID():
		t = core.ID(p.token.Literal)
	default:
		p.unexpected("an identifier or hole")
		return t, false
	}
	p.nextToken()

	if !annotated || !p.check(TOKEN_DCOLON) {
		return t, true
	}

	a := p.parseAnnotationChain()
	if p.failed() {
		return t, false
	}
	t.Annotation = a
	return t, true
}

// keywordAsID reports whether the current keyword token is read as an Id.
func (p *Parser) keywordAsID() bool {
	if !token.IsKeyword(p.token.Type) || p.check(TOKEN_MATCH) {
		return false
	}
	return p.depth > 0 || p.wholeTerm
}

// parseAnnotationChain parses ("::" annotAtom)+ with the current token on
// the first "::".
func (p *Parser) parseAnnotationChain() core.Annotation {
	var items []core.Annotation
	for p.match(TOKEN_DCOLON) {
		a := p.parseAnnotationAtom()
		if p.failed() {
			return nil
		}
		items = append(items, a)
	}
	return collapse(items)
}

// parseAnnotation parses annot := annotAtom ("::" annotAtom)*.
func (p *Parser) parseAnnotation() core.Annotation {
	first := p.parseAnnotationAtom()
	if p.failed() {
		return nil
	}
	items := []core.Annotation{first}
	for p.match(TOKEN_DCOLON) {
		a := p.parseAnnotationAtom()
		if p.failed() {
			return nil
		}
		items = append(items, a)
	}
	return collapse(items)
}

func collapse(items []core.Annotation) core.Annotation {
	if len(items) == 1 {
		return items[0]
	}
	return core.Multi(items...)
}

// parseAnnotationAtom parses "_", "_N", or a type term.
func (p *Parser) parseAnnotationAtom() core.Annotation {
	if p.check(TOKEN_IDENT) && strings.HasPrefix(p.token.Literal, "_") {
		if ph, ok := p.placeholder(p.token.Literal); ok {
			p.nextToken()
			return ph
		}
	}
	e := p.parseTermIn(false)
	if p.failed() {
		return nil
	}
	return core.Type(e)
}

// placeholder interprets "_" as a fresh placeholder and "_N" as index N.
// Other identifiers starting with an underscore are ordinary type names.
func (p *Parser) placeholder(lit string) (*core.Placeholder, bool) {
	if lit == "_" {
		return p.freshPlaceholder(), true
	}
	digits := lit[1:]
	for i := 0; i < len(digits); i++ {
		if !isDigit(digits[i]) {
			return nil, false
		}
	}
	n, err := strconv.ParseUint(digits, 10, 32)
	if err != nil {
		p.addError(fmt.Sprintf(ErrBadPlaceholder, lit))
		return nil, false
	}
	idx := uint(n)
	if idx >= p.nextPlaceholder {
		p.nextPlaceholder = idx + 1
	}
	return core.PH(idx), true
}

// freshPlaceholder returns a placeholder above every index seen so far.
func (p *Parser) freshPlaceholder() *core.Placeholder {
	ph := core.PH(p.nextPlaceholder)
	p.nextPlaceholder++
	return ph
}
