package parser

import (
	"fmt"

	"github.com/leapstack-labs/rwspec/pkg/core"
	"github.com/leapstack-labs/rwspec/pkg/token"
)

// Statement parsing.
//
//	rewrite   := "rw" IDENT [term "==>"] term ("=>" | "<=>" | "|>") term [conds]
//	function  := "fun" IDENT param* "->" annot ["=" term]
//	datatype  := "datatype" IDENT IDENT* "=" ctor ("|" ctor)*
//	ctor      := IDENT param*
//	param     := "(" IDENT [":" annot] ")"
//	goal      := "prove" [term "==>"] term "=" term
//	casesplit := "split" term "by" term "into" term ("," term)* [conds]
//	conds     := "if" term "=" term ("," term "=" term)*

// parseValidStatement parses one statement and runs the hole-consistency
// check over its scope. On failure an error is recorded and nil returned.
func (p *Parser) parseValidStatement() (core.Statement, token.Span) {
	start := p.token
	stmt := p.parseStatement()
	if p.failed() {
		return nil, token.Span{}
	}
	span := token.Span{Start: start.Pos, End: p.prevEnd()}

	scope := core.StatementTerminals(stmt, core.ScopeOptions{IncludeAnnotations: p.opts.annotationScope})
	if err := core.HolesCorrespond(scope); err != nil {
		p.errors = append(p.errors, &ParseError{Pos: start.Pos, Message: err.Error(), Err: err})
		return nil, token.Span{}
	}
	return stmt, span
}

// parseStatement dispatches on the leading keyword.
func (p *Parser) parseStatement() core.Statement {
	switch p.token.Type {
	case TOKEN_RW:
		return p.parseRewrite()
	case TOKEN_FUN:
		return p.parseFunction()
	case TOKEN_DATATYPE:
		return p.parseDatatype()
	case TOKEN_PROVE:
		return p.parseGoal()
	case TOKEN_SPLIT:
		return p.parseCaseSplit()
	}
	if p.check(TOKEN_ILLEGAL) {
		p.unexpected("a statement")
		return nil
	}
	p.addError(fmt.Sprintf(ErrExpectedStmt, describe(p.token)))
	return nil
}

func (p *Parser) parseName() string {
	if !p.check(TOKEN_IDENT) {
		p.unexpected("a name")
		return ""
	}
	name := p.token.Literal
	p.nextToken()
	return name
}

// parseGuarded parses [term "==>"] term and returns the precondition (nil
// when absent) and the guarded term.
func (p *Parser) parseGuarded() (pre, e core.Expression) {
	e = p.parseTerm()
	if p.failed() {
		return nil, nil
	}
	if p.match(TOKEN_IMPLIES) {
		pre = e
		e = p.parseTerm()
		if p.failed() {
			return nil, nil
		}
	}
	return pre, e
}

func (p *Parser) parseRewrite() core.Statement {
	p.nextToken() // consume rw

	name := p.parseName()
	if p.failed() {
		return nil
	}

	pre, src := p.parseGuarded()
	if p.failed() {
		return nil
	}

	var kind core.RewriteKind
	switch {
	case p.match(TOKEN_ARROW):
		kind = core.DRewrite
	case p.match(TOKEN_BIARROW):
		kind = core.BRewrite
	case p.match(TOKEN_SEARCH):
		kind = core.AddSearcher
	default:
		p.unexpected(`"=>", "<=>" or "|>"`)
		return nil
	}

	dst := p.parseTerm()
	if p.failed() {
		return nil
	}
	conds := p.parseConditions()
	if p.failed() {
		return nil
	}

	return &core.RewriteDef{
		Name: name,
		Rewrite: core.Rewrite{
			Kind:         kind,
			Precondition: pre,
			Source:       src,
			Destination:  dst,
			Conditions:   conds,
		},
	}
}

// parseConditions parses an optional "if" clause.
func (p *Parser) parseConditions() []core.Condition {
	conds := []core.Condition{}
	if !p.match(TOKEN_IF) {
		return conds
	}
	for {
		left := p.parseTerm()
		if p.failed() || !p.expect(TOKEN_EQ) {
			return nil
		}
		right := p.parseTerm()
		if p.failed() {
			return nil
		}
		conds = append(conds, core.Condition{Left: left, Right: right})
		if !p.match(TOKEN_COMMA) {
			return conds
		}
	}
}

func (p *Parser) parseFunction() core.Statement {
	p.nextToken() // consume fun

	name := p.parseName()
	if p.failed() {
		return nil
	}
	params := p.parseParams()
	if p.failed() || !p.expect(TOKEN_RARROW) {
		return nil
	}
	ret := p.parseAnnotation()
	if p.failed() {
		return nil
	}

	fn := &core.Function{Name: name, Params: params, Return: ret}
	if p.match(TOKEN_EQ) {
		fn.Body = p.parseTerm()
		if p.failed() {
			return nil
		}
	}
	return fn
}

// parseParams parses zero or more "(name [: annot])" groups. A missing
// annotation becomes a fresh placeholder.
func (p *Parser) parseParams() []core.Parameter {
	params := []core.Parameter{}
	for p.check(TOKEN_LPAREN) {
		p.nextToken() // consume (
		name := p.parseName()
		if p.failed() {
			return nil
		}
		var annot core.Annotation
		if p.match(TOKEN_COLON) {
			annot = p.parseAnnotation()
			if p.failed() {
				return nil
			}
		} else {
			annot = p.freshPlaceholder()
		}
		if !p.expect(TOKEN_RPAREN) {
			return nil
		}
		params = append(params, core.Parameter{Name: name, Annotation: annot})
	}
	return params
}

func (p *Parser) parseDatatype() core.Statement {
	p.nextToken() // consume datatype

	name := p.parseName()
	if p.failed() {
		return nil
	}
	typeParams := []string{}
	for p.check(TOKEN_IDENT) {
		typeParams = append(typeParams, p.token.Literal)
		p.nextToken()
	}
	if !p.expect(TOKEN_EQ) {
		return nil
	}

	ctors := []core.Constructor{}
	for {
		ctorName := p.parseName()
		if p.failed() {
			return nil
		}
		fields := p.parseParams()
		if p.failed() {
			return nil
		}
		ctors = append(ctors, core.Constructor{Name: ctorName, Fields: fields})
		if !p.match(TOKEN_PIPE) {
			break
		}
	}

	return &core.Datatype{Name: name, TypeParams: typeParams, Constructors: ctors}
}

func (p *Parser) parseGoal() core.Statement {
	p.nextToken() // consume prove

	pre, lhs := p.parseGuarded()
	if p.failed() || !p.expect(TOKEN_EQ) {
		return nil
	}
	rhs := p.parseTerm()
	if p.failed() {
		return nil
	}
	return &core.Goal{Precondition: pre, LHS: lhs, RHS: rhs}
}

func (p *Parser) parseCaseSplit() core.Statement {
	p.nextToken() // consume split

	searcher := p.parseTerm()
	if p.failed() || !p.expect(TOKEN_BY) {
		return nil
	}
	target := p.parseTerm()
	if p.failed() || !p.expect(TOKEN_INTO) {
		return nil
	}

	var replacements []core.Expression
	for {
		r := p.parseTerm()
		if p.failed() {
			return nil
		}
		replacements = append(replacements, r)
		if !p.match(TOKEN_COMMA) {
			break
		}
	}

	conds := p.parseConditions()
	if p.failed() {
		return nil
	}
	return &core.CaseSplit{
		Searcher:     searcher,
		Target:       target,
		Replacements: replacements,
		Conditions:   conds,
	}
}
