package format

import (
	"strings"

	"github.com/leapstack-labs/rwspec/pkg/core"
	"github.com/leapstack-labs/rwspec/pkg/token"
)

// datatypes with more constructors than this put one per line
const inlineConstructors = 2

func (p *Printer) formatStatement(stmt core.Statement) {
	switch s := stmt.(type) {
	case *core.RewriteDef:
		p.formatRewrite(s)
	case *core.Function:
		p.formatFunction(s)
	case *core.Datatype:
		p.formatDatatype(s)
	case *core.Goal:
		p.formatGoal(s)
	case *core.CaseSplit:
		p.formatCaseSplit(s)
	}
}

func (p *Printer) expr(e core.Expression) {
	p.write(Expression(e))
}

func (p *Printer) formatRewrite(s *core.RewriteDef) {
	p.kw(token.RW)
	p.space()
	p.write(s.Name)
	p.space()
	if s.Rewrite.Precondition != nil {
		p.expr(s.Rewrite.Precondition)
		p.space()
		p.kw(token.IMPLIES)
		p.space()
	}
	p.expr(s.Rewrite.Source)
	p.space()
	p.write(s.Rewrite.Kind.Operator())
	p.space()
	p.expr(s.Rewrite.Destination)
	p.formatConditions(s.Rewrite.Conditions)
}

func (p *Printer) formatConditions(conds []core.Condition) {
	if len(conds) == 0 {
		return
	}
	p.writeln()
	p.indent()
	p.kw(token.IF)
	p.space()
	p.formatList(len(conds), func(i int) {
		p.expr(conds[i].Left)
		p.write(" = ")
		p.expr(conds[i].Right)
	}, ", ", false)
	p.dedent()
}

func (p *Printer) formatParams(params []core.Parameter) {
	for _, param := range params {
		p.space()
		p.write("(" + param.Name)
		if param.Annotation != nil {
			p.write(" : " + Annotation(param.Annotation))
		}
		p.write(")")
	}
}

func (p *Printer) formatFunction(s *core.Function) {
	p.kw(token.FUN)
	p.space()
	p.write(s.Name)
	p.formatParams(s.Params)
	p.space()
	p.kw(token.RARROW)
	p.space()
	if s.Return != nil {
		p.write(Annotation(s.Return))
	} else {
		p.write("_")
	}
	if s.Body != nil {
		p.space()
		p.kw(token.EQ)
		p.space()
		p.expr(s.Body)
	}
}

func (p *Printer) formatDatatype(s *core.Datatype) {
	p.kw(token.DATATYPE)
	p.space()
	p.write(s.Name)
	if len(s.TypeParams) > 0 {
		p.write(" " + strings.Join(s.TypeParams, " "))
	}

	ctor := func(i int) {
		p.write(s.Constructors[i].Name)
		p.formatParams(s.Constructors[i].Fields)
	}

	if len(s.Constructors) <= inlineConstructors {
		p.write(" = ")
		p.formatList(len(s.Constructors), ctor, " | ", false)
		return
	}

	p.indent()
	for i := range s.Constructors {
		p.writeln()
		if i == 0 {
			p.write("= ")
		} else {
			p.write("| ")
		}
		ctor(i)
	}
	p.dedent()
}

func (p *Printer) formatGoal(s *core.Goal) {
	p.kw(token.PROVE)
	p.space()
	if s.Precondition != nil {
		p.expr(s.Precondition)
		p.space()
		p.kw(token.IMPLIES)
		p.space()
	}
	p.expr(s.LHS)
	p.write(" = ")
	p.expr(s.RHS)
}

func (p *Printer) formatCaseSplit(s *core.CaseSplit) {
	p.kw(token.SPLIT)
	p.space()
	p.expr(s.Searcher)
	p.space()
	p.kw(token.BY)
	p.space()
	p.expr(s.Target)
	p.space()
	p.kw(token.INTO)
	p.space()
	p.formatList(len(s.Replacements), func(i int) {
		p.expr(s.Replacements[i])
	}, ", ", false)
	p.formatConditions(s.Conditions)
}
