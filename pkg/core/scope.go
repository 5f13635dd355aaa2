package core

// ScopeOptions controls which terminals form a statement's validation scope.
type ScopeOptions struct {
	// IncludeAnnotations appends the terminals of type annotations after the
	// terminal that carries them, and adds parameter and return annotations.
	IncludeAnnotations bool
}

// StatementTerminals builds the validation scope of stmt.
//
// Order per statement kind:
//   - rewrite: precondition, source, destination, then each condition's left and right
//   - function: Id(name), Id(param) for each parameter, then the body
//   - datatype: Id(name), Id(type param)s, then Id(ctor) and Id(field)s per constructor
//   - goal: precondition, lhs, rhs
//   - case split: searcher, target, replacements, conditions
//
// Terminals of expressions point into stmt. Synthesized Id terminals are fresh.
func StatementTerminals(stmt Statement, opts ScopeOptions) []*Terminal {
	b := &scopeBuilder{opts: opts}

	switch s := stmt.(type) {
	case *RewriteDef:
		b.expr(s.Rewrite.Precondition)
		b.expr(s.Rewrite.Source)
		b.expr(s.Rewrite.Destination)
		b.conditions(s.Rewrite.Conditions)
	case *Function:
		b.id(s.Name)
		for _, p := range s.Params {
			b.id(p.Name)
		}
		b.expr(s.Body)
		if opts.IncludeAnnotations {
			for _, p := range s.Params {
				b.annotation(p.Annotation)
			}
			b.annotation(s.Return)
		}
	case *Datatype:
		b.id(s.Name)
		for _, tp := range s.TypeParams {
			b.id(tp)
		}
		for _, c := range s.Constructors {
			b.id(c.Name)
			for _, f := range c.Fields {
				b.id(f.Name)
			}
		}
		if opts.IncludeAnnotations {
			for _, c := range s.Constructors {
				for _, f := range c.Fields {
					b.annotation(f.Annotation)
				}
			}
		}
	case *Goal:
		b.expr(s.Precondition)
		b.expr(s.LHS)
		b.expr(s.RHS)
	case *CaseSplit:
		b.expr(s.Searcher)
		b.expr(s.Target)
		for _, r := range s.Replacements {
			b.expr(r)
		}
		b.conditions(s.Conditions)
	}

	return b.out
}

// AnnotationTerminals returns the terminals of every type expression inside
// a, depth first, including annotations nested on those terminals.
// Placeholders contribute nothing.
func AnnotationTerminals(a Annotation) []*Terminal {
	b := &scopeBuilder{opts: ScopeOptions{IncludeAnnotations: true}}
	b.annotation(a)
	return b.out
}

type scopeBuilder struct {
	opts ScopeOptions
	out  []*Terminal
}

func (b *scopeBuilder) id(name string) {
	t := ID(name)
	b.out = append(b.out, &t)
}

func (b *scopeBuilder) expr(e Expression) {
	if e == nil {
		return
	}
	for _, t := range e.Terminals() {
		b.out = append(b.out, t)
		if b.opts.IncludeAnnotations {
			b.annotation(t.Annotation)
		}
	}
}

func (b *scopeBuilder) conditions(conds []Condition) {
	for _, c := range conds {
		b.expr(c.Left)
		b.expr(c.Right)
	}
}

func (b *scopeBuilder) annotation(a Annotation) {
	switch a := a.(type) {
	case *TypeAnnotation:
		b.expr(a.Expr)
	case *MultiAnnot:
		for _, item := range a.Items {
			b.annotation(item)
		}
	}
}
