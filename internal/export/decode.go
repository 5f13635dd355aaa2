package export

import (
	"fmt"

	"github.com/leapstack-labs/rwspec/pkg/core"
)

// Definitions converts the document back into core statements. Hole
// consistency is not re-checked.
func (d *Document) Definitions() (core.Definitions, error) {
	if d.Version != Version {
		return nil, fmt.Errorf("unsupported document version %d", d.Version)
	}
	defs := make(core.Definitions, 0, len(d.Statements))
	for i, s := range d.Statements {
		stmt, err := s.decode()
		if err != nil {
			return nil, fmt.Errorf("statement %d: %w", i, err)
		}
		defs = append(defs, stmt)
	}
	return defs, nil
}

var rewriteKinds = map[string]core.RewriteKind{
	core.DRewrite.String():    core.DRewrite,
	core.BRewrite.String():    core.BRewrite,
	core.AddSearcher.String(): core.AddSearcher,
}

func (s *Statement) decode() (core.Statement, error) {
	switch core.StatementKind(s.Kind) {
	case core.KindRewrite:
		if s.Rewrite == nil {
			return nil, fmt.Errorf("rewrite %q has no body", s.Name)
		}
		kind, ok := rewriteKinds[s.Rewrite.Kind]
		if !ok {
			return nil, fmt.Errorf("unknown rewrite kind %q", s.Rewrite.Kind)
		}
		rw := core.Rewrite{Kind: kind}
		var err error
		if rw.Precondition, err = s.Rewrite.Precondition.optional(); err != nil {
			return nil, err
		}
		if rw.Source, err = s.Rewrite.Source.decode(); err != nil {
			return nil, fmt.Errorf("source: %w", err)
		}
		if rw.Destination, err = s.Rewrite.Destination.decode(); err != nil {
			return nil, fmt.Errorf("destination: %w", err)
		}
		if rw.Conditions, err = decodeConditions(s.Rewrite.Conditions); err != nil {
			return nil, err
		}
		return &core.RewriteDef{Name: s.Name, Rewrite: rw}, nil

	case core.KindFunction:
		if s.Function == nil {
			return nil, fmt.Errorf("function %q has no signature", s.Name)
		}
		fn := &core.Function{Name: s.Name}
		var err error
		if fn.Params, err = decodeParams(s.Function.Params); err != nil {
			return nil, err
		}
		if fn.Return, err = s.Function.Return.decode(); err != nil {
			return nil, fmt.Errorf("return: %w", err)
		}
		if fn.Body, err = s.Function.Body.optional(); err != nil {
			return nil, err
		}
		return fn, nil

	case core.KindDatatype:
		if s.Datatype == nil {
			return nil, fmt.Errorf("datatype %q has no constructors", s.Name)
		}
		dt := &core.Datatype{Name: s.Name, TypeParams: s.Datatype.TypeParams}
		for _, c := range s.Datatype.Constructors {
			fields, err := decodeParams(c.Fields)
			if err != nil {
				return nil, fmt.Errorf("constructor %s: %w", c.Name, err)
			}
			dt.Constructors = append(dt.Constructors, core.Constructor{Name: c.Name, Fields: fields})
		}
		return dt, nil

	case core.KindGoal:
		if s.Goal == nil {
			return nil, fmt.Errorf("goal has no sides")
		}
		g := &core.Goal{}
		var err error
		if g.Precondition, err = s.Goal.Precondition.optional(); err != nil {
			return nil, err
		}
		if g.LHS, err = s.Goal.LHS.decode(); err != nil {
			return nil, fmt.Errorf("lhs: %w", err)
		}
		if g.RHS, err = s.Goal.RHS.decode(); err != nil {
			return nil, fmt.Errorf("rhs: %w", err)
		}
		return g, nil

	case core.KindCaseSplit:
		if s.CaseSplit == nil {
			return nil, fmt.Errorf("case split has no body")
		}
		cs := &core.CaseSplit{}
		var err error
		if cs.Searcher, err = s.CaseSplit.Searcher.decode(); err != nil {
			return nil, fmt.Errorf("searcher: %w", err)
		}
		if cs.Target, err = s.CaseSplit.Target.decode(); err != nil {
			return nil, fmt.Errorf("target: %w", err)
		}
		for _, r := range s.CaseSplit.Replacements {
			e, err := r.decode()
			if err != nil {
				return nil, fmt.Errorf("replacement: %w", err)
			}
			cs.Replacements = append(cs.Replacements, e)
		}
		if cs.Conditions, err = decodeConditions(s.CaseSplit.Conditions); err != nil {
			return nil, err
		}
		return cs, nil
	}
	return nil, fmt.Errorf("unknown statement kind %q", s.Kind)
}

// optional decodes a term that may be absent.
func (e *Expr) optional() (core.Expression, error) {
	if e == nil {
		return nil, nil
	}
	return e.decode()
}

func (e *Expr) decode() (core.Expression, error) {
	if e == nil {
		return nil, fmt.Errorf("missing term")
	}
	switch e.Kind {
	case "leaf":
		t, err := e.Terminal.decode()
		if err != nil {
			return nil, err
		}
		return core.NewLeaf(t), nil
	case "op":
		head, err := e.Terminal.decode()
		if err != nil {
			return nil, err
		}
		args := make([]core.Expression, 0, len(e.Args))
		for _, a := range e.Args {
			arg, err := a.decode()
			if err != nil {
				return nil, err
			}
			args = append(args, arg)
		}
		return core.NewOp(head, args...), nil
	case "match":
		scrutinee, err := e.Scrutinee.decode()
		if err != nil {
			return nil, fmt.Errorf("scrutinee: %w", err)
		}
		arms := make([]core.Arm, 0, len(e.Arms))
		for _, a := range e.Arms {
			if a == nil {
				return nil, fmt.Errorf("missing match arm")
			}
			pat, err := a.Pattern.decode()
			if err != nil {
				return nil, err
			}
			body, err := a.Body.decode()
			if err != nil {
				return nil, err
			}
			arms = append(arms, core.Arm{Pattern: pat, Body: body})
		}
		return core.NewMatch(scrutinee, arms...), nil
	}
	return nil, fmt.Errorf("unknown term kind %q", e.Kind)
}

func (t *Term) decode() (core.Terminal, error) {
	if t == nil || t.Name == "" {
		return core.Terminal{}, fmt.Errorf("missing terminal")
	}
	out := core.ID(t.Name)
	if t.Hole {
		out = core.Hole(t.Name)
	}
	if t.Annotation != nil {
		a, err := t.Annotation.decode()
		if err != nil {
			return core.Terminal{}, err
		}
		out.Annotation = a
	}
	return out, nil
}

func (a *Annot) decode() (core.Annotation, error) {
	if a == nil {
		return nil, nil
	}
	switch a.Kind {
	case "type":
		e, err := a.Type.decode()
		if err != nil {
			return nil, fmt.Errorf("type annotation: %w", err)
		}
		return core.Type(e), nil
	case "placeholder":
		return core.PH(a.Index), nil
	case "multi":
		items := make([]core.Annotation, 0, len(a.Items))
		for _, item := range a.Items {
			d, err := item.decode()
			if err != nil {
				return nil, err
			}
			if d == nil {
				return nil, fmt.Errorf("empty multi annotation item")
			}
			items = append(items, d)
		}
		return core.Multi(items...), nil
	}
	return nil, fmt.Errorf("unknown annotation kind %q", a.Kind)
}

func decodeParams(ps []*Param) ([]core.Parameter, error) {
	var out []core.Parameter
	for _, p := range ps {
		a, err := p.Annotation.decode()
		if err != nil {
			return nil, fmt.Errorf("param %s: %w", p.Name, err)
		}
		out = append(out, core.Parameter{Name: p.Name, Annotation: a})
	}
	return out, nil
}

func decodeConditions(cs []*Condition) ([]core.Condition, error) {
	out := []core.Condition{}
	for _, c := range cs {
		l, err := c.Left.decode()
		if err != nil {
			return nil, fmt.Errorf("condition: %w", err)
		}
		r, err := c.Right.decode()
		if err != nil {
			return nil, fmt.Errorf("condition: %w", err)
		}
		out = append(out, core.Condition{Left: l, Right: r})
	}
	return out, nil
}
