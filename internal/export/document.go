// Package export encodes definitions as a tagged tree for downstream
// engines, in JSON or YAML.
package export

import (
	"github.com/leapstack-labs/rwspec/pkg/core"
)

// Version is the document schema version.
const Version = 1

// Document is the exported form of a definition set.
type Document struct {
	Version    int          `json:"version" yaml:"version"`
	Statements []*Statement `json:"statements" yaml:"statements"`
}

// Statement is one exported statement. Exactly one of the variant fields
// is set, matching Kind.
type Statement struct {
	Kind      string     `json:"kind" yaml:"kind"`
	Name      string     `json:"name,omitempty" yaml:"name,omitempty"`
	Rewrite   *Rewrite   `json:"rewrite,omitempty" yaml:"rewrite,omitempty"`
	Function  *Function  `json:"function,omitempty" yaml:"function,omitempty"`
	Datatype  *Datatype  `json:"datatype,omitempty" yaml:"datatype,omitempty"`
	Goal      *Goal      `json:"goal,omitempty" yaml:"goal,omitempty"`
	CaseSplit *CaseSplit `json:"casesplit,omitempty" yaml:"casesplit,omitempty"`
}

// Rewrite is an exported rewrite rule.
type Rewrite struct {
	Kind         string       `json:"kind" yaml:"kind"`
	Precondition *Expr        `json:"precondition,omitempty" yaml:"precondition,omitempty"`
	Source       *Expr        `json:"source" yaml:"source"`
	Destination  *Expr        `json:"destination" yaml:"destination"`
	Conditions   []*Condition `json:"conditions,omitempty" yaml:"conditions,omitempty"`
}

// Function is an exported function declaration.
type Function struct {
	Params []*Param `json:"params,omitempty" yaml:"params,omitempty"`
	Return *Annot   `json:"return" yaml:"return"`
	Body   *Expr    `json:"body,omitempty" yaml:"body,omitempty"`
}

// Datatype is an exported datatype declaration.
type Datatype struct {
	TypeParams   []string       `json:"type_params,omitempty" yaml:"type_params,omitempty"`
	Constructors []*Constructor `json:"constructors" yaml:"constructors"`
}

// Constructor is one datatype alternative.
type Constructor struct {
	Name   string   `json:"name" yaml:"name"`
	Fields []*Param `json:"fields,omitempty" yaml:"fields,omitempty"`
}

// Goal is an exported proof goal.
type Goal struct {
	Precondition *Expr `json:"precondition,omitempty" yaml:"precondition,omitempty"`
	LHS          *Expr `json:"lhs" yaml:"lhs"`
	RHS          *Expr `json:"rhs" yaml:"rhs"`
}

// CaseSplit is an exported case split.
type CaseSplit struct {
	Searcher     *Expr        `json:"searcher" yaml:"searcher"`
	Target       *Expr        `json:"target" yaml:"target"`
	Replacements []*Expr      `json:"replacements" yaml:"replacements"`
	Conditions   []*Condition `json:"conditions,omitempty" yaml:"conditions,omitempty"`
}

// Condition is an exported equality constraint.
type Condition struct {
	Left  *Expr `json:"left" yaml:"left"`
	Right *Expr `json:"right" yaml:"right"`
}

// Param is a named, annotated slot.
type Param struct {
	Name       string `json:"name" yaml:"name"`
	Annotation *Annot `json:"annotation,omitempty" yaml:"annotation,omitempty"`
}

// Expr is an exported term. Kind is "leaf", "op", or "match". Sexp is the
// canonical rendering, kept for readers that do not walk the tree.
type Expr struct {
	Kind      string  `json:"kind" yaml:"kind"`
	Sexp      string  `json:"sexp" yaml:"sexp"`
	Terminal  *Term   `json:"terminal,omitempty" yaml:"terminal,omitempty"`
	Args      []*Expr `json:"args,omitempty" yaml:"args,omitempty"`
	Scrutinee *Expr   `json:"scrutinee,omitempty" yaml:"scrutinee,omitempty"`
	Arms      []*Arm  `json:"arms,omitempty" yaml:"arms,omitempty"`
}

// Term is an exported terminal.
type Term struct {
	Name       string `json:"name" yaml:"name"`
	Hole       bool   `json:"hole,omitempty" yaml:"hole,omitempty"`
	Annotation *Annot `json:"annotation,omitempty" yaml:"annotation,omitempty"`
}

// Arm is one match case.
type Arm struct {
	Pattern *Expr `json:"pattern" yaml:"pattern"`
	Body    *Expr `json:"body" yaml:"body"`
}

// Annot is an exported annotation. Kind is "type", "placeholder", or "multi".
type Annot struct {
	Kind  string   `json:"kind" yaml:"kind"`
	Type  *Expr    `json:"type,omitempty" yaml:"type,omitempty"`
	Index uint     `json:"index,omitempty" yaml:"index,omitempty"`
	Items []*Annot `json:"items,omitempty" yaml:"items,omitempty"`
}

// Build converts definitions into a Document.
func Build(defs core.Definitions) *Document {
	doc := &Document{Version: Version, Statements: make([]*Statement, 0, len(defs))}
	for _, stmt := range defs {
		doc.Statements = append(doc.Statements, statement(stmt))
	}
	return doc
}

func statement(stmt core.Statement) *Statement {
	out := &Statement{Kind: string(stmt.Kind()), Name: stmt.GetName()}
	switch s := stmt.(type) {
	case *core.RewriteDef:
		out.Rewrite = &Rewrite{
			Kind:         s.Rewrite.Kind.String(),
			Precondition: expr(s.Rewrite.Precondition),
			Source:       expr(s.Rewrite.Source),
			Destination:  expr(s.Rewrite.Destination),
			Conditions:   conditions(s.Rewrite.Conditions),
		}
	case *core.Function:
		out.Function = &Function{
			Params: params(s.Params),
			Return: annot(s.Return),
			Body:   expr(s.Body),
		}
	case *core.Datatype:
		dt := &Datatype{TypeParams: s.TypeParams}
		for _, c := range s.Constructors {
			dt.Constructors = append(dt.Constructors, &Constructor{Name: c.Name, Fields: params(c.Fields)})
		}
		out.Datatype = dt
	case *core.Goal:
		out.Goal = &Goal{
			Precondition: expr(s.Precondition),
			LHS:          expr(s.LHS),
			RHS:          expr(s.RHS),
		}
	case *core.CaseSplit:
		cs := &CaseSplit{
			Searcher:   expr(s.Searcher),
			Target:     expr(s.Target),
			Conditions: conditions(s.Conditions),
		}
		for _, r := range s.Replacements {
			cs.Replacements = append(cs.Replacements, expr(r))
		}
		out.CaseSplit = cs
	}
	return out
}

// Expression converts a single term.
func Expression(e core.Expression) *Expr {
	return expr(e)
}

func expr(e core.Expression) *Expr {
	switch e := e.(type) {
	case *core.Leaf:
		return &Expr{Kind: "leaf", Sexp: e.String(), Terminal: term(e.Terminal)}
	case *core.Op:
		out := &Expr{Kind: "op", Sexp: e.String(), Terminal: term(e.Head)}
		for _, a := range e.Args {
			out.Args = append(out.Args, expr(a))
		}
		return out
	case *core.Match:
		out := &Expr{Kind: "match", Sexp: e.String(), Scrutinee: expr(e.Scrutinee)}
		for _, arm := range e.Arms {
			out.Arms = append(out.Arms, &Arm{Pattern: expr(arm.Pattern), Body: expr(arm.Body)})
		}
		return out
	}
	return nil
}

func term(t core.Terminal) *Term {
	return &Term{Name: t.Name, Hole: t.IsHole(), Annotation: annot(t.Annotation)}
}

func annot(a core.Annotation) *Annot {
	switch a := a.(type) {
	case *core.TypeAnnotation:
		return &Annot{Kind: "type", Type: expr(a.Expr)}
	case *core.Placeholder:
		return &Annot{Kind: "placeholder", Index: a.Index}
	case *core.MultiAnnot:
		out := &Annot{Kind: "multi"}
		for _, item := range a.Items {
			out.Items = append(out.Items, annot(item))
		}
		return out
	}
	return nil
}

func params(ps []core.Parameter) []*Param {
	var out []*Param
	for _, p := range ps {
		out = append(out, &Param{Name: p.Name, Annotation: annot(p.Annotation)})
	}
	return out
}

func conditions(cs []core.Condition) []*Condition {
	var out []*Condition
	for _, c := range cs {
		out = append(out, &Condition{Left: expr(c.Left), Right: expr(c.Right)})
	}
	return out
}
