// Package inspect reports the structure of a single term: its canonical
// form, root, children, terminals, and holes.
package inspect

import (
	"github.com/leapstack-labs/rwspec/pkg/core"
	"github.com/leapstack-labs/rwspec/pkg/format"
	"github.com/leapstack-labs/rwspec/pkg/parser"
)

// Report describes a term.
type Report struct {
	Sexp      string     `json:"sexp"`
	Key       string     `json:"key"`
	Source    string     `json:"source"`
	Root      Terminal   `json:"root"`
	Children  []string   `json:"children"`
	Terminals []Terminal `json:"terminals"`
	Holes     []string   `json:"holes"`
	Nodes     int        `json:"nodes"`
	Conflict  string     `json:"conflict,omitempty"`
}

// Terminal is one row of Report.Terminals.
type Terminal struct {
	Name       string `json:"name"`
	Role       string `json:"role"`
	Annotation string `json:"annotation,omitempty"`
}

// Term parses src as a single term and reports on it.
func Term(src string) (*Report, error) {
	e, err := parser.ParseExpression(src)
	if err != nil {
		return nil, err
	}
	return Expression(e), nil
}

// Expression reports on e. Conflict holds the hole-consistency error for
// the term's own terminals, if any.
func Expression(e core.Expression) *Report {
	r := &Report{
		Sexp:     e.String(),
		Key:      core.CanonicalKey(e),
		Source:   format.Expression(e),
		Root:     terminal(e.Root()),
		Children: []string{},
		Holes:    []string{},
		Nodes:    core.NodeCount(e),
	}
	for _, c := range e.Children() {
		r.Children = append(r.Children, c.String())
	}
	terms := e.Terminals()
	for _, t := range terms {
		r.Terminals = append(r.Terminals, terminal(*t))
	}
	seen := make(map[string]bool)
	for _, h := range e.Holes() {
		if !seen[h.Name] {
			seen[h.Name] = true
			r.Holes = append(r.Holes, h.Name)
		}
	}
	if err := core.HolesCorrespond(terms); err != nil {
		r.Conflict = err.Error()
	}
	return r
}

func terminal(t core.Terminal) Terminal {
	out := Terminal{Name: t.Name, Role: t.Role.String()}
	if t.Annotation != nil {
		out.Annotation = t.Annotation.String()
	}
	return out
}
