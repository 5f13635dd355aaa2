package rewrite

import (
	"fmt"

	"github.com/leapstack-labs/rwspec/pkg/core"
	"github.com/leapstack-labs/rwspec/pkg/lint"
)

func init() {
	lint.Register(UnboundHole)
}

// UnboundHole detects holes on the right of a rewrite that the source never binds.
var UnboundHole = lint.RuleDef{
	ID:          "RW01",
	Name:        "rewrite.unbound_hole",
	Group:       "rewrite",
	Description: "Every hole used by a rewrite must be bound by its source pattern.",
	Severity:    core.SeverityError,
	Kinds:       []core.StatementKind{core.KindRewrite},
	Check:       checkUnboundHole,
	ConfigKeys:  []string{"check_conditions"},

	Rationale:   "A hole that the source does not match has no value when the rewrite fires.",
	BadExample:  "rw r (f ?x) => (g ?x ?y)",
	GoodExample: "rw r (f ?x ?y) => (g ?x ?y)",
	Fix:         "Bind the hole in the source pattern or replace it with a concrete term.",
}

func checkUnboundHole(stmt core.Statement, opts map[string]any) []lint.Diagnostic {
	def, ok := stmt.(*core.RewriteDef)
	if !ok {
		return nil
	}
	rw := def.Rewrite
	checkConditions := lint.GetBoolOption(opts, "check_conditions", true)

	var diags []lint.Diagnostic
	report := func(bound map[string]bool, where string, exprs ...core.Expression) {
		for _, name := range unbound(bound, exprs...) {
			diags = append(diags, lint.Diagnostic{
				Message: fmt.Sprintf("hole ?%s in %s is not bound by the source", name, where),
			})
		}
	}

	srcHoles := holeSet(rw.Source)
	report(srcHoles, "precondition", rw.Precondition)
	report(srcHoles, "destination", rw.Destination)
	if checkConditions {
		for _, c := range rw.Conditions {
			report(srcHoles, "condition", c.Left, c.Right)
		}
	}

	// A bidirectional rewrite also fires from destination to source.
	if rw.Kind == core.BRewrite {
		dstHoles := holeSet(rw.Destination)
		for _, name := range unbound(dstHoles, rw.Source) {
			diags = append(diags, lint.Diagnostic{
				Message: fmt.Sprintf("hole ?%s in source is not bound by the destination of a bidirectional rewrite", name),
			})
		}
	}
	return diags
}

func holeSet(e core.Expression) map[string]bool {
	set := make(map[string]bool)
	if e == nil {
		return set
	}
	for _, h := range e.Holes() {
		set[h.Name] = true
	}
	return set
}

// unbound lists hole names of exprs missing from bound, first occurrence order.
func unbound(bound map[string]bool, exprs ...core.Expression) []string {
	seen := make(map[string]bool)
	var out []string
	for _, e := range exprs {
		if e == nil {
			continue
		}
		for _, h := range e.Holes() {
			if bound[h.Name] || seen[h.Name] {
				continue
			}
			seen[h.Name] = true
			out = append(out, h.Name)
		}
	}
	return out
}
