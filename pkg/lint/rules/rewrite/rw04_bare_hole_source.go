package rewrite

import (
	"github.com/leapstack-labs/rwspec/pkg/core"
	"github.com/leapstack-labs/rwspec/pkg/lint"
)

func init() {
	lint.Register(BareHoleSource)
}

// BareHoleSource detects rewrites whose pattern is a single hole.
var BareHoleSource = lint.RuleDef{
	ID:          "RW04",
	Name:        "rewrite.bare_hole_source",
	Group:       "rewrite",
	Description: "A source pattern that is a lone hole matches every term.",
	Severity:    core.SeverityWarning,
	Kinds:       []core.StatementKind{core.KindRewrite},
	Check:       checkBareHoleSource,

	Rationale: "Matching every term makes saturation blow up.",
}

func checkBareHoleSource(stmt core.Statement, _ map[string]any) []lint.Diagnostic {
	def, ok := stmt.(*core.RewriteDef)
	if !ok {
		return nil
	}

	var diags []lint.Diagnostic
	for _, src := range def.Rewrite.SourceExpressions() {
		if leaf, ok := src.(*core.Leaf); ok && leaf.Terminal.IsHole() {
			diags = append(diags, lint.Diagnostic{
				Message: "pattern " + leaf.String() + " matches every term",
			})
		}
	}
	return diags
}
