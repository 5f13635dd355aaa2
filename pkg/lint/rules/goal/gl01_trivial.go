package goal

import (
	"github.com/leapstack-labs/rwspec/pkg/core"
	"github.com/leapstack-labs/rwspec/pkg/lint"
)

func init() {
	lint.Register(Trivial)
}

// Trivial detects goals whose sides are already equal.
var Trivial = lint.RuleDef{
	ID:          "GL01",
	Name:        "goal.trivial",
	Group:       "goal",
	Description: "A goal whose two sides are identical proves nothing.",
	Severity:    core.SeverityWarning,
	Kinds:       []core.StatementKind{core.KindGoal},
	Check:       checkTrivial,
}

func checkTrivial(stmt core.Statement, _ map[string]any) []lint.Diagnostic {
	g, ok := stmt.(*core.Goal)
	if !ok {
		return nil
	}
	if core.Equal(g.LHS, g.RHS) {
		return []lint.Diagnostic{{Message: "goal sides are identical: " + g.LHS.String()}}
	}
	return nil
}
