package casesplit

import (
	"github.com/leapstack-labs/rwspec/pkg/core"
	"github.com/leapstack-labs/rwspec/pkg/lint"
)

func init() {
	lint.Register(TargetNotHole)
}

// TargetNotHole detects case splits over a concrete term.
var TargetNotHole = lint.RuleDef{
	ID:          "CS01",
	Name:        "casesplit.target_not_hole",
	Group:       "casesplit",
	Description: "A case split target is normally headed by a hole.",
	Severity:    core.SeverityWarning,
	Kinds:       []core.StatementKind{core.KindCaseSplit},
	Check:       checkTargetNotHole,

	BadExample:  "split (len ?l) by nil into nil",
	GoodExample: "split (len ?l) by ?l into nil, (cons ?h ?t)",
}

func checkTargetNotHole(stmt core.Statement, _ map[string]any) []lint.Diagnostic {
	cs, ok := stmt.(*core.CaseSplit)
	if !ok {
		return nil
	}
	if cs.Target.Root().IsHole() {
		return nil
	}
	return []lint.Diagnostic{{Message: "split target " + cs.Target.String() + " is not headed by a hole"}}
}
