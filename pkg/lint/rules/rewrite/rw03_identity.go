package rewrite

import (
	"github.com/leapstack-labs/rwspec/pkg/core"
	"github.com/leapstack-labs/rwspec/pkg/lint"
)

func init() {
	lint.Register(Identity)
}

// Identity detects rewrites whose source and destination are equal.
var Identity = lint.RuleDef{
	ID:          "RW03",
	Name:        "rewrite.identity",
	Group:       "rewrite",
	Description: "A rewrite whose destination equals its source has no effect.",
	Severity:    core.SeverityWarning,
	Kinds:       []core.StatementKind{core.KindRewrite},
	Check:       checkIdentity,

	BadExample:  "rw r (f ?x) => (f ?x)",
	GoodExample: "rw r (f (f ?x)) => (f ?x)",
}

func checkIdentity(stmt core.Statement, _ map[string]any) []lint.Diagnostic {
	def, ok := stmt.(*core.RewriteDef)
	if !ok || def.Rewrite.Kind == core.AddSearcher {
		return nil
	}
	if core.Equal(def.Rewrite.Source, def.Rewrite.Destination) {
		return []lint.Diagnostic{{
			Message: "source and destination are identical: " + def.Rewrite.Source.String(),
		}}
	}
	return nil
}
