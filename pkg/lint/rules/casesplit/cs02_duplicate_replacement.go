package casesplit

import (
	"github.com/leapstack-labs/rwspec/pkg/core"
	"github.com/leapstack-labs/rwspec/pkg/lint"
)

func init() {
	lint.Register(DuplicateReplacement)
}

// DuplicateReplacement detects a replacement listed twice in one split.
var DuplicateReplacement = lint.RuleDef{
	ID:          "CS02",
	Name:        "casesplit.duplicate_replacement",
	Group:       "casesplit",
	Description: "Each case split replacement should be distinct.",
	Severity:    core.SeverityWarning,
	Kinds:       []core.StatementKind{core.KindCaseSplit},
	Check:       checkDuplicateReplacement,
}

func checkDuplicateReplacement(stmt core.Statement, _ map[string]any) []lint.Diagnostic {
	cs, ok := stmt.(*core.CaseSplit)
	if !ok {
		return nil
	}

	seen := make(map[string]bool)
	var diags []lint.Diagnostic
	for _, r := range cs.Replacements {
		key := core.CanonicalKey(r)
		if seen[key] {
			diags = append(diags, lint.Diagnostic{Message: "replacement " + r.String() + " is listed more than once"})
			continue
		}
		seen[key] = true
	}
	return diags
}
