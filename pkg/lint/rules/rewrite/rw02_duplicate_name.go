package rewrite

import (
	"fmt"

	"github.com/leapstack-labs/rwspec/pkg/core"
	"github.com/leapstack-labs/rwspec/pkg/lint"
)

func init() {
	lint.Register(DuplicateName)
}

// DuplicateName detects two rewrites sharing one name.
var DuplicateName = lint.RuleDef{
	ID:          "RW02",
	Name:        "rewrite.duplicate_name",
	Group:       "rewrite",
	Description: "Rewrite names must be unique within a file.",
	Severity:    core.SeverityError,
	CheckAll:    checkDuplicateName,

	Rationale:   "Engines and reports refer to rewrites by name.",
	BadExample:  "rw r (f ?x) => ?x\n\nrw r (g ?x) => ?x",
	GoodExample: "rw f_id (f ?x) => ?x\n\nrw g_id (g ?x) => ?x",
}

func checkDuplicateName(defs core.Definitions, _ map[string]any) []lint.Diagnostic {
	first := make(map[string]int)
	var diags []lint.Diagnostic
	for i, stmt := range defs {
		def, ok := stmt.(*core.RewriteDef)
		if !ok {
			continue
		}
		if prev, dup := first[def.Name]; dup {
			diags = append(diags, lint.Diagnostic{
				Index:   i,
				Message: fmt.Sprintf("rewrite %q is already defined by statement %d", def.Name, prev+1),
			})
			continue
		}
		first[def.Name] = i
	}
	return diags
}
