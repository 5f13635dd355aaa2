package function

import (
	"fmt"

	"github.com/leapstack-labs/rwspec/pkg/core"
	"github.com/leapstack-labs/rwspec/pkg/lint"
)

func init() {
	lint.Register(DuplicateParam)
}

// DuplicateParam detects repeated parameter names.
var DuplicateParam = lint.RuleDef{
	ID:          "FN01",
	Name:        "function.duplicate_param",
	Group:       "function",
	Description: "Parameter names must be unique within a function.",
	Severity:    core.SeverityError,
	Kinds:       []core.StatementKind{core.KindFunction},
	Check:       checkDuplicateParam,

	BadExample:  "fun pair (x : a) (x : b) -> (prod a b)",
	GoodExample: "fun pair (x : a) (y : b) -> (prod a b)",
}

func checkDuplicateParam(stmt core.Statement, _ map[string]any) []lint.Diagnostic {
	fn, ok := stmt.(*core.Function)
	if !ok {
		return nil
	}

	seen := make(map[string]bool)
	var diags []lint.Diagnostic
	for _, p := range fn.Params {
		if seen[p.Name] {
			diags = append(diags, lint.Diagnostic{
				Message: fmt.Sprintf("parameter %q of %s is declared more than once", p.Name, fn.Name),
			})
			continue
		}
		seen[p.Name] = true
	}
	return diags
}
