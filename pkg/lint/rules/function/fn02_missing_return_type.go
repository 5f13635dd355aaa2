package function

import (
	"fmt"
	"slices"

	"github.com/leapstack-labs/rwspec/pkg/core"
	"github.com/leapstack-labs/rwspec/pkg/lint"
)

func init() {
	lint.Register(MissingReturnType)
}

// MissingReturnType detects functions whose return annotation is only a placeholder.
var MissingReturnType = lint.RuleDef{
	ID:          "FN02",
	Name:        "function.missing_return_type",
	Group:       "function",
	Description: "Functions should declare a concrete return type.",
	Severity:    core.SeverityHint,
	Kinds:       []core.StatementKind{core.KindFunction},
	Check:       checkMissingReturnType,
	ConfigKeys:  []string{"ignore"},

	Rationale:   "Placeholders leave the return type to inference, which may not resolve it.",
	BadExample:  "fun len (l : (list a)) -> _",
	GoodExample: "fun len (l : (list a)) -> nat",
}

func checkMissingReturnType(stmt core.Statement, opts map[string]any) []lint.Diagnostic {
	fn, ok := stmt.(*core.Function)
	if !ok {
		return nil
	}
	if slices.Contains(lint.GetStringSliceOption(opts, "ignore", nil), fn.Name) {
		return nil
	}
	if fn.Return != nil && fn.Return.HasType() {
		return nil
	}
	return []lint.Diagnostic{{
		Message: fmt.Sprintf("function %s has no concrete return type", fn.Name),
	}}
}
