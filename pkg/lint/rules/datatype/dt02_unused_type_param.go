package datatype

import (
	"fmt"

	"github.com/leapstack-labs/rwspec/pkg/core"
	"github.com/leapstack-labs/rwspec/pkg/lint"
)

func init() {
	lint.Register(UnusedTypeParam)
}

// UnusedTypeParam detects type parameters no field annotation mentions.
var UnusedTypeParam = lint.RuleDef{
	ID:          "DT02",
	Name:        "datatype.unused_type_param",
	Group:       "datatype",
	Description: "Every type parameter should appear in some constructor field.",
	Severity:    core.SeverityInfo,
	Kinds:       []core.StatementKind{core.KindDatatype},
	Check:       checkUnusedTypeParam,

	BadExample:  "datatype box a b = box (v : a)",
	GoodExample: "datatype box a = box (v : a)",
}

func checkUnusedTypeParam(stmt core.Statement, _ map[string]any) []lint.Diagnostic {
	dt, ok := stmt.(*core.Datatype)
	if !ok || len(dt.TypeParams) == 0 {
		return nil
	}

	used := make(map[string]bool)
	for _, c := range dt.Constructors {
		for _, f := range c.Fields {
			for _, t := range core.AnnotationTerminals(f.Annotation) {
				used[t.Name] = true
			}
		}
	}

	var diags []lint.Diagnostic
	for _, tp := range dt.TypeParams {
		if !used[tp] {
			diags = append(diags, lint.Diagnostic{
				Message: fmt.Sprintf("type parameter %q of %s is never used", tp, dt.Name),
			})
		}
	}
	return diags
}
