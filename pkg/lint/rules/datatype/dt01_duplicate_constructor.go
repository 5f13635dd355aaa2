package datatype

import (
	"fmt"

	"github.com/leapstack-labs/rwspec/pkg/core"
	"github.com/leapstack-labs/rwspec/pkg/lint"
)

func init() {
	lint.Register(DuplicateConstructor)
}

// DuplicateConstructor detects constructors declared twice in one datatype.
var DuplicateConstructor = lint.RuleDef{
	ID:          "DT01",
	Name:        "datatype.duplicate_constructor",
	Group:       "datatype",
	Description: "Constructor names must be unique within a datatype.",
	Severity:    core.SeverityError,
	Kinds:       []core.StatementKind{core.KindDatatype},
	Check:       checkDuplicateConstructor,

	BadExample:  "datatype list a = nil | nil",
	GoodExample: "datatype list a = nil | cons (h : a) (t : (list a))",
}

func checkDuplicateConstructor(stmt core.Statement, _ map[string]any) []lint.Diagnostic {
	dt, ok := stmt.(*core.Datatype)
	if !ok {
		return nil
	}

	seen := make(map[string]bool)
	var diags []lint.Diagnostic
	for _, c := range dt.Constructors {
		if seen[c.Name] {
			diags = append(diags, lint.Diagnostic{
				Message: fmt.Sprintf("constructor %q is declared more than once in %s", c.Name, dt.Name),
			})
			continue
		}
		seen[c.Name] = true
	}
	return diags
}
