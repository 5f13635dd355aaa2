// Package lint checks parsed definitions for suspicious but valid statements.
//
// # Rule Registration
//
// Rules register themselves via init() functions when their packages are imported:
//
//	import _ "github.com/leapstack-labs/rwspec/pkg/lint/rules"
//
// # Rule Categories
//
//   - RW (Rewrite): holes, names, and shapes of rewrite rules
//   - DT (Datatype): constructors and type parameters
//   - FN (Function): parameters and signatures
//   - GL (Goal): proof obligations
//   - CS (Case split): split targets and replacements
//
// # Configuration
//
// Use Config to control which rules are enabled and their severity:
//
//	config := lint.NewConfig()
//	config.Disable("RW04")
//	config.SetSeverity("GL01", core.SeverityError)
//	config.SetRuleOptions("RW01", map[string]any{"check_conditions": false})
//
// # Creating Custom Rules
//
//	var MyRule = lint.RuleDef{
//		ID:          "MY01",
//		Name:        "custom.rule",
//		Group:       "custom",
//		Description: "My custom rule description",
//		Severity:    core.SeverityWarning,
//		Check:       checkMyRule,
//	}
//
//	func init() {
//		lint.Register(MyRule)
//	}
package lint
