package lint

import (
	"github.com/leapstack-labs/rwspec/pkg/core"
	"github.com/leapstack-labs/rwspec/pkg/token"
)

// =============================================================================
// Rule Definitions
// =============================================================================

// RuleDef is a data-driven rule definition.
// Rules are stateless - all context comes via the check function parameters.
// Exactly one of Check and CheckAll is set.
type RuleDef struct {
	ID          string               // Unique identifier, e.g., "RW01"
	Name        string               // Human-readable name, e.g., "rewrite.unbound_hole"
	Group       string               // Category, e.g., "rewrite", "datatype"
	Description string               // Human-readable description
	Severity    core.Severity        // Default severity
	Kinds       []core.StatementKind // Statement kinds Check receives; nil means all
	Check       StatementCheckFunc   // Per-statement check
	CheckAll    DefinitionsCheckFunc // Whole-file check
	ConfigKeys  []string             // Configuration keys this rule accepts

	// Documentation fields for richer rule documentation
	Rationale   string // Why this rule exists, what problems it prevents
	BadExample  string // Code showing the anti-pattern
	GoodExample string // Code showing the correct pattern
	Fix         string // How to fix violations (when not obvious)
}

// StatementCheckFunc analyzes one statement and returns diagnostics.
// The opts parameter contains rule-specific options from configuration.
type StatementCheckFunc func(stmt core.Statement, opts map[string]any) []Diagnostic

// DefinitionsCheckFunc analyzes a whole file. Diagnostics must set Index.
type DefinitionsCheckFunc func(defs core.Definitions, opts map[string]any) []Diagnostic

// Type returns "statement" or "definitions".
func (r RuleDef) Type() string {
	if r.CheckAll != nil {
		return "definitions"
	}
	return "statement"
}

// appliesTo reports whether the rule's Check should see stmt.
func (r RuleDef) appliesTo(stmt core.Statement) bool {
	if len(r.Kinds) == 0 {
		return true
	}
	for _, k := range r.Kinds {
		if k == stmt.Kind() {
			return true
		}
	}
	return false
}

// Info extracts metadata from the rule for documentation/tooling.
func (r RuleDef) Info() core.RuleInfo {
	kinds := make([]string, len(r.Kinds))
	for i, k := range r.Kinds {
		kinds[i] = string(k)
	}
	return core.RuleInfo{
		ID:              r.ID,
		Name:            r.Name,
		Group:           r.Group,
		Description:     r.Description,
		DefaultSeverity: r.Severity,
		ConfigKeys:      r.ConfigKeys,
		Kinds:           kinds,
		Type:            r.Type(),
		Rationale:       r.Rationale,
		BadExample:      r.BadExample,
		GoodExample:     r.GoodExample,
		Fix:             r.Fix,
	}
}

// =============================================================================
// Diagnostics
// =============================================================================

// Diagnostic represents a lint finding.
type Diagnostic struct {
	RuleID    string         `json:"rule_id"`
	Severity  core.Severity  `json:"severity"`
	Message   string         `json:"message"`
	Index     int            `json:"index"`               // statement index within the file
	Statement string         `json:"statement,omitempty"` // statement name, when it has one
	Pos       token.Position `json:"pos"`                 // zero unless spans were supplied
}
