package lint

import (
	"sort"

	"github.com/leapstack-labs/rwspec/pkg/core"
	"github.com/leapstack-labs/rwspec/pkg/parser"
)

// Analyzer runs registered lint rules against parsed definitions.
type Analyzer struct {
	config *Config
}

// NewAnalyzer creates a new analyzer with optional configuration.
func NewAnalyzer(config *Config) *Analyzer {
	if config == nil {
		config = NewConfig()
	}
	return &Analyzer{config: config}
}

// Analyze runs every enabled rule over defs. Diagnostics are ordered by
// statement index, then rule ID.
func (a *Analyzer) Analyze(defs core.Definitions) []Diagnostic {
	var diagnostics []Diagnostic

	for _, rule := range GetAll() {
		// Skip disabled rules
		if a.config.IsDisabled(rule.ID) {
			continue
		}

		// Get rule-specific options
		opts := a.config.GetRuleOptions(rule.ID)

		var diags []Diagnostic
		switch {
		case rule.CheckAll != nil:
			diags = rule.CheckAll(defs, opts)
		case rule.Check != nil:
			for i, stmt := range defs {
				if !rule.appliesTo(stmt) {
					continue
				}
				for _, d := range rule.Check(stmt, opts) {
					d.Index = i
					diags = append(diags, d)
				}
			}
		}

		for i := range diags {
			diags[i].RuleID = rule.ID
			diags[i].Severity = a.config.GetSeverity(rule.ID, rule.Severity)
			if idx := diags[i].Index; idx >= 0 && idx < len(defs) && diags[i].Statement == "" {
				diags[i].Statement = defs[idx].GetName()
			}
		}

		diagnostics = append(diagnostics, diags...)
	}

	sort.SliceStable(diagnostics, func(i, j int) bool {
		if diagnostics[i].Index != diagnostics[j].Index {
			return diagnostics[i].Index < diagnostics[j].Index
		}
		return diagnostics[i].RuleID < diagnostics[j].RuleID
	})
	return diagnostics
}

// AnalyzeSource runs Analyze and fills in each diagnostic's position from
// the statement spans.
func (a *Analyzer) AnalyzeSource(src *parser.Source) []Diagnostic {
	diags := a.Analyze(src.Statements)
	for i := range diags {
		if idx := diags[i].Index; idx >= 0 && idx < len(src.Spans) {
			diags[i].Pos = src.Spans[idx].Start
		}
	}
	return diags
}
