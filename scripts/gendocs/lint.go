package main

import (
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"

	"github.com/leapstack-labs/rwspec/pkg/core"
	"github.com/leapstack-labs/rwspec/pkg/lint"
	_ "github.com/leapstack-labs/rwspec/pkg/lint/rules"
)

// groupDescriptions provides human-readable descriptions for rule groups.
var groupDescriptions = map[string]string{
	"rewrite":   "Rules about rewrite rules: hole binding, naming, and rules that can never make progress.",
	"datatype":  "Rules about datatype declarations and their constructors.",
	"function":  "Rules about function signatures.",
	"goal":      "Rules about proof goals.",
	"casesplit": "Rules about case splits and their replacement forms.",
}

// groupOrder is the order groups appear on the rules page.
var groupOrder = []string{"rewrite", "datatype", "function", "goal", "casesplit"}

// generateLintDocs generates all lint documentation files.
func generateLintDocs(outDir string) error {
	log.Printf("Generating lint docs to %s", outDir)

	if err := os.MkdirAll(outDir, 0750); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}

	rules := lint.GetAll()

	if err := generateLintIndex(outDir, rules); err != nil {
		return err
	}
	log.Printf("  Generated index.md")

	if err := generateRulesPage(outDir, rules); err != nil {
		return err
	}
	log.Printf("  Generated rules.md")

	return nil
}

// generateLintIndex generates the main linting overview page.
func generateLintIndex(outDir string, rules []lint.RuleDef) error {
	w := NewMarkdownWriter()

	w.Frontmatter("Linting", "Lint rules for rwspec definitions")
	w.GeneratedMarker()

	w.Header(1, "Linting")
	w.Paragraph(fmt.Sprintf("rwspec includes **%d lint rules** that look for statements which parse but are probably wrong.", len(rules)))

	w.Header(2, "Severity Levels")
	w.Table(
		[]string{"Severity", "Description"},
		[][]string{
			{InlineCode(core.SeverityError.String()), "The statement cannot mean what it says"},
			{InlineCode(core.SeverityWarning.String()), "The statement is legal but almost certainly a mistake"},
			{InlineCode(core.SeverityInfo.String()), "Informational feedback"},
			{InlineCode(core.SeverityHint.String()), "Suggestion for improvement"},
		},
	)

	w.Header(2, "Configuration")
	w.Paragraph("Rules can be configured in `rwspec.yaml`:")
	w.CodeBlock("yaml", `lint:
  disabled: [RW04]         # disable rules
  severity:
    GL01: error            # override severity
  rules:
    RW01:
      check_conditions: false   # rule-specific option`)

	w.Header(2, "Rule Groups")
	counts := make(map[string]int)
	prefixes := make(map[string]string)
	for _, r := range rules {
		counts[r.Group]++
		prefixes[r.Group] = r.ID[:2]
	}
	var rows [][]string
	for _, g := range groupOrder {
		if counts[g] == 0 {
			continue
		}
		rows = append(rows, []string{
			fmt.Sprintf("[%s](/linting/rules#%s)", capitalizeFirst(g), g),
			prefixes[g],
			fmt.Sprint(counts[g]),
			groupDescriptions[g],
		})
	}
	w.Table([]string{"Group", "Prefix", "Rules", "Description"}, rows)

	return os.WriteFile(filepath.Join(outDir, "index.md"), w.Bytes(), 0600)
}

// generateRulesPage documents every rule, grouped.
func generateRulesPage(outDir string, rules []lint.RuleDef) error {
	w := NewMarkdownWriter()

	w.Frontmatter("Lint Rules", "Every rwspec lint rule")
	w.GeneratedMarker()

	w.Header(1, "Lint Rules")

	for _, group := range groupOrder {
		groupRules := lint.GetByGroup(group)
		if len(groupRules) == 0 {
			continue
		}

		w.Line(fmt.Sprintf("## %s {#%s}", capitalizeFirst(group), group))
		w.Newline()
		if desc, ok := groupDescriptions[group]; ok {
			w.Paragraph(desc)
		}

		for _, rule := range groupRules {
			writeRuleDoc(w, rule)
		}
	}

	return os.WriteFile(filepath.Join(outDir, "rules.md"), w.Bytes(), 0600)
}

// capitalizeFirst capitalizes the first letter of a string.
func capitalizeFirst(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}

// writeRuleDoc writes detailed documentation for a single rule.
func writeRuleDoc(w *MarkdownWriter, rule lint.RuleDef) {
	// ### RW01 - rewrite.unbound_hole {#RW01}
	w.Line(fmt.Sprintf("### %s - %s {#%s}", rule.ID, rule.Name, rule.ID))
	w.Newline()

	w.Line(fmt.Sprintf("**Severity:** %s", InlineCode(rule.Severity.String())))
	w.Newline()

	w.Paragraph(cleanDescription(rule.Description))

	if rule.Rationale != "" {
		w.Header(4, "Why This Matters")
		w.Paragraph(strings.TrimSpace(rule.Rationale))
	}
	if rule.BadExample != "" {
		w.Header(4, "Bad")
		w.CodeBlock("rws", rule.BadExample)
	}
	if rule.GoodExample != "" {
		w.Header(4, "Good")
		w.CodeBlock("rws", rule.GoodExample)
	}
	if rule.Fix != "" {
		w.Header(4, "How to Fix")
		w.Paragraph(strings.TrimSpace(rule.Fix))
	}
	if len(rule.ConfigKeys) > 0 {
		w.Header(4, "Configuration")
		w.Paragraph(fmt.Sprintf("This rule accepts the following configuration options: %s",
			InlineCode(strings.Join(rule.ConfigKeys, ", "))))
	}
	if len(rule.Kinds) > 0 {
		kinds := make([]string, len(rule.Kinds))
		for i, k := range rule.Kinds {
			kinds[i] = string(k)
		}
		w.Line(fmt.Sprintf("**Applies to:** %s", strings.Join(kinds, ", ")))
		w.Newline()
	}

	w.Line("---")
	w.Newline()
}
