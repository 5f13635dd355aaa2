package commands

import (
	"fmt"
	"strings"

	"github.com/leapstack-labs/rwspec/internal/catalog"
	"github.com/leapstack-labs/rwspec/internal/cli/output"
	"github.com/leapstack-labs/rwspec/internal/loader"
	"github.com/leapstack-labs/rwspec/pkg/core"
	"github.com/leapstack-labs/rwspec/pkg/lint"
	"github.com/spf13/cobra"
)

// NewDoctorCommand creates the doctor command.
func NewDoctorCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "doctor [paths...]",
		Short: "Run a definitions health check",
		Long: `Analyze definition files and report:
- a summary of statements by kind
- invalid statements and structural duplicates
- every lint rule as a pass/warn/error check
- a health score (0-100) with recommendations`,
		Example: `  # Run health check
  rwspec doctor

  # Output as JSON
  rwspec doctor -o json`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cmdCtx, err := NewCommandContext(cmd)
			if err != nil {
				return err
			}
			result, err := cmdCtx.Load(cmd.Context(), cmdCtx.Roots(args), cmdCtx.LoaderOptions())
			if err != nil {
				return err
			}
			out := buildDoctorOutput(result, lint.NewAnalyzer(cmdCtx.Cfg.LintConfig()))

			r := cmdCtx.Renderer
			switch r.EffectiveMode() {
			case output.ModeJSON:
				return r.JSON(out)
			case output.ModeMarkdown:
				renderDoctorMarkdown(r, out)
			default:
				renderDoctorText(r, out)
			}
			return nil
		},
	}
	return cmd
}

// DoctorOutput is the JSON output for the doctor command.
type DoctorOutput struct {
	Summary         DefinitionsSummary `json:"summary"`
	HealthChecks    []HealthCheck      `json:"health_checks"`
	Score           int                `json:"score"`
	Recommendations []string           `json:"recommendations"`
	IssueCount      int                `json:"issue_count"`
}

// DefinitionsSummary counts statements by kind.
type DefinitionsSummary struct {
	Files      int `json:"files"`
	Statements int `json:"statements"`
	Rewrites   int `json:"rewrites"`
	Functions  int `json:"functions"`
	Datatypes  int `json:"datatypes"`
	Goals      int `json:"goals"`
	CaseSplits int `json:"case_splits"`
	Invalid    int `json:"invalid"`
	Duplicates int `json:"duplicates"`
}

// HealthCheck represents a single health check result.
type HealthCheck struct {
	RuleID     string   `json:"rule_id"`
	Name       string   `json:"name"`
	Group      string   `json:"group"`
	Status     string   `json:"status"` // "pass", "warn", "error"
	IssueCount int      `json:"issue_count"`
	Details    []string `json:"details,omitempty"`
}

// Pseudo-rule IDs for checks that are not lint rules.
const (
	checkInvalid   = "PARSE"
	checkDuplicate = "DUP"
)

func buildDoctorOutput(result *loader.Result, analyzer *lint.Analyzer) *DoctorOutput {
	summary := DefinitionsSummary{Files: len(result.Files)}
	byRule := make(map[string][]string)
	fingerprints := make(map[string][]string)

	for _, f := range result.Files {
		for _, e := range f.Errors {
			summary.Invalid++
			byRule[checkInvalid] = append(byRule[checkInvalid], fmt.Sprintf("%s: %v", f.Path, e))
		}
		if f.Source == nil {
			continue
		}
		for _, stmt := range f.Source.Statements {
			summary.Statements++
			switch stmt.Kind() {
			case core.KindRewrite:
				summary.Rewrites++
			case core.KindFunction:
				summary.Functions++
			case core.KindDatatype:
				summary.Datatypes++
			case core.KindGoal:
				summary.Goals++
			case core.KindCaseSplit:
				summary.CaseSplits++
			}
			fp := catalog.Fingerprint(stmt)
			fingerprints[fp] = append(fingerprints[fp], describeStatement(f.Path, stmt))
		}
		for _, d := range analyzer.AnalyzeSource(f.Source) {
			byRule[d.RuleID] = append(byRule[d.RuleID], fmt.Sprintf("%s:%d: %s", f.Path, d.Pos.Line, d.Message))
		}
	}
	for _, group := range fingerprints {
		if len(group) > 1 {
			summary.Duplicates += len(group) - 1
			byRule[checkDuplicate] = append(byRule[checkDuplicate], strings.Join(group, " = "))
		}
	}

	checks := []HealthCheck{
		newHealthCheck(checkInvalid, "statements.valid", "definitions", core.SeverityError, byRule[checkInvalid]),
		newHealthCheck(checkDuplicate, "statements.unique", "definitions", core.SeverityWarning, byRule[checkDuplicate]),
	}
	for _, rule := range allRuleInfo() {
		checks = append(checks, newHealthCheck(rule.ID, rule.Name, rule.Group, rule.DefaultSeverity, byRule[rule.ID]))
	}

	issues := 0
	for _, c := range checks {
		issues += c.IssueCount
	}
	return &DoctorOutput{
		Summary:         summary,
		HealthChecks:    checks,
		Score:           calculateHealthScore(checks, summary.Statements),
		Recommendations: generateRecommendations(checks),
		IssueCount:      issues,
	}
}

func describeStatement(path string, stmt core.Statement) string {
	if name := stmt.GetName(); name != "" {
		return fmt.Sprintf("%s (%s)", name, path)
	}
	return fmt.Sprintf("%s (%s)", stmt.Kind(), path)
}

func newHealthCheck(id, name, group string, sev core.Severity, details []string) HealthCheck {
	status := "pass"
	if len(details) > 0 {
		status = "warn"
		if sev == core.SeverityError {
			status = "error"
		}
	}
	return HealthCheck{
		RuleID:     id,
		Name:       name,
		Group:      group,
		Status:     status,
		IssueCount: len(details),
		Details:    details,
	}
}

// calculateHealthScore computes a health score from 0-100. Each issue costs
// points; errors cost double, and larger definition sets dilute each issue.
func calculateHealthScore(checks []HealthCheck, statementCount int) int {
	if len(checks) == 0 {
		return 100
	}

	score := 100.0
	basePenalty := 5.0
	if statementCount > 10 {
		basePenalty = 3.0
	}
	if statementCount > 50 {
		basePenalty = 2.0
	}
	if statementCount > 100 {
		basePenalty = 1.0
	}

	for _, check := range checks {
		switch check.Status {
		case "error":
			score -= float64(check.IssueCount) * basePenalty * 2
		case "warn":
			score -= float64(check.IssueCount) * basePenalty
		}
	}

	if score < 0 {
		score = 0
	}
	if score > 100 {
		score = 100
	}
	return int(score)
}

// generateRecommendations returns up to five fixes for failing checks.
func generateRecommendations(checks []HealthCheck) []string {
	var recommendations []string
	seen := make(map[string]bool)
	for _, check := range checks {
		if check.IssueCount == 0 {
			continue
		}
		rec := getRecommendation(check.RuleID)
		if rec != "" && !seen[rec] {
			recommendations = append(recommendations, rec)
			seen[rec] = true
		}
	}
	if len(recommendations) > 5 {
		recommendations = recommendations[:5]
	}
	return recommendations
}

func getRecommendation(ruleID string) string {
	switch ruleID {
	case checkInvalid:
		return "Fix invalid statements; run 'rwspec check' for positions"
	case checkDuplicate:
		return "Remove rules that repeat another rule under a different name"
	case "RW01":
		return "Bind every destination hole in the rewrite's source pattern"
	case "RW02":
		return "Give each rewrite a unique name"
	case "RW03", "GL01":
		return "Remove statements whose two sides are identical"
	case "RW04":
		return "Avoid rewrites whose source is a bare hole; they match every term"
	case "DT01", "FN01", "CS02":
		return "Remove repeated constructors, parameters, or replacements"
	case "DT02":
		return "Drop datatype type parameters that no field uses"
	case "FN02":
		return "Declare a return type for every function"
	case "CS01":
		return "Split on a hole so the case split applies to any term"
	default:
		return ""
	}
}

func renderDoctorText(r *output.Renderer, out *DoctorOutput) {
	styles := r.Styles()
	s := out.Summary

	r.Println("")
	r.Println(styles.Header.Render("rwspec Definitions Health Report"))
	r.Println(styles.Muted.Render(strings.Repeat("=", 55)))
	r.Println("")

	r.Println(styles.Bold.Render("Summary"))
	r.Printf("   Files: %d | Statements: %d | Invalid: %d | Duplicates: %d\n", s.Files, s.Statements, s.Invalid, s.Duplicates)
	r.Printf("   Rewrites: %d | Functions: %d | Datatypes: %d | Goals: %d | Case splits: %d\n",
		s.Rewrites, s.Functions, s.Datatypes, s.Goals, s.CaseSplits)
	r.Println("")

	r.Println(styles.Bold.Render("Health Checks"))
	r.Println("")
	currentGroup := ""
	for _, check := range out.HealthChecks {
		if check.Group != currentGroup {
			currentGroup = check.Group
			r.Println(styles.Bold.Render("   " + titleCase.String(currentGroup)))
			r.Println(styles.Muted.Render("   " + strings.Repeat("-", 40)))
		}

		icon := styles.Success.Render("✓")
		switch check.Status {
		case "warn":
			icon = styles.Warning.Render("!")
		case "error":
			icon = styles.Error.Render("✗")
		}
		status := fmt.Sprintf("%s %s: %s", icon, check.RuleID, check.Name)
		if check.IssueCount > 0 {
			status += fmt.Sprintf(" (%d issues)", check.IssueCount)
		}
		r.Println("   " + status)

		for i, detail := range check.Details {
			if i >= 3 {
				r.Println(styles.Muted.Render(fmt.Sprintf("       ... and %d more", len(check.Details)-3)))
				break
			}
			r.Println(styles.Muted.Render("       - " + detail))
		}
	}
	r.Println("")

	r.Println(styles.Muted.Render(strings.Repeat("=", 55)))
	scoreStyle := styles.Success
	if out.Score < 70 {
		scoreStyle = styles.Warning
	}
	if out.Score < 50 {
		scoreStyle = styles.Error
	}
	r.Printf("   Health Score: %s\n", scoreStyle.Render(fmt.Sprintf("%d/100", out.Score)))
	r.Println("")

	if len(out.Recommendations) > 0 {
		r.Println(styles.Bold.Render("Recommendations"))
		for i, rec := range out.Recommendations {
			r.Printf("   %d. %s\n", i+1, rec)
		}
		r.Println("")
	}
}

func renderDoctorMarkdown(r *output.Renderer, out *DoctorOutput) {
	s := out.Summary
	r.Println("# rwspec Definitions Health Report")
	r.Println("")

	r.Println("## Summary")
	r.Println("")
	r.Println(output.FormatKeyValue("Files", fmt.Sprint(s.Files)))
	r.Println(output.FormatKeyValue("Statements", fmt.Sprint(s.Statements)))
	r.Println(output.FormatKeyValue("Rewrites", fmt.Sprint(s.Rewrites)))
	r.Println(output.FormatKeyValue("Functions", fmt.Sprint(s.Functions)))
	r.Println(output.FormatKeyValue("Datatypes", fmt.Sprint(s.Datatypes)))
	r.Println(output.FormatKeyValue("Goals", fmt.Sprint(s.Goals)))
	r.Println(output.FormatKeyValue("Case splits", fmt.Sprint(s.CaseSplits)))
	r.Println(output.FormatKeyValue("Invalid", fmt.Sprint(s.Invalid)))
	r.Println(output.FormatKeyValue("Duplicates", fmt.Sprint(s.Duplicates)))
	r.Println("")

	r.Println("## Health Checks")
	r.Println("")
	currentGroup := ""
	for _, check := range out.HealthChecks {
		if check.Group != currentGroup {
			currentGroup = check.Group
			r.Println("### " + titleCase.String(currentGroup))
			r.Println("")
		}
		status := "PASS"
		switch check.Status {
		case "warn":
			status = "WARN"
		case "error":
			status = "ERROR"
		}
		line := fmt.Sprintf("- **[%s]** %s: %s", status, check.RuleID, check.Name)
		if check.IssueCount > 0 {
			line += fmt.Sprintf(" (%d issues)", check.IssueCount)
		}
		r.Println(line)
		for _, detail := range check.Details {
			r.Printf("  - %s\n", detail)
		}
	}
	r.Println("")

	r.Println("## Health Score")
	r.Println("")
	r.Printf("**%d/100**\n", out.Score)
	r.Println("")

	if len(out.Recommendations) > 0 {
		r.Println("## Recommendations")
		r.Println("")
		for i, rec := range out.Recommendations {
			r.Printf("%d. %s\n", i+1, rec)
		}
		r.Println("")
	}
}
