package commands

import (
	"errors"
	"fmt"
	"strings"

	"github.com/leapstack-labs/rwspec/internal/cli/output"
	"github.com/leapstack-labs/rwspec/pkg/core"
	"github.com/leapstack-labs/rwspec/pkg/lint"
	_ "github.com/leapstack-labs/rwspec/pkg/lint/rules" // register rules
	"github.com/spf13/cobra"
)

// ErrLintIssues is returned when lint reports at least one diagnostic.
var ErrLintIssues = errors.New("lint issues found")

// LintOptions holds options for the lint command.
type LintOptions struct {
	Severity string   // Minimum severity: error, warning, info, hint
	Rules    []string // Run only specific rules
}

// NewLintCommand creates the lint command.
func NewLintCommand() *cobra.Command {
	opts := &LintOptions{}
	cmd := &cobra.Command{
		Use:   "lint [paths...]",
		Short: "Run lint rules on definition files",
		Long: `Analyze definition files for suspicious statements: rewrites whose
destination uses holes the source never binds, identity rewrites, trivial
goals, duplicate constructors, and more. Run "rwspec rules" for the list.

Rules can be disabled or re-leveled under lint: in rwspec.yaml.
Statements that fail to parse are skipped and reported as warnings.`,
		Example: `  # Lint the definitions directory
  rwspec lint

  # Disable specific rules
  rwspec lint --disable RW03,GL01

  # Only report errors
  rwspec lint --severity error

  # Run a single rule
  rwspec lint --rule RW01`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runLint(cmd, args, opts)
		},
	}

	cmd.Flags().StringSlice("disable", nil, "Rule IDs to disable")
	cmd.Flags().StringVar(&opts.Severity, "severity", "hint", "Minimum severity: error, warning, info, hint")
	cmd.Flags().StringSliceVar(&opts.Rules, "rule", nil, "Run only specific rules")
	return cmd
}

// lintFileResult holds lint results for a single file.
type lintFileResult struct {
	Path        string
	Diagnostics []lint.Diagnostic
}

// LintOutput is the JSON form of a lint run.
type LintOutput struct {
	Files   []LintFile  `json:"files"`
	Summary LintSummary `json:"summary"`
}

// LintFile is one file's diagnostics.
type LintFile struct {
	Path        string            `json:"path"`
	Diagnostics []lint.Diagnostic `json:"diagnostics"`
}

// LintSummary counts diagnostics by severity.
type LintSummary struct {
	FilesAnalyzed int `json:"files_analyzed"`
	TotalIssues   int `json:"total_issues"`
	Errors        int `json:"errors"`
	Warnings      int `json:"warnings"`
	Info          int `json:"info"`
	Hints         int `json:"hints"`
}

func runLint(cmd *cobra.Command, args []string, opts *LintOptions) error {
	cmdCtx, err := NewCommandContext(cmd)
	if err != nil {
		return err
	}
	r := cmdCtx.Renderer

	minSeverity, ok := core.ParseSeverity(opts.Severity)
	if !ok {
		return fmt.Errorf("unknown severity %q", opts.Severity)
	}

	lintCfg := cmdCtx.Cfg.LintConfig()
	if len(opts.Rules) > 0 {
		only := make(map[string]bool, len(opts.Rules))
		for _, id := range opts.Rules {
			only[strings.ToUpper(strings.TrimSpace(id))] = true
		}
		for _, rule := range lint.GetAll() {
			if !only[rule.ID] {
				lintCfg.Disable(rule.ID)
			}
		}
	}
	analyzer := lint.NewAnalyzer(lintCfg)

	result, err := cmdCtx.Load(cmd.Context(), cmdCtx.Roots(args), cmdCtx.LoaderOptions())
	if err != nil {
		return err
	}

	var results []lintFileResult
	for _, f := range result.Files {
		for _, e := range f.Errors {
			r.Warning(fmt.Sprintf("%s: skipped: %v", f.Path, e))
		}
		if f.Source == nil {
			continue
		}
		var diags []lint.Diagnostic
		for _, d := range analyzer.AnalyzeSource(f.Source) {
			// Lower values are more severe.
			if d.Severity <= minSeverity {
				diags = append(diags, d)
			}
		}
		if len(diags) > 0 {
			results = append(results, lintFileResult{Path: f.Path, Diagnostics: diags})
		}
	}

	summary := renderLintResults(r, results, len(result.Files))
	if summary.TotalIssues > 0 {
		return fmt.Errorf("%w: %d", ErrLintIssues, summary.TotalIssues)
	}
	return nil
}

func summarize(results []lintFileResult, files int) LintSummary {
	summary := LintSummary{FilesAnalyzed: files}
	for _, res := range results {
		summary.TotalIssues += len(res.Diagnostics)
		for _, d := range res.Diagnostics {
			switch d.Severity {
			case core.SeverityError:
				summary.Errors++
			case core.SeverityWarning:
				summary.Warnings++
			case core.SeverityInfo:
				summary.Info++
			case core.SeverityHint:
				summary.Hints++
			}
		}
	}
	return summary
}

func renderLintResults(r *output.Renderer, results []lintFileResult, files int) LintSummary {
	summary := summarize(results, files)

	if r.EffectiveMode() == output.ModeJSON {
		out := LintOutput{Files: []LintFile{}, Summary: summary}
		for _, res := range results {
			out.Files = append(out.Files, LintFile(res))
		}
		_ = r.JSON(out)
		return summary
	}

	if len(results) == 0 {
		r.Success("No lint issues found")
		return summary
	}

	for _, res := range results {
		r.Println(r.Styles().Path.Render(res.Path))
		for _, d := range res.Diagnostics {
			loc := "-"
			if d.Pos.Line > 0 {
				loc = fmt.Sprintf("%d:%d", d.Pos.Line, d.Pos.Column)
			}
			subject := ""
			if d.Statement != "" {
				subject = r.Styles().Code.Render(d.Statement) + ": "
			}
			r.Printf("  %s  %s  %s  %s%s\n",
				r.Styles().Muted.Render(fmt.Sprintf("%-7s", loc)),
				severityStyle(r, d.Severity),
				r.Styles().Bold.Render(d.RuleID),
				subject,
				d.Message,
			)
		}
		r.Println("")
	}

	parts := []string{fmt.Sprintf("%d issues", summary.TotalIssues)}
	if summary.Errors > 0 {
		parts = append(parts, fmt.Sprintf("%d errors", summary.Errors))
	}
	if summary.Warnings > 0 {
		parts = append(parts, fmt.Sprintf("%d warnings", summary.Warnings))
	}
	if summary.Info > 0 {
		parts = append(parts, fmt.Sprintf("%d info", summary.Info))
	}
	if summary.Hints > 0 {
		parts = append(parts, fmt.Sprintf("%d hints", summary.Hints))
	}
	r.Printf("Summary: %s in %d files\n", strings.Join(parts, ", "), summary.FilesAnalyzed)
	return summary
}

func severityStyle(r *output.Renderer, sev core.Severity) string {
	switch sev {
	case core.SeverityError:
		return r.Styles().Error.Render("error  ")
	case core.SeverityWarning:
		return r.Styles().Warning.Render("warning")
	case core.SeverityInfo:
		return r.Styles().Info.Render("info   ")
	case core.SeverityHint:
		return r.Styles().Muted.Render("hint   ")
	default:
		return r.Styles().Muted.Render("unknown")
	}
}
