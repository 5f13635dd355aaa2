package commands

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/leapstack-labs/rwspec/internal/cli/output"
	"github.com/leapstack-labs/rwspec/internal/inspect"
	"github.com/spf13/cobra"
)

// NewInspectCommand creates the inspect command.
func NewInspectCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "inspect <term>",
		Short: "Show the structure of a term",
		Long: `Parse a single term and show its canonical s-expression, root terminal,
direct children, every terminal in traversal order, and the holes it binds.

An identifier used both as a hole and as a normal id is reported as a
conflict.`,
		Example: `  rwspec inspect '(append (cons ?h ?t) ?l)'
  rwspec inspect '(match ?l (=> nil zero) (=> (cons ?h ?t) (succ ?n)))' -o json`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cmdCtx, err := NewCommandContext(cmd)
			if err != nil {
				return err
			}
			report, err := inspect.Term(strings.Join(args, " "))
			if err != nil {
				return err
			}
			renderInspect(cmdCtx.Renderer, report)
			return nil
		},
	}
	return cmd
}

func renderInspect(r *output.Renderer, rep *inspect.Report) {
	switch r.EffectiveMode() {
	case output.ModeJSON:
		_ = r.JSON(rep)
		return
	case output.ModeMarkdown:
		r.Println(output.FormatHeader(1, "Term"))
		r.Println("")
		r.Println(output.FormatCodeBlock("rws", rep.Source))
		r.Println("")
		r.Println(output.FormatKeyValue("sexp", "`"+rep.Sexp+"`"))
		r.Println(output.FormatKeyValue("root", "`"+rep.Root.Name+"` ("+rep.Root.Role+")"))
		r.Println(output.FormatKeyValue("children", inlineList(rep.Children)))
		r.Println(output.FormatKeyValue("holes", inlineList(rep.Holes)))
		r.Println(output.FormatKeyValue("nodes", strconv.Itoa(rep.Nodes)))
		if rep.Conflict != "" {
			r.Println(output.FormatKeyValue("conflict", rep.Conflict))
		}
		r.Println("")
	default:
		s := r.Styles()
		r.Println(s.Header.Render(rep.Source))
		r.Printf("  %s %s\n", s.Muted.Render("sexp    "), rep.Sexp)
		r.Printf("  %s %s %s\n", s.Muted.Render("root    "), s.Bold.Render(rep.Root.Name), s.Muted.Render(rep.Root.Role))
		r.Printf("  %s %s\n", s.Muted.Render("children"), strings.Join(rep.Children, "  "))
		r.Printf("  %s %s\n", s.Muted.Render("holes   "), strings.Join(rep.Holes, " "))
		r.Printf("  %s %d\n", s.Muted.Render("nodes   "), rep.Nodes)
		if rep.Conflict != "" {
			r.Printf("  %s %s\n", s.Error.Render("conflict"), rep.Conflict)
		}
		r.Println("")
	}

	rows := make([][]string, len(rep.Terminals))
	for i, t := range rep.Terminals {
		rows[i] = []string{strconv.Itoa(i), t.Name, t.Role, t.Annotation}
	}
	r.Table([]string{"#", "Terminal", "Role", "Annotation"}, rows)
}

func inlineList(items []string) string {
	if len(items) == 0 {
		return "none"
	}
	quoted := make([]string, len(items))
	for i, it := range items {
		quoted[i] = fmt.Sprintf("`%s`", it)
	}
	return strings.Join(quoted, ", ")
}
