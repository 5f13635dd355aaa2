package commands

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/chzyer/readline"
	"github.com/leapstack-labs/rwspec/internal/catalog"
	"github.com/leapstack-labs/rwspec/internal/cli/output"
	"github.com/leapstack-labs/rwspec/internal/export"
	"github.com/leapstack-labs/rwspec/internal/inspect"
	"github.com/leapstack-labs/rwspec/pkg/core"
	"github.com/leapstack-labs/rwspec/pkg/format"
	"github.com/leapstack-labs/rwspec/pkg/lint"
	"github.com/leapstack-labs/rwspec/pkg/parser"
	"github.com/leapstack-labs/rwspec/pkg/token"
	"github.com/spf13/cobra"
)

const (
	replPrompt     = "rwspec> "
	replContPrompt = "   ...> "
)

// NewReplCommand creates the repl command.
func NewReplCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "repl",
		Short: "Interactive statement and term explorer",
		Long: `Start an interactive session.

A line starting with rw, fun, datatype, prove, or split is parsed as a
statement, added to the session, and linted against the statements entered
so far. Any other line is parsed as a term and inspected. End a line with a
backslash to continue it on the next line.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cmdCtx, err := NewCommandContext(cmd)
			if err != nil {
				return err
			}
			return runRepl(cmd, cmdCtx)
		},
	}
}

func runRepl(cmd *cobra.Command, cmdCtx *CommandContext) error {
	historyFile := ""
	if root := cmdCtx.Cfg.ProjectRoot; root != "" {
		dir := filepath.Join(root, ".rwspec")
		if err := os.MkdirAll(dir, 0o750); err == nil {
			historyFile = filepath.Join(dir, "repl_history")
		}
	}

	rl, err := readline.NewEx(&readline.Config{
		Prompt:          replPrompt,
		HistoryFile:     historyFile,
		AutoComplete:    newReplCompleter(),
		InterruptPrompt: "^C",
		EOFPrompt:       ".quit",
		Stdin:           io.NopCloser(cmd.InOrStdin()),
		Stdout:          cmd.OutOrStdout(),
		Stderr:          cmd.ErrOrStderr(),
	})
	if err != nil {
		return fmt.Errorf("failed to initialize REPL: %w", err)
	}
	defer func() { _ = rl.Close() }()

	session := newReplSession(cmdCtx)
	r := cmdCtx.Renderer
	r.Println("rwspec REPL. Type .help for commands, .quit to exit")
	r.Println("")

	var buf strings.Builder
	for {
		line, err := rl.Readline()
		if errors.Is(err, readline.ErrInterrupt) {
			buf.Reset()
			rl.SetPrompt(replPrompt)
			continue
		}
		if errors.Is(err, io.EOF) {
			return nil
		}
		if err != nil {
			return err
		}

		if strings.HasSuffix(line, `\`) {
			buf.WriteString(strings.TrimSuffix(line, `\`))
			buf.WriteString("\n")
			rl.SetPrompt(replContPrompt)
			continue
		}
		buf.WriteString(line)
		input := buf.String()
		buf.Reset()
		rl.SetPrompt(replPrompt)

		if session.eval(input) {
			return nil
		}
	}
}

// replSession holds the statements entered during a REPL session.
type replSession struct {
	r                  *output.Renderer
	lintCfg            *lint.Config
	includeAnnotations bool
	defs               core.Definitions
}

func newReplSession(cmdCtx *CommandContext) *replSession {
	return &replSession{
		r:                  cmdCtx.Renderer,
		lintCfg:            cmdCtx.Cfg.LintConfig(),
		includeAnnotations: cmdCtx.Cfg.Validation.IncludeAnnotations,
	}
}

// eval handles one input and reports whether the session should end.
func (s *replSession) eval(input string) bool {
	input = strings.TrimSpace(input)
	if input == "" {
		return false
	}
	if strings.HasPrefix(input, ".") {
		return s.dotCommand(input)
	}

	fields := strings.Fields(input)
	if token.IsStatementStart(token.LookupIdent(fields[0])) {
		s.evalStatement(input)
		return false
	}

	rep, err := inspect.Term(input)
	if err != nil {
		s.printError(err)
		return false
	}
	renderInspect(s.r, rep)
	return false
}

func (s *replSession) evalStatement(input string) {
	stmt, err := parser.ParseStatement(input, parser.WithAnnotationScope(s.includeAnnotations))
	if err != nil {
		s.printError(err)
		return
	}
	s.defs = append(s.defs, stmt)
	idx := len(s.defs) - 1

	styles := s.r.Styles()
	s.r.Println(styles.Code.Render(strings.TrimRight(format.Statement(stmt), "\n")))
	s.r.Printf("%s %s  %s %s\n",
		styles.Muted.Render("kind"), stmt.Kind(),
		styles.Muted.Render("fingerprint"), catalog.Fingerprint(stmt))

	for _, d := range lint.NewAnalyzer(s.lintCfg).Analyze(s.defs) {
		if d.Index != idx {
			continue
		}
		s.r.Printf("  %s  %s  %s\n", severityStyle(s.r, d.Severity), styles.Bold.Render(d.RuleID), d.Message)
	}
}

func (s *replSession) printError(err error) {
	ce := newCheckError(err)
	if ce.Line > 0 {
		s.r.Printf("%s %d:%d: %s\n", s.r.Styles().Error.Render("error"), ce.Line, ce.Column, ce.Message)
		return
	}
	s.r.Printf("%s %s\n", s.r.Styles().Error.Render("error"), ce.Message)
}

func (s *replSession) dotCommand(line string) bool {
	parts := strings.Fields(line)
	switch strings.ToLower(parts[0]) {
	case ".quit", ".exit":
		return true
	case ".help":
		printReplHelp(s.r.Writer())
	case ".defs":
		if len(s.defs) == 0 {
			s.r.Println("(no statements)")
			break
		}
		s.r.Print(format.Definitions(s.defs))
	case ".reset":
		s.defs = nil
		s.r.Println("session cleared")
	case ".scope":
		if len(parts) > 1 {
			switch parts[1] {
			case "on", "annotations":
				s.includeAnnotations = true
			case "off", "terms":
				s.includeAnnotations = false
			default:
				s.r.Println("Usage: .scope [on|off]")
				return false
			}
		}
		scope := "terms only"
		if s.includeAnnotations {
			scope = "terms and annotations"
		}
		s.r.Println("validation scope: " + scope)
	case ".export":
		f := export.FormatJSON
		if len(parts) > 1 {
			f = parts[1]
		}
		if err := export.Write(s.r.Writer(), f, s.defs); err != nil {
			s.printError(err)
		}
	default:
		s.r.Printf("Unknown command: %s (type .help for commands)\n", parts[0])
	}
	return false
}

func printReplHelp(w io.Writer) {
	help := `
Commands:
  .help               Show this help message
  .defs               Print the statements entered so far
  .reset              Forget the statements entered so far
  .scope [on|off]     Include annotation terminals in hole validation
  .export [json|yaml] Export the session's statements
  .quit / .exit       Exit the REPL

Input:
  rw r (f ?x) => ?x   Parse, record, and lint a statement
  (cons ?h ?t)        Inspect a term
  line \              Continue input on the next line
`
	_, _ = fmt.Fprintln(w, help)
}

// newReplCompleter completes dot-commands and statement keywords.
func newReplCompleter() *readline.PrefixCompleter {
	var items []readline.PrefixCompleterInterface
	for _, kw := range token.Keywords() {
		if token.IsStatementStart(token.LookupIdent(kw)) {
			items = append(items, readline.PcItem(kw))
		}
	}
	items = append(items,
		readline.PcItem(".help"),
		readline.PcItem(".defs"),
		readline.PcItem(".reset"),
		readline.PcItem(".scope", readline.PcItem("on"), readline.PcItem("off")),
		readline.PcItem(".export", readline.PcItem("json"), readline.PcItem("yaml")),
		readline.PcItem(".quit"),
		readline.PcItem(".exit"),
	)
	return readline.NewPrefixCompleter(items...)
}
