package commands

import (
	"context"
	"errors"
	"fmt"

	"github.com/leapstack-labs/rwspec/internal/cli/output"
	"github.com/leapstack-labs/rwspec/internal/loader"
	"github.com/leapstack-labs/rwspec/internal/watch"
	"github.com/leapstack-labs/rwspec/pkg/core"
	"github.com/leapstack-labs/rwspec/pkg/parser"
	"github.com/spf13/cobra"
)

// ErrInvalidDefinitions is returned when a check finds invalid statements.
var ErrInvalidDefinitions = errors.New("definitions contain invalid statements")

// CheckOutput is the JSON form of a check run.
type CheckOutput struct {
	Files      []CheckFile `json:"files"`
	Statements int         `json:"statements"`
	Errors     int         `json:"errors"`
}

// CheckFile is one file's part of CheckOutput.
type CheckFile struct {
	Path       string       `json:"path"`
	Hash       string       `json:"hash"`
	Statements int          `json:"statements"`
	Errors     []CheckError `json:"errors,omitempty"`
}

// CheckError locates one rejected statement.
type CheckError struct {
	Message  string `json:"message"`
	Line     int    `json:"line,omitempty"`
	Column   int    `json:"column,omitempty"`
	Conflict string `json:"conflict,omitempty"`
}

func newCheckError(err error) CheckError {
	ce := CheckError{Message: err.Error()}
	var perr *parser.ParseError
	if errors.As(err, &perr) {
		ce.Message = perr.Message
		ce.Line = perr.Pos.Line
		ce.Column = perr.Pos.Column
	}
	var conflict *core.HoleConflictError
	if errors.As(err, &conflict) {
		ce.Conflict = conflict.Name
	}
	return ce
}

// NewCheckCommand creates the check command.
func NewCheckCommand() *cobra.Command {
	var watchFlag bool

	cmd := &cobra.Command{
		Use:   "check [paths...]",
		Short: "Parse and validate definition files",
		Long: `Parse every *.rws file under the given paths (default: definitions_dir)
and report statements that fail to parse or use an identifier both as a hole
and as a normal id.

Each invalid statement is reported; valid statements in the same file are
still counted.`,
		Example: `  # Check the configured definitions directory
  rwspec check

  # Check specific files
  rwspec check rules/list.rws rules/nat.rws

  # Re-check whenever a file changes
  rwspec check --watch`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cmdCtx, err := NewCommandContext(cmd)
			if err != nil {
				return err
			}
			roots := cmdCtx.Roots(args)
			if !watchFlag {
				return runCheck(cmd.Context(), cmdCtx, roots)
			}
			return runCheckWatch(cmd.Context(), cmdCtx, roots)
		},
	}

	cmd.Flags().BoolVarP(&watchFlag, "watch", "w", false, "Re-run the check when a definition file changes")
	return cmd
}

func runCheck(ctx context.Context, cmdCtx *CommandContext, roots []string) error {
	result, err := cmdCtx.Load(ctx, roots, cmdCtx.LoaderOptions())
	if err != nil {
		return err
	}
	renderCheck(cmdCtx.Renderer, result)
	if result.HasErrors() {
		return fmt.Errorf("%w: %d errors", ErrInvalidDefinitions, result.ErrorCount())
	}
	return nil
}

// runCheckWatch checks once, then again after every debounced change,
// until the context is cancelled.
func runCheckWatch(ctx context.Context, cmdCtx *CommandContext, roots []string) error {
	if err := runCheck(ctx, cmdCtx, roots); err != nil && !errors.Is(err, ErrInvalidDefinitions) {
		return err
	}
	cmdCtx.Renderer.Println(cmdCtx.Renderer.Muted("Watching for changes. Press Ctrl+C to stop."))

	err := watch.Run(ctx, roots, watch.Options{
		Extension: loader.Extension,
		Logger:    cmdCtx.Logger,
	}, func(ctx context.Context, paths []string) {
		cmdCtx.Logger.Debug("files changed", "paths", paths)
		cmdCtx.Renderer.Println("")
		if err := runCheck(ctx, cmdCtx, roots); err != nil && !errors.Is(err, ErrInvalidDefinitions) {
			cmdCtx.Renderer.Warning(err.Error())
		}
	})
	if errors.Is(err, context.Canceled) {
		return nil
	}
	return err
}

func buildCheckOutput(result *loader.Result) CheckOutput {
	out := CheckOutput{Files: []CheckFile{}}
	for _, f := range result.Files {
		cf := CheckFile{Path: f.Path, Hash: f.Hash}
		if f.Source != nil {
			cf.Statements = len(f.Source.Statements)
		}
		for _, e := range f.Errors {
			cf.Errors = append(cf.Errors, newCheckError(e))
		}
		out.Statements += cf.Statements
		out.Errors += len(cf.Errors)
		out.Files = append(out.Files, cf)
	}
	return out
}

func renderCheck(r *output.Renderer, result *loader.Result) {
	out := buildCheckOutput(result)

	if r.EffectiveMode() == output.ModeJSON {
		_ = r.JSON(out)
		return
	}

	markdown := r.EffectiveMode() == output.ModeMarkdown
	if markdown {
		r.Println(output.FormatHeader(1, "Check"))
		r.Println("")
	}

	for _, f := range out.Files {
		if len(f.Errors) == 0 {
			continue
		}
		if markdown {
			r.Println(output.FormatHeader(2, f.Path))
			r.Println("")
		} else {
			r.Println(r.Styles().Path.Render(f.Path))
		}
		for _, e := range f.Errors {
			loc := "-"
			if e.Line > 0 {
				loc = fmt.Sprintf("%d:%d", e.Line, e.Column)
			}
			if markdown {
				r.Printf("- `%s` %s\n", loc, e.Message)
				continue
			}
			r.Printf("  %s  %s  %s\n",
				r.Styles().Muted.Render(fmt.Sprintf("%-7s", loc)),
				r.Styles().Error.Render("error"),
				e.Message)
		}
		r.Println("")
	}

	if out.Errors == 0 {
		r.Success(fmt.Sprintf("%d statements in %d files are valid", out.Statements, len(out.Files)))
	}
	r.Println(r.Muted(result.Summary()))
}
