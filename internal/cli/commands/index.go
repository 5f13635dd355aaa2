package commands

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/leapstack-labs/rwspec/internal/catalog"
	"github.com/leapstack-labs/rwspec/internal/cli/output"
	"github.com/leapstack-labs/rwspec/internal/loader"
	"github.com/spf13/cobra"
)

// IndexOutput is the JSON form of an index run.
type IndexOutput struct {
	Run     *catalog.Run `json:"run"`
	Indexed []string     `json:"indexed"`
	Skipped int          `json:"skipped"`
	Removed []string     `json:"removed"`
	Failed  []string     `json:"failed"`
}

// NewIndexCommand creates the index command.
func NewIndexCommand() *cobra.Command {
	var force bool

	cmd := &cobra.Command{
		Use:   "index [paths...]",
		Short: "Index definitions into the catalog",
		Long: `Parse definition files and store their statements in the SQLite catalog
(catalog.path, default .rwspec/catalog.db).

Files whose content hash matches the catalog are skipped unless --force is
given. Files that no longer exist are removed. A file with an invalid
statement is dropped from the catalog until it parses again.`,
		Example: `  # Index the definitions directory
  rwspec index

  # Re-index every file
  rwspec index --force

  # Use a different catalog
  rwspec index --catalog /tmp/catalog.db`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cmdCtx, err := NewCommandContext(cmd)
			if err != nil {
				return err
			}
			return runIndex(cmd.Context(), cmdCtx, cmdCtx.Roots(args), force)
		},
	}

	cmd.Flags().BoolVar(&force, "force", false, "Re-index files even when unchanged")
	cmd.Flags().String("catalog", "", "Path to the catalog database")
	return cmd
}

func runIndex(ctx context.Context, cmdCtx *CommandContext, roots []string, force bool) error {
	for i, root := range roots {
		if abs, err := filepath.Abs(root); err == nil {
			roots[i] = abs
		}
	}
	paths, err := loader.DiscoverAll(roots)
	if err != nil {
		return fmt.Errorf("failed to discover definition files: %w", err)
	}

	cat, err := catalog.Open(ctx, cmdCtx.Cfg.Catalog.Path, cmdCtx.Logger)
	if err != nil {
		return err
	}
	defer func() { _ = cat.Close() }()

	run, err := cat.BeginRun(ctx)
	if err != nil {
		return err
	}

	opts := cmdCtx.LoaderOptions()
	if !force {
		opts.Unchanged = func(path, hash string) bool {
			stored, err := cat.FileHash(ctx, path)
			return err == nil && stored == hash
		}
	}

	out, result, err := indexFiles(ctx, cat, run, paths, opts)
	if err != nil {
		if cerr := cat.CompleteRun(context.WithoutCancel(ctx), run, catalog.RunStatusFailed, err.Error()); cerr != nil {
			cmdCtx.Logger.Error("failed to record run failure", "run_id", run.ID, "error", cerr)
		}
		return err
	}
	if err := cat.CompleteRun(ctx, run, catalog.RunStatusCompleted, ""); err != nil {
		return err
	}

	renderIndex(cmdCtx.Renderer, out, result)
	if len(out.Failed) > 0 {
		return fmt.Errorf("%w: %d files not indexed", ErrInvalidDefinitions, len(out.Failed))
	}
	return nil
}

// indexFiles loads paths and stores every valid, changed file under run.
func indexFiles(ctx context.Context, cat *catalog.Catalog, run *catalog.Run, paths []string, opts loader.Options) (*IndexOutput, *loader.Result, error) {
	result, err := loader.LoadFiles(ctx, paths, opts)
	if err != nil {
		return nil, nil, err
	}

	out := &IndexOutput{Run: run, Indexed: []string{}, Removed: []string{}, Failed: []string{}}
	for _, f := range result.Files {
		switch {
		case f.Skipped:
			out.Skipped++
		case !f.OK():
			if err := cat.DeleteFile(ctx, f.Path); err != nil {
				return nil, nil, err
			}
			run.Errors += len(f.Errors)
			out.Failed = append(out.Failed, f.Path)
		default:
			if err := cat.UpsertFile(ctx, run.ID, f.Path, f.Hash); err != nil {
				return nil, nil, err
			}
			if err := cat.ReplaceStatements(ctx, f.Path, f.Source); err != nil {
				return nil, nil, err
			}
			run.Statements += len(f.Source.Statements)
			out.Indexed = append(out.Indexed, f.Path)
		}
	}
	run.Files = len(result.Files)

	removed, err := pruneMissing(ctx, cat)
	if err != nil {
		return nil, nil, err
	}
	out.Removed = append(out.Removed, removed...)
	return out, result, nil
}

// pruneMissing drops catalog entries whose file no longer exists.
func pruneMissing(ctx context.Context, cat *catalog.Catalog) ([]string, error) {
	files, err := cat.ListFiles(ctx)
	if err != nil {
		return nil, err
	}
	var removed []string
	for _, p := range files {
		if _, err := os.Stat(p); !errors.Is(err, os.ErrNotExist) {
			continue
		}
		if err := cat.DeleteFile(ctx, p); err != nil {
			return nil, err
		}
		removed = append(removed, p)
	}
	return removed, nil
}

func renderIndex(r *output.Renderer, out *IndexOutput, result *loader.Result) {
	if r.EffectiveMode() == output.ModeJSON {
		_ = r.JSON(out)
		return
	}
	if len(out.Failed) > 0 {
		renderCheck(r, result)
	}
	for _, p := range out.Indexed {
		r.Printf("  %s %s\n", r.Styles().Success.Render("indexed"), p)
	}
	for _, p := range out.Removed {
		r.Printf("  %s %s\n", r.Styles().Warning.Render("removed"), p)
	}
	r.Success(fmt.Sprintf("Indexed %d statements from %d files (%d unchanged, %d removed)",
		out.Run.Statements, len(out.Indexed), out.Skipped, len(out.Removed)))
	r.Println(r.Muted("run " + out.Run.ID))
}
