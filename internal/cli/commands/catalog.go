package commands

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/leapstack-labs/rwspec/internal/catalog"
	"github.com/leapstack-labs/rwspec/internal/cli/output"
	"github.com/leapstack-labs/rwspec/pkg/core"
	"github.com/spf13/cobra"
)

// NewCatalogCommand creates the catalog command and its subcommands.
func NewCatalogCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "catalog",
		Short: "Query the statement catalog",
		Long: `Query statements stored by "rwspec index".

Statements carry a fingerprint of their structure without their name, so
"catalog dups" finds rules that say the same thing under different names.`,
	}
	cmd.PersistentFlags().String("catalog", "", "Path to the catalog database")

	cmd.AddCommand(newCatalogStatementsCommand())
	cmd.AddCommand(newCatalogFilesCommand())
	cmd.AddCommand(newCatalogRunsCommand())
	cmd.AddCommand(newCatalogDupsCommand())
	return cmd
}

// withCatalog opens the configured catalog for the duration of fn.
func withCatalog(cmd *cobra.Command, fn func(ctx context.Context, cmdCtx *CommandContext, cat *catalog.Catalog) error) error {
	cmdCtx, err := NewCommandContext(cmd)
	if err != nil {
		return err
	}
	ctx := cmd.Context()
	cat, err := catalog.Open(ctx, cmdCtx.Cfg.Catalog.Path, cmdCtx.Logger)
	if err != nil {
		return err
	}
	defer func() { _ = cat.Close() }()
	return fn(ctx, cmdCtx, cat)
}

func newCatalogStatementsCommand() *cobra.Command {
	var f struct {
		kind, name, file string
		limit            int
	}
	cmd := &cobra.Command{
		Use:     "statements",
		Aliases: []string{"ls"},
		Short:   "List indexed statements",
		Example: `  rwspec catalog statements --kind rewrite
  rwspec catalog statements --name app_base -o json`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withCatalog(cmd, func(ctx context.Context, cmdCtx *CommandContext, cat *catalog.Catalog) error {
				recs, err := cat.ListStatements(ctx, catalog.Filter{
					Kind:  core.StatementKind(f.kind),
					Name:  f.name,
					File:  f.file,
					Limit: f.limit,
				})
				if err != nil {
					return err
				}
				renderStatements(cmdCtx.Renderer, recs)
				return nil
			})
		},
	}
	cmd.Flags().StringVar(&f.kind, "kind", "", "Filter by statement kind")
	cmd.Flags().StringVar(&f.name, "name", "", "Filter by statement name")
	cmd.Flags().StringVar(&f.file, "file", "", "Filter by file path")
	cmd.Flags().IntVar(&f.limit, "limit", 0, "Maximum number of statements")
	return cmd
}

func renderStatements(r *output.Renderer, recs []catalog.StatementRecord) {
	if r.EffectiveMode() == output.ModeJSON {
		if recs == nil {
			recs = []catalog.StatementRecord{}
		}
		_ = r.JSON(recs)
		return
	}
	if len(recs) == 0 {
		r.Println("(0 statements)")
		return
	}
	rows := make([][]string, len(recs))
	for i, rec := range recs {
		rows[i] = []string{
			fmt.Sprintf("%s:%d", rec.File, rec.Line),
			rec.Kind,
			rec.Name,
			rec.Fingerprint,
			rec.Source,
		}
	}
	r.Table([]string{"Location", "Kind", "Name", "Fingerprint", "Source"}, rows)
	r.Printf("(%d statements)\n", len(recs))
}

func newCatalogFilesCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "files",
		Short: "List indexed files",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withCatalog(cmd, func(ctx context.Context, cmdCtx *CommandContext, cat *catalog.Catalog) error {
				files, err := cat.ListFiles(ctx)
				if err != nil {
					return err
				}
				r := cmdCtx.Renderer
				if r.EffectiveMode() == output.ModeJSON {
					if files == nil {
						files = []string{}
					}
					return r.JSON(files)
				}
				rows := make([][]string, len(files))
				for i, p := range files {
					hash, err := cat.FileHash(ctx, p)
					if err != nil {
						return err
					}
					rows[i] = []string{p, hash}
				}
				r.Table([]string{"File", "Content Hash"}, rows)
				return nil
			})
		},
	}
}

func newCatalogRunsCommand() *cobra.Command {
	var limit int
	cmd := &cobra.Command{
		Use:   "runs",
		Short: "List recent index runs",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withCatalog(cmd, func(ctx context.Context, cmdCtx *CommandContext, cat *catalog.Catalog) error {
				runs, err := cat.ListRuns(ctx, limit)
				if err != nil {
					return err
				}
				r := cmdCtx.Renderer
				if r.EffectiveMode() == output.ModeJSON {
					if runs == nil {
						runs = []*catalog.Run{}
					}
					return r.JSON(runs)
				}
				rows := make([][]string, len(runs))
				for i, run := range runs {
					rows[i] = []string{
						run.ID,
						string(run.Status),
						run.StartedAt.Local().Format(time.DateTime),
						strconv.Itoa(run.Files),
						strconv.Itoa(run.Statements),
						strconv.Itoa(run.Errors),
					}
				}
				r.Table([]string{"Run", "Status", "Started", "Files", "Statements", "Errors"}, rows)
				return nil
			})
		},
	}
	cmd.Flags().IntVar(&limit, "limit", 20, "Maximum number of runs")
	return cmd
}

func newCatalogDupsCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "dups",
		Short: "Find structurally identical statements",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withCatalog(cmd, func(ctx context.Context, cmdCtx *CommandContext, cat *catalog.Catalog) error {
				groups, err := cat.Duplicates(ctx)
				if err != nil {
					return err
				}
				r := cmdCtx.Renderer
				if r.EffectiveMode() == output.ModeJSON {
					return r.JSON(groups)
				}
				if len(groups) == 0 {
					r.Success("No duplicate statements found")
					return nil
				}
				for _, g := range groups {
					r.Header(2, fmt.Sprintf("%s (%d statements)", g[0].Fingerprint, len(g)))
					rows := make([][]string, len(g))
					for i, rec := range g {
						rows[i] = []string{fmt.Sprintf("%s:%d", rec.File, rec.Line), rec.Name, rec.Source}
					}
					r.Table([]string{"Location", "Name", "Source"}, rows)
				}
				return nil
			})
		},
	}
}
