package commands

import (
	"fmt"
	"io"
	"os"

	"github.com/leapstack-labs/rwspec/internal/export"
	"github.com/spf13/cobra"
)

// NewExportCommand creates the export command.
func NewExportCommand() *cobra.Command {
	var format, out string

	cmd := &cobra.Command{
		Use:   "export [paths...]",
		Short: "Export definitions as JSON or YAML",
		Long: `Parse definition files and write every statement as a JSON or YAML
document for downstream rewriting and proving engines.

Export refuses to write a document when any statement is invalid; run
"rwspec check" to see why.`,
		Example: `  # Export the definitions directory as JSON
  rwspec export > definitions.json

  # Export as YAML to a file
  rwspec export --format yaml --out definitions.yaml`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cmdCtx, err := NewCommandContext(cmd)
			if err != nil {
				return err
			}
			result, err := cmdCtx.Load(cmd.Context(), cmdCtx.Roots(args), cmdCtx.LoaderOptions())
			if err != nil {
				return err
			}
			if result.HasErrors() {
				renderCheck(cmdCtx.Renderer, result)
				return fmt.Errorf("%w: %d errors", ErrInvalidDefinitions, result.ErrorCount())
			}

			var w io.Writer = cmdCtx.Renderer.Writer()
			if out != "" {
				f, err := os.Create(out) //nolint:gosec // G304: output path is user-provided
				if err != nil {
					return fmt.Errorf("failed to create %s: %w", out, err)
				}
				defer func() { _ = f.Close() }()
				w = f
			}

			defs := result.Definitions()
			if err := export.Write(w, format, defs); err != nil {
				return err
			}
			cmdCtx.Logger.Debug("exported definitions", "statements", len(defs), "format", format, "out", out)
			return nil
		},
	}

	cmd.Flags().StringVarP(&format, "format", "f", export.FormatJSON, "Document format: json, yaml")
	cmd.Flags().StringVar(&out, "out", "", "Write to a file instead of stdout")
	_ = cmd.RegisterFlagCompletionFunc("format", func(_ *cobra.Command, _ []string, _ string) ([]string, cobra.ShellCompDirective) {
		return []string{export.FormatJSON, export.FormatYAML}, cobra.ShellCompDirectiveNoFileComp
	})
	return cmd
}
