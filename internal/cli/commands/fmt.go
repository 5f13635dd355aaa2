package commands

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/leapstack-labs/rwspec/internal/loader"
	"github.com/leapstack-labs/rwspec/pkg/format"
	"github.com/leapstack-labs/rwspec/pkg/parser"
	"github.com/spf13/cobra"
)

// ErrNotFormatted is returned by fmt --check when a file would change.
var ErrNotFormatted = errors.New("files are not formatted")

// FmtOptions holds options for the fmt command.
type FmtOptions struct {
	Write bool // Rewrite files in place
	Check bool // Only report files that would change
}

// NewFmtCommand creates the fmt command.
func NewFmtCommand() *cobra.Command {
	opts := &FmtOptions{}
	cmd := &cobra.Command{
		Use:   "fmt [paths...]",
		Short: "Format definition files",
		Long: `Print definition files in canonical layout.

Formatting keeps comments and statement order. A file that fails to parse is
reported and left untouched. Use "-" to format standard input.`,
		Example: `  # Print the formatted definitions directory
  rwspec fmt

  # Rewrite files in place
  rwspec fmt --write

  # Fail when a file is not formatted (for CI)
  rwspec fmt --check

  # Format standard input
  echo 'rw a   (f ?x) =>   ?x' | rwspec fmt -`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runFmt(cmd, args, opts)
		},
	}

	cmd.Flags().BoolVar(&opts.Write, "write", false, "Write the result back to each file")
	cmd.Flags().BoolVar(&opts.Check, "check", false, "List files whose formatting differs and fail if any")
	cmd.MarkFlagsMutuallyExclusive("write", "check")
	return cmd
}

func runFmt(cmd *cobra.Command, args []string, opts *FmtOptions) error {
	cmdCtx, err := NewCommandContext(cmd)
	if err != nil {
		return err
	}
	r := cmdCtx.Renderer
	parseOpts := cmdCtx.ParseOptions()

	if len(args) == 1 && args[0] == "-" {
		content, err := io.ReadAll(cmd.InOrStdin())
		if err != nil {
			return fmt.Errorf("failed to read stdin: %w", err)
		}
		formatted, err := formatSource(string(content), parseOpts)
		if err != nil {
			return fmt.Errorf("<stdin>: %w", err)
		}
		_, _ = io.WriteString(r.Writer(), formatted)
		return nil
	}

	paths, err := loader.DiscoverAll(cmdCtx.Roots(args))
	if err != nil {
		return fmt.Errorf("failed to discover definition files: %w", err)
	}

	var failed, changed int
	for _, path := range paths {
		content, err := os.ReadFile(path) //nolint:gosec // G304: path comes from Discover
		if err != nil {
			return fmt.Errorf("failed to read %s: %w", path, err)
		}
		formatted, err := formatSource(string(content), parseOpts)
		if err != nil {
			failed++
			r.Warning(fmt.Sprintf("%s: %v", path, err))
			continue
		}

		same := formatted == string(content)
		switch {
		case opts.Check:
			if !same {
				changed++
				r.Println(path)
			}
		case opts.Write:
			if same {
				continue
			}
			if err := os.WriteFile(path, []byte(formatted), 0o600); err != nil {
				return fmt.Errorf("failed to write %s: %w", path, err)
			}
			changed++
			cmdCtx.Logger.Debug("formatted", "path", path)
			r.Println(path)
		default:
			if len(paths) > 1 {
				r.Printf("-- %s\n", path)
			}
			_, _ = io.WriteString(r.Writer(), formatted)
		}
	}

	if failed > 0 {
		return fmt.Errorf("%w: %d files failed to parse", ErrInvalidDefinitions, failed)
	}
	if opts.Check && changed > 0 {
		return fmt.Errorf("%w: %d of %d", ErrNotFormatted, changed, len(paths))
	}
	return nil
}

func formatSource(content string, opts []parser.Option) (string, error) {
	src, err := parser.ParseSource(content, opts...)
	if err != nil {
		return "", err
	}
	return format.Source(src), nil
}
