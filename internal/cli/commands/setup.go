package commands

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/leapstack-labs/rwspec/internal/cli/output"
	"github.com/leapstack-labs/rwspec/internal/config"
	"github.com/leapstack-labs/rwspec/internal/loader"
	"github.com/leapstack-labs/rwspec/pkg/parser"
	"github.com/spf13/cobra"
)

// configKey stores the loaded config in the command context.
type configKey struct{}

// WithConfig stores cfg in ctx.
func WithConfig(ctx context.Context, cfg *config.Config) context.Context {
	return context.WithValue(ctx, configKey{}, cfg)
}

// CommandContext holds common dependencies for CLI commands.
type CommandContext struct {
	Cfg      *config.Config
	Logger   *slog.Logger
	Renderer *output.Renderer
}

// NewCommandContext collects the config, logger, and renderer for cmd.
// Commands run outside the root command load the config from the working
// directory and environment.
func NewCommandContext(cmd *cobra.Command) (*CommandContext, error) {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	cfg, ok := ctx.Value(configKey{}).(*config.Config)
	if !ok || cfg == nil {
		var err error
		cfg, err = config.LoadConfig("", cmd.Flags())
		if err != nil {
			return nil, err
		}
	}

	mode, err := output.ParseMode(cfg.Output)
	if err != nil {
		return nil, err
	}

	return &CommandContext{
		Cfg:      cfg,
		Logger:   config.GetLogger(ctx),
		Renderer: output.NewRenderer(cmd.OutOrStdout(), cmd.ErrOrStderr(), mode),
	}, nil
}

// ParseOptions returns the parser options the config selects.
func (c *CommandContext) ParseOptions() []parser.Option {
	return []parser.Option{parser.WithAnnotationScope(c.Cfg.Validation.IncludeAnnotations)}
}

// LoaderOptions returns loader options for the configured worker count.
func (c *CommandContext) LoaderOptions() loader.Options {
	return loader.Options{
		Workers: c.Cfg.Loader.Workers,
		Parse:   c.ParseOptions(),
		Logger:  c.Logger,
	}
}

// Roots returns args, or the configured definitions directory when args is
// empty.
func (c *CommandContext) Roots(args []string) []string {
	if len(args) > 0 {
		return args
	}
	return []string{c.Cfg.DefinitionsDir}
}

// Load discovers and parses every definition file under roots.
func (c *CommandContext) Load(ctx context.Context, roots []string, opts loader.Options) (*loader.Result, error) {
	paths, err := loader.DiscoverAll(roots)
	if err != nil {
		return nil, fmt.Errorf("failed to discover definition files: %w", err)
	}
	return loader.LoadFiles(ctx, paths, opts)
}
