package commands

import (
	"fmt"
	"os"

	"github.com/leapstack-labs/rwspec/internal/server"
	"github.com/spf13/cobra"
)

// ServeOptions holds options for the serve command.
type ServeOptions struct {
	Watch     bool
	NoWorkdir bool
}

// NewServeCommand creates the serve command.
func NewServeCommand() *cobra.Command {
	opts := &ServeOptions{}

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP API",
		Long: `Start an HTTP server exposing parse, check, format, and inspect endpoints.

When the definitions directory exists it is loaded at startup and served under
/v1/workspace; /v1/events streams a signal patch whenever it is reloaded.

Endpoints:
  GET  /healthz
  GET  /v1/rules
  POST /v1/parse     {"source": "..."}
  POST /v1/check     {"source": "..."}
  POST /v1/format    {"source": "..."}
  POST /v1/inspect   {"term": "..."}
  GET  /v1/workspace
  GET  /v1/workspace/definitions?format=json|yaml
  GET  /v1/events`,
		Example: `  # Serve on the configured address
  rwspec serve

  # Serve on a custom address and reload on file changes
  rwspec serve --addr 127.0.0.1:9000 --watch`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runServe(cmd, opts)
		},
	}

	cmd.Flags().String("addr", "", "Listen address (default: serve.addr)")
	cmd.Flags().BoolVar(&opts.Watch, "watch", false, "Reload the workspace when a definition file changes")
	cmd.Flags().BoolVar(&opts.NoWorkdir, "no-workspace", false, "Do not load the definitions directory")
	return cmd
}

func runServe(cmd *cobra.Command, opts *ServeOptions) error {
	cmdCtx, err := NewCommandContext(cmd)
	if err != nil {
		return err
	}
	cfg := cmdCtx.Cfg

	dir := ""
	if !opts.NoWorkdir {
		if info, err := os.Stat(cfg.DefinitionsDir); err == nil && info.IsDir() {
			dir = cfg.DefinitionsDir
		} else {
			cmdCtx.Logger.Warn("definitions directory not found, workspace endpoints disabled", "dir", cfg.DefinitionsDir)
		}
	}

	srv := server.New(server.Config{
		Addr:               cfg.Serve.Addr,
		Dir:                dir,
		Watch:              opts.Watch && dir != "",
		Workers:            cfg.Loader.Workers,
		IncludeAnnotations: cfg.Validation.IncludeAnnotations,
		Lint:               cfg.LintConfig(),
		Logger:             cmdCtx.Logger,
	})

	cmdCtx.Renderer.Println(fmt.Sprintf("Serving rwspec API on %s", cfg.Serve.Addr))
	cmdCtx.Renderer.Println(cmdCtx.Renderer.Muted("Press Ctrl+C to stop"))
	return srv.Serve(cmd.Context())
}
