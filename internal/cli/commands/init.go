package commands

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/leapstack-labs/rwspec/internal/cli/output"
	"github.com/leapstack-labs/rwspec/internal/config"
	"github.com/spf13/cobra"
)

// NewInitCommand creates the init command.
func NewInitCommand() *cobra.Command {
	var force, example bool

	cmd := &cobra.Command{
		Use:   "init [directory]",
		Short: "Initialize a new rwspec project",
		Long: `Initialize a new rwspec project.

This creates:
  - rwspec.yaml configuration file
  - definitions/ directory with a starter file
  - .gitignore excluding the .rwspec/ catalog directory

Use --example to start from a small library of list and natural number
definitions.`,
		Example: `  # Initialize in current directory
  rwspec init

  # Initialize a new directory with example definitions
  rwspec init my-rules --example

  # Overwrite an existing configuration
  rwspec init --force`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			dir := "."
			if len(args) > 0 {
				dir = args[0]
			}
			// init runs before a project exists, so it does not load config.
			r := output.NewRenderer(cmd.OutOrStdout(), cmd.ErrOrStderr(), output.ModeAuto)
			template := "minimal"
			if example {
				template = "example"
			}
			return runInit(r, dir, template, force)
		},
	}

	cmd.Flags().BoolVar(&force, "force", false, "Overwrite existing files")
	cmd.Flags().BoolVar(&example, "example", false, "Create example list and nat definitions")
	return cmd
}

func runInit(r *output.Renderer, dir, template string, force bool) error {
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return fmt.Errorf("failed to create directory %s: %w", dir, err)
	}

	configPath := filepath.Join(dir, config.ConfigFileName)
	if _, err := os.Stat(configPath); err == nil && !force {
		return fmt.Errorf("%s already exists. Use --force to overwrite", configPath)
	}

	if err := copyTemplate(template, dir, force); err != nil {
		return fmt.Errorf("failed to initialize project: %w", err)
	}

	files, err := listTemplateFiles(template)
	if err != nil {
		return err
	}
	for _, f := range files {
		r.Printf("  %s %s\n", r.Styles().Success.Render("created"), f)
	}

	r.Println("")
	r.Success("rwspec project initialized!")
	r.Println("")
	r.Println("Next steps:")
	r.Println("  rwspec check    Validate every statement")
	r.Println("  rwspec lint     Look for suspicious rules")
	r.Println("  rwspec index    Store statements in the catalog")
	r.Println("  rwspec repl     Explore terms interactively")
	return nil
}
