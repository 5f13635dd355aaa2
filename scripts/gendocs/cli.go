package main

import (
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"

	"github.com/leapstack-labs/rwspec/internal/cli"
	"github.com/leapstack-labs/rwspec/internal/config"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

// generateCLIDocs generates CLI documentation from Cobra commands.
func generateCLIDocs(outDir string) error {
	log.Printf("Generating CLI docs to %s", outDir)

	// Create output directory
	if err := os.MkdirAll(outDir, 0750); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}

	// Get root command
	rootCmd := cli.NewRootCmd()

	// Generate index page
	if err := generateCLIIndex(rootCmd, outDir); err != nil {
		return fmt.Errorf("failed to generate index: %w", err)
	}
	log.Printf("  Generated index.md")

	// Command pages go under commands/, apart from the overview.
	cmdDir := filepath.Join(outDir, commandsDir)
	if err := os.MkdirAll(cmdDir, 0750); err != nil {
		return fmt.Errorf("failed to create commands directory: %w", err)
	}
	for _, cmd := range documentedCommands(rootCmd) {
		if err := generateCommandPage(cmd, cmdDir); err != nil {
			return fmt.Errorf("failed to generate page for %s: %w", cmd.Name(), err)
		}
		log.Printf("  Generated %s/%s.md", commandsDir, cmd.Name())
	}

	return nil
}

// commandsDir is the subdirectory of the CLI docs holding one page per command.
const commandsDir = "commands"

// documentedCommands returns the visible top-level commands.
func documentedCommands(rootCmd *cobra.Command) []*cobra.Command {
	var out []*cobra.Command
	for _, cmd := range rootCmd.Commands() {
		if cmd.Hidden || cmd.Name() == "help" || cmd.Name() == "__complete" {
			continue
		}
		out = append(out, cmd)
	}
	return out
}

// commandLink is the site path of a command page.
func commandLink(name string) string {
	return "/cli/" + commandsDir + "/" + name
}

// generateCLIIndex generates the CLI overview page.
func generateCLIIndex(rootCmd *cobra.Command, outDir string) error {
	w := NewMarkdownWriter()

	w.Frontmatter("CLI Reference", "Command-line interface reference for rwspec")
	w.GeneratedMarker()

	w.Header(1, "CLI Reference")
	w.Paragraph("rwspec checks, formats, lints, exports, and indexes rewrite definition files.")

	w.Header(2, "Installation")
	w.CodeBlock("bash", "go install github.com/leapstack-labs/rwspec/cmd/rwspec@latest")

	w.Header(2, "Basic Usage")
	w.CodeBlock("bash", "rwspec <command> [options]")

	w.Header(2, "Commands")

	headers := []string{"Command", "Description"}
	var rows [][]string

	for _, cmd := range documentedCommands(rootCmd) {
		link := fmt.Sprintf("[%s](%s)", InlineCode(cmd.Name()), commandLink(cmd.Name()))
		rows = append(rows, []string{link, cleanDescription(cmd.Short)})
	}

	w.Table(headers, rows)

	w.Header(2, "Global Options")
	w.Paragraph("These flags are available for all commands:")
	writeFlagsTable(w, rootCmd.PersistentFlags())

	w.Header(2, "Environment Variables")
	w.Paragraph(fmt.Sprintf("Every configuration key can be set with a %s variable. "+
		"A double underscore separates nesting levels.", InlineCode(config.EnvPrefix+"*")))

	envHeaders := []string{"Variable", "Key"}
	envRows := [][]string{
		{InlineCode(config.EnvPrefix + "DEFINITIONS_DIR"), InlineCode("definitions_dir")},
		{InlineCode(config.EnvPrefix + "OUTPUT"), InlineCode("output")},
		{InlineCode(config.EnvPrefix + "VALIDATION__INCLUDE_ANNOTATIONS"), InlineCode("validation.include_annotations")},
		{InlineCode(config.EnvPrefix + "CATALOG__PATH"), InlineCode("catalog.path")},
		{InlineCode(config.EnvPrefix + "SERVE__ADDR"), InlineCode("serve.addr")},
		{InlineCode(config.EnvPrefix + "LINT__DISABLED"), InlineCode("lint.disabled")},
	}
	w.Table(envHeaders, envRows)

	w.Paragraph("Command-line flags take precedence over environment variables, which take precedence over " +
		InlineCode(config.ConfigFileName) + ".")

	// Exit codes
	w.Header(2, "Exit Codes")
	exitHeaders := []string{"Code", "Meaning"}
	exitRows := [][]string{
		{InlineCode("0"), "Success"},
		{InlineCode("1"), "Invalid definitions, lint issues, unformatted files, or another error (see stderr)"},
	}
	w.Table(exitHeaders, exitRows)

	// Getting help
	w.Header(2, "Getting Help")
	w.CodeBlock("bash", `# General help
rwspec help
rwspec --help

# Command-specific help
rwspec check --help`)

	// Write file
	filename := filepath.Join(outDir, "index.md")
	return os.WriteFile(filename, w.Bytes(), 0600)
}

// generateCommandPage generates documentation for a single command.
func generateCommandPage(cmd *cobra.Command, outDir string) error {
	w := NewMarkdownWriter()

	// Frontmatter
	w.Frontmatter(cmd.Name(), cmd.Short)
	w.GeneratedMarker()

	// Title and long description
	w.Header(1, cmd.Name())
	if cmd.Long != "" {
		w.Paragraph(cmd.Long)
	} else {
		w.Paragraph(cmd.Short)
	}

	// Usage
	w.Header(2, "Usage")
	useLine := cmd.UseLine()
	if cmd.HasSubCommands() {
		useLine = fmt.Sprintf("rwspec %s <subcommand> [options]", cmd.Name())
	} else if !strings.HasPrefix(useLine, "rwspec") {
		useLine = "rwspec " + useLine
	}
	w.CodeBlock("bash", useLine)

	// Aliases
	if len(cmd.Aliases) > 0 {
		w.Header(2, "Aliases")
		var aliases []string
		for _, alias := range cmd.Aliases {
			aliases = append(aliases, InlineCode(alias))
		}
		w.BulletList(aliases)
	}

	// Subcommands
	if cmd.HasSubCommands() {
		w.Header(2, "Subcommands")
		headers := []string{"Subcommand", "Description"}
		var rows [][]string
		for _, sub := range cmd.Commands() {
			if sub.Hidden {
				continue
			}
			rows = append(rows, []string{InlineCode(sub.Name()), cleanDescription(sub.Short)})
		}
		w.Table(headers, rows)
	}

	// Local flags
	if cmd.HasLocalFlags() {
		w.Header(2, "Options")
		writeFlagsTable(w, cmd.LocalFlags())
	}

	// Inherited flags from parent
	if cmd.HasInheritedFlags() {
		w.Header(2, "Global Options")
		writeFlagsTable(w, cmd.InheritedFlags())
	}

	// Examples
	if cmd.Example != "" {
		w.Header(2, "Examples")
		// Clean up example - remove common leading whitespace
		example := cleanExample(cmd.Example)
		w.CodeBlock("bash", example)
	}

	// Write file
	filename := filepath.Join(outDir, cmd.Name()+".md")
	return os.WriteFile(filename, w.Bytes(), 0600)
}

// writeFlagsTable writes one row per visible flag. Flags that override a
// configuration key name it, so the CLI and configuration pages agree.
func writeFlagsTable(w *MarkdownWriter, flags *pflag.FlagSet) {
	keys := config.Defaults()
	var rows [][]string
	flags.VisitAll(func(f *pflag.Flag) {
		if f.Hidden {
			return
		}
		name := InlineCode("--" + f.Name)
		if f.Shorthand != "" {
			name += ", " + InlineCode("-"+f.Shorthand)
		}
		rows = append(rows, []string{name, flagDefault(f), configKeyOf(keys, f.Name), cleanDescription(f.Usage)})
	})
	w.Table([]string{"Flag", "Default", "Config Key", "Description"}, rows)
}

// flagDefault renders a flag's default as code for strings; empty defaults
// are left blank.
func flagDefault(f *pflag.Flag) string {
	switch v := f.DefValue; {
	case v == "", v == "[]":
		return ""
	case f.Value.Type() == "string":
		return InlineCode(v)
	default:
		return v
	}
}

// configKeyOf returns the config key a flag overrides, or "-".
func configKeyOf(keys map[string]any, flag string) string {
	key := config.FlagKey(flag)
	if _, ok := keys[key]; ok || strings.HasPrefix(key, "lint.") {
		return InlineCode(key)
	}
	return "-"
}

// cleanExample removes common leading whitespace from example text.
func cleanExample(example string) string {
	lines := strings.Split(example, "\n")
	if len(lines) == 0 {
		return example
	}

	// Find minimum indentation (ignoring empty lines)
	minIndent := -1
	for _, line := range lines {
		if strings.TrimSpace(line) == "" {
			continue
		}
		indent := len(line) - len(strings.TrimLeft(line, " \t"))
		if minIndent == -1 || indent < minIndent {
			minIndent = indent
		}
	}

	if minIndent <= 0 {
		return strings.TrimSpace(example)
	}

	// Remove common indentation
	var result []string
	for _, line := range lines {
		if len(line) >= minIndent {
			result = append(result, line[minIndent:])
		} else {
			result = append(result, strings.TrimLeft(line, " \t"))
		}
	}

	return strings.TrimSpace(strings.Join(result, "\n"))
}
