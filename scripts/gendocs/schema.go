package main

import (
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"

	"github.com/leapstack-labs/rwspec/internal/config"
)

// generateSchemaDocs generates the configuration reference.
func generateSchemaDocs(outDir string) error {
	log.Printf("Generating config docs to %s", outDir)

	if err := os.MkdirAll(outDir, 0750); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}

	if err := generateConfigurationDoc(outDir); err != nil {
		return fmt.Errorf("failed to generate configuration.md: %w", err)
	}
	log.Printf("  Generated configuration.md")

	return nil
}

// ConfigField represents a configuration field definition.
type ConfigField struct {
	Name        string
	Type        string
	Description string
	Category    string // "project", "validation", "catalog", "serve", "loader", "lint"
}

// getConfigSchema returns the configuration schema definition.
// This is based on internal/config/types.go Config.
func getConfigSchema() []ConfigField {
	return []ConfigField{
		{Name: "definitions_dir", Type: "string", Description: "Directory searched for *.rws files", Category: "project"},
		{Name: "output", Type: "string", Description: "Output mode: " + strings.Join(config.OutputModes, ", "), Category: "project"},
		{Name: "verbose", Type: "bool", Description: "Log at debug level", Category: "project"},
		{Name: "log_level", Type: "string", Description: "Log level: debug, info, warn, error", Category: "project"},

		{Name: "validation.include_annotations", Type: "bool", Description: "Also check terminals inside type annotations for hole/id conflicts", Category: "validation"},

		{Name: "catalog.path", Type: "string", Description: "SQLite catalog written by `rwspec index`", Category: "catalog"},

		{Name: "serve.addr", Type: "string", Description: "Listen address of `rwspec serve`", Category: "serve"},

		{Name: "loader.workers", Type: "int", Description: "Files parsed concurrently", Category: "loader"},

		{Name: "lint.disabled", Type: "[]string", Description: "Rule IDs that never run", Category: "lint"},
		{Name: "lint.severity", Type: "map[string]string", Description: "Per-rule severity overrides", Category: "lint"},
		{Name: "lint.rules", Type: "map[string]map[string]any", Description: "Per-rule options", Category: "lint"},
	}
}

// generateConfigurationDoc generates the configuration reference page.
func generateConfigurationDoc(outDir string) error {
	w := NewMarkdownWriter()

	w.Frontmatter("Configuration", "rwspec configuration reference")
	w.GeneratedMarker()

	w.Header(1, "Configuration")
	w.Paragraph(fmt.Sprintf("rwspec reads %s (or %s) from the project root, found by searching upward from the working directory. "+
		"Relative paths resolve against the project root.",
		InlineCode(config.ConfigFileName), InlineCode(config.ConfigFileNameAlt)))

	defaults := config.Defaults()
	headers := []string{"Key", "Type", "Default", "Description"}

	sections := []struct{ category, title string }{
		{"project", "Project Settings"},
		{"validation", "Validation"},
		{"catalog", "Catalog"},
		{"serve", "API Server"},
		{"loader", "Loader"},
		{"lint", "Lint"},
	}
	for _, sec := range sections {
		var rows [][]string
		for _, f := range getConfigSchema() {
			if f.Category != sec.category {
				continue
			}
			defVal := "-"
			if v, ok := defaults[f.Name]; ok {
				defVal = InlineCode(fmt.Sprint(v))
			}
			rows = append(rows, []string{InlineCode(f.Name), f.Type, defVal, f.Description})
		}
		w.Header(2, sec.title)
		w.Table(headers, rows)
	}

	w.Header(2, "Full Configuration Example")
	w.CodeBlock("yaml", fmt.Sprintf(`# rwspec.yaml
definitions_dir: %s
output: %s

validation:
  include_annotations: false

catalog:
  path: %s

serve:
  addr: "%s"

loader:
  workers: %d

lint:
  disabled: [RW04]
  severity:
    GL01: error
  rules:
    RW01:
      check_conditions: true`,
		config.DefaultDefinitionsDir, config.DefaultOutput, config.DefaultCatalogPath,
		config.DefaultServeAddr, config.DefaultLoaderWorkers))

	w.Header(2, "Environment Variables")
	w.Paragraph(fmt.Sprintf("Any key can be overridden with %s followed by the upper-cased key, using %s between levels:",
		InlineCode(config.EnvPrefix), InlineCode("__")))
	w.CodeBlock("bash", config.EnvPrefix+`CATALOG__PATH=/tmp/catalog.db rwspec index
`+config.EnvPrefix+`LINT__DISABLED=RW03,GL01 rwspec lint`)

	filename := filepath.Join(outDir, "configuration.md")
	return os.WriteFile(filename, w.Bytes(), 0600)
}
