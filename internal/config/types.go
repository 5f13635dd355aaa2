// Package config loads rwspec configuration from defaults, rwspec.yaml,
// RWSPEC_* environment variables, and command-line flags.
package config

import (
	"fmt"
	"log/slog"
	"slices"
	"strings"

	"github.com/leapstack-labs/rwspec/pkg/core"
	"github.com/leapstack-labs/rwspec/pkg/lint"
)

// Default configuration values.
const (
	DefaultDefinitionsDir = "definitions"
	DefaultOutput         = "auto"
	DefaultCatalogPath    = ".rwspec/catalog.db"
	DefaultServeAddr      = ":8787"
	DefaultLoaderWorkers  = 4
)

// OutputModes lists the accepted values of the output key.
var OutputModes = []string{"auto", "text", "markdown", "json"}

// Config holds all rwspec configuration options.
type Config struct {
	DefinitionsDir string           `koanf:"definitions_dir"`
	Output         string           `koanf:"output"`
	Verbose        bool             `koanf:"verbose"`
	LogLevel       slog.Level       `koanf:"log_level"`
	Validation     ValidationConfig `koanf:"validation"`
	Catalog        CatalogConfig    `koanf:"catalog"`
	Serve          ServeConfig      `koanf:"serve"`
	Loader         LoaderConfig     `koanf:"loader"`
	Lint           LintConfig       `koanf:"lint"`

	// ProjectRoot is the directory relative paths were resolved against.
	ProjectRoot string `koanf:"-"`
}

// ValidationConfig controls the hole-consistency scope.
type ValidationConfig struct {
	IncludeAnnotations bool `koanf:"include_annotations"`
}

// CatalogConfig locates the SQLite statement catalog.
type CatalogConfig struct {
	Path string `koanf:"path"`
}

// ServeConfig holds HTTP API settings.
type ServeConfig struct {
	Addr string `koanf:"addr"`
}

// LoaderConfig holds definition file loading settings.
type LoaderConfig struct {
	Workers int `koanf:"workers"`
}

// LintConfig is the file form of lint.Config.
type LintConfig struct {
	Disabled []string                  `koanf:"disabled"`
	Severity map[string]string         `koanf:"severity"`
	Rules    map[string]map[string]any `koanf:"rules"`
}

// Validate checks option values that the decoder cannot.
func (c *Config) Validate() error {
	if c.DefinitionsDir == "" {
		return fmt.Errorf("definitions_dir is required")
	}
	if !slices.Contains(OutputModes, c.Output) {
		return fmt.Errorf("invalid output %q (want one of %v)", c.Output, OutputModes)
	}
	if c.Loader.Workers < 1 {
		return fmt.Errorf("loader.workers must be at least 1, got %d", c.Loader.Workers)
	}
	for id, sev := range c.Lint.Severity {
		if _, ok := core.ParseSeverity(sev); !ok {
			return fmt.Errorf("lint.severity.%s: unknown severity %q", id, sev)
		}
	}
	return nil
}

// EffectiveLogLevel returns the slog level, forced to debug by verbose.
func (c *Config) EffectiveLogLevel() slog.Level {
	if c.Verbose {
		return slog.LevelDebug
	}
	return c.LogLevel
}

// LintConfig converts the file form into a lint.Config. Rule IDs are
// upper-cased since environment keys arrive lower-case.
func (c *Config) LintConfig() *lint.Config {
	out := lint.NewConfig()
	for _, id := range c.Lint.Disabled {
		if id = strings.TrimSpace(id); id != "" {
			out.Disable(strings.ToUpper(id))
		}
	}
	for id, s := range c.Lint.Severity {
		if sev, ok := core.ParseSeverity(s); ok {
			out.SetSeverity(strings.ToUpper(id), sev)
		}
	}
	for id, opts := range c.Lint.Rules {
		out.SetRuleOptions(strings.ToUpper(id), opts)
	}
	return out
}
