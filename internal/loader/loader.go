// Package loader discovers *.rws definition files and parses them
// concurrently.
package loader

import (
	"context"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/leapstack-labs/rwspec/pkg/core"
	"github.com/leapstack-labs/rwspec/pkg/parser"
	"github.com/zeebo/xxh3"
	"golang.org/x/sync/errgroup"
)

// Extension is the definition file suffix.
const Extension = ".rws"

// Options configures a load.
type Options struct {
	// Workers bounds concurrent parses. Values below 1 mean 1.
	Workers int

	// Parse is passed to every parser invocation.
	Parse []parser.Option

	// Unchanged, when set, is asked whether a file with the given content
	// hash can be skipped. Skipped files are returned without a Source.
	Unchanged func(path, hash string) bool

	Logger *slog.Logger
}

// File is the outcome of loading one definition file.
type File struct {
	Path    string
	Hash    string
	Source  *parser.Source
	Errors  []error
	Skipped bool
}

// OK reports whether every statement in the file parsed.
func (f *File) OK() bool {
	return len(f.Errors) == 0
}

// Result holds per-file outcomes in path order.
type Result struct {
	Files    []*File
	Duration time.Duration
}

// HasErrors returns true if any file had a rejected statement or could not be read.
func (r *Result) HasErrors() bool {
	for _, f := range r.Files {
		if !f.OK() {
			return true
		}
	}
	return false
}

// ErrorCount returns the number of errors across all files.
func (r *Result) ErrorCount() int {
	n := 0
	for _, f := range r.Files {
		n += len(f.Errors)
	}
	return n
}

// Definitions concatenates the accepted statements of every parsed file.
func (r *Result) Definitions() core.Definitions {
	var defs core.Definitions
	for _, f := range r.Files {
		if f.Source != nil {
			defs = append(defs, f.Source.Statements...)
		}
	}
	return defs
}

// Summary returns a human-readable summary.
func (r *Result) Summary() string {
	skipped := 0
	for _, f := range r.Files {
		if f.Skipped {
			skipped++
		}
	}
	return fmt.Sprintf("Files: %d (%d skipped) | Statements: %d | Errors: %d | Duration: %s",
		len(r.Files), skipped, len(r.Definitions()), r.ErrorCount(), r.Duration.Round(time.Millisecond))
}

// Hash returns the xxh3 content hash of a file body as hex.
func Hash(content []byte) string {
	return fmt.Sprintf("%016x", xxh3.Hash(content))
}

// Discover walks root and returns every definition file beneath it, sorted.
// Hidden files and directories are skipped. A root that is itself a file is
// returned as-is.
func Discover(root string) ([]string, error) {
	info, err := os.Stat(root)
	if err != nil {
		return nil, fmt.Errorf("failed to scan %s: %w", root, err)
	}
	if !info.IsDir() {
		return []string{root}, nil
	}

	var paths []string
	err = filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		hidden := strings.HasPrefix(d.Name(), ".") && path != root
		if d.IsDir() {
			if hidden {
				return filepath.SkipDir
			}
			return nil
		}
		if hidden || !strings.HasSuffix(d.Name(), Extension) {
			return nil
		}
		paths = append(paths, path)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to scan directory: %w", err)
	}
	sort.Strings(paths)
	return paths, nil
}

// DiscoverAll runs Discover over each root and removes duplicates.
func DiscoverAll(roots []string) ([]string, error) {
	seen := make(map[string]bool)
	var out []string
	for _, root := range roots {
		paths, err := Discover(root)
		if err != nil {
			return nil, err
		}
		for _, p := range paths {
			if !seen[p] {
				seen[p] = true
				out = append(out, p)
			}
		}
	}
	sort.Strings(out)
	return out, nil
}

// Load discovers and parses every definition file under dir.
func Load(ctx context.Context, dir string, opts Options) (*Result, error) {
	paths, err := Discover(dir)
	if err != nil {
		return nil, err
	}
	return LoadFiles(ctx, paths, opts)
}

// LoadFiles parses paths with at most opts.Workers parses in flight.
// Per-file read and parse failures land in File.Errors; only context
// cancellation fails the load.
func LoadFiles(ctx context.Context, paths []string, opts Options) (*Result, error) {
	start := time.Now()
	logger := opts.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	workers := opts.Workers
	if workers < 1 {
		workers = 1
	}

	files := make([]*File, len(paths))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)

	for i, path := range paths {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			files[i] = loadFile(path, opts, logger)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	result := &Result{Files: files, Duration: time.Since(start)}
	logger.Debug("load completed",
		"files", len(files),
		"errors", result.ErrorCount(),
		"duration_ms", result.Duration.Milliseconds())
	return result, nil
}

func loadFile(path string, opts Options, logger *slog.Logger) *File {
	f := &File{Path: path}

	content, err := os.ReadFile(path) //nolint:gosec // G304: path comes from Discover or the command line
	if err != nil {
		f.Errors = []error{fmt.Errorf("read %s: %w", path, err)}
		return f
	}
	f.Hash = Hash(content)

	if opts.Unchanged != nil && opts.Unchanged(path, f.Hash) {
		logger.Debug("skipping unchanged file", "path", path)
		f.Skipped = true
		return f
	}

	src, errs := parser.ParseDefinitionsPartial(string(content), opts.Parse...)
	f.Source = src
	for _, e := range errs {
		f.Errors = append(f.Errors, fmt.Errorf("%s: %w", path, e))
	}
	logger.Debug("parsed file", "path", path, "statements", len(src.Statements), "errors", len(errs))
	return f
}
