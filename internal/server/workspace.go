package server

import (
	"context"
	"sync"
	"time"

	"github.com/leapstack-labs/rwspec/internal/loader"
	"github.com/leapstack-labs/rwspec/pkg/core"
	"github.com/leapstack-labs/rwspec/pkg/lint"
)

// Snapshot summarizes the last load of the definitions directory.
type Snapshot struct {
	Revision    int              `json:"revision"`
	LoadedAt    time.Time        `json:"loaded_at"`
	Dir         string           `json:"dir"`
	Files       []FileStatus     `json:"files"`
	Statements  int              `json:"statements"`
	Errors      int              `json:"errors"`
	Diagnostics []FileDiagnostic `json:"diagnostics"`
}

// FileDiagnostic is a lint finding tagged with its file. Index counts
// statements within that file.
type FileDiagnostic struct {
	File string `json:"file"`
	lint.Diagnostic
}

// FileStatus is the per-file part of a Snapshot.
type FileStatus struct {
	Path       string   `json:"path"`
	Hash       string   `json:"hash"`
	Statements int      `json:"statements"`
	Errors     []string `json:"errors,omitempty"`
}

// signals is the compact form pushed over the event stream.
func (s *Snapshot) signals() map[string]any {
	return map[string]any{
		"revision":    s.Revision,
		"files":       len(s.Files),
		"statements":  s.Statements,
		"errors":      s.Errors,
		"diagnostics": len(s.Diagnostics),
	}
}

// workspace holds the loaded definitions directory.
type workspace struct {
	dir      string
	opts     loader.Options
	analyzer *lint.Analyzer

	mu   sync.RWMutex
	snap *Snapshot
	defs core.Definitions
}

func (w *workspace) current() (*Snapshot, core.Definitions) {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return w.snap, w.defs
}

// reload re-reads every file and replaces the snapshot.
func (w *workspace) reload(ctx context.Context) (*Snapshot, error) {
	result, err := loader.Load(ctx, w.dir, w.opts)
	if err != nil {
		return nil, err
	}

	snap := &Snapshot{LoadedAt: time.Now().UTC(), Dir: w.dir, Diagnostics: []FileDiagnostic{}}
	var defs core.Definitions
	for _, f := range result.Files {
		fs := FileStatus{Path: f.Path, Hash: f.Hash}
		for _, e := range f.Errors {
			fs.Errors = append(fs.Errors, e.Error())
		}
		if f.Source != nil {
			fs.Statements = len(f.Source.Statements)
			for _, d := range w.analyzer.AnalyzeSource(f.Source) {
				snap.Diagnostics = append(snap.Diagnostics, FileDiagnostic{File: f.Path, Diagnostic: d})
			}
			defs = append(defs, f.Source.Statements...)
		}
		snap.Statements += fs.Statements
		snap.Errors += len(fs.Errors)
		snap.Files = append(snap.Files, fs)
	}

	w.mu.Lock()
	defer w.mu.Unlock()
	if w.snap != nil {
		snap.Revision = w.snap.Revision
	}
	snap.Revision++
	w.snap = snap
	w.defs = defs
	return snap, nil
}
