package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/leapstack-labs/rwspec/internal/export"
	"github.com/leapstack-labs/rwspec/internal/inspect"
	"github.com/leapstack-labs/rwspec/pkg/core"
	"github.com/leapstack-labs/rwspec/pkg/format"
	"github.com/leapstack-labs/rwspec/pkg/lint"
	"github.com/leapstack-labs/rwspec/pkg/parser"
	"github.com/starfederation/datastar-go/datastar"
)

// SourceRequest is the body of the parse, check, and format endpoints.
type SourceRequest struct {
	Source string `json:"source"`
	// IncludeAnnotations overrides the server's validation scope.
	IncludeAnnotations *bool `json:"include_annotations,omitempty"`
}

// InspectRequest is the body of the inspect endpoint.
type InspectRequest struct {
	Term string `json:"term"`
}

// ErrorResponse reports a rejected request or source text.
type ErrorResponse struct {
	Error    string `json:"error"`
	Line     int    `json:"line,omitempty"`
	Column   int    `json:"column,omitempty"`
	Conflict string `json:"conflict,omitempty"`
}

// CheckResponse is returned by the check endpoint.
type CheckResponse struct {
	Valid       bool              `json:"valid"`
	Statements  int               `json:"statements"`
	Errors      []ErrorResponse   `json:"errors"`
	Diagnostics []lint.Diagnostic `json:"diagnostics"`
}

// FormatResponse is returned by the format endpoint.
type FormatResponse struct {
	Formatted string `json:"formatted"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// errorResponse extracts the position and hole conflict from a parse error.
func errorResponse(err error) ErrorResponse {
	resp := ErrorResponse{Error: err.Error()}
	var perr *parser.ParseError
	if errors.As(err, &perr) {
		resp.Error = perr.Message
		resp.Line = perr.Pos.Line
		resp.Column = perr.Pos.Column
	}
	var conflict *core.HoleConflictError
	if errors.As(err, &conflict) {
		resp.Conflict = conflict.Name
	}
	return resp
}

func decodeBody(w http.ResponseWriter, r *http.Request, v any) bool {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		writeJSON(w, http.StatusBadRequest, ErrorResponse{Error: fmt.Sprintf("invalid request body: %v", err)})
		return false
	}
	return true
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleRules(w http.ResponseWriter, _ *http.Request) {
	rules := lint.GetAll()
	out := make([]core.RuleInfo, 0, len(rules))
	for _, r := range rules {
		out = append(out, r.Info())
	}
	writeJSON(w, http.StatusOK, out)
}

// handleParse returns the exported document, or 422 on the first invalid
// statement.
func (s *Server) handleParse(w http.ResponseWriter, r *http.Request) {
	var req SourceRequest
	if !decodeBody(w, r, &req) {
		return
	}
	defs, err := parser.ParseDefinitions(req.Source, s.parseOptions(req.IncludeAnnotations)...)
	if err != nil {
		writeJSON(w, http.StatusUnprocessableEntity, errorResponse(err))
		return
	}
	writeJSON(w, http.StatusOK, export.Build(defs))
}

// handleCheck parses with statement-level recovery and lints what parsed.
func (s *Server) handleCheck(w http.ResponseWriter, r *http.Request) {
	var req SourceRequest
	if !decodeBody(w, r, &req) {
		return
	}
	src, errs := parser.ParseDefinitionsPartial(req.Source, s.parseOptions(req.IncludeAnnotations)...)

	resp := CheckResponse{
		Statements:  len(src.Statements),
		Errors:      []ErrorResponse{},
		Diagnostics: s.analyzer.AnalyzeSource(src),
	}
	for _, err := range errs {
		resp.Errors = append(resp.Errors, errorResponse(err))
	}
	if resp.Diagnostics == nil {
		resp.Diagnostics = []lint.Diagnostic{}
	}
	resp.Valid = len(errs) == 0
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleFormat(w http.ResponseWriter, r *http.Request) {
	var req SourceRequest
	if !decodeBody(w, r, &req) {
		return
	}
	src, err := parser.ParseSource(req.Source, s.parseOptions(req.IncludeAnnotations)...)
	if err != nil {
		writeJSON(w, http.StatusUnprocessableEntity, errorResponse(err))
		return
	}
	writeJSON(w, http.StatusOK, FormatResponse{Formatted: format.Source(src)})
}

func (s *Server) handleInspect(w http.ResponseWriter, r *http.Request) {
	var req InspectRequest
	if !decodeBody(w, r, &req) {
		return
	}
	report, err := inspect.Term(req.Term)
	if err != nil {
		writeJSON(w, http.StatusUnprocessableEntity, errorResponse(err))
		return
	}
	writeJSON(w, http.StatusOK, report)
}

func (s *Server) handleWorkspace(w http.ResponseWriter, _ *http.Request) {
	if s.workspace == nil {
		writeJSON(w, http.StatusNotFound, ErrorResponse{Error: "no definitions directory is being served"})
		return
	}
	snap, _ := s.workspace.current()
	if snap == nil {
		writeJSON(w, http.StatusServiceUnavailable, ErrorResponse{Error: "workspace not loaded yet"})
		return
	}
	writeJSON(w, http.StatusOK, snap)
}

// handleWorkspaceDefinitions exports the loaded statements; ?format=yaml
// switches the encoding.
func (s *Server) handleWorkspaceDefinitions(w http.ResponseWriter, r *http.Request) {
	if s.workspace == nil {
		writeJSON(w, http.StatusNotFound, ErrorResponse{Error: "no definitions directory is being served"})
		return
	}
	_, defs := s.workspace.current()

	switch f := r.URL.Query().Get("format"); f {
	case "", "json":
		writeJSON(w, http.StatusOK, export.Build(defs))
	case "yaml", "yml":
		w.Header().Set("Content-Type", "application/yaml")
		if err := export.YAML(w, defs); err != nil {
			s.logger.Error("yaml export failed", "error", err)
		}
	default:
		writeJSON(w, http.StatusBadRequest, ErrorResponse{Error: fmt.Sprintf("unknown format %q", f)})
	}
}

// handleEvents streams workspace revisions as server-sent signal patches.
func (s *Server) handleEvents(w http.ResponseWriter, r *http.Request) {
	if s.workspace == nil {
		writeJSON(w, http.StatusNotFound, ErrorResponse{Error: "no definitions directory is being served"})
		return
	}

	updates := s.notifier.subscribe()
	defer s.notifier.unsubscribe(updates)

	sse := datastar.NewSSE(w, r)
	send := func() error {
		snap, _ := s.workspace.current()
		if snap == nil {
			return nil
		}
		return sse.MarshalAndPatchSignals(snap.signals())
	}

	if err := send(); err != nil {
		return
	}
	for {
		select {
		case <-r.Context().Done():
			return
		case _, ok := <-updates:
			if !ok {
				return
			}
			if err := send(); err != nil {
				s.logger.Debug("event stream closed", "error", err)
				return
			}
		}
	}
}
