package catalog

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/leapstack-labs/rwspec/pkg/core"
	"github.com/leapstack-labs/rwspec/pkg/format"
	"github.com/leapstack-labs/rwspec/pkg/parser"
	"github.com/zeebo/xxh3"
)

// StatementRecord is one indexed statement.
type StatementRecord struct {
	ID          int64  `json:"id"`
	File        string `json:"file"`
	Position    int    `json:"position"`
	Kind        string `json:"kind"`
	Name        string `json:"name,omitempty"`
	Fingerprint string `json:"fingerprint"`
	Source      string `json:"source"`
	Line        int    `json:"line"`
}

// Filter narrows ListStatements. Zero fields match everything.
type Filter struct {
	Kind        core.StatementKind
	Name        string
	File        string
	Fingerprint string
	Limit       int
}

// StatementKey renders the structure of stmt without its declared name,
// so that two statements differing only in name share a key.
func StatementKey(stmt core.Statement) string {
	var sb strings.Builder
	sb.WriteString(string(stmt.Kind()))
	part := func(e core.Expression) {
		sb.WriteByte(' ')
		if e == nil {
			sb.WriteString("-")
			return
		}
		sb.WriteString(core.CanonicalKey(e))
	}
	annot := func(a core.Annotation) {
		sb.WriteString(" :")
		if a != nil {
			sb.WriteString(a.String())
		}
	}
	conds := func(cs []core.Condition) {
		for _, c := range cs {
			part(c.Left)
			part(c.Right)
		}
	}

	switch s := stmt.(type) {
	case *core.RewriteDef:
		sb.WriteString(" " + s.Rewrite.Kind.Operator())
		part(s.Rewrite.Precondition)
		part(s.Rewrite.Source)
		part(s.Rewrite.Destination)
		conds(s.Rewrite.Conditions)
	case *core.Function:
		for _, p := range s.Params {
			annot(p.Annotation)
		}
		annot(s.Return)
		part(s.Body)
	case *core.Datatype:
		fmt.Fprintf(&sb, " %d", len(s.TypeParams))
		for _, c := range s.Constructors {
			sb.WriteString(" " + c.Name)
			for _, f := range c.Fields {
				annot(f.Annotation)
			}
		}
	case *core.Goal:
		part(s.Precondition)
		part(s.LHS)
		part(s.RHS)
	case *core.CaseSplit:
		part(s.Searcher)
		part(s.Target)
		for _, r := range s.Replacements {
			part(r)
		}
		conds(s.Conditions)
	}
	return sb.String()
}

// Fingerprint is the xxh3 hash of StatementKey, as hex.
func Fingerprint(stmt core.Statement) string {
	return fmt.Sprintf("%016x", xxh3.HashString(StatementKey(stmt)))
}

// FileHash returns the stored content hash for path, or "" if the file is
// not indexed.
func (c *Catalog) FileHash(ctx context.Context, path string) (string, error) {
	if c.db == nil {
		return "", errNotOpen
	}
	var hash string
	err := c.db.QueryRowContext(ctx, `SELECT content_hash FROM files WHERE path = ?`, path).Scan(&hash)
	if errors.Is(err, sql.ErrNoRows) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("failed to get content hash: %w", err)
	}
	return hash, nil
}

// UpsertFile records path's content hash under runID.
func (c *Catalog) UpsertFile(ctx context.Context, runID, path, hash string) error {
	if c.db == nil {
		return errNotOpen
	}
	_, err := c.db.ExecContext(ctx,
		`INSERT INTO files (path, content_hash, run_id, indexed_at) VALUES (?, ?, ?, ?)
		 ON CONFLICT(path) DO UPDATE SET content_hash = excluded.content_hash,
		   run_id = excluded.run_id, indexed_at = excluded.indexed_at`,
		path, hash, runID, time.Now().UTC(),
	)
	if err != nil {
		return fmt.Errorf("failed to upsert file %s: %w", path, err)
	}
	return nil
}

// ReplaceStatements swaps the statements stored for path with those of src
// in a single transaction. The file must already be recorded.
func (c *Catalog) ReplaceStatements(ctx context.Context, path string, src *parser.Source) (err error) {
	if c.db == nil {
		return errNotOpen
	}

	tx, err := c.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	if _, err = tx.ExecContext(ctx, `DELETE FROM statements WHERE file_path = ?`, path); err != nil {
		return fmt.Errorf("failed to clear statements for %s: %w", path, err)
	}

	stmt, err := tx.PrepareContext(ctx,
		`INSERT INTO statements (file_path, position, kind, name, fingerprint, source, line)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("failed to prepare insert: %w", err)
	}
	defer func() { _ = stmt.Close() }()

	for i, s := range src.Statements {
		line := 0
		if i < len(src.Spans) {
			line = src.Spans[i].Start.Line
		}
		if _, err = stmt.ExecContext(ctx,
			path, i, string(s.Kind()), s.GetName(), Fingerprint(s), strings.TrimRight(format.Statement(s), "\n"), line,
		); err != nil {
			return fmt.Errorf("failed to insert statement %d of %s: %w", i, path, err)
		}
	}

	if err = tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit statements for %s: %w", path, err)
	}
	c.logger.Debug("statements indexed", "path", path, "count", len(src.Statements))
	return nil
}

// DeleteFile removes path and its statements.
func (c *Catalog) DeleteFile(ctx context.Context, path string) error {
	if c.db == nil {
		return errNotOpen
	}
	if _, err := c.db.ExecContext(ctx, `DELETE FROM files WHERE path = ?`, path); err != nil {
		return fmt.Errorf("failed to delete file %s: %w", path, err)
	}
	return nil
}

// ListFiles returns every indexed file path, sorted.
func (c *Catalog) ListFiles(ctx context.Context) ([]string, error) {
	if c.db == nil {
		return nil, errNotOpen
	}
	rows, err := c.db.QueryContext(ctx, `SELECT path FROM files ORDER BY path`)
	if err != nil {
		return nil, fmt.Errorf("failed to list files: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var paths []string
	for rows.Next() {
		var p string
		if err := rows.Scan(&p); err != nil {
			return nil, fmt.Errorf("failed to scan file: %w", err)
		}
		paths = append(paths, p)
	}
	return paths, rows.Err()
}

// ListStatements returns indexed statements matching f, ordered by file
// and position.
func (c *Catalog) ListStatements(ctx context.Context, f Filter) ([]StatementRecord, error) {
	if c.db == nil {
		return nil, errNotOpen
	}

	var where []string
	var args []any
	if f.Kind != "" {
		where = append(where, "kind = ?")
		args = append(args, string(f.Kind))
	}
	if f.Name != "" {
		where = append(where, "name = ?")
		args = append(args, f.Name)
	}
	if f.File != "" {
		where = append(where, "file_path = ?")
		args = append(args, f.File)
	}
	if f.Fingerprint != "" {
		where = append(where, "fingerprint = ?")
		args = append(args, f.Fingerprint)
	}

	query := `SELECT id, file_path, position, kind, name, fingerprint, source, line FROM statements`
	if len(where) > 0 {
		query += " WHERE " + strings.Join(where, " AND ")
	}
	query += " ORDER BY file_path, position"
	if f.Limit > 0 {
		query += " LIMIT ?"
		args = append(args, f.Limit)
	}

	rows, err := c.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list statements: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var out []StatementRecord
	for rows.Next() {
		var r StatementRecord
		if err := rows.Scan(&r.ID, &r.File, &r.Position, &r.Kind, &r.Name, &r.Fingerprint, &r.Source, &r.Line); err != nil {
			return nil, fmt.Errorf("failed to scan statement: %w", err)
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

// Duplicates returns groups of statements that share a fingerprint.
func (c *Catalog) Duplicates(ctx context.Context) ([][]StatementRecord, error) {
	if c.db == nil {
		return nil, errNotOpen
	}
	rows, err := c.db.QueryContext(ctx,
		`SELECT fingerprint FROM statements GROUP BY fingerprint HAVING COUNT(*) > 1 ORDER BY fingerprint`)
	if err != nil {
		return nil, fmt.Errorf("failed to find duplicates: %w", err)
	}
	var fps []string
	for rows.Next() {
		var fp string
		if err := rows.Scan(&fp); err != nil {
			_ = rows.Close()
			return nil, fmt.Errorf("failed to scan fingerprint: %w", err)
		}
		fps = append(fps, fp)
	}
	_ = rows.Close()
	if err := rows.Err(); err != nil {
		return nil, err
	}

	groups := make([][]StatementRecord, 0, len(fps))
	for _, fp := range fps {
		recs, err := c.ListStatements(ctx, Filter{Fingerprint: fp})
		if err != nil {
			return nil, err
		}
		groups = append(groups, recs)
	}
	return groups, nil
}
