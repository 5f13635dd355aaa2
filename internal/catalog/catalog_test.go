package catalog

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/leapstack-labs/rwspec/internal/testutil"
	"github.com/leapstack-labs/rwspec/pkg/core"
	"github.com/leapstack-labs/rwspec/pkg/parser"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const defsA = `rw app_base (append nil ?x) => ?x

rw app_nil (append ?x nil) => ?x

fun len (l : list) -> nat

prove (append nil nil) = nil
`

const defsB = `rw other_base (append nil ?y) => ?y

datatype list a = nil | cons (h : a) (t : list)
`

func setupCatalog(t *testing.T) *Catalog {
	t.Helper()
	c, err := Open(context.Background(), ":memory:", testutil.NewTestLogger(t))
	require.NoError(t, err)
	t.Cleanup(func() { _ = c.Close() })
	return c
}

func mustSource(t *testing.T, src string) *parser.Source {
	t.Helper()
	s, err := parser.ParseSource(src)
	require.NoError(t, err)
	return s
}

func index(t *testing.T, c *Catalog, runID, path, body string) {
	t.Helper()
	ctx := context.Background()
	require.NoError(t, c.UpsertFile(ctx, runID, path, "h-"+path))
	require.NoError(t, c.ReplaceStatements(ctx, path, mustSource(t, body)))
}

func TestCatalog_OpenMigrates(t *testing.T) {
	c := setupCatalog(t)

	version, err := c.MigrationVersion(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int64(1), version)

	for _, table := range []string{"runs", "files", "statements"} {
		rows, err := c.db.Query("SELECT 1 FROM " + table + " LIMIT 1")
		require.NoError(t, err, "table %s", table)
		_ = rows.Close()
	}
}

func TestCatalog_OpenFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "catalog.db")
	c, err := Open(context.Background(), path, nil)
	require.NoError(t, err)
	assert.Equal(t, path, c.Path())
	require.NoError(t, c.Close())

	// reopening an existing catalog is a no-op migration
	c, err = Open(context.Background(), path, nil)
	require.NoError(t, err)
	require.NoError(t, c.Close())
}

func TestCatalog_RunLifecycle(t *testing.T) {
	c := setupCatalog(t)
	ctx := context.Background()

	run, err := c.BeginRun(ctx)
	require.NoError(t, err)
	assert.NotEmpty(t, run.ID)
	assert.Equal(t, RunStatusRunning, run.Status)

	run.Files, run.Statements, run.Errors = 2, 5, 1
	require.NoError(t, c.CompleteRun(ctx, run, RunStatusFailed, "1 file had errors"))

	got, err := c.GetRun(ctx, run.ID)
	require.NoError(t, err)
	assert.Equal(t, RunStatusFailed, got.Status)
	assert.Equal(t, 5, got.Statements)
	assert.Equal(t, "1 file had errors", got.Error)
	require.NotNil(t, got.CompletedAt)

	runs, err := c.ListRuns(ctx, 0)
	require.NoError(t, err)
	assert.Len(t, runs, 1)

	_, err = c.GetRun(ctx, "missing")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "run not found")

	err = c.CompleteRun(ctx, &Run{ID: "missing"}, RunStatusCompleted, "")
	require.Error(t, err)
}

func TestCatalog_Statements(t *testing.T) {
	c := setupCatalog(t)
	ctx := context.Background()
	run, err := c.BeginRun(ctx)
	require.NoError(t, err)

	index(t, c, run.ID, "a.rws", defsA)
	index(t, c, run.ID, "b.rws", defsB)

	all, err := c.ListStatements(ctx, Filter{})
	require.NoError(t, err)
	require.Len(t, all, 6)
	assert.Equal(t, "a.rws", all[0].File)
	assert.Equal(t, 0, all[0].Position)
	assert.Equal(t, "app_base", all[0].Name)
	assert.Equal(t, "rw app_base (append nil ?x) => ?x", all[0].Source)
	assert.Equal(t, 1, all[0].Line)

	rewrites, err := c.ListStatements(ctx, Filter{Kind: core.KindRewrite})
	require.NoError(t, err)
	assert.Len(t, rewrites, 3)

	named, err := c.ListStatements(ctx, Filter{Name: "len", File: "a.rws"})
	require.NoError(t, err)
	require.Len(t, named, 1)
	assert.Equal(t, string(core.KindFunction), named[0].Kind)

	limited, err := c.ListStatements(ctx, Filter{Limit: 2})
	require.NoError(t, err)
	assert.Len(t, limited, 2)

	// holes compare by name, so app_base and other_base stay distinct
	dups, err := c.Duplicates(ctx)
	require.NoError(t, err)
	assert.Empty(t, dups)

	index(t, c, run.ID, "c.rws", "rw copy (append nil ?x) => ?x\n")
	dups, err = c.Duplicates(ctx)
	require.NoError(t, err)
	require.Len(t, dups, 1)
	assert.Equal(t, "app_base", dups[0][0].Name)
	assert.Equal(t, "copy", dups[0][1].Name)
}

func TestCatalog_ReplaceStatements(t *testing.T) {
	c := setupCatalog(t)
	ctx := context.Background()
	run, err := c.BeginRun(ctx)
	require.NoError(t, err)

	index(t, c, run.ID, "a.rws", defsA)
	index(t, c, run.ID, "a.rws", "rw only (f ?x) => ?x\n")

	recs, err := c.ListStatements(ctx, Filter{File: "a.rws"})
	require.NoError(t, err)
	require.Len(t, recs, 1)
	assert.Equal(t, "only", recs[0].Name)

	files, err := c.ListFiles(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"a.rws"}, files)

	require.NoError(t, c.DeleteFile(ctx, "a.rws"))
	recs, err = c.ListStatements(ctx, Filter{})
	require.NoError(t, err)
	assert.Empty(t, recs)
}

func TestCatalog_FileHash(t *testing.T) {
	c := setupCatalog(t)
	ctx := context.Background()

	hash, err := c.FileHash(ctx, "a.rws")
	require.NoError(t, err)
	assert.Empty(t, hash)

	run, err := c.BeginRun(ctx)
	require.NoError(t, err)
	require.NoError(t, c.UpsertFile(ctx, run.ID, "a.rws", "one"))
	require.NoError(t, c.UpsertFile(ctx, run.ID, "a.rws", "two"))

	hash, err = c.FileHash(ctx, "a.rws")
	require.NoError(t, err)
	assert.Equal(t, "two", hash)
}

func TestFingerprint(t *testing.T) {
	parse := func(src string) core.Statement {
		stmt, err := parser.ParseStatement(src)
		require.NoError(t, err)
		return stmt
	}

	a := parse("rw a (f ?x) => ?x")
	b := parse("rw b (f ?x) => ?x")
	bi := parse("rw c (f ?x) <=> ?x")
	annotated := parse("rw d (f ?x::nat) => ?x")

	assert.Equal(t, Fingerprint(a), Fingerprint(b))
	assert.NotEqual(t, Fingerprint(a), Fingerprint(bi))
	assert.NotEqual(t, Fingerprint(a), Fingerprint(annotated))
	assert.Len(t, Fingerprint(a), 16)
	assert.Equal(t, "rewrite => - (f ?x) ?x", StatementKey(a))
}

func TestCatalog_NotOpen(t *testing.T) {
	c := &Catalog{}
	ctx := context.Background()

	_, err := c.BeginRun(ctx)
	require.ErrorIs(t, err, errNotOpen)
	_, err = c.FileHash(ctx, "x")
	require.ErrorIs(t, err, errNotOpen)
	_, err = c.ListStatements(ctx, Filter{})
	require.ErrorIs(t, err, errNotOpen)
	require.ErrorIs(t, c.Migrate(ctx), errNotOpen)
	require.NoError(t, c.Close())
}

func TestCatalog_DatabaseErrors(t *testing.T) {
	tests := []struct {
		name      string
		setupMock func(mock sqlmock.Sqlmock)
		call      func(c *Catalog) error
		errMsg    string
	}{
		{
			name: "begin run insert fails",
			setupMock: func(mock sqlmock.Sqlmock) {
				mock.ExpectExec("INSERT INTO runs").WillReturnError(assert.AnError)
			},
			call: func(c *Catalog) error {
				_, err := c.BeginRun(context.Background())
				return err
			},
			errMsg: "failed to create run",
		},
		{
			name: "file hash query fails",
			setupMock: func(mock sqlmock.Sqlmock) {
				mock.ExpectQuery("SELECT content_hash FROM files").WillReturnError(assert.AnError)
			},
			call: func(c *Catalog) error {
				_, err := c.FileHash(context.Background(), "a.rws")
				return err
			},
			errMsg: "failed to get content hash",
		},
		{
			name: "replace rolls back on insert failure",
			setupMock: func(mock sqlmock.Sqlmock) {
				mock.ExpectBegin()
				mock.ExpectExec("DELETE FROM statements").WillReturnResult(sqlmock.NewResult(0, 0))
				mock.ExpectPrepare("INSERT INTO statements").
					ExpectExec().WillReturnError(assert.AnError)
				mock.ExpectRollback()
			},
			call: func(c *Catalog) error {
				src, _ := parser.ParseSource("rw r (f ?x) => ?x\n")
				return c.ReplaceStatements(context.Background(), "a.rws", src)
			},
			errMsg: "failed to insert statement 0 of a.rws",
		},
		{
			name: "upsert fails",
			setupMock: func(mock sqlmock.Sqlmock) {
				mock.ExpectExec("INSERT INTO files").WillReturnError(assert.AnError)
			},
			call: func(c *Catalog) error {
				return c.UpsertFile(context.Background(), "run", "a.rws", "h")
			},
			errMsg: "failed to upsert file a.rws",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			db, mock, err := sqlmock.New()
			require.NoError(t, err)
			defer func() { _ = db.Close() }()

			tt.setupMock(mock)
			err = tt.call(New(db, nil))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.errMsg)
			assert.NoError(t, mock.ExpectationsWereMet())
		})
	}
}
