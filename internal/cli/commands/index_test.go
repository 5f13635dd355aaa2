package commands

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/leapstack-labs/rwspec/internal/catalog"
	"github.com/leapstack-labs/rwspec/internal/cli/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func runIndexJSON(t *testing.T, args ...string) (IndexOutput, error) {
	t.Helper()
	stdout, _, err := execute(t, NewIndexCommand(), args...)
	var out IndexOutput
	require.NoError(t, json.Unmarshal([]byte(stdout), &out), stdout)
	return out, err
}

func TestIndexCommand_Incremental(t *testing.T) {
	dir := inProject(t, "json", map[string]string{
		"definitions/nat.rws": "rw plus_zero (plus zero ?n) => ?n\n",
	})
	listPath := filepath.Join(dir, "definitions", "list.rws")
	natPath := filepath.Join(dir, "definitions", "nat.rws")

	out, err := runIndexJSON(t)
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{listPath, natPath}, out.Indexed)
	assert.Zero(t, out.Skipped)
	require.NotNil(t, out.Run)
	assert.Equal(t, catalog.RunStatusCompleted, out.Run.Status)
	assert.Equal(t, 6, out.Run.Statements)
	assert.FileExists(t, filepath.Join(dir, ".rwspec", "catalog.db"))

	// Unchanged files are skipped.
	out, err = runIndexJSON(t)
	require.NoError(t, err)
	assert.Empty(t, out.Indexed)
	assert.Equal(t, 2, out.Skipped)

	// --force re-indexes everything.
	out, err = runIndexJSON(t, "--force")
	require.NoError(t, err)
	assert.Len(t, out.Indexed, 2)

	// Deleted files are pruned.
	require.NoError(t, os.Remove(natPath))
	out, err = runIndexJSON(t)
	require.NoError(t, err)
	assert.Equal(t, []string{natPath}, out.Removed)
}

func TestIndexCommand_InvalidFile(t *testing.T) {
	dir := inProject(t, "json", map[string]string{
		"definitions/broken.rws": testutil.BrokenDefinitions,
	})

	out, err := runIndexJSON(t)
	require.ErrorIs(t, err, ErrInvalidDefinitions)
	assert.Equal(t, []string{filepath.Join(dir, "definitions", "broken.rws")}, out.Failed)
	assert.Len(t, out.Indexed, 1)
	assert.Equal(t, 1, out.Run.Errors)
}

func TestIndexCommand_CatalogFlag(t *testing.T) {
	dir := inProject(t, "json", nil)
	dbPath := filepath.Join(dir, "custom", "cat.db")

	_, err := runIndexJSON(t, "--catalog", dbPath)
	require.NoError(t, err)
	assert.FileExists(t, dbPath)
	assert.NoFileExists(t, filepath.Join(dir, ".rwspec", "catalog.db"))
}

func TestCatalogCommand(t *testing.T) {
	dir := inProject(t, "json", map[string]string{
		"definitions/dup.rws": "rw app_nil_again (append nil ?x) => ?x\n",
	})
	_, err := runIndexJSON(t)
	require.NoError(t, err)

	t.Run("statements", func(t *testing.T) {
		stdout, _, err := execute(t, NewCatalogCommand(), "statements", "--kind", "rewrite")
		require.NoError(t, err)

		var recs []catalog.StatementRecord
		require.NoError(t, json.Unmarshal([]byte(stdout), &recs))
		require.Len(t, recs, 3)
		for _, rec := range recs {
			assert.Equal(t, "rewrite", rec.Kind)
		}
	})

	t.Run("statements by name", func(t *testing.T) {
		stdout, _, err := execute(t, NewCatalogCommand(), "ls", "--name", "app_cons")
		require.NoError(t, err)

		var recs []catalog.StatementRecord
		require.NoError(t, json.Unmarshal([]byte(stdout), &recs))
		require.Len(t, recs, 1)
		assert.Equal(t, filepath.Join(dir, "definitions", "list.rws"), recs[0].File)
		assert.Equal(t, 3, recs[0].Position)
	})

	t.Run("files", func(t *testing.T) {
		stdout, _, err := execute(t, NewCatalogCommand(), "files")
		require.NoError(t, err)

		var files []string
		require.NoError(t, json.Unmarshal([]byte(stdout), &files))
		assert.Len(t, files, 2)
	})

	t.Run("runs", func(t *testing.T) {
		stdout, _, err := execute(t, NewCatalogCommand(), "runs")
		require.NoError(t, err)

		var runs []catalog.Run
		require.NoError(t, json.Unmarshal([]byte(stdout), &runs))
		require.Len(t, runs, 1)
		assert.Equal(t, catalog.RunStatusCompleted, runs[0].Status)
	})

	t.Run("dups", func(t *testing.T) {
		stdout, _, err := execute(t, NewCatalogCommand(), "dups")
		require.NoError(t, err)

		var groups [][]catalog.StatementRecord
		require.NoError(t, json.Unmarshal([]byte(stdout), &groups))
		require.Len(t, groups, 1)
		names := []string{groups[0][0].Name, groups[0][1].Name}
		assert.ElementsMatch(t, []string{"app_nil", "app_nil_again"}, names)
	})
}

func TestCatalogCommand_Text(t *testing.T) {
	inProject(t, "text", nil)
	_, _, err := execute(t, NewIndexCommand())
	require.NoError(t, err)

	stdout, _, err := execute(t, NewCatalogCommand(), "statements")
	require.NoError(t, err)
	testutil.AssertNoANSI(t, stdout)
	assert.Contains(t, stdout, "(5 statements)")
	assert.Contains(t, stdout, "app_cons")
}
