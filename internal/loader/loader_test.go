package loader

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/leapstack-labs/rwspec/internal/testutil"
	"github.com/leapstack-labs/rwspec/pkg/core"
	"github.com/leapstack-labs/rwspec/pkg/parser"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const listRules = `rw app_base (append nil ?x) => ?x

rw app_rec (append (cons ?h ?t) ?l) => (cons ?h (append ?t ?l))
`

const badRules = `rw ok (f ?x) => ?x

rw bad (f ?x) => (g x ?x)

rw also_ok (g ?y) => ?y
`

func fixture(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	testutil.WriteFiles(t, dir, map[string]string{
		"list.rws":         listRules,
		"nested/bad.rws":   badRules,
		"notes.txt":        "not a definition file",
		".hidden/skip.rws": "rw x a => b\n",
		".skip.rws":        "rw y a => b\n",
	})
	return dir
}

func TestDiscover(t *testing.T) {
	dir := fixture(t)

	paths, err := Discover(dir)
	require.NoError(t, err)
	assert.Equal(t, []string{
		filepath.Join(dir, "list.rws"),
		filepath.Join(dir, "nested", "bad.rws"),
	}, paths)

	single, err := Discover(filepath.Join(dir, "notes.txt"))
	require.NoError(t, err)
	assert.Len(t, single, 1)

	_, err = Discover(filepath.Join(dir, "missing"))
	require.Error(t, err)
}

func TestDiscoverAll_Dedupes(t *testing.T) {
	dir := fixture(t)
	paths, err := DiscoverAll([]string{dir, filepath.Join(dir, "list.rws")})
	require.NoError(t, err)
	assert.Len(t, paths, 2)
}

func TestLoad(t *testing.T) {
	dir := fixture(t)

	result, err := Load(context.Background(), dir, Options{
		Workers: 2,
		Logger:  testutil.NewTestLogger(t),
	})
	require.NoError(t, err)
	require.Len(t, result.Files, 2)

	list := result.Files[0]
	assert.Equal(t, filepath.Join(dir, "list.rws"), list.Path)
	assert.True(t, list.OK())
	assert.Len(t, list.Source.Statements, 2)
	assert.Equal(t, Hash([]byte(listRules)), list.Hash)

	bad := result.Files[1]
	assert.False(t, bad.OK())
	require.Len(t, bad.Errors, 1)
	var conflict *core.HoleConflictError
	require.True(t, errors.As(bad.Errors[0], &conflict))
	assert.Equal(t, "x", conflict.Name)
	assert.Contains(t, bad.Errors[0].Error(), "bad.rws")
	assert.Len(t, bad.Source.Statements, 2)

	assert.True(t, result.HasErrors())
	assert.Equal(t, 1, result.ErrorCount())
	assert.Len(t, result.Definitions(), 4)
	assert.Contains(t, result.Summary(), "Statements: 4")
}

func TestLoad_Unchanged(t *testing.T) {
	dir := fixture(t)
	listHash := Hash([]byte(listRules))

	result, err := Load(context.Background(), dir, Options{
		Unchanged: func(_, hash string) bool { return hash == listHash },
	})
	require.NoError(t, err)
	assert.True(t, result.Files[0].Skipped)
	assert.Nil(t, result.Files[0].Source)
	assert.False(t, result.Files[1].Skipped)
}

func TestLoad_AnnotationScope(t *testing.T) {
	dir := t.TempDir()
	testutil.WriteFiles(t, dir, map[string]string{
		"a.rws": "rw r (f ?x::(list ?t)) => (g t)\n",
	})

	plain, err := Load(context.Background(), dir, Options{})
	require.NoError(t, err)
	assert.True(t, plain.Files[0].OK())

	scoped, err := Load(context.Background(), dir, Options{
		Parse: []parser.Option{parser.WithAnnotationScope(true)},
	})
	require.NoError(t, err)
	assert.False(t, scoped.Files[0].OK())
}

func TestLoadFiles_MissingFile(t *testing.T) {
	result, err := LoadFiles(context.Background(), []string{filepath.Join(t.TempDir(), "gone.rws")}, Options{})
	require.NoError(t, err)
	require.Len(t, result.Files, 1)
	assert.False(t, result.Files[0].OK())
	assert.Empty(t, result.Files[0].Hash)
}

func TestLoadFiles_Canceled(t *testing.T) {
	dir := fixture(t)
	paths, err := Discover(dir)
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = LoadFiles(ctx, paths, Options{})
	require.ErrorIs(t, err, context.Canceled)
}
