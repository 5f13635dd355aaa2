package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateCLIDocs(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, generateCLIDocs(dir))

	index, err := os.ReadFile(filepath.Join(dir, "index.md"))
	require.NoError(t, err)
	assert.Contains(t, string(index), generatedHeader)
	assert.Contains(t, string(index), "# CLI Reference")
	assert.Contains(t, string(index), "[`check`](/cli/commands/check)")
	assert.Contains(t, string(index), "[`index`](/cli/commands/index)")
	assert.Contains(t, string(index), "RWSPEC_CATALOG__PATH")

	indexCmd, err := os.ReadFile(filepath.Join(dir, "commands", "index.md"))
	require.NoError(t, err)
	assert.Contains(t, string(indexCmd), "# index")
	assert.NotContains(t, string(indexCmd), "# CLI Reference")

	check, err := os.ReadFile(filepath.Join(dir, "commands", "check.md"))
	require.NoError(t, err)
	assert.Contains(t, string(check), "rwspec check [paths...]")
	assert.Contains(t, string(check), "`--watch`, `-w`")
	assert.Contains(t, string(check), "| Flag | Default | Config Key | Description |")

	serve, err := os.ReadFile(filepath.Join(dir, "commands", "serve.md"))
	require.NoError(t, err)
	assert.Contains(t, string(serve), "`serve.addr`")

	catalog, err := os.ReadFile(filepath.Join(dir, "commands", "catalog.md"))
	require.NoError(t, err)
	assert.Contains(t, string(catalog), "## Subcommands")
}

func TestGenerateLintDocs(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, generateLintDocs(dir))

	rules, err := os.ReadFile(filepath.Join(dir, "rules.md"))
	require.NoError(t, err)
	assert.Contains(t, string(rules), "## Rewrite {#rewrite}")
	assert.Contains(t, string(rules), "### RW01 - rewrite.unbound_hole {#RW01}")
	assert.Contains(t, string(rules), "```rws")
	assert.FileExists(t, filepath.Join(dir, "index.md"))
}

func TestGenerateSchemaDocs(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, generateSchemaDocs(dir))

	content, err := os.ReadFile(filepath.Join(dir, "configuration.md"))
	require.NoError(t, err)
	assert.Contains(t, string(content), "| `catalog.path` | string | `.rwspec/catalog.db` |")
	assert.Contains(t, string(content), "| `lint.disabled` | []string | - |")
}

func TestMarkdownWriter(t *testing.T) {
	w := NewMarkdownWriter()
	w.Header(2, "Title")
	w.Table([]string{"A", "B"}, [][]string{{"x|y", "z"}})
	w.CodeBlock("bash", "echo hi\n")

	assert.Equal(t, "## Title\n\n| A | B |\n| --- | --- |\n| x\\|y | z |\n\n```bash\necho hi\n```\n\n", string(w.Bytes()))
}

func TestCleanExample(t *testing.T) {
	assert.Equal(t, "# a\nrwspec check", cleanExample("  # a\n  rwspec check"))
}
