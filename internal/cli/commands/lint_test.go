package commands

import (
	"encoding/json"
	"testing"

	"github.com/leapstack-labs/rwspec/internal/cli/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const suspiciousDefinitions = `rw same (f ?x) => (f ?x)

rw loose (g ?x) => (h ?x ?y)
`

func lintRuleIDs(out LintOutput) []string {
	var ids []string
	for _, f := range out.Files {
		for _, d := range f.Diagnostics {
			ids = append(ids, d.RuleID)
		}
	}
	return ids
}

func TestLintCommand(t *testing.T) {
	tests := []struct {
		name    string
		args    []string
		wantIDs []string
	}{
		{name: "all rules", args: nil, wantIDs: []string{"RW01", "RW03"}},
		{name: "errors only", args: []string{"--severity", "error"}, wantIDs: []string{"RW01"}},
		{name: "single rule", args: []string{"--rule", "rw03"}, wantIDs: []string{"RW03"}},
		{name: "disabled", args: []string{"--disable", "RW01,RW03"}, wantIDs: nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			inProject(t, "json", map[string]string{"definitions/suspicious.rws": suspiciousDefinitions})

			stdout, _, err := execute(t, NewLintCommand(), tt.args...)

			var out LintOutput
			require.NoError(t, json.Unmarshal([]byte(stdout), &out))
			assert.Equal(t, 2, out.Summary.FilesAnalyzed)
			assert.ElementsMatch(t, tt.wantIDs, lintRuleIDs(out))
			assert.Equal(t, len(tt.wantIDs), out.Summary.TotalIssues)
			if len(tt.wantIDs) == 0 {
				require.NoError(t, err)
			} else {
				require.ErrorIs(t, err, ErrLintIssues)
			}
		})
	}
}

func TestLintCommand_UnknownSeverity(t *testing.T) {
	inProject(t, "json", nil)

	_, _, err := execute(t, NewLintCommand(), "--severity", "fatal")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown severity")
}

func TestLintCommand_SkipsInvalidStatements(t *testing.T) {
	inProject(t, "markdown", map[string]string{
		"definitions/broken.rws": testutil.BrokenDefinitions,
	})

	stdout, stderr, err := execute(t, NewLintCommand())
	require.NoError(t, err)
	assert.Contains(t, stderr, "skipped")
	assert.Contains(t, stdout, "No lint issues found")
}

func TestSummarize(t *testing.T) {
	inProject(t, "json", map[string]string{"definitions/suspicious.rws": suspiciousDefinitions})

	stdout, _, _ := execute(t, NewLintCommand())
	var out LintOutput
	require.NoError(t, json.Unmarshal([]byte(stdout), &out))

	assert.Equal(t, 1, out.Summary.Errors)
	assert.Equal(t, 1, out.Summary.Warnings)
	assert.Zero(t, out.Summary.Info)
}
