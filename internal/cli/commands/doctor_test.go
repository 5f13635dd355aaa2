package commands

import (
	"context"
	"encoding/json"
	"path/filepath"
	"testing"

	"github.com/leapstack-labs/rwspec/internal/cli/testutil"
	"github.com/leapstack-labs/rwspec/internal/loader"
	"github.com/leapstack-labs/rwspec/pkg/lint"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCalculateHealthScore(t *testing.T) {
	tests := []struct {
		name           string
		checks         []HealthCheck
		statementCount int
		minScore       int
		maxScore       int
	}{
		{
			name:           "no checks returns 100",
			checks:         nil,
			statementCount: 10,
			minScore:       100,
			maxScore:       100,
		},
		{
			name: "all passing returns 100",
			checks: []HealthCheck{
				{RuleID: "RW01", Status: "pass"},
				{RuleID: "RW02", Status: "pass"},
			},
			statementCount: 10,
			minScore:       100,
			maxScore:       100,
		},
		{
			name: "warnings reduce score",
			checks: []HealthCheck{
				{RuleID: "RW01", Status: "pass"},
				{RuleID: "RW03", Status: "warn", IssueCount: 2},
			},
			statementCount: 10,
			minScore:       80,
			maxScore:       99,
		},
		{
			name: "errors reduce score more",
			checks: []HealthCheck{
				{RuleID: "RW01", Status: "error", IssueCount: 2},
			},
			statementCount: 10,
			minScore:       70,
			maxScore:       95,
		},
		{
			name: "more statements means less impact per issue",
			checks: []HealthCheck{
				{RuleID: "RW03", Status: "warn", IssueCount: 5},
			},
			statementCount: 200,
			minScore:       90,
			maxScore:       100,
		},
		{
			name: "many issues can reduce to 0",
			checks: []HealthCheck{
				{RuleID: checkInvalid, Status: "error", IssueCount: 20},
				{RuleID: "RW01", Status: "error", IssueCount: 20},
			},
			statementCount: 5,
			minScore:       0,
			maxScore:       0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			score := calculateHealthScore(tt.checks, tt.statementCount)
			assert.GreaterOrEqual(t, score, tt.minScore)
			assert.LessOrEqual(t, score, tt.maxScore)
		})
	}
}

func TestGetRecommendation(t *testing.T) {
	for _, rule := range lint.GetAll() {
		assert.NotEmpty(t, getRecommendation(rule.ID), "expected recommendation for %s", rule.ID)
	}
	assert.NotEmpty(t, getRecommendation(checkInvalid))
	assert.NotEmpty(t, getRecommendation(checkDuplicate))
	assert.Empty(t, getRecommendation("UNKNOWN"))
}

func TestGenerateRecommendations(t *testing.T) {
	t.Run("deduplicates and skips passing checks", func(t *testing.T) {
		checks := []HealthCheck{
			{RuleID: "RW03", Status: "warn", IssueCount: 1},
			{RuleID: "GL01", Status: "warn", IssueCount: 2},
			{RuleID: "RW01", Status: "pass"},
		}
		recs := generateRecommendations(checks)
		require.Len(t, recs, 1)
		assert.Contains(t, recs[0], "identical")
	})

	t.Run("limits to five", func(t *testing.T) {
		var checks []HealthCheck
		for _, id := range []string{checkInvalid, checkDuplicate, "RW01", "RW02", "RW04", "DT02", "FN02", "CS01"} {
			checks = append(checks, HealthCheck{RuleID: id, Status: "warn", IssueCount: 1})
		}
		assert.Len(t, generateRecommendations(checks), 5)
	})
}

func TestBuildDoctorOutput(t *testing.T) {
	dir := testutil.SetupTestProject(t, map[string]string{
		"definitions/broken.rws": testutil.BrokenDefinitions,
		"definitions/extra.rws":  "rw app_nil_again (append nil ?x) => ?x\n\nrw same (f ?x) => (f ?x)\n",
	})

	result, err := loader.Load(context.Background(), filepath.Join(dir, "definitions"), loader.Options{})
	require.NoError(t, err)

	out := buildDoctorOutput(result, lint.NewAnalyzer(nil))

	s := out.Summary
	assert.Equal(t, 3, s.Files)
	assert.Equal(t, 8, s.Statements)
	assert.Equal(t, 5, s.Rewrites)
	assert.Equal(t, 1, s.Functions)
	assert.Equal(t, 1, s.Datatypes)
	assert.Equal(t, 1, s.Goals)
	assert.Equal(t, 1, s.Invalid)
	assert.Equal(t, 1, s.Duplicates)

	byID := make(map[string]HealthCheck)
	for _, c := range out.HealthChecks {
		byID[c.RuleID] = c
	}
	assert.Equal(t, "error", byID[checkInvalid].Status)
	assert.Equal(t, "warn", byID[checkDuplicate].Status)
	assert.Equal(t, "warn", byID["RW03"].Status)
	assert.Equal(t, "pass", byID["DT01"].Status)
	assert.Len(t, byID, len(lint.GetAll())+2)

	assert.Equal(t, 3, out.IssueCount)
	assert.Less(t, out.Score, 100)
	assert.NotEmpty(t, out.Recommendations)
}

func TestDoctorCommand(t *testing.T) {
	t.Run("json", func(t *testing.T) {
		inProject(t, "json", nil)

		stdout, _, err := execute(t, NewDoctorCommand())
		require.NoError(t, err)

		var out DoctorOutput
		require.NoError(t, json.Unmarshal([]byte(stdout), &out))
		assert.Equal(t, 5, out.Summary.Statements)
		assert.Equal(t, 100, out.Score)
		assert.Empty(t, out.Recommendations)
	})

	t.Run("markdown", func(t *testing.T) {
		inProject(t, "markdown", nil)

		stdout, _, err := execute(t, NewDoctorCommand())
		require.NoError(t, err)

		testutil.AssertNoANSI(t, stdout)
		testutil.AssertValidMarkdown(t, stdout)
		assert.Contains(t, stdout, "# rwspec Definitions Health Report")
		assert.Contains(t, stdout, "### Rewrite")
		assert.Contains(t, stdout, "**100/100**")
	})
}
