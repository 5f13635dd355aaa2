package commands

import (
	"encoding/json"
	"testing"

	"github.com/leapstack-labs/rwspec/internal/cli/testutil"
	"github.com/leapstack-labs/rwspec/pkg/core"
	"github.com/leapstack-labs/rwspec/pkg/lint"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRulesCommand_ListAll(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("RWSPEC_OUTPUT", "markdown")

	stdout, _, err := execute(t, NewRulesCommand())
	require.NoError(t, err)

	testutil.AssertValidMarkdown(t, stdout)
	assert.Contains(t, stdout, "# Lint Rules")
	for _, group := range []string{"## Casesplit", "## Datatype", "## Function", "## Goal", "## Rewrite"} {
		assert.Contains(t, stdout, group)
	}
	assert.Contains(t, stdout, "- **RW01** - rewrite.unbound_hole (`error`)")
}

func TestRulesCommand_FilterByGroup(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("RWSPEC_OUTPUT", "markdown")

	stdout, _, err := execute(t, NewRulesCommand(), "--group", "rewrite")
	require.NoError(t, err)

	assert.Contains(t, stdout, "## Rewrite")
	assert.NotContains(t, stdout, "## Datatype")
}

func TestRulesCommand_ShowSpecificRule(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("RWSPEC_OUTPUT", "markdown")

	stdout, _, err := execute(t, NewRulesCommand(), "rw01")
	require.NoError(t, err)

	testutil.AssertValidMarkdown(t, stdout)
	assert.Contains(t, stdout, "# RW01 - rewrite.unbound_hole")
	assert.Contains(t, stdout, "## Bad Example")
	assert.Contains(t, stdout, "```rws")
	assert.Contains(t, stdout, "Options: `check_conditions`")
}

func TestRulesCommand_ShowByName(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("RWSPEC_OUTPUT", "json")

	stdout, _, err := execute(t, NewRulesCommand(), "goal.trivial")
	require.NoError(t, err)

	var rule core.RuleInfo
	require.NoError(t, json.Unmarshal([]byte(stdout), &rule))
	assert.Equal(t, "GL01", rule.ID)
}

func TestRulesCommand_NotFound(t *testing.T) {
	t.Chdir(t.TempDir())

	_, _, err := execute(t, NewRulesCommand(), "INVALID99")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not found")
}

func TestRulesCommand_JSON(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("RWSPEC_OUTPUT", "json")

	stdout, _, err := execute(t, NewRulesCommand())
	require.NoError(t, err)

	var result RulesJSONOutput
	require.NoError(t, json.Unmarshal([]byte(stdout), &result))
	assert.Equal(t, len(lint.GetAll()), result.Count)
	assert.Len(t, result.Rules, result.Count)
}

func TestRulesCommand_TextDetails(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("RWSPEC_OUTPUT", "text")

	stdout, _, err := execute(t, NewRulesCommand(), "--details")
	require.NoError(t, err)

	testutil.AssertNoANSI(t, stdout)
	assert.Contains(t, stdout, "Lint Rules (")
	assert.Contains(t, stdout, "Why: ")
}

func TestAllRuleInfo_Sorted(t *testing.T) {
	rules := allRuleInfo()
	require.NotEmpty(t, rules)
	for i := 1; i < len(rules); i++ {
		prev, cur := rules[i-1], rules[i]
		if prev.Group == cur.Group {
			assert.Less(t, prev.ID, cur.ID)
		} else {
			assert.Less(t, prev.Group, cur.Group)
		}
	}
}

func TestFilterRules(t *testing.T) {
	rules := []core.RuleInfo{
		{ID: "RW01", Group: "rewrite", Kinds: []string{"rewrite"}},
		{ID: "DT01", Group: "datatype", Kinds: []string{"datatype"}},
		{ID: "XX01", Group: "misc"},
	}

	assert.Len(t, filterRules(rules, &RulesOptions{}), 3)

	byGroup := filterRules(rules, &RulesOptions{Group: "rewrite"})
	require.Len(t, byGroup, 1)
	assert.Equal(t, "RW01", byGroup[0].ID)

	// Rules without kinds apply to every statement.
	byKind := filterRules(rules, &RulesOptions{Kind: "datatype"})
	require.Len(t, byKind, 2)
	assert.Equal(t, "DT01", byKind[0].ID)
	assert.Equal(t, "XX01", byKind[1].ID)
}

func TestTruncateOneLine(t *testing.T) {
	tests := []struct {
		input  string
		maxLen int
		want   string
	}{
		{"short", 10, "short"},
		{"line one\nline two", 20, "line one line two"},
		{"this is a long sentence", 10, "this is..."},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, truncateOneLine(tt.input, tt.maxLen))
	}
}
