package lint_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/leapstack-labs/rwspec/pkg/core"
	"github.com/leapstack-labs/rwspec/pkg/lint"
	_ "github.com/leapstack-labs/rwspec/pkg/lint/rules"
	"github.com/leapstack-labs/rwspec/pkg/parser"
)

func ruleIDs(diags []lint.Diagnostic) []string {
	out := make([]string, len(diags))
	for i, d := range diags {
		out[i] = d.RuleID
	}
	return out
}

func TestRegistry_AllRulesRegistered(t *testing.T) {
	want := []string{"CS01", "CS02", "DT01", "DT02", "FN01", "FN02", "GL01", "RW01", "RW02", "RW03", "RW04"}

	got := make([]string, 0, len(want))
	for _, r := range lint.GetAll() {
		got = append(got, r.ID)
	}
	assert.Equal(t, want, got)
	assert.Equal(t, len(want), lint.Count())

	rule, ok := lint.GetByID("RW02")
	require.True(t, ok)
	assert.Equal(t, "definitions", rule.Type())
	rule, ok = lint.GetByID("RW01")
	require.True(t, ok)
	assert.Equal(t, "statement", rule.Type())

	assert.Len(t, lint.GetByGroup("rewrite"), 4)
	assert.Empty(t, lint.GetByGroup("nope"))
}

func TestRuleInfo(t *testing.T) {
	rule, ok := lint.GetByID("RW01")
	require.True(t, ok)

	info := rule.Info()
	assert.Equal(t, "rewrite.unbound_hole", info.Name)
	assert.Equal(t, []string{"rewrite"}, info.Kinds)
	assert.Equal(t, "statement", info.Type)
	assert.Equal(t, core.SeverityError, info.DefaultSeverity)
	assert.Equal(t, []string{"check_conditions"}, info.ConfigKeys)
}

const lintSource = `rw dup (f ?x) => ?x

rw dup (g ?x) => (h ?x ?y)

prove (rev ?l) = (rev ?l)

fun len (l : (list a)) (l : nat) -> _`

func TestAnalyzer_Analyze(t *testing.T) {
	defs, err := parser.ParseDefinitions(lintSource)
	require.NoError(t, err)

	diags := lint.NewAnalyzer(nil).Analyze(defs)
	assert.Equal(t, []string{"RW01", "RW02", "GL01", "FN01", "FN02"}, ruleIDs(diags))

	assert.Equal(t, 1, diags[0].Index)
	assert.Equal(t, "dup", diags[0].Statement)
	assert.Contains(t, diags[0].Message, "?y")
	assert.Equal(t, core.SeverityError, diags[0].Severity)

	assert.Equal(t, 2, diags[2].Index)
	assert.Empty(t, diags[2].Statement)
	assert.Equal(t, "len", diags[4].Statement)
}

func TestAnalyzer_Config(t *testing.T) {
	defs, err := parser.ParseDefinitions(lintSource)
	require.NoError(t, err)

	config := lint.NewConfig().
		Disable("RW02").
		SetSeverity("GL01", core.SeverityError).
		SetRuleOptions("FN02", map[string]any{"ignore": []any{"len"}})

	diags := lint.NewAnalyzer(config).Analyze(defs)
	assert.Equal(t, []string{"RW01", "GL01", "FN01"}, ruleIDs(diags))
	assert.Equal(t, core.SeverityError, diags[1].Severity)
}

func TestAnalyzer_AnalyzeSourcePositions(t *testing.T) {
	src, err := parser.ParseSource(lintSource)
	require.NoError(t, err)

	diags := lint.NewAnalyzer(nil).AnalyzeSource(src)
	require.NotEmpty(t, diags)
	assert.Equal(t, 3, diags[0].Pos.Line)
	assert.Equal(t, 1, diags[0].Pos.Column)
}

func TestAnalyzer_Clean(t *testing.T) {
	defs, err := parser.ParseDefinitions("rw app_base (append nil ?x) => ?x\n\ndatatype list a = nil | cons (h : a) (t : (list a))")
	require.NoError(t, err)
	assert.Empty(t, lint.NewAnalyzer(nil).Analyze(defs))
}

func TestConfig_NilSafe(t *testing.T) {
	var c *lint.Config
	assert.False(t, c.IsDisabled("RW01"))
	assert.Equal(t, core.SeverityHint, c.GetSeverity("RW01", core.SeverityHint))
	assert.Nil(t, c.GetRuleOptions("RW01"))
}

func TestOptions(t *testing.T) {
	opts := map[string]any{"flag": true, "names": []any{"a", 1, "b"}, "typed": []string{"x"}}
	assert.True(t, lint.GetBoolOption(opts, "flag", false))
	assert.True(t, lint.GetBoolOption(opts, "missing", true))
	assert.False(t, lint.GetBoolOption(nil, "flag", false))
	assert.Equal(t, []string{"a", "b"}, lint.GetStringSliceOption(opts, "names", nil))
	assert.Equal(t, []string{"x"}, lint.GetStringSliceOption(opts, "typed", nil))
	assert.Equal(t, 3, lint.GetOption(opts, "missing", 3))
}
