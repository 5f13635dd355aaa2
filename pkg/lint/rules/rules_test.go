package rules_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/leapstack-labs/rwspec/pkg/lint"
	_ "github.com/leapstack-labs/rwspec/pkg/lint/rules"
	"github.com/leapstack-labs/rwspec/pkg/parser"
)

// only runs a single rule over src.
func only(t *testing.T, ruleID, src string, opts map[string]any) []lint.Diagnostic {
	t.Helper()

	defs, err := parser.ParseDefinitions(src)
	require.NoError(t, err)

	config := lint.NewConfig()
	for _, r := range lint.GetAll() {
		if r.ID != ruleID {
			config.Disable(r.ID)
		}
	}
	if opts != nil {
		config.SetRuleOptions(ruleID, opts)
	}
	return lint.NewAnalyzer(config).Analyze(defs)
}

func TestRules(t *testing.T) {
	tests := []struct {
		rule  string
		name  string
		src   string
		opts  map[string]any
		count int
	}{
		{"RW01", "bound", "rw r (f ?x ?y) => (g ?y ?x)", nil, 0},
		{"RW01", "unbound destination", "rw r (f ?x) => (g ?x ?y ?z)", nil, 2},
		{"RW01", "unbound condition", "rw r (f ?x) => ?x if ?x = ?w", nil, 1},
		{"RW01", "conditions disabled", "rw r (f ?x) => ?x if ?x = ?w", map[string]any{"check_conditions": false}, 0},
		{"RW01", "unbound precondition", "rw r (ok ?n) ==> (f ?x) => ?x", nil, 1},
		{"RW01", "bidirectional both ways", "rw r (f ?x ?y) <=> (g ?x)", nil, 1},
		{"RW01", "repeated hole reported once", "rw r (f ?x) => (g ?y ?y)", nil, 1},

		{"RW02", "unique", "rw a x => y\n\nrw b x => y", nil, 0},
		{"RW02", "duplicate", "rw a x => y\n\nrw a y => x\n\nrw a z => x", nil, 2},

		{"RW03", "identity", "rw r (f ?x) => (f ?x)", nil, 1},
		{"RW03", "searcher ignored", "rw r (f ?x) |> (f ?x)", nil, 0},
		{"RW03", "different", "rw r (f ?x) => ?x", nil, 0},

		{"RW04", "bare source", "rw r ?x => (f ?x)", nil, 1},
		{"RW04", "bidirectional bare destination", "rw r (f ?x) <=> ?x", nil, 1},
		{"RW04", "pattern", "rw r (f ?x) => ?x", nil, 0},

		{"DT01", "duplicate constructor", "datatype t = a | b | a", nil, 1},
		{"DT01", "unique", "datatype t = a | b", nil, 0},

		{"DT02", "unused param", "datatype box a b = box (v : a)", nil, 1},
		{"DT02", "nested use", "datatype tree a = leaf | node (c : (list (tree a)))", nil, 0},
		{"DT02", "placeholder field does not count", "datatype box a = box (v)", nil, 1},

		{"FN01", "duplicate", "fun f (x : a) (x : b) -> a", nil, 1},
		{"FN01", "unique", "fun f (x : a) (y : b) -> a", nil, 0},

		{"FN02", "placeholder return", "fun f (x : a) -> _", nil, 1},
		{"FN02", "multi with type", "fun f (x : a) -> _::nat", nil, 0},
		{"FN02", "ignored", "fun f (x : a) -> _", map[string]any{"ignore": []string{"f"}}, 0},

		{"GL01", "trivial", "prove (f ?x) = (f ?x)", nil, 1},
		{"GL01", "real goal", "prove (rev (rev ?l)) = ?l", nil, 0},

		{"CS01", "hole target", "split (len ?l) by ?l into nil, (cons ?h ?t)", nil, 0},
		{"CS01", "hole headed target", "split (f ?l) by (?g ?l) into nil", nil, 0},
		{"CS01", "concrete target", "split (len ?l) by nil into nil", nil, 1},

		{"CS02", "duplicate replacement", "split (len ?l) by ?l into nil, nil, (cons ?h ?t)", nil, 1},
		{"CS02", "distinct", "split (len ?l) by ?l into nil, (cons ?h ?t)", nil, 0},
	}

	for _, tt := range tests {
		t.Run(tt.rule+"/"+tt.name, func(t *testing.T) {
			diags := only(t, tt.rule, tt.src, tt.opts)
			assert.Len(t, diags, tt.count, "%v", diags)
			for _, d := range diags {
				assert.Equal(t, tt.rule, d.RuleID)
				assert.NotEmpty(t, d.Message)
			}
		})
	}
}
