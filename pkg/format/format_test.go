package format

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/leapstack-labs/rwspec/pkg/core"
	"github.com/leapstack-labs/rwspec/pkg/parser"
)

func TestFormat_Statements(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{
			name:     "directional rewrite",
			input:    "rw   app_base (append   nil ?x)\n  => ?x",
			expected: "rw app_base (append nil ?x) => ?x\n",
		},
		{
			name:     "bidirectional with precondition",
			input:    "rw comm (num ?a) ==> (plus ?a ?b) <=> (plus ?b ?a)",
			expected: "rw comm (num ?a) ==> (plus ?a ?b) <=> (plus ?b ?a)\n",
		},
		{
			name:  "conditions",
			input: "rw c (f ?x ?y) |> ?x if ?x = ?y, (g ?x) = nil",
			expected: `rw c (f ?x ?y) |> ?x
  if ?x = ?y, (g ?x) = nil
`,
		},
		{
			name:     "function with fresh placeholders",
			input:    "fun len (l : (list a)) (acc) -> nat = (count l acc)",
			expected: "fun len (l : (list a)) (acc : _1) -> nat = (count l acc)\n",
		},
		{
			name:     "abstract function",
			input:    "fun succ (n : nat::_3) -> nat",
			expected: "fun succ (n : nat::_3) -> nat\n",
		},
		{
			name:     "small datatype",
			input:    "datatype list a = nil | cons (h : a) (t : (list a))",
			expected: "datatype list a = nil | cons (h : a) (t : (list a))\n",
		},
		{
			name:  "large datatype",
			input: "datatype tree a = leaf | node (l : (tree a)) (v : a) (r : (tree a)) | stub (v : a)",
			expected: `datatype tree a
  = leaf
  | node (l : (tree a)) (v : a) (r : (tree a))
  | stub (v : a)
`,
		},
		{
			name:     "goal",
			input:    "prove (rev (rev ?l)) = ?l",
			expected: "prove (rev (rev ?l)) = ?l\n",
		},
		{
			name:     "case split",
			input:    "split (len ?l) by ?l into nil, (cons ?h ?t)",
			expected: "split (len ?l) by ?l into nil, (cons ?h ?t)\n",
		},
		{
			name:     "annotated terminals",
			input:    "rw a (f ?x::nat::_2) => (match ?x::nat (=> zero one))",
			expected: "rw a (f ?x::nat::_2) => (match ?x::nat (=> zero one))\n",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			stmt, err := parser.ParseStatement(tt.input)
			require.NoError(t, err)
			assert.Equal(t, tt.expected, Statement(stmt))
		})
	}
}

func TestFormat_RoundTrip(t *testing.T) {
	inputs := []string{
		"rw app_cons (append (cons ?h ?t) ?y) => (cons ?h (append ?t ?y))",
		"rw c (f ?x ?y) => ?x if ?x = ?y",
		"fun f (a) (b : _) (c : (pair a b)) -> _",
		"datatype tree a = leaf | node (l : (tree a)) (v) (r : (tree a)) | stub",
		"prove (ok ?x) ==> (id ?x) = ?x",
		"split (len ?l) by ?l into nil, (cons ?h ?t) if ?h = ?h",
		"rw m (f (match ?l (=> nil ?d) (=> (cons ?h ?t) ?h))) => ?d",
	}

	for _, in := range inputs {
		t.Run(in, func(t *testing.T) {
			stmt, err := parser.ParseStatement(in)
			require.NoError(t, err)

			out := Statement(stmt)
			again, err := parser.ParseStatement(out)
			require.NoError(t, err, out)
			assert.True(t, core.EqualStatements(stmt, again), "formatted: %s", out)
			assert.Equal(t, out, Statement(again))
		})
	}
}

func TestFormat_Definitions(t *testing.T) {
	defs, err := parser.ParseDefinitions("rw a ?x => ?x\n\n\n\nprove x = x\n")
	require.NoError(t, err)
	assert.Equal(t, "rw a ?x => ?x\n\nprove x = x\n", Definitions(defs))
}

func TestFormat_CommentPreservation(t *testing.T) {
	input := `-- Leading comment
rw a (f ?x) => ?x -- same line

-- before goal
-- second line
prove x = x

-- dangling`

	src, err := parser.ParseSource(input)
	require.NoError(t, err)

	expected := `-- Leading comment
rw a (f ?x) => ?x -- same line

-- before goal
-- second line
prove x = x

-- dangling
`
	assert.Equal(t, expected, Source(src))
}

func TestExpressionAndAnnotation(t *testing.T) {
	e := core.NewLeaf(core.Hole("x").WithAnnotation(core.Multi(core.Multi(core.PH(1)), core.Type(core.NewOp(core.ID("list"), core.NewLeaf(core.ID("a")))))))
	assert.Equal(t, "?x::_1::(list a)", Expression(e))
	assert.Equal(t, "_7", Annotation(core.PH(7)))
}
