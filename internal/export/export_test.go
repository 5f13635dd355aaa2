package export

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/leapstack-labs/rwspec/pkg/core"
	"github.com/leapstack-labs/rwspec/pkg/parser"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sample = `rw app_base (append nil ?x) => ?x

rw comm (num ?a) ==> (plus ?a ?b) <=> (plus ?b ?a) if ?a = ?b

fun len (l : (list _)) -> nat::_3

datatype list a = nil | cons (h : a) (t : (list a))

prove (len nil) = zero

split (len ?l) by ?l into nil, (cons ?h ?t)

rw m (f (match ?l (=> nil ?d) (=> (cons ?h ?t) ?h))) => ?d
`

func parseSample(t *testing.T) core.Definitions {
	t.Helper()
	defs, err := parser.ParseDefinitions(sample)
	require.NoError(t, err)
	return defs
}

func TestBuild(t *testing.T) {
	doc := Build(parseSample(t))
	require.Len(t, doc.Statements, 7)
	assert.Equal(t, Version, doc.Version)

	rw := doc.Statements[0]
	assert.Equal(t, "rewrite", rw.Kind)
	assert.Equal(t, "app_base", rw.Name)
	require.NotNil(t, rw.Rewrite)
	assert.Equal(t, "directional", rw.Rewrite.Kind)
	assert.Nil(t, rw.Rewrite.Precondition)
	assert.Equal(t, "op", rw.Rewrite.Source.Kind)
	assert.Equal(t, "(append nil ?x)", rw.Rewrite.Source.Sexp)
	assert.Equal(t, "append", rw.Rewrite.Source.Terminal.Name)
	require.Len(t, rw.Rewrite.Source.Args, 2)
	assert.True(t, rw.Rewrite.Source.Args[1].Terminal.Hole)

	comm := doc.Statements[1].Rewrite
	assert.Equal(t, "bidirectional", comm.Kind)
	require.NotNil(t, comm.Precondition)
	assert.Len(t, comm.Conditions, 1)

	fn := doc.Statements[2].Function
	require.NotNil(t, fn)
	assert.Nil(t, fn.Body)
	assert.Equal(t, "multi", fn.Return.Kind)
	assert.Equal(t, "type", fn.Params[0].Annotation.Kind)

	dt := doc.Statements[3].Datatype
	assert.Equal(t, []string{"a"}, dt.TypeParams)
	assert.Len(t, dt.Constructors, 2)

	assert.Equal(t, "goal", doc.Statements[4].Kind)
	assert.Empty(t, doc.Statements[4].Name)
	assert.Len(t, doc.Statements[5].CaseSplit.Replacements, 2)

	m := doc.Statements[6].Rewrite.Source.Args[0]
	assert.Equal(t, "match", m.Kind)
	assert.Len(t, m.Arms, 2)
}

func TestJSON(t *testing.T) {
	defs := parseSample(t)

	var buf bytes.Buffer
	require.NoError(t, JSON(&buf, defs))

	var raw map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &raw))
	assert.EqualValues(t, 1, raw["version"])

	doc, err := Read(&buf, "json")
	require.NoError(t, err)
	back, err := doc.Definitions()
	require.NoError(t, err)
	require.Len(t, back, len(defs))
	for i := range defs {
		assert.True(t, core.EqualStatements(defs[i], back[i]), "statement %d", i)
	}
}

func TestYAML(t *testing.T) {
	defs := parseSample(t)

	var buf bytes.Buffer
	require.NoError(t, Write(&buf, "yaml", defs))
	assert.Contains(t, buf.String(), "kind: rewrite")
	assert.Contains(t, buf.String(), "name: app_base")

	doc, err := Read(&buf, "yaml")
	require.NoError(t, err)
	back, err := doc.Definitions()
	require.NoError(t, err)
	for i := range defs {
		assert.True(t, core.EqualStatements(defs[i], back[i]), "statement %d", i)
	}
}

func TestUnknownFormat(t *testing.T) {
	require.Error(t, Write(&bytes.Buffer{}, "toml", nil))
	_, err := Read(strings.NewReader(""), "toml")
	require.Error(t, err)
}

func TestDefinitions_Invalid(t *testing.T) {
	tests := []struct {
		name   string
		doc    string
		errSub string
	}{
		{"version", `{"version": 2, "statements": []}`, "unsupported document version"},
		{"kind", `{"version": 1, "statements": [{"kind": "lemma"}]}`, "unknown statement kind"},
		{"rewrite kind", `{"version": 1, "statements": [{"kind": "rewrite", "name": "r", "rewrite": {"kind": "sideways"}}]}`, "unknown rewrite kind"},
		{"missing source", `{"version": 1, "statements": [{"kind": "rewrite", "name": "r", "rewrite": {"kind": "directional"}}]}`, "source: missing term"},
		{"term kind", `{"version": 1, "statements": [{"kind": "goal", "goal": {"lhs": {"kind": "lambda"}, "rhs": {"kind": "leaf", "terminal": {"name": "x"}}}}]}`, "unknown term kind"},
		{"annotation kind", `{"version": 1, "statements": [{"kind": "function", "name": "f", "function": {"return": {"kind": "row"}}}]}`, "unknown annotation kind"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			doc, err := Read(strings.NewReader(tt.doc), "json")
			require.NoError(t, err)
			_, err = doc.Definitions()
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.errSub)
		})
	}
}
