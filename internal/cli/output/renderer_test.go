package output

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseMode(t *testing.T) {
	tests := []struct {
		in      string
		want    Mode
		wantErr bool
	}{
		{"", ModeAuto, false},
		{"auto", ModeAuto, false},
		{"text", ModeText, false},
		{"md", ModeMarkdown, false},
		{"json", ModeJSON, false},
		{"html", "", true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseMode(tt.in)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestRenderer_EffectiveMode(t *testing.T) {
	var out bytes.Buffer
	assert.Equal(t, ModeText, NewRendererWithTTY(&out, &out, true, ModeAuto).EffectiveMode())
	assert.Equal(t, ModeMarkdown, NewRendererWithTTY(&out, &out, false, ModeAuto).EffectiveMode())
	assert.Equal(t, ModeJSON, NewRendererWithTTY(&out, &out, true, ModeJSON).EffectiveMode())
	assert.Equal(t, ModeMarkdown, NewRenderer(&out, &out, "").EffectiveMode(), "buffer is not a terminal")
}

func TestRenderer_Markdown(t *testing.T) {
	var out, errOut bytes.Buffer
	r := NewRendererWithTTY(&out, &errOut, false, ModeMarkdown)

	r.Header(2, "Rules")
	r.Table([]string{"ID", "Name"}, [][]string{{"RW01", "rewrite.unbound_hole"}})
	r.Success("done")
	r.Warning("careful")

	s := out.String()
	assert.Contains(t, s, "## Rules\n")
	assert.Contains(t, s, "| ID | Name |")
	assert.Contains(t, s, "| RW01 | rewrite.unbound_hole |")
	assert.Contains(t, s, "done\n")
	assert.NotContains(t, s, "\x1b[")
	assert.Equal(t, "warning: careful\n", errOut.String())
}

func TestRenderer_TextTable(t *testing.T) {
	var out bytes.Buffer
	r := NewRendererWithTTY(&out, &out, false, ModeText)
	r.Table([]string{"File", "Statements"}, [][]string{{"a.rws", "3"}})
	assert.Contains(t, out.String(), "┌")
	assert.Contains(t, out.String(), "a.rws")
}

func TestRenderer_JSON(t *testing.T) {
	var out bytes.Buffer
	r := NewRendererWithTTY(&out, &out, false, ModeJSON)
	require.NoError(t, r.JSON(map[string]int{"files": 2}))

	var got map[string]int
	require.NoError(t, json.Unmarshal(out.Bytes(), &got))
	assert.Equal(t, 2, got["files"])
}

func TestFormatHelpers(t *testing.T) {
	assert.Equal(t, "# Title", FormatHeader(0, "Title"))
	assert.Equal(t, "### Sub", FormatHeader(3, "Sub"))
	assert.Equal(t, "```rws\nrw a ?x => ?x\n```", FormatCodeBlock("rws", "rw a ?x => ?x\n"))
	assert.Equal(t, "- **root**: cons", FormatKeyValue("root", "cons"))
}
