package core

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseSeverity(t *testing.T) {
	tests := []struct {
		in   string
		want Severity
		ok   bool
	}{
		{"error", SeverityError, true},
		{"WARNING", SeverityWarning, true},
		{"info", SeverityInfo, true},
		{"hint", SeverityHint, true},
		{"fatal", SeverityWarning, false},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, ok := ParseSeverity(tt.in)
			assert.Equal(t, tt.want, got)
			assert.Equal(t, tt.ok, ok)
		})
	}
}

func TestSeverity_JSON(t *testing.T) {
	data, err := json.Marshal(map[string]Severity{"s": SeverityHint})
	require.NoError(t, err)
	assert.JSONEq(t, `{"s":"hint"}`, string(data))

	var out map[string]Severity
	require.NoError(t, json.Unmarshal([]byte(`{"s":"error"}`), &out))
	assert.Equal(t, SeverityError, out["s"])

	require.Error(t, json.Unmarshal([]byte(`{"s":"loud"}`), &out))
}
