package jsonfrag

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExtract(t *testing.T) {
	tests := []struct {
		name     string
		in       string
		parsed   bool
		fragment string
	}{
		{"bare array", `["Vision", "Control"]`, true, `["Vision", "Control"]`},
		{"bare object", `{"a": 1}`, true, `{"a": 1}`},
		{"array in prose", `Sure! Here you go: ["Vision"] Hope that helps.`, true, `["Vision"]`},
		{"object in code fence", "```json\n{\"tags\": [\"Vision\"]}\n```", true, `{"tags": ["Vision"]}`},
		{"object wrapping array", `Result: {"competencies": ["Results"]}.`, true, `{"competencies": ["Results"]}`},
		{"plain prose", "I could not find any competencies.", false, ""},
		{"empty", "   ", false, ""},
		{"truncated", `["Vision", "Con`, false, ""},
		{"scalar json is not a fragment", `"Vision"`, false, ""},
		{"brackets in prose then object", `Use [brackets] sparingly {"ok": true}`, true, `{"ok": true}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := Extract(tt.in)
			assert.Equal(t, tt.parsed, res.IsParsed())
			assert.Equal(t, tt.in, res.Raw())
			if tt.parsed {
				assert.Equal(t, tt.fragment, string(res.Fragment()))
			} else {
				assert.Nil(t, res.Fragment())
			}
		})
	}
}

func TestResult_Decode(t *testing.T) {
	var labels []string
	res := Extract(`Tags: ["Vision", "Planning"]`)
	require.True(t, res.IsArray())
	require.NoError(t, res.Decode(&labels))
	assert.Equal(t, []string{"Vision", "Planning"}, labels)

	raw := Extract("nothing here")
	assert.ErrorIs(t, raw.Decode(&labels), ErrNotParsed)
	assert.False(t, raw.IsArray())
}

func TestResult_DecodeTypeMismatch(t *testing.T) {
	var labels []string
	res := Extract(`{"tags": "Vision"}`)
	require.True(t, res.IsParsed())
	assert.Error(t, res.Decode(&labels))
}
