package dockfilelint

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wharflab/dockfilelint/internal/diagnostic"
)

func TestValidate_EmptyDocument(t *testing.T) {
	diags := Validate(nil, nil)
	require.Len(t, diags, 1)
	assert.Equal(t, diagnostic.NoSourceImage, diags[0].Code)
	assert.Equal(t, Range{}, diags[0].Range)
}

func TestValidate_WireShape(t *testing.T) {
	diags := Validate([]byte("FROM alpine\nWORKDIR app"), nil)
	require.NotEmpty(t, diags)

	data, err := json.Marshal(diags)
	require.NoError(t, err)

	var decoded []map[string]any
	require.NoError(t, json.Unmarshal(data, &decoded))
	for _, d := range decoded {
		assert.Equal(t, "dockerfile-utils", d["source"])
		sev, ok := d["severity"].(float64)
		require.True(t, ok, "severity must serialize as a number")
		assert.Contains(t, []float64{1, 2}, sev)
		assert.Contains(t, d, "instructionLine")
	}
}

func TestValidate_IgnoredRuleNeverEmits(t *testing.T) {
	src := []byte("FROM alpine\nWORKDIR app")
	settings := ValidatorSettings{Rules: map[string]Severity{
		"instructionWorkdirRelative": SeverityIgnore,
	}}
	for _, d := range Validate(src, &settings) {
		assert.NotEqual(t, diagnostic.WorkdirIsNotAbsolute, d.Code)
	}
}

func TestValidate_ElevatedRuleKeepsCodeAndRange(t *testing.T) {
	src := []byte("FROM alpine\nWORKDIR app")
	defaultDiags := Validate(src, nil)
	settings := ValidatorSettings{Rules: map[string]Severity{
		"instructionWorkdirRelative": SeverityError,
	}}
	elevated := Validate(src, &settings)
	require.Equal(t, len(defaultDiags), len(elevated))
	for i := range defaultDiags {
		assert.Equal(t, defaultDiags[i].Code, elevated[i].Code)
		assert.Equal(t, defaultDiags[i].Range, elevated[i].Range)
	}
	found := false
	for _, d := range elevated {
		if d.Code == diagnostic.WorkdirIsNotAbsolute {
			found = true
			assert.Equal(t, SeverityError, d.Severity)
		}
	}
	assert.True(t, found)
}

func TestFormat_TrimsInstructionIndent(t *testing.T) {
	edits := Format([]byte("   FROM node"), &FormatterSettings{InsertSpaces: false, TabSize: 4})
	require.Len(t, edits, 1)
	assert.Equal(t, Range{Start: Position{Line: 0, Character: 0}, End: Position{Line: 0, Character: 3}}, edits[0].Range)
	assert.Empty(t, edits[0].NewText)
}

func TestFormatRange_OnlyTouchesRequestedLines(t *testing.T) {
	src := []byte("   FROM node\n   RUN echo hi\n")
	r := Range{Start: Position{Line: 1}, End: Position{Line: 1}}
	edits := FormatRange(src, r, nil)
	require.NotEmpty(t, edits)
	for _, e := range edits {
		assert.Equal(t, 1, e.Range.Start.Line)
	}
}

func TestFormatOnType_EscapeSchedulesNextLine(t *testing.T) {
	src := []byte("EXPOSE 8081\\\n8082")
	edits := FormatOnType(src, Position{Line: 0, Character: 12}, "\\", nil)
	require.Len(t, edits, 1)
	assert.Equal(t, "\t", edits[0].NewText)
}
