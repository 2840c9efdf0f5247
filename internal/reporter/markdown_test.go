package reporter

import (
	"bytes"
	"strings"
	"testing"

	"github.com/wharflab/dockfilelint/internal/diagnostic"
	"github.com/wharflab/dockfilelint/internal/sourcemap"
)

func TestMarkdownReporterSingleFile(t *testing.T) {
	findings := []Finding{
		{
			File: "Dockerfile",
			Diagnostic: diagnostic.New(
				sourcemap.Range{Start: sourcemap.Position{Line: 5, Character: 0}},
				diagnostic.SeverityWarning, diagnostic.CasingInstruction, "Stage name 'Builder' should be lowercase"),
		},
		{
			File: "Dockerfile",
			Diagnostic: diagnostic.New(
				sourcemap.Range{Start: sourcemap.Position{Line: 10, Character: 0}},
				diagnostic.SeverityError, diagnostic.WorkdirIsNotAbsolute, "Use absolute WORKDIR"),
		},
	}

	var buf bytes.Buffer
	rep := NewMarkdownReporter(&buf)

	err := rep.Report(findings, nil, ReportMetadata{})
	if err != nil {
		t.Fatalf("Report() error = %v", err)
	}

	output := buf.String()

	if !strings.Contains(output, "**2 issues** in `Dockerfile`") {
		t.Errorf("Expected summary line, got: %s", output)
	}

	if !strings.Contains(output, "| Line | Issue |") {
		t.Errorf("Expected table header, got: %s", output)
	}

	lines := strings.Split(output, "\n")
	errorLine := -1
	warningLine := -1
	for i, line := range lines {
		if strings.Contains(line, "Use absolute WORKDIR") {
			errorLine = i
		}
		if strings.Contains(line, "Stage name") {
			warningLine = i
		}
	}
	if errorLine == -1 || warningLine == -1 {
		t.Fatalf(
			"expected both error and warning lines to be present; got errorLine=%d warningLine=%d",
			errorLine,
			warningLine,
		)
	}
	if errorLine >= warningLine {
		t.Error("Expected error to come before warning in output")
	}

	if !strings.Contains(output, "❌") {
		t.Error("Expected error emoji in output")
	}
	if !strings.Contains(output, "⚠️") {
		t.Error("Expected warning emoji in output")
	}
}

func TestMarkdownReporterMultipleFiles(t *testing.T) {
	findings := []Finding{
		{
			File: "Dockerfile.prod",
			Diagnostic: diagnostic.New(
				sourcemap.Range{Start: sourcemap.Position{Line: 5, Character: 0}},
				diagnostic.SeverityWarning, diagnostic.CasingInstruction, "Issue in prod"),
		},
		{
			File: "Dockerfile.dev",
			Diagnostic: diagnostic.New(
				sourcemap.Range{Start: sourcemap.Position{Line: 3, Character: 0}},
				diagnostic.SeverityWarning, diagnostic.CasingInstruction, "Issue in dev"),
		},
	}

	var buf bytes.Buffer
	rep := NewMarkdownReporter(&buf)

	err := rep.Report(findings, nil, ReportMetadata{})
	if err != nil {
		t.Fatalf("Report() error = %v", err)
	}

	output := buf.String()

	if !strings.Contains(output, "across 2 files") {
		t.Errorf("Expected multi-file summary, got: %s", output)
	}

	if !strings.Contains(output, "| File | Line | Issue |") {
		t.Errorf("Expected multi-file table header, got: %s", output)
	}
}

func TestMarkdownReporterEmpty(t *testing.T) {
	var buf bytes.Buffer
	rep := NewMarkdownReporter(&buf)

	err := rep.Report(nil, nil, ReportMetadata{})
	if err != nil {
		t.Fatalf("Report() error = %v", err)
	}

	output := buf.String()
	if !strings.Contains(output, "**No issues found**") {
		t.Errorf("Expected no issues message, got: %s", output)
	}
}

func TestMarkdownReporterSeverityEmojis(t *testing.T) {
	tests := []struct {
		name     string
		severity diagnostic.Severity
		emoji    string
	}{
		{"error", diagnostic.SeverityError, "❌"},
		{"warning", diagnostic.SeverityWarning, "⚠️"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := severityEmoji(tt.severity)
			if result != tt.emoji {
				t.Errorf("severityEmoji(%v) = %q, want %q", tt.severity, result, tt.emoji)
			}
		})
	}
}

func TestMarkdownReporterEscaping(t *testing.T) {
	findings := []Finding{
		{
			File: "Dockerfile",
			Diagnostic: diagnostic.New(
				sourcemap.Range{Start: sourcemap.Position{Line: 1, Character: 0}},
				diagnostic.SeverityWarning, diagnostic.CasingInstruction, "Message with | pipe and\nnewline"),
		},
	}

	var buf bytes.Buffer
	rep := NewMarkdownReporter(&buf)

	err := rep.Report(findings, nil, ReportMetadata{})
	if err != nil {
		t.Fatalf("Report() error = %v", err)
	}

	output := buf.String()

	if strings.Contains(output, "with | pipe") {
		t.Error("Expected pipe to be escaped")
	}
	if !strings.Contains(output, "with \\| pipe") {
		t.Errorf("Expected escaped pipe in output: %s", output)
	}

	if strings.Contains(output, "and\nnewline") {
		t.Error("Expected newline to be removed from message")
	}
}

func TestMarkdownReporterFileLevelFinding(t *testing.T) {
	findings := []Finding{
		{
			File:       "Dockerfile",
			Diagnostic: diagnostic.New(sourcemap.Range{}, diagnostic.SeverityWarning, diagnostic.NoSourceImage, "File-level issue"),
		},
	}

	var buf bytes.Buffer
	rep := NewMarkdownReporter(&buf)

	err := rep.Report(findings, nil, ReportMetadata{})
	if err != nil {
		t.Fatalf("Report() error = %v", err)
	}

	output := buf.String()

	if !strings.Contains(output, "| - |") {
		t.Errorf("Expected '-' for file-level finding line, got: %s", output)
	}
}

func TestSortFindingsBySeverity(t *testing.T) {
	findings := []Finding{
		{File: "a.txt", Diagnostic: diagnostic.New(sourcemap.Range{Start: sourcemap.Position{Line: 1}}, diagnostic.SeverityWarning, diagnostic.CasingInstruction, "w1")},
		{File: "a.txt", Diagnostic: diagnostic.New(sourcemap.Range{Start: sourcemap.Position{Line: 2}}, diagnostic.SeverityError, diagnostic.WorkdirIsNotAbsolute, "e1")},
		{File: "a.txt", Diagnostic: diagnostic.New(sourcemap.Range{Start: sourcemap.Position{Line: 3}}, diagnostic.SeverityWarning, diagnostic.DeprecatedMaintainer, "w2")},
	}

	sorted := SortFindingsBySeverity(findings)

	expectedOrder := []diagnostic.Severity{
		diagnostic.SeverityError,
		diagnostic.SeverityWarning,
		diagnostic.SeverityWarning,
	}

	if len(sorted) != len(expectedOrder) {
		t.Fatalf("expected %d findings, got %d", len(expectedOrder), len(sorted))
	}

	for i, expected := range expectedOrder {
		if sorted[i].Diagnostic.Severity != expected {
			t.Errorf("Position %d: expected %v, got %v", i, expected, sorted[i].Diagnostic.Severity)
		}
	}
}

func TestParseFormatMarkdown(t *testing.T) {
	tests := []struct {
		input    string
		expected Format
		wantErr  bool
	}{
		{"markdown", FormatMarkdown, false},
		{"md", FormatMarkdown, false},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			format, err := ParseFormat(tt.input)
			if (err != nil) != tt.wantErr {
				t.Errorf("ParseFormat(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
			if !tt.wantErr && format != tt.expected {
				t.Errorf("ParseFormat(%q) = %v, want %v", tt.input, format, tt.expected)
			}
		})
	}
}
