package reporter

import (
	"bytes"
	"strings"
	"testing"

	"github.com/wharflab/dockfilelint/internal/diagnostic"
	"github.com/wharflab/dockfilelint/internal/sourcemap"
)

func TestGitHubActionsReporter(t *testing.T) {
	findings := []Finding{
		{
			File: "Dockerfile",
			Diagnostic: diagnostic.New(
				sourcemap.Range{Start: sourcemap.Position{Line: 5, Character: 0}, End: sourcemap.Position{Line: 5, Character: 20}},
				diagnostic.SeverityWarning, diagnostic.CasingInstruction, "Always tag the version of an image explicitly"),
		},
		{
			File: "Dockerfile",
			Diagnostic: diagnostic.New(
				sourcemap.Range{Start: sourcemap.Position{Line: 10, Character: 4}, End: sourcemap.Position{Line: 12, Character: 0}},
				diagnostic.SeverityError, diagnostic.WorkdirIsNotAbsolute, "Use absolute WORKDIR"),
		},
	}

	var buf bytes.Buffer
	rep := NewGitHubActionsReporter(&buf)

	err := rep.Report(findings, nil, ReportMetadata{})
	if err != nil {
		t.Fatalf("Report() error = %v", err)
	}

	output := buf.String()
	lines := strings.Split(strings.TrimSpace(output), "\n")

	if len(lines) != 2 {
		t.Fatalf("Expected 2 lines, got %d: %q", len(lines), output)
	}

	if !strings.HasPrefix(lines[0], "::warning ") {
		t.Errorf("Expected first line to be warning, got: %s", lines[0])
	}
	if !strings.Contains(lines[0], "file=Dockerfile") {
		t.Errorf("Expected file=Dockerfile in: %s", lines[0])
	}
	if !strings.Contains(lines[0], "line=6") {
		t.Errorf("Expected line=6 (0-based line 5 becomes 1-based 6) in: %s", lines[0])
	}
	if !strings.Contains(lines[0], "col=1") {
		t.Errorf("Expected col=1 (character 0 becomes 1-based) in: %s", lines[0])
	}
	if !strings.Contains(lines[0], "title=CASING_INSTRUCTION") {
		t.Errorf("Expected title=CASING_INSTRUCTION in: %s", lines[0])
	}

	if !strings.HasPrefix(lines[1], "::error ") {
		t.Errorf("Expected second line to be error, got: %s", lines[1])
	}
	if !strings.Contains(lines[1], "col=5") {
		t.Errorf("Expected col=5 (1-based) in: %s", lines[1])
	}
	if !strings.Contains(lines[1], "endLine=13") {
		t.Errorf("Expected endLine=13 in: %s", lines[1])
	}
}

func TestGitHubActionsReporterSeverityMapping(t *testing.T) {
	tests := []struct {
		name     string
		severity diagnostic.Severity
		expected string
	}{
		{"error", diagnostic.SeverityError, "error"},
		{"warning", diagnostic.SeverityWarning, "warning"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := severityToGitHubLevel(tt.severity)
			if result != tt.expected {
				t.Errorf("severityToGitHubLevel(%v) = %q, want %q", tt.severity, result, tt.expected)
			}
		})
	}
}

func TestGitHubActionsReporterEmpty(t *testing.T) {
	var buf bytes.Buffer
	rep := NewGitHubActionsReporter(&buf)

	err := rep.Report(nil, nil, ReportMetadata{})
	if err != nil {
		t.Fatalf("Report() error = %v", err)
	}

	if buf.Len() != 0 {
		t.Errorf("Expected empty output, got: %q", buf.String())
	}
}

func TestGitHubActionsReporterMessageEscaping(t *testing.T) {
	findings := []Finding{
		{
			File: "Dockerfile",
			Diagnostic: diagnostic.New(
				sourcemap.Range{Start: sourcemap.Position{Line: 1, Character: 0}},
				diagnostic.SeverityWarning, diagnostic.CasingInstruction, "Line 1\nLine 2\r\nLine 3"),
		},
	}

	var buf bytes.Buffer
	rep := NewGitHubActionsReporter(&buf)

	err := rep.Report(findings, nil, ReportMetadata{})
	if err != nil {
		t.Fatalf("Report() error = %v", err)
	}

	output := buf.String()

	lines := strings.Split(strings.TrimSpace(output), "\n")
	if len(lines) != 1 {
		t.Errorf("Expected single line output, got %d lines: %q", len(lines), output)
	}

	if !strings.Contains(output, "%0A") {
		t.Errorf("Expected %%0A (escaped newline) in: %s", output)
	}
}

func TestGitHubActionsReporterPropertyEscaping(t *testing.T) {
	findings := []Finding{
		{
			File: "path/to:file,with:special.Dockerfile",
			Diagnostic: diagnostic.New(
				sourcemap.Range{Start: sourcemap.Position{Line: 1, Character: 0}},
				diagnostic.SeverityWarning, diagnostic.CasingInstruction, "Message with : and , should NOT be escaped"),
		},
	}

	var buf bytes.Buffer
	rep := NewGitHubActionsReporter(&buf)

	err := rep.Report(findings, nil, ReportMetadata{})
	if err != nil {
		t.Fatalf("Report() error = %v", err)
	}

	output := buf.String()

	if !strings.Contains(output, "file=path/to%3Afile%2Cwith%3Aspecial.Dockerfile") {
		t.Errorf("Expected escaped file path, got: %s", output)
	}

	if !strings.Contains(output, "title=CASING_INSTRUCTION") {
		t.Errorf("Expected title, got: %s", output)
	}

	if !strings.Contains(output, "::Message with : and , should NOT be escaped") {
		t.Errorf("Message should not escape : or , - got: %s", output)
	}
}

func TestGitHubActionsReporterSorting(t *testing.T) {
	findings := []Finding{
		{
			File: "b.Dockerfile",
			Diagnostic: diagnostic.New(
				sourcemap.Range{Start: sourcemap.Position{Line: 10, Character: 0}},
				diagnostic.SeverityWarning, diagnostic.CasingInstruction, "B line 10"),
		},
		{
			File: "a.Dockerfile",
			Diagnostic: diagnostic.New(
				sourcemap.Range{Start: sourcemap.Position{Line: 5, Character: 0}},
				diagnostic.SeverityWarning, diagnostic.CasingInstruction, "A line 5"),
		},
		{
			File: "a.Dockerfile",
			Diagnostic: diagnostic.New(
				sourcemap.Range{Start: sourcemap.Position{Line: 1, Character: 0}},
				diagnostic.SeverityWarning, diagnostic.CasingInstruction, "A line 1"),
		},
	}

	var buf bytes.Buffer
	rep := NewGitHubActionsReporter(&buf)

	err := rep.Report(findings, nil, ReportMetadata{})
	if err != nil {
		t.Fatalf("Report() error = %v", err)
	}

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 3 {
		t.Fatalf("Expected 3 lines, got %d: %q", len(lines), buf.String())
	}

	if !strings.Contains(lines[0], "a.Dockerfile") || !strings.Contains(lines[0], "line=2") {
		t.Errorf("First line should be a.Dockerfile line 2, got: %s", lines[0])
	}
	if !strings.Contains(lines[1], "a.Dockerfile") || !strings.Contains(lines[1], "line=6") {
		t.Errorf("Second line should be a.Dockerfile line 6, got: %s", lines[1])
	}
	if !strings.Contains(lines[2], "b.Dockerfile") || !strings.Contains(lines[2], "line=11") {
		t.Errorf("Third line should be b.Dockerfile line 11, got: %s", lines[2])
	}
}
