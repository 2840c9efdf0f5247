package reporter

import (
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/wharflab/dockfilelint/internal/diagnostic"
)

// GitHubActionsReporter formats findings as GitHub Actions workflow commands.
// These commands appear as annotations in the GitHub Actions UI.
//
// Format: ::{level} file={file},line={line},col={col}[,endLine={endLine}],title={code}::{message}
//
// endLine is written only for ranges spanning several lines; line, col and
// endLine are all omitted for file-level findings (all-zero range).
//
// See: https://docs.github.com/actions/using-workflows/workflow-commands-for-github-actions#setting-an-error-message
type GitHubActionsReporter struct {
	writer io.Writer
}

// NewGitHubActionsReporter creates a new GitHub Actions reporter.
func NewGitHubActionsReporter(w io.Writer) *GitHubActionsReporter {
	return &GitHubActionsReporter{writer: w}
}

// Report implements Reporter.
func (r *GitHubActionsReporter) Report(findings []Finding, _ map[string][]byte, _ ReportMetadata) error {
	sorted := SortFindings(findings)

	for _, f := range sorted {
		d := f.Diagnostic
		level := severityToGitHubLevel(d.Severity)

		filePath := filepath.ToSlash(f.File)

		isFileLevel := d.Range.Start.Line == 0 && d.Range.Start.Character == 0 &&
			d.Range.End.Line == 0 && d.Range.End.Character == 0

		var parts []string
		parts = append(parts, "file="+escapeGitHubProperty(filePath))

		if !isFileLevel {
			parts = append(parts, fmt.Sprintf("line=%d", d.Range.Start.Line+1))
			parts = append(parts, fmt.Sprintf("col=%d", d.Range.Start.Character+1))
			if d.Range.End.Line > d.Range.Start.Line {
				parts = append(parts, fmt.Sprintf("endLine=%d", d.Range.End.Line+1))
			}
		}

		parts = append(parts, "title="+escapeGitHubProperty(d.Code.String()))

		message := escapeGitHubMessage(d.Message)

		if _, err := fmt.Fprintf(r.writer, "::%s %s::%s\n",
			level,
			strings.Join(parts, ","),
			message,
		); err != nil {
			return err
		}
	}

	return nil
}

// GitHub Actions annotation levels.
const (
	ghLevelError   = "error"
	ghLevelWarning = "warning"
)

// severityToGitHubLevel maps our Severity to GitHub Actions levels.
// GitHub supports: "error", "warning", "notice", "debug".
func severityToGitHubLevel(s diagnostic.Severity) string {
	if s == diagnostic.SeverityError {
		return ghLevelError
	}
	return ghLevelWarning
}

// escapeGitHubMessage escapes special characters in GitHub Actions workflow command messages.
// Messages use escapeData() rules which escape "%", "\r", "\n" but NOT ":" or ",".
// See: https://github.com/actions/toolkit/blob/main/packages/core/src/command.ts
func escapeGitHubMessage(s string) string {
	s = strings.ReplaceAll(s, "%", "%25")
	s = strings.ReplaceAll(s, "\r", "%0D")
	s = strings.ReplaceAll(s, "\n", "%0A")
	return s
}

// escapeGitHubProperty escapes special characters in GitHub Actions workflow command properties.
// Properties (file, title, etc.) use escapeProperty() rules which escape "%", "\r", "\n", ":", and ",".
// See: https://github.com/actions/toolkit/blob/main/packages/core/src/command.ts
func escapeGitHubProperty(s string) string {
	s = strings.ReplaceAll(s, "%", "%25")
	s = strings.ReplaceAll(s, "\r", "%0D")
	s = strings.ReplaceAll(s, "\n", "%0A")
	s = strings.ReplaceAll(s, ":", "%3A")
	s = strings.ReplaceAll(s, ",", "%2C")
	return s
}
