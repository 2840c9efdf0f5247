package reporter

import (
	"fmt"
	"io"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"github.com/wharflab/dockfilelint/internal/diagnostic"
	"github.com/wharflab/dockfilelint/internal/sourcemap"
)

// MarkdownReporter formats findings as concise markdown tables.
// Designed for AI agents working on Dockerfiles - token-efficient and actionable.
type MarkdownReporter struct {
	writer io.Writer
}

// NewMarkdownReporter creates a new Markdown reporter.
func NewMarkdownReporter(w io.Writer) *MarkdownReporter {
	return &MarkdownReporter{writer: w}
}

// Report implements Reporter.
func (r *MarkdownReporter) Report(findings []Finding, _ map[string][]byte, _ ReportMetadata) error {
	if len(findings) == 0 {
		_, err := fmt.Fprintln(r.writer, "**No issues found**")
		return err
	}

	sorted := SortFindingsBySeverity(findings)

	for i := range sorted {
		sorted[i].File = filepath.ToSlash(sorted[i].File)
	}

	fileSet := make(map[string]struct{})
	for _, f := range sorted {
		fileSet[f.File] = struct{}{}
	}
	fileCount := len(fileSet)

	if fileCount == 1 {
		var filename string
		for f := range fileSet {
			filename = f
		}
		return r.writeSingleFileTable(sorted, filename)
	}

	return r.writeMultiFileTable(sorted, fileCount)
}

// writeSingleFileTable writes a markdown table for findings in a single file.
func (r *MarkdownReporter) writeSingleFileTable(sorted []Finding, filename string) error {
	if _, err := fmt.Fprintf(r.writer, "**%d %s** in `%s`\n\n",
		len(sorted), pluralize(len(sorted), "issue", "issues"), filename); err != nil {
		return err
	}
	if _, err := fmt.Fprintln(r.writer, "| Line | Issue |"); err != nil {
		return err
	}
	if _, err := fmt.Fprintln(r.writer, "|------|-------|"); err != nil {
		return err
	}

	for _, f := range sorted {
		if _, err := fmt.Fprintf(r.writer, "| %s | %s %s |\n",
			formatLineNumber(f.Diagnostic), severityEmoji(f.Diagnostic.Severity), escapeMarkdown(f.Diagnostic.Message)); err != nil {
			return err
		}
	}

	return nil
}

// writeMultiFileTable writes a markdown table for findings across multiple files.
func (r *MarkdownReporter) writeMultiFileTable(sorted []Finding, fileCount int) error {
	if _, err := fmt.Fprintf(r.writer, "**%d %s** across %d files\n\n",
		len(sorted), pluralize(len(sorted), "issue", "issues"), fileCount); err != nil {
		return err
	}
	if _, err := fmt.Fprintln(r.writer, "| File | Line | Issue |"); err != nil {
		return err
	}
	if _, err := fmt.Fprintln(r.writer, "|------|------|-------|"); err != nil {
		return err
	}

	for _, f := range sorted {
		if _, err := fmt.Fprintf(r.writer, "| %s | %s | %s %s |\n",
			f.File, formatLineNumber(f.Diagnostic), severityEmoji(f.Diagnostic.Severity), escapeMarkdown(f.Diagnostic.Message)); err != nil {
			return err
		}
	}

	return nil
}

// formatLineNumber returns the display string for a diagnostic's line number.
// A diagnostic whose range is entirely zero has no location to report
// (file-level diagnostics, e.g. a missing FROM).
func formatLineNumber(d diagnostic.Diagnostic) string {
	if d.Range == (sourcemap.Range{}) {
		return "-"
	}
	return strconv.Itoa(d.Range.Start.Line + 1)
}

// SortFindingsBySeverity sorts findings by severity (errors first), then by file and line.
// Uses stable sort to preserve original order for equal-priority items.
func SortFindingsBySeverity(findings []Finding) []Finding {
	sorted := make([]Finding, len(findings))
	copy(sorted, findings)

	sort.SliceStable(sorted, func(i, j int) bool {
		return shouldSwap(sorted[j], sorted[i])
	})

	return sorted
}

// shouldSwap returns true if a should come after b in the sorted output.
func shouldSwap(a, b Finding) bool {
	aPriority := severityPriority(a.Diagnostic.Severity)
	bPriority := severityPriority(b.Diagnostic.Severity)
	if aPriority != bPriority {
		return aPriority > bPriority
	}

	if a.File != b.File {
		return a.File > b.File
	}

	return a.Diagnostic.Range.Start.Line > b.Diagnostic.Range.Start.Line
}

// severityPriority returns a numeric priority for sorting (lower = more severe).
func severityPriority(s diagnostic.Severity) int {
	switch s {
	case diagnostic.SeverityError:
		return 0
	case diagnostic.SeverityWarning:
		return 1
	default:
		return 2
	}
}

// severityEmoji returns an emoji indicator for the severity level.
func severityEmoji(s diagnostic.Severity) string {
	if s == diagnostic.SeverityError {
		return "❌"
	}
	return "⚠️"
}

// escapeMarkdown escapes special markdown characters in table cells.
func escapeMarkdown(s string) string {
	s = strings.ReplaceAll(s, "|", "\\|")
	s = strings.ReplaceAll(s, "\n", " ")
	s = strings.ReplaceAll(s, "\r", "")
	return s
}

// pluralize returns singular or plural form based on count.
func pluralize(count int, singular, plural string) string {
	if count == 1 {
		return singular
	}
	return plural
}
