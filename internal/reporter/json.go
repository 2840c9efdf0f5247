package reporter

import (
	"encoding/json"
	"io"
	"path/filepath"

	"github.com/wharflab/dockfilelint/internal/diagnostic"
)

// JSONOutput is the top-level structure for JSON output.
type JSONOutput struct {
	// Files contains results grouped by file.
	Files []FileResult `json:"files"`
	// Summary contains aggregate statistics.
	Summary Summary `json:"summary"`
	// FilesScanned is the total number of files scanned.
	FilesScanned int `json:"files_scanned"`
}

// FileResult contains the linting results for a single file.
type FileResult struct {
	File        string                  `json:"file"`
	Diagnostics []diagnostic.Diagnostic `json:"diagnostics"`
}

// Summary contains aggregate statistics about findings.
type Summary struct {
	Total    int `json:"total"`
	Errors   int `json:"errors"`
	Warnings int `json:"warnings"`
	Files    int `json:"files"`
}

// JSONReporter formats findings as JSON output.
type JSONReporter struct {
	writer io.Writer
}

// NewJSONReporter creates a new JSON reporter.
func NewJSONReporter(w io.Writer) *JSONReporter {
	return &JSONReporter{writer: w}
}

// Report implements Reporter.
func (r *JSONReporter) Report(findings []Finding, _ map[string][]byte, metadata ReportMetadata) error {
	byFile := make(map[string][]diagnostic.Diagnostic)
	filesOrder := make([]string, 0)

	for _, f := range SortFindings(findings) {
		file := filepath.ToSlash(f.File)
		if _, exists := byFile[file]; !exists {
			filesOrder = append(filesOrder, file)
		}
		byFile[file] = append(byFile[file], f.Diagnostic)
	}

	output := JSONOutput{
		Files:        make([]FileResult, 0, len(filesOrder)),
		Summary:      calculateSummary(findings, len(filesOrder)),
		FilesScanned: metadata.FilesScanned,
	}

	for _, file := range filesOrder {
		output.Files = append(output.Files, FileResult{
			File:        file,
			Diagnostics: byFile[file],
		})
	}

	enc := json.NewEncoder(r.writer)
	enc.SetIndent("", "  ")
	return enc.Encode(output)
}

// calculateSummary computes aggregate statistics from findings.
func calculateSummary(findings []Finding, fileCount int) Summary {
	summary := Summary{
		Total: len(findings),
		Files: fileCount,
	}

	for _, f := range findings {
		switch f.Diagnostic.Severity {
		case diagnostic.SeverityError:
			summary.Errors++
		case diagnostic.SeverityWarning:
			summary.Warnings++
		}
	}

	return summary
}
