package lint

import (
	"encoding/json"
	"fmt"
	"io"
	"sort"
)

// Formatter formats linting results for output.
type Formatter interface {
	Format(w io.Writer, result *Result, path string) error
}

// NewFormatter returns a formatter for the requested format name.
func NewFormatter(format string) Formatter {
	if format == "json" {
		return &JSONFormatter{}
	}
	return &TextFormatter{}
}

// TextFormatter formats results as human-readable text.
type TextFormatter struct{}

// Format outputs results grouped by file with a trailing summary.
func (f *TextFormatter) Format(w io.Writer, result *Result, path string) error {
	if _, err := fmt.Fprintf(w, "Checking lessons in %s\n\n", path); err != nil {
		return err
	}

	files := make([]string, 0)
	byFile := map[string][]Issue{}
	for _, issue := range result.Issues {
		if _, ok := byFile[issue.FilePath]; !ok {
			files = append(files, issue.FilePath)
		}
		byFile[issue.FilePath] = append(byFile[issue.FilePath], issue)
	}
	sort.Strings(files)

	for _, file := range files {
		if _, err := fmt.Fprintf(w, "%s\n", file); err != nil {
			return err
		}
		for _, issue := range byFile[file] {
			loc := ""
			if issue.Line > 0 {
				loc = fmt.Sprintf(":%d", issue.Line)
			}
			if _, err := fmt.Fprintf(w, "  %s%s [%s] %s\n", issue.Severity, loc, issue.Rule, issue.Message); err != nil {
				return err
			}
			if issue.Fix != "" {
				if _, err := fmt.Fprintf(w, "    fix: %s\n", issue.Fix); err != nil {
					return err
				}
			}
		}
		if _, err := fmt.Fprintln(w); err != nil {
			return err
		}
	}

	_, err := fmt.Fprintf(w, "%d files checked: %d errors, %d warnings\n",
		result.FilesTotal, result.ErrorCount(), result.WarningCount())
	return err
}

// JSONFormatter emits the result as a single JSON object, for CI consumers.
type JSONFormatter struct{}

// Format writes the result as indented JSON.
func (f *JSONFormatter) Format(w io.Writer, result *Result, path string) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(struct {
		Path string `json:"path"`
		*Result
	}{Path: path, Result: result})
}
