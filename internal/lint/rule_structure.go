package lint

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/instructa/coursegen/internal/frontmatter"
	"github.com/instructa/coursegen/internal/markdown"
)

// templateSections is the pedagogical template in expected order. Matching is
// by case-insensitive substring over H2 headings, so "The Problem" and
// "Problem Statement" both satisfy "problem".
var templateSections = []string{
	"problem",
	"failure",
	"practice",
	"takeaways",
}

// StructureRule enforces the lesson document contract: the file is non-empty,
// the title is the first heading, and the pedagogical sections are present.
type StructureRule struct{}

// Name returns the rule identifier.
func (r *StructureRule) Name() string { return "lesson-structure" }

// AppliesTo returns true for lesson documents, index files excluded.
func (r *StructureRule) AppliesTo(path string) bool {
	if !IsLessonFile(path) {
		return false
	}
	stem := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	return !strings.EqualFold(stem, "README")
}

// Check validates the lesson structure.
func (r *StructureRule) Check(path string, content []byte) ([]Issue, error) {
	doc, err := frontmatter.Parse(content)
	if err != nil {
		return []Issue{{
			FilePath: path,
			Severity: SeverityError,
			Rule:     r.Name(),
			Message:  "unparseable frontmatter: " + err.Error(),
		}}, nil
	}

	var issues []Issue

	if len(strings.TrimSpace(string(doc.Body))) == 0 {
		issues = append(issues, Issue{
			FilePath: path,
			Severity: SeverityError,
			Rule:     r.Name(),
			Message:  "lesson body is empty",
		})
		return issues, nil
	}

	headings := markdown.ExtractHeadings(doc.Body)
	if len(headings) == 0 {
		issues = append(issues, Issue{
			FilePath: path,
			Severity: SeverityError,
			Rule:     r.Name(),
			Message:  "lesson contains no headings; the title must be the first heading",
		})
		return issues, nil
	}

	first := headings[0]
	if first.Level != 1 {
		issues = append(issues, Issue{
			FilePath: path,
			Severity: SeverityWarning,
			Rule:     r.Name(),
			Line:     first.Line,
			Message:  fmt.Sprintf("first heading is level %d; the lesson title should be a level-1 heading", first.Level),
		})
	}
	if bodyBeforeFirstHeading(doc.Body, first.Line) {
		issues = append(issues, Issue{
			FilePath: path,
			Severity: SeverityWarning,
			Rule:     r.Name(),
			Line:     first.Line,
			Message:  "content appears before the title heading",
		})
	}

	if doc.String("duration") == "" && !hasDurationHint(doc.Body) {
		issues = append(issues, Issue{
			FilePath: path,
			Severity: SeverityInfo,
			Rule:     r.Name(),
			Message:  "no duration hint (frontmatter `duration:` or a ⏱ line after the title)",
		})
	}

	issues = append(issues, r.checkSections(path, headings)...)
	return issues, nil
}

// checkSections reports template sections that no H2 heading covers.
func (r *StructureRule) checkSections(path string, headings []markdown.Heading) []Issue {
	found := map[string]bool{}
	for _, h := range headings {
		if h.Level != 2 {
			continue
		}
		lower := strings.ToLower(h.Text)
		for _, section := range templateSections {
			if strings.Contains(lower, section) {
				found[section] = true
			}
		}
	}

	var issues []Issue
	for _, section := range templateSections {
		if !found[section] {
			issues = append(issues, Issue{
				FilePath: path,
				Severity: SeverityWarning,
				Rule:     r.Name(),
				Message:  fmt.Sprintf("missing template section: no H2 mentioning %q", section),
			})
		}
	}
	return issues
}

func bodyBeforeFirstHeading(body []byte, headingLine int) bool {
	lines := strings.Split(string(body), "\n")
	for i := 0; i < headingLine-1 && i < len(lines); i++ {
		if strings.TrimSpace(lines[i]) != "" {
			return true
		}
	}
	return false
}

func hasDurationHint(body []byte) bool {
	for _, line := range strings.Split(string(body), "\n") {
		trimmed := strings.TrimSpace(line)
		if strings.HasPrefix(trimmed, "⏱") || strings.HasPrefix(strings.ToLower(trimmed), "duration:") {
			return true
		}
	}
	return false
}
