package lint

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/instructa/coursegen/internal/frontmatter"
)

const goodLesson = `---
uid: 1b671a64-40d5-491e-99b0-da01ff1f3341
duration: 90 minutes
---
# Generators

## The Problem

Naive loops hold everything in memory.

## Failure Modes

- exhaustion

## Practice

Try it.

## Key Takeaways

- lazy evaluation
`

func writeLesson(t *testing.T, dir, name, content string) string {
	t.Helper()
	p := filepath.Join(dir, name)
	require.NoError(t, os.MkdirAll(filepath.Dir(p), 0o755))
	require.NoError(t, os.WriteFile(p, []byte(content), 0o644))
	return p
}

func TestLintPath_CleanLesson(t *testing.T) {
	dir := t.TempDir()
	writeLesson(t, dir, "generators.md", goodLesson)

	result, err := NewLinter(nil).LintPath(dir)
	require.NoError(t, err)
	require.Equal(t, 1, result.FilesTotal)
	require.False(t, result.HasErrors())
	require.False(t, result.HasWarnings())
}

func TestLintPath_EmptyLessonIsError(t *testing.T) {
	dir := t.TempDir()
	writeLesson(t, dir, "empty.md", "   \n")

	result, err := NewLinter(nil).LintPath(dir)
	require.NoError(t, err)
	require.True(t, result.HasErrors())
}

func TestLintPath_MissingHeadingIsError(t *testing.T) {
	dir := t.TempDir()
	writeLesson(t, dir, "notitle.md", "just prose, no heading\n")

	result, err := NewLinter(nil).LintPath(dir)
	require.NoError(t, err)
	require.True(t, result.HasErrors())

	found := false
	for _, issue := range result.Issues {
		if issue.Rule == "lesson-structure" && issue.Severity == SeverityError {
			found = true
		}
	}
	require.True(t, found)
}

func TestLintPath_MissingTemplateSectionsAreWarnings(t *testing.T) {
	dir := t.TempDir()
	writeLesson(t, dir, "sparse.md",
		"---\nuid: 1b671a64-40d5-491e-99b0-da01ff1f3341\nduration: 1h\n---\n# Sparse\n\nBody only.\n")

	result, err := NewLinter(nil).LintPath(dir)
	require.NoError(t, err)
	require.False(t, result.HasErrors())
	require.GreaterOrEqual(t, result.WarningCount(), len(templateSections))
}

func TestLintPath_UppercaseFilename(t *testing.T) {
	dir := t.TempDir()
	writeLesson(t, dir, "MyLesson.md", goodLesson)

	result, err := NewLinter(nil).LintPath(dir)
	require.NoError(t, err)
	require.True(t, result.HasErrors())
}

func TestLintPath_ReadmeExemptFromStructureAndCase(t *testing.T) {
	dir := t.TempDir()
	writeLesson(t, dir, "README.md", "# Index\n\n- [x](x.md)\n")

	result, err := NewLinter(nil).LintPath(dir)
	require.NoError(t, err)
	require.False(t, result.HasErrors())
	require.False(t, result.HasWarnings())
}

func TestLintPath_InvalidMermaidIsError(t *testing.T) {
	dir := t.TempDir()
	writeLesson(t, dir, "diagram.md",
		goodLesson+"\n## Under the Hood\n\n```mermaid\nflowchat LR\n    A --> B\n```\n")

	result, err := NewLinter(nil).LintPath(dir)
	require.NoError(t, err)
	require.True(t, result.HasErrors())

	var mermaidIssue *Issue
	for i := range result.Issues {
		if result.Issues[i].Rule == "mermaid-syntax" {
			mermaidIssue = &result.Issues[i]
		}
	}
	require.NotNil(t, mermaidIssue)
	require.Positive(t, mermaidIssue.Line)
}

func TestLintPath_QuietSuppressesWarnings(t *testing.T) {
	dir := t.TempDir()
	writeLesson(t, dir, "sparse.md", "# Sparse\n\nBody.\n")

	result, err := NewLinter(&Config{Quiet: true}).LintPath(dir)
	require.NoError(t, err)
	for _, issue := range result.Issues {
		require.Equal(t, SeverityError, issue.Severity)
	}
}

func TestFix_AssignsUIDs(t *testing.T) {
	dir := t.TempDir()
	path := writeLesson(t, dir, "nouid.md", "# No UID\n\nBody.\n")
	writeLesson(t, dir, "README.md", "# Index\n")

	fixed, err := NewLinter(&Config{Fix: true}).Fix(dir)
	require.NoError(t, err)
	require.Equal(t, []string{path}, fixed)

	content, err := os.ReadFile(path)
	require.NoError(t, err)
	doc, err := frontmatter.Parse(content)
	require.NoError(t, err)

	_, err = uuid.Parse(doc.String("uid"))
	require.NoError(t, err)
	require.Contains(t, string(doc.Body), "# No UID")
}

func TestFix_DryRunLeavesFilesUntouched(t *testing.T) {
	dir := t.TempDir()
	path := writeLesson(t, dir, "nouid.md", "# No UID\n\nBody.\n")

	fixed, err := NewLinter(&Config{Fix: true, DryRun: true}).Fix(dir)
	require.NoError(t, err)
	require.Equal(t, []string{path}, fixed)

	content, err := os.ReadFile(path)
	require.NoError(t, err)
	require.Equal(t, "# No UID\n\nBody.\n", string(content))
}

func TestFix_Idempotent(t *testing.T) {
	dir := t.TempDir()
	writeLesson(t, dir, "lesson.md", goodLesson)

	fixed, err := NewLinter(&Config{Fix: true}).Fix(dir)
	require.NoError(t, err)
	require.Empty(t, fixed)
}

func TestFormatter_Text(t *testing.T) {
	result := &Result{
		FilesTotal: 2,
		Issues: []Issue{
			{FilePath: "a.md", Severity: SeverityError, Rule: "lesson-structure", Message: "lesson body is empty"},
			{FilePath: "b.md", Severity: SeverityWarning, Rule: "frontmatter-uid", Message: "no uid", Fix: "run check --fix"},
		},
	}

	var buf bytes.Buffer
	require.NoError(t, NewFormatter("text").Format(&buf, result, "docs"))
	out := buf.String()
	require.Contains(t, out, "a.md")
	require.Contains(t, out, "ERROR [lesson-structure]")
	require.Contains(t, out, "fix: run check --fix")
	require.Contains(t, out, "2 files checked: 1 errors, 1 warnings")
}

func TestFormatter_JSON(t *testing.T) {
	result := &Result{FilesTotal: 1, Issues: []Issue{
		{FilePath: "a.md", Severity: SeverityError, Rule: "lesson-structure", Message: "empty"},
	}}

	var buf bytes.Buffer
	require.NoError(t, NewFormatter("json").Format(&buf, result, "docs"))

	var decoded struct {
		Path   string  `json:"path"`
		Issues []Issue `json:"issues"`
	}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &decoded))
	require.Equal(t, "docs", decoded.Path)
	require.Len(t, decoded.Issues, 1)
}
