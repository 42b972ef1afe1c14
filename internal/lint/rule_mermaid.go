package lint

import (
	"github.com/instructa/coursegen/internal/frontmatter"
	"github.com/instructa/coursegen/internal/markdown"
	"github.com/instructa/coursegen/internal/mermaid"
)

// MermaidRule validates mermaid fences syntactically so diagram errors
// surface at author time instead of silently breaking in the browser.
type MermaidRule struct{}

// Name returns the rule identifier.
func (r *MermaidRule) Name() string { return "mermaid-syntax" }

// AppliesTo returns true for lesson documents.
func (r *MermaidRule) AppliesTo(path string) bool { return IsLessonFile(path) }

// Check validates every mermaid fence in the file.
func (r *MermaidRule) Check(path string, content []byte) ([]Issue, error) {
	doc, err := frontmatter.Parse(content)
	if err != nil {
		// StructureRule owns frontmatter errors.
		return nil, nil
	}

	var issues []Issue
	for _, fence := range markdown.MermaidFences(doc.Body) {
		for _, problem := range mermaid.Validate(fence.Body) {
			line := fence.Line
			if problem.Line > 0 {
				line = fence.Line + problem.Line - 1
			}
			issues = append(issues, Issue{
				FilePath: path,
				Severity: SeverityError,
				Rule:     r.Name(),
				Line:     line,
				Message:  "invalid mermaid diagram: " + problem.Message,
			})
		}
	}
	return issues, nil
}
