// Package mermaid performs syntactic validation of Mermaid diagram sources.
//
// The goal is author-time feedback, not a full parser: a block passes when it
// declares a known diagram type and its bracket structure is balanced. The
// browser-side renderer remains the authority on full syntax.
package mermaid

import (
	"fmt"
	"strings"
)

// diagramTypes are the first keywords Mermaid accepts as diagram declarations.
var diagramTypes = []string{
	"flowchart",
	"graph",
	"sequenceDiagram",
	"classDiagram",
	"stateDiagram-v2",
	"stateDiagram",
	"erDiagram",
	"journey",
	"gantt",
	"pie",
	"mindmap",
	"timeline",
	"gitGraph",
	"quadrantChart",
	"requirementDiagram",
	"xychart-beta",
	"sankey-beta",
	"block-beta",
	"packet-beta",
	"C4Context",
}

// Issue describes a validation failure within a diagram source.
type Issue struct {
	Line    int // 1-based line within the diagram block, 0 for block-level issues
	Message string
}

func (i Issue) String() string {
	if i.Line > 0 {
		return fmt.Sprintf("line %d: %s", i.Line, i.Message)
	}
	return i.Message
}

// Validate checks a Mermaid diagram source. It returns all issues found; an
// empty slice means the block passed.
func Validate(source string) []Issue {
	var issues []Issue

	decl, declLine := firstDeclaration(source)
	if decl == "" {
		issues = append(issues, Issue{Message: "empty diagram block"})
		return issues
	}

	if !knownDiagramType(decl) {
		issues = append(issues, Issue{
			Line:    declLine,
			Message: fmt.Sprintf("unknown diagram type %q", firstWord(decl)),
		})
	}

	issues = append(issues, checkBalance(source)...)
	return issues
}

// firstDeclaration returns the first line that is not blank, a %% comment, or
// a %%{...}%% directive.
func firstDeclaration(source string) (string, int) {
	for i, line := range strings.Split(source, "\n") {
		trimmed := strings.TrimSpace(line)
		if trimmed == "" || strings.HasPrefix(trimmed, "%%") {
			continue
		}
		return trimmed, i + 1
	}
	return "", 0
}

func knownDiagramType(decl string) bool {
	word := firstWord(decl)
	for _, t := range diagramTypes {
		if word == t {
			return true
		}
	}
	return false
}

func firstWord(s string) string {
	if idx := strings.IndexAny(s, " \t"); idx >= 0 {
		return s[:idx]
	}
	return s
}

// checkBalance verifies bracket pairing outside quoted strings. Mermaid node
// shapes nest, e.g. `A[label]`, `B{decision}`, `C((circle))`.
func checkBalance(source string) []Issue {
	var issues []Issue
	pairs := map[byte]byte{')': '(', ']': '[', '}': '{'}

	for lineNo, line := range strings.Split(source, "\n") {
		trimmed := strings.TrimSpace(line)
		if strings.HasPrefix(trimmed, "%%") {
			continue
		}

		var stack []byte
		inQuote := false
		for i := 0; i < len(line); i++ {
			c := line[i]
			if c == '"' {
				inQuote = !inQuote
				continue
			}
			if inQuote {
				continue
			}
			switch c {
			case '(', '[', '{':
				stack = append(stack, c)
			case ')', ']', '}':
				if len(stack) == 0 || stack[len(stack)-1] != pairs[c] {
					issues = append(issues, Issue{Line: lineNo + 1, Message: fmt.Sprintf("unmatched %q", string(c))})
					stack = nil
					i = len(line)
					continue
				}
				stack = stack[:len(stack)-1]
			}
		}
		if inQuote {
			issues = append(issues, Issue{Line: lineNo + 1, Message: "unterminated quoted string"})
		}
		if len(stack) > 0 {
			issues = append(issues, Issue{Line: lineNo + 1, Message: fmt.Sprintf("unclosed %q", string(stack[len(stack)-1]))})
		}
	}
	return issues
}
