package mermaid

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestValidate_WellFormedFlowchart(t *testing.T) {
	src := "flowchart LR\n    A[Start] --> B{Cached?}\n    B -->|yes| C[Serve]\n    B -->|no| D[(DB)]\n"
	require.Empty(t, Validate(src))
}

func TestValidate_SequenceDiagram(t *testing.T) {
	src := "sequenceDiagram\n    participant C as Client\n    C->>S: BEGIN\n    S-->>C: ok\n"
	require.Empty(t, Validate(src))
}

func TestValidate_DirectiveAndCommentsSkipped(t *testing.T) {
	src := "%%{init: {\"theme\": \"dark\"}}%%\n%% a comment\ngraph TD\n    A --> B\n"
	require.Empty(t, Validate(src))
}

func TestValidate_EmptyBlock(t *testing.T) {
	issues := Validate("   \n\n")
	require.Len(t, issues, 1)
	require.Contains(t, issues[0].Message, "empty diagram block")
}

func TestValidate_UnknownDiagramType(t *testing.T) {
	issues := Validate("flowchat LR\n    A --> B\n")
	require.NotEmpty(t, issues)
	require.Contains(t, issues[0].Message, `unknown diagram type "flowchat"`)
	require.Equal(t, 1, issues[0].Line)
}

func TestValidate_UnclosedBracket(t *testing.T) {
	issues := Validate("flowchart LR\n    A[Start --> B\n")
	require.NotEmpty(t, issues)
	require.Equal(t, 2, issues[0].Line)
	require.Contains(t, issues[0].Message, `unclosed "["`)
}

func TestValidate_MismatchedBracket(t *testing.T) {
	issues := Validate("flowchart LR\n    A[Start) --> B\n")
	require.NotEmpty(t, issues)
	require.Contains(t, issues[0].Message, `unmatched ")"`)
}

func TestValidate_BracketsInsideQuotesIgnored(t *testing.T) {
	src := "flowchart LR\n    A[\"f(x) = [0, 1)\"] --> B\n"
	require.Empty(t, Validate(src))
}

func TestValidate_UnterminatedQuote(t *testing.T) {
	issues := Validate("flowchart LR\n    A[\"oops] --> B\n")
	require.NotEmpty(t, issues)
	require.Contains(t, issues[0].Message, "unterminated quoted string")
}

func TestIssueString(t *testing.T) {
	require.Equal(t, "empty diagram block", Issue{Message: "empty diagram block"}.String())
	require.Equal(t, "line 3: unmatched \")\"", Issue{Line: 3, Message: `unmatched ")"`}.String())
}
