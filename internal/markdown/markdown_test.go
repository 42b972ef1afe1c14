package markdown

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

const lessonBody = `# Generators

Some intro referencing [the docs](https://docs.python.org/3/) and
[another lesson](../postgresql/indexes.md).

## The Problem

` + "```python\nfor x in range(10**9):\n    pass\n```" + `

## Under the Hood

` + "```mermaid\nflowchart LR\n    A --> B\n```" + `

![diagram](img/flow.png)

[ref]: https://example.com/reference
`

func TestExtractHeadings_DocumentOrder(t *testing.T) {
	headings := ExtractHeadings([]byte(lessonBody))
	require.Len(t, headings, 3)

	require.Equal(t, 1, headings[0].Level)
	require.Equal(t, "Generators", headings[0].Text)
	require.Equal(t, 1, headings[0].Line)

	require.Equal(t, 2, headings[1].Level)
	require.Equal(t, "The Problem", headings[1].Text)

	require.Equal(t, "Under the Hood", headings[2].Text)
}

func TestFirstHeading(t *testing.T) {
	h := FirstHeading([]byte("intro text\n\n## Not First Line\n"))
	require.NotNil(t, h)
	require.Equal(t, 2, h.Level)
	require.Equal(t, "Not First Line", h.Text)

	require.Nil(t, FirstHeading([]byte("no headings here\n")))
}

func TestExtractLinks_AllKinds(t *testing.T) {
	links := ExtractLinks([]byte(lessonBody))

	dests := map[LinkKind][]string{}
	for _, l := range links {
		dests[l.Kind] = append(dests[l.Kind], l.Destination)
	}

	require.Contains(t, dests[LinkKindInline], "https://docs.python.org/3/")
	require.Contains(t, dests[LinkKindInline], "../postgresql/indexes.md")
	require.Contains(t, dests[LinkKindImage], "img/flow.png")
	require.Contains(t, dests[LinkKindReferenceDefinition], "https://example.com/reference")
}

func TestExtractLinks_IgnoresLinksInsideFences(t *testing.T) {
	body := []byte("```\n[not a link](x.md)\n```\n")
	require.Empty(t, ExtractLinks(body))
}

func TestExtractFences_LanguagesAndBodies(t *testing.T) {
	fences := ExtractFences([]byte(lessonBody))
	require.Len(t, fences, 2)
	require.Equal(t, "python", fences[0].Language)
	require.Contains(t, fences[0].Body, "range(10**9)")
	require.Equal(t, "mermaid", fences[1].Language)
}

func TestMermaidFences_FiltersByLanguage(t *testing.T) {
	fences := MermaidFences([]byte(lessonBody))
	require.Len(t, fences, 1)
	require.Contains(t, fences[0].Body, "flowchart LR")
}

func TestRender_MermaidFenceBecomesPreBlock(t *testing.T) {
	r := NewRenderer(RenderOptions{Mermaid: true})
	out, err := r.Render([]byte("```mermaid\nflowchart LR\n    A --> B\n```\n"))
	require.NoError(t, err)
	require.Contains(t, string(out), `<pre class="mermaid">`)
	require.Contains(t, string(out), "A --&gt; B")
	require.NotContains(t, string(out), "<code")
}

func TestRender_MermaidDisabledRendersCodeBlock(t *testing.T) {
	r := NewRenderer(RenderOptions{Mermaid: false})
	out, err := r.Render([]byte("```mermaid\nflowchart LR\n```\n"))
	require.NoError(t, err)
	require.Contains(t, string(out), `<code class="language-mermaid">`)
}

func TestRender_CodeFenceGetsLanguageClass(t *testing.T) {
	r := NewRenderer(RenderOptions{})
	out, err := r.Render([]byte("```python\nprint(\"hi\")\n```\n"))
	require.NoError(t, err)
	require.Contains(t, string(out), `<code class="language-python">`)
	require.Contains(t, string(out), "print(&quot;hi&quot;)")
}

func TestRender_GFMTable(t *testing.T) {
	r := NewRenderer(RenderOptions{})
	out, err := r.Render([]byte("| Q | A |\n|---|---|\n| why | because |\n"))
	require.NoError(t, err)
	require.Contains(t, string(out), "<table>")
}

func TestRender_HeadingGetsAutoID(t *testing.T) {
	r := NewRenderer(RenderOptions{})
	out, err := r.Render([]byte("## Key Takeaways\n"))
	require.NoError(t, err)
	require.Contains(t, string(out), `id="key-takeaways"`)
}

// testSlug folds text the way a URL slugger would, enough to exercise the
// anchor plumbing without importing the real slug implementation.
func testSlug(s string) string {
	var b strings.Builder
	pending := false
	for _, r := range strings.ToLower(s) {
		switch {
		case r >= 'a' && r <= 'z' || r >= '0' && r <= '9':
			if pending && b.Len() > 0 {
				b.WriteByte('-')
			}
			pending = false
			b.WriteRune(r)
		default:
			pending = true
		}
	}
	return b.String()
}

func TestRender_HeadingIDUsesSlugFunc(t *testing.T) {
	r := NewRenderer(RenderOptions{HeadingID: testSlug})
	out, err := r.Render([]byte("## Q&A\n\n## Setup\n\n## Setup\n"))
	require.NoError(t, err)
	html := string(out)
	require.Contains(t, html, `id="q-a"`)
	require.Contains(t, html, `id="setup"`)
	require.Contains(t, html, `id="setup-1"`)
}

func TestAnchorSetSuffixesDuplicates(t *testing.T) {
	a := NewAnchorSet(testSlug)
	require.Equal(t, "setup", a.Assign("Setup"))
	require.Equal(t, "setup-1", a.Assign("Setup"))
	require.Equal(t, "setup-2", a.Assign("Setup"))
	require.Equal(t, "heading", a.Assign("!!!"))
}

func TestRender_RewriteLinkHook(t *testing.T) {
	r := NewRenderer(RenderOptions{
		RewriteLink: func(dest string) string {
			if dest == "setup.md" {
				return "/setup/"
			}
			return dest
		},
	})
	out, err := r.Render([]byte("See [Setup](setup.md) and ![img](img/a.png).\n"))
	require.NoError(t, err)
	require.Contains(t, string(out), `href="/setup/"`)
	require.Contains(t, string(out), `src="img/a.png"`)
}
