// Package markdown wraps Goldmark for lesson analysis and HTML rendering.
package markdown

import (
	"bytes"
	"sort"
	"strings"

	"github.com/yuin/goldmark"
	gmast "github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/parser"
	"github.com/yuin/goldmark/text"
)

func analysisParser() goldmark.Markdown {
	return goldmark.New(goldmark.WithExtensions(extension.GFM))
}

// ParseBody parses a Markdown body (frontmatter already removed) into a
// Goldmark AST.
func ParseBody(body []byte) gmast.Node {
	return analysisParser().Parser().Parse(text.NewReader(body))
}

// Heading is a heading extracted from a Markdown body.
type Heading struct {
	Level int
	Text  string
	// Anchor is the rendered heading id; filled by callers that assign
	// anchors via an AnchorSet, empty after plain extraction.
	Anchor string
	// Line is the 1-based line of the heading's first segment.
	Line int
}

// ExtractHeadings returns all headings in document order.
func ExtractHeadings(body []byte) []Heading {
	root := ParseBody(body)

	var headings []Heading
	_ = gmast.Walk(root, func(n gmast.Node, entering bool) (gmast.WalkStatus, error) {
		if !entering {
			return gmast.WalkContinue, nil
		}
		h, ok := n.(*gmast.Heading)
		if !ok {
			return gmast.WalkContinue, nil
		}
		headings = append(headings, Heading{
			Level: h.Level,
			Text:  string(nodeText(h, body)),
			Line:  lineOfNode(h, body),
		})
		return gmast.WalkContinue, nil
	})
	return headings
}

// FirstHeading returns the first heading of the document, or nil when the
// body has none.
func FirstHeading(body []byte) *Heading {
	headings := ExtractHeadings(body)
	if len(headings) == 0 {
		return nil
	}
	return &headings[0]
}

// LinkKind classifies where a link destination was found.
type LinkKind string

const (
	LinkKindInline              LinkKind = "inline"
	LinkKindImage               LinkKind = "image"
	LinkKindAuto                LinkKind = "auto"
	LinkKindReferenceDefinition LinkKind = "reference_definition"
)

// Link is a link-like construct extracted from a Markdown body.
type Link struct {
	Kind        LinkKind
	Destination string
	Line        int
}

// ExtractLinks parses a Markdown body and extracts link-like constructs.
// This is an analysis API; it does not attempt to re-render Markdown.
func ExtractLinks(body []byte) []Link {
	ctx := parser.NewContext()
	root := analysisParser().Parser().Parse(text.NewReader(body), parser.WithContext(ctx))

	links := make([]Link, 0)
	_ = gmast.Walk(root, func(n gmast.Node, entering bool) (gmast.WalkStatus, error) {
		if !entering {
			return gmast.WalkContinue, nil
		}
		switch node := n.(type) {
		case *gmast.AutoLink:
			links = append(links, Link{Kind: LinkKindAuto, Destination: string(node.URL(body)), Line: lineOfNode(n, body)})
		case *gmast.Image:
			links = append(links, Link{Kind: LinkKindImage, Destination: string(node.Destination), Line: lineOfNode(n, body)})
		case *gmast.Link:
			// Goldmark resolves reference-style links to a Link node with a
			// destination, so references need no separate handling here.
			links = append(links, Link{Kind: LinkKindInline, Destination: string(node.Destination), Line: lineOfNode(n, body)})
		}
		return gmast.WalkContinue, nil
	})

	// Reference definitions live in the parse context, not the AST.
	refs := ctx.References()
	sort.Slice(refs, func(i, j int) bool {
		return string(refs[i].Label()) < string(refs[j].Label())
	})
	for _, ref := range refs {
		links = append(links, Link{Kind: LinkKindReferenceDefinition, Destination: string(ref.Destination())})
	}

	return links
}

// CodeFence is a fenced code block extracted from a Markdown body.
type CodeFence struct {
	Language string
	Body     string
	Line     int
}

// ExtractFences returns all fenced code blocks in document order.
func ExtractFences(body []byte) []CodeFence {
	root := ParseBody(body)

	var fences []CodeFence
	_ = gmast.Walk(root, func(n gmast.Node, entering bool) (gmast.WalkStatus, error) {
		if !entering {
			return gmast.WalkContinue, nil
		}
		fc, ok := n.(*gmast.FencedCodeBlock)
		if !ok {
			return gmast.WalkContinue, nil
		}
		fences = append(fences, CodeFence{
			Language: string(fc.Language(body)),
			Body:     string(fenceContent(fc, body)),
			Line:     lineOfNode(fc, body),
		})
		return gmast.WalkContinue, nil
	})
	return fences
}

// MermaidFences returns only the `mermaid` fences of a body.
func MermaidFences(body []byte) []CodeFence {
	all := ExtractFences(body)
	out := make([]CodeFence, 0, len(all))
	for _, f := range all {
		if strings.EqualFold(f.Language, "mermaid") {
			out = append(out, f)
		}
	}
	return out
}

func fenceContent(fc *gmast.FencedCodeBlock, source []byte) []byte {
	var buf bytes.Buffer
	lines := fc.Lines()
	for i := 0; i < lines.Len(); i++ {
		seg := lines.At(i)
		buf.Write(seg.Value(source))
	}
	return buf.Bytes()
}

func nodeText(n gmast.Node, source []byte) []byte {
	var buf bytes.Buffer
	for c := n.FirstChild(); c != nil; c = c.NextSibling() {
		switch t := c.(type) {
		case *gmast.Text:
			buf.Write(t.Segment.Value(source))
		case *gmast.String:
			buf.Write(t.Value)
		default:
			buf.Write(nodeText(c, source))
		}
	}
	return buf.Bytes()
}

// lineOfNode derives the 1-based source line of a node's first segment.
// Inline nodes without their own segments report 0.
func lineOfNode(n gmast.Node, source []byte) int {
	var seg *text.Segment
	if n.Type() == gmast.TypeBlock {
		if lines := n.Lines(); lines.Len() > 0 {
			s := lines.At(0)
			seg = &s
		}
	}
	if seg == nil {
		if t, ok := n.(*gmast.Text); ok {
			seg = &t.Segment
		}
	}
	if seg == nil {
		if t, ok := n.FirstChild().(*gmast.Text); ok {
			seg = &t.Segment
		}
	}
	if seg == nil {
		return 0
	}
	return 1 + bytes.Count(source[:seg.Start], []byte{'\n'})
}
