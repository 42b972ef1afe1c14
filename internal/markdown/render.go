package markdown

import (
	"bytes"
	"fmt"

	"github.com/yuin/goldmark"
	gmast "github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/parser"
	"github.com/yuin/goldmark/renderer"
	gmhtml "github.com/yuin/goldmark/renderer/html"
	"github.com/yuin/goldmark/text"
	"github.com/yuin/goldmark/util"
)

// RenderOptions controls HTML rendering of lesson bodies.
type RenderOptions struct {
	// Mermaid maps `mermaid` fences to a <pre class="mermaid"> block so the
	// client-side renderer picks them up. When false, mermaid fences render
	// as ordinary code blocks.
	Mermaid bool
	// RewriteLink, when set, maps link and image destinations to their final
	// site hrefs. Returning the input unchanged leaves the destination as-is.
	RewriteLink func(dest string) string
	// HeadingID, when set, replaces goldmark's id generator for heading
	// anchors. Duplicates get a numeric suffix. Callers that emit anchors
	// outside the rendered body (a table of contents) must assign them with
	// NewAnchorSet over the same function or the anchors drift apart.
	HeadingID func(text string) string
}

// Renderer converts lesson Markdown bodies to HTML fragments.
type Renderer struct {
	md        goldmark.Markdown
	headingID func(text string) string
}

// NewRenderer builds a Goldmark instance with GFM tables/strikethrough,
// auto heading IDs, and fenced-code handling suitable for client-side
// syntax highlighting.
func NewRenderer(opts RenderOptions) *Renderer {
	parserOpts := []parser.Option{parser.WithAutoHeadingID()}
	if opts.RewriteLink != nil {
		parserOpts = append(parserOpts, parser.WithASTTransformers(
			util.Prioritized(&linkRewriter{rewrite: opts.RewriteLink}, 500),
		))
	}
	md := goldmark.New(
		goldmark.WithExtensions(extension.GFM),
		goldmark.WithParserOptions(parserOpts...),
		goldmark.WithRendererOptions(
			gmhtml.WithUnsafe(),
			renderer.WithNodeRenderers(
				util.Prioritized(&fenceRenderer{mermaid: opts.Mermaid}, 100),
			),
		),
	)
	return &Renderer{md: md, headingID: opts.HeadingID}
}

// Render converts a Markdown body (frontmatter already removed) to an HTML
// fragment.
func (r *Renderer) Render(body []byte) ([]byte, error) {
	var buf bytes.Buffer
	var parseOpts []parser.ParseOption
	if r.headingID != nil {
		ctx := parser.NewContext(parser.WithIDs(newAnchorIDs(r.headingID)))
		parseOpts = append(parseOpts, parser.WithContext(ctx))
	}
	if err := r.md.Convert(body, &buf, parseOpts...); err != nil {
		return nil, fmt.Errorf("convert markdown: %w", err)
	}
	return buf.Bytes(), nil
}

// AnchorSet assigns heading anchors with the same slug function and the same
// duplicate-suffix scheme the renderer uses, so ids computed outside the
// rendered body stay in lockstep with the ids inside it.
type AnchorSet struct {
	slug func(string) string
	used map[string]struct{}
}

// NewAnchorSet creates an anchor assigner for one document.
func NewAnchorSet(slug func(string) string) *AnchorSet {
	return &AnchorSet{slug: slug, used: map[string]struct{}{}}
}

// Assign returns the anchor for the next heading with the given text.
func (a *AnchorSet) Assign(text string) string {
	base := a.slug(text)
	if base == "" {
		base = "heading"
	}
	id := base
	for n := 1; ; n++ {
		if _, taken := a.used[id]; !taken {
			break
		}
		id = fmt.Sprintf("%s-%d", base, n)
	}
	a.used[id] = struct{}{}
	return id
}

// anchorIDs adapts an AnchorSet to goldmark's parser.IDs so auto heading ids
// come from the caller's slug function.
type anchorIDs struct {
	set *AnchorSet
}

func newAnchorIDs(slug func(string) string) parser.IDs {
	return &anchorIDs{set: NewAnchorSet(slug)}
}

func (ids *anchorIDs) Generate(value []byte, kind gmast.NodeKind) []byte {
	return []byte(ids.set.Assign(string(value)))
}

func (ids *anchorIDs) Put(value []byte) {
	ids.set.used[string(value)] = struct{}{}
}

// linkRewriter applies the RewriteLink hook to link and image destinations
// during parsing, before rendering sees the AST.
type linkRewriter struct {
	rewrite func(dest string) string
}

func (t *linkRewriter) Transform(doc *gmast.Document, reader text.Reader, pc parser.Context) {
	_ = gmast.Walk(doc, func(n gmast.Node, entering bool) (gmast.WalkStatus, error) {
		if !entering {
			return gmast.WalkContinue, nil
		}
		switch v := n.(type) {
		case *gmast.Link:
			v.Destination = []byte(t.rewrite(string(v.Destination)))
		case *gmast.Image:
			v.Destination = []byte(t.rewrite(string(v.Destination)))
		}
		return gmast.WalkContinue, nil
	})
}

// fenceRenderer overrides fenced code block rendering. Mermaid fences become
// <pre class="mermaid"> for the client-side diagram renderer; everything else
// gets a language-* class for the client-side highlighter.
type fenceRenderer struct {
	mermaid bool
}

func (r *fenceRenderer) RegisterFuncs(reg renderer.NodeRendererFuncRegisterer) {
	reg.Register(gmast.KindFencedCodeBlock, r.renderFence)
}

func (r *fenceRenderer) renderFence(w util.BufWriter, source []byte, node gmast.Node, entering bool) (gmast.WalkStatus, error) {
	n := node.(*gmast.FencedCodeBlock)
	lang := string(n.Language(source))

	if r.mermaid && lang == "mermaid" {
		if entering {
			_, _ = w.WriteString(`<pre class="mermaid">`)
			r.writeEscapedLines(w, source, n)
		} else {
			_, _ = w.WriteString("</pre>\n")
		}
		return gmast.WalkContinue, nil
	}

	if entering {
		if lang != "" {
			_, _ = fmt.Fprintf(w, `<pre><code class="language-%s">`, util.EscapeHTML([]byte(lang)))
		} else {
			_, _ = w.WriteString("<pre><code>")
		}
		r.writeEscapedLines(w, source, n)
	} else {
		_, _ = w.WriteString("</code></pre>\n")
	}
	return gmast.WalkContinue, nil
}

func (r *fenceRenderer) writeEscapedLines(w util.BufWriter, source []byte, n *gmast.FencedCodeBlock) {
	lines := n.Lines()
	for i := 0; i < lines.Len(); i++ {
		seg := lines.At(i)
		_, _ = w.Write(util.EscapeHTML(seg.Value(source)))
	}
}
