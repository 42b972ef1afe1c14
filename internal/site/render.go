package site

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"html/template"
	"log/slog"
	"net/url"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/instructa/coursegen/internal/content"
	cerrors "github.com/instructa/coursegen/internal/errors"
	"github.com/instructa/coursegen/internal/logfields"
	"github.com/instructa/coursegen/internal/markdown"
)

// renderOne renders a single page to its output file. When incremental builds
// are enabled and the source hash matches the stored one (and the output file
// exists), rendering is skipped and the function reports skipped=true.
func (g *Generator) renderOne(ctx context.Context, bs *buildState, page *Page) (skipped bool, err error) {
	l := page.Lesson
	outFile := filepath.Join(g.cfg.Output.Directory, filepath.FromSlash(page.OutputPath))

	hash := g.lessonHash(l)
	if g.cfg.Build.Incremental && g.store != nil {
		stored, herr := g.store.PageHash(ctx, page.OutputPath)
		if herr == nil && stored == hash {
			if _, serr := os.Stat(outFile); serr == nil {
				slog.Debug("page unchanged, skipping render", logfields.File(page.OutputPath))
				return true, nil
			}
		}
	}

	renderer := markdown.NewRenderer(markdown.RenderOptions{
		Mermaid:     g.cfg.Markdown.Mermaid,
		RewriteLink: func(dest string) string { return g.rewriteLink(bs.tree, l, dest) },
		HeadingID:   content.Slugify,
	})
	body, err := renderer.Render(l.Body)
	if err != nil {
		return false, cerrors.RenderError(l.RelativePath, err)
	}

	html, err := g.renderPage(bs.nav, page, template.HTML(body))
	if err != nil {
		return false, cerrors.RenderError(l.RelativePath, err)
	}

	if err := os.MkdirAll(filepath.Dir(outFile), 0o755); err != nil {
		return false, cerrors.OutputError("mkdir", err)
	}
	if err := os.WriteFile(outFile, html, 0o644); err != nil {
		return false, cerrors.OutputError("write page", err)
	}

	if g.store != nil {
		if err := g.store.SetPageHash(ctx, page.OutputPath, hash); err != nil {
			slog.Warn("storing page hash failed", logfields.File(page.OutputPath), logfields.Error(err))
		}
	}
	return false, nil
}

// lessonHash fingerprints the lesson source, frontmatter included, mixed with
// the configuration fingerprint so both content and chrome changes invalidate
// the incremental skip.
func (g *Generator) lessonHash(l *content.Lesson) string {
	h := sha256.New()
	h.Write([]byte(g.cfgHash))
	if l.Meta != nil {
		if enc, err := l.Meta.Encode(); err == nil {
			h.Write(enc)
		}
	} else {
		h.Write(l.Body)
	}
	return hex.EncodeToString(h.Sum(nil))
}

// rewriteLink maps Markdown link and image destinations to their final site
// hrefs. External links, anchors, and non-relative schemes pass through.
// Relative .md/.mdx targets become pretty URLs; other relative targets are
// resolved against the lesson's directory so they keep pointing at the copied
// asset from inside a pretty-URL directory.
func (g *Generator) rewriteLink(tree *content.Tree, from *content.Lesson, dest string) string {
	if dest == "" || strings.HasPrefix(dest, "#") {
		return dest
	}
	if u, err := url.Parse(dest); err != nil || u.Scheme != "" || u.Host != "" {
		return dest
	}

	target, fragment, _ := strings.Cut(dest, "#")
	if fragment != "" {
		fragment = "#" + fragment
	}

	// Resolve against the lesson's directory within the content tree.
	rel := target
	if !strings.HasPrefix(target, "/") {
		rel = path.Join(path.Dir(from.RelativePath), target)
	} else {
		rel = strings.TrimPrefix(path.Clean(target), "/")
	}
	if strings.HasPrefix(rel, "..") {
		return dest
	}

	ext := strings.ToLower(path.Ext(rel))
	if ext == ".md" || ext == ".mdx" {
		if l := tree.LessonByRelPath(rel); l != nil {
			return g.href(l.URLPath()) + fragment
		}
		// Left unchanged so the verify stage reports it under the configured
		// broken-links policy.
		return dest
	}
	return g.href("/"+rel) + fragment
}
