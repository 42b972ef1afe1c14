// Package content models the curriculum tree: modules of lessons plus their
// index documents, discovered from a directory of Markdown files.
package content

import (
	"path"
	"strings"
	"time"

	"github.com/instructa/coursegen/internal/frontmatter"
	"github.com/instructa/coursegen/internal/markdown"
)

// Lesson is a single Markdown document following the pedagogical template.
type Lesson struct {
	Path         string // absolute path to the file
	RelativePath string // path relative to the content dir, slash-separated
	Module       string // module directory name, "" for top-level pages
	Name         string // file name without extension
	Slug         string // URL slug derived from the file name
	IsMDX        bool   // true for .mdx sources

	Title    string // first heading text; invariant: the title is the first heading
	Duration string // duration hint from frontmatter, "" when absent
	Section  string // section label from frontmatter, "" when absent
	UID      string // stable identifier from frontmatter, "" when absent

	Meta *frontmatter.Document
	Body []byte

	// LastModified is filled from git history when repository linkage is
	// enabled; zero otherwise.
	LastModified time.Time
}

// IsIndex reports whether the lesson is a module index document.
func (l *Lesson) IsIndex() bool {
	return strings.EqualFold(l.Name, "README")
}

// URLPath is the site-relative path of the rendered page, without base URL.
// Every directory segment of the source path becomes a slug, so a README
// nested below the module root maps to its own directory URL instead of
// colliding with the module index.
func (l *Lesson) URLPath() string {
	var segs []string
	if dir := path.Dir(l.RelativePath); dir != "." {
		for _, s := range strings.Split(dir, "/") {
			segs = append(segs, Slugify(s))
		}
	}
	if !l.IsIndex() {
		segs = append(segs, l.Slug)
	}
	if len(segs) == 0 {
		return "/"
	}
	return "/" + strings.Join(segs, "/") + "/"
}

// Module is a directory grouping related lessons, with an ordered lesson list
// and an optional index document.
type Module struct {
	Name    string // directory name
	Slug    string
	Title   string    // index title when present, else derived from the name
	Index   *Lesson   // README.md, nil when the directory has none
	Lessons []*Lesson // ordered, index excluded
}

// Asset is a non-Markdown file carried into the site unchanged.
type Asset struct {
	Path         string
	RelativePath string
}

// Tree is the complete scanned curriculum.
type Tree struct {
	Root    *Lesson   // top-level README.md, nil when absent
	Pages   []*Lesson // top-level non-index lessons
	Modules []*Module
	Assets  []Asset
}

// AllLessons returns every lesson in the tree, indexes included, in site
// order: root, top-level pages, then modules.
func (t *Tree) AllLessons() []*Lesson {
	var out []*Lesson
	if t.Root != nil {
		out = append(out, t.Root)
	}
	out = append(out, t.Pages...)
	for _, m := range t.Modules {
		if m.Index != nil {
			out = append(out, m.Index)
		}
		out = append(out, m.Lessons...)
	}
	return out
}

// LessonByRelPath finds a lesson by its content-relative path.
func (t *Tree) LessonByRelPath(rel string) *Lesson {
	rel = path.Clean(rel)
	for _, l := range t.AllLessons() {
		if l.RelativePath == rel {
			return l
		}
	}
	return nil
}

// parseLesson decomposes raw file bytes into a Lesson.
func parseLesson(raw []byte, abs, rel, module, name string, isMDX bool) (*Lesson, error) {
	doc, err := frontmatter.Parse(raw)
	if err != nil {
		return nil, err
	}

	lesson := &Lesson{
		Path:         abs,
		RelativePath: rel,
		Module:       module,
		Name:         name,
		Slug:         Slugify(name),
		IsMDX:        isMDX,
		Duration:     doc.String("duration"),
		Section:      doc.String("section"),
		UID:          doc.String("uid"),
		Meta:         doc,
		Body:         doc.Body,
	}

	if h := markdown.FirstHeading(doc.Body); h != nil {
		lesson.Title = h.Text
	}
	if title := doc.String("title"); title != "" {
		lesson.Title = title
	}
	return lesson, nil
}
