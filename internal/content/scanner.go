package content

import (
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path"
	"path/filepath"
	"sort"
	"strings"

	cerrors "github.com/instructa/coursegen/internal/errors"
	"github.com/instructa/coursegen/internal/logfields"
	"github.com/instructa/coursegen/internal/markdown"
)

// ScanOptions controls content discovery.
type ScanOptions struct {
	// IncludeMDX accepts .mdx files as pages (format detect/mdx). When
	// false (format md), .mdx files are skipped.
	IncludeMDX bool
}

// Scanner discovers the curriculum tree under a content directory.
type Scanner struct {
	dir  string
	opts ScanOptions
}

// NewScanner creates a scanner rooted at dir.
func NewScanner(dir string, opts ScanOptions) *Scanner {
	return &Scanner{dir: dir, opts: opts}
}

// Scan walks the content directory and assembles the curriculum tree.
// Modules are sorted by name; lesson order within a module follows the
// module's index document, with unlisted lessons appended lexically.
func (s *Scanner) Scan() (*Tree, error) {
	abs, err := filepath.Abs(s.dir)
	if err != nil {
		return nil, cerrors.ContentScanError(err)
	}
	if st, err := os.Stat(abs); err != nil || !st.IsDir() {
		return nil, cerrors.ContentScanError(fmt.Errorf("content dir not found or not a directory: %s", s.dir))
	}

	tree := &Tree{}
	modules := map[string]*Module{}

	walkErr := filepath.WalkDir(abs, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		name := d.Name()
		if strings.HasPrefix(name, ".") && name != "." {
			if d.IsDir() {
				return fs.SkipDir
			}
			return nil
		}
		if d.IsDir() {
			return nil
		}

		rel, err := filepath.Rel(abs, p)
		if err != nil {
			return err
		}
		rel = filepath.ToSlash(rel)

		// Only one directory level of modules is recognized; deeper files
		// belong to the module of their first path element.
		moduleName := ""
		if idx := strings.Index(rel, "/"); idx >= 0 {
			moduleName = rel[:idx]
		}

		ext := strings.ToLower(path.Ext(rel))
		switch ext {
		case ".md":
		case ".mdx":
			if !s.opts.IncludeMDX {
				slog.Debug("Skipping MDX file under md format", logfields.Path(rel))
				return nil
			}
		default:
			tree.Assets = append(tree.Assets, Asset{Path: p, RelativePath: rel})
			return nil
		}

		raw, err := os.ReadFile(p)
		if err != nil {
			return err
		}

		stem := strings.TrimSuffix(path.Base(rel), path.Ext(rel))
		lesson, err := parseLesson(raw, p, rel, moduleName, stem, ext == ".mdx")
		if err != nil {
			return cerrors.LessonParseError(rel, err)
		}

		if moduleName == "" {
			if lesson.IsIndex() {
				tree.Root = lesson
			} else {
				tree.Pages = append(tree.Pages, lesson)
			}
			return nil
		}

		mod, ok := modules[moduleName]
		if !ok {
			mod = &Module{Name: moduleName, Slug: Slugify(moduleName)}
			modules[moduleName] = mod
		}
		if lesson.IsIndex() && path.Dir(rel) == moduleName {
			mod.Index = lesson
		} else {
			mod.Lessons = append(mod.Lessons, lesson)
		}
		return nil
	})
	if walkErr != nil {
		if _, ok := walkErr.(*cerrors.CoursegenError); ok {
			return nil, walkErr
		}
		return nil, cerrors.ContentScanError(walkErr)
	}

	sort.Slice(tree.Pages, func(i, j int) bool { return tree.Pages[i].Name < tree.Pages[j].Name })

	for _, mod := range modules {
		finalizeModule(mod)
		tree.Modules = append(tree.Modules, mod)
	}
	sort.Slice(tree.Modules, func(i, j int) bool { return tree.Modules[i].Name < tree.Modules[j].Name })

	slog.Debug("Content scan complete",
		slog.Int("modules", len(tree.Modules)),
		logfields.Pages(len(tree.AllLessons())),
		slog.Int("assets", len(tree.Assets)))
	return tree, nil
}

// finalizeModule derives the module title and lesson order. The index
// document's link order is authoritative; unlisted lessons follow lexically.
func finalizeModule(mod *Module) {
	mod.Title = strings.ReplaceAll(mod.Name, "-", " ")
	if mod.Index != nil && mod.Index.Title != "" {
		mod.Title = mod.Index.Title
	}

	sort.Slice(mod.Lessons, func(i, j int) bool { return mod.Lessons[i].RelativePath < mod.Lessons[j].RelativePath })
	if mod.Index == nil {
		return
	}

	rank := indexRanks(mod)
	sort.SliceStable(mod.Lessons, func(i, j int) bool {
		ri, iOK := rank[mod.Lessons[i].RelativePath]
		rj, jOK := rank[mod.Lessons[j].RelativePath]
		switch {
		case iOK && jOK:
			return ri < rj
		case iOK:
			return true
		case jOK:
			return false
		default:
			return false // keep lexical order among unlisted lessons
		}
	})
}

// indexRanks maps content-relative lesson paths to their position in the
// index document's link list.
func indexRanks(mod *Module) map[string]int {
	rank := map[string]int{}
	next := 0
	for _, link := range markdown.ExtractLinks(mod.Index.Body) {
		dest := link.Destination
		if dest == "" || strings.Contains(dest, "://") || strings.HasPrefix(dest, "#") || strings.HasPrefix(dest, "/") {
			continue
		}
		dest = strings.SplitN(dest, "#", 2)[0]
		resolved := path.Clean(path.Join(mod.Name, dest))
		if _, seen := rank[resolved]; seen {
			continue
		}
		rank[resolved] = next
		next++
	}
	return rank
}
