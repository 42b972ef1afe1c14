package site

import (
	"strings"

	"github.com/instructa/coursegen/internal/content"
	cerrors "github.com/instructa/coursegen/internal/errors"
	"github.com/instructa/coursegen/internal/markdown"
)

// Page is one rendered HTML document.
type Page struct {
	Lesson *content.Lesson

	Title      string
	URL        string // href including base URL
	OutputPath string // site-relative output file, e.g. "intro/index.html"

	Headings []markdown.Heading // H2/H3 for the in-page table of contents

	Prev *PageRef
	Next *PageRef

	EditURL      string
	LastModified string // formatted date, "" when unknown
}

// PageRef is a lightweight link to an adjacent page.
type PageRef struct {
	Title string
	URL   string
}

// navItem is a resolved navbar entry.
type navItem struct {
	Label    string
	Href     string
	External bool
}

// footerGroup mirrors config.FooterGroup with resolved hrefs.
type footerGroup struct {
	Title string
	Links []navItem
}

// sidebarEntry is one sidebar link, possibly the active page.
type sidebarEntry struct {
	Title  string
	Href   string
	URL    string // bare site path, for active-page matching
	Bullet string // duration hint shown next to the title
}

// sidebarGroup is one module section in the sidebar.
type sidebarGroup struct {
	Title   string
	Href    string // module index href, "" when the module has no index
	URL     string
	Entries []sidebarEntry
}

// navigation is the site-wide chrome shared by every page.
type navigation struct {
	NavbarLeft  []navItem
	NavbarRight []navItem
	Footer      []footerGroup
	Copyright   string
	Sidebar     []sidebarGroup
	TopPages    []sidebarEntry // root and top-level pages shown above modules
}

// href joins the configured base URL with a site path.
func (g *Generator) href(sitePath string) string {
	base := strings.TrimSuffix(g.cfg.BaseURL, "/")
	if sitePath == "" || sitePath == "/" {
		if base == "" {
			return "/"
		}
		return base + "/"
	}
	return base + sitePath
}

func isExternalLink(link string) bool {
	return strings.HasPrefix(link, "http://") || strings.HasPrefix(link, "https://")
}

// buildNavigation assembles the navbar, footer, and sidebar view models and
// enforces the navigation invariant: every internal navbar and footer link
// must resolve to a page that exists in the tree.
func (g *Generator) buildNavigation(tree *content.Tree) (*navigation, error) {
	known := make(map[string]struct{})
	for _, l := range tree.AllLessons() {
		known[l.URLPath()] = struct{}{}
	}

	resolve := func(link string) (navItem, error) {
		if isExternalLink(link) {
			return navItem{Href: link, External: true}, nil
		}
		site := "/" + strings.Trim(link, "/")
		if site != "/" {
			site += "/"
		}
		if _, ok := known[site]; !ok {
			return navItem{}, cerrors.BrokenNavigation(link)
		}
		return navItem{Href: g.href(site)}, nil
	}

	nav := &navigation{Copyright: g.cfg.Footer.Copyright}

	for _, item := range g.cfg.Navbar.Items {
		ni, err := resolve(item.Link)
		if err != nil {
			return nil, err
		}
		ni.Label = item.Label
		if item.Position == "right" {
			nav.NavbarRight = append(nav.NavbarRight, ni)
		} else {
			nav.NavbarLeft = append(nav.NavbarLeft, ni)
		}
	}

	for _, grp := range g.cfg.Footer.Groups {
		fg := footerGroup{Title: grp.Title}
		for _, fl := range grp.Links {
			ni, err := resolve(fl.Link)
			if err != nil {
				return nil, err
			}
			ni.Label = fl.Label
			fg.Links = append(fg.Links, ni)
		}
		nav.Footer = append(nav.Footer, fg)
	}

	if tree.Root != nil {
		nav.TopPages = append(nav.TopPages, g.sidebarEntryFor(tree.Root))
	}
	for _, p := range tree.Pages {
		nav.TopPages = append(nav.TopPages, g.sidebarEntryFor(p))
	}
	for _, m := range tree.Modules {
		sg := sidebarGroup{Title: m.Title}
		if m.Index != nil {
			sg.URL = m.Index.URLPath()
			sg.Href = g.href(sg.URL)
		}
		for _, l := range m.Lessons {
			sg.Entries = append(sg.Entries, g.sidebarEntryFor(l))
		}
		nav.Sidebar = append(nav.Sidebar, sg)
	}
	return nav, nil
}

func (g *Generator) sidebarEntryFor(l *content.Lesson) sidebarEntry {
	title := l.Title
	if title == "" {
		title = l.Name
	}
	url := l.URLPath()
	return sidebarEntry{Title: title, Href: g.href(url), URL: url, Bullet: l.Duration}
}

// pageSequence flattens the tree into reading order for prev/next links:
// root, top-level pages, then each module's index followed by its lessons.
func pageSequence(tree *content.Tree) []*content.Lesson {
	return tree.AllLessons()
}

// buildPages derives the Page list with adjacency and edit metadata. Two
// documents mapping to the same output file would silently overwrite each
// other, so collisions fail the build.
func (g *Generator) buildPages(tree *content.Tree) ([]*Page, error) {
	seq := pageSequence(tree)
	pages := make([]*Page, 0, len(seq))
	byURL := make(map[string]*content.Lesson, len(seq))
	for _, l := range seq {
		title := l.Title
		if title == "" {
			title = l.Name
		}
		url := l.URLPath()
		if prev, taken := byURL[url]; taken {
			return nil, cerrors.PageCollision(url, prev.RelativePath, l.RelativePath)
		}
		byURL[url] = l
		p := &Page{
			Lesson:     l,
			Title:      title,
			URL:        g.href(url),
			OutputPath: outputPathFor(url),
			Headings:   tocHeadings(l.Body),
			EditURL:    g.editURLFor(l),
		}
		if !l.LastModified.IsZero() {
			p.LastModified = l.LastModified.Format("Jan 2, 2006")
		}
		pages = append(pages, p)
	}
	for i, p := range pages {
		if i > 0 {
			p.Prev = &PageRef{Title: pages[i-1].Title, URL: pages[i-1].URL}
		}
		if i < len(pages)-1 {
			p.Next = &PageRef{Title: pages[i+1].Title, URL: pages[i+1].URL}
		}
	}
	return pages, nil
}

// outputPathFor maps a pretty URL to its index.html file.
func outputPathFor(urlPath string) string {
	trimmed := strings.Trim(urlPath, "/")
	if trimmed == "" {
		return "index.html"
	}
	return trimmed + "/index.html"
}

// tocHeadings keeps H2 and H3 headings for the in-page table of contents. The
// H1 is the page title and is excluded. Anchors are assigned over all headings
// with the same AnchorSet the renderer uses, so duplicate suffixes line up
// with the rendered ids.
func tocHeadings(body []byte) []markdown.Heading {
	anchors := markdown.NewAnchorSet(content.Slugify)
	var out []markdown.Heading
	for _, h := range markdown.ExtractHeadings(body) {
		h.Anchor = anchors.Assign(h.Text)
		if h.Level == 2 || h.Level == 3 {
			out = append(out, h)
		}
	}
	return out
}

// editURLFor resolves the per-page edit link. An explicit edit_url wins, then
// the git remote (when metadata is enabled), then the configured
// organization/project pair assuming GitHub conventions.
func (g *Generator) editURLFor(l *content.Lesson) string {
	base := g.cfg.EditURL
	if base == "" && g.gitResolver != nil {
		base = g.gitResolver.EditURLBase("main")
	}
	if base == "" && g.cfg.OrganizationName != "" && g.cfg.ProjectName != "" {
		base = "https://github.com/" + g.cfg.OrganizationName + "/" + g.cfg.ProjectName + "/edit/main/"
	}
	if base == "" {
		return ""
	}
	return strings.TrimSuffix(base, "/") + "/" + l.RelativePath
}
