package linkverify

import (
	"io/fs"
	"net/url"
	"path"
	"path/filepath"
	"sort"
	"strings"
)

// BrokenLink is an internal link that does not resolve to an emitted file.
type BrokenLink struct {
	SourcePage  string `json:"source_page"` // site-relative path of the page containing the link
	Destination string `json:"destination"` // destination as authored
	Resolved    string `json:"resolved"`    // site-relative path that was looked up
}

// Verifier checks internal links of a rendered site tree against the set of
// files it actually contains.
type Verifier struct {
	siteDir  string
	baseURL  string
	basePath string
	emitted  map[string]struct{}
}

// NewVerifier scans the output directory and indexes every emitted file.
func NewVerifier(siteDir, siteURL, baseURL string) (*Verifier, error) {
	v := &Verifier{
		siteDir:  siteDir,
		baseURL:  siteURL,
		basePath: strings.TrimSuffix(baseURL, "/"),
		emitted:  map[string]struct{}{},
	}

	err := filepath.WalkDir(siteDir, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		rel, err := filepath.Rel(siteDir, p)
		if err != nil {
			return err
		}
		v.emitted["/"+filepath.ToSlash(rel)] = struct{}{}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return v, nil
}

// VerifyAll extracts and checks internal links of every HTML page under the
// site directory. Returned broken links are sorted by source page.
func (v *Verifier) VerifyAll() ([]BrokenLink, error) {
	var broken []BrokenLink

	err := filepath.WalkDir(v.siteDir, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() || !strings.HasSuffix(p, ".html") {
			return nil
		}
		rel, err := filepath.Rel(v.siteDir, p)
		if err != nil {
			return err
		}
		page := "/" + filepath.ToSlash(rel)

		links, err := ExtractFromFile(p, v.baseURL)
		if err != nil {
			return err
		}
		for _, link := range links {
			if !link.IsInternal {
				continue
			}
			if b, ok := v.check(page, link); !ok {
				broken = append(broken, b)
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	sort.Slice(broken, func(i, j int) bool {
		if broken[i].SourcePage != broken[j].SourcePage {
			return broken[i].SourcePage < broken[j].SourcePage
		}
		return broken[i].Destination < broken[j].Destination
	})
	return broken, nil
}

// check resolves one internal link against the emitted file set.
func (v *Verifier) check(page string, link Link) (BrokenLink, bool) {
	dest := link.URL

	// Same-page anchors cannot dangle at the file level.
	if strings.HasPrefix(dest, "#") {
		return BrokenLink{}, true
	}

	u, err := url.Parse(dest)
	if err != nil {
		return BrokenLink{SourcePage: page, Destination: dest}, false
	}

	target := u.Path
	if target == "" {
		return BrokenLink{}, true
	}

	// Strip the configured base path from absolute site links.
	if v.basePath != "" && strings.HasPrefix(target, v.basePath+"/") {
		target = strings.TrimPrefix(target, v.basePath)
	}
	if !strings.HasPrefix(target, "/") {
		target = path.Join(path.Dir(page), target)
	}
	target = path.Clean(target)

	if v.resolves(target) {
		return BrokenLink{}, true
	}
	return BrokenLink{SourcePage: page, Destination: dest, Resolved: target}, false
}

// resolves checks a site-relative path against emitted files, applying the
// pretty-URL convention (/x/ -> /x/index.html).
func (v *Verifier) resolves(target string) bool {
	candidates := []string{target}
	if strings.HasSuffix(target, "/") || path.Ext(target) == "" {
		candidates = append(candidates,
			strings.TrimSuffix(target, "/")+"/index.html",
		)
		if target != "/" {
			candidates = append(candidates, strings.TrimSuffix(target, "/")+".html")
		}
	}
	for _, c := range candidates {
		if c == "" {
			c = "/"
		}
		if _, ok := v.emitted[path.Clean(c)]; ok {
			return true
		}
	}
	return false
}
