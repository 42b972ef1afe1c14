// Package linkverify checks links in the rendered site: internal links must
// resolve to emitted documents, external links can optionally be probed.
package linkverify

import (
	"io"
	"net/url"
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/net/html"
)

// Link is a link extracted from rendered HTML.
type Link struct {
	URL        string // raw destination as authored
	Tag        string // html tag (a, img, link, script)
	Attribute  string // attribute carrying the destination
	IsInternal bool   // true when the link targets this site
}

// linkAttrs maps tags to the attribute that carries a destination.
var linkAttrs = map[string]string{
	"a":      "href",
	"img":    "src",
	"link":   "href",
	"script": "src",
}

// ExtractFromFile extracts all links from a rendered HTML file.
func ExtractFromFile(path string, baseURL string) ([]Link, error) {
	f, err := os.Open(filepath.Clean(path))
	if err != nil {
		return nil, err
	}
	defer func() { _ = f.Close() }()
	return Extract(f, baseURL)
}

// Extract extracts all links from an HTML document.
func Extract(r io.Reader, baseURL string) ([]Link, error) {
	doc, err := html.Parse(r)
	if err != nil {
		return nil, err
	}
	base, err := url.Parse(baseURL)
	if err != nil {
		return nil, err
	}

	var links []Link
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode {
			if attr, ok := linkAttrs[n.Data]; ok {
				if dest := getAttr(n, attr); dest != "" {
					links = append(links, Link{
						URL:        dest,
						Tag:        n.Data,
						Attribute:  attr,
						IsInternal: isInternal(dest, base),
					})
				}
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(doc)
	return links, nil
}

func getAttr(n *html.Node, name string) string {
	for _, a := range n.Attr {
		if a.Key == name {
			return a.Val
		}
	}
	return ""
}

// isInternal reports whether a destination targets this site: relative paths,
// same-page anchors, and absolute URLs on the site host all count.
func isInternal(dest string, base *url.URL) bool {
	if strings.HasPrefix(dest, "#") {
		return true
	}
	u, err := url.Parse(dest)
	if err != nil {
		return false
	}
	if u.Scheme == "mailto" || u.Scheme == "tel" || u.Scheme == "javascript" {
		return false
	}
	if u.Host == "" {
		return u.Scheme == ""
	}
	return u.Host == base.Host
}
