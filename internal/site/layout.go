package site

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"

	"github.com/instructa/coursegen/internal/config"
)

//go:embed templates/*.tmpl templates/assets/*
var layoutFS embed.FS

// siteData is the template-facing view of the configuration.
type siteData struct {
	Title     string
	Tagline   string
	Favicon   string // resolved href, "" when not configured
	ColorMode string

	HighlightLight  string
	HighlightDark   string
	ExtraLanguages  []string
	Mermaid         bool
	MermaidLight    string
	MermaidDark     string
	SidebarHideable bool
	SidebarCollapse bool

	AssetsHref string // href prefix of the theme assets directory
	HomeHref   string
}

// pageData is the root template context for a single page.
type pageData struct {
	Site    siteData
	Nav     *navigation
	Page    *Page
	Content template.HTML
}

func newLayout() (*template.Template, error) {
	tmpl, err := template.New("layout").ParseFS(layoutFS, "templates/*.tmpl")
	if err != nil {
		return nil, fmt.Errorf("parse layout templates: %w", err)
	}
	return tmpl, nil
}

func (g *Generator) siteData() siteData {
	cfg := g.cfg
	sd := siteData{
		Title:           cfg.Title,
		Tagline:         cfg.Tagline,
		ColorMode:       string(cfg.Theme.ColorMode),
		HighlightLight:  cfg.Theme.Highlight.LightTheme,
		HighlightDark:   cfg.Theme.Highlight.DarkTheme,
		ExtraLanguages:  cfg.Theme.Highlight.AdditionalLanguages,
		Mermaid:         cfg.Markdown.Mermaid,
		MermaidLight:    cfg.Theme.Mermaid.Light,
		MermaidDark:     cfg.Theme.Mermaid.Dark,
		SidebarHideable: cfg.Sidebar.Hideable,
		SidebarCollapse: cfg.Sidebar.AutoCollapseModules,
		AssetsHref:      g.href("/" + themeAssetsDir + "/"),
		HomeHref:        g.href("/"),
	}
	if cfg.Favicon != "" {
		sd.Favicon = g.href("/" + cfg.Favicon)
	}
	if sd.ColorMode == "" {
		sd.ColorMode = string(config.ColorModeLight)
	}
	return sd
}

// renderPage executes the page layout for one document body.
func (g *Generator) renderPage(nav *navigation, page *Page, body template.HTML) ([]byte, error) {
	var buf bytes.Buffer
	data := pageData{Site: g.siteData(), Nav: nav, Page: page, Content: body}
	if err := g.layout.ExecuteTemplate(&buf, "page.html.tmpl", data); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
