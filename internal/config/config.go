// Package config loads and validates the site configuration record.
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	cerrors "github.com/instructa/coursegen/internal/errors"
)

// MarkdownFormat selects how content files are interpreted.
type MarkdownFormat string

const (
	// FormatDetect treats .md as CommonMark and accepts .mdx pages with MDX
	// expressions passed through verbatim.
	FormatDetect MarkdownFormat = "detect"
	// FormatMDX treats every content file as MDX-flavored.
	FormatMDX MarkdownFormat = "mdx"
	// FormatMD treats .md as CommonMark and ignores .mdx files.
	FormatMD MarkdownFormat = "md"
)

// BrokenLinkPolicy controls what happens when internal links do not resolve.
type BrokenLinkPolicy string

const (
	BrokenLinksWarn   BrokenLinkPolicy = "warn"
	BrokenLinksThrow  BrokenLinkPolicy = "throw"
	BrokenLinksIgnore BrokenLinkPolicy = "ignore"
)

// ColorMode is the default site color scheme.
type ColorMode string

const (
	ColorModeLight ColorMode = "light"
	ColorModeDark  ColorMode = "dark"
)

// Config is the declarative site configuration record.
type Config struct {
	// Site identity
	Title   string `yaml:"title"`
	Tagline string `yaml:"tagline"`
	Favicon string `yaml:"favicon"`
	URL     string `yaml:"url"`
	BaseURL string `yaml:"base_url"`

	// Repository linkage
	OrganizationName string `yaml:"organization_name"`
	ProjectName      string `yaml:"project_name"`
	EditURL          string `yaml:"edit_url"`

	Markdown MarkdownConfig `yaml:"markdown"`
	Navbar   NavbarConfig   `yaml:"navbar"`
	Footer   FooterConfig   `yaml:"footer"`
	Theme    ThemeConfig    `yaml:"theme"`
	Sidebar  SidebarConfig  `yaml:"sidebar"`

	Content ContentConfig `yaml:"content"`
	Output  OutputConfig  `yaml:"output"`
	Build   BuildConfig   `yaml:"build"`
	Serve   ServeConfig   `yaml:"serve"`
	Events  *EventsConfig `yaml:"events,omitempty"`
}

// MarkdownConfig controls content file interpretation.
type MarkdownConfig struct {
	Format      MarkdownFormat   `yaml:"format"`
	Mermaid     bool             `yaml:"mermaid"`
	BrokenLinks BrokenLinkPolicy `yaml:"broken_links"`
}

// NavbarItem is one top-bar navigation entry.
type NavbarItem struct {
	Label    string `yaml:"label"`
	Link     string `yaml:"link"`
	Position string `yaml:"position"` // left or right
}

// NavbarConfig is the ordered top navigation bar.
type NavbarConfig struct {
	Items []NavbarItem `yaml:"items"`
}

// FooterLink is one entry in a footer group.
type FooterLink struct {
	Label string `yaml:"label"`
	Link  string `yaml:"link"`
}

// FooterGroup is a titled column of footer links.
type FooterGroup struct {
	Title string       `yaml:"title"`
	Links []FooterLink `yaml:"links"`
}

// FooterConfig is the grouped site footer.
type FooterConfig struct {
	Groups    []FooterGroup `yaml:"groups"`
	Copyright string        `yaml:"copyright"`
}

// HighlightConfig selects client-side syntax highlight themes.
type HighlightConfig struct {
	LightTheme          string   `yaml:"light_theme"`
	DarkTheme           string   `yaml:"dark_theme"`
	AdditionalLanguages []string `yaml:"additional_languages"`
}

// MermaidThemeConfig selects the Mermaid theme per color mode.
type MermaidThemeConfig struct {
	Light string `yaml:"light"`
	Dark  string `yaml:"dark"`
}

// ThemeConfig groups presentation choices.
type ThemeConfig struct {
	ColorMode ColorMode          `yaml:"color_mode"`
	Highlight HighlightConfig    `yaml:"highlight"`
	Mermaid   MermaidThemeConfig `yaml:"mermaid"`
}

// SidebarConfig controls sidebar behavior.
type SidebarConfig struct {
	Hideable            bool `yaml:"hideable"`
	AutoCollapseModules bool `yaml:"auto_collapse"`
}

// ContentConfig locates the curriculum tree.
type ContentConfig struct {
	Dir string `yaml:"dir"`
	// Static is an optional directory of assets copied into the site root.
	Static string `yaml:"static"`
}

// OutputConfig locates the generated site.
type OutputConfig struct {
	Directory string `yaml:"directory"`
	Clean     bool   `yaml:"clean"`
}

// BuildConfig tunes the build pipeline.
type BuildConfig struct {
	// Incremental skips re-rendering pages whose content hash is unchanged
	// since the last build, using the state store.
	Incremental bool `yaml:"incremental"`
	// StateDB is the path of the sqlite build-state database. Empty disables
	// the store (and incremental builds).
	StateDB string `yaml:"state_db"`
	// GitMetadata enables edit-link and last-modified resolution from the
	// content repository.
	GitMetadata bool `yaml:"git_metadata"`
}

// ServeConfig tunes the local preview server.
type ServeConfig struct {
	Port int `yaml:"port"`
	// ResyncInterval triggers a scheduled full rebuild as a safety net for
	// missed filesystem events. Zero disables it.
	ResyncInterval string `yaml:"resync_interval"`
	Metrics        bool   `yaml:"metrics"`
	LiveReload     bool   `yaml:"live_reload"`
}

// EventsConfig enables build event publishing over NATS JetStream.
type EventsConfig struct {
	Enabled bool   `yaml:"enabled"`
	NATSURL string `yaml:"nats_url"`
	Subject string `yaml:"subject"`
}

// Load reads, defaults, env-overrides, and validates a configuration file.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, cerrors.ConfigNotFound(path)
		}
		return nil, fmt.Errorf("read config: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, cerrors.Wrap(err, cerrors.CategoryConfig, cerrors.SeverityFatal, "invalid YAML in site configuration").
			WithContext("path", path)
	}

	cfg.applyDefaults()
	applyEnvOverrides(&cfg)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}
