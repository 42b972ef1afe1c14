package config

// applyDefaults fills zero values with working defaults so a minimal config
// (title + url) produces a buildable site.
func (c *Config) applyDefaults() {
	if c.BaseURL == "" {
		c.BaseURL = "/"
	}
	// Favicon deliberately has no default: pointing at an asset that does not
	// exist would turn every default-config build into a broken-link warning.

	if c.Markdown.Format == "" {
		c.Markdown.Format = FormatDetect
	}
	if c.Markdown.BrokenLinks == "" {
		c.Markdown.BrokenLinks = BrokenLinksWarn
	}

	if c.Theme.ColorMode == "" {
		c.Theme.ColorMode = ColorModeLight
	}
	if c.Theme.Highlight.LightTheme == "" {
		c.Theme.Highlight.LightTheme = "github"
	}
	if c.Theme.Highlight.DarkTheme == "" {
		c.Theme.Highlight.DarkTheme = "dracula"
	}
	if c.Theme.Mermaid.Light == "" {
		c.Theme.Mermaid.Light = "default"
	}
	if c.Theme.Mermaid.Dark == "" {
		c.Theme.Mermaid.Dark = "dark"
	}

	if c.Content.Dir == "" {
		c.Content.Dir = "./docs"
	}
	if c.Output.Directory == "" {
		c.Output.Directory = "./site"
	}

	if c.Serve.Port == 0 {
		c.Serve.Port = 3000
	}

	if c.Events != nil && c.Events.Subject == "" {
		c.Events.Subject = "coursegen.builds"
	}
}
