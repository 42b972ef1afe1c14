package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	cerrors "github.com/instructa/coursegen/internal/errors"
)

// Validate checks the configuration after defaults and env overrides were
// applied. It returns the first fatal problem found.
func (c *Config) Validate() error {
	if strings.TrimSpace(c.Title) == "" {
		return cerrors.ConfigRequired("title")
	}
	if strings.TrimSpace(c.URL) == "" {
		return cerrors.ConfigRequired("url")
	}
	if u, err := url.Parse(c.URL); err != nil || u.Scheme == "" || u.Host == "" {
		return cerrors.ValidationFailed("url", "must be an absolute URL including scheme and host")
	}
	if !strings.HasPrefix(c.BaseURL, "/") || !strings.HasSuffix(c.BaseURL, "/") {
		return cerrors.ValidationFailed("base_url", "must start and end with '/'")
	}

	switch c.Markdown.Format {
	case FormatDetect, FormatMDX, FormatMD:
	default:
		return cerrors.ValidationFailed("markdown.format",
			fmt.Sprintf("unknown format %q (expected detect, mdx, or md)", c.Markdown.Format))
	}
	switch c.Markdown.BrokenLinks {
	case BrokenLinksWarn, BrokenLinksThrow, BrokenLinksIgnore:
	default:
		return cerrors.ValidationFailed("markdown.broken_links",
			fmt.Sprintf("unknown policy %q (expected warn, throw, or ignore)", c.Markdown.BrokenLinks))
	}
	switch c.Theme.ColorMode {
	case ColorModeLight, ColorModeDark:
	default:
		return cerrors.ValidationFailed("theme.color_mode",
			fmt.Sprintf("unknown color mode %q (expected light or dark)", c.Theme.ColorMode))
	}

	for i, item := range c.Navbar.Items {
		if strings.TrimSpace(item.Label) == "" {
			return cerrors.ValidationFailed(fmt.Sprintf("navbar.items[%d].label", i), "label must not be empty")
		}
		if strings.TrimSpace(item.Link) == "" {
			return cerrors.ValidationFailed(fmt.Sprintf("navbar.items[%d].link", i), "link must not be empty")
		}
		switch item.Position {
		case "", "left", "right":
		default:
			return cerrors.ValidationFailed(fmt.Sprintf("navbar.items[%d].position", i),
				fmt.Sprintf("unknown position %q (expected left or right)", item.Position))
		}
	}

	for gi, group := range c.Footer.Groups {
		if strings.TrimSpace(group.Title) == "" {
			return cerrors.ValidationFailed(fmt.Sprintf("footer.groups[%d].title", gi), "title must not be empty")
		}
		for li, link := range group.Links {
			if strings.TrimSpace(link.Label) == "" || strings.TrimSpace(link.Link) == "" {
				return cerrors.ValidationFailed(
					fmt.Sprintf("footer.groups[%d].links[%d]", gi, li), "label and link must not be empty")
			}
		}
	}

	if c.Serve.Port < 1 || c.Serve.Port > 65535 {
		return cerrors.ValidationFailed("serve.port", "must be between 1 and 65535")
	}
	if c.Serve.ResyncInterval != "" {
		if d, err := time.ParseDuration(c.Serve.ResyncInterval); err != nil || d <= 0 {
			return cerrors.ValidationFailed("serve.resync_interval", "must be a positive Go duration (e.g. 5m)")
		}
	}

	if c.Events != nil && c.Events.Enabled && strings.TrimSpace(c.Events.NATSURL) == "" {
		return cerrors.ConfigRequired("events.nats_url")
	}

	if c.Build.Incremental && strings.TrimSpace(c.Build.StateDB) == "" {
		return cerrors.ValidationFailed("build.state_db", "incremental builds require a state database path")
	}

	return nil
}

// ResyncInterval returns the parsed serve resync interval, or zero when
// disabled. Validate has already rejected malformed values.
func (c *Config) ResyncInterval() time.Duration {
	if c.Serve.ResyncInterval == "" {
		return 0
	}
	d, err := time.ParseDuration(c.Serve.ResyncInterval)
	if err != nil {
		return 0
	}
	return d
}
