package config

import (
	"fmt"
	"os"
)

const starterConfig = `# coursegen site configuration
title: My Curriculum
tagline: Lessons that explain the why, not just the how
# favicon: img/favicon.ico
url: https://example.github.io
base_url: /

organization_name: example
project_name: curriculum
edit_url: https://github.com/example/curriculum/edit/main/

markdown:
  format: detect       # detect | mdx | md
  mermaid: true
  broken_links: warn   # warn | throw | ignore

navbar:
  items:
    - label: Curriculum
      link: /
      position: left

footer:
  groups:
    - title: Community
      links:
        - label: GitHub
          link: https://github.com/example/curriculum
  copyright: © example

theme:
  color_mode: light    # light | dark
  highlight:
    light_theme: github
    dark_theme: dracula
    additional_languages: [python, sql, bash]
  mermaid:
    light: default
    dark: dark

sidebar:
  hideable: true
  auto_collapse: true

content:
  dir: ./docs

output:
  directory: ./site
  clean: true
`

// Init writes a starter configuration file. Existing files are preserved
// unless force is set.
func Init(path string, force bool) error {
	if _, err := os.Stat(path); err == nil && !force {
		return fmt.Errorf("configuration file already exists: %s (use --force to overwrite)", path)
	}
	if err := os.WriteFile(path, []byte(starterConfig), 0o644); err != nil {
		return fmt.Errorf("write configuration: %w", err)
	}
	return nil
}
