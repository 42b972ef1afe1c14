package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	cerrors "github.com/instructa/coursegen/internal/errors"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "course.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

const minimalConfig = `
title: Python Curriculum
url: https://learn.example.com
`

func TestLoad_MinimalConfigGetsDefaults(t *testing.T) {
	cfg, err := Load(writeConfig(t, minimalConfig))
	require.NoError(t, err)

	require.Equal(t, "/", cfg.BaseURL)
	require.Equal(t, FormatDetect, cfg.Markdown.Format)
	require.Equal(t, BrokenLinksWarn, cfg.Markdown.BrokenLinks)
	require.Equal(t, ColorModeLight, cfg.Theme.ColorMode)
	require.Equal(t, "github", cfg.Theme.Highlight.LightTheme)
	require.Equal(t, "dracula", cfg.Theme.Highlight.DarkTheme)
	require.Equal(t, "default", cfg.Theme.Mermaid.Light)
	require.Equal(t, "./docs", cfg.Content.Dir)
	require.Equal(t, "./site", cfg.Output.Directory)
	require.Equal(t, 3000, cfg.Serve.Port)
	// No favicon default; a path to an asset that is not there would make
	// every build warn about a broken link.
	require.Empty(t, cfg.Favicon)
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	require.Error(t, err)
	require.True(t, cerrors.IsCategory(err, cerrors.CategoryConfig))
}

func TestLoad_InvalidYAML(t *testing.T) {
	_, err := Load(writeConfig(t, "title: [unclosed"))
	require.Error(t, err)
	require.True(t, cerrors.IsCategory(err, cerrors.CategoryConfig))
}

func TestValidate_RequiresTitleAndURL(t *testing.T) {
	_, err := Load(writeConfig(t, "url: https://x.example.com\n"))
	require.Error(t, err)

	_, err = Load(writeConfig(t, "title: X\n"))
	require.Error(t, err)
}

func TestValidate_RejectsRelativeURL(t *testing.T) {
	_, err := Load(writeConfig(t, "title: X\nurl: not-a-url\n"))
	require.Error(t, err)
	require.True(t, cerrors.IsCategory(err, cerrors.CategoryValidation))
}

func TestValidate_BaseURLMustBeSlashDelimited(t *testing.T) {
	_, err := Load(writeConfig(t, minimalConfig+"base_url: docs/\n"))
	require.Error(t, err)

	cfg, err := Load(writeConfig(t, minimalConfig+"base_url: /docs/\n"))
	require.NoError(t, err)
	require.Equal(t, "/docs/", cfg.BaseURL)
}

func TestValidate_EnumFields(t *testing.T) {
	cases := []struct {
		name    string
		snippet string
	}{
		{"format", "markdown:\n  format: rst\n"},
		{"broken_links", "markdown:\n  broken_links: panic\n"},
		{"color_mode", "theme:\n  color_mode: sepia\n"},
		{"navbar position", "navbar:\n  items:\n    - label: Docs\n      link: /\n      position: center\n"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := Load(writeConfig(t, minimalConfig+tc.snippet))
			require.Error(t, err)
			require.True(t, cerrors.IsCategory(err, cerrors.CategoryValidation))
		})
	}
}

func TestValidate_NavbarItemsNeedLabelAndLink(t *testing.T) {
	_, err := Load(writeConfig(t, minimalConfig+"navbar:\n  items:\n    - label: \"\"\n      link: /\n"))
	require.Error(t, err)
}

func TestValidate_IncrementalNeedsStateDB(t *testing.T) {
	_, err := Load(writeConfig(t, minimalConfig+"build:\n  incremental: true\n"))
	require.Error(t, err)

	cfg, err := Load(writeConfig(t, minimalConfig+"build:\n  incremental: true\n  state_db: .coursegen/state.db\n"))
	require.NoError(t, err)
	require.True(t, cfg.Build.Incremental)
}

func TestValidate_EventsRequireURL(t *testing.T) {
	_, err := Load(writeConfig(t, minimalConfig+"events:\n  enabled: true\n"))
	require.Error(t, err)
}

func TestResyncInterval(t *testing.T) {
	cfg, err := Load(writeConfig(t, minimalConfig+"serve:\n  resync_interval: 5m\n"))
	require.NoError(t, err)
	require.Equal(t, 5*time.Minute, cfg.ResyncInterval())

	_, err = Load(writeConfig(t, minimalConfig+"serve:\n  resync_interval: soon\n"))
	require.Error(t, err)
}

func TestEnvOverrides(t *testing.T) {
	t.Setenv("COURSEGEN_URL", "https://override.example.com")
	t.Setenv("COURSEGEN_SERVE_PORT", "8080")
	t.Setenv("COURSEGEN_OUTPUT_DIR", "/tmp/out")

	cfg, err := Load(writeConfig(t, minimalConfig))
	require.NoError(t, err)
	require.Equal(t, "https://override.example.com", cfg.URL)
	require.Equal(t, 8080, cfg.Serve.Port)
	require.Equal(t, "/tmp/out", cfg.Output.Directory)
}

func TestInit_WritesLoadableConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "course.yaml")
	require.NoError(t, Init(path, false))

	cfg, err := Load(path)
	require.NoError(t, err)
	require.Equal(t, "My Curriculum", cfg.Title)
	require.True(t, cfg.Markdown.Mermaid)
	require.True(t, cfg.Sidebar.Hideable)

	// Second init without force must not clobber.
	require.Error(t, Init(path, false))
	require.NoError(t, Init(path, true))
}
