package content

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, root, rel, content string) {
	t.Helper()
	p := filepath.Join(root, filepath.FromSlash(rel))
	require.NoError(t, os.MkdirAll(filepath.Dir(p), 0o755))
	require.NoError(t, os.WriteFile(p, []byte(content), 0o644))
}

func fixtureTree(t *testing.T) string {
	t.Helper()
	root := t.TempDir()
	writeFile(t, root, "README.md", "# Curriculum\n\nWelcome.\n")
	writeFile(t, root, "python-core/README.md",
		"# Python Core\n\n1. [Generators](generators.md)\n2. [Decorators](decorators.md)\n")
	writeFile(t, root, "python-core/decorators.md",
		"---\nduration: 60 minutes\n---\n# Decorators\n\nBody.\n")
	writeFile(t, root, "python-core/generators.md",
		"---\nduration: 90 minutes\nsection: Iteration\n---\n# Generators\n\nBody.\n")
	writeFile(t, root, "python-core/unlisted.md", "# Unlisted Topic\n")
	writeFile(t, root, "postgresql/indexes.md", "# Indexes\n")
	writeFile(t, root, "python-core/img/flow.png", "not-really-a-png")
	writeFile(t, root, ".git/config", "hidden")
	return root
}

func TestScan_BuildsModuleTree(t *testing.T) {
	tree, err := NewScanner(fixtureTree(t), ScanOptions{}).Scan()
	require.NoError(t, err)

	require.NotNil(t, tree.Root)
	require.Equal(t, "Curriculum", tree.Root.Title)
	require.Empty(t, tree.Pages)

	require.Len(t, tree.Modules, 2)
	require.Equal(t, "postgresql", tree.Modules[0].Name)
	require.Equal(t, "python-core", tree.Modules[1].Name)
}

func TestScan_LessonOrderFollowsIndex(t *testing.T) {
	tree, err := NewScanner(fixtureTree(t), ScanOptions{}).Scan()
	require.NoError(t, err)

	py := tree.Modules[1]
	require.NotNil(t, py.Index)
	require.Equal(t, "Python Core", py.Title)

	var names []string
	for _, l := range py.Lessons {
		names = append(names, l.Name)
	}
	// Index lists generators before decorators; unlisted trails lexically.
	require.Equal(t, []string{"generators", "decorators", "unlisted"}, names)
}

func TestScan_ModuleWithoutIndex(t *testing.T) {
	tree, err := NewScanner(fixtureTree(t), ScanOptions{}).Scan()
	require.NoError(t, err)

	pg := tree.Modules[0]
	require.Nil(t, pg.Index)
	require.Equal(t, "postgresql", pg.Title)
	require.Len(t, pg.Lessons, 1)
	require.Equal(t, "Indexes", pg.Lessons[0].Title)
}

func TestScan_FrontmatterFields(t *testing.T) {
	tree, err := NewScanner(fixtureTree(t), ScanOptions{}).Scan()
	require.NoError(t, err)

	gen := tree.LessonByRelPath("python-core/generators.md")
	require.NotNil(t, gen)
	require.Equal(t, "90 minutes", gen.Duration)
	require.Equal(t, "Iteration", gen.Section)
	require.Equal(t, "Generators", gen.Title)
}

func TestScan_AssetsAndHiddenDirs(t *testing.T) {
	tree, err := NewScanner(fixtureTree(t), ScanOptions{}).Scan()
	require.NoError(t, err)

	require.Len(t, tree.Assets, 1)
	require.Equal(t, "python-core/img/flow.png", tree.Assets[0].RelativePath)
}

func TestScan_MDXHandling(t *testing.T) {
	root := fixtureTree(t)
	writeFile(t, root, "python-core/interactive.mdx", "# Interactive\n\n<Quiz id=\"q1\" />\n")

	tree, err := NewScanner(root, ScanOptions{}).Scan()
	require.NoError(t, err)
	require.Nil(t, tree.LessonByRelPath("python-core/interactive.mdx"))

	tree, err = NewScanner(root, ScanOptions{IncludeMDX: true}).Scan()
	require.NoError(t, err)
	mdx := tree.LessonByRelPath("python-core/interactive.mdx")
	require.NotNil(t, mdx)
	require.True(t, mdx.IsMDX)
}

func TestScan_MissingDir(t *testing.T) {
	_, err := NewScanner(filepath.Join(t.TempDir(), "absent"), ScanOptions{}).Scan()
	require.Error(t, err)
}

func TestURLPath(t *testing.T) {
	cases := []struct {
		lesson Lesson
		want   string
	}{
		{Lesson{RelativePath: "README.md", Name: "README"}, "/"},
		{Lesson{RelativePath: "glossary.md", Name: "glossary", Slug: "glossary"}, "/glossary/"},
		{Lesson{RelativePath: "Python Core/README.md", Name: "README", Module: "Python Core"}, "/python-core/"},
		{Lesson{RelativePath: "python-core/generators.md", Name: "generators", Slug: "generators", Module: "python-core"}, "/python-core/generators/"},
		// Nested documents keep their directory in the URL instead of
		// collapsing onto the module index.
		{Lesson{RelativePath: "python-core/advanced/README.md", Name: "README", Module: "python-core"}, "/python-core/advanced/"},
		{Lesson{RelativePath: "python-core/advanced/slots.md", Name: "slots", Slug: "slots", Module: "python-core"}, "/python-core/advanced/slots/"},
	}
	for _, tc := range cases {
		require.Equal(t, tc.want, tc.lesson.URLPath(), "path %s", tc.lesson.RelativePath)
	}
}

func TestSlugify(t *testing.T) {
	cases := map[string]string{
		"Generators":            "generators",
		"PostgreSQL Indexes":    "postgresql-indexes",
		"Café Därüber":          "cafe-daruber",
		"  weird -- spacing  ":  "weird-spacing",
		"01-intro_to_python":    "01-intro-to-python",
		"Ünicode/Nörmalization": "unicode-normalization",
	}
	for in, want := range cases {
		require.Equal(t, want, Slugify(in), "input %q", in)
	}
}
