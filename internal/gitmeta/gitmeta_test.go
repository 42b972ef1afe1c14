package gitmeta

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	gogit "github.com/go-git/go-git/v5"
	gitcfg "github.com/go-git/go-git/v5/config"
	"github.com/go-git/go-git/v5/plumbing/object"
	"github.com/stretchr/testify/require"
)

func initRepo(t *testing.T) (string, *gogit.Repository) {
	t.Helper()
	dir := t.TempDir()
	repo, err := gogit.PlainInit(dir, false)
	require.NoError(t, err)

	_, err = repo.CreateRemote(&gitcfg.RemoteConfig{
		Name: "origin",
		URLs: []string{"git@github.com:example/curriculum.git"},
	})
	require.NoError(t, err)
	return dir, repo
}

func commitFile(t *testing.T, dir string, repo *gogit.Repository, rel, content string, when time.Time) {
	t.Helper()
	p := filepath.Join(dir, filepath.FromSlash(rel))
	require.NoError(t, os.MkdirAll(filepath.Dir(p), 0o755))
	require.NoError(t, os.WriteFile(p, []byte(content), 0o644))

	wt, err := repo.Worktree()
	require.NoError(t, err)
	_, err = wt.Add(rel)
	require.NoError(t, err)

	sig := &object.Signature{Name: "author", Email: "a@example.com", When: when}
	_, err = wt.Commit("edit "+rel, &gogit.CommitOptions{Author: sig, Committer: sig})
	require.NoError(t, err)
}

func TestNewResolver_SubdirectoryPrefix(t *testing.T) {
	dir, repo := initRepo(t)
	commitFile(t, dir, repo, "docs/python-core/generators.md", "# Generators\n", time.Now())

	r, err := NewResolver(filepath.Join(dir, "docs"))
	require.NoError(t, err)
	require.Equal(t, "docs", r.prefix)
}

func TestRemoteURLAndEditBase(t *testing.T) {
	dir, repo := initRepo(t)
	commitFile(t, dir, repo, "README.md", "# x\n", time.Now())

	r, err := NewResolver(dir)
	require.NoError(t, err)

	require.Equal(t, "git@github.com:example/curriculum.git", r.RemoteURL())
	require.Equal(t, "https://github.com/example/curriculum/edit/main/", r.EditURLBase(""))
	require.Equal(t, "https://github.com/example/curriculum/edit/trunk/", r.EditURLBase("trunk"))

	org, project := r.OrgProject()
	require.Equal(t, "example", org)
	require.Equal(t, "curriculum", project)
}

func TestLastModified_PicksLatestCommitForFile(t *testing.T) {
	dir, repo := initRepo(t)
	older := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	newer := time.Date(2025, 6, 15, 9, 30, 0, 0, time.UTC)

	commitFile(t, dir, repo, "docs/a.md", "# A v1\n", older)
	commitFile(t, dir, repo, "docs/b.md", "# B\n", older.Add(time.Hour))
	commitFile(t, dir, repo, "docs/a.md", "# A v2\n", newer)

	r, err := NewResolver(filepath.Join(dir, "docs"))
	require.NoError(t, err)

	got, err := r.LastModified("a.md")
	require.NoError(t, err)
	require.True(t, got.Equal(newer), "got %v want %v", got, newer)

	gotB, err := r.LastModified("b.md")
	require.NoError(t, err)
	require.True(t, gotB.Equal(older.Add(time.Hour)))
}

func TestLastModified_UntrackedFile(t *testing.T) {
	dir, repo := initRepo(t)
	commitFile(t, dir, repo, "docs/a.md", "# A\n", time.Now())

	r, err := NewResolver(dir)
	require.NoError(t, err)
	_, err = r.LastModified("docs/never-committed.md")
	require.Error(t, err)
}

func TestNewResolver_NotARepo(t *testing.T) {
	_, err := NewResolver(t.TempDir())
	require.Error(t, err)
}

func TestSplitRemote_Shapes(t *testing.T) {
	cases := []struct {
		remote  string
		host    string
		org     string
		project string
	}{
		{"https://github.com/example/curriculum.git", "github.com", "example", "curriculum"},
		{"https://gitlab.com/group/lessons", "gitlab.com", "group", "lessons"},
		{"git@github.com:example/curriculum.git", "github.com", "example", "curriculum"},
		{"ssh://weird", "", "", ""},
		{"", "", "", ""},
	}
	for _, tc := range cases {
		host, org, project := splitRemote(tc.remote)
		require.Equal(t, tc.host, host, tc.remote)
		require.Equal(t, tc.org, org, tc.remote)
		require.Equal(t, tc.project, project, tc.remote)
	}
}
