// Package gitmeta derives repository linkage from the content repo: the
// edit-URL base from the origin remote and per-lesson last-modified
// timestamps from commit history.
package gitmeta

import (
	"fmt"
	"path/filepath"
	"strings"
	"time"

	gogit "github.com/go-git/go-git/v5"

	cerrors "github.com/instructa/coursegen/internal/errors"
)

// Resolver answers metadata queries against the repository containing the
// content directory.
type Resolver struct {
	repo *gogit.Repository
	// prefix is the content dir path relative to the worktree root,
	// slash-separated, "" when the content dir is the root.
	prefix string
}

// NewResolver locates the repository enclosing dir (walking up to find .git).
func NewResolver(dir string) (*Resolver, error) {
	abs, err := filepath.Abs(dir)
	if err != nil {
		return nil, cerrors.GitMetadataError(err)
	}

	repo, err := gogit.PlainOpenWithOptions(abs, &gogit.PlainOpenOptions{DetectDotGit: true})
	if err != nil {
		return nil, cerrors.GitMetadataError(err)
	}

	wt, err := repo.Worktree()
	if err != nil {
		return nil, cerrors.GitMetadataError(err)
	}

	prefix, err := filepath.Rel(wt.Filesystem.Root(), abs)
	if err != nil || prefix == "." {
		prefix = ""
	}
	return &Resolver{repo: repo, prefix: filepath.ToSlash(prefix)}, nil
}

// RemoteURL returns the first URL of the origin remote, "" when unset.
func (r *Resolver) RemoteURL() string {
	remote, err := r.repo.Remote("origin")
	if err != nil || len(remote.Config().URLs) == 0 {
		return ""
	}
	return remote.Config().URLs[0]
}

// EditURLBase derives a browsable edit URL base from the origin remote,
// e.g. https://github.com/org/repo/edit/main/. Empty when there is no
// recognizable remote.
func (r *Resolver) EditURLBase(branch string) string {
	host, org, project := splitRemote(r.RemoteURL())
	if host == "" {
		return ""
	}
	if branch == "" {
		branch = "main"
	}
	return fmt.Sprintf("https://%s/%s/%s/edit/%s/", host, org, project, branch)
}

// OrgProject returns the organization and project names from the origin
// remote, empty strings when there is none.
func (r *Resolver) OrgProject() (string, string) {
	_, org, project := splitRemote(r.RemoteURL())
	return org, project
}

// LastModified returns the committer time of the most recent commit touching
// the given content-relative file.
func (r *Resolver) LastModified(rel string) (time.Time, error) {
	repoPath := filepath.ToSlash(rel)
	if r.prefix != "" {
		repoPath = r.prefix + "/" + repoPath
	}

	iter, err := r.repo.Log(&gogit.LogOptions{FileName: &repoPath})
	if err != nil {
		return time.Time{}, cerrors.GitMetadataError(err)
	}
	defer iter.Close()

	commit, err := iter.Next()
	if err != nil {
		return time.Time{}, cerrors.GitMetadataError(fmt.Errorf("no history for %s: %w", rel, err))
	}
	return commit.Committer.When, nil
}

// splitRemote decomposes common remote URL shapes:
// https://host/org/repo(.git) and git@host:org/repo(.git).
func splitRemote(remote string) (host, org, project string) {
	if remote == "" {
		return "", "", ""
	}

	var rest string
	switch {
	case strings.HasPrefix(remote, "https://"):
		rest = strings.TrimPrefix(remote, "https://")
		parts := strings.SplitN(rest, "/", 3)
		if len(parts) != 3 {
			return "", "", ""
		}
		host, org, project = parts[0], parts[1], parts[2]
	case strings.HasPrefix(remote, "git@"):
		rest = strings.TrimPrefix(remote, "git@")
		hostAndPath := strings.SplitN(rest, ":", 2)
		if len(hostAndPath) != 2 {
			return "", "", ""
		}
		host = hostAndPath[0]
		parts := strings.SplitN(hostAndPath[1], "/", 2)
		if len(parts) != 2 {
			return "", "", ""
		}
		org, project = parts[0], parts[1]
	default:
		return "", "", ""
	}

	project = strings.TrimSuffix(strings.TrimSuffix(project, "/"), ".git")
	if host == "" || org == "" || project == "" {
		return "", "", ""
	}
	return host, org, project
}
