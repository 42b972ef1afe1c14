// Package lint checks lesson files against the authoring conventions used by
// the curriculum: filename hygiene, lesson structure, frontmatter uids, and
// mermaid syntax.
package lint

import (
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/instructa/coursegen/internal/logfields"
)

// Linter performs linting operations on lesson files.
type Linter struct {
	cfg   *Config
	rules []Rule
}

// NewLinter creates a linter with the default rule set.
func NewLinter(cfg *Config) *Linter {
	if cfg == nil {
		cfg = &Config{Format: "text"}
	}
	return &Linter{
		cfg: cfg,
		rules: []Rule{
			&FilenameRule{},
			&StructureRule{},
			&MermaidRule{},
			&FrontmatterUIDRule{},
		},
	}
}

// LintPath lints all lesson files in the given path (file or directory).
func (l *Linter) LintPath(path string) (*Result, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, err
	}

	result := &Result{Issues: []Issue{}}
	if info.IsDir() {
		err = l.lintDirectory(path, result)
	} else {
		result.FilesTotal = 1
		err = l.lintFile(path, result)
	}
	return result, err
}

func (l *Linter) lintDirectory(dir string, result *Result) error {
	return filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if strings.HasPrefix(d.Name(), ".") && d.Name() != "." {
			if d.IsDir() {
				return fs.SkipDir
			}
			return nil
		}
		if d.IsDir() {
			return nil
		}
		if !IsLessonFile(path) && !IsAssetFile(path) {
			return nil
		}

		result.FilesTotal++
		return l.lintFile(path, result)
	})
}

func (l *Linter) lintFile(path string, result *Result) error {
	var content []byte
	if IsLessonFile(path) {
		var err error
		content, err = os.ReadFile(path)
		if err != nil {
			return err
		}
	}

	for _, rule := range l.rules {
		if !rule.AppliesTo(path) {
			continue
		}
		issues, err := rule.Check(path, content)
		if err != nil {
			return err
		}
		for _, issue := range issues {
			if l.cfg.Quiet && issue.Severity != SeverityError {
				continue
			}
			result.Issues = append(result.Issues, issue)
		}
	}
	return nil
}

// Fix applies automatic fixes (currently uid assignment) to every lesson
// under path. It returns the paths that were rewritten.
func (l *Linter) Fix(path string) ([]string, error) {
	uidRule := &FrontmatterUIDRule{}
	var fixed []string

	err := filepath.WalkDir(path, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if strings.HasPrefix(d.Name(), ".") && d.Name() != "." {
			if d.IsDir() {
				return fs.SkipDir
			}
			return nil
		}
		if d.IsDir() || !uidRule.AppliesTo(p) {
			return nil
		}

		content, err := os.ReadFile(p)
		if err != nil {
			return err
		}
		out, changed, err := uidRule.Apply(content)
		if err != nil {
			slog.Warn("Skipping unfixable file", logfields.Path(p), logfields.Error(err))
			return nil
		}
		if !changed {
			return nil
		}

		if l.cfg.DryRun {
			fixed = append(fixed, p)
			return nil
		}
		if err := os.WriteFile(p, out, 0o644); err != nil {
			return err
		}
		fixed = append(fixed, p)
		return nil
	})
	return fixed, err
}

// DetectDefaultPath returns the conventional content directory when present.
func DetectDefaultPath() (string, bool) {
	for _, candidate := range []string{"docs", "content", "curriculum"} {
		if st, err := os.Stat(candidate); err == nil && st.IsDir() {
			return candidate, true
		}
	}
	return ".", false
}
