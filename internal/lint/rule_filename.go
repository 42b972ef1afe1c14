package lint

import (
	"path/filepath"
	"strings"
	"unicode"
)

// FilenameRule validates that lesson filenames produce stable, portable URLs.
type FilenameRule struct{}

// Name returns the rule identifier.
func (r *FilenameRule) Name() string { return "filename-conventions" }

// AppliesTo returns true for lesson and asset files.
func (r *FilenameRule) AppliesTo(path string) bool {
	return IsLessonFile(path) || IsAssetFile(path)
}

// Check validates filename conventions.
func (r *FilenameRule) Check(path string, _ []byte) ([]Issue, error) {
	filename := filepath.Base(path)
	stem := strings.TrimSuffix(filename, filepath.Ext(filename))
	var issues []Issue

	// README.md is the index convention and exempt from the lowercase check.
	isIndex := strings.EqualFold(stem, "README")

	if !isIndex && strings.ContainsFunc(stem, unicode.IsUpper) {
		issues = append(issues, Issue{
			FilePath: path,
			Severity: SeverityError,
			Rule:     r.Name(),
			Message:  "filename contains uppercase letters; URL casing differs across platforms",
			Fix:      "rename to " + strings.ToLower(filename),
		})
	}

	if strings.Contains(filename, " ") {
		issues = append(issues, Issue{
			FilePath: path,
			Severity: SeverityError,
			Rule:     r.Name(),
			Message:  "filename contains spaces; they become %20 in URLs",
			Fix:      "rename to " + strings.ReplaceAll(strings.ToLower(filename), " ", "-"),
		})
	}

	if chars := specialChars(stem); len(chars) > 0 {
		issues = append(issues, Issue{
			FilePath: path,
			Severity: SeverityWarning,
			Rule:     r.Name(),
			Message:  "filename contains characters outside [a-z0-9-_]: " + strings.Join(chars, ", "),
			Fix:      "rename using hyphens and ASCII letters",
		})
	}

	return issues, nil
}

func specialChars(stem string) []string {
	seen := map[rune]struct{}{}
	var out []string
	for _, r := range stem {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
		case r == '-' || r == '_' || r == '.' || r == ' ':
			// spaces reported separately
		default:
			if _, ok := seen[r]; !ok {
				seen[r] = struct{}{}
				out = append(out, string(r))
			}
		}
	}
	return out
}

// IsLessonFile reports whether the path looks like a lesson document.
func IsLessonFile(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".md", ".mdx":
		return true
	}
	return false
}

// IsAssetFile reports whether the path looks like a site asset.
func IsAssetFile(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".png", ".jpg", ".jpeg", ".gif", ".svg", ".webp", ".css", ".js", ".ico":
		return true
	}
	return false
}
