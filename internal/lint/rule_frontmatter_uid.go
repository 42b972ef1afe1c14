package lint

import (
	"path/filepath"
	"strings"

	"github.com/google/uuid"

	"github.com/instructa/coursegen/internal/frontmatter"
)

// FrontmatterUIDRule checks that lessons carry a stable `uid` frontmatter
// field. UIDs keep cross-references stable across file renames.
type FrontmatterUIDRule struct{}

// Name returns the rule identifier.
func (r *FrontmatterUIDRule) Name() string { return "frontmatter-uid" }

// AppliesTo returns true for lesson documents, index files excluded.
func (r *FrontmatterUIDRule) AppliesTo(path string) bool {
	if !IsLessonFile(path) {
		return false
	}
	stem := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	return !strings.EqualFold(stem, "README")
}

// Check reports lessons without a uid or with a malformed one.
func (r *FrontmatterUIDRule) Check(path string, content []byte) ([]Issue, error) {
	doc, err := frontmatter.Parse(content)
	if err != nil {
		return nil, nil
	}

	uid := doc.String("uid")
	if uid == "" {
		return []Issue{{
			FilePath: path,
			Severity: SeverityWarning,
			Rule:     r.Name(),
			Message:  "lesson has no uid frontmatter field",
			Fix:      "run `coursegen check --fix` to assign one",
		}}, nil
	}

	if _, err := uuid.Parse(uid); err != nil {
		return []Issue{{
			FilePath: path,
			Severity: SeverityWarning,
			Rule:     r.Name(),
			Message:  "uid is not a valid UUID: " + uid,
		}}, nil
	}
	return nil, nil
}

// Apply assigns a fresh UUID to a lesson without one. It returns the new
// content and whether a change was made.
func (r *FrontmatterUIDRule) Apply(content []byte) ([]byte, bool, error) {
	doc, err := frontmatter.Parse(content)
	if err != nil {
		return nil, false, err
	}
	if doc.String("uid") != "" {
		return content, false, nil
	}

	doc.Set("uid", uuid.NewString())
	out, err := doc.Encode()
	if err != nil {
		return nil, false, err
	}
	return out, true, nil
}
