// Package scaffold creates new lesson and module skeletons satisfying the
// lesson document contract checked by the linter.
package scaffold

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"text/template"

	"github.com/google/uuid"

	"github.com/instructa/coursegen/internal/content"
)

const lessonTemplate = `---
uid: {{.UID}}
duration: {{.Duration}}
---

# {{.Title}}

## The Problem

Describe the concrete problem this lesson solves.

## Common Failure Modes

What does getting this wrong look like in practice?

## Guided Practice

Walk through the solution step by step.

## Key Takeaways

- Summarize the one thing the learner should remember.
`

const moduleIndexTemplate = `# {{.Title}}

Lessons in this module:

1. [First lesson](01-first-lesson.md)
`

type lessonData struct {
	Title    string
	UID      string
	Duration string
}

// Lesson creates a new lesson file under dir. The file name is the slugified
// title; existing files are never overwritten.
func Lesson(dir, title, duration string) (string, error) {
	if strings.TrimSpace(title) == "" {
		return "", fmt.Errorf("lesson title is required")
	}
	if duration == "" {
		duration = "15 min"
	}
	name := content.Slugify(title) + ".md"
	path := filepath.Join(dir, name)
	if _, err := os.Stat(path); err == nil {
		return "", fmt.Errorf("%s already exists", path)
	}

	body, err := render(lessonTemplate, lessonData{
		Title:    title,
		UID:      uuid.NewString(),
		Duration: duration,
	})
	if err != nil {
		return "", err
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("create lesson dir: %w", err)
	}
	if err := os.WriteFile(path, body, 0o644); err != nil {
		return "", fmt.Errorf("write lesson: %w", err)
	}
	return path, nil
}

// Module creates a new module directory with an index document. The directory
// name is the slugified title.
func Module(contentDir, title string) (string, error) {
	if strings.TrimSpace(title) == "" {
		return "", fmt.Errorf("module title is required")
	}
	dir := filepath.Join(contentDir, content.Slugify(title))
	if _, err := os.Stat(dir); err == nil {
		return "", fmt.Errorf("%s already exists", dir)
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("create module dir: %w", err)
	}

	body, err := render(moduleIndexTemplate, lessonData{Title: title})
	if err != nil {
		return "", err
	}
	index := filepath.Join(dir, "README.md")
	if err := os.WriteFile(index, body, 0o644); err != nil {
		return "", fmt.Errorf("write module index: %w", err)
	}
	return dir, nil
}

func render(tmpl string, data lessonData) ([]byte, error) {
	t, err := template.New("scaffold").Parse(tmpl)
	if err != nil {
		return nil, fmt.Errorf("parse scaffold template: %w", err)
	}
	var buf bytes.Buffer
	if err := t.Execute(&buf, data); err != nil {
		return nil, fmt.Errorf("render scaffold template: %w", err)
	}
	return buf.Bytes(), nil
}
