// Package frontmatter splits and rewrites YAML frontmatter on lesson files.
package frontmatter

import (
	"bytes"
	"errors"

	"gopkg.in/yaml.v3"
)

var (
	// ErrUnclosed indicates a document that opens a frontmatter block but
	// never closes it.
	ErrUnclosed = errors.New("frontmatter opening delimiter found but closing delimiter is missing")
)

var delimiter = []byte("---")

// Document is a lesson file decomposed into frontmatter and Markdown body.
type Document struct {
	// Meta holds the decoded frontmatter fields. Empty (non-nil) when the
	// file has no frontmatter block.
	Meta map[string]any
	// Body is the Markdown content after the frontmatter block.
	Body []byte
	// HasMeta reports whether the file carried a frontmatter block at all.
	HasMeta bool
}

// Parse splits a file into YAML frontmatter and Markdown body. A file without
// a leading `---` line is all body.
func Parse(content []byte) (*Document, error) {
	raw, body, has, err := split(content)
	if err != nil {
		return nil, err
	}

	doc := &Document{Meta: map[string]any{}, Body: body, HasMeta: has}
	if len(raw) > 0 {
		if err := yaml.Unmarshal(raw, &doc.Meta); err != nil {
			return nil, err
		}
		if doc.Meta == nil {
			doc.Meta = map[string]any{}
		}
	}
	return doc, nil
}

// Encode reassembles the document. Fields are serialized with yaml.v3 using
// two-space indentation; a document without frontmatter is returned as its
// body unchanged unless fields were added.
func (d *Document) Encode() ([]byte, error) {
	if !d.HasMeta && len(d.Meta) == 0 {
		return d.Body, nil
	}

	var buf bytes.Buffer
	buf.Write(delimiter)
	buf.WriteByte('\n')
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(d.Meta); err != nil {
		return nil, err
	}
	if err := enc.Close(); err != nil {
		return nil, err
	}
	buf.Write(delimiter)
	buf.WriteByte('\n')
	buf.Write(d.Body)
	return buf.Bytes(), nil
}

// Set assigns a frontmatter field, creating the block if absent.
func (d *Document) Set(key string, value any) {
	if d.Meta == nil {
		d.Meta = map[string]any{}
	}
	d.Meta[key] = value
	d.HasMeta = true
}

// String returns the value of a string-typed field, or "" when absent or of
// another type.
func (d *Document) String(key string) string {
	if s, ok := d.Meta[key].(string); ok {
		return s
	}
	return ""
}

func split(content []byte) (meta, body []byte, has bool, err error) {
	trimmed := normalizeNewlines(content)
	open := append(append([]byte{}, delimiter...), '\n')
	if !bytes.HasPrefix(trimmed, open) {
		return nil, trimmed, false, nil
	}

	rest := trimmed[len(open):]

	// Empty block: `---\n---\n`.
	if bytes.HasPrefix(rest, open) {
		return nil, rest[len(open):], true, nil
	}

	closeSeq := []byte("\n---\n")
	idx := bytes.Index(rest, closeSeq)
	if idx < 0 {
		// Closing delimiter at EOF without a trailing newline still counts.
		if tail := []byte("\n---"); bytes.HasSuffix(rest, tail) {
			return rest[:len(rest)-len(tail)+1], nil, true, nil
		}
		return nil, nil, false, ErrUnclosed
	}

	meta = rest[:idx+1]
	body = rest[idx+len(closeSeq):]
	return meta, body, true, nil
}

// normalizeNewlines converts CRLF line endings to LF. Lesson files are
// rewritten with LF regardless of origin.
func normalizeNewlines(content []byte) []byte {
	if !bytes.Contains(content, []byte{'\r'}) {
		return content
	}
	out := bytes.ReplaceAll(content, []byte("\r\n"), []byte("\n"))
	return bytes.ReplaceAll(out, []byte{'\r'}, []byte{'\n'})
}
