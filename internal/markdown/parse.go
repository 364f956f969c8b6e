package markdown

import (
	"bytes"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/adrg/frontmatter"
)

// Document represents a Markdown file with YAML frontmatter.
type Document struct {
	Frontmatter map[string]any
	Body        string
}

// Parse splits raw file content into frontmatter and body.
// Content without a leading "---" block yields empty frontmatter and the
// whole input as body.
func Parse(content []byte) (Document, error) {
	fm := map[string]any{}
	body, err := frontmatter.Parse(bytes.NewReader(content), &fm)
	if err != nil {
		return Document{}, fmt.Errorf("parse frontmatter: %w", err)
	}
	return Document{Frontmatter: fm, Body: string(body)}, nil
}

// ParseFile reads a Markdown file and extracts YAML frontmatter and body.
func ParseFile(path string) (Document, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return Document{}, err
	}
	return Parse(b)
}

// String returns a frontmatter value as a trimmed string. Timestamps decoded
// by the YAML layer are formatted back with layout.
func (d Document) String(key, layout string) string {
	v, ok := d.Frontmatter[key]
	if !ok || v == nil {
		return ""
	}
	switch t := v.(type) {
	case string:
		return strings.TrimSpace(t)
	case time.Time:
		return t.Format(layout)
	default:
		return strings.TrimSpace(fmt.Sprint(t))
	}
}
