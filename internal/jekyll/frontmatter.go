package jekyll

import (
	"bytes"
	"strings"

	"gopkg.in/yaml.v3"
)

// ImgPathToken prefixes body image references; the site resolves it against
// the post's img_path.
const ImgPathToken = "{{ page.img_path }}"

// Image is the cover image entry of a post.
type Image struct {
	Path string `yaml:"path"`
	Alt  string `yaml:"alt"`
}

// FrontMatter is the ordered header of a synced post. Empty fields are omitted.
type FrontMatter struct {
	Title            string   `yaml:"title,omitempty"`
	Date             string   `yaml:"date,omitempty"`
	ImgPath          string   `yaml:"img_path,omitempty"`
	Image            *Image   `yaml:"image,omitempty"`
	Categories       []string `yaml:"categories,omitempty"`
	Tags             []string `yaml:"tags,omitempty"`
	Description      string   `yaml:"description,omitempty"`
	NotionID         string   `yaml:"notion_id,omitempty"`
	NotionLastEdited string   `yaml:"notion_last_edited,omitempty"`
}

// prune blanks whitespace-only strings and drops empty lists so omitempty
// removes them.
func (fm FrontMatter) prune() FrontMatter {
	blank := func(s string) string {
		if strings.TrimSpace(s) == "" {
			return ""
		}
		return s
	}
	fm.Title = blank(fm.Title)
	fm.Date = blank(fm.Date)
	fm.ImgPath = blank(fm.ImgPath)
	fm.Description = blank(fm.Description)
	fm.NotionID = blank(fm.NotionID)
	fm.NotionLastEdited = blank(fm.NotionLastEdited)
	if len(fm.Categories) == 0 {
		fm.Categories = nil
	}
	if len(fm.Tags) == 0 {
		fm.Tags = nil
	}
	if fm.Image != nil && strings.TrimSpace(fm.Image.Path) == "" {
		fm.Image = nil
	}
	return fm
}

// Render serialises front matter and body as
// "---\n<yaml>---\n\n<body>\n".
func Render(fm FrontMatter, body string) (string, error) {
	var buf bytes.Buffer
	buf.WriteString("---\n")
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(fm.prune()); err != nil {
		return "", err
	}
	if err := enc.Close(); err != nil {
		return "", err
	}
	buf.WriteString("---\n\n")
	buf.WriteString(body)
	buf.WriteString("\n")
	return buf.String(), nil
}
