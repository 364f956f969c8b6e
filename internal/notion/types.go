package notion

import "strings"

// RichText is a single run of formatted text.
type RichText struct {
	Type        string       `json:"type"`
	PlainText   string       `json:"plain_text"`
	Href        string       `json:"href"`
	Annotations Annotations  `json:"annotations"`
	Equation    *EquationRef `json:"equation,omitempty"`
}

// Annotations are the style flags of a rich text run.
type Annotations struct {
	Bold          bool `json:"bold"`
	Italic        bool `json:"italic"`
	Strikethrough bool `json:"strikethrough"`
	Underline     bool `json:"underline"`
	Code          bool `json:"code"`
}

type EquationRef struct {
	Expression string `json:"expression"`
}

// SelectOption is a select or multi-select choice.
type SelectOption struct {
	Name string `json:"name"`
}

// DateValue is the payload of a date property.
type DateValue struct {
	Start string `json:"start"`
	End   string `json:"end"`
}

// Property mirrors the subset of property types this tool reads.
type Property struct {
	Type        string         `json:"type"`
	Title       []RichText     `json:"title,omitempty"`
	RichText    []RichText     `json:"rich_text,omitempty"`
	Date        *DateValue     `json:"date,omitempty"`
	Checkbox    bool           `json:"checkbox"`
	Select      *SelectOption  `json:"select,omitempty"`
	MultiSelect []SelectOption `json:"multi_select,omitempty"`
}

// FileRef is either a Notion-hosted file or an external link.
type FileRef struct {
	Type     string  `json:"type"`
	File     *URLRef `json:"file,omitempty"`
	External *URLRef `json:"external,omitempty"`
	Name     string  `json:"name,omitempty"`
}

type URLRef struct {
	URL string `json:"url"`
}

// URL returns the hosted or external URL, whichever is set.
func (f *FileRef) URL() string {
	if f == nil {
		return ""
	}
	if f.File != nil && f.File.URL != "" {
		return f.File.URL
	}
	if f.External != nil {
		return f.External.URL
	}
	return ""
}

// Page is a database row.
type Page struct {
	ID             string              `json:"id"`
	CreatedTime    string              `json:"created_time"`
	LastEditedTime string              `json:"last_edited_time"`
	Cover          *FileRef            `json:"cover"`
	Properties     map[string]Property `json:"properties"`
	URL            string              `json:"url"`
}

// PlainText joins the plain text of all runs and trims the result.
func PlainText(runs []RichText) string {
	var b strings.Builder
	for _, r := range runs {
		b.WriteString(r.PlainText)
	}
	return strings.TrimSpace(b.String())
}

// SelectNames returns the names from a multi-select, or the single select value.
func SelectNames(props map[string]Property, name string) []string {
	p, ok := props[name]
	if !ok {
		return nil
	}
	if len(p.MultiSelect) > 0 {
		out := make([]string, 0, len(p.MultiSelect))
		for _, o := range p.MultiSelect {
			out = append(out, o.Name)
		}
		return out
	}
	if p.Select != nil && p.Select.Name != "" {
		return []string{p.Select.Name}
	}
	return nil
}

// Block is a content block. Only the payload matching Type is populated.
type Block struct {
	ID          string `json:"id"`
	Type        string `json:"type"`
	HasChildren bool   `json:"has_children"`

	Paragraph        *TextBlock     `json:"paragraph,omitempty"`
	Heading1         *TextBlock     `json:"heading_1,omitempty"`
	Heading2         *TextBlock     `json:"heading_2,omitempty"`
	Heading3         *TextBlock     `json:"heading_3,omitempty"`
	BulletedListItem *TextBlock     `json:"bulleted_list_item,omitempty"`
	NumberedListItem *TextBlock     `json:"numbered_list_item,omitempty"`
	ToDo             *TextBlock     `json:"to_do,omitempty"`
	Quote            *TextBlock     `json:"quote,omitempty"`
	Callout          *TextBlock     `json:"callout,omitempty"`
	Toggle           *TextBlock     `json:"toggle,omitempty"`
	Code             *TextBlock     `json:"code,omitempty"`
	Equation         *EquationRef   `json:"equation,omitempty"`
	Image            *MediaBlock    `json:"image,omitempty"`
	Video            *MediaBlock    `json:"video,omitempty"`
	File             *MediaBlock    `json:"file,omitempty"`
	PDF              *MediaBlock    `json:"pdf,omitempty"`
	Bookmark         *LinkBlock     `json:"bookmark,omitempty"`
	Embed            *LinkBlock     `json:"embed,omitempty"`
	LinkPreview      *LinkBlock     `json:"link_preview,omitempty"`
	ChildPage        *ChildPage     `json:"child_page,omitempty"`
	TableRow         *TableRowBlock `json:"table_row,omitempty"`
	Table            *TableBlock    `json:"table,omitempty"`

	// Children is filled by the converter, never by the API.
	Children []Block `json:"-"`
}

// TextBlock covers every block whose payload is rich text plus extras.
type TextBlock struct {
	RichText []RichText `json:"rich_text"`
	Checked  bool       `json:"checked"`
	Language string     `json:"language"`
	Icon     *Icon      `json:"icon,omitempty"`
	Caption  []RichText `json:"caption,omitempty"`
}

type Icon struct {
	Type  string `json:"type"`
	Emoji string `json:"emoji"`
}

// MediaBlock is an image, video, file or pdf.
type MediaBlock struct {
	FileRef
	Caption []RichText `json:"caption"`
}

type LinkBlock struct {
	URL     string     `json:"url"`
	Caption []RichText `json:"caption"`
}

type ChildPage struct {
	Title string `json:"title"`
}

type TableBlock struct {
	HasColumnHeader bool `json:"has_column_header"`
}

type TableRowBlock struct {
	Cells [][]RichText `json:"cells"`
}

// text returns the rich-text payload of a block, if any.
func (b Block) text() *TextBlock {
	switch b.Type {
	case "paragraph":
		return b.Paragraph
	case "heading_1":
		return b.Heading1
	case "heading_2":
		return b.Heading2
	case "heading_3":
		return b.Heading3
	case "bulleted_list_item":
		return b.BulletedListItem
	case "numbered_list_item":
		return b.NumberedListItem
	case "to_do":
		return b.ToDo
	case "quote":
		return b.Quote
	case "callout":
		return b.Callout
	case "toggle":
		return b.Toggle
	case "code":
		return b.Code
	}
	return nil
}
