package notion

import (
	"context"
	"fmt"
	"strings"
)

// PageMarkdown fetches the block tree of a page and renders it as markdown.
func (c *Client) PageMarkdown(ctx context.Context, pageID string) (string, error) {
	blocks, err := c.blockTree(ctx, pageID)
	if err != nil {
		return "", err
	}
	return RenderMarkdown(blocks), nil
}

func (c *Client) blockTree(ctx context.Context, id string) ([]Block, error) {
	blocks, err := c.BlockChildren(ctx, id)
	if err != nil {
		return nil, err
	}
	for i := range blocks {
		b := &blocks[i]
		// sub pages are separate documents
		if !b.HasChildren || b.Type == "child_page" || b.Type == "child_database" {
			continue
		}
		kids, err := c.blockTree(ctx, b.ID)
		if err != nil {
			return nil, err
		}
		b.Children = kids
	}
	return blocks, nil
}

// RenderMarkdown converts a block tree into markdown text.
func RenderMarkdown(blocks []Block) string {
	var b strings.Builder
	number := 0
	prev := ""
	for _, blk := range blocks {
		if blk.Type == "numbered_list_item" {
			number++
		} else {
			number = 0
		}
		chunk := renderBlock(blk, number)
		if chunk == "" {
			continue
		}
		if b.Len() > 0 {
			if isListItem(prev) && isListItem(blk.Type) {
				b.WriteString("\n")
			} else {
				b.WriteString("\n\n")
			}
		}
		b.WriteString(chunk)
		prev = blk.Type
	}
	return b.String()
}

func isListItem(t string) bool {
	return t == "bulleted_list_item" || t == "numbered_list_item" || t == "to_do"
}

func renderBlock(blk Block, number int) string {
	children := ""
	if len(blk.Children) > 0 && blk.Type != "table" {
		children = RenderMarkdown(blk.Children)
	}
	tb := blk.text()
	switch blk.Type {
	case "paragraph":
		return joinParts(renderRich(tb), children)
	case "heading_1":
		return joinParts("# "+renderRich(tb), children)
	case "heading_2":
		return joinParts("## "+renderRich(tb), children)
	case "heading_3":
		return joinParts("### "+renderRich(tb), children)
	case "bulleted_list_item":
		return listItem("- ", renderRich(tb), children)
	case "numbered_list_item":
		return listItem(fmt.Sprintf("%d. ", number), renderRich(tb), children)
	case "to_do":
		// children align with the list content, not the checkbox
		box := "[ ] "
		if tb != nil && tb.Checked {
			box = "[x] "
		}
		return listItem("- ", box+renderRich(tb), children)
	case "quote":
		return prefixLines("> ", joinParts(renderRich(tb), children))
	case "callout":
		text := renderRich(tb)
		if tb != nil && tb.Icon != nil && tb.Icon.Emoji != "" {
			text = tb.Icon.Emoji + " " + text
		}
		return prefixLines("> ", joinParts(text, children))
	case "toggle":
		return "<details>\n<summary>" + renderRich(tb) + "</summary>\n\n" + children + "\n</details>"
	case "code":
		lang := ""
		if tb != nil && tb.Language != "plain text" {
			lang = tb.Language
		}
		code := ""
		if tb != nil {
			code = rawText(tb.RichText)
		}
		return "```" + lang + "\n" + code + "\n```"
	case "equation":
		if blk.Equation == nil {
			return ""
		}
		return "$$\n" + blk.Equation.Expression + "\n$$"
	case "divider":
		return "---"
	case "image":
		if blk.Image == nil || blk.Image.URL() == "" {
			return ""
		}
		return "![" + rawText(blk.Image.Caption) + "](" + blk.Image.URL() + ")"
	case "video", "file", "pdf":
		m := mediaOf(blk)
		if m == nil || m.URL() == "" {
			return ""
		}
		label := firstNonEmpty(rawText(m.Caption), m.Name, blk.Type)
		return "[" + label + "](" + m.URL() + ")"
	case "bookmark", "embed", "link_preview":
		l := linkOf(blk)
		if l == nil || l.URL == "" {
			return ""
		}
		return "[" + firstNonEmpty(rawText(l.Caption), l.URL) + "](" + l.URL + ")"
	case "child_page":
		if blk.ChildPage == nil {
			return ""
		}
		return "**" + blk.ChildPage.Title + "**"
	case "table":
		return renderTable(blk)
	default:
		// column_list, column, synced_block and unknown containers
		return children
	}
}

func mediaOf(blk Block) *MediaBlock {
	switch blk.Type {
	case "video":
		return blk.Video
	case "file":
		return blk.File
	case "pdf":
		return blk.PDF
	}
	return nil
}

func linkOf(blk Block) *LinkBlock {
	switch blk.Type {
	case "bookmark":
		return blk.Bookmark
	case "embed":
		return blk.Embed
	case "link_preview":
		return blk.LinkPreview
	}
	return nil
}

func renderTable(blk Block) string {
	var rows []string
	for i, row := range blk.Children {
		if row.TableRow == nil {
			continue
		}
		cells := make([]string, 0, len(row.TableRow.Cells))
		for _, cell := range row.TableRow.Cells {
			cells = append(cells, strings.ReplaceAll(renderRichRuns(cell), "|", "\\|"))
		}
		rows = append(rows, "| "+strings.Join(cells, " | ")+" |")
		if i == 0 {
			sep := make([]string, len(cells))
			for j := range sep {
				sep[j] = "---"
			}
			rows = append(rows, "| "+strings.Join(sep, " | ")+" |")
		}
	}
	return strings.Join(rows, "\n")
}

func listItem(marker, text, children string) string {
	if children == "" {
		return marker + text
	}
	return marker + text + "\n" + indent(children, len(marker))
}

func joinParts(text, children string) string {
	if children == "" {
		return text
	}
	if text == "" {
		return children
	}
	return text + "\n\n" + children
}

func indent(s string, n int) string {
	pad := strings.Repeat(" ", n)
	lines := strings.Split(s, "\n")
	for i, l := range lines {
		if l != "" {
			lines[i] = pad + l
		}
	}
	return strings.Join(lines, "\n")
}

func prefixLines(prefix, s string) string {
	lines := strings.Split(s, "\n")
	for i, l := range lines {
		if l == "" {
			lines[i] = strings.TrimRight(prefix, " ")
			continue
		}
		lines[i] = prefix + l
	}
	return strings.Join(lines, "\n")
}

func renderRich(tb *TextBlock) string {
	if tb == nil {
		return ""
	}
	return renderRichRuns(tb.RichText)
}

func renderRichRuns(runs []RichText) string {
	var b strings.Builder
	for _, r := range runs {
		b.WriteString(renderRun(r))
	}
	return b.String()
}

// rawText concatenates runs without markdown decoration.
func rawText(runs []RichText) string {
	var b strings.Builder
	for _, r := range runs {
		b.WriteString(r.PlainText)
	}
	return b.String()
}

func renderRun(r RichText) string {
	if r.Type == "equation" && r.Equation != nil {
		return "$" + r.Equation.Expression + "$"
	}
	s := r.PlainText
	if strings.TrimSpace(s) == "" {
		return s
	}
	core := strings.TrimSpace(s)
	lead := s[:strings.Index(s, core)]
	trail := s[len(lead)+len(core):]
	a := r.Annotations
	if a.Code {
		core = "`" + core + "`"
	}
	if a.Bold {
		core = "**" + core + "**"
	}
	if a.Italic {
		core = "_" + core + "_"
	}
	if a.Strikethrough {
		core = "~~" + core + "~~"
	}
	if r.Href != "" {
		core = "[" + core + "](" + r.Href + ")"
	}
	return lead + core + trail
}

func firstNonEmpty(vals ...string) string {
	for _, v := range vals {
		if strings.TrimSpace(v) != "" {
			return v
		}
	}
	return ""
}
