package notion

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/mindungil/n2g/internal/markdown"
)

func text(s string) []RichText {
	return []RichText{{Type: "text", PlainText: s}}
}

func TestRenderMarkdownBlocks(t *testing.T) {
	blocks := []Block{
		{Type: "heading_1", Heading1: &TextBlock{RichText: text("Intro")}},
		{Type: "paragraph", Paragraph: &TextBlock{RichText: []RichText{
			{PlainText: "plain "},
			{PlainText: "bold", Annotations: Annotations{Bold: true}},
			{PlainText: " and "},
			{PlainText: "link", Href: "https://example.com"},
		}}},
		{Type: "bulleted_list_item", BulletedListItem: &TextBlock{RichText: text("one")}},
		{Type: "bulleted_list_item", BulletedListItem: &TextBlock{RichText: text("two")}},
		{Type: "numbered_list_item", NumberedListItem: &TextBlock{RichText: text("first")}},
		{Type: "numbered_list_item", NumberedListItem: &TextBlock{RichText: text("second")}},
		{Type: "code", Code: &TextBlock{RichText: text("fmt.Println(1)"), Language: "go"}},
		{Type: "image", Image: &MediaBlock{
			FileRef: FileRef{Type: "external", External: &URLRef{URL: "https://img.example/a.png"}},
			Caption: text("a cat"),
		}},
		{Type: "divider"},
		{Type: "to_do", ToDo: &TextBlock{RichText: text("done"), Checked: true}},
	}
	want := "# Intro\n\n" +
		"plain **bold** and [link](https://example.com)\n\n" +
		"- one\n- two\n" +
		"1. first\n2. second\n\n" +
		"```go\nfmt.Println(1)\n```\n\n" +
		"![a cat](https://img.example/a.png)\n\n" +
		"---\n\n" +
		"- [x] done"
	if got := RenderMarkdown(blocks); got != want {
		t.Errorf("markdown mismatch.\nwant: %q\n got: %q", want, got)
	}
}

func TestRenderNestedListAndQuote(t *testing.T) {
	blocks := []Block{
		{Type: "bulleted_list_item", BulletedListItem: &TextBlock{RichText: text("parent")}, Children: []Block{
			{Type: "bulleted_list_item", BulletedListItem: &TextBlock{RichText: text("child")}},
		}},
		{Type: "quote", Quote: &TextBlock{RichText: text("line")}},
		{Type: "callout", Callout: &TextBlock{RichText: text("note"), Icon: &Icon{Type: "emoji", Emoji: "💡"}}},
	}
	want := "- parent\n  - child\n\n> line\n\n> 💡 note"
	if got := RenderMarkdown(blocks); got != want {
		t.Errorf("markdown mismatch.\nwant: %q\n got: %q", want, got)
	}
}

func TestRenderToDoChildrenStayInList(t *testing.T) {
	blocks := []Block{
		{Type: "to_do", ToDo: &TextBlock{RichText: text("task")}, Children: []Block{
			{Type: "paragraph", Paragraph: &TextBlock{RichText: text("note")}},
			{Type: "image", Image: &MediaBlock{
				FileRef: FileRef{Type: "external", External: &URLRef{URL: "https://x.test/a.png"}},
			}},
		}},
	}
	got := RenderMarkdown(blocks)
	want := "- [ ] task\n  note\n\n  ![](https://x.test/a.png)"
	if got != want {
		t.Errorf("markdown mismatch.\nwant: %q\n got: %q", want, got)
	}
	// an over-indented child would turn into a code block and hide the image
	imgs := markdown.FindImages(got)
	if len(imgs) != 1 || imgs[0].URL != "https://x.test/a.png" {
		t.Errorf("nested image not found: %+v", imgs)
	}
}

func TestRenderTable(t *testing.T) {
	blocks := []Block{
		{Type: "table", Table: &TableBlock{HasColumnHeader: true}, Children: []Block{
			{Type: "table_row", TableRow: &TableRowBlock{Cells: [][]RichText{text("a"), text("b")}}},
			{Type: "table_row", TableRow: &TableRowBlock{Cells: [][]RichText{text("1"), text("2|3")}}},
		}},
	}
	want := "| a | b |\n| --- | --- |\n| 1 | 2\\|3 |"
	if got := RenderMarkdown(blocks); got != want {
		t.Errorf("markdown mismatch.\nwant: %q\n got: %q", want, got)
	}
}

func TestPageMarkdownFetchesChildren(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/blocks/page/children":
			io.WriteString(w, `{"results":[
				{"id":"b1","type":"paragraph","has_children":false,"paragraph":{"rich_text":[{"type":"text","plain_text":"hello"}]}},
				{"id":"b2","type":"toggle","has_children":true,"toggle":{"rich_text":[{"type":"text","plain_text":"more"}]}}
			],"has_more":false}`)
		case "/blocks/b2/children":
			io.WriteString(w, `{"results":[
				{"id":"b3","type":"image","has_children":false,"image":{"type":"file","file":{"url":"https://s3.example/x.png?sig=1"},"caption":[]}}
			],"has_more":false}`)
		default:
			t.Errorf("unexpected path %s", r.URL.Path)
			w.WriteHeader(http.StatusNotFound)
		}
	}))
	defer srv.Close()

	md, err := New(srv.URL, "tok", "", time.Second).PageMarkdown(context.Background(), "page")
	if err != nil {
		t.Fatalf("PageMarkdown: %v", err)
	}
	want := "hello\n\n<details>\n<summary>more</summary>\n\n![](https://s3.example/x.png?sig=1)\n</details>"
	if md != want {
		t.Errorf("markdown mismatch.\nwant: %q\n got: %q", want, md)
	}
}
