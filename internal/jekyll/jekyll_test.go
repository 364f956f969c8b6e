package jekyll

import (
	"os"
	"path/filepath"
	"testing"
)

func TestRenderHelloWorld(t *testing.T) {
	out, err := Render(FrontMatter{
		Title:            "Hello, World!",
		Date:             "2024-01-02 00:00:00 +0900",
		ImgPath:          "/assets/img/for_post/2024/hello-world/",
		Categories:       []string{},
		Tags:             nil,
		Description:      "   ",
		NotionID:         "abc",
		NotionLastEdited: "2024-01-03T00:00:00.000Z",
	}, "Body text")
	if err != nil {
		t.Fatalf("Render: %v", err)
	}
	want := "---\n" +
		"title: Hello, World!\n" +
		"date: 2024-01-02 00:00:00 +0900\n" +
		"img_path: /assets/img/for_post/2024/hello-world/\n" +
		"notion_id: abc\n" +
		"notion_last_edited: \"2024-01-03T00:00:00.000Z\"\n" +
		"---\n\n" +
		"Body text\n"
	if out != want {
		t.Errorf("render mismatch.\nwant: %q\n got: %q", want, out)
	}
}

func TestRenderImageAndLists(t *testing.T) {
	out, err := Render(FrontMatter{
		Title:      "T",
		Image:      &Image{Path: "cover.png", Alt: ""},
		Categories: []string{"Dev", "Blog"},
		Tags:       []string{"go"},
		NotionID:   "abc",
	}, "")
	if err != nil {
		t.Fatalf("Render: %v", err)
	}
	want := "---\n" +
		"title: T\n" +
		"image:\n" +
		"  path: cover.png\n" +
		"  alt: \"\"\n" +
		"categories:\n" +
		"  - Dev\n" +
		"  - Blog\n" +
		"tags:\n" +
		"  - go\n" +
		"notion_id: abc\n" +
		"---\n\n\n"
	if out != want {
		t.Errorf("render mismatch.\nwant: %q\n got: %q", want, out)
	}
}

func TestRenderDropsBlankImage(t *testing.T) {
	out, err := Render(FrontMatter{Title: "T", Image: &Image{Path: " "}, NotionID: "x"}, "b")
	if err != nil {
		t.Fatalf("Render: %v", err)
	}
	if want := "---\ntitle: T\nnotion_id: x\n---\n\nb\n"; out != want {
		t.Errorf("got %q", out)
	}
}

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	p := filepath.Join(dir, name)
	if err := os.WriteFile(p, []byte(content), 0o644); err != nil {
		t.Fatalf("write %s: %v", name, err)
	}
	return p
}

func TestFindExistingPrefersID(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "2024-01-01-new-title.md", "---\nnotion_id: other\n---\nbody\n")
	want := writeFile(t, dir, "2023-05-05-old-title.md", "---\nnotion_id: page-1\n---\nbody\n")
	writeFile(t, dir, "notes.txt", "notion_id: page-1")

	got, err := FindExisting(dir, "page-1", "new-title")
	if err != nil {
		t.Fatalf("FindExisting: %v", err)
	}
	if got != want {
		t.Errorf("got %q want %q", got, want)
	}
}

func TestFindExistingFallsBackToSlug(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "broken.md", "---\n: [unterminated\n---\n")
	want := writeFile(t, dir, "2022-02-02-hello-world.md", "no front matter\n")

	got, err := FindExisting(dir, "page-1", "hello-world")
	if err != nil {
		t.Fatalf("FindExisting: %v", err)
	}
	if got != want {
		t.Errorf("got %q want %q", got, want)
	}
	// any "-<slug>.md" suffix matches, the date prefix is ignored
	got, err = FindExisting(dir, "page-1", "world")
	if err != nil || got != want {
		t.Errorf("suffix match: got %q %v", got, err)
	}
	got, err = FindExisting(dir, "page-1", "goodbye")
	if err != nil || got != "" {
		t.Errorf("expected no match, got %q %v", got, err)
	}
}

func TestFindExistingMissingDir(t *testing.T) {
	got, err := FindExisting(filepath.Join(t.TempDir(), "nope"), "p", "s")
	if err != nil || got != "" {
		t.Fatalf("got %q %v", got, err)
	}
}

func TestWriteIfChanged(t *testing.T) {
	target := filepath.Join(t.TempDir(), "posts", "a.md")
	wrote, err := WriteIfChanged(target, "one")
	if err != nil || !wrote {
		t.Fatalf("first write: %v %v", wrote, err)
	}
	wrote, err = WriteIfChanged(target, "one")
	if err != nil || wrote {
		t.Fatalf("identical write should be skipped: %v %v", wrote, err)
	}
	wrote, err = WriteIfChanged(target, "two")
	if err != nil || !wrote {
		t.Fatalf("changed write: %v %v", wrote, err)
	}
}

func TestImgPathAndAssetDir(t *testing.T) {
	if got := ImgPath("assets/img/for_post", "2024", "hello"); got != "/assets/img/for_post/2024/hello/" {
		t.Errorf("ImgPath: %q", got)
	}
	dir, ok := AssetDirFor("/assets/img/for_post/2023/old-slug/", "assets/img/for_post")
	if !ok || dir != filepath.Join("assets/img/for_post", "2023", "old-slug") {
		t.Errorf("AssetDirFor: %q %v", dir, ok)
	}
	if _, ok := AssetDirFor("/images/elsewhere/", "assets/img/for_post"); ok {
		t.Errorf("expected outside path to be rejected")
	}
	if _, ok := AssetDirFor("/assets/img/for_post/../../etc/", "assets/img/for_post"); ok {
		t.Errorf("expected traversal to be rejected")
	}
}
