package config

import (
	"testing"

	"github.com/spf13/viper"
)

func TestFillDefaults(t *testing.T) {
	var c Config
	c.FillDefaults()
	if c.Site.PostsDir != "_posts" {
		t.Errorf("posts dir: got %q", c.Site.PostsDir)
	}
	if c.Site.AssetDir != "assets/img/for_post" {
		t.Errorf("asset dir: got %q", c.Site.AssetDir)
	}
	if c.Site.Timezone != "Asia/Seoul" {
		t.Errorf("timezone: got %q", c.Site.Timezone)
	}
	if got := c.Notion.TitleKeys; len(got) != 3 || got[0] != "제목" || got[2] != "Name" {
		t.Errorf("title keys: got %v", got)
	}
	if c.Notion.DeployProp != "배포" || c.Notion.DateProp != "생성일" {
		t.Errorf("property names: got %q %q", c.Notion.DeployProp, c.Notion.DateProp)
	}
	if c.Notion.PageSize != 50 {
		t.Errorf("page size: got %d", c.Notion.PageSize)
	}
}

func TestFillDefaultsSplitsTitleKeys(t *testing.T) {
	c := Config{Notion: NotionConfig{TitleKeys: []string{" Name , ,Title"}}}
	c.FillDefaults()
	got := c.Notion.TitleKeys
	if len(got) != 2 || got[0] != "Name" || got[1] != "Title" {
		t.Fatalf("title keys: got %v", got)
	}
}

func TestValidate(t *testing.T) {
	var c Config
	if err := c.Validate(); err == nil {
		t.Fatalf("expected error for missing credentials")
	}
	c.Notion.Token = "secret"
	if err := c.Validate(); err == nil {
		t.Fatalf("expected error for missing database id")
	}
	c.Notion.DatabaseID = "db"
	if err := c.Validate(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestBindReadsEnvironment(t *testing.T) {
	t.Setenv("NOTION_TOKEN", "tok")
	t.Setenv("NOTION_DATABASE_ID", "db")
	t.Setenv("POSTS_DIR", "content/_posts")
	t.Setenv("DOWNLOAD_COVER", "false")

	v := viper.New()
	if err := Bind(v); err != nil {
		t.Fatalf("bind: %v", err)
	}
	var c Config
	if err := v.Unmarshal(&c); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	c.FillDefaults()
	if c.Notion.Token != "tok" || c.Notion.DatabaseID != "db" {
		t.Errorf("credentials not bound: %+v", c.Notion)
	}
	if c.Site.PostsDir != "content/_posts" {
		t.Errorf("posts dir: got %q", c.Site.PostsDir)
	}
	if c.Site.DownloadCover {
		t.Errorf("download cover should be false")
	}
}

func TestDownloadCoverDefaultsTrue(t *testing.T) {
	v := viper.New()
	if err := Bind(v); err != nil {
		t.Fatalf("bind: %v", err)
	}
	var c Config
	if err := v.Unmarshal(&c); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if !c.Site.DownloadCover {
		t.Errorf("download cover should default to true")
	}
}

func TestLocation(t *testing.T) {
	c := Config{Site: SiteConfig{Timezone: "Asia/Seoul"}}
	loc, err := c.Location()
	if err != nil {
		t.Fatalf("location: %v", err)
	}
	if loc.String() != "Asia/Seoul" {
		t.Errorf("got %s", loc)
	}
	c.Site.Timezone = "Nowhere/Invalid"
	if _, err := c.Location(); err == nil {
		t.Errorf("expected error for invalid timezone")
	}
}
