package config

import (
	"errors"
	"fmt"
	"strings"
	"time"
	_ "time/tzdata"

	"github.com/spf13/viper"
)

// AppConfig holds application-level settings.
type AppConfig struct {
	LogLevel     string `mapstructure:"log_level"`
	SyncInterval string `mapstructure:"sync_interval"` // duration string used by serve, e.g., "10m"
}

// NotionConfig holds the remote database connection and its property names.
type NotionConfig struct {
	Token      string `mapstructure:"token"`
	DatabaseID string `mapstructure:"database_id"`
	BaseURL    string `mapstructure:"base_url"`
	Version    string `mapstructure:"version"`
	PageSize   int    `mapstructure:"page_size"`

	TitleKeys             []string `mapstructure:"title_keys"`
	DateProp              string   `mapstructure:"date_prop"`
	DeployProp            string   `mapstructure:"deploy_prop"`
	TagProp               string   `mapstructure:"tag_prop"`
	CategoryPrimaryProp   string   `mapstructure:"category_primary_prop"`
	CategorySecondaryProp string   `mapstructure:"category_secondary_prop"`
}

// SiteConfig controls where posts and assets land.
type SiteConfig struct {
	Timezone      string `mapstructure:"timezone"`
	PostsDir      string `mapstructure:"posts_dir"`
	AssetDir      string `mapstructure:"asset_dir"` // repo relative
	DownloadCover bool   `mapstructure:"download_cover"`
	ConvertWebP   bool   `mapstructure:"convert_webp"`
	WebPQuality   int    `mapstructure:"webp_quality"`
	UserAgent     string `mapstructure:"user_agent"`
}

// RedisConfig holds redis connection settings. An empty Addr disables the sync ledger.
type RedisConfig struct {
	Addr     string `mapstructure:"addr"`
	Username string `mapstructure:"username"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
}

// OpenAIConfig enables optional description generation when APIKey is set.
type OpenAIConfig struct {
	APIKey   string `mapstructure:"api_key"`
	Model    string `mapstructure:"model"`
	BaseURL  string `mapstructure:"base_url"`
	Language string `mapstructure:"language"`
}

// Config is the top-level configuration structure.
type Config struct {
	App    AppConfig    `mapstructure:"app"`
	Notion NotionConfig `mapstructure:"notion"`
	Site   SiteConfig   `mapstructure:"site"`
	Redis  RedisConfig  `mapstructure:"redis"`
	OpenAI OpenAIConfig `mapstructure:"openai"`
}

// envBindings maps config keys to the environment variables that set them.
var envBindings = map[string]string{
	"app.log_level":                  "LOG_LEVEL",
	"app.sync_interval":              "SYNC_INTERVAL",
	"notion.token":                   "NOTION_TOKEN",
	"notion.database_id":             "NOTION_DATABASE_ID",
	"notion.base_url":                "NOTION_BASE_URL",
	"notion.version":                 "NOTION_VERSION",
	"notion.page_size":               "NOTION_PAGE_SIZE",
	"notion.title_keys":              "TITLE_KEYS",
	"notion.date_prop":               "DATE_PROP",
	"notion.deploy_prop":             "DEPLOY_PROP",
	"notion.tag_prop":                "TAG_PROP",
	"notion.category_primary_prop":   "CATEGORY_PRIMARY_PROP",
	"notion.category_secondary_prop": "CATEGORY_SECONDARY_PROP",
	"site.timezone":                  "TIMEZONE",
	"site.posts_dir":                 "POSTS_DIR",
	"site.asset_dir":                 "ASSET_DIR",
	"site.download_cover":            "DOWNLOAD_COVER",
	"site.convert_webp":              "CONVERT_WEBP",
	"site.webp_quality":              "WEBP_QUALITY",
	"site.user_agent":                "USER_AGENT",
	"redis.addr":                     "REDIS_ADDR",
	"redis.username":                 "REDIS_USERNAME",
	"redis.password":                 "REDIS_PASSWORD",
	"redis.db":                       "REDIS_DB",
	"openai.api_key":                 "OPENAI_API_KEY",
	"openai.model":                   "OPENAI_MODEL",
	"openai.base_url":                "OPENAI_BASE_URL",
	"openai.language":                "DESCRIPTION_LANGUAGE",
}

// Bind registers environment variable names and the defaults that a zero
// value cannot express (booleans that default to true).
func Bind(v *viper.Viper) error {
	for key, env := range envBindings {
		if err := v.BindEnv(key, env); err != nil {
			return fmt.Errorf("bind %s: %w", env, err)
		}
	}
	v.SetDefault("site.download_cover", true)
	return nil
}

// FillDefaults applies default values if not provided.
func (c *Config) FillDefaults() {
	if c.App.LogLevel == "" {
		c.App.LogLevel = "info"
	}
	if c.App.SyncInterval == "" {
		c.App.SyncInterval = "10m"
	}
	if c.Notion.BaseURL == "" {
		c.Notion.BaseURL = "https://api.notion.com/v1"
	}
	if c.Notion.Version == "" {
		c.Notion.Version = "2022-06-28"
	}
	if c.Notion.PageSize <= 0 || c.Notion.PageSize > 100 {
		c.Notion.PageSize = 50
	}
	c.Notion.TitleKeys = splitKeys(c.Notion.TitleKeys)
	if len(c.Notion.TitleKeys) == 0 {
		c.Notion.TitleKeys = []string{"제목", "Title", "Name"}
	}
	if c.Notion.DateProp == "" {
		c.Notion.DateProp = "생성일"
	}
	if c.Notion.DeployProp == "" {
		c.Notion.DeployProp = "배포"
	}
	if c.Notion.TagProp == "" {
		c.Notion.TagProp = "태그"
	}
	if c.Notion.CategoryPrimaryProp == "" {
		c.Notion.CategoryPrimaryProp = "카테고리"
	}
	if c.Notion.CategorySecondaryProp == "" {
		c.Notion.CategorySecondaryProp = "분류"
	}
	if c.Site.Timezone == "" {
		c.Site.Timezone = "Asia/Seoul"
	}
	if c.Site.PostsDir == "" {
		c.Site.PostsDir = "_posts"
	}
	if c.Site.AssetDir == "" {
		c.Site.AssetDir = "assets/img/for_post"
	}
	if c.Site.WebPQuality <= 0 || c.Site.WebPQuality > 100 {
		c.Site.WebPQuality = 85
	}
	if c.Site.UserAgent == "" {
		c.Site.UserAgent = "Mozilla/5.0 NotionSync"
	}
	if c.OpenAI.Model == "" {
		c.OpenAI.Model = "gpt-4o-mini"
	}
}

// Validate reports missing credentials. It never touches the network.
func (c Config) Validate() error {
	if strings.TrimSpace(c.Notion.Token) == "" || strings.TrimSpace(c.Notion.DatabaseID) == "" {
		return errors.New("NOTION_TOKEN or NOTION_DATABASE_ID is missing")
	}
	return nil
}

// Location resolves the configured timezone.
func (c Config) Location() (*time.Location, error) {
	loc, err := time.LoadLocation(c.Site.Timezone)
	if err != nil {
		return nil, fmt.Errorf("load timezone %q: %w", c.Site.Timezone, err)
	}
	return loc, nil
}

// splitKeys trims entries and splits any comma-joined values, keeping order.
func splitKeys(in []string) []string {
	out := make([]string, 0, len(in))
	for _, raw := range in {
		for _, k := range strings.Split(raw, ",") {
			if k = strings.TrimSpace(k); k != "" {
				out = append(out, k)
			}
		}
	}
	return out
}
