package post

import (
	"fmt"
	"strings"
	"time"

	"github.com/mindungil/n2g/internal/config"
	"github.com/mindungil/n2g/internal/model"
	"github.com/mindungil/n2g/internal/notion"
)

// DefaultTitle is used when no title property carries text.
const DefaultTitle = "Untitled"

// Rules names the properties each entry field is read from.
type Rules struct {
	TitleKeys             []string
	DateProp              string
	TagProp               string
	CategoryPrimaryProp   string
	CategorySecondaryProp string
	Location              *time.Location
}

// RulesFromConfig builds derivation rules from the loaded configuration.
func RulesFromConfig(c config.Config, loc *time.Location) Rules {
	return Rules{
		TitleKeys:             c.Notion.TitleKeys,
		DateProp:              c.Notion.DateProp,
		TagProp:               c.Notion.TagProp,
		CategoryPrimaryProp:   c.Notion.CategoryPrimaryProp,
		CategorySecondaryProp: c.Notion.CategorySecondaryProp,
		Location:              loc,
	}
}

// FromPage normalizes a retrieved page. Missing optional fields never fail;
// a date that cannot be parsed does.
func FromPage(p notion.Page, r Rules) (model.Entry, error) {
	loc := r.Location
	if loc == nil {
		loc = time.UTC
	}
	title := Title(p.Properties, r.TitleKeys)

	rawDate := p.CreatedTime
	if d, ok := p.Properties[r.DateProp]; ok && d.Date != nil && strings.TrimSpace(d.Date.Start) != "" {
		rawDate = d.Date.Start
	}
	date, err := ParseDate(rawDate, loc)
	if err != nil {
		return model.Entry{}, fmt.Errorf("page %s: %w", p.ID, err)
	}

	slug := Slugify(title)
	if slug == "" {
		slug = fallbackSlug(p.ID)
	}

	primary := notion.SelectNames(p.Properties, r.CategoryPrimaryProp)
	secondary := notion.SelectNames(p.Properties, r.CategorySecondaryProp)
	var cats []string
	if len(primary) > 0 {
		cats = append(cats, primary[0])
	}
	if len(secondary) > 0 {
		cats = append(cats, secondary[0])
	}
	cats = Unique(cats)
	if len(cats) > 2 {
		cats = cats[:2]
	}

	var tags []string
	for _, name := range []string{r.TagProp, "Tags", "Tag"} {
		tags = append(tags, notion.SelectNames(p.Properties, name)...)
	}

	return model.Entry{
		PageID:     p.ID,
		Title:      title,
		Slug:       slug,
		Date:       date,
		Categories: cats,
		Tags:       Unique(tags),
		CoverURL:   p.Cover.URL(),
		LastEdited: p.LastEditedTime,
	}, nil
}

// Title returns the first non-empty title among the candidate properties,
// then "Name" and "Title", then DefaultTitle.
func Title(props map[string]notion.Property, keys []string) string {
	candidates := append(append([]string{}, keys...), "Name", "Title")
	for _, k := range candidates {
		p, ok := props[k]
		if !ok {
			continue
		}
		if t := notion.PlainText(p.Title); t != "" {
			return t
		}
	}
	return DefaultTitle
}

// ParseDate accepts a bare date (midnight in loc) or an RFC 3339 timestamp
// (converted to loc).
func ParseDate(raw string, loc *time.Location) (time.Time, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return time.Time{}, fmt.Errorf("empty date")
	}
	if t, err := time.ParseInLocation("2006-01-02", raw, loc); err == nil {
		return t, nil
	}
	t, err := time.Parse(time.RFC3339Nano, raw)
	if err != nil {
		return time.Time{}, fmt.Errorf("parse date %q: %w", raw, err)
	}
	return t.In(loc), nil
}

// Unique drops empty strings and duplicates, keeping first-seen order.
func Unique(in []string) []string {
	seen := make(map[string]struct{}, len(in))
	out := make([]string, 0, len(in))
	for _, s := range in {
		if s == "" {
			continue
		}
		if _, ok := seen[s]; ok {
			continue
		}
		seen[s] = struct{}{}
		out = append(out, s)
	}
	if len(out) == 0 {
		return nil
	}
	return out
}

func fallbackSlug(pageID string) string {
	id := strings.ReplaceAll(pageID, "-", "")
	if id == "" {
		return "post"
	}
	if len(id) > 8 {
		id = id[:8]
	}
	return "post-" + strings.ToLower(id)
}
