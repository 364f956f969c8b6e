package syncer

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"regexp"
	"strings"
	"time"

	"github.com/mindungil/n2g/internal/jekyll"
	"github.com/mindungil/n2g/internal/markdown"
	"github.com/mindungil/n2g/internal/model"
	"github.com/mindungil/n2g/internal/notion"
	"github.com/mindungil/n2g/internal/post"
)

// Source is the remote side of a sync run.
type Source interface {
	QueryFlagged(ctx context.Context, databaseID, checkbox string) ([]notion.Page, error)
	RetrievePage(ctx context.Context, pageID string) (notion.Page, error)
	PageMarkdown(ctx context.Context, pageID string) (string, error)
	SetCheckbox(ctx context.Context, pageID, property string, value bool) error
}

// ImageSaver stores a remote image in dir and returns the saved filename,
// or "" when nothing could be fetched.
type ImageSaver interface {
	Save(ctx context.Context, rawURL, dir, hint string) (string, error)
}

// Ledger remembers the outcome of each page sync.
type Ledger interface {
	Record(ctx context.Context, rec model.SyncRecord) error
}

// Describer writes a short description for a post.
type Describer interface {
	Describe(ctx context.Context, title, body, language string) (string, error)
}

// Options carries the parts of the configuration the pipeline needs.
type Options struct {
	DatabaseID    string
	DeployProp    string
	PostsDir      string
	AssetDir      string
	DownloadCover bool
	Language      string
	Rules         post.Rules
}

// Report summarises a run.
type Report struct {
	Pages        int
	Updated      int
	Unchanged    int
	FlagFailures int
}

// Syncer drives one page at a time from the remote database into posts.
type Syncer struct {
	src       Source
	images    ImageSaver
	opts      Options
	ledger    Ledger
	describer Describer
	now       func() time.Time
}

// New creates a Syncer. Ledger and describer are optional.
func New(src Source, images ImageSaver, opts Options) *Syncer {
	return &Syncer{src: src, images: images, opts: opts, now: time.Now}
}

// WithLedger attaches a ledger that receives a record per processed page.
func (s *Syncer) WithLedger(l Ledger) *Syncer {
	s.ledger = l
	return s
}

// WithDescriber enables description generation for posts without one.
func (s *Syncer) WithDescriber(d Describer) *Syncer {
	s.describer = d
	return s
}

// Run syncs every flagged page sequentially. The first unrecoverable error
// stops the run; pages already written stay written.
func (s *Syncer) Run(ctx context.Context) (Report, error) {
	var rep Report
	pages, err := s.src.QueryFlagged(ctx, s.opts.DatabaseID, s.opts.DeployProp)
	if err != nil {
		return rep, fmt.Errorf("query flagged pages: %w", err)
	}
	slog.Info("sync: flagged pages", "count", len(pages))

	for _, p := range pages {
		if err := ctx.Err(); err != nil {
			return rep, err
		}
		res, err := s.SyncPage(ctx, p.ID)
		if err != nil {
			return rep, fmt.Errorf("page %s: %w", p.ID, err)
		}
		rep.Pages++
		if res.Written {
			rep.Updated++
		} else {
			rep.Unchanged++
		}
		if !res.FlagReset {
			rep.FlagFailures++
		}
	}
	slog.Info("sync: done", "updated", rep.Updated, "unchanged", rep.Unchanged, "flag_failures", rep.FlagFailures)
	return rep, nil
}

var absoluteURL = regexp.MustCompile(`(?i)^https?://`)

// SyncPage runs the full pipeline for one page: derive, resolve the existing
// post, fetch assets, rewrite the body, write if changed and clear the flag.
func (s *Syncer) SyncPage(ctx context.Context, pageID string) (model.SyncRecord, error) {
	page, err := s.src.RetrievePage(ctx, pageID)
	if err != nil {
		return model.SyncRecord{}, err
	}
	entry, err := post.FromPage(page, s.opts.Rules)
	if err != nil {
		return model.SyncRecord{}, err
	}
	body, err := s.src.PageMarkdown(ctx, entry.PageID)
	if err != nil {
		return model.SyncRecord{}, fmt.Errorf("convert to markdown: %w", err)
	}

	existing, err := jekyll.FindExisting(s.opts.PostsDir, entry.PageID, entry.Slug)
	if err != nil {
		return model.SyncRecord{}, err
	}
	prev := markdown.Document{}
	if existing != "" {
		if doc, err := markdown.ParseFile(existing); err == nil {
			prev = doc
		} else {
			slog.Warn("sync: existing front matter unreadable", "path", existing, "err", err)
		}
	}

	imgPath := prev.String("img_path", "")
	assetDir := filepath.Join(s.opts.AssetDir, entry.Year(), entry.Slug)
	if imgPath == "" {
		imgPath = jekyll.ImgPath(s.opts.AssetDir, entry.Year(), entry.Slug)
	} else if dir, ok := jekyll.AssetDirFor(imgPath, s.opts.AssetDir); ok {
		assetDir = dir
	}

	var cover *jekyll.Image
	if s.opts.DownloadCover && entry.CoverURL != "" {
		name, err := s.images.Save(ctx, entry.CoverURL, assetDir, "cover")
		if err != nil {
			return model.SyncRecord{}, err
		}
		if name != "" {
			cover = &jekyll.Image{Path: name}
		}
	}

	repl := map[string]string{}
	attempted := map[string]bool{}
	idx := 1
	for _, img := range markdown.FindImages(body) {
		if !absoluteURL.MatchString(img.URL) || attempted[img.URL] {
			continue
		}
		attempted[img.URL] = true
		hint := fmt.Sprintf("%s-%s-%02d", entry.CompactDate(), entry.Slug, idx)
		idx++
		name, err := s.images.Save(ctx, img.URL, assetDir, hint)
		if err != nil {
			return model.SyncRecord{}, err
		}
		if name == "" {
			continue
		}
		repl[img.URL] = jekyll.ImgPathToken + name
		if cover == nil {
			cover = &jekyll.Image{Path: name, Alt: img.Alt}
		}
	}
	body = markdown.ReplaceURLs(body, repl)

	date := prev.String("date", "2006-01-02 15:04:05 -0700")
	if date == "" {
		date = entry.DisplayDate()
	}
	description := prev.String("description", "")
	if description == "" && s.describer != nil {
		d, err := s.describer.Describe(ctx, entry.Title, body, s.opts.Language)
		if err != nil {
			slog.Warn("sync: description failed", "page", entry.PageID, "err", err)
		}
		description = strings.TrimSpace(d)
	}

	content, err := jekyll.Render(jekyll.FrontMatter{
		Title:            entry.Title,
		Date:             date,
		ImgPath:          imgPath,
		Image:            cover,
		Categories:       entry.Categories,
		Tags:             entry.Tags,
		Description:      description,
		NotionID:         entry.PageID,
		NotionLastEdited: entry.LastEdited,
	}, body)
	if err != nil {
		return model.SyncRecord{}, fmt.Errorf("render front matter: %w", err)
	}

	target := existing
	if target == "" {
		target = filepath.Join(s.opts.PostsDir, entry.FileName())
	}
	written, err := jekyll.WriteIfChanged(target, content)
	if err != nil {
		return model.SyncRecord{}, err
	}
	if written {
		slog.Info("sync: updated", "path", target)
	} else {
		slog.Info("sync: no change", "path", target)
	}

	rec := model.SyncRecord{
		PageID:     entry.PageID,
		Path:       target,
		LastEdited: entry.LastEdited,
		Written:    written,
		SyncedAt:   s.now().UTC(),
	}
	if err := s.src.SetCheckbox(ctx, entry.PageID, s.opts.DeployProp, false); err != nil {
		slog.Warn("sync: clearing deploy flag failed", "page", entry.PageID, "err", err)
	} else {
		rec.FlagReset = true
	}

	if s.ledger != nil {
		if err := s.ledger.Record(ctx, rec); err != nil {
			slog.Warn("sync: ledger record failed", "page", entry.PageID, "err", err)
		}
	}
	return rec, nil
}
