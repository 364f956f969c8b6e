package model

import "time"

// Entry is the normalized form of a remote page that feeds the write stages.
type Entry struct {
	PageID     string    `json:"page_id"`
	Title      string    `json:"title"`
	Slug       string    `json:"slug"`
	Date       time.Time `json:"date"` // in the configured timezone
	Categories []string  `json:"categories,omitempty"`
	Tags       []string  `json:"tags,omitempty"`
	CoverURL   string    `json:"cover_url,omitempty"`
	LastEdited string    `json:"last_edited"`
}

// Year is the asset directory segment for the entry.
func (e Entry) Year() string {
	return e.Date.Format("2006")
}

// FileDate is the sortable date used in post filenames.
func (e Entry) FileDate() string {
	return e.Date.Format("2006-01-02")
}

// CompactDate prefixes downloaded body images.
func (e Entry) CompactDate() string {
	return e.Date.Format("20060102")
}

// DisplayDate is the timezone-qualified date written into front matter.
func (e Entry) DisplayDate() string {
	return e.Date.Format("2006-01-02 15:04:05 -0700")
}

// FileName is the default post filename, YYYY-MM-DD-slug.md.
func (e Entry) FileName() string {
	return e.FileDate() + "-" + e.Slug + ".md"
}

// SyncRecord is what the ledger remembers about the last sync of a page.
type SyncRecord struct {
	PageID     string    `json:"page_id"`
	Path       string    `json:"path"`
	LastEdited string    `json:"last_edited"`
	Written    bool      `json:"written"`
	FlagReset  bool      `json:"flag_reset"`
	SyncedAt   time.Time `json:"synced_at"`
}
