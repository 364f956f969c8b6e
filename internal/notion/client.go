package notion

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// Client is a minimal HTTP client for the Notion API.
type Client struct {
	baseURL  string
	token    string
	version  string
	pageSize int
	http     *http.Client
}

// New creates a new Notion client.
// baseURL should be like "https://api.notion.com/v1" (no trailing slash).
func New(baseURL, token, version string, timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	if strings.TrimSpace(version) == "" {
		version = "2022-06-28"
	}
	return &Client{
		baseURL:  strings.TrimRight(baseURL, "/"),
		token:    token,
		version:  version,
		pageSize: 50,
		http:     &http.Client{Timeout: timeout},
	}
}

// WithPageSize overrides the page size used for database queries.
func (c *Client) WithPageSize(n int) *Client {
	c2 := *c
	if n > 0 && n <= 100 {
		c2.pageSize = n
	}
	return &c2
}

type queryRequest struct {
	StartCursor string      `json:"start_cursor,omitempty"`
	PageSize    int         `json:"page_size"`
	Filter      queryFilter `json:"filter"`
	Sorts       []querySort `json:"sorts"`
}

type queryFilter struct {
	Property string         `json:"property"`
	Checkbox checkboxEquals `json:"checkbox"`
}

type checkboxEquals struct {
	Equals bool `json:"equals"`
}

type querySort struct {
	Timestamp string `json:"timestamp"`
	Direction string `json:"direction"`
}

type pageList struct {
	Results    []Page `json:"results"`
	HasMore    bool   `json:"has_more"`
	NextCursor string `json:"next_cursor"`
}

type blockList struct {
	Results    []Block `json:"results"`
	HasMore    bool    `json:"has_more"`
	NextCursor string  `json:"next_cursor"`
}

// QueryFlagged returns every page of the database whose checkbox property is
// true, most recently edited first. All result pages are collected before returning.
func (c *Client) QueryFlagged(ctx context.Context, databaseID, checkbox string) ([]Page, error) {
	if c == nil {
		return nil, errors.New("nil notion client")
	}
	if strings.TrimSpace(databaseID) == "" {
		return nil, errors.New("empty database id")
	}
	var pages []Page
	cursor := ""
	for {
		body := queryRequest{
			StartCursor: cursor,
			PageSize:    c.pageSize,
			Filter:      queryFilter{Property: checkbox, Checkbox: checkboxEquals{Equals: true}},
			Sorts:       []querySort{{Timestamp: "last_edited_time", Direction: "descending"}},
		}
		var out pageList
		path := "/databases/" + url.PathEscape(databaseID) + "/query"
		if err := c.do(ctx, http.MethodPost, path, body, &out); err != nil {
			return nil, fmt.Errorf("query database: %w", err)
		}
		pages = append(pages, out.Results...)
		if !out.HasMore || out.NextCursor == "" {
			break
		}
		cursor = out.NextCursor
	}
	return pages, nil
}

// RetrievePage fetches a page with its full property set.
func (c *Client) RetrievePage(ctx context.Context, pageID string) (Page, error) {
	var p Page
	if c == nil {
		return p, errors.New("nil notion client")
	}
	if strings.TrimSpace(pageID) == "" {
		return p, errors.New("empty page id")
	}
	if err := c.do(ctx, http.MethodGet, "/pages/"+url.PathEscape(pageID), nil, &p); err != nil {
		return p, fmt.Errorf("retrieve page %s: %w", pageID, err)
	}
	return p, nil
}

// SetCheckbox updates a single checkbox property of a page.
func (c *Client) SetCheckbox(ctx context.Context, pageID, property string, value bool) error {
	if c == nil {
		return errors.New("nil notion client")
	}
	if strings.TrimSpace(pageID) == "" {
		return errors.New("empty page id")
	}
	body := map[string]any{
		"properties": map[string]any{
			property: map[string]any{"checkbox": value},
		},
	}
	if err := c.do(ctx, http.MethodPatch, "/pages/"+url.PathEscape(pageID), body, nil); err != nil {
		return fmt.Errorf("update page %s: %w", pageID, err)
	}
	return nil
}

// BlockChildren lists the direct children of a block or page, following pagination.
func (c *Client) BlockChildren(ctx context.Context, blockID string) ([]Block, error) {
	if c == nil {
		return nil, errors.New("nil notion client")
	}
	var blocks []Block
	cursor := ""
	for {
		q := url.Values{"page_size": {"100"}}
		if cursor != "" {
			q.Set("start_cursor", cursor)
		}
		var out blockList
		path := "/blocks/" + url.PathEscape(blockID) + "/children?" + q.Encode()
		if err := c.do(ctx, http.MethodGet, path, nil, &out); err != nil {
			return nil, fmt.Errorf("list children of %s: %w", blockID, err)
		}
		blocks = append(blocks, out.Results...)
		if !out.HasMore || out.NextCursor == "" {
			break
		}
		cursor = out.NextCursor
	}
	return blocks, nil
}

func (c *Client) do(ctx context.Context, method, path string, in, out any) error {
	var body io.Reader = http.NoBody
	if in != nil {
		b, err := json.Marshal(in)
		if err != nil {
			return err
		}
		body = bytes.NewReader(b)
	}
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return err
	}
	req.Header.Set("Authorization", "Bearer "+c.token)
	req.Header.Set("Notion-Version", c.version)
	req.Header.Set("Content-Type", "application/json")
	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		b, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("notion: status=%d body=%s", resp.StatusCode, string(b))
	}
	if out == nil {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}
	return json.NewDecoder(resp.Body).Decode(out)
}
