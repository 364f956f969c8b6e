package assets

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"io"
	"log/slog"
	"mime"
	"net/http"
	"net/url"
	"os"
	"path"
	"path/filepath"
	"regexp"
	"strings"
	"time"

	"github.com/chai2010/webp"
)

// Options configures a Fetcher.
type Options struct {
	UserAgent   string
	Timeout     time.Duration
	ConvertWebP bool
	WebPQuality int
}

// Fetcher downloads remote images into post asset directories.
type Fetcher struct {
	http        *http.Client
	userAgent   string
	convertWebP bool
	webPQuality int
}

// NewFetcher creates a Fetcher. Zero options fall back to sane defaults.
func NewFetcher(opts Options) *Fetcher {
	timeout := opts.Timeout
	if timeout <= 0 {
		timeout = 60 * time.Second
	}
	ua := strings.TrimSpace(opts.UserAgent)
	if ua == "" {
		ua = "Mozilla/5.0 NotionSync"
	}
	quality := opts.WebPQuality
	if quality <= 0 || quality > 100 {
		quality = 85
	}
	return &Fetcher{
		http:        &http.Client{Timeout: timeout},
		userAgent:   ua,
		convertWebP: opts.ConvertWebP,
		webPQuality: quality,
	}
}

var (
	unsafeName = regexp.MustCompile(`[^\w.\-]+`)
	urlExt     = regexp.MustCompile(`^[a-z0-9]{2,5}$`)
)

// Save downloads rawURL into dir under a name derived from hint and returns
// the chosen filename. A failed download is logged and reported as an empty
// name with a nil error; only local filesystem failures return an error.
func (f *Fetcher) Save(ctx context.Context, rawURL, dir, hint string) (string, error) {
	if f == nil {
		return "", errors.New("nil fetcher")
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("create asset dir: %w", err)
	}
	ext := ExtFromURL(rawURL)
	data, contentType, err := f.download(ctx, rawURL)
	if err != nil {
		slog.Warn("assets: image download failed", "url", rawURL, "err", err)
		return "", nil
	}
	if ext == "" {
		ext = ExtFromContentType(contentType)
	}
	if ext == "" {
		ext = "png"
	}
	if f.convertWebP && ext != "webp" {
		if converted, ok := f.toWebP(data); ok {
			data, ext = converted, "webp"
		}
	}

	base := SanitizeName(hint)
	if base == "" {
		base = "img"
	}
	name, exists, err := pickName(dir, base, ext, data)
	if err != nil {
		return "", err
	}
	if exists {
		slog.Debug("assets: identical file already present", "dir", dir, "name", name)
		return name, nil
	}
	if err := os.WriteFile(filepath.Join(dir, name), data, 0o644); err != nil {
		return "", fmt.Errorf("write asset: %w", err)
	}
	slog.Info("assets: image saved", "dir", dir, "name", name, "bytes", len(data))
	return name, nil
}

// pickName returns base.ext, or base-NN.ext for the first free slot. A slot
// already holding exactly data is returned with exists=true.
func pickName(dir, base, ext string, data []byte) (string, bool, error) {
	name := base + "." + ext
	for i := 1; ; i++ {
		existing, err := os.ReadFile(filepath.Join(dir, name))
		if errors.Is(err, os.ErrNotExist) {
			return name, false, nil
		}
		if err != nil {
			return "", false, fmt.Errorf("inspect asset: %w", err)
		}
		if bytes.Equal(existing, data) {
			return name, true, nil
		}
		name = fmt.Sprintf("%s-%02d.%s", base, i, ext)
	}
}

func (f *Fetcher) download(ctx context.Context, rawURL string) ([]byte, string, error) {
	u, err := url.Parse(strings.TrimSpace(rawURL))
	if err != nil {
		return nil, "", err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return nil, "", err
	}
	req.Header.Set("User-Agent", f.userAgent)
	resp, err := f.http.Do(req)
	if err != nil {
		return nil, "", err
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, "", fmt.Errorf("fetch failed: status=%d", resp.StatusCode)
	}
	b, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, "", err
	}
	return b, resp.Header.Get("Content-Type"), nil
}

func (f *Fetcher) toWebP(data []byte) ([]byte, bool) {
	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, false
	}
	var buf bytes.Buffer
	if err := webp.Encode(&buf, img, &webp.Options{Quality: float32(f.webPQuality)}); err != nil {
		slog.Warn("assets: webp encode failed, keeping original", "err", err)
		return nil, false
	}
	return buf.Bytes(), true
}

// ExtFromURL returns the lowercase extension of the URL path when it looks
// like a real one (2 to 5 alphanumerics).
func ExtFromURL(rawURL string) string {
	u, err := url.Parse(rawURL)
	if err != nil {
		return ""
	}
	base := path.Base(u.Path)
	dot := strings.LastIndex(base, ".")
	if dot < 0 || dot == len(base)-1 {
		return ""
	}
	ext := strings.ToLower(base[dot+1:])
	if !urlExt.MatchString(ext) {
		return ""
	}
	return ext
}

// ExtFromContentType maps an image/* media type to an extension.
func ExtFromContentType(ct string) string {
	mt, _, err := mime.ParseMediaType(ct)
	if err != nil {
		mt = strings.ToLower(strings.TrimSpace(strings.Split(ct, ";")[0]))
	}
	if !strings.HasPrefix(mt, "image/") {
		return ""
	}
	ext := strings.TrimPrefix(mt, "image/")
	if i := strings.Index(ext, "+"); i > 0 {
		ext = ext[:i]
	}
	if ext == "jpeg" {
		ext = "jpg"
	}
	return ext
}

// SanitizeName replaces runs of characters outside [A-Za-z0-9_.-] with "_".
func SanitizeName(name string) string {
	return unsafeName.ReplaceAllString(name, "_")
}
