package jekyll

import (
	"bytes"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/mindungil/n2g/internal/markdown"
)

// IDKey is the front matter key holding the remote page identifier.
const IDKey = "notion_id"

// FindExisting locates the post previously written for pageID. Files whose
// front matter carries the id win; otherwise the first file named
// "*-<slug>.md" is returned. An empty path means no match.
func FindExisting(postsDir, pageID, slug string) (string, error) {
	entries, err := os.ReadDir(postsDir)
	if errors.Is(err, os.ErrNotExist) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("read posts dir: %w", err)
	}
	var files []string
	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(strings.ToLower(e.Name()), ".md") {
			continue
		}
		files = append(files, e.Name())
	}

	for _, name := range files {
		full := filepath.Join(postsDir, name)
		doc, err := markdown.ParseFile(full)
		if err != nil {
			slog.Debug("jekyll: skipping unreadable post", "path", full, "err", err)
			continue
		}
		if doc.String(IDKey, "") == pageID {
			return full, nil
		}
	}

	suffix := "-" + slug + ".md"
	for _, name := range files {
		if strings.HasSuffix(name, suffix) {
			return filepath.Join(postsDir, name), nil
		}
	}
	return "", nil
}

// WriteIfChanged writes content to target unless the file already holds
// exactly the same bytes. It reports whether a write happened.
func WriteIfChanged(target, content string) (bool, error) {
	prev, err := os.ReadFile(target)
	if err == nil && bytes.Equal(prev, []byte(content)) {
		return false, nil
	}
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		return false, fmt.Errorf("read %s: %w", target, err)
	}
	if err := os.MkdirAll(filepath.Dir(target), 0o755); err != nil {
		return false, err
	}
	if err := os.WriteFile(target, []byte(content), 0o644); err != nil {
		return false, fmt.Errorf("write %s: %w", target, err)
	}
	return true, nil
}

// ImgPath is the site-absolute asset folder of a post, with a trailing slash.
func ImgPath(assetDir, year, slug string) string {
	return path.Join("/", filepath.ToSlash(assetDir), year, slug) + "/"
}

// AssetDirFor maps an img_path back to the local directory under assetDir.
// It returns false when imgPath points somewhere outside assetDir.
func AssetDirFor(imgPath, assetDir string) (string, bool) {
	root := path.Join("/", filepath.ToSlash(assetDir)) + "/"
	p := path.Clean("/" + strings.TrimSpace(imgPath))
	if !strings.HasPrefix(p+"/", root) || p+"/" == root {
		return "", false
	}
	rel := strings.TrimPrefix(p, root)
	return filepath.Join(assetDir, filepath.FromSlash(rel)), true
}
