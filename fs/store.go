// Package fs provides file-based storage for extracted pages.
package fs

import (
	"context"
	"net/url"
	"os"
	"path"
	"path/filepath"
	"strings"
	"time"

	"github.com/vishalsodani/decruft"
	"gopkg.in/yaml.v3"
)

// Ensure FileStore implements decruft.PageStore at compile time.
var _ decruft.PageStore = (*FileStore)(nil)

// FileStore implements decruft.PageStore with atomic update semantics.
// Pages are saved to a temporary directory, then moved into place on Commit.
type FileStore struct {
	dir string
	ext string
	now func() time.Time
}

// Option configures a FileStore.
type Option func(*FileStore)

// WithClock sets the time source for the extracted date in front matter.
func WithClock(now func() time.Time) Option {
	return func(s *FileStore) {
		s.now = now
	}
}

// NewFileStore creates a FileStore writing files with extension ext (".html"
// or ".md") under dir. Files are staged in dir+".tmp" until Commit.
func NewFileStore(dir, ext string, opts ...Option) *FileStore {
	s := &FileStore{
		dir: filepath.Clean(dir),
		ext: ext,
		now: time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *FileStore) tempDir() string {
	return s.dir + ".tmp"
}

// Save writes page to the staging directory. Markdown pages get YAML front
// matter with their source and title.
func (s *FileStore) Save(ctx context.Context, page *decruft.Page) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	relPath, err := PagePath(page, s.ext)
	if err != nil {
		return err
	}

	fullPath := filepath.Join(s.tempDir(), filepath.FromSlash(relPath))
	if err := os.MkdirAll(filepath.Dir(fullPath), 0o755); err != nil {
		return err
	}

	content := page.Content
	if s.ext == ".md" {
		header, err := s.frontMatter(page)
		if err != nil {
			return err
		}
		content = header + content
	}
	return os.WriteFile(fullPath, []byte(content), 0o644)
}

// pageMeta is the front matter written ahead of markdown content.
type pageMeta struct {
	Source    string `yaml:"source"`
	Title     string `yaml:"title"`
	Extracted string `yaml:"extracted"`
}

func (s *FileStore) frontMatter(page *decruft.Page) (string, error) {
	meta := pageMeta{
		Source:    page.SourceURL,
		Title:     page.Title,
		Extracted: s.now().Format("2006-01-02"),
	}
	if meta.Source == "" {
		meta.Source = page.Name
	}
	out, err := yaml.Marshal(&meta)
	if err != nil {
		return "", decruft.WrapError(decruft.EINTERNAL, err, "encoding front matter for %s", page.Name)
	}
	return "---\n" + string(out) + "---\n\n", nil
}

// Commit replaces dir with the staging directory.
func (s *FileStore) Commit() error {
	if _, err := os.Stat(s.tempDir()); os.IsNotExist(err) {
		if err := os.MkdirAll(s.tempDir(), 0o755); err != nil {
			return err
		}
	}
	if err := os.RemoveAll(s.dir); err != nil {
		return err
	}
	return os.Rename(s.tempDir(), s.dir)
}

// Abort discards the staging directory.
func (s *FileStore) Abort() error {
	return os.RemoveAll(s.tempDir())
}

// PagePath returns the slash-separated relative path a page is stored at.
// URL names map to their path (https://example.com/docs/ → docs/index.ext);
// file names keep their base name with the extension replaced.
func PagePath(page *decruft.Page, ext string) (string, error) {
	var p string
	switch {
	case strings.HasPrefix(page.Name, "http://") || strings.HasPrefix(page.Name, "https://"):
		u, err := url.Parse(page.Name)
		if err != nil {
			return "", decruft.WrapError(decruft.EINVALID, err, "invalid page URL %q", page.Name)
		}
		p = u.Path
		if containsDotDot(p) {
			return "", decruft.Errorf(decruft.EINVALID, "path traversal in %q", page.Name)
		}
		p = strings.TrimPrefix(path.Clean("/"+p), "/")
		if p == "" || strings.HasSuffix(u.Path, "/") {
			p = path.Join(p, "index")
		} else {
			p = strings.TrimSuffix(p, path.Ext(p))
		}
	case page.Name == "" || page.Name == "-":
		p = "stdin"
	default:
		base := filepath.Base(page.Name)
		p = strings.TrimSuffix(base, filepath.Ext(base))
	}
	return p + ext, nil
}

func containsDotDot(p string) bool {
	for _, seg := range strings.Split(p, "/") {
		if seg == ".." {
			return true
		}
	}
	return false
}
