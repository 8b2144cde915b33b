package main_test

import (
	"bytes"
	"context"
	"errors"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vishalsodani/decruft"
	main "github.com/vishalsodani/decruft/cmd/decruft"
	"github.com/vishalsodani/decruft/mock"
	"github.com/vishalsodani/decruft/pipeline"
)

func newDeps(stdin string, ext decruft.Extractor) (*main.Dependencies, *bytes.Buffer) {
	var stdout bytes.Buffer
	return &main.Dependencies{
		Ctx:       context.Background(),
		Stdin:     bytes.NewBufferString(stdin),
		Stdout:    &stdout,
		Stderr:    io.Discard,
		Logger:    slog.New(slog.NewTextHandler(io.Discard, nil)),
		Extractor: ext,
	}, &stdout
}

func echoExtractor() *mock.Extractor {
	return &mock.Extractor{
		ExtractFn: func(in *decruft.Input) (*decruft.ExtractResult, error) {
			return &decruft.ExtractResult{
				Title:       "T",
				ContentHTML: string(in.Raw),
				SourceURL:   in.BaseHref,
			}, nil
		},
	}
}

func TestExtractCmd_Run(t *testing.T) {
	t.Parallel()

	t.Run("passes base href to extractor", func(t *testing.T) {
		t.Parallel()

		var got *decruft.Input
		deps, _ := newDeps("<p>x</p>", &mock.Extractor{
			ExtractFn: func(in *decruft.Input) (*decruft.ExtractResult, error) {
				got = in
				return &decruft.ExtractResult{}, nil
			},
		})
		cmd := &main.ExtractCmd{Inputs: []string{"-"}, BaseHref: "https://example.com/", Concurrency: 1}

		require.NoError(t, cmd.Run(deps))
		require.NotNil(t, got)
		assert.Equal(t, "https://example.com/", got.BaseHref)
		assert.Equal(t, []byte("<p>x</p>"), got.Raw)
	})

	t.Run("counts extraction failures", func(t *testing.T) {
		t.Parallel()

		deps, _ := newDeps("<p>x</p>", &mock.Extractor{
			ExtractFn: func(in *decruft.Input) (*decruft.ExtractResult, error) {
				return nil, decruft.Errorf(decruft.EUNPARSEABLE, "nope")
			},
		})
		cmd := &main.ExtractCmd{Inputs: []string{"-"}, Concurrency: 1}

		err := cmd.Run(deps)

		require.Error(t, err)
		assert.Contains(t, err.Error(), "1 of 1 inputs failed")
	})

	t.Run("markdown uses converter", func(t *testing.T) {
		t.Parallel()

		deps, stdout := newDeps("<p>x</p>", echoExtractor())
		deps.Converter = &mock.Converter{
			ConvertFn: func(html string) (string, error) {
				return "converted " + html, nil
			},
		}
		cmd := &main.ExtractCmd{Inputs: []string{"-"}, Format: main.FormatMarkdown, Concurrency: 1}

		require.NoError(t, cmd.Run(deps))
		assert.Equal(t, "# T\n\nconverted <p>x</p>\n", stdout.String())
	})

	t.Run("markdown separates only written documents", func(t *testing.T) {
		t.Parallel()

		dir := t.TempDir()
		var inputs []string
		for i, body := range []string{"", "<p>a</p>", "", "<p>b</p>"} {
			name := filepath.Join(dir, string(rune('a'+i))+".html")
			require.NoError(t, os.WriteFile(name, []byte(body+" "), 0o644))
			inputs = append(inputs, name)
		}
		deps, stdout := newDeps("", echoExtractor())
		deps.Converter = &mock.Converter{
			ConvertFn: func(html string) (string, error) {
				if html == " " {
					return "", decruft.Errorf(decruft.EINVALID, "empty HTML input")
				}
				return html, nil
			},
		}
		cmd := &main.ExtractCmd{Inputs: inputs, Format: main.FormatMarkdown, Concurrency: 1}

		require.NoError(t, cmd.Run(deps))
		assert.Equal(t, "# T\n\n<p>a</p> \n\n# T\n\n<p>b</p> \n", stdout.String())
	})

	t.Run("rss hands items to feed writer", func(t *testing.T) {
		t.Parallel()

		var feed *decruft.Feed
		deps, _ := newDeps("<p>x</p>", echoExtractor())
		deps.FeedWriter = &mock.FeedWriter{
			WriteFeedFn: func(w io.Writer, f *decruft.Feed) error {
				feed = f
				return nil
			},
		}
		cmd := &main.ExtractCmd{
			Inputs:      []string{"-"},
			BaseHref:    "https://example.com/p",
			Format:      main.FormatRSS,
			Concurrency: 1,
			FeedTitle:   "Feed",
		}

		require.NoError(t, cmd.Run(deps))
		require.NotNil(t, feed)
		assert.Equal(t, "Feed", feed.Title)
		require.Len(t, feed.Items, 1)
		assert.Equal(t, "https://example.com/p", feed.Items[0].Link)
		assert.Equal(t, "<p>x</p>", feed.Items[0].Description)
		assert.NotEmpty(t, feed.Items[0].ContentHash)
	})

	t.Run("rss sanitizes item descriptions", func(t *testing.T) {
		t.Parallel()

		var feed *decruft.Feed
		deps, _ := newDeps("<p onclick=\"x()\">x</p>", echoExtractor())
		deps.FeedWriter = &mock.FeedWriter{
			WriteFeedFn: func(w io.Writer, f *decruft.Feed) error {
				feed = f
				return nil
			},
		}
		deps.Sanitizer = &mock.Sanitizer{
			SanitizeFn: func(markup string) string { return "clean:" + markup },
		}
		cmd := &main.ExtractCmd{Inputs: []string{"-"}, Format: main.FormatRSS, Concurrency: 1}

		require.NoError(t, cmd.Run(deps))
		require.Len(t, feed.Items, 1)
		assert.Equal(t, "clean:<p onclick=\"x()\">x</p>", feed.Items[0].Description)
		assert.Equal(t, pipeline.ComputeHash("<p onclick=\"x()\">x</p>"), feed.Items[0].ContentHash)
	})

	t.Run("store commits saved pages", func(t *testing.T) {
		t.Parallel()

		var saved []*decruft.Page
		committed := false
		deps, stdout := newDeps("<p>x</p>", echoExtractor())
		deps.Store = &mock.PageStore{
			SaveFn: func(ctx context.Context, page *decruft.Page) error {
				saved = append(saved, page)
				return nil
			},
			CommitFn: func() error {
				committed = true
				return nil
			},
		}
		cmd := &main.ExtractCmd{Inputs: []string{"-"}, Format: main.FormatHTML, Concurrency: 1}

		require.NoError(t, cmd.Run(deps))
		assert.True(t, committed)
		assert.Empty(t, stdout.String())
		require.Len(t, saved, 1)
		assert.Equal(t, "-", saved[0].Name)
		assert.Equal(t, "<p>x</p>", saved[0].Content)
	})

	t.Run("store aborts on save failure", func(t *testing.T) {
		t.Parallel()

		aborted := false
		deps, _ := newDeps("<p>x</p>", echoExtractor())
		deps.Store = &mock.PageStore{
			SaveFn: func(ctx context.Context, page *decruft.Page) error {
				return errors.New("disk full")
			},
			AbortFn: func() error {
				aborted = true
				return nil
			},
		}
		cmd := &main.ExtractCmd{Inputs: []string{"-"}, Format: main.FormatHTML, Concurrency: 1}

		err := cmd.Run(deps)

		require.Error(t, err)
		assert.Contains(t, err.Error(), "disk full")
		assert.True(t, aborted)
	})
}
