package main_test

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vishalsodani/decruft"
	main "github.com/vishalsodani/decruft/cmd/decruft"
	"github.com/vishalsodani/decruft/mock"
)

const crufty = `<html><head><title>  Hello
	World </title><style>p{}</style><script>alert(1)</script></head>` +
	`<body bgcolor="white"><p style="color:red" class="lead">First <a href="/next">next</a></p>` +
	`<img src="a.png" width="10" height="20"></body></html>`

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func run(t *testing.T, m *main.Main, args ...string) (string, string, error) {
	t.Helper()
	var stdout, stderr bytes.Buffer
	err := m.Run(context.Background(), args, &stdout, &stderr)
	return stdout.String(), stderr.String(), err
}

func TestMain_Run_Help(t *testing.T) {
	t.Parallel()

	stdout, _, err := run(t, main.NewMain(), "--help")

	require.NoError(t, err)
	assert.Contains(t, stdout, "decruft")
	assert.Contains(t, stdout, "--format")
	assert.Contains(t, stdout, "--engine")
}

func TestMain_Run_NoArgs(t *testing.T) {
	t.Parallel()

	_, _, err := run(t, main.NewMain())

	assert.Error(t, err)
}

func TestMain_Run_RejectsUnknownFormat(t *testing.T) {
	t.Parallel()

	_, _, err := run(t, main.NewMain(), "--format=pdf", "page.html")

	assert.Error(t, err)
}

func TestMain_Run_HTML(t *testing.T) {
	t.Parallel()

	t.Run("cleans a file", func(t *testing.T) {
		t.Parallel()

		path := writeFile(t, "page.html", crufty)

		stdout, _, err := run(t, main.NewMain(), "--base-href=https://example.com/a/", path)

		require.NoError(t, err)
		assert.Contains(t, stdout, `<p class="lead">First <a href="https://example.com/next">next</a></p>`)
		assert.Contains(t, stdout, `<img src="https://example.com/a/a.png"/>`)
		assert.NotContains(t, stdout, "alert")
		assert.NotContains(t, stdout, "color")
		assert.NotContains(t, stdout, "width")
	})

	t.Run("reads stdin", func(t *testing.T) {
		t.Parallel()

		m := main.NewMain()
		m.Stdin = strings.NewReader("<p width=\"3\">from stdin</p>")

		stdout, _, err := run(t, m, "-")

		require.NoError(t, err)
		assert.Contains(t, stdout, "<p>from stdin</p>")
	})

	t.Run("fetches URLs with their content type and final URL", func(t *testing.T) {
		t.Parallel()

		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Type", "text/html; charset=iso-8859-1")
			_, _ = w.Write([]byte("<p>caf\xe9 <a href=\"other\">link</a></p>"))
		}))
		defer server.Close()

		stdout, _, err := run(t, main.NewMain(), server.URL+"/dir/page")

		require.NoError(t, err)
		assert.Contains(t, stdout, "café")
		assert.Contains(t, stdout, `href="`+server.URL+`/dir/other"`)
	})

	t.Run("reports failed inputs but writes the rest", func(t *testing.T) {
		t.Parallel()

		good := writeFile(t, "good.html", "<p>good</p>")
		missing := filepath.Join(t.TempDir(), "missing.html")

		stdout, stderr, err := run(t, main.NewMain(), good, missing)

		require.Error(t, err)
		assert.Contains(t, err.Error(), "1 of 2 inputs failed")
		assert.Contains(t, stdout, "<p>good</p>")
		assert.Contains(t, stderr, "load failed")
	})

	t.Run("unparseable input fails", func(t *testing.T) {
		t.Parallel()

		path := writeFile(t, "binary.html", "\x00\x01\x02\x03")

		_, stderr, err := run(t, main.NewMain(), path)

		require.Error(t, err)
		assert.Contains(t, stderr, "code=unparseable")
	})
}

func TestMain_Run_Title(t *testing.T) {
	t.Parallel()

	a := writeFile(t, "a.html", crufty)
	b := writeFile(t, "b.html", "<p>no title</p>")

	stdout, _, err := run(t, main.NewMain(), "--format=title", a, b)

	require.NoError(t, err)
	assert.Equal(t, "Hello World\n\n", stdout)
}

func TestMain_Run_Markdown(t *testing.T) {
	t.Parallel()

	path := writeFile(t, "page.html", crufty)

	stdout, _, err := run(t, main.NewMain(), "--format=markdown", "--base-href=https://example.com/", path)

	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(stdout, "# Hello World\n\n"))
	assert.Contains(t, stdout, "[next](https://example.com/next)")
}

func TestMain_Run_RSS(t *testing.T) {
	t.Parallel()

	path := writeFile(t, "page.html", crufty)

	stdout, _, err := run(t, main.NewMain(), "--format=rss", "--feed-title=Clean", "--feed-link=https://example.com/", path)

	require.NoError(t, err)
	assert.Contains(t, stdout, `<rss version="2.0">`)
	assert.Contains(t, stdout, "<title>Clean</title>")
	assert.Contains(t, stdout, "<title>Hello World</title>")
	assert.Contains(t, stdout, "&lt;p class=")
	assert.Contains(t, stdout, `<guid isPermaLink="false">`)
}

func TestMain_Run_RSSSanitizes(t *testing.T) {
	t.Parallel()

	path := writeFile(t, "page.html",
		`<title>T</title><p onclick="steal()">hi <a href="javascript:alert(1)">there</a></p>`)

	stdout, _, err := run(t, main.NewMain(), "--format=rss", path)

	require.NoError(t, err)
	assert.Contains(t, stdout, "hi ")
	assert.NotContains(t, stdout, "onclick")
	assert.NotContains(t, stdout, "javascript:")
}

func TestMain_Run_Dedup(t *testing.T) {
	t.Parallel()

	a := writeFile(t, "a.html", "<title>A</title><p>same body</p>")
	b := writeFile(t, "b.html", "<title>B</title><p>same body</p>")

	t.Run("writes duplicates by default", func(t *testing.T) {
		t.Parallel()

		stdout, _, err := run(t, main.NewMain(), a, b)

		require.NoError(t, err)
		assert.Equal(t, 2, strings.Count(stdout, "same body"))
	})

	t.Run("skips duplicates with dedup", func(t *testing.T) {
		t.Parallel()

		stdout, stderr, err := run(t, main.NewMain(), "--dedup", a, b)

		require.NoError(t, err)
		assert.Equal(t, 1, strings.Count(stdout, "same body"))
		assert.Contains(t, stderr, "duplicate skipped")
		assert.Contains(t, stderr, "msg=dedup")
		assert.Contains(t, stderr, "skipped=1")
	})
}

func TestMain_Run_Fetcher(t *testing.T) {
	t.Parallel()

	t.Run("explicit base href overrides fetched URL", func(t *testing.T) {
		t.Parallel()

		m := main.NewMain()
		m.Fetcher = &mock.Fetcher{
			FetchFn: func(ctx context.Context, url string) (*decruft.Response, error) {
				return &decruft.Response{
					URL:  "https://redirected.example/final",
					Body: []byte(`<a href="x">x</a>`),
				}, nil
			},
			CloseFn: func() error { return nil },
		}

		stdout, _, err := run(t, m, "--base-href=https://base.example/", "https://example.com/start")

		require.NoError(t, err)
		assert.Contains(t, stdout, `href="https://base.example/x"`)
	})

	t.Run("closes the fetcher", func(t *testing.T) {
		t.Parallel()

		closed := false
		m := main.NewMain()
		m.Fetcher = &mock.Fetcher{
			FetchFn: func(ctx context.Context, url string) (*decruft.Response, error) {
				return nil, decruft.Errorf(decruft.EINVALID, "unreachable")
			},
			CloseFn: func() error {
				closed = true
				return nil
			},
		}

		_, _, err := run(t, m, "https://example.com/")

		require.Error(t, err)
		assert.True(t, closed)
	})
}

func TestMain_Run_Engines(t *testing.T) {
	t.Parallel()

	article := `<html><head><title>Engine Test</title></head><body>
<nav><a href="/">Home</a></nav>
<article><h1>Engine Test</h1>
<p>This paragraph is the substantive article content that every engine should keep in its output.</p>
<p>A second paragraph adds enough text for boilerplate detection to recognise the article body.</p>
</article></body></html>`

	for _, engine := range []string{"readability", "trafilatura"} {
		t.Run(engine, func(t *testing.T) {
			t.Parallel()

			path := writeFile(t, "article.html", article)

			stdout, _, err := run(t, main.NewMain(), "--engine="+engine, path)

			require.NoError(t, err)
			assert.Contains(t, stdout, "substantive article content")
		})
	}
}

func TestMain_Run_OutputDir(t *testing.T) {
	t.Parallel()

	t.Run("writes one file per document", func(t *testing.T) {
		t.Parallel()

		a := writeFile(t, "first.html", "<title>First</title><p>one</p>")
		b := writeFile(t, "second.html", "<title>Second</title><p>two</p>")
		out := filepath.Join(t.TempDir(), "out")

		stdout, _, err := run(t, main.NewMain(), "--format=markdown", "--output-dir="+out, a, b)

		require.NoError(t, err)
		assert.Empty(t, stdout)
		first, err := os.ReadFile(filepath.Join(out, "first.md"))
		require.NoError(t, err)
		assert.Contains(t, string(first), "title: First")
		assert.Contains(t, string(first), "# First\n\none")
		_, err = os.Stat(filepath.Join(out, "second.md"))
		require.NoError(t, err)
	})

	t.Run("rejects rss format", func(t *testing.T) {
		t.Parallel()

		path := writeFile(t, "page.html", "<p>x</p>")

		_, _, err := run(t, main.NewMain(), "--format=rss", "--output-dir="+t.TempDir(), path)

		require.Error(t, err)
		assert.Contains(t, err.Error(), "--output-dir")
	})
}
