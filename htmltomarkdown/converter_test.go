package htmltomarkdown_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vishalsodani/decruft"
	"github.com/vishalsodani/decruft/htmltomarkdown"
)

// Ensure Converter implements decruft.Converter at compile time.
var _ decruft.Converter = (*htmltomarkdown.Converter)(nil)

func TestConverter_Convert(t *testing.T) {
	t.Parallel()

	t.Run("converts cleaned body markup", func(t *testing.T) {
		t.Parallel()

		body := `<body><h1>Title</h1><p>Hello, <em>world</em>!</p></body>`

		md, err := htmltomarkdown.NewConverter().Convert(body)

		require.NoError(t, err)
		assert.Contains(t, md, "# Title")
		assert.Contains(t, md, "Hello, *world*!")
	})

	t.Run("converts links", func(t *testing.T) {
		t.Parallel()

		body := `<p>Visit <a href="https://example.com">Example</a> for more info.</p>`

		md, err := htmltomarkdown.NewConverter().Convert(body)

		require.NoError(t, err)
		assert.Contains(t, md, "[Example](https://example.com)")
	})

	t.Run("resolves relative links with domain", func(t *testing.T) {
		t.Parallel()

		body := `<p><a href="/docs">Docs</a></p>`

		md, err := htmltomarkdown.NewConverter(htmltomarkdown.WithDomain("https://example.com")).Convert(body)

		require.NoError(t, err)
		assert.Contains(t, md, "[Docs](https://example.com/docs)")
	})

	t.Run("converts lists", func(t *testing.T) {
		t.Parallel()

		md, err := htmltomarkdown.NewConverter().Convert(`<ul><li>First</li><li>Second</li></ul>`)

		require.NoError(t, err)
		assert.Contains(t, md, "- First")
		assert.Contains(t, md, "- Second")
	})

	t.Run("converts tables", func(t *testing.T) {
		t.Parallel()

		body := `<table><thead><tr><th>Name</th><th>Value</th></tr></thead>` +
			`<tbody><tr><td>a</td><td>1</td></tr></tbody></table>`

		md, err := htmltomarkdown.NewConverter().Convert(body)

		require.NoError(t, err)
		assert.Contains(t, md, "Name")
		assert.Contains(t, md, "Value")
		assert.Contains(t, md, "|")
	})

	t.Run("trims surrounding whitespace", func(t *testing.T) {
		t.Parallel()

		md, err := htmltomarkdown.NewConverter().Convert("\n<p>text</p>\n\n")

		require.NoError(t, err)
		assert.Equal(t, "text", md)
	})

	t.Run("rejects empty input", func(t *testing.T) {
		t.Parallel()

		_, err := htmltomarkdown.NewConverter().Convert("   ")

		require.Error(t, err)
		assert.Equal(t, decruft.EINVALID, decruft.ErrorCode(err))
	})
}
