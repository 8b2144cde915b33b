// Package trafilatura provides a decruft.Extractor backed by go-trafilatura.
package trafilatura

import (
	"bytes"
	"io"
	"log/slog"
	"net/url"
	"strings"

	"github.com/markusmobius/go-trafilatura"
	"github.com/vishalsodani/decruft"
	"golang.org/x/net/html"
)

// Ensure Extractor implements decruft.Extractor at compile time.
var _ decruft.Extractor = (*Extractor)(nil)

// Extractor wraps go-trafilatura to extract main content from HTML.
type Extractor struct {
	decoder    decruft.Decoder
	attributes decruft.AttributeStripper
	verifier   decruft.MarkupVerifier
	logger     *slog.Logger
}

// Option configures an Extractor.
type Option func(*Extractor)

// WithVerifier checks stripped content with v before it is returned.
func WithVerifier(v decruft.MarkupVerifier) Option {
	return func(e *Extractor) {
		e.verifier = v
	}
}

// WithLogger sets the logger cleansing failures are reported to.
func WithLogger(l *slog.Logger) Option {
	return func(e *Extractor) {
		e.logger = l
	}
}

// NewExtractor creates a new Extractor that decodes input with dec and
// removes nuisance attributes from the extracted content with attrs.
func NewExtractor(dec decruft.Decoder, attrs decruft.AttributeStripper, opts ...Option) *Extractor {
	e := &Extractor{
		decoder:    dec,
		attributes: attrs,
		logger:     slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Extract decodes and parses the input, then hands the tree to trafilatura.
// The tree is parsed here so the text is not decoded a second time.
func (e *Extractor) Extract(in *decruft.Input) (*decruft.ExtractResult, error) {
	if in == nil || len(in.Raw) == 0 {
		return nil, decruft.Errorf(decruft.EINVALID, "empty HTML input")
	}

	opts := trafilatura.Options{
		EnableFallback: true,
	}
	if in.BaseHref != "" {
		u, err := url.Parse(in.BaseHref)
		if err != nil {
			return nil, decruft.WrapError(decruft.EINVALID, err, "invalid base href %q", in.BaseHref)
		}
		opts.OriginalURL = u
	}

	text, charset := e.decoder.Decode(in.Raw, in.ContentType)
	doc, err := html.Parse(strings.NewReader(text))
	if err != nil {
		return nil, decruft.WrapError(decruft.EUNPARSEABLE, err, "cannot parse document")
	}

	result, err := trafilatura.ExtractDocument(doc, opts)
	if err != nil {
		return nil, decruft.WrapError(decruft.EUNPARSEABLE, err, "trafilatura found no content")
	}

	var contentHTML string
	if result.ContentNode != nil {
		contentHTML, err = renderNode(result.ContentNode)
		if err != nil {
			return nil, err
		}
	}

	return &decruft.ExtractResult{
		Title:       strings.Join(strings.Fields(result.Metadata.Title), " "),
		ContentHTML: e.cleanse(contentHTML, in.BaseHref),
		Charset:     charset,
		SourceURL:   in.BaseHref,
	}, nil
}

// cleanse strips nuisance attributes from content. If stripping fails or
// breaks the markup, the error is logged and content is returned unstripped.
func (e *Extractor) cleanse(content, pageURL string) string {
	if e.attributes == nil || content == "" {
		return content
	}

	cleaned, err := e.attributes.StripAttributes(content)
	if err == nil && e.verifier != nil {
		err = e.verifier.Verify(content, cleaned)
	}
	if err != nil {
		e.logger.Error("cleansing broke html content",
			"engine", "trafilatura",
			"url", pageURL,
			"code", decruft.ErrorCode(err),
			"err", err,
		)
		return content
	}
	return cleaned
}

// renderNode converts an html.Node to a string.
func renderNode(n *html.Node) (string, error) {
	var buf bytes.Buffer
	if err := html.Render(&buf, n); err != nil {
		return "", err
	}
	return buf.String(), nil
}
