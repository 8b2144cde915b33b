// Package readability provides a decruft.Extractor backed by go-readability.
// It keeps only the main article of a page.
package readability

import (
	"io"
	"log/slog"
	"net/url"
	"strings"

	"github.com/go-shiori/go-readability"
	"github.com/vishalsodani/decruft"
)

// Ensure Extractor implements decruft.Extractor at compile time.
var _ decruft.Extractor = (*Extractor)(nil)

// Extractor wraps go-readability to extract main content from HTML.
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
// removes nuisance attributes from the article with attrs.
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

// Extract decodes the input and returns its main article.
// Relative links are made absolute when the input has a base href.
func (e *Extractor) Extract(in *decruft.Input) (*decruft.ExtractResult, error) {
	if in == nil || len(in.Raw) == 0 {
		return nil, decruft.Errorf(decruft.EINVALID, "empty HTML input")
	}

	var pageURL *url.URL
	if in.BaseHref != "" {
		u, err := url.Parse(in.BaseHref)
		if err != nil {
			return nil, decruft.WrapError(decruft.EINVALID, err, "invalid base href %q", in.BaseHref)
		}
		pageURL = u
	}

	text, charset := e.decoder.Decode(in.Raw, in.ContentType)
	article, err := readability.FromReader(strings.NewReader(text), pageURL)
	if err != nil {
		return nil, decruft.WrapError(decruft.EUNPARSEABLE, err, "readability found no content")
	}

	return &decruft.ExtractResult{
		Title:       strings.Join(strings.Fields(article.Title), " "),
		ContentHTML: e.cleanse(article.Content, in.BaseHref),
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
			"engine", "readability",
			"url", pageURL,
			"code", decruft.ErrorCode(err),
			"err", err,
		)
		return content
	}
	return cleaned
}
