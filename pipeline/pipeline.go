// Package pipeline orchestrates decoding, repair, parsing and cleaning of
// raw HTML documents.
package pipeline

import (
	"fmt"
	"io"
	"log/slog"

	"github.com/cespare/xxhash/v2"
	"github.com/vishalsodani/decruft"
)

// NuisanceElements are removed from the whole document before the body is
// serialized.
var NuisanceElements = []string{"script", "link", "style"}

// Ensure Pipeline implements decruft.Extractor at compile time.
var _ decruft.Extractor = (*Pipeline)(nil)

// Pipeline turns raw HTML into a title and a cleaned body fragment.
// A Pipeline holds no per-document state and is safe for concurrent use
// when its components are.
type Pipeline struct {
	Decoder    decruft.Decoder
	Repairer   decruft.Repairer
	Parser     decruft.Parser
	Attributes decruft.AttributeStripper
	Verifier   decruft.MarkupVerifier
	Logger     *slog.Logger
}

// ParseDocument decodes, repairs and parses raw into a Document.
// On failure notify is called once with a description and the cause, and
// an EUNPARSEABLE error is returned.
func (p *Pipeline) ParseDocument(raw []byte, baseHref string, notify decruft.NotifyFunc) (decruft.Document, error) {
	doc, _, err := p.ParseInput(&decruft.Input{Raw: raw, BaseHref: baseHref}, notify)
	return doc, err
}

// ParseInput is ParseDocument for a full Input, honoring its transport
// content type. It also returns the charset the input was decoded with.
func (p *Pipeline) ParseInput(in *decruft.Input, notify decruft.NotifyFunc) (decruft.Document, string, error) {
	if notify == nil {
		notify = func(string, error) {}
	}
	fail := func(stage string, err error) error {
		notify(fmt.Sprintf("parsing failed at %s:", stage), err)
		return decruft.WrapError(decruft.EUNPARSEABLE, err, "unparseable document (%s)", stage)
	}

	text, charset := p.Decoder.Decode(in.Raw, in.ContentType)
	p.logger().Debug("decoded", "charset", charset, "bytes", len(in.Raw))

	repaired, err := p.Repairer.Repair(text)
	if err != nil {
		return nil, charset, fail("repair", err)
	}

	doc, err := p.Parser.Parse(repaired, in.BaseHref)
	if err != nil {
		return nil, charset, fail("parse", err)
	}
	return doc, charset, nil
}

// Title returns the document title, or false if it has none.
func (p *Pipeline) Title(doc decruft.Document) (string, bool) {
	return doc.Title()
}

// Body removes scripts, styles and links from doc, then serializes the body
// and strips nuisance attributes from it. If stripping fails or breaks the
// markup, the error is logged with both versions and the unstripped
// serialization is returned. Body mutates doc.
func (p *Pipeline) Body(doc decruft.Document) string {
	doc.StripElements(NuisanceElements...)

	raw, err := doc.BodyHTML()
	if err != nil {
		p.logger().Error("body serialization failed", "stage", "serialize", "err", err)
		return ""
	}

	cleaned, err := p.Attributes.StripAttributes(raw)
	if err == nil && p.Verifier != nil {
		err = p.Verifier.Verify(raw, cleaned)
	}
	if err != nil {
		p.logger().Error("cleansing broke html content",
			"stage", "strip-attributes",
			"code", decruft.ErrorCode(err),
			"err", err,
			"raw", raw,
			"cleaned", cleaned,
		)
		return raw
	}
	return cleaned
}

// Extract runs the whole pipeline on in. Parse failures are logged.
func (p *Pipeline) Extract(in *decruft.Input) (*decruft.ExtractResult, error) {
	if in == nil || len(in.Raw) == 0 {
		return nil, decruft.Errorf(decruft.EINVALID, "empty HTML input")
	}

	notify := func(message string, err error) {
		p.logger().Error(message, "url", in.BaseHref, "err", err)
	}
	doc, charset, err := p.ParseInput(in, notify)
	if err != nil {
		return nil, err
	}

	title, _ := p.Title(doc)
	body := p.Body(doc)
	return &decruft.ExtractResult{
		Title:       title,
		ContentHTML: body,
		Charset:     charset,
		ContentHash: ComputeHash(body),
		SourceURL:   in.BaseHref,
	}, nil
}

func (p *Pipeline) logger() *slog.Logger {
	if p.Logger == nil {
		return slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return p.Logger
}

// ComputeHash computes a hash of the content using xxhash.
func ComputeHash(content string) string {
	return fmt.Sprintf("%x", xxhash.Sum64String(content))
}
