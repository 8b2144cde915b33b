// Package etree provides an RSS 2.0 implementation of decruft.FeedWriter.
package etree

import (
	"io"
	"time"

	"github.com/PuerkitoBio/purell"
	"github.com/beevik/etree"
	"github.com/google/uuid"
	"github.com/vishalsodani/decruft"
)

// Generator is written to the channel's generator element.
const Generator = "decruft"

// guidNormalization folds links that name the same page onto one GUID.
const guidNormalization = purell.FlagLowercaseScheme |
	purell.FlagLowercaseHost |
	purell.FlagUppercaseEscapes |
	purell.FlagRemoveDefaultPort |
	purell.FlagRemoveTrailingSlash |
	purell.FlagRemoveDotSegments |
	purell.FlagRemoveDuplicateSlashes |
	purell.FlagRemoveFragment |
	purell.FlagSortQuery

// Ensure FeedWriter implements decruft.FeedWriter at compile time.
var _ decruft.FeedWriter = (*FeedWriter)(nil)

// FeedWriter writes feeds as RSS 2.0 documents.
type FeedWriter struct {
	now    func() time.Time
	indent int
}

// Option configures a FeedWriter.
type Option func(*FeedWriter)

// WithClock sets the time source for lastBuildDate.
func WithClock(now func() time.Time) Option {
	return func(w *FeedWriter) {
		w.now = now
	}
}

// WithIndent sets the number of spaces per nesting level. Zero writes the
// document on a single line.
func WithIndent(n int) Option {
	return func(w *FeedWriter) {
		w.indent = n
	}
}

// NewFeedWriter creates a new FeedWriter.
func NewFeedWriter(opts ...Option) *FeedWriter {
	w := &FeedWriter{
		now:    time.Now,
		indent: 2,
	}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

// WriteFeed serializes feed to w. Item descriptions hold markup and are
// written as escaped text.
func (fw *FeedWriter) WriteFeed(w io.Writer, feed *decruft.Feed) error {
	if feed == nil {
		return decruft.Errorf(decruft.EINVALID, "feed required")
	}

	doc := etree.NewDocument()
	doc.CreateProcInst("xml", `version="1.0" encoding="UTF-8"`)

	rss := doc.CreateElement("rss")
	rss.CreateAttr("version", "2.0")

	channel := rss.CreateElement("channel")
	channel.CreateElement("title").SetText(feed.Title)
	channel.CreateElement("link").SetText(feed.Link)
	description := feed.Description
	if description == "" {
		description = feed.Title
	}
	channel.CreateElement("description").SetText(description)
	channel.CreateElement("generator").SetText(Generator)
	channel.CreateElement("lastBuildDate").SetText(fw.now().UTC().Format(time.RFC1123Z))

	for _, item := range feed.Items {
		writeItem(channel, item)
	}

	if fw.indent > 0 {
		doc.Indent(fw.indent)
	}
	if _, err := doc.WriteTo(w); err != nil {
		return decruft.WrapError(decruft.EINTERNAL, err, "writing feed")
	}
	return nil
}

func writeItem(channel *etree.Element, item *decruft.FeedItem) {
	el := channel.CreateElement("item")
	if item.Title != "" {
		el.CreateElement("title").SetText(item.Title)
	}
	if item.Link != "" {
		el.CreateElement("link").SetText(item.Link)
	}
	el.CreateElement("description").SetText(item.Description)

	guid := el.CreateElement("guid")
	guid.CreateAttr("isPermaLink", "false")
	guid.SetText(ItemGUID(item))
}

// ItemGUID returns a name-based UUID for item derived from its normalized
// link, or from its content hash when it has no link. The same item always
// gets the same GUID so readers do not show it twice.
func ItemGUID(item *decruft.FeedItem) string {
	name := item.Link
	if name == "" {
		name = "urn:decruft:" + item.ContentHash
	} else if normalized, err := purell.NormalizeURLString(name, guidNormalization); err == nil {
		name = normalized
	}
	return uuid.NewSHA1(uuid.NameSpaceURL, []byte(name)).String()
}
