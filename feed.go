package decruft

import "io"

// Feed is a syndication feed of extracted documents.
type Feed struct {
	Title       string
	Link        string
	Description string
	Items       []*FeedItem
}

// FeedItem is a single extracted document in a feed.
type FeedItem struct {
	Title string
	Link  string

	// Description is the cleaned body markup.
	Description string

	// ContentHash identifies the item when it has no link.
	ContentHash string
}

// FeedWriter serializes feeds.
type FeedWriter interface {
	WriteFeed(w io.Writer, feed *Feed) error
}

// Sanitizer removes markup that is unsafe to redistribute, such as event
// handler attributes and script URLs.
type Sanitizer interface {
	Sanitize(markup string) string
}
