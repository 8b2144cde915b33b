package mock

import (
	"io"

	"github.com/vishalsodani/decruft"
)

var _ decruft.FeedWriter = (*FeedWriter)(nil)

// FeedWriter is a mock implementation of decruft.FeedWriter.
type FeedWriter struct {
	WriteFeedFn func(w io.Writer, feed *decruft.Feed) error
}

func (f *FeedWriter) WriteFeed(w io.Writer, feed *decruft.Feed) error {
	return f.WriteFeedFn(w, feed)
}

var _ decruft.Sanitizer = (*Sanitizer)(nil)

// Sanitizer is a mock implementation of decruft.Sanitizer.
type Sanitizer struct {
	SanitizeFn func(markup string) string
}

func (s *Sanitizer) Sanitize(markup string) string {
	return s.SanitizeFn(markup)
}
