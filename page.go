package decruft

import "context"

// Page is a rendered extraction result ready to be stored.
type Page struct {
	// Name is the input the page came from: a URL, a file path or "-".
	Name string

	// SourceURL is the base href the page was extracted with, if any.
	SourceURL string

	Title string

	// Content is the rendered document, HTML or Markdown.
	Content string
}

// PageStore persists pages with atomic semantics.
// Save writes to a temporary location; Commit makes changes permanent;
// Abort discards pending changes.
type PageStore interface {
	Save(ctx context.Context, page *Page) error
	Commit() error
	Abort() error
}
