package decruft

// Document is a parsed, navigable document tree.
//
// A Document is owned by a single caller. StripElements mutates the tree in
// place, so a Document must not be shared across goroutines once stripping
// begins.
type Document interface {
	// Title returns the whitespace-normalized text of the first title
	// element. Returns false if there is no title or it has no text.
	Title() (string, bool)

	// StripElements removes every element whose tag name matches one of
	// tags (case-insensitive), along with its subtree.
	// Returns the number of subtrees removed.
	StripElements(tags ...string) int

	// BodyHTML serializes the body element, or the whole document if
	// there is no body.
	BodyHTML() (string, error)
}

// Parser builds a Document from repaired text.
type Parser interface {
	// Parse converts text into a Document, recovering from malformed markup.
	// If baseHref is non-empty, relative links are made absolute against it.
	// Returns EUNPARSEABLE only when no usable tree can be produced.
	// Parse never performs network I/O.
	Parse(text string, baseHref string) (Document, error)
}

// NotifyFunc receives a description and the underlying error when a
// document cannot be parsed.
type NotifyFunc func(message string, err error)
