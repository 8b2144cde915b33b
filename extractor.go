package decruft

// Input is a raw document awaiting extraction.
type Input struct {
	// Raw is the document as received, in an unknown encoding.
	Raw []byte

	// ContentType is the transport Content-Type, if known.
	ContentType string

	// BaseHref is the URL relative links resolve against, if known.
	BaseHref string
}

// ExtractResult holds the extracted content from an HTML page.
type ExtractResult struct {
	// Title is the whitespace-normalized page title. Empty if absent.
	Title string

	// ContentHTML is the cleaned body markup.
	// Scripts, styles, links and nuisance attributes have been removed.
	ContentHTML string

	// Charset is the encoding the raw bytes were decoded with.
	Charset string

	// ContentHash is a hash of ContentHTML, for de-duplication.
	ContentHash string

	// SourceURL is the base href the document was extracted with.
	SourceURL string
}

// Extractor extracts a readable document from raw HTML.
type Extractor interface {
	// Extract decodes, repairs and parses the input and returns the title
	// and cleaned body.
	// Returns EUNPARSEABLE if no document could be produced.
	Extract(in *Input) (*ExtractResult, error)
}
