package decruft

import "context"

// Response is a fetched document.
type Response struct {
	// URL is the final URL after redirects.
	URL string

	// ContentType is the Content-Type header of the response.
	ContentType string

	// Body is the undecoded response body.
	Body []byte
}

// Fetcher retrieves raw documents from URLs.
type Fetcher interface {
	// Fetch retrieves the document at url.
	// The context controls timeout and cancellation.
	Fetch(ctx context.Context, url string) (*Response, error)

	// Close releases resources.
	// Must be called when the Fetcher is no longer needed.
	Close() error
}

// DomainLimiter rate limits requests per domain.
type DomainLimiter interface {
	// Wait blocks until a request to domain is allowed.
	Wait(ctx context.Context, domain string) error
}
