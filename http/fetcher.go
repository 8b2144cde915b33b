// Package http provides an HTTP-based implementation of decruft.Fetcher for
// retrieving raw documents from URLs.
package http

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/vishalsodani/decruft"
)

const (
	// DefaultFetchTimeout is the default timeout for HTTP requests.
	DefaultFetchTimeout = 10 * time.Second

	// DefaultMaxBodySize is the largest response body Fetch will read.
	DefaultMaxBodySize = 16 << 20

	// DefaultUserAgent identifies the fetcher to servers.
	DefaultUserAgent = "decruft/1.0"
)

// Ensure Fetcher implements decruft.Fetcher at compile time.
var _ decruft.Fetcher = (*Fetcher)(nil)

// Fetcher retrieves raw documents from URLs using HTTP GET requests.
// The body is returned undecoded so the charset can be inferred downstream.
type Fetcher struct {
	client      *http.Client
	timeout     time.Duration
	maxBodySize int64
	userAgent   string
	limiter     decruft.DomainLimiter
	retryDelays []time.Duration
}

// Option configures a Fetcher.
type Option func(*Fetcher)

// WithTimeout sets the timeout for HTTP requests.
// Defaults to DefaultFetchTimeout (10s) if not specified.
func WithTimeout(d time.Duration) Option {
	return func(f *Fetcher) {
		f.timeout = d
	}
}

// WithMaxBodySize sets the largest response body accepted, in bytes.
func WithMaxBodySize(n int64) Option {
	return func(f *Fetcher) {
		f.maxBodySize = n
	}
}

// WithUserAgent sets the User-Agent header sent with every request.
func WithUserAgent(ua string) Option {
	return func(f *Fetcher) {
		f.userAgent = ua
	}
}

// WithLimiter rate limits requests per host.
func WithLimiter(l decruft.DomainLimiter) Option {
	return func(f *Fetcher) {
		f.limiter = l
	}
}

// WithRetryDelays sets the backoff between attempts. A request is retried
// once per delay on transport errors and 5xx responses.
func WithRetryDelays(delays []time.Duration) Option {
	return func(f *Fetcher) {
		f.retryDelays = delays
	}
}

// NewFetcher creates a new HTTP-based Fetcher.
func NewFetcher(opts ...Option) *Fetcher {
	f := &Fetcher{
		timeout:     DefaultFetchTimeout,
		maxBodySize: DefaultMaxBodySize,
		userAgent:   DefaultUserAgent,
	}
	for _, opt := range opts {
		opt(f)
	}

	f.client = &http.Client{
		Timeout: f.timeout,
	}

	return f
}

// Fetch retrieves the document at rawURL.
func (f *Fetcher) Fetch(ctx context.Context, rawURL string) (*decruft.Response, error) {
	u, err := url.Parse(rawURL)
	if err != nil {
		return nil, decruft.WrapError(decruft.EINVALID, err, "invalid URL %q", rawURL)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return nil, decruft.Errorf(decruft.EINVALID, "unsupported URL scheme %q", u.Scheme)
	}

	fetch := func(ctx context.Context, rawURL string) (*decruft.Response, error) {
		if f.limiter != nil {
			if err := f.limiter.Wait(ctx, u.Hostname()); err != nil {
				return nil, err
			}
		}
		return f.fetch(ctx, rawURL)
	}
	return fetchWithRetry(ctx, rawURL, fetch, f.retryDelays)
}

func (f *Fetcher) fetch(ctx context.Context, rawURL string) (*decruft.Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("User-Agent", f.userAgent)
	req.Header.Set("Accept", "text/html,application/xhtml+xml;q=0.9,*/*;q=0.8")

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, &retryableError{err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		err := fmt.Errorf("HTTP %d for %s", resp.StatusCode, rawURL)
		if resp.StatusCode >= http.StatusInternalServerError {
			return nil, &retryableError{err: err}
		}
		return nil, err
	}

	body, err := readBody(resp.Body, f.maxBodySize)
	if err != nil {
		return nil, err
	}

	return &decruft.Response{
		URL:         resp.Request.URL.String(),
		ContentType: resp.Header.Get("Content-Type"),
		Body:        body,
	}, nil
}

func readBody(r io.Reader, max int64) ([]byte, error) {
	if max <= 0 {
		return io.ReadAll(r)
	}
	body, err := io.ReadAll(io.LimitReader(r, max+1))
	if err != nil {
		return nil, err
	}
	if int64(len(body)) > max {
		return nil, decruft.Errorf(decruft.EEXHAUSTED, "response body exceeds %d bytes", max)
	}
	return body, nil
}

// Close releases resources. For HTTP fetcher this is a no-op since
// http.Client doesn't require explicit cleanup.
func (f *Fetcher) Close() error {
	return nil
}
