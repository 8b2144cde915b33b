package mock

import (
	"context"

	"github.com/vishalsodani/decruft"
)

var _ decruft.Fetcher = (*Fetcher)(nil)

// Fetcher is a mock implementation of decruft.Fetcher.
type Fetcher struct {
	FetchFn func(ctx context.Context, url string) (*decruft.Response, error)
	CloseFn func() error
}

func (f *Fetcher) Fetch(ctx context.Context, url string) (*decruft.Response, error) {
	return f.FetchFn(ctx, url)
}

func (f *Fetcher) Close() error {
	return f.CloseFn()
}

var _ decruft.DomainLimiter = (*DomainLimiter)(nil)

// DomainLimiter is a mock implementation of decruft.DomainLimiter.
type DomainLimiter struct {
	WaitFn func(ctx context.Context, domain string) error
}

func (l *DomainLimiter) Wait(ctx context.Context, domain string) error {
	return l.WaitFn(ctx, domain)
}
