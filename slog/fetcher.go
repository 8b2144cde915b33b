package slog

import (
	"context"
	"log/slog"
	"time"

	"github.com/vishalsodani/decruft"
)

// Ensure LoggingFetcher implements decruft.Fetcher.
var _ decruft.Fetcher = (*LoggingFetcher)(nil)

// LoggingFetcher wraps a Fetcher with logging.
type LoggingFetcher struct {
	next   decruft.Fetcher
	logger *slog.Logger
}

// NewLoggingFetcher creates a new LoggingFetcher.
func NewLoggingFetcher(next decruft.Fetcher, logger *slog.Logger) *LoggingFetcher {
	return &LoggingFetcher{next: next, logger: logger}
}

// Fetch delegates to the wrapped fetcher and logs the operation.
func (f *LoggingFetcher) Fetch(ctx context.Context, url string) (resp *decruft.Response, err error) {
	defer func(begin time.Time) {
		var n int
		var contentType string
		if resp != nil {
			n = len(resp.Body)
			contentType = resp.ContentType
		}
		f.logger.Info("fetch",
			"url", url,
			"bytes", n,
			"content_type", contentType,
			"duration", time.Since(begin),
			"err", err,
		)
	}(time.Now())
	return f.next.Fetch(ctx, url)
}

// Close delegates to the wrapped fetcher.
func (f *LoggingFetcher) Close() error {
	return f.next.Close()
}
