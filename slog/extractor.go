package slog

import (
	"log/slog"
	"time"

	"github.com/vishalsodani/decruft"
)

// Ensure LoggingExtractor implements decruft.Extractor.
var _ decruft.Extractor = (*LoggingExtractor)(nil)

// LoggingExtractor wraps an Extractor with logging.
type LoggingExtractor struct {
	next   decruft.Extractor
	logger *slog.Logger
}

// NewLoggingExtractor creates a new LoggingExtractor.
func NewLoggingExtractor(next decruft.Extractor, logger *slog.Logger) *LoggingExtractor {
	return &LoggingExtractor{next: next, logger: logger}
}

// Extract delegates to the wrapped extractor and logs the operation.
func (e *LoggingExtractor) Extract(in *decruft.Input) (res *decruft.ExtractResult, err error) {
	defer func(begin time.Time) {
		attrs := []any{
			"url", in.BaseHref,
			"bytes", len(in.Raw),
			"duration", time.Since(begin),
		}
		if res != nil {
			attrs = append(attrs, "title", res.Title, "charset", res.Charset)
		}
		if err != nil {
			attrs = append(attrs, "code", decruft.ErrorCode(err), "err", err)
			e.logger.Error("extract", attrs...)
			return
		}
		e.logger.Debug("extract", attrs...)
	}(time.Now())
	return e.next.Extract(in)
}
