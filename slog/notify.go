package slog

import (
	"log/slog"

	"github.com/vishalsodani/decruft"
)

// Notify returns a NotifyFunc that logs parse failures at error level.
// Additional args are attached to every record.
func Notify(logger *slog.Logger, args ...any) decruft.NotifyFunc {
	return func(message string, err error) {
		logger.With(args...).Error(message,
			"code", decruft.ErrorCode(err),
			"err", err,
		)
	}
}
