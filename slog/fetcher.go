// Package slog provides logging decorators for pagescout services.
package slog

import (
	"context"
	"log/slog"
	"time"

	"github.com/pagescout/pagescout"
)

// Ensure LoggingFetcher implements pagescout.Fetcher.
var _ pagescout.Fetcher = (*LoggingFetcher)(nil)

// LoggingFetcher wraps a Fetcher with per-request logging.
type LoggingFetcher struct {
	next   pagescout.Fetcher
	logger *slog.Logger
}

// NewLoggingFetcher creates a new LoggingFetcher.
func NewLoggingFetcher(next pagescout.Fetcher, logger *slog.Logger) *LoggingFetcher {
	return &LoggingFetcher{next: next, logger: logger}
}

// Fetch logs the URL, result size, and duration, and delegates to the
// wrapped fetcher.
func (f *LoggingFetcher) Fetch(ctx context.Context, url string) (result *pagescout.FetchResult, err error) {
	defer func(begin time.Time) {
		var status, bytes int
		if result != nil {
			status = result.StatusCode
			bytes = len(result.Body)
		}
		f.logger.Info("fetch",
			"url", url,
			"status", status,
			"bytes", bytes,
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
