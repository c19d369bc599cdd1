// Package slog provides logging decorators for policycheck services.
package slog

import (
	"context"
	"log/slog"
	"time"

	"github.com/cespare/xxhash/v2"
	"github.com/fwojciec/policycheck"
)

// Ensure LoggingFetcher implements policycheck.Fetcher.
var _ policycheck.Fetcher = (*LoggingFetcher)(nil)

// LoggingFetcher wraps a Fetcher with logging.
type LoggingFetcher struct {
	next   policycheck.Fetcher
	logger *slog.Logger
}

// NewLoggingFetcher creates a new LoggingFetcher.
func NewLoggingFetcher(next policycheck.Fetcher, logger *slog.Logger) *LoggingFetcher {
	return &LoggingFetcher{next: next, logger: logger}
}

// Fetch delegates to the wrapped fetcher and logs the outcome.
func (f *LoggingFetcher) Fetch(ctx context.Context, url string) (html string, err error) {
	defer func(begin time.Time) {
		f.logger.Info("fetch",
			"url", url,
			"bytes", len(html),
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

// Ensure LoggingPageFetcher implements policycheck.PageFetcher.
var _ policycheck.PageFetcher = (*LoggingPageFetcher)(nil)

// LoggingPageFetcher wraps a PageFetcher with logging. Each extracted body is
// logged with its length and a digest, so two checks of the same page can be
// told apart when the page changed in between.
type LoggingPageFetcher struct {
	next   policycheck.PageFetcher
	logger *slog.Logger
}

// NewLoggingPageFetcher creates a new LoggingPageFetcher.
func NewLoggingPageFetcher(next policycheck.PageFetcher, logger *slog.Logger) *LoggingPageFetcher {
	return &LoggingPageFetcher{next: next, logger: logger}
}

// FetchPage delegates to the wrapped fetcher and logs the outcome.
func (f *LoggingPageFetcher) FetchPage(ctx context.Context, url string) (result *policycheck.FetchResult, err error) {
	defer func(begin time.Time) {
		attrs := []any{"url", url}
		if result != nil {
			attrs = append(attrs,
				"chars", policycheck.ContentLength(result.Body),
				"digest", xxhash.Sum64String(result.Body),
			)
		}
		attrs = append(attrs, "duration", time.Since(begin), "err", err)
		f.logger.Info("fetch page", attrs...)
	}(time.Now())
	return f.next.FetchPage(ctx, url)
}
