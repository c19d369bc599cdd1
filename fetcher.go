package policycheck

import "context"

// Fetcher retrieves raw HTML from URLs.
type Fetcher interface {
	// Fetch retrieves the document at url and returns its HTML as UTF-8.
	// Failures are reported as *FetchError.
	// The context controls timeout and cancellation.
	Fetch(ctx context.Context, url string) (html string, err error)

	// Close releases resources held by the fetcher.
	Close() error
}

// FetchResult holds the readable text of a fetched page.
type FetchResult struct {
	// Body is normalized plain text: no markup, whitespace runs collapsed
	// to single spaces, no leading or trailing whitespace.
	Body string
}

// PageFetcher retrieves a page and extracts its readable text.
type PageFetcher interface {
	// FetchPage retrieves the page at url and returns its normalized text.
	// Failures are reported as *FetchError.
	FetchPage(ctx context.Context, url string) (*FetchResult, error)
}
