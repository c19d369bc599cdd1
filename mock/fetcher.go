package mock

import (
	"context"

	"github.com/fwojciec/policycheck"
)

var _ policycheck.Fetcher = (*Fetcher)(nil)

// Fetcher is a mock implementation of policycheck.Fetcher.
type Fetcher struct {
	FetchFn func(ctx context.Context, url string) (string, error)
	CloseFn func() error
}

func (f *Fetcher) Fetch(ctx context.Context, url string) (string, error) {
	return f.FetchFn(ctx, url)
}

func (f *Fetcher) Close() error {
	return f.CloseFn()
}

var _ policycheck.PageFetcher = (*PageFetcher)(nil)

// PageFetcher is a mock implementation of policycheck.PageFetcher.
type PageFetcher struct {
	FetchPageFn func(ctx context.Context, url string) (*policycheck.FetchResult, error)
}

func (f *PageFetcher) FetchPage(ctx context.Context, url string) (*policycheck.FetchResult, error) {
	return f.FetchPageFn(ctx, url)
}
