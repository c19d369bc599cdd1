// Package check orchestrates compliance checks: it fetches the page and the
// policy concurrently, extracts their text, and hands both to an Evaluator.
package check

import (
	"context"

	"github.com/fwojciec/policycheck"
)

// Ensure PageFetcher implements policycheck.PageFetcher at compile time.
var _ policycheck.PageFetcher = (*PageFetcher)(nil)

// PageFetcher combines a Fetcher and an Extractor into a policycheck.PageFetcher.
type PageFetcher struct {
	Fetcher   policycheck.Fetcher
	Extractor policycheck.Extractor
}

// FetchPage retrieves the page at url and returns its normalized text.
func (p *PageFetcher) FetchPage(ctx context.Context, url string) (*policycheck.FetchResult, error) {
	html, err := p.Fetcher.Fetch(ctx, url)
	if err != nil {
		return nil, err
	}

	body, err := p.Extractor.Extract(html)
	if err != nil {
		return nil, err
	}

	return &policycheck.FetchResult{Body: body}, nil
}
