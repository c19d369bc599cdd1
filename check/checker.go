package check

import (
	"context"

	"github.com/fwojciec/policycheck"
	"golang.org/x/sync/errgroup"
)

// Ensure Checker implements policycheck.Checker at compile time.
var _ policycheck.Checker = (*Checker)(nil)

// Checker runs compliance checks.
type Checker struct {
	Pages     policycheck.PageFetcher
	Evaluator policycheck.Evaluator

	// DefaultPolicyURL is used when a request names no policy.
	// Defaults to policycheck.DefaultPolicyURL.
	DefaultPolicyURL string
}

// Check validates req, fetches page and policy concurrently, and evaluates
// the page text against the policy text. If either fetch fails the other is
// canceled and the check fails.
func (c *Checker) Check(ctx context.Context, req *policycheck.CheckRequest) (*policycheck.CheckResponse, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	policyURL := req.PolicyURL
	if policyURL == "" {
		policyURL = c.defaultPolicyURL()
	}

	var page, policy *policycheck.FetchResult
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		page, err = c.Pages.FetchPage(gctx, req.PageURL)
		return err
	})
	g.Go(func() (err error) {
		policy, err = c.Pages.FetchPage(gctx, policyURL)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	verdict, err := c.Evaluator.Evaluate(ctx, page.Body, policy.Body)
	if err != nil {
		return nil, err
	}

	return &policycheck.CheckResponse{
		URL:                 req.PageURL,
		PolicyURL:           policyURL,
		PageContentLength:   policycheck.ContentLength(page.Body),
		PolicyContentLength: policycheck.ContentLength(policy.Body),
		Compliant:           verdict.Compliant,
		Findings:            verdict.Findings,
	}, nil
}

func (c *Checker) defaultPolicyURL() string {
	if c.DefaultPolicyURL != "" {
		return c.DefaultPolicyURL
	}
	return policycheck.DefaultPolicyURL
}
