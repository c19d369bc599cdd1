package mock

import (
	"context"

	"github.com/fwojciec/policycheck"
)

var _ policycheck.Checker = (*Checker)(nil)

// Checker is a mock implementation of policycheck.Checker.
type Checker struct {
	CheckFn func(ctx context.Context, req *policycheck.CheckRequest) (*policycheck.CheckResponse, error)
}

func (c *Checker) Check(ctx context.Context, req *policycheck.CheckRequest) (*policycheck.CheckResponse, error) {
	return c.CheckFn(ctx, req)
}
