package mock

import (
	"context"

	"github.com/fwojciec/policycheck"
)

var _ policycheck.Evaluator = (*Evaluator)(nil)

// Evaluator is a mock implementation of policycheck.Evaluator.
type Evaluator struct {
	EvaluateFn func(ctx context.Context, pageText, policyText string) (*policycheck.Verdict, error)
}

func (e *Evaluator) Evaluate(ctx context.Context, pageText, policyText string) (*policycheck.Verdict, error) {
	return e.EvaluateFn(ctx, pageText, policyText)
}

var _ policycheck.Completer = (*Completer)(nil)

// Completer is a mock implementation of policycheck.Completer.
type Completer struct {
	CompleteFn func(ctx context.Context, req policycheck.CompletionRequest) (string, error)
}

func (c *Completer) Complete(ctx context.Context, req policycheck.CompletionRequest) (string, error) {
	return c.CompleteFn(ctx, req)
}
