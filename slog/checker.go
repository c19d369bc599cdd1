package slog

import (
	"context"
	"log/slog"
	"time"

	"github.com/fwojciec/policycheck"
	"github.com/google/uuid"
)

// Ensure LoggingChecker implements policycheck.Checker.
var _ policycheck.Checker = (*LoggingChecker)(nil)

// LoggingChecker wraps a Checker with logging. Every check gets an ID that
// is logged with its request and outcome.
type LoggingChecker struct {
	next   policycheck.Checker
	logger *slog.Logger
}

// NewLoggingChecker creates a new LoggingChecker.
func NewLoggingChecker(next policycheck.Checker, logger *slog.Logger) *LoggingChecker {
	return &LoggingChecker{next: next, logger: logger}
}

// Check delegates to the wrapped checker and logs the outcome.
func (c *LoggingChecker) Check(ctx context.Context, req *policycheck.CheckRequest) (resp *policycheck.CheckResponse, err error) {
	id := uuid.NewString()
	c.logger.Debug("check started", "check_id", id, "page_url", req.PageURL, "policy_url", req.PolicyURL)

	defer func(begin time.Time) {
		attrs := []any{
			"check_id", id,
			"page_url", req.PageURL,
			"policy_url", req.PolicyURL,
		}
		if resp != nil {
			attrs = append(attrs,
				"compliant", resp.Compliant,
				"findings", len(resp.Findings),
				"page_chars", resp.PageContentLength,
				"policy_chars", resp.PolicyContentLength,
			)
		}
		attrs = append(attrs, "duration", time.Since(begin))
		if err != nil {
			attrs = append(attrs, "code", policycheck.ErrorCode(err), "err", err)
		}
		c.logger.Info("check", attrs...)
	}(time.Now())
	return c.next.Check(ctx, req)
}
