package slog

import (
	"context"
	"log/slog"
	"time"

	"github.com/fwojciec/policycheck"
)

// Ensure LoggingEvaluator implements policycheck.Evaluator.
var _ policycheck.Evaluator = (*LoggingEvaluator)(nil)

// LoggingEvaluator wraps an Evaluator with logging.
type LoggingEvaluator struct {
	next   policycheck.Evaluator
	logger *slog.Logger
}

// NewLoggingEvaluator creates a new LoggingEvaluator.
func NewLoggingEvaluator(next policycheck.Evaluator, logger *slog.Logger) *LoggingEvaluator {
	return &LoggingEvaluator{next: next, logger: logger}
}

// Evaluate delegates to the wrapped evaluator and logs the verdict.
func (e *LoggingEvaluator) Evaluate(ctx context.Context, pageText, policyText string) (verdict *policycheck.Verdict, err error) {
	defer func(begin time.Time) {
		attrs := []any{
			"page_chars", policycheck.ContentLength(pageText),
			"policy_chars", policycheck.ContentLength(policyText),
		}
		if verdict != nil {
			attrs = append(attrs, "compliant", verdict.Compliant, "findings", len(verdict.Findings))
		}
		attrs = append(attrs, "duration", time.Since(begin), "err", err)
		e.logger.Info("evaluate", attrs...)
	}(time.Now())
	return e.next.Evaluate(ctx, pageText, policyText)
}

// Ensure LoggingCompleter implements policycheck.Completer.
var _ policycheck.Completer = (*LoggingCompleter)(nil)

// LoggingCompleter wraps a Completer with debug logging of raw model answers.
type LoggingCompleter struct {
	next   policycheck.Completer
	logger *slog.Logger
}

// NewLoggingCompleter creates a new LoggingCompleter.
func NewLoggingCompleter(next policycheck.Completer, logger *slog.Logger) *LoggingCompleter {
	return &LoggingCompleter{next: next, logger: logger}
}

// Complete delegates to the wrapped completer and logs the answer at debug level.
func (c *LoggingCompleter) Complete(ctx context.Context, req policycheck.CompletionRequest) (text string, err error) {
	defer func(begin time.Time) {
		c.logger.Debug("complete",
			"prompt_chars", len(req.System)+len(req.User),
			"json", req.JSON,
			"max_tokens", req.MaxTokens,
			"answer", text,
			"duration", time.Since(begin),
			"err", err,
		)
	}(time.Now())
	return c.next.Complete(ctx, req)
}
