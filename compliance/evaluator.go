// Package compliance judges page text against policy text with a language model.
package compliance

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/fwojciec/policycheck"
)

// MaxCompletionTokens bounds the model's answer so findings stay concise.
const MaxCompletionTokens = 750

// DefaultTimeout bounds a single model call.
const DefaultTimeout = 60 * time.Second

// SystemPrompt instructs the model to act as a compliance reviewer that
// answers with a JSON verdict.
const SystemPrompt = `You are a compliance expert. Analyze the webpage content against the detailed compliance policy.
Conduct a thorough line-by-line comparison.
Identify any specific violations or areas of non-compliance.
Return a JSON object with:
- compliant: boolean (overall compliance status)
- findings: string[] (detailed non-compliance findings)`

// Ensure Evaluator implements policycheck.Evaluator at compile time.
var _ policycheck.Evaluator = (*Evaluator)(nil)

// Evaluator implements policycheck.Evaluator on top of a policycheck.Completer.
type Evaluator struct {
	completer policycheck.Completer
	timeout   time.Duration
}

// Option configures an Evaluator.
type Option func(*Evaluator)

// WithTimeout sets the bound on a single model call.
// Defaults to DefaultTimeout if not specified.
func WithTimeout(d time.Duration) Option {
	return func(e *Evaluator) {
		e.timeout = d
	}
}

// NewEvaluator creates a new Evaluator.
func NewEvaluator(completer policycheck.Completer, opts ...Option) *Evaluator {
	e := &Evaluator{
		completer: completer,
		timeout:   DefaultTimeout,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Evaluate asks the model whether pageText complies with policyText.
// Only a failed model call is an error; a malformed answer becomes a
// conservative verdict.
func (e *Evaluator) Evaluate(ctx context.Context, pageText, policyText string) (*policycheck.Verdict, error) {
	if e.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, e.timeout)
		defer cancel()
	}

	text, err := e.completer.Complete(ctx, BuildRequest(pageText, policyText))
	if err != nil {
		return nil, policycheck.WrapError(err, policycheck.ECHECKFAILED, "Failed to perform compliance check")
	}

	return ParseVerdict(text), nil
}

// BuildRequest returns the completion request for a page/policy pair.
func BuildRequest(pageText, policyText string) policycheck.CompletionRequest {
	return policycheck.CompletionRequest{
		System:    SystemPrompt,
		User:      BuildUserPrompt(pageText, policyText),
		JSON:      true,
		MaxTokens: MaxCompletionTokens,
	}
}

// BuildUserPrompt embeds the policy followed by the page content.
func BuildUserPrompt(pageText, policyText string) string {
	var sb strings.Builder
	sb.WriteString("COMPLIANCE POLICY DETAILS:\n")
	fmt.Fprintf(&sb, "%s\n\n", policyText)
	sb.WriteString("WEBPAGE CONTENT TO CHECK:\n")
	fmt.Fprintf(&sb, "%s\n\n", pageText)
	sb.WriteString("Carefully analyze the content for any violations of the policy.\n")
	sb.WriteString("Provide specific, detailed findings that highlight where and how the content might not align with the policy.\n")
	sb.WriteString("Be precise and comprehensive in your assessment.")
	return sb.String()
}
