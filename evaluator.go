package policycheck

import "context"

// Verdict is the structured result of a compliance evaluation.
type Verdict struct {
	Compliant bool     `json:"compliant"`
	Findings  []string `json:"findings"`
}

// Evaluator judges page text against policy text.
type Evaluator interface {
	// Evaluate returns the verdict for pageText measured against policyText.
	// Returns ECHECKFAILED if the language model cannot be reached.
	// A malformed model answer is not an error; it yields a conservative verdict.
	Evaluate(ctx context.Context, pageText, policyText string) (*Verdict, error)
}

// CompletionRequest is a single system+user exchange with a language model.
type CompletionRequest struct {
	System string
	User   string

	// JSON asks the model to answer with a JSON object.
	JSON bool

	// MaxTokens bounds the length of the completion. Zero means provider default.
	MaxTokens int
}

// Completer is a generative language model.
type Completer interface {
	// Complete sends req to the model and returns the text of its answer.
	Complete(ctx context.Context, req CompletionRequest) (string, error)
}
