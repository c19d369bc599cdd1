// Package gemini implements policycheck.Completer using Google Gemini.
package gemini

import (
	"context"

	"github.com/fwojciec/policycheck"
	"google.golang.org/genai"
)

// DefaultModel is the Gemini model used when none is configured.
const DefaultModel = "gemini-2.5-flash"

// Ensure Completer implements policycheck.Completer at compile time.
var _ policycheck.Completer = (*Completer)(nil)

// Completer implements policycheck.Completer using Google Gemini.
type Completer struct {
	client *genai.Client
	model  string
}

// NewCompleter creates a new Completer.
func NewCompleter(client *genai.Client, model string) *Completer {
	if model == "" {
		model = DefaultModel
	}
	return &Completer{client: client, model: model}
}

// Complete sends the user message with the system instruction and returns the answer text.
func (c *Completer) Complete(ctx context.Context, req policycheck.CompletionRequest) (string, error) {
	result, err := c.client.Models.GenerateContent(ctx, c.model,
		[]*genai.Content{genai.NewContentFromText(req.User, genai.RoleUser)},
		BuildConfig(req),
	)
	if err != nil {
		return "", err
	}
	if result == nil {
		return "", policycheck.Errorf(policycheck.EINTERNAL, "gemini returned nil result")
	}

	return result.Text(), nil
}

// BuildConfig returns the GenerateContentConfig for a completion request.
func BuildConfig(req policycheck.CompletionRequest) *genai.GenerateContentConfig {
	temp := float32(0.2)
	config := &genai.GenerateContentConfig{
		SystemInstruction: &genai.Content{
			Parts: []*genai.Part{{Text: req.System}},
		},
		Temperature: &temp,
	}
	if req.JSON {
		config.ResponseMIMEType = "application/json"
	}
	if req.MaxTokens > 0 {
		config.MaxOutputTokens = int32(req.MaxTokens)
	}
	return config
}
