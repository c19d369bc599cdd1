// Package openai implements policycheck.Completer with the OpenAI chat
// completions API, including Azure OpenAI deployments.
package openai

import (
	"context"

	"github.com/fwojciec/policycheck"
	"github.com/openai/openai-go/v3"
	"github.com/openai/openai-go/v3/azure"
	"github.com/openai/openai-go/v3/option"
	"github.com/openai/openai-go/v3/shared"
)

// DefaultAzureAPIVersion is the Azure OpenAI API version used when none is configured.
const DefaultAzureAPIVersion = "2024-05-01-preview"

// Ensure Completer implements policycheck.Completer at compile time.
var _ policycheck.Completer = (*Completer)(nil)

// Completer implements policycheck.Completer using chat completions.
type Completer struct {
	client openai.Client
	model  string
}

// NewCompleter creates a Completer from an existing client. For Azure the
// model is the deployment name.
func NewCompleter(client openai.Client, model string) *Completer {
	return &Completer{client: client, model: model}
}

// AzureConfig holds the settings of an Azure OpenAI deployment.
type AzureConfig struct {
	Endpoint   string
	APIKey     string
	Deployment string
	APIVersion string
}

// NewAzureCompleter creates a Completer for an Azure OpenAI deployment.
// The SDK's automatic retries are disabled; failures surface to the caller.
func NewAzureCompleter(cfg AzureConfig, opts ...option.RequestOption) (*Completer, error) {
	if cfg.Endpoint == "" {
		return nil, policycheck.Errorf(policycheck.EINVALID, "azure endpoint required")
	}
	if cfg.APIKey == "" {
		return nil, policycheck.Errorf(policycheck.EINVALID, "azure API key required")
	}
	if cfg.Deployment == "" {
		return nil, policycheck.Errorf(policycheck.EINVALID, "azure deployment required")
	}
	apiVersion := cfg.APIVersion
	if apiVersion == "" {
		apiVersion = DefaultAzureAPIVersion
	}

	opts = append([]option.RequestOption{
		azure.WithEndpoint(cfg.Endpoint, apiVersion),
		azure.WithAPIKey(cfg.APIKey),
		option.WithMaxRetries(0),
	}, opts...)

	return NewCompleter(openai.NewClient(opts...), cfg.Deployment), nil
}

// Complete sends a system and a user message and returns the first choice's content.
func (c *Completer) Complete(ctx context.Context, req policycheck.CompletionRequest) (string, error) {
	params := BuildParams(c.model, req)

	resp, err := c.client.Chat.Completions.New(ctx, params)
	if err != nil {
		return "", err
	}
	if len(resp.Choices) == 0 {
		return "", nil
	}

	return resp.Choices[0].Message.Content, nil
}

// BuildParams returns the chat completion parameters for req.
func BuildParams(model string, req policycheck.CompletionRequest) openai.ChatCompletionNewParams {
	params := openai.ChatCompletionNewParams{
		Model: model,
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.SystemMessage(req.System),
			openai.UserMessage(req.User),
		},
	}
	if req.JSON {
		params.ResponseFormat = openai.ChatCompletionNewParamsResponseFormatUnion{
			OfJSONObject: &shared.ResponseFormatJSONObjectParam{},
		}
	}
	if req.MaxTokens > 0 {
		params.MaxTokens = openai.Int(int64(req.MaxTokens))
	}
	return params
}
