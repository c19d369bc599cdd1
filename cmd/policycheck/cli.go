package main

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/fwojciec/policycheck"
)

// Dependencies holds all services and configuration for command execution.
type Dependencies struct {
	Ctx     context.Context
	Stdout  io.Writer
	Stderr  io.Writer
	Logger  *slog.Logger
	Pages   policycheck.PageFetcher
	Checker policycheck.Checker
	Metrics http.Handler
}

// CLI defines the command-line interface structure for Kong.
type CLI struct {
	Verbose          bool   `short:"v" env:"POLICYCHECK_VERBOSE" help:"Log at debug level"`
	DefaultPolicyURL string `name:"default-policy-url" env:"POLICYCHECK_DEFAULT_POLICY_URL" default:"${default_policy_url}" help:"Policy page used when a request names none"`

	FetchOptions `embed:""`
	ModelOptions `embed:""`

	Serve   ServeCmd   `cmd:"" help:"Serve the compliance check API"`
	Check   CheckCmd   `cmd:"" help:"Check one page and print the JSON result"`
	Extract ExtractCmd `cmd:"" help:"Print the text extracted from a page"`
}

// FetchOptions configures how pages are retrieved.
type FetchOptions struct {
	FetchTimeout time.Duration `env:"POLICYCHECK_FETCH_TIMEOUT" default:"${fetch_timeout}" help:"Timeout for fetching one page"`
	MaxRedirects int           `env:"POLICYCHECK_MAX_REDIRECTS" default:"${max_redirects}" help:"Redirects followed per fetch"`
	Render       bool          `env:"POLICYCHECK_RENDER" help:"Render pages in headless Chrome before extracting text"`
}

// ModelOptions configures the language model backend.
type ModelOptions struct {
	Provider        string        `enum:"azure,gemini" default:"azure" env:"POLICYCHECK_PROVIDER" help:"Model provider (azure, gemini)"`
	AzureEndpoint   string        `env:"AZURE_ENDPOINT" help:"Azure OpenAI endpoint"`
	AzureAPIKey     string        `name:"azure-api-key" env:"AZURE_OPENAI_KEY" help:"Azure OpenAI API key"`
	AzureDeployment string        `env:"AZURE_DEPLOYMENT" help:"Azure OpenAI deployment name"`
	AzureAPIVersion string        `name:"azure-api-version" env:"AZURE_API_VERSION" default:"${azure_api_version}" help:"Azure OpenAI API version"`
	GeminiAPIKey    string        `name:"gemini-api-key" env:"GEMINI_API_KEY" help:"Gemini API key"`
	GeminiModel     string        `env:"POLICYCHECK_GEMINI_MODEL" default:"${gemini_model}" help:"Gemini model name"`
	EvalTimeout     time.Duration `env:"POLICYCHECK_EVAL_TIMEOUT" default:"${eval_timeout}" help:"Timeout for one model evaluation"`
}

// ServeCmd is the "serve" subcommand.
type ServeCmd struct {
	Addr string `env:"POLICYCHECK_ADDR,PORT" default:":8000" help:"Listen address or port"`
}

// CheckCmd is the "check" subcommand.
type CheckCmd struct {
	PageURL   string `arg:"" name:"page-url" help:"Page to check"`
	PolicyURL string `name:"policy-url" help:"Policy page (defaults to --default-policy-url)"`
}

// ExtractCmd is the "extract" subcommand.
type ExtractCmd struct {
	URL string `arg:"" help:"Page to extract text from"`
}
