package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/alecthomas/kong"
	"github.com/fwojciec/policycheck"
	"github.com/fwojciec/policycheck/check"
	"github.com/fwojciec/policycheck/compliance"
	"github.com/fwojciec/policycheck/gemini"
	"github.com/fwojciec/policycheck/goquery"
	pchttp "github.com/fwojciec/policycheck/http"
	"github.com/fwojciec/policycheck/openai"
	"github.com/fwojciec/policycheck/prometheus"
	"github.com/fwojciec/policycheck/rod"
	pcslog "github.com/fwojciec/policycheck/slog"
	"google.golang.org/genai"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	m := NewMain()

	if err := m.Run(ctx, os.Args[1:], os.Stdout, os.Stderr); err != nil {
		fmt.Fprintln(os.Stderr, err)
		stop()
		os.Exit(1)
	}
}

// Main represents the program.
type Main struct {
	// Fetcher and Completer replace the implementations built from flags.
	// Set before calling Run() for end-to-end testing.
	Fetcher   policycheck.Fetcher
	Completer policycheck.Completer
}

// NewMain returns a new instance of Main with defaults.
func NewMain() *Main {
	return &Main{}
}

// Run executes the CLI with the given arguments.
func (m *Main) Run(ctx context.Context, args []string, stdout, stderr io.Writer) error {
	deps := &Dependencies{
		Ctx:    ctx,
		Stdout: stdout,
		Stderr: stderr,
	}

	cli := &CLI{}
	parser, err := kong.New(cli,
		kong.Name("policycheck"),
		kong.Description("Check web pages against a compliance policy page"),
		kong.Writers(stdout, stderr),
		kong.Exit(func(int) {}),
		kong.Vars{
			"default_policy_url": policycheck.DefaultPolicyURL,
			"azure_api_version":  openai.DefaultAzureAPIVersion,
			"gemini_model":       gemini.DefaultModel,
			"fetch_timeout":      pchttp.DefaultFetchTimeout.String(),
			"max_redirects":      fmt.Sprint(pchttp.DefaultMaxRedirects),
			"eval_timeout":       compliance.DefaultTimeout.String(),
		},
		kong.Bind(deps),
	)
	if err != nil {
		return fmt.Errorf("failed to create parser: %w", err)
	}

	if len(args) == 0 {
		_, _ = parser.Parse([]string{"--help"})
		return fmt.Errorf("no command specified. Run 'policycheck --help' to see available commands")
	}

	if args[0] == "help" || args[0] == "--help" || args[0] == "-h" {
		_, _ = parser.Parse([]string{"--help"})
		return nil
	}

	kongCtx, err := parser.Parse(args)
	if err != nil {
		return err
	}
	cmd := strings.Fields(kongCtx.Command())[0]

	deps.Logger = newLogger(stderr, cli.Verbose)

	fetcher, err := m.newFetcher(cli)
	if err != nil {
		fmt.Fprintln(stderr, "Hint: Chrome or Chromium must be installed to use --render")
		return fmt.Errorf("failed to start browser: %w", err)
	}
	fetcher = pcslog.NewLoggingFetcher(fetcher, deps.Logger)
	defer fetcher.Close()

	deps.Pages = pcslog.NewLoggingPageFetcher(&check.PageFetcher{
		Fetcher:   fetcher,
		Extractor: goquery.NewExtractor(),
	}, deps.Logger)

	if cmd != "extract" {
		completer, err := m.newCompleter(ctx, cli, stderr)
		if err != nil {
			return err
		}
		completer = pcslog.NewLoggingCompleter(completer, deps.Logger)

		evaluator := pcslog.NewLoggingEvaluator(
			compliance.NewEvaluator(completer, compliance.WithTimeout(cli.EvalTimeout)),
			deps.Logger,
		)

		metrics := prometheus.NewChecker(pcslog.NewLoggingChecker(&check.Checker{
			Pages:            deps.Pages,
			Evaluator:        evaluator,
			DefaultPolicyURL: cli.DefaultPolicyURL,
		}, deps.Logger))
		deps.Checker = metrics
		deps.Metrics = metrics.Handler()
	}

	return kongCtx.Run(deps)
}

func (m *Main) newFetcher(cli *CLI) (policycheck.Fetcher, error) {
	if m.Fetcher != nil {
		return m.Fetcher, nil
	}
	if cli.Render {
		return rod.NewFetcher(rod.WithFetchTimeout(cli.FetchTimeout))
	}
	return pchttp.NewFetcher(
		pchttp.WithTimeout(cli.FetchTimeout),
		pchttp.WithMaxRedirects(cli.MaxRedirects),
	), nil
}

func (m *Main) newCompleter(ctx context.Context, cli *CLI, stderr io.Writer) (policycheck.Completer, error) {
	if m.Completer != nil {
		return m.Completer, nil
	}

	switch cli.Provider {
	case "gemini":
		if cli.GeminiAPIKey == "" {
			fmt.Fprintln(stderr, "GEMINI_API_KEY environment variable not set. Get an API key at https://aistudio.google.com/apikey")
			return nil, fmt.Errorf("GEMINI_API_KEY not set")
		}
		client, err := genai.NewClient(ctx, &genai.ClientConfig{
			APIKey:  cli.GeminiAPIKey,
			Backend: genai.BackendGeminiAPI,
		})
		if err != nil {
			fmt.Fprintln(stderr, "Hint: Check your GEMINI_API_KEY is valid")
			return nil, fmt.Errorf("failed to connect to Gemini API: %w", err)
		}
		return gemini.NewCompleter(client, cli.GeminiModel), nil
	default:
		completer, err := openai.NewAzureCompleter(openai.AzureConfig{
			Endpoint:   cli.AzureEndpoint,
			APIKey:     cli.AzureAPIKey,
			Deployment: cli.AzureDeployment,
			APIVersion: cli.AzureAPIVersion,
		})
		if err != nil {
			fmt.Fprintln(stderr, "Hint: Set AZURE_ENDPOINT, AZURE_OPENAI_KEY and AZURE_DEPLOYMENT")
			return nil, fmt.Errorf("failed to configure Azure OpenAI: %s", policycheck.ErrorMessage(err))
		}
		return completer, nil
	}
}

func newLogger(w io.Writer, verbose bool) *slog.Logger {
	level := slog.LevelInfo
	if verbose {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level}))
}
