package main_test

import (
	"bytes"
	"context"
	"testing"

	"github.com/fwojciec/policycheck"
	main "github.com/fwojciec/policycheck/cmd/policycheck"
	"github.com/fwojciec/policycheck/mock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCheckCmd_Run(t *testing.T) {
	t.Parallel()

	t.Run("prints indented JSON response", func(t *testing.T) {
		t.Parallel()

		checker := &mock.Checker{
			CheckFn: func(_ context.Context, req *policycheck.CheckRequest) (*policycheck.CheckResponse, error) {
				assert.Equal(t, "https://example.com/a", req.PageURL)
				assert.Equal(t, "https://example.com/p", req.PolicyURL)
				return &policycheck.CheckResponse{
					URL:       req.PageURL,
					PolicyURL: req.PolicyURL,
					Compliant: true,
					Findings:  []string{"ok"},
				}, nil
			},
		}

		stdout := &bytes.Buffer{}
		deps := &main.Dependencies{
			Ctx:     context.Background(),
			Stdout:  stdout,
			Stderr:  &bytes.Buffer{},
			Checker: checker,
		}

		cmd := &main.CheckCmd{PageURL: "https://example.com/a", PolicyURL: "https://example.com/p"}
		err := cmd.Run(deps)

		require.NoError(t, err)
		assert.Contains(t, stdout.String(), "\n  \"compliant\": true")
		assert.Contains(t, stdout.String(), `"policyUrl": "https://example.com/p"`)
	})

	t.Run("prints validation message", func(t *testing.T) {
		t.Parallel()

		checker := &mock.Checker{
			CheckFn: func(context.Context, *policycheck.CheckRequest) (*policycheck.CheckResponse, error) {
				return nil, policycheck.Errorf(policycheck.EINVALID, "Page URL is required")
			},
		}

		stdout, stderr := &bytes.Buffer{}, &bytes.Buffer{}
		deps := &main.Dependencies{Ctx: context.Background(), Stdout: stdout, Stderr: stderr, Checker: checker}

		err := (&main.CheckCmd{}).Run(deps)

		require.Error(t, err)
		assert.Empty(t, stdout.String())
		assert.Equal(t, "error: Page URL is required\n", stderr.String())
	})
}

func TestExtractCmd_Run(t *testing.T) {
	t.Parallel()

	pages := &mock.PageFetcher{
		FetchPageFn: func(_ context.Context, url string) (*policycheck.FetchResult, error) {
			return &policycheck.FetchResult{Body: "Größte Rendite"}, nil
		},
	}

	stdout, stderr := &bytes.Buffer{}, &bytes.Buffer{}
	deps := &main.Dependencies{Ctx: context.Background(), Stdout: stdout, Stderr: stderr, Pages: pages}

	err := (&main.ExtractCmd{URL: "https://example.com"}).Run(deps)

	require.NoError(t, err)
	assert.Equal(t, "Größte Rendite\n", stdout.String())
	assert.Equal(t, "14 characters\n", stderr.String())
}
