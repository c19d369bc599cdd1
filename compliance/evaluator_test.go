package compliance_test

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/fwojciec/policycheck"
	"github.com/fwojciec/policycheck/compliance"
	"github.com/fwojciec/policycheck/mock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEvaluator_Evaluate(t *testing.T) {
	t.Parallel()

	t.Run("returns parsed verdict", func(t *testing.T) {
		t.Parallel()

		completer := &mock.Completer{
			CompleteFn: func(context.Context, policycheck.CompletionRequest) (string, error) {
				return `{"compliant": false, "findings": ["Uses the word 'bank'", "Promises FDIC insurance"]}`, nil
			},
		}

		verdict, err := compliance.NewEvaluator(completer).Evaluate(context.Background(), "page", "policy")

		require.NoError(t, err)
		assert.False(t, verdict.Compliant)
		assert.Equal(t, []string{"Uses the word 'bank'", "Promises FDIC insurance"}, verdict.Findings)
	})

	t.Run("sends JSON request with bounded output", func(t *testing.T) {
		t.Parallel()

		var got policycheck.CompletionRequest
		completer := &mock.Completer{
			CompleteFn: func(_ context.Context, req policycheck.CompletionRequest) (string, error) {
				got = req
				return `{"compliant": true, "findings": ["No issues"]}`, nil
			},
		}

		_, err := compliance.NewEvaluator(completer).Evaluate(context.Background(), "PAGE TEXT", "POLICY TEXT")

		require.NoError(t, err)
		assert.True(t, got.JSON)
		assert.Equal(t, 750, got.MaxTokens)
		assert.Equal(t, compliance.SystemPrompt, got.System)
		assert.Contains(t, got.User, "PAGE TEXT")
		assert.Contains(t, got.User, "POLICY TEXT")
	})

	t.Run("defaults malformed answer instead of failing", func(t *testing.T) {
		t.Parallel()

		completer := &mock.Completer{
			CompleteFn: func(context.Context, policycheck.CompletionRequest) (string, error) {
				return "I think it is mostly fine.", nil
			},
		}

		verdict, err := compliance.NewEvaluator(completer).Evaluate(context.Background(), "page", "policy")

		require.NoError(t, err)
		assert.Equal(t, &policycheck.Verdict{
			Compliant: false,
			Findings:  []string{compliance.UndeterminedFinding},
		}, verdict)
	})

	t.Run("wraps model failure as check failure", func(t *testing.T) {
		t.Parallel()

		cause := errors.New("429 Too Many Requests")
		completer := &mock.Completer{
			CompleteFn: func(context.Context, policycheck.CompletionRequest) (string, error) {
				return "", cause
			},
		}

		_, err := compliance.NewEvaluator(completer).Evaluate(context.Background(), "page", "policy")

		require.Error(t, err)
		assert.ErrorIs(t, err, cause)
		assert.Equal(t, policycheck.ECHECKFAILED, policycheck.ErrorCode(err))
		assert.Equal(t, "Failed to perform compliance check", policycheck.ErrorMessage(err))
	})

	t.Run("bounds the model call", func(t *testing.T) {
		t.Parallel()

		completer := &mock.Completer{
			CompleteFn: func(ctx context.Context, _ policycheck.CompletionRequest) (string, error) {
				<-ctx.Done()
				return "", ctx.Err()
			},
		}
		evaluator := compliance.NewEvaluator(completer, compliance.WithTimeout(20*time.Millisecond))

		_, err := evaluator.Evaluate(context.Background(), "page", "policy")

		require.Error(t, err)
		assert.ErrorIs(t, err, context.DeadlineExceeded)
		assert.Equal(t, policycheck.ECHECKFAILED, policycheck.ErrorCode(err))
	})
}

func TestBuildUserPrompt_PolicyBeforePage(t *testing.T) {
	t.Parallel()

	prompt := compliance.BuildUserPrompt("the page", "the policy")

	policyAt := strings.Index(prompt, "the policy")
	pageAt := strings.Index(prompt, "the page")
	require.GreaterOrEqual(t, policyAt, 0)
	require.GreaterOrEqual(t, pageAt, 0)
	assert.Less(t, policyAt, pageAt)
	assert.Contains(t, prompt, "COMPLIANCE POLICY DETAILS:")
	assert.Contains(t, prompt, "WEBPAGE CONTENT TO CHECK:")
	assert.Contains(t, prompt, "Be precise and comprehensive")
}

func TestBuildUserPrompt_IsDeterministic(t *testing.T) {
	t.Parallel()

	assert.Equal(t,
		compliance.BuildUserPrompt("page", "policy"),
		compliance.BuildUserPrompt("page", "policy"),
	)
}

func TestBuildUserPrompt_DoesNotContainSystemInstruction(t *testing.T) {
	t.Parallel()

	prompt := compliance.BuildUserPrompt("page", "policy")

	assert.NotContains(t, prompt, "You are a compliance expert")
}

func TestSystemPrompt_DescribesVerdictShape(t *testing.T) {
	t.Parallel()

	assert.Contains(t, compliance.SystemPrompt, "compliance expert")
	assert.Contains(t, compliance.SystemPrompt, "line-by-line")
	assert.Contains(t, compliance.SystemPrompt, "compliant: boolean")
	assert.Contains(t, compliance.SystemPrompt, "findings: string[]")
}
