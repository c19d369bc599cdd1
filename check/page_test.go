package check_test

import (
	"context"
	"errors"
	"testing"

	"github.com/fwojciec/policycheck"
	"github.com/fwojciec/policycheck/check"
	"github.com/fwojciec/policycheck/mock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPageFetcher_FetchPage(t *testing.T) {
	t.Parallel()

	t.Run("extracts text from fetched HTML", func(t *testing.T) {
		t.Parallel()

		fetcher := &mock.Fetcher{
			FetchFn: func(_ context.Context, url string) (string, error) {
				return "<html>" + url + "</html>", nil
			},
		}
		extractor := &mock.Extractor{
			ExtractFn: func(html string) (string, error) {
				return "text of " + html, nil
			},
		}
		pages := &check.PageFetcher{Fetcher: fetcher, Extractor: extractor}

		result, err := pages.FetchPage(context.Background(), "https://example.com")

		require.NoError(t, err)
		assert.Equal(t, "text of <html>https://example.com</html>", result.Body)
	})

	t.Run("propagates fetch errors unchanged", func(t *testing.T) {
		t.Parallel()

		fetchErr := &policycheck.FetchError{Kind: policycheck.FetchSetup, Err: errors.New("bad url")}
		fetcher := &mock.Fetcher{
			FetchFn: func(context.Context, string) (string, error) {
				return "", fetchErr
			},
		}
		pages := &check.PageFetcher{Fetcher: fetcher}

		_, err := pages.FetchPage(context.Background(), "::")

		assert.Same(t, fetchErr, err)
	})

	t.Run("propagates extraction errors", func(t *testing.T) {
		t.Parallel()

		fetcher := &mock.Fetcher{
			FetchFn: func(context.Context, string) (string, error) {
				return "<html>", nil
			},
		}
		extractor := &mock.Extractor{
			ExtractFn: func(string) (string, error) {
				return "", policycheck.WrapError(errors.New("tokenizer failed"), policycheck.EINTERNAL, "Failed to extract page text")
			},
		}
		pages := &check.PageFetcher{Fetcher: fetcher, Extractor: extractor}

		_, err := pages.FetchPage(context.Background(), "https://example.com")

		require.Error(t, err)
		assert.Equal(t, policycheck.EINTERNAL, policycheck.ErrorCode(err))
		assert.Equal(t, "Failed to extract page text", policycheck.ErrorMessage(err))
	})
}
