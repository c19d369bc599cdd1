//go:build integration

package rod_test

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/fwojciec/policycheck"
	"github.com/fwojciec/policycheck/goquery"
	"github.com/fwojciec/policycheck/rod"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFetcher_Fetch(t *testing.T) {
	t.Parallel()

	fetcher, err := rod.NewFetcher(rod.WithFetchTimeout(5 * time.Second))
	require.NoError(t, err)
	t.Cleanup(func() { _ = fetcher.Close() })

	t.Run("returns rendered HTML", func(t *testing.T) {
		t.Parallel()

		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Type", "text/html")
			_, _ = w.Write([]byte(`<!DOCTYPE html>
<html>
<body>
<article id="offer">Loading...</article>
<script>
document.getElementById('offer').textContent = 'Earn 4% APY on your balance';
</script>
</body>
</html>`))
		}))
		defer srv.Close()

		html, err := fetcher.Fetch(context.Background(), srv.URL)

		require.NoError(t, err)
		assert.Contains(t, html, "Earn 4% APY on your balance")

		text, err := goquery.NewExtractor().Extract(html)
		require.NoError(t, err)
		assert.Equal(t, "Earn 4% APY on your balance", text)
	})

	t.Run("sends browser user agent", func(t *testing.T) {
		t.Parallel()

		agents := make(chan string, 4)
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			agents <- r.UserAgent()
			_, _ = w.Write([]byte(`<html><body>ok</body></html>`))
		}))
		defer srv.Close()

		_, err := fetcher.Fetch(context.Background(), srv.URL)

		require.NoError(t, err)
		assert.Equal(t, rod.DefaultUserAgent, <-agents)
	})

	t.Run("reports non-2xx status", func(t *testing.T) {
		t.Parallel()

		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusNotFound)
			_, _ = w.Write([]byte(`<html><body>missing</body></html>`))
		}))
		defer srv.Close()

		_, err := fetcher.Fetch(context.Background(), srv.URL)

		var fe *policycheck.FetchError
		require.True(t, errors.As(err, &fe))
		assert.Equal(t, policycheck.FetchHTTPStatus, fe.Kind)
		assert.Equal(t, http.StatusNotFound, fe.StatusCode)
	})

	t.Run("rejects relative URL without navigating", func(t *testing.T) {
		t.Parallel()

		_, err := fetcher.Fetch(context.Background(), "/marketing")

		var fe *policycheck.FetchError
		require.True(t, errors.As(err, &fe))
		assert.Equal(t, policycheck.FetchSetup, fe.Kind)
	})

	t.Run("honors cancelled context", func(t *testing.T) {
		t.Parallel()

		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		_, err := fetcher.Fetch(ctx, "https://example.com")

		require.Error(t, err)
		assert.ErrorIs(t, err, context.Canceled)
		assert.Equal(t, "No response received from the server", policycheck.ErrorMessage(err))
	})
}

func TestFetcher_Fetch_TimeoutTriggersOnSlowPage(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(500 * time.Millisecond)
		_, _ = w.Write([]byte(`<html><body>delayed</body></html>`))
	}))
	defer srv.Close()

	fetcher, err := rod.NewFetcher(rod.WithFetchTimeout(100 * time.Millisecond))
	require.NoError(t, err)
	defer fetcher.Close()

	_, err = fetcher.Fetch(context.Background(), srv.URL)

	require.Error(t, err)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestFetcher_Close(t *testing.T) {
	t.Parallel()

	fetcher, err := rod.NewFetcher()
	require.NoError(t, err)

	require.NoError(t, fetcher.Close())
	require.NoError(t, fetcher.Close())

	_, err = fetcher.Fetch(context.Background(), "http://example.com")

	require.Error(t, err)
	assert.ErrorIs(t, err, rod.ErrClosed)
	assert.Equal(t, policycheck.EFETCH, policycheck.ErrorCode(err))
}
