// Package http provides the HTTP surface of policycheck: a policycheck.Fetcher
// that downloads pages the way a desktop browser would, and a Server that
// exposes compliance checks as a JSON API.
package http

import (
	"compress/gzip"
	"compress/zlib"
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/andybalholm/brotli"
	"github.com/fwojciec/policycheck"
	"golang.org/x/net/html/charset"
)

// DefaultFetchTimeout is the default timeout for HTTP requests, redirects included.
const DefaultFetchTimeout = 10 * time.Second

// DefaultMaxRedirects is the number of redirects followed before the last
// redirect response is returned as-is.
const DefaultMaxRedirects = 5

// DefaultMaxBodySize caps the number of decoded bytes read from a response.
const DefaultMaxBodySize = 10 << 20

// DefaultUserAgent identifies requests as coming from desktop Chrome. Many
// sites block or alter responses for clients that do not look like a browser.
const DefaultUserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/91.0.4472.124 Safari/537.36"

// Ensure Fetcher implements policycheck.Fetcher at compile time.
var _ policycheck.Fetcher = (*Fetcher)(nil)

// Fetcher retrieves HTML content from URLs using plain HTTP requests.
// It does not execute JavaScript; see rod.Fetcher for rendered pages.
type Fetcher struct {
	client       *http.Client
	timeout      time.Duration
	maxRedirects int
	maxBodySize  int64
}

// Option configures a Fetcher.
type Option func(*Fetcher)

// WithTimeout sets the timeout for HTTP requests.
// Defaults to DefaultFetchTimeout (10s) if not specified.
func WithTimeout(d time.Duration) Option {
	return func(f *Fetcher) {
		f.timeout = d
	}
}

// WithMaxRedirects sets how many redirects are followed.
// Defaults to DefaultMaxRedirects (5) if not specified.
func WithMaxRedirects(n int) Option {
	return func(f *Fetcher) {
		f.maxRedirects = n
	}
}

// WithMaxBodySize sets the maximum number of decoded body bytes read.
func WithMaxBodySize(n int64) Option {
	return func(f *Fetcher) {
		f.maxBodySize = n
	}
}

// NewFetcher creates a new HTTP-based Fetcher.
func NewFetcher(opts ...Option) *Fetcher {
	f := &Fetcher{
		timeout:      DefaultFetchTimeout,
		maxRedirects: DefaultMaxRedirects,
		maxBodySize:  DefaultMaxBodySize,
	}
	for _, opt := range opts {
		opt(f)
	}

	f.client = &http.Client{
		Timeout: f.timeout,
		CheckRedirect: func(req *http.Request, via []*http.Request) error {
			if len(via) > f.maxRedirects {
				return http.ErrUseLastResponse
			}
			return nil
		},
	}

	return f
}

// Fetch retrieves the HTML content from the given URL, decoded to UTF-8.
// Only 2xx responses are successful; every failure is a *policycheck.FetchError.
func (f *Fetcher) Fetch(ctx context.Context, rawURL string) (string, error) {
	req, err := newBrowserRequest(ctx, rawURL)
	if err != nil {
		return "", &policycheck.FetchError{Kind: policycheck.FetchSetup, URL: rawURL, Err: err}
	}

	resp, err := f.client.Do(req)
	if err != nil {
		return "", &policycheck.FetchError{Kind: policycheck.FetchNoResponse, URL: rawURL, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return "", &policycheck.FetchError{
			Kind:       policycheck.FetchHTTPStatus,
			URL:        rawURL,
			StatusCode: resp.StatusCode,
		}
	}

	body, err := f.readBody(resp)
	if err != nil {
		return "", &policycheck.FetchError{Kind: policycheck.FetchNoResponse, URL: rawURL, Err: err}
	}

	return body, nil
}

// Close releases idle connections.
func (f *Fetcher) Close() error {
	f.client.CloseIdleConnections()
	return nil
}

// newBrowserRequest builds a GET request carrying desktop browser headers.
func newBrowserRequest(ctx context.Context, rawURL string) (*http.Request, error) {
	u, err := policycheck.ParsePageURL(rawURL)
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return nil, err
	}

	req.Header.Set("User-Agent", DefaultUserAgent)
	req.Header.Set("Accept", "text/html,application/xhtml+xml,application/xml;q=0.9,image/avif,image/webp,*/*;q=0.8")
	req.Header.Set("Accept-Language", "en-US,en;q=0.5")
	// Setting Accept-Encoding disables the transport's transparent gzip,
	// so readBody decodes the response itself.
	req.Header.Set("Accept-Encoding", "gzip, deflate, br")
	req.Header.Set("Connection", "keep-alive")
	req.Header.Set("Upgrade-Insecure-Requests", "1")

	return req, nil
}

// readBody decompresses and transcodes the response body to UTF-8.
func (f *Fetcher) readBody(resp *http.Response) (string, error) {
	var r io.Reader = resp.Body

	switch enc := strings.ToLower(strings.TrimSpace(resp.Header.Get("Content-Encoding"))); enc {
	case "", "identity":
	case "gzip", "x-gzip":
		gr, err := gzip.NewReader(resp.Body)
		if err != nil {
			return "", fmt.Errorf("gzip: %w", err)
		}
		defer gr.Close()
		r = gr
	case "deflate":
		zr, err := zlib.NewReader(resp.Body)
		if err != nil {
			return "", fmt.Errorf("deflate: %w", err)
		}
		defer zr.Close()
		r = zr
	case "br":
		r = brotli.NewReader(resp.Body)
	default:
		return "", fmt.Errorf("unsupported content encoding %q", enc)
	}

	r = io.LimitReader(r, f.maxBodySize)

	utf8Reader, err := charset.NewReader(r, resp.Header.Get("Content-Type"))
	if err != nil {
		return "", fmt.Errorf("charset: %w", err)
	}

	body, err := io.ReadAll(utf8Reader)
	if err != nil {
		return "", err
	}

	return string(body), nil
}
