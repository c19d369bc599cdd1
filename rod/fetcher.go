// Package rod provides a policycheck.Fetcher that renders pages in headless
// Chrome, for pages whose text is produced by JavaScript.
package rod

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/fwojciec/policycheck"
	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/launcher"
	"github.com/go-rod/rod/lib/proto"
)

// DefaultFetchTimeout bounds navigation and rendering of a single page.
const DefaultFetchTimeout = 30 * time.Second

// DefaultUserAgent matches the header sent by the plain HTTP fetcher.
const DefaultUserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/91.0.4472.124 Safari/537.36"

// ErrClosed is returned by Fetch after Close.
var ErrClosed = errors.New("fetcher is closed")

// navigationStatusJS reads the HTTP status of the main document. Chrome
// reports 0 when the status is unknown.
const navigationStatusJS = `() => {
	const entry = performance.getEntriesByType("navigation")[0];
	return entry && entry.responseStatus ? entry.responseStatus : 0;
}`

// Ensure Fetcher implements policycheck.Fetcher at compile time.
var _ policycheck.Fetcher = (*Fetcher)(nil)

// Fetcher retrieves rendered HTML from URLs using Chrome browser automation.
// Fetcher is safe for concurrent use by multiple goroutines.
type Fetcher struct {
	browser   *rod.Browser
	launcher  *launcher.Launcher
	timeout   time.Duration
	userAgent string
	closed    atomic.Bool
}

// Option configures a Fetcher.
type Option func(*Fetcher)

// WithFetchTimeout sets the per-page timeout.
func WithFetchTimeout(d time.Duration) Option {
	return func(f *Fetcher) {
		f.timeout = d
	}
}

// WithUserAgent overrides the browser's User-Agent header.
func WithUserAgent(ua string) Option {
	return func(f *Fetcher) {
		f.userAgent = ua
	}
}

// NewFetcher creates a new Fetcher that launches a headless Chrome browser.
// Close must be called when the Fetcher is no longer needed.
//
// Returns an error if Chrome/Chromium cannot be found or launched.
func NewFetcher(opts ...Option) (*Fetcher, error) {
	f := &Fetcher{
		timeout:   DefaultFetchTimeout,
		userAgent: DefaultUserAgent,
	}
	for _, opt := range opts {
		opt(f)
	}

	l := launcher.New().Headless(true)
	u, err := l.Launch()
	if err != nil {
		return nil, fmt.Errorf("launching browser: %w", err)
	}

	browser := rod.New().ControlURL(u)
	if err := browser.Connect(); err != nil {
		l.Kill()
		return nil, fmt.Errorf("connecting to browser: %w", err)
	}

	f.browser = browser
	f.launcher = l
	return f, nil
}

// Fetch navigates to the URL and returns the rendered HTML. Failures are
// reported as *policycheck.FetchError, classified like the HTTP fetcher does.
func (f *Fetcher) Fetch(ctx context.Context, rawURL string) (string, error) {
	if f.closed.Load() {
		return "", &policycheck.FetchError{Kind: policycheck.FetchSetup, URL: rawURL, Err: ErrClosed}
	}
	u, err := policycheck.ParsePageURL(rawURL)
	if err != nil {
		return "", &policycheck.FetchError{Kind: policycheck.FetchSetup, URL: rawURL, Err: err}
	}
	if err := ctx.Err(); err != nil {
		return "", &policycheck.FetchError{Kind: policycheck.FetchNoResponse, URL: rawURL, Err: err}
	}

	ctx, cancel := context.WithTimeout(ctx, f.timeout)
	defer cancel()

	page, err := f.browser.Page(proto.TargetCreateTarget{})
	if err != nil {
		return "", &policycheck.FetchError{Kind: policycheck.FetchSetup, URL: rawURL, Err: err}
	}
	defer page.Close()

	page = page.Context(ctx)

	if err := page.SetUserAgent(&proto.NetworkSetUserAgentOverride{
		UserAgent:      f.userAgent,
		AcceptLanguage: "en-US,en;q=0.5",
	}); err != nil {
		return "", &policycheck.FetchError{Kind: policycheck.FetchSetup, URL: rawURL, Err: err}
	}

	if err := page.Navigate(u.String()); err != nil {
		return "", noResponse(ctx, rawURL, err)
	}
	if err := page.WaitLoad(); err != nil {
		return "", noResponse(ctx, rawURL, err)
	}

	if status := documentStatus(page); status != 0 && (status < 200 || status >= 300) {
		return "", &policycheck.FetchError{Kind: policycheck.FetchHTTPStatus, URL: rawURL, StatusCode: status}
	}

	html, err := page.HTML()
	if err != nil {
		return "", noResponse(ctx, rawURL, err)
	}
	return html, nil
}

// Close releases browser resources. It is safe to call more than once.
func (f *Fetcher) Close() error {
	if !f.closed.CompareAndSwap(false, true) {
		return nil
	}
	err := f.browser.Close()
	f.launcher.Kill()
	return err
}

// LauncherPID returns the process ID of the launched browser.
func (f *Fetcher) LauncherPID() int {
	return f.launcher.PID()
}

// documentStatus returns the main document's HTTP status, or 0 if unknown.
func documentStatus(page *rod.Page) int {
	obj, err := page.Eval(navigationStatusJS)
	if err != nil {
		return 0
	}
	return obj.Value.Int()
}

// noResponse builds a FetchNoResponse error, preferring the context error
// when the page was abandoned because ctx ended.
func noResponse(ctx context.Context, rawURL string, err error) error {
	if ctxErr := ctx.Err(); ctxErr != nil {
		err = ctxErr
	}
	return &policycheck.FetchError{Kind: policycheck.FetchNoResponse, URL: rawURL, Err: err}
}
