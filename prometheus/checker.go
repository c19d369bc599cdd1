// Package prometheus records metrics about compliance checks.
package prometheus

import (
	"context"
	"net/http"
	"time"

	"github.com/fwojciec/policycheck"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Check outcomes used as the "outcome" label.
const (
	OutcomeCompliant    = "compliant"
	OutcomeNonCompliant = "non_compliant"
	OutcomeError        = "error"
)

// Ensure Checker implements policycheck.Checker.
var _ policycheck.Checker = (*Checker)(nil)

// Checker wraps a policycheck.Checker and counts and times every check.
// Metrics live in a private registry exposed through Handler.
type Checker struct {
	next policycheck.Checker

	checksTotal   *prometheus.CounterVec
	checkDuration *prometheus.HistogramVec
	contentChars  *prometheus.HistogramVec

	registry *prometheus.Registry
}

// NewChecker creates a Checker that records metrics for next.
func NewChecker(next policycheck.Checker) *Checker {
	c := &Checker{
		next:     next,
		registry: prometheus.NewRegistry(),

		checksTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "policycheck_checks_total",
				Help: "Total number of compliance checks by outcome and error code",
			},
			[]string{"outcome", "code"},
		),

		checkDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "policycheck_check_duration_seconds",
				Help:    "Compliance check latency in seconds",
				Buckets: []float64{0.25, 0.5, 1, 2.5, 5, 10, 20, 30, 60, 90},
			},
			[]string{"outcome"},
		),

		contentChars: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "policycheck_content_chars",
				Help:    "Length in characters of extracted text by document",
				Buckets: prometheus.ExponentialBuckets(256, 4, 8),
			},
			[]string{"document"},
		),
	}

	c.registry.MustRegister(c.checksTotal, c.checkDuration, c.contentChars)
	return c
}

// Check delegates to the wrapped checker and records the outcome.
func (c *Checker) Check(ctx context.Context, req *policycheck.CheckRequest) (*policycheck.CheckResponse, error) {
	begin := time.Now()
	resp, err := c.next.Check(ctx, req)

	outcome := Outcome(resp, err)
	c.checksTotal.WithLabelValues(outcome, policycheck.ErrorCode(err)).Inc()
	c.checkDuration.WithLabelValues(outcome).Observe(time.Since(begin).Seconds())
	if resp != nil {
		c.contentChars.WithLabelValues("page").Observe(float64(resp.PageContentLength))
		c.contentChars.WithLabelValues("policy").Observe(float64(resp.PolicyContentLength))
	}
	return resp, err
}

// Handler returns an HTTP handler serving the checker's metrics.
func (c *Checker) Handler() http.Handler {
	return promhttp.HandlerFor(c.registry, promhttp.HandlerOpts{})
}

// Registry returns the registry holding the checker's metrics.
func (c *Checker) Registry() *prometheus.Registry {
	return c.registry
}

// Outcome maps a check result to its outcome label.
func Outcome(resp *policycheck.CheckResponse, err error) string {
	switch {
	case err != nil || resp == nil:
		return OutcomeError
	case resp.Compliant:
		return OutcomeCompliant
	default:
		return OutcomeNonCompliant
	}
}
