package mock

import "github.com/fwojciec/policycheck"

var _ policycheck.Extractor = (*Extractor)(nil)

// Extractor is a mock implementation of policycheck.Extractor.
type Extractor struct {
	ExtractFn func(html string) (string, error)
}

func (e *Extractor) Extract(html string) (string, error) {
	return e.ExtractFn(html)
}
