package policycheck

import (
	"context"
	"strings"
)

// CheckRequest asks whether the page at PageURL complies with the policy
// published at PolicyURL.
type CheckRequest struct {
	PageURL string `json:"pageUrl"`

	// PolicyURL is optional; DefaultPolicyURL is used when empty.
	PolicyURL string `json:"policyUrl,omitempty"`
}

// Validate returns an error if the request contains invalid fields.
func (r *CheckRequest) Validate() error {
	if strings.TrimSpace(r.PageURL) == "" {
		return Errorf(EINVALID, "Page URL is required")
	}
	return nil
}

// CheckResponse is the result of a compliance check.
type CheckResponse struct {
	URL                 string   `json:"url"`
	PolicyURL           string   `json:"policyUrl"`
	PageContentLength   int      `json:"pageContentLength"`
	PolicyContentLength int      `json:"policyContentLength"`
	Compliant           bool     `json:"compliant"`
	Findings            []string `json:"findings"`
}

// Checker runs compliance checks.
type Checker interface {
	// Check fetches the page and policy named by req and evaluates the page
	// against the policy. Returns EINVALID before any network activity if the
	// request is invalid.
	Check(ctx context.Context, req *CheckRequest) (*CheckResponse, error)
}
