// Package policycheck checks whether the text content of a web page complies
// with a compliance policy that is itself published as a web page. It fetches
// both documents, extracts their readable text, and asks a language model to
// judge the page against the policy.
//
// This package contains domain types and interfaces following Ben Johnson's
// Standard Package Layout. Implementations live in subdirectories named
// after their primary dependency (e.g., http/, goquery/, openai/).
package policycheck

import (
	"fmt"
	"net/url"
	"unicode/utf8"
)

// DefaultPolicyURL is the policy document used when a check request does not
// name one.
const DefaultPolicyURL = "https://stripe.com/docs/treasury/marketing-treasury"

// ContentLength returns the length of text in characters.
func ContentLength(text string) int {
	return utf8.RuneCountInString(text)
}

// ParsePageURL parses rawURL and requires it to be an absolute http or https
// URL with a host.
func ParsePageURL(rawURL string) (*url.URL, error) {
	u, err := url.Parse(rawURL)
	if err != nil {
		return nil, err
	}
	if !u.IsAbs() || u.Host == "" {
		return nil, fmt.Errorf("URL %q is not absolute", rawURL)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return nil, fmt.Errorf("unsupported protocol scheme %q", u.Scheme)
	}
	return u, nil
}
