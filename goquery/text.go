// Package goquery extracts readable text from HTML using CSS selectors.
package goquery

import (
	"errors"
	"io"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/fwojciec/policycheck"
	"golang.org/x/net/html"
)

// Ensure Extractor implements policycheck.Extractor at compile time.
var _ policycheck.Extractor = (*Extractor)(nil)

// DefaultSelectors lists content selectors in priority order. Semantic
// containers come first so that marked-up main content wins over the
// whole body.
var DefaultSelectors = []string{
	"article",
	"main",
	"body",
	"#main-content",
	".content",
	"#content",
}

// ignoredElements never contribute text.
const ignoredElements = "script, style, noscript, template"

// skippedTags are the elements whose content tokenText drops. It mirrors
// ignoredElements plus the document head, which body text never includes.
var skippedTags = map[string]bool{
	"head":     true,
	"title":    true,
	"script":   true,
	"style":    true,
	"noscript": true,
	"template": true,
}

// Extractor extracts the main text of a page by trying content selectors
// in order and keeping the first one that yields text.
type Extractor struct {
	selectors []string
}

// NewExtractor creates a new Extractor using DefaultSelectors.
func NewExtractor() *Extractor {
	return &Extractor{selectors: DefaultSelectors}
}

// NewExtractorWithSelectors creates an Extractor that tries selectors in the given order.
func NewExtractorWithSelectors(selectors []string) *Extractor {
	return &Extractor{selectors: selectors}
}

// Extract parses html and returns the normalized text of the first selector
// with non-empty text, falling back to the full body text.
//
// Documents the HTML parser rejects, such as pages nested deeper than it
// allows, are read token by token instead and yield all of their text.
func (e *Extractor) Extract(html string) (string, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		text, terr := tokenText(html)
		if terr != nil {
			return "", policycheck.WrapError(errors.Join(err, terr), policycheck.EINTERNAL, "Failed to extract page text")
		}
		return NormalizeWhitespace(text), nil
	}

	doc.Find(ignoredElements).Remove()

	for _, selector := range e.selectors {
		if text := strings.TrimSpace(doc.Find(selector).Text()); text != "" {
			return NormalizeWhitespace(text), nil
		}
	}

	return NormalizeWhitespace(doc.Find("body").Text()), nil
}

// NormalizeWhitespace collapses every run of whitespace, including newlines
// and tabs, into a single space and trims both ends. It is idempotent.
func NormalizeWhitespace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

// tokenText concatenates the text tokens of src outside skippedTags.
func tokenText(src string) (string, error) {
	var sb strings.Builder
	z := html.NewTokenizer(strings.NewReader(src))
	skip := 0
	for {
		switch z.Next() {
		case html.ErrorToken:
			if err := z.Err(); !errors.Is(err, io.EOF) {
				return "", err
			}
			return sb.String(), nil
		case html.StartTagToken:
			name, _ := z.TagName()
			switch {
			case string(name) == "body":
				skip = 0
			case skippedTags[string(name)]:
				skip++
			}
		case html.EndTagToken:
			if name, _ := z.TagName(); skippedTags[string(name)] && skip > 0 {
				skip--
			}
		case html.TextToken:
			if skip == 0 {
				sb.Write(z.Text())
			}
		}
	}
}
