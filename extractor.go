package policycheck

// Extractor turns an HTML document into normalized plain text.
type Extractor interface {
	// Extract parses html and returns the text of its main content with
	// whitespace normalized.
	Extract(html string) (string, error)
}
