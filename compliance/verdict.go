package compliance

import (
	"encoding/json"
	"strings"

	"github.com/fwojciec/policycheck"
)

// UndeterminedFinding replaces missing or empty findings so that a verdict
// is never silently empty.
const UndeterminedFinding = "Unable to determine compliance"

// verdictFields mirrors the JSON object requested from the model. Fields are
// decoded one at a time so that a bad field only resets itself.
type verdictFields struct {
	Compliant json.RawMessage `json:"compliant"`
	Findings  json.RawMessage `json:"findings"`
}

// ParseVerdict decodes a model answer into a verdict. It never fails:
//   - a surrounding markdown code fence is ignored
//   - text that is empty or not a JSON object is treated as {}
//   - compliant is false unless it is a JSON boolean true
//   - findings keeps its non-blank strings, and becomes
//     [UndeterminedFinding] when nothing usable remains
func ParseVerdict(text string) *policycheck.Verdict {
	var fields verdictFields
	if err := json.Unmarshal([]byte(stripCodeFence(text)), &fields); err != nil {
		fields = verdictFields{}
	}

	verdict := &policycheck.Verdict{
		Compliant: parseCompliant(fields.Compliant),
		Findings:  parseFindings(fields.Findings),
	}
	if len(verdict.Findings) == 0 {
		verdict.Findings = []string{UndeterminedFinding}
	}
	return verdict
}

func parseCompliant(raw json.RawMessage) bool {
	var compliant bool
	if err := json.Unmarshal(raw, &compliant); err != nil {
		return false
	}
	return compliant
}

func parseFindings(raw json.RawMessage) []string {
	var items []json.RawMessage
	if err := json.Unmarshal(raw, &items); err != nil {
		return nil
	}

	findings := make([]string, 0, len(items))
	for _, item := range items {
		var s string
		if err := json.Unmarshal(item, &s); err != nil {
			continue
		}
		if s = strings.TrimSpace(s); s != "" {
			findings = append(findings, s)
		}
	}
	return findings
}

// stripCodeFence removes a ```json ... ``` wrapper some models add even in JSON mode.
func stripCodeFence(text string) string {
	text = strings.TrimSpace(text)
	if !strings.HasPrefix(text, "```") || !strings.HasSuffix(text, "```") || len(text) < 6 {
		return text
	}
	text = strings.TrimSuffix(strings.TrimPrefix(text, "```"), "```")
	if i := strings.IndexByte(text, '\n'); i >= 0 && !strings.HasPrefix(strings.TrimSpace(text[:i]), "{") {
		text = text[i+1:]
	}
	return strings.TrimSpace(text)
}
