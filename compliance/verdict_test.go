package compliance_test

import (
	"testing"

	"github.com/fwojciec/policycheck"
	"github.com/fwojciec/policycheck/compliance"
	"github.com/stretchr/testify/assert"
)

func TestParseVerdict(t *testing.T) {
	t.Parallel()

	undetermined := []string{compliance.UndeterminedFinding}

	tests := []struct {
		name string
		text string
		want *policycheck.Verdict
	}{
		{
			name: "well formed",
			text: `{"compliant": true, "findings": ["Meets disclosure rules"]}`,
			want: &policycheck.Verdict{Compliant: true, Findings: []string{"Meets disclosure rules"}},
		},
		{
			name: "invalid JSON",
			text: `{"compliant": true, "findings": [`,
			want: &policycheck.Verdict{Compliant: false, Findings: undetermined},
		},
		{
			name: "empty body",
			text: "",
			want: &policycheck.Verdict{Compliant: false, Findings: undetermined},
		},
		{
			name: "missing findings",
			text: `{"compliant": true}`,
			want: &policycheck.Verdict{Compliant: true, Findings: undetermined},
		},
		{
			name: "empty findings",
			text: `{"compliant": false, "findings": []}`,
			want: &policycheck.Verdict{Compliant: false, Findings: undetermined},
		},
		{
			name: "missing compliant",
			text: `{"findings": ["Uses 'savings account'"]}`,
			want: &policycheck.Verdict{Compliant: false, Findings: []string{"Uses 'savings account'"}},
		},
		{
			name: "compliant as string is not trusted",
			text: `{"compliant": "true", "findings": ["ok"]}`,
			want: &policycheck.Verdict{Compliant: false, Findings: []string{"ok"}},
		},
		{
			name: "findings as string",
			text: `{"compliant": false, "findings": "Uses 'bank'"}`,
			want: &policycheck.Verdict{Compliant: false, Findings: undetermined},
		},
		{
			name: "non-string findings dropped",
			text: `{"compliant": false, "findings": ["Real finding", 42, {"x": 1}, "  "]}`,
			want: &policycheck.Verdict{Compliant: false, Findings: []string{"Real finding"}},
		},
		{
			name: "top-level array",
			text: `[true, ["finding"]]`,
			want: &policycheck.Verdict{Compliant: false, Findings: undetermined},
		},
		{
			name: "null fields",
			text: `{"compliant": null, "findings": null}`,
			want: &policycheck.Verdict{Compliant: false, Findings: undetermined},
		},
		{
			name: "markdown fenced",
			text: "```json\n{\"compliant\": true, \"findings\": [\"Fine\"]}\n```",
			want: &policycheck.Verdict{Compliant: true, Findings: []string{"Fine"}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			assert.Equal(t, tt.want, compliance.ParseVerdict(tt.text))
		})
	}
}
