package assess

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestClassifyStoryType(t *testing.T) {
	tests := []struct {
		name        string
		title       string
		description string
		criteria    []string
		want        string
	}{
		{
			name:        "api story",
			title:       "New settings endpoint",
			description: "Expose an API returning the settings payload with proper status code handling.",
			want:        "API",
		},
		{
			name:        "ui story",
			title:       "Redesign the login page",
			description: "The form should display inline errors and the button moves to a new layout.",
			want:        "UI",
		},
		{
			name:        "permission story",
			title:       "Restrict admin access",
			description: "Only the admin role has authorization to change permission settings.",
			want:        "PERMISSION",
		},
		{
			name:        "criteria text counts toward classification",
			title:       "Improve reliability",
			description: "General hardening work.",
			criteria:    []string{"Database record writes must save without loss", "Delete removes the record"},
			want:        "DATA",
		},
		{
			name:        "no keywords falls back to generic",
			title:       "Miscellaneous cleanup",
			description: "Tidy things up.",
			want:        "GENERIC",
		},
		{
			name:  "tie breaks toward the earlier type",
			title: "Display the response",
			want:  "UI",
		},
		{
			name: "empty story is generic",
			want: "GENERIC",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var criteria []AcceptanceCriterion
			for i, text := range tt.criteria {
				criteria = append(criteria, AcceptanceCriterion{Ordinal: i + 1, RawText: text, Intent: IntentFunctional})
			}
			got := ClassifyStoryType(tt.title, tt.description, criteria)
			if got.Type != tt.want {
				t.Errorf("type = %q, want %q", got.Type, tt.want)
			}
			if diff := cmp.Diff(expectedScenarios[tt.want], got.ExpectedScenarios); diff != "" {
				t.Errorf("expected scenarios mismatch (-want +got):\n%s", diff)
			}
		})
	}
}
