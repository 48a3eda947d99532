package assess

import "testing"

func TestClassifyIntent(t *testing.T) {
	tests := []struct {
		name string
		text string
		want Intent
	}{
		{"scope exclusion", "Out of scope: legacy import", IntentScopeExclusion},
		{"future enhancement", "Bulk export is a future enhancement", IntentScopeExclusion},
		{"technical schema", "Update the schema for the orders table", IntentTechnical},
		{"technical stored procedure", "Rewrite the stored procedure for sync", IntentTechnical},
		{"functional default", "Display the total price on checkout", IntentFunctional},
		{"exclusion wins over technical", "Schema migration is out of scope", IntentScopeExclusion},
		{"empty is functional", "", IntentFunctional},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ClassifyIntent(tt.text); got != tt.want {
				t.Errorf("ClassifyIntent(%q) = %q, want %q", tt.text, got, tt.want)
			}
		})
	}
}

// Classification is total: every criterion gets exactly one intent.
func TestBuildCriteria_TotalClassification(t *testing.T) {
	raw := "1. Display the total\n2. Migrate the database\n3. Out of scope: audit log"
	criteria := BuildCriteria(raw)
	if len(criteria) != 3 {
		t.Fatalf("expected 3 criteria, got %d", len(criteria))
	}
	wantIntents := []Intent{IntentFunctional, IntentTechnical, IntentScopeExclusion}
	for i, ac := range criteria {
		if ac.Ordinal != i+1 {
			t.Errorf("criterion %d: ordinal = %d", i, ac.Ordinal)
		}
		if ac.Intent != wantIntents[i] {
			t.Errorf("criterion %d: intent = %q, want %q", i, ac.Intent, wantIntents[i])
		}
	}
}
