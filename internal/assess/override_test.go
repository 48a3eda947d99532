package assess

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

func pillarsAt(c, v, tr, d float64) GovernanceResult {
	p := Pillars{Clarity: c, Validation: v, Traceability: tr, Documentation: d}
	w := basePillarWeights()
	return GovernanceResult{
		Score:               weightedGovernance(p, w),
		Pillars:             p,
		Weights:             w,
		TraceabilityDefined: true,
	}
}

func TestApplyOverride_LowConfidenceIsExactNoOp(t *testing.T) {
	g := pillarsAt(90, 85, 100, 100)
	ins := Insight{
		RequirementAmbiguity:        true,
		MissingValidationDimensions: []string{"negative", "boundary"},
		Confidence:                  0.59,
	}
	got, applied := ApplyOverride(g, ins)
	if applied {
		t.Error("override applied below the confidence threshold")
	}
	if diff := cmp.Diff(g, got); diff != "" {
		t.Errorf("pillars changed on a no-op (-want +got):\n%s", diff)
	}
}

func TestApplyOverride_AmbiguityCaps(t *testing.T) {
	g := pillarsAt(90, 85, 100, 100)
	got, applied := ApplyOverride(g, Insight{RequirementAmbiguity: true, Confidence: 0.8})
	if !applied {
		t.Fatal("override not applied")
	}
	if got.Pillars.Clarity != 60 {
		t.Errorf("clarity = %.2f, want 60", got.Pillars.Clarity)
	}
	if got.Pillars.Documentation != 70 {
		t.Errorf("documentation = %.2f, want 70 (was exactly 100)", got.Pillars.Documentation)
	}
	// Governance recomputed with the same weights.
	want := weightedGovernance(got.Pillars, g.Weights)
	if got.Score != want {
		t.Errorf("score = %.2f, want recomputed %.2f", got.Score, want)
	}
}

func TestApplyOverride_DocumentationOnlyLoweredFromExactly100(t *testing.T) {
	g := pillarsAt(90, 85, 100, 95)
	got, _ := ApplyOverride(g, Insight{RequirementAmbiguity: true, Confidence: 0.8})
	if got.Pillars.Documentation != 95 {
		t.Errorf("documentation = %.2f, want untouched 95", got.Pillars.Documentation)
	}
}

func TestApplyOverride_MissingDimensionCaps(t *testing.T) {
	tests := []struct {
		name string
		dims []string
		want float64
	}{
		{"none", nil, 90},
		{"one", []string{"negative"}, 75},
		{"two", []string{"negative", "boundary"}, 65},
		{"three", []string{"negative", "boundary", "status"}, 65},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g := pillarsAt(80, 90, 80, 80)
			got, _ := ApplyOverride(g, Insight{MissingValidationDimensions: tt.dims, Confidence: 0.9})
			if got.Pillars.Validation != tt.want {
				t.Errorf("validation = %.2f, want %.2f", got.Pillars.Validation, tt.want)
			}
		})
	}
}

// The gate only ever tightens: no pillar may increase for any insight.
func TestApplyOverride_MonotonicNonIncreasing(t *testing.T) {
	insights := []Insight{
		{},
		{Confidence: 1},
		{RequirementAmbiguity: true, Confidence: 0.6},
		{MissingValidationDimensions: []string{"a"}, Confidence: 0.95},
		{RequirementAmbiguity: true, MissingValidationDimensions: []string{"a", "b"}, Confidence: 5}, // out of range, clamped
	}
	g := pillarsAt(55, 72, 40, 100)
	for _, ins := range insights {
		got, _ := ApplyOverride(g, ins)
		if got.Pillars.Clarity > g.Pillars.Clarity ||
			got.Pillars.Validation > g.Pillars.Validation ||
			got.Pillars.Documentation > g.Pillars.Documentation ||
			got.Pillars.Traceability > g.Pillars.Traceability {
			t.Errorf("insight %+v raised a pillar: %+v", ins, got.Pillars)
		}
	}
}

func TestApplyScalarOverride(t *testing.T) {
	tests := []struct {
		name     string
		gov, cov float64
		ins      Insight
		wantGov  float64
		wantCov  float64
	}{
		{"low confidence no-op", 95, 90, Insight{RequirementAmbiguity: true, Confidence: 0.3}, 95, 90},
		{"ambiguity caps governance", 95, 90, Insight{RequirementAmbiguity: true, Confidence: 0.7}, 70, 90},
		{"one missing dim caps coverage", 95, 90, Insight{MissingValidationDimensions: []string{"x"}, Confidence: 0.7}, 95, 85},
		{"two missing dims cap harder", 95, 90, Insight{MissingValidationDimensions: []string{"x", "y"}, Confidence: 0.7}, 95, 75},
		{"caps never raise", 50, 40, Insight{RequirementAmbiguity: true, MissingValidationDimensions: []string{"x", "y"}, Confidence: 1}, 50, 40},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			gov, cov := ApplyScalarOverride(tt.gov, tt.cov, tt.ins)
			if gov != tt.wantGov || cov != tt.wantCov {
				t.Errorf("got (%.2f, %.2f), want (%.2f, %.2f)", gov, cov, tt.wantGov, tt.wantCov)
			}
		})
	}
}
