package assess

import "math"

// ConfidenceThreshold is the minimum advisory confidence required before any
// override applies. Below it the gate is a strict no-op.
const ConfidenceThreshold = 0.60

// normalizeInsight clamps the insight fields to their valid ranges so a
// malformed insight degrades to a no-op rather than corrupting scores.
func normalizeInsight(ins Insight) Insight {
	ins.Confidence = math.Max(0, math.Min(ins.Confidence, 1))
	return ins
}

// ApplyOverride applies the advisory insight to the governance pillars. The
// gate never raises a pillar and never subtracts an arbitrary amount: it
// only tightens an existing upper bound, then recomputes governance from the
// capped pillars with the same weights used to build g. The second return
// reports whether any override was in force.
func ApplyOverride(g GovernanceResult, ins Insight) (GovernanceResult, bool) {
	ins = normalizeInsight(ins)
	if ins.Confidence < ConfidenceThreshold {
		return g, false
	}

	adjusted := g.Pillars

	if ins.RequirementAmbiguity {
		adjusted.Clarity = math.Min(adjusted.Clarity, 60)
		// Ambiguous requirements undermine an otherwise complete-looking
		// description.
		if adjusted.Documentation == 100 {
			adjusted.Documentation = 70
		}
	}

	switch n := len(ins.MissingValidationDimensions); {
	case n >= 2:
		adjusted.Validation = math.Min(adjusted.Validation, 65)
	case n == 1:
		adjusted.Validation = math.Min(adjusted.Validation, 75)
	}

	out := g
	out.Pillars = adjusted
	out.Score = weightedGovernance(adjusted, g.Weights)
	return out, true
}

// ApplyScalarOverride is the coarser form of the gate for callers holding
// only scalar governance and coverage scores. It agrees with ApplyOverride
// when both are applied to the same underlying pillars.
func ApplyScalarOverride(governance, coverage float64, ins Insight) (float64, float64) {
	ins = normalizeInsight(ins)
	if ins.Confidence < ConfidenceThreshold {
		return governance, coverage
	}

	if ins.RequirementAmbiguity {
		governance = math.Min(governance, 70)
	}

	switch n := len(ins.MissingValidationDimensions); {
	case n >= 2:
		coverage = math.Min(coverage, 75)
	case n == 1:
		coverage = math.Min(coverage, 85)
	}

	return round2(clamp100(governance)), round2(clamp100(coverage))
}
