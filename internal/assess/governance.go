package assess

import (
	"math"
	"strings"
)

// Base pillar weights when all four pillars are defined.
func basePillarWeights() map[string]float64 {
	return map[string]float64{
		PillarClarity:       0.25,
		PillarValidation:    0.30,
		PillarTraceability:  0.25,
		PillarDocumentation: 0.20,
	}
}

// redistribute returns a fresh weight map with the excluded pillar's weight
// spread proportionally across the remaining pillars, so the result still
// sums to 1. The input map is not modified.
func redistribute(weights map[string]float64, excluded string) map[string]float64 {
	remainder := 1 - weights[excluded]
	out := make(map[string]float64, len(weights))
	for k, w := range weights {
		if k == excluded {
			out[k] = 0
			continue
		}
		out[k] = w / remainder
	}
	return out
}

// GovernanceInputs are the upstream signals the pillar model combines.
type GovernanceInputs struct {
	Criteria           []AcceptanceCriterion
	QualityScore       float64
	TestCaseCount      int
	StructuralCoverage float64
	ScenarioCoverage   float64
	Description        string // raw story description, may contain HTML
}

// clarityScore derives the clarity pillar from AC quality. A story whose
// single criterion is weak cannot carry full clarity.
func clarityScore(criteria []AcceptanceCriterion, quality float64) float64 {
	if len(criteria) == 0 {
		return 0
	}
	clarity := quality
	if len(criteria) == 1 && quality < 80 {
		clarity = math.Min(clarity, 65)
	}
	return clarity
}

// traceabilityScore is a step function of the test-to-criterion ratio.
func traceabilityScore(acCount, tcCount int) float64 {
	if acCount == 0 || tcCount == 0 {
		return 0
	}
	ratio := float64(tcCount) / float64(acCount)
	switch {
	case ratio >= 1:
		return 100
	case ratio >= 0.75:
		return 80
	case ratio >= 0.5:
		return 60
	case ratio > 0:
		return 40
	}
	return 0
}

// documentationScore is a step function of cleaned description length, with
// a dedicated bucket for image-only descriptions.
func documentationScore(description string) float64 {
	if description == "" {
		return 0
	}
	if strings.Contains(strings.ToLower(description), "<img") &&
		len(strings.TrimSpace(description)) < 200 {
		return 30
	}
	clean := strings.TrimSpace(CleanHTML(description))
	switch {
	case clean == "":
		return 0
	case len(clean) < 40:
		return 40
	case len(clean) < 120:
		return 70
	default:
		return 100
	}
}

// CalculateGovernance composes the four pillars into one governance score.
// With zero test cases the traceability pillar is undefined: it is reported
// as 0 with weight 0 and its weight redistributed across the other three.
func CalculateGovernance(in GovernanceInputs) GovernanceResult {
	clarity := clarityScore(in.Criteria, in.QualityScore)

	validation := in.ScenarioCoverage
	// High validation without structural grounding is not credible.
	if validation > 80 && in.StructuralCoverage < 50 {
		validation = 70
	}

	defined := in.TestCaseCount > 0
	traceability := 0.0
	if defined {
		traceability = traceabilityScore(len(in.Criteria), in.TestCaseCount)
	}

	documentation := documentationScore(in.Description)

	weights := basePillarWeights()
	if !defined {
		weights = redistribute(weights, PillarTraceability)
	}

	pillars := Pillars{
		Clarity:       round2(clarity),
		Validation:    round2(validation),
		Traceability:  round2(traceability),
		Documentation: round2(documentation),
	}

	return GovernanceResult{
		Score:               weightedGovernance(pillars, weights),
		Pillars:             pillars,
		Weights:             weights,
		TraceabilityDefined: defined,
	}
}

// weightedGovernance computes the governance score from pillars and the
// weight map actually in force, clamped to [0,100].
func weightedGovernance(p Pillars, weights map[string]float64) float64 {
	sum := p.Clarity*weights[PillarClarity] +
		p.Validation*weights[PillarValidation] +
		p.Traceability*weights[PillarTraceability] +
		p.Documentation*weights[PillarDocumentation]
	return round2(clamp100(sum))
}
