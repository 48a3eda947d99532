package assess

// Blend ratio for unified coverage: structural dominates scenario.
const (
	StructuralWeight = 0.7
	ScenarioWeight   = 0.3
)

// Fixed dimension weights, normalized by their sum at aggregation time.
var performanceWeights = struct {
	coverage, scenario, depth, governance, acQuality float64
}{0.25, 0.20, 0.15, 0.15, 0.10}

// Coverage brackets override any higher computed score: weak coverage can
// never be masked by inflated component scores.
var coverageCaps = []struct {
	below float64
	cap   float64
}{
	{30, 45},
	{40, 55},
	{50, 65},
	{60, 75},
}

// PerformanceInputs are the upstream signals the index combines, each on a
// 0-100 scale.
type PerformanceInputs struct {
	Coverage      float64
	ScenarioIndex float64
	TestDepth     float64
	Governance    float64
	ACQuality     float64
	CriticalGap   bool
}

// CalculatePerformance combines all signals with the compliance verdict into
// the final score, risk tier, and contribution breakdown.
//
// A severe verdict overrides everything: score 0, risk Critical. Coverage of
// exactly 0 short-circuits to the same worst case, bypassing aggregation.
func CalculatePerformance(in PerformanceInputs, verdict ComplianceVerdict) PerformanceResult {
	if verdict.Severe {
		return PerformanceResult{Risk: RiskCritical}
	}

	coverage := clamp100(in.Coverage)
	scenario := clamp100(in.ScenarioIndex)
	depth := clamp100(in.TestDepth)
	governance := clamp100(in.Governance)
	acQuality := clamp100(in.ACQuality)

	if coverage == 0 {
		return PerformanceResult{Risk: RiskCritical}
	}

	w := performanceWeights
	totalWeight := w.coverage + w.scenario + w.depth + w.governance + w.acQuality

	breakdown := Breakdown{
		Coverage:   round2(coverage * w.coverage),
		Scenario:   round2(scenario * w.scenario),
		TestDepth:  round2(depth * w.depth),
		Governance: round2(governance * w.governance),
		ACQuality:  round2(acQuality * w.acQuality),
	}

	weightedSum := coverage*w.coverage + scenario*w.scenario +
		depth*w.depth + governance*w.governance + acQuality*w.acQuality
	base := weightedSum / totalWeight

	if in.CriticalGap {
		breakdown.Penalty = round2(base * 0.15)
		base *= 0.85
	}

	score := base
	var cap float64
	capApplied := false
	for _, b := range coverageCaps {
		if coverage < b.below {
			cap = b.cap
			capApplied = true
			break
		}
	}
	if capApplied && score > cap {
		score = cap
	}

	var risk RiskTier
	switch {
	case coverage < 40:
		risk = RiskCritical
	case coverage < 60:
		risk = RiskHigh
	case in.CriticalGap:
		risk = RiskHigh
	case score < 60:
		risk = RiskMedium
	default:
		risk = RiskLow
	}

	return PerformanceResult{
		Score:      round2(clamp100(score)),
		BaseScore:  round2(base),
		Risk:       risk,
		Breakdown:  breakdown,
		Cap:        cap,
		CapApplied: capApplied,
	}
}
