package assess

// TriggerInputs feed the advisory trigger predicate.
type TriggerInputs struct {
	CriteriaCount      int
	RequiredDimensions int
	TestDepth          float64
	Coverage           float64
	Governance         float64
}

// ShouldTriggerAdvisory decides whether the external advisory is worth
// consulting for a story, returning the trigger reason. Each rule targets a
// blind spot the deterministic rule engine cannot see on its own.
func ShouldTriggerAdvisory(in TriggerInputs) (bool, string) {
	// Criteria exist but none triggered any validation dimension: the
	// rule tables have nothing to say about this story.
	if in.RequiredDimensions == 0 && in.CriteriaCount > 0 {
		return true, "rule_engine_blind_spot"
	}

	// Decent coverage with zero test depth smells like keyword overlap
	// without real tests behind it.
	if in.Coverage > 60 && in.TestDepth == 0 {
		return true, "inflated_validation_confidence"
	}

	// A perfect governance score carried by at most one criterion is
	// suspicious, not impressive.
	if in.Governance == 100 && in.CriteriaCount <= 1 {
		return true, "governance_suspicion"
	}

	return false, ""
}
