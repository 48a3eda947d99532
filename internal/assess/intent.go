package assess

// Scope-exclusion phrases mark a criterion as a deliberate non-goal.
var scopeExclusionTerms = []string{
	"not covered",
	"out of scope",
	"will be skipped",
	"skipped",
	"planned for next",
	"future ticket",
	"future enhancement",
	"not included",
}

// Technical / migration-type terms. These criteria rarely share vocabulary
// with test text, so coverage scores them behaviorally instead.
var technicalTerms = []string{
	"migration",
	"script",
	"schema",
	"seed",
	"database",
	"backend",
	"stored procedure",
	"job",
	"data setup",
}

// ClassifyIntent tags a criterion. Rules apply in priority order and the
// first match wins, so classification is total and mutually exclusive.
func ClassifyIntent(text string) Intent {
	if ContainsAny(text, scopeExclusionTerms) {
		return IntentScopeExclusion
	}
	if ContainsAny(text, technicalTerms) {
		return IntentTechnical
	}
	return IntentFunctional
}

// BuildCriteria extracts and classifies the criteria of one story.
func BuildCriteria(raw string) []AcceptanceCriterion {
	texts := ExtractCriteria(raw)
	out := make([]AcceptanceCriterion, 0, len(texts))
	for i, text := range texts {
		out = append(out, AcceptanceCriterion{
			Ordinal: i + 1,
			RawText: text,
			Intent:  ClassifyIntent(text),
		})
	}
	return out
}
