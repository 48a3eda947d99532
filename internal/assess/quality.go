package assess

import (
	"fmt"
	"strings"
)

// Vague qualifiers that make a criterion hard to verify.
var vagueTerms = []string{
	"properly", "correctly", "appropriately",
	"works", "working", "handle",
	"efficiently", "successfully",
	"as expected", "accurately",
}

// A criterion should name at least one concrete, checkable behavior.
var validationVerbs = []string{
	"display", "return", "calculate", "update",
	"delete", "save", "prevent", "allow",
	"restrict", "validate", "trigger",
	"show", "appear", "fetch",
}

// Generic-capability phrasing states ability rather than observable behavior.
var genericCapabilityTerms = []string{
	"must be able",
	"should be able",
	"user can",
	"users can",
}

// CriterionQuality is the quality verdict for one criterion.
type CriterionQuality struct {
	Ordinal int
	Score   float64
	Issues  []string
}

// EvaluateQuality scores each criterion out of 100 with additive penalties,
// floored at 0. Scope-exclusion criteria bypass all penalties and score 100:
// a clear scope statement is rewarded, not penalized. The story-level score
// is the arithmetic mean over all criteria; no criteria yields 0.
func EvaluateQuality(criteria []AcceptanceCriterion) (float64, []CriterionQuality) {
	if len(criteria) == 0 {
		return 0, nil
	}

	details := make([]CriterionQuality, 0, len(criteria))
	total := 0.0

	for _, ac := range criteria {
		if ac.Intent == IntentScopeExclusion {
			details = append(details, CriterionQuality{
				Ordinal: ac.Ordinal,
				Score:   100,
				Issues:  []string{"Scope clarity defined"},
			})
			total += 100
			continue
		}

		score := 100.0
		var issues []string

		if len(Tokenize(ac.RawText)) < 5 {
			score -= 20
			issues = append(issues, "Too short / possibly non-testable")
		}

		var vagueHits []string
		for _, v := range vagueTerms {
			if ContainsTerm(ac.RawText, v) {
				vagueHits = append(vagueHits, v)
			}
		}
		if len(vagueHits) > 0 {
			score -= 15
			issues = append(issues, fmt.Sprintf("Vague wording: %s", strings.Join(vagueHits, ", ")))
		}

		if countToken(ac.RawText, "and") >= 2 {
			score -= 15
			issues = append(issues, "Compound requirement")
		}

		if !ContainsAny(ac.RawText, validationVerbs) {
			score -= 10
			issues = append(issues, "No clear validation verb")
		}

		if ContainsAny(ac.RawText, genericCapabilityTerms) {
			score -= 15
			issues = append(issues, "Generic capability statement")
		}

		if score < 0 {
			score = 0
		}
		if len(issues) == 0 {
			issues = []string{"Well-defined"}
		}

		total += score
		details = append(details, CriterionQuality{Ordinal: ac.Ordinal, Score: score, Issues: issues})
	}

	return round2(total / float64(len(criteria))), details
}

// countToken counts word-boundary occurrences of token in text.
func countToken(text, token string) int {
	n := 0
	for _, w := range strings.Fields(Normalize(text)) {
		if w == token {
			n++
		}
	}
	return n
}
