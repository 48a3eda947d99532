package assess

import "fmt"

// validationRule maps one validation dimension to the criterion phrasing
// that requires it and the independent test-text evidence that covers it.
type validationRule struct {
	name       string
	acTriggers []string
	evidence   []string
	suggestion string
}

// The rule table is ordered so required/missing dimensions report
// deterministically. A single evaluator iterates it per criterion.
var validationRules = []validationRule{
	{
		name:       "negative_validation",
		acTriggers: []string{"must not", "should not", "invalid", "error", "required"},
		evidence:   []string{"invalid", "empty", "blank", "null", "error", "reject", "fail"},
		suggestion: "Add negative test case for AC: %q",
	},
	{
		name:       "boundary_validation",
		acTriggers: []string{"minimum", "maximum", "limit", "range", "length"},
		evidence:   []string{"min", "max", "boundary", "limit", "range"},
		suggestion: "Add boundary value test case for AC: %q",
	},
	{
		name:       "status_code_validation",
		acTriggers: []string{"status", "response", "http", "payload"},
		evidence:   []string{"200", "400", "401", "403", "404", "500", "status", "response code"},
		suggestion: "Validate expected HTTP status codes for AC: %q",
	},
	{
		name:       "ui_rendering_validation",
		acTriggers: []string{"display", "visible", "show", "render"},
		evidence:   []string{"visible", "displayed", "rendered"},
		suggestion: "Validate UI visibility/rendering behavior for AC: %q",
	},
}

// DetectScenarioGaps checks, per criterion, which validation dimensions its
// text requires and whether any test artifact's text evidences them. Zero
// required dimensions yields exactly 100: nothing to fail. CriticalGap is
// true iff any required dimension is uncovered.
func DetectScenarioGaps(criteria []AcceptanceCriterion, testTexts []string) ScenarioGapResult {
	var (
		required int
		covered  int
		missing  []MissingValidation
	)

	for _, ac := range criteria {
		for _, rule := range validationRules {
			if !ContainsAny(ac.RawText, rule.acTriggers) {
				continue
			}
			required++

			found := false
			for _, tt := range testTexts {
				if ContainsAny(tt, rule.evidence) {
					found = true
					break
				}
			}
			if found {
				covered++
				continue
			}
			missing = append(missing, MissingValidation{
				CriterionOrdinal: ac.Ordinal,
				CriterionText:    ac.RawText,
				ValidationType:   rule.name,
				Suggestion:       fmt.Sprintf(rule.suggestion, ac.RawText),
			})
		}
	}

	pct := 100.0
	if required > 0 {
		pct = round2(float64(covered) / float64(required) * 100)
	}

	return ScenarioGapResult{
		RequiredCount: required,
		CoveredCount:  covered,
		CoveragePct:   pct,
		Missing:       missing,
		CriticalGap:   len(missing) > 0,
	}
}
