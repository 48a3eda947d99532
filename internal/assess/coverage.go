package assess

// High-signal domain terms get double weight in the overlap ratio.
var highSignalTerms = map[string]bool{
	"update": true, "delete": true, "insert": true, "sync": true,
	"due": true, "date": true, "trigger": true, "assign": true,
	"record": true, "complete": true, "error": true,
	"validation": true, "manual": true, "automatic": true,
	"offline": true, "api": true, "endpoint": true,
	"migration": true, "script": true, "schema": true,
	"metadata": true, "patch": true, "get": true,
}

// weightedOverlap scores how much of the criterion's vocabulary the test
// text covers, as matched weight over total weight in [0,1].
func weightedOverlap(criterion, testText string) float64 {
	acWords := Tokenize(criterion)
	if len(acWords) == 0 {
		return 0
	}

	testWords := make(map[string]bool)
	for _, w := range Tokenize(testText) {
		testWords[w] = true
	}

	totalWeight, matchedWeight := 0, 0
	for _, w := range acWords {
		weight := 1
		if highSignalTerms[w] {
			weight = 2
		}
		totalWeight += weight
		if testWords[w] {
			matchedWeight += weight
		}
	}
	return float64(matchedWeight) / float64(totalWeight)
}

// behavioralScore rates test text against seven fixed behavioral signals.
// Technical criteria rarely share vocabulary with tests, so this substitutes
// for keyword overlap. Returns a ratio in [0,1].
func behavioralScore(testText string) float64 {
	signals := []bool{
		ContainsTerm(testText, "get"),
		ContainsTerm(testText, "patch"),
		ContainsTerm(testText, "update"),
		ContainsTerm(testText, "reload") || ContainsTerm(testText, "persistence"),
		ContainsTerm(testText, "unauthorized") || ContainsTerm(testText, "forbidden"),
		ContainsTerm(testText, "metadata") || ContainsTerm(testText, "column"),
		ContainsTerm(testText, "validate") || ContainsTerm(testText, "required"),
	}
	hits := 0
	for _, s := range signals {
		if s {
			hits++
		}
	}
	return float64(hits) / float64(len(signals))
}

// classifyScore buckets a percentage into a coverage category.
func classifyScore(pct float64) CoverageCategory {
	switch {
	case pct >= 80:
		return CategoryStrong
	case pct >= 50:
		return CategoryModerate
	case pct > 0:
		return CategoryWeak
	default:
		return CategoryMissing
	}
}

// EvaluateCoverage scores how well the combined test text addresses each
// criterion. Scope-exclusion criteria carry a nil score and the Excluded
// category, and are removed from the averaging denominator; zero non-excluded
// criteria yields overall coverage 0.
func EvaluateCoverage(criteria []AcceptanceCriterion, testText string) CoverageResult {
	if len(criteria) == 0 {
		return CoverageResult{}
	}

	var (
		results      []CriterionCoverage
		totalScore   float64
		scoredCount  int
	)

	for _, ac := range criteria {
		if ac.Intent == IntentScopeExclusion {
			results = append(results, CriterionCoverage{
				Ordinal:  ac.Ordinal,
				Intent:   ac.Intent,
				Category: CategoryExcluded,
			})
			continue
		}

		var ratio float64
		if ac.Intent == IntentTechnical {
			ratio = behavioralScore(testText)
		} else {
			ratio = weightedOverlap(ac.RawText, testText)
		}

		pct := round2(ratio * 100)
		results = append(results, CriterionCoverage{
			Ordinal:  ac.Ordinal,
			Intent:   ac.Intent,
			Score:    &pct,
			Category: classifyScore(pct),
		})
		totalScore += ratio
		scoredCount++
	}

	overall := 0.0
	if scoredCount > 0 {
		overall = round2(totalScore / float64(scoredCount) * 100)
	}
	return CoverageResult{Overall: overall, Criteria: results}
}
