package assess

import "context"

// StoryInput is the externally fetched raw material for one assessment.
// All fields are plain data; the pipeline never reaches back to a tracker.
type StoryInput struct {
	ID          int
	Title       string
	Description string
	Assignee    string
	CriteriaRaw string
	Tests       []TestArtifact
	Compliance  ComplianceContext
}

// AdvisoryPayload is the story context handed to the external advisory when
// the trigger predicate fires.
type AdvisoryPayload struct {
	Title              string   `json:"title"`
	Description        string   `json:"description"`
	AcceptanceCriteria []string `json:"acceptance_criteria"`
	TestCases          []string `json:"test_cases"`
	Coverage           float64  `json:"coverage"`
	Governance         float64  `json:"governance"`
}

// AdvisoryFunc obtains an insight for a story payload. Implementations must
// return the neutral (zero) Insight on any failure; the pipeline treats the
// call as infallible. A nil AdvisoryFunc disables the gate entirely.
type AdvisoryFunc func(ctx context.Context, payload AdvisoryPayload) Insight

// Result is the flattened per-story assessment record exposed to
// report/persistence collaborators.
type Result struct {
	StoryID  int
	Title    string
	Assignee string

	Profile StoryProfile

	Quality        float64
	QualityDetails []CriterionQuality

	Structural CoverageResult
	Gaps       ScenarioGapResult

	// Coverage is the unified blend of structural and scenario coverage,
	// after any advisory cap.
	Coverage  float64
	TestDepth float64

	Governance      GovernanceResult
	AdvisoryApplied bool
	AdvisoryReason  string

	Compliance  ComplianceVerdict
	Performance PerformanceResult
}

// Evaluate runs the full deterministic pipeline for one story. It is a pure
// function of its inputs: identical input (including identical advisory
// insight) yields identical output.
func Evaluate(ctx context.Context, story StoryInput, advise AdvisoryFunc) Result {
	criteria := BuildCriteria(story.CriteriaRaw)

	quality, qualityDetails := EvaluateQuality(criteria)

	testTexts := make([]string, len(story.Tests))
	for i, t := range story.Tests {
		testTexts[i] = t.Text()
	}
	combined := CombinedTestText(story.Tests)

	structural := evaluateStructural(criteria, len(story.Tests), combined)
	gaps := DetectScenarioGaps(criteria, testTexts)

	coverage := round2(structural.Overall*StructuralWeight + gaps.CoveragePct*ScenarioWeight)
	depth := CalculateTestDepth(combined)

	governance := CalculateGovernance(GovernanceInputs{
		Criteria:           criteria,
		QualityScore:       quality,
		TestCaseCount:      len(story.Tests),
		StructuralCoverage: structural.Overall,
		ScenarioCoverage:   gaps.CoveragePct,
		Description:        story.Description,
	})

	advisoryApplied := false
	advisoryReason := ""
	if advise != nil {
		fire, reason := ShouldTriggerAdvisory(TriggerInputs{
			CriteriaCount:      len(criteria),
			RequiredDimensions: gaps.RequiredCount,
			TestDepth:          depth,
			Coverage:           coverage,
			Governance:         governance.Score,
		})
		if fire {
			insight := advise(ctx, AdvisoryPayload{
				Title:              story.Title,
				Description:        story.Description,
				AcceptanceCriteria: criteriaTexts(criteria),
				TestCases:          testTexts,
				Coverage:           coverage,
				Governance:         governance.Score,
			})
			governance, advisoryApplied = ApplyOverride(governance, insight)
			_, coverage = ApplyScalarOverride(governance.Score, coverage, insight)
			if advisoryApplied {
				advisoryReason = reason
			}
		}
	}

	verdict := EvaluateCompliance(story.Compliance)

	criticalGap := coverage < 40 || gaps.CriticalGap || len(structural.MissingOrdinals()) > 0

	performance := CalculatePerformance(PerformanceInputs{
		Coverage:      coverage,
		ScenarioIndex: gaps.CoveragePct,
		TestDepth:     depth,
		Governance:    governance.Score,
		ACQuality:     quality,
		CriticalGap:   criticalGap,
	}, verdict)

	result := Result{
		StoryID:         story.ID,
		Title:           story.Title,
		Assignee:        story.Assignee,
		Profile:         ClassifyStoryType(story.Title, story.Description, criteria),
		Quality:         quality,
		QualityDetails:  qualityDetails,
		Structural:      structural,
		Gaps:            gaps,
		Coverage:        coverage,
		TestDepth:       depth,
		Governance:      governance,
		AdvisoryApplied: advisoryApplied,
		AdvisoryReason:  advisoryReason,
		Compliance:      verdict,
		Performance:     performance,
	}

	// A severe verdict invalidates every numeric metric for the story.
	if verdict.Severe {
		result.Coverage = 0
		result.Gaps.CoveragePct = 0
		result.TestDepth = 0
	}

	return result
}

// evaluateStructural guards the coverage evaluator against the two empty
// edges: no criteria scores 0, and criteria without any test cases marks
// every non-excluded criterion Missing.
func evaluateStructural(criteria []AcceptanceCriterion, tcCount int, combined string) CoverageResult {
	if len(criteria) == 0 {
		return CoverageResult{}
	}
	if tcCount == 0 {
		zero := 0.0
		out := CoverageResult{}
		for _, ac := range criteria {
			cc := CriterionCoverage{Ordinal: ac.Ordinal, Intent: ac.Intent}
			if ac.Intent == IntentScopeExclusion {
				cc.Category = CategoryExcluded
			} else {
				s := zero
				cc.Score = &s
				cc.Category = CategoryMissing
			}
			out.Criteria = append(out.Criteria, cc)
		}
		return out
	}
	return EvaluateCoverage(criteria, combined)
}

func criteriaTexts(criteria []AcceptanceCriterion) []string {
	out := make([]string, len(criteria))
	for i, ac := range criteria {
		out[i] = ac.RawText
	}
	return out
}
