package assess

import "strings"

// Intent classifies what kind of requirement an acceptance criterion states.
type Intent string

const (
	IntentFunctional     Intent = "Functional"
	IntentTechnical      Intent = "Technical"
	IntentScopeExclusion Intent = "Scope Exclusion"
)

// AcceptanceCriterion is one discrete requirement statement extracted from a
// story's criteria field. Ordinal preserves source order (1-based) and is the
// stable identifier used in reporting. Immutable once classified.
type AcceptanceCriterion struct {
	Ordinal int
	RawText string
	Intent  Intent
}

// TestArtifact is one test case linked to a story. The text blob used by the
// matching stages is the concatenation of its free-text fields.
type TestArtifact struct {
	ID             int
	Title          string
	Steps          string
	ExpectedResult string
	State          string
}

// Text returns the combined blob consumed by every text-matching stage.
func (t TestArtifact) Text() string {
	var b strings.Builder
	b.WriteString("TITLE: ")
	b.WriteString(t.Title)
	b.WriteString("\nSTEPS: ")
	b.WriteString(t.Steps)
	b.WriteString("\nEXPECTED: ")
	b.WriteString(t.ExpectedResult)
	b.WriteString("\n")
	return b.String()
}

// CombinedTestText joins the text blobs of all artifacts.
func CombinedTestText(tests []TestArtifact) string {
	texts := make([]string, len(tests))
	for i, t := range tests {
		texts[i] = t.Text()
	}
	return strings.Join(texts, "\n\n")
}

// CoverageCategory buckets a per-criterion coverage score.
type CoverageCategory string

const (
	CategoryStrong   CoverageCategory = "Strong"
	CategoryModerate CoverageCategory = "Moderate"
	CategoryWeak     CoverageCategory = "Weak"
	CategoryMissing  CoverageCategory = "Missing"
	CategoryExcluded CoverageCategory = "Excluded"
)

// CriterionCoverage is the coverage verdict for one criterion. Score is nil
// for scope-exclusion criteria, which are excluded from averaging entirely.
type CriterionCoverage struct {
	Ordinal  int
	Intent   Intent
	Score    *float64
	Category CoverageCategory
}

// CoverageResult is the structural coverage outcome for one story.
type CoverageResult struct {
	Overall  float64
	Criteria []CriterionCoverage
}

// MissingOrdinals lists the ordinals of criteria bucketed Missing.
func (r CoverageResult) MissingOrdinals() []int {
	var out []int
	for _, c := range r.Criteria {
		if c.Category == CategoryMissing {
			out = append(out, c.Ordinal)
		}
	}
	return out
}

// MissingValidation records one uncovered required validation dimension.
type MissingValidation struct {
	CriterionOrdinal int
	CriterionText    string
	ValidationType   string
	Suggestion       string
}

// ScenarioGapResult is the validation-dimension coverage outcome for a story.
// CriticalGap is true iff Missing is non-empty.
type ScenarioGapResult struct {
	RequiredCount int
	CoveredCount  int
	CoveragePct   float64
	Missing       []MissingValidation
	CriticalGap   bool
}

// Pillars holds the four governance sub-scores, each in [0,100].
type Pillars struct {
	Clarity       float64
	Validation    float64
	Traceability  float64
	Documentation float64
}

// Pillar weight keys, used by the redistribution function and tests.
const (
	PillarClarity       = "clarity"
	PillarValidation    = "validation"
	PillarTraceability  = "traceability"
	PillarDocumentation = "documentation"
)

// GovernanceResult carries the composed governance score, its pillars, and
// the weights actually used. When a story has zero test cases the
// traceability weight is zero and the remainder is redistributed, so Weights
// always sums to 1.
type GovernanceResult struct {
	Score   float64
	Pillars Pillars
	Weights map[string]float64

	// TraceabilityDefined is false when zero test cases exist; the
	// traceability pillar is then reported as 0 with weight 0.
	TraceabilityDefined bool
}

// Insight is an externally produced, confidence-scored structured judgment.
// It is only ever used to tighten existing score caps, never to loosen them.
// The zero value is the neutral insight (a no-op).
type Insight struct {
	RequirementAmbiguity        bool
	MissingValidationDimensions []string
	Confidence                  float64
}

// ComplianceVerdict is the output of the workflow compliance rules. Severe
// invalidates every numeric metric for the story downstream.
type ComplianceVerdict struct {
	Violations []string
	Severe     bool
}

// Status renders the verdict as a single reporting string.
func (v ComplianceVerdict) Status() string {
	if len(v.Violations) == 0 {
		return "Compliant"
	}
	return strings.Join(v.Violations, "; ")
}

// RiskTier is the leadership-aligned risk classification for a story.
type RiskTier string

const (
	RiskCritical RiskTier = "Critical"
	RiskHigh     RiskTier = "High"
	RiskMedium   RiskTier = "Medium"
	RiskLow      RiskTier = "Low"
)

// Breakdown exposes the weighted contribution of each dimension to the
// performance index, for transparent reporting.
type Breakdown struct {
	Coverage   float64
	Scenario   float64
	TestDepth  float64
	Governance float64
	ACQuality  float64
	Penalty    float64
}

// PerformanceResult is the final composite score for a story.
type PerformanceResult struct {
	Score     float64
	BaseScore float64
	Risk      RiskTier
	Breakdown Breakdown

	// Cap holds the coverage-bracket cap that was enforced, if any.
	Cap        float64
	CapApplied bool
}
