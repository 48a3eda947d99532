package assess

import (
	"strings"
	"time"
)

// Story and test-case lifecycle states the compliance rules reason about.
const (
	stateDesign       = "design"
	stateNew          = "new"
	stateMerged       = "merged"
	stateRework       = "rework"
	stateReadyForQA   = "ready for qa"
	stateQAInProgress = "qa in progress"
	statePassedQA     = "passed qa"

	testStateDesign      = "design"
	testStateNeedsReview = "needs review"
	testStateReady       = "ready"
	testStateFailed      = "failed"
)

// OptTime is an explicit optional timestamp, so temporal rules are total
// functions with no partial-comparison ambiguity.
type OptTime struct {
	Time time.Time
	Set  bool
}

// At wraps a concrete timestamp.
func At(t time.Time) OptTime { return OptTime{Time: t, Set: true} }

// Before reports whether both timestamps are set and o precedes other.
func (o OptTime) Before(other OptTime) bool {
	return o.Set && other.Set && o.Time.Before(other.Time)
}

// ComplianceContext is the full lifecycle evidence for one story. Build it
// with NewComplianceContext so states and history are normalized.
type ComplianceContext struct {
	State         string
	TestsAuthored bool
	TestsReviewed bool
	TestStates    []string
	TestCaseCount int

	// History is the chronologically ordered, case-folded story state
	// sequence with consecutive duplicates collapsed.
	History []string

	// EverNeedsReview is true if any test artifact was ever observed in
	// the needs-review state, not just currently.
	EverNeedsReview bool

	ReviewToggleAt OptTime
	EarliestTestAt OptTime
	PassedQAAt     OptTime
}

// NewComplianceContext normalizes the raw lifecycle inputs: states are
// case-folded and trimmed, and consecutive duplicate history entries
// collapse into one.
func NewComplianceContext(state string, testsAuthored, testsReviewed bool,
	testStates, history []string) ComplianceContext {

	norm := make([]string, 0, len(testStates))
	for _, s := range testStates {
		norm = append(norm, foldState(s))
	}

	return ComplianceContext{
		State:         foldState(state),
		TestsAuthored: testsAuthored,
		TestsReviewed: testsReviewed,
		TestStates:    norm,
		TestCaseCount: len(testStates),
		History:       FoldHistory(history),
	}
}

// FoldHistory case-folds a state sequence and collapses consecutive
// duplicates, preserving order.
func FoldHistory(raw []string) []string {
	var out []string
	for _, s := range raw {
		f := foldState(s)
		if f == "" {
			continue
		}
		if len(out) > 0 && out[len(out)-1] == f {
			continue
		}
		out = append(out, f)
	}
	return out
}

func foldState(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

// violation is one fired compliance finding.
type violation struct {
	message string
	severe  bool
}

// complianceRule is a pure predicate over the context. It returns nil when
// the rule does not fire. Rules never short-circuit each other; ordering is
// fixed so reports are stable.
type complianceRule func(ComplianceContext) []violation

// complianceRules is the canonical ordered rule set: temporal integrity,
// toggle/state consistency, review lifecycle discipline, passed-QA
// validation, then workflow sequence validation.
var complianceRules = []complianceRule{
	rulePassedQABeforeTests,
	ruleReviewedBeforeTests,
	ruleAuthoredWithoutTests,
	ruleTestsWithoutAuthoredToggle,
	ruleUnauthoredTestsModified,
	ruleUnreviewedTestsState,
	ruleReviewLifecycleSkipped,
	rulePassedQAGovernance,
	ruleWorkflowSequence,
}

// EvaluateCompliance folds the ordered rule set into a verdict. No fired
// rule yields Compliant; severe is true if any fired rule set it.
func EvaluateCompliance(ctx ComplianceContext) ComplianceVerdict {
	var verdict ComplianceVerdict
	for _, rule := range complianceRules {
		for _, v := range rule(ctx) {
			verdict.Violations = append(verdict.Violations, v.message)
			if v.severe {
				verdict.Severe = true
			}
		}
	}
	return verdict
}

// --- Temporal integrity ---

func rulePassedQABeforeTests(ctx ComplianceContext) []violation {
	if ctx.PassedQAAt.Before(ctx.EarliestTestAt) {
		return []violation{{"Passed QA recorded before any test case was created", true}}
	}
	return nil
}

func ruleReviewedBeforeTests(ctx ComplianceContext) []violation {
	if ctx.ReviewToggleAt.Before(ctx.EarliestTestAt) {
		return []violation{{"Tests marked reviewed before any test case was created", true}}
	}
	return nil
}

func ruleAuthoredWithoutTests(ctx ComplianceContext) []violation {
	if ctx.TestsAuthored && ctx.TestCaseCount == 0 {
		return []violation{{"Tests marked authored but no test cases are linked", true}}
	}
	return nil
}

// --- Toggle / state consistency ---

func ruleTestsWithoutAuthoredToggle(ctx ComplianceContext) []violation {
	if !ctx.TestsAuthored && ctx.TestCaseCount > 0 {
		return []violation{{"Test cases exist but the authored toggle is off", false}}
	}
	return nil
}

func ruleUnauthoredTestsModified(ctx ComplianceContext) []violation {
	if ctx.TestsAuthored {
		return nil
	}
	for _, s := range ctx.TestStates {
		if s != testStateDesign {
			return []violation{{"Test cases progressed beyond design before the authored toggle", false}}
		}
	}
	return nil
}

func ruleUnreviewedTestsState(ctx ComplianceContext) []violation {
	if !ctx.TestsAuthored || ctx.TestsReviewed {
		return nil
	}
	for _, s := range ctx.TestStates {
		if s != testStateNeedsReview {
			return []violation{{"Authored tests are not in needs-review state", false}}
		}
	}
	return nil
}

// --- Review lifecycle discipline ---

func ruleReviewLifecycleSkipped(ctx ComplianceContext) []violation {
	if !ctx.TestsReviewed || ctx.TestCaseCount == 0 || ctx.EverNeedsReview {
		return nil
	}
	// A test that already reached ready softens this to a skip-review
	// finding instead of a lifecycle breach.
	for _, s := range ctx.TestStates {
		if s == testStateReady {
			return []violation{{"Review step skipped: tests reached ready without needs-review", false}}
		}
	}
	return []violation{{"Tests marked reviewed but never passed through needs-review", true}}
}

// --- Passed-QA validation ---

func rulePassedQAGovernance(ctx ComplianceContext) []violation {
	if ctx.State != statePassedQA {
		return nil
	}

	var out []violation

	if ctx.TestCaseCount == 0 {
		out = append(out, violation{"Passed QA without any linked test cases", true})
	}
	if !ctx.TestsAuthored || !ctx.TestsReviewed {
		out = append(out, violation{"Passed QA without authored and reviewed toggles set", true})
	}

	pendingReview, notReady, failing := false, false, false
	for _, s := range ctx.TestStates {
		switch s {
		case testStateNeedsReview:
			pendingReview = true
		case testStateFailed:
			failing = true
		case testStateReady:
		default:
			notReady = true
		}
	}

	if failing {
		out = append(out, violation{"Passed QA with failing test cases", true})
	}
	if pendingReview {
		out = append(out, violation{"Passed QA with test cases still pending review", false})
	}
	if notReady {
		out = append(out, violation{"Passed QA but not all test cases are ready", false})
	}
	return out
}

// --- Workflow sequence validation ---

func ruleWorkflowSequence(ctx ComplianceContext) []violation {
	h := ctx.History
	if len(h) == 0 {
		return nil
	}

	var out []violation

	if ctx.State == statePassedQA && !containsState(h, stateQAInProgress) {
		out = append(out, violation{"Passed QA without QA ever starting", true})
	}

	if ctx.State == statePassedQA && containsState(h, stateQAInProgress) {
		if len(h) < 2 || h[len(h)-2] != stateQAInProgress {
			out = append(out, violation{"Passed QA not entered directly from QA in progress", true})
		}
	}

	for i := 0; i+1 < len(h); i++ {
		if h[i+1] != stateQAInProgress {
			continue
		}
		switch h[i] {
		case stateRework:
			// Dev skipped the ready-for-QA handoff after rework.
			out = append(out, violation{"Rework moved directly to QA in progress", false})
		case stateDesign, stateMerged, stateNew:
			out = append(out, violation{"QA started with no dev handoff", true})
		case statePassedQA:
			out = append(out, violation{"Story reopened into QA after passing", false})
		}
	}

	return out
}

func containsState(h []string, s string) bool {
	for _, x := range h {
		if x == s {
			return true
		}
	}
	return false
}
