package store

import (
	"testing"

	"storyscope/internal/assess"
)

func TestFromResult(t *testing.T) {
	r := assess.Result{
		StoryID:  101,
		Title:    "Settings sync",
		Assignee: "casey",
		Profile:  assess.StoryProfile{Type: "API"},
		Quality:  82.5,
		Coverage: 71,
		Gaps:     assess.ScenarioGapResult{CoveragePct: 66.67},
		TestDepth: 55,
		Governance: assess.GovernanceResult{Score: 80},
		AdvisoryApplied: true,
		AdvisoryReason:  "rule_engine_blind_spot",
		Compliance:      assess.ComplianceVerdict{},
		Performance:     assess.PerformanceResult{Score: 74.2, Risk: assess.RiskMedium},
	}

	got := FromResult("Sprint 12", r)

	if got.Sprint != "Sprint 12" || got.StoryID != 101 || got.Assignee != "casey" {
		t.Errorf("identity fields: %+v", got)
	}
	if got.Risk != "Medium" {
		t.Errorf("risk = %q, want Medium", got.Risk)
	}
	if got.Compliance != "Compliant" {
		t.Errorf("compliance = %q, want Compliant for a clean verdict", got.Compliance)
	}
	if got.ScenarioCoverage != 66.67 || got.Performance != 74.2 {
		t.Errorf("metrics not carried: %+v", got)
	}
	if !got.AdvisoryApplied || got.AdvisoryReason != "rule_engine_blind_spot" {
		t.Errorf("advisory fields not carried: %+v", got)
	}
}
