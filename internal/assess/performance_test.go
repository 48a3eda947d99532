package assess

import "testing"

func TestCalculatePerformance_SevereOverridesEverything(t *testing.T) {
	got := CalculatePerformance(PerformanceInputs{
		Coverage:      90,
		ScenarioIndex: 95,
		TestDepth:     90,
		Governance:    95,
		ACQuality:     100,
	}, ComplianceVerdict{Violations: []string{"x"}, Severe: true})

	if got.Score != 0 {
		t.Errorf("score = %.2f, want 0 under a severe verdict", got.Score)
	}
	if got.Risk != RiskCritical {
		t.Errorf("risk = %q, want Critical", got.Risk)
	}
}

func TestCalculatePerformance_ZeroCoverageShortCircuits(t *testing.T) {
	got := CalculatePerformance(PerformanceInputs{
		ScenarioIndex: 100,
		TestDepth:     100,
		Governance:    100,
		ACQuality:     100,
	}, ComplianceVerdict{})

	if got.Score != 0 || got.Risk != RiskCritical {
		t.Errorf("got score=%.2f risk=%q, want 0/Critical", got.Score, got.Risk)
	}
	if got.Breakdown != (Breakdown{}) {
		t.Errorf("breakdown computed despite short-circuit: %+v", got.Breakdown)
	}
}

func TestCalculatePerformance_CoverageBracketCap(t *testing.T) {
	// Coverage 35 sits in the <40 bracket: the final score may never
	// exceed 55 no matter how strong the other components are.
	got := CalculatePerformance(PerformanceInputs{
		Coverage:      35,
		ScenarioIndex: 100,
		TestDepth:     100,
		Governance:    100,
		ACQuality:     100,
		CriticalGap:   true,
	}, ComplianceVerdict{})

	if got.Score > 55 {
		t.Errorf("score = %.2f, want <= 55", got.Score)
	}
	if !got.CapApplied || got.Cap != 55 {
		t.Errorf("cap = %.2f applied=%v, want 55/true", got.Cap, got.CapApplied)
	}
	if got.Risk != RiskCritical {
		t.Errorf("risk = %q, want Critical at coverage < 40", got.Risk)
	}
}

func TestCalculatePerformance_Brackets(t *testing.T) {
	tests := []struct {
		coverage float64
		wantCap  float64
		applied  bool
	}{
		{25, 45, true},
		{35, 55, true},
		{45, 65, true},
		{55, 75, true},
		{65, 0, false},
	}
	for _, tt := range tests {
		got := CalculatePerformance(PerformanceInputs{
			Coverage: tt.coverage, ScenarioIndex: 100, TestDepth: 100,
			Governance: 100, ACQuality: 100,
		}, ComplianceVerdict{})
		if got.CapApplied != tt.applied || (tt.applied && got.Cap != tt.wantCap) {
			t.Errorf("coverage %.0f: cap=%.2f applied=%v, want %.2f/%v",
				tt.coverage, got.Cap, got.CapApplied, tt.wantCap, tt.applied)
		}
	}
}

func TestCalculatePerformance_HealthyStory(t *testing.T) {
	got := CalculatePerformance(PerformanceInputs{
		Coverage:      85,
		ScenarioIndex: 90,
		TestDepth:     80,
		Governance:    88,
		ACQuality:     92,
	}, ComplianceVerdict{})

	// (85*.25 + 90*.20 + 80*.15 + 88*.15 + 92*.10) / 0.85
	if want := 86.65; got.Score != want {
		t.Errorf("score = %.2f, want %.2f", got.Score, want)
	}
	if got.Risk != RiskLow {
		t.Errorf("risk = %q, want Low", got.Risk)
	}
	if got.CapApplied {
		t.Error("cap applied with healthy coverage")
	}
	if got.Breakdown.Coverage != 21.25 || got.Breakdown.Scenario != 18 {
		t.Errorf("breakdown = %+v", got.Breakdown)
	}
}

func TestCalculatePerformance_CriticalGapPenalty(t *testing.T) {
	in := PerformanceInputs{
		Coverage: 85, ScenarioIndex: 90, TestDepth: 80, Governance: 88, ACQuality: 92,
	}
	clean := CalculatePerformance(in, ComplianceVerdict{})

	in.CriticalGap = true
	gapped := CalculatePerformance(in, ComplianceVerdict{})

	if gapped.Score >= clean.Score {
		t.Errorf("critical gap did not reduce score: %.2f vs %.2f", gapped.Score, clean.Score)
	}
	if gapped.Breakdown.Penalty == 0 {
		t.Error("penalty not recorded in breakdown")
	}
	if gapped.Risk != RiskHigh {
		t.Errorf("risk = %q, want High with a critical gap", gapped.Risk)
	}
}

func TestCalculatePerformance_RiskTiers(t *testing.T) {
	tests := []struct {
		name     string
		coverage float64
		want     RiskTier
	}{
		{"critical below 40", 39, RiskCritical},
		{"high below 60", 59, RiskHigh},
		{"low when healthy", 95, RiskLow},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := CalculatePerformance(PerformanceInputs{
				Coverage: tt.coverage, ScenarioIndex: 90, TestDepth: 90,
				Governance: 90, ACQuality: 90,
			}, ComplianceVerdict{})
			if got.Risk != tt.want {
				t.Errorf("risk = %q, want %q", got.Risk, tt.want)
			}
		})
	}
}

func TestCalculatePerformance_MediumRisk(t *testing.T) {
	// Healthy coverage but weak components drag the score below 60.
	got := CalculatePerformance(PerformanceInputs{
		Coverage: 62, ScenarioIndex: 20, TestDepth: 10, Governance: 30, ACQuality: 40,
	}, ComplianceVerdict{})
	if got.Risk != RiskMedium {
		t.Errorf("risk = %q (score %.2f), want Medium", got.Risk, got.Score)
	}
}
