// Package store persists assessment results and per-sprint history in
// SQLite.
package store

import (
	"storyscope/internal/assess"
)

// StoryRecord is the flattened per-story row persisted for one sprint run.
type StoryRecord struct {
	Sprint   string
	StoryID  int
	Title    string
	Assignee string

	StoryType        string
	ACQuality        float64
	Coverage         float64
	ScenarioCoverage float64
	TestDepth        float64
	Governance       float64
	Performance      float64
	Risk             string
	Compliance       string

	AdvisoryApplied bool
	AdvisoryReason  string

	CreatedAt string
}

// SprintSummary is one assignee's aggregate row for one sprint run.
type SprintSummary struct {
	RunDate  string
	Sprint   string
	Assignee string
	Stories  int

	Coverage         float64
	ScenarioCoverage float64
	TestDepth        float64
	Governance       float64
	ACQuality        float64
	Performance      float64

	HighRiskPct   float64
	CompliancePct float64
}

// FromResult flattens an assessment result into a persistable record.
func FromResult(sprint string, r assess.Result) StoryRecord {
	return StoryRecord{
		Sprint:           sprint,
		StoryID:          r.StoryID,
		Title:            r.Title,
		Assignee:         r.Assignee,
		StoryType:        r.Profile.Type,
		ACQuality:        r.Quality,
		Coverage:         r.Coverage,
		ScenarioCoverage: r.Gaps.CoveragePct,
		TestDepth:        r.TestDepth,
		Governance:       r.Governance.Score,
		Performance:      r.Performance.Score,
		Risk:             string(r.Performance.Risk),
		Compliance:       r.Compliance.Status(),
		AdvisoryApplied:  r.AdvisoryApplied,
		AdvisoryReason:   r.AdvisoryReason,
	}
}
