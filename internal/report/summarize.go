// Package report turns persisted assessment rows into per-assignee
// summaries, rendered tables, CSV exports, and cross-sprint trends.
package report

import (
	"math"
	"sort"

	"storyscope/internal/store"
)

func round2(v float64) float64 { return math.Round(v*100) / 100 }

// Summarize aggregates a sprint's story rows into one summary per assignee:
// mean metrics, high-risk share, and process compliance share. Output is
// sorted by assignee for stable rendering and persistence.
func Summarize(records []store.StoryRecord) []store.SprintSummary {
	if len(records) == 0 {
		return nil
	}

	byAssignee := make(map[string][]store.StoryRecord)
	for _, r := range records {
		byAssignee[r.Assignee] = append(byAssignee[r.Assignee], r)
	}

	assignees := make([]string, 0, len(byAssignee))
	for a := range byAssignee {
		assignees = append(assignees, a)
	}
	sort.Strings(assignees)

	out := make([]store.SprintSummary, 0, len(assignees))
	for _, a := range assignees {
		rows := byAssignee[a]
		n := float64(len(rows))

		var sum store.SprintSummary
		highRisk, compliant := 0, 0
		for _, r := range rows {
			sum.Coverage += r.Coverage
			sum.ScenarioCoverage += r.ScenarioCoverage
			sum.TestDepth += r.TestDepth
			sum.Governance += r.Governance
			sum.ACQuality += r.ACQuality
			sum.Performance += r.Performance

			if r.Risk == "High" || r.Risk == "Critical" {
				highRisk++
			}
			if r.Compliance == "Compliant" {
				compliant++
			}
		}

		out = append(out, store.SprintSummary{
			Sprint:           rows[0].Sprint,
			Assignee:         a,
			Stories:          len(rows),
			Coverage:         round2(sum.Coverage / n),
			ScenarioCoverage: round2(sum.ScenarioCoverage / n),
			TestDepth:        round2(sum.TestDepth / n),
			Governance:       round2(sum.Governance / n),
			ACQuality:        round2(sum.ACQuality / n),
			Performance:      round2(sum.Performance / n),
			HighRiskPct:      round2(float64(highRisk) / n * 100),
			CompliancePct:    round2(float64(compliant) / n * 100),
		})
	}

	return out
}
