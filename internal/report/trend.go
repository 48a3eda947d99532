package report

import (
	"math"
	"sort"

	"storyscope/internal/store"
)

// DefaultTrendWindow is the number of most recent sprint runs considered per
// assignee.
const DefaultTrendWindow = 3

// Trend flag classifications, in evaluation order.
const (
	FlagDeclining = "Coverage Declining"
	FlagImproving = "Improving"
	FlagVolatile  = "Volatile"
	FlagStable    = "Stable"
)

// Trend is one assignee's movement over their recent sprint runs.
type Trend struct {
	Assignee         string
	CoverageDelta    float64
	PerformanceDelta float64
	Volatility       float64
	Flag             string
}

// CalculateTrends analyzes the last window sprint runs per assignee.
// Assignees with fewer than two runs in the window are skipped; there is no
// movement to report. History rows are expected oldest first, as the store
// returns them.
func CalculateTrends(history []store.SprintSummary, window int) []Trend {
	if window < 2 {
		window = DefaultTrendWindow
	}

	byAssignee := make(map[string][]store.SprintSummary)
	for _, h := range history {
		byAssignee[h.Assignee] = append(byAssignee[h.Assignee], h)
	}

	assignees := make([]string, 0, len(byAssignee))
	for a := range byAssignee {
		assignees = append(assignees, a)
	}
	sort.Strings(assignees)

	var out []Trend
	for _, a := range assignees {
		runs := byAssignee[a]
		if len(runs) > window {
			runs = runs[len(runs)-window:]
		}
		if len(runs) < 2 {
			continue
		}

		first, last := runs[0], runs[len(runs)-1]
		coverageDelta := last.Coverage - first.Coverage
		performanceDelta := last.Performance - first.Performance
		volatility := stddev(coverages(runs))

		flag := FlagStable
		switch {
		case coverageDelta < -10:
			flag = FlagDeclining
		case coverageDelta > 10:
			flag = FlagImproving
		case volatility > 15:
			flag = FlagVolatile
		}

		out = append(out, Trend{
			Assignee:         a,
			CoverageDelta:    round2(coverageDelta),
			PerformanceDelta: round2(performanceDelta),
			Volatility:       round2(volatility),
			Flag:             flag,
		})
	}

	return out
}

func coverages(runs []store.SprintSummary) []float64 {
	vals := make([]float64, len(runs))
	for i, r := range runs {
		vals[i] = r.Coverage
	}
	return vals
}

// stddev is the sample standard deviation.
func stddev(vals []float64) float64 {
	if len(vals) < 2 {
		return 0
	}

	var mean float64
	for _, v := range vals {
		mean += v
	}
	mean /= float64(len(vals))

	var ss float64
	for _, v := range vals {
		d := v - mean
		ss += d * d
	}
	return math.Sqrt(ss / float64(len(vals)-1))
}
