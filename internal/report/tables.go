package report

import (
	"fmt"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"

	"storyscope/internal/store"
)

// Mode controls the rendered table format.
type Mode int

const (
	ASCII    Mode = iota // fixed-width terminal tables
	Markdown             // GitHub-flavoured Markdown tables
)

const titleWidth = 40

// truncate shortens s to maxLen characters, appending "..." if truncated.
func truncate(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	if maxLen <= 3 {
		return s[:maxLen]
	}
	return s[:maxLen-3] + "..."
}

func newWriter(m Mode) table.Writer {
	w := table.NewWriter()
	if m == ASCII {
		w.SetStyle(table.StyleLight)
	}
	return w
}

func render(w table.Writer, m Mode) string {
	if m == Markdown {
		return w.RenderMarkdown()
	}
	return w.Render()
}

func pct(v float64) string { return fmt.Sprintf("%.2f", v) }

// StoryTable renders the per-story detail table for one sprint run.
func StoryTable(records []store.StoryRecord, m Mode) string {
	w := newWriter(m)
	w.AppendHeader(table.Row{
		"ID", "Title", "Assignee", "Type",
		"AC Quality", "Coverage", "Scenario", "Depth",
		"Governance", "Performance", "Risk", "Compliance",
	})
	w.SetColumnConfigs([]table.ColumnConfig{
		{Number: 5, Align: text.AlignRight},
		{Number: 6, Align: text.AlignRight},
		{Number: 7, Align: text.AlignRight},
		{Number: 8, Align: text.AlignRight},
		{Number: 9, Align: text.AlignRight},
		{Number: 10, Align: text.AlignRight},
	})

	for _, r := range records {
		w.AppendRow(table.Row{
			r.StoryID,
			truncate(r.Title, titleWidth),
			r.Assignee,
			r.StoryType,
			pct(r.ACQuality),
			pct(r.Coverage),
			pct(r.ScenarioCoverage),
			pct(r.TestDepth),
			pct(r.Governance),
			pct(r.Performance),
			r.Risk,
			truncate(r.Compliance, 60),
		})
	}

	return render(w, m)
}

// SummaryTable renders the per-assignee aggregate table.
func SummaryTable(summaries []store.SprintSummary, m Mode) string {
	w := newWriter(m)
	w.AppendHeader(table.Row{
		"Assignee", "Stories",
		"Avg Coverage", "Avg Depth", "Avg Governance", "Avg Performance",
		"High Risk %", "Compliance %",
	})
	w.SetColumnConfigs([]table.ColumnConfig{
		{Number: 2, Align: text.AlignRight},
		{Number: 3, Align: text.AlignRight},
		{Number: 4, Align: text.AlignRight},
		{Number: 5, Align: text.AlignRight},
		{Number: 6, Align: text.AlignRight},
		{Number: 7, Align: text.AlignRight},
		{Number: 8, Align: text.AlignRight},
	})

	for _, s := range summaries {
		w.AppendRow(table.Row{
			s.Assignee,
			s.Stories,
			pct(s.Coverage),
			pct(s.TestDepth),
			pct(s.Governance),
			pct(s.Performance),
			pct(s.HighRiskPct),
			pct(s.CompliancePct),
		})
	}

	return render(w, m)
}

// TrendTable renders the cross-sprint trend table.
func TrendTable(trends []Trend, m Mode) string {
	w := newWriter(m)
	w.AppendHeader(table.Row{
		"Assignee", "Coverage Trend", "Performance Trend", "Volatility", "Flag",
	})
	w.SetColumnConfigs([]table.ColumnConfig{
		{Number: 2, Align: text.AlignRight},
		{Number: 3, Align: text.AlignRight},
		{Number: 4, Align: text.AlignRight},
	})

	for _, t := range trends {
		w.AppendRow(table.Row{
			t.Assignee,
			fmt.Sprintf("%+.2f", t.CoverageDelta),
			fmt.Sprintf("%+.2f", t.PerformanceDelta),
			pct(t.Volatility),
			t.Flag,
		})
	}

	return render(w, m)
}
