package report

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"

	"storyscope/internal/store"
)

// WriteCSV writes the sprint's story rows as CSV, header first.
func WriteCSV(w io.Writer, records []store.StoryRecord) error {
	cw := csv.NewWriter(w)

	header := []string{
		"Sprint", "Story ID", "Title", "Assignee", "Story Type",
		"AC Quality Score", "Coverage %", "Scenario Coverage %",
		"Test Depth Score", "Governance Score", "QA Performance Score",
		"Risk", "Compliance Status",
	}
	if err := cw.Write(header); err != nil {
		return fmt.Errorf("write csv header: %w", err)
	}

	for _, r := range records {
		row := []string{
			r.Sprint,
			strconv.Itoa(r.StoryID),
			r.Title,
			r.Assignee,
			r.StoryType,
			pct(r.ACQuality),
			pct(r.Coverage),
			pct(r.ScenarioCoverage),
			pct(r.TestDepth),
			pct(r.Governance),
			pct(r.Performance),
			r.Risk,
			r.Compliance,
		}
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("write csv row %d: %w", r.StoryID, err)
		}
	}

	cw.Flush()
	return cw.Error()
}
