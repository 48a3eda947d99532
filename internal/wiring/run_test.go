package wiring

import (
	"context"
	"fmt"
	"testing"

	"storyscope/internal/report"
	"storyscope/internal/store"
	"storyscope/internal/tracker"
)

type fakeFetcher struct {
	ids     []int
	items   map[int]*tracker.WorkItem
	tests   map[int][]tracker.WorkItem
	updates map[int][]tracker.Update
	failing map[int]bool
}

func (f *fakeFetcher) StoryIDs(_ context.Context, _ string) ([]int, error) {
	return f.ids, nil
}

func (f *fakeFetcher) WorkItem(_ context.Context, id int) (*tracker.WorkItem, error) {
	if f.failing[id] {
		return nil, fmt.Errorf("boom for %d", id)
	}
	item, ok := f.items[id]
	if !ok {
		return nil, fmt.Errorf("unknown item %d", id)
	}
	return item, nil
}

func (f *fakeFetcher) WorkItemsBatch(_ context.Context, ids []int) ([]tracker.WorkItem, error) {
	var out []tracker.WorkItem
	for _, id := range ids {
		out = append(out, f.tests[id]...)
	}
	return out, nil
}

func (f *fakeFetcher) Updates(_ context.Context, id int) ([]tracker.Update, error) {
	return f.updates[id], nil
}

type fakeSaver struct {
	stories   []store.StoryRecord
	summaries []store.SprintSummary
	history   []store.SprintSummary
	saveErr   error
}

func (s *fakeSaver) SaveStories(records []store.StoryRecord) error {
	if s.saveErr != nil {
		return s.saveErr
	}
	s.stories = records
	return nil
}

func (s *fakeSaver) SaveHistory(_ string, summaries []store.SprintSummary) error {
	s.summaries = summaries
	s.history = append(s.history, summaries...)
	return nil
}

func (s *fakeSaver) History() ([]store.SprintSummary, error) {
	return s.history, nil
}

func storyItem(id int, assignee string) *tracker.WorkItem {
	fields := map[string]any{
		tracker.FieldTitle:         fmt.Sprintf("Story %d", id),
		tracker.FieldState:         "QA in Progress",
		tracker.FieldAcceptance:    "1. Settings must persist\n2. Invalid input must show an error",
		tracker.FieldTestsAuthored: true,
		tracker.FieldTestsReviewed: true,
	}
	if assignee != "" {
		fields[tracker.FieldTestedBy] = map[string]any{"displayName": assignee}
	}
	return &tracker.WorkItem{
		ID:     id,
		Fields: fields,
		Relations: []tracker.Relation{
			{Rel: "Microsoft.VSTS.Common.TestedBy-Forward", URL: fmt.Sprintf("https://x/_apis/wit/workItems/%d", id+800)},
		},
	}
}

func testCase(id int) tracker.WorkItem {
	return tracker.WorkItem{
		ID: id,
		Fields: map[string]any{
			tracker.FieldTitle:          "Persistence check",
			tracker.FieldTestSteps:      "Step 1. Save an invalid empty value. Step 2. Reload.",
			tracker.FieldExpectedResult: "Error shown, setting persists",
			tracker.FieldState:          "Ready",
		},
	}
}

func newFetcher() *fakeFetcher {
	return &fakeFetcher{
		ids: []int{101, 102, 103},
		items: map[int]*tracker.WorkItem{
			101: storyItem(101, "casey"),
			102: storyItem(102, "riley"),
			103: storyItem(103, ""), // no tester assigned
		},
		tests: map[int][]tracker.WorkItem{
			901: {testCase(901)},
			902: {testCase(902)},
			903: {testCase(903)},
		},
		updates: map[int][]tracker.Update{},
		failing: map[int]bool{},
	}
}

func TestRun(t *testing.T) {
	f := newFetcher()
	s := &fakeSaver{}

	out, err := Run(context.Background(), f, s, Options{
		QueryID: "q-guid",
		Sprint:  "Sprint 12",
		Workers: 2,
	})
	if err != nil {
		t.Fatalf("Run: %v", err)
	}

	if len(out.Records) != 2 {
		t.Fatalf("got %d records, want 2 assessed stories", len(out.Records))
	}
	if out.Excluded != 1 || out.Skipped != 0 {
		t.Errorf("excluded=%d skipped=%d, want 1/0", out.Excluded, out.Skipped)
	}
	if len(s.stories) != 2 {
		t.Errorf("store received %d stories", len(s.stories))
	}
	if len(out.Summaries) != 2 {
		t.Errorf("got %d summaries, want one per assignee", len(out.Summaries))
	}
	for _, r := range out.Records {
		if r.Sprint != "Sprint 12" {
			t.Errorf("record sprint = %q", r.Sprint)
		}
		if r.Coverage <= 0 {
			t.Errorf("story %d coverage = %.2f, want > 0", r.StoryID, r.Coverage)
		}
	}
}

func TestRun_SkipsFailingStory(t *testing.T) {
	f := newFetcher()
	f.failing[102] = true
	s := &fakeSaver{}

	out, err := Run(context.Background(), f, s, Options{Sprint: "Sprint 12", Workers: 1})
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if out.Skipped != 1 {
		t.Errorf("skipped = %d, want 1", out.Skipped)
	}
	if len(out.Records) != 1 || out.Records[0].StoryID != 101 {
		t.Errorf("unexpected records: %+v", out.Records)
	}
}

func TestRun_SaveErrorPropagates(t *testing.T) {
	f := newFetcher()
	s := &fakeSaver{saveErr: fmt.Errorf("disk full")}

	if _, err := Run(context.Background(), f, s, Options{Sprint: "Sprint 12", Workers: 1}); err == nil {
		t.Error("expected save error to fail the run")
	}
}

func TestRun_TrendsFromAccumulatedHistory(t *testing.T) {
	f := newFetcher()
	s := &fakeSaver{history: []store.SprintSummary{
		{RunDate: "2026-01-10", Sprint: "Sprint 10", Assignee: "casey", Coverage: 30, Performance: 30},
		{RunDate: "2026-02-10", Sprint: "Sprint 11", Assignee: "casey", Coverage: 50, Performance: 50},
	}}

	out, err := Run(context.Background(), f, s, Options{Sprint: "Sprint 12", Workers: 1, TrendWindow: 3})
	if err != nil {
		t.Fatalf("Run: %v", err)
	}

	var casey *report.Trend
	for i := range out.Trends {
		if out.Trends[i].Assignee == "casey" {
			casey = &out.Trends[i]
		}
	}
	if casey == nil {
		t.Fatalf("no trend for casey: %+v", out.Trends)
	}
	if casey.CoverageDelta <= 0 {
		t.Errorf("coverage delta = %.2f, want positive across runs", casey.CoverageDelta)
	}
}
