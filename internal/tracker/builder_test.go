package tracker

import (
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
)

func storyItem() *WorkItem {
	return &WorkItem{
		ID: 42,
		Fields: map[string]any{
			FieldTitle:         "Settings sync",
			FieldDescription:   "Keep settings in sync across devices.",
			FieldState:         "QA in Progress",
			FieldAcceptance:    "1. Settings must persist\n2. Invalid input must show an error",
			FieldTestedBy:      map[string]any{"displayName": "Riley"},
			FieldTestsAuthored: true,
			FieldTestsReviewed: "True",
		},
		Relations: []Relation{
			{Rel: "Microsoft.VSTS.Common.TestedBy-Forward", URL: "https://x/_apis/wit/workItems/900"},
		},
	}
}

func testItem(id int, state, created string) WorkItem {
	return WorkItem{
		ID: id,
		Fields: map[string]any{
			FieldTitle:          "Verify settings persist",
			FieldTestSteps:      "Step 1. Change a setting. Step 2. Reload.",
			FieldExpectedResult: "Setting value persists",
			FieldState:          state,
			FieldCreatedDate:    created,
		},
	}
}

func stateUpdate(id int, revised, from, to string) Update {
	ts, _ := time.Parse(time.RFC3339, revised)
	return Update{
		ID:          id,
		RevisedDate: ts,
		Fields: map[string]FieldChange{
			FieldState: {OldValue: from, NewValue: to},
		},
	}
}

func TestBuildStory(t *testing.T) {
	tests := []WorkItem{
		testItem(900, "Ready", "2026-03-01T09:00:00Z"),
		testItem(901, "Ready", "2026-02-28T12:00:00Z"),
	}
	updates := []Update{
		stateUpdate(1, "2026-03-02T08:00:00Z", "New", "Ready for QA"),
		stateUpdate(2, "2026-03-03T08:00:00Z", "Ready for QA", "QA in Progress"),
	}
	testUpdates := map[int][]Update{
		900: {stateUpdate(1, "2026-03-01T10:00:00Z", "Design", "Needs Review")},
	}

	story, ok := BuildStory(storyItem(), tests, updates, testUpdates)
	if !ok {
		t.Fatal("story with an assignee was rejected")
	}

	if story.ID != 42 || story.Assignee != "Riley" {
		t.Errorf("identity fields: id=%d assignee=%q", story.ID, story.Assignee)
	}
	if len(story.Tests) != 2 || story.Tests[0].ID != 900 {
		t.Errorf("tests not mapped: %+v", story.Tests)
	}

	comp := story.Compliance
	if comp.State != "qa in progress" {
		t.Errorf("state = %q, want folded lowercase", comp.State)
	}
	if !comp.TestsAuthored || !comp.TestsReviewed {
		t.Errorf("toggles: authored=%v reviewed=%v", comp.TestsAuthored, comp.TestsReviewed)
	}
	wantHistory := []string{"ready for qa", "qa in progress"}
	if diff := cmp.Diff(wantHistory, comp.History); diff != "" {
		t.Errorf("history mismatch (-want +got):\n%s", diff)
	}
	if !comp.EverNeedsReview {
		t.Error("needs-review state in test history not detected")
	}

	if !comp.EarliestTestAt.Set {
		t.Fatal("earliest test timestamp not set")
	}
	want, _ := time.Parse(time.RFC3339, "2026-02-28T12:00:00Z")
	if !comp.EarliestTestAt.Time.Equal(want) {
		t.Errorf("earliest test = %v, want %v", comp.EarliestTestAt.Time, want)
	}
}

func TestBuildStory_NoAssignee(t *testing.T) {
	story := storyItem()
	delete(story.Fields, FieldTestedBy)

	if _, ok := BuildStory(story, nil, nil, nil); ok {
		t.Error("story without a tester must be excluded")
	}
}

func TestBuildStory_NilTestUpdatesDisablesHistoryCheck(t *testing.T) {
	story, ok := BuildStory(storyItem(), []WorkItem{testItem(900, "Ready", "")}, nil, nil)
	if !ok {
		t.Fatal("rejected")
	}
	if !story.Compliance.EverNeedsReview {
		t.Error("missing test history must not count as a skipped review")
	}
}

func TestBuildStory_ToggleAndPassedQATimestamps(t *testing.T) {
	reviewed, _ := time.Parse(time.RFC3339, "2026-03-04T10:00:00Z")
	updates := []Update{
		stateUpdate(1, "2026-03-03T08:00:00Z", "Ready for QA", "QA in Progress"),
		{
			ID:          2,
			RevisedDate: reviewed,
			Fields: map[string]FieldChange{
				FieldTestsReviewed: {NewValue: true},
			},
		},
		stateUpdate(3, "2026-03-05T08:00:00Z", "QA in Progress", "Passed QA"),
	}

	story, ok := BuildStory(storyItem(), []WorkItem{testItem(900, "Ready", "2026-03-01T09:00:00Z")}, updates, nil)
	if !ok {
		t.Fatal("rejected")
	}

	comp := story.Compliance
	if !comp.ReviewToggleAt.Set || !comp.ReviewToggleAt.Time.Equal(reviewed) {
		t.Errorf("review toggle at = %+v", comp.ReviewToggleAt)
	}
	if !comp.PassedQAAt.Set {
		t.Fatal("passed QA timestamp not set")
	}
	if comp.PassedQAAt.Before(comp.EarliestTestAt) {
		t.Error("timestamps ordered wrong in fixture")
	}
}

func TestBuildStory_SentinelRevisedDateIgnored(t *testing.T) {
	sentinel, _ := time.Parse(time.RFC3339, "9999-01-01T00:00:00Z")
	updates := []Update{
		{
			ID:          1,
			RevisedDate: sentinel,
			Fields: map[string]FieldChange{
				FieldState: {NewValue: "Passed QA"},
			},
		},
	}

	story, _ := BuildStory(storyItem(), nil, updates, nil)
	if story.Compliance.PassedQAAt.Set {
		t.Error("far-future sentinel date must not produce a timestamp")
	}
}

func TestStateHistory_SkipsNonStateUpdates(t *testing.T) {
	updates := []Update{
		{ID: 1, Fields: map[string]FieldChange{FieldTitle: {NewValue: "renamed"}}},
		stateUpdate(2, "2026-03-02T08:00:00Z", "New", "Ready for QA"),
	}
	got := StateHistory(updates)
	if diff := cmp.Diff([]string{"Ready for QA"}, got); diff != "" {
		t.Errorf("history mismatch (-want +got):\n%s", diff)
	}
}
