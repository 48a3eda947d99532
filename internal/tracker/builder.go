package tracker

import (
	"strings"
	"time"

	"storyscope/internal/assess"
)

// BuildStory maps a fetched work item, its linked test cases, and revision
// histories onto the pipeline's input record. It returns ok=false when the
// story has no tester assigned, which excludes it from assessment.
//
// testUpdates maps test case ID to that item's revision history; a nil map
// disables the needs-review history check rather than failing it.
func BuildStory(story *WorkItem, tests []WorkItem, storyUpdates []Update, testUpdates map[int][]Update) (assess.StoryInput, bool) {
	assignee := story.IdentityField(FieldTestedBy)
	if assignee == "" {
		return assess.StoryInput{}, false
	}

	artifacts := make([]assess.TestArtifact, 0, len(tests))
	testStates := make([]string, 0, len(tests))
	earliestTest := time.Time{}
	for _, tc := range tests {
		artifacts = append(artifacts, assess.TestArtifact{
			ID:             tc.ID,
			Title:          tc.StringField(FieldTitle),
			Steps:          tc.StringField(FieldTestSteps),
			ExpectedResult: tc.StringField(FieldExpectedResult),
			State:          tc.StringField(FieldState),
		})
		testStates = append(testStates, tc.StringField(FieldState))

		if created := tc.TimeField(FieldCreatedDate); !created.IsZero() {
			if earliestTest.IsZero() || created.Before(earliestTest) {
				earliestTest = created
			}
		}
	}

	comp := assess.NewComplianceContext(
		story.StringField(FieldState),
		story.BoolField(FieldTestsAuthored),
		story.BoolField(FieldTestsReviewed),
		testStates,
		StateHistory(storyUpdates),
	)

	if !earliestTest.IsZero() {
		comp.EarliestTestAt = assess.At(earliestTest)
	}
	if at, ok := toggleActivatedAt(storyUpdates, FieldTestsReviewed); ok {
		comp.ReviewToggleAt = assess.At(at)
	}
	if at, ok := stateReachedAt(storyUpdates, "passed qa"); ok {
		comp.PassedQAAt = assess.At(at)
	}

	if testUpdates == nil {
		// Without test revision history the current states are all we
		// know; treat every past state as observed.
		comp.EverNeedsReview = true
	} else {
		comp.EverNeedsReview = everInState(tests, testUpdates, "needs review")
	}

	return assess.StoryInput{
		ID:          story.ID,
		Title:       story.StringField(FieldTitle),
		Description: story.StringField(FieldDescription),
		Assignee:    assignee,
		CriteriaRaw: story.StringField(FieldAcceptance),
		Tests:       artifacts,
		Compliance:  comp,
	}, true
}

// StateHistory extracts the chronological story state sequence from a
// revision history.
func StateHistory(updates []Update) []string {
	var states []string
	for _, u := range updates {
		fc, ok := u.Fields[FieldState]
		if !ok {
			continue
		}
		if s := fc.NewString(); s != "" {
			states = append(states, s)
		}
	}
	return states
}

// toggleActivatedAt returns the timestamp of the first update that switched
// the named toggle field on.
func toggleActivatedAt(updates []Update, field string) (time.Time, bool) {
	for _, u := range updates {
		fc, ok := u.Fields[field]
		if !ok || !fc.NewBool() {
			continue
		}
		if usable(u.RevisedDate) {
			return u.RevisedDate, true
		}
	}
	return time.Time{}, false
}

// stateReachedAt returns the timestamp of the first update that moved the
// item into the given state.
func stateReachedAt(updates []Update, state string) (time.Time, bool) {
	for _, u := range updates {
		fc, ok := u.Fields[FieldState]
		if !ok {
			continue
		}
		if !strings.EqualFold(strings.TrimSpace(fc.NewString()), state) {
			continue
		}
		if usable(u.RevisedDate) {
			return u.RevisedDate, true
		}
	}
	return time.Time{}, false
}

// The tracker stamps open-ended revisions with a far-future sentinel date.
func usable(t time.Time) bool {
	return !t.IsZero() && t.Year() < 9000
}

func everInState(tests []WorkItem, testUpdates map[int][]Update, state string) bool {
	for _, tc := range tests {
		if strings.EqualFold(strings.TrimSpace(tc.StringField(FieldState)), state) {
			return true
		}
		for _, u := range testUpdates[tc.ID] {
			fc, ok := u.Fields[FieldState]
			if !ok {
				continue
			}
			if strings.EqualFold(strings.TrimSpace(fc.NewString()), state) {
				return true
			}
		}
	}
	return false
}
