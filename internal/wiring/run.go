// Package wiring connects the tracker, assessment pipeline, store, and
// report stages into one sprint run.
package wiring

import (
	"context"
	"fmt"
	"log/slog"

	"storyscope/internal/assess"
	"storyscope/internal/report"
	"storyscope/internal/store"
	"storyscope/internal/tracker"
)

// Fetcher is the tracker surface a run needs.
type Fetcher interface {
	StoryIDs(ctx context.Context, queryID string) ([]int, error)
	WorkItem(ctx context.Context, id int) (*tracker.WorkItem, error)
	WorkItemsBatch(ctx context.Context, ids []int) ([]tracker.WorkItem, error)
	Updates(ctx context.Context, id int) ([]tracker.Update, error)
}

// Saver is the persistence surface a run needs.
type Saver interface {
	SaveStories(records []store.StoryRecord) error
	SaveHistory(sprint string, summaries []store.SprintSummary) error
	History() ([]store.SprintSummary, error)
}

// Options configures one sprint run.
type Options struct {
	QueryID string
	Sprint  string
	Workers int

	// Advise enables the advisory gate; nil disables it.
	Advise assess.AdvisoryFunc

	// FetchTestHistory also pulls each linked test case's revision
	// history, enabling the review-lifecycle compliance checks. Costs one
	// extra request per test case.
	FetchTestHistory bool

	TrendWindow int

	Logger *slog.Logger
}

// Outcome is everything a sprint run produced.
type Outcome struct {
	Records   []store.StoryRecord
	Summaries []store.SprintSummary
	Trends    []report.Trend

	// Skipped counts stories that failed to fetch; Excluded counts
	// stories without an assigned tester.
	Skipped  int
	Excluded int
}

// Run executes a full sprint assessment: resolve the saved query, fetch and
// assess each story, persist results and history, and compute trends. A story
// that fails to fetch is logged and skipped; the batch continues.
func Run(ctx context.Context, f Fetcher, s Saver, opts Options) (*Outcome, error) {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}

	ids, err := f.StoryIDs(ctx, opts.QueryID)
	if err != nil {
		return nil, fmt.Errorf("resolve story ids: %w", err)
	}
	logger.InfoContext(ctx, "stories resolved", "query", opts.QueryID, "count", len(ids))

	out := &Outcome{}
	var inputs []assess.StoryInput

	for _, id := range ids {
		input, status, err := fetchStory(ctx, f, id, opts.FetchTestHistory)
		switch status {
		case storySkipped:
			logger.WarnContext(ctx, "story skipped", "story", id, "error", err)
			out.Skipped++
		case storyExcluded:
			logger.DebugContext(ctx, "story has no tester, excluded", "story", id)
			out.Excluded++
		default:
			inputs = append(inputs, input)
		}
	}

	results, err := assess.EvaluateAll(ctx, inputs, opts.Advise, opts.Workers)
	if err != nil {
		return nil, fmt.Errorf("assess stories: %w", err)
	}

	out.Records = make([]store.StoryRecord, len(results))
	for i, r := range results {
		out.Records[i] = store.FromResult(opts.Sprint, r)
	}

	if err := s.SaveStories(out.Records); err != nil {
		return nil, fmt.Errorf("save stories: %w", err)
	}

	out.Summaries = report.Summarize(out.Records)
	if err := s.SaveHistory(opts.Sprint, out.Summaries); err != nil {
		return nil, fmt.Errorf("save history: %w", err)
	}

	history, err := s.History()
	if err != nil {
		return nil, fmt.Errorf("load history: %w", err)
	}
	out.Trends = report.CalculateTrends(history, opts.TrendWindow)

	logger.InfoContext(ctx, "sprint run complete",
		"sprint", opts.Sprint, "assessed", len(out.Records),
		"skipped", out.Skipped, "excluded", out.Excluded)

	return out, nil
}

type fetchStatus int

const (
	storyOK fetchStatus = iota
	storySkipped
	storyExcluded
)

func fetchStory(ctx context.Context, f Fetcher, id int, withTestHistory bool) (assess.StoryInput, fetchStatus, error) {
	item, err := f.WorkItem(ctx, id)
	if err != nil {
		return assess.StoryInput{}, storySkipped, err
	}

	tests, err := f.WorkItemsBatch(ctx, item.TestedByIDs())
	if err != nil {
		return assess.StoryInput{}, storySkipped, err
	}

	updates, err := f.Updates(ctx, id)
	if err != nil {
		return assess.StoryInput{}, storySkipped, err
	}

	var testUpdates map[int][]tracker.Update
	if withTestHistory {
		testUpdates = make(map[int][]tracker.Update, len(tests))
		for _, tc := range tests {
			tu, err := f.Updates(ctx, tc.ID)
			if err != nil {
				return assess.StoryInput{}, storySkipped, err
			}
			testUpdates[tc.ID] = tu
		}
	}

	input, ok := tracker.BuildStory(item, tests, updates, testUpdates)
	if !ok {
		return assess.StoryInput{}, storyExcluded, nil
	}
	return input, storyOK, nil
}
