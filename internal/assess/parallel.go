package assess

import (
	"context"

	"golang.org/x/sync/errgroup"
)

// EvaluateAll assesses a story collection concurrently with at most workers
// goroutines. Story evaluation shares no mutable state, so scheduling order
// affects neither individual scores nor result ordering: results[i] always
// corresponds to stories[i]. workers < 1 runs serially.
//
// Cancelling ctx stops submitting further stories; already-running
// evaluations finish (a story is all-or-nothing) and the partial slice is
// returned with ctx.Err().
func EvaluateAll(ctx context.Context, stories []StoryInput, advise AdvisoryFunc, workers int) ([]Result, error) {
	if workers < 1 {
		workers = 1
	}

	results := make([]Result, len(stories))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)

	for i, story := range stories {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			results[i] = Evaluate(gctx, story, advise)
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return results, err
	}
	return results, nil
}
