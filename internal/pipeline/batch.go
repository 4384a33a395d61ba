package pipeline

import (
	"context"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/bricedupuy/chordshow/core/enrich"
	"github.com/bricedupuy/chordshow/internal/config"
	"github.com/bricedupuy/chordshow/internal/logging"
)

// RunBatch processes documents on a bounded worker pool. Results come
// back indexed like the input; outputs are keyed by source identifier
// so cross-document ordering carries no meaning.
//
// Cancellation is cooperative at document granularity: a cancelled
// context stops documents that have not started, while documents
// already in flight run to completion or failure.
func RunBatch(ctx context.Context, docs []Document, records enrich.Set, cfg config.Config) []Result {
	if logging.GetRunID(ctx) == "" {
		ctx = logging.WithRunID(ctx, uuid.NewString())
	}
	start := time.Now()

	results := make([]Result, len(docs))

	// Guard against unvalidated configs: a non-positive limit would
	// block every Go call.
	workers := cfg.Workers
	if workers < 1 {
		workers = 1
	}

	g := &errgroup.Group{}
	g.SetLimit(workers)

	for i, doc := range docs {
		i, doc := i, doc
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				results[i] = Result{Source: doc.Source, Err: err}
				return nil
			}
			results[i] = Process(ctx, doc, records, cfg)
			if results[i].Err != nil {
				logging.SongFailed(ctx, doc.Source, results[i].Err)
			}
			return nil
		})
	}
	// Workers never return errors; failures live in their results.
	_ = g.Wait()

	succeeded := 0
	for _, r := range results {
		if r.Err == nil {
			succeeded++
		}
	}
	logging.BatchSummary(ctx, len(docs), succeeded, len(docs)-succeeded, time.Since(start))
	return results
}

// RunID returns the run identifier attached to a batch context, or ""
// outside a batch.
func RunID(ctx context.Context) string {
	return logging.GetRunID(ctx)
}
