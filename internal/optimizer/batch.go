package optimizer

import (
	"context"
	"fmt"

	"resumeai/internal/types"

	"golang.org/x/sync/errgroup"
)

// OptimizeBatch optimizes one résumé against every JD text concurrently,
// running at most limit optimizations at once (unbounded when limit <= 0).
// Items come back in input order. A JD too short to analyze yields an item
// with Error set; only context cancellation fails the whole batch.
func (o *Optimizer) OptimizeBatch(ctx context.Context, resume types.Resume, jdTexts []string, limit int) ([]types.BatchItem, error) {
	items := make([]types.BatchItem, len(jdTexts))

	g, ctx := errgroup.WithContext(ctx)
	if limit > 0 {
		g.SetLimit(limit)
	}

	for i, jd := range jdTexts {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			item := types.BatchItem{Index: i}
			profile := o.Analyze(jd)
			if profile.IsEmpty() {
				item.Error = insufficientJD
			} else {
				result := o.Optimize(resume, profile)
				item.Result = &result
			}
			items[i] = item
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("batch optimization aborted: %w", err)
	}
	return items, nil
}
