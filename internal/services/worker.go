package services

import (
	"context"

	"golang.org/x/sync/errgroup"
)

// CandidatePool runs per-candidate work with bounded concurrency. With a
// concurrency of 1 candidate N+1 starts only after candidate N returned.
type CandidatePool struct {
	concurrency int
}

func NewCandidatePool(concurrency int) *CandidatePool {
	if concurrency < 1 {
		concurrency = 1
	}
	return &CandidatePool{concurrency: concurrency}
}

func (p *CandidatePool) Concurrency() int {
	return p.concurrency
}

// Run calls fn for indexes 0..n-1. The first error cancels the context passed
// to in-flight calls, stops scheduling, and is returned.
func (p *CandidatePool) Run(ctx context.Context, n int, fn func(ctx context.Context, index int) error) error {
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(p.concurrency)

	scheduled := 0
	for i := 0; i < n; i++ {
		if gctx.Err() != nil {
			break
		}
		scheduled++

		index := i
		g.Go(func() error {
			// Go may have blocked on the limit while an earlier candidate failed.
			if err := gctx.Err(); err != nil {
				return err
			}
			return fn(gctx, index)
		})
	}

	if err := g.Wait(); err != nil {
		return err
	}
	if scheduled < n {
		return ctx.Err()
	}
	return nil
}
