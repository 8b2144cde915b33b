package pipeline

import (
	"context"

	"github.com/vishalsodani/decruft"
	"golang.org/x/sync/errgroup"
)

// DefaultConcurrency is used when ExtractAll is given a non-positive limit.
const DefaultConcurrency = 3

// Result holds the outcome of extracting one input of a batch.
type Result struct {
	Input  *decruft.Input
	Output *decruft.ExtractResult
	Err    error
}

// ExtractAll runs ext over inputs with at most concurrency extractions in
// flight. Results are returned in input order. A failed input does not stop
// the others; cancelling ctx skips inputs that have not started.
func ExtractAll(ctx context.Context, ext decruft.Extractor, inputs []*decruft.Input, concurrency int) []*Result {
	if concurrency <= 0 {
		concurrency = DefaultConcurrency
	}

	results := make([]*Result, len(inputs))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(concurrency)

	for i, in := range inputs {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				results[i] = &Result{Input: in, Err: err}
				return nil
			}
			out, err := ext.Extract(in)
			results[i] = &Result{Input: in, Output: out, Err: err}
			return nil
		})
	}
	_ = g.Wait()

	return results
}
