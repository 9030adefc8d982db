package gatekit

import (
	"context"

	"github.com/goliatone/go-errors"
)

// Exchange is the typed state a pipeline threads through its stages by
// value. Stages return an updated copy instead of mutating shared request
// context, so what each stage may rely on is exactly what earlier stages
// put there.
type Exchange struct {
	// Principal is set by an authentication stage.
	Principal *Principal
	// Target is set by a load stage; it is what the permission stage
	// decides over.
	Target AccessTarget
}

// Stage is a single pipeline step. A non-nil error terminates the run.
type Stage func(ctx context.Context, ex Exchange) (Exchange, error)

// Pipeline is an ordered, short-circuiting stage chain. It holds no state
// between runs; composing one per endpoint at startup and running it per
// request is the intended use.
type Pipeline struct {
	stages []Stage
}

// NewPipeline composes stages in execution order. Nil stages are skipped so
// callers can build conditionally.
func NewPipeline(stages ...Stage) Pipeline {
	filtered := make([]Stage, 0, len(stages))
	for _, s := range stages {
		if s != nil {
			filtered = append(filtered, s)
		}
	}
	return Pipeline{stages: filtered}
}

// Then returns a pipeline with extra stages appended.
func (p Pipeline) Then(stages ...Stage) Pipeline {
	combined := make([]Stage, 0, len(p.stages)+len(stages))
	combined = append(combined, p.stages...)
	for _, s := range stages {
		if s != nil {
			combined = append(combined, s)
		}
	}
	return Pipeline{stages: combined}
}

// Run executes the stages sequentially, stopping at the first failure.
// Cancellation is observed between stages: once the context is done no
// further stage runs, which keeps terminal mutations from firing after the
// transport gave up on the request.
func (p Pipeline) Run(ctx context.Context, ex Exchange) (Exchange, error) {
	for _, stage := range p.stages {
		select {
		case <-ctx.Done():
			return ex, errors.Wrap(ctx.Err(), errors.CategoryOperation, "request cancelled mid-pipeline")
		default:
		}

		var err error
		if ex, err = stage(ctx, ex); err != nil {
			return ex, err
		}
	}

	return ex, nil
}
