package gatekit

import (
	"context"

	"github.com/goliatone/go-errors"
	"github.com/google/uuid"
)

// Loader fetches one resource kind by id for the pipeline. It wraps a plain
// fetch function so repositories and in-memory stubs plug in the same way.
type Loader[T AccessTarget] struct {
	kind  string
	fetch func(ctx context.Context, id uuid.UUID) (T, error)
}

// NewLoader creates a loader for a resource kind. The kind only shows up in
// error metadata and logs.
func NewLoader[T AccessTarget](kind string, fetch func(ctx context.Context, id uuid.UUID) (T, error)) *Loader[T] {
	return &Loader[T]{kind: kind, fetch: fetch}
}

// Load performs the single lookup. A malformed id is bad input, a missing
// record the canonical not-found; store failures pass through as internal
// errors.
func (l *Loader[T]) Load(ctx context.Context, raw string) (T, error) {
	var zero T

	id, err := uuid.Parse(raw)
	if err != nil {
		return zero, errors.New("invalid id", errors.CategoryBadInput).
			WithCode(errors.CodeBadRequest).
			WithMetadata(map[string]any{"kind": l.kind, "id": raw})
	}

	target, err := l.fetch(ctx, id)
	if err != nil {
		if errors.IsNotFound(err) || errors.Is(err, ErrResourceNotFound) {
			return zero, ErrResourceNotFound.Clone().
				WithMetadata(map[string]any{"kind": l.kind, "id": id.String()})
		}
		return zero, errors.Wrap(err, errors.CategoryInternal, "failed to load "+l.kind)
	}

	return target, nil
}
