package gatekit_test

import (
	"context"
	"testing"

	goerrors "github.com/goliatone/go-errors"
	gatekit "github.com/goliatone/go-gatekit"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPipeline_Run(t *testing.T) {
	ctx := context.Background()

	t.Run("threads the exchange through stages in order", func(t *testing.T) {
		var order []string

		principal := &gatekit.Principal{ID: uuid.New()}
		post := &gatekit.Post{ID: uuid.New(), OwnerID: principal.ID}

		pipe := gatekit.NewPipeline(
			func(ctx context.Context, ex gatekit.Exchange) (gatekit.Exchange, error) {
				order = append(order, "auth")
				ex.Principal = principal
				return ex, nil
			},
			func(ctx context.Context, ex gatekit.Exchange) (gatekit.Exchange, error) {
				order = append(order, "load")
				require.NotNil(t, ex.Principal)
				ex.Target = post
				return ex, nil
			},
			func(ctx context.Context, ex gatekit.Exchange) (gatekit.Exchange, error) {
				order = append(order, "authorize")
				require.NotNil(t, ex.Target)
				return ex, nil
			},
		)

		ex, err := pipe.Run(ctx, gatekit.Exchange{})
		require.NoError(t, err)
		assert.Equal(t, []string{"auth", "load", "authorize"}, order)
		assert.Equal(t, principal, ex.Principal)
		assert.Equal(t, post, ex.Target)
	})

	t.Run("short circuits on the first failure", func(t *testing.T) {
		called := false

		pipe := gatekit.NewPipeline(
			func(ctx context.Context, ex gatekit.Exchange) (gatekit.Exchange, error) {
				return ex, gatekit.ErrResourceNotFound
			},
			func(ctx context.Context, ex gatekit.Exchange) (gatekit.Exchange, error) {
				called = true
				return ex, nil
			},
		)

		_, err := pipe.Run(ctx, gatekit.Exchange{})
		assert.Equal(t, gatekit.ErrResourceNotFound, err)
		assert.False(t, called, "stages after a failure must not run")
	})

	t.Run("skips nil stages", func(t *testing.T) {
		ran := false

		pipe := gatekit.NewPipeline(
			nil,
			func(ctx context.Context, ex gatekit.Exchange) (gatekit.Exchange, error) {
				ran = true
				return ex, nil
			},
			nil,
		)

		_, err := pipe.Run(ctx, gatekit.Exchange{})
		assert.NoError(t, err)
		assert.True(t, ran)
	})

	t.Run("stops when the context is cancelled", func(t *testing.T) {
		cancelled, cancel := context.WithCancel(ctx)
		cancel()

		ran := false
		pipe := gatekit.NewPipeline(
			func(ctx context.Context, ex gatekit.Exchange) (gatekit.Exchange, error) {
				ran = true
				return ex, nil
			},
		)

		_, err := pipe.Run(cancelled, gatekit.Exchange{})
		require.Error(t, err)
		assert.False(t, ran)

		var richErr *goerrors.Error
		require.ErrorAs(t, err, &richErr)
		assert.Equal(t, goerrors.CategoryOperation, richErr.Category)
	})
}

func TestPipeline_Then(t *testing.T) {
	var order []string

	base := gatekit.NewPipeline(
		func(ctx context.Context, ex gatekit.Exchange) (gatekit.Exchange, error) {
			order = append(order, "first")
			return ex, nil
		},
	)

	extended := base.Then(
		func(ctx context.Context, ex gatekit.Exchange) (gatekit.Exchange, error) {
			order = append(order, "second")
			return ex, nil
		},
	)

	_, err := extended.Run(context.Background(), gatekit.Exchange{})
	require.NoError(t, err)
	assert.Equal(t, []string{"first", "second"}, order)

	// base is unchanged
	order = nil
	_, err = base.Run(context.Background(), gatekit.Exchange{})
	require.NoError(t, err)
	assert.Equal(t, []string{"first"}, order)
}
