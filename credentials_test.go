package gatekit_test

import (
	"context"
	"fmt"
	"testing"

	goerrors "github.com/goliatone/go-errors"
	gatekit "github.com/goliatone/go-gatekit"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestCredentialVerifier_Authenticate(t *testing.T) {
	alice := newTestPrincipal("alice@example.com", "super-secret-1", false)
	store := newMemStore(alice)
	verifier := gatekit.NewCredentialVerifier(store)

	ctx := context.Background()

	t.Run("returns the principal for valid credentials", func(t *testing.T) {
		principal, err := verifier.Authenticate(ctx, "alice@example.com", "super-secret-1")
		require.NoError(t, err)
		require.NotNil(t, principal)
		assert.Equal(t, alice.ID, principal.ID)
	})

	t.Run("rejects a wrong password", func(t *testing.T) {
		principal, err := verifier.Authenticate(ctx, "alice@example.com", "wrong-password")
		assert.Nil(t, principal)
		assert.Equal(t, gatekit.ErrInvalidCredentials, err)
	})

	t.Run("rejects an unknown identifier with the same error", func(t *testing.T) {
		principal, err := verifier.Authenticate(ctx, "nobody@example.com", "super-secret-1")
		assert.Nil(t, principal)
		assert.Equal(t, gatekit.ErrInvalidCredentials, err)
	})

	t.Run("wraps plain store failures as internal and logs them", func(t *testing.T) {
		broken := newMemStore(alice)
		broken.failWith = fmt.Errorf("connection refused")

		logger := &MockLogger{}
		logger.On("Error", mock.Anything, mock.Anything).Return()

		principal, err := gatekit.NewCredentialVerifier(broken).
			WithLogger(logger).
			Authenticate(ctx, "alice@example.com", "super-secret-1")
		assert.Nil(t, principal)
		require.Error(t, err)

		var richErr *goerrors.Error
		require.ErrorAs(t, err, &richErr)
		assert.Equal(t, goerrors.CategoryInternal, richErr.Category)
		logger.AssertExpectations(t)
	})

	t.Run("keeps the category of rich store failures", func(t *testing.T) {
		broken := newMemStore(alice)
		broken.failWith = goerrors.New("connection refused", goerrors.CategoryOperation)

		principal, err := gatekit.NewCredentialVerifier(broken).
			Authenticate(ctx, "alice@example.com", "super-secret-1")
		assert.Nil(t, principal)
		require.Error(t, err)

		var richErr *goerrors.Error
		require.ErrorAs(t, err, &richErr)
		assert.Equal(t, goerrors.CategoryOperation, richErr.Category)
	})
}
