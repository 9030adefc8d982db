package gatekit_test

import (
	"context"
	"database/sql"
	"fmt"
	"testing"

	goerrors "github.com/goliatone/go-errors"
	gatekit "github.com/goliatone/go-gatekit"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/uptrace/bun"
)

// stubPrincipals implements the methods the command handlers exercise. The
// embedded interface covers the rest; calling an unstubbed method panics.
type stubPrincipals struct {
	gatekit.Principals

	registered  []*gatekit.Principal
	registerErr error

	passwordChanges map[uuid.UUID]string
	changeErr       error
}

func (s *stubPrincipals) RegisterTx(ctx context.Context, tx bun.IDB, record *gatekit.Principal) (*gatekit.Principal, error) {
	if s.registerErr != nil {
		return nil, s.registerErr
	}
	if record.ID == uuid.Nil {
		record.ID = uuid.New()
	}
	s.registered = append(s.registered, record)
	return record, nil
}

func (s *stubPrincipals) ChangePasswordTx(ctx context.Context, tx bun.IDB, id uuid.UUID, passwordHash string) error {
	if s.changeErr != nil {
		return s.changeErr
	}
	if s.passwordChanges == nil {
		s.passwordChanges = map[uuid.UUID]string{}
	}
	s.passwordChanges[id] = passwordHash
	return nil
}

type stubRepoManager struct {
	principals *stubPrincipals
}

func (s *stubRepoManager) Validate() error { return nil }
func (s *stubRepoManager) MustValidate()   {}

func (s *stubRepoManager) RunInTx(ctx context.Context, opts *sql.TxOptions, f func(ctx context.Context, tx bun.Tx) error) error {
	return f(ctx, bun.Tx{})
}

func (s *stubRepoManager) Principals() gatekit.Principals { return s.principals }
func (s *stubRepoManager) Posts() gatekit.Posts           { return nil }
func (s *stubRepoManager) Comments() gatekit.Comments     { return nil }

func TestRegisterPrincipalHandler(t *testing.T) {
	ctx := context.Background()

	t.Run("hashes the secret before the store sees it", func(t *testing.T) {
		repo := &stubRepoManager{principals: &stubPrincipals{}}
		handler := gatekit.NewRegisterPrincipalHandler(repo)

		principal, err := handler.Execute(ctx, gatekit.RegisterPrincipalMessage{
			Email:    "alice@example.com",
			Name:     "Alice",
			Password: "super-secret-1",
		})
		require.NoError(t, err)
		require.NotNil(t, principal)

		assert.Equal(t, "alice@example.com", principal.Email)
		assert.NotEqual(t, uuid.Nil, principal.ID)
		assert.NotEqual(t, "super-secret-1", principal.PasswordHash)
		assert.NoError(t, gatekit.ComparePasswordAndHash("super-secret-1", principal.PasswordHash))

		require.Len(t, repo.principals.registered, 1)
	})

	t.Run("derives a stable id from the email when asked", func(t *testing.T) {
		repo := &stubRepoManager{principals: &stubPrincipals{}}
		handler := gatekit.NewRegisterPrincipalHandler(repo)

		first, err := handler.Execute(ctx, gatekit.RegisterPrincipalMessage{
			Email:     "carol@example.com",
			Name:      "Carol",
			Password:  "super-secret-1",
			UseHashid: true,
		})
		require.NoError(t, err)
		assert.NotEqual(t, uuid.Nil, first.ID)
	})

	t.Run("rejects an empty password as validation", func(t *testing.T) {
		repo := &stubRepoManager{principals: &stubPrincipals{}}
		handler := gatekit.NewRegisterPrincipalHandler(repo)

		principal, err := handler.Execute(ctx, gatekit.RegisterPrincipalMessage{
			Email: "alice@example.com",
			Name:  "Alice",
		})
		assert.Nil(t, principal)
		require.Error(t, err)

		var richErr *goerrors.Error
		require.ErrorAs(t, err, &richErr)
		assert.Equal(t, goerrors.CategoryValidation, richErr.Category)
		assert.Empty(t, repo.principals.registered)
	})

	t.Run("wraps plain store failures as conflict", func(t *testing.T) {
		repo := &stubRepoManager{principals: &stubPrincipals{
			registerErr: fmt.Errorf("UNIQUE constraint failed: principals.email"),
		}}
		handler := gatekit.NewRegisterPrincipalHandler(repo)

		principal, err := handler.Execute(ctx, gatekit.RegisterPrincipalMessage{
			Email:    "alice@example.com",
			Name:     "Alice",
			Password: "super-secret-1",
		})
		assert.Nil(t, principal)
		require.Error(t, err)

		var richErr *goerrors.Error
		require.ErrorAs(t, err, &richErr)
		assert.Equal(t, goerrors.CategoryConflict, richErr.Category)
	})

	t.Run("keeps the category of rich store failures", func(t *testing.T) {
		repo := &stubRepoManager{principals: &stubPrincipals{
			registerErr: goerrors.New("principals table is gone", goerrors.CategoryOperation),
		}}
		handler := gatekit.NewRegisterPrincipalHandler(repo)

		principal, err := handler.Execute(ctx, gatekit.RegisterPrincipalMessage{
			Email:    "alice@example.com",
			Name:     "Alice",
			Password: "super-secret-1",
		})
		assert.Nil(t, principal)
		require.Error(t, err)

		var richErr *goerrors.Error
		require.ErrorAs(t, err, &richErr)
		assert.Equal(t, goerrors.CategoryOperation, richErr.Category)
	})

	t.Run("refuses to run on a cancelled context", func(t *testing.T) {
		cancelled, cancel := context.WithCancel(ctx)
		cancel()

		repo := &stubRepoManager{principals: &stubPrincipals{}}
		handler := gatekit.NewRegisterPrincipalHandler(repo)

		_, err := handler.Execute(cancelled, gatekit.RegisterPrincipalMessage{
			Email:    "alice@example.com",
			Name:     "Alice",
			Password: "super-secret-1",
		})
		require.Error(t, err)
		assert.Empty(t, repo.principals.registered)
	})
}

func TestChangePasswordHandler(t *testing.T) {
	ctx := context.Background()

	t.Run("stores a fresh hash", func(t *testing.T) {
		repo := &stubRepoManager{principals: &stubPrincipals{}}
		handler := gatekit.NewChangePasswordHandler(repo)

		principalID := uuid.New()
		err := handler.Execute(ctx, gatekit.ChangePasswordMessage{
			PrincipalID: principalID,
			Password:    "next-secret-99",
		})
		require.NoError(t, err)

		hash, ok := repo.principals.passwordChanges[principalID]
		require.True(t, ok)
		assert.NoError(t, gatekit.ComparePasswordAndHash("next-secret-99", hash))
	})

	t.Run("rejects an empty password", func(t *testing.T) {
		repo := &stubRepoManager{principals: &stubPrincipals{}}
		handler := gatekit.NewChangePasswordHandler(repo)

		err := handler.Execute(ctx, gatekit.ChangePasswordMessage{
			PrincipalID: uuid.New(),
		})
		require.Error(t, err)

		var richErr *goerrors.Error
		require.ErrorAs(t, err, &richErr)
		assert.Equal(t, goerrors.CategoryValidation, richErr.Category)
		assert.Empty(t, repo.principals.passwordChanges)
	})

	t.Run("passes a missing principal through", func(t *testing.T) {
		repo := &stubRepoManager{principals: &stubPrincipals{
			changeErr: goerrors.New("record not found", goerrors.CategoryNotFound),
		}}
		handler := gatekit.NewChangePasswordHandler(repo)

		err := handler.Execute(ctx, gatekit.ChangePasswordMessage{
			PrincipalID: uuid.New(),
			Password:    "next-secret-99",
		})
		require.Error(t, err)
		assert.True(t, goerrors.IsNotFound(err))
	})
}
