package gatekit

import (
	"context"
	"time"

	goerrors "github.com/goliatone/go-errors"
	"github.com/goliatone/hashid/pkg/hashid"
	"github.com/uptrace/bun"
)

type RegisterPrincipalMessage struct {
	Email     string `json:"email"`
	Name      string `json:"name"`
	Password  string `json:"password"`
	UseHashid bool
}

func (e RegisterPrincipalMessage) Type() string { return "principal.register" }

// RegisterPrincipalHandler creates a principal inside a transaction. The
// secret is hashed before anything touches the store; the cleartext never
// leaves this handler.
type RegisterPrincipalHandler struct {
	repo RepositoryManager
}

func NewRegisterPrincipalHandler(repo RepositoryManager) *RegisterPrincipalHandler {
	return &RegisterPrincipalHandler{repo: repo}
}

func (h *RegisterPrincipalHandler) Execute(ctx context.Context, event RegisterPrincipalMessage) (*Principal, error) {
	select {
	case <-ctx.Done():
		return nil, goerrors.Wrap(
			ctx.Err(),
			goerrors.CategoryOperation,
			"context cancelled during principal registration",
		)
	default:
		return h.execute(ctx, event)
	}
}

func (h *RegisterPrincipalHandler) execute(ctx context.Context, event RegisterPrincipalMessage) (*Principal, error) {
	principal := &Principal{}
	ctx, cancel := context.WithTimeout(ctx, time.Second*10)
	defer cancel()

	err := h.repo.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
		hash, err := HashPassword(event.Password)
		if err != nil {
			var richErr *goerrors.Error
			if goerrors.As(err, &richErr) {
				return goerrors.Wrap(richErr, goerrors.CategoryValidation, "invalid password provided")
			}
			return goerrors.Wrap(err, goerrors.CategoryInternal, "failed to hash password")
		}

		principal.PasswordHash = hash
		principal.Email = event.Email
		principal.Name = event.Name
		if event.UseHashid {
			if id, err := hashid.NewUUID(event.Email); err == nil {
				principal.ID = id
			}
		}

		if principal, err = h.repo.Principals().RegisterTx(ctx, tx, principal); err != nil {
			return goerrors.Wrap(err, goerrors.CategoryConflict, "could not create principal")
		}

		return nil
	})

	if err != nil {
		var richErr *goerrors.Error
		if goerrors.As(err, &richErr) {
			return nil, richErr
		}

		return nil, goerrors.Wrap(err, goerrors.CategoryInternal, "principal registration transaction failed")
	}

	return principal, nil
}
