package gatekit

import (
	"context"

	"github.com/goliatone/go-errors"
)

// CredentialVerifier authenticates an identifier/secret pair against the
// principal store. It is read-only: no lockout counters, no side effects.
type CredentialVerifier struct {
	store  PrincipalStore
	logger Logger
}

// NewCredentialVerifier will create a new CredentialVerifier
func NewCredentialVerifier(store PrincipalStore) *CredentialVerifier {
	return &CredentialVerifier{
		store:  store,
		logger: defLogger{},
	}
}

func (v *CredentialVerifier) WithLogger(l Logger) *CredentialVerifier {
	if l != nil {
		v.logger = l
	}
	return v
}

// Authenticate looks the principal up by its identifying field and compares
// the secret against the stored hash. An unknown identifier and a bad
// password return the same error value so responses cannot be used to probe
// which emails are registered.
func (v *CredentialVerifier) Authenticate(ctx context.Context, identifier, secret string) (*Principal, error) {
	principal, err := v.store.GetByIdentifier(ctx, identifier)
	if err != nil {
		if errors.IsNotFound(err) {
			return nil, ErrInvalidCredentials
		}
		v.logger.Error("Authenticate principal lookup error", "error", err)
		return nil, errors.Wrap(err, errors.CategoryInternal, "failed to retrieve principal during verification")
	}

	if principal == nil {
		return nil, ErrInvalidCredentials
	}

	if err := ComparePasswordAndHash(secret, principal.PasswordHash); err != nil {
		if errors.Is(err, ErrInvalidCredentials) {
			return nil, ErrInvalidCredentials
		}
		v.logger.Error("Authenticate hash comparison error", "error", err)
		return nil, errors.Wrap(err, errors.CategoryInternal, "failed to compare password hash")
	}

	return principal, nil
}
