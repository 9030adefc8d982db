package gatekit

import (
	"context"

	"github.com/goliatone/go-errors"
)

// Validatable is the single signal the pipeline needs from the validation
// layer: passed, or failed with a list of field violations.
type Validatable interface {
	Validate() error
}

// ValidateInput runs payload validation as a pipeline stage. All field
// violations are collected into one error; the stage never fails fast on
// the first field.
func ValidateInput(payload Validatable) Stage {
	return func(ctx context.Context, ex Exchange) (Exchange, error) {
		if err := payload.Validate(); err != nil {
			return ex, WrapValidationError(err)
		}
		return ex, nil
	}
}

// CredentialAuth authenticates with an identifier/secret pair and records
// the principal on the exchange.
func CredentialAuth(verifier *CredentialVerifier, identifier, secret string) Stage {
	return func(ctx context.Context, ex Exchange) (Exchange, error) {
		principal, err := verifier.Authenticate(ctx, identifier, secret)
		if err != nil {
			return ex, err
		}

		ex.Principal = principal
		return ex, nil
	}
}

// TokenAuth authenticates with a bearer token. The signature check alone is
// not authority: the embedded id is re-resolved against the store, and a
// token for a since-deleted principal fails exactly like any other
// authentication failure.
func TokenAuth(tokens TokenService, store PrincipalStore, raw string) Stage {
	return func(ctx context.Context, ex Exchange) (Exchange, error) {
		if raw == "" {
			return ex, ErrTokenMissing
		}

		claims, err := tokens.Validate(raw)
		if err != nil {
			return ex, err
		}

		id, err := claims.PrincipalID()
		if err != nil {
			return ex, err
		}

		principal, err := store.GetByID(ctx, id)
		if err != nil {
			if errors.IsNotFound(err) {
				return ex, ErrPrincipalNotFound
			}
			return ex, errors.Wrap(err, errors.CategoryInternal, "failed to resolve token principal")
		}

		if principal == nil {
			return ex, ErrPrincipalNotFound
		}

		ex.Principal = principal
		return ex, nil
	}
}

// Load fetches the target resource and records it on the exchange. A miss
// terminates the pipeline with the not-found error, so no later stage (the
// permission check included) ever sees a request for an absent target.
func Load[T AccessTarget](loader *Loader[T], id string) Stage {
	return func(ctx context.Context, ex Exchange) (Exchange, error) {
		target, err := loader.Load(ctx, id)
		if err != nil {
			return ex, err
		}

		ex.Target = target
		return ex, nil
	}
}

// Authorize runs the permission evaluator over the authenticated principal
// and the loaded target. Composing it before authentication or loading is a
// programming error and panics through Decide.
func Authorize() Stage {
	return func(ctx context.Context, ex Exchange) (Exchange, error) {
		if Decide(ex.Principal, ex.Target) != Allow {
			return ex, ErrPermissionDenied
		}
		return ex, nil
	}
}
