package gatekit

import (
	"net/http"
	"strings"

	"github.com/goliatone/go-errors"
)

// Text codes give API clients a stable handle on failures regardless of the
// rendered message.
const (
	TextCodeInvalidCreds     = "INVALID_CREDENTIALS"
	TextCodePrincipalGone    = "PRINCIPAL_NOT_FOUND"
	TextCodeTokenMissing     = "TOKEN_MISSING"
	TextCodeTokenMalformed   = "TOKEN_MALFORMED"
	TextCodeTokenSignature   = "TOKEN_SIGNATURE_INVALID"
	TextCodeTokenExpired     = "TOKEN_EXPIRED"
	TextCodePermissionDenied = "PERMISSION_DENIED"
	TextCodeNotFound         = "RESOURCE_NOT_FOUND"
	TextCodeEmptyPassword    = "EMPTY_PASSWORD"
	TextCodeMissingSecret    = "MISSING_SIGNING_KEY"
)

// ErrInvalidCredentials is returned for both an unknown identifier and a
// password mismatch so login responses never reveal which emails are
// registered.
var ErrInvalidCredentials = errors.New("the credentials provided are invalid", errors.CategoryAuth).
	WithTextCode(TextCodeInvalidCreds).
	WithCode(errors.CodeUnauthorized)

// ErrPrincipalNotFound is the token-path failure for a well-signed token
// whose principal no longer exists. It is an authentication error, not a
// not-found: the claim carries no authority by itself.
var ErrPrincipalNotFound = errors.New("principal no longer exists", errors.CategoryAuth).
	WithTextCode(TextCodePrincipalGone).
	WithCode(errors.CodeUnauthorized)

// ErrTokenMissing covers an absent or malformed Authorization header.
var ErrTokenMissing = errors.New("missing or malformed authorization header", errors.CategoryAuth).
	WithTextCode(TextCodeTokenMissing).
	WithCode(errors.CodeUnauthorized)

// ErrTokenMalformed means the token string could not be parsed at all.
var ErrTokenMalformed = errors.New("token is malformed", errors.CategoryAuth).
	WithTextCode(TextCodeTokenMalformed).
	WithCode(errors.CodeUnauthorized)

// ErrTokenSignatureInvalid means the token parsed but was not signed by our
// secret.
var ErrTokenSignatureInvalid = errors.New("token signature is invalid", errors.CategoryAuth).
	WithTextCode(TextCodeTokenSignature).
	WithCode(errors.CodeUnauthorized)

// ErrTokenExpired means the token was valid once but its exp claim is past.
var ErrTokenExpired = errors.New("token is expired", errors.CategoryAuth).
	WithTextCode(TextCodeTokenExpired).
	WithCode(errors.CodeUnauthorized)

// ErrPermissionDenied is the authorization failure: authenticated, loaded,
// and still not allowed.
var ErrPermissionDenied = errors.New("you don't have permission to do that", errors.CategoryAuthz).
	WithTextCode(TextCodePermissionDenied).
	WithCode(errors.CodeForbidden)

// ErrResourceNotFound is the loader's miss; the pipeline turns it into a
// terminal 404 before any permission stage runs.
var ErrResourceNotFound = errors.New("not found", errors.CategoryNotFound).
	WithTextCode(TextCodeNotFound).
	WithCode(errors.CodeNotFound)

// ErrNoEmptyString rejects hashing an empty password.
var ErrNoEmptyString = errors.New("password must not be empty", errors.CategoryValidation).
	WithTextCode(TextCodeEmptyPassword).
	WithCode(errors.CodeBadRequest)

// ErrMissingSigningKey is a construction-time configuration failure, never a
// per-request path.
var ErrMissingSigningKey = errors.New("signing key is required", errors.CategoryInternal).
	WithTextCode(TextCodeMissingSecret).
	WithCode(errors.CodeInternal)

// HTTPStatus maps an error to the response status the envelope renderer
// uses. Unknown errors are internal by default so store failures never leak
// category detail.
func HTTPStatus(err error) int {
	if err == nil {
		return http.StatusOK
	}

	var richErr *errors.Error
	if !errors.As(err, &richErr) {
		return http.StatusInternalServerError
	}

	switch richErr.Category {
	case errors.CategoryValidation, errors.CategoryBadInput:
		return http.StatusBadRequest
	case errors.CategoryAuth:
		return http.StatusUnauthorized
	case errors.CategoryAuthz:
		return http.StatusForbidden
	case errors.CategoryNotFound:
		return http.StatusNotFound
	case errors.CategoryConflict:
		return http.StatusConflict
	case errors.CategoryRateLimit:
		return http.StatusTooManyRequests
	default:
		return http.StatusInternalServerError
	}
}

// IsTokenExpiredError checks for expired tokens, including errors coming
// from the jwt library before they are wrapped.
func IsTokenExpiredError(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, ErrTokenExpired) {
		return true
	}
	return strings.Contains(err.Error(), "token is expired")
}

// IsMalformedError will check for error message
func IsMalformedError(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, ErrTokenMalformed) {
		return true
	}
	return strings.Contains(err.Error(), "token is malformed") ||
		strings.Contains(err.Error(), "missing or malformed JWT")
}
