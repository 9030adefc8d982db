package gatekit

import (
	"context"
	"fmt"

	"github.com/google/uuid"
)

type Logger interface {
	Debug(format string, args ...any)
	Info(format string, args ...any)
	Warn(format string, args ...any)
	Error(format string, args ...any)
}

// PrincipalStore is the read surface the authentication stages need. The
// full Principals repository satisfies it; tests use map-backed stubs.
type PrincipalStore interface {
	GetByIdentifier(ctx context.Context, identifier string) (*Principal, error)
	GetByID(ctx context.Context, id uuid.UUID) (*Principal, error)
}

// TokenService issues and validates the bearer tokens the API hands out on
// login. Validate proves issuance only; callers must still re-resolve the
// embedded principal id against the PrincipalStore.
type TokenService interface {
	Generate(principalID uuid.UUID) (string, error)
	Validate(raw string) (*Claims, error)
}

// DefaultLogger returns the stderr-free fallback logger used when callers
// do not inject one.
func DefaultLogger() Logger {
	return defLogger{}
}

type defLogger struct{}

func (d defLogger) Error(format string, args ...any) {
	fmt.Printf("[ERR] GATEKIT "+newline(format), args...)
}

func (d defLogger) Warn(format string, args ...any) {
	fmt.Printf("[WRN] GATEKIT "+newline(format), args...)
}

func (d defLogger) Info(format string, args ...any) {
	fmt.Printf("[INF] GATEKIT "+newline(format), args...)
}

func (d defLogger) Debug(format string, args ...any) {
	fmt.Printf("[DBG] GATEKIT "+newline(format), args...)
}

func newline(s string) string {
	if len(s) > 0 && s[len(s)-1] != '\n' {
		s += "\n"
	}
	return s
}
