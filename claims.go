package gatekit

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// Claims is the token payload. The only claim with authority attached is
// the principal id; everything else is standard bookkeeping.
type Claims struct {
	jwt.RegisteredClaims
	UID string `json:"uid,omitempty"`
}

// PrincipalID returns the embedded principal id, falling back to the
// subject for tokens minted before the uid claim existed.
func (c *Claims) PrincipalID() (uuid.UUID, error) {
	raw := c.UID
	if raw == "" {
		raw = c.RegisteredClaims.Subject
	}

	id, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, ErrTokenMalformed
	}
	return id, nil
}

// Expires returns the expiration time
func (c *Claims) Expires() time.Time {
	if c.RegisteredClaims.ExpiresAt != nil {
		return c.RegisteredClaims.ExpiresAt.Time
	}
	return time.Time{}
}

// Issued returns the issued at time
func (c *Claims) Issued() time.Time {
	if c.RegisteredClaims.IssuedAt != nil {
		return c.RegisteredClaims.IssuedAt.Time
	}
	return time.Time{}
}

func ensureTokenID(claims *jwt.RegisteredClaims) {
	if claims.ID == "" {
		claims.ID = uuid.NewString()
	}
}
