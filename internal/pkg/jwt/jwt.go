// Package jwt verifies bearer tokens issued by the identity provider and
// carries the authenticated owner through request contexts.
package jwt

import (
	"context"
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

var (
	ErrInvalidSigningMethod = errors.New("jwt: invalid signing method")
	ErrSigningKeyTooShort   = errors.New("jwt: HS512 signing key must be at least 64 bytes")
	ErrTokenExpired         = errors.New("jwt: token has expired")
	ErrInvalidToken         = errors.New("jwt: invalid token")
)

// JWT signs and verifies owner tokens.
type JWT interface {
	Generate(ownerID int64) (string, error)
	Verify(tokenStr string) (Claims, error)
}

type clocker interface {
	Now() time.Time
}

type generator interface {
	Generate() string
}

// Config builds a Symmetric.
type Config struct {
	Secret    []byte
	Issuer    string
	Audiences []string
	TTL       time.Duration
	Clock     clocker
	UUID      generator
}

// Claims are the registered claims plus the owner every OTP account belongs to.
type Claims struct {
	jwt.RegisteredClaims
	OwnerID int64 `json:"owner_id,string"`
}

type authKey struct{}

// GetAuth returns the claims stored by SetAuth, or nil for anonymous requests.
func GetAuth(ctx context.Context) *Claims {
	clm, ok := ctx.Value(authKey{}).(Claims)
	if !ok {
		return nil
	}

	return &clm
}

func SetAuth(ctx context.Context, clm Claims) context.Context {
	return context.WithValue(ctx, authKey{}, clm)
}
