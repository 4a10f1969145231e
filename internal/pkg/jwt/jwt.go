package jwt

import (
	"context"
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

var (
	// ErrSigningKeyTooShort rejects HS512 keys under 64 bytes.
	ErrSigningKeyTooShort = errors.New("jwt: HS512 signing key must be at least 64 bytes")
	// ErrTokenExpired is returned for a well-formed token past its exp claim.
	ErrTokenExpired = errors.New("jwt: token has expired")
	// ErrInvalidToken covers malformed, tampered and foreign tokens.
	ErrInvalidToken = errors.New("jwt: invalid token")
)

// JWT issues access tokens on login and verifies them in the auth middleware.
type JWT interface {
	Generate(uid int64, identifier string) (string, error)
	Verify(tokenStr string) (Claims, error)
}

type clocker interface {
	Now() time.Time
}

type generator interface {
	Generate() string
}

type jwtContextKey struct{}

// Config is read from the jwt.* keys.
type Config struct {
	Secret    []byte
	Issuer    string
	Audiences []string
	TTL       time.Duration
	Clock     clocker
	UUID      generator
}

// Claims are the registered claims plus the identity the token was issued to.
type Claims struct {
	jwt.RegisteredClaims
	UserID     int64  `json:"user_id,string"`
	Identifier string `json:"identifier"`
}

// GetAuth returns the claims stored by SetAuth, or nil.
func GetAuth(ctx context.Context) *Claims {
	clm, ok := ctx.Value(jwtContextKey{}).(Claims)
	if !ok {
		return nil
	}

	return &clm
}

// SetAuth stores JWT claims in the context.
func SetAuth(ctx context.Context, clm Claims) context.Context {
	return context.WithValue(ctx, jwtContextKey{}, clm)
}
