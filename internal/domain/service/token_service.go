package service

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/pkg/errors"
)

// ErrInvalidToken is returned for any token that is missing, malformed, expired or wrongly signed.
var ErrInvalidToken = errors.New("invalid token")

// Claims defines the custom claims for the access tokens.
type Claims struct {
	UserID uuid.UUID
	Roles  []string
	jwt.RegisteredClaims
}

// TokenService defines the interface for generating and validating JWTs.
// This abstracts the details of token creation from the use cases.
type TokenService interface {
	// Issue creates a signed access token for a given user.
	Issue(userID uuid.UUID, roles []string) (string, error)

	// Validate checks the validity of a token string and returns its claims.
	Validate(tokenString string) (*Claims, error)

	// TTL returns the configured lifetime of access tokens.
	TTL() time.Duration
}
