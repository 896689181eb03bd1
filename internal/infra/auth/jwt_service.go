// Package auth provides concrete implementations for authentication-related domain services.
package auth

import (
	"time"

	"library/config"
	"library/internal/domain/service"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/pkg/errors"
)

// jwtService is a concrete implementation of the TokenService interface using the JWT standard.
type jwtService struct {
	secret []byte        // Secret key for signing access tokens.
	ttl    time.Duration // Time-to-live for access tokens.
	now    func() time.Time
}

// NewJWTService is the constructor for jwtService.
// It takes configuration values to create a new token service instance.
func NewJWTService(cfg *config.Config) (service.TokenService, error) {
	if cfg.SecretKey.Access == "" {
		return nil, errors.New("jwt secret must be provided")
	}

	ttl := time.Hour
	if cfg.Auth != nil && cfg.Auth.TokenTTL > 0 {
		ttl = cfg.Auth.TokenTTL
	}

	return &jwtService{
		secret: []byte(cfg.SecretKey.Access),
		ttl:    ttl,
		now:    time.Now,
	}, nil
}

// Issue creates a signed HS256 access token for a given user and roles.
func (s *jwtService) Issue(userID uuid.UUID, roles []string) (string, error) {
	now := s.now()
	claims := jwt.MapClaims{
		"sub":   userID.String(),       // Subject (who the token is for)
		"iat":   now.Unix(),            // Issued At
		"exp":   now.Add(s.ttl).Unix(), // Expiration Time
		"roles": roles,
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(s.secret)
	if err != nil {
		return "", errors.Wrap(err, "failed to sign token")
	}

	return signed, nil
}

// Validate parses the token and returns its claims. Every failure is reported as service.ErrInvalidToken.
func (s *jwtService) Validate(tokenString string) (*service.Claims, error) {
	if tokenString == "" {
		return nil, service.ErrInvalidToken
	}

	claims := jwt.MapClaims{}
	_, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (any, error) {
		return s.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(s.now),
	)
	if err != nil {
		return nil, errors.Wrap(service.ErrInvalidToken, err.Error())
	}

	sub, err := claims.GetSubject()
	if err != nil {
		return nil, errors.Wrap(service.ErrInvalidToken, "missing subject")
	}
	userID, err := uuid.Parse(sub)
	if err != nil {
		return nil, errors.Wrap(service.ErrInvalidToken, "subject is not a user id")
	}

	result := &service.Claims{
		UserID: userID,
		Roles:  rolesFromClaim(claims["roles"]),
	}
	if exp, err := claims.GetExpirationTime(); err == nil {
		result.ExpiresAt = exp
	}
	if iat, err := claims.GetIssuedAt(); err == nil {
		result.IssuedAt = iat
	}
	result.Subject = sub

	return result, nil
}

// TTL returns the configured lifetime of access tokens.
func (s *jwtService) TTL() time.Duration {
	return s.ttl
}

func rolesFromClaim(raw any) []string {
	items, ok := raw.([]any)
	if !ok {
		return nil
	}

	roles := make([]string, 0, len(items))
	for _, item := range items {
		if role, ok := item.(string); ok {
			roles = append(roles, role)
		}
	}

	return roles
}
