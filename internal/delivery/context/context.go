// Package context carries per-request values between the echo layer and the usecases.
package context

import (
	"context"
	"log/slog"
	"slices"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

// HeaderXRequestID is the HTTP header name for request ID.
const HeaderXRequestID = "X-Request-Id"

// echoRequestIDKey stores the request ID on echo.Context for the response envelope.
const echoRequestIDKey = "request_id"

type ctxKey int

const (
	requestIDKey ctxKey = iota
	loggerKey
	memberKey
)

// Member is the authenticated caller attached by the auth middleware.
type Member struct {
	UserID uuid.UUID
	Roles  []string
}

// HasRole reports whether the member holds role.
func (m Member) HasRole(role string) bool {
	return slices.Contains(m.Roles, role)
}

func valueOf[T any](ctx context.Context, key ctxKey) (T, bool) {
	v, ok := ctx.Value(key).(T)

	return v, ok
}

// GetRequestID returns the request ID set on echo.Context, or a fresh UUID.
func GetRequestID(c echo.Context) string {
	if id, ok := c.Get(echoRequestIDKey).(string); ok && id != "" {
		return id
	}

	return uuid.New().String()
}

// SetRequestID sets the request ID in echo.Context.
func SetRequestID(c echo.Context, requestID string) {
	c.Set(echoRequestIDKey, requestID)
}

// GetRequestIDFromContext returns the request ID or an empty string.
func GetRequestIDFromContext(ctx context.Context) string {
	id, _ := valueOf[string](ctx, requestIDKey)

	return id
}

// WithRequestID returns a new context with the request ID.
func WithRequestID(ctx context.Context, requestID string) context.Context {
	return context.WithValue(ctx, requestIDKey, requestID)
}

// GetLogger returns the request-scoped logger, or nil.
func GetLogger(ctx context.Context) *slog.Logger {
	logger, _ := valueOf[*slog.Logger](ctx, loggerKey)

	return logger
}

// GetLoggerOrDefault returns the request-scoped logger, falling back to fallback.
func GetLoggerOrDefault(ctx context.Context, fallback *slog.Logger) *slog.Logger {
	if logger := GetLogger(ctx); logger != nil {
		return logger
	}

	return fallback
}

// WithLogger returns a new context with the logger.
func WithLogger(ctx context.Context, logger *slog.Logger) context.Context {
	return context.WithValue(ctx, loggerKey, logger)
}

// WithUser returns a new context carrying the authenticated member.
func WithUser(ctx context.Context, userID uuid.UUID, roles []string) context.Context {
	return context.WithValue(ctx, memberKey, Member{UserID: userID, Roles: roles})
}

// MemberFromContext returns the authenticated member, if any.
func MemberFromContext(ctx context.Context) (Member, bool) {
	m, ok := valueOf[Member](ctx, memberKey)
	if !ok || m.UserID == uuid.Nil {
		return Member{}, false
	}

	return m, true
}

// GetUserIDFromContext extracts the authenticated user ID.
func GetUserIDFromContext(ctx context.Context) (uuid.UUID, bool) {
	m, ok := MemberFromContext(ctx)

	return m.UserID, ok
}

// GetRolesFromContext extracts the authenticated user's roles.
func GetRolesFromContext(ctx context.Context) ([]string, bool) {
	m, ok := MemberFromContext(ctx)
	if !ok || m.Roles == nil {
		return nil, false
	}

	return m.Roles, true
}
