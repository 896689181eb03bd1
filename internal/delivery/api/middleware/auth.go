package middleware

import (
	"strings"

	"library/internal/delivery/api/response"
	deliverycontext "library/internal/delivery/context"
	"library/internal/domain/entity"
	"library/internal/domain/service"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

// AuthMiddleware provides middleware for JWT authentication and authorization.
type AuthMiddleware struct {
	tokenSvc service.TokenService
}

// NewAuthMiddleware is the constructor for AuthMiddleware.
func NewAuthMiddleware(tokenSvc service.TokenService) *AuthMiddleware {
	return &AuthMiddleware{tokenSvc: tokenSvc}
}

// Authenticate validates the bearer access token and halts the chain with 401 on any failure.
func (m *AuthMiddleware) Authenticate(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		authHeader := c.Request().Header.Get(echo.HeaderAuthorization)
		if authHeader == "" {
			return response.Unauthorized(c, "UNAUTHORIZED", "Authorization header is missing")
		}

		tokenString := strings.TrimPrefix(authHeader, "Bearer ")
		if tokenString == authHeader || strings.TrimSpace(tokenString) == "" {
			return response.Unauthorized(c, "UNAUTHORIZED", "Invalid token format, must be Bearer token")
		}

		claims, err := m.tokenSvc.Validate(tokenString)
		if err != nil {
			return response.Unauthorized(c, "UNAUTHORIZED", "Invalid or expired token")
		}

		ctx := deliverycontext.WithUser(c.Request().Context(), claims.UserID, claims.Roles)
		if logger := deliverycontext.GetLogger(ctx); logger != nil {
			ctx = deliverycontext.WithLogger(ctx, logger.With("user_id", claims.UserID.String()))
		}
		c.SetRequest(c.Request().WithContext(ctx))

		return next(c)
	}
}

// RequireRole checks that the authenticated user has the role. It must run after Authenticate.
func (m *AuthMiddleware) RequireRole(requiredRole entity.Role) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			member, ok := deliverycontext.MemberFromContext(c.Request().Context())
			if !ok || member.Roles == nil {
				return response.Forbidden(c, "FORBIDDEN", "Permission denied: role information missing")
			}

			if !member.HasRole(requiredRole.String()) {
				return response.Forbidden(c, "FORBIDDEN", "Permission denied: require '"+requiredRole.String()+"' role")
			}

			return next(c)
		}
	}
}

// GetUserID returns the authenticated user ID set by Authenticate.
func GetUserID(c echo.Context) (uuid.UUID, bool) {
	return deliverycontext.GetUserIDFromContext(c.Request().Context())
}

// GetRoles returns the authenticated user's roles set by Authenticate.
func GetRoles(c echo.Context) ([]string, bool) {
	return deliverycontext.GetRolesFromContext(c.Request().Context())
}
