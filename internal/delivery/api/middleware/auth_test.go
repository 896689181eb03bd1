package middleware

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"library/config"
	deliverycontext "library/internal/delivery/context"
	"library/internal/domain/entity"
	"library/internal/domain/service"
	"library/internal/infra/auth"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestTokenService(t *testing.T, secret string) service.TokenService {
	cfg := &config.Config{}
	cfg.SecretKey.Access = secret

	tokenSvc, err := auth.NewJWTService(cfg)
	require.NoError(t, err)

	return tokenSvc
}

func TestAuthMiddleware_Authenticate(t *testing.T) {
	tokenSvc := newTestTokenService(t, "test-secret")
	otherSvc := newTestTokenService(t, "other-secret")
	userID := uuid.New()

	validToken, err := tokenSvc.Issue(userID, []string{"user"})
	require.NoError(t, err)
	foreignToken, err := otherSvc.Issue(userID, []string{"admin"})
	require.NoError(t, err)

	tests := []struct {
		name           string
		header         string
		expectedStatus int
	}{
		{name: "valid token", header: "Bearer " + validToken, expectedStatus: http.StatusOK},
		{name: "missing header", header: "", expectedStatus: http.StatusUnauthorized},
		{name: "not a bearer token", header: "Basic abc", expectedStatus: http.StatusUnauthorized},
		{name: "empty bearer token", header: "Bearer ", expectedStatus: http.StatusUnauthorized},
		{name: "garbage token", header: "Bearer not.a.jwt", expectedStatus: http.StatusUnauthorized},
		{name: "signed with another secret", header: "Bearer " + foreignToken, expectedStatus: http.StatusUnauthorized},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := echo.New()
			req := httptest.NewRequest(http.MethodGet, "/api/auth/me", nil)
			if tt.header != "" {
				req.Header.Set(echo.HeaderAuthorization, tt.header)
			}
			rec := httptest.NewRecorder()
			c := e.NewContext(req, rec)

			called := false
			handler := NewAuthMiddleware(tokenSvc).Authenticate(func(c echo.Context) error {
				called = true

				gotID, ok := GetUserID(c)
				assert.True(t, ok)
				assert.Equal(t, userID, gotID)

				roles, ok := GetRoles(c)
				assert.True(t, ok)
				assert.Equal(t, []string{"user"}, roles)

				ctxID, ok := deliverycontext.GetUserIDFromContext(c.Request().Context())
				assert.True(t, ok)
				assert.Equal(t, userID, ctxID)

				return c.NoContent(http.StatusOK)
			})

			require.NoError(t, handler(c))
			assert.Equal(t, tt.expectedStatus, rec.Code)
			assert.Equal(t, tt.expectedStatus == http.StatusOK, called)

			if tt.expectedStatus == http.StatusUnauthorized {
				var body map[string]map[string]any
				require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
				assert.Equal(t, "UNAUTHORIZED", body["error"]["code"])
				assert.NotContains(t, body["error"], "details")
			}
		})
	}
}

func TestAuthMiddleware_RequireRole(t *testing.T) {
	tests := []struct {
		name           string
		roles          []string
		expectedStatus int
	}{
		{name: "admin allowed", roles: []string{"admin"}, expectedStatus: http.StatusOK},
		{name: "user forbidden", roles: []string{"user"}, expectedStatus: http.StatusForbidden},
		{name: "roles missing", roles: nil, expectedStatus: http.StatusForbidden},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := echo.New()
			rec := httptest.NewRecorder()
			req := httptest.NewRequest(http.MethodGet, "/api/reports/books", nil)
			if tt.roles != nil {
				req = req.WithContext(deliverycontext.WithUser(req.Context(), uuid.New(), tt.roles))
			}
			c := e.NewContext(req, rec)

			handler := NewAuthMiddleware(nil).RequireRole(entity.RoleAdmin)(func(c echo.Context) error {
				return c.NoContent(http.StatusOK)
			})

			require.NoError(t, handler(c))
			assert.Equal(t, tt.expectedStatus, rec.Code)
		})
	}
}
