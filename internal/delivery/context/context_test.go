package context

import (
	"context"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
)

func TestRequestID(t *testing.T) {
	e := echo.New()
	c := e.NewContext(httptest.NewRequest(http.MethodGet, "/", nil), httptest.NewRecorder())

	generated := GetRequestID(c)
	_, err := uuid.Parse(generated)
	assert.NoError(t, err)

	SetRequestID(c, "req-1")
	assert.Equal(t, "req-1", GetRequestID(c))

	ctx := context.Background()
	assert.Empty(t, GetRequestIDFromContext(ctx))
	assert.Equal(t, "req-1", GetRequestIDFromContext(WithRequestID(ctx, "req-1")))
}

func TestLogger(t *testing.T) {
	fallback := slog.Default()
	scoped := slog.Default().With("request_id", "req-1")

	ctx := context.Background()
	assert.Nil(t, GetLogger(ctx))
	assert.Same(t, fallback, GetLoggerOrDefault(ctx, fallback))

	ctx = WithLogger(ctx, scoped)
	assert.Same(t, scoped, GetLogger(ctx))
	assert.Same(t, scoped, GetLoggerOrDefault(ctx, fallback))
}

func TestMember(t *testing.T) {
	userID := uuid.New()

	_, ok := MemberFromContext(context.Background())
	assert.False(t, ok)

	ctx := WithUser(context.Background(), userID, []string{"user", "admin"})
	member, ok := MemberFromContext(ctx)
	assert.True(t, ok)
	assert.Equal(t, userID, member.UserID)
	assert.True(t, member.HasRole("admin"))
	assert.False(t, member.HasRole("librarian"))

	gotID, ok := GetUserIDFromContext(ctx)
	assert.True(t, ok)
	assert.Equal(t, userID, gotID)

	roles, ok := GetRolesFromContext(ctx)
	assert.True(t, ok)
	assert.Equal(t, []string{"user", "admin"}, roles)

	_, ok = MemberFromContext(WithUser(context.Background(), uuid.Nil, nil))
	assert.False(t, ok)

	_, ok = GetRolesFromContext(WithUser(context.Background(), userID, nil))
	assert.False(t, ok)
}
