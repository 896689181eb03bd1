package middleware

import (
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	deliverycontext "library/internal/delivery/context"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidRequestID(t *testing.T) {
	tests := []struct {
		name string
		id   string
		want bool
	}{
		{name: "uuid", id: uuid.NewString(), want: true},
		{name: "120 bytes", id: strings.Repeat("a", 120), want: true},
		{name: "128 bytes", id: strings.Repeat("a", 128), want: true},
		{name: "129 bytes", id: strings.Repeat("a", 129), want: false},
		{name: "empty", id: "", want: false},
		{name: "space", id: "req 1", want: false},
		{name: "non ascii", id: "req-é", want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, validRequestID(tt.id))
		})
	}
}

func TestRequestIDMiddleware_Process(t *testing.T) {
	longID := strings.Repeat("a", 120)
	m := NewRequestIDMiddleware(slog.New(slog.NewTextHandler(io.Discard, nil)))

	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set(deliverycontext.HeaderXRequestID, longID)
	rec := httptest.NewRecorder()

	var fromCtx string
	err := m.Process(func(c echo.Context) error {
		fromCtx = deliverycontext.GetRequestIDFromContext(c.Request().Context())

		return c.NoContent(http.StatusOK)
	})(e.NewContext(req, rec))

	require.NoError(t, err)
	assert.Equal(t, longID, fromCtx)
	assert.Equal(t, longID, rec.Header().Get(deliverycontext.HeaderXRequestID))
}
