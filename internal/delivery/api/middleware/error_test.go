package middleware

import (
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	domainerrors "library/internal/domain/errors"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestErrorMiddleware_HandleHTTPError(t *testing.T) {
	tests := []struct {
		name            string
		err             error
		expectedStatus  int
		expectedCode    string
		expectedDetails any
	}{
		{
			name:            "domain error with details",
			err:             errors.Wrap(domainerrors.ErrInvalidReservationState.WithDetails("current status is Reserved"), "failed to return"),
			expectedStatus:  http.StatusBadRequest,
			expectedCode:    "INVALID_RESERVATION_STATE",
			expectedDetails: "current status is Reserved",
		},
		{
			name:           "server side domain error hides details",
			err:            domainerrors.ErrAddressLookupFailed.WithDetails("dial tcp: timeout"),
			expectedStatus: http.StatusInternalServerError,
			expectedCode:   "ADDRESS_LOOKUP_FAILED",
		},
		{
			name:           "echo error",
			err:            echo.NewHTTPError(http.StatusNotFound, "Not Found"),
			expectedStatus: http.StatusNotFound,
			expectedCode:   "HTTP_ERROR",
		},
		{
			name:           "unknown error",
			err:            errors.New("boom"),
			expectedStatus: http.StatusInternalServerError,
			expectedCode:   "INTERNAL_ERROR",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := echo.New()
			rec := httptest.NewRecorder()
			c := e.NewContext(httptest.NewRequest(http.MethodGet, "/books", nil), rec)

			NewErrorMiddleware(slog.New(slog.NewTextHandler(io.Discard, nil))).HandleHTTPError(tt.err, c)

			assert.Equal(t, tt.expectedStatus, rec.Code)

			var body struct {
				Error struct {
					Code    string `json:"code"`
					Message string `json:"message"`
					Details any    `json:"details"`
				} `json:"error"`
			}
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
			assert.Equal(t, tt.expectedCode, body.Error.Code)
			assert.NotEmpty(t, body.Error.Message)
			assert.Equal(t, tt.expectedDetails, body.Error.Details)
		})
	}
}
