package handler

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	deliverycontext "library/internal/delivery/context"
	domainerrors "library/internal/domain/errors"
	"library/internal/domain/service"
	mockusecase "library/internal/mocks/usecase"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

type pushFixture struct {
	handler        *PushHandler
	circulationSvc *mockusecase.MockCirculationUsecase
}

func createTestPushHandler(t *testing.T) *pushFixture {
	t.Helper()

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	circulationSvc := mockusecase.NewMockCirculationUsecase(t)

	return &pushFixture{
		handler: &PushHandler{
			verify:    func(*http.Request, string) error { return nil },
			logger:    logger,
			processor: NewEventProcessor(logger, circulationSvc),
		},
		circulationSvc: circulationSvc,
	}
}

func reservedEvent() service.ReservationEvent {
	return service.ReservationEvent{
		Type:          service.EventReservationReserved,
		ReservationID: uuid.NewString(),
		BookID:        uuid.NewString(),
		UserID:        uuid.NewString(),
		Status:        "Reserved",
	}
}

func pushBody(t *testing.T, data string, attributes map[string]string) string {
	t.Helper()

	var msg PubSubMessage
	msg.Message.Data = data
	msg.Message.MessageID = "msg-1"
	msg.Message.Attributes = attributes
	msg.Subscription = "projects/local/subscriptions/reservation-events"

	body, err := json.Marshal(msg)
	assert.NoError(t, err)

	return string(body)
}

func encodeEvent(t *testing.T, event any) string {
	t.Helper()

	raw, err := json.Marshal(event)
	assert.NoError(t, err)

	return base64.StdEncoding.EncodeToString(raw)
}

func (fx *pushFixture) push(body string) *httptest.ResponseRecorder {
	e := echo.New()
	req := httptest.NewRequest(http.MethodPost, "/push", strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()

	_ = fx.handler.HandlePush(e.NewContext(req, rec))

	return rec
}

func TestPushHandler_RecordsEvent(t *testing.T) {
	fx := createTestPushHandler(t)
	event := reservedEvent()

	fx.circulationSvc.On("Record",
		mock.MatchedBy(func(ctx context.Context) bool {
			return deliverycontext.GetRequestIDFromContext(ctx) == "req-42"
		}),
		"msg-1",
		mock.MatchedBy(func(e *service.ReservationEvent) bool {
			return e.ReservationID == event.ReservationID && e.Type == service.EventReservationReserved
		}),
	).Return(true, nil).Once()

	rec := fx.push(pushBody(t, encodeEvent(t, event), map[string]string{"request_id": "req-42"}))

	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestPushHandler_RequestIDFromEvent(t *testing.T) {
	fx := createTestPushHandler(t)
	event := reservedEvent()
	event.RequestID = "req-from-event"

	fx.circulationSvc.On("Record",
		mock.MatchedBy(func(ctx context.Context) bool {
			return deliverycontext.GetRequestIDFromContext(ctx) == "req-from-event"
		}),
		"msg-1",
		mock.Anything,
	).Return(true, nil).Once()

	rec := fx.push(pushBody(t, encodeEvent(t, event), nil))

	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestPushHandler_Responses(t *testing.T) {
	tests := []struct {
		name       string
		body       func(t *testing.T) string
		recordErr  error
		wantRecord bool
		wantStatus int
	}{
		{
			name:       "malformed envelope",
			body:       func(*testing.T) string { return "{" },
			wantStatus: http.StatusBadRequest,
		},
		{
			name:       "data is not base64",
			body:       func(t *testing.T) string { return pushBody(t, "%%%", nil) },
			wantStatus: http.StatusBadRequest,
		},
		{
			name: "event is not json is acked",
			body: func(t *testing.T) string {
				return pushBody(t, base64.StdEncoding.EncodeToString([]byte("nope")), nil)
			},
			wantStatus: http.StatusOK,
		},
		{
			name:       "invalid event is acked",
			body:       func(t *testing.T) string { return pushBody(t, encodeEvent(t, reservedEvent()), nil) },
			recordErr:  domainerrors.ErrValidationFailed.WithDetails("unknown event type"),
			wantRecord: true,
			wantStatus: http.StatusOK,
		},
		{
			name:       "database failure is retried",
			body:       func(t *testing.T) string { return pushBody(t, encodeEvent(t, reservedEvent()), nil) },
			recordErr:  domainerrors.NewDatabaseExecuteError(errors.New("connection reset"), "failed to record circulation event"),
			wantRecord: true,
			wantStatus: http.StatusServiceUnavailable,
		},
		{
			name:       "unexpected failure is retried",
			body:       func(t *testing.T) string { return pushBody(t, encodeEvent(t, reservedEvent()), nil) },
			recordErr:  errors.New("boom"),
			wantRecord: true,
			wantStatus: http.StatusServiceUnavailable,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fx := createTestPushHandler(t)
			if tt.wantRecord {
				fx.circulationSvc.On("Record", mock.Anything, "msg-1", mock.Anything).Return(false, tt.recordErr).Once()
			}

			rec := fx.push(tt.body(t))

			assert.Equal(t, tt.wantStatus, rec.Code)
		})
	}
}

func TestPushHandler_RejectsUnverifiedPush(t *testing.T) {
	fx := createTestPushHandler(t)
	fx.handler.verifyPushAuth = true

	var gotAudience string
	fx.handler.audience = "https://worker.example.com/push"
	fx.handler.verify = func(_ *http.Request, audience string) error {
		gotAudience = audience

		return errors.New("missing authorization header")
	}

	rec := fx.push(pushBody(t, encodeEvent(t, reservedEvent()), nil))

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, "https://worker.example.com/push", gotAudience)
}

func TestVerifyPubSubToken_HeaderChecks(t *testing.T) {
	req := httptest.NewRequest(http.MethodPost, "/push", nil)
	assert.ErrorContains(t, verifyPubSubToken(req, ""), "missing authorization header")

	req.Header.Set("Authorization", "Basic abc")
	assert.ErrorContains(t, verifyPubSubToken(req, ""), "invalid authorization header format")
}

func TestIsRetryableError(t *testing.T) {
	assert.True(t, IsRetryableError(errors.Wrap(newRetryableError(errors.New("x")), "context")))
	assert.False(t, IsRetryableError(errors.New("x")))
}

func TestPushHandler_StoresResolvedRequestID(t *testing.T) {
	longID := strings.Repeat("a", 120)

	tests := []struct {
		name       string
		eventID    string
		attributes map[string]string
		want       string
	}{
		{name: "attribute only", attributes: map[string]string{"request_id": "req-attr"}, want: "req-attr"},
		{name: "attribute wins over payload", eventID: "req-payload", attributes: map[string]string{"request_id": "req-attr"}, want: "req-attr"},
		{name: "payload only", eventID: "req-payload", want: "req-payload"},
		{name: "long attribute", attributes: map[string]string{"request_id": longID}, want: longID},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fx := createTestPushHandler(t)
			event := reservedEvent()
			event.RequestID = tt.eventID

			fx.circulationSvc.On("Record", mock.Anything, "msg-1",
				mock.MatchedBy(func(e *service.ReservationEvent) bool { return e.RequestID == tt.want }),
			).Return(true, nil).Once()

			rec := fx.push(pushBody(t, encodeEvent(t, event), tt.attributes))

			assert.Equal(t, http.StatusOK, rec.Code)
		})
	}
}

func TestPushHandler_GeneratesRequestIDWhenAbsent(t *testing.T) {
	fx := createTestPushHandler(t)

	fx.circulationSvc.On("Record", mock.Anything, "msg-1",
		mock.MatchedBy(func(e *service.ReservationEvent) bool {
			_, err := uuid.Parse(e.RequestID)

			return err == nil
		}),
	).Return(true, nil).Once()

	rec := fx.push(pushBody(t, encodeEvent(t, reservedEvent()), nil))

	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestPushHandler_OversizedFieldIsNotRetried(t *testing.T) {
	fx := createTestPushHandler(t)

	fx.circulationSvc.On("Record", mock.Anything, "msg-1", mock.Anything).
		Return(false, domainerrors.ErrValidationFailed.WithDetails("circulation event field exceeds column length")).Once()

	rec := fx.push(pushBody(t, encodeEvent(t, reservedEvent()), map[string]string{"request_id": strings.Repeat("a", 120)}))

	assert.Equal(t, http.StatusOK, rec.Code)
}
