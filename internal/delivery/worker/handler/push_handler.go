package handler

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"strings"

	"library/config"
	deliverycontext "library/internal/delivery/context"
	domainerrors "library/internal/domain/errors"
	"library/internal/domain/service"
	"library/internal/usecase"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
	"go.uber.org/fx"
	"google.golang.org/api/idtoken"
)

// PubSubMessage represents the structure of a Pub/Sub push message
type PubSubMessage struct {
	Message struct {
		Data        string            `json:"data"`
		Attributes  map[string]string `json:"attributes,omitempty"`
		MessageID   string            `json:"messageId"`
		PublishTime string            `json:"publishTime"`
	} `json:"message"`
	Subscription string `json:"subscription"`
}

// retryableError wraps an error to indicate it should trigger a redelivery
type retryableError struct {
	err error
}

func (e *retryableError) Error() string {
	return fmt.Sprintf("retryable: %v", e.err)
}

func (e *retryableError) Unwrap() error {
	return e.err
}

// newRetryableError wraps an error as retryable
func newRetryableError(err error) error {
	return &retryableError{err: err}
}

// IsRetryableError checks if an error is retryable
func IsRetryableError(err error) bool {
	var re *retryableError

	return errors.As(err, &re)
}

// EventProcessor records reservation events for every worker transport
type EventProcessor struct {
	logger         *slog.Logger
	circulationSvc usecase.CirculationUsecase
}

// NewEventProcessor creates the processor shared by the push and queue consumers
func NewEventProcessor(logger *slog.Logger, circulationSvc usecase.CirculationUsecase) *EventProcessor {
	return &EventProcessor{
		logger:         logger,
		circulationSvc: circulationSvc,
	}
}

// Process decodes a JSON reservation event and records it.
// Client errors are final; anything else is wrapped as retryable.
func (p *EventProcessor) Process(ctx context.Context, messageID, requestID string, data []byte) error {
	var event service.ReservationEvent
	if err := json.Unmarshal(data, &event); err != nil {
		return domainerrors.ErrValidationFailed.WithDetails("malformed reservation event")
	}

	if requestID == "" {
		requestID = extractRequestID(ctx, nil, &event)
	}
	event.RequestID = requestID

	reqLogger := p.logger.With(slog.String("request_id", requestID))
	ctx = deliverycontext.WithRequestID(ctx, requestID)
	ctx = deliverycontext.WithLogger(ctx, reqLogger)

	reqLogger.Info("[Worker] Processing reservation event",
		slog.String("message_id", messageID),
		slog.String("type", event.Type),
		slog.String("reservation_id", event.ReservationID),
	)

	if _, err := p.circulationSvc.Record(ctx, messageID, &event); err != nil {
		var appErr domainerrors.AppError
		if errors.As(err, &appErr) && appErr.HTTPCode() < http.StatusInternalServerError {
			return err
		}

		return newRetryableError(err)
	}

	return nil
}

// PushHandler handles Pub/Sub push messages carrying reservation events
type PushHandler struct {
	verifyPushAuth bool
	audience       string
	verify         func(req *http.Request, audience string) error
	logger         *slog.Logger
	processor      *EventProcessor
}

// PushHandlerParams holds dependencies for the PushHandler
type PushHandlerParams struct {
	fx.In

	Config    *config.Config
	Logger    *slog.Logger
	Processor *EventProcessor
}

// NewPushHandler creates a new Pub/Sub push handler
func NewPushHandler(params PushHandlerParams) *PushHandler {
	// Determine if we need to verify push auth based on config
	verifyPushAuth := params.Config.PubSub != nil &&
		params.Config.PubSub.Provider == config.PubSubProviderGoogle &&
		params.Config.Env.Env != config.EnvDevelop

	var audience string
	if params.Config.Worker != nil {
		audience = params.Config.Worker.PushAudience
	}

	return &PushHandler{
		verifyPushAuth: verifyPushAuth,
		audience:       audience,
		verify:         verifyPubSubToken,
		logger:         params.Logger,
		processor:      params.Processor,
	}
}

// HandlePush handles incoming Pub/Sub push messages
func (h *PushHandler) HandlePush(c echo.Context) error {
	ctx := c.Request().Context()

	// Verify Pub/Sub token in production for Google provider
	if h.verifyPushAuth {
		if err := h.verify(c.Request(), h.audience); err != nil {
			h.logger.Warn("[Worker] Invalid Pub/Sub token", slog.Any("error", err))

			return c.NoContent(http.StatusUnauthorized)
		}
	}

	// Parse Pub/Sub message
	var pushMsg PubSubMessage
	if err := c.Bind(&pushMsg); err != nil {
		h.logger.Error("[Worker] Failed to parse push message", slog.Any("error", err))

		return c.NoContent(http.StatusBadRequest)
	}

	// Decode base64 message data
	data, err := base64.StdEncoding.DecodeString(pushMsg.Message.Data)
	if err != nil {
		h.logger.Error("[Worker] Failed to decode message data", slog.Any("error", err))

		return c.NoContent(http.StatusBadRequest)
	}

	requestID := pushMsg.Message.Attributes["request_id"]

	if err := h.processor.Process(ctx, pushMsg.Message.MessageID, requestID, data); err != nil {
		retryable := IsRetryableError(err)
		h.logger.Error("[Worker] Failed to process reservation event",
			slog.String("message_id", pushMsg.Message.MessageID),
			slog.Any("error", err),
			slog.Bool("retryable", retryable),
		)
		// Return 503 for retryable errors to trigger Pub/Sub retry
		// Return 200 for non-retryable errors to prevent infinite retries
		if retryable {
			return c.NoContent(http.StatusServiceUnavailable)
		}

		return c.NoContent(http.StatusOK)
	}

	return c.NoContent(http.StatusOK)
}

// extractRequestID extracts request_id from message attributes, event, or generates a new one
func extractRequestID(ctx context.Context, attributes map[string]string, event *service.ReservationEvent) string {
	// 1. Try message attributes (from Pub/Sub or AMQP headers)
	if requestID, ok := attributes["request_id"]; ok && requestID != "" {
		return requestID
	}

	// 2. Try event field (from JSON payload)
	if event != nil && event.RequestID != "" {
		return event.RequestID
	}

	// 3. Try existing context (from RequestIDMiddleware via X-Request-Id header)
	if requestID := deliverycontext.GetRequestIDFromContext(ctx); requestID != "" {
		return requestID
	}

	// 4. Generate new UUID as fallback
	return uuid.New().String()
}

// verifyPubSubToken verifies the JWT token from Google Pub/Sub push requests
// Reference: https://cloud.google.com/pubsub/docs/push#authenticating_standard_push_requests
func verifyPubSubToken(req *http.Request, audience string) error {
	authHeader := req.Header.Get("Authorization")
	if authHeader == "" {
		return errors.New("missing authorization header")
	}

	const bearerPrefix = "Bearer "
	if !strings.HasPrefix(authHeader, bearerPrefix) {
		return errors.New("invalid authorization header format")
	}
	token := strings.TrimPrefix(authHeader, bearerPrefix)

	// The audience defaults to the URL of this endpoint
	if audience == "" {
		scheme := "https"
		if req.TLS == nil {
			scheme = "http"
		}
		audience = fmt.Sprintf("%s://%s%s", scheme, req.Host, req.URL.Path)
	}

	payload, err := idtoken.Validate(req.Context(), token, audience)
	if err != nil {
		return errors.Wrap(err, "failed to validate token")
	}

	if payload.Issuer != "accounts.google.com" && payload.Issuer != "https://accounts.google.com" {
		return errors.Errorf("invalid issuer: %s", payload.Issuer)
	}

	if emailVerified, ok := payload.Claims["email_verified"].(bool); ok && !emailVerified {
		return errors.New("email not verified")
	}

	return nil
}
