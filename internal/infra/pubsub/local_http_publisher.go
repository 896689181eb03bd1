package pubsub

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"library/internal/domain/service"

	"github.com/google/uuid"
	"github.com/pkg/errors"
)

const (
	localSubscription   = "projects/local/subscriptions/reservation-events"
	localMaxAttempts    = 3
	localDefaultBackoff = 200 * time.Millisecond
)

// localHTTPPublisher posts push envelopes straight to the event worker for development.
// 5xx answers are retried with the same message ID so the worker can drop duplicates.
type localHTTPPublisher struct {
	endpoint   string
	httpClient *http.Client
	logger     *slog.Logger
	backoff    time.Duration
	now        func() time.Time
}

// PubSubPushMessage is the envelope Google Pub/Sub uses when pushing to HTTP endpoints
type PubSubPushMessage struct {
	Message struct {
		Data        string            `json:"data"`
		Attributes  map[string]string `json:"attributes,omitempty"`
		MessageID   string            `json:"messageId"`
		PublishTime string            `json:"publishTime"`
	} `json:"message"`
	Subscription string `json:"subscription"`
}

// NewLocalHTTPPublisher creates a new local HTTP publisher for development
func NewLocalHTTPPublisher(endpoint string, logger *slog.Logger) service.EventPublisher {
	return &localHTTPPublisher{
		endpoint: endpoint,
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
		logger:  logger,
		backoff: localDefaultBackoff,
		now:     time.Now,
	}
}

func (p *localHTTPPublisher) envelope(event *service.ReservationEvent) ([]byte, error) {
	eventData, err := json.Marshal(event)
	if err != nil {
		return nil, errors.WithStack(err)
	}

	pushMsg := PubSubPushMessage{Subscription: localSubscription}
	pushMsg.Message.Data = base64.StdEncoding.EncodeToString(eventData)
	pushMsg.Message.MessageID = uuid.NewString()
	pushMsg.Message.PublishTime = p.now().UTC().Format(time.RFC3339)
	pushMsg.Message.Attributes = eventAttributes(event)

	body, err := json.Marshal(pushMsg)

	return body, errors.WithStack(err)
}

// PublishReservationEvent delivers the event, retrying server errors up to localMaxAttempts times
func (p *localHTTPPublisher) PublishReservationEvent(ctx context.Context, event *service.ReservationEvent) error {
	body, err := p.envelope(event)
	if err != nil {
		return err
	}

	var lastErr error
	for attempt := 1; attempt <= localMaxAttempts; attempt++ {
		status, err := p.post(ctx, body, event.RequestID)
		switch {
		case err != nil:
			lastErr = err
		case status >= 200 && status < 300:
			p.logger.Debug("[LocalPubSub] Event published",
				slog.String("endpoint", p.endpoint),
				slog.String("type", event.Type),
				slog.String("reservation_id", event.ReservationID),
				slog.Int("attempt", attempt),
			)

			return nil
		case status < 500:
			return errors.Errorf("push endpoint rejected event: status %d", status)
		default:
			lastErr = errors.Errorf("push endpoint returned non-success status: %d", status)
		}

		if attempt == localMaxAttempts {
			break
		}
		p.logger.Warn("[LocalPubSub] Retrying event delivery",
			slog.String("reservation_id", event.ReservationID),
			slog.Int("attempt", attempt),
			slog.Any("error", lastErr),
		)
		select {
		case <-ctx.Done():
			return errors.WithStack(ctx.Err())
		case <-time.After(p.backoff * time.Duration(attempt)):
		}
	}

	return lastErr
}

func (p *localHTTPPublisher) post(ctx context.Context, body []byte, requestID string) (int, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, p.endpoint, bytes.NewReader(body))
	if err != nil {
		return 0, errors.WithStack(err)
	}
	req.Header.Set("Content-Type", "application/json")
	if requestID != "" {
		req.Header.Set("X-Request-Id", requestID)
	}

	resp, err := p.httpClient.Do(req)
	if err != nil {
		return 0, errors.WithStack(err)
	}
	defer resp.Body.Close()

	return resp.StatusCode, nil
}

// Close is a no-op; the HTTP client holds no resources
func (p *localHTTPPublisher) Close() error {
	return nil
}
