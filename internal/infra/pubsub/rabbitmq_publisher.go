package pubsub

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	"library/internal/domain/service"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	amqp "github.com/rabbitmq/amqp091-go"
)

const rabbitMQPublishTimeout = 5 * time.Second

// rabbitMQPublisher implements EventPublisher on a durable RabbitMQ queue
type rabbitMQPublisher struct {
	conn    *amqp.Connection
	channel *amqp.Channel
	queue   string
	logger  *slog.Logger
}

// NewRabbitMQPublisher dials the broker and declares the queue
func NewRabbitMQPublisher(url, queueName string, logger *slog.Logger) (service.EventPublisher, error) {
	conn, err := amqp.Dial(url)
	if err != nil {
		return nil, errors.Wrap(err, "failed to connect to RabbitMQ")
	}

	ch, err := conn.Channel()
	if err != nil {
		conn.Close()

		return nil, errors.Wrap(err, "failed to open RabbitMQ channel")
	}

	q, err := ch.QueueDeclare(
		queueName,
		true,  // durable
		false, // delete when unused
		false, // exclusive
		false, // no-wait
		nil,
	)
	if err != nil {
		ch.Close()
		conn.Close()

		return nil, errors.Wrapf(err, "failed to declare queue %s", queueName)
	}

	logger.Info("RabbitMQ publisher initialized", slog.String("queue", q.Name))

	return &rabbitMQPublisher{
		conn:    conn,
		channel: ch,
		queue:   q.Name,
		logger:  logger,
	}, nil
}

// PublishReservationEvent publishes the event as a persistent JSON message
func (p *rabbitMQPublisher) PublishReservationEvent(ctx context.Context, event *service.ReservationEvent) error {
	body, err := json.Marshal(event)
	if err != nil {
		return errors.WithStack(err)
	}

	publishCtx, cancel := context.WithTimeout(ctx, rabbitMQPublishTimeout)
	defer cancel()

	headers := amqp.Table{}
	for key, value := range eventAttributes(event) {
		headers[key] = value
	}

	err = p.channel.PublishWithContext(
		publishCtx,
		"",      // default exchange
		p.queue, // routing key
		false,   // mandatory
		false,   // immediate
		amqp.Publishing{
			ContentType:   "application/json",
			DeliveryMode:  amqp.Persistent,
			MessageId:     uuid.NewString(),
			CorrelationId: event.RequestID,
			Type:          event.Type,
			Timestamp:     event.OccurredAt,
			Headers:       headers,
			Body:          body,
		},
	)
	if err != nil {
		return errors.Wrap(err, "failed to publish message")
	}

	p.logger.Debug("[RabbitMQ] Event published",
		slog.String("queue", p.queue),
		slog.String("type", event.Type),
		slog.String("reservation_id", event.ReservationID),
	)

	return nil
}

// Close closes the channel, then the connection
func (p *rabbitMQPublisher) Close() error {
	var firstErr error
	if p.channel != nil {
		if err := p.channel.Close(); err != nil {
			firstErr = errors.WithStack(err)
		}
	}
	if p.conn != nil {
		if err := p.conn.Close(); err != nil && firstErr == nil {
			firstErr = errors.WithStack(err)
		}
	}

	return firstErr
}
