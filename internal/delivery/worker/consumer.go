package worker

import (
	"context"
	"log/slog"
	"sync"

	"library/config"
	"library/internal/delivery"
	"library/internal/delivery/worker/handler"
	"library/internal/domain/lifecycle"
	"library/internal/util"

	"github.com/pkg/errors"
	amqp "github.com/rabbitmq/amqp091-go"
	"go.uber.org/fx"
)

type queueConsumer struct {
	logger    *slog.Logger
	processor *handler.EventProcessor
	conn      *amqp.Connection
	channel   *amqp.Channel
	queue     string

	// stopped is closed by the OnStop hook before the channel is torn down
	stopped  chan struct{}
	stopOnce sync.Once
	// handling is held while a delivery is processed
	handling sync.Mutex
}

// ConsumerParams holds dependencies for the RabbitMQ consumer
type ConsumerParams struct {
	fx.In

	Lc        fx.Lifecycle
	Cfg       *config.Config
	Logger    *slog.Logger
	Processor *handler.EventProcessor
}

// NewQueueConsumer consumes reservation events from RabbitMQ when it is the configured provider.
// Otherwise the returned delivery exits immediately.
func NewQueueConsumer(params ConsumerParams) (delivery.Delivery, error) {
	cfg := params.Cfg.PubSub
	if cfg == nil || cfg.Provider != config.PubSubProviderRabbitMQ {
		return disabledDelivery{logger: params.Logger}, nil
	}

	if cfg.RabbitMQURL == "" || cfg.QueueName == "" {
		return nil, errors.New("rabbitmq url and queue name are required for rabbitmq provider")
	}

	conn, err := amqp.Dial(cfg.RabbitMQURL)
	if err != nil {
		return nil, errors.Wrap(err, "failed to connect to RabbitMQ")
	}

	ch, err := conn.Channel()
	if err != nil {
		conn.Close()

		return nil, errors.Wrap(err, "failed to open RabbitMQ channel")
	}

	q, err := ch.QueueDeclare(
		cfg.QueueName,
		true,  // durable
		false, // delete when unused
		false, // exclusive
		false, // no-wait
		nil,
	)
	if err != nil {
		ch.Close()
		conn.Close()

		return nil, errors.Wrapf(err, "failed to declare queue %s", cfg.QueueName)
	}

	prefetch := 1
	if params.Cfg.Worker != nil && params.Cfg.Worker.Prefetch > 0 {
		prefetch = params.Cfg.Worker.Prefetch
	}
	if err := ch.Qos(prefetch, 0, false); err != nil {
		ch.Close()
		conn.Close()

		return nil, errors.Wrap(err, "failed to set RabbitMQ prefetch")
	}

	consumer := &queueConsumer{
		logger:    params.Logger,
		processor: params.Processor,
		conn:      conn,
		channel:   ch,
		queue:     q.Name,
		stopped:   make(chan struct{}),
	}

	params.Lc.Append(fx.Hook{
		OnStop: consumer.stop,
	})

	return consumer, nil
}

// Serve consumes deliveries until the consumer is stopped or the channel closes
func (c *queueConsumer) Serve(ctx context.Context) error {
	msgs, err := c.channel.Consume(
		c.queue,
		"",    // consumer
		false, // auto-ack
		false, // exclusive
		false, // no-local
		false, // no-wait
		nil,
	)
	if err != nil {
		return errors.Wrap(err, "failed to register RabbitMQ consumer")
	}

	c.logger.Info("Consuming reservation events", slog.String("queue", c.queue))

	return c.consume(ctx, msgs)
}

func (c *queueConsumer) consume(ctx context.Context, msgs <-chan amqp.Delivery) error {
	for {
		select {
		case <-c.stopped:
			return nil
		case <-ctx.Done():
			return nil
		case msg, ok := <-msgs:
			if !ok {
				select {
				case <-c.stopped:
					return nil
				default:
					return errors.New("RabbitMQ delivery channel closed")
				}
			}

			c.handling.Lock()
			c.handleDelivery(ctx, msg)
			c.handling.Unlock()
		}
	}
}

// handleDelivery acks recorded and malformed events and requeues retryable failures
func (c *queueConsumer) handleDelivery(ctx context.Context, msg amqp.Delivery) {
	messageID := msg.MessageId
	if messageID == "" {
		messageID = "amqp-" + util.Checksum(msg.Body)
	}

	requestID := msg.CorrelationId
	if value, ok := msg.Headers["request_id"].(string); ok && value != "" {
		requestID = value
	}

	err := c.processor.Process(ctx, messageID, requestID, msg.Body)
	switch {
	case err == nil:
		if ackErr := msg.Ack(false); ackErr != nil {
			c.logger.Error("[Worker] Failed to ack message", slog.Any("error", ackErr))
		}
	case handler.IsRetryableError(err):
		c.logger.Error("[Worker] Failed to process reservation event, requeueing",
			slog.String("message_id", messageID),
			slog.Any("error", err),
		)
		if nackErr := msg.Nack(false, true); nackErr != nil {
			c.logger.Error("[Worker] Failed to nack message", slog.Any("error", nackErr))
		}
	default:
		c.logger.Warn("[Worker] Dropping malformed reservation event",
			slog.String("message_id", messageID),
			slog.Any("error", err),
		)
		if nackErr := msg.Nack(false, false); nackErr != nil {
			c.logger.Error("[Worker] Failed to nack message", slog.Any("error", nackErr))
		}
	}
}

// stop waits for the in-flight delivery, then closes the channel and connection
func (c *queueConsumer) stop(ctx context.Context) error {
	c.stopOnce.Do(func() { close(c.stopped) })

	waitCtx, cancel := context.WithTimeout(ctx, lifecycle.DefaultTimeout)
	defer cancel()

	done := make(chan struct{})
	go func() {
		c.handling.Lock()
		defer c.handling.Unlock()
		close(done)
	}()
	select {
	case <-done:
	case <-waitCtx.Done():
		c.logger.Warn("Timed out waiting for in-flight RabbitMQ delivery")
	}

	c.logger.Info("Closing RabbitMQ consumer")

	var firstErr error
	if c.channel != nil {
		if err := c.channel.Close(); err != nil {
			firstErr = errors.WithStack(err)
		}
	}
	if c.conn != nil {
		if err := c.conn.Close(); err != nil && firstErr == nil {
			firstErr = errors.WithStack(err)
		}
	}

	return firstErr
}

// disabledDelivery stands in for a consumer whose provider is not configured
type disabledDelivery struct {
	logger *slog.Logger
}

func (d disabledDelivery) Serve(context.Context) error {
	d.logger.Info("RabbitMQ consumer disabled for the configured event provider")

	return nil
}
