package workers

import (
	"context"

	"github.com/rs/zerolog"
	"github.com/segmentio/kafka-go"

	"github.com/bysinka671-afk/notification-bot/config"
	kafkaHandlers "github.com/bysinka671-afk/notification-bot/internal/domain/notifier/delivery/kafka"
)

type messageReader interface {
	FetchMessage(ctx context.Context) (kafka.Message, error)
	CommitMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

type requestHandler interface {
	HandleNotificationRequest(ctx context.Context, data []byte) error
}

// RequestConsumer consumes notification requests from Kafka.
// The offset is committed only after a request was handled, so a request
// in flight during a crash is read again. A request whose handling failed
// is committed too: it may already be stored, and replaying it would
// broadcast twice.
type RequestConsumer struct {
	reader   messageReader
	handlers requestHandler
	topic    string
	logger   zerolog.Logger
	done     chan struct{}
	ctx      context.Context
	cancel   context.CancelFunc
}

// NewRequestConsumer creates new Kafka consumer for notification requests
func NewRequestConsumer(cfg *config.KafkaConfig, handlers *kafkaHandlers.Handlers, logger zerolog.Logger) *RequestConsumer {
	reader := kafka.NewReader(kafka.ReaderConfig{
		Brokers:  cfg.Brokers,
		GroupID:  cfg.GroupID,
		Topic:    cfg.RequestsTopic,
		MinBytes: 1,
		MaxBytes: 10e6,
	})

	logger.Info().
		Strs("brokers", cfg.Brokers).
		Str("group_id", cfg.GroupID).
		Str("topic", cfg.RequestsTopic).
		Msg("Kafka request consumer initialized")

	return newRequestConsumer(reader, handlers, cfg.RequestsTopic, logger)
}

func newRequestConsumer(reader messageReader, handlers requestHandler, topic string, logger zerolog.Logger) *RequestConsumer {
	ctx, cancel := context.WithCancel(context.Background())

	return &RequestConsumer{
		reader:   reader,
		handlers: handlers,
		topic:    topic,
		logger:   logger,
		done:     make(chan struct{}),
		ctx:      ctx,
		cancel:   cancel,
	}
}

// Start starts consuming messages from Kafka
func (c *RequestConsumer) Start() {
	c.logger.Info().Msg("Starting Kafka request consumer...")

	go c.consume()
}

func (c *RequestConsumer) consume() {
	for {
		select {
		case <-c.done:
			return
		case <-c.ctx.Done():
			return
		default:
			msg, err := c.reader.FetchMessage(c.ctx)
			if err != nil {
				if c.ctx.Err() != nil {
					return
				}
				c.logger.Error().Err(err).Msg("Failed to fetch message from Kafka")
				continue
			}

			c.logger.Debug().
				Str("topic", msg.Topic).
				Int("partition", msg.Partition).
				Int64("offset", msg.Offset).
				Msg("Received message from Kafka")

			if err := c.handlers.HandleNotificationRequest(c.ctx, msg.Value); err != nil {
				c.logger.Error().Err(err).Int64("offset", msg.Offset).Msg("Failed to handle notification request, not retried")
			}

			if err := c.reader.CommitMessages(c.ctx, msg); err != nil {
				if c.ctx.Err() != nil {
					return
				}
				c.logger.Error().Err(err).Int64("offset", msg.Offset).Msg("Failed to commit notification request")
			}
		}
	}
}

// Stop stops the consumer gracefully
func (c *RequestConsumer) Stop() error {
	c.logger.Info().Msg("Stopping Kafka request consumer...")
	c.cancel()
	close(c.done)

	if err := c.reader.Close(); err != nil {
		c.logger.Error().Err(err).Msg("Failed to close Kafka reader")
		return err
	}

	c.logger.Info().Msg("Kafka request consumer stopped successfully")
	return nil
}
