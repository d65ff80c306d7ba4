package workers

import (
	"context"

	"github.com/rs/zerolog"
	"go.uber.org/fx"

	"github.com/bysinka671-afk/notification-bot/config"
	"github.com/bysinka671-afk/notification-bot/internal/domain/notifier/deps"
	kafkaHandlers "github.com/bysinka671-afk/notification-bot/internal/domain/notifier/delivery/kafka"
	"github.com/bysinka671-afk/notification-bot/internal/infrastructure/metrics"
)

// Module provides workers for fx dependency injection
var Module = fx.Module("notifier-workers",
	fx.Provide(provideSessionReaper),
	fx.Invoke(registerSessionReaperLifecycle),
	fx.Invoke(registerRequestConsumerLifecycle),
)

func provideSessionReaper(cfg *config.SessionConfig, sessions deps.SessionStore, m *metrics.Metrics, logger zerolog.Logger) (*SessionReaper, error) {
	return NewSessionReaper(cfg, sessions, m, logger.With().Str("component", "session-reaper").Logger())
}

// registerSessionReaperLifecycle registers session reaper lifecycle hooks
func registerSessionReaperLifecycle(lc fx.Lifecycle, reaper *SessionReaper) {
	lc.Append(fx.Hook{
		OnStart: func(_ context.Context) error {
			reaper.Start()
			return nil
		},
		OnStop: func(_ context.Context) error {
			return reaper.Stop()
		},
	})
}

// registerRequestConsumerLifecycle starts the Kafka consumer when brokers are configured
func registerRequestConsumerLifecycle(lc fx.Lifecycle, cfg *config.KafkaConfig, handlers *kafkaHandlers.Handlers, logger zerolog.Logger) {
	if !cfg.Enabled() {
		logger.Info().Msg("Kafka brokers not configured, notification request consumer disabled")
		return
	}

	consumer := NewRequestConsumer(cfg, handlers, logger.With().Str("component", "request-consumer").Logger())

	lc.Append(fx.Hook{
		OnStart: func(_ context.Context) error {
			consumer.Start()
			return nil
		},
		OnStop: func(_ context.Context) error {
			return consumer.Stop()
		},
	})
}
