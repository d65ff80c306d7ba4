// Package notifier contains the notifier domain module
package notifier

import (
	"context"

	"github.com/rs/zerolog"
	"go.uber.org/fx"

	"github.com/bysinka671-afk/notification-bot/config"
	httpDelivery "github.com/bysinka671-afk/notification-bot/internal/domain/notifier/delivery/http"
	kafkaDelivery "github.com/bysinka671-afk/notification-bot/internal/domain/notifier/delivery/kafka"
	telegramDelivery "github.com/bysinka671-afk/notification-bot/internal/domain/notifier/delivery/telegram"
	"github.com/bysinka671-afk/notification-bot/internal/domain/notifier/deps"
	"github.com/bysinka671-afk/notification-bot/internal/domain/notifier/repository/memory"
	"github.com/bysinka671-afk/notification-bot/internal/domain/notifier/repository/postgres"
	"github.com/bysinka671-afk/notification-bot/internal/domain/notifier/usecase/business"
	"github.com/bysinka671-afk/notification-bot/internal/domain/notifier/workers"
	"github.com/bysinka671-afk/notification-bot/internal/infrastructure/http/server"
	"github.com/bysinka671-afk/notification-bot/internal/infrastructure/telegram"
)

// Module provides notifier domain components for fx dependency injection
var Module = fx.Module("notifier",
	// Repository
	fx.Provide(postgres.NewUserRepository),
	fx.Provide(postgres.NewNotificationRepository),
	fx.Provide(memory.NewSessionStoreRepository),

	// UseCase
	fx.Provide(provideNotificationSender),
	fx.Provide(business.NewDispatcher),
	fx.Provide(business.NewUseCase),

	// Delivery - Telegram (needs raw bot from infrastructure)
	fx.Provide(provideTelegramHandlers),
	fx.Provide(telegramDelivery.NewRouter),

	// Delivery - HTTP
	fx.Provide(provideHTTPHandler),
	fx.Provide(httpDelivery.NewRouter),

	// Delivery - Kafka
	fx.Provide(provideKafkaHandlers),

	// Workers
	workers.Module,

	// Wire cyclic dependency and register routes
	fx.Invoke(wireAndRegister),
)

// provideNotificationSender exposes the bot as the broadcast transport
func provideNotificationSender(bot *telegram.Bot) deps.NotificationSender {
	return bot
}

// provideTelegramHandlers creates Telegram handlers with raw bot
func provideTelegramHandlers(uc *business.UseCase, bot *telegram.Bot, logger zerolog.Logger) *telegramDelivery.Handlers {
	return telegramDelivery.NewHandlers(uc, bot.Raw(), logger.With().Str("component", "telegram-handlers").Logger())
}

func provideHTTPHandler(uc *business.UseCase, cfg *config.HTTPConfig, logger zerolog.Logger) *httpDelivery.Handler {
	return httpDelivery.NewHandler(uc, cfg.PublishTimeout, logger.With().Str("component", "http-api").Logger())
}

func provideKafkaHandlers(uc *business.UseCase, logger zerolog.Logger) *kafkaDelivery.Handlers {
	return kafkaDelivery.NewHandlers(uc, logger.With().Str("component", "kafka-handlers").Logger())
}

// wireAndRegister resolves cyclic dependency and registers routes
func wireAndRegister(
	lc fx.Lifecycle,
	uc *business.UseCase,
	handlers *telegramDelivery.Handlers,
	tgRouter *telegramDelivery.Router,
	bot *telegram.Bot,
	httpRouter *httpDelivery.Router,
	srv *server.Server,
	logger zerolog.Logger,
) {
	// Handlers implements deps.Messenger interface
	// This resolves the cyclic dependency: UseCase -> Messenger <- Handlers -> UseCase
	uc.SetMessenger(handlers)

	tgRouter.RegisterRoutes(bot.Raw())
	httpRouter.RegisterRoutes(srv.Router)

	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			if err := tgRouter.RegisterCommands(ctx, bot.Raw()); err != nil {
				logger.Warn().Err(err).Msg("Failed to register bot commands")
			}
			return nil
		},
	})
}
