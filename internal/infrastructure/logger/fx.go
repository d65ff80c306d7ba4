package logger

import (
	"github.com/rs/zerolog"
	"go.uber.org/fx"

	"github.com/bysinka671-afk/notification-bot/config"
)

// Module provides logger for fx dependency injection
var Module = fx.Module("logger",
	fx.Provide(provideLogger),
)

// provideLogger creates logger from config
func provideLogger(cfg *config.LoggingConfig, service *config.ServiceConfig) zerolog.Logger {
	return New(cfg.Level, service.Name)
}
