// Package app contains application bootstrap
package app

import (
	"go.uber.org/fx"

	"github.com/bysinka671-afk/notification-bot/config"
	"github.com/bysinka671-afk/notification-bot/internal/domain"
	"github.com/bysinka671-afk/notification-bot/internal/infrastructure"
)

// CreateApp creates fx application with all modules
func CreateApp() fx.Option {
	return fx.Options(
		// Configuration
		fx.Provide(config.Out),

		// Infrastructure (logger, metrics, database, http server, telegram bot)
		infrastructure.Module,

		// Domain (notifier business logic)
		domain.Module,
	)
}
