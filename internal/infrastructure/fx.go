// Package infrastructure contains infrastructure layer components
package infrastructure

import (
	"go.uber.org/fx"

	"github.com/bysinka671-afk/notification-bot/internal/infrastructure/database"
	"github.com/bysinka671-afk/notification-bot/internal/infrastructure/http"
	"github.com/bysinka671-afk/notification-bot/internal/infrastructure/logger"
	"github.com/bysinka671-afk/notification-bot/internal/infrastructure/metrics"
	"github.com/bysinka671-afk/notification-bot/internal/infrastructure/telegram"
)

// Module provides all infrastructure components for fx dependency injection
var Module = fx.Module("infrastructure",
	logger.Module,
	metrics.Module,
	database.Module,
	http.Module,
	telegram.Module,
)
