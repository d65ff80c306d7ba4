// Package domain contains all domain modules
package domain

import (
	"go.uber.org/fx"

	"github.com/bysinka671-afk/notification-bot/internal/domain/notifier"
)

// Module aggregates all domain modules for fx dependency injection
var Module = fx.Module("domain",
	notifier.Module,
)
