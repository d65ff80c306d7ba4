// Package http provides the HTTP server for fx DI
package http

import (
	"context"

	"github.com/rs/zerolog"
	"go.uber.org/fx"

	"github.com/bysinka671-afk/notification-bot/config"
	"github.com/bysinka671-afk/notification-bot/internal/infrastructure/http/server"
)

// Module provides HTTP server for fx DI
var Module = fx.Module("http",
	fx.Provide(NewServerFx),
)

// NewServerFx creates HTTP server with lifecycle hooks for fx DI
func NewServerFx(
	lc fx.Lifecycle,
	httpCfg *config.HTTPConfig,
	serviceCfg *config.ServiceConfig,
	logger zerolog.Logger,
) *server.Server {
	// leave headroom over the publish deadline for writing the response
	writeTimeout := httpCfg.PublishTimeout + httpCfg.PublishTimeout/10
	srv := server.NewServer(httpCfg.Port, serviceCfg.Name, writeTimeout, logger.With().Str("component", "http").Logger())

	srv.RegisterMetrics()

	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			return srv.Start()
		},
		OnStop: func(ctx context.Context) error {
			return srv.Shutdown(ctx)
		},
	})

	return srv
}
