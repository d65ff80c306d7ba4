package http

import (
	"github.com/fasthttp/router"
	"github.com/rs/zerolog"

	"github.com/bysinka671-afk/notification-bot/pkg/httputil"
)

// Router registers notifier HTTP routes
type Router struct {
	handler *Handler
	logger  zerolog.Logger
}

// NewRouter creates a new notifier router
func NewRouter(handler *Handler, logger zerolog.Logger) *Router {
	return &Router{
		handler: handler,
		logger:  logger,
	}
}

// RegisterRoutes registers notifier routes on the router
func (r *Router) RegisterRoutes(rt *router.Router) {
	rt.GET("/health", r.handler.Health)

	api := httputil.NewMiddlewareGroup(rt.Group("/api")).
		Use(httputil.Recover(r.logger), httputil.RequestLogger(r.logger))

	api.GET("/departments/stats", r.handler.DepartmentStats)
	api.POST("/notifications", r.handler.CreateNotification)
	api.GET("/notifications", r.handler.ListNotifications)

	r.logger.Info().Msg("Notifier HTTP routes registered")
}
