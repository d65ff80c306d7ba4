// Package workers contains background workers for the notifier domain
package workers

import (
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog"

	"github.com/bysinka671-afk/notification-bot/config"
	"github.com/bysinka671-afk/notification-bot/internal/domain/notifier/deps"
	"github.com/bysinka671-afk/notification-bot/internal/infrastructure/metrics"
)

// SessionReaper drops post compositions abandoned for longer than the session TTL
type SessionReaper struct {
	sessions deps.SessionStore
	ttl      time.Duration
	schedule string
	c        *cron.Cron
	metrics  *metrics.Metrics
	logger   zerolog.Logger
}

// NewSessionReaper creates a reaper running on cfg.ReapSchedule
func NewSessionReaper(cfg *config.SessionConfig, sessions deps.SessionStore, m *metrics.Metrics, logger zerolog.Logger) (*SessionReaper, error) {
	parser := cron.NewParser(cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow | cron.Descriptor)
	if _, err := parser.Parse(cfg.ReapSchedule); err != nil {
		return nil, fmt.Errorf("invalid session reap schedule %q: %w", cfg.ReapSchedule, err)
	}

	r := &SessionReaper{
		sessions: sessions,
		ttl:      cfg.TTL,
		schedule: cfg.ReapSchedule,
		c:        cron.New(cron.WithParser(parser)),
		metrics:  m,
		logger:   logger,
	}

	if _, err := r.c.AddFunc(cfg.ReapSchedule, func() { r.RunOnce() }); err != nil {
		return nil, fmt.Errorf("schedule session reaper: %w", err)
	}

	return r, nil
}

// RunOnce reaps idle sessions and returns how many were removed
func (r *SessionReaper) RunOnce() int {
	n := r.sessions.Reap(r.ttl)

	r.metrics.RecordSessionsReaped(n)
	r.metrics.UpdateActiveSessions(r.sessions.Len())

	if n > 0 {
		r.logger.Info().Int("reaped", n).Dur("ttl", r.ttl).Msg("Expired sessions removed")
	}

	return n
}

// Start starts the schedule
func (r *SessionReaper) Start() {
	r.logger.Info().Str("schedule", r.schedule).Dur("ttl", r.ttl).Msg("Starting session reaper...")
	r.c.Start()
}

// Stop stops the schedule and waits for a running pass
func (r *SessionReaper) Stop() error {
	<-r.c.Stop().Done()
	r.logger.Info().Msg("Session reaper stopped")
	return nil
}
