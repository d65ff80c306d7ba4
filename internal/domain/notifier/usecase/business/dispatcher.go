package business

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/time/rate"

	"github.com/bysinka671-afk/notification-bot/config"
	"github.com/bysinka671-afk/notification-bot/internal/domain/notifier/consts"
	"github.com/bysinka671-afk/notification-bot/internal/domain/notifier/deps"
	"github.com/bysinka671-afk/notification-bot/internal/domain/notifier/entities"
	"github.com/bysinka671-afk/notification-bot/internal/infrastructure/metrics"
)

// Dispatcher delivers one message to every user of the given departments
type Dispatcher struct {
	users       deps.UserRepository
	sender      deps.NotificationSender
	limiter     *rate.Limiter
	workers     int
	sendTimeout time.Duration
	metrics     *metrics.Metrics
	logger      zerolog.Logger
}

// NewDispatcher creates a new Dispatcher
func NewDispatcher(
	cfg *config.DispatchConfig,
	users deps.UserRepository,
	sender deps.NotificationSender,
	m *metrics.Metrics,
	logger zerolog.Logger,
) *Dispatcher {
	return &Dispatcher{
		users:       users,
		sender:      sender,
		limiter:     rate.NewLimiter(rate.Limit(cfg.RatePerSec), cfg.RatePerSec),
		workers:     cfg.Workers,
		sendTimeout: cfg.SendTimeout,
		metrics:     m,
		logger:      logger.With().Str("component", "dispatcher").Logger(),
	}
}

// FormatBroadcast renders the text recipients receive
func FormatBroadcast(message string) string {
	return consts.NotificationHeadline + "\n\n" + message
}

// Dispatch resolves recipients and sends them the message concurrently.
// Per-recipient failures are counted and logged, never returned; the only
// error is a failed recipient lookup. Sent+Failed always equals the number
// of resolved recipients.
//
// The caller's deadline bounds the lookup only. Every recipient gets an
// attempt bounded by the send timeout, however long the batch takes.
func (d *Dispatcher) Dispatch(ctx context.Context, message string, departments []string) (entities.DeliveryResult, error) {
	start := time.Now()

	recipients, err := d.resolveRecipients(ctx, departments)
	if err != nil {
		return entities.DeliveryResult{}, fmt.Errorf("resolve recipients: %w", err)
	}

	if len(recipients) == 0 {
		d.logger.Info().Strs("departments", departments).Msg("No recipients for broadcast")
		return entities.DeliveryResult{}, nil
	}

	sendCtx := context.WithoutCancel(ctx)

	text := FormatBroadcast(message)
	jobs := make(chan int64, len(recipients))
	for _, chatID := range recipients {
		jobs <- chatID
	}
	close(jobs)

	var sent, failed atomic.Int64
	var wg sync.WaitGroup

	workers := max(1, min(d.workers, len(recipients)))
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for chatID := range jobs {
				if err := d.sendOne(sendCtx, chatID, text); err != nil {
					failed.Add(1)
					d.logger.Warn().Err(err).Int64("telegram_id", chatID).Msg("Failed to deliver notification")
					continue
				}
				sent.Add(1)
			}
		}()
	}
	wg.Wait()

	result := entities.DeliveryResult{Sent: int(sent.Load()), Failed: int(failed.Load())}
	duration := time.Since(start)
	d.metrics.RecordDelivery(result.Sent, result.Failed, duration.Seconds())

	event := d.logger.Info()
	if result.Failed > 0 {
		event = d.logger.Warn()
	}
	event.
		Strs("departments", departments).
		Int("recipients", len(recipients)).
		Int("sent", result.Sent).
		Int("failed", result.Failed).
		Dur("duration", duration).
		Msg("Broadcast finished")

	return result, nil
}

// resolveRecipients returns unique chat ids of users in departments
func (d *Dispatcher) resolveRecipients(ctx context.Context, departments []string) ([]int64, error) {
	if len(departments) == 0 {
		return nil, nil
	}

	users, err := d.users.ListByDepartments(ctx, departments)
	if err != nil {
		return nil, err
	}

	seen := make(map[int64]struct{}, len(users))
	recipients := make([]int64, 0, len(users))
	for _, u := range users {
		if _, dup := seen[u.TelegramID]; dup {
			continue
		}
		seen[u.TelegramID] = struct{}{}
		recipients = append(recipients, u.TelegramID)
	}

	return recipients, nil
}

func (d *Dispatcher) sendOne(ctx context.Context, chatID int64, text string) error {
	if err := d.limiter.Wait(ctx); err != nil {
		return fmt.Errorf("rate limiter: %w", err)
	}

	sendCtx, cancel := context.WithTimeout(ctx, d.sendTimeout)
	defer cancel()

	return d.sender.SendNotification(sendCtx, chatID, text)
}
