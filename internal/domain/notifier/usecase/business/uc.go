// Package business contains business logic for the notifier domain
package business

import (
	"context"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/bysinka671-afk/notification-bot/internal/domain/notifier/consts"
	"github.com/bysinka671-afk/notification-bot/internal/domain/notifier/deps"
	"github.com/bysinka671-afk/notification-bot/internal/domain/notifier/dto"
	"github.com/bysinka671-afk/notification-bot/internal/domain/notifier/entities"
	notifiererrors "github.com/bysinka671-afk/notification-bot/internal/domain/notifier/errors"
	"github.com/bysinka671-afk/notification-bot/internal/infrastructure/metrics"
)

// UseCase contains business logic for notifier operations
type UseCase struct {
	users         deps.UserRepository
	notifications deps.NotificationRepository
	sessions      deps.SessionStore
	dispatcher    *Dispatcher
	messenger     deps.Messenger
	metrics       *metrics.Metrics
	logger        zerolog.Logger
}

// NewUseCase creates a new UseCase instance
// Note: messenger is not passed here to break cyclic dependency
// Use SetMessenger after creating Telegram handlers
func NewUseCase(
	users deps.UserRepository,
	notifications deps.NotificationRepository,
	sessions deps.SessionStore,
	dispatcher *Dispatcher,
	m *metrics.Metrics,
	logger zerolog.Logger,
) *UseCase {
	return &UseCase{
		users:         users,
		notifications: notifications,
		sessions:      sessions,
		dispatcher:    dispatcher,
		metrics:       m,
		logger:        logger.With().Str("component", "notifier").Logger(),
	}
}

// SetMessenger sets the Messenger after construction
// This is called by fx.Invoke to resolve cyclic dependency
func (uc *UseCase) SetMessenger(messenger deps.Messenger) {
	uc.messenger = messenger
}

// Publish validates the request, stores the notification and broadcasts it.
// The record is persisted before delivery starts, so it exists even when
// delivery is partial or the process stops mid-broadcast.
func (uc *UseCase) Publish(ctx context.Context, req dto.PublishRequest) (*dto.PublishResult, error) {
	message, departments, err := validatePublish(req)
	if err != nil {
		uc.metrics.RecordRequestError(req.Source)
		return nil, err
	}

	notification := &entities.Notification{
		Message:     message,
		Departments: departments,
		CreatedBy:   req.CreatedBy,
	}

	if err := uc.notifications.Create(ctx, notification); err != nil {
		uc.logger.Error().Err(err).Str("source", req.Source).Msg("Failed to store notification")
		return nil, fmt.Errorf("store notification: %w", err)
	}
	uc.metrics.RecordPublished(req.Source)

	uc.logger.Info().
		Str("notification_id", notification.ID).
		Str("source", req.Source).
		Strs("departments", departments).
		Msg("Notification stored, dispatching")

	result, err := uc.dispatcher.Dispatch(ctx, message, departments)
	if err != nil {
		uc.logger.Error().Err(err).Str("notification_id", notification.ID).Msg("Failed to dispatch notification")
		return nil, fmt.Errorf("dispatch notification: %w", err)
	}

	return &dto.PublishResult{
		Notification: notification,
		Sent:         result.Sent,
		Failed:       result.Failed,
	}, nil
}

// validatePublish returns the trimmed message and the departments
// de-duplicated in request order
func validatePublish(req dto.PublishRequest) (string, []string, error) {
	message := strings.TrimSpace(req.Message)
	if message == "" {
		return "", nil, notifiererrors.ErrEmptyMessage
	}
	if utf8.RuneCountInString(message) > consts.MaxMessageLength {
		return "", nil, notifiererrors.ErrMessageTooLong
	}

	if len(req.Departments) == 0 {
		return "", nil, notifiererrors.ErrEmptyDepartments
	}

	seen := make(map[string]struct{}, len(req.Departments))
	departments := make([]string, 0, len(req.Departments))
	for _, d := range req.Departments {
		if !consts.IsValidDepartment(d) {
			return "", nil, fmt.Errorf("%w: %q", notifiererrors.ErrInvalidDepartment, d)
		}
		if _, dup := seen[d]; dup {
			continue
		}
		seen[d] = struct{}{}
		departments = append(departments, d)
	}

	if req.CreatedBy != nil {
		if _, err := uuid.Parse(*req.CreatedBy); err != nil {
			return "", nil, notifiererrors.ErrInvalidCreator
		}
	}

	return message, departments, nil
}

// Stats returns user counts of departments with at least one user, in directory order
func (uc *UseCase) Stats(ctx context.Context) ([]entities.DepartmentStat, error) {
	counts, err := uc.users.CountByDepartment(ctx)
	if err != nil {
		return nil, fmt.Errorf("count users: %w", err)
	}

	byDepartment := make(map[string]int64, len(counts))
	for _, c := range counts {
		byDepartment[c.Department] += c.Count
	}

	stats := make([]entities.DepartmentStat, 0, len(consts.Departments))
	for _, d := range consts.Departments {
		if n := byDepartment[d]; n > 0 {
			stats = append(stats, entities.DepartmentStat{Department: d, Count: n})
		}
	}

	return stats, nil
}

// ListNotifications returns the newest notifications first
func (uc *UseCase) ListNotifications(ctx context.Context, limit int) ([]entities.Notification, error) {
	if limit < 1 || limit > consts.MaxListLimit {
		return nil, notifiererrors.ErrInvalidLimit
	}

	list, err := uc.notifications.ListRecent(ctx, limit)
	if err != nil {
		return nil, fmt.Errorf("list notifications: %w", err)
	}

	return list, nil
}
