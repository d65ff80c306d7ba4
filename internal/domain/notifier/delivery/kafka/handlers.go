// Package kafka contains Kafka delivery handlers
package kafka

import (
	"context"
	"encoding/json"

	"github.com/rs/zerolog"

	"github.com/bysinka671-afk/notification-bot/internal/domain/notifier/consts"
	"github.com/bysinka671-afk/notification-bot/internal/domain/notifier/dto"
	pkgerrors "github.com/bysinka671-afk/notification-bot/pkg/errors"
)

type publisher interface {
	Publish(ctx context.Context, req dto.PublishRequest) (*dto.PublishResult, error)
}

// Handlers contains Kafka message handlers
type Handlers struct {
	uc     publisher
	logger zerolog.Logger
}

// NewHandlers creates new Kafka handlers
func NewHandlers(uc publisher, logger zerolog.Logger) *Handlers {
	return &Handlers{
		uc:     uc,
		logger: logger,
	}
}

// HandleNotificationRequest publishes a notification requested by another service.
// Malformed or invalid requests are logged and dropped. Infrastructure
// failures are returned for logging; the request is not replayed.
func (h *Handlers) HandleNotificationRequest(ctx context.Context, data []byte) error {
	var msg dto.NotificationRequestMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		h.logger.Error().Err(err).Str("data", string(data)).Msg("Failed to unmarshal notification request")
		return nil
	}

	h.logger.Info().
		Strs("departments", msg.Departments).
		Int("message_length", len(msg.Message)).
		Msg("Processing notification request")

	result, err := h.uc.Publish(ctx, dto.PublishRequest{
		Message:     msg.Message,
		Departments: msg.Departments,
		CreatedBy:   msg.CreatedBy,
		Source:      consts.SourceKafka,
	})
	if err != nil {
		if pkgerrors.IsValidationError(err) {
			h.logger.Warn().Err(err).Msg("Notification request rejected")
			return nil
		}
		h.logger.Error().Err(err).Msg("Failed to publish notification request")
		return err
	}

	h.logger.Info().
		Str("notification_id", result.Notification.ID).
		Int("sent", result.Sent).
		Int("failed", result.Failed).
		Msg("Notification request published")

	return nil
}
