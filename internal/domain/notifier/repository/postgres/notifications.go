package postgres

import (
	"context"

	"gorm.io/gorm"

	"github.com/bysinka671-afk/notification-bot/internal/domain/notifier/deps"
	"github.com/bysinka671-afk/notification-bot/internal/domain/notifier/entities"
)

// NotificationRepository is the append-only notification log
type NotificationRepository struct {
	db *gorm.DB
}

// NewNotificationRepository creates a new notification repository
func NewNotificationRepository(db *gorm.DB) deps.NotificationRepository {
	return &NotificationRepository{db: db}
}

func (r *NotificationRepository) Create(ctx context.Context, notification *entities.Notification) error {
	if result := r.db.WithContext(ctx).Create(notification); result.Error != nil {
		return dbError(result.Error)
	}
	return nil
}

func (r *NotificationRepository) ListRecent(ctx context.Context, limit int) ([]entities.Notification, error) {
	notifications := make([]entities.Notification, 0)
	result := r.db.WithContext(ctx).
		Order("created_at DESC").
		Limit(limit).
		Find(&notifications)

	if result.Error != nil {
		return nil, dbError(result.Error)
	}

	return notifications, nil
}
