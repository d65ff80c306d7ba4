// Package postgres contains gorm repositories of the notifier domain
package postgres

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/bysinka671-afk/notification-bot/internal/domain/notifier/deps"
	"github.com/bysinka671-afk/notification-bot/internal/domain/notifier/entities"
	notifiererrors "github.com/bysinka671-afk/notification-bot/internal/domain/notifier/errors"
)

// UserRepository stores bot users in telegram_users
type UserRepository struct {
	db *gorm.DB
}

// NewUserRepository creates a new user repository
func NewUserRepository(db *gorm.DB) deps.UserRepository {
	return &UserRepository{db: db}
}

func (r *UserRepository) GetByTelegramID(ctx context.Context, telegramID int64) (*entities.TelegramUser, error) {
	var user entities.TelegramUser
	result := r.db.WithContext(ctx).
		Where("telegram_id = ?", telegramID).
		First(&user)

	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, notifiererrors.ErrUserNotFound
		}
		return nil, dbError(result.Error)
	}

	return &user, nil
}

// Upsert inserts the user or, on telegram_id conflict, refreshes the
// profile fields, department and admin flag in one statement
func (r *UserRepository) Upsert(ctx context.Context, user *entities.TelegramUser) error {
	result := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "telegram_id"}},
			DoUpdates: clause.AssignmentColumns([]string{"username", "first_name", "last_name", "department", "is_admin"}),
		}).
		Create(user)

	if result.Error != nil {
		return dbError(result.Error)
	}
	return nil
}

func (r *UserRepository) ListByDepartments(ctx context.Context, departments []string) ([]entities.TelegramUser, error) {
	if len(departments) == 0 {
		return nil, nil
	}

	var users []entities.TelegramUser
	result := r.db.WithContext(ctx).
		Where("department IN ?", departments).
		Find(&users)

	if result.Error != nil {
		return nil, dbError(result.Error)
	}

	return users, nil
}

func (r *UserRepository) CountByDepartment(ctx context.Context) ([]entities.DepartmentStat, error) {
	var stats []entities.DepartmentStat
	result := r.db.WithContext(ctx).
		Model(&entities.TelegramUser{}).
		Select("department, COUNT(*) AS count").
		Where("department IS NOT NULL").
		Group("department").
		Scan(&stats)

	if result.Error != nil {
		return nil, dbError(result.Error)
	}

	return stats, nil
}

func dbError(err error) error {
	return fmt.Errorf("%w: %v", notifiererrors.ErrDatabaseOperation, err)
}
