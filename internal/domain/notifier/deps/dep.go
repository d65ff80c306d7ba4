// Package deps contains interface definitions for the notifier domain dependencies
package deps

import (
	"context"
	"time"

	"github.com/bysinka671-afk/notification-bot/internal/domain/notifier/entities"
)

// UserRepository defines interface for bot user data access
type UserRepository interface {
	// GetByTelegramID returns the user or ErrUserNotFound
	GetByTelegramID(ctx context.Context, telegramID int64) (*entities.TelegramUser, error)

	// Upsert creates the user or refreshes profile, department and admin flag
	Upsert(ctx context.Context, user *entities.TelegramUser) error

	// ListByDepartments returns all users assigned to any of the departments
	ListByDepartments(ctx context.Context, departments []string) ([]entities.TelegramUser, error)

	// CountByDepartment returns registered user counts grouped by department
	CountByDepartment(ctx context.Context) ([]entities.DepartmentStat, error)
}

// NotificationRepository defines interface for the notification log
type NotificationRepository interface {
	// Create stores a notification
	Create(ctx context.Context, notification *entities.Notification) error

	// ListRecent returns up to limit notifications, newest first
	ListRecent(ctx context.Context, limit int) ([]entities.Notification, error)
}

// SessionStore holds post compositions keyed by Telegram user id.
// Get returns a copy; callers mutate it and Put it back while holding Lock.
type SessionStore interface {
	Get(telegramID int64) (*entities.Session, bool)
	Put(session *entities.Session)
	Delete(telegramID int64)

	// Lock serializes events of one identity; call the returned func to release
	Lock(telegramID int64) (unlock func())

	// Reap removes unlocked sessions idle for longer than idle and returns their number
	Reap(idle time.Duration) int

	Len() int
}

// NotificationSender delivers one broadcast message to one chat
type NotificationSender interface {
	SendNotification(ctx context.Context, chatID int64, text string) error
}

// Messenger renders conversation surfaces in Telegram.
// This interface is used to break the cyclic dependency between UseCase and Telegram handlers.
type Messenger interface {
	// SendMenu sends a new message with optional buttons
	SendMenu(ctx context.Context, chatID int64, menu entities.Menu) error

	// EditMenu replaces text and buttons of a sent message
	EditMenu(ctx context.Context, chatID int64, messageID int, menu entities.Menu) error

	// EditButtons replaces only the buttons of a sent message
	EditButtons(ctx context.Context, chatID int64, messageID int, menu entities.Menu) error

	// AnswerCallback acknowledges a button press, optionally as an alert
	AnswerCallback(ctx context.Context, callbackID, text string, alert bool) error
}
