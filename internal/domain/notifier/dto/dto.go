// Package dto contains data transfer objects for the notifier domain
package dto

import "github.com/bysinka671-afk/notification-bot/internal/domain/notifier/entities"

// Sender identifies the Telegram user behind an inbound event
type Sender struct {
	TelegramID int64
	ChatID     int64
	Username   string
	FirstName  string
	LastName   string
}

// StartEvent is a /start command
type StartEvent struct {
	Sender
}

// TextEvent is a free-text, non-command message
type TextEvent struct {
	Sender
	Text string
}

// CallbackEvent is a button press
type CallbackEvent struct {
	Sender
	CallbackID string
	MessageID  int
	Data       string
}

// PublishRequest is a notification to persist and broadcast.
// Source labels the caller for metrics and logs.
type PublishRequest struct {
	Message     string
	Departments []string
	CreatedBy   *string
	Source      string
}

// PublishResult is the stored record with its delivery tally
type PublishResult struct {
	Notification *entities.Notification `json:"notification"`
	Sent         int                    `json:"sent"`
	Failed       int                    `json:"failed"`
}

// CreateNotificationRequest is the POST /api/notifications body
type CreateNotificationRequest struct {
	Message     string   `json:"message" validate:"required,max=4000"`
	Departments []string `json:"departments" validate:"required,min=1,dive,department"`
	CreatedBy   *string  `json:"createdBy,omitempty" validate:"omitempty,uuid"`
}

// NotificationRequestMessage is the Kafka notification request payload
type NotificationRequestMessage struct {
	Message     string   `json:"message"`
	Departments []string `json:"departments"`
	CreatedBy   *string  `json:"createdBy,omitempty"`
}
