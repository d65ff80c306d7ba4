// Package entities contains domain entities
package entities

import (
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"gorm.io/gorm"
)

// TelegramUser is a registered bot user
type TelegramUser struct {
	ID         string    `json:"id" gorm:"type:uuid;primaryKey"`
	TelegramID int64     `json:"telegramId" gorm:"column:telegram_id;uniqueIndex;not null"`
	Username   string    `json:"username" gorm:"column:username"`
	FirstName  string    `json:"firstName" gorm:"column:first_name"`
	LastName   string    `json:"lastName" gorm:"column:last_name"`
	Department *string   `json:"department" gorm:"column:department"`
	IsAdmin    bool      `json:"isAdmin" gorm:"column:is_admin;not null"`
	CreatedAt  time.Time `json:"createdAt" gorm:"column:created_at"`
}

// TableName overrides the table name
func (TelegramUser) TableName() string {
	return "telegram_users"
}

// BeforeCreate assigns the primary key
func (u *TelegramUser) BeforeCreate(_ *gorm.DB) error {
	if u.ID == "" {
		u.ID = uuid.NewString()
	}
	return nil
}

// HasDepartment reports whether onboarding is complete
func (u *TelegramUser) HasDepartment() bool {
	return u.Department != nil && *u.Department != ""
}

// Notification is an immutable record of a published broadcast
type Notification struct {
	ID          string         `json:"id" gorm:"type:uuid;primaryKey"`
	Message     string         `json:"message" gorm:"column:message;type:text;not null"`
	Departments pq.StringArray `json:"departments" gorm:"column:departments;type:text[];not null"`
	CreatedBy   *string        `json:"createdBy" gorm:"column:created_by;type:uuid"`
	CreatedAt   time.Time      `json:"createdAt" gorm:"column:created_at"`
}

// TableName overrides the table name
func (Notification) TableName() string {
	return "notifications"
}

// BeforeCreate assigns the primary key
func (n *Notification) BeforeCreate(_ *gorm.DB) error {
	if n.ID == "" {
		n.ID = uuid.NewString()
	}
	return nil
}

// DeliveryResult is the tally of one broadcast
type DeliveryResult struct {
	Sent   int `json:"sent"`
	Failed int `json:"failed"`
}

// Total returns the number of resolved recipients
func (r DeliveryResult) Total() int {
	return r.Sent + r.Failed
}

// DepartmentStat is the number of registered users in a department
type DepartmentStat struct {
	Department string `json:"department"`
	Count      int64  `json:"count"`
}
