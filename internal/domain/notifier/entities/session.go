package entities

import "time"

// Step is the position of a session in the post composition flow
type Step string

const (
	StepAwaitingText         Step = "awaiting_text"
	StepAwaitingDepartments  Step = "awaiting_departments"
	StepAwaitingConfirmation Step = "awaiting_confirmation"
)

// Session is an in-progress post composition of one admin
type Session struct {
	TelegramID int64
	ChatID     int64
	Step       Step
	PostText   string
	Selected   DepartmentSet
	TouchedAt  time.Time
}

// NewSession starts a composition awaiting the post text
func NewSession(telegramID, chatID int64) *Session {
	return &Session{
		TelegramID: telegramID,
		ChatID:     chatID,
		Step:       StepAwaitingText,
		Selected:   NewDepartmentSet(),
	}
}

// Clone returns a deep copy
func (s *Session) Clone() *Session {
	c := *s
	if s.Selected != nil {
		c.Selected = s.Selected.Clone()
	} else {
		c.Selected = NewDepartmentSet()
	}
	return &c
}
