// Package memory contains in-process repositories of the notifier domain
package memory

import (
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/bysinka671-afk/notification-bot/internal/domain/notifier/deps"
	"github.com/bysinka671-afk/notification-bot/internal/domain/notifier/entities"
)

type identityLock struct {
	mu   sync.Mutex
	refs int
}

// SessionStore keeps post compositions in memory; they do not survive a restart
type SessionStore struct {
	mu       sync.Mutex
	sessions map[int64]*entities.Session
	locks    map[int64]*identityLock
	now      func() time.Time
	logger   zerolog.Logger
}

// NewSessionStore creates an empty session store
func NewSessionStore(logger zerolog.Logger) *SessionStore {
	return &SessionStore{
		sessions: make(map[int64]*entities.Session),
		locks:    make(map[int64]*identityLock),
		now:      time.Now,
		logger:   logger.With().Str("component", "session_store").Logger(),
	}
}

// NewSessionStoreRepository exposes the store through the domain interface
func NewSessionStoreRepository(logger zerolog.Logger) deps.SessionStore {
	return NewSessionStore(logger)
}

// Get returns a copy of the session
func (s *SessionStore) Get(telegramID int64) (*entities.Session, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	session, ok := s.sessions[telegramID]
	if !ok {
		return nil, false
	}
	return session.Clone(), true
}

// Put stores a copy of the session and refreshes its TouchedAt
func (s *SessionStore) Put(session *entities.Session) {
	stored := session.Clone()
	stored.TouchedAt = s.now()

	s.mu.Lock()
	s.sessions[session.TelegramID] = stored
	s.mu.Unlock()

	s.logger.Debug().
		Int64("telegram_id", session.TelegramID).
		Str("step", string(session.Step)).
		Msg("session stored")
}

// Delete removes the session if present
func (s *SessionStore) Delete(telegramID int64) {
	s.mu.Lock()
	_, ok := s.sessions[telegramID]
	delete(s.sessions, telegramID)
	s.mu.Unlock()

	if ok {
		s.logger.Debug().Int64("telegram_id", telegramID).Msg("session deleted")
	}
}

// Lock blocks until no other event of the identity is in progress
func (s *SessionStore) Lock(telegramID int64) func() {
	s.mu.Lock()
	l, ok := s.locks[telegramID]
	if !ok {
		l = &identityLock{}
		s.locks[telegramID] = l
	}
	l.refs++
	s.mu.Unlock()

	l.mu.Lock()

	var once sync.Once
	return func() {
		once.Do(func() {
			l.mu.Unlock()

			s.mu.Lock()
			l.refs--
			if l.refs == 0 {
				delete(s.locks, telegramID)
			}
			s.mu.Unlock()
		})
	}
}

// Reap removes sessions untouched for longer than idle.
// Identities with an event in progress or waiting are skipped.
func (s *SessionStore) Reap(idle time.Duration) int {
	cutoff := s.now().Add(-idle)

	s.mu.Lock()
	defer s.mu.Unlock()

	removed := 0
	for id, session := range s.sessions {
		if _, busy := s.locks[id]; busy {
			continue
		}
		if session.TouchedAt.Before(cutoff) {
			delete(s.sessions, id)
			removed++
		}
	}

	if removed > 0 {
		s.logger.Info().Int("removed", removed).Msg("reaped idle sessions")
	}

	return removed
}

// Len returns the number of stored sessions
func (s *SessionStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.sessions)
}
