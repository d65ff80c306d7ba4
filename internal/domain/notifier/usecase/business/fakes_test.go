package business

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"

	"github.com/bysinka671-afk/notification-bot/config"
	"github.com/bysinka671-afk/notification-bot/internal/domain/notifier/consts"
	"github.com/bysinka671-afk/notification-bot/internal/domain/notifier/entities"
	notifiererrors "github.com/bysinka671-afk/notification-bot/internal/domain/notifier/errors"
	"github.com/bysinka671-afk/notification-bot/internal/domain/notifier/repository/memory"
	"github.com/bysinka671-afk/notification-bot/internal/infrastructure/metrics"
)

var errBoom = errors.New("boom")

// fakeUserRepository is an in-memory deps.UserRepository
type fakeUserRepository struct {
	mu        sync.Mutex
	users     map[int64]*entities.TelegramUser
	err       error
	duplicate bool
}

func newFakeUserRepository() *fakeUserRepository {
	return &fakeUserRepository{users: make(map[int64]*entities.TelegramUser)}
}

func (r *fakeUserRepository) add(telegramID int64, department string) *entities.TelegramUser {
	r.mu.Lock()
	defer r.mu.Unlock()

	d := department
	u := &entities.TelegramUser{
		ID:         uuid.NewString(),
		TelegramID: telegramID,
		Department: &d,
		IsAdmin:    consts.IsAdminDepartment(department),
	}
	r.users[telegramID] = u
	return u
}

func (r *fakeUserRepository) get(telegramID int64) *entities.TelegramUser {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.users[telegramID]
}

func (r *fakeUserRepository) GetByTelegramID(_ context.Context, telegramID int64) (*entities.TelegramUser, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.err != nil {
		return nil, r.err
	}
	u, ok := r.users[telegramID]
	if !ok {
		return nil, notifiererrors.ErrUserNotFound
	}
	c := *u
	return &c, nil
}

func (r *fakeUserRepository) Upsert(_ context.Context, user *entities.TelegramUser) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.err != nil {
		return r.err
	}
	if existing, ok := r.users[user.TelegramID]; ok {
		user.ID = existing.ID
	} else if user.ID == "" {
		user.ID = uuid.NewString()
	}
	c := *user
	r.users[user.TelegramID] = &c
	return nil
}

func (r *fakeUserRepository) ListByDepartments(_ context.Context, departments []string) ([]entities.TelegramUser, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.err != nil {
		return nil, r.err
	}
	wanted := entities.NewDepartmentSet(departments...)
	var out []entities.TelegramUser
	for _, u := range r.users {
		if u.HasDepartment() && wanted.Has(*u.Department) {
			out = append(out, *u)
			if r.duplicate {
				out = append(out, *u)
			}
		}
	}
	return out, nil
}

func (r *fakeUserRepository) CountByDepartment(_ context.Context) ([]entities.DepartmentStat, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.err != nil {
		return nil, r.err
	}
	counts := make(map[string]int64)
	for _, u := range r.users {
		if u.HasDepartment() {
			counts[*u.Department]++
		}
	}
	var out []entities.DepartmentStat
	for d, n := range counts {
		out = append(out, entities.DepartmentStat{Department: d, Count: n})
	}
	return out, nil
}

// fakeNotificationRepository records created notifications
type fakeNotificationRepository struct {
	mu      sync.Mutex
	created []*entities.Notification
	err     error
}

func (r *fakeNotificationRepository) Create(_ context.Context, n *entities.Notification) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.err != nil {
		return r.err
	}
	n.ID = uuid.NewString()
	n.CreatedAt = time.Now()
	r.created = append(r.created, n)
	return nil
}

func (r *fakeNotificationRepository) ListRecent(_ context.Context, limit int) ([]entities.Notification, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.err != nil {
		return nil, r.err
	}
	out := make([]entities.Notification, 0, limit)
	for i := len(r.created) - 1; i >= 0 && len(out) < limit; i-- {
		out = append(out, *r.created[i])
	}
	return out, nil
}

func (r *fakeNotificationRepository) count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.created)
}

// fakeSender records deliveries; SendFunc overrides the default success
type fakeSender struct {
	mu       sync.Mutex
	sent     map[int64]int
	texts    []string
	SendFunc func(ctx context.Context, chatID int64) error
}

func newFakeSender() *fakeSender {
	return &fakeSender{sent: make(map[int64]int)}
}

func (s *fakeSender) SendNotification(ctx context.Context, chatID int64, text string) error {
	if s.SendFunc != nil {
		if err := s.SendFunc(ctx, chatID); err != nil {
			return err
		}
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sent[chatID]++
	s.texts = append(s.texts, text)
	return nil
}

func (s *fakeSender) deliveries() map[int64]int {
	s.mu.Lock()
	defer s.mu.Unlock()
	c := make(map[int64]int, len(s.sent))
	for k, v := range s.sent {
		c[k] = v
	}
	return c
}

type sentMenu struct {
	ChatID    int64
	MessageID int
	Menu      entities.Menu
}

type callbackAnswer struct {
	ID    string
	Text  string
	Alert bool
}

// fakeMessenger records rendered surfaces
type fakeMessenger struct {
	mu             sync.Mutex
	sent           []sentMenu
	edited         []sentMenu
	buttons        []sentMenu
	answers        []callbackAnswer
	sendErr        error
	editErr        error
	editButtonsErr error
}

func (m *fakeMessenger) SendMenu(_ context.Context, chatID int64, menu entities.Menu) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.sendErr != nil {
		return m.sendErr
	}
	m.sent = append(m.sent, sentMenu{ChatID: chatID, Menu: menu})
	return nil
}

func (m *fakeMessenger) EditMenu(_ context.Context, chatID int64, messageID int, menu entities.Menu) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.editErr != nil {
		return m.editErr
	}
	m.edited = append(m.edited, sentMenu{ChatID: chatID, MessageID: messageID, Menu: menu})
	return nil
}

func (m *fakeMessenger) EditButtons(_ context.Context, chatID int64, messageID int, menu entities.Menu) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.editButtonsErr != nil {
		return m.editButtonsErr
	}
	m.buttons = append(m.buttons, sentMenu{ChatID: chatID, MessageID: messageID, Menu: menu})
	return nil
}

func (m *fakeMessenger) AnswerCallback(_ context.Context, callbackID, text string, alert bool) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.answers = append(m.answers, callbackAnswer{ID: callbackID, Text: text, Alert: alert})
	return nil
}

func (m *fakeMessenger) lastAnswer() callbackAnswer {
	m.mu.Lock()
	defer m.mu.Unlock()
	if len(m.answers) == 0 {
		return callbackAnswer{}
	}
	return m.answers[len(m.answers)-1]
}

func (m *fakeMessenger) lastSent() sentMenu {
	m.mu.Lock()
	defer m.mu.Unlock()
	if len(m.sent) == 0 {
		return sentMenu{}
	}
	return m.sent[len(m.sent)-1]
}

func (m *fakeMessenger) lastEdited() sentMenu {
	m.mu.Lock()
	defer m.mu.Unlock()
	if len(m.edited) == 0 {
		return sentMenu{}
	}
	return m.edited[len(m.edited)-1]
}

func (m *fakeMessenger) lastButtons() sentMenu {
	m.mu.Lock()
	defer m.mu.Unlock()
	if len(m.buttons) == 0 {
		return sentMenu{}
	}
	return m.buttons[len(m.buttons)-1]
}

type fixture struct {
	uc            *UseCase
	users         *fakeUserRepository
	notifications *fakeNotificationRepository
	sender        *fakeSender
	messenger     *fakeMessenger
	sessions      *memory.SessionStore
}

func testMetrics() *metrics.Metrics {
	return metrics.NewMetricsWithRegistry(prometheus.NewRegistry())
}

func testDispatchConfig() *config.DispatchConfig {
	return &config.DispatchConfig{Workers: 4, RatePerSec: 1000, SendTimeout: time.Second}
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	f := &fixture{
		users:         newFakeUserRepository(),
		notifications: &fakeNotificationRepository{},
		sender:        newFakeSender(),
		messenger:     &fakeMessenger{},
		sessions:      memory.NewSessionStore(zerolog.Nop()),
	}

	m := testMetrics()
	dispatcher := NewDispatcher(testDispatchConfig(), f.users, f.sender, m, zerolog.Nop())
	f.uc = NewUseCase(f.users, f.notifications, f.sessions, dispatcher, m, zerolog.Nop())
	f.uc.SetMessenger(f.messenger)

	return f
}
