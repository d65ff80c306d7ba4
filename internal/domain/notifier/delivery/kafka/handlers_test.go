package kafka

import (
	"context"
	"errors"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bysinka671-afk/notification-bot/internal/domain/notifier/consts"
	"github.com/bysinka671-afk/notification-bot/internal/domain/notifier/dto"
	"github.com/bysinka671-afk/notification-bot/internal/domain/notifier/entities"
	notifiererrors "github.com/bysinka671-afk/notification-bot/internal/domain/notifier/errors"
)

type fakePublisher struct {
	calls []dto.PublishRequest
	err   error
}

func (p *fakePublisher) Publish(_ context.Context, req dto.PublishRequest) (*dto.PublishResult, error) {
	p.calls = append(p.calls, req)
	if p.err != nil {
		return nil, p.err
	}
	return &dto.PublishResult{Notification: &entities.Notification{ID: "n-1"}, Sent: 2}, nil
}

func TestHandleNotificationRequest(t *testing.T) {
	p := &fakePublisher{}
	h := NewHandlers(p, zerolog.Nop())

	err := h.HandleNotificationRequest(context.Background(), []byte(`{"message":"Обновление CRM","departments":["КАД"]}`))
	require.NoError(t, err)

	require.Len(t, p.calls, 1)
	assert.Equal(t, "Обновление CRM", p.calls[0].Message)
	assert.Equal(t, []string{"КАД"}, p.calls[0].Departments)
	assert.Nil(t, p.calls[0].CreatedBy)
	assert.Equal(t, consts.SourceKafka, p.calls[0].Source)
}

func TestHandleNotificationRequest_MalformedSkipped(t *testing.T) {
	p := &fakePublisher{}
	h := NewHandlers(p, zerolog.Nop())

	require.NoError(t, h.HandleNotificationRequest(context.Background(), []byte(`not json`)))
	assert.Empty(t, p.calls)
}

func TestHandleNotificationRequest_InvalidDropped(t *testing.T) {
	p := &fakePublisher{err: notifiererrors.ErrEmptyDepartments}
	h := NewHandlers(p, zerolog.Nop())

	assert.NoError(t, h.HandleNotificationRequest(context.Background(), []byte(`{"message":"x","departments":[]}`)))
}

func TestHandleNotificationRequest_InfrastructureErrorReturned(t *testing.T) {
	boom := errors.New("db down")
	p := &fakePublisher{err: boom}
	h := NewHandlers(p, zerolog.Nop())

	err := h.HandleNotificationRequest(context.Background(), []byte(`{"message":"x","departments":["КАД"]}`))
	assert.ErrorIs(t, err, boom)
}
