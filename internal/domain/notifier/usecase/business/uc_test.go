package business

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bysinka671-afk/notification-bot/internal/domain/notifier/consts"
	"github.com/bysinka671-afk/notification-bot/internal/domain/notifier/dto"
	"github.com/bysinka671-afk/notification-bot/internal/domain/notifier/entities"
	notifiererrors "github.com/bysinka671-afk/notification-bot/internal/domain/notifier/errors"
	pkgerrors "github.com/bysinka671-afk/notification-bot/pkg/errors"
)

func TestPublish_Validation(t *testing.T) {
	notUUID := "admin"

	tests := []struct {
		name string
		req  dto.PublishRequest
		want error
	}{
		{
			name: "empty departments",
			req:  dto.PublishRequest{Message: "hello", Departments: []string{}},
			want: notifiererrors.ErrEmptyDepartments,
		},
		{
			name: "blank message",
			req:  dto.PublishRequest{Message: "  \n ", Departments: []string{salesDep}},
			want: notifiererrors.ErrEmptyMessage,
		},
		{
			name: "message too long",
			req:  dto.PublishRequest{Message: strings.Repeat("a", consts.MaxMessageLength+1), Departments: []string{salesDep}},
			want: notifiererrors.ErrMessageTooLong,
		},
		{
			name: "unknown department",
			req:  dto.PublishRequest{Message: "hello", Departments: []string{salesDep, "Sales"}},
			want: notifiererrors.ErrInvalidDepartment,
		},
		{
			name: "creator is not a uuid",
			req:  dto.PublishRequest{Message: "hello", Departments: []string{salesDep}, CreatedBy: &notUUID},
			want: notifiererrors.ErrInvalidCreator,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t)
			f.users.add(10, salesDep)

			res, err := f.uc.Publish(context.Background(), tt.req)
			require.ErrorIs(t, err, tt.want)
			assert.True(t, pkgerrors.IsValidationError(err))
			assert.Nil(t, res)

			assert.Equal(t, 0, f.notifications.count())
			assert.Empty(t, f.sender.deliveries())
		})
	}
}

func TestPublish_DeduplicatesDepartments(t *testing.T) {
	f := newFixture(t)
	f.users.add(10, salesDep)
	f.users.add(20, mktDep)

	res, err := f.uc.Publish(context.Background(), dto.PublishRequest{
		Message:     "  release at 18:00  ",
		Departments: []string{mktDep, salesDep, mktDep},
		Source:      consts.SourceHTTP,
	})
	require.NoError(t, err)

	assert.Equal(t, "release at 18:00", res.Notification.Message)
	assert.Equal(t, []string{mktDep, salesDep}, []string(res.Notification.Departments))
	assert.Nil(t, res.Notification.CreatedBy)
	assert.Equal(t, 2, res.Sent)
	assert.Equal(t, 0, res.Failed)
	assert.Equal(t, map[int64]int{10: 1, 20: 1}, f.sender.deliveries())
}

func TestPublish_StorageFailureSkipsDispatch(t *testing.T) {
	f := newFixture(t)
	f.users.add(10, salesDep)
	f.notifications.err = errBoom

	_, err := f.uc.Publish(context.Background(), dto.PublishRequest{Message: "x", Departments: []string{salesDep}})
	require.ErrorIs(t, err, errBoom)
	assert.Empty(t, f.sender.deliveries())
}

func TestPublish_RecipientLookupFailure(t *testing.T) {
	f := newFixture(t)
	f.users.err = errBoom

	_, err := f.uc.Publish(context.Background(), dto.PublishRequest{Message: "x", Departments: []string{salesDep}})
	require.ErrorIs(t, err, errBoom)
	// the record was stored before dispatch
	assert.Equal(t, 1, f.notifications.count())
}

func TestStats_DirectoryOrderWithoutEmptyDepartments(t *testing.T) {
	f := newFixture(t)
	f.users.add(10, salesDep)
	f.users.add(11, salesDep)
	f.users.add(12, salesDep)

	stats, err := f.uc.Stats(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []entities.DepartmentStat{{Department: salesDep, Count: 3}}, stats)

	f.users.add(1, consts.ITDepartment)
	f.users.add(20, mktDep)

	stats, err = f.uc.Stats(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []entities.DepartmentStat{
		{Department: salesDep, Count: 3},
		{Department: mktDep, Count: 1},
		{Department: consts.ITDepartment, Count: 1},
	}, stats)
}

func TestStats_Error(t *testing.T) {
	f := newFixture(t)
	f.users.err = errBoom

	_, err := f.uc.Stats(context.Background())
	require.ErrorIs(t, err, errBoom)
}

func TestListNotifications(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	for _, msg := range []string{"first", "second", "third"} {
		_, err := f.uc.Publish(ctx, dto.PublishRequest{Message: msg, Departments: []string{salesDep}})
		require.NoError(t, err)
	}

	list, err := f.uc.ListNotifications(ctx, 2)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "third", list[0].Message)
	assert.Equal(t, "second", list[1].Message)

	for _, limit := range []int{0, -1, consts.MaxListLimit + 1} {
		_, err := f.uc.ListNotifications(ctx, limit)
		assert.ErrorIs(t, err, notifiererrors.ErrInvalidLimit)
	}
}
