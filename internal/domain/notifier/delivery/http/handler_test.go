package http

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/fasthttp/router"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/valyala/fasthttp"

	"github.com/bysinka671-afk/notification-bot/internal/domain/notifier/consts"
	"github.com/bysinka671-afk/notification-bot/internal/domain/notifier/dto"
	"github.com/bysinka671-afk/notification-bot/internal/domain/notifier/entities"
	notifiererrors "github.com/bysinka671-afk/notification-bot/internal/domain/notifier/errors"
	"github.com/bysinka671-afk/notification-bot/pkg/httputil"
)

const sales = "Департамент продаж"

type fakeService struct {
	publishCalls []dto.PublishRequest
	publishErr   error
	stats        []entities.DepartmentStat
	statsErr     error
	limits       []int
	list         []entities.Notification
	listErr      error
	deadline     bool
}

func (s *fakeService) Publish(ctx context.Context, req dto.PublishRequest) (*dto.PublishResult, error) {
	s.publishCalls = append(s.publishCalls, req)
	_, s.deadline = ctx.Deadline()
	if s.publishErr != nil {
		return nil, s.publishErr
	}
	return &dto.PublishResult{
		Notification: &entities.Notification{ID: "n-1", Message: req.Message, Departments: req.Departments},
		Sent:         3,
		Failed:       1,
	}, nil
}

func (s *fakeService) Stats(_ context.Context) ([]entities.DepartmentStat, error) {
	return s.stats, s.statsErr
}

func (s *fakeService) ListNotifications(_ context.Context, limit int) ([]entities.Notification, error) {
	s.limits = append(s.limits, limit)
	if limit < 1 || limit > consts.MaxListLimit {
		return nil, notifiererrors.ErrInvalidLimit
	}
	return s.list, s.listErr
}

func serve(t *testing.T, svc *fakeService, method, uri, body string) *fasthttp.RequestCtx {
	t.Helper()

	rt := router.New()
	NewRouter(NewHandler(svc, time.Minute, zerolog.Nop()), zerolog.Nop()).RegisterRoutes(rt)

	ctx := &fasthttp.RequestCtx{}
	ctx.Request.Header.SetMethod(method)
	ctx.Request.SetRequestURI(uri)
	if body != "" {
		ctx.Request.Header.SetContentType("application/json")
		ctx.Request.SetBodyString(body)
	}

	rt.Handler(ctx)
	return ctx
}

func decodeError(t *testing.T, ctx *fasthttp.RequestCtx) httputil.ErrorResponse {
	t.Helper()
	var resp httputil.ErrorResponse
	require.NoError(t, json.Unmarshal(ctx.Response.Body(), &resp))
	return resp
}

func TestDepartmentStats(t *testing.T) {
	svc := &fakeService{stats: []entities.DepartmentStat{{Department: sales, Count: 3}}}

	ctx := serve(t, svc, fasthttp.MethodGet, "/api/departments/stats", "")
	require.Equal(t, fasthttp.StatusOK, ctx.Response.StatusCode())
	assert.JSONEq(t, fmt.Sprintf(`[{"department":%q,"count":3}]`, sales), string(ctx.Response.Body()))
}

func TestDepartmentStats_DatabaseErrorHidden(t *testing.T) {
	svc := &fakeService{statsErr: fmt.Errorf("count users: %w", notifiererrors.ErrDatabaseOperation)}

	ctx := serve(t, svc, fasthttp.MethodGet, "/api/departments/stats", "")
	assert.Equal(t, fasthttp.StatusInternalServerError, ctx.Response.StatusCode())
	assert.Equal(t, "internal server error", decodeError(t, ctx).Error)
}

func TestCreateNotification_EmptyDepartmentsRejected(t *testing.T) {
	svc := &fakeService{}

	ctx := serve(t, svc, fasthttp.MethodPost, "/api/notifications", `{"message":"hello","departments":[]}`)
	require.Equal(t, fasthttp.StatusBadRequest, ctx.Response.StatusCode())
	assert.Empty(t, svc.publishCalls)

	resp := decodeError(t, ctx)
	assert.Equal(t, invalidRequestData, resp.Error)
	require.Len(t, resp.Details, 1)
	assert.Equal(t, "departments", resp.Details[0].Field)
	assert.Equal(t, "min", resp.Details[0].Rule)
}

func TestCreateNotification_FieldDetails(t *testing.T) {
	svc := &fakeService{}

	body := fmt.Sprintf(`{"message":"","departments":[%q,"Sales"],"createdBy":"admin"}`, sales)
	ctx := serve(t, svc, fasthttp.MethodPost, "/api/notifications", body)
	require.Equal(t, fasthttp.StatusBadRequest, ctx.Response.StatusCode())
	assert.Empty(t, svc.publishCalls)

	rules := map[string]string{}
	for _, d := range decodeError(t, ctx).Details {
		rules[d.Field] = d.Rule
	}
	assert.Equal(t, map[string]string{
		"message":        "required",
		"departments[1]": "department",
		"createdBy":      "uuid",
	}, rules)
}

func TestCreateNotification_MalformedBody(t *testing.T) {
	svc := &fakeService{}

	ctx := serve(t, svc, fasthttp.MethodPost, "/api/notifications", `{"message":`)
	assert.Equal(t, fasthttp.StatusBadRequest, ctx.Response.StatusCode())
	assert.Equal(t, notifiererrors.ErrInvalidRequestBody.Error(), decodeError(t, ctx).Error)
	assert.Empty(t, svc.publishCalls)
}

func TestCreateNotification_Success(t *testing.T) {
	svc := &fakeService{}

	body := fmt.Sprintf(`{"message":"Server maintenance","departments":[%q],"createdBy":"4d3c1f7e-2c1a-4a0b-9c55-6f2b7f3e9a10"}`, sales)
	ctx := serve(t, svc, fasthttp.MethodPost, "/api/notifications", body)
	require.Equal(t, fasthttp.StatusOK, ctx.Response.StatusCode())

	require.Len(t, svc.publishCalls, 1)
	req := svc.publishCalls[0]
	assert.Equal(t, consts.SourceHTTP, req.Source)
	require.NotNil(t, req.CreatedBy)
	assert.Equal(t, "4d3c1f7e-2c1a-4a0b-9c55-6f2b7f3e9a10", *req.CreatedBy)
	assert.True(t, svc.deadline)

	var resp dto.PublishResult
	require.NoError(t, json.Unmarshal(ctx.Response.Body(), &resp))
	assert.Equal(t, 3, resp.Sent)
	assert.Equal(t, 1, resp.Failed)
	assert.Equal(t, "Server maintenance", resp.Notification.Message)
}

func TestCreateNotification_UsecaseValidationError(t *testing.T) {
	svc := &fakeService{publishErr: notifiererrors.ErrEmptyMessage}

	body := fmt.Sprintf(`{"message":"   ","departments":[%q]}`, sales)
	ctx := serve(t, svc, fasthttp.MethodPost, "/api/notifications", body)
	assert.Equal(t, fasthttp.StatusBadRequest, ctx.Response.StatusCode())
	assert.Equal(t, notifiererrors.ErrEmptyMessage.Error(), decodeError(t, ctx).Error)
}

func TestListNotifications_Limit(t *testing.T) {
	svc := &fakeService{}

	ctx := serve(t, svc, fasthttp.MethodGet, "/api/notifications", "")
	require.Equal(t, fasthttp.StatusOK, ctx.Response.StatusCode())
	assert.JSONEq(t, `[]`, string(ctx.Response.Body()))

	ctx = serve(t, svc, fasthttp.MethodGet, "/api/notifications?limit=10", "")
	require.Equal(t, fasthttp.StatusOK, ctx.Response.StatusCode())
	assert.Equal(t, []int{consts.DefaultListLimit, 10}, svc.limits)

	for _, q := range []string{"abc", "0", "501"} {
		ctx = serve(t, svc, fasthttp.MethodGet, "/api/notifications?limit="+q, "")
		assert.Equal(t, fasthttp.StatusBadRequest, ctx.Response.StatusCode(), q)
	}
}

func TestListNotifications_Error(t *testing.T) {
	svc := &fakeService{listErr: errors.New("connection reset")}

	ctx := serve(t, svc, fasthttp.MethodGet, "/api/notifications", "")
	assert.Equal(t, fasthttp.StatusInternalServerError, ctx.Response.StatusCode())
}

func TestHealth(t *testing.T) {
	ctx := serve(t, &fakeService{}, fasthttp.MethodGet, "/health", "")
	assert.Equal(t, fasthttp.StatusOK, ctx.Response.StatusCode())
}
