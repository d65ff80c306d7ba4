// Package http contains the admin HTTP API of the notifier domain
package http

import (
	"context"
	"encoding/json"
	"errors"
	"reflect"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"
	"github.com/valyala/fasthttp"

	"github.com/bysinka671-afk/notification-bot/internal/domain/notifier/consts"
	"github.com/bysinka671-afk/notification-bot/internal/domain/notifier/dto"
	"github.com/bysinka671-afk/notification-bot/internal/domain/notifier/entities"
	notifiererrors "github.com/bysinka671-afk/notification-bot/internal/domain/notifier/errors"
	pkgerrors "github.com/bysinka671-afk/notification-bot/pkg/errors"
	"github.com/bysinka671-afk/notification-bot/pkg/httputil"
)

const (
	readTimeout = 10 * time.Second

	invalidRequestData = "Invalid request data"
)

type notifierService interface {
	Publish(ctx context.Context, req dto.PublishRequest) (*dto.PublishResult, error)
	Stats(ctx context.Context) ([]entities.DepartmentStat, error)
	ListNotifications(ctx context.Context, limit int) ([]entities.Notification, error)
}

// Handler serves department statistics and notification endpoints
type Handler struct {
	svc            notifierService
	validate       *validator.Validate
	mapper         *pkgerrors.Mapper
	publishTimeout time.Duration
	logger         zerolog.Logger
}

// NewHandler creates a new notifier HTTP handler
func NewHandler(svc notifierService, publishTimeout time.Duration, logger zerolog.Logger) *Handler {
	return &Handler{
		svc:            svc,
		validate:       NewValidator(),
		mapper:         pkgerrors.NewMapper(logger),
		publishTimeout: publishTimeout,
		logger:         logger,
	}
}

// NewValidator returns a validator that reports json field names and knows
// the department directory
func NewValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())

	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
		if name == "-" {
			return ""
		}
		return name
	})

	_ = v.RegisterValidation("department", func(fl validator.FieldLevel) bool {
		return consts.IsValidDepartment(fl.Field().String())
	})

	return v
}

// DepartmentStats handles GET /api/departments/stats
func (h *Handler) DepartmentStats(ctx *fasthttp.RequestCtx) {
	reqCtx, cancel := context.WithTimeout(context.Background(), readTimeout)
	defer cancel()

	stats, err := h.svc.Stats(reqCtx)
	if err != nil {
		h.writeError(ctx, err)
		return
	}

	httputil.WriteOK(ctx, stats)
}

// CreateNotification handles POST /api/notifications
func (h *Handler) CreateNotification(ctx *fasthttp.RequestCtx) {
	var req dto.CreateNotificationRequest
	if err := json.Unmarshal(ctx.PostBody(), &req); err != nil {
		h.logger.Warn().Err(err).Msg("Failed to decode notification request")
		httputil.WriteErrorResponse(ctx, notifiererrors.ErrInvalidRequestBody.Error(), fasthttp.StatusBadRequest)
		return
	}

	if err := h.validate.Struct(req); err != nil {
		details := fieldErrors(err)
		h.logger.Warn().Err(err).Int("fields", len(details)).Msg("Notification request failed validation")
		httputil.WriteValidationError(ctx, invalidRequestData, details)
		return
	}

	// delivery outlives a dropped client connection; the timeout bounds
	// storage and recipient lookup, sends carry their own
	reqCtx, cancel := context.WithTimeout(context.Background(), h.publishTimeout)
	defer cancel()

	result, err := h.svc.Publish(reqCtx, dto.PublishRequest{
		Message:     req.Message,
		Departments: req.Departments,
		CreatedBy:   req.CreatedBy,
		Source:      consts.SourceHTTP,
	})
	if err != nil {
		h.writeError(ctx, err)
		return
	}

	httputil.WriteOK(ctx, result)
}

// ListNotifications handles GET /api/notifications?limit=N
func (h *Handler) ListNotifications(ctx *fasthttp.RequestCtx) {
	limit := consts.DefaultListLimit
	if raw := ctx.QueryArgs().Peek("limit"); len(raw) > 0 {
		n, err := strconv.Atoi(string(raw))
		if err != nil {
			h.writeError(ctx, notifiererrors.ErrInvalidLimit)
			return
		}
		limit = n
	}

	reqCtx, cancel := context.WithTimeout(context.Background(), readTimeout)
	defer cancel()

	list, err := h.svc.ListNotifications(reqCtx, limit)
	if err != nil {
		h.writeError(ctx, err)
		return
	}
	if list == nil {
		list = []entities.Notification{}
	}

	httputil.WriteOK(ctx, list)
}

// Health handles GET /health
func (h *Handler) Health(ctx *fasthttp.RequestCtx) {
	httputil.WriteOK(ctx, map[string]string{"status": "ok"})
}

func (h *Handler) writeError(ctx *fasthttp.RequestCtx, err error) {
	status, msg := h.mapper.MapErrorToHTTP(err)
	httputil.WriteErrorResponse(ctx, msg, status)
}

func fieldErrors(err error) []httputil.FieldError {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return nil
	}

	details := make([]httputil.FieldError, 0, len(verrs))
	for _, fe := range verrs {
		details = append(details, httputil.FieldError{
			Field:   fieldPath(fe.Namespace()),
			Rule:    fe.Tag(),
			Message: fieldMessage(fe),
		})
	}
	return details
}

// fieldPath drops the struct name from a namespace like
// "CreateNotificationRequest.departments[0]"
func fieldPath(namespace string) string {
	if _, rest, ok := strings.Cut(namespace, "."); ok {
		return rest
	}
	return namespace
}

func fieldMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "min":
		return "must contain at least " + fe.Param() + " item(s)"
	case "max":
		return "must be at most " + fe.Param() + " characters"
	case "department":
		return "unknown department"
	case "uuid":
		return "must be a UUID"
	}
	return "is invalid"
}
