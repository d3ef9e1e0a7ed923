package handler

import (
	"errors"
	"net/http"
	"time"

	. "taskapp/internal/adapter/http/helper"
	"taskapp/internal/core/domain"
	"taskapp/internal/core/model/request"
	"taskapp/internal/core/model/response"
	"taskapp/internal/core/port"
	"taskapp/internal/core/util"
	"taskapp/pkg/config"
	. "taskapp/pkg/tracing"

	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
)

type TaskHandler struct {
	svc    port.TaskService
	Logger *config.Logger
	now    func() time.Time
}

func NewTaskHandler(taskService port.TaskService, logger *config.Logger) *TaskHandler {
	if logger == nil {
		logger = config.NewNopLogger()
	}

	return &TaskHandler{
		svc:    taskService,
		Logger: logger,
		now:    time.Now,
	}
}

// WithClock sets the time used to derive isOverdue.
func (h *TaskHandler) WithClock(now func() time.Time) *TaskHandler {
	h.now = now
	return h
}

func (h *TaskHandler) span(c *gin.Context, operation string) trace.Span {
	ctx, span := CreateChildSpan(c.Request.Context(), "handler.task."+operation, []attribute.KeyValue{
		attribute.String("handler.operation", operation),
		attribute.String("handler.method", c.Request.Method),
		attribute.String("handler.path", c.FullPath()),
	})

	c.Request = c.Request.WithContext(ctx)

	return span
}

func bind[T any](c *gin.Context) (T, error) {
	params, err := util.BindJSON[T](c)

	if err == nil {
		return params, nil
	}

	var domainErr *domain.Error

	if errors.As(err, &domainErr) {
		return params, domainErr
	}

	return params, domain.ErrInvalidBody
}

func (h *TaskHandler) fail(c *gin.Context, span trace.Span, operation string, err error) {
	if domain.KindOf(err) == domain.KindInternal {
		AddSpanError(span, err)
		config.LogError(c.Request.Context(), h.Logger, err, "Task request failed",
			zap.String("operation", operation),
			zap.String("task_id", c.Param("id")))
	}

	AddHTTPAttributes(span, c.Request.Method, c.FullPath(), StatusFor(err))

	SendError(c, err)
}

func (h *TaskHandler) CreateTask(c *gin.Context) {
	span := h.span(c, "CreateTask")
	defer span.End()

	params, err := bind[request.CreateTaskRequest](c)

	if err != nil {
		h.fail(c, span, "create", err)
		return
	}

	task, err := h.svc.Create(c.Request.Context(), params)

	if err != nil {
		h.fail(c, span, "create", err)
		return
	}

	span.SetAttributes(attribute.String("task.id", task.ID.Hex()))

	SendSuccess(c, http.StatusCreated, response.NewTaskResponse(task, h.now()))
}

func (h *TaskHandler) GetTask(c *gin.Context) {
	span := h.span(c, "GetTask")
	defer span.End()

	task, err := h.svc.GetByID(c.Request.Context(), c.Param("id"))

	if err != nil {
		h.fail(c, span, "get", err)
		return
	}

	SendSuccess(c, http.StatusOK, response.NewTaskResponse(task, h.now()))
}

func (h *TaskHandler) ListTasks(c *gin.Context) {
	span := h.span(c, "ListTasks")
	defer span.End()

	var query request.ListTasksQuery

	if err := c.ShouldBindQuery(&query); err != nil {
		h.fail(c, span, "list", domain.ErrInvalidBody)
		return
	}

	span.SetAttributes(
		attribute.String("task.filter.status", query.Status),
		attribute.String("task.filter.search", query.Search),
	)

	tasks, err := h.svc.List(c.Request.Context(), query)

	if err != nil {
		h.fail(c, span, "list", err)
		return
	}

	span.SetAttributes(attribute.Int("task.count", len(tasks)))

	SendSuccess(c, http.StatusOK, response.NewTaskListResponse(tasks, h.now()))
}

func (h *TaskHandler) UpdateTask(c *gin.Context) {
	span := h.span(c, "UpdateTask")
	defer span.End()

	params, err := bind[request.UpdateTaskRequest](c)

	if err != nil {
		h.fail(c, span, "update", err)
		return
	}

	task, err := h.svc.Update(c.Request.Context(), c.Param("id"), params)

	if err != nil {
		h.fail(c, span, "update", err)
		return
	}

	SendSuccess(c, http.StatusOK, response.NewTaskResponse(task, h.now()))
}

func (h *TaskHandler) UpdateTaskStatus(c *gin.Context) {
	span := h.span(c, "UpdateTaskStatus")
	defer span.End()

	params, err := bind[request.UpdateStatusRequest](c)

	if err != nil {
		h.fail(c, span, "update_status", err)
		return
	}

	task, err := h.svc.UpdateStatus(c.Request.Context(), c.Param("id"), params)

	if err != nil {
		h.fail(c, span, "update_status", err)
		return
	}

	SendSuccess(c, http.StatusOK, response.NewTaskResponse(task, h.now()))
}

func (h *TaskHandler) DeleteTask(c *gin.Context) {
	span := h.span(c, "DeleteTask")
	defer span.End()

	if err := h.svc.Delete(c.Request.Context(), c.Param("id")); err != nil {
		h.fail(c, span, "delete", err)
		return
	}

	SendMessage(c, http.StatusOK, "Task deleted successfully.")
}
