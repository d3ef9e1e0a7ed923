package http

import (
	"time"

	"taskapp/internal/adapter/http/handler"
	"taskapp/internal/core/port"
	"taskapp/internal/core/service"
	"taskapp/pkg/config"
)

type Container struct {
	TaskRepo    port.TaskRepository
	TaskService port.TaskService
	TaskHandler *handler.TaskHandler
}

// NewContainer wires the task stack over any repository; main passes the
// MongoDB one, tests the in-memory one.
func NewContainer(repo port.TaskRepository, telemetry port.Telemetry, logger *config.Logger) *Container {
	taskSvc := service.NewTaskService(repo, telemetry)
	taskHandler := handler.NewTaskHandler(taskSvc, logger)

	return &Container{
		TaskRepo:    repo,
		TaskService: taskSvc,
		TaskHandler: taskHandler,
	}
}

// WithClock pins the time source of the service and handler.
func (c *Container) WithClock(now func() time.Time) *Container {
	if svc, ok := c.TaskService.(*service.TaskService); ok {
		svc.WithClock(now)
	}

	c.TaskHandler.WithClock(now)

	return c
}
