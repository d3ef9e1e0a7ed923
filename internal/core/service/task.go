package service

import (
	"context"
	"time"

	"taskapp/internal/core/domain"
	"taskapp/internal/core/model/request"
	"taskapp/internal/core/port"
	tel "taskapp/internal/core/telemetry"
)

const serviceName = "task"

type TaskService struct {
	repo      port.TaskRepository
	telemetry port.Telemetry
	now       func() time.Time
}

func NewTaskService(repo port.TaskRepository, telemetry port.Telemetry) *TaskService {
	if telemetry == nil {
		telemetry = tel.NewNoOpProbe()
	}

	return &TaskService{
		repo:      repo,
		telemetry: telemetry,
		now:       time.Now,
	}
}

// WithClock replaces the time source used for timestamps.
func (ts *TaskService) WithClock(now func() time.Time) *TaskService {
	ts.now = now
	return ts
}

// timestamp is UTC at the millisecond precision MongoDB stores.
func (ts *TaskService) timestamp() time.Time {
	return ts.now().UTC().Truncate(time.Millisecond)
}

func (ts *TaskService) observe(ctx context.Context, operation string, attrs map[string]interface{}) (context.Context, func(error)) {
	ctx, span := ts.telemetry.StartServiceSpan(ctx, serviceName, operation, attrs)
	start := time.Now()

	return ctx, func(err error) {
		ts.telemetry.RecordServiceOperation(ctx, serviceName, operation, time.Since(start), err)
		span.End()
	}
}

func (ts *TaskService) Create(ctx context.Context, req request.CreateTaskRequest) (task domain.Task, err error) {
	ctx, done := ts.observe(ctx, "create", nil)
	defer func() { done(err) }()

	var title, description string

	if req.Title != nil {
		title = *req.Title
	}

	if err = domain.ValidateTitle(title); err != nil {
		return domain.Task{}, err
	}

	title = domain.NormalizeTitle(title)

	if req.Description != nil {
		description = *req.Description

		if err = domain.ValidateDescription(description); err != nil {
			return domain.Task{}, err
		}
	}

	status, err := domain.StatusOrDefault(req.Status)

	if err != nil {
		return domain.Task{}, err
	}

	if err = ts.ensureUnique(ctx, title, status, domain.Task{}); err != nil {
		return domain.Task{}, err
	}

	task = domain.Task{
		Title:       title,
		Description: description,
		Deadline:    req.Deadline.Ptr(),
		Status:      status,
	}
	task.Normalize()
	task.Touch(ts.timestamp())

	task, err = ts.repo.Create(ctx, task)

	if err != nil {
		return domain.Task{}, err
	}

	ts.telemetry.RecordBusinessEvent(ctx, "task_created", "task", task.ID.Hex(), map[string]interface{}{
		"status": task.Status.String(),
	})

	return task, nil
}

func (ts *TaskService) GetByID(ctx context.Context, id string) (task domain.Task, err error) {
	ctx, done := ts.observe(ctx, "get", map[string]interface{}{"task.id": id})
	defer func() { done(err) }()

	oid, err := domain.ParseID(id)

	if err != nil {
		return domain.Task{}, err
	}

	return ts.repo.FindByID(ctx, oid)
}

// List ignores a status filter that is not one of the known values.
func (ts *TaskService) List(ctx context.Context, query request.ListTasksQuery) (tasks []domain.Task, err error) {
	ctx, done := ts.observe(ctx, "list", map[string]interface{}{
		"filter.status": query.Status,
		"filter.search": query.Search,
	})
	defer func() { done(err) }()

	filter := port.TaskFilter{Search: query.Search}

	if status, parseErr := domain.ParseStatus(query.Status); parseErr == nil {
		filter.Status = &status
	}

	tasks, err = ts.repo.FindAll(ctx, filter)

	if err != nil {
		return nil, err
	}

	if tasks == nil {
		tasks = []domain.Task{}
	}

	return tasks, nil
}

func (ts *TaskService) Update(ctx context.Context, id string, req request.UpdateTaskRequest) (task domain.Task, err error) {
	ctx, done := ts.observe(ctx, "update", map[string]interface{}{"task.id": id})
	defer func() { done(err) }()

	changes, err := changesFromRequest(req)

	if err != nil {
		return domain.Task{}, err
	}

	oid, err := domain.ParseID(id)

	if err != nil {
		return domain.Task{}, err
	}

	current, err := ts.repo.FindByID(ctx, oid)

	if err != nil {
		return domain.Task{}, err
	}

	if changes.Title != nil {
		status := current.Status

		if changes.Status != nil {
			status = *changes.Status
		}

		if err = ts.ensureUnique(ctx, *changes.Title, status, current); err != nil {
			return domain.Task{}, err
		}
	}

	changes.UpdatedAt = ts.timestamp()

	task, err = ts.repo.UpdateByID(ctx, oid, changes)

	if err != nil {
		return domain.Task{}, err
	}

	ts.telemetry.RecordBusinessEvent(ctx, "task_updated", "task", task.ID.Hex(), nil)

	return task, nil
}

// UpdateStatus moves a task between groups without a uniqueness check. The
// body is validated before the id, as in Update.
func (ts *TaskService) UpdateStatus(ctx context.Context, id string, req request.UpdateStatusRequest) (task domain.Task, err error) {
	ctx, done := ts.observe(ctx, "update_status", map[string]interface{}{"task.id": id})
	defer func() { done(err) }()

	if req.Status == nil {
		return domain.Task{}, domain.ErrInvalidStatus
	}

	status, err := domain.ParseStatus(*req.Status)

	if err != nil {
		return domain.Task{}, err
	}

	oid, err := domain.ParseID(id)

	if err != nil {
		return domain.Task{}, err
	}

	task, err = ts.repo.UpdateByID(ctx, oid, domain.TaskChanges{
		Status:    &status,
		UpdatedAt: ts.timestamp(),
	})

	if err != nil {
		return domain.Task{}, err
	}

	ts.telemetry.RecordBusinessEvent(ctx, "task_status_changed", "task", task.ID.Hex(), map[string]interface{}{
		"status": status.String(),
	})

	return task, nil
}

func (ts *TaskService) Delete(ctx context.Context, id string) (err error) {
	ctx, done := ts.observe(ctx, "delete", map[string]interface{}{"task.id": id})
	defer func() { done(err) }()

	oid, err := domain.ParseID(id)

	if err != nil {
		return err
	}

	if err = ts.repo.DeleteByID(ctx, oid); err != nil {
		return err
	}

	ts.telemetry.RecordBusinessEvent(ctx, "task_deleted", "task", id, nil)

	return nil
}

func (ts *TaskService) ensureUnique(ctx context.Context, title string, status domain.TaskStatus, self domain.Task) error {
	exists, err := ts.repo.ExistsByTitleAndStatus(ctx, title, status, self.ID)

	if err != nil {
		return err
	}

	if exists {
		return domain.NewConflictError(title, status)
	}

	return nil
}

// changesFromRequest validates in the same order as create: title,
// description, then status.
func changesFromRequest(req request.UpdateTaskRequest) (domain.TaskChanges, error) {
	var changes domain.TaskChanges

	if req.Title.Set {
		if req.Title.Null {
			return changes, domain.ErrTitleRequired
		}

		if err := domain.ValidateTitle(req.Title.Value); err != nil {
			return changes, err
		}

		title := domain.NormalizeTitle(req.Title.Value)
		changes.Title = &title
	}

	if req.Description.Set {
		description := req.Description.Value

		if err := domain.ValidateDescription(description); err != nil {
			return changes, err
		}

		changes.Description = &description
	}

	if req.Status.Set {
		if req.Status.Null {
			return changes, domain.ErrInvalidStatus
		}

		status, err := domain.ParseStatus(req.Status.Value)

		if err != nil {
			return changes, err
		}

		changes.Status = &status
	}

	if req.Deadline.Set {
		if deadline := req.Deadline.Value.Ptr(); deadline != nil && !req.Deadline.Null {
			changes.Deadline = deadline
		} else {
			changes.ClearDeadline = true
		}
	}

	changes.Normalize()

	return changes, nil
}
