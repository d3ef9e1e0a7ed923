package memory

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"taskapp/internal/core/domain"
	"taskapp/internal/core/port"
	tel "taskapp/internal/core/telemetry"
)

const entity = "task"

// TaskRepository keeps tasks in process. It mirrors the MongoDB store's
// filter and ordering semantics and backs tests and local runs.
type TaskRepository struct {
	mu        sync.RWMutex
	tasks     map[primitive.ObjectID]domain.Task
	telemetry port.Telemetry
}

func NewTaskRepository(telemetry port.Telemetry) *TaskRepository {
	if telemetry == nil {
		telemetry = tel.NewNoOpProbe()
	}

	return &TaskRepository{
		tasks:     make(map[primitive.ObjectID]domain.Task),
		telemetry: telemetry,
	}
}

func (r *TaskRepository) observe(ctx context.Context, operation string) (context.Context, func(error)) {
	ctx, span := r.telemetry.StartRepositorySpan(ctx, operation, entity, map[string]interface{}{
		"db.system": "memory",
	})
	start := time.Now()

	return ctx, func(err error) {
		r.telemetry.RecordRepositoryOperation(ctx, operation, entity, time.Since(start), err)
		span.End()
	}
}

func matches(task domain.Task, filter port.TaskFilter) bool {
	if filter.Status != nil && task.Status != *filter.Status {
		return false
	}

	if filter.Search == "" {
		return true
	}

	term := strings.ToLower(filter.Search)

	return strings.Contains(strings.ToLower(task.Title), term) ||
		strings.Contains(strings.ToLower(task.Description), term)
}

func (r *TaskRepository) FindAll(ctx context.Context, filter port.TaskFilter) (tasks []domain.Task, err error) {
	_, done := r.observe(ctx, "find_all")
	defer func() { done(err) }()

	r.mu.RLock()
	defer r.mu.RUnlock()

	tasks = make([]domain.Task, 0, len(r.tasks))

	for _, task := range r.tasks {
		if matches(task, filter) {
			tasks = append(tasks, task)
		}
	}

	sort.SliceStable(tasks, func(i, j int) bool {
		if tasks[i].UpdatedAt.Equal(tasks[j].UpdatedAt) {
			return tasks[i].ID.Hex() > tasks[j].ID.Hex()
		}

		return tasks[i].UpdatedAt.After(tasks[j].UpdatedAt)
	})

	return tasks, nil
}

func (r *TaskRepository) FindByID(ctx context.Context, id primitive.ObjectID) (task domain.Task, err error) {
	_, done := r.observe(ctx, "find_by_id")
	defer func() { done(err) }()

	r.mu.RLock()
	defer r.mu.RUnlock()

	task, ok := r.tasks[id]

	if !ok {
		return domain.Task{}, domain.ErrNotFound
	}

	return task, nil
}

func (r *TaskRepository) ExistsByTitleAndStatus(ctx context.Context, title string, status domain.TaskStatus, excludeID primitive.ObjectID) (exists bool, err error) {
	_, done := r.observe(ctx, "exists_by_title_and_status")
	defer func() { done(err) }()

	r.mu.RLock()
	defer r.mu.RUnlock()

	return r.exists(domain.NormalizeTitle(title), status, excludeID), nil
}

// exists must be called with the lock held.
func (r *TaskRepository) exists(title string, status domain.TaskStatus, excludeID primitive.ObjectID) bool {
	for id, task := range r.tasks {
		if id != excludeID && task.Title == title && task.Status == status {
			return true
		}
	}

	return false
}

func (r *TaskRepository) Create(ctx context.Context, task domain.Task) (created domain.Task, err error) {
	_, done := r.observe(ctx, "create")
	defer func() { done(err) }()

	task.Normalize()

	if task.CreatedAt.IsZero() {
		task.Touch(time.Now().UTC().Truncate(time.Millisecond))
	}

	if err = task.Validate(); err != nil {
		return domain.Task{}, err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	task.ID = primitive.NewObjectID()
	r.tasks[task.ID] = task

	return task, nil
}

func (r *TaskRepository) UpdateByID(ctx context.Context, id primitive.ObjectID, changes domain.TaskChanges) (updated domain.Task, err error) {
	_, done := r.observe(ctx, "update_by_id")
	defer func() { done(err) }()

	changes.Normalize()

	if err = changes.Validate(); err != nil {
		return domain.Task{}, err
	}

	if changes.UpdatedAt.IsZero() {
		changes.UpdatedAt = time.Now().UTC().Truncate(time.Millisecond)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	task, ok := r.tasks[id]

	if !ok {
		return domain.Task{}, domain.ErrNotFound
	}

	changes.Apply(&task)

	if err = task.Validate(); err != nil {
		return domain.Task{}, err
	}

	r.tasks[id] = task

	return task, nil
}

func (r *TaskRepository) DeleteByID(ctx context.Context, id primitive.ObjectID) (err error) {
	_, done := r.observe(ctx, "delete_by_id")
	defer func() { done(err) }()

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.tasks[id]; !ok {
		return domain.ErrNotFound
	}

	delete(r.tasks, id)

	return nil
}
