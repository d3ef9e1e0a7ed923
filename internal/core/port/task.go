package port

import (
	"context"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"taskapp/internal/core/domain"
	"taskapp/internal/core/model/request"
)

// TaskFilter narrows FindAll. Empty fields do not filter.
type TaskFilter struct {
	Status *domain.TaskStatus
	Search string
}

// TaskRepository is the store collaborator. Missing tasks are reported as
// domain.ErrNotFound; other failures as internal domain errors.
type TaskRepository interface {
	FindAll(ctx context.Context, filter TaskFilter) ([]domain.Task, error)
	FindByID(ctx context.Context, id primitive.ObjectID) (domain.Task, error)
	ExistsByTitleAndStatus(ctx context.Context, title string, status domain.TaskStatus, excludeID primitive.ObjectID) (bool, error)
	Create(ctx context.Context, task domain.Task) (domain.Task, error)
	UpdateByID(ctx context.Context, id primitive.ObjectID, changes domain.TaskChanges) (domain.Task, error)
	DeleteByID(ctx context.Context, id primitive.ObjectID) error
}

type TaskService interface {
	Create(ctx context.Context, req request.CreateTaskRequest) (domain.Task, error)
	GetByID(ctx context.Context, id string) (domain.Task, error)
	List(ctx context.Context, query request.ListTasksQuery) ([]domain.Task, error)
	Update(ctx context.Context, id string, req request.UpdateTaskRequest) (domain.Task, error)
	UpdateStatus(ctx context.Context, id string, req request.UpdateStatusRequest) (domain.Task, error)
	Delete(ctx context.Context, id string) error
}
