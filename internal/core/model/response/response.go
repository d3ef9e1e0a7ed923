package response

import (
	"time"

	"taskapp/internal/core/domain"
)

// TaskResponse mirrors the stored document plus the derived isOverdue flag.
type TaskResponse struct {
	MongoID     string     `json:"_id"`
	ID          string     `json:"id"`
	Title       string     `json:"title"`
	Description string     `json:"description,omitempty"`
	Deadline    *time.Time `json:"deadline"`
	Status      string     `json:"status"`
	CreatedAt   time.Time  `json:"createdAt"`
	UpdatedAt   time.Time  `json:"updatedAt"`
	IsOverdue   bool       `json:"isOverdue"`
}

func NewTaskResponse(task domain.Task, now time.Time) TaskResponse {
	id := task.ID.Hex()

	return TaskResponse{
		MongoID:     id,
		ID:          id,
		Title:       task.Title,
		Description: task.Description,
		Deadline:    task.Deadline,
		Status:      task.Status.String(),
		CreatedAt:   task.CreatedAt,
		UpdatedAt:   task.UpdatedAt,
		IsOverdue:   task.IsOverdue(now),
	}
}

func NewTaskListResponse(tasks []domain.Task, now time.Time) []TaskResponse {
	data := make([]TaskResponse, 0, len(tasks))

	for _, task := range tasks {
		data = append(data, NewTaskResponse(task, now))
	}

	return data
}

type MessageResponse struct {
	Message string `json:"message"`
}

// ErrorResponse carries Error only for internal failures.
type ErrorResponse struct {
	Message string `json:"message"`
	Error   string `json:"error,omitempty"`
}
