package factory

import (
	"strings"

	fab "github.com/Goldziher/fabricator"

	"taskapp/internal/core/domain"
	"taskapp/internal/core/model/request"
)

// taskSeed holds the generated text; the domain types are filled in by hand.
type taskSeed struct {
	Title       string
	Description string
}

func truncate(s string, max int) string {
	runes := []rune(strings.TrimSpace(s))

	if len(runes) > max {
		runes = runes[:max]
	}

	return strings.TrimSpace(string(runes))
}

func seed(customData ...map[string]any) taskSeed {
	instance := fab.New(taskSeed{})

	if len(customData) > 0 {
		return instance.Build(customData...)
	}

	return instance.Build()
}

// NewTask builds a valid, unsaved To Do task. Keys in customData override
// Title and Description.
func NewTask(customData ...map[string]any) domain.Task {
	s := seed(customData...)

	title := truncate(s.Title, domain.TitleMaxLength)

	if title == "" {
		title = "Generated task"
	}

	return domain.Task{
		Title:       title,
		Description: truncate(s.Description, domain.DescriptionMaxLength),
		Status:      domain.TaskStatusToDo,
	}
}

func NewCreateTaskRequest(customData ...map[string]any) request.CreateTaskRequest {
	task := NewTask(customData...)

	return request.CreateTaskRequest{
		Title:       &task.Title,
		Description: &task.Description,
	}
}
