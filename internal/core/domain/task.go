package domain

import (
	"strings"
	"time"
	"unicode/utf8"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

const (
	TitleMaxLength       = 100
	DescriptionMaxLength = 500
)

type TaskStatus string

const (
	TaskStatusToDo       TaskStatus = "To Do"
	TaskStatusInProgress TaskStatus = "In Progress"
	TaskStatusDone       TaskStatus = "Done"
)

var taskStatuses = []TaskStatus{TaskStatusToDo, TaskStatusInProgress, TaskStatusDone}

// Task is the stored shape. IsOverdue is derived and never persisted.
type Task struct {
	ID          primitive.ObjectID `bson:"_id,omitempty"`
	Title       string             `bson:"title" validate:"required,max=100"`
	Description string             `bson:"description,omitempty" validate:"max=500"`
	Deadline    *time.Time         `bson:"deadline"`
	Status      TaskStatus         `bson:"status" validate:"required,task_status"`
	CreatedAt   time.Time          `bson:"createdAt"`
	UpdatedAt   time.Time          `bson:"updatedAt" validate:"gtefield=CreatedAt"`
}

func TaskStatuses() []TaskStatus {
	return append([]TaskStatus(nil), taskStatuses...)
}

func (s TaskStatus) IsValid() bool {
	for _, status := range taskStatuses {
		if s == status {
			return true
		}
	}

	return false
}

func (s TaskStatus) String() string {
	return string(s)
}

// ParseStatus accepts only the exact enumerated spellings.
func ParseStatus(status string) (TaskStatus, error) {
	s := TaskStatus(status)

	if !s.IsValid() {
		return "", ErrInvalidStatus
	}

	return s, nil
}

// StatusOrDefault resolves an omitted status to To Do.
func StatusOrDefault(status *string) (TaskStatus, error) {
	if status == nil {
		return TaskStatusToDo, nil
	}

	return ParseStatus(*status)
}

func NormalizeTitle(title string) string {
	return strings.TrimSpace(title)
}

// ValidateTitle requires text after trimming and bounds the submitted length,
// surrounding whitespace included.
func ValidateTitle(title string) error {
	if NormalizeTitle(title) == "" {
		return ErrTitleRequired
	}

	if utf8.RuneCountInString(title) > TitleMaxLength {
		return ErrTitleTooLong
	}

	return nil
}

func ValidateDescription(description string) error {
	if utf8.RuneCountInString(description) > DescriptionMaxLength {
		return ErrDescriptionTooLong
	}

	return nil
}

// IsOverdue reports whether a deadline has passed for a task that is not Done.
func IsOverdue(deadline *time.Time, status TaskStatus, now time.Time) bool {
	if deadline == nil || deadline.IsZero() {
		return false
	}

	return deadline.Before(now) && status != TaskStatusDone
}

func (t *Task) IsOverdue(now time.Time) bool {
	return IsOverdue(t.Deadline, t.Status, now)
}

// Normalize trims the text fields the way they are stored.
func (t *Task) Normalize() {
	t.Title = NormalizeTitle(t.Title)
	t.Description = strings.TrimSpace(t.Description)

	if t.Status == "" {
		t.Status = TaskStatusToDo
	}
}

func (t *Task) Touch(now time.Time) {
	t.UpdatedAt = now

	if t.CreatedAt.IsZero() {
		t.CreatedAt = now
	}
}

// ParseID rejects anything that is not a 24 character hex ObjectID.
func ParseID(id string) (primitive.ObjectID, error) {
	oid, err := primitive.ObjectIDFromHex(id)

	if err != nil {
		return primitive.NilObjectID, ErrInvalidID
	}

	return oid, nil
}
