package request

import (
	"bytes"
	"encoding/json"
	"time"

	"taskapp/internal/core/domain"
)

var deadlineLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05",
	"2006-01-02T15:04",
	time.DateOnly,
}

// Deadline accepts RFC 3339 timestamps and plain dates. An empty string
// decodes to the zero value.
type Deadline struct {
	time.Time
}

func (d *Deadline) UnmarshalJSON(data []byte) error {
	var raw string

	if err := json.Unmarshal(data, &raw); err != nil {
		return domain.ErrInvalidDeadline
	}

	if raw == "" {
		d.Time = time.Time{}
		return nil
	}

	for _, layout := range deadlineLayouts {
		if t, err := time.Parse(layout, raw); err == nil {
			d.Time = t.UTC()
			return nil
		}
	}

	return domain.ErrInvalidDeadline
}

func (d *Deadline) Ptr() *time.Time {
	if d == nil || d.IsZero() {
		return nil
	}

	t := d.Time
	return &t
}

// Optional records whether a key was sent at all, and whether it was null.
type Optional[T any] struct {
	Set   bool
	Null  bool
	Value T
}

func (o *Optional[T]) UnmarshalJSON(data []byte) error {
	o.Set = true

	if bytes.Equal(bytes.TrimSpace(data), []byte("null")) {
		o.Null = true
		return nil
	}

	return json.Unmarshal(data, &o.Value)
}

type CreateTaskRequest struct {
	Title       *string   `json:"title"`
	Description *string   `json:"description"`
	Deadline    *Deadline `json:"deadline"`
	Status      *string   `json:"status"`
}

type UpdateTaskRequest struct {
	Title       Optional[string]   `json:"title"`
	Description Optional[string]   `json:"description"`
	Deadline    Optional[Deadline] `json:"deadline"`
	Status      Optional[string]   `json:"status"`
}

type UpdateStatusRequest struct {
	Status *string `json:"status"`
}

type ListTasksQuery struct {
	Status string `form:"status"`
	Search string `form:"search"`
}
