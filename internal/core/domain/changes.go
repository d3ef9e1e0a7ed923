package domain

import (
	"strings"
	"time"
)

// TaskChanges is a partial update. A nil field is left unchanged;
// ClearDeadline removes the deadline.
type TaskChanges struct {
	Title         *string
	Description   *string
	Deadline      *time.Time
	ClearDeadline bool
	Status        *TaskStatus
	UpdatedAt     time.Time
}

func (c *TaskChanges) Normalize() {
	if c.Title != nil {
		title := NormalizeTitle(*c.Title)
		c.Title = &title
	}

	if c.Description != nil {
		description := strings.TrimSpace(*c.Description)
		c.Description = &description
	}
}

// Validate checks only the fields being changed.
func (c *TaskChanges) Validate() error {
	if c.Title != nil {
		if err := ValidateTitle(*c.Title); err != nil {
			return err
		}
	}

	if c.Description != nil {
		if err := ValidateDescription(*c.Description); err != nil {
			return err
		}
	}

	if c.Status != nil && !c.Status.IsValid() {
		return ErrInvalidStatus
	}

	return nil
}

// Apply mutates t in place, used by stores that update in memory.
func (c *TaskChanges) Apply(t *Task) {
	if c.Title != nil {
		t.Title = *c.Title
	}

	if c.Description != nil {
		t.Description = *c.Description
	}

	if c.ClearDeadline {
		t.Deadline = nil
	} else if c.Deadline != nil {
		deadline := *c.Deadline
		t.Deadline = &deadline
	}

	if c.Status != nil {
		t.Status = *c.Status
	}

	t.Touch(c.UpdatedAt)
}
