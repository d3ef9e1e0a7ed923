package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestTaskChanges_Validate(t *testing.T) {
	blank := "  "
	status := TaskStatus("Later")

	assert.NoError(t, (&TaskChanges{}).Validate())
	assert.ErrorIs(t, (&TaskChanges{Title: &blank}).Validate(), ErrTitleRequired)
	assert.ErrorIs(t, (&TaskChanges{Status: &status}).Validate(), ErrInvalidStatus)
}

func TestTaskChanges_Apply(t *testing.T) {
	created := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	deadline := created.Add(24 * time.Hour)

	task := Task{
		Title:       "Buy milk",
		Description: "2L",
		Deadline:    &deadline,
		Status:      TaskStatusToDo,
		CreatedAt:   created,
		UpdatedAt:   created,
	}

	t.Run("leaves absent fields alone", func(t *testing.T) {
		got := task
		done := TaskStatusDone
		later := created.Add(time.Hour)

		changes := TaskChanges{Status: &done, UpdatedAt: later}
		changes.Apply(&got)

		assert.Equal(t, TaskStatusDone, got.Status)
		assert.Equal(t, "Buy milk", got.Title)
		assert.Equal(t, "2L", got.Description)
		assert.Equal(t, &deadline, got.Deadline)
		assert.Equal(t, created, got.CreatedAt)
		assert.Equal(t, later, got.UpdatedAt)
	})

	t.Run("clears the deadline", func(t *testing.T) {
		got := task

		changes := TaskChanges{ClearDeadline: true, UpdatedAt: created}
		changes.Apply(&got)

		assert.Nil(t, got.Deadline)
	})

	t.Run("normalizes text before applying", func(t *testing.T) {
		got := task
		title := "  Buy oat milk "
		description := " 1L "

		changes := TaskChanges{Title: &title, Description: &description, UpdatedAt: created}
		changes.Normalize()
		changes.Apply(&got)

		assert.Equal(t, "Buy oat milk", got.Title)
		assert.Equal(t, "1L", got.Description)
	})
}
