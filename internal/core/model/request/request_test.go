package request

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"taskapp/internal/core/domain"
)

func TestUpdateTaskRequest_Presence(t *testing.T) {
	t.Run("should leave absent keys unset", func(t *testing.T) {
		var req UpdateTaskRequest
		assert.NoError(t, json.Unmarshal([]byte(`{"title": "Buy milk"}`), &req))

		assert.True(t, req.Title.Set)
		assert.Equal(t, "Buy milk", req.Title.Value)
		assert.False(t, req.Description.Set)
		assert.False(t, req.Deadline.Set)
		assert.False(t, req.Status.Set)
	})

	t.Run("should distinguish an explicit null deadline", func(t *testing.T) {
		var req UpdateTaskRequest
		assert.NoError(t, json.Unmarshal([]byte(`{"deadline": null}`), &req))

		assert.True(t, req.Deadline.Set)
		assert.True(t, req.Deadline.Null)
	})

	t.Run("should parse a deadline value", func(t *testing.T) {
		var req UpdateTaskRequest
		assert.NoError(t, json.Unmarshal([]byte(`{"deadline": "2026-05-01T10:00:00Z"}`), &req))

		assert.True(t, req.Deadline.Set)
		assert.False(t, req.Deadline.Null)
		assert.Equal(t, time.Date(2026, 5, 1, 10, 0, 0, 0, time.UTC), req.Deadline.Value.Time)
	})
}

func TestDeadline_UnmarshalJSON(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected time.Time
		err      error
	}{
		{"rfc3339", `"2026-05-01T10:00:00Z"`, time.Date(2026, 5, 1, 10, 0, 0, 0, time.UTC), nil},
		{"offset", `"2026-05-01T12:00:00+02:00"`, time.Date(2026, 5, 1, 10, 0, 0, 0, time.UTC), nil},
		{"date only", `"2026-05-01"`, time.Date(2026, 5, 1, 0, 0, 0, 0, time.UTC), nil},
		{"empty", `""`, time.Time{}, nil},
		{"garbage", `"next tuesday"`, time.Time{}, domain.ErrInvalidDeadline},
		{"number", `42`, time.Time{}, domain.ErrInvalidDeadline},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var d Deadline
			err := d.UnmarshalJSON([]byte(tt.input))

			if tt.err != nil {
				assert.ErrorIs(t, err, tt.err)
				return
			}

			assert.NoError(t, err)
			assert.True(t, tt.expected.Equal(d.Time))
		})
	}
}

func TestCreateTaskRequest_InvalidDeadline(t *testing.T) {
	var req CreateTaskRequest
	err := json.Unmarshal([]byte(`{"title": "Buy milk", "deadline": "soon"}`), &req)

	assert.ErrorIs(t, err, domain.ErrInvalidDeadline)
}
