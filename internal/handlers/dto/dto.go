package dto

import (
	"time"

	"taskStore/internal/models/task"

	"github.com/google/uuid"
)

type CreateTaskRequest struct {
	Description string     `json:"description"`
	Priority    string     `json:"priority"`
	ExpiredAt   *time.Time `json:"expired_at,omitempty"`
}

type TaskResponse struct {
	ID          uuid.UUID  `json:"id"`
	Description string     `json:"description"`
	Priority    string     `json:"priority"`
	CreatedAt   time.Time  `json:"created_at"`
	ExpiredAt   *time.Time `json:"expired_at,omitempty"`
	CompletedAt *time.Time `json:"completed_at,omitempty"`
	IsCompleted bool       `json:"is_completed"`
	IsExpired   bool       `json:"is_expired"`
}

func FromTask(t *task.Task, now time.Time) TaskResponse {
	return TaskResponse{
		ID:          t.ID,
		Description: t.Description,
		Priority:    t.Priority.String(),
		CreatedAt:   t.CreatedAt,
		ExpiredAt:   t.ExpiredAt,
		CompletedAt: t.CompletedAt,
		IsCompleted: t.IsCompleted(),
		IsExpired:   t.IsExpired(now),
	}
}

func FromTaskList(tasks []*task.Task, now time.Time) []TaskResponse {
	result := make([]TaskResponse, len(tasks))
	for i, t := range tasks {
		result[i] = FromTask(t, now)
	}
	return result
}
