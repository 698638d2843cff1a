package handlers

import (
	"context"
	"time"

	"taskStore/internal/models/task"

	"github.com/google/uuid"
)

type Service interface {
	HealthCheck(context.Context) error
	CreateTask(context.Context, string, task.Priority, *time.Time) (*task.Task, error)
	ListTasks(context.Context) ([]*task.Task, error)
	GetTask(context.Context, uuid.UUID) (*task.Task, error)
	ToggleTask(context.Context, uuid.UUID) (*task.Task, error)
	DeleteTask(context.Context, uuid.UUID) error
}
