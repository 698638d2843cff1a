package service

import (
	"context"

	"taskStore/internal/models/task"

	"github.com/google/uuid"
)

type TaskRepository interface {
	HealthCheck(context.Context) error
	GetAll(context.Context) ([]*task.Task, error)
	GetByID(context.Context, uuid.UUID) (*task.Task, error)
	Save(context.Context, *task.Task) error
	Delete(context.Context, *task.Task) error
	DeleteByID(context.Context, uuid.UUID) error
}
