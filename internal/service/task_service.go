package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"taskStore/internal/logger"
	"taskStore/internal/models/task"
	repo "taskStore/internal/repository"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// здесь происходит проверка ошибок бизнес-логики

type TaskService struct {
	repo TaskRepository
}

func NewTaskService(repo TaskRepository) *TaskService {
	return &TaskService{
		repo: repo,
	}
}

func (s *TaskService) HealthCheck(ctx context.Context) error {
	if err := s.repo.HealthCheck(ctx); err != nil {
		return fmt.Errorf("проверка здоровья сервиса: %w", err)
	}
	return nil
}

func (s *TaskService) CreateTask(ctx context.Context, description string, priority task.Priority, expiredAt *time.Time) (*task.Task, error) {
	if strings.TrimSpace(description) == "" {
		return nil, NewValidationError("description", "не может быть пустым")
	}
	if !priority.Valid() {
		return nil, NewValidationError("priority", "допустимо low, medium или high")
	}

	created := task.New(description, priority, task.WithExpirationPtr(expiredAt))
	if err := s.repo.Save(ctx, created); err != nil {
		return nil, fmt.Errorf("создание задачи: %w", err)
	}

	logger.Info("Service: Задача создана", zap.String("task_id", created.ID.String()))
	return created, nil
}

func (s *TaskService) ListTasks(ctx context.Context) ([]*task.Task, error) {
	tasks, err := s.repo.GetAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("получение задач: %w", err)
	}
	return tasks, nil
}

func (s *TaskService) GetTask(ctx context.Context, id uuid.UUID) (*task.Task, error) {
	found, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			logger.Info("Service: Задача не найдена", zap.String("target_id", id.String()))
			return nil, NewNotFound(id.String(), err)
		}
		return nil, fmt.Errorf("получение задачи: %w", err)
	}
	return found, nil
}

// ToggleTask переключает выполненность и сразу сохраняет задачу.
func (s *TaskService) ToggleTask(ctx context.Context, id uuid.UUID) (*task.Task, error) {
	found, err := s.GetTask(ctx, id)
	if err != nil {
		return nil, err
	}

	found.ToggleCompletion()
	if err := s.repo.Save(ctx, found); err != nil {
		return nil, fmt.Errorf("сохранение задачи: %w", err)
	}

	logger.Info("Service: Выполненность задачи изменена",
		zap.String("task_id", id.String()),
		zap.Bool("completed", found.IsCompleted()))
	return found, nil
}

// DeleteTask не считает ошибкой удаление несуществующей задачи.
func (s *TaskService) DeleteTask(ctx context.Context, id uuid.UUID) error {
	if err := s.repo.DeleteByID(ctx, id); err != nil {
		return fmt.Errorf("удаление задачи: %w", err)
	}
	return nil
}
