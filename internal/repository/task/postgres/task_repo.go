package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"taskStore/internal/database"
	"taskStore/internal/logger"
	"taskStore/internal/models/task"
	repo "taskStore/internal/repository"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

const selectTasks = `SELECT
				id,
				description,
				priority::text AS priority,
				created_at,
				expired_at,
				completed_at
				FROM tasks`

// upsert по id: новая строка вставляется, существующая перезаписывается целиком
const upsertTask = `INSERT INTO tasks
				(id, description, priority, created_at, expired_at, completed_at)
				VALUES ($1, $2, $3::priority_level, $4, $5, $6)
			ON CONFLICT (id) DO UPDATE SET
				description = EXCLUDED.description,
				priority = EXCLUDED.priority,
				created_at = EXCLUDED.created_at,
				expired_at = EXCLUDED.expired_at,
				completed_at = EXCLUDED.completed_at`

const deleteTask = `DELETE FROM tasks
				WHERE id = $1`

type Storage struct {
	db *database.Manager
}

func New(db *database.Manager) *Storage {
	return &Storage{db: db}
}

func (s *Storage) HealthCheck(ctx context.Context) error {
	if err := s.db.Ping(ctx); err != nil {
		logger.Error("Repository: Неудачная проверка ping", err)
		return fmt.Errorf("проверка соединения ping: %w", err)
	}
	return nil
}

// GetAll возвращает все задачи в порядке, который выбрала база.
// Ошибка разбора любой строки проваливает весь вызов.
func (s *Storage) GetAll(ctx context.Context) ([]*task.Task, error) {
	rows, err := s.db.Query(ctx, selectTasks)
	if err != nil {
		logger.Error("Repository: Не удалось получить задачи", err)
		return nil, fmt.Errorf("получение задач: %w", err)
	}

	tasks := make([]*task.Task, 0, len(rows))
	for _, row := range rows {
		t, err := decodeTask(row)
		if err != nil {
			logger.Error("Repository: Ошибка сканирования задачи", err)
			return nil, fmt.Errorf("получение задач: %w", err)
		}
		tasks = append(tasks, t)
	}

	return tasks, nil
}

func (s *Storage) GetByID(ctx context.Context, id uuid.UUID) (*task.Task, error) {
	row, err := s.db.QueryOne(ctx, selectTasks+`
				WHERE id = $1`, id)
	if err != nil {
		if errors.Is(err, database.ErrNotFoundOrAmbiguous) {
			logger.Info("Repository: Задача не найдена", zap.String("task_id", id.String()))
			return nil, fmt.Errorf("%w: %s: %w", repo.ErrNotFound, id, err)
		}
		logger.Error("Repository: Не удалось получить задачу", err, zap.String("task_id", id.String()))
		return nil, fmt.Errorf("получение задачи: %w", err)
	}

	t, err := decodeTask(row)
	if err != nil {
		logger.Error("Repository: Ошибка сканирования задачи", err, zap.String("task_id", id.String()))
		return nil, fmt.Errorf("получение задачи: %w", err)
	}
	return t, nil
}

// Save вставляет задачу или перезаписывает все её поля. Проверки версий нет:
// кто сохранил последним, тот и прав.
func (s *Storage) Save(ctx context.Context, t *task.Task) error {
	if t == nil {
		return errors.New("сохранение задачи: nil")
	}

	_, err := s.db.Exec(ctx, upsertTask,
		t.ID,
		t.Description,
		string(t.Priority),
		t.CreatedAt,
		t.ExpiredAt,
		t.CompletedAt,
	)
	if err != nil {
		logger.Error("Repository: Не удалось сохранить задачу", err, zap.String("task_id", t.ID.String()))
		return fmt.Errorf("сохранение задачи: %w", err)
	}

	logger.Debug("Repository: Задача сохранена", zap.String("task_id", t.ID.String()))
	return nil
}

// Delete удаляет строку, но не трогает саму задачу в памяти:
// её можно сохранить снова.
func (s *Storage) Delete(ctx context.Context, t *task.Task) error {
	if t == nil {
		return errors.New("удаление задачи: nil")
	}
	return s.DeleteByID(ctx, t.ID)
}

// DeleteByID не считает ошибкой отсутствие строки.
func (s *Storage) DeleteByID(ctx context.Context, id uuid.UUID) error {
	affected, err := s.db.Exec(ctx, deleteTask, id)
	if err != nil {
		logger.Error("Repository: Не удалось удалить задачу", err, zap.String("task_id", id.String()))
		return fmt.Errorf("удаление задачи: %w", err)
	}

	logger.Debug("Repository: Задача удалена",
		zap.String("task_id", id.String()),
		zap.Int64("rows", affected))
	return nil
}

var schema = []string{
	`DO $$ BEGIN
		CREATE TYPE priority_level AS ENUM ('low', 'medium', 'high');
	EXCEPTION
		WHEN duplicate_object THEN NULL;
	END $$`,
	`CREATE TABLE IF NOT EXISTS tasks (
		id UUID PRIMARY KEY,
		description TEXT NOT NULL,
		priority priority_level NOT NULL,
		created_at TIMESTAMPTZ NOT NULL,
		expired_at TIMESTAMPTZ,
		completed_at TIMESTAMPTZ
	)`,
}

// EnsureSchema создаёт тип и таблицу, если их ещё нет. Повторный вызов безопасен.
func (s *Storage) EnsureSchema(ctx context.Context) error {
	start := time.Now()
	logger.Info("Repository: Проверка схемы")

	for _, stmt := range schema {
		if _, err := s.db.Exec(ctx, stmt); err != nil {
			logger.Error("Repository: Не удалось создать схему", err)
			return fmt.Errorf("создание схемы: %w", err)
		}
	}

	logger.Info("Repository: Схема готова", zap.Duration("ms", time.Since(start)))
	return nil
}
