package task

import (
	"time"

	"github.com/google/uuid"
)

// Task - единственная хранимая сущность. Выполненность определяется
// только наличием CompletedAt.
type Task struct {
	ID          uuid.UUID  `json:"id" db:"id"`
	Description string     `json:"description" db:"description"`
	Priority    Priority   `json:"priority" db:"priority"`
	CreatedAt   time.Time  `json:"created_at" db:"created_at"`
	ExpiredAt   *time.Time `json:"expired_at,omitempty" db:"expired_at"`
	CompletedAt *time.Time `json:"completed_at,omitempty" db:"completed_at"`
}

func New(description string, priority Priority, options ...TaskOption) *Task {
	t := &Task{
		ID:          uuid.New(),
		Description: description,
		Priority:    priority,
		CreatedAt:   time.Now().UTC(),
	}

	for _, opt := range options {
		if opt != nil {
			opt(t)
		}
	}
	return t
}

// ToggleCompletion меняет только локальное состояние, для сохранения нужен Save.
func (t *Task) ToggleCompletion() {
	if t.CompletedAt != nil {
		t.CompletedAt = nil
		return
	}
	now := time.Now().UTC()
	t.CompletedAt = &now
}

func (t *Task) IsCompleted() bool {
	return t.CompletedAt != nil
}

// IsExpired ничего не меняет: срок только хранится и показывается.
func (t *Task) IsExpired(now time.Time) bool {
	return t.ExpiredAt != nil && !t.IsCompleted() && t.ExpiredAt.Before(now)
}
