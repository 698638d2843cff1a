package postgres

import (
	"errors"
	"fmt"
	"time"

	"taskStore/internal/database"
	"taskStore/internal/models/task"
	repo "taskStore/internal/repository"

	"github.com/google/uuid"
)

var (
	errMissingColumn = errors.New("колонка отсутствует в результате")
	errNullValue     = errors.New("NULL в обязательном поле")
)

// decodeTask читает колонки по имени; первая же ошибка возвращается
// как MappingError с именем поля.
func decodeTask(row database.Row) (*task.Task, error) {
	id, err := uuidField(row, "id")
	if err != nil {
		return nil, err
	}
	description, err := stringField(row, "description")
	if err != nil {
		return nil, err
	}
	priority, err := priorityField(row, "priority")
	if err != nil {
		return nil, err
	}
	createdAt, err := timeField(row, "created_at")
	if err != nil {
		return nil, err
	}
	expiredAt, err := nullableTimeField(row, "expired_at")
	if err != nil {
		return nil, err
	}
	completedAt, err := nullableTimeField(row, "completed_at")
	if err != nil {
		return nil, err
	}

	return &task.Task{
		ID:          id,
		Description: description,
		Priority:    priority,
		CreatedAt:   createdAt,
		ExpiredAt:   expiredAt,
		CompletedAt: completedAt,
	}, nil
}

func column(row database.Row, name string) (any, error) {
	value, ok := row[name]
	if !ok {
		return nil, &repo.MappingError{Field: name, Err: errMissingColumn}
	}
	return value, nil
}

func mismatch(name string, value any) error {
	return &repo.MappingError{Field: name, Err: fmt.Errorf("неожиданный тип %T", value)}
}

func uuidField(row database.Row, name string) (uuid.UUID, error) {
	value, err := column(row, name)
	if err != nil {
		return uuid.Nil, err
	}

	switch v := value.(type) {
	case uuid.UUID:
		return v, nil
	case [16]byte:
		return uuid.UUID(v), nil
	case string:
		id, err := uuid.Parse(v)
		if err != nil {
			return uuid.Nil, &repo.MappingError{Field: name, Err: err}
		}
		return id, nil
	case nil:
		return uuid.Nil, &repo.MappingError{Field: name, Err: errNullValue}
	default:
		return uuid.Nil, mismatch(name, value)
	}
}

func stringField(row database.Row, name string) (string, error) {
	value, err := column(row, name)
	if err != nil {
		return "", err
	}

	switch v := value.(type) {
	case string:
		return v, nil
	case []byte:
		return string(v), nil
	case nil:
		return "", &repo.MappingError{Field: name, Err: errNullValue}
	default:
		return "", mismatch(name, value)
	}
}

func priorityField(row database.Row, name string) (task.Priority, error) {
	raw, err := stringField(row, name)
	if err != nil {
		return "", err
	}

	priority, err := task.ParsePriority(raw)
	if err != nil {
		return "", &repo.MappingError{Field: name, Err: err}
	}
	return priority, nil
}

func timeField(row database.Row, name string) (time.Time, error) {
	value, err := column(row, name)
	if err != nil {
		return time.Time{}, err
	}

	switch v := value.(type) {
	case time.Time:
		return v.UTC(), nil
	case nil:
		return time.Time{}, &repo.MappingError{Field: name, Err: errNullValue}
	default:
		return time.Time{}, mismatch(name, value)
	}
}

func nullableTimeField(row database.Row, name string) (*time.Time, error) {
	value, err := column(row, name)
	if err != nil {
		return nil, err
	}

	switch v := value.(type) {
	case nil:
		return nil, nil
	case time.Time:
		utc := v.UTC()
		return &utc, nil
	case *time.Time:
		if v == nil {
			return nil, nil
		}
		utc := v.UTC()
		return &utc, nil
	default:
		return nil, mismatch(name, value)
	}
}
