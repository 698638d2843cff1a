package repository

import (
	"errors"
	"fmt"
)

var ErrNotFound = errors.New("задача не найдена")

// MappingError - строку из базы не удалось превратить в задачу.
type MappingError struct {
	Field string
	Err   error
}

func (e *MappingError) Error() string {
	return fmt.Sprintf("чтение поля %q: %v", e.Field, e.Err)
}

func (e *MappingError) Unwrap() error {
	return e.Err
}
