package database

import (
	"context"
	"sync"
	"sync/atomic"
)

var (
	initMu   sync.Mutex
	instance atomic.Pointer[Manager]

	// newManager подменяется в тестах
	newManager = New
)

// Initialize создаёт общий для процесса пул. Повторный вызов возвращает
// ErrAlreadyInitialized и не трогает уже установленный пул.
func Initialize(ctx context.Context, cfg Config) error {
	initMu.Lock()
	defer initMu.Unlock()

	if instance.Load() != nil {
		return ErrAlreadyInitialized
	}

	m, err := newManager(ctx, cfg)
	if err != nil {
		return err
	}

	instance.Store(m)
	return nil
}

// Instance возвращает пул, созданный Initialize.
// Вызов до Initialize - ошибка программиста, поэтому паника.
func Instance() *Manager {
	m := instance.Load()
	if m == nil {
		panic("database: Instance вызван до Initialize")
	}
	return m
}
