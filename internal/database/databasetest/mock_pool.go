// Package databasetest подменяет пул pgxmock'ом для модульных тестов.
package databasetest

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"taskStore/internal/database"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/require"
)

type MockPool struct {
	pgxmock.PgxPoolIface

	// AcquireErr, если задан, возвращается из Acquire вместо соединения
	AcquireErr error

	acquired atomic.Int32
	released atomic.Int32
}

func (p *MockPool) Acquire(ctx context.Context) (database.Conn, error) {
	if p.AcquireErr != nil {
		return nil, p.AcquireErr
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	p.acquired.Add(1)
	return &mockConn{pool: p}, nil
}

func (p *MockPool) Stats() database.Stats {
	acquired := p.acquired.Load() - p.released.Load()
	return database.Stats{
		MaxConns:      1,
		TotalConns:    1,
		AcquiredConns: acquired,
		IdleConns:     1 - acquired,
		AcquireCount:  int64(p.acquired.Load()),
	}
}

func (p *MockPool) Acquired() int32 { return p.acquired.Load() }
func (p *MockPool) Released() int32 { return p.released.Load() }

type mockConn struct {
	pool *MockPool
}

func (c *mockConn) Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error) {
	return c.pool.PgxPoolIface.Query(ctx, sql, args...)
}

func (c *mockConn) Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error) {
	return c.pool.PgxPoolIface.Exec(ctx, sql, args...)
}

func (c *mockConn) Release() {
	c.pool.released.Add(1)
}

// NewManager собирает Manager поверх pgxmock и закрывает мок по окончании теста.
func NewManager(t testing.TB) (*database.Manager, *MockPool) {
	t.Helper()

	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	t.Cleanup(mock.Close)

	pool := &MockPool{PgxPoolIface: mock}
	return database.NewWithPool(pool, time.Second), pool
}
