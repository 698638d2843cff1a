package database

import (
	"context"
	"fmt"
	"time"

	"taskStore/internal/logger"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"
)

const slowQueryThreshold = 100 * time.Millisecond

// Row - одна строка результата, ключ - имя колонки.
type Row map[string]any

// Manager держит пул и выполняет через него параметризованные запросы.
// Каждый запрос берёт одно соединение и всегда возвращает его в пул.
type Manager struct {
	pool           Pool
	acquireTimeout time.Duration
}

func New(ctx context.Context, cfg Config) (*Manager, error) {
	cfg = cfg.withDefaults()

	poolCfg, err := pgxpool.ParseConfig(cfg.URL)
	if err != nil {
		logger.Error("Database: Ошибка разбора строки подключения", err)
		return nil, fmt.Errorf("%w: разбор конфига: %w", ErrConnectionBuild, err)
	}

	poolCfg.MaxConns = cfg.MaxConns
	poolCfg.MinConns = cfg.MinConns
	poolCfg.MaxConnIdleTime = cfg.MaxConnIdleTime
	if cfg.ConnectTimeout > 0 {
		poolCfg.ConnConfig.ConnectTimeout = cfg.ConnectTimeout
	}

	pool, err := pgxpool.NewWithConfig(ctx, poolCfg)
	if err != nil {
		logger.Error("Database: Ошибка создания пула", err)
		return nil, fmt.Errorf("%w: создание пула: %w", ErrConnectionBuild, err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		logger.Error("Database: Неудачная проверка ping", err)
		return nil, fmt.Errorf("%w: проверка соединения ping: %w", ErrConnectionBuild, err)
	}

	logger.Info("Database: Пул соединений PostgreSQL создан",
		zap.Int32("max_conns", cfg.MaxConns),
		zap.Int32("min_conns", cfg.MinConns),
		zap.Duration("acquire_timeout", cfg.AcquireTimeout))

	return NewWithPool(&pgxPool{pool: pool}, cfg.AcquireTimeout), nil
}

// NewWithPool оборачивает готовый пул. Нужен тестам и альтернативным драйверам.
func NewWithPool(pool Pool, acquireTimeout time.Duration) *Manager {
	if acquireTimeout <= 0 {
		acquireTimeout = defaultAcquireTimeout
	}
	return &Manager{pool: pool, acquireTimeout: acquireTimeout}
}

// Acquire ждёт свободное соединение не дольше acquireTimeout.
// Вызывающий обязан вызвать Release.
func (m *Manager) Acquire(ctx context.Context) (Conn, error) {
	acquireCtx, cancel := context.WithTimeout(ctx, m.acquireTimeout)
	defer cancel()

	conn, err := m.pool.Acquire(acquireCtx)
	if err != nil {
		logger.Error("Database: Не удалось получить соединение", err,
			zap.Duration("acquire_timeout", m.acquireTimeout))
		return nil, fmt.Errorf("%w: %w", ErrConnection, err)
	}
	return conn, nil
}

func (m *Manager) Query(ctx context.Context, sql string, args ...any) ([]Row, error) {
	start := time.Now()

	conn, err := m.Acquire(ctx)
	if err != nil {
		return nil, err
	}
	defer conn.Release()

	rows, err := conn.Query(ctx, sql, args...)
	if err != nil {
		logger.Error("Database: Ошибка выполнения запроса", err, zap.Duration("ms", time.Since(start)))
		return nil, fmt.Errorf("%w: %w", ErrStatement, err)
	}

	result, err := pgx.CollectRows(rows, toRow)
	if err != nil {
		logger.Error("Database: Ошибка итерации по строкам", err, zap.Duration("ms", time.Since(start)))
		return nil, fmt.Errorf("%w: итерация по строкам: %w", ErrStatement, err)
	}

	warnIfSlow(start, len(result))
	return result, nil
}

// QueryOne требует ровно одну строку в ответе.
func (m *Manager) QueryOne(ctx context.Context, sql string, args ...any) (Row, error) {
	rows, err := m.Query(ctx, sql, args...)
	if err != nil {
		return nil, err
	}
	if len(rows) != 1 {
		return nil, fmt.Errorf("%w: получено строк %d", ErrNotFoundOrAmbiguous, len(rows))
	}
	return rows[0], nil
}

// Exec выполняет запрос без результата и возвращает число затронутых строк.
func (m *Manager) Exec(ctx context.Context, sql string, args ...any) (int64, error) {
	start := time.Now()

	conn, err := m.Acquire(ctx)
	if err != nil {
		return 0, err
	}
	defer conn.Release()

	tag, err := conn.Exec(ctx, sql, args...)
	if err != nil {
		logger.Error("Database: Ошибка выполнения запроса", err, zap.Duration("ms", time.Since(start)))
		return 0, fmt.Errorf("%w: %w", ErrStatement, err)
	}

	warnIfSlow(start, int(tag.RowsAffected()))
	return tag.RowsAffected(), nil
}

func (m *Manager) Ping(ctx context.Context) error {
	if err := m.pool.Ping(ctx); err != nil {
		logger.Error("Database: Неудачная проверка ping", err)
		return fmt.Errorf("%w: проверка соединения ping: %w", ErrConnection, err)
	}
	return nil
}

func (m *Manager) Stats() Stats {
	return m.pool.Stats()
}

func (m *Manager) Close() {
	if m == nil || m.pool == nil {
		return
	}
	m.pool.Close()
	logger.Info("Database: Закрытие всех соединений PostgreSQL")
}

func toRow(row pgx.CollectableRow) (Row, error) {
	values, err := row.Values()
	if err != nil {
		return nil, err
	}

	fields := row.FieldDescriptions()
	if len(fields) != len(values) {
		return nil, fmt.Errorf("колонок %d, значений %d", len(fields), len(values))
	}

	result := make(Row, len(fields))
	for i, field := range fields {
		result[field.Name] = values[i]
	}
	return result, nil
}

func warnIfSlow(start time.Time, rows int) {
	if elapsed := time.Since(start); elapsed > slowQueryThreshold {
		logger.Warn("Database: Медленный запрос", zap.Duration("ms", elapsed), zap.Int("rows", rows))
	}
}
