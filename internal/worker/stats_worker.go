package worker

import (
	"context"
	"time"

	"taskStore/internal/database"
	"taskStore/internal/logger"

	"go.uber.org/zap"
)

const defaultStatsInterval = time.Minute

type StatsSource interface {
	Stats() database.Stats
}

// StatsWorker периодически пишет в лог состояние пула соединений.
type StatsWorker struct {
	source   StatsSource
	interval time.Duration
}

func NewStatsWorker(source StatsSource, interval time.Duration) *StatsWorker {
	if interval <= 0 {
		interval = defaultStatsInterval
	}
	return &StatsWorker{
		source:   source,
		interval: interval,
	}
}

func (w *StatsWorker) Start(ctx context.Context) {
	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	logger.Info("Worker: Мониторинг пула запущен", zap.Duration("interval", w.interval))
	for {
		select {
		case <-ticker.C:
			w.Report()
		case <-ctx.Done():
			logger.Info("Worker: Мониторинг пула останавливается")
			return
		}
	}
}

func (w *StatsWorker) Report() database.Stats {
	stats := w.source.Stats()

	fields := []zap.Field{
		zap.Int32("max", stats.MaxConns),
		zap.Int32("total", stats.TotalConns),
		zap.Int32("acquired", stats.AcquiredConns),
		zap.Int32("idle", stats.IdleConns),
		zap.Int64("acquire_count", stats.AcquireCount),
		zap.Int64("empty_acquire_count", stats.EmptyAcquireCount),
		zap.Duration("acquire_duration", stats.AcquireDuration),
	}

	if stats.MaxConns > 0 && stats.AcquiredConns >= stats.MaxConns {
		logger.Warn("Worker: Пул соединений исчерпан", fields...)
		return stats
	}
	logger.Info("Worker: Состояние пула", fields...)
	return stats
}
