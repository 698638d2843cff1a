package task

import "time"

type TaskOption func(*Task)

func WithExpiration(expiredAt time.Time) TaskOption {
	if expiredAt.IsZero() {
		return nil
	}
	return func(task *Task) {
		utc := expiredAt.UTC()
		task.ExpiredAt = &utc
	}
}

// WithExpirationPtr удобен, когда срок пришёл из JSON или флага и может отсутствовать.
func WithExpirationPtr(expiredAt *time.Time) TaskOption {
	if expiredAt == nil {
		return nil
	}
	return WithExpiration(*expiredAt)
}
