package util

import (
	"context"
	"strings"
	"time"
)

const (
	maxRetries = 3
	baseDelay  = 100 * time.Millisecond
)

// IsLockError reports whether err is a SQLite lock/busy error.
func IsLockError(err error) bool {
	if err == nil {
		return false
	}
	msg := err.Error()
	return strings.Contains(msg, "database is locked") || strings.Contains(msg, "database table is locked")
}

// RetryOnLock retries the given function if it fails with a database lock error
func RetryOnLock(ctx context.Context, operation func() error) error {
	_, err := RetryOnLockWithResult(ctx, func() (struct{}, error) {
		return struct{}{}, operation()
	})
	return err
}

// RetryOnLockWithResult retries operation with exponential backoff
// (100ms, 200ms, 400ms) while it fails with a lock error.
func RetryOnLockWithResult[T any](ctx context.Context, operation func() (T, error)) (T, error) {
	var result T
	var err error

	for i := 0; i < maxRetries; i++ {
		result, err = operation()
		if !IsLockError(err) {
			return result, err
		}

		delay := baseDelay * time.Duration(1<<i)
		select {
		case <-time.After(delay):
		case <-ctx.Done():
			return result, ctx.Err()
		}
	}

	// If we've exhausted all retries, return the last result and error
	return result, err
}
