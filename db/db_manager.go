package db

import (
	"context"

	"github.com/Praveenjayasiri/Simple-User-Management-System/internal/util"
)

// operation is a unit of work executed by the manager's worker.
type operation struct {
	execute func() (interface{}, error)
	result  chan operationResult
}

type operationResult struct {
	data interface{}
	err  error
}

// DBManager serializes multi-statement writes so that read-then-write
// sequences (update, delete) never interleave.
type DBManager struct {
	ops      chan operation
	stopping chan struct{}
}

// NewDBManager creates a new database manager
func NewDBManager() *DBManager {
	m := &DBManager{
		ops:      make(chan operation, 100),
		stopping: make(chan struct{}),
	}
	go m.worker()
	return m
}

// worker processes operations one at a time
func (m *DBManager) worker() {
	for {
		select {
		case op := <-m.ops:
			data, err := op.execute()
			op.result <- operationResult{data: data, err: err}
		case <-m.stopping:
			return
		}
	}
}

// Execute runs fn on the worker, retrying while SQLite reports a lock.
func (m *DBManager) Execute(ctx context.Context, fn func() (interface{}, error)) (interface{}, error) {
	result := make(chan operationResult, 1)
	op := operation{
		execute: func() (interface{}, error) {
			return util.RetryOnLockWithResult(ctx, fn)
		},
		result: result,
	}

	select {
	case <-m.stopping:
		return nil, ErrManagerStopped
	default:
	}

	select {
	case m.ops <- op:
	case <-m.stopping:
		return nil, ErrManagerStopped
	case <-ctx.Done():
		return nil, ctx.Err()
	}

	select {
	case r := <-result:
		return r.data, r.err
	case <-m.stopping:
		return nil, ErrManagerStopped
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

// Stop stops the database manager
func (m *DBManager) Stop() {
	select {
	case <-m.stopping:
	default:
		close(m.stopping)
	}
}
