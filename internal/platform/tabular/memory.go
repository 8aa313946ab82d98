package tabular

import (
	"context"
	"sync"
)

// Memory keeps the table in process memory. Used by tests and as a scratch
// backend; it honours the same insertion-order contract as the file store.
type Memory[T any] struct {
	mu   sync.RWMutex
	rows []T
}

// NewMemory constructs an empty in-memory store.
func NewMemory[T any]() *Memory[T] {
	return &Memory[T]{}
}

// Load returns a copy of all rows.
func (m *Memory[T]) Load(ctx context.Context) ([]T, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]T, len(m.rows))
	copy(out, m.rows)
	return out, nil
}

// Replace swaps in the given rows wholesale.
func (m *Memory[T]) Replace(ctx context.Context, rows []T) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.rows = make([]T, len(rows))
	copy(m.rows, rows)
	return nil
}

// Append adds one row at the end.
func (m *Memory[T]) Append(ctx context.Context, row T) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.rows = append(m.rows, row)
	return nil
}
