// Package tabular provides header+rows table stores with a
// load-all/replace-all contract and append-only writes.
package tabular

import (
	"context"
	"fmt"
)

// Codec maps a row type to and from its column values. Header order and
// Encode/Decode order must agree.
type Codec[T any] struct {
	Header []string
	Encode func(T) []string
	Decode func([]string) (T, error)
}

// Store is the persistence contract shared by every table in the system.
// Load returns every row in insertion order; a store that has never been
// written is empty, not an error. Replace rewrites the whole table. Append
// adds a single row without touching existing ones.
type Store[T any] interface {
	Load(ctx context.Context) ([]T, error)
	Replace(ctx context.Context, rows []T) error
	Append(ctx context.Context, row T) error
}

func (c Codec[T]) decodeRow(fields []string) (T, error) {
	var zero T
	if len(fields) != len(c.Header) {
		return zero, fmt.Errorf("tabular: row has %d fields, header has %d", len(fields), len(c.Header))
	}
	return c.Decode(fields)
}
