package tabular

import (
	"context"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/duetrack/duetrack/internal/platform/db"
)

// Postgres persists a table in a postgres relation with one text column per
// header entry plus an internal seq column preserving insertion order. The
// replace-all contract maps to DELETE + COPY inside a single transaction.
type Postgres[T any] struct {
	pool  *pgxpool.Pool
	table string
	codec Codec[T]
}

// NewPostgres constructs a postgres-backed store over the named table.
func NewPostgres[T any](pool *pgxpool.Pool, table string, codec Codec[T]) *Postgres[T] {
	return &Postgres[T]{pool: pool, table: table, codec: codec}
}

// EnsureSchema creates the backing relation when it does not exist.
func (p *Postgres[T]) EnsureSchema(ctx context.Context) error {
	cols := make([]string, 0, len(p.codec.Header))
	for _, name := range p.codec.Header {
		cols = append(cols, pgx.Identifier{name}.Sanitize()+" TEXT NOT NULL DEFAULT ''")
	}
	query := fmt.Sprintf(
		"CREATE TABLE IF NOT EXISTS %s (seq BIGSERIAL PRIMARY KEY, %s)",
		pgx.Identifier{p.table}.Sanitize(),
		strings.Join(cols, ", "),
	)
	if _, err := p.pool.Exec(ctx, query); err != nil {
		return fmt.Errorf("tabular: ensure schema %s: %w", p.table, err)
	}
	return nil
}

// Load reads every row ordered by insertion.
func (p *Postgres[T]) Load(ctx context.Context) ([]T, error) {
	query := fmt.Sprintf(
		"SELECT %s FROM %s ORDER BY seq",
		p.columnList(),
		pgx.Identifier{p.table}.Sanitize(),
	)
	rows, err := p.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("tabular: load %s: %w", p.table, err)
	}
	defer rows.Close()

	var out []T
	fields := make([]string, len(p.codec.Header))
	scan := make([]any, len(fields))
	for i := range fields {
		scan[i] = &fields[i]
	}
	for rows.Next() {
		if err := rows.Scan(scan...); err != nil {
			return nil, fmt.Errorf("tabular: scan %s: %w", p.table, err)
		}
		record := make([]string, len(fields))
		copy(record, fields)
		row, err := p.codec.decodeRow(record)
		if err != nil {
			return nil, fmt.Errorf("tabular: decode %s: %w", p.table, err)
		}
		out = append(out, row)
	}
	return out, rows.Err()
}

// Replace rewrites the table in one transaction.
func (p *Postgres[T]) Replace(ctx context.Context, rows []T) error {
	return db.WithTx(ctx, p.pool, func(tx pgx.Tx) error {
		if _, err := tx.Exec(ctx, "DELETE FROM "+pgx.Identifier{p.table}.Sanitize()); err != nil {
			return fmt.Errorf("tabular: clear %s: %w", p.table, err)
		}
		if len(rows) == 0 {
			return nil
		}
		source := make([][]any, 0, len(rows))
		for _, row := range rows {
			fields := p.codec.Encode(row)
			values := make([]any, len(fields))
			for i, f := range fields {
				values[i] = f
			}
			source = append(source, values)
		}
		if _, err := tx.CopyFrom(ctx, pgx.Identifier{p.table}, p.codec.Header, pgx.CopyFromRows(source)); err != nil {
			return fmt.Errorf("tabular: copy %s: %w", p.table, err)
		}
		return nil
	})
}

// Append inserts one row.
func (p *Postgres[T]) Append(ctx context.Context, row T) error {
	fields := p.codec.Encode(row)
	placeholders := make([]string, len(fields))
	values := make([]any, len(fields))
	for i, f := range fields {
		placeholders[i] = fmt.Sprintf("$%d", i+1)
		values[i] = f
	}
	query := fmt.Sprintf(
		"INSERT INTO %s (%s) VALUES (%s)",
		pgx.Identifier{p.table}.Sanitize(),
		p.columnList(),
		strings.Join(placeholders, ", "),
	)
	if _, err := p.pool.Exec(ctx, query, values...); err != nil {
		return fmt.Errorf("tabular: append %s: %w", p.table, err)
	}
	return nil
}

func (p *Postgres[T]) columnList() string {
	cols := make([]string, 0, len(p.codec.Header))
	for _, name := range p.codec.Header {
		cols = append(cols, pgx.Identifier{name}.Sanitize())
	}
	return strings.Join(cols, ", ")
}
