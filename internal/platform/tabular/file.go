package tabular

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
)

// File persists a table as a CSV file: one header row followed by data rows.
// Replace writes a sibling temp file and renames it over the original so a
// concurrent reader never observes a half-written table.
type File[T any] struct {
	path  string
	codec Codec[T]
}

// NewFile constructs a CSV-backed store at path.
func NewFile[T any](path string, codec Codec[T]) *File[T] {
	return &File[T]{path: path, codec: codec}
}

// Load reads every data row. A missing file is an empty store.
func (f *File[T]) Load(ctx context.Context) ([]T, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	file, err := os.Open(f.path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("tabular: open %s: %w", f.path, err)
	}
	defer func() {
		_ = file.Close()
	}()

	reader := csv.NewReader(file)
	reader.FieldsPerRecord = len(f.codec.Header)
	records, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("tabular: read %s: %w", f.path, err)
	}
	if len(records) == 0 {
		return nil, nil
	}

	rows := make([]T, 0, len(records)-1)
	for _, record := range records[1:] {
		row, err := f.codec.decodeRow(record)
		if err != nil {
			return nil, fmt.Errorf("tabular: decode %s: %w", f.path, err)
		}
		rows = append(rows, row)
	}
	return rows, nil
}

// Replace rewrites the table in full, keeping the header even when rows is
// empty.
func (f *File[T]) Replace(ctx context.Context, rows []T) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(f.path), 0o755); err != nil {
		return fmt.Errorf("tabular: mkdir: %w", err)
	}
	tmp, err := os.CreateTemp(filepath.Dir(f.path), filepath.Base(f.path)+".tmp-*")
	if err != nil {
		return fmt.Errorf("tabular: temp file: %w", err)
	}
	tmpName := tmp.Name()
	defer func() {
		_ = os.Remove(tmpName)
	}()

	writer := csv.NewWriter(tmp)
	if err := writer.Write(f.codec.Header); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("tabular: write header: %w", err)
	}
	for _, row := range rows {
		if err := writer.Write(f.codec.Encode(row)); err != nil {
			_ = tmp.Close()
			return fmt.Errorf("tabular: write row: %w", err)
		}
	}
	writer.Flush()
	if err := writer.Error(); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("tabular: flush: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("tabular: close temp: %w", err)
	}
	if err := os.Rename(tmpName, f.path); err != nil {
		return fmt.Errorf("tabular: rename: %w", err)
	}
	return nil
}

// Append adds one row, writing the header first if the file does not exist
// yet or is empty.
func (f *File[T]) Append(ctx context.Context, row T) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(f.path), 0o755); err != nil {
		return fmt.Errorf("tabular: mkdir: %w", err)
	}
	file, err := os.OpenFile(f.path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("tabular: open append %s: %w", f.path, err)
	}
	defer func() {
		_ = file.Close()
	}()

	info, err := file.Stat()
	if err != nil {
		return fmt.Errorf("tabular: stat %s: %w", f.path, err)
	}

	writer := csv.NewWriter(file)
	if info.Size() == 0 {
		if err := writer.Write(f.codec.Header); err != nil {
			return fmt.Errorf("tabular: write header: %w", err)
		}
	}
	if err := writer.Write(f.codec.Encode(row)); err != nil {
		return fmt.Errorf("tabular: write row: %w", err)
	}
	writer.Flush()
	if err := writer.Error(); err != nil {
		return fmt.Errorf("tabular: flush: %w", err)
	}
	return nil
}
