package tabular

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

type row struct {
	ID   int64
	Name string
}

func rowCodec() Codec[row] {
	return Codec[row]{
		Header: []string{"id", "name"},
		Encode: func(r row) []string {
			return []string{strconv.FormatInt(r.ID, 10), r.Name}
		},
		Decode: func(fields []string) (row, error) {
			id, err := strconv.ParseInt(fields[0], 10, 64)
			if err != nil {
				return row{}, fmt.Errorf("parse id: %w", err)
			}
			return row{ID: id, Name: fields[1]}, nil
		},
	}
}

func TestFileLoadMissingFileIsEmpty(t *testing.T) {
	store := NewFile(filepath.Join(t.TempDir(), "rows.csv"), rowCodec())

	rows, err := store.Load(context.Background())
	require.NoError(t, err)
	require.Empty(t, rows)
}

func TestFileAppendWritesHeaderOnce(t *testing.T) {
	path := filepath.Join(t.TempDir(), "rows.csv")
	store := NewFile(path, rowCodec())
	ctx := context.Background()

	require.NoError(t, store.Append(ctx, row{ID: 1, Name: "Jane Doe"}))
	require.NoError(t, store.Append(ctx, row{ID: 2, Name: "John Smith"}))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	require.Len(t, lines, 3)
	require.Equal(t, "id,name", lines[0])

	rows, err := store.Load(ctx)
	require.NoError(t, err)
	require.Len(t, rows, 2)
	require.Equal(t, "John Smith", rows[1].Name)
}

func TestFileReplaceKeepsHeaderWhenEmpty(t *testing.T) {
	path := filepath.Join(t.TempDir(), "rows.csv")
	store := NewFile(path, rowCodec())
	ctx := context.Background()

	require.NoError(t, store.Append(ctx, row{ID: 1, Name: "Jane Doe"}))
	require.NoError(t, store.Replace(ctx, nil))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	require.Equal(t, "id,name", strings.TrimSpace(string(data)))

	rows, err := store.Load(ctx)
	require.NoError(t, err)
	require.Empty(t, rows)
}

func TestFileReplaceRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "rows.csv")
	store := NewFile(path, rowCodec())
	ctx := context.Background()

	want := []row{{ID: 1, Name: "Jane Doe"}, {ID: 2, Name: "John, Smith"}}
	require.NoError(t, store.Replace(ctx, want))

	got, err := store.Load(ctx)
	require.NoError(t, err)
	require.Equal(t, want, got)
}

func TestFileLoadRejectsRaggedRows(t *testing.T) {
	path := filepath.Join(t.TempDir(), "rows.csv")
	require.NoError(t, os.WriteFile(path, []byte("id,name\n1,Jane,extra\n"), 0o644))

	store := NewFile(path, rowCodec())
	_, err := store.Load(context.Background())
	require.Error(t, err)
}

func TestMemoryStoreIsolation(t *testing.T) {
	store := NewMemory[row]()
	ctx := context.Background()

	require.NoError(t, store.Append(ctx, row{ID: 1, Name: "Jane Doe"}))
	rows, err := store.Load(ctx)
	require.NoError(t, err)

	// Mutating the loaded slice must not leak back into the store.
	rows[0].Name = "changed"
	again, err := store.Load(ctx)
	require.NoError(t, err)
	require.Equal(t, "Jane Doe", again[0].Name)
}
