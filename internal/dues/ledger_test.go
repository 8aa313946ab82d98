package dues

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/duetrack/duetrack/internal/platform/tabular"
)

func newLedger() (*Ledger, tabular.Store[Entry]) {
	store := tabular.NewMemory[Entry]()
	return NewLedger(store), store
}

func TestSyncDueUpdatesAmountAndDate(t *testing.T) {
	ledger, _ := newLedger()
	ctx := context.Background()

	require.NoError(t, ledger.Append(ctx, Entry{ID: 1, Name: "Jane Doe", DueAmount: 500}))

	at := time.Date(2026, 3, 1, 9, 30, 0, 0, time.UTC)
	require.NoError(t, ledger.SyncDue(ctx, 1, 350, at))

	entries, err := ledger.Entries(ctx)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	require.Equal(t, 350.0, entries[0].DueAmount)
	require.Equal(t, at, entries[0].LastMessageDate)
}

func TestSyncDueZeroTimeDefaultsToNow(t *testing.T) {
	ledger, _ := newLedger()
	ctx := context.Background()

	require.NoError(t, ledger.Append(ctx, Entry{ID: 1, DueAmount: 100}))
	require.NoError(t, ledger.SyncDue(ctx, 1, 80, time.Time{}))

	entries, err := ledger.Entries(ctx)
	require.NoError(t, err)
	require.WithinDuration(t, time.Now(), entries[0].LastMessageDate, time.Minute)
}

func TestSyncDueMissingCustomerIsNoOp(t *testing.T) {
	ledger, _ := newLedger()
	ctx := context.Background()

	require.NoError(t, ledger.Append(ctx, Entry{ID: 1, DueAmount: 100}))
	require.NoError(t, ledger.SyncDue(ctx, 42, 999, time.Time{}))

	entries, err := ledger.Entries(ctx)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	require.Equal(t, 100.0, entries[0].DueAmount)
}

func TestRemoveDropsOnlyMatchingRow(t *testing.T) {
	ledger, _ := newLedger()
	ctx := context.Background()

	require.NoError(t, ledger.Append(ctx, Entry{ID: 1}))
	require.NoError(t, ledger.Append(ctx, Entry{ID: 2}))
	require.NoError(t, ledger.Remove(ctx, 1))

	entries, err := ledger.Entries(ctx)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	require.Equal(t, int64(2), entries[0].ID)
}

func TestClearEmptiesLedger(t *testing.T) {
	ledger, _ := newLedger()
	ctx := context.Background()

	require.NoError(t, ledger.Append(ctx, Entry{ID: 1}))
	require.NoError(t, ledger.Clear(ctx))

	entries, err := ledger.Entries(ctx)
	require.NoError(t, err)
	require.Empty(t, entries)
}
