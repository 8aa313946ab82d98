package dues

import (
	"context"
	"fmt"
	"time"

	"github.com/duetrack/duetrack/internal/platform/tabular"
)

// Ledger wraps the dues store with the synchronization primitives the
// customer operations rely on.
type Ledger struct {
	store tabular.Store[Entry]
}

// NewLedger constructs a Ledger over the given store.
func NewLedger(store tabular.Store[Entry]) *Ledger {
	return &Ledger{store: store}
}

// Entries returns every ledger row.
func (l *Ledger) Entries(ctx context.Context) ([]Entry, error) {
	return l.store.Load(ctx)
}

// Append adds a fresh row for a newly created customer.
func (l *Ledger) Append(ctx context.Context, e Entry) error {
	return l.store.Append(ctx, e)
}

// SyncDue updates due_amount and last_message_date for the given customer.
// A zero `at` defaults to now. A customer missing from the ledger is silently
// skipped; the store of record already holds the new due and the ledger is a
// best-effort projection.
func (l *Ledger) SyncDue(ctx context.Context, customerID int64, newDue float64, at time.Time) error {
	entries, err := l.store.Load(ctx)
	if err != nil {
		return fmt.Errorf("dues: load: %w", err)
	}
	if at.IsZero() {
		at = time.Now()
	}
	found := false
	for i := range entries {
		if entries[i].ID == customerID {
			entries[i].DueAmount = newDue
			entries[i].LastMessageDate = at
			found = true
		}
	}
	if !found {
		return nil
	}
	return l.store.Replace(ctx, entries)
}

// Remove drops the row for the given customer, if present.
func (l *Ledger) Remove(ctx context.Context, customerID int64) error {
	entries, err := l.store.Load(ctx)
	if err != nil {
		return fmt.Errorf("dues: load: %w", err)
	}
	kept := entries[:0]
	for _, e := range entries {
		if e.ID != customerID {
			kept = append(kept, e)
		}
	}
	return l.store.Replace(ctx, kept)
}

// Clear removes every row, keeping the header.
func (l *Ledger) Clear(ctx context.Context) error {
	return l.store.Replace(ctx, nil)
}
