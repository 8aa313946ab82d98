package audit

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func ts(day int) time.Time {
	return time.Date(2026, 3, day, 12, 0, 0, 0, time.UTC)
}

func TestRecentActivityMergesAndSortsDescending(t *testing.T) {
	trail := NewMemoryTrail()
	service := NewService(trail)
	ctx := context.Background()

	require.NoError(t, trail.Added.Append(ctx, AddedRecord{
		Snapshot: Snapshot{CustomerID: 1, Name: "Jane Doe", Due: 500},
		AddedAt:  ts(1),
	}))
	require.NoError(t, trail.Updated.Append(ctx, UpdatedRecord{
		Snapshot:   Snapshot{CustomerID: 1, Name: "Jane Doe", Due: 750},
		UpdatedDue: 750,
		UpdatedAt:  ts(3),
	}))
	require.NoError(t, trail.Partial.Append(ctx, PartialRecord{
		Snapshot:   Snapshot{CustomerID: 1, Name: "Jane Doe", Due: 750},
		PartialDue: 600,
		PartialAt:  ts(4),
	}))
	require.NoError(t, trail.Deleted.Append(ctx, DeletedRecord{
		Snapshot:  Snapshot{CustomerID: 2, Name: "John Smith", Status: "deleted"},
		DeletedAt: ts(2),
	}))

	rows, err := service.RecentActivity(ctx, 0)
	require.NoError(t, err)
	require.Len(t, rows, 4)
	require.Equal(t, []string{KindPartial, KindUpdated, KindDeleted, KindAdded}, []string{
		rows[0].Kind, rows[1].Kind, rows[2].Kind, rows[3].Kind,
	})

	require.NotNil(t, rows[0].ChangedDue)
	require.Equal(t, 600.0, *rows[0].ChangedDue)
	require.Nil(t, rows[3].ChangedDue)
}

func TestRecentActivityHonorsLimit(t *testing.T) {
	trail := NewMemoryTrail()
	service := NewService(trail)
	ctx := context.Background()

	for day := 1; day <= 5; day++ {
		require.NoError(t, trail.Added.Append(ctx, AddedRecord{
			Snapshot: Snapshot{CustomerID: int64(day)},
			AddedAt:  ts(day),
		}))
	}

	rows, err := service.RecentActivity(ctx, 2)
	require.NoError(t, err)
	require.Len(t, rows, 2)
	require.Equal(t, int64(5), rows[0].CustomerID)
	require.Equal(t, int64(4), rows[1].CustomerID)
}

func TestUserTransactionsMergesPaymentsAndDeletions(t *testing.T) {
	trail := NewMemoryTrail()
	service := NewService(trail)
	ctx := context.Background()

	require.NoError(t, trail.Payments.Append(ctx, PaymentRecord{
		CustomerID:  1,
		Username:    "janedoe",
		Name:        "Jane Doe",
		AmountPaid:  200,
		NewDue:      300,
		PaymentDate: ts(1),
	}))
	require.NoError(t, trail.Deletions.Append(ctx, AccountDeletionRecord{
		CustomerID: 1,
		Username:   "janedoe",
		Name:       "Jane Doe",
		DeletedAt:  ts(2),
	}))

	rows, err := service.UserTransactions(ctx, 10)
	require.NoError(t, err)
	require.Len(t, rows, 2)
	require.Equal(t, KindAccountDeleted, rows[0].Kind)
	require.Equal(t, KindPayment, rows[1].Kind)
	require.Equal(t, 200.0, rows[1].AmountPaid)
}
