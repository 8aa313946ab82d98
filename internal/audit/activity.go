package audit

import (
	"context"
	"fmt"
	"sort"
	"time"
)

// Event kinds reported by the activity queries.
const (
	KindAdded          = "added"
	KindUpdated        = "updated"
	KindPartial        = "partial_payment"
	KindDeleted        = "deleted"
	KindPayment        = "payment"
	KindAccountDeleted = "account_deleted"
)

// ActivityRow is one merged row of the admin activity feed. Timestamp is the
// event-kind column of the underlying log, unified for sorting.
type ActivityRow struct {
	Kind       string    `json:"kind"`
	Timestamp  time.Time `json:"timestamp"`
	CustomerID int64     `json:"id"`
	Name       string    `json:"name"`
	Phone      string    `json:"phone"`
	Email      string    `json:"email"`
	Address    string    `json:"address"`
	Due        float64   `json:"due"`
	Status     string    `json:"status"`
	ChangedDue *float64  `json:"changed_due,omitempty"`
}

// TransactionRow is one merged row of the customer-initiated feed.
type TransactionRow struct {
	Kind       string    `json:"kind"`
	Timestamp  time.Time `json:"timestamp"`
	CustomerID int64     `json:"id"`
	Username   string    `json:"username"`
	Name       string    `json:"name"`
	AmountPaid float64   `json:"amount_paid,omitempty"`
	NewDue     float64   `json:"new_due,omitempty"`
}

// Service answers the merged activity queries over the trail.
type Service struct {
	trail *Trail
}

// NewService constructs an activity query service.
func NewService(trail *Trail) *Service {
	return &Service{trail: trail}
}

// RecentActivity merges the add/update/partial/delete logs, sorts by the
// unified timestamp descending and returns at most limit rows. Order within
// one log is insertion order; across logs only the timestamp decides.
func (s *Service) RecentActivity(ctx context.Context, limit int) ([]ActivityRow, error) {
	var rows []ActivityRow

	added, err := s.trail.Added.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("audit: load added: %w", err)
	}
	for _, r := range added {
		rows = append(rows, activityRow(KindAdded, r.Snapshot, r.AddedAt, nil))
	}

	updated, err := s.trail.Updated.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("audit: load updated: %w", err)
	}
	for _, r := range updated {
		due := r.UpdatedDue
		rows = append(rows, activityRow(KindUpdated, r.Snapshot, r.UpdatedAt, &due))
	}

	partial, err := s.trail.Partial.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("audit: load partial: %w", err)
	}
	for _, r := range partial {
		due := r.PartialDue
		rows = append(rows, activityRow(KindPartial, r.Snapshot, r.PartialAt, &due))
	}

	deleted, err := s.trail.Deleted.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("audit: load deleted: %w", err)
	}
	for _, r := range deleted {
		rows = append(rows, activityRow(KindDeleted, r.Snapshot, r.DeletedAt, nil))
	}

	sort.SliceStable(rows, func(i, j int) bool {
		return rows[i].Timestamp.After(rows[j].Timestamp)
	})
	if limit > 0 && len(rows) > limit {
		rows = rows[:limit]
	}
	return rows, nil
}

// UserTransactions merges the payment and account-deletion logs the same way.
func (s *Service) UserTransactions(ctx context.Context, limit int) ([]TransactionRow, error) {
	var rows []TransactionRow

	payments, err := s.trail.Payments.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("audit: load payments: %w", err)
	}
	for _, r := range payments {
		rows = append(rows, TransactionRow{
			Kind:       KindPayment,
			Timestamp:  r.PaymentDate,
			CustomerID: r.CustomerID,
			Username:   r.Username,
			Name:       r.Name,
			AmountPaid: r.AmountPaid,
			NewDue:     r.NewDue,
		})
	}

	deletions, err := s.trail.Deletions.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("audit: load deletions: %w", err)
	}
	for _, r := range deletions {
		rows = append(rows, TransactionRow{
			Kind:       KindAccountDeleted,
			Timestamp:  r.DeletedAt,
			CustomerID: r.CustomerID,
			Username:   r.Username,
			Name:       r.Name,
		})
	}

	sort.SliceStable(rows, func(i, j int) bool {
		return rows[i].Timestamp.After(rows[j].Timestamp)
	})
	if limit > 0 && len(rows) > limit {
		rows = rows[:limit]
	}
	return rows, nil
}

func activityRow(kind string, s Snapshot, at time.Time, changed *float64) ActivityRow {
	return ActivityRow{
		Kind:       kind,
		Timestamp:  at,
		CustomerID: s.CustomerID,
		Name:       s.Name,
		Phone:      s.Phone,
		Email:      s.Email,
		Address:    s.Address,
		Due:        s.Due,
		Status:     s.Status,
		ChangedDue: changed,
	}
}
