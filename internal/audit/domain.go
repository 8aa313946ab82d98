// Package audit keeps the append-only event logs: one log per event kind,
// each row a flat snapshot of the customer at the time of the event. Rows are
// historical facts; nothing here is ever rewritten.
package audit

import (
	"fmt"
	"strconv"
	"time"

	"github.com/duetrack/duetrack/internal/platform/tabular"
	"github.com/duetrack/duetrack/internal/shared"
)

// Snapshot carries the customer fields every admin-side log projects.
type Snapshot struct {
	CustomerID int64     `json:"id"`
	Name       string    `json:"name"`
	Phone      string    `json:"phone"`
	Email      string    `json:"email"`
	Address    string    `json:"address"`
	Due        float64   `json:"due"`
	LastUpdate time.Time `json:"last_update"`
	Status     string    `json:"status"`
}

// AddedRecord logs a customer creation.
type AddedRecord struct {
	Snapshot
	AddedAt time.Time `json:"added_at"`
}

// UpdatedRecord logs a due overwrite. Due holds the post-update value.
type UpdatedRecord struct {
	Snapshot
	UpdatedDue float64   `json:"updated_due"`
	UpdatedAt  time.Time `json:"updated_at"`
}

// PartialRecord logs a partial payment. Due and LastUpdate hold the values
// from before the payment was applied; PartialDue holds the new balance.
type PartialRecord struct {
	Snapshot
	PartialDue float64   `json:"partial_due"`
	PartialAt  time.Time `json:"partial_at"`
}

// DeletedRecord logs a removal; Status is always "deleted".
type DeletedRecord struct {
	Snapshot
	DeletedAt time.Time `json:"deleted_at"`
}

// SignInRecord logs a successful customer login.
type SignInRecord struct {
	Timestamp  time.Time `json:"timestamp"`
	CustomerID int64     `json:"customer_id"`
	Username   string    `json:"username"`
	Name       string    `json:"name"`
	LoginType  string    `json:"login_type"`
}

// PaymentRecord logs a customer-initiated payment.
type PaymentRecord struct {
	CustomerID  int64     `json:"id"`
	Username    string    `json:"username"`
	Name        string    `json:"name"`
	AmountPaid  float64   `json:"amount_paid"`
	NewDue      float64   `json:"new_due"`
	PaymentDate time.Time `json:"payment_date"`
}

// AccountDeletionRecord logs a customer-initiated account removal.
type AccountDeletionRecord struct {
	CustomerID int64     `json:"id"`
	Username   string    `json:"username"`
	Name       string    `json:"name"`
	DeletedAt  time.Time `json:"deleted_at"`
}

func snapshotHeader() []string {
	return []string{"id", "name", "phone", "email", "address", "due", "last_update", "status"}
}

func encodeSnapshot(s Snapshot) []string {
	return []string{
		strconv.FormatInt(s.CustomerID, 10),
		s.Name,
		s.Phone,
		s.Email,
		s.Address,
		strconv.FormatFloat(s.Due, 'f', -1, 64),
		shared.FormatTime(s.LastUpdate),
		s.Status,
	}
}

func decodeSnapshot(fields []string) (Snapshot, error) {
	id, err := strconv.ParseInt(fields[0], 10, 64)
	if err != nil {
		return Snapshot{}, fmt.Errorf("audit: parse id %q: %w", fields[0], err)
	}
	due, err := strconv.ParseFloat(fields[5], 64)
	if err != nil {
		return Snapshot{}, fmt.Errorf("audit: parse due %q: %w", fields[5], err)
	}
	lastUpdate, err := shared.ParseTime(fields[6])
	if err != nil {
		return Snapshot{}, fmt.Errorf("audit: parse last_update %q: %w", fields[6], err)
	}
	return Snapshot{
		CustomerID: id,
		Name:       fields[1],
		Phone:      fields[2],
		Email:      fields[3],
		Address:    fields[4],
		Due:        due,
		LastUpdate: lastUpdate,
		Status:     fields[7],
	}, nil
}

// AddedCodec maps AddedRecord to its persisted columns.
func AddedCodec() tabular.Codec[AddedRecord] {
	return tabular.Codec[AddedRecord]{
		Header: append(snapshotHeader(), "added_at"),
		Encode: func(r AddedRecord) []string {
			return append(encodeSnapshot(r.Snapshot), shared.FormatTime(r.AddedAt))
		},
		Decode: func(fields []string) (AddedRecord, error) {
			snap, err := decodeSnapshot(fields[:8])
			if err != nil {
				return AddedRecord{}, err
			}
			at, err := shared.ParseTime(fields[8])
			if err != nil {
				return AddedRecord{}, fmt.Errorf("audit: parse added_at %q: %w", fields[8], err)
			}
			return AddedRecord{Snapshot: snap, AddedAt: at}, nil
		},
	}
}

// UpdatedCodec maps UpdatedRecord to its persisted columns.
func UpdatedCodec() tabular.Codec[UpdatedRecord] {
	return tabular.Codec[UpdatedRecord]{
		Header: append(snapshotHeader(), "updated_due", "updated_at"),
		Encode: func(r UpdatedRecord) []string {
			return append(encodeSnapshot(r.Snapshot),
				strconv.FormatFloat(r.UpdatedDue, 'f', -1, 64),
				shared.FormatTime(r.UpdatedAt),
			)
		},
		Decode: func(fields []string) (UpdatedRecord, error) {
			snap, err := decodeSnapshot(fields[:8])
			if err != nil {
				return UpdatedRecord{}, err
			}
			updatedDue, err := strconv.ParseFloat(fields[8], 64)
			if err != nil {
				return UpdatedRecord{}, fmt.Errorf("audit: parse updated_due %q: %w", fields[8], err)
			}
			at, err := shared.ParseTime(fields[9])
			if err != nil {
				return UpdatedRecord{}, fmt.Errorf("audit: parse updated_at %q: %w", fields[9], err)
			}
			return UpdatedRecord{Snapshot: snap, UpdatedDue: updatedDue, UpdatedAt: at}, nil
		},
	}
}

// PartialCodec maps PartialRecord to its persisted columns.
func PartialCodec() tabular.Codec[PartialRecord] {
	return tabular.Codec[PartialRecord]{
		Header: append(snapshotHeader(), "partial_due", "partial_at"),
		Encode: func(r PartialRecord) []string {
			return append(encodeSnapshot(r.Snapshot),
				strconv.FormatFloat(r.PartialDue, 'f', -1, 64),
				shared.FormatTime(r.PartialAt),
			)
		},
		Decode: func(fields []string) (PartialRecord, error) {
			snap, err := decodeSnapshot(fields[:8])
			if err != nil {
				return PartialRecord{}, err
			}
			partialDue, err := strconv.ParseFloat(fields[8], 64)
			if err != nil {
				return PartialRecord{}, fmt.Errorf("audit: parse partial_due %q: %w", fields[8], err)
			}
			at, err := shared.ParseTime(fields[9])
			if err != nil {
				return PartialRecord{}, fmt.Errorf("audit: parse partial_at %q: %w", fields[9], err)
			}
			return PartialRecord{Snapshot: snap, PartialDue: partialDue, PartialAt: at}, nil
		},
	}
}

// DeletedCodec maps DeletedRecord to its persisted columns.
func DeletedCodec() tabular.Codec[DeletedRecord] {
	return tabular.Codec[DeletedRecord]{
		Header: append(snapshotHeader(), "deleted_at"),
		Encode: func(r DeletedRecord) []string {
			return append(encodeSnapshot(r.Snapshot), shared.FormatTime(r.DeletedAt))
		},
		Decode: func(fields []string) (DeletedRecord, error) {
			snap, err := decodeSnapshot(fields[:8])
			if err != nil {
				return DeletedRecord{}, err
			}
			at, err := shared.ParseTime(fields[8])
			if err != nil {
				return DeletedRecord{}, fmt.Errorf("audit: parse deleted_at %q: %w", fields[8], err)
			}
			return DeletedRecord{Snapshot: snap, DeletedAt: at}, nil
		},
	}
}

// SignInCodec maps SignInRecord to its persisted columns.
func SignInCodec() tabular.Codec[SignInRecord] {
	return tabular.Codec[SignInRecord]{
		Header: []string{"timestamp", "customer_id", "username", "name", "login_type"},
		Encode: func(r SignInRecord) []string {
			return []string{
				shared.FormatTime(r.Timestamp),
				strconv.FormatInt(r.CustomerID, 10),
				r.Username,
				r.Name,
				r.LoginType,
			}
		},
		Decode: func(fields []string) (SignInRecord, error) {
			ts, err := shared.ParseTime(fields[0])
			if err != nil {
				return SignInRecord{}, fmt.Errorf("audit: parse timestamp %q: %w", fields[0], err)
			}
			id, err := strconv.ParseInt(fields[1], 10, 64)
			if err != nil {
				return SignInRecord{}, fmt.Errorf("audit: parse customer_id %q: %w", fields[1], err)
			}
			return SignInRecord{
				Timestamp:  ts,
				CustomerID: id,
				Username:   fields[2],
				Name:       fields[3],
				LoginType:  fields[4],
			}, nil
		},
	}
}

// PaymentCodec maps PaymentRecord to its persisted columns.
func PaymentCodec() tabular.Codec[PaymentRecord] {
	return tabular.Codec[PaymentRecord]{
		Header: []string{"id", "username", "name", "amount_paid", "new_due", "payment_date"},
		Encode: func(r PaymentRecord) []string {
			return []string{
				strconv.FormatInt(r.CustomerID, 10),
				r.Username,
				r.Name,
				strconv.FormatFloat(r.AmountPaid, 'f', -1, 64),
				strconv.FormatFloat(r.NewDue, 'f', -1, 64),
				shared.FormatTime(r.PaymentDate),
			}
		},
		Decode: func(fields []string) (PaymentRecord, error) {
			id, err := strconv.ParseInt(fields[0], 10, 64)
			if err != nil {
				return PaymentRecord{}, fmt.Errorf("audit: parse id %q: %w", fields[0], err)
			}
			paid, err := strconv.ParseFloat(fields[3], 64)
			if err != nil {
				return PaymentRecord{}, fmt.Errorf("audit: parse amount_paid %q: %w", fields[3], err)
			}
			newDue, err := strconv.ParseFloat(fields[4], 64)
			if err != nil {
				return PaymentRecord{}, fmt.Errorf("audit: parse new_due %q: %w", fields[4], err)
			}
			at, err := shared.ParseTime(fields[5])
			if err != nil {
				return PaymentRecord{}, fmt.Errorf("audit: parse payment_date %q: %w", fields[5], err)
			}
			return PaymentRecord{
				CustomerID:  id,
				Username:    fields[1],
				Name:        fields[2],
				AmountPaid:  paid,
				NewDue:      newDue,
				PaymentDate: at,
			}, nil
		},
	}
}

// AccountDeletionCodec maps AccountDeletionRecord to its persisted columns.
func AccountDeletionCodec() tabular.Codec[AccountDeletionRecord] {
	return tabular.Codec[AccountDeletionRecord]{
		Header: []string{"id", "username", "name", "deleted_at"},
		Encode: func(r AccountDeletionRecord) []string {
			return []string{
				strconv.FormatInt(r.CustomerID, 10),
				r.Username,
				r.Name,
				shared.FormatTime(r.DeletedAt),
			}
		},
		Decode: func(fields []string) (AccountDeletionRecord, error) {
			id, err := strconv.ParseInt(fields[0], 10, 64)
			if err != nil {
				return AccountDeletionRecord{}, fmt.Errorf("audit: parse id %q: %w", fields[0], err)
			}
			at, err := shared.ParseTime(fields[3])
			if err != nil {
				return AccountDeletionRecord{}, fmt.Errorf("audit: parse deleted_at %q: %w", fields[3], err)
			}
			return AccountDeletionRecord{
				CustomerID: id,
				Username:   fields[1],
				Name:       fields[2],
				DeletedAt:  at,
			}, nil
		},
	}
}
