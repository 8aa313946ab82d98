// Package customers owns the authoritative customer table and every
// operation that mutates it. Mutations propagate to the dues ledger and the
// audit trail from here so the three stores move together.
package customers

import (
	"fmt"
	"strconv"
	"time"

	"github.com/duetrack/duetrack/internal/platform/tabular"
	"github.com/duetrack/duetrack/internal/shared"
)

// Statuses a customer row can carry. Deletion removes the row outright, so
// "active" is the only value the primary store ever holds in practice.
const (
	StatusActive  = "active"
	StatusDeleted = "deleted"
)

// DefaultCategory is assigned when a new customer does not specify one.
const DefaultCategory = "Regular"

// Customer is one row of the primary store. PasswordHash is the bcrypt hash;
// the plaintext only ever travels in CreatedCustomer/CredentialReset results.
type Customer struct {
	ID           int64     `json:"id"`
	Name         string    `json:"name"`
	Phone        string    `json:"phone"`
	Email        string    `json:"email"`
	Address      string    `json:"address"`
	Due          float64   `json:"due"`
	Category     string    `json:"category"`
	Status       string    `json:"status"`
	LastUpdate   time.Time `json:"last_update"`
	AddedAt      time.Time `json:"added_at"`
	Username     string    `json:"username"`
	PasswordHash string    `json:"-"`
}

// CreatedCustomer is the result of Add: the stored row plus the one-time
// plaintext password for the welcome notification.
type CreatedCustomer struct {
	Customer
	PlainPassword string `json:"password"`
}

// CredentialReset is the result of ResetCredentials. PlainPassword is the new
// password, or the literal "[unchanged]" when no password was supplied.
type CredentialReset struct {
	Customer
	PlainPassword string `json:"password"`
}

// AddInput carries the caller-supplied fields for a new customer.
type AddInput struct {
	Name     string
	Phone    string
	Address  string
	Due      float64
	Category string
	Email    string
}

// Codec maps Customer to the persisted column set. The due column is coerced:
// an unparseable value decodes as 0 rather than failing the whole load, which
// keeps the reminder scheduler alive on a hand-edited table.
func Codec() tabular.Codec[Customer] {
	return tabular.Codec[Customer]{
		Header: []string{"id", "name", "phone", "email", "address", "due", "category", "status", "last_update", "added_at", "username", "password"},
		Encode: func(c Customer) []string {
			return []string{
				strconv.FormatInt(c.ID, 10),
				c.Name,
				c.Phone,
				c.Email,
				c.Address,
				strconv.FormatFloat(c.Due, 'f', -1, 64),
				c.Category,
				c.Status,
				shared.FormatTime(c.LastUpdate),
				shared.FormatTime(c.AddedAt),
				c.Username,
				c.PasswordHash,
			}
		},
		Decode: func(fields []string) (Customer, error) {
			id, err := strconv.ParseInt(fields[0], 10, 64)
			if err != nil {
				return Customer{}, fmt.Errorf("customers: parse id %q: %w", fields[0], err)
			}
			due, err := strconv.ParseFloat(fields[5], 64)
			if err != nil {
				due = 0
			}
			lastUpdate, err := shared.ParseTime(fields[8])
			if err != nil {
				return Customer{}, fmt.Errorf("customers: parse last_update %q: %w", fields[8], err)
			}
			addedAt, err := shared.ParseTime(fields[9])
			if err != nil {
				return Customer{}, fmt.Errorf("customers: parse added_at %q: %w", fields[9], err)
			}
			return Customer{
				ID:           id,
				Name:         fields[1],
				Phone:        fields[2],
				Email:        fields[3],
				Address:      fields[4],
				Due:          due,
				Category:     fields[6],
				Status:       fields[7],
				LastUpdate:   lastUpdate,
				AddedAt:      addedAt,
				Username:     fields[10],
				PasswordHash: fields[11],
			}, nil
		},
	}
}
