// Package dues maintains the derived ledger of outstanding balances used by
// the reminder scheduler. The ledger mirrors the customer store; it is a
// projection, never the source of truth.
package dues

import (
	"fmt"
	"strconv"
	"time"

	"github.com/duetrack/duetrack/internal/platform/tabular"
	"github.com/duetrack/duetrack/internal/shared"
)

// Entry is one ledger row per active customer.
type Entry struct {
	ID              int64     `json:"id"`
	Name            string    `json:"name"`
	Phone           string    `json:"phone"`
	Address         string    `json:"address"`
	DueAmount       float64   `json:"due_amount"`
	DueDate         time.Time `json:"due_date"`
	LastMessageDate time.Time `json:"last_message_date"`
}

// Codec maps Entry to the persisted column set.
func Codec() tabular.Codec[Entry] {
	return tabular.Codec[Entry]{
		Header: []string{"id", "name", "phone", "address", "due_amount", "due_date", "last_message_date"},
		Encode: func(e Entry) []string {
			return []string{
				strconv.FormatInt(e.ID, 10),
				e.Name,
				e.Phone,
				e.Address,
				strconv.FormatFloat(e.DueAmount, 'f', -1, 64),
				shared.FormatDate(e.DueDate),
				shared.FormatTime(e.LastMessageDate),
			}
		},
		Decode: func(fields []string) (Entry, error) {
			id, err := strconv.ParseInt(fields[0], 10, 64)
			if err != nil {
				return Entry{}, fmt.Errorf("dues: parse id %q: %w", fields[0], err)
			}
			amount, err := strconv.ParseFloat(fields[4], 64)
			if err != nil {
				return Entry{}, fmt.Errorf("dues: parse due_amount %q: %w", fields[4], err)
			}
			dueDate, err := shared.ParseDate(fields[5])
			if err != nil {
				return Entry{}, fmt.Errorf("dues: parse due_date %q: %w", fields[5], err)
			}
			lastMessage, err := shared.ParseTime(fields[6])
			if err != nil {
				return Entry{}, fmt.Errorf("dues: parse last_message_date %q: %w", fields[6], err)
			}
			return Entry{
				ID:              id,
				Name:            fields[1],
				Phone:           fields[2],
				Address:         fields[3],
				DueAmount:       amount,
				DueDate:         dueDate,
				LastMessageDate: lastMessage,
			}, nil
		},
	}
}
