package customers

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/duetrack/duetrack/internal/audit"
	"github.com/duetrack/duetrack/internal/dues"
	"github.com/duetrack/duetrack/internal/platform/httpx"
	"github.com/duetrack/duetrack/internal/platform/tabular"
)

// PasswordUnchanged is returned from ResetCredentials when the password was
// not part of the reset.
const PasswordUnchanged = "[unchanged]"

// CredentialAuthority produces login credentials and one-way hashes. The
// concrete implementation lives in the auth package.
type CredentialAuthority interface {
	Generate(name string) (username, password string)
	Hash(password string) (string, error)
}

// Service applies every customer mutation. A single mutex serializes
// mutations so the customer store write, the ledger sync and the audit append
// of one operation form one critical section; concurrent readers (the
// scheduler) see either the old or the new table, never a mix.
type Service struct {
	mu     sync.Mutex
	store  tabular.Store[Customer]
	ledger *dues.Ledger
	trail  *audit.Trail
	creds  CredentialAuthority
}

// NewService wires the customer store with its derived stores.
func NewService(store tabular.Store[Customer], ledger *dues.Ledger, trail *audit.Trail, creds CredentialAuthority) *Service {
	return &Service{store: store, ledger: ledger, trail: trail, creds: creds}
}

// List returns all customers, or only active ones, in store order.
func (s *Service) List(ctx context.Context, activeOnly bool) ([]Customer, error) {
	all, err := s.store.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("customers: load: %w", err)
	}
	if !activeOnly {
		return all, nil
	}
	active := make([]Customer, 0, len(all))
	for _, c := range all {
		if c.Status == StatusActive {
			active = append(active, c)
		}
	}
	return active, nil
}

// Add creates a customer with the next id, generated credentials and an
// active status, mirrors it into the dues ledger and logs the creation. The
// plaintext password is returned once and never stored.
func (s *Service) Add(ctx context.Context, in AddInput) (*CreatedCustomer, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	all, err := s.store.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("customers: load: %w", err)
	}

	var maxID int64
	for _, c := range all {
		if c.ID > maxID {
			maxID = c.ID
		}
	}

	username, password := s.creds.Generate(in.Name)
	hash, err := s.creds.Hash(password)
	if err != nil {
		return nil, fmt.Errorf("customers: hash password: %w", err)
	}

	category := in.Category
	if category == "" {
		category = DefaultCategory
	}

	now := time.Now()
	cust := Customer{
		ID:           maxID + 1,
		Name:         in.Name,
		Phone:        in.Phone,
		Email:        in.Email,
		Address:      in.Address,
		Due:          in.Due,
		Category:     category,
		Status:       StatusActive,
		LastUpdate:   now,
		AddedAt:      now,
		Username:     username,
		PasswordHash: hash,
	}

	if err := s.store.Replace(ctx, append(all, cust)); err != nil {
		return nil, fmt.Errorf("customers: persist: %w", err)
	}

	if err := s.trail.Added.Append(ctx, audit.AddedRecord{
		Snapshot: snapshot(cust),
		AddedAt:  now,
	}); err != nil {
		return nil, fmt.Errorf("customers: audit add: %w", err)
	}

	if err := s.ledger.Append(ctx, dues.Entry{
		ID:        cust.ID,
		Name:      cust.Name,
		Phone:     cust.Phone,
		Address:   cust.Address,
		DueAmount: cust.Due,
		DueDate:   now,
	}); err != nil {
		return nil, fmt.Errorf("customers: ledger append: %w", err)
	}

	return &CreatedCustomer{Customer: cust, PlainPassword: password}, nil
}

// UpdateDue overwrites the due, logs the update and syncs the ledger.
func (s *Service) UpdateDue(ctx context.Context, id int64, newDue float64) (*Customer, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	all, err := s.store.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("customers: load: %w", err)
	}
	idx := indexOf(all, id)
	if idx < 0 {
		return nil, httpx.ErrNotFound
	}

	now := time.Now()
	all[idx].Due = newDue
	all[idx].LastUpdate = now
	if err := s.store.Replace(ctx, all); err != nil {
		return nil, fmt.Errorf("customers: persist: %w", err)
	}
	cust := all[idx]

	if err := s.trail.Updated.Append(ctx, audit.UpdatedRecord{
		Snapshot:   snapshot(cust),
		UpdatedDue: newDue,
		UpdatedAt:  now,
	}); err != nil {
		return nil, fmt.Errorf("customers: audit update: %w", err)
	}

	if err := s.ledger.SyncDue(ctx, id, newDue, time.Time{}); err != nil {
		return nil, fmt.Errorf("customers: ledger sync: %w", err)
	}
	return &cust, nil
}

// RecordPartialPayment subtracts amount from the due. The balance may go
// negative; that signals an overpayment, not an error. The audit row keeps
// the pre-payment due and last_update alongside the new balance.
func (s *Service) RecordPartialPayment(ctx context.Context, id int64, amount float64) (*Customer, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	all, err := s.store.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("customers: load: %w", err)
	}
	idx := indexOf(all, id)
	if idx < 0 {
		return nil, httpx.ErrNotFound
	}

	before := all[idx]
	newDue := before.Due - amount
	now := time.Now()
	all[idx].Due = newDue
	all[idx].LastUpdate = now
	if err := s.store.Replace(ctx, all); err != nil {
		return nil, fmt.Errorf("customers: persist: %w", err)
	}

	if err := s.trail.Partial.Append(ctx, audit.PartialRecord{
		Snapshot:   snapshot(before),
		PartialDue: newDue,
		PartialAt:  now,
	}); err != nil {
		return nil, fmt.Errorf("customers: audit partial: %w", err)
	}

	if err := s.ledger.SyncDue(ctx, id, newDue, now); err != nil {
		return nil, fmt.Errorf("customers: ledger sync: %w", err)
	}
	cust := all[idx]
	return &cust, nil
}

// ResetCredentials updates whichever of username/password were supplied and
// returns the new plaintext password, or PasswordUnchanged.
func (s *Service) ResetCredentials(ctx context.Context, id int64, newUsername, newPassword string) (*CredentialReset, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	all, err := s.store.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("customers: load: %w", err)
	}
	idx := indexOf(all, id)
	if idx < 0 {
		return nil, httpx.ErrNotFound
	}

	changed := false
	if newUsername != "" {
		all[idx].Username = newUsername
		changed = true
	}
	if newPassword != "" {
		hash, err := s.creds.Hash(newPassword)
		if err != nil {
			return nil, fmt.Errorf("customers: hash password: %w", err)
		}
		all[idx].PasswordHash = hash
		changed = true
	}
	if changed {
		all[idx].LastUpdate = time.Now()
		if err := s.store.Replace(ctx, all); err != nil {
			return nil, fmt.Errorf("customers: persist: %w", err)
		}
	}

	plain := PasswordUnchanged
	if newPassword != "" {
		plain = newPassword
	}
	return &CredentialReset{Customer: all[idx], PlainPassword: plain}, nil
}

// Delete removes the customer from the store and the ledger and logs the
// removal. The removed record is returned.
func (s *Service) Delete(ctx context.Context, id int64) (*Customer, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.remove(ctx, id, func(cust Customer, now time.Time) error {
		snap := snapshot(cust)
		snap.Status = StatusDeleted
		return s.trail.Deleted.Append(ctx, audit.DeletedRecord{Snapshot: snap, DeletedAt: now})
	})
}

// DeleteAll empties the store and the ledger, logging one deletion per
// customer with a shared timestamp. Headers survive.
func (s *Service) DeleteAll(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	all, err := s.store.Load(ctx)
	if err != nil {
		return fmt.Errorf("customers: load: %w", err)
	}
	if len(all) == 0 {
		return nil
	}

	now := time.Now()
	for _, cust := range all {
		snap := snapshot(cust)
		snap.Status = StatusDeleted
		if err := s.trail.Deleted.Append(ctx, audit.DeletedRecord{Snapshot: snap, DeletedAt: now}); err != nil {
			return fmt.Errorf("customers: audit delete: %w", err)
		}
	}
	if err := s.store.Replace(ctx, nil); err != nil {
		return fmt.Errorf("customers: clear: %w", err)
	}
	if err := s.ledger.Clear(ctx); err != nil {
		return fmt.Errorf("customers: ledger clear: %w", err)
	}
	return nil
}

// PayDue applies a customer-initiated payment: same arithmetic as a partial
// payment, logged to the user-payment trail under the acting username.
func (s *Service) PayDue(ctx context.Context, username string, id int64, amount float64) (*Customer, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	all, err := s.store.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("customers: load: %w", err)
	}
	idx := indexOf(all, id)
	if idx < 0 {
		return nil, httpx.ErrNotFound
	}

	newDue := all[idx].Due - amount
	now := time.Now()
	all[idx].Due = newDue
	all[idx].LastUpdate = now
	if err := s.store.Replace(ctx, all); err != nil {
		return nil, fmt.Errorf("customers: persist: %w", err)
	}

	if err := s.ledger.SyncDue(ctx, id, newDue, time.Time{}); err != nil {
		return nil, fmt.Errorf("customers: ledger sync: %w", err)
	}

	if err := s.trail.Payments.Append(ctx, audit.PaymentRecord{
		CustomerID:  id,
		Username:    username,
		Name:        all[idx].Name,
		AmountPaid:  amount,
		NewDue:      newDue,
		PaymentDate: now,
	}); err != nil {
		return nil, fmt.Errorf("customers: audit payment: %w", err)
	}
	cust := all[idx]
	return &cust, nil
}

// DeleteAccount removes the acting customer's own account. Refused while any
// due remains.
func (s *Service) DeleteAccount(ctx context.Context, username string, id int64) (*Customer, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.remove(ctx, id, func(cust Customer, now time.Time) error {
		if cust.Due > 0 {
			return fmt.Errorf("%w: due of %.2f outstanding", httpx.ErrRefused, cust.Due)
		}
		return s.trail.Deletions.Append(ctx, audit.AccountDeletionRecord{
			CustomerID: id,
			Username:   username,
			Name:       cust.Name,
			DeletedAt:  now,
		})
	})
}

// remove is shared by Delete and DeleteAccount: find, let the caller guard
// and log, then drop the row from both stores. Callers must hold the mutex.
func (s *Service) remove(ctx context.Context, id int64, logFn func(Customer, time.Time) error) (*Customer, error) {
	all, err := s.store.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("customers: load: %w", err)
	}
	idx := indexOf(all, id)
	if idx < 0 {
		return nil, httpx.ErrNotFound
	}

	cust := all[idx]
	if err := logFn(cust, time.Now()); err != nil {
		return nil, err
	}

	kept := append(all[:idx:idx], all[idx+1:]...)
	if err := s.store.Replace(ctx, kept); err != nil {
		return nil, fmt.Errorf("customers: persist: %w", err)
	}
	if err := s.ledger.Remove(ctx, id); err != nil {
		return nil, fmt.Errorf("customers: ledger remove: %w", err)
	}
	return &cust, nil
}

func indexOf(all []Customer, id int64) int {
	for i := range all {
		if all[i].ID == id {
			return i
		}
	}
	return -1
}

func snapshot(c Customer) audit.Snapshot {
	return audit.Snapshot{
		CustomerID: c.ID,
		Name:       c.Name,
		Phone:      c.Phone,
		Email:      c.Email,
		Address:    c.Address,
		Due:        c.Due,
		LastUpdate: c.LastUpdate,
		Status:     c.Status,
	}
}
