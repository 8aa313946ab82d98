package audit

import (
	"context"
	"path/filepath"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/duetrack/duetrack/internal/platform/tabular"
)

// Trail groups the seven append-only logs. Writers append through the typed
// stores; the activity queries read across them.
type Trail struct {
	Added     tabular.Store[AddedRecord]
	Updated   tabular.Store[UpdatedRecord]
	Partial   tabular.Store[PartialRecord]
	Deleted   tabular.Store[DeletedRecord]
	SignIns   tabular.Store[SignInRecord]
	Payments  tabular.Store[PaymentRecord]
	Deletions tabular.Store[AccountDeletionRecord]
}

// NewMemoryTrail builds a Trail over in-memory stores, used by tests.
func NewMemoryTrail() *Trail {
	return &Trail{
		Added:     tabular.NewMemory[AddedRecord](),
		Updated:   tabular.NewMemory[UpdatedRecord](),
		Partial:   tabular.NewMemory[PartialRecord](),
		Deleted:   tabular.NewMemory[DeletedRecord](),
		SignIns:   tabular.NewMemory[SignInRecord](),
		Payments:  tabular.NewMemory[PaymentRecord](),
		Deletions: tabular.NewMemory[AccountDeletionRecord](),
	}
}

// NewFileTrail builds a Trail over CSV files in dir.
func NewFileTrail(dir string) *Trail {
	return &Trail{
		Added:     tabular.NewFile(filepath.Join(dir, "added_records.csv"), AddedCodec()),
		Updated:   tabular.NewFile(filepath.Join(dir, "updated_records.csv"), UpdatedCodec()),
		Partial:   tabular.NewFile(filepath.Join(dir, "partial_payments.csv"), PartialCodec()),
		Deleted:   tabular.NewFile(filepath.Join(dir, "deleted_records.csv"), DeletedCodec()),
		SignIns:   tabular.NewFile(filepath.Join(dir, "signin_records.csv"), SignInCodec()),
		Payments:  tabular.NewFile(filepath.Join(dir, "user_payments.csv"), PaymentCodec()),
		Deletions: tabular.NewFile(filepath.Join(dir, "account_deletions.csv"), AccountDeletionCodec()),
	}
}

// NewPostgresTrail builds a Trail over postgres tables, creating them when
// missing.
func NewPostgresTrail(ctx context.Context, pool *pgxpool.Pool) (*Trail, error) {
	added := tabular.NewPostgres(pool, "audit_added_records", AddedCodec())
	updated := tabular.NewPostgres(pool, "audit_updated_records", UpdatedCodec())
	partial := tabular.NewPostgres(pool, "audit_partial_payments", PartialCodec())
	deleted := tabular.NewPostgres(pool, "audit_deleted_records", DeletedCodec())
	signIns := tabular.NewPostgres(pool, "audit_signin_records", SignInCodec())
	payments := tabular.NewPostgres(pool, "audit_user_payments", PaymentCodec())
	deletions := tabular.NewPostgres(pool, "audit_account_deletions", AccountDeletionCodec())

	for _, ensure := range []func(context.Context) error{
		added.EnsureSchema,
		updated.EnsureSchema,
		partial.EnsureSchema,
		deleted.EnsureSchema,
		signIns.EnsureSchema,
		payments.EnsureSchema,
		deletions.EnsureSchema,
	} {
		if err := ensure(ctx); err != nil {
			return nil, err
		}
	}

	return &Trail{
		Added:     added,
		Updated:   updated,
		Partial:   partial,
		Deleted:   deleted,
		SignIns:   signIns,
		Payments:  payments,
		Deletions: deletions,
	}, nil
}
