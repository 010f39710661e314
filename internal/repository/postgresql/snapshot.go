package postgresql

import (
	"context"

	"github.com/cmlabs-hris/payroll-engine-go/internal/domain/payroll"
	"github.com/cmlabs-hris/payroll-engine-go/internal/pkg/database"
	"github.com/jackc/pgx/v5"
)

type snapshotRunner struct {
	db *database.DB
}

func NewSnapshotRunner(db *database.DB) payroll.SnapshotRunner {
	return &snapshotRunner{db: db}
}

// ReadSnapshot runs fn inside a read-only REPEATABLE READ transaction,
// so every store read inside fn observes the same database snapshot.
func (r *snapshotRunner) ReadSnapshot(ctx context.Context, fn func(ctx context.Context) error) error {
	opts := pgx.TxOptions{
		IsoLevel:   pgx.RepeatableRead,
		AccessMode: pgx.ReadOnly,
	}
	return WithTransaction(ctx, r.db, opts, fn)
}
