package bracket

import (
	"context"
	"time"
)

// Store is the read-side interface to the statutory rate tables.
type Store interface {
	// GetTables returns the brackets of the given kind whose effective
	// window covers asOf, ordered by MinAmount ascending.
	GetTables(ctx context.Context, kind Kind, asOf time.Time) ([]Bracket, error)
}
