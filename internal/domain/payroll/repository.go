package payroll

import "context"

// SnapshotRunner executes fn with every store read inside one consistent
// read-only snapshot. The snapshot context must stay on a single
// goroutine.
type SnapshotRunner interface {
	ReadSnapshot(ctx context.Context, fn func(ctx context.Context) error) error
}

// TransitionMeta carries actor and reason for an audited transition.
type TransitionMeta struct {
	ActorID string
	Reason  *string
}

// Store is the persistence interface for payroll records. Transition must
// compare-and-set against the current persisted status so that two
// concurrent transitions on the same record cannot both succeed.
type Store interface {
	// Find returns the record for (employee, period), or (nil, nil) when
	// none exists.
	Find(ctx context.Context, employeeID string, period Period) (*Payroll, error)

	Create(ctx context.Context, p Payroll) (Payroll, error)

	// Transition atomically moves the record from the expected status to
	// the target status, returning *InvalidStateTransitionError when the
	// persisted status no longer matches from.
	Transition(ctx context.Context, id string, from, to Status, meta TransitionMeta) (Payroll, error)

	ListByPeriod(ctx context.Context, orgID string, deptID *string, period Period) ([]Payroll, error)
}
