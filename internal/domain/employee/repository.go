package employee

import "context"

// Directory is the read-side interface to the employee/organization store.
// All methods scope by orgID to prevent cross-organization data access.
type Directory interface {
	// ListEligiblePool returns the active employees in scope for a payroll
	// run, with compensation history preloaded. deptID narrows the pool to
	// a single department when non-nil.
	ListEligiblePool(ctx context.Context, orgID string, deptID *string) ([]Employee, error)

	// GetByID returns one employee with compensation history preloaded.
	GetByID(ctx context.Context, orgID, employeeID string) (*Employee, error)
}
