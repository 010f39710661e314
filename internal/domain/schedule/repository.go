package schedule

import "context"

// Store is the read-side interface to the work-schedule store.
type Store interface {
	// GetByEmployee returns the employee's schedule, or (nil, nil) when no
	// schedule is configured. A nil schedule is not an error; callers must
	// never translate store failures into "no schedule".
	GetByEmployee(ctx context.Context, employeeID string) (*WorkSchedule, error)

	// ListByEmployees returns the schedules for the given employees,
	// keyed by employee ID. Employees without a schedule are simply
	// absent from the map.
	ListByEmployees(ctx context.Context, employeeIDs []string) (map[string]*WorkSchedule, error)
}
