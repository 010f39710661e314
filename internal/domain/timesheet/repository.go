package timesheet

import (
	"context"
	"time"
)

// Store is the read-side interface to raw time-entry capture.
type Store interface {
	// ListByPeriod returns every time entry whose work date falls inside
	// [start, end], scoped to the organization and optional department.
	ListByPeriod(ctx context.Context, orgID string, deptID *string, start, end time.Time) ([]TimeEntry, error)
}
