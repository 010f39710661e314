package overtime

import (
	"context"
	"time"
)

type Store interface {
	ListByPeriod(ctx context.Context, orgID string, deptID *string, start, end time.Time) ([]Overtime, error)
}
