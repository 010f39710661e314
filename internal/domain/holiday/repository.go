package holiday

import (
	"context"
	"time"
)

type Store interface {
	ListByPeriod(ctx context.Context, orgID string, start, end time.Time) ([]Holiday, error)
}
