package bracket

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// NoMatchingBracketError means no configured table covers the requested
// amount and date. It is fatal for the computation that hit it: defaulting
// to zero would silently understate money owed.
type NoMatchingBracketError struct {
	Kind   Kind
	Amount decimal.Decimal
	AsOf   time.Time
}

func (e *NoMatchingBracketError) Error() string {
	return fmt.Sprintf("no %s bracket covers amount %s as of %s",
		e.Kind, e.Amount.String(), e.AsOf.Format("2006-01-02"))
}
