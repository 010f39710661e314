package holiday

import (
	"time"

	"github.com/shopspring/decimal"
)

type Type string

const (
	TypeRegular           Type = "REGULAR"
	TypeSpecialNonWorking Type = "SPECIAL_NON_WORKING"
)

type Holiday struct {
	ID                   string
	OrgID                string
	Date                 time.Time
	Name                 string
	Type                 Type
	PayMultiplier        decimal.Decimal
	PaidIfNotWorked      bool
	CountsTowardOvertime bool
	CreatedAt            time.Time
	UpdatedAt            time.Time
}
