package deduction

import (
	"time"

	"github.com/shopspring/decimal"
)

type PolicyType string

const (
	PolicyTypeLate    PolicyType = "LATE"
	PolicyTypeAbsence PolicyType = "ABSENCE"
)

type Method string

const (
	MethodHourlyRate Method = "HOURLY_RATE"
	MethodFixed      Method = "FIXED"
	MethodPercentage Method = "PERCENTAGE"
)

// Policy is an organization-configured deduction rule for lateness or
// absence.
type Policy struct {
	ID    string
	OrgID string
	Type  PolicyType

	Method             Method
	GracePeriodMinutes int
	Multiplier         decimal.Decimal // HOURLY_RATE multiplier on the hourly rate
	Rate               decimal.Decimal // PERCENTAGE rate on the daily rate
	FixedAmount        decimal.Decimal // FIXED flat amount per occurrence

	MaxPerDay    *decimal.Decimal
	MaxPerPeriod *decimal.Decimal

	CreatedAt time.Time
	UpdatedAt time.Time
}
