package employee

import (
	"time"

	"github.com/shopspring/decimal"
)

type Employee struct {
	ID           string
	OrgID        string
	DepartmentID *string
	EmployeeCode string
	FullName     string
	Active       bool
	HireDate     time.Time
	CreatedAt    time.Time
	UpdatedAt    time.Time
	DeletedAt    *time.Time

	// Compensation history, loaded by the directory together with the
	// employee row.
	Compensations []Compensation
}

type PayFrequency string

const (
	PayFrequencyMonthly     PayFrequency = "MONTHLY"
	PayFrequencySemiMonthly PayFrequency = "SEMI_MONTHLY"
	PayFrequencyWeekly      PayFrequency = "WEEKLY"
)

type Compensation struct {
	ID            string
	EmployeeID    string
	BaseSalary    decimal.Decimal
	PayFrequency  PayFrequency
	EffectiveDate time.Time
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// CurrentCompensation returns the compensation record with the latest
// effective date not after asOf, or nil when the employee has none.
func (e *Employee) CurrentCompensation(asOf time.Time) *Compensation {
	var current *Compensation
	for i := range e.Compensations {
		c := &e.Compensations[i]
		if c.EffectiveDate.After(asOf) {
			continue
		}
		if current == nil || c.EffectiveDate.After(current.EffectiveDate) {
			current = c
		}
	}
	return current
}
