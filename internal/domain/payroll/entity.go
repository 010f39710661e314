package payroll

import (
	"time"

	"github.com/shopspring/decimal"
)

// Status enum. Draft is the implicit "no record yet" state: a payroll row
// is only created by the generate action, already in COMPUTED.
type Status string

const (
	StatusComputed Status = "COMPUTED"
	StatusApproved Status = "APPROVED"
	StatusReleased Status = "RELEASED"
	StatusVoided   Status = "VOIDED"
)

// Terminal reports whether the status ends the lifecycle. A terminal
// record admits at most a void; RELEASED can still be voided, VOIDED
// cannot move at all.
func (s Status) Terminal() bool {
	return s == StatusReleased || s == StatusVoided
}

// Action enum for lifecycle transitions.
type Action string

const (
	ActionGenerate Action = "generate"
	ActionApprove  Action = "approve"
	ActionRelease  Action = "release"
	ActionVoid     Action = "void"
)

var ActionValues = []string{
	string(ActionGenerate),
	string(ActionApprove),
	string(ActionRelease),
	string(ActionVoid),
}

// Period is the inclusive date range a payroll run covers.
type Period struct {
	Start time.Time
	End   time.Time
}

// Key returns a stable identifier for the period, used for per-period
// serialization of mutations.
func (p Period) Key() string {
	return p.Start.Format("2006-01-02") + ".." + p.End.Format("2006-01-02")
}

// Payroll is one persisted payroll record per (employee, period). Created
// by the status machine on generate, mutated only through transitions,
// never deleted.
type Payroll struct {
	ID          string
	EmployeeID  string
	OrgID       string
	PeriodStart time.Time
	PeriodEnd   time.Time

	GrossPay         decimal.Decimal
	TaxDeduction     decimal.Decimal
	HealthDeduction  decimal.Decimal
	SocialDeduction  decimal.Decimal
	HousingDeduction decimal.Decimal
	LateDeduction    decimal.Decimal
	AbsenceDeduction decimal.Decimal
	NetPay           decimal.Decimal

	Status     Status
	VoidReason *string // set only when Status == VOIDED

	ApprovedBy *string
	ReleasedBy *string
	ApprovedAt *time.Time
	ReleasedAt *time.Time
	VoidedAt   *time.Time

	CreatedAt time.Time
	UpdatedAt time.Time
}

// Period returns the record's cutoff period.
func (p *Payroll) Period() Period {
	return Period{Start: p.PeriodStart, End: p.PeriodEnd}
}
