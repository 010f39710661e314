package overtime

import "time"

type Status string

const (
	StatusPending  Status = "PENDING"
	StatusApproved Status = "APPROVED"
	StatusRejected Status = "REJECTED"
)

// Overtime is a request for extra minutes linked to a time entry.
type Overtime struct {
	ID               string
	TimeEntryID      string
	EmployeeID       string
	OrgID            string
	WorkDate         time.Time
	RequestedMinutes int
	ApprovedMinutes  int
	Status           Status
	CreatedAt        time.Time
	UpdatedAt        time.Time
}
