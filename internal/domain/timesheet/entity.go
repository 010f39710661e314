package timesheet

import "time"

// TimeEntry is one employee's attendance record for one work date.
// Entries are immutable once closed.
type TimeEntry struct {
	ID                 string
	EmployeeID         string
	OrgID              string
	WorkDate           time.Time // truncated to the work day, not a timestamp
	ClockIn            *time.Time
	ClockOut           *time.Time
	TotalWorkedMinutes int
	Closed             bool
	Breaks             []Break
	CreatedAt          time.Time
	UpdatedAt          time.Time
}

type Break struct {
	ID          string
	TimeEntryID string
	Start       time.Time
	End         *time.Time
}
