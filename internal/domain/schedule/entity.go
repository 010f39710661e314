package schedule

import (
	"time"

	"github.com/shopspring/decimal"
)

// WorkSchedule describes the expected working pattern for one employee's
// current compensation. Employees without a schedule are a first-class,
// non-fatal condition everywhere in the engine.
type WorkSchedule struct {
	ID                 string
	EmployeeID         string
	WorkingDays        []time.Weekday
	StartMinute        int // minutes from midnight, local to the org
	EndMinute          int
	GracePeriodMinutes int

	OvertimeRate  decimal.Decimal // multiplier, e.g. 1.25
	HolidayRate   decimal.Decimal
	NightDiffRate decimal.Decimal

	MonthlyRate decimal.Decimal
	DailyRate   decimal.Decimal
	HourlyRate  decimal.Decimal

	CreatedAt time.Time
	UpdatedAt time.Time
}

// IsWorkDay reports whether the given weekday is part of the schedule.
func (s *WorkSchedule) IsWorkDay(d time.Weekday) bool {
	for _, wd := range s.WorkingDays {
		if wd == d {
			return true
		}
	}
	return false
}

// StartOn anchors the scheduled start time on the given calendar date.
func (s *WorkSchedule) StartOn(date time.Time) time.Time {
	return time.Date(date.Year(), date.Month(), date.Day(), 0, 0, 0, 0, date.Location()).
		Add(time.Duration(s.StartMinute) * time.Minute)
}

// EndOn anchors the scheduled end time on the given calendar date.
func (s *WorkSchedule) EndOn(date time.Time) time.Time {
	return time.Date(date.Year(), date.Month(), date.Day(), 0, 0, 0, 0, date.Location()).
		Add(time.Duration(s.EndMinute) * time.Minute)
}
