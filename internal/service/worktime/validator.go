package worktime

import (
	"time"

	"github.com/cmlabs-hris/payroll-engine-go/internal/domain/schedule"
)

// Result holds the day-level facts for one clock-in/out pair measured
// against the schedule.
type Result struct {
	LateMinutes      int
	UndertimeMinutes int
}

// Validate compares a clock-in/out pair against the schedule for the day
// the entry belongs to. Lateness is measured from the scheduled start with
// the grace period subtracted; undertime is measured against the scheduled
// end. Approved overtime and undertime exceptions are handled upstream.
func Validate(sched *schedule.WorkSchedule, clockIn, clockOut time.Time) Result {
	var res Result

	schedStart := sched.StartOn(clockIn)
	schedEnd := sched.EndOn(clockIn)

	if clockIn.After(schedStart) {
		lateness := int(clockIn.Sub(schedStart).Minutes())
		lateness -= sched.GracePeriodMinutes
		if lateness > 0 {
			res.LateMinutes = lateness
		}
	}

	if clockOut.Before(schedEnd) {
		res.UndertimeMinutes = int(schedEnd.Sub(clockOut).Minutes())
	}

	return res
}

// WorkDaysForPeriod enumerates each calendar date in [start, end] whose
// weekday is in the schedule's working-day set. This is the
// expected-attendance denominator used by absence counting.
func WorkDaysForPeriod(sched *schedule.WorkSchedule, start, end time.Time) []time.Time {
	var days []time.Time

	day := time.Date(start.Year(), start.Month(), start.Day(), 0, 0, 0, 0, start.Location())
	last := time.Date(end.Year(), end.Month(), end.Day(), 0, 0, 0, 0, end.Location())

	for !day.After(last) {
		if sched.IsWorkDay(day.Weekday()) {
			days = append(days, day)
		}
		day = day.AddDate(0, 0, 1)
	}

	return days
}
