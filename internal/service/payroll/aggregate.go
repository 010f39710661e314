package payroll

import (
	"github.com/cmlabs-hris/payroll-engine-go/internal/domain/holiday"
	"github.com/cmlabs-hris/payroll-engine-go/internal/domain/overtime"
	"github.com/cmlabs-hris/payroll-engine-go/internal/domain/payroll"
)

// overtimeSection counts the period's overtime requests and partitions
// them by status. Rejected requests are excluded from both partitions.
func overtimeSection(items []overtime.Overtime) payroll.OvertimeSection {
	section := payroll.OvertimeSection{
		TotalRequests: len(items),
	}

	for _, ot := range items {
		switch ot.Status {
		case overtime.StatusApproved:
			section.Approved++
			section.ApprovedMinutes += ot.ApprovedMinutes
		case overtime.StatusPending:
			section.Pending++
		}
	}

	return section
}

// holidaySection computes schedule-aware holiday impact. An employee is
// affected only when the holiday falls on one of their expected work days;
// employees without schedule information count as unknown impact, not as
// affected.
func holidaySection(holidays []holiday.Holiday, evaluated []evaluatedEmployee) payroll.HolidaySection {
	section := payroll.HolidaySection{
		Count: len(holidays),
	}

	for _, h := range holidays {
		impact := payroll.HolidayImpact{
			Date: h.Date.Format("2006-01-02"),
			Name: h.Name,
			Type: string(h.Type),
		}

		for i := range evaluated {
			ev := &evaluated[i]
			if !ev.eligible() {
				continue
			}
			if ev.sched == nil {
				impact.UnknownImpact++
				continue
			}
			if ev.sched.IsWorkDay(h.Date.Weekday()) {
				impact.AffectedEmployees++
			}
		}

		section.Impacts = append(section.Impacts, impact)
	}

	return section
}
