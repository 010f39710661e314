package payroll

import (
	"time"

	"github.com/cmlabs-hris/payroll-engine-go/internal/domain/payroll"
	"github.com/cmlabs-hris/payroll-engine-go/internal/domain/timesheet"
	"github.com/cmlabs-hris/payroll-engine-go/internal/service/worktime"
)

// employeeEntries indexes a period's time entries per employee, then per
// work date.
type employeeEntries map[string]map[string]timesheet.TimeEntry

func indexEntries(entries []timesheet.TimeEntry) employeeEntries {
	idx := make(employeeEntries)
	for _, e := range entries {
		byDate, ok := idx[e.EmployeeID]
		if !ok {
			byDate = make(map[string]timesheet.TimeEntry)
			idx[e.EmployeeID] = byDate
		}
		byDate[dateKey(e.WorkDate)] = e
	}
	return idx
}

func dateKey(t time.Time) string {
	return t.Format("2006-01-02")
}

// reconcileEmployee produces one eligible employee's attendance facts for
// the period. AttendanceStatus is assigned exactly once; without a
// schedule the absence count stays nil (unknown), never zero.
func reconcileEmployee(ev *evaluatedEmployee, byDate map[string]timesheet.TimeEntry, period payroll.Period) payroll.EmployeeAttendance {
	att := payroll.EmployeeAttendance{
		EmployeeID: ev.emp.ID,
		Name:       ev.emp.FullName,
		DaysWorked: len(byDate),
	}

	if ev.sched == nil {
		att.Status = payroll.AttendanceUnknown
		return att
	}

	expected := worktime.WorkDaysForPeriod(ev.sched, period.Start, period.End)
	expectedCount := len(expected)
	att.ExpectedWorkDays = &expectedCount

	absences := 0
	for _, day := range expected {
		if _, ok := byDate[dateKey(day)]; !ok {
			absences++
		}
	}
	att.AbsenceDays = &absences

	for _, entry := range byDate {
		if entry.ClockIn == nil || entry.ClockOut == nil {
			continue
		}
		res := worktime.Validate(ev.sched, *entry.ClockIn, *entry.ClockOut)
		att.LateMinutes += res.LateMinutes
		att.UndertimeMinutes += res.UndertimeMinutes
	}

	if len(byDate) > 0 {
		att.Status = payroll.AttendancePresent
	} else {
		att.Status = payroll.AttendanceAbsent
	}

	return att
}

// attendanceSection reduces per-employee facts into the summary section.
// Missing employees are listed by ID from the eligible population with
// zero entries, not derived by headcount subtraction.
func attendanceSection(evaluated []evaluatedEmployee, perEmployee []payroll.EmployeeAttendance, idx employeeEntries) payroll.AttendanceSection {
	section := payroll.AttendanceSection{
		PerEmployee: perEmployee,
	}

	for i := range evaluated {
		ev := &evaluated[i]
		if !ev.eligible() {
			continue
		}
		section.ExpectedEmployees++
		if len(idx[ev.emp.ID]) > 0 {
			section.EmployeesWithEntries++
		} else {
			section.MissingEmployeeIDs = append(section.MissingEmployeeIDs, ev.emp.ID)
		}
	}

	section.Complete = len(section.MissingEmployeeIDs) == 0
	return section
}
