package payroll

import (
	"fmt"
	"time"

	"github.com/cmlabs-hris/payroll-engine-go/internal/domain/employee"
	"github.com/cmlabs-hris/payroll-engine-go/internal/domain/payroll"
	"github.com/cmlabs-hris/payroll-engine-go/internal/domain/schedule"
)

type eligibilityBucket string

const (
	bucketWithSchedule    eligibilityBucket = "with_schedule"
	bucketWithoutSchedule eligibilityBucket = "without_schedule"
	bucketIneligible      eligibilityBucket = "ineligible"
)

// evaluatedEmployee is one pool member after eligibility classification.
// Exactly one bucket per employee: a missing schedule keeps the employee
// eligible and becomes a warning, never a second ineligibility.
type evaluatedEmployee struct {
	emp    employee.Employee
	comp   *employee.Compensation
	sched  *schedule.WorkSchedule
	bucket eligibilityBucket
}

func (e *evaluatedEmployee) eligible() bool {
	return e.bucket != bucketIneligible
}

// classify assigns the single eligibility bucket for an employee given its
// resolved compensation and schedule.
func classify(emp employee.Employee, asOf time.Time, sched *schedule.WorkSchedule) evaluatedEmployee {
	ev := evaluatedEmployee{emp: emp, sched: sched}

	ev.comp = emp.CurrentCompensation(asOf)
	if ev.comp == nil {
		ev.bucket = bucketIneligible
		return ev
	}

	if sched == nil {
		ev.bucket = bucketWithoutSchedule
		return ev
	}

	ev.bucket = bucketWithSchedule
	return ev
}

// eligibilitySection reduces the classified pool into the summary section.
func eligibilitySection(evaluated []evaluatedEmployee) payroll.EligibilitySection {
	section := payroll.EligibilitySection{
		TotalEmployees: len(evaluated),
	}

	for i := range evaluated {
		ev := &evaluated[i]
		switch ev.bucket {
		case bucketWithSchedule:
			section.EligibleWithSchedule++
		case bucketWithoutSchedule:
			section.EligibleWithoutSchedule++
			section.Warnings = append(section.Warnings,
				fmt.Sprintf("employee %s (%s) has no work schedule; attendance facts will be unknown", ev.emp.FullName, ev.emp.ID))
		case bucketIneligible:
			section.Ineligible++
			section.Excluded = append(section.Excluded, payroll.ExcludedEmployee{
				EmployeeID: ev.emp.ID,
				Name:       ev.emp.FullName,
				Reason:     payroll.ExclusionMissingSalary,
			})
		}
	}

	return section
}
