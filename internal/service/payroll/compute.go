package payroll

import (
	"context"

	deductiondomain "github.com/cmlabs-hris/payroll-engine-go/internal/domain/deduction"
	"github.com/cmlabs-hris/payroll-engine-go/internal/domain/payroll"
	"github.com/cmlabs-hris/payroll-engine-go/internal/domain/timesheet"
	"github.com/cmlabs-hris/payroll-engine-go/internal/service/deduction"
	"github.com/cmlabs-hris/payroll-engine-go/internal/service/worktime"
	"github.com/shopspring/decimal"
)

// computeDeduction produces one eligible employee's full deduction
// breakdown: the four statutory streams from the bracket tables, then the
// policy deductions from the reconciled attendance facts. Statutory
// failures abort; missing policies fall back and are flagged.
func (s *Service) computeDeduction(
	ctx context.Context,
	ev *evaluatedEmployee,
	att payroll.EmployeeAttendance,
	byDate map[string]timesheet.TimeEntry,
	latePolicy, absencePolicy *deductiondomain.Policy,
	period payroll.Period,
) (payroll.EmployeeDeduction, error) {
	ded := payroll.EmployeeDeduction{
		EmployeeID: ev.emp.ID,
		Name:       ev.emp.FullName,
		GrossPay:   ev.comp.BaseSalary,
	}

	statutory, err := s.statutory.Compute(ctx, ev.comp.BaseSalary, period.End)
	if err != nil {
		return payroll.EmployeeDeduction{}, err
	}
	ded.Tax = statutory.Tax
	ded.Health = statutory.Health
	ded.Social = statutory.Social
	ded.Housing = statutory.Housing
	ded.GovernmentTotal = statutory.Total

	// Policy deductions need the schedule's rate figures; without a
	// schedule the attendance facts are unknown and nothing accrues.
	if ev.sched != nil {
		rates := deduction.Rates{
			HourlyRate: ev.sched.HourlyRate,
			DailyRate:  ev.sched.DailyRate,
		}

		ded.LateDeduction = s.lateDeductions(ev, byDate, latePolicy, rates)

		if att.AbsenceDays != nil {
			var acc *deduction.Accumulator
			if absencePolicy != nil {
				acc = deduction.NewAccumulator(absencePolicy.MaxPerDay, absencePolicy.MaxPerPeriod)
			} else {
				acc = deduction.NewAccumulator(nil, nil)
			}
			res := deduction.AbsenceDeduction(absencePolicy, *att.AbsenceDays, rates, acc)
			ded.AbsenceDeduction = res.Amount
			ded.AbsenceFallbackUsed = res.UsedFallback
		}
	}

	ded.PolicyTotal = ded.LateDeduction.Add(ded.AbsenceDeduction)
	ded.NetPay = ded.GrossPay.Sub(ded.GovernmentTotal).Sub(ded.PolicyTotal)

	return ded, nil
}

// lateDeductions applies the late policy per occurrence so the per-day cap
// binds each day, then the period cap binds the running total.
func (s *Service) lateDeductions(
	ev *evaluatedEmployee,
	byDate map[string]timesheet.TimeEntry,
	latePolicy *deductiondomain.Policy,
	rates deduction.Rates,
) decimal.Decimal {
	var caps *deduction.Accumulator
	if latePolicy != nil {
		caps = deduction.NewAccumulator(latePolicy.MaxPerDay, latePolicy.MaxPerPeriod)
	} else {
		caps = deduction.NewAccumulator(nil, nil)
	}

	for _, entry := range byDate {
		if entry.ClockIn == nil || entry.ClockOut == nil {
			continue
		}
		res := worktime.Validate(ev.sched, *entry.ClockIn, *entry.ClockOut)
		deduction.LateDeduction(latePolicy, res.LateMinutes, rates, caps)
	}

	return caps.Total()
}
