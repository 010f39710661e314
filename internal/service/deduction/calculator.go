package deduction

import (
	"github.com/cmlabs-hris/payroll-engine-go/internal/domain/deduction"
	"github.com/shopspring/decimal"
)

var sixty = decimal.NewFromInt(60)

// Rates are the employee rate figures the policy formulas draw on, taken
// from the work schedule.
type Rates struct {
	HourlyRate decimal.Decimal
	DailyRate  decimal.Decimal
}

// AbsenceResult distinguishes a policy-driven absence deduction from the
// daily-rate fallback used when no absence policy is configured.
type AbsenceResult struct {
	Amount       decimal.Decimal
	UsedFallback bool
}

// Accumulator enforces the per-period cap across a sequence of
// per-occurrence deductions. The per-day cap is applied to each candidate
// first, then the running total is clamped to the period cap.
type Accumulator struct {
	maxPerDay    *decimal.Decimal
	maxPerPeriod *decimal.Decimal
	total        decimal.Decimal
}

func NewAccumulator(maxPerDay, maxPerPeriod *decimal.Decimal) *Accumulator {
	return &Accumulator{maxPerDay: maxPerDay, maxPerPeriod: maxPerPeriod}
}

// Add applies both caps to the candidate and returns the amount actually
// charged for this occurrence.
func (a *Accumulator) Add(candidate decimal.Decimal) decimal.Decimal {
	if candidate.IsNegative() {
		candidate = decimal.Zero
	}
	if a.maxPerDay != nil && candidate.GreaterThan(*a.maxPerDay) {
		candidate = *a.maxPerDay
	}
	if a.maxPerPeriod != nil {
		remaining := a.maxPerPeriod.Sub(a.total)
		if remaining.IsNegative() {
			remaining = decimal.Zero
		}
		if candidate.GreaterThan(remaining) {
			candidate = remaining
		}
	}
	a.total = a.total.Add(candidate)
	return candidate
}

func (a *Accumulator) Total() decimal.Decimal {
	return a.total
}

// LateDeduction computes the deduction for one day's lateness. The
// policy's grace period is subtracted from the raw late minutes before any
// formula applies; lateness below the grace threshold deducts nothing but
// is still recorded as a metric by the caller.
func LateDeduction(policy *deduction.Policy, lateMinutes int, rates Rates, acc *Accumulator) decimal.Decimal {
	if policy == nil || lateMinutes <= 0 {
		return decimal.Zero
	}

	effective := lateMinutes - policy.GracePeriodMinutes
	if effective <= 0 {
		return decimal.Zero
	}

	var candidate decimal.Decimal
	switch policy.Method {
	case deduction.MethodHourlyRate:
		hours := decimal.NewFromInt(int64(effective)).Div(sixty)
		candidate = rates.HourlyRate.Mul(policy.Multiplier).Mul(hours)
	case deduction.MethodFixed:
		candidate = policy.FixedAmount
	case deduction.MethodPercentage:
		candidate = policy.Rate.Mul(rates.DailyRate)
	default:
		return decimal.Zero
	}

	return acc.Add(candidate)
}

// AbsenceDeduction computes the deduction for absent work days. Without a
// configured policy the daily rate is charged directly; that fallback is
// reported explicitly, never silently.
func AbsenceDeduction(policy *deduction.Policy, absentDays int, rates Rates, acc *Accumulator) AbsenceResult {
	if absentDays <= 0 {
		return AbsenceResult{Amount: decimal.Zero}
	}

	if policy == nil {
		total := decimal.Zero
		for i := 0; i < absentDays; i++ {
			total = total.Add(acc.Add(rates.DailyRate))
		}
		return AbsenceResult{Amount: total, UsedFallback: true}
	}

	var perDay decimal.Decimal
	switch policy.Method {
	case deduction.MethodHourlyRate:
		// An absent day charges the full scheduled day at the hourly
		// formula's multiplier.
		perDay = rates.DailyRate.Mul(policy.Multiplier)
	case deduction.MethodFixed:
		perDay = policy.FixedAmount
	case deduction.MethodPercentage:
		perDay = policy.Rate.Mul(rates.DailyRate)
	default:
		return AbsenceResult{Amount: decimal.Zero}
	}

	total := decimal.Zero
	for i := 0; i < absentDays; i++ {
		total = total.Add(acc.Add(perDay))
	}
	return AbsenceResult{Amount: total}
}
