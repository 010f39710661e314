package payroll

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/cmlabs-hris/payroll-engine-go/internal/domain/bracket"
	deductiondomain "github.com/cmlabs-hris/payroll-engine-go/internal/domain/deduction"
	"github.com/cmlabs-hris/payroll-engine-go/internal/domain/employee"
	"github.com/cmlabs-hris/payroll-engine-go/internal/domain/holiday"
	"github.com/cmlabs-hris/payroll-engine-go/internal/domain/overtime"
	"github.com/cmlabs-hris/payroll-engine-go/internal/domain/payroll"
	"github.com/cmlabs-hris/payroll-engine-go/internal/domain/schedule"
	"github.com/cmlabs-hris/payroll-engine-go/internal/domain/timesheet"
	"github.com/cmlabs-hris/payroll-engine-go/internal/pkg/validator"
	"github.com/cmlabs-hris/payroll-engine-go/internal/service/statutory"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testOrg = "org-1"

// Period 2025-06-02 (Mon) .. 2025-06-13 (Fri): 10 weekday work days.
const (
	periodStart = "2025-06-02"
	periodEnd   = "2025-06-13"
)

func weekdaySchedule(employeeID string) *schedule.WorkSchedule {
	return &schedule.WorkSchedule{
		ID:         "sched-" + employeeID,
		EmployeeID: employeeID,
		WorkingDays: []time.Weekday{
			time.Monday, time.Tuesday, time.Wednesday, time.Thursday, time.Friday,
		},
		StartMinute:        9 * 60,
		EndMinute:          18 * 60,
		GracePeriodMinutes: 15,
		OvertimeRate:       dec("1.25"),
		HolidayRate:        dec("2"),
		NightDiffRate:      dec("1.1"),
		MonthlyRate:        dec("30000"),
		DailyRate:          dec("800"),
		HourlyRate:         dec("100"),
	}
}

func compensated(id string) employee.Employee {
	return employee.Employee{
		ID:       id,
		OrgID:    testOrg,
		FullName: "Employee " + id,
		Active:   true,
		Compensations: []employee.Compensation{{
			ID:            "comp-" + id,
			EmployeeID:    id,
			BaseSalary:    dec("30000"),
			PayFrequency:  employee.PayFrequencyMonthly,
			EffectiveDate: time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC),
		}},
	}
}

func bare(id string) employee.Employee {
	return employee.Employee{ID: id, OrgID: testOrg, FullName: "Employee " + id, Active: true}
}

func entryOn(employeeID string, date time.Time, inHour, inMin, outHour, outMin int) timesheet.TimeEntry {
	in := time.Date(date.Year(), date.Month(), date.Day(), inHour, inMin, 0, 0, time.UTC)
	out := time.Date(date.Year(), date.Month(), date.Day(), outHour, outMin, 0, 0, time.UTC)
	return timesheet.TimeEntry{
		ID:         fmt.Sprintf("te-%s-%s", employeeID, date.Format("0102")),
		EmployeeID: employeeID,
		OrgID:      testOrg,
		WorkDate:   date,
		ClockIn:    &in,
		ClockOut:   &out,
		Closed:     true,
	}
}

func flatBrackets() *fakeBracketStore {
	from := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	cap100 := dec("100")
	return &fakeBracketStore{tables: map[bracket.Kind][]bracket.Bracket{
		bracket.KindTax: {{Kind: bracket.KindTax, MinAmount: dec("0"),
			Rate: dec("0.1"), EffectiveFrom: from}},
		bracket.KindHealth: {{Kind: bracket.KindHealth, MinAmount: dec("0"),
			Rate: dec("0.02"), EffectiveFrom: from}},
		bracket.KindSocial: {{Kind: bracket.KindSocial, MinAmount: dec("0"),
			BaseAmount: dec("400"), EffectiveFrom: from}},
		bracket.KindHousing: {{Kind: bracket.KindHousing, MinAmount: dec("0"),
			Rate: dec("0.01"), MaxContribution: &cap100, EffectiveFrom: from}},
	}}
}

type fixture struct {
	directory *fakeDirectory
	schedules *fakeScheduleStore
	entries   *fakeTimesheetStore
	overtimes *fakeOvertimeStore
	holidays  *fakeHolidayStore
	policies  *fakePolicyStore
	payrolls  *fakePayrollStore
	snapshots *fakeSnapshotRunner
}

// scenarioFixture builds the 10-employee organization: emp-1 and emp-2
// fully configured, emp-3 compensated but unscheduled, emp-4..emp-10
// with neither. emp-1 attends 8 of 10 expected days.
func scenarioFixture() fixture {
	employees := []employee.Employee{
		compensated("emp-1"),
		compensated("emp-2"),
		compensated("emp-3"),
	}
	for i := 4; i <= 10; i++ {
		employees = append(employees, bare(fmt.Sprintf("emp-%d", i)))
	}

	var entries []timesheet.TimeEntry
	day := time.Date(2025, 6, 2, 0, 0, 0, 0, time.UTC)
	skipped := map[string]bool{"2025-06-05": true, "2025-06-12": true}
	for !day.After(time.Date(2025, 6, 13, 0, 0, 0, 0, time.UTC)) {
		if day.Weekday() != time.Saturday && day.Weekday() != time.Sunday && !skipped[day.Format("2006-01-02")] {
			entries = append(entries, entryOn("emp-1", day, 9, 0, 18, 0))
		}
		day = day.AddDate(0, 0, 1)
	}

	return fixture{
		directory: &fakeDirectory{employees: employees},
		schedules: &fakeScheduleStore{byEmployee: map[string]*schedule.WorkSchedule{
			"emp-1": weekdaySchedule("emp-1"),
			"emp-2": weekdaySchedule("emp-2"),
		}},
		entries:   &fakeTimesheetStore{entries: entries},
		overtimes: &fakeOvertimeStore{},
		holidays:  &fakeHolidayStore{},
		policies:  &fakePolicyStore{policies: map[deductiondomain.PolicyType]*deductiondomain.Policy{}},
		payrolls:  newFakePayrollStore(),
		snapshots: &fakeSnapshotRunner{},
	}
}

func buildService(f fixture) payroll.Service {
	calc := statutory.NewCalculator(flatBrackets())
	return NewService(f.directory, f.schedules, f.entries, f.overtimes, f.holidays, f.policies, f.payrolls, calc, f.snapshots, 4)
}

func summaryRequest() payroll.SummaryRequest {
	return payroll.SummaryRequest{OrgID: testOrg, PeriodStart: periodStart, PeriodEnd: periodEnd}
}

// ========== SUMMARY ==========

func TestGenerateSummary_EligibilityPartition(t *testing.T) {
	t.Parallel()

	svc := buildService(scenarioFixture())

	summary, err := svc.GenerateSummary(context.Background(), summaryRequest())
	require.NoError(t, err)

	elig := summary.Eligibility
	assert.Equal(t, 10, elig.TotalEmployees)
	assert.Equal(t, 2, elig.EligibleWithSchedule)
	assert.Equal(t, 1, elig.EligibleWithoutSchedule)
	assert.Equal(t, 7, elig.Ineligible)
	// every employee in exactly one bucket
	assert.Equal(t, elig.TotalEmployees,
		elig.EligibleWithSchedule+elig.EligibleWithoutSchedule+elig.Ineligible)

	require.Len(t, elig.Excluded, 7)
	for _, ex := range elig.Excluded {
		assert.Equal(t, payroll.ExclusionMissingSalary, ex.Reason)
	}
	// missing schedule shows up as a warning, not as an exclusion
	require.Len(t, elig.Warnings, 1)
	assert.Contains(t, elig.Warnings[0], "emp-3")
}

func TestGenerateSummary_AttendanceReconciliation(t *testing.T) {
	t.Parallel()

	svc := buildService(scenarioFixture())

	summary, err := svc.GenerateSummary(context.Background(), summaryRequest())
	require.NoError(t, err)

	att := summary.Attendance
	assert.Equal(t, 3, att.ExpectedEmployees)
	assert.Equal(t, 1, att.EmployeesWithEntries)
	// listed by ID from the zero-entry population, not total minus attended
	assert.ElementsMatch(t, []string{"emp-2", "emp-3"}, att.MissingEmployeeIDs)
	assert.False(t, att.Complete)

	byID := make(map[string]payroll.EmployeeAttendance)
	for _, pa := range att.PerEmployee {
		byID[pa.EmployeeID] = pa
	}

	one := byID["emp-1"]
	require.NotNil(t, one.ExpectedWorkDays)
	assert.Equal(t, 10, *one.ExpectedWorkDays)
	assert.Equal(t, 8, one.DaysWorked)
	require.NotNil(t, one.AbsenceDays)
	assert.Equal(t, 2, *one.AbsenceDays)
	assert.Equal(t, payroll.AttendancePresent, one.Status)
	assert.Equal(t, 0, one.LateMinutes)

	two := byID["emp-2"]
	require.NotNil(t, two.AbsenceDays)
	assert.Equal(t, 10, *two.AbsenceDays)
	assert.Equal(t, payroll.AttendanceAbsent, two.Status)

	// no schedule: unknown, never zero
	three := byID["emp-3"]
	assert.Nil(t, three.AbsenceDays)
	assert.Nil(t, three.ExpectedWorkDays)
	assert.Equal(t, payroll.AttendanceUnknown, three.Status)
}

func TestGenerateSummary_StatutoryDeductions(t *testing.T) {
	t.Parallel()

	svc := buildService(scenarioFixture())

	summary, err := svc.GenerateSummary(context.Background(), summaryRequest())
	require.NoError(t, err)

	byID := make(map[string]payroll.EmployeeDeduction)
	for _, d := range summary.Deductions.PerEmployee {
		byID[d.EmployeeID] = d
	}
	require.Len(t, byID, 3)

	one := byID["emp-1"]
	// tax 3000 + health 600 + social 400 + housing capped at 100
	assert.True(t, one.Tax.Equal(dec("3000")), "tax = %s", one.Tax)
	assert.True(t, one.Health.Equal(dec("600")))
	assert.True(t, one.Social.Equal(dec("400")))
	assert.True(t, one.Housing.Equal(dec("100")))
	assert.True(t, one.GovernmentTotal.Equal(dec("4100")))

	// 2 absent days at the daily-rate fallback, flagged as fallback
	assert.True(t, one.AbsenceDeduction.Equal(dec("1600")), "absence = %s", one.AbsenceDeduction)
	assert.True(t, one.AbsenceFallbackUsed)
	assert.True(t, one.NetPay.Equal(dec("30000").Sub(dec("4100")).Sub(dec("1600"))))

	// schedule-less employee still owes statutory, no policy deductions
	three := byID["emp-3"]
	assert.True(t, three.GovernmentTotal.Equal(dec("4100")))
	assert.True(t, three.PolicyTotal.IsZero())
}

func TestGenerateSummary_LateMetricWithoutPolicy(t *testing.T) {
	t.Parallel()

	f := scenarioFixture()
	// replace emp-1's first entry with a late clock-in (40 raw minutes)
	day := time.Date(2025, 6, 2, 0, 0, 0, 0, time.UTC)
	f.entries.entries[0] = entryOn("emp-1", day, 9, 40, 18, 0)
	svc := buildService(f)

	summary, err := svc.GenerateSummary(context.Background(), summaryRequest())
	require.NoError(t, err)

	var one payroll.EmployeeAttendance
	for _, pa := range summary.Attendance.PerEmployee {
		if pa.EmployeeID == "emp-1" {
			one = pa
		}
	}
	// 40 minutes minus the 15-minute schedule grace: metric recorded
	assert.Equal(t, 25, one.LateMinutes)

	// but with no late policy configured nothing is deducted
	for _, d := range summary.Deductions.PerEmployee {
		if d.EmployeeID == "emp-1" {
			assert.True(t, d.LateDeduction.IsZero())
		}
	}
}

func TestGenerateSummary_LateDeductionWithPolicy(t *testing.T) {
	t.Parallel()

	f := scenarioFixture()
	day := time.Date(2025, 6, 2, 0, 0, 0, 0, time.UTC)
	f.entries.entries[0] = entryOn("emp-1", day, 10, 15, 18, 0) // 75 raw minutes
	f.policies.policies[deductiondomain.PolicyTypeLate] = &deductiondomain.Policy{
		OrgID:      testOrg,
		Type:       deductiondomain.PolicyTypeLate,
		Method:     deductiondomain.MethodHourlyRate,
		Multiplier: dec("1"),
	}
	svc := buildService(f)

	summary, err := svc.GenerateSummary(context.Background(), summaryRequest())
	require.NoError(t, err)

	for _, d := range summary.Deductions.PerEmployee {
		if d.EmployeeID == "emp-1" {
			// worktime metric: 75-15 grace = 60 late minutes -> 1h at 100/h
			assert.True(t, d.LateDeduction.Equal(dec("100")), "late = %s", d.LateDeduction)
		}
	}
}

func TestGenerateSummary_OvertimePartition(t *testing.T) {
	t.Parallel()

	f := scenarioFixture()
	f.overtimes.items = []overtime.Overtime{
		{ID: "ot-1", EmployeeID: "emp-1", Status: overtime.StatusApproved, ApprovedMinutes: 120},
		{ID: "ot-2", EmployeeID: "emp-1", Status: overtime.StatusPending},
		{ID: "ot-3", EmployeeID: "emp-2", Status: overtime.StatusRejected},
	}
	svc := buildService(f)

	summary, err := svc.GenerateSummary(context.Background(), summaryRequest())
	require.NoError(t, err)

	ot := summary.Overtime
	assert.Equal(t, 3, ot.TotalRequests)
	assert.Equal(t, 1, ot.Approved)
	assert.Equal(t, 1, ot.Pending)
	assert.Equal(t, 120, ot.ApprovedMinutes)
}

func TestGenerateSummary_HolidayImpactScheduleAware(t *testing.T) {
	t.Parallel()

	f := scenarioFixture()
	f.holidays.items = []holiday.Holiday{
		{
			ID:    "hol-1",
			OrgID: testOrg,
			Date:  time.Date(2025, 6, 6, 0, 0, 0, 0, time.UTC), // Friday
			Name:  "Founders Day",
			Type:  holiday.TypeRegular,
		},
		{
			ID:    "hol-2",
			OrgID: testOrg,
			Date:  time.Date(2025, 6, 7, 0, 0, 0, 0, time.UTC), // Saturday
			Name:  "Offsite Day",
			Type:  holiday.TypeSpecialNonWorking,
		},
	}
	svc := buildService(f)

	summary, err := svc.GenerateSummary(context.Background(), summaryRequest())
	require.NoError(t, err)

	require.Equal(t, 2, summary.Holidays.Count)
	friday := summary.Holidays.Impacts[0]
	assert.Equal(t, 2, friday.AffectedEmployees)
	assert.Equal(t, 1, friday.UnknownImpact) // emp-3: no schedule, impact unknown

	saturday := summary.Holidays.Impacts[1]
	assert.Equal(t, 0, saturday.AffectedEmployees) // weekend, nobody scheduled
	assert.Equal(t, 1, saturday.UnknownImpact)
}

func TestGenerateSummary_Readiness(t *testing.T) {
	t.Parallel()

	svc := buildService(scenarioFixture())

	summary, err := svc.GenerateSummary(context.Background(), summaryRequest())
	require.NoError(t, err)

	r := summary.Readiness
	assert.True(t, r.CanGenerate)
	assert.Empty(t, r.BlockingIssues)
	// incomplete attendance warns without blocking
	require.NotEmpty(t, r.Warnings)
	assert.Contains(t, r.Warnings[0], "attendance is incomplete")
}

func TestGenerateSummary_NoEligibleEmployeesBlocks(t *testing.T) {
	t.Parallel()

	f := scenarioFixture()
	var pool []employee.Employee
	for i := 4; i <= 10; i++ {
		pool = append(pool, bare(fmt.Sprintf("emp-%d", i)))
	}
	f.directory.employees = pool
	svc := buildService(f)

	summary, err := svc.GenerateSummary(context.Background(), summaryRequest())
	require.NoError(t, err)

	assert.False(t, summary.Readiness.CanGenerate)
	require.NotEmpty(t, summary.Readiness.BlockingIssues)
	assert.Contains(t, summary.Readiness.BlockingIssues[0], "no eligible employees")
}

func TestGenerateSummary_ExistingRunWarns(t *testing.T) {
	t.Parallel()

	f := scenarioFixture()
	svc := buildService(f)
	ctx := context.Background()

	_, err := svc.TransitionPayroll(ctx, payroll.TransitionRequest{
		EmployeeID:  "emp-1",
		OrgID:       testOrg,
		PeriodStart: periodStart,
		PeriodEnd:   periodEnd,
		Action:      string(payroll.ActionGenerate),
	})
	require.NoError(t, err)

	summary, err := svc.GenerateSummary(ctx, summaryRequest())
	require.NoError(t, err)

	assert.True(t, summary.Readiness.CanGenerate, "existing run warns, never blocks")
	found := false
	for _, w := range summary.Readiness.Warnings {
		if strings.Contains(w, "already exist") {
			found = true
		}
	}
	assert.True(t, found, "expected a re-generation warning, got %v", summary.Readiness.Warnings)
}

func TestGenerateSummary_StoreFailureAborts(t *testing.T) {
	t.Parallel()

	f := scenarioFixture()
	f.schedules.err = errors.New("connection refused")
	svc := buildService(f)

	_, err := svc.GenerateSummary(context.Background(), summaryRequest())
	// a collaborator failure is fatal, never reinterpreted as a missing
	// schedule
	require.Error(t, err)
	assert.Contains(t, err.Error(), "connection refused")
}

func TestGenerateSummary_ReadsShareSnapshot(t *testing.T) {
	t.Parallel()

	f := scenarioFixture()
	svc := buildService(f)

	_, err := svc.GenerateSummary(context.Background(), summaryRequest())
	require.NoError(t, err)

	// One snapshot per summary, and every bulk read runs inside it.
	assert.Equal(t, 1, f.snapshots.calls)
	assert.True(t, inSnapshot(f.schedules.listCtx), "schedule reads must run inside the snapshot")
	assert.True(t, inSnapshot(f.payrolls.listCtx), "payroll reads must run inside the snapshot")
}

func TestGenerateSummary_InvalidPeriodRejected(t *testing.T) {
	t.Parallel()

	svc := buildService(scenarioFixture())

	_, err := svc.GenerateSummary(context.Background(), payroll.SummaryRequest{
		OrgID:       testOrg,
		PeriodStart: "2025-06-13",
		PeriodEnd:   "2025-06-02",
	})
	var verrs validator.ValidationErrors
	require.ErrorAs(t, err, &verrs)
}
