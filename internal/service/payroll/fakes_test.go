package payroll

import (
	"context"
	"sync"
	"time"

	"github.com/cmlabs-hris/payroll-engine-go/internal/domain/bracket"
	deductiondomain "github.com/cmlabs-hris/payroll-engine-go/internal/domain/deduction"
	"github.com/cmlabs-hris/payroll-engine-go/internal/domain/employee"
	"github.com/cmlabs-hris/payroll-engine-go/internal/domain/holiday"
	"github.com/cmlabs-hris/payroll-engine-go/internal/domain/overtime"
	"github.com/cmlabs-hris/payroll-engine-go/internal/domain/payroll"
	"github.com/cmlabs-hris/payroll-engine-go/internal/domain/schedule"
	"github.com/cmlabs-hris/payroll-engine-go/internal/domain/timesheet"
	"github.com/shopspring/decimal"
)

// In-memory fakes for every collaborator store, injected through the
// domain interfaces.

type fakeDirectory struct {
	employees []employee.Employee
	err       error
}

func (f *fakeDirectory) ListEligiblePool(_ context.Context, orgID string, deptID *string) ([]employee.Employee, error) {
	if f.err != nil {
		return nil, f.err
	}
	var out []employee.Employee
	for _, e := range f.employees {
		if e.OrgID != orgID {
			continue
		}
		if deptID != nil && (e.DepartmentID == nil || *e.DepartmentID != *deptID) {
			continue
		}
		out = append(out, e)
	}
	return out, nil
}

func (f *fakeDirectory) GetByID(_ context.Context, orgID, employeeID string) (*employee.Employee, error) {
	if f.err != nil {
		return nil, f.err
	}
	for i := range f.employees {
		if f.employees[i].OrgID == orgID && f.employees[i].ID == employeeID {
			e := f.employees[i]
			return &e, nil
		}
	}
	return nil, nil
}

type fakeScheduleStore struct {
	byEmployee map[string]*schedule.WorkSchedule
	err        error

	listCtx context.Context
}

func (f *fakeScheduleStore) GetByEmployee(_ context.Context, employeeID string) (*schedule.WorkSchedule, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.byEmployee[employeeID], nil
}

func (f *fakeScheduleStore) ListByEmployees(ctx context.Context, employeeIDs []string) (map[string]*schedule.WorkSchedule, error) {
	if f.err != nil {
		return nil, f.err
	}
	f.listCtx = ctx
	out := make(map[string]*schedule.WorkSchedule, len(employeeIDs))
	for _, id := range employeeIDs {
		if s := f.byEmployee[id]; s != nil {
			out[id] = s
		}
	}
	return out, nil
}

type fakeTimesheetStore struct {
	entries []timesheet.TimeEntry
	err     error
}

func (f *fakeTimesheetStore) ListByPeriod(_ context.Context, orgID string, _ *string, start, end time.Time) ([]timesheet.TimeEntry, error) {
	if f.err != nil {
		return nil, f.err
	}
	var out []timesheet.TimeEntry
	for _, e := range f.entries {
		if e.OrgID == orgID && !e.WorkDate.Before(start) && !e.WorkDate.After(end) {
			out = append(out, e)
		}
	}
	return out, nil
}

type fakeOvertimeStore struct {
	items []overtime.Overtime
}

func (f *fakeOvertimeStore) ListByPeriod(_ context.Context, _ string, _ *string, _, _ time.Time) ([]overtime.Overtime, error) {
	return f.items, nil
}

type fakeHolidayStore struct {
	items []holiday.Holiday
}

func (f *fakeHolidayStore) ListByPeriod(_ context.Context, _ string, _, _ time.Time) ([]holiday.Holiday, error) {
	return f.items, nil
}

type fakePolicyStore struct {
	policies map[deductiondomain.PolicyType]*deductiondomain.Policy
}

func (f *fakePolicyStore) Get(_ context.Context, _ string, policyType deductiondomain.PolicyType) (*deductiondomain.Policy, error) {
	return f.policies[policyType], nil
}

// fakePayrollStore guards its records with a mutex and implements the
// same compare-and-set contract as the SQL store.
type fakePayrollStore struct {
	mu      sync.Mutex
	records map[string]*payroll.Payroll

	listCtx context.Context
}

func newFakePayrollStore() *fakePayrollStore {
	return &fakePayrollStore{records: make(map[string]*payroll.Payroll)}
}

func (f *fakePayrollStore) Find(_ context.Context, employeeID string, period payroll.Period) (*payroll.Payroll, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, r := range f.records {
		if r.EmployeeID == employeeID && r.PeriodStart.Equal(period.Start) && r.PeriodEnd.Equal(period.End) {
			cp := *r
			return &cp, nil
		}
	}
	return nil, nil
}

func (f *fakePayrollStore) Create(_ context.Context, p payroll.Payroll) (payroll.Payroll, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, r := range f.records {
		if r.EmployeeID == p.EmployeeID && r.PeriodStart.Equal(p.PeriodStart) && r.PeriodEnd.Equal(p.PeriodEnd) {
			return payroll.Payroll{}, payroll.ErrPayrollAlreadyExists
		}
	}
	now := time.Now()
	p.CreatedAt = now
	p.UpdatedAt = now
	cp := p
	f.records[p.ID] = &cp
	return p, nil
}

func (f *fakePayrollStore) Transition(_ context.Context, id string, from, to payroll.Status, meta payroll.TransitionMeta) (payroll.Payroll, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	r, ok := f.records[id]
	if !ok {
		return payroll.Payroll{}, payroll.ErrPayrollNotFound
	}
	if r.Status != from {
		return payroll.Payroll{}, &payroll.InvalidStateTransitionError{Current: r.Status, Attempted: to}
	}

	now := time.Now()
	r.Status = to
	r.UpdatedAt = now
	switch to {
	case payroll.StatusApproved:
		r.ApprovedAt = &now
		if meta.ActorID != "" {
			actor := meta.ActorID
			r.ApprovedBy = &actor
		}
	case payroll.StatusReleased:
		r.ReleasedAt = &now
		if meta.ActorID != "" {
			actor := meta.ActorID
			r.ReleasedBy = &actor
		}
	case payroll.StatusVoided:
		r.VoidedAt = &now
		r.VoidReason = meta.Reason
	}

	cp := *r
	return cp, nil
}

func (f *fakePayrollStore) ListByPeriod(ctx context.Context, orgID string, _ *string, period payroll.Period) ([]payroll.Payroll, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.listCtx = ctx
	var out []payroll.Payroll
	for _, r := range f.records {
		if r.OrgID == orgID && r.PeriodStart.Equal(period.Start) && r.PeriodEnd.Equal(period.End) {
			out = append(out, *r)
		}
	}
	return out, nil
}

type fakeBracketStore struct {
	tables map[bracket.Kind][]bracket.Bracket
}

func (f *fakeBracketStore) GetTables(_ context.Context, kind bracket.Kind, _ time.Time) ([]bracket.Bracket, error) {
	return f.tables[kind], nil
}

// fakeSnapshotRunner marks the context it hands to fn so tests can
// verify which reads ran inside the snapshot.
type fakeSnapshotRunner struct {
	calls int
}

type snapshotCtxKey struct{}

func (f *fakeSnapshotRunner) ReadSnapshot(ctx context.Context, fn func(ctx context.Context) error) error {
	f.calls++
	return fn(context.WithValue(ctx, snapshotCtxKey{}, true))
}

func inSnapshot(ctx context.Context) bool {
	if ctx == nil {
		return false
	}
	ok, _ := ctx.Value(snapshotCtxKey{}).(bool)
	return ok
}

// ========== SHARED FIXTURES ==========

func dec(s string) decimal.Decimal {
	d, err := decimal.NewFromString(s)
	if err != nil {
		panic(err)
	}
	return d
}

func strPtr(s string) *string { return &s }
