package payroll

import (
	"context"
	"fmt"
	"time"

	deductiondomain "github.com/cmlabs-hris/payroll-engine-go/internal/domain/deduction"
	"github.com/cmlabs-hris/payroll-engine-go/internal/domain/employee"
	"github.com/cmlabs-hris/payroll-engine-go/internal/domain/holiday"
	"github.com/cmlabs-hris/payroll-engine-go/internal/domain/overtime"
	"github.com/cmlabs-hris/payroll-engine-go/internal/domain/payroll"
	"github.com/cmlabs-hris/payroll-engine-go/internal/domain/schedule"
	"github.com/cmlabs-hris/payroll-engine-go/internal/domain/timesheet"
	"github.com/cmlabs-hris/payroll-engine-go/internal/service/statutory"
	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"
)

// Service composes the payroll engine. Every collaborator arrives as an
// interface so tests can substitute in-memory fakes.
type Service struct {
	employees employee.Directory
	schedules schedule.Store
	entries   timesheet.Store
	overtimes overtime.Store
	holidays  holiday.Store
	policies  deductiondomain.PolicyStore
	payrolls  payroll.Store
	statutory *statutory.Calculator
	snapshots payroll.SnapshotRunner

	workers int
	locks   *keyedMutex
}

func NewService(
	employees employee.Directory,
	schedules schedule.Store,
	entries timesheet.Store,
	overtimes overtime.Store,
	holidays holiday.Store,
	policies deductiondomain.PolicyStore,
	payrolls payroll.Store,
	statutoryCalc *statutory.Calculator,
	snapshots payroll.SnapshotRunner,
	workers int,
) payroll.Service {
	if workers < 1 {
		workers = 1
	}
	return &Service{
		employees: employees,
		schedules: schedules,
		entries:   entries,
		overtimes: overtimes,
		holidays:  holidays,
		policies:  policies,
		payrolls:  payrolls,
		statutory: statutoryCalc,
		snapshots: snapshots,
		workers:   workers,
		locks:     newKeyedMutex(),
	}
}

// ========== SUMMARY ==========

// GenerateSummary recomputes the full summary for (org, dept?, period).
// The read phase mutates nothing: bulk reads inside one snapshot, then a
// bounded per-employee fan-out, then a single reduce. Per-employee
// configuration gaps become exclusions and warnings; any store failure
// aborts the whole request rather than being reinterpreted as missing
// configuration.
func (s *Service) GenerateSummary(ctx context.Context, req payroll.SummaryRequest) (payroll.Summary, error) {
	if err := req.Validate(); err != nil {
		return payroll.Summary{}, err
	}

	period := req.Period()
	asOf := time.Now().UTC()

	// Every input is read inside one snapshot so the summary reflects a
	// single point in time. The snapshot closes before the fan-out; the
	// workers compute from the loaded data only.
	var (
		pool          []employee.Employee
		schedules     map[string]*schedule.WorkSchedule
		entries       []timesheet.TimeEntry
		overtimes     []overtime.Overtime
		holidays      []holiday.Holiday
		latePolicy    *deductiondomain.Policy
		absencePolicy *deductiondomain.Policy
		existing      []payroll.Payroll
	)
	err := s.snapshots.ReadSnapshot(ctx, func(ctx context.Context) error {
		var err error

		pool, err = s.employees.ListEligiblePool(ctx, req.OrgID, req.DeptID)
		if err != nil {
			return fmt.Errorf("list eligible pool: %w", err)
		}

		ids := make([]string, 0, len(pool))
		for _, emp := range pool {
			ids = append(ids, emp.ID)
		}
		schedules, err = s.schedules.ListByEmployees(ctx, ids)
		if err != nil {
			return fmt.Errorf("list work schedules: %w", err)
		}

		entries, err = s.entries.ListByPeriod(ctx, req.OrgID, req.DeptID, period.Start, period.End)
		if err != nil {
			return fmt.Errorf("list time entries: %w", err)
		}

		overtimes, err = s.overtimes.ListByPeriod(ctx, req.OrgID, req.DeptID, period.Start, period.End)
		if err != nil {
			return fmt.Errorf("list overtime requests: %w", err)
		}

		holidays, err = s.holidays.ListByPeriod(ctx, req.OrgID, period.Start, period.End)
		if err != nil {
			return fmt.Errorf("list holidays: %w", err)
		}

		latePolicy, err = s.policies.Get(ctx, req.OrgID, deductiondomain.PolicyTypeLate)
		if err != nil {
			return fmt.Errorf("load late policy: %w", err)
		}
		absencePolicy, err = s.policies.Get(ctx, req.OrgID, deductiondomain.PolicyTypeAbsence)
		if err != nil {
			return fmt.Errorf("load absence policy: %w", err)
		}

		existing, err = s.payrolls.ListByPeriod(ctx, req.OrgID, req.DeptID, period)
		if err != nil {
			return fmt.Errorf("list existing payrolls: %w", err)
		}
		return nil
	})
	if err != nil {
		return payroll.Summary{}, err
	}

	idx := indexEntries(entries)

	// Per-employee computations are independent; fan out bounded by the
	// worker limit. Results land at the employee's pool index so the
	// reduce stays deterministic.
	evaluated := make([]evaluatedEmployee, len(pool))
	attendance := make([]*payroll.EmployeeAttendance, len(pool))
	deductions := make([]*payroll.EmployeeDeduction, len(pool))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.workers)
	for i := range pool {
		i := i
		g.Go(func() error {
			emp := pool[i]

			ev := classify(emp, period.End, schedules[emp.ID])
			evaluated[i] = ev
			if !ev.eligible() {
				return nil
			}

			att := reconcileEmployee(&ev, idx[emp.ID], period)
			attendance[i] = &att

			ded, err := s.computeDeduction(gctx, &ev, att, idx[emp.ID], latePolicy, absencePolicy, period)
			if err != nil {
				return fmt.Errorf("compute deductions for employee %s: %w", emp.ID, err)
			}
			deductions[i] = &ded
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return payroll.Summary{}, err
	}

	summary := payroll.Summary{
		OrgID:       req.OrgID,
		DeptID:      req.DeptID,
		PeriodStart: req.PeriodStart,
		PeriodEnd:   req.PeriodEnd,
		AsOf:        asOf.Format(time.RFC3339),
	}

	summary.Eligibility = eligibilitySection(evaluated)

	perEmployee := make([]payroll.EmployeeAttendance, 0, len(pool))
	for _, att := range attendance {
		if att != nil {
			perEmployee = append(perEmployee, *att)
		}
	}
	summary.Attendance = attendanceSection(evaluated, perEmployee, idx)

	summary.Overtime = overtimeSection(overtimes)
	summary.Holidays = holidaySection(holidays, evaluated)

	for _, ded := range deductions {
		if ded == nil {
			continue
		}
		summary.Deductions.PerEmployee = append(summary.Deductions.PerEmployee, *ded)
		summary.Deductions.GovernmentTotal = summary.Deductions.GovernmentTotal.Add(ded.GovernmentTotal)
		summary.Deductions.PolicyTotal = summary.Deductions.PolicyTotal.Add(ded.PolicyTotal)
	}

	summary.Readiness = evaluateReadiness(summary.Eligibility, summary.Attendance, len(existing))

	return summary, nil
}

// ========== TRANSITIONS ==========

// TransitionPayroll drives one record through the lifecycle. Mutations
// are serialized per (employee, period); the store's compare-and-set is
// the final arbiter under concurrency.
func (s *Service) TransitionPayroll(ctx context.Context, req payroll.TransitionRequest) (payroll.PayrollResponse, error) {
	if err := req.Validate(); err != nil {
		return payroll.PayrollResponse{}, err
	}

	period := req.Period()
	action := payroll.Action(req.Action)

	unlock := s.locks.Lock(transitionKey(req.EmployeeID, period))
	defer unlock()

	existing, err := s.payrolls.Find(ctx, req.EmployeeID, period)
	if err != nil {
		return payroll.PayrollResponse{}, fmt.Errorf("find payroll record: %w", err)
	}

	if action == payroll.ActionGenerate {
		if existing != nil {
			return payroll.PayrollResponse{}, &payroll.InvalidStateTransitionError{
				Current:   existing.Status,
				Attempted: payroll.StatusComputed,
			}
		}

		record, err := s.buildRecord(ctx, req, period)
		if err != nil {
			return payroll.PayrollResponse{}, err
		}

		created, err := s.payrolls.Create(ctx, record)
		if err != nil {
			return payroll.PayrollResponse{}, fmt.Errorf("create payroll record: %w", err)
		}
		return mapToResponse(created), nil
	}

	if existing == nil {
		return payroll.PayrollResponse{}, payroll.ErrPayrollNotFound
	}

	target := actionTarget[action]
	if !allowedFrom(action, existing.Status) {
		return payroll.PayrollResponse{}, &payroll.InvalidStateTransitionError{
			Current:   existing.Status,
			Attempted: target,
		}
	}

	meta := payroll.TransitionMeta{ActorID: req.ActorID, Reason: req.Reason}
	updated, err := s.payrolls.Transition(ctx, existing.ID, existing.Status, target, meta)
	if err != nil {
		return payroll.PayrollResponse{}, err
	}

	return mapToResponse(updated), nil
}

// TransitionPayrollBulk applies one action to many employees. Each item
// runs independently and reports its own outcome; one failure neither
// blocks nor rolls back the rest.
func (s *Service) TransitionPayrollBulk(ctx context.Context, req payroll.BulkTransitionRequest) ([]payroll.TransitionResult, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	results := make([]payroll.TransitionResult, len(req.EmployeeIDs))

	g := new(errgroup.Group)
	g.SetLimit(s.workers)
	for i, employeeID := range req.EmployeeIDs {
		i, employeeID := i, employeeID
		g.Go(func() error {
			item := payroll.TransitionRequest{
				EmployeeID:  employeeID,
				OrgID:       req.OrgID,
				ActorID:     req.ActorID,
				PeriodStart: req.PeriodStart,
				PeriodEnd:   req.PeriodEnd,
				Action:      req.Action,
				Reason:      req.Reason,
			}

			resp, err := s.TransitionPayroll(ctx, item)
			if err != nil {
				results[i] = payroll.TransitionResult{EmployeeID: employeeID, Error: err.Error()}
				return nil
			}
			results[i] = payroll.TransitionResult{EmployeeID: employeeID, Success: true, Payroll: &resp}
			return nil
		})
	}
	// Workers never return an error; Wait only orders the writes.
	_ = g.Wait()

	return results, nil
}

func (s *Service) ListPayrolls(ctx context.Context, req payroll.ListPayrollsRequest) ([]payroll.PayrollResponse, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	records, err := s.payrolls.ListByPeriod(ctx, req.OrgID, req.DeptID, req.Period())
	if err != nil {
		return nil, fmt.Errorf("list payrolls: %w", err)
	}

	result := make([]payroll.PayrollResponse, 0, len(records))
	for _, r := range records {
		result = append(result, mapToResponse(r))
	}
	return result, nil
}

// buildRecord runs the per-employee computation for generate, producing a
// COMPUTED record from the same calculators the summary uses.
func (s *Service) buildRecord(ctx context.Context, req payroll.TransitionRequest, period payroll.Period) (payroll.Payroll, error) {
	emp, err := s.employees.GetByID(ctx, req.OrgID, req.EmployeeID)
	if err != nil {
		return payroll.Payroll{}, fmt.Errorf("load employee: %w", err)
	}
	if emp == nil {
		return payroll.Payroll{}, employee.ErrEmployeeNotFound
	}

	sched, err := s.schedules.GetByEmployee(ctx, emp.ID)
	if err != nil {
		return payroll.Payroll{}, fmt.Errorf("load schedule for employee %s: %w", emp.ID, err)
	}

	ev := classify(*emp, period.End, sched)
	if !ev.eligible() {
		return payroll.Payroll{}, payroll.ErrEmployeeNotEligible
	}

	entries, err := s.entries.ListByPeriod(ctx, req.OrgID, nil, period.Start, period.End)
	if err != nil {
		return payroll.Payroll{}, fmt.Errorf("list time entries: %w", err)
	}
	byDate := indexEntries(entries)[emp.ID]

	latePolicy, err := s.policies.Get(ctx, req.OrgID, deductiondomain.PolicyTypeLate)
	if err != nil {
		return payroll.Payroll{}, fmt.Errorf("load late policy: %w", err)
	}
	absencePolicy, err := s.policies.Get(ctx, req.OrgID, deductiondomain.PolicyTypeAbsence)
	if err != nil {
		return payroll.Payroll{}, fmt.Errorf("load absence policy: %w", err)
	}

	att := reconcileEmployee(&ev, byDate, period)
	ded, err := s.computeDeduction(ctx, &ev, att, byDate, latePolicy, absencePolicy, period)
	if err != nil {
		return payroll.Payroll{}, err
	}

	return payroll.Payroll{
		ID:          uuid.NewString(),
		EmployeeID:  emp.ID,
		OrgID:       req.OrgID,
		PeriodStart: period.Start,
		PeriodEnd:   period.End,

		GrossPay:         ded.GrossPay,
		TaxDeduction:     ded.Tax,
		HealthDeduction:  ded.Health,
		SocialDeduction:  ded.Social,
		HousingDeduction: ded.Housing,
		LateDeduction:    ded.LateDeduction,
		AbsenceDeduction: ded.AbsenceDeduction,
		NetPay:           ded.NetPay,

		Status: payroll.StatusComputed,
	}, nil
}

// ========== HELPERS ==========

func mapToResponse(p payroll.Payroll) payroll.PayrollResponse {
	return payroll.PayrollResponse{
		ID:          p.ID,
		EmployeeID:  p.EmployeeID,
		OrgID:       p.OrgID,
		PeriodStart: p.PeriodStart.Format("2006-01-02"),
		PeriodEnd:   p.PeriodEnd.Format("2006-01-02"),

		GrossPay:         p.GrossPay,
		TaxDeduction:     p.TaxDeduction,
		HealthDeduction:  p.HealthDeduction,
		SocialDeduction:  p.SocialDeduction,
		HousingDeduction: p.HousingDeduction,
		LateDeduction:    p.LateDeduction,
		AbsenceDeduction: p.AbsenceDeduction,
		NetPay:           p.NetPay,

		Status:     string(p.Status),
		VoidReason: p.VoidReason,
	}
}
