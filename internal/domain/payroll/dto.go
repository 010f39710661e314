package payroll

import (
	"time"

	"github.com/cmlabs-hris/payroll-engine-go/internal/pkg/validator"
	"github.com/shopspring/decimal"
)

// ========== SUMMARY REQUEST ==========

type SummaryRequest struct {
	OrgID       string  `json:"-"`
	DeptID      *string `json:"department_id,omitempty"`
	PeriodStart string  `json:"period_start"`
	PeriodEnd   string  `json:"period_end"`
}

func (r *SummaryRequest) Validate() error {
	var errs validator.ValidationErrors

	start, okStart := validator.IsValidDate(r.PeriodStart)
	if !okStart {
		errs = append(errs, validator.ValidationError{Field: "period_start", Message: "must be a date in YYYY-MM-DD format"})
	}
	end, okEnd := validator.IsValidDate(r.PeriodEnd)
	if !okEnd {
		errs = append(errs, validator.ValidationError{Field: "period_end", Message: "must be a date in YYYY-MM-DD format"})
	}
	if okStart && okEnd && end.Before(start) {
		errs = append(errs, validator.ValidationError{Field: "period_end", Message: "must not be before period_start"})
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

// Period converts the validated request dates. Call Validate first.
func (r *SummaryRequest) Period() Period {
	start, _ := time.Parse("2006-01-02", r.PeriodStart)
	end, _ := time.Parse("2006-01-02", r.PeriodEnd)
	return Period{Start: start, End: end}
}

// ========== SUMMARY RESPONSE ==========

// Summary is the transient, per-request computation result. It is never
// persisted; every request recomputes it from the stores.
type Summary struct {
	OrgID       string  `json:"org_id"`
	DeptID      *string `json:"department_id,omitempty"`
	PeriodStart string  `json:"period_start"`
	PeriodEnd   string  `json:"period_end"`
	AsOf        string  `json:"as_of"`

	Eligibility EligibilitySection `json:"eligibility"`
	Attendance  AttendanceSection  `json:"attendance"`
	Overtime    OvertimeSection    `json:"overtime"`
	Holidays    HolidaySection     `json:"holidays"`
	Deductions  DeductionSection   `json:"deductions"`
	Readiness   ReadinessSection   `json:"readiness"`
}

type ExclusionReason string

const (
	ExclusionMissingSalary ExclusionReason = "MISSING_SALARY"
)

type ExcludedEmployee struct {
	EmployeeID string          `json:"employee_id"`
	Name       string          `json:"name"`
	Reason     ExclusionReason `json:"reason"`
}

// EligibilitySection partitions the pool: every employee lands in exactly
// one of the three buckets. A missing work schedule is a warning attribute
// on an eligible employee, never a second exclusion.
type EligibilitySection struct {
	TotalEmployees          int                `json:"total_employees"`
	EligibleWithSchedule    int                `json:"eligible_with_schedule"`
	EligibleWithoutSchedule int                `json:"eligible_without_schedule"`
	Ineligible              int                `json:"ineligible"`
	Excluded                []ExcludedEmployee `json:"excluded,omitempty"`
	Warnings                []string           `json:"warnings,omitempty"`
}

// AttendanceStatus is an explicit tri-state: employees without a schedule
// cannot produce a meaningful absence count and report unknown, not zero.
type AttendanceStatus string

const (
	AttendancePresent AttendanceStatus = "present"
	AttendanceAbsent  AttendanceStatus = "absent"
	AttendanceUnknown AttendanceStatus = "unknown"
)

type EmployeeAttendance struct {
	EmployeeID       string           `json:"employee_id"`
	Name             string           `json:"name"`
	DaysWorked       int              `json:"days_worked"`
	ExpectedWorkDays *int             `json:"expected_work_days,omitempty"`
	LateMinutes      int              `json:"late_minutes"`
	UndertimeMinutes int              `json:"undertime_minutes"`
	AbsenceDays      *int             `json:"absence_days,omitempty"`
	Status           AttendanceStatus `json:"status"`
}

type AttendanceSection struct {
	ExpectedEmployees    int                  `json:"expected_employees"`
	EmployeesWithEntries int                  `json:"employees_with_entries"`
	MissingEmployeeIDs   []string             `json:"missing_employee_ids,omitempty"`
	Complete             bool                 `json:"complete"`
	PerEmployee          []EmployeeAttendance `json:"per_employee,omitempty"`
}

type OvertimeSection struct {
	TotalRequests   int `json:"total_requests"`
	Approved        int `json:"approved"`
	Pending         int `json:"pending"`
	ApprovedMinutes int `json:"approved_minutes"`
}

type HolidayImpact struct {
	Date              string `json:"date"`
	Name              string `json:"name"`
	Type              string `json:"type"`
	AffectedEmployees int    `json:"affected_employees"`
	UnknownImpact     int    `json:"unknown_impact"`
}

type HolidaySection struct {
	Count   int             `json:"count"`
	Impacts []HolidayImpact `json:"impacts,omitempty"`
}

type EmployeeDeduction struct {
	EmployeeID string `json:"employee_id"`
	Name       string `json:"name"`

	GrossPay decimal.Decimal `json:"gross_pay"`

	Tax             decimal.Decimal `json:"tax"`
	Health          decimal.Decimal `json:"health"`
	Social          decimal.Decimal `json:"social"`
	Housing         decimal.Decimal `json:"housing"`
	GovernmentTotal decimal.Decimal `json:"government_total"`

	LateDeduction       decimal.Decimal `json:"late_deduction"`
	AbsenceDeduction    decimal.Decimal `json:"absence_deduction"`
	AbsenceFallbackUsed bool            `json:"absence_fallback_used,omitempty"`
	PolicyTotal         decimal.Decimal `json:"policy_total"`

	NetPay decimal.Decimal `json:"net_pay"`
}

type DeductionSection struct {
	PerEmployee     []EmployeeDeduction `json:"per_employee,omitempty"`
	GovernmentTotal decimal.Decimal     `json:"government_total"`
	PolicyTotal     decimal.Decimal     `json:"policy_total"`
}

type ReadinessSection struct {
	CanGenerate    bool     `json:"can_generate"`
	BlockingIssues []string `json:"blocking_issues,omitempty"`
	Warnings       []string `json:"warnings,omitempty"`
}

// ========== TRANSITIONS ==========

type TransitionRequest struct {
	EmployeeID  string  `json:"employee_id"`
	OrgID       string  `json:"-"`
	ActorID     string  `json:"-"`
	PeriodStart string  `json:"period_start"`
	PeriodEnd   string  `json:"period_end"`
	Action      string  `json:"action"`
	Reason      *string `json:"reason,omitempty"`
}

func (r *TransitionRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.EmployeeID) {
		errs = append(errs, validator.ValidationError{Field: "employee_id", Message: "is required"})
	}
	errs = append(errs, validatePeriodAndAction(r.PeriodStart, r.PeriodEnd, r.Action, r.Reason)...)

	if len(errs) > 0 {
		return errs
	}
	return nil
}

func (r *TransitionRequest) Period() Period {
	start, _ := time.Parse("2006-01-02", r.PeriodStart)
	end, _ := time.Parse("2006-01-02", r.PeriodEnd)
	return Period{Start: start, End: end}
}

type BulkTransitionRequest struct {
	EmployeeIDs []string `json:"employee_ids"`
	OrgID       string   `json:"-"`
	ActorID     string   `json:"-"`
	PeriodStart string   `json:"period_start"`
	PeriodEnd   string   `json:"period_end"`
	Action      string   `json:"action"`
	Reason      *string  `json:"reason,omitempty"`
}

func (r *BulkTransitionRequest) Validate() error {
	var errs validator.ValidationErrors

	if len(r.EmployeeIDs) == 0 {
		errs = append(errs, validator.ValidationError{Field: "employee_ids", Message: "must not be empty"})
	}
	errs = append(errs, validatePeriodAndAction(r.PeriodStart, r.PeriodEnd, r.Action, r.Reason)...)

	if len(errs) > 0 {
		return errs
	}
	return nil
}

func (r *BulkTransitionRequest) Period() Period {
	start, _ := time.Parse("2006-01-02", r.PeriodStart)
	end, _ := time.Parse("2006-01-02", r.PeriodEnd)
	return Period{Start: start, End: end}
}

func validatePeriodAndAction(periodStart, periodEnd, action string, reason *string) validator.ValidationErrors {
	var errs validator.ValidationErrors

	start, okStart := validator.IsValidDate(periodStart)
	if !okStart {
		errs = append(errs, validator.ValidationError{Field: "period_start", Message: "must be a date in YYYY-MM-DD format"})
	}
	end, okEnd := validator.IsValidDate(periodEnd)
	if !okEnd {
		errs = append(errs, validator.ValidationError{Field: "period_end", Message: "must be a date in YYYY-MM-DD format"})
	}
	if okStart && okEnd && end.Before(start) {
		errs = append(errs, validator.ValidationError{Field: "period_end", Message: "must not be before period_start"})
	}

	if !validator.IsInSlice(action, ActionValues) {
		errs = append(errs, validator.ValidationError{Field: "action", Message: "must be one of generate, approve, release, void"})
	}
	if action == string(ActionVoid) && (reason == nil || validator.IsEmpty(*reason)) {
		errs = append(errs, validator.ValidationError{Field: "reason", Message: "is required when voiding"})
	}

	return errs
}

// TransitionResult is one item of a bulk transition. Failures are isolated
// per item; a failed item never rolls back the others.
type TransitionResult struct {
	EmployeeID string           `json:"employee_id"`
	Success    bool             `json:"success"`
	Error      string           `json:"error,omitempty"`
	Payroll    *PayrollResponse `json:"payroll,omitempty"`
}

// ========== PAYROLL RECORD DTO ==========

type PayrollResponse struct {
	ID          string `json:"id"`
	EmployeeID  string `json:"employee_id"`
	OrgID       string `json:"org_id"`
	PeriodStart string `json:"period_start"`
	PeriodEnd   string `json:"period_end"`

	GrossPay         decimal.Decimal `json:"gross_pay"`
	TaxDeduction     decimal.Decimal `json:"tax_deduction"`
	HealthDeduction  decimal.Decimal `json:"health_deduction"`
	SocialDeduction  decimal.Decimal `json:"social_deduction"`
	HousingDeduction decimal.Decimal `json:"housing_deduction"`
	LateDeduction    decimal.Decimal `json:"late_deduction"`
	AbsenceDeduction decimal.Decimal `json:"absence_deduction"`
	NetPay           decimal.Decimal `json:"net_pay"`

	Status     string  `json:"status"`
	VoidReason *string `json:"void_reason,omitempty"`
}

type ListPayrollsRequest struct {
	OrgID       string  `json:"-"`
	DeptID      *string `json:"department_id,omitempty"`
	PeriodStart string  `json:"period_start"`
	PeriodEnd   string  `json:"period_end"`
}

func (r *ListPayrollsRequest) Validate() error {
	var errs validator.ValidationErrors

	start, okStart := validator.IsValidDate(r.PeriodStart)
	if !okStart {
		errs = append(errs, validator.ValidationError{Field: "period_start", Message: "must be a date in YYYY-MM-DD format"})
	}
	end, okEnd := validator.IsValidDate(r.PeriodEnd)
	if !okEnd {
		errs = append(errs, validator.ValidationError{Field: "period_end", Message: "must be a date in YYYY-MM-DD format"})
	}
	if okStart && okEnd && end.Before(start) {
		errs = append(errs, validator.ValidationError{Field: "period_end", Message: "must not be before period_start"})
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

func (r *ListPayrollsRequest) Period() Period {
	start, _ := time.Parse("2006-01-02", r.PeriodStart)
	end, _ := time.Parse("2006-01-02", r.PeriodEnd)
	return Period{Start: start, End: end}
}
