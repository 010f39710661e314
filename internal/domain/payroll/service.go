package payroll

import "context"

// Service is the engine surface consumed by the HTTP layer.
type Service interface {
	// GenerateSummary recomputes the full payroll summary for the scope
	// and period. Read-only; per-employee configuration gaps surface as
	// exclusions and warnings, store failures abort the request.
	GenerateSummary(ctx context.Context, req SummaryRequest) (Summary, error)

	// TransitionPayroll drives one record through the lifecycle
	// (generate, approve, release, void).
	TransitionPayroll(ctx context.Context, req TransitionRequest) (PayrollResponse, error)

	// TransitionPayrollBulk applies the same action to many employees,
	// fail-open per item.
	TransitionPayrollBulk(ctx context.Context, req BulkTransitionRequest) ([]TransitionResult, error)

	ListPayrolls(ctx context.Context, req ListPayrollsRequest) ([]PayrollResponse, error)
}
