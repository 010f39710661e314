package postgresql

import (
	"context"
	"fmt"
	"strings"

	"github.com/cmlabs-hris/payroll-engine-go/internal/domain/payroll"
	"github.com/cmlabs-hris/payroll-engine-go/internal/pkg/database"
	"github.com/jackc/pgx/v5"
)

const payrollColumns = `
	id, employee_id, org_id, period_start, period_end,
	gross_pay, tax_deduction, health_deduction, social_deduction, housing_deduction,
	late_deduction, absence_deduction, net_pay,
	status, void_reason, approved_by, released_by,
	approved_at, released_at, voided_at,
	created_at, updated_at
`

type payrollRepository struct {
	db *database.DB
}

func NewPayrollRepository(db *database.DB) payroll.Store {
	return &payrollRepository{db: db}
}

func (r *payrollRepository) Find(ctx context.Context, employeeID string, period payroll.Period) (*payroll.Payroll, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT ` + payrollColumns + `
		FROM payrolls
		WHERE employee_id = $1 AND period_start = $2 AND period_end = $3
	`

	p, err := scanPayroll(q.QueryRow(ctx, query, employeeID, period.Start, period.End))
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to find payroll: %w", err)
	}

	return &p, nil
}

func (r *payrollRepository) Create(ctx context.Context, p payroll.Payroll) (payroll.Payroll, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		INSERT INTO payrolls (
			id, employee_id, org_id, period_start, period_end,
			gross_pay, tax_deduction, health_deduction, social_deduction, housing_deduction,
			late_deduction, absence_deduction, net_pay, status
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)
		RETURNING ` + payrollColumns + `
	`

	created, err := scanPayroll(q.QueryRow(ctx, query,
		p.ID, p.EmployeeID, p.OrgID, p.PeriodStart, p.PeriodEnd,
		p.GrossPay, p.TaxDeduction, p.HealthDeduction, p.SocialDeduction, p.HousingDeduction,
		p.LateDeduction, p.AbsenceDeduction, p.NetPay, p.Status,
	))
	if err != nil {
		if isUniqueViolation(err, "uk_payroll_employee_period") {
			return payroll.Payroll{}, payroll.ErrPayrollAlreadyExists
		}
		return payroll.Payroll{}, fmt.Errorf("failed to create payroll: %w", err)
	}

	return created, nil
}

// Transition compare-and-sets the status: the UPDATE matches on the
// expected status and affects zero rows when another writer got there
// first. The audit columns for the target state are stamped in the same
// statement.
func (r *payrollRepository) Transition(ctx context.Context, id string, from, to payroll.Status, meta payroll.TransitionMeta) (payroll.Payroll, error) {
	q := GetQuerier(ctx, r.db)

	var query string
	args := []interface{}{id, from, to}

	switch to {
	case payroll.StatusApproved:
		query = `
			UPDATE payrolls
			SET status = $3, approved_by = $4, approved_at = NOW(), updated_at = NOW()
			WHERE id = $1 AND status = $2
			RETURNING ` + payrollColumns
		args = append(args, nullableActor(meta.ActorID))
	case payroll.StatusReleased:
		query = `
			UPDATE payrolls
			SET status = $3, released_by = $4, released_at = NOW(), updated_at = NOW()
			WHERE id = $1 AND status = $2
			RETURNING ` + payrollColumns
		args = append(args, nullableActor(meta.ActorID))
	case payroll.StatusVoided:
		query = `
			UPDATE payrolls
			SET status = $3, void_reason = $4, voided_at = NOW(), updated_at = NOW()
			WHERE id = $1 AND status = $2
			RETURNING ` + payrollColumns
		args = append(args, meta.Reason)
	default:
		query = `
			UPDATE payrolls
			SET status = $3, updated_at = NOW()
			WHERE id = $1 AND status = $2
			RETURNING ` + payrollColumns
	}

	p, err := scanPayroll(q.QueryRow(ctx, query, args...))
	if err != nil {
		if err == pgx.ErrNoRows {
			return r.transitionConflict(ctx, id, to)
		}
		return payroll.Payroll{}, fmt.Errorf("failed to transition payroll: %w", err)
	}

	return p, nil
}

// transitionConflict distinguishes a lost compare-and-set from a deleted
// record by re-reading the current status.
func (r *payrollRepository) transitionConflict(ctx context.Context, id string, to payroll.Status) (payroll.Payroll, error) {
	q := GetQuerier(ctx, r.db)

	var current payroll.Status
	err := q.QueryRow(ctx, `SELECT status FROM payrolls WHERE id = $1`, id).Scan(&current)
	if err != nil {
		if err == pgx.ErrNoRows {
			return payroll.Payroll{}, payroll.ErrPayrollNotFound
		}
		return payroll.Payroll{}, fmt.Errorf("failed to read payroll status: %w", err)
	}

	return payroll.Payroll{}, &payroll.InvalidStateTransitionError{Current: current, Attempted: to}
}

func (r *payrollRepository) ListByPeriod(ctx context.Context, orgID string, deptID *string, period payroll.Period) ([]payroll.Payroll, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT p.id, p.employee_id, p.org_id, p.period_start, p.period_end,
			   p.gross_pay, p.tax_deduction, p.health_deduction, p.social_deduction, p.housing_deduction,
			   p.late_deduction, p.absence_deduction, p.net_pay,
			   p.status, p.void_reason, p.approved_by, p.released_by,
			   p.approved_at, p.released_at, p.voided_at,
			   p.created_at, p.updated_at
		FROM payrolls p
		JOIN employees e ON e.id = p.employee_id
		WHERE p.org_id = $1
		  AND p.period_start = $2 AND p.period_end = $3
		  AND ($4::text IS NULL OR e.department_id = $4)
		ORDER BY e.employee_code
	`

	rows, err := q.Query(ctx, query, orgID, period.Start, period.End, deptID)
	if err != nil {
		return nil, fmt.Errorf("failed to list payrolls: %w", err)
	}
	defer rows.Close()

	var payrolls []payroll.Payroll
	for rows.Next() {
		p, err := scanPayroll(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan payroll: %w", err)
		}
		payrolls = append(payrolls, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate payrolls: %w", err)
	}

	return payrolls, nil
}

func scanPayroll(row pgx.Row) (payroll.Payroll, error) {
	var p payroll.Payroll
	err := row.Scan(
		&p.ID, &p.EmployeeID, &p.OrgID, &p.PeriodStart, &p.PeriodEnd,
		&p.GrossPay, &p.TaxDeduction, &p.HealthDeduction, &p.SocialDeduction, &p.HousingDeduction,
		&p.LateDeduction, &p.AbsenceDeduction, &p.NetPay,
		&p.Status, &p.VoidReason, &p.ApprovedBy, &p.ReleasedBy,
		&p.ApprovedAt, &p.ReleasedAt, &p.VoidedAt,
		&p.CreatedAt, &p.UpdatedAt,
	)
	return p, err
}

func isUniqueViolation(err error, constraint string) bool {
	return strings.Contains(err.Error(), constraint)
}

func nullableActor(actorID string) *string {
	if actorID == "" {
		return nil
	}
	return &actorID
}
