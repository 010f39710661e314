package postgresql

import (
	"context"
	"fmt"

	"github.com/cmlabs-hris/payroll-engine-go/internal/domain/employee"
	"github.com/cmlabs-hris/payroll-engine-go/internal/pkg/database"
	"github.com/jackc/pgx/v5"
)

type employeeRepository struct {
	db *database.DB
}

func NewEmployeeRepository(db *database.DB) employee.Directory {
	return &employeeRepository{db: db}
}

func (r *employeeRepository) ListEligiblePool(ctx context.Context, orgID string, deptID *string) ([]employee.Employee, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT id, org_id, department_id, employee_code, full_name, active,
			   hire_date, created_at, updated_at
		FROM employees
		WHERE org_id = $1
		  AND active = TRUE
		  AND deleted_at IS NULL
		  AND ($2::text IS NULL OR department_id = $2)
		ORDER BY employee_code
	`

	rows, err := q.Query(ctx, query, orgID, deptID)
	if err != nil {
		return nil, fmt.Errorf("failed to list employees: %w", err)
	}
	defer rows.Close()

	var employees []employee.Employee
	var ids []string
	for rows.Next() {
		var e employee.Employee
		err := rows.Scan(
			&e.ID, &e.OrgID, &e.DepartmentID, &e.EmployeeCode, &e.FullName, &e.Active,
			&e.HireDate, &e.CreatedAt, &e.UpdatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan employee: %w", err)
		}
		employees = append(employees, e)
		ids = append(ids, e.ID)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate employees: %w", err)
	}

	if len(employees) == 0 {
		return employees, nil
	}

	compensations, err := r.listCompensations(ctx, ids)
	if err != nil {
		return nil, err
	}
	for i := range employees {
		employees[i].Compensations = compensations[employees[i].ID]
	}

	return employees, nil
}

func (r *employeeRepository) GetByID(ctx context.Context, orgID, employeeID string) (*employee.Employee, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT id, org_id, department_id, employee_code, full_name, active,
			   hire_date, created_at, updated_at
		FROM employees
		WHERE org_id = $1 AND id = $2 AND deleted_at IS NULL
	`

	var e employee.Employee
	err := q.QueryRow(ctx, query, orgID, employeeID).Scan(
		&e.ID, &e.OrgID, &e.DepartmentID, &e.EmployeeCode, &e.FullName, &e.Active,
		&e.HireDate, &e.CreatedAt, &e.UpdatedAt,
	)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get employee: %w", err)
	}

	compensations, err := r.listCompensations(ctx, []string{e.ID})
	if err != nil {
		return nil, err
	}
	e.Compensations = compensations[e.ID]

	return &e, nil
}

func (r *employeeRepository) listCompensations(ctx context.Context, employeeIDs []string) (map[string][]employee.Compensation, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT id, employee_id, base_salary, pay_frequency, effective_date,
			   created_at, updated_at
		FROM employee_compensations
		WHERE employee_id = ANY($1)
		ORDER BY employee_id, effective_date
	`

	rows, err := q.Query(ctx, query, employeeIDs)
	if err != nil {
		return nil, fmt.Errorf("failed to list compensations: %w", err)
	}
	defer rows.Close()

	result := make(map[string][]employee.Compensation)
	for rows.Next() {
		var c employee.Compensation
		err := rows.Scan(
			&c.ID, &c.EmployeeID, &c.BaseSalary, &c.PayFrequency, &c.EffectiveDate,
			&c.CreatedAt, &c.UpdatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan compensation: %w", err)
		}
		result[c.EmployeeID] = append(result[c.EmployeeID], c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate compensations: %w", err)
	}

	return result, nil
}
