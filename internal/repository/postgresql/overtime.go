package postgresql

import (
	"context"
	"fmt"
	"time"

	"github.com/cmlabs-hris/payroll-engine-go/internal/domain/overtime"
	"github.com/cmlabs-hris/payroll-engine-go/internal/pkg/database"
)

type overtimeRepository struct {
	db *database.DB
}

func NewOvertimeRepository(db *database.DB) overtime.Store {
	return &overtimeRepository{db: db}
}

func (r *overtimeRepository) ListByPeriod(ctx context.Context, orgID string, deptID *string, start, end time.Time) ([]overtime.Overtime, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT o.id, o.time_entry_id, o.employee_id, o.org_id, o.work_date,
			   o.requested_minutes, o.approved_minutes, o.status,
			   o.created_at, o.updated_at
		FROM overtime_requests o
		JOIN employees e ON e.id = o.employee_id
		WHERE o.org_id = $1
		  AND o.work_date BETWEEN $2 AND $3
		  AND ($4::text IS NULL OR e.department_id = $4)
		ORDER BY o.work_date, o.employee_id
	`

	rows, err := q.Query(ctx, query, orgID, start, end, deptID)
	if err != nil {
		return nil, fmt.Errorf("failed to list overtime requests: %w", err)
	}
	defer rows.Close()

	var items []overtime.Overtime
	for rows.Next() {
		var o overtime.Overtime
		err := rows.Scan(
			&o.ID, &o.TimeEntryID, &o.EmployeeID, &o.OrgID, &o.WorkDate,
			&o.RequestedMinutes, &o.ApprovedMinutes, &o.Status,
			&o.CreatedAt, &o.UpdatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan overtime request: %w", err)
		}
		items = append(items, o)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate overtime requests: %w", err)
	}

	return items, nil
}
