package postgresql

import (
	"context"
	"fmt"
	"time"

	"github.com/cmlabs-hris/payroll-engine-go/internal/domain/timesheet"
	"github.com/cmlabs-hris/payroll-engine-go/internal/pkg/database"
)

type timesheetRepository struct {
	db *database.DB
}

func NewTimesheetRepository(db *database.DB) timesheet.Store {
	return &timesheetRepository{db: db}
}

func (r *timesheetRepository) ListByPeriod(ctx context.Context, orgID string, deptID *string, start, end time.Time) ([]timesheet.TimeEntry, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT t.id, t.employee_id, t.org_id, t.work_date, t.clock_in, t.clock_out,
			   t.total_worked_minutes, t.closed, t.created_at, t.updated_at
		FROM time_entries t
		JOIN employees e ON e.id = t.employee_id
		WHERE t.org_id = $1
		  AND t.work_date BETWEEN $2 AND $3
		  AND ($4::text IS NULL OR e.department_id = $4)
		ORDER BY t.employee_id, t.work_date
	`

	rows, err := q.Query(ctx, query, orgID, start, end, deptID)
	if err != nil {
		return nil, fmt.Errorf("failed to list time entries: %w", err)
	}
	defer rows.Close()

	var entries []timesheet.TimeEntry
	var ids []string
	for rows.Next() {
		var t timesheet.TimeEntry
		err := rows.Scan(
			&t.ID, &t.EmployeeID, &t.OrgID, &t.WorkDate, &t.ClockIn, &t.ClockOut,
			&t.TotalWorkedMinutes, &t.Closed, &t.CreatedAt, &t.UpdatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan time entry: %w", err)
		}
		entries = append(entries, t)
		ids = append(ids, t.ID)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate time entries: %w", err)
	}

	if len(entries) == 0 {
		return entries, nil
	}

	breaks, err := r.listBreaks(ctx, ids)
	if err != nil {
		return nil, err
	}
	for i := range entries {
		entries[i].Breaks = breaks[entries[i].ID]
	}

	return entries, nil
}

func (r *timesheetRepository) listBreaks(ctx context.Context, entryIDs []string) (map[string][]timesheet.Break, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT id, time_entry_id, break_start, break_end
		FROM time_entry_breaks
		WHERE time_entry_id = ANY($1)
		ORDER BY time_entry_id, break_start
	`

	rows, err := q.Query(ctx, query, entryIDs)
	if err != nil {
		return nil, fmt.Errorf("failed to list breaks: %w", err)
	}
	defer rows.Close()

	result := make(map[string][]timesheet.Break)
	for rows.Next() {
		var b timesheet.Break
		if err := rows.Scan(&b.ID, &b.TimeEntryID, &b.Start, &b.End); err != nil {
			return nil, fmt.Errorf("failed to scan break: %w", err)
		}
		result[b.TimeEntryID] = append(result[b.TimeEntryID], b)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate breaks: %w", err)
	}

	return result, nil
}
