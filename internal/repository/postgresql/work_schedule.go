package postgresql

import (
	"context"
	"fmt"
	"time"

	"github.com/cmlabs-hris/payroll-engine-go/internal/domain/schedule"
	"github.com/cmlabs-hris/payroll-engine-go/internal/pkg/database"
	"github.com/jackc/pgx/v5"
)

type workScheduleRepository struct {
	db *database.DB
}

func NewWorkScheduleRepository(db *database.DB) schedule.Store {
	return &workScheduleRepository{db: db}
}

func (r *workScheduleRepository) GetByEmployee(ctx context.Context, employeeID string) (*schedule.WorkSchedule, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT id, employee_id, working_days, start_minute, end_minute, grace_period_minutes,
			   overtime_rate, holiday_rate, night_diff_rate,
			   monthly_rate, daily_rate, hourly_rate,
			   created_at, updated_at
		FROM work_schedules
		WHERE employee_id = $1
	`

	var s schedule.WorkSchedule
	var workingDays []int32
	err := q.QueryRow(ctx, query, employeeID).Scan(
		&s.ID, &s.EmployeeID, &workingDays, &s.StartMinute, &s.EndMinute, &s.GracePeriodMinutes,
		&s.OvertimeRate, &s.HolidayRate, &s.NightDiffRate,
		&s.MonthlyRate, &s.DailyRate, &s.HourlyRate,
		&s.CreatedAt, &s.UpdatedAt,
	)
	if err != nil {
		// no schedule is a first-class condition, not an error
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get work schedule: %w", err)
	}

	s.WorkingDays = toWeekdays(workingDays)

	return &s, nil
}

func (r *workScheduleRepository) ListByEmployees(ctx context.Context, employeeIDs []string) (map[string]*schedule.WorkSchedule, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT id, employee_id, working_days, start_minute, end_minute, grace_period_minutes,
			   overtime_rate, holiday_rate, night_diff_rate,
			   monthly_rate, daily_rate, hourly_rate,
			   created_at, updated_at
		FROM work_schedules
		WHERE employee_id = ANY($1)
	`

	rows, err := q.Query(ctx, query, employeeIDs)
	if err != nil {
		return nil, fmt.Errorf("failed to list work schedules: %w", err)
	}
	defer rows.Close()

	schedules := make(map[string]*schedule.WorkSchedule, len(employeeIDs))
	for rows.Next() {
		var s schedule.WorkSchedule
		var workingDays []int32
		err := rows.Scan(
			&s.ID, &s.EmployeeID, &workingDays, &s.StartMinute, &s.EndMinute, &s.GracePeriodMinutes,
			&s.OvertimeRate, &s.HolidayRate, &s.NightDiffRate,
			&s.MonthlyRate, &s.DailyRate, &s.HourlyRate,
			&s.CreatedAt, &s.UpdatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan work schedule: %w", err)
		}
		s.WorkingDays = toWeekdays(workingDays)
		schedules[s.EmployeeID] = &s
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to list work schedules: %w", err)
	}

	return schedules, nil
}

func toWeekdays(days []int32) []time.Weekday {
	out := make([]time.Weekday, 0, len(days))
	for _, d := range days {
		out = append(out, time.Weekday(d))
	}
	return out
}
