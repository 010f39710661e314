package postgresql

import (
	"context"
	"fmt"
	"time"

	"github.com/cmlabs-hris/payroll-engine-go/internal/domain/holiday"
	"github.com/cmlabs-hris/payroll-engine-go/internal/pkg/database"
)

type holidayRepository struct {
	db *database.DB
}

func NewHolidayRepository(db *database.DB) holiday.Store {
	return &holidayRepository{db: db}
}

func (r *holidayRepository) ListByPeriod(ctx context.Context, orgID string, start, end time.Time) ([]holiday.Holiday, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT id, org_id, holiday_date, name, type, pay_multiplier,
			   paid_if_not_worked, counts_toward_overtime,
			   created_at, updated_at
		FROM holidays
		WHERE org_id = $1
		  AND holiday_date BETWEEN $2 AND $3
		ORDER BY holiday_date
	`

	rows, err := q.Query(ctx, query, orgID, start, end)
	if err != nil {
		return nil, fmt.Errorf("failed to list holidays: %w", err)
	}
	defer rows.Close()

	var holidays []holiday.Holiday
	for rows.Next() {
		var h holiday.Holiday
		err := rows.Scan(
			&h.ID, &h.OrgID, &h.Date, &h.Name, &h.Type, &h.PayMultiplier,
			&h.PaidIfNotWorked, &h.CountsTowardOvertime,
			&h.CreatedAt, &h.UpdatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan holiday: %w", err)
		}
		holidays = append(holidays, h)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate holidays: %w", err)
	}

	return holidays, nil
}
