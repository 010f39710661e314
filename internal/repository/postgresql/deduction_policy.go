package postgresql

import (
	"context"
	"fmt"

	"github.com/cmlabs-hris/payroll-engine-go/internal/domain/deduction"
	"github.com/cmlabs-hris/payroll-engine-go/internal/pkg/database"
	"github.com/jackc/pgx/v5"
)

type deductionPolicyRepository struct {
	db *database.DB
}

func NewDeductionPolicyRepository(db *database.DB) deduction.PolicyStore {
	return &deductionPolicyRepository{db: db}
}

func (r *deductionPolicyRepository) Get(ctx context.Context, orgID string, policyType deduction.PolicyType) (*deduction.Policy, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT id, org_id, type, method, grace_period_minutes,
			   multiplier, rate, fixed_amount, max_per_day, max_per_period,
			   created_at, updated_at
		FROM deduction_policies
		WHERE org_id = $1 AND type = $2
	`

	var p deduction.Policy
	err := q.QueryRow(ctx, query, orgID, policyType).Scan(
		&p.ID, &p.OrgID, &p.Type, &p.Method, &p.GracePeriodMinutes,
		&p.Multiplier, &p.Rate, &p.FixedAmount, &p.MaxPerDay, &p.MaxPerPeriod,
		&p.CreatedAt, &p.UpdatedAt,
	)
	if err != nil {
		// unconfigured policy is a fallback condition, not an error
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get %s deduction policy: %w", policyType, err)
	}

	return &p, nil
}
