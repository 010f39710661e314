package postgresql

import (
	"context"
	"fmt"
	"time"

	"github.com/cmlabs-hris/payroll-engine-go/internal/domain/bracket"
	"github.com/cmlabs-hris/payroll-engine-go/internal/pkg/database"
)

type bracketRepository struct {
	db *database.DB
}

func NewBracketRepository(db *database.DB) bracket.Store {
	return &bracketRepository{db: db}
}

func (r *bracketRepository) GetTables(ctx context.Context, kind bracket.Kind, asOf time.Time) ([]bracket.Bracket, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT id, kind, min_amount, max_amount, rate, base_amount,
			   base_floor, base_ceiling, max_contribution,
			   effective_from, effective_to,
			   created_at, updated_at
		FROM statutory_brackets
		WHERE kind = $1
		  AND effective_from <= $2
		  AND (effective_to IS NULL OR effective_to >= $2)
		ORDER BY min_amount
	`

	rows, err := q.Query(ctx, query, kind, asOf)
	if err != nil {
		return nil, fmt.Errorf("failed to list %s brackets: %w", kind, err)
	}
	defer rows.Close()

	var brackets []bracket.Bracket
	for rows.Next() {
		var b bracket.Bracket
		err := rows.Scan(
			&b.ID, &b.Kind, &b.MinAmount, &b.MaxAmount, &b.Rate, &b.BaseAmount,
			&b.BaseFloor, &b.BaseCeiling, &b.MaxContribution,
			&b.EffectiveFrom, &b.EffectiveTo,
			&b.CreatedAt, &b.UpdatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan bracket: %w", err)
		}
		brackets = append(brackets, b)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate brackets: %w", err)
	}

	return brackets, nil
}
