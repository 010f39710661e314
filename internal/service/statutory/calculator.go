package statutory

import (
	"context"
	"fmt"
	"time"

	"github.com/cmlabs-hris/payroll-engine-go/internal/domain/bracket"
	"github.com/shopspring/decimal"
)

// Deductions is the per-employee statutory withholding breakdown. The four
// streams are computed independently from the monthly gross and summed into
// the government total, reported separately from policy deductions.
type Deductions struct {
	Tax     decimal.Decimal
	Health  decimal.Decimal
	Social  decimal.Decimal
	Housing decimal.Decimal
	Total   decimal.Decimal
}

type Calculator struct {
	brackets bracket.Store
}

func NewCalculator(brackets bracket.Store) *Calculator {
	return &Calculator{brackets: brackets}
}

// Compute calculates all four statutory streams for the given monthly
// gross. A missing bracket is fatal: understating a mandated withholding
// is worse than failing the request.
func (c *Calculator) Compute(ctx context.Context, gross decimal.Decimal, asOf time.Time) (Deductions, error) {
	var d Deductions

	tax, err := c.computeTax(ctx, gross, asOf)
	if err != nil {
		return Deductions{}, err
	}
	d.Tax = tax

	health, err := c.computeContribution(ctx, bracket.KindHealth, gross, asOf)
	if err != nil {
		return Deductions{}, err
	}
	d.Health = health

	social, err := c.computeContribution(ctx, bracket.KindSocial, gross, asOf)
	if err != nil {
		return Deductions{}, err
	}
	d.Social = social

	housing, err := c.computeContribution(ctx, bracket.KindHousing, gross, asOf)
	if err != nil {
		return Deductions{}, err
	}
	d.Housing = housing

	d.Total = d.Tax.Add(d.Health).Add(d.Social).Add(d.Housing)
	return d, nil
}

// computeTax applies the progressive formula:
// baseTax(bracket) + rate(bracket) * (base - bracket.min), where the
// computation base is clamped before the rate is applied.
func (c *Calculator) computeTax(ctx context.Context, gross decimal.Decimal, asOf time.Time) (decimal.Decimal, error) {
	tables, err := c.brackets.GetTables(ctx, bracket.KindTax, asOf)
	if err != nil {
		return decimal.Zero, fmt.Errorf("load tax tables: %w", err)
	}

	b, err := bracket.Lookup(tables, gross, asOf)
	if err != nil {
		return decimal.Zero, err
	}

	base := b.ClampBase(gross)
	amount := b.BaseAmount.Add(b.Rate.Mul(base.Sub(b.MinAmount)))
	return amount, nil
}

// computeContribution applies the capped-base formula for the insurance
// and housing-fund streams: baseAmount + rate * clampedBase, with an
// additional clamp to the table's absolute maximum contribution where one
// is configured.
func (c *Calculator) computeContribution(ctx context.Context, kind bracket.Kind, gross decimal.Decimal, asOf time.Time) (decimal.Decimal, error) {
	tables, err := c.brackets.GetTables(ctx, kind, asOf)
	if err != nil {
		return decimal.Zero, fmt.Errorf("load %s tables: %w", kind, err)
	}

	b, err := bracket.Lookup(tables, gross, asOf)
	if err != nil {
		return decimal.Zero, err
	}

	base := b.ClampBase(gross)
	amount := b.BaseAmount.Add(b.Rate.Mul(base))
	if b.MaxContribution != nil && amount.GreaterThan(*b.MaxContribution) {
		amount = *b.MaxContribution
	}
	return amount, nil
}
