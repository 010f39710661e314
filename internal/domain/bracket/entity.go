package bracket

import (
	"time"

	"github.com/shopspring/decimal"
)

// Kind identifies which statutory table a bracket belongs to.
type Kind string

const (
	KindTax     Kind = "tax"
	KindHealth  Kind = "health"
	KindSocial  Kind = "social"
	KindHousing Kind = "housing"
)

var KindValues = []string{
	string(KindTax),
	string(KindHealth),
	string(KindSocial),
	string(KindHousing),
}

// Bracket is one tiered range of a statutory rate table. Ranges are
// half-open [MinAmount, MaxAmount); a nil MaxAmount means unbounded.
// For a given kind and effective date the configured ranges must
// partition [0, inf) with no gap or overlap.
type Bracket struct {
	ID   string
	Kind Kind

	MinAmount decimal.Decimal
	MaxAmount *decimal.Decimal

	// Rate is applied on top of BaseAmount; progressive tax uses
	// BaseAmount + Rate*(base - MinAmount), contribution kinds use
	// BaseAmount + Rate*base.
	Rate       decimal.Decimal
	BaseAmount decimal.Decimal

	// Floor/ceiling on the computation base, applied before the rate.
	// Distinct from the range bounds above.
	BaseFloor   *decimal.Decimal
	BaseCeiling *decimal.Decimal

	// Absolute cap on the computed contribution, where the table
	// specifies one.
	MaxContribution *decimal.Decimal

	EffectiveFrom time.Time
	EffectiveTo   *time.Time

	CreatedAt time.Time
	UpdatedAt time.Time
}

// EffectiveOn reports whether the bracket's effective window contains asOf.
func (b *Bracket) EffectiveOn(asOf time.Time) bool {
	if asOf.Before(b.EffectiveFrom) {
		return false
	}
	if b.EffectiveTo != nil && asOf.After(*b.EffectiveTo) {
		return false
	}
	return true
}

// Contains reports whether amount falls in [MinAmount, MaxAmount).
func (b *Bracket) Contains(amount decimal.Decimal) bool {
	if amount.LessThan(b.MinAmount) {
		return false
	}
	if b.MaxAmount != nil && amount.GreaterThanOrEqual(*b.MaxAmount) {
		return false
	}
	return true
}

// ClampBase clamps the computation base to [BaseFloor, BaseCeiling].
// The clamp applies to the base before rate application, never to the
// computed output.
func (b *Bracket) ClampBase(amount decimal.Decimal) decimal.Decimal {
	if b.BaseFloor != nil && amount.LessThan(*b.BaseFloor) {
		amount = *b.BaseFloor
	}
	if b.BaseCeiling != nil && amount.GreaterThan(*b.BaseCeiling) {
		amount = *b.BaseCeiling
	}
	return amount
}
