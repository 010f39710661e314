package bracket

import (
	"time"

	"github.com/shopspring/decimal"
)

// Lookup selects the unique bracket effective on asOf whose range contains
// amount. Range bounds are min-inclusive, max-exclusive; the final range of
// a table may be unbounded. Returns *NoMatchingBracketError when nothing
// matches.
func Lookup(tables []Bracket, amount decimal.Decimal, asOf time.Time) (Bracket, error) {
	for i := range tables {
		b := &tables[i]
		if !b.EffectiveOn(asOf) {
			continue
		}
		if b.Contains(amount) {
			return *b, nil
		}
	}

	kind := Kind("")
	if len(tables) > 0 {
		kind = tables[0].Kind
	}
	return Bracket{}, &NoMatchingBracketError{Kind: kind, Amount: amount, AsOf: asOf}
}
