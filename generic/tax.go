package generic

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// =============================================================================
// TAX POLICY - Withholding rate by holding period
// =============================================================================

// TaxBracket applies Rate to holding periods up to and including MaxDays.
// MaxDays == 0 marks the open-ended last bracket.
type TaxBracket struct {
	MaxDays int
	Rate    decimal.Decimal
}

// TaxTable is an ordered list of brackets, shortest holding period first.
type TaxTable []TaxBracket

// RateFor returns the withholding rate for a holding period in business
// days. Non-positive periods fall into the first bracket.
func (t TaxTable) RateFor(days int) decimal.Decimal {
	for _, b := range t {
		if b.MaxDays == 0 || days <= b.MaxDays {
			return b.Rate
		}
	}
	if len(t) == 0 {
		return decimal.Zero
	}
	return t[len(t)-1].Rate
}

// Validate requires strictly ascending bounds, exactly one open bracket at
// the end, and rates in [0, 1).
func (t TaxTable) Validate() error {
	if len(t) == 0 {
		return &InputError{Field: "tax", Reason: "table has no brackets"}
	}
	prev := 0
	for i, b := range t {
		if b.Rate.IsNegative() || b.Rate.GreaterThanOrEqual(one) {
			return &InputError{Field: "tax", Reason: fmt.Sprintf("bracket %d rate %s outside [0, 1)", i, b.Rate)}
		}
		last := i == len(t)-1
		switch {
		case b.MaxDays == 0 && !last:
			return &InputError{Field: "tax", Reason: fmt.Sprintf("open bracket %d is not the last one", i)}
		case b.MaxDays != 0 && last:
			return &InputError{Field: "tax", Reason: "last bracket must be open-ended (max_days = 0)"}
		case b.MaxDays != 0 && b.MaxDays <= prev:
			return &InputError{Field: "tax", Reason: fmt.Sprintf("bracket %d bound %d not ascending", i, b.MaxDays)}
		}
		prev = b.MaxDays
	}
	return nil
}
