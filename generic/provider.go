/*
provider.go - Boundary interfaces for holiday and rate data

PURPOSE:
  The engine consumes two capabilities supplied by the host. Implementations
  live outside this package:

    generic/store:        in-memory providers (tests, offline runs)
    cdi:                  Brazilian national calendar (computed, no network)
    provider/brasilapi:   holiday adapter over HTTP
    provider/bcb:         daily rate adapter over HTTP
    provider/holidayfile: YAML holiday fixtures
    store/sqlite:         read-through cache in front of any of the above

CONTRACT:
  HolidayProvider.Holidays fails with an error matching
  ErrProviderUnavailable when the backing service errors.
  RateProvider.DailyRate additionally fails with ErrNoRateData when the
  year has no records. Rates are decimal fractions (0.0004, not 0.04%).
*/
package generic

import (
	"context"

	"github.com/shopspring/decimal"
)

// HolidayProvider supplies the holidays of one year.
type HolidayProvider interface {
	Holidays(ctx context.Context, year int) ([]Holiday, error)
}

// RateProvider supplies the most recent daily rate published for a year.
type RateProvider interface {
	DailyRate(ctx context.Context, year int) (decimal.Decimal, error)
}

// HolidayProviderFunc adapts a function to HolidayProvider.
type HolidayProviderFunc func(ctx context.Context, year int) ([]Holiday, error)

func (f HolidayProviderFunc) Holidays(ctx context.Context, year int) ([]Holiday, error) {
	return f(ctx, year)
}

// RateProviderFunc adapts a function to RateProvider.
type RateProviderFunc func(ctx context.Context, year int) (decimal.Decimal, error)

func (f RateProviderFunc) DailyRate(ctx context.Context, year int) (decimal.Decimal, error) {
	return f(ctx, year)
}

// MergeHolidays combines several providers. Every provider is queried and
// the union is returned sorted; the first failure aborts.
func MergeHolidays(providers ...HolidayProvider) HolidayProvider {
	return HolidayProviderFunc(func(ctx context.Context, year int) ([]Holiday, error) {
		seen := make(map[Holiday]bool)
		var out []Holiday
		for _, p := range providers {
			if p == nil {
				continue
			}
			hs, err := p.Holidays(ctx, year)
			if err != nil {
				return nil, err
			}
			for _, h := range hs {
				if !seen[h] {
					seen[h] = true
					out = append(out, h)
				}
			}
		}
		SortHolidays(out)
		return out, nil
	})
}
