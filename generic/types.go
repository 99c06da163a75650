/*
Package generic provides the business-day compounding engine.

PURPOSE:
  Projects a fixed-income position indexed to a daily reference rate, one
  business day at a time. The package knows nothing about where holidays or
  rates come from; it consumes HolidayProvider and RateProvider and returns
  an ordered list of DailyRecord values.

KEY CONCEPTS IN THIS FILE (types.go):
  - SimulationInput: principal, start date, target business-day count
  - DailyRecord:     one credited business day
  - Decimal helpers: money and rates are shopspring/decimal, never float64

DESIGN PRINCIPLES:
  1. Precision: decimal arithmetic, increments rounded to a fixed scale
  2. Calendar safety: civil dates, weekday through UTC
  3. Immutability: records are values; nothing is updated after emission

USAGE:
  engine := &generic.ProjectionEngine{Holidays: provider, Taxes: table}
  result, err := engine.Project(ctx, generic.SimulationInput{
      Principal:          decimal.NewFromInt(1000),
      StartDate:          generic.NewDate(2025, time.January, 3),
      TargetBusinessDays: 252,
  }, dailyRate)

SEE ALSO:
  - date.go:       Date, IsBusinessDay, AdvanceOneDay
  - holidays.go:   HolidaySet and the per-year cache
  - tax.go:        withholding brackets
  - projection.go: the engine
*/
package generic

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// =============================================================================
// SIMULATION INPUT
// =============================================================================

// MaxTargetBusinessDays bounds one projection: 100 years of 252 business
// days. Larger targets are rejected before any provider call.
const MaxTargetBusinessDays = 100 * BusinessDaysPerYear

type SimulationInput struct {
	Principal          decimal.Decimal
	StartDate          Date
	TargetBusinessDays int
}

// Validate checks the input before any provider is called.
func (in SimulationInput) Validate() error {
	if !in.Principal.IsPositive() {
		return &InputError{Field: "principal", Reason: "must be greater than zero"}
	}
	if in.TargetBusinessDays <= 0 {
		return &InputError{Field: "business_days", Reason: "must be greater than zero"}
	}
	if in.TargetBusinessDays > MaxTargetBusinessDays {
		return &InputError{Field: "business_days", Reason: fmt.Sprintf("must be at most %d", MaxTargetBusinessDays)}
	}
	if in.StartDate.IsZero() || !in.StartDate.IsValid() {
		return &InputError{Field: "start_date", Reason: "missing or not a calendar date"}
	}
	return nil
}

// =============================================================================
// DAILY RECORD - One credited business day
// =============================================================================

type DailyRecord struct {
	Date           Date
	GrossIncrement decimal.Decimal
	NetIncrement   decimal.Decimal
	BalanceAfter   decimal.Decimal
}

// BalanceBefore is the balance the day's rate was applied to.
func (r DailyRecord) BalanceBefore() decimal.Decimal {
	return r.BalanceAfter.Sub(r.NetIncrement)
}

// Tax is the amount withheld on the day.
func (r DailyRecord) Tax() decimal.Decimal {
	return r.GrossIncrement.Sub(r.NetIncrement)
}

// =============================================================================
// DECIMAL HELPERS
// =============================================================================

var one = decimal.NewFromInt(1)

