/*
projection.go - Business-day compounding projection

PURPOSE:
  Walks forward from a start date one calendar day at a time, credits the
  daily rate on every business day and records gross/net increments and the
  running balance until the target number of business days is reached.

ALGORITHM:
  1. Pick the withholding rate once, from the TARGET business-day count.
     The bracket does not change as days accumulate.
  2. balance = principal, counted = 0, cursor = start date.
  3. Loop:
       cursor = next day
       load cursor's year holidays if not loaded yet (once per year)
       if business day:
           gross   = balance * dailyRate
           net     = gross * (1 - withholding)
           balance = balance + net
           emit DailyRecord{cursor, gross, net, balance}
           counted++
  4. Stop when counted == target.

  The start date itself never earns: the first candidate is the day after.

CEILING:
  A holiday set covering every weekday would make the loop run forever.
  After MaxCalendarDays the engine gives up with ErrProjectionStalled.

ROUNDING:
  Increments are rounded to Precision decimal places before being added,
  so BalanceAfter[i] == BalanceAfter[i-1] + NetIncrement[i] holds exactly.

HOLIDAY LOADING:
  The engine asks for a year's holidays only when the cursor enters that
  year. Each Project call uses a fresh HolidayCache unless the host supplies
  a pooled one in Cache.

EXAMPLE:
  engine := &ProjectionEngine{Holidays: provider, Taxes: cdi.RegressiveIncomeTax}
  result, err := engine.Project(ctx, SimulationInput{
      Principal:          decimal.NewFromInt(1000),
      StartDate:          NewDate(2025, time.January, 3), // Friday
      TargetBusinessDays: 1,
  }, decimal.RequireFromString("0.0004"))
  // result.Records[0]: 2025-01-06, gross 0.40, net 0.31, balance 1000.31

SEE ALSO:
  - holidays.go: HolidayCache
  - tax.go:      TaxTable
  - rates.go:    Annualize
*/
package generic

import (
	"context"
	"io"
	"log/slog"

	"github.com/shopspring/decimal"
)

// =============================================================================
// PROJECTION ENGINE
// =============================================================================

// DefaultPrecision is the number of decimal places kept for increments.
const DefaultPrecision int32 = 10

// ProjectionEngine projects a position over business days.
type ProjectionEngine struct {
	// Holidays loads a year's holidays. Required.
	Holidays HolidayProvider

	// Taxes selects the withholding rate. An empty table withholds nothing.
	Taxes TaxTable

	// Precision is the scale increments are rounded to (default 10).
	Precision int32

	// MaxCalendarDays caps the loop (default 7*target + 366).
	MaxCalendarDays int

	// Cache, when set, is shared across Project calls.
	Cache *HolidayCache

	Logger *slog.Logger
}

// ProjectionResult holds the records plus summary values for display.
type ProjectionResult struct {
	Input           SimulationInput
	DailyRate       decimal.Decimal
	AnnualRate      decimal.Decimal
	WithholdingRate decimal.Decimal

	// Records, one per business day, in chronological order.
	Records []DailyRecord

	FinalBalance decimal.Decimal
	TotalGross   decimal.Decimal
	TotalNet     decimal.Decimal
	TotalTax     decimal.Decimal

	// Period spans the first to the last record.
	Period Period

	// Holidays loaded during the run that fall inside Period.
	Holidays []Holiday

	// CalendarDays is how many days the cursor advanced.
	CalendarDays int
}

// Project runs the projection. ctx is handed to the holiday provider; the
// loop itself has no cancellation points.
func (pe *ProjectionEngine) Project(ctx context.Context, input SimulationInput, dailyRate decimal.Decimal) (*ProjectionResult, error) {
	if err := input.Validate(); err != nil {
		return nil, err
	}
	if dailyRate.IsNegative() {
		return nil, &InputError{Field: "daily_rate", Reason: "must not be negative"}
	}
	if pe.Holidays == nil && pe.Cache == nil {
		return nil, &InputError{Field: "holidays", Reason: "no holiday provider configured"}
	}

	logger := pe.logger()
	cache := pe.Cache
	if cache == nil {
		cache = NewHolidayCache(pe.Holidays).WithLogger(logger)
	}

	precision := pe.Precision
	if precision <= 0 {
		precision = DefaultPrecision
	}
	ceiling := pe.MaxCalendarDays
	if ceiling <= 0 {
		ceiling = 7*input.TargetBusinessDays + 366
	}

	// 1. Bracket fixed for the whole run
	withholding := pe.Taxes.RateFor(input.TargetBusinessDays)
	netFactor := one.Sub(withholding)

	// 2. Initial state
	var (
		balance    = input.Principal
		counted    = 0
		cursor     = input.StartDate
		calendar   = 0
		totalGross = decimal.Zero
		totalNet   = decimal.Zero
		records    = make([]DailyRecord, 0, min(input.TargetBusinessDays, BusinessDaysPerYear))
		yearSet    HolidaySet
		year       = 0
	)

	logger.Debug("projection.start",
		"principal", input.Principal.String(),
		"start", input.StartDate.String(),
		"target", input.TargetBusinessDays,
		"daily_rate", dailyRate.String(),
		"withholding", withholding.String(),
	)

	// 3. Advance until the target is reached
	for counted < input.TargetBusinessDays {
		if calendar >= ceiling {
			return nil, &StalledError{
				Target:       input.TargetBusinessDays,
				Counted:      counted,
				CalendarDays: calendar,
				Last:         cursor,
			}
		}

		cursor = AdvanceOneDay(cursor)
		calendar++

		if yearSet == nil || cursor.Year() != year {
			set, err := cache.Year(ctx, cursor.Year())
			if err != nil {
				return nil, err
			}
			yearSet, year = set, cursor.Year()
		}

		if !IsBusinessDay(cursor, yearSet) {
			continue
		}

		gross := balance.Mul(dailyRate).Round(precision)
		net := gross.Mul(netFactor).Round(precision)
		balance = balance.Add(net)

		records = append(records, DailyRecord{
			Date:           cursor,
			GrossIncrement: gross,
			NetIncrement:   net,
			BalanceAfter:   balance,
		})
		totalGross = totalGross.Add(gross)
		totalNet = totalNet.Add(net)
		counted++
	}

	// 4. Summary
	period := Period{Start: records[0].Date, End: records[len(records)-1].Date}
	result := &ProjectionResult{
		Input:           input,
		DailyRate:       dailyRate,
		AnnualRate:      Annualize(dailyRate),
		WithholdingRate: withholding,
		Records:         records,
		FinalBalance:    balance,
		TotalGross:      totalGross,
		TotalNet:        totalNet,
		TotalTax:        totalGross.Sub(totalNet),
		Period:          period,
		Holidays:        cache.InPeriod(period),
		CalendarDays:    calendar,
	}

	logger.Debug("projection.done",
		"records", len(records),
		"calendar_days", calendar,
		"final_balance", balance.String(),
	)
	return result, nil
}

func (pe *ProjectionEngine) logger() *slog.Logger {
	if pe.Logger != nil {
		return pe.Logger
	}
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}
