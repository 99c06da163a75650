// Package cdi implements CDI-indexed fixed-income projections.
// It configures the generic engine with Brazilian tax brackets, the national
// holiday calendar and the rules for turning published rate series into a
// single daily rate.
package cdi

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"cloud.google.com/go/civil"
	"github.com/shopspring/decimal"
	"github.com/warp/yield-engine/generic"
)

// =============================================================================
// RATE SERIES
// =============================================================================

// SeriesCDI is the BCB SGS series code for the daily CDI rate (percent).
const SeriesCDI = 11

// SGSDateLayout is the dd/MM/yyyy layout used by SGS rows.
const SGSDateLayout = "02/01/2006"

// RateRecord is one published daily rate. Value is in percent, as published
// ("0.045513" means 0.045513% per day).
type RateRecord struct {
	Date  civil.Date
	Value decimal.Decimal
}

// ParseRateRecord parses an SGS row.
func ParseRateRecord(date, value string) (RateRecord, error) {
	t, err := time.Parse(SGSDateLayout, strings.TrimSpace(date))
	if err != nil {
		return RateRecord{}, fmt.Errorf("parsing rate date %q: %w", date, err)
	}
	v, err := decimal.NewFromString(strings.TrimSpace(value))
	if err != nil {
		return RateRecord{}, fmt.Errorf("parsing rate value %q: %w", value, err)
	}
	return RateRecord{Date: civil.DateOf(t), Value: v}, nil
}

// LatestRate sorts records by effective date and returns the most recent
// value as a fraction (percent / 100). The input slice is not modified.
func LatestRate(records []RateRecord) (decimal.Decimal, civil.Date, bool) {
	if len(records) == 0 {
		return decimal.Zero, civil.Date{}, false
	}
	sorted := make([]RateRecord, len(records))
	copy(sorted, records)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Date.Before(sorted[j].Date)
	})
	last := sorted[len(sorted)-1]
	return last.Value.Div(decimal.NewFromInt(100)), last.Date, true
}

// =============================================================================
// TAX - Regressive income tax on fixed income
// =============================================================================

// RegressiveIncomeTax is the withholding table for fixed-income products,
// keyed by holding period in business days.
var RegressiveIncomeTax = generic.TaxTable{
	{MaxDays: 180, Rate: decimal.RequireFromString("0.225")},
	{MaxDays: 360, Rate: decimal.RequireFromString("0.20")},
	{MaxDays: 720, Rate: decimal.RequireFromString("0.175")},
	{MaxDays: 0, Rate: decimal.RequireFromString("0.15")},
}

// WithholdingRate returns the regressive income tax rate for a holding period.
func WithholdingRate(businessDaysHeld int) decimal.Decimal {
	return RegressiveIncomeTax.RateFor(businessDaysHeld)
}
