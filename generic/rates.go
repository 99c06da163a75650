package generic

import "github.com/shopspring/decimal"

// BusinessDaysPerYear is the day count used to annualize a daily rate.
const BusinessDaysPerYear = 252

// annualPrecision is the scale of annualized rates.
const annualPrecision = 10

// Annualize converts a daily rate into the equivalent annual rate:
// (1 + daily)^252 - 1.
func Annualize(dailyRate decimal.Decimal) decimal.Decimal {
	factor := one
	base := one.Add(dailyRate)
	for i := 0; i < BusinessDaysPerYear; i++ {
		factor = factor.Mul(base).Round(2 * annualPrecision)
	}
	return factor.Sub(one).Round(annualPrecision)
}

// Percent renders a fraction as a percentage with two decimals ("10.60").
func Percent(rate decimal.Decimal) string {
	return rate.Mul(decimal.NewFromInt(100)).StringFixed(2)
}
