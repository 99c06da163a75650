package generic

import "github.com/shopspring/decimal"

// Series is a projection laid out for charting: one point per record,
// values rounded to cents.
type Series struct {
	// Labels are record dates as dd/MM/yyyy.
	Labels []string `json:"labels"`
	// Gross is the balance before each day's credit.
	Gross []decimal.Decimal `json:"gross"`
	// Net is the balance after each day's credit.
	Net []decimal.Decimal `json:"net"`
	// Variation is the day-over-day change in the net balance.
	Variation []decimal.Decimal `json:"variation"`
}

// Series derives the chart series from the records.
func (r *ProjectionResult) Series() Series {
	n := len(r.Records)
	s := Series{
		Labels:    make([]string, 0, n),
		Gross:     make([]decimal.Decimal, 0, n),
		Net:       make([]decimal.Decimal, 0, n),
		Variation: make([]decimal.Decimal, 0, n),
	}

	prev := r.Input.Principal
	for _, rec := range r.Records {
		s.Labels = append(s.Labels, rec.Date.BR())
		s.Gross = append(s.Gross, rec.BalanceBefore().Round(2))
		s.Net = append(s.Net, rec.BalanceAfter.Round(2))
		s.Variation = append(s.Variation, rec.BalanceAfter.Sub(prev).Round(2))
		prev = rec.BalanceAfter
	}
	return s
}
