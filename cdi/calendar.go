package cdi

import (
	"context"
	"time"

	cal "github.com/rickar/cal/v2"
	"github.com/warp/yield-engine/generic"
)

// =============================================================================
// NATIONAL CALENDAR - Brazilian national holidays computed locally
// =============================================================================

// Brazilian national holidays, including the Easter-based movable dates
// observed by the interbank market (Carnaval, Good Friday, Corpus Christi).
var (
	NewYear = &cal.Holiday{Name: "Confraternização mundial", Type: cal.ObservancePublic,
		Month: time.January, Day: 1, Func: cal.CalcDayOfMonth}
	CarnivalMonday = &cal.Holiday{Name: "Carnaval", Type: cal.ObservanceBank,
		Offset: -48, Func: cal.CalcEasterOffset}
	CarnivalTuesday = &cal.Holiday{Name: "Carnaval", Type: cal.ObservanceBank,
		Offset: -47, Func: cal.CalcEasterOffset}
	GoodFriday = &cal.Holiday{Name: "Sexta-feira Santa", Type: cal.ObservancePublic,
		Offset: -2, Func: cal.CalcEasterOffset}
	Tiradentes = &cal.Holiday{Name: "Tiradentes", Type: cal.ObservancePublic,
		Month: time.April, Day: 21, Func: cal.CalcDayOfMonth}
	LaborDay = &cal.Holiday{Name: "Dia do trabalho", Type: cal.ObservancePublic,
		Month: time.May, Day: 1, Func: cal.CalcDayOfMonth}
	CorpusChristi = &cal.Holiday{Name: "Corpus Christi", Type: cal.ObservanceBank,
		Offset: 60, Func: cal.CalcEasterOffset}
	IndependenceDay = &cal.Holiday{Name: "Independência do Brasil", Type: cal.ObservancePublic,
		Month: time.September, Day: 7, Func: cal.CalcDayOfMonth}
	OurLadyAparecida = &cal.Holiday{Name: "Nossa Senhora Aparecida", Type: cal.ObservancePublic,
		Month: time.October, Day: 12, Func: cal.CalcDayOfMonth}
	AllSoulsDay = &cal.Holiday{Name: "Finados", Type: cal.ObservancePublic,
		Month: time.November, Day: 2, Func: cal.CalcDayOfMonth}
	RepublicDay = &cal.Holiday{Name: "Proclamação da República", Type: cal.ObservancePublic,
		Month: time.November, Day: 15, Func: cal.CalcDayOfMonth}
	BlackConsciousnessDay = &cal.Holiday{Name: "Dia da consciência negra", Type: cal.ObservancePublic,
		Month: time.November, Day: 20, StartYear: 2024, Func: cal.CalcDayOfMonth}
	Christmas = &cal.Holiday{Name: "Natal", Type: cal.ObservancePublic,
		Month: time.December, Day: 25, Func: cal.CalcDayOfMonth}

	NationalHolidays = []*cal.Holiday{
		NewYear,
		CarnivalMonday,
		CarnivalTuesday,
		GoodFriday,
		Tiradentes,
		LaborDay,
		CorpusChristi,
		IndependenceDay,
		OurLadyAparecida,
		AllSoulsDay,
		RepublicDay,
		BlackConsciousnessDay,
		Christmas,
	}
)

// NationalCalendar is a HolidayProvider that needs no network access.
type NationalCalendar struct {
	Rules []*cal.Holiday
}

// NewNationalCalendar returns a calendar with NationalHolidays.
func NewNationalCalendar() *NationalCalendar {
	return &NationalCalendar{Rules: NationalHolidays}
}

// HolidaysIn lists the holidays of year in date order.
func (c *NationalCalendar) HolidaysIn(year int) []generic.Holiday {
	var out []generic.Holiday
	for _, h := range c.Rules {
		actual, _ := h.Calc(year)
		if actual.IsZero() {
			continue
		}
		out = append(out, generic.Holiday{Date: generic.DateOf(actual), Name: h.Name})
	}
	generic.SortHolidays(out)
	return out
}

// Holidays implements generic.HolidayProvider.
func (c *NationalCalendar) Holidays(_ context.Context, year int) ([]generic.Holiday, error) {
	return c.HolidaysIn(year), nil
}

var _ generic.HolidayProvider = (*NationalCalendar)(nil)
