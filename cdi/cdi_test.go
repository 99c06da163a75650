package cdi_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"cloud.google.com/go/civil"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/warp/yield-engine/cdi"
	"github.com/warp/yield-engine/generic"
	"github.com/warp/yield-engine/generic/store"
)

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

// =============================================================================
// TAX BRACKETS
// =============================================================================

func TestWithholdingRate_Brackets(t *testing.T) {
	tests := []struct {
		days int
		want string
	}{
		{180, "0.225"},
		{181, "0.20"},
		{360, "0.20"},
		{361, "0.175"},
		{720, "0.175"},
		{721, "0.15"},
	}
	for _, tt := range tests {
		got := cdi.WithholdingRate(tt.days)
		assert.True(t, got.Equal(dec(tt.want)), "withholdingRate(%d) = %s, want %s", tt.days, got, tt.want)
	}
	assert.NoError(t, cdi.RegressiveIncomeTax.Validate())
}

// =============================================================================
// RATE SERIES
// =============================================================================

func TestLatestRate_SortsByEffectiveDate(t *testing.T) {
	// GIVEN: SGS rows out of order
	// WHEN: Picking the latest
	// THEN: The row with the greatest date wins, converted from percent

	var records []cdi.RateRecord
	for _, row := range [][2]string{
		{"15/03/2025", "0.049037"},
		{"02/01/2025", "0.045513"},
		{"31/03/2025", "0.052531"},
		{"10/02/2025", "0.049037"},
	} {
		r, err := cdi.ParseRateRecord(row[0], row[1])
		require.NoError(t, err)
		records = append(records, r)
	}

	rate, date, ok := cdi.LatestRate(records)
	require.True(t, ok)
	assert.Equal(t, civil.Date{Year: 2025, Month: time.March, Day: 31}, date)
	assert.True(t, rate.Equal(dec("0.00052531")), "rate %s", rate)

	// input untouched
	assert.Equal(t, 15, records[0].Date.Day)
}

func TestLatestRate_Empty(t *testing.T) {
	_, _, ok := cdi.LatestRate(nil)
	assert.False(t, ok)
}

func TestParseRateRecord_Invalid(t *testing.T) {
	_, err := cdi.ParseRateRecord("2025-01-02", "0.04")
	assert.Error(t, err)
	_, err = cdi.ParseRateRecord("02/01/2025", "n/a")
	assert.Error(t, err)
}

// =============================================================================
// NATIONAL CALENDAR
// =============================================================================

func TestNationalCalendar_2025(t *testing.T) {
	holidays := cdi.NewNationalCalendar().HolidaysIn(2025)

	byDate := map[string]string{}
	for _, h := range holidays {
		byDate[h.Date.String()] = h.Name
	}

	// Easter 2025 is April 20
	assert.Equal(t, "Carnaval", byDate["2025-03-03"])
	assert.Equal(t, "Carnaval", byDate["2025-03-04"])
	assert.Equal(t, "Sexta-feira Santa", byDate["2025-04-18"])
	assert.Equal(t, "Tiradentes", byDate["2025-04-21"])
	assert.Equal(t, "Corpus Christi", byDate["2025-06-19"])
	assert.Equal(t, "Dia da consciência negra", byDate["2025-11-20"])
	assert.Equal(t, "Natal", byDate["2025-12-25"])
	assert.Len(t, holidays, 13)

	for i := 1; i < len(holidays); i++ {
		assert.False(t, holidays[i].Date.Before(holidays[i-1].Date), "not sorted at %d", i)
	}
}

func TestNationalCalendar_BlackConsciousnessStartsIn2024(t *testing.T) {
	cal := cdi.NewNationalCalendar()
	set2023 := generic.NewHolidaySet(cal.HolidaysIn(2023))
	set2024 := generic.NewHolidaySet(cal.HolidaysIn(2024))

	assert.False(t, set2023.Contains(generic.NewDate(2023, time.November, 20)))
	assert.True(t, set2024.Contains(generic.NewDate(2024, time.November, 20)))
}

// =============================================================================
// SIMULATOR
// =============================================================================

func TestSimulator_Simulate(t *testing.T) {
	mem := store.NewMemory().SetRate(2025, dec("0.0004"))
	sim := cdi.NewSimulator(cdi.NewNationalCalendar(), mem)

	result, err := sim.Simulate(context.Background(), generic.SimulationInput{
		Principal:          dec("1000.00"),
		StartDate:          generic.NewDate(2025, time.February, 28), // Friday before Carnaval
		TargetBusinessDays: 3,
	})
	require.NoError(t, err)
	require.Len(t, result.Records, 3)

	// Carnaval Monday and Tuesday are skipped
	assert.Equal(t, "2025-03-05", result.Records[0].Date.String())
	assert.Equal(t, "2025-03-06", result.Records[1].Date.String())
	assert.Equal(t, "2025-03-07", result.Records[2].Date.String())
	assert.True(t, result.DailyRate.Equal(dec("0.0004")))
	assert.True(t, result.WithholdingRate.Equal(dec("0.225")))
	assert.Empty(t, result.Holidays, "Carnaval falls before the first credited day")
}

func TestSimulator_HolidaysInsideRange(t *testing.T) {
	mem := store.NewMemory().SetRate(2025, dec("0.0004"))
	sim := cdi.NewSimulator(cdi.NewNationalCalendar(), mem)

	result, err := sim.Simulate(context.Background(), generic.SimulationInput{
		Principal:          dec("1000"),
		StartDate:          generic.NewDate(2025, time.April, 1),
		TargetBusinessDays: 30,
	})
	require.NoError(t, err)

	var names []string
	for _, h := range result.Holidays {
		names = append(names, h.Name)
	}
	assert.Equal(t, []string{"Sexta-feira Santa", "Tiradentes", "Dia do trabalho"}, names)
}

func TestSimulator_NoRateData(t *testing.T) {
	sim := cdi.NewSimulator(cdi.NewNationalCalendar(), store.NewMemory())

	_, err := sim.Simulate(context.Background(), generic.SimulationInput{
		Principal:          dec("1000"),
		StartDate:          generic.NewDate(2025, time.January, 3),
		TargetBusinessDays: 5,
	})
	assert.ErrorIs(t, err, generic.ErrNoRateData)
	assert.False(t, generic.IsRetryable(err))
}

func TestSimulator_InvalidInput_NoProviderCall(t *testing.T) {
	called := false
	rates := generic.RateProviderFunc(func(context.Context, int) (decimal.Decimal, error) {
		called = true
		return decimal.Zero, errors.New("should not be called")
	})
	sim := cdi.NewSimulator(cdi.NewNationalCalendar(), rates)

	_, err := sim.Simulate(context.Background(), generic.SimulationInput{
		Principal:          dec("-1"),
		StartDate:          generic.NewDate(2025, time.January, 3),
		TargetBusinessDays: 5,
	})
	assert.ErrorIs(t, err, generic.ErrInvalidInput)
	assert.False(t, called)
}

func TestFixedRate(t *testing.T) {
	rate, err := cdi.FixedRate(dec("0.0005")).DailyRate(context.Background(), 1999)
	require.NoError(t, err)
	assert.True(t, rate.Equal(dec("0.0005")))
}
