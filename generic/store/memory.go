// Package store provides in-memory provider implementations.
package store

import (
	"context"
	"sync"

	"github.com/shopspring/decimal"
	"github.com/warp/yield-engine/generic"
)

// =============================================================================
// MEMORY HOLIDAYS - Static holiday provider (for testing/dev)
// =============================================================================

// Memory serves fixed holiday lists and daily rates per year and counts the
// calls it receives. Years without data return an empty holiday list; rate
// lookups for unknown years fail with ErrNoRateData.
type Memory struct {
	mu       sync.RWMutex
	holidays map[int][]generic.Holiday
	rates    map[int]decimal.Decimal
	calls    map[int]int
	rateHits map[int]int
	failures map[int]error
}

func NewMemory() *Memory {
	return &Memory{
		holidays: make(map[int][]generic.Holiday),
		rates:    make(map[int]decimal.Decimal),
		calls:    make(map[int]int),
		rateHits: make(map[int]int),
		failures: make(map[int]error),
	}
}

// AddHoliday registers a holiday under its date's year.
func (m *Memory) AddHoliday(h generic.Holiday) *Memory {
	m.mu.Lock()
	defer m.mu.Unlock()
	year := h.Date.Year()
	m.holidays[year] = append(m.holidays[year], h)
	return m
}

// SetRate registers the daily rate returned for year.
func (m *Memory) SetRate(year int, rate decimal.Decimal) *Memory {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.rates[year] = rate
	return m
}

// FailYear makes every holiday and rate lookup for year return err.
func (m *Memory) FailYear(year int, err error) *Memory {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.failures[year] = err
	return m
}

// Holidays implements generic.HolidayProvider.
func (m *Memory) Holidays(_ context.Context, year int) ([]generic.Holiday, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.calls[year]++
	if err := m.failures[year]; err != nil {
		return nil, err
	}
	result := make([]generic.Holiday, len(m.holidays[year]))
	copy(result, m.holidays[year])
	return result, nil
}

// DailyRate implements generic.RateProvider.
func (m *Memory) DailyRate(_ context.Context, year int) (decimal.Decimal, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.rateHits[year]++
	if err := m.failures[year]; err != nil {
		return decimal.Zero, err
	}
	rate, ok := m.rates[year]
	if !ok {
		return decimal.Zero, generic.NoRateData("memory", year)
	}
	return rate, nil
}

// Calls returns how many times Holidays was called for year.
func (m *Memory) Calls(year int) int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.calls[year]
}

// RateCalls returns how many times DailyRate was called for year.
func (m *Memory) RateCalls(year int) int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.rateHits[year]
}

// TotalCalls returns the number of Holidays calls across all years.
func (m *Memory) TotalCalls() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	n := 0
	for _, c := range m.calls {
		n += c
	}
	return n
}

var (
	_ generic.HolidayProvider = (*Memory)(nil)
	_ generic.RateProvider    = (*Memory)(nil)
)
