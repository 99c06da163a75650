package api

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/warp/yield-engine/generic"
	"github.com/warp/yield-engine/generic/store"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newTestPrefetcher(holidays, rates *store.Memory, interval time.Duration) *Prefetcher {
	p := &Prefetcher{
		Holidays: holidays,
		Rates:    rates,
		Interval: interval,
		Enabled:  interval > 0,
		Timeout:  time.Second,
		Logger:   discardLogger(),
		now:      func() time.Time { return fixedNow },
		stop:     make(chan struct{}),
	}
	return p
}

func TestPrefetcher_RunNow(t *testing.T) {
	// GIVEN: Providers with data for the current year
	// WHEN: Warming the caches
	// THEN: Holidays for this year and next plus this year's rate are loaded

	mem := store.NewMemory().SetRate(2025, dec("0.0004"))
	p := newTestPrefetcher(mem, mem, time.Hour)

	p.RunNow(context.Background())

	assert.Equal(t, 1, mem.Calls(2025))
	assert.Equal(t, 1, mem.Calls(2026))
	assert.Equal(t, 1, mem.RateCalls(2025))

	status := p.Status()
	assert.True(t, status.Enabled)
	assert.Equal(t, "1h0m0s", status.Interval)
	assert.Equal(t, []int{2025, 2026}, status.Years)
	assert.Empty(t, status.Errors)
}

func TestPrefetcher_RecordsFailures(t *testing.T) {
	holidays := store.NewMemory().
		FailYear(2026, generic.Unavailable("brasilapi", 2026, 500, errors.New("boom")))
	rates := store.NewMemory()
	p := newTestPrefetcher(holidays, rates, time.Hour)

	p.RunNow(context.Background())

	status := p.Status()
	require.Len(t, status.Errors, 2)
	assert.Contains(t, status.Errors[0], "2026")
	assert.Contains(t, status.Errors[1], "memory")
	assert.Contains(t, status.Errors[1], "2025")
}

func TestPrefetcher_StartStop(t *testing.T) {
	// GIVEN: An enabled prefetcher
	// WHEN: Starting and stopping it
	// THEN: The immediate run has completed by the time Stop returns

	mem := store.NewMemory().SetRate(2025, dec("0.0004"))
	p := newTestPrefetcher(mem, mem, time.Hour)

	p.Start()
	p.Start() // second start is a no-op
	p.Stop()
	p.Stop()

	assert.Equal(t, 1, mem.Calls(2025))
	assert.False(t, p.Status().LastRun.IsZero())
}

func TestPrefetcher_Disabled(t *testing.T) {
	mem := store.NewMemory()
	p := newTestPrefetcher(mem, mem, 0)

	p.Start()
	p.Stop()

	assert.Zero(t, mem.TotalCalls())
	status := p.Status()
	assert.False(t, status.Enabled)
	assert.True(t, status.NextRun.IsZero())
}
