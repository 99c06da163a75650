/*
scheduler.go - Provider cache warmer

PURPOSE:
  Periodically loads the current and next year's holidays and the current
  year's rate through the cached provider chain, so the first simulation of
  the day does not pay for the remote calls.

DESIGN:
  - Runs a background goroutine with configurable check interval
  - Goes through the same SQLite read-through cache the handlers use, so a
    warm cache costs one local query per item
  - Failures are logged and recorded; the next tick tries again
  - The rate refreshes only when its TTL has expired (see store/sqlite)

CONFIGURATION:
  - Interval: How often to warm (server.prefetch_interval, default 6h)
  - Enabled: Whether the prefetcher is active (interval > 0)

USAGE:
  prefetcher := NewPrefetcher(app, 6*time.Hour)
  prefetcher.Start()
  // ... later
  prefetcher.Stop()

SEE ALSO:
  - handlers.go: Prefetch / PrefetchStatus endpoints (manual trigger)
  - store/sqlite/sqlite.go: CachedHolidays, CachedRates
*/
package api

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/warp/yield-engine/bootstrap"
	"github.com/warp/yield-engine/generic"
)

// Prefetcher warms the provider caches on a ticker.
type Prefetcher struct {
	Holidays generic.HolidayProvider
	Rates    generic.RateProvider
	Interval time.Duration
	Enabled  bool
	Timeout  time.Duration
	Logger   *slog.Logger

	now func() time.Time

	ticker *time.Ticker
	stop   chan struct{}
	wg     sync.WaitGroup
	mu     sync.Mutex

	statusMu sync.RWMutex
	status   PrefetchStatusDTO
}

// PrefetchStatusDTO reports the last warm-up.
type PrefetchStatusDTO struct {
	Enabled  bool      `json:"enabled"`
	Interval string    `json:"interval"`
	LastRun  time.Time `json:"last_run,omitempty"`
	NextRun  time.Time `json:"next_run,omitempty"`
	Years    []int     `json:"years,omitempty"`
	Errors   []string  `json:"errors,omitempty"`
}

// NewPrefetcher creates a prefetcher over the app's cached providers.
func NewPrefetcher(app *bootstrap.App, interval time.Duration) *Prefetcher {
	logger := app.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &Prefetcher{
		Holidays: app.Holidays,
		Rates:    app.Rates,
		Interval: interval,
		Enabled:  interval > 0,
		Timeout:  time.Minute,
		Logger:   logger,
		now:      time.Now,
		stop:     make(chan struct{}),
	}
}

// Start begins the prefetcher.
func (p *Prefetcher) Start() {
	p.mu.Lock()
	defer p.mu.Unlock()

	if !p.Enabled || p.ticker != nil {
		p.Logger.Info("prefetch.not_started", "enabled", p.Enabled)
		return
	}

	p.ticker = time.NewTicker(p.Interval)
	p.wg.Add(1)

	go p.run()

	p.Logger.Info("prefetch.started", "interval", p.Interval.String())
}

// Stop stops the prefetcher and waits for an in-flight run.
func (p *Prefetcher) Stop() {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.ticker != nil {
		p.ticker.Stop()
		close(p.stop)
		p.wg.Wait()
		p.ticker = nil
		p.Logger.Info("prefetch.stopped")
	}
}

func (p *Prefetcher) run() {
	defer p.wg.Done()

	// Run immediately on start
	p.tick()

	for {
		select {
		case <-p.ticker.C:
			p.tick()
		case <-p.stop:
			return
		}
	}
}

func (p *Prefetcher) tick() {
	ctx, cancel := context.WithTimeout(context.Background(), p.Timeout)
	defer cancel()
	p.RunNow(ctx)
}

// RunNow warms the caches immediately (for testing/admin).
func (p *Prefetcher) RunNow(ctx context.Context) {
	now := p.now()
	year := now.Year()
	years := []int{year, year + 1}

	var errs []string
	for _, y := range years {
		if _, err := p.Holidays.Holidays(ctx, y); err != nil {
			p.Logger.Warn("prefetch.holidays_failed", "year", y, "err", err)
			errs = append(errs, err.Error())
		}
	}
	if p.Rates != nil {
		if _, err := p.Rates.DailyRate(ctx, year); err != nil {
			p.Logger.Warn("prefetch.rate_failed", "year", year, "err", err)
			errs = append(errs, err.Error())
		}
	}

	p.statusMu.Lock()
	p.status = PrefetchStatusDTO{
		LastRun: now.UTC(),
		Years:   years,
		Errors:  errs,
	}
	p.statusMu.Unlock()

	p.Logger.Debug("prefetch.done", "years", years, "errors", len(errs))
}

// Status returns the outcome of the last run.
func (p *Prefetcher) Status() PrefetchStatusDTO {
	p.statusMu.RLock()
	s := p.status
	p.statusMu.RUnlock()

	s.Enabled = p.Enabled
	s.Interval = p.Interval.String()
	if p.Enabled && !s.LastRun.IsZero() {
		s.NextRun = s.LastRun.Add(p.Interval)
	}
	return s
}
