/*
Package bootstrap wires configuration into a ready-to-use simulator.

PURPOSE:
  Both binaries (the HTTP server and the yieldsim CLI) need the same chain
  of providers. This package builds it once from config.Config.

PROVIDER CHAIN:
  holidays: brasilapi (or the computed national calendar when offline)
            -> SQLite read-through cache (+ custom holidays)
            + optional YAML holiday file
            -> optional pooled HolidayCache shared by every simulation
  rates:    bcb SGS series (or providers.fixed_daily_rate when offline)
            -> SQLite read-through cache with providers.rate_ttl

SEE ALSO:
  - config/config.go: settings consumed here
  - cdi/simulator.go: the orchestration this feeds
*/
package bootstrap

import (
	"fmt"
	"log/slog"

	"github.com/warp/yield-engine/cdi"
	"github.com/warp/yield-engine/config"
	"github.com/warp/yield-engine/generic"
	"github.com/warp/yield-engine/provider/bcb"
	"github.com/warp/yield-engine/provider/brasilapi"
	"github.com/warp/yield-engine/provider/holidayfile"
	"github.com/warp/yield-engine/provider/httpclient"
	"github.com/warp/yield-engine/store/sqlite"
)

// App holds the wired components. Close releases the database.
type App struct {
	Config    config.Config
	Store     *sqlite.Store
	Holidays  generic.HolidayProvider
	Rates     generic.RateProvider
	Simulator *cdi.Simulator
	Logger    *slog.Logger

	// Source names the upstream pair, used as the cache key in the store.
	Source string
}

// New builds the provider chain and the simulator described by cfg.
func New(cfg config.Config, logger *slog.Logger) (*App, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	if logger == nil {
		logger = slog.Default()
	}

	holidays, rates, source, err := upstream(cfg, logger)
	if err != nil {
		return nil, err
	}

	store, err := sqlite.New(cfg.Server.DBPath)
	if err != nil {
		return nil, fmt.Errorf("opening store: %w", err)
	}
	holidays = store.CachedHolidays(source, holidays)
	rates = store.CachedRates(source, rates, cfg.Providers.RateTTL.Duration)

	// The file is merged after the cache so edits to it apply on restart.
	if path := cfg.Providers.HolidaysFile; path != "" {
		file, err := holidayfile.Load(path)
		if err != nil {
			store.Close()
			return nil, err
		}
		logger.Info("holidays.file_loaded", "path", path, "entries", file.Len())
		holidays = generic.MergeHolidays(holidays, file)
	}

	taxes, err := cfg.TaxTable()
	if err != nil {
		store.Close()
		return nil, err
	}
	if taxes == nil {
		taxes = cdi.RegressiveIncomeTax
	}

	engine := &generic.ProjectionEngine{
		Holidays:        holidays,
		Taxes:           taxes,
		Precision:       cfg.Engine.Precision,
		MaxCalendarDays: cfg.Engine.MaxCalendarDays,
		Logger:          logger,
	}
	if cfg.Server.PoolHolidays {
		engine.Cache = generic.NewHolidayCache(holidays).WithLogger(logger)
	}

	app := &App{
		Config:   cfg,
		Store:    store,
		Holidays: holidays,
		Rates:    rates,
		Simulator: &cdi.Simulator{
			Rates:  rates,
			Engine: engine,
			Logger: logger,
		},
		Logger: logger,
		Source: source,
	}

	logger.Info("bootstrap.ready",
		"source", source,
		"db", cfg.Server.DBPath,
		"pooled_holidays", cfg.Server.PoolHolidays,
	)
	return app, nil
}

func upstream(cfg config.Config, logger *slog.Logger) (generic.HolidayProvider, generic.RateProvider, string, error) {
	if cfg.Providers.Offline {
		rate, err := cfg.FixedRate()
		if err != nil {
			return nil, nil, "", err
		}
		return cdi.NewNationalCalendar(), cdi.FixedRate(rate), "offline", nil
	}

	httpCfg := httpclient.DefaultConfig()
	if cfg.Providers.Timeout.Duration > 0 {
		httpCfg.Timeout = cfg.Providers.Timeout.Duration
	}
	if cfg.Providers.UserAgent != "" {
		httpCfg.UserAgent = cfg.Providers.UserAgent
	}
	client := httpclient.New(httpCfg)

	hp := brasilapi.New(cfg.Providers.HolidaysURL, client)
	hp.Logger = logger

	rp := bcb.New(cfg.Providers.RatesURL, client)
	rp.Logger = logger
	if cfg.Providers.RateSeries > 0 {
		rp.Series = cfg.Providers.RateSeries
	}

	return hp, rp, "remote", nil
}

// HolidaysChanged drops the pooled holiday cache after custom holidays are
// edited, so the next simulation sees them.
func (a *App) HolidaysChanged() {
	if c := a.Simulator.Engine.Cache; c != nil {
		c.Reset()
	}
}

// Close releases the store.
func (a *App) Close() error {
	if a.Store == nil {
		return nil
	}
	return a.Store.Close()
}
