package cdi

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/shopspring/decimal"
	"github.com/warp/yield-engine/generic"
)

// =============================================================================
// SIMULATOR - Host-side orchestration of one simulation run
// =============================================================================

// Simulator validates input, fetches the start year's daily rate and runs
// the projection engine with it.
type Simulator struct {
	Rates  generic.RateProvider
	Engine *generic.ProjectionEngine
	Logger *slog.Logger
}

// NewSimulator wires a simulator with the regressive income tax table.
func NewSimulator(holidays generic.HolidayProvider, rates generic.RateProvider) *Simulator {
	return &Simulator{
		Rates: rates,
		Engine: &generic.ProjectionEngine{
			Holidays: holidays,
			Taxes:    RegressiveIncomeTax,
		},
	}
}

// Simulate runs one projection. Input errors are reported before any
// provider is called; provider errors are returned unchanged.
func (s *Simulator) Simulate(ctx context.Context, input generic.SimulationInput) (*generic.ProjectionResult, error) {
	if err := input.Validate(); err != nil {
		return nil, err
	}

	rate, err := s.Rate(ctx, input.StartDate.Year())
	if err != nil {
		return nil, err
	}

	result, err := s.Engine.Project(ctx, input, rate)
	if err != nil {
		return nil, fmt.Errorf("projecting from %s: %w", input.StartDate, err)
	}

	s.logger().Info("simulation.done",
		"start", input.StartDate.String(),
		"business_days", input.TargetBusinessDays,
		"daily_rate", rate.String(),
		"final_balance", result.FinalBalance.StringFixed(2),
	)
	return result, nil
}

// Rate returns the daily rate used for simulations starting in year.
func (s *Simulator) Rate(ctx context.Context, year int) (decimal.Decimal, error) {
	if s.Rates == nil {
		return decimal.Zero, generic.Unavailable("rates", year, 0, fmt.Errorf("no rate provider configured"))
	}
	rate, err := s.Rates.DailyRate(ctx, year)
	if err != nil {
		s.logger().Warn("rate.fetch_failed", "year", year, "err", err)
		return decimal.Zero, err
	}
	return rate, nil
}

func (s *Simulator) logger() *slog.Logger {
	if s.Logger != nil {
		return s.Logger
	}
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// FixedRate is a RateProvider returning the same rate for every year.
type FixedRate decimal.Decimal

func (f FixedRate) DailyRate(_ context.Context, _ int) (decimal.Decimal, error) {
	return decimal.Decimal(f), nil
}
