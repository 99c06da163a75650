/*
dto.go - Data Transfer Objects for API requests and responses

PURPOSE:
  Defines the JSON structures for API communication. These types decouple
  the engine's model from the external API contract: dates are ISO strings,
  amounts are decimal strings, and field names are snake_case.

NAMING CONVENTION:
  - *DTO: Response types returned to clients
  - *Request: Request body types from clients

TYPES:
  Simulation:
    SimulationRequest, SimulationDTO, RecordDTO, TotalsDTO

  Rates:
    RateDTO

  Holidays:
    HolidayDTO, CreateHolidayRequest

  Scenarios:
    ScenarioDTO

VALIDATION:
  Validation is done in handlers and the engine, not in DTOs. DTOs are pure
  data carriers.

SEE ALSO:
  - handlers.go: Uses these types
  - generic/series.go: chart series embedded in SimulationDTO
*/
package api

import (
	"time"

	"github.com/shopspring/decimal"
	"github.com/warp/yield-engine/generic"
	"github.com/warp/yield-engine/store/sqlite"
)

// =============================================================================
// SIMULATION
// =============================================================================

// SimulationRequest is the body of POST /api/simulations. Principal accepts
// a JSON number or a decimal string.
type SimulationRequest struct {
	Principal    decimal.Decimal `json:"principal"`
	StartDate    string          `json:"start_date"`
	BusinessDays int             `json:"business_days"`
}

// SimulationDTO is one projection with its summary, daily records, the
// holidays inside the simulated range and the chart series.
type SimulationDTO struct {
	ID              string          `json:"id"`
	Principal       decimal.Decimal `json:"principal"`
	StartDate       string          `json:"start_date"`
	BusinessDays    int             `json:"business_days"`
	DailyRate       decimal.Decimal `json:"daily_rate"`
	AnnualRate      decimal.Decimal `json:"annual_rate"`
	AnnualPercent   string          `json:"annual_percent"`
	WithholdingRate decimal.Decimal `json:"withholding_rate"`
	PeriodStart     string          `json:"period_start"`
	PeriodEnd       string          `json:"period_end"`
	CalendarDays    int             `json:"calendar_days"`
	Totals          TotalsDTO       `json:"totals"`
	Records         []RecordDTO     `json:"records"`
	Holidays        []HolidayDTO    `json:"holidays"`
	Charts          generic.Series  `json:"charts"`
	CreatedAt       time.Time       `json:"created_at"`
}

// TotalsDTO sums the increments over the whole run.
type TotalsDTO struct {
	Gross        decimal.Decimal `json:"gross"`
	Net          decimal.Decimal `json:"net"`
	Tax          decimal.Decimal `json:"tax"`
	FinalBalance decimal.Decimal `json:"final_balance"`
}

// RecordDTO is one credited business day.
type RecordDTO struct {
	Date    string          `json:"date"`
	Weekday string          `json:"weekday"`
	Gross   decimal.Decimal `json:"gross"`
	Net     decimal.Decimal `json:"net"`
	Balance decimal.Decimal `json:"balance"`
}

// NewSimulationDTO converts a projection into its API shape. The yieldsim
// CLI uses it for --json output.
func NewSimulationDTO(id string, r *generic.ProjectionResult, createdAt time.Time) SimulationDTO {
	records := make([]RecordDTO, 0, len(r.Records))
	for _, rec := range r.Records {
		records = append(records, RecordDTO{
			Date:    rec.Date.String(),
			Weekday: rec.Date.Weekday().String(),
			Gross:   rec.GrossIncrement,
			Net:     rec.NetIncrement,
			Balance: rec.BalanceAfter,
		})
	}

	return SimulationDTO{
		ID:              id,
		Principal:       r.Input.Principal,
		StartDate:       r.Input.StartDate.String(),
		BusinessDays:    r.Input.TargetBusinessDays,
		DailyRate:       r.DailyRate,
		AnnualRate:      r.AnnualRate,
		AnnualPercent:   generic.Percent(r.AnnualRate),
		WithholdingRate: r.WithholdingRate,
		PeriodStart:     r.Period.Start.String(),
		PeriodEnd:       r.Period.End.String(),
		CalendarDays:    r.CalendarDays,
		Totals: TotalsDTO{
			Gross:        r.TotalGross,
			Net:          r.TotalNet,
			Tax:          r.TotalTax,
			FinalBalance: r.FinalBalance,
		},
		Records:   records,
		Holidays:  toHolidayDTOs(r.Holidays),
		Charts:    r.Series(),
		CreatedAt: createdAt,
	}
}

// =============================================================================
// RATES
// =============================================================================

// RateDTO is a daily rate and its annualized equivalent.
type RateDTO struct {
	Year          int             `json:"year,omitempty"`
	DailyRate     decimal.Decimal `json:"daily_rate"`
	AnnualRate    decimal.Decimal `json:"annual_rate"`
	AnnualPercent string          `json:"annual_percent"`
}

func toRateDTO(year int, daily decimal.Decimal) RateDTO {
	annual := generic.Annualize(daily)
	return RateDTO{
		Year:          year,
		DailyRate:     daily,
		AnnualRate:    annual,
		AnnualPercent: generic.Percent(annual),
	}
}

// =============================================================================
// HOLIDAYS
// =============================================================================

// HolidayDTO represents a holiday. ID and Recurring are only set for custom
// holidays.
type HolidayDTO struct {
	ID        string `json:"id,omitempty"`
	Date      string `json:"date"`
	Name      string `json:"name"`
	Recurring bool   `json:"recurring,omitempty"`
}

// CreateHolidayRequest is the body of POST /api/custom-holidays.
type CreateHolidayRequest struct {
	Date      string `json:"date"`
	Name      string `json:"name"`
	Recurring bool   `json:"recurring"`
}

func toHolidayDTOs(holidays []generic.Holiday) []HolidayDTO {
	dtos := make([]HolidayDTO, 0, len(holidays))
	for _, h := range holidays {
		dtos = append(dtos, HolidayDTO{Date: h.Date.String(), Name: h.Name})
	}
	return dtos
}

func toCustomHolidayDTOs(holidays []sqlite.CustomHoliday) []HolidayDTO {
	dtos := make([]HolidayDTO, 0, len(holidays))
	for _, h := range holidays {
		dtos = append(dtos, HolidayDTO{
			ID:        h.ID,
			Date:      h.Date.String(),
			Name:      h.Name,
			Recurring: h.Recurring,
		})
	}
	return dtos
}

// =============================================================================
// SCENARIOS
// =============================================================================

// ScenarioDTO describes a canned simulation.
type ScenarioDTO struct {
	ID           string          `json:"id"`
	Name         string          `json:"name"`
	Description  string          `json:"description"`
	Principal    decimal.Decimal `json:"principal"`
	StartDate    string          `json:"start_date"`
	BusinessDays int             `json:"business_days"`
}

// =============================================================================
// ERRORS
// =============================================================================

// ErrorResponse is the body of every non-2xx response.
type ErrorResponse struct {
	Error   string `json:"error"`
	Details string `json:"details,omitempty"`
}
