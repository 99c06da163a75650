/*
scenarios.go - Canned simulations for demos and smoke tests

PURPOSE:
  Provides a fixed set of simulations that exercise the interesting parts of
  the engine: weekend skipping, holiday clusters, year boundaries and each
  withholding bracket.

SCENARIOS:
  1. friday-start:    One day from a Friday, lands on Monday
  2. carnaval:        Starts right before Carnaval, skips Mon/Tue
  3. easter-week:     Crosses Good Friday, Tiradentes and Labor Day
  4. year-end:        Crosses Christmas and New Year into the next year
  5. second-bracket:  200 business days, 20% withholding
  6. long-term:       3 years, 15% withholding

  Dates are fixed so the same scenario gives the same calendar every time.
  The rate still comes from the configured provider.

SEE ALSO:
  - handlers.go: runSimulation, shared with POST /api/simulations
*/
package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"
)

var scenarios = []ScenarioDTO{
	{
		ID:           "friday-start",
		Name:         "Friday Start",
		Description:  "One business day from a Friday. The weekend is skipped and Monday earns.",
		Principal:    decimal.NewFromInt(1000),
		StartDate:    "2025-01-03",
		BusinessDays: 1,
	},
	{
		ID:           "carnaval",
		Name:         "Carnaval",
		Description:  "Invested the Friday before Carnaval. Monday and Tuesday do not earn.",
		Principal:    decimal.NewFromInt(5000),
		StartDate:    "2025-02-28",
		BusinessDays: 5,
	},
	{
		ID:           "easter-week",
		Name:         "Easter Week",
		Description:  "Crosses Good Friday, Tiradentes and Labor Day.",
		Principal:    decimal.NewFromInt(10000),
		StartDate:    "2025-04-15",
		BusinessDays: 15,
	},
	{
		ID:           "year-end",
		Name:         "Year End",
		Description:  "Crosses Christmas and New Year. The next year's holidays are loaded on entry.",
		Principal:    decimal.NewFromInt(2500),
		StartDate:    "2025-12-19",
		BusinessDays: 10,
	},
	{
		ID:           "second-bracket",
		Name:         "Second Bracket",
		Description:  "200 business days. Withholding is 20% for the whole run.",
		Principal:    decimal.NewFromInt(1000),
		StartDate:    "2025-01-02",
		BusinessDays: 200,
	},
	{
		ID:           "long-term",
		Name:         "Long Term",
		Description:  "Three years of business days. Withholding is 15%.",
		Principal:    decimal.NewFromInt(50000),
		StartDate:    "2025-01-02",
		BusinessDays: 756,
	},
}

// ListScenarios returns the canned simulations.
// GET /api/scenarios
func (h *Handler) ListScenarios(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, scenarios)
}

// RunScenario runs a canned simulation.
// POST /api/scenarios/{id}/run
func (h *Handler) RunScenario(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	for _, s := range scenarios {
		if s.ID == id {
			h.runSimulation(w, r, SimulationRequest{
				Principal:    s.Principal,
				StartDate:    s.StartDate,
				BusinessDays: s.BusinessDays,
			})
			return
		}
	}

	writeError(w, http.StatusNotFound, "Unknown scenario", nil)
}
