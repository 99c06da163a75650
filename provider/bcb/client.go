// Package bcb fetches the daily CDI rate from the Central Bank of Brazil
// time-series service (SGS).
//
//	GET {base}/bcdata.sgs.{series}/dados?formato=json&dataInicial=01/01/YYYY&dataFinal=31/12/YYYY
//	[{"data":"02/01/2025","valor":"0.045513"}, ...]
package bcb

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"

	"github.com/shopspring/decimal"
	"github.com/warp/yield-engine/cdi"
	"github.com/warp/yield-engine/generic"
	"github.com/warp/yield-engine/provider/httpclient"
)

// DefaultBaseURL is the SGS series root.
const DefaultBaseURL = "https://api.bcb.gov.br/dados/serie"

const providerName = "bcb"

type Client struct {
	BaseURL string
	Series  int
	HTTP    *http.Client
	Logger  *slog.Logger
}

func New(baseURL string, client *http.Client) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	if client == nil {
		client = httpclient.New(httpclient.DefaultConfig())
	}
	return &Client{
		BaseURL: strings.TrimRight(baseURL, "/"),
		Series:  cdi.SeriesCDI,
		HTTP:    client,
		Logger:  slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
}

type rowJSON struct {
	Data  string `json:"data"`
	Valor string `json:"valor"`
}

// URL returns the request URL for a calendar year.
func (c *Client) URL(year int) string {
	return fmt.Sprintf("%s/bcdata.sgs.%d/dados?formato=json&dataInicial=01/01/%d&dataFinal=31/12/%d",
		c.BaseURL, c.Series, year, year)
}

// Records returns the raw rows published for year.
func (c *Client) Records(ctx context.Context, year int) ([]cdi.RateRecord, error) {
	u := c.URL(year)
	c.Logger.Debug("bcb.fetch", "url", u)

	body, err := httpclient.GetBody(ctx, c.HTTP, u)
	if err != nil {
		var se *httpclient.StatusError
		if errors.As(err, &se) {
			return nil, generic.Unavailable(providerName, year, se.Status, err)
		}
		return nil, generic.Unavailable(providerName, year, 0, err)
	}

	var rows []rowJSON
	if err := json.Unmarshal(body, &rows); err != nil {
		return nil, generic.Unavailable(providerName, year, 0, fmt.Errorf("decoding series: %w", err))
	}

	records := make([]cdi.RateRecord, 0, len(rows))
	for _, row := range rows {
		r, err := cdi.ParseRateRecord(row.Data, row.Valor)
		if err != nil {
			return nil, generic.Unavailable(providerName, year, 0, err)
		}
		records = append(records, r)
	}
	return records, nil
}

// DailyRate implements generic.RateProvider: the most recent value of the
// year, as a fraction.
func (c *Client) DailyRate(ctx context.Context, year int) (decimal.Decimal, error) {
	records, err := c.Records(ctx, year)
	if err != nil {
		return decimal.Zero, err
	}
	rate, date, ok := cdi.LatestRate(records)
	if !ok {
		return decimal.Zero, generic.NoRateData(providerName, year)
	}
	c.Logger.Debug("bcb.rate", "year", year, "date", date.String(), "rate", rate.String())
	return rate, nil
}

var _ generic.RateProvider = (*Client)(nil)
