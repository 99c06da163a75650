// Package brasilapi fetches Brazilian national holidays from BrasilAPI.
//
//	GET {base}/{year}
//	[{"date":"2025-01-01","name":"Confraternização mundial","type":"national"}, ...]
package brasilapi

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"

	"github.com/warp/yield-engine/generic"
	"github.com/warp/yield-engine/provider/httpclient"
)

// DefaultBaseURL is the public holiday endpoint.
const DefaultBaseURL = "https://brasilapi.com.br/api/feriados/v1"

const providerName = "brasilapi"

type Client struct {
	BaseURL string
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
		HTTP:    client,
		Logger:  slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
}

type holidayJSON struct {
	Date string `json:"date"`
	Name string `json:"name"`
	Type string `json:"type"`
}

// Holidays implements generic.HolidayProvider. Any transport, status or
// decoding failure is reported as ErrProviderUnavailable.
func (c *Client) Holidays(ctx context.Context, year int) ([]generic.Holiday, error) {
	url := fmt.Sprintf("%s/%d", c.BaseURL, year)
	c.Logger.Debug("brasilapi.fetch", "url", url)

	body, err := httpclient.GetBody(ctx, c.HTTP, url)
	if err != nil {
		var se *httpclient.StatusError
		if errors.As(err, &se) {
			return nil, generic.Unavailable(providerName, year, se.Status, err)
		}
		return nil, generic.Unavailable(providerName, year, 0, err)
	}

	var rows []holidayJSON
	if err := json.Unmarshal(body, &rows); err != nil {
		return nil, generic.Unavailable(providerName, year, 0, fmt.Errorf("decoding holidays: %w", err))
	}

	holidays := make([]generic.Holiday, 0, len(rows))
	for _, row := range rows {
		d, err := generic.ParseDate(row.Date)
		if err != nil {
			return nil, generic.Unavailable(providerName, year, 0, fmt.Errorf("holiday %q: bad date %q", row.Name, row.Date))
		}
		holidays = append(holidays, generic.Holiday{Date: d, Name: row.Name})
	}
	generic.SortHolidays(holidays)

	c.Logger.Debug("brasilapi.loaded", "year", year, "count", len(holidays))
	return holidays, nil
}

var _ generic.HolidayProvider = (*Client)(nil)
