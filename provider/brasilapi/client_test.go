package brasilapi_test

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/warp/yield-engine/generic"
	"github.com/warp/yield-engine/provider/brasilapi"
	"github.com/warp/yield-engine/provider/httpclient"
)

func TestClient_Holidays(t *testing.T) {
	var gotPath string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`[
			{"date":"2025-12-25","name":"Natal","type":"national"},
			{"date":"2025-01-01","name":"Confraternização mundial","type":"national"}
		]`))
	}))
	defer srv.Close()

	c := brasilapi.New(srv.URL+"/api/feriados/v1/", srv.Client())
	hs, err := c.Holidays(context.Background(), 2025)
	require.NoError(t, err)

	assert.Equal(t, "/api/feriados/v1/2025", gotPath)
	require.Len(t, hs, 2)
	assert.Equal(t, "2025-01-01", hs[0].Date.String())
	assert.Equal(t, "Natal", hs[1].Name)
}

func TestClient_Holidays_Failures(t *testing.T) {
	tests := []struct {
		name   string
		status int
		body   string
	}{
		{"server error", http.StatusInternalServerError, `{"message":"boom"}`},
		{"not found", http.StatusNotFound, `{"message":"Ano fora do intervalo suportado."}`},
		{"bad json", http.StatusOK, `{not json`},
		{"bad date", http.StatusOK, `[{"date":"25/12/2025","name":"Natal"}]`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				w.Write([]byte(tt.body))
			}))
			defer srv.Close()

			_, err := brasilapi.New(srv.URL, srv.Client()).Holidays(context.Background(), 2025)
			require.Error(t, err)
			assert.ErrorIs(t, err, generic.ErrProviderUnavailable)

			var perr *generic.ProviderError
			require.ErrorAs(t, err, &perr)
			assert.Equal(t, "brasilapi", perr.Provider)
			if tt.status != http.StatusOK {
				assert.Equal(t, tt.status, perr.Status)
			}
		})
	}
}

func TestClient_Holidays_Unreachable(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	_, err := brasilapi.New(url, nil).Holidays(context.Background(), 2025)
	assert.ErrorIs(t, err, generic.ErrProviderUnavailable)
}

func TestClient_Holidays_OversizedResponse(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write(bytes.Repeat([]byte(" "), 5<<20))
	}))
	defer srv.Close()

	_, err := brasilapi.New(srv.URL, srv.Client()).Holidays(context.Background(), 2025)
	assert.ErrorIs(t, err, generic.ErrProviderUnavailable)
	assert.ErrorIs(t, err, httpclient.ErrTooLarge)
}
