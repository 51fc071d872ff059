package testutil

import (
	"encoding/json"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestQuotesServerShape(t *testing.T) {
	server := QuotesServer(Quote{Symbol: "VWRL.L", Price: "105.32", Currency: "GBP", Time: 1741950000})
	defer server.Close()

	resp, err := http.Get(server.URL + "?symbols=VWRL.L")
	require.NoError(t, err)
	defer resp.Body.Close()

	var payload struct {
		QuoteResponse struct {
			Result []struct {
				Symbol             string      `json:"symbol"`
				RegularMarketPrice json.Number `json:"regularMarketPrice"`
				Currency           string      `json:"currency"`
			} `json:"result"`
		} `json:"quoteResponse"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&payload))
	require.Len(t, payload.QuoteResponse.Result, 1)
	assert.Equal(t, "VWRL.L", payload.QuoteResponse.Result[0].Symbol)
	assert.Equal(t, "105.32", payload.QuoteResponse.Result[0].RegularMarketPrice.String())
	assert.Equal(t, "GBP", payload.QuoteResponse.Result[0].Currency)
}

func TestQuotesServerUnknownSymbol(t *testing.T) {
	server := QuotesServer()
	defer server.Close()

	resp, err := http.Get(server.URL + "?symbols=NOPE")
	require.NoError(t, err)
	defer resp.Body.Close()

	var payload struct {
		QuoteResponse struct {
			Result []any `json:"result"`
		} `json:"quoteResponse"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&payload))
	assert.Empty(t, payload.QuoteResponse.Result)
}

func TestRatesServerShape(t *testing.T) {
	server := RatesServer("GBP", "2025-03-14", map[string]string{"USD": "1.2345"})
	defer server.Close()

	resp, err := http.Get(server.URL + "/latest?base=GBP&symbols=USD")
	require.NoError(t, err)
	defer resp.Body.Close()

	var payload struct {
		Base  string                 `json:"base"`
		Date  string                 `json:"date"`
		Rates map[string]json.Number `json:"rates"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&payload))
	assert.Equal(t, "GBP", payload.Base)
	assert.Equal(t, "2025-03-14", payload.Date)
	assert.Equal(t, "1.2345", payload.Rates["USD"].String())
}

func TestFailingServer(t *testing.T) {
	server := FailingServer(http.StatusServiceUnavailable)
	defer server.Close()

	resp, err := http.Get(server.URL)
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusServiceUnavailable, resp.StatusCode)
}
