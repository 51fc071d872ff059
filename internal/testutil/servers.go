package testutil

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
)

// Quote is one instrument served by QuotesServer. Price is kept as a
// raw JSON number so tests control the exact digits on the wire.
type Quote struct {
	Symbol   string
	Price    string
	Currency string
	Time     int64
}

// QuotesServer returns a test server speaking the quote endpoint's
// /v7/finance/quote shape. Unknown symbols are omitted from the result
// array, matching the live endpoint.
func QuotesServer(quotes ...Quote) *httptest.Server {
	bySymbol := make(map[string]Quote, len(quotes))
	for _, q := range quotes {
		bySymbol[q.Symbol] = q
	}

	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		results := make([]map[string]any, 0, 1)
		if q, ok := bySymbol[r.URL.Query().Get("symbols")]; ok {
			results = append(results, map[string]any{
				"symbol":             q.Symbol,
				"regularMarketPrice": json.RawMessage(q.Price),
				"currency":           q.Currency,
				"regularMarketTime":  q.Time,
			})
		}

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]any{
			"quoteResponse": map[string]any{"result": results, "error": nil},
		})
	}))
}

// RatesServer returns a test server speaking the frankfurter /latest
// shape. Rate values are raw JSON numbers.
func RatesServer(base, date string, rates map[string]string) *httptest.Server {
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		raw := make(map[string]json.RawMessage, len(rates))
		for symbol, rate := range rates {
			raw[symbol] = json.RawMessage(rate)
		}

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]any{
			"base":  base,
			"date":  date,
			"rates": raw,
		})
	}))
}

// FailingServer returns a test server that answers every request with
// the given status code.
func FailingServer(status int) *httptest.Server {
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, http.StatusText(status), status)
	}))
}
