package api

import (
	"net/http"
	"strconv"

	"github.com/HamptonNorth/portfolio-60-sub003/pkg/types"
	"github.com/HamptonNorth/portfolio-60-sub003/pkg/utils"
)

// rateView and priceView carry a pre-formatted display string so the
// admin pages render numbers the same way everywhere.
type rateView struct {
	types.ExchangeRate
	Pair    string `json:"pair"`
	Display string `json:"display"`
}

type priceView struct {
	types.InvestmentPrice
	Display string `json:"display"`
}

type benchmarkValueView struct {
	types.BenchmarkValue
	Display string `json:"display"`
}

func rateViews(rates []types.ExchangeRate) []rateView {
	views := make([]rateView, 0, len(rates))
	for _, r := range rates {
		views = append(views, rateView{
			ExchangeRate: r,
			Pair:         r.Base + "/" + r.Symbol,
			Display:      utils.FormatRate(r.Rate),
		})
	}
	return views
}

func priceViews(prices []types.InvestmentPrice) []priceView {
	views := make([]priceView, 0, len(prices))
	for _, p := range prices {
		views = append(views, priceView{
			InvestmentPrice: p,
			Display:         utils.FormatMoney(p.Price, p.Currency),
		})
	}
	return views
}

func queryLimit(r *http.Request) int {
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	return limit
}

// GetRates serves the latest stored rate per currency, or the history
// of one pair when ?symbol= is given.
func (h *Handler) GetRates(w http.ResponseWriter, r *http.Request) {
	base := h.config.Scrape.BaseCurrency

	if symbol := r.URL.Query().Get("symbol"); symbol != "" {
		rates, err := h.store.RateHistory(r.Context(), base, symbol, queryLimit(r))
		if err != nil {
			h.handleError(w, err, http.StatusInternalServerError)
			return
		}
		h.writeJSON(w, http.StatusOK, map[string]any{"base": base, "rates": rateViews(rates)})
		return
	}

	rates, err := h.store.LatestRates(r.Context(), base)
	if err != nil {
		h.handleError(w, err, http.StatusInternalServerError)
		return
	}
	h.writeJSON(w, http.StatusOK, map[string]any{"base": base, "rates": rateViews(rates)})
}

// GetPrices serves the latest stored price per holding, or the history
// of one symbol when ?symbol= is given.
func (h *Handler) GetPrices(w http.ResponseWriter, r *http.Request) {
	if symbol := r.URL.Query().Get("symbol"); symbol != "" {
		prices, err := h.store.InvestmentPrices(r.Context(), symbol, queryLimit(r))
		if err != nil {
			h.handleError(w, err, http.StatusInternalServerError)
			return
		}
		h.writeJSON(w, http.StatusOK, map[string]any{"prices": priceViews(prices)})
		return
	}

	prices, err := h.store.LatestPrices(r.Context())
	if err != nil {
		h.handleError(w, err, http.StatusInternalServerError)
		return
	}
	h.writeJSON(w, http.StatusOK, map[string]any{"prices": priceViews(prices)})
}

func (h *Handler) GetBenchmarkValues(w http.ResponseWriter, r *http.Request) {
	id, ok := h.pathID(w, r)
	if !ok {
		return
	}

	benchmark, err := h.store.GetBenchmark(r.Context(), id)
	if err != nil {
		h.handleError(w, err, http.StatusInternalServerError)
		return
	}

	values, err := h.store.BenchmarkValues(r.Context(), id, queryLimit(r))
	if err != nil {
		h.handleError(w, err, http.StatusInternalServerError)
		return
	}

	views := make([]benchmarkValueView, 0, len(values))
	for _, v := range values {
		views = append(views, benchmarkValueView{
			BenchmarkValue: v,
			Display:        utils.FormatMoney(v.Value, benchmark.Currency),
		})
	}

	h.writeJSON(w, http.StatusOK, map[string]any{
		"benchmark": benchmark,
		"values":    views,
	})
}
