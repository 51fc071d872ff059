package scrape

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/HamptonNorth/portfolio-60-sub003/internal/config"
	"github.com/HamptonNorth/portfolio-60-sub003/pkg/types"
	"github.com/shopspring/decimal"
)

type RateStore interface {
	UpsertExchangeRate(ctx context.Context, r types.ExchangeRate) error
}

// RatesSource scrapes one rate per configured currency against the base
// currency, one request per pair so progress is reported per currency.
type RatesSource struct {
	client  *Client
	store   RateStore
	urls    []string
	base    string
	symbols []string
}

func NewRatesSource(client *Client, store RateStore, cfg config.ScrapeConfig) *RatesSource {
	return &RatesSource{
		client:  client,
		store:   store,
		urls:    []string{cfg.RatesURL, cfg.RatesFallbackURL},
		base:    cfg.BaseCurrency,
		symbols: cfg.Currencies,
	}
}

func (s *RatesSource) Name() string { return "exchange-rates" }

func (s *RatesSource) Items(ctx context.Context) ([]Item, error) {
	items := make([]Item, 0, len(s.symbols))
	for _, symbol := range s.symbols {
		if symbol == s.base {
			continue
		}
		items = append(items, Item{Symbol: symbol, Label: s.base + "/" + symbol})
	}
	return items, nil
}

type ratesPayload struct {
	Base  string                     `json:"base"`
	Date  string                     `json:"date"`
	Rates map[string]decimal.Decimal `json:"rates"`
}

func (s *RatesSource) Scrape(ctx context.Context, item Item) error {
	urls := make([]string, 0, len(s.urls))
	for _, base := range s.urls {
		if base == "" {
			continue
		}
		urls = append(urls, fmt.Sprintf("%s/latest?base=%s&symbols=%s",
			strings.TrimRight(base, "/"), s.base, item.Symbol))
	}

	var payload ratesPayload
	if err := s.client.getJSONFallback(ctx, urls, &payload); err != nil {
		return err
	}

	value, ok := payload.Rates[item.Symbol]
	if !ok {
		return fmt.Errorf("no rate for %s in response", item.Symbol)
	}

	date := payload.Date
	if date == "" {
		date = time.Now().UTC().Format("2006-01-02")
	}

	return s.store.UpsertExchangeRate(ctx, types.ExchangeRate{
		Base:   s.base,
		Symbol: item.Symbol,
		Date:   date,
		Rate:   value,
	})
}
