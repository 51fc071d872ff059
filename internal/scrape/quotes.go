package scrape

import (
	"context"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/HamptonNorth/portfolio-60-sub003/internal/config"
	"github.com/HamptonNorth/portfolio-60-sub003/pkg/types"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
)

type quoteEnvelope struct {
	QuoteResponse struct {
		Result []quoteResult `json:"result"`
	} `json:"quoteResponse"`
}

type quoteResult struct {
	Symbol             string          `json:"symbol"`
	RegularMarketPrice decimal.Decimal `json:"regularMarketPrice"`
	Currency           string          `json:"currency"`
	RegularMarketTime  int64           `json:"regularMarketTime"`
}

// date returns the quote's market day, falling back to today when the
// endpoint omits the timestamp.
func (q *quoteResult) date() string {
	if q.RegularMarketTime == 0 {
		return time.Now().UTC().Format("2006-01-02")
	}
	return time.Unix(q.RegularMarketTime, 0).UTC().Format("2006-01-02")
}

func fetchQuote(ctx context.Context, client *Client, bases []string, symbol string) (*quoteResult, error) {
	urls := make([]string, 0, len(bases))
	for _, base := range bases {
		if base == "" {
			continue
		}
		urls = append(urls, fmt.Sprintf("%s?symbols=%s", base, url.QueryEscape(symbol)))
	}

	var payload quoteEnvelope
	if err := client.getJSONFallback(ctx, urls, &payload); err != nil {
		return nil, err
	}

	for _, q := range payload.QuoteResponse.Result {
		if strings.EqualFold(q.Symbol, symbol) {
			return &q, nil
		}
	}
	return nil, fmt.Errorf("no quote for %s in response", symbol)
}

type PriceStore interface {
	ListInvestments(ctx context.Context) ([]types.Investment, error)
	UpsertInvestmentPrice(ctx context.Context, p types.InvestmentPrice) error
}

// PricesSource scrapes the latest closing price for every holding.
type PricesSource struct {
	client *Client
	store  PriceStore
	urls   []string
}

func NewPricesSource(client *Client, store PriceStore, cfg config.ScrapeConfig) *PricesSource {
	return &PricesSource{
		client: client,
		store:  store,
		urls:   []string{cfg.QuotesURL, cfg.QuotesFallbackURL},
	}
}

func (s *PricesSource) Name() string { return "investment-prices" }

func (s *PricesSource) Items(ctx context.Context) ([]Item, error) {
	investments, err := s.store.ListInvestments(ctx)
	if err != nil {
		return nil, err
	}

	items := make([]Item, 0, len(investments))
	for _, inv := range investments {
		items = append(items, Item{ID: inv.ID, Symbol: inv.Symbol, Label: inv.Name})
	}
	return items, nil
}

func (s *PricesSource) Scrape(ctx context.Context, item Item) error {
	quote, err := fetchQuote(ctx, s.client, s.urls, item.Symbol)
	if err != nil {
		return err
	}
	if quote.RegularMarketPrice.IsZero() {
		return fmt.Errorf("empty price for %s", item.Symbol)
	}

	return s.store.UpsertInvestmentPrice(ctx, types.InvestmentPrice{
		Symbol:   item.Symbol,
		Date:     quote.date(),
		Price:    quote.RegularMarketPrice,
		Currency: quote.Currency,
	})
}

type BenchmarkStore interface {
	ListBenchmarks(ctx context.Context) ([]types.Benchmark, error)
	UpsertBenchmarkValue(ctx context.Context, v types.BenchmarkValue) error
}

// BenchmarksSource scrapes index levels for every tracked benchmark.
type BenchmarksSource struct {
	client *Client
	store  BenchmarkStore
	urls   []string
	logger *logrus.Logger
}

func NewBenchmarksSource(client *Client, store BenchmarkStore, cfg config.ScrapeConfig, logger *logrus.Logger) *BenchmarksSource {
	return &BenchmarksSource{
		client: client,
		store:  store,
		urls:   []string{cfg.QuotesURL, cfg.QuotesFallbackURL},
		logger: logger,
	}
}

func (s *BenchmarksSource) Name() string { return "benchmark-values" }

func (s *BenchmarksSource) Items(ctx context.Context) ([]Item, error) {
	benchmarks, err := s.store.ListBenchmarks(ctx)
	if err != nil {
		return nil, err
	}

	items := make([]Item, 0, len(benchmarks))
	for _, b := range benchmarks {
		items = append(items, Item{ID: b.ID, Symbol: b.Symbol, Label: b.Name, Currency: b.Currency})
	}
	return items, nil
}

func (s *BenchmarksSource) Scrape(ctx context.Context, item Item) error {
	quote, err := fetchQuote(ctx, s.client, s.urls, item.Symbol)
	if err != nil {
		return err
	}
	if quote.RegularMarketPrice.IsZero() {
		return fmt.Errorf("empty value for %s", item.Symbol)
	}

	if item.Currency != "" && quote.Currency != "" && !strings.EqualFold(item.Currency, quote.Currency) {
		s.logger.Warnf("Benchmark %s is configured in %s but quoted in %s", item.Symbol, item.Currency, quote.Currency)
	}

	return s.store.UpsertBenchmarkValue(ctx, types.BenchmarkValue{
		BenchmarkID: item.ID,
		Date:        quote.date(),
		Value:       quote.RegularMarketPrice,
	})
}
