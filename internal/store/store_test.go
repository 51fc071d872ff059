package store

import (
	"context"
	"io"
	"path/filepath"
	"testing"
	"time"

	"github.com/HamptonNorth/portfolio-60-sub003/pkg/types"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()

	logger := logrus.New()
	logger.SetOutput(io.Discard)

	s, err := Open(filepath.Join(t.TempDir(), "portfolio60.db"), logger)
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })

	return s
}

func TestBenchmarkCRUD(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	b := &types.Benchmark{Symbol: "^GSPC", Name: "S&P 500", Currency: "USD"}
	require.NoError(t, s.CreateBenchmark(ctx, b))
	assert.NotZero(t, b.ID)
	assert.False(t, b.CreatedAt.IsZero())

	got, err := s.GetBenchmark(ctx, b.ID)
	require.NoError(t, err)
	assert.Equal(t, "^GSPC", got.Symbol)

	b.Name = "S&P 500 Index"
	require.NoError(t, s.UpdateBenchmark(ctx, b))

	got, err = s.GetBenchmark(ctx, b.ID)
	require.NoError(t, err)
	assert.Equal(t, "S&P 500 Index", got.Name)

	list, err := s.ListBenchmarks(ctx)
	require.NoError(t, err)
	assert.Len(t, list, 1)

	require.NoError(t, s.DeleteBenchmark(ctx, b.ID))

	_, err = s.GetBenchmark(ctx, b.ID)
	assert.ErrorIs(t, err, ErrNotFound)
	assert.ErrorIs(t, s.DeleteBenchmark(ctx, b.ID), ErrNotFound)
	assert.ErrorIs(t, s.UpdateBenchmark(ctx, b), ErrNotFound)
}

func TestBenchmarkValuesUpsert(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	b := &types.Benchmark{Symbol: "^FTSE", Name: "FTSE 100", Currency: "GBP"}
	require.NoError(t, s.CreateBenchmark(ctx, b))

	v := types.BenchmarkValue{BenchmarkID: b.ID, Date: "2026-08-21", Value: decimal.RequireFromString("8123.45")}
	require.NoError(t, s.UpsertBenchmarkValue(ctx, v))

	// Same day again replaces the value instead of duplicating the row.
	v.Value = decimal.RequireFromString("8150.17")
	require.NoError(t, s.UpsertBenchmarkValue(ctx, v))

	values, err := s.BenchmarkValues(ctx, b.ID, 10)
	require.NoError(t, err)
	require.Len(t, values, 1)
	assert.Equal(t, "8150.17", values[0].Value.String())

	// Deleting the benchmark cascades to its values.
	require.NoError(t, s.DeleteBenchmark(ctx, b.ID))
	values, err = s.BenchmarkValues(ctx, b.ID, 10)
	require.NoError(t, err)
	assert.Empty(t, values)
}

func TestGlobalEventCRUD(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	e := &types.GlobalEvent{Date: "2020-03-12", Title: "COVID crash", Description: "Global sell-off"}
	require.NoError(t, s.CreateGlobalEvent(ctx, e))
	assert.NotZero(t, e.ID)

	e.Title = "COVID-19 crash"
	require.NoError(t, s.UpdateGlobalEvent(ctx, e))

	got, err := s.GetGlobalEvent(ctx, e.ID)
	require.NoError(t, err)
	assert.Equal(t, "COVID-19 crash", got.Title)

	events, err := s.ListGlobalEvents(ctx)
	require.NoError(t, err)
	assert.Len(t, events, 1)

	require.NoError(t, s.DeleteGlobalEvent(ctx, e.ID))
	_, err = s.GetGlobalEvent(ctx, e.ID)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestDocPutGetDelete(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	d := &types.Doc{Slug: "scraping", Title: "Scraping", Body: "How scraping works"}
	require.NoError(t, s.PutDoc(ctx, d))

	d.Body = "How scraping works, updated"
	require.NoError(t, s.PutDoc(ctx, d))

	got, err := s.GetDoc(ctx, "scraping")
	require.NoError(t, err)
	assert.Equal(t, "How scraping works, updated", got.Body)

	docs, err := s.ListDocs(ctx)
	require.NoError(t, err)
	assert.Len(t, docs, 1)

	require.NoError(t, s.DeleteDoc(ctx, "scraping"))
	_, err = s.GetDoc(ctx, "scraping")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestInvestmentPrices(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	inv := &types.Investment{Symbol: "VWRL.AS", Name: "Vanguard FTSE All-World", Currency: "EUR"}
	require.NoError(t, s.CreateInvestment(ctx, inv))

	for _, p := range []types.InvestmentPrice{
		{Symbol: "VWRL.AS", Date: "2026-08-20", Price: decimal.RequireFromString("109.50"), Currency: "EUR"},
		{Symbol: "VWRL.AS", Date: "2026-08-21", Price: decimal.RequireFromString("110.25"), Currency: "EUR"},
	} {
		require.NoError(t, s.UpsertInvestmentPrice(ctx, p))
	}

	latest, err := s.LatestPrices(ctx)
	require.NoError(t, err)
	require.Len(t, latest, 1)
	assert.Equal(t, "2026-08-21", latest[0].Date)
	assert.Equal(t, "110.25", latest[0].Price.String())

	history, err := s.InvestmentPrices(ctx, "VWRL.AS", 10)
	require.NoError(t, err)
	require.Len(t, history, 2)
	assert.Equal(t, "2026-08-21", history[0].Date)
}

func TestExchangeRates(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	for _, r := range []types.ExchangeRate{
		{Base: "GBP", Symbol: "USD", Date: "2026-08-20", Rate: decimal.RequireFromString("1.2710")},
		{Base: "GBP", Symbol: "USD", Date: "2026-08-21", Rate: decimal.RequireFromString("1.2745")},
		{Base: "GBP", Symbol: "EUR", Date: "2026-08-21", Rate: decimal.RequireFromString("1.1680")},
	} {
		require.NoError(t, s.UpsertExchangeRate(ctx, r))
	}

	latest, err := s.LatestRates(ctx, "GBP")
	require.NoError(t, err)
	require.Len(t, latest, 2)
	assert.Equal(t, "EUR", latest[0].Symbol)
	assert.Equal(t, "USD", latest[1].Symbol)
	assert.Equal(t, "2026-08-21", latest[1].Date)

	history, err := s.RateHistory(ctx, "GBP", "USD", 10)
	require.NoError(t, err)
	require.Len(t, history, 2)
	assert.Equal(t, "1.2745", history[0].Rate.String())
}

func TestRunLifecycle(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	run := &types.ScrapeRun{
		ID:        "run-1",
		Job:       "exchange-rates",
		StartedAt: time.Now().Add(-time.Minute),
		Status:    types.RunRunning,
	}
	require.NoError(t, s.StartRun(ctx, run))

	got, err := s.GetRun(ctx, "run-1")
	require.NoError(t, err)
	assert.Equal(t, types.RunRunning, got.Status)
	assert.Nil(t, got.FinishedAt)

	require.NoError(t, s.FinishRun(ctx, "run-1", types.RunOK, 3, 0, ""))

	got, err = s.GetRun(ctx, "run-1")
	require.NoError(t, err)
	assert.Equal(t, types.RunOK, got.Status)
	assert.Equal(t, 3, got.Items)
	require.NotNil(t, got.FinishedAt)

	runs, err := s.ListRuns(ctx, "", 10)
	require.NoError(t, err)
	assert.Len(t, runs, 1)

	runs, err = s.ListRuns(ctx, "investment-prices", 10)
	require.NoError(t, err)
	assert.Empty(t, runs)

	assert.ErrorIs(t, s.FinishRun(ctx, "missing", types.RunOK, 0, 0, ""), ErrNotFound)
}

func TestLastCompletedRun(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	_, ok, err := s.LastCompletedRun(ctx, "exchange-rates")
	require.NoError(t, err)
	assert.False(t, ok)

	// A failed run does not count as completed.
	failed := &types.ScrapeRun{ID: "run-f", Job: "exchange-rates", StartedAt: time.Now(), Status: types.RunRunning}
	require.NoError(t, s.StartRun(ctx, failed))
	require.NoError(t, s.FinishRun(ctx, "run-f", types.RunFailed, 2, 2, "all fetches failed"))

	_, ok, err = s.LastCompletedRun(ctx, "exchange-rates")
	require.NoError(t, err)
	assert.False(t, ok)

	started := time.Date(2026, 8, 21, 7, 0, 0, 0, time.UTC)
	good := &types.ScrapeRun{ID: "run-g", Job: "exchange-rates", StartedAt: started, Status: types.RunRunning}
	require.NoError(t, s.StartRun(ctx, good))
	require.NoError(t, s.FinishRun(ctx, "run-g", types.RunPartial, 2, 1, ""))

	last, ok, err := s.LastCompletedRun(ctx, "exchange-rates")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, started, last.UTC())
}

func TestSeedIsIdempotent(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	benchmarks := []types.Benchmark{
		{Symbol: "^GSPC", Name: "S&P 500", Currency: "USD"},
		{Symbol: "^FTSE", Name: "FTSE 100", Currency: "GBP"},
	}
	investments := []types.Investment{
		{Symbol: "AAPL", Name: "Apple Inc.", Currency: "USD"},
	}

	added, err := s.SeedBenchmarks(ctx, benchmarks)
	require.NoError(t, err)
	assert.Equal(t, 2, added)

	added, err = s.SeedBenchmarks(ctx, benchmarks)
	require.NoError(t, err)
	assert.Equal(t, 0, added)

	added, err = s.SeedInvestments(ctx, investments)
	require.NoError(t, err)
	assert.Equal(t, 1, added)

	added, err = s.SeedInvestments(ctx, investments)
	require.NoError(t, err)
	assert.Equal(t, 0, added)
}
