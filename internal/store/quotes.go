package store

import (
	"context"
	"fmt"

	"github.com/HamptonNorth/portfolio-60-sub003/pkg/types"
	"github.com/shopspring/decimal"
)

// Scraped values are stored as TEXT so no precision is lost between the
// decimal package and SQLite's numeric affinity.

func (s *Store) UpsertBenchmarkValue(ctx context.Context, v types.BenchmarkValue) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO benchmark_values (benchmark_id, date, value) VALUES (?, ?, ?)
		 ON CONFLICT(benchmark_id, date) DO UPDATE SET value = excluded.value`,
		v.BenchmarkID, v.Date, v.Value.String())
	if err != nil {
		return fmt.Errorf("failed to store benchmark value: %w", err)
	}
	return nil
}

func (s *Store) BenchmarkValues(ctx context.Context, benchmarkID int64, limit int) ([]types.BenchmarkValue, error) {
	if limit <= 0 {
		limit = 365
	}

	rows, err := s.db.QueryContext(ctx,
		`SELECT benchmark_id, date, value FROM benchmark_values WHERE benchmark_id = ? ORDER BY date DESC LIMIT ?`,
		benchmarkID, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list benchmark values: %w", err)
	}
	defer rows.Close()

	values := make([]types.BenchmarkValue, 0)
	for rows.Next() {
		var v types.BenchmarkValue
		var raw string
		if err := rows.Scan(&v.BenchmarkID, &v.Date, &raw); err != nil {
			return nil, err
		}
		if v.Value, err = decimal.NewFromString(raw); err != nil {
			return nil, fmt.Errorf("bad stored value %q: %w", raw, err)
		}
		values = append(values, v)
	}
	return values, rows.Err()
}

func (s *Store) ListInvestments(ctx context.Context) ([]types.Investment, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, symbol, name, currency FROM investments ORDER BY symbol`)
	if err != nil {
		return nil, fmt.Errorf("failed to list investments: %w", err)
	}
	defer rows.Close()

	investments := make([]types.Investment, 0)
	for rows.Next() {
		var inv types.Investment
		if err := rows.Scan(&inv.ID, &inv.Symbol, &inv.Name, &inv.Currency); err != nil {
			return nil, err
		}
		investments = append(investments, inv)
	}
	return investments, rows.Err()
}

func (s *Store) CreateInvestment(ctx context.Context, inv *types.Investment) error {
	res, err := s.db.ExecContext(ctx,
		`INSERT INTO investments (symbol, name, currency) VALUES (?, ?, ?)`,
		inv.Symbol, inv.Name, inv.Currency)
	if err != nil {
		return fmt.Errorf("failed to create investment: %w", err)
	}
	inv.ID, _ = res.LastInsertId()
	return nil
}

func (s *Store) UpsertInvestmentPrice(ctx context.Context, p types.InvestmentPrice) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO investment_prices (symbol, date, price, currency) VALUES (?, ?, ?, ?)
		 ON CONFLICT(symbol, date) DO UPDATE SET price = excluded.price, currency = excluded.currency`,
		p.Symbol, p.Date, p.Price.String(), p.Currency)
	if err != nil {
		return fmt.Errorf("failed to store price: %w", err)
	}
	return nil
}

// LatestPrices returns the most recent stored price per holding.
func (s *Store) LatestPrices(ctx context.Context) ([]types.InvestmentPrice, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT p.symbol, p.date, p.price, p.currency
		 FROM investment_prices p
		 JOIN (SELECT symbol, MAX(date) AS date FROM investment_prices GROUP BY symbol) m
		   ON p.symbol = m.symbol AND p.date = m.date
		 ORDER BY p.symbol`)
	if err != nil {
		return nil, fmt.Errorf("failed to list prices: %w", err)
	}
	defer rows.Close()

	return scanPrices(rows)
}

// InvestmentPrices returns the price history for one holding, newest first.
func (s *Store) InvestmentPrices(ctx context.Context, symbol string, limit int) ([]types.InvestmentPrice, error) {
	if limit <= 0 {
		limit = 365
	}

	rows, err := s.db.QueryContext(ctx,
		`SELECT symbol, date, price, currency FROM investment_prices WHERE symbol = ? ORDER BY date DESC LIMIT ?`,
		symbol, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list prices for %s: %w", symbol, err)
	}
	defer rows.Close()

	return scanPrices(rows)
}

func (s *Store) UpsertExchangeRate(ctx context.Context, r types.ExchangeRate) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO exchange_rates (base, symbol, date, rate) VALUES (?, ?, ?, ?)
		 ON CONFLICT(base, symbol, date) DO UPDATE SET rate = excluded.rate`,
		r.Base, r.Symbol, r.Date, r.Rate.String())
	if err != nil {
		return fmt.Errorf("failed to store rate: %w", err)
	}
	return nil
}

// LatestRates returns the most recent stored rate per currency for base.
func (s *Store) LatestRates(ctx context.Context, base string) ([]types.ExchangeRate, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT e.base, e.symbol, e.date, e.rate
		 FROM exchange_rates e
		 JOIN (SELECT symbol, MAX(date) AS date FROM exchange_rates WHERE base = ? GROUP BY symbol) m
		   ON e.symbol = m.symbol AND e.date = m.date
		 WHERE e.base = ?
		 ORDER BY e.symbol`, base, base)
	if err != nil {
		return nil, fmt.Errorf("failed to list rates: %w", err)
	}
	defer rows.Close()

	return scanRates(rows)
}

// RateHistory returns stored rates of base -> symbol, newest first.
func (s *Store) RateHistory(ctx context.Context, base, symbol string, limit int) ([]types.ExchangeRate, error) {
	if limit <= 0 {
		limit = 365
	}

	rows, err := s.db.QueryContext(ctx,
		`SELECT base, symbol, date, rate FROM exchange_rates WHERE base = ? AND symbol = ? ORDER BY date DESC LIMIT ?`,
		base, symbol, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list rate history: %w", err)
	}
	defer rows.Close()

	return scanRates(rows)
}

type rowScanner interface {
	Next() bool
	Scan(dest ...any) error
	Err() error
}

func scanPrices(rows rowScanner) ([]types.InvestmentPrice, error) {
	prices := make([]types.InvestmentPrice, 0)
	for rows.Next() {
		var p types.InvestmentPrice
		var raw string
		if err := rows.Scan(&p.Symbol, &p.Date, &raw, &p.Currency); err != nil {
			return nil, err
		}
		var err error
		if p.Price, err = decimal.NewFromString(raw); err != nil {
			return nil, fmt.Errorf("bad stored price %q: %w", raw, err)
		}
		prices = append(prices, p)
	}
	return prices, rows.Err()
}

func scanRates(rows rowScanner) ([]types.ExchangeRate, error) {
	rates := make([]types.ExchangeRate, 0)
	for rows.Next() {
		var r types.ExchangeRate
		var raw string
		if err := rows.Scan(&r.Base, &r.Symbol, &r.Date, &raw); err != nil {
			return nil, err
		}
		var err error
		if r.Rate, err = decimal.NewFromString(raw); err != nil {
			return nil, fmt.Errorf("bad stored rate %q: %w", raw, err)
		}
		rates = append(rates, r)
	}
	return rates, rows.Err()
}
