package types

import (
	"time"

	"github.com/shopspring/decimal"
)

// Benchmark represents a market index tracked alongside the portfolio
type Benchmark struct {
	ID        int64     `json:"id"`
	Symbol    string    `json:"symbol"`
	Name      string    `json:"name"`
	Currency  string    `json:"currency"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// BenchmarkValue represents one closing value of a benchmark on a given day
type BenchmarkValue struct {
	BenchmarkID int64           `json:"benchmark_id"`
	Date        string          `json:"date"`
	Value       decimal.Decimal `json:"value"`
}

// GlobalEvent represents a market event shown on portfolio charts
type GlobalEvent struct {
	ID          int64     `json:"id"`
	Date        string    `json:"date"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// Doc represents an editable documentation page
type Doc struct {
	Slug      string    `json:"slug"`
	Title     string    `json:"title"`
	Body      string    `json:"body"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Investment represents a holding whose price is scraped
type Investment struct {
	ID       int64  `json:"id"`
	Symbol   string `json:"symbol"`
	Name     string `json:"name"`
	Currency string `json:"currency"`
}

// InvestmentPrice represents one scraped closing price for a holding
type InvestmentPrice struct {
	Symbol   string          `json:"symbol"`
	Date     string          `json:"date"`
	Price    decimal.Decimal `json:"price"`
	Currency string          `json:"currency"`
}

// ExchangeRate represents one scraped rate of base -> symbol on a given day
type ExchangeRate struct {
	Base   string          `json:"base"`
	Symbol string          `json:"symbol"`
	Date   string          `json:"date"`
	Rate   decimal.Decimal `json:"rate"`
}
