package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/HamptonNorth/portfolio-60-sub003/pkg/types"
)

func (s *Store) ListBenchmarks(ctx context.Context) ([]types.Benchmark, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, symbol, name, currency, created_at, updated_at FROM benchmarks ORDER BY symbol`)
	if err != nil {
		return nil, fmt.Errorf("failed to list benchmarks: %w", err)
	}
	defer rows.Close()

	benchmarks := make([]types.Benchmark, 0)
	for rows.Next() {
		var b types.Benchmark
		var created, updated string
		if err := rows.Scan(&b.ID, &b.Symbol, &b.Name, &b.Currency, &created, &updated); err != nil {
			return nil, err
		}
		b.CreatedAt = parseTime(created)
		b.UpdatedAt = parseTime(updated)
		benchmarks = append(benchmarks, b)
	}
	return benchmarks, rows.Err()
}

func (s *Store) GetBenchmark(ctx context.Context, id int64) (*types.Benchmark, error) {
	var b types.Benchmark
	var created, updated string
	err := s.db.QueryRowContext(ctx,
		`SELECT id, symbol, name, currency, created_at, updated_at FROM benchmarks WHERE id = ?`, id).
		Scan(&b.ID, &b.Symbol, &b.Name, &b.Currency, &created, &updated)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("benchmark %d: %w", id, ErrNotFound)
	}
	if err != nil {
		return nil, err
	}
	b.CreatedAt = parseTime(created)
	b.UpdatedAt = parseTime(updated)
	return &b, nil
}

func (s *Store) CreateBenchmark(ctx context.Context, b *types.Benchmark) error {
	now := nowString()
	res, err := s.db.ExecContext(ctx,
		`INSERT INTO benchmarks (symbol, name, currency, created_at, updated_at) VALUES (?, ?, ?, ?, ?)`,
		b.Symbol, b.Name, b.Currency, now, now)
	if err != nil {
		return fmt.Errorf("failed to create benchmark: %w", err)
	}
	b.ID, _ = res.LastInsertId()
	b.CreatedAt = parseTime(now)
	b.UpdatedAt = b.CreatedAt
	return nil
}

func (s *Store) UpdateBenchmark(ctx context.Context, b *types.Benchmark) error {
	now := nowString()
	res, err := s.db.ExecContext(ctx,
		`UPDATE benchmarks SET symbol = ?, name = ?, currency = ?, updated_at = ? WHERE id = ?`,
		b.Symbol, b.Name, b.Currency, now, b.ID)
	if err != nil {
		return fmt.Errorf("failed to update benchmark: %w", err)
	}
	if affected, _ := res.RowsAffected(); affected == 0 {
		return fmt.Errorf("benchmark %d: %w", b.ID, ErrNotFound)
	}
	b.UpdatedAt = parseTime(now)
	return nil
}

func (s *Store) DeleteBenchmark(ctx context.Context, id int64) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM benchmarks WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("failed to delete benchmark: %w", err)
	}
	if affected, _ := res.RowsAffected(); affected == 0 {
		return fmt.Errorf("benchmark %d: %w", id, ErrNotFound)
	}
	return nil
}

func (s *Store) ListGlobalEvents(ctx context.Context) ([]types.GlobalEvent, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, date, title, description, created_at, updated_at FROM global_events ORDER BY date DESC`)
	if err != nil {
		return nil, fmt.Errorf("failed to list events: %w", err)
	}
	defer rows.Close()

	events := make([]types.GlobalEvent, 0)
	for rows.Next() {
		var e types.GlobalEvent
		var created, updated string
		if err := rows.Scan(&e.ID, &e.Date, &e.Title, &e.Description, &created, &updated); err != nil {
			return nil, err
		}
		e.CreatedAt = parseTime(created)
		e.UpdatedAt = parseTime(updated)
		events = append(events, e)
	}
	return events, rows.Err()
}

func (s *Store) GetGlobalEvent(ctx context.Context, id int64) (*types.GlobalEvent, error) {
	var e types.GlobalEvent
	var created, updated string
	err := s.db.QueryRowContext(ctx,
		`SELECT id, date, title, description, created_at, updated_at FROM global_events WHERE id = ?`, id).
		Scan(&e.ID, &e.Date, &e.Title, &e.Description, &created, &updated)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("event %d: %w", id, ErrNotFound)
	}
	if err != nil {
		return nil, err
	}
	e.CreatedAt = parseTime(created)
	e.UpdatedAt = parseTime(updated)
	return &e, nil
}

func (s *Store) CreateGlobalEvent(ctx context.Context, e *types.GlobalEvent) error {
	now := nowString()
	res, err := s.db.ExecContext(ctx,
		`INSERT INTO global_events (date, title, description, created_at, updated_at) VALUES (?, ?, ?, ?, ?)`,
		e.Date, e.Title, e.Description, now, now)
	if err != nil {
		return fmt.Errorf("failed to create event: %w", err)
	}
	e.ID, _ = res.LastInsertId()
	e.CreatedAt = parseTime(now)
	e.UpdatedAt = e.CreatedAt
	return nil
}

func (s *Store) UpdateGlobalEvent(ctx context.Context, e *types.GlobalEvent) error {
	now := nowString()
	res, err := s.db.ExecContext(ctx,
		`UPDATE global_events SET date = ?, title = ?, description = ?, updated_at = ? WHERE id = ?`,
		e.Date, e.Title, e.Description, now, e.ID)
	if err != nil {
		return fmt.Errorf("failed to update event: %w", err)
	}
	if affected, _ := res.RowsAffected(); affected == 0 {
		return fmt.Errorf("event %d: %w", e.ID, ErrNotFound)
	}
	e.UpdatedAt = parseTime(now)
	return nil
}

func (s *Store) DeleteGlobalEvent(ctx context.Context, id int64) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM global_events WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("failed to delete event: %w", err)
	}
	if affected, _ := res.RowsAffected(); affected == 0 {
		return fmt.Errorf("event %d: %w", id, ErrNotFound)
	}
	return nil
}

func (s *Store) ListDocs(ctx context.Context) ([]types.Doc, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT slug, title, body, updated_at FROM docs ORDER BY slug`)
	if err != nil {
		return nil, fmt.Errorf("failed to list docs: %w", err)
	}
	defer rows.Close()

	docs := make([]types.Doc, 0)
	for rows.Next() {
		var d types.Doc
		var updated string
		if err := rows.Scan(&d.Slug, &d.Title, &d.Body, &updated); err != nil {
			return nil, err
		}
		d.UpdatedAt = parseTime(updated)
		docs = append(docs, d)
	}
	return docs, rows.Err()
}

func (s *Store) GetDoc(ctx context.Context, slug string) (*types.Doc, error) {
	var d types.Doc
	var updated string
	err := s.db.QueryRowContext(ctx,
		`SELECT slug, title, body, updated_at FROM docs WHERE slug = ?`, slug).
		Scan(&d.Slug, &d.Title, &d.Body, &updated)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("doc %q: %w", slug, ErrNotFound)
	}
	if err != nil {
		return nil, err
	}
	d.UpdatedAt = parseTime(updated)
	return &d, nil
}

// PutDoc creates the page or replaces its content, whichever applies.
func (s *Store) PutDoc(ctx context.Context, d *types.Doc) error {
	now := nowString()
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO docs (slug, title, body, updated_at) VALUES (?, ?, ?, ?)
		 ON CONFLICT(slug) DO UPDATE SET title = excluded.title, body = excluded.body, updated_at = excluded.updated_at`,
		d.Slug, d.Title, d.Body, now)
	if err != nil {
		return fmt.Errorf("failed to save doc: %w", err)
	}
	d.UpdatedAt = parseTime(now)
	return nil
}

func (s *Store) DeleteDoc(ctx context.Context, slug string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM docs WHERE slug = ?`, slug)
	if err != nil {
		return fmt.Errorf("failed to delete doc: %w", err)
	}
	if affected, _ := res.RowsAffected(); affected == 0 {
		return fmt.Errorf("doc %q: %w", slug, ErrNotFound)
	}
	return nil
}

// SeedBenchmarks inserts any benchmarks missing from the database and
// reports how many were added. Existing rows are left untouched.
func (s *Store) SeedBenchmarks(ctx context.Context, benchmarks []types.Benchmark) (int, error) {
	added := 0
	now := nowString()
	for _, b := range benchmarks {
		res, err := s.db.ExecContext(ctx,
			`INSERT OR IGNORE INTO benchmarks (symbol, name, currency, created_at, updated_at) VALUES (?, ?, ?, ?, ?)`,
			b.Symbol, b.Name, b.Currency, now, now)
		if err != nil {
			return added, fmt.Errorf("failed to seed benchmark %s: %w", b.Symbol, err)
		}
		if affected, _ := res.RowsAffected(); affected > 0 {
			added++
		}
	}
	return added, nil
}

// SeedInvestments mirrors SeedBenchmarks for holdings.
func (s *Store) SeedInvestments(ctx context.Context, investments []types.Investment) (int, error) {
	added := 0
	for _, inv := range investments {
		res, err := s.db.ExecContext(ctx,
			`INSERT OR IGNORE INTO investments (symbol, name, currency) VALUES (?, ?, ?)`,
			inv.Symbol, inv.Name, inv.Currency)
		if err != nil {
			return added, fmt.Errorf("failed to seed investment %s: %w", inv.Symbol, err)
		}
		if affected, _ := res.RowsAffected(); affected > 0 {
			added++
		}
	}
	return added, nil
}
