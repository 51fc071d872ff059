package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/HamptonNorth/portfolio-60-sub003/pkg/types"
)

func (s *Store) StartRun(ctx context.Context, run *types.ScrapeRun) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO scrape_runs (id, job, started_at, status) VALUES (?, ?, ?, ?)`,
		run.ID, run.Job, run.StartedAt.UTC().Format(time.RFC3339), string(run.Status))
	if err != nil {
		return fmt.Errorf("failed to record run start: %w", err)
	}
	return nil
}

func (s *Store) FinishRun(ctx context.Context, id string, status types.RunStatus, items, failed int, errText string) error {
	res, err := s.db.ExecContext(ctx,
		`UPDATE scrape_runs SET finished_at = ?, status = ?, items = ?, failed = ?, error = ? WHERE id = ?`,
		nowString(), string(status), items, failed, errText, id)
	if err != nil {
		return fmt.Errorf("failed to record run finish: %w", err)
	}
	if affected, _ := res.RowsAffected(); affected == 0 {
		return fmt.Errorf("run %s: %w", id, ErrNotFound)
	}
	return nil
}

func (s *Store) GetRun(ctx context.Context, id string) (*types.ScrapeRun, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT id, job, started_at, finished_at, status, items, failed, error FROM scrape_runs WHERE id = ?`, id)

	run, err := scanRun(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("run %s: %w", id, ErrNotFound)
	}
	return run, err
}

// ListRuns returns recent runs, newest first. With a job filter only that
// job's runs are returned.
func (s *Store) ListRuns(ctx context.Context, job string, limit int) ([]types.ScrapeRun, error) {
	if limit <= 0 {
		limit = 50
	}

	query := `SELECT id, job, started_at, finished_at, status, items, failed, error
	          FROM scrape_runs ORDER BY started_at DESC LIMIT ?`
	args := []any{limit}
	if job != "" {
		query = `SELECT id, job, started_at, finished_at, status, items, failed, error
		         FROM scrape_runs WHERE job = ? ORDER BY started_at DESC LIMIT ?`
		args = []any{job, limit}
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list runs: %w", err)
	}
	defer rows.Close()

	runs := make([]types.ScrapeRun, 0)
	for rows.Next() {
		run, err := scanRun(rows)
		if err != nil {
			return nil, err
		}
		runs = append(runs, *run)
	}
	return runs, rows.Err()
}

// LastCompletedRun returns when the given job last finished with data,
// counting both clean and partial runs. ok is false when the job has
// never completed.
func (s *Store) LastCompletedRun(ctx context.Context, job string) (time.Time, bool, error) {
	var started string
	err := s.db.QueryRowContext(ctx,
		`SELECT started_at FROM scrape_runs WHERE job = ? AND status IN (?, ?) ORDER BY started_at DESC LIMIT 1`,
		job, string(types.RunOK), string(types.RunPartial)).Scan(&started)
	if errors.Is(err, sql.ErrNoRows) {
		return time.Time{}, false, nil
	}
	if err != nil {
		return time.Time{}, false, fmt.Errorf("failed to find last run for %s: %w", job, err)
	}
	return parseTime(started), true, nil
}

type rowLike interface {
	Scan(dest ...any) error
}

func scanRun(row rowLike) (*types.ScrapeRun, error) {
	var run types.ScrapeRun
	var status, started string
	var finished sql.NullString
	if err := row.Scan(&run.ID, &run.Job, &started, &finished, &status, &run.Items, &run.Failed, &run.Error); err != nil {
		return nil, err
	}
	run.Status = types.RunStatus(status)
	run.StartedAt = parseTime(started)
	if finished.Valid {
		t := parseTime(finished.String)
		run.FinishedAt = &t
	}
	return &run, nil
}
