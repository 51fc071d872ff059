package scrape

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/HamptonNorth/portfolio-60-sub003/internal/events"
	"github.com/HamptonNorth/portfolio-60-sub003/pkg/types"
	"github.com/HamptonNorth/portfolio-60-sub003/pkg/utils"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

const itemWorkers = 4

// Item is one symbol a source scrapes during a run.
type Item struct {
	ID       int64
	Symbol   string
	Label    string
	Currency string
}

// Source enumerates the items of one scrape job and fetches them.
type Source interface {
	Name() string
	Items(ctx context.Context) ([]Item, error)
	Scrape(ctx context.Context, item Item) error
}

type RunStore interface {
	StartRun(ctx context.Context, run *types.ScrapeRun) error
	FinishRun(ctx context.Context, id string, status types.RunStatus, items, failed int, errText string) error
}

// Notifier receives the final state of each run.
type Notifier interface {
	NotifyRun(run types.ScrapeRun)
}

// Runner executes one source end to end, recording the run in the store
// and publishing progress on the bus as items complete.
type Runner struct {
	store    RunStore
	bus      *events.Bus
	logger   *logrus.Logger
	notifier Notifier
}

// NewRunner wires a runner. notifier may be nil when Slack is not
// configured.
func NewRunner(store RunStore, bus *events.Bus, logger *logrus.Logger, notifier Notifier) *Runner {
	return &Runner{
		store:    store,
		bus:      bus,
		logger:   logger,
		notifier: notifier,
	}
}

func (r *Runner) Run(ctx context.Context, src Source) (*types.ScrapeRun, error) {
	run := &types.ScrapeRun{
		ID:        uuid.NewString(),
		Job:       src.Name(),
		StartedAt: time.Now().UTC(),
		Status:    types.RunRunning,
	}

	if err := r.store.StartRun(ctx, run); err != nil {
		return nil, err
	}

	r.publish(types.EventRunStarted, types.RunEvent{
		RunID:  run.ID,
		Job:    run.Job,
		Status: string(types.RunRunning),
		At:     run.StartedAt,
	})

	items, err := src.Items(ctx)
	if err != nil {
		return r.finish(ctx, run, 0, 0, fmt.Errorf("failed to list items: %w", err))
	}
	if len(items) == 0 {
		return r.finish(ctx, run, 0, 0, nil)
	}

	var (
		wg        sync.WaitGroup
		mu        sync.Mutex
		failed    int
		lastErr   error
		semaphore = make(chan struct{}, itemWorkers)
	)

	start := time.Now()
	for _, item := range items {
		wg.Add(1)
		go func(item Item) {
			defer wg.Done()
			semaphore <- struct{}{}
			defer func() { <-semaphore }()

			if err := r.scrapeOne(ctx, src, run, item); err != nil {
				mu.Lock()
				failed++
				lastErr = err
				mu.Unlock()
			}
		}(item)
	}
	wg.Wait()

	r.logger.WithFields(logrus.Fields{
		"job":      run.Job,
		"items":    len(items),
		"failed":   failed,
		"duration": utils.FormatElapsed(time.Since(start)),
	}).Info("Scrape run finished")

	return r.finish(ctx, run, len(items), failed, lastErr)
}

func (r *Runner) scrapeOne(ctx context.Context, src Source, run *types.ScrapeRun, item Item) error {
	r.publish(types.EventRunItem, types.RunEvent{
		RunID:  run.ID,
		Job:    run.Job,
		Symbol: item.Symbol,
		Status: "scraping",
		At:     time.Now().UTC(),
	})

	if err := src.Scrape(ctx, item); err != nil {
		r.logger.Warnf("Scrape failed for %s: %v", item.Symbol, err)
		r.publish(types.EventRunItem, types.RunEvent{
			RunID:   run.ID,
			Job:     run.Job,
			Symbol:  item.Symbol,
			Status:  "failed",
			Message: err.Error(),
			At:      time.Now().UTC(),
		})
		return err
	}

	r.publish(types.EventRunItem, types.RunEvent{
		RunID:  run.ID,
		Job:    run.Job,
		Symbol: item.Symbol,
		Status: "stored",
		At:     time.Now().UTC(),
	})
	return nil
}

func (r *Runner) finish(ctx context.Context, run *types.ScrapeRun, items, failed int, lastErr error) (*types.ScrapeRun, error) {
	status := types.RunOK
	errText := ""
	switch {
	case lastErr != nil && items == 0:
		status = types.RunFailed
		errText = lastErr.Error()
	case failed > 0 && failed == items:
		status = types.RunFailed
		errText = lastErr.Error()
	case failed > 0:
		status = types.RunPartial
		errText = lastErr.Error()
	}

	now := time.Now().UTC()
	run.Status = status
	run.Items = items
	run.Failed = failed
	run.Error = errText
	run.FinishedAt = &now

	if err := r.store.FinishRun(ctx, run.ID, status, items, failed, errText); err != nil {
		r.logger.Errorf("Failed to record run finish: %v", err)
	}

	r.publish(types.EventRunFinished, types.RunEvent{
		RunID:   run.ID,
		Job:     run.Job,
		Status:  string(status),
		Items:   items,
		Failed:  failed,
		Message: errText,
		At:      now,
	})

	if r.notifier != nil {
		r.notifier.NotifyRun(*run)
	}

	if status == types.RunFailed {
		return run, fmt.Errorf("scrape run failed: %s", errText)
	}
	return run, nil
}

func (r *Runner) publish(eventType string, payload types.RunEvent) {
	r.bus.Publish(events.Event{Type: eventType, Time: payload.At, Data: payload})
}
