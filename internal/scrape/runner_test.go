package scrape

import (
	"context"
	"fmt"
	"io"
	"sync"
	"testing"

	"github.com/HamptonNorth/portfolio-60-sub003/internal/events"
	"github.com/HamptonNorth/portfolio-60-sub003/pkg/types"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeSource struct {
	name     string
	items    []Item
	itemsErr error
	fail     map[string]error

	mu      sync.Mutex
	scraped []string
}

func (f *fakeSource) Name() string { return f.name }

func (f *fakeSource) Items(ctx context.Context) ([]Item, error) {
	return f.items, f.itemsErr
}

func (f *fakeSource) Scrape(ctx context.Context, item Item) error {
	f.mu.Lock()
	f.scraped = append(f.scraped, item.Symbol)
	f.mu.Unlock()

	if err, ok := f.fail[item.Symbol]; ok {
		return err
	}
	return nil
}

type fakeNotifier struct {
	mu   sync.Mutex
	runs []types.ScrapeRun
}

func (f *fakeNotifier) NotifyRun(run types.ScrapeRun) {
	f.mu.Lock()
	f.runs = append(f.runs, run)
	f.mu.Unlock()
}

func newTestRunner(t *testing.T) (*Runner, *events.Bus, <-chan events.Event) {
	t.Helper()

	logger := logrus.New()
	logger.SetOutput(io.Discard)

	bus := events.New()
	ch, cancel := bus.Subscribe(64)
	t.Cleanup(cancel)

	return NewRunner(openTestStore(t), bus, logger, nil), bus, ch
}

// drainEvents empties the subscription buffer. The runner publishes
// synchronously, so once Run returns every event is already queued.
func drainEvents(ch <-chan events.Event) []events.Event {
	var out []events.Event
	for {
		select {
		case ev := <-ch:
			out = append(out, ev)
		default:
			return out
		}
	}
}

func TestRunnerAllOK(t *testing.T) {
	runner, _, ch := newTestRunner(t)
	source := &fakeSource{
		name: "investment-prices",
		items: []Item{
			{Symbol: "VWRL.L"},
			{Symbol: "VUKE.L"},
			{Symbol: "SGLN.L"},
		},
	}

	run, err := runner.Run(context.Background(), source)
	require.NoError(t, err)
	assert.Equal(t, types.RunOK, run.Status)
	assert.Equal(t, 3, run.Items)
	assert.Equal(t, 0, run.Failed)
	assert.Empty(t, run.Error)
	require.NotNil(t, run.FinishedAt)
	assert.Len(t, source.scraped, 3)

	evs := drainEvents(ch)
	require.Len(t, evs, 8)
	assert.Equal(t, types.EventRunStarted, evs[0].Type)
	assert.Equal(t, types.EventRunFinished, evs[len(evs)-1].Type)

	finished := evs[len(evs)-1].Data.(types.RunEvent)
	assert.Equal(t, run.ID, finished.RunID)
	assert.Equal(t, string(types.RunOK), finished.Status)
	assert.Equal(t, 3, finished.Items)
}

func TestRunnerPersistsRun(t *testing.T) {
	logger := logrus.New()
	logger.SetOutput(io.Discard)

	s := openTestStore(t)
	runner := NewRunner(s, events.New(), logger, nil)
	source := &fakeSource{name: "exchange-rates", items: []Item{{Symbol: "USD"}}}

	run, err := runner.Run(context.Background(), source)
	require.NoError(t, err)

	stored, err := s.GetRun(context.Background(), run.ID)
	require.NoError(t, err)
	assert.Equal(t, types.RunOK, stored.Status)
	assert.Equal(t, 1, stored.Items)
	assert.NotNil(t, stored.FinishedAt)
}

func TestRunnerPartialFailure(t *testing.T) {
	runner, _, ch := newTestRunner(t)
	source := &fakeSource{
		name:  "investment-prices",
		items: []Item{{Symbol: "VWRL.L"}, {Symbol: "BAD.L"}},
		fail:  map[string]error{"BAD.L": fmt.Errorf("no quote for BAD.L in response")},
	}

	run, err := runner.Run(context.Background(), source)
	require.NoError(t, err)
	assert.Equal(t, types.RunPartial, run.Status)
	assert.Equal(t, 2, run.Items)
	assert.Equal(t, 1, run.Failed)
	assert.Contains(t, run.Error, "no quote for BAD.L")

	var failedSymbols []string
	for _, ev := range drainEvents(ch) {
		if ev.Type != types.EventRunItem {
			continue
		}
		item := ev.Data.(types.RunEvent)
		if item.Status == "failed" {
			failedSymbols = append(failedSymbols, item.Symbol)
		}
	}
	assert.Equal(t, []string{"BAD.L"}, failedSymbols)
}

func TestRunnerAllItemsFail(t *testing.T) {
	runner, _, _ := newTestRunner(t)
	source := &fakeSource{
		name:  "benchmark-values",
		items: []Item{{Symbol: "^FTSE"}, {Symbol: "^GSPC"}},
		fail: map[string]error{
			"^FTSE": fmt.Errorf("received HTML response instead of JSON"),
			"^GSPC": fmt.Errorf("received HTML response instead of JSON"),
		},
	}

	run, err := runner.Run(context.Background(), source)
	require.Error(t, err)
	assert.Equal(t, types.RunFailed, run.Status)
	assert.Equal(t, 2, run.Failed)
}

func TestRunnerItemsListingError(t *testing.T) {
	runner, _, ch := newTestRunner(t)
	source := &fakeSource{
		name:     "investment-prices",
		itemsErr: fmt.Errorf("database is locked"),
	}

	run, err := runner.Run(context.Background(), source)
	require.Error(t, err)
	assert.Equal(t, types.RunFailed, run.Status)
	assert.Equal(t, 0, run.Items)
	assert.Contains(t, run.Error, "failed to list items")

	evs := drainEvents(ch)
	require.Len(t, evs, 2)
	assert.Equal(t, types.EventRunStarted, evs[0].Type)
	assert.Equal(t, types.EventRunFinished, evs[1].Type)
}

func TestRunnerEmptyItems(t *testing.T) {
	runner, _, _ := newTestRunner(t)
	source := &fakeSource{name: "investment-prices"}

	run, err := runner.Run(context.Background(), source)
	require.NoError(t, err)
	assert.Equal(t, types.RunOK, run.Status)
	assert.Equal(t, 0, run.Items)
}

func TestRunnerNotifies(t *testing.T) {
	logger := logrus.New()
	logger.SetOutput(io.Discard)

	notifier := &fakeNotifier{}
	runner := NewRunner(openTestStore(t), events.New(), logger, notifier)
	source := &fakeSource{
		name:  "exchange-rates",
		items: []Item{{Symbol: "USD"}},
		fail:  map[string]error{"USD": fmt.Errorf("HTTP request failed with status code: 502")},
	}

	run, err := runner.Run(context.Background(), source)
	require.Error(t, err)

	notifier.mu.Lock()
	defer notifier.mu.Unlock()
	require.Len(t, notifier.runs, 1)
	assert.Equal(t, run.ID, notifier.runs[0].ID)
	assert.Equal(t, types.RunFailed, notifier.runs[0].Status)
}
