package types

import "time"

// RunStatus is the lifecycle state of a scrape run
type RunStatus string

const (
	RunRunning RunStatus = "running"
	RunOK      RunStatus = "ok"
	RunPartial RunStatus = "partial"
	RunFailed  RunStatus = "failed"
)

// Progress event types published while a scrape run executes
const (
	EventRunStarted  = "run_started"
	EventRunItem     = "run_item"
	EventRunFinished = "run_finished"
)

// ScrapeRun represents one execution of a scrape job
type ScrapeRun struct {
	ID         string     `json:"id"`
	Job        string     `json:"job"`
	StartedAt  time.Time  `json:"started_at"`
	FinishedAt *time.Time `json:"finished_at,omitempty"`
	Status     RunStatus  `json:"status"`
	Items      int        `json:"items"`
	Failed     int        `json:"failed"`
	Error      string     `json:"error,omitempty"`
}

// RunEvent is the payload pushed to stream subscribers while a run progresses
type RunEvent struct {
	RunID   string    `json:"run_id"`
	Job     string    `json:"job"`
	Symbol  string    `json:"symbol,omitempty"`
	Status  string    `json:"status"`
	Message string    `json:"message,omitempty"`
	Items   int       `json:"items,omitempty"`
	Failed  int       `json:"failed,omitempty"`
	At      time.Time `json:"at"`
}
