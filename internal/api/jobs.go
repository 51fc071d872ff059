package api

import (
	"errors"
	"net/http"
	"time"

	"github.com/HamptonNorth/portfolio-60-sub003/internal/cron"
	"github.com/HamptonNorth/portfolio-60-sub003/internal/schedule"
	"github.com/HamptonNorth/portfolio-60-sub003/pkg/types"
	"github.com/HamptonNorth/portfolio-60-sub003/pkg/utils"
	"github.com/gorilla/mux"
)

// jobView is a job as the scraping admin screen shows it: the raw
// schedule config plus the human-readable sentence, the next fire time
// and the most recent run.
type jobView struct {
	Name         string               `json:"name"`
	Task         string               `json:"task"`
	Description  string               `json:"description"`
	Schedule     types.ScheduleConfig `json:"schedule"`
	ScheduleText string               `json:"schedule_text"`
	NextRun      string               `json:"next_run,omitempty"`
	NextRunIn    string               `json:"next_run_in,omitempty"`
	LastRun      *types.ScrapeRun     `json:"last_run,omitempty"`
}

func (h *Handler) buildJobView(r *http.Request, job types.Job) (jobView, error) {
	view := jobView{
		Name:         job.Name,
		Task:         job.TaskName,
		Description:  job.Description,
		Schedule:     job.Schedule,
		ScheduleText: schedule.DescribeConfig(job.Schedule),
	}

	if next, err := h.Scheduler.NextRun(job.Name); err == nil && !next.IsZero() {
		view.NextRun = next.UTC().Format(time.RFC3339)
		view.NextRunIn = utils.FormatDuration(time.Until(next))
	}

	runs, err := h.store.ListRuns(r.Context(), job.TaskName, 1)
	if err != nil {
		return view, err
	}
	if len(runs) > 0 {
		view.LastRun = &runs[0]
	}

	return view, nil
}

func (h *Handler) ListJobs(w http.ResponseWriter, r *http.Request) {
	jobs := h.Scheduler.ListJobs()

	views := make([]jobView, 0, len(jobs))
	for _, job := range jobs {
		view, err := h.buildJobView(r, job)
		if err != nil {
			h.handleError(w, err, http.StatusInternalServerError)
			return
		}
		views = append(views, view)
	}

	h.writeJSON(w, http.StatusOK, map[string]any{
		"jobs":              views,
		"scheduler_running": h.Scheduler.IsRunning(),
		"active_jobs":       h.Scheduler.ActiveJobs(),
	})
}

func (h *Handler) GetJob(w http.ResponseWriter, r *http.Request) {
	job, err := h.Scheduler.GetJob(mux.Vars(r)["name"])
	if err != nil {
		h.handleError(w, err, http.StatusNotFound)
		return
	}

	view, err := h.buildJobView(r, job)
	if err != nil {
		h.handleError(w, err, http.StatusInternalServerError)
		return
	}
	h.writeJSON(w, http.StatusOK, view)
}

// RunJob triggers a job outside its schedule. A 409 means the
// concurrency limit is reached; try again once a running job finishes.
func (h *Handler) RunJob(w http.ResponseWriter, r *http.Request) {
	name := mux.Vars(r)["name"]

	if err := h.Scheduler.RunNow(name); err != nil {
		code := http.StatusInternalServerError
		if errors.Is(err, cron.ErrAtCapacity) {
			code = http.StatusConflict
		} else if _, jobErr := h.Scheduler.GetJob(name); jobErr != nil {
			code = http.StatusNotFound
		}
		h.handleError(w, err, code)
		return
	}

	h.writeJSON(w, http.StatusAccepted, map[string]string{
		"status": "run started",
		"job":    name,
	})
}

func (h *Handler) ListRuns(w http.ResponseWriter, r *http.Request) {
	runs, err := h.store.ListRuns(r.Context(), r.URL.Query().Get("job"), queryLimit(r))
	if err != nil {
		h.handleError(w, err, http.StatusInternalServerError)
		return
	}
	h.writeJSON(w, http.StatusOK, map[string]any{"runs": runs})
}

func (h *Handler) GetRun(w http.ResponseWriter, r *http.Request) {
	run, err := h.store.GetRun(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		h.handleError(w, err, http.StatusInternalServerError)
		return
	}
	h.writeJSON(w, http.StatusOK, run)
}

func (h *Handler) StartScheduler(w http.ResponseWriter, r *http.Request) {
	if err := h.Scheduler.Start(); err != nil {
		h.handleError(w, err, http.StatusInternalServerError)
		return
	}
	h.writeJSON(w, http.StatusOK, map[string]string{
		"status": "scheduler started successfully",
	})
}

func (h *Handler) StopScheduler(w http.ResponseWriter, r *http.Request) {
	h.Scheduler.Stop()
	h.writeJSON(w, http.StatusOK, map[string]string{
		"status": "scheduler stopped successfully",
	})
}
