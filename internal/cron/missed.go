package cron

import (
	"context"
	"time"
)

// LastRunStore reports when a job last finished with data stored.
type LastRunStore interface {
	LastCompletedRun(ctx context.Context, job string) (time.Time, bool, error)
}

// CheckMissed runs every enabled job whose schedule fired while the
// server was down, or that has never completed at all. Jobs must opt in
// through run_on_startup_if_missed. Catch-up runs execute one at a time
// so a long outage does not slam the quote endpoints at boot.
func (s *Scheduler) CheckMissed(ctx context.Context, store LastRunStore, now time.Time) {
	s.mu.RLock()
	candidates := make([]entry, 0, len(s.jobs))
	tasks := make(map[string]TaskFunc, len(s.tasks))
	for _, e := range s.jobs {
		if e.job.Schedule.Enabled && e.job.Schedule.RunOnStartupIfMissed && e.sched != nil {
			candidates = append(candidates, e)
			tasks[e.job.TaskName] = s.tasks[e.job.TaskName]
		}
	}
	s.mu.RUnlock()

	for _, e := range candidates {
		if ctx.Err() != nil {
			return
		}

		last, ok, err := store.LastCompletedRun(ctx, e.job.TaskName)
		if err != nil {
			s.logger.Errorf("Failed to look up last run for %s: %v", e.job.Name, err)
			continue
		}

		// Missed means the schedule fired between the last completed
		// run and now, or the job has never completed.
		if ok && e.sched.Next(last).After(now) {
			s.logger.Debugf("Job %s is up to date, last run %s", e.job.Name, last.Format(time.RFC3339))
			continue
		}

		task := tasks[e.job.TaskName]
		if task == nil {
			s.logger.Errorf("Task %s not registered for missed run of %s", e.job.TaskName, e.job.Name)
			continue
		}

		s.logger.Infof("Job %s missed its schedule, running now", e.job.Name)

		if !s.acquire() {
			s.logger.Warnf("Max concurrent jobs reached, skipping missed run of %s", e.job.Name)
			continue
		}
		s.execute(e.job, task)
		s.release()
	}
}
