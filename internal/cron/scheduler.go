// Package cron schedules the scrape jobs defined in the job config and
// guards how many may run at once.
package cron

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/HamptonNorth/portfolio-60-sub003/pkg/types"
	"github.com/HamptonNorth/portfolio-60-sub003/pkg/utils"
	"github.com/robfig/cron/v3"
	"github.com/sirupsen/logrus"
)

// ErrAtCapacity is returned when a run is requested while the maximum
// number of concurrent jobs are already executing.
var ErrAtCapacity = errors.New("max concurrent jobs reached")

// fieldParser accepts the standard five field cron format plus
// descriptors like @daily.
var fieldParser = cron.NewParser(
	cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow | cron.Descriptor,
)

// TaskFunc is the work a job executes when its schedule fires.
type TaskFunc func(ctx context.Context) error

type entry struct {
	id    cron.EntryID
	sched cron.Schedule
	job   types.Job
}

// Scheduler keeps every configured job, including disabled ones so the
// admin screens can still list them. Only enabled jobs get cron
// entries.
type Scheduler struct {
	cron           *cron.Cron
	logger         *logrus.Logger
	jobs           map[string]entry
	mu             sync.RWMutex
	started        bool
	tasks          map[string]TaskFunc
	maxConcurrent  int
	activeJobs     int
	activeJobsLock sync.Mutex
}

func NewScheduler(logger *logrus.Logger, config types.JobConfig) *Scheduler {
	maxConcurrent := config.MaxConcurrent
	if maxConcurrent <= 0 {
		maxConcurrent = 1
	}

	return &Scheduler{
		cron:          cron.New(cron.WithParser(fieldParser)),
		logger:        logger,
		maxConcurrent: maxConcurrent,
		jobs:          make(map[string]entry),
		tasks:         make(map[string]TaskFunc),
	}
}

func (s *Scheduler) RegisterTask(name string, task TaskFunc) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.tasks[name] = task
}

// LoadJobs replaces the current job set. It is called at startup and
// again whenever the config file changes on disk.
func (s *Scheduler) LoadJobs(jobs []types.Job) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for name, e := range s.jobs {
		if e.id != 0 {
			s.cron.Remove(e.id)
		}
		delete(s.jobs, name)
	}

	for _, job := range jobs {
		if !job.Schedule.Enabled {
			s.jobs[job.Name] = entry{job: job}
			s.logger.Infof("Job %s is disabled, not scheduling", job.Name)
			continue
		}

		task, exists := s.tasks[job.TaskName]
		if !exists {
			return fmt.Errorf("task %s not registered", job.TaskName)
		}

		sched, err := fieldParser.Parse(job.Schedule.Cron)
		if err != nil {
			return fmt.Errorf("failed to schedule job %s: %w", job.Name, err)
		}

		id := s.cron.Schedule(sched, cron.FuncJob(func() {
			if !s.acquire() {
				s.logger.Warnf("Max concurrent jobs reached, skipping job: %s", job.Name)
				return
			}
			defer s.release()
			s.execute(job, task)
		}))

		s.jobs[job.Name] = entry{id: id, sched: sched, job: job}

		s.logger.WithFields(logrus.Fields{
			"job_name": job.Name,
			"schedule": job.Schedule.Cron,
			"task":     job.TaskName,
		}).Info("Job scheduled successfully")
	}

	return nil
}

func (s *Scheduler) acquire() bool {
	s.activeJobsLock.Lock()
	defer s.activeJobsLock.Unlock()

	if s.activeJobs >= s.maxConcurrent {
		return false
	}
	s.activeJobs++
	return true
}

func (s *Scheduler) release() {
	s.activeJobsLock.Lock()
	s.activeJobs--
	s.activeJobsLock.Unlock()
}

func (s *Scheduler) execute(job types.Job, task TaskFunc) {
	s.logger.WithFields(logrus.Fields{
		"job_name": job.Name,
		"schedule": job.Schedule.Cron,
		"task":     job.TaskName,
	}).Info("Starting job execution")

	start := time.Now()

	if err := task(context.Background()); err != nil {
		s.logger.WithFields(logrus.Fields{
			"job_name": job.Name,
			"error":    err.Error(),
			"duration": utils.FormatElapsed(time.Since(start)),
		}).Error("Job execution failed")
		return
	}

	s.logger.WithFields(logrus.Fields{
		"job_name": job.Name,
		"duration": utils.FormatElapsed(time.Since(start)),
	}).Info("Job execution completed successfully")
}

// RunNow triggers a job outside its schedule. It returns ErrAtCapacity
// when the concurrency limit is already reached so callers can report
// the conflict instead of queueing.
func (s *Scheduler) RunNow(name string) error {
	s.mu.RLock()
	e, exists := s.jobs[name]
	var task TaskFunc
	if exists {
		task = s.tasks[e.job.TaskName]
	}
	s.mu.RUnlock()

	if !exists {
		return fmt.Errorf("job %s not found", name)
	}
	if task == nil {
		return fmt.Errorf("task %s not registered", e.job.TaskName)
	}

	if !s.acquire() {
		return ErrAtCapacity
	}

	go func() {
		defer s.release()
		s.execute(e.job, task)
	}()

	return nil
}

func (s *Scheduler) GetJob(name string) (types.Job, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	e, exists := s.jobs[name]
	if !exists {
		return types.Job{}, fmt.Errorf("job %s not found", name)
	}
	return e.job, nil
}

// ListJobs returns every configured job sorted by name.
func (s *Scheduler) ListJobs() []types.Job {
	s.mu.RLock()
	defer s.mu.RUnlock()

	jobs := make([]types.Job, 0, len(s.jobs))
	for _, e := range s.jobs {
		jobs = append(jobs, e.job)
	}
	sort.Slice(jobs, func(i, j int) bool { return jobs[i].Name < jobs[j].Name })

	return jobs
}

// NextRun returns the next scheduled fire time for a job. Disabled
// jobs return the zero time.
func (s *Scheduler) NextRun(name string) (time.Time, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	e, exists := s.jobs[name]
	if !exists {
		return time.Time{}, fmt.Errorf("job %s not found", name)
	}
	if e.sched == nil {
		return time.Time{}, nil
	}
	return e.sched.Next(time.Now()), nil
}

// ActiveJobs reports how many jobs are executing right now.
func (s *Scheduler) ActiveJobs() int {
	s.activeJobsLock.Lock()
	defer s.activeJobsLock.Unlock()
	return s.activeJobs
}

func (s *Scheduler) Start() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.started {
		return fmt.Errorf("scheduler already started")
	}

	s.cron.Start()
	s.started = true
	s.logger.Info("Scheduler started...")

	return nil
}

func (s *Scheduler) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.started {
		return
	}

	ctx := s.cron.Stop()
	<-ctx.Done()
	s.started = false
	s.logger.Info("Scheduler stopped")
}

func (s *Scheduler) IsRunning() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.started
}
