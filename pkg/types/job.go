package types

// ScheduleConfig represents when and how a scrape job runs
type ScheduleConfig struct {
	Enabled              bool   `json:"enabled"`
	Cron                 string `json:"cron"`
	RunOnStartupIfMissed bool   `json:"run_on_startup_if_missed"`
}

// Job represents a scheduled scrape job configuration
type Job struct {
	Name        string         `json:"name"`
	TaskName    string         `json:"task"`
	Description string         `json:"description"`
	Schedule    ScheduleConfig `json:"schedule"`
}

// JobConfig represents the job scheduler configuration
type JobConfig struct {
	MaxConcurrent int   `json:"max_concurrent"`
	Predefined    []Job `json:"predefined"`
}
