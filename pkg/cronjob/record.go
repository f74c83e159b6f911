package cronjob

import "time"

// Record is what the console shows for one job.
type Record struct {
	Name      string        `json:"name"`
	Spec      string        `json:"spec"`
	LastRun   time.Time     `json:"lastRun"`
	Next      time.Time     `json:"next"`
	Duration  time.Duration `json:"duration"`
	Succeeded bool          `json:"succeeded"`
	LastError string        `json:"lastError,omitempty"`
	Runs      int           `json:"runs"`
}
