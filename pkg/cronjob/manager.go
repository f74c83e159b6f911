// Package cronjob runs the console's background jobs on cron schedules and
// keeps the outcome of each job's latest run.
package cronjob

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/robfig/cron/v3"
	"k8s.io/klog/v2"
)

var ErrUnknownJob = errors.New("unknown cron job")

// Job is one named unit of background work.
type Job struct {
	Name string
	Spec string
	Run  func(ctx context.Context) error
}

type CronJobManager struct {
	cron    *cron.Cron
	timeout time.Duration
	now     func() time.Time

	mu      sync.RWMutex
	entries map[string]cron.EntryID
	jobs    map[string]Job
	records map[string]Record
}

// NewCronJobManager returns a stopped manager. Each run is bounded by timeout.
func NewCronJobManager(timeout time.Duration) *CronJobManager {
	return &CronJobManager{
		cron: cron.New(
			cron.WithLocation(time.Local),
			cron.WithChain(cron.SkipIfStillRunning(cron.DefaultLogger)),
		),
		timeout: timeout,
		now:     time.Now,
		entries: make(map[string]cron.EntryID),
		jobs:    make(map[string]Job),
		records: make(map[string]Record),
	}
}

// AddCronJob schedules job, replacing a job already registered under its name.
func (cm *CronJobManager) AddCronJob(job Job) (cron.EntryID, error) {
	if job.Run == nil {
		return -1, fmt.Errorf("cron job %q has no function", job.Name)
	}
	cm.mu.Lock()
	defer cm.mu.Unlock()
	if prev, ok := cm.entries[job.Name]; ok {
		cm.cron.Remove(prev)
		delete(cm.entries, job.Name)
	}
	entryID, err := cm.cron.AddFunc(job.Spec, func() { cm.RunNow(context.Background(), job) })
	if err != nil {
		klog.Error(err)
		return -1, fmt.Errorf("schedule %q: %w", job.Name, err)
	}
	cm.entries[job.Name] = entryID
	cm.jobs[job.Name] = job
	cm.records[job.Name] = Record{Name: job.Name, Spec: job.Spec}
	return entryID, nil
}

// RunNow runs job once in the caller's goroutine and records the outcome.
func (cm *CronJobManager) RunNow(ctx context.Context, job Job) error {
	if cm.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, cm.timeout)
		defer cancel()
	}
	start := cm.now()
	err := job.Run(ctx)
	rec := Record{
		Name:      job.Name,
		Spec:      job.Spec,
		LastRun:   start,
		Duration:  cm.now().Sub(start),
		Succeeded: err == nil,
	}
	if err != nil {
		rec.LastError = err.Error()
		klog.Errorf("cron job %s failed: %v", job.Name, err)
	} else {
		klog.V(4).Infof("cron job %s done in %s", job.Name, rec.Duration)
	}

	cm.mu.Lock()
	if prev, ok := cm.records[job.Name]; ok {
		rec.Runs = prev.Runs
	}
	rec.Runs++
	cm.records[job.Name] = rec
	cm.mu.Unlock()
	return err
}

// Trigger runs the job registered under name outside its schedule.
func (cm *CronJobManager) Trigger(ctx context.Context, name string) error {
	cm.mu.RLock()
	job, ok := cm.jobs[name]
	cm.mu.RUnlock()
	if !ok {
		return fmt.Errorf("%w: %s", ErrUnknownJob, name)
	}
	return cm.RunNow(ctx, job)
}

func (cm *CronJobManager) Start() {
	cm.cron.Start()
}

// Stop halts scheduling and waits for running jobs or ctx, whichever ends first.
func (cm *CronJobManager) Stop(ctx context.Context) {
	select {
	case <-cm.cron.Stop().Done():
	case <-ctx.Done():
	}
}

// Records returns the latest outcome of every job, sorted by name.
func (cm *CronJobManager) Records() []Record {
	cm.mu.RLock()
	defer cm.mu.RUnlock()
	out := make([]Record, 0, len(cm.records))
	for name, rec := range cm.records {
		if id, ok := cm.entries[name]; ok {
			rec.Next = cm.cron.Entry(id).Next
		}
		out = append(out, rec)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}
