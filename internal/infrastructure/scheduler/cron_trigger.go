// Package scheduler runs the recurring-entry and deadline-reminder jobs
// inside the server process. The external cron endpoints remain the primary
// trigger; this one is off unless scheduler.enabled is set.
package scheduler

import (
	"context"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"
)

// JobFunc runs one pass of a job. now is the tick that triggered it.
type JobFunc func(ctx context.Context, now time.Time) error

// Job is a named daily task
type Job struct {
	Name     string
	Schedule DailySchedule
	Run      JobFunc
}

// CronTriggerConfig holds configuration for the cron trigger
type CronTriggerConfig struct {
	// CheckInterval is how often the clock is compared with the schedules
	CheckInterval time.Duration
	// JobTimeout bounds a single job run
	JobTimeout time.Duration
	// Location is the time zone schedules are read in (default UTC)
	Location *time.Location
}

// DefaultCronTriggerConfig returns default cron trigger configuration
func DefaultCronTriggerConfig() CronTriggerConfig {
	return CronTriggerConfig{
		CheckInterval: time.Minute,
		JobTimeout:    10 * time.Minute,
		Location:      time.UTC,
	}
}

// JobStatus is the last known state of a job
type JobStatus struct {
	Name      string     `json:"name"`
	Schedule  string     `json:"schedule"`
	LastRunAt *time.Time `json:"last_run_at,omitempty"`
	LastError string     `json:"last_error,omitempty"`
	NextRunAt time.Time  `json:"next_run_at"`
}

type jobState struct {
	job         Job
	lastRunDate string
	lastRunAt   *time.Time
	lastError   string
	running     bool
}

// CronTrigger fires each registered job once per day at its scheduled minute
type CronTrigger struct {
	config CronTriggerConfig
	logger *zap.Logger
	now    func() time.Time

	mu        sync.Mutex
	jobs      map[string]*jobState
	order     []string
	cancel    context.CancelFunc
	wg        sync.WaitGroup
	isRunning bool
}

// NewCronTrigger creates a new cron trigger
func NewCronTrigger(config CronTriggerConfig, logger *zap.Logger) *CronTrigger {
	if config.CheckInterval <= 0 {
		config.CheckInterval = time.Minute
	}
	if config.Location == nil {
		config.Location = time.UTC
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &CronTrigger{
		config: config,
		logger: logger.Named("scheduler"),
		now:    time.Now,
		jobs:   make(map[string]*jobState),
	}
}

// Register adds a job. Jobs must be registered before Start.
func (c *CronTrigger) Register(job Job) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if _, exists := c.jobs[job.Name]; exists {
		return fmt.Errorf("%w: %s", ErrDuplicateJob, job.Name)
	}
	c.jobs[job.Name] = &jobState{job: job}
	c.order = append(c.order, job.Name)
	return nil
}

// Start starts the check loop
func (c *CronTrigger) Start(ctx context.Context) error {
	c.mu.Lock()
	if c.isRunning {
		c.mu.Unlock()
		return nil
	}
	c.isRunning = true
	ctx, c.cancel = context.WithCancel(ctx)
	c.mu.Unlock()

	c.wg.Add(1)
	go c.runLoop(ctx)

	for _, st := range c.Status() {
		c.logger.Info("job scheduled",
			zap.String("job", st.Name),
			zap.String("schedule", st.Schedule),
			zap.Time("next_run_at", st.NextRunAt),
		)
	}
	return nil
}

// Stop cancels the loop and waits for running jobs, bounded by ctx
func (c *CronTrigger) Stop(ctx context.Context) error {
	c.mu.Lock()
	if !c.isRunning {
		c.mu.Unlock()
		return nil
	}
	c.isRunning = false
	c.cancel()
	c.mu.Unlock()

	done := make(chan struct{})
	go func() {
		c.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		c.logger.Info("cron trigger stopped")
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (c *CronTrigger) runLoop(ctx context.Context) {
	defer c.wg.Done()

	ticker := time.NewTicker(c.config.CheckInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			c.tick(ctx, c.now().In(c.config.Location))
		}
	}
}

// tick starts every job whose minute has come and that has not run today
func (c *CronTrigger) tick(ctx context.Context, now time.Time) {
	today := now.Format("2006-01-02")

	c.mu.Lock()
	var due []*jobState
	for _, name := range c.order {
		st := c.jobs[name]
		if st.running || st.lastRunDate == today || !st.job.Schedule.Due(now) {
			continue
		}
		st.lastRunDate = today
		st.running = true
		due = append(due, st)
	}
	c.mu.Unlock()

	for _, st := range due {
		c.wg.Add(1)
		go func(st *jobState) {
			defer c.wg.Done()
			c.execute(ctx, st, now)
		}(st)
	}
}

// TriggerNow runs a job immediately, outside its schedule, and waits for it
func (c *CronTrigger) TriggerNow(ctx context.Context, name string) error {
	c.mu.Lock()
	st, ok := c.jobs[name]
	if !ok {
		c.mu.Unlock()
		return fmt.Errorf("%w: %s", ErrUnknownJob, name)
	}
	if st.running {
		c.mu.Unlock()
		return fmt.Errorf("%w: %s", ErrJobRunning, name)
	}
	st.running = true
	c.mu.Unlock()
	return c.execute(ctx, st, c.now().In(c.config.Location))
}

func (c *CronTrigger) execute(ctx context.Context, st *jobState, now time.Time) (err error) {
	if c.config.JobTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.config.JobTimeout)
		defer cancel()
	}

	start := time.Now()
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("job %s panicked: %v", st.job.Name, r)
		}

		c.mu.Lock()
		st.running = false
		st.lastRunAt = &now
		st.lastError = ""
		if err != nil {
			st.lastError = err.Error()
		}
		c.mu.Unlock()

		if err != nil {
			c.logger.Error("job failed",
				zap.String("job", st.job.Name),
				zap.Duration("duration", time.Since(start)),
				zap.Error(err),
			)
			return
		}
		c.logger.Info("job finished",
			zap.String("job", st.job.Name),
			zap.Duration("duration", time.Since(start)),
		)
	}()

	return st.job.Run(ctx, now)
}

// Status reports every job in registration order
func (c *CronTrigger) Status() []JobStatus {
	c.mu.Lock()
	defer c.mu.Unlock()

	now := c.now().In(c.config.Location)
	out := make([]JobStatus, 0, len(c.order))
	for _, name := range c.order {
		st := c.jobs[name]
		out = append(out, JobStatus{
			Name:      name,
			Schedule:  st.job.Schedule.String(),
			LastRunAt: st.lastRunAt,
			LastError: st.lastError,
			NextRunAt: st.job.Schedule.Next(now),
		})
	}
	return out
}
