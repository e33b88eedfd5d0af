package scheduler

import "errors"

var (
	// ErrInvalidSchedule is returned for a cron expression outside "M H * * *"
	ErrInvalidSchedule = errors.New("invalid schedule")

	// ErrDuplicateJob is returned when two jobs share a name
	ErrDuplicateJob = errors.New("duplicate job name")

	// ErrUnknownJob is returned when triggering a job that was never registered
	ErrUnknownJob = errors.New("unknown job")

	// ErrJobRunning is returned when a manual trigger overlaps a running job
	ErrJobRunning = errors.New("job already running")
)
