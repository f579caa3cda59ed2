package output

import "time"

// JobHandle identifies a scheduled job.
type JobHandle string

//go:generate mockgen -destination=mocks/scheduler.go -package=mocks eventbot/internal/ports/output Scheduler

// Scheduler runs one-shot jobs at an absolute time.
type Scheduler interface {
	Schedule(at time.Time, job func()) JobHandle
	Cancel(handle JobHandle)
}
