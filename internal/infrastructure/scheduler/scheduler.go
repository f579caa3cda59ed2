package scheduler

import (
	"sync"
	"time"

	"github.com/google/uuid"

	"eventbot/internal/ports/output"
)

var _ output.Scheduler = (*Scheduler)(nil)

// Scheduler runs one-shot jobs on timers. Panics in jobs are not recovered here.
type Scheduler struct {
	mu   sync.Mutex
	jobs map[output.JobHandle]*time.Timer
	now  func() time.Time
}

func New() *Scheduler {
	return &Scheduler{
		jobs: make(map[output.JobHandle]*time.Timer),
		now:  time.Now,
	}
}

// Schedule runs job at or after at. A time in the past fires immediately.
func (s *Scheduler) Schedule(at time.Time, job func()) output.JobHandle {
	handle := output.JobHandle(uuid.NewString())
	delay := at.Sub(s.now())
	if delay < 0 {
		delay = 0
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.jobs[handle] = time.AfterFunc(delay, func() {
		if !s.claim(handle) {
			return
		}
		job()
	})
	return handle
}

// Cancel prevents a job that has not fired yet from running. Unknown handles are ignored.
func (s *Scheduler) Cancel(handle output.JobHandle) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if t, ok := s.jobs[handle]; ok {
		t.Stop()
		delete(s.jobs, handle)
	}
}

// Pending returns the number of jobs that have neither fired nor been cancelled.
func (s *Scheduler) Pending() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.jobs)
}

// Stop cancels every pending job.
func (s *Scheduler) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()
	for h, t := range s.jobs {
		t.Stop()
		delete(s.jobs, h)
	}
}

// claim removes the handle from the table; only the caller that removes it may run the job.
func (s *Scheduler) claim(handle output.JobHandle) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.jobs[handle]; !ok {
		return false
	}
	delete(s.jobs, handle)
	return true
}
