package scheduler

import (
	"log"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
)

const (
	KindStandup   = "standup"
	KindSendLater = "sendlater"
	KindKahio     = "kahio"
)

type Job struct {
	ID     string
	Kind   string
	FireAt time.Time
	timer  *time.Timer
}

// Scheduler is the registry of pending one-shot timers. A job that has
// been cancelled never runs, even if its timer already expired.
type Scheduler struct {
	mu   sync.Mutex
	jobs map[string]*Job
}

func New() *Scheduler {
	return &Scheduler{jobs: make(map[string]*Job)}
}

// Schedule runs fn once after delay on its own goroutine and returns the
// job id used for cancellation.
func (s *Scheduler) Schedule(kind string, delay time.Duration, fn func()) string {
	if delay < 0 {
		delay = 0
	}
	job := &Job{
		ID:     uuid.NewString(),
		Kind:   kind,
		FireAt: time.Now().Add(delay),
	}

	s.mu.Lock()
	s.jobs[job.ID] = job
	job.timer = time.AfterFunc(delay, func() { s.run(job.ID, fn) })
	s.mu.Unlock()
	return job.ID
}

func (s *Scheduler) run(id string, fn func()) {
	s.mu.Lock()
	job, live := s.jobs[id]
	delete(s.jobs, id)
	s.mu.Unlock()
	if !live {
		return
	}

	defer func() {
		if r := recover(); r != nil {
			log.Printf("scheduler: %s job %s panicked: %v", job.Kind, job.ID, r)
		}
	}()
	fn()
}

// Cancel stops a pending job. It reports whether the job was still pending.
func (s *Scheduler) Cancel(id string) bool {
	if id == "" {
		return false
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	job, ok := s.jobs[id]
	if !ok {
		return false
	}
	job.timer.Stop()
	delete(s.jobs, id)
	return true
}

// CancelAll stops every pending job and returns how many were cancelled.
func (s *Scheduler) CancelAll() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	n := len(s.jobs)
	for id, job := range s.jobs {
		job.timer.Stop()
		delete(s.jobs, id)
	}
	if n > 0 {
		log.Printf("scheduler: cancelled %d pending jobs", n)
	}
	return n
}

// Pending lists pending jobs ordered by fire time.
func (s *Scheduler) Pending() []Job {
	s.mu.Lock()
	out := make([]Job, 0, len(s.jobs))
	for _, job := range s.jobs {
		out = append(out, Job{ID: job.ID, Kind: job.Kind, FireAt: job.FireAt})
	}
	s.mu.Unlock()

	sort.Slice(out, func(i, j int) bool { return out[i].FireAt.Before(out[j].FireAt) })
	return out
}
