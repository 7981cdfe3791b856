// Package scheduler fires named jobs on cron expressions and hands them to
// the queue dispatcher.
package scheduler

import (
	"context"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/kursownik/api/internal/core/ports"
	"github.com/kursownik/api/internal/infrastructure/queue"
)

// Job is a scheduled unit of work.
type Job struct {
	Name        string
	Expr        Expr
	Description string
	Run         func(ctx context.Context) error
}

// Enqueuer accepts tasks for execution.
type Enqueuer interface {
	Enqueue(task queue.Task) bool
}

// Scheduler sleeps until the next activation of any job and enqueues every
// job due at that minute.
type Scheduler struct {
	jobs    []Job
	queue   Enqueuer
	enabled bool
	loc     *time.Location
	now     func() time.Time
	log     zerolog.Logger

	mu      sync.Mutex
	lastRun map[string]time.Time
}

// Option customises a Scheduler.
type Option func(*Scheduler)

// WithLocation evaluates expressions in loc instead of UTC.
func WithLocation(loc *time.Location) Option {
	return func(s *Scheduler) {
		if loc != nil {
			s.loc = loc
		}
	}
}

// WithClock replaces time.Now.
func WithClock(now func() time.Time) Option {
	return func(s *Scheduler) { s.now = now }
}

func New(jobs []Job, q Enqueuer, enabled bool, log zerolog.Logger, opts ...Option) *Scheduler {
	s := &Scheduler{
		jobs:    jobs,
		queue:   q,
		enabled: enabled,
		loc:     time.UTC,
		now:     time.Now,
		log:     log,
		lastRun: make(map[string]time.Time),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Run blocks until ctx is cancelled. A disabled scheduler returns at once.
func (s *Scheduler) Run(ctx context.Context) {
	if !s.enabled || len(s.jobs) == 0 {
		s.log.Info().Msg("scheduler disabled")
		return
	}
	s.log.Info().Int("jobs", len(s.jobs)).Str("location", s.loc.String()).Msg("scheduler started")

	for {
		now := s.now().In(s.loc)
		next, due := s.nextDue(now)
		if next.IsZero() {
			s.log.Warn().Msg("no job will ever fire, scheduler stopping")
			return
		}

		timer := time.NewTimer(next.Sub(now))
		select {
		case <-ctx.Done():
			timer.Stop()
			s.log.Info().Msg("scheduler stopped")
			return
		case <-timer.C:
		}

		for _, j := range due {
			s.fire(j, next)
		}
	}
}

// nextDue returns the earliest activation after now and the jobs due then.
func (s *Scheduler) nextDue(now time.Time) (time.Time, []Job) {
	var next time.Time
	var due []Job
	for _, j := range s.jobs {
		t := j.Expr.Next(now)
		switch {
		case t.IsZero():
		case next.IsZero() || t.Before(next):
			next, due = t, []Job{j}
		case t.Equal(next):
			due = append(due, j)
		}
	}
	return next, due
}

func (s *Scheduler) fire(j Job, at time.Time) {
	s.log.Info().Str("job", j.Name).Time("at", at).Msg("job triggered")
	if s.queue.Enqueue(queue.Task{Name: j.Name, Run: j.Run}) {
		s.mu.Lock()
		s.lastRun[j.Name] = at
		s.mu.Unlock()
	}
}

// Status lists every job with its next activation.
func (s *Scheduler) Status() ports.ScheduleStatus {
	now := s.now().In(s.loc)
	out := ports.ScheduleStatus{Enabled: s.enabled, Schedules: make([]ports.JobSchedule, 0, len(s.jobs))}
	for _, j := range s.jobs {
		out.Schedules = append(out.Schedules, ports.JobSchedule{
			Name:        j.Name,
			Expression:  j.Expr.String(),
			Description: j.Description,
			NextRun:     j.Expr.Next(now),
		})
	}
	return out
}

// LastRun reports when the job was last handed to the queue.
func (s *Scheduler) LastRun(name string) (time.Time, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	t, ok := s.lastRun[name]
	return t, ok
}
