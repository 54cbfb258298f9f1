package cron

import (
	"context"
	"log/slog"
	"runtime/debug"
	"sync"
	"time"
)

type job struct {
	name  string
	every time.Duration
	run   func(ctx context.Context) error
}

// Scheduler runs registered jobs on fixed intervals, each in its own
// goroutine. Jobs fire once immediately on Start and then on every tick.
type Scheduler struct {
	mu      sync.Mutex
	jobs    []job
	stop    chan struct{}
	done    sync.WaitGroup
	started bool
}

func NewScheduler() *Scheduler {
	return &Scheduler{stop: make(chan struct{})}
}

// AddJob registers a job. Registration after Start has no effect.
func (s *Scheduler) AddJob(name string, every time.Duration, fn func(ctx context.Context) error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.started {
		slog.Warn("Job registered after scheduler start, ignoring", "name", name)
		return
	}
	s.jobs = append(s.jobs, job{name: name, every: every, run: fn})
	slog.Info("Job registered", "name", name, "every", every)
}

func (s *Scheduler) Start() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.started {
		return
	}
	s.started = true

	for _, j := range s.jobs {
		s.done.Add(1)
		go s.loop(j)
	}
	slog.Info("Scheduler started", "jobs", len(s.jobs))
}

// Stop signals all job loops and waits for in-flight runs to finish.
func (s *Scheduler) Stop() {
	s.mu.Lock()
	if !s.started {
		s.mu.Unlock()
		return
	}
	s.mu.Unlock()

	close(s.stop)
	s.done.Wait()
	slog.Info("Scheduler stopped")
}

func (s *Scheduler) loop(j job) {
	defer s.done.Done()

	ticker := time.NewTicker(j.every)
	defer ticker.Stop()

	s.fire(j)
	for {
		select {
		case <-s.stop:
			return
		case <-ticker.C:
			s.fire(j)
		}
	}
}

func (s *Scheduler) fire(j job) {
	defer func() {
		if r := recover(); r != nil {
			slog.Error("Job panicked", "name", j.name, "panic", r, "stack", string(debug.Stack()))
		}
	}()

	ctx, cancel := context.WithTimeout(context.Background(), j.every)
	defer cancel()

	start := time.Now()
	if err := j.run(ctx); err != nil {
		slog.Error("Job failed", "name", j.name, "error", err, "took", time.Since(start))
		return
	}
	slog.Debug("Job done", "name", j.name, "took", time.Since(start))
}
