package background

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"
)

func TestScheduler_RunsJob(t *testing.T) {
	s := NewScheduler(SchedulerConfig{WorkerCount: 1})
	s.Start(context.Background())
	defer s.Shutdown(context.Background())

	done := make(chan struct{})
	err := s.Schedule(Job{
		Name: "ping",
		Run: func(ctx context.Context) error {
			close(done)
			return nil
		},
	})
	if err != nil {
		t.Fatalf("schedule: %v", err)
	}

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatalf("job never ran")
	}
}

func TestScheduler_RequiresStart(t *testing.T) {
	s := NewScheduler(SchedulerConfig{})
	err := s.Schedule(Job{Name: "early", Run: func(ctx context.Context) error { return nil }})
	if !errors.Is(err, ErrSchedulerNotStarted) {
		t.Fatalf("expected ErrSchedulerNotStarted, got %v", err)
	}
}

func TestScheduler_UniqueJobsDeduplicate(t *testing.T) {
	s := NewScheduler(SchedulerConfig{WorkerCount: 1})
	s.Start(context.Background())
	defer s.Shutdown(context.Background())

	release := make(chan struct{})
	started := make(chan struct{})

	err := s.ScheduleUnique(Job{
		Name: "sweep",
		Run: func(ctx context.Context) error {
			close(started)
			<-release
			return nil
		},
	})
	if err != nil {
		t.Fatalf("first schedule: %v", err)
	}
	<-started

	err = s.ScheduleUnique(Job{Name: "sweep", Run: func(ctx context.Context) error { return nil }})
	if !errors.Is(err, ErrJobAlreadyScheduled) {
		t.Fatalf("expected ErrJobAlreadyScheduled, got %v", err)
	}
	close(release)
}

func TestScheduler_RetriesFailedJob(t *testing.T) {
	s := NewScheduler(SchedulerConfig{WorkerCount: 1})
	s.Start(context.Background())
	defer s.Shutdown(context.Background())

	var attempts int32
	done := make(chan struct{})

	err := s.Schedule(Job{
		Name: "flaky",
		Run: func(ctx context.Context) error {
			if atomic.AddInt32(&attempts, 1) < 3 {
				return errors.New("transient")
			}
			close(done)
			return nil
		},
		RetryPolicy: RetryPolicy{MaxRetries: 5, Backoff: time.Millisecond},
	})
	if err != nil {
		t.Fatalf("schedule: %v", err)
	}

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatalf("job never succeeded, attempts=%d", atomic.LoadInt32(&attempts))
	}
	if got := atomic.LoadInt32(&attempts); got != 3 {
		t.Fatalf("expected 3 attempts, got %d", got)
	}
}
