package scheduler

import (
	"sync/atomic"
	"testing"
	"time"
)

func TestScheduledJobRunsOnce(t *testing.T) {
	s := New()
	done := make(chan struct{}, 2)

	s.Schedule(KindStandup, 10*time.Millisecond, func() { done <- struct{}{} })

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatalf("expected job to run")
	}
	if len(s.Pending()) != 0 {
		t.Fatalf("expected job removed from registry after running")
	}
}

func TestCancelPreventsRun(t *testing.T) {
	s := New()
	var ran atomic.Bool

	id := s.Schedule(KindSendLater, 30*time.Millisecond, func() { ran.Store(true) })
	if !s.Cancel(id) {
		t.Fatalf("expected pending job to cancel")
	}
	if s.Cancel(id) {
		t.Fatalf("expected second cancel to report nothing pending")
	}

	time.Sleep(80 * time.Millisecond)
	if ran.Load() {
		t.Fatalf("expected cancelled job not to run")
	}
}

func TestCancelAllAndPending(t *testing.T) {
	s := New()
	var runs atomic.Int32

	s.Schedule(KindKahio, time.Hour, func() { runs.Add(1) })
	s.Schedule(KindStandup, 30*time.Minute, func() { runs.Add(1) })
	s.Schedule(KindSendLater, 50*time.Millisecond, func() { runs.Add(1) })

	pending := s.Pending()
	if len(pending) != 3 {
		t.Fatalf("expected 3 pending jobs, got %d", len(pending))
	}
	if pending[0].Kind != KindSendLater {
		t.Fatalf("expected soonest job first, got %s", pending[0].Kind)
	}

	if n := s.CancelAll(); n != 3 {
		t.Fatalf("expected 3 cancelled, got %d", n)
	}
	time.Sleep(100 * time.Millisecond)
	if runs.Load() != 0 {
		t.Fatalf("expected no jobs to run after CancelAll")
	}
}

func TestPanickingJobIsContained(t *testing.T) {
	s := New()
	done := make(chan struct{})

	s.Schedule(KindKahio, 0, func() { panic("boom") })
	s.Schedule(KindKahio, 20*time.Millisecond, func() { close(done) })

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatalf("expected later job to run after a panicking one")
	}
}
