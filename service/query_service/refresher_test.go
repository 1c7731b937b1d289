package query_service

import (
	"context"
	"sync/atomic"
	"testing"
	"time"
)

func TestRefresher_RunsTasksUntilStopped(t *testing.T) {
	var runs atomic.Int32
	r := NewRefresher(RefreshTask{
		Name:     "count",
		Interval: 5 * time.Millisecond,
		Run: func(ctx context.Context) error {
			runs.Add(1)
			return nil
		},
	})
	r.Add(RefreshTask{Name: "disabled", Interval: 0, Run: func(ctx context.Context) error {
		t.Error("Expected a task without interval never to run")
		return nil
	}})

	r.Start()
	time.Sleep(40 * time.Millisecond)
	r.Stop()

	seen := runs.Load()
	if seen == 0 {
		t.Fatal("Expected at least one refresh")
	}
	time.Sleep(20 * time.Millisecond)
	if runs.Load() != seen {
		t.Errorf("Expected no refresh after Stop, got %d more", runs.Load()-seen)
	}

	// Stop is idempotent
	r.Stop()
}

func TestRefresher_StopCancelsRunningTask(t *testing.T) {
	cancelled := make(chan struct{})
	r := NewRefresher(RefreshTask{
		Name:     "slow",
		Interval: time.Millisecond,
		Run: func(ctx context.Context) error {
			<-ctx.Done()
			select {
			case <-cancelled:
			default:
				close(cancelled)
			}
			return ctx.Err()
		},
	})
	r.Start()
	time.Sleep(10 * time.Millisecond)

	stopped := make(chan struct{})
	go func() {
		r.Stop()
		close(stopped)
	}()
	select {
	case <-stopped:
	case <-time.After(2 * time.Second):
		t.Fatal("Expected Stop to cancel the running refresh")
	}
	<-cancelled
}
