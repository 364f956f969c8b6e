package worker

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/mindungil/n2g/internal/syncer"
)

type countingRunner struct {
	calls atomic.Int32
	err   error
}

func (r *countingRunner) Run(ctx context.Context) (syncer.Report, error) {
	r.calls.Add(1)
	return syncer.Report{Pages: 1}, r.err
}

func TestSyncWorkerRunsImmediatelyAndOnTick(t *testing.T) {
	r := &countingRunner{err: errors.New("transient")}
	w := &SyncWorker{Runner: r, Interval: 10 * time.Millisecond}
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- NewManager(w).Start(ctx) }()

	deadline := time.After(2 * time.Second)
	for r.calls.Load() < 3 {
		select {
		case <-deadline:
			t.Fatalf("only %d passes ran", r.calls.Load())
		case <-time.After(5 * time.Millisecond):
		}
	}
	cancel()
	select {
	case err := <-done:
		if err != nil {
			t.Fatalf("manager returned %v", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("manager did not stop")
	}
}

type failingWorker struct{}

func (failingWorker) Name() string                    { return "failing" }
func (failingWorker) Start(ctx context.Context) error { return errors.New("cannot start") }

func TestManagerReportsWorkerError(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()
	if err := NewManager(failingWorker{}).Start(ctx); err == nil {
		t.Fatal("expected worker error")
	}
}
