package worker

import (
	"context"
	"log/slog"
	"sync"
)

// Worker is a long-running loop that stops when ctx is cancelled.
type Worker interface {
	Name() string
	Start(ctx context.Context) error
}

// Manager starts and supervises a set of workers.
type Manager struct {
	workers []Worker
}

func NewManager(ws ...Worker) *Manager {
	return &Manager{workers: ws}
}

// Start runs every worker and blocks until ctx is done and all of them have
// returned. The first worker error, if any, is reported.
func (m *Manager) Start(ctx context.Context) error {
	var wg sync.WaitGroup
	errs := make(chan error, len(m.workers))
	for _, w := range m.workers {
		wg.Add(1)
		go func(w Worker) {
			defer wg.Done()
			slog.Info("worker: starting", "name", w.Name())
			if err := w.Start(ctx); err != nil {
				slog.Error("worker: stopped with error", "name", w.Name(), "err", err)
				errs <- err
				return
			}
			slog.Info("worker: stopped", "name", w.Name())
		}(w)
	}
	<-ctx.Done()
	wg.Wait()
	close(errs)
	for err := range errs {
		if err != nil {
			return err
		}
	}
	return nil
}
