package worker

import (
	"context"
	"log/slog"
	"time"

	"github.com/mindungil/n2g/internal/syncer"
)

// Runner performs one complete sync pass.
type Runner interface {
	Run(ctx context.Context) (syncer.Report, error)
}

// SyncWorker repeats a sync pass on a fixed interval. A failed pass is logged
// and the next tick tries again.
type SyncWorker struct {
	Runner   Runner
	Interval time.Duration
}

func (w *SyncWorker) Name() string { return "sync" }

func (w *SyncWorker) Start(ctx context.Context) error {
	if w.Interval <= 0 {
		w.Interval = 10 * time.Minute
	}
	// run immediately then on interval
	w.runOnce(ctx)

	t := time.NewTicker(w.Interval)
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			return nil
		case <-t.C:
			w.runOnce(ctx)
		}
	}
}

func (w *SyncWorker) runOnce(ctx context.Context) {
	start := time.Now()
	rep, err := w.Runner.Run(ctx)
	if err != nil {
		if ctx.Err() != nil {
			return
		}
		slog.Error("sync-worker: pass failed", "err", err, "updated", rep.Updated)
		return
	}
	slog.Info("sync-worker: pass completed", "pages", rep.Pages, "updated", rep.Updated, "elapsed", time.Since(start).Round(time.Millisecond))
}
