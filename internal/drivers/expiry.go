package drivers

import (
	"context"
	"time"

	"github.com/richxcame/driver-console/pkg/logger"
	"go.uber.org/zap"
)

// ExpiryWorker periodically reactivates drivers whose suspension window has
// elapsed. It is opt-in (SUSPENSION_AUTO_EXPIRY); when the flag is off,
// suspended drivers stay suspended until an operator reactivates them.
type ExpiryWorker struct {
	repo     RepositoryInterface
	interval time.Duration
	stop     chan struct{}
	done     chan struct{}
}

// NewExpiryWorker creates a worker that checks for elapsed suspensions at
// the given interval.
func NewExpiryWorker(repo RepositoryInterface, interval time.Duration) *ExpiryWorker {
	return &ExpiryWorker{
		repo:     repo,
		interval: interval,
		stop:     make(chan struct{}),
		done:     make(chan struct{}),
	}
}

// Start runs the expiry loop until Stop is called or ctx is cancelled.
// It runs one pass immediately so a restart doesn't wait a full interval.
func (w *ExpiryWorker) Start(ctx context.Context) {
	go func() {
		defer close(w.done)

		logger.Info("suspension expiry worker started",
			zap.Duration("interval", w.interval),
		)

		w.runOnce(ctx)

		ticker := time.NewTicker(w.interval)
		defer ticker.Stop()

		for {
			select {
			case <-ctx.Done():
				return
			case <-w.stop:
				return
			case <-ticker.C:
				w.runOnce(ctx)
			}
		}
	}()
}

// Stop signals the loop to exit and waits for the in-flight pass to finish.
func (w *ExpiryWorker) Stop() {
	close(w.stop)
	<-w.done
	logger.Info("suspension expiry worker stopped")
}

func (w *ExpiryWorker) runOnce(ctx context.Context) {
	passCtx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	reactivated, err := w.repo.ExpireSuspensions(passCtx, time.Now().UTC())
	if err != nil {
		logger.Error("suspension expiry pass failed", zap.Error(err))
		return
	}

	if reactivated > 0 {
		logger.Info("expired suspensions cleared",
			zap.Int64("reactivated", reactivated),
		)
	}
}
