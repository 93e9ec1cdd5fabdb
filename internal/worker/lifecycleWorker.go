package worker

import (
	"context"
	"time"

	"equiplend/internal/service"

	"github.com/sirupsen/logrus"
)

// LifecycleWorker drives the booking status sweep on a fixed interval. It
// is constructed and owned by the composition root; nothing about it is
// process-global, so tests can run independent instances.
//
// Sweeps run inline in the loop goroutine, so they can never stack: ticks
// that fire while a sweep is still running coalesce into at most one
// pending tick on the ticker channel.
type LifecycleWorker struct {
	bookingService service.BookingService
	interval       time.Duration

	cancel context.CancelFunc
	done   chan struct{}
}

func NewLifecycleWorker(bookingService service.BookingService, interval time.Duration) *LifecycleWorker {
	return &LifecycleWorker{
		bookingService: bookingService,
		interval:       interval,
	}
}

// Start launches the sweep loop. One sweep runs immediately so a restarted
// process does not wait a full interval to catch up.
func (w *LifecycleWorker) Start(ctx context.Context) {
	ctx, w.cancel = context.WithCancel(ctx)
	w.done = make(chan struct{})

	go func() {
		defer close(w.done)

		ticker := time.NewTicker(w.interval)
		defer ticker.Stop()

		logrus.WithField("interval", w.interval.String()).Info("Lifecycle worker started")

		w.runSweep(ctx)
		for {
			select {
			case <-ctx.Done():
				logrus.Info("Lifecycle worker stopped")
				return
			case <-ticker.C:
				w.runSweep(ctx)
			}
		}
	}()
}

// Stop cancels the loop and waits for an in-flight sweep to finish. The
// per-sweep transaction rolls back any partial work if the context is
// cancelled mid-sweep.
func (w *LifecycleWorker) Stop() {
	if w.cancel == nil {
		return
	}
	w.cancel()
	<-w.done
}

// runSweep executes one sweep. Errors are logged and dropped; the next tick
// retries the whole sweep, and nothing ever propagates out of the loop.
func (w *LifecycleWorker) runSweep(ctx context.Context) {
	result, err := w.bookingService.AdvanceLifecycle(ctx)
	if err != nil {
		logrus.Errorf("Lifecycle sweep failed: %v", err)
		return
	}

	logrus.WithFields(logrus.Fields{
		"activated":         result.Activated,
		"completed":         result.Completed,
		"equipment_updated": result.EquipmentUpdated,
	}).Debug("Lifecycle sweep completed")
}
