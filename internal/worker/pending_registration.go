package worker

import (
	"context"
	"errors"
	"log"
	"time"

	customErrors "github.com/abisalde/storefront-client/internal/errors"
)

const DefaultRetryInterval = 30 * time.Second

// Reconciler replays a stored registration; nil means nothing is pending
// any more.
type Reconciler interface {
	ReconcilePending(ctx context.Context) error
}

// PendingRegistrationWorker keeps retrying a pending backend registration
// until it goes through.
type PendingRegistrationWorker struct {
	reconciler Reconciler
	interval   time.Duration
}

func NewPendingRegistrationWorker(reconciler Reconciler, interval time.Duration) *PendingRegistrationWorker {
	if interval <= 0 {
		interval = DefaultRetryInterval
	}
	return &PendingRegistrationWorker{
		reconciler: reconciler,
		interval:   interval,
	}
}

// Start blocks until the registration succeeds, the user signs out or ctx
// is cancelled.
func (w *PendingRegistrationWorker) Start(ctx context.Context) error {
	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for attempt := 1; ; attempt++ {
		err := w.reconciler.ReconcilePending(ctx)
		switch {
		case err == nil:
			log.Println("⚡️ Pending registration settled")
			return nil
		case errors.Is(err, customErrors.ErrNotSignedIn):
			return err
		default:
			log.Printf("Attempt %d to replay pending registration failed: %v", attempt, err)
		}

		select {
		case <-ctx.Done():
			log.Println("PendingRegistrationWorker shutting down.")
			return ctx.Err()
		case <-ticker.C:
		}
	}
}
