package store

import (
	"context"
	"log"
	"time"
)

// Sweepable is implemented by stores that need periodic expiry cleanup.
type Sweepable interface {
	Sweep() int
}

// Sweeper runs one scheduled cleanup task for a store. It holds its own
// cancellation handle so shutdown and tests control it directly instead of
// tying cleanup to process lifetime.
type Sweeper struct {
	store    Sweepable
	interval time.Duration
	cancel   context.CancelFunc
	done     chan struct{}
}

// NewSweeper creates a sweeper for the store with the given interval.
func NewSweeper(store Sweepable, interval time.Duration) *Sweeper {
	return &Sweeper{
		store:    store,
		interval: interval,
	}
}

// Start launches the sweep loop. The loop stops when ctx is cancelled or
// Stop is called.
func (sw *Sweeper) Start(ctx context.Context) {
	ctx, sw.cancel = context.WithCancel(ctx)
	sw.done = make(chan struct{})

	go func() {
		defer close(sw.done)

		ticker := time.NewTicker(sw.interval)
		defer ticker.Stop()

		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				if removed := sw.store.Sweep(); removed > 0 {
					log.Printf("store sweep removed %d expired entries", removed)
				}
			}
		}
	}()
}

// Stop cancels the sweep loop and waits for it to exit.
func (sw *Sweeper) Stop() {
	if sw.cancel == nil {
		return
	}
	sw.cancel()
	<-sw.done
}
