package translator

import (
	"context"
	"sync"
	"time"

	"golang.org/x/time/rate"
)

// Throttle spaces calls at least interval apart across all goroutines sharing it.
// It has no burst capacity: a call arriving early sleeps until its slot.
type Throttle struct {
	// mu makes the clock read and the reservation one step, so slots follow lock order.
	mu      sync.Mutex
	limiter *rate.Limiter
	now     func() time.Time
}

// NewThrottle returns a throttle allowing one call per interval. A zero interval
// never waits.
func NewThrottle(interval time.Duration) *Throttle {
	return &Throttle{
		limiter: rate.NewLimiter(rate.Every(interval), 1),
		now:     time.Now,
	}
}

// Wait blocks until the caller may issue its request. Slots are handed out in
// the order callers take the lock, so a cancelled caller still consumes its slot.
func (t *Throttle) Wait(ctx context.Context) error {
	wait := t.reserve()
	if wait <= 0 {
		return nil
	}

	timer := time.NewTimer(wait)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

func (t *Throttle) reserve() time.Duration {
	t.mu.Lock()
	defer t.mu.Unlock()

	now := t.now()
	return t.limiter.ReserveN(now, 1).DelayFrom(now)
}
