package dashboard

import (
	"context"
	"time"
)

// startClock sets the clock immediately and then once per tick until Close
// or ctx is done. Only the first call has any effect.
func (c *Controller) startClock(ctx context.Context) {
	c.clockOnce.Do(func() {
		c.tickClock()
		go c.runClock(ctx)
	})
}

func (c *Controller) runClock(ctx context.Context) {
	defer close(c.done)

	ticker := time.NewTicker(c.tick)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			c.tickClock()
		case <-c.stop:
			return
		case <-ctx.Done():
			return
		}
	}
}

func (c *Controller) tickClock() {
	clock := FormatClock(c.now().In(c.loc))
	c.update(func(s AppState) AppState {
		s.Clock = clock
		return s
	})
}
