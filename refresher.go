package animalcache

import (
	"context"
	"time"
)

func (c *Cache) startRefresher(interval time.Duration) {
	ctx, cancel := context.WithCancel(context.Background())
	c.stopRefresh = cancel
	c.refreshDone = make(chan struct{})

	go func() {
		defer close(c.refreshDone)

		ticker := time.NewTicker(interval)
		defer ticker.Stop()

		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				if _, err := c.Rebuild(ctx); err != nil && ctx.Err() == nil {
					c.log.WarnContext(ctx, "background rebuild failed", "error", err)
				}
			}
		}
	}()
}
