package utils

import (
	"sync"
	"time"
)

// Cooldown rate-limits command invocations per key (guild:user). A key
// is allowed once per window; entries older than the window are pruned
// lazily on access.
type Cooldown struct {
	mu     sync.Mutex
	window time.Duration
	last   map[string]time.Time
}

func NewCooldown(window time.Duration) *Cooldown {
	return &Cooldown{window: window, last: make(map[string]time.Time)}
}

func (c *Cooldown) Allow(key string, now time.Time) bool {
	if c.window <= 0 {
		return true
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if last, ok := c.last[key]; ok && now.Sub(last) < c.window {
		return false
	}
	c.last[key] = now

	if len(c.last) > 4096 {
		cutoff := now.Add(-c.window)
		for k, t := range c.last {
			if t.Before(cutoff) {
				delete(c.last, k)
			}
		}
	}
	return true
}
