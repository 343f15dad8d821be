// Package ratelimit implements the proxy's single global admission
// throttle: a non-negative hit counter drained by a fixed per-second
// budget, in the spirit of the teacher's Ratelimit/Settings but
// deliberately simpler — one counter, no per-client buckets, no cluster
// synchronization.
package ratelimit

import (
	"sync/atomic"
	"time"
)

// Settings configures the global limiter.
type Settings struct {
	// MaxHits is the number of admitted requests allowed per second.
	MaxHits int64
}

// Ratelimit is a single atomic counter incremented on every admitted
// request and drained by a background ticker. A nil *Ratelimit always
// allows, mirroring the teacher's nil-receiver convenience.
type Ratelimit struct {
	settings Settings
	count    atomic.Int64
	quit     chan struct{}
}

// New starts a Ratelimit whose background drain ticker runs until Close
// is called. A MaxHits of zero or less disables limiting: Allow always
// returns true.
func New(settings Settings) *Ratelimit {
	rl := &Ratelimit{settings: settings, quit: make(chan struct{})}
	if settings.MaxHits > 0 {
		go rl.drain()
	}
	return rl
}

func (rl *Ratelimit) drain() {
	ticker := time.NewTicker(time.Second)
	defer ticker.Stop()
	for {
		select {
		case <-ticker.C:
			rl.subtract(rl.settings.MaxHits)
		case <-rl.quit:
			return
		}
	}
}

func (rl *Ratelimit) subtract(n int64) {
	for {
		cur := rl.count.Load()
		next := cur - n
		if next < 0 {
			next = 0
		}
		if rl.count.CompareAndSwap(cur, next) {
			return
		}
	}
}

// Allow increments the counter and reports whether the request is
// admitted: the post-increment value must not exceed the configured
// budget. A rejected request's increment is taken back, so only admitted
// requests stay counted. A limiter with MaxHits <= 0 never rejects.
func (rl *Ratelimit) Allow() bool {
	if rl == nil || rl.settings.MaxHits <= 0 {
		return true
	}
	if rl.count.Add(1) > rl.settings.MaxHits {
		rl.count.Add(-1)
		return false
	}
	return true
}

// Close stops the background drain goroutine. Safe to call on a nil
// Ratelimit or one that was never started.
func (rl *Ratelimit) Close() {
	if rl == nil || rl.settings.MaxHits <= 0 {
		return
	}
	close(rl.quit)
}
