// Package ratelimit implements the sliding-window admission gate that sits
// in front of the code runner.
//
// SLIDING WINDOW:
// For every client identity we keep the timestamps of its admitted requests
// that are still inside the trailing window. A request is admitted while
// fewer than MaxRequests timestamps remain; the oldest timestamp tells a
// rejected client how long until a slot frees up.
//
// Expired timestamps are evicted lazily on the next Allow for that identity.
// Identities that went quiet are dropped by Sweep, which Start runs
// periodically, so memory follows the number of identities active in the
// last window rather than every address ever seen.
//
// There is no global cap across identities: many distinct clients can each
// use their full quota at the same time.
package ratelimit

import (
	"log/slog"
	"sync"
	"time"
)

const (
	DefaultMaxRequests = 120
	DefaultWindow      = 60 * time.Second
)

// Decision is the result of one admission check.
type Decision struct {
	Allowed bool
	// RetryAfter is the number of whole seconds to wait, at least 1.
	// Zero when Allowed.
	RetryAfter int
}

// Config holds limiter settings. Values below 1 are raised to 1.
type Config struct {
	MaxRequests int
	Window      time.Duration
	// SweepInterval is how often Start runs Sweep. Zero means once per window.
	SweepInterval time.Duration
}

// DefaultConfig returns the 120 requests per 60 seconds policy.
func DefaultConfig() Config {
	return Config{
		MaxRequests: DefaultMaxRequests,
		Window:      DefaultWindow,
	}
}

// Limiter is safe for concurrent use. A single mutex serializes every
// check, which keeps per-identity counts exact under concurrency.
type Limiter struct {
	maxRequests   int
	window        time.Duration
	sweepInterval time.Duration
	now           func() time.Time
	logger        *slog.Logger

	mu     sync.Mutex
	events map[string][]time.Time

	done      chan struct{}
	wg        sync.WaitGroup
	startOnce sync.Once
	stopOnce  sync.Once
}

// New creates a Limiter.
func New(cfg Config, logger *slog.Logger) *Limiter {
	if cfg.MaxRequests < 1 {
		cfg.MaxRequests = 1
	}
	if cfg.Window < time.Second {
		cfg.Window = time.Second
	}
	if cfg.SweepInterval <= 0 {
		cfg.SweepInterval = cfg.Window
	}

	return &Limiter{
		maxRequests:   cfg.MaxRequests,
		window:        cfg.Window,
		sweepInterval: cfg.SweepInterval,
		now:           time.Now,
		logger:        logger,
		events:        make(map[string][]time.Time),
		done:          make(chan struct{}),
	}
}

// MaxRequests returns the per-window quota after flooring.
func (l *Limiter) MaxRequests() int { return l.maxRequests }

// Window returns the window length after flooring.
func (l *Limiter) Window() time.Duration { return l.window }

// Allow checks identity against its window and, when admitted, records the
// request.
func (l *Limiter) Allow(identity string) Decision {
	now := l.now()
	cutoff := now.Add(-l.window)

	l.mu.Lock()
	defer l.mu.Unlock()

	bucket := evict(l.events[identity], cutoff)

	if len(bucket) >= l.maxRequests {
		l.events[identity] = bucket
		remaining := l.window - now.Sub(bucket[0])
		// Truncate toward zero like an integer conversion, then floor at 1.
		retry := int(remaining / time.Second)
		return Decision{Allowed: false, RetryAfter: max(1, retry)}
	}

	l.events[identity] = append(bucket, now)
	return Decision{Allowed: true}
}

// count returns how many admitted requests of identity are inside the
// current window.
func (l *Limiter) count(identity string) int {
	cutoff := l.now().Add(-l.window)

	l.mu.Lock()
	defer l.mu.Unlock()

	n := 0
	for _, ts := range l.events[identity] {
		if ts.After(cutoff) {
			n++
		}
	}
	return n
}

// Identities returns the number of identities currently tracked.
func (l *Limiter) Identities() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.events)
}

// Sweep forgets identities with no request inside the window and returns
// how many were removed.
func (l *Limiter) Sweep() int {
	cutoff := l.now().Add(-l.window)

	l.mu.Lock()
	defer l.mu.Unlock()

	removed := 0
	for id, bucket := range l.events {
		if len(bucket) == 0 || !bucket[len(bucket)-1].After(cutoff) {
			delete(l.events, id)
			removed++
		}
	}
	return removed
}

// Start runs Sweep in the background until Stop is called.
func (l *Limiter) Start() {
	l.startOnce.Do(func() {
		l.wg.Add(1)
		go l.sweeper()
	})
}

// Stop halts the background sweeper and waits for it to exit.
func (l *Limiter) Stop() {
	l.stopOnce.Do(func() {
		close(l.done)
	})
	l.wg.Wait()
}

func (l *Limiter) sweeper() {
	defer l.wg.Done()

	ticker := time.NewTicker(l.sweepInterval)
	defer ticker.Stop()

	for {
		select {
		case <-l.done:
			return
		case <-ticker.C:
			if n := l.Sweep(); n > 0 && l.logger != nil {
				l.logger.Debug("rate limiter swept idle identities",
					slog.Int("removed", n),
					slog.Int("remaining", l.Identities()),
				)
			}
		}
	}
}

// evict drops timestamps at or before cutoff. Buckets are in append order,
// so expired entries are always a prefix.
func evict(bucket []time.Time, cutoff time.Time) []time.Time {
	i := 0
	for i < len(bucket) && !bucket[i].After(cutoff) {
		i++
	}
	if i == 0 {
		return bucket
	}
	// Copy so the backing array does not grow without bound.
	return append(bucket[:0:0], bucket[i:]...)
}
