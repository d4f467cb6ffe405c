package middleware

import (
	"sync"
	"time"

	"github.com/gofiber/fiber/v2"
	"golang.org/x/time/rate"
)

// RateLimit allows each client IP perMinute requests per minute, with bursts
// of up to burst requests. Requests over the limit get 429. A non-positive
// perMinute disables limiting.
func RateLimit(perMinute, burst int) fiber.Handler {
	if perMinute <= 0 {
		return func(c *fiber.Ctx) error { return c.Next() }
	}
	if burst <= 0 {
		burst = 1
	}

	interval := time.Minute / time.Duration(perMinute)
	limiters := newLimiterSet(rate.Every(interval), burst, idleAfter(interval, burst), time.Now)
	return func(c *fiber.Ctx) error {
		if !limiters.allow(c.IP()) {
			c.Set(fiber.HeaderRetryAfter, "60")
			return c.Status(fiber.StatusTooManyRequests).JSON(fiber.Map{
				"message": "Too many requests, please try again later",
			})
		}
		return c.Next()
	}
}

// idleAfter is how long a client must stay quiet before its bucket is full
// again. A limiter idle that long behaves like a new one and can be dropped.
func idleAfter(interval time.Duration, burst int) time.Duration {
	idle := interval * time.Duration(burst)
	if idle < time.Minute {
		idle = time.Minute
	}
	return idle
}

type limiterEntry struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// limiterSet keeps one token bucket per key and evicts buckets that have
// been idle for longer than idle. Sweeps run at most once per idle period.
type limiterSet struct {
	mu        sync.Mutex
	limit     rate.Limit
	burst     int
	idle      time.Duration
	now       func() time.Time
	lastSweep time.Time
	entries   map[string]*limiterEntry
}

func newLimiterSet(limit rate.Limit, burst int, idle time.Duration, now func() time.Time) *limiterSet {
	return &limiterSet{
		limit:     limit,
		burst:     burst,
		idle:      idle,
		now:       now,
		lastSweep: now(),
		entries:   make(map[string]*limiterEntry),
	}
}

func (s *limiterSet) allow(key string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	if now.Sub(s.lastSweep) >= s.idle {
		s.sweep(now)
	}

	e, ok := s.entries[key]
	if !ok {
		e = &limiterEntry{limiter: rate.NewLimiter(s.limit, s.burst)}
		s.entries[key] = e
	}
	e.lastSeen = now
	return e.limiter.AllowN(now, 1)
}

// sweep must be called with s.mu held.
func (s *limiterSet) sweep(now time.Time) {
	for key, e := range s.entries {
		if now.Sub(e.lastSeen) >= s.idle {
			delete(s.entries, key)
		}
	}
	s.lastSweep = now
}

func (s *limiterSet) size() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.entries)
}
