// Package ratelimit provides per-client token bucket limiting for incoming
// SSH sessions and HTTP requests.
package ratelimit

import (
	"net"
	"sync"
	"sync/atomic"
	"time"

	"github.com/jonboulle/clockwork"
	"golang.org/x/time/rate"
)

// Config configures the per-IP limiter.
type Config struct {
	PerSecond float64       // Sustained events per second per IP
	Burst     int           // Maximum burst size
	IdleTTL   time.Duration // Limiters unused this long are dropped by Cleanup
}

// DefaultConfig allows a couple of reconnects per second per address.
func DefaultConfig() Config {
	return Config{
		PerSecond: 2,
		Burst:     5,
		IdleTTL:   10 * time.Minute,
	}
}

type entry struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// IPLimiter keeps one token bucket per client address.
type IPLimiter struct {
	cfg   Config
	clock clockwork.Clock

	mu      sync.Mutex
	entries map[string]*entry

	allowed  atomic.Uint64
	rejected atomic.Uint64
}

// New creates a limiter. A nil clock means real time.
func New(cfg Config, clock clockwork.Clock) *IPLimiter {
	if clock == nil {
		clock = clockwork.NewRealClock()
	}
	if cfg.Burst <= 0 {
		cfg.Burst = 1
	}
	return &IPLimiter{
		cfg:     cfg,
		clock:   clock,
		entries: make(map[string]*entry),
	}
}

// Allow reports whether an event from key may proceed now.
func (l *IPLimiter) Allow(key string) bool {
	now := l.clock.Now()

	l.mu.Lock()
	e, ok := l.entries[key]
	if !ok {
		e = &entry{limiter: rate.NewLimiter(rate.Limit(l.cfg.PerSecond), l.cfg.Burst)}
		l.entries[key] = e
	}
	e.lastSeen = now
	allowed := e.limiter.AllowN(now, 1)
	l.mu.Unlock()

	if allowed {
		l.allowed.Add(1)
	} else {
		l.rejected.Add(1)
	}
	return allowed
}

// AllowAddr is Allow keyed by the host part of a network address.
func (l *IPLimiter) AllowAddr(addr net.Addr) bool {
	if addr == nil {
		return l.Allow("")
	}
	return l.Allow(HostOf(addr.String()))
}

// Cleanup drops limiters idle for longer than IdleTTL and returns how many
// were removed.
func (l *IPLimiter) Cleanup() int {
	cutoff := l.clock.Now().Add(-l.cfg.IdleTTL)

	l.mu.Lock()
	defer l.mu.Unlock()

	removed := 0
	for k, e := range l.entries {
		if e.lastSeen.Before(cutoff) {
			delete(l.entries, k)
			removed++
		}
	}
	return removed
}

// Run calls Cleanup every IdleTTL until done is closed.
func (l *IPLimiter) Run(done <-chan struct{}) {
	if l.cfg.IdleTTL <= 0 {
		return
	}
	ticker := l.clock.NewTicker(l.cfg.IdleTTL)
	defer ticker.Stop()

	for {
		select {
		case <-done:
			return
		case <-ticker.Chan():
			l.Cleanup()
		}
	}
}

// Len returns the number of tracked clients.
func (l *IPLimiter) Len() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.entries)
}

// Stats returns the allowed and rejected counts.
func (l *IPLimiter) Stats() (allowed, rejected uint64) {
	return l.allowed.Load(), l.rejected.Load()
}

// HostOf strips the port from an address, returning it unchanged when it
// has none.
func HostOf(addr string) string {
	host, _, err := net.SplitHostPort(addr)
	if err != nil {
		return addr
	}
	return host
}
