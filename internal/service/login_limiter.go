package service

import (
	"context"
	"sync"
	"time"

	"golang.org/x/time/rate"
)

// LoginLimiterOptions configures LoginLimiter.
type LoginLimiterOptions struct {
	PerMinute int              // Sustained attempts per minute; defaults to 10
	Burst     int              // Attempts allowed back to back; defaults to 5
	IdleTTL   time.Duration    // Forget sources idle this long; defaults to 10m
	Now       func() time.Time // Optional: clock
}

type clientLimiter struct {
	limiter    *rate.Limiter
	lastAccess time.Time
}

type remoteAddrKey struct{}

// WithRemoteAddr returns a child context carrying the network address a login
// submission came from. If addr is empty, the original ctx is returned.
func WithRemoteAddr(ctx context.Context, addr string) context.Context {
	if addr == "" {
		return ctx
	}
	return context.WithValue(ctx, remoteAddrKey{}, addr)
}

// limiterKey picks the throttling bucket for a submission. The remote address
// wins over the client id because a client can drop its cookie at will.
func limiterKey(ctx context.Context, store *SessionStore) string {
	if addr, ok := ctx.Value(remoteAddrKey{}).(string); ok && addr != "" {
		return "addr:" + addr
	}
	return "client:" + store.ClientID()
}

// LoginLimiter throttles login submissions per source.
type LoginLimiter struct {
	limit   rate.Limit
	burst   int
	idleTTL time.Duration
	now     func() time.Time

	mu       sync.Mutex
	limiters map[string]*clientLimiter
}

// NewLoginLimiter constructs a LoginLimiter.
func NewLoginLimiter(opts LoginLimiterOptions) *LoginLimiter {
	perMinute := opts.PerMinute
	if perMinute <= 0 {
		perMinute = 10
	}
	burst := opts.Burst
	if burst <= 0 {
		burst = 5
	}
	idle := opts.IdleTTL
	if idle <= 0 {
		idle = 10 * time.Minute
	}
	now := opts.Now
	if now == nil {
		now = time.Now
	}
	return &LoginLimiter{
		limit:    rate.Limit(float64(perMinute) / 60.0),
		burst:    burst,
		idleTTL:  idle,
		now:      now,
		limiters: make(map[string]*clientLimiter),
	}
}

// Allow consumes one attempt for key and reports whether it was permitted.
func (l *LoginLimiter) Allow(key string) bool {
	now := l.now()

	l.mu.Lock()
	cl, ok := l.limiters[key]
	if !ok {
		cl = &clientLimiter{limiter: rate.NewLimiter(l.limit, l.burst)}
		l.limiters[key] = cl
	}
	cl.lastAccess = now
	l.mu.Unlock()

	return cl.limiter.AllowN(now, 1)
}

// Len returns the number of tracked sources.
func (l *LoginLimiter) Len() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.limiters)
}

// Cleanup forgets sources that have not attempted a login within the idle TTL.
func (l *LoginLimiter) Cleanup() int {
	cutoff := l.now().Add(-l.idleTTL)

	l.mu.Lock()
	defer l.mu.Unlock()
	removed := 0
	for id, cl := range l.limiters {
		if cl.lastAccess.Before(cutoff) {
			delete(l.limiters, id)
			removed++
		}
	}
	return removed
}

// Run calls Cleanup at interval until ctx is cancelled.
func (l *LoginLimiter) Run(ctx context.Context, interval time.Duration) error {
	if interval <= 0 {
		interval = l.idleTTL
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			l.Cleanup()
		}
	}
}
