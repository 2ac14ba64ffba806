package httpfetch

import (
	"context"
	"fmt"
	"sync"
	"time"

	"golang.org/x/time/rate"
)

// limiter is a token bucket shared by all hosts plus a per-host backoff window set by
// 429 responses.
type limiter struct {
	mu      sync.Mutex
	bucket  *rate.Limiter
	retryAt map[string]time.Time
	now     func() time.Time
}

func newLimiter(perSec float64, burst int) *limiter {
	lim := rate.Inf
	if perSec > 0 {
		lim = rate.Limit(perSec)
	}
	if burst <= 0 {
		burst = 1
	}
	return &limiter{
		bucket:  rate.NewLimiter(lim, burst),
		retryAt: make(map[string]time.Time),
		now:     time.Now,
	}
}

// Wait blocks until a request to host may be made. A host still in backoff fails
// immediately with ErrRateLimited; other hosts are unaffected.
func (l *limiter) Wait(ctx context.Context, host string) error {
	l.mu.Lock()
	retryAt, ok := l.retryAt[host]
	if ok && !l.now().Before(retryAt) {
		delete(l.retryAt, host)
		ok = false
	}
	l.mu.Unlock()

	if ok {
		return fmt.Errorf("%w: %s backing off until %s", ErrRateLimited, host, retryAt.Format(time.RFC3339))
	}
	return l.bucket.Wait(ctx)
}

// Backoff pauses requests to host for d, keeping the later deadline.
func (l *limiter) Backoff(host string, d time.Duration) {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	for h, at := range l.retryAt {
		if !now.Before(at) {
			delete(l.retryAt, h)
		}
	}
	if at := now.Add(d); at.After(l.retryAt[host]) {
		l.retryAt[host] = at
	}
}
