// Package rate provides a token bucket rate limiter for controlling query rates.
package rate

import (
	"context"
	"time"

	xrate "golang.org/x/time/rate"
)

// Limiter wraps golang.org/x/time/rate with the defaults used across dnsrake.
// A nil *Limiter never blocks, so callers can hold one unconditionally.
type Limiter struct {
	lim *xrate.Limiter
}

// New creates a new rate limiter with the specified rate (operations per second)
// and burst size (maximum operations allowed at once).
//
// Example:
//
//	limiter := rate.New(500, 50) // 500 q/s, burst of 50
func New(rate float64, burst int) *Limiter {
	if rate <= 0 {
		rate = 1
	}
	if burst <= 0 {
		burst = 1
	}

	return &Limiter{lim: xrate.NewLimiter(xrate.Limit(rate), burst)}
}

// ForQPS returns a limiter for qps queries per second, or nil when qps <= 0.
// Burst is a tenth of the rate (minimum 1) so a worker pool does not stall on startup.
func ForQPS(qps float64) *Limiter {
	if qps <= 0 {
		return nil
	}
	burst := int(qps / 10)
	if burst < 1 {
		burst = 1
	}
	return New(qps, burst)
}

// Wait blocks until the limiter allows an operation to proceed or the context is canceled.
func (l *Limiter) Wait(ctx context.Context) error {
	if l == nil {
		return ctx.Err()
	}
	return l.lim.Wait(ctx)
}

// Allow reports whether an operation can proceed immediately, consuming one token if so.
func (l *Limiter) Allow() bool {
	if l == nil {
		return true
	}
	return l.lim.Allow()
}

// AllowN reports whether n operations can proceed immediately.
func (l *Limiter) AllowN(n int) bool {
	if l == nil {
		return true
	}
	return l.lim.AllowN(time.Now(), n)
}

// SetRate changes the rate limit dynamically.
func (l *Limiter) SetRate(rate float64) {
	if l == nil {
		return
	}
	if rate <= 0 {
		rate = 1
	}
	l.lim.SetLimit(xrate.Limit(rate))
}

// SetBurst changes the burst size dynamically.
func (l *Limiter) SetBurst(burst int) {
	if l == nil {
		return
	}
	if burst <= 0 {
		burst = 1
	}
	l.lim.SetBurst(burst)
}

// Tokens returns the current number of available tokens.
func (l *Limiter) Tokens() float64 {
	if l == nil {
		return 0
	}
	return l.lim.Tokens()
}

// Rate returns the current rate limit (tokens per second). Zero means unlimited.
func (l *Limiter) Rate() float64 {
	if l == nil {
		return 0
	}
	return float64(l.lim.Limit())
}

// Burst returns the current burst size.
func (l *Limiter) Burst() int {
	if l == nil {
		return 0
	}
	return l.lim.Burst()
}
