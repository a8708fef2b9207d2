// Package retrier describes retry schedules: exponential backoff with a
// multiplier, a max-interval clamp and fractional jitter. The policy only
// computes delays; whoever owns the schedule decides how to sleep, so the
// same policy works on any runtime.
package retrier

import (
	"math/rand"
	"time"
)

const (
	defaultMaxAttempts = 3
	defaultBaseDelay   = 2 * time.Second
	defaultMaxDelay    = 30 * time.Second
	defaultMultiplier  = 2.0
	defaultJitter      = 0.1
)

// Policy is an immutable description of a retry schedule.
type Policy struct {
	maxAttempts int
	baseDelay   time.Duration
	maxDelay    time.Duration
	multiplier  float64
	jitter      float64
	budget      time.Duration
}

// Option defines a function to configure the Policy.
type Option func(*Policy)

// WithMaxAttempts sets the total number of attempts, including the first.
func WithMaxAttempts(n int) Option {
	return func(p *Policy) {
		p.maxAttempts = n
	}
}

// WithBaseDelay sets the delay before the second attempt.
func WithBaseDelay(d time.Duration) Option {
	return func(p *Policy) {
		p.baseDelay = d
	}
}

// WithMaxDelay clamps the computed delay.
func WithMaxDelay(d time.Duration) Option {
	return func(p *Policy) {
		p.maxDelay = d
	}
}

// WithMultiplier sets the backoff multiplier.
func WithMultiplier(m float64) Option {
	return func(p *Policy) {
		p.multiplier = m
	}
}

// WithJitter sets the jitter factor (0.0 to 1.0). Zero makes the
// schedule deterministic.
func WithJitter(j float64) Option {
	return func(p *Policy) {
		p.jitter = j
	}
}

// WithBudget bounds total elapsed wall time across all attempts.
// Zero means no bound.
func WithBudget(d time.Duration) Option {
	return func(p *Policy) {
		p.budget = d
	}
}

// New creates a Policy with default values and optional overrides.
func New(opts ...Option) Policy {
	p := Policy{
		maxAttempts: defaultMaxAttempts,
		baseDelay:   defaultBaseDelay,
		maxDelay:    defaultMaxDelay,
		multiplier:  defaultMultiplier,
		jitter:      defaultJitter,
	}

	for _, opt := range opts {
		opt(&p)
	}

	return p
}

// MaxAttempts returns the attempt limit, including the first attempt.
func (p Policy) MaxAttempts() int {
	return p.maxAttempts
}

// Budget returns the total wall-time bound, zero if unbounded.
func (p Policy) Budget() time.Duration {
	return p.budget
}

// DelayFor returns the delay to sleep after the given failed attempt
// (1-based): baseDelay × multiplier^(attempt−1), clamped to maxDelay,
// plus a random jitter within ±jitter×delay.
func (p Policy) DelayFor(attempt int) time.Duration {
	if attempt < 1 {
		attempt = 1
	}

	delay := float64(p.baseDelay)
	for i := 1; i < attempt; i++ {
		delay *= p.multiplier
		if delay >= float64(p.maxDelay) {
			delay = float64(p.maxDelay)
			break
		}
	}
	if delay > float64(p.maxDelay) {
		delay = float64(p.maxDelay)
	}

	if p.jitter > 0 {
		delay += (rand.Float64()*2 - 1) * p.jitter * delay
	}
	if delay < 0 {
		delay = 0
	}

	return time.Duration(delay)
}
