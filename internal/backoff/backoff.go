// Package backoff provides the caller-side spin-then-sleep policy the
// disruptor package's non-blocking Reserve/Pop contract expects its
// callers to supply: the buffer itself never sleeps or parks, so retrying
// producers and consumers need their own growing-delay policy.
package backoff

import (
	"math"
	"runtime"
	"time"
)

// Policy is a spin-then-sleep backoff: the first spinLimit calls to Wait
// yield the scheduler without sleeping, then each subsequent call sleeps
// for an interval that grows by declineRatio per attempt, capped at
// declineLimit.
type Policy struct {
	spinLimit    int
	interval     time.Duration
	declineRatio float64
	declineLimit time.Duration
}

// Option configures a Policy.
type Option func(*Policy)

// New builds a Policy. Defaults: 100 scheduler-yield spins before
// sleeping, a 1µs base interval, and no growth (declineRatio 1, meaning a
// constant 1µs sleep after the spin phase).
func New(opts ...Option) *Policy {
	p := &Policy{
		spinLimit:    100,
		interval:     time.Microsecond,
		declineRatio: 1,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// WithSpinLimit sets how many Wait calls yield the scheduler before the
// policy starts sleeping.
func WithSpinLimit(n int) Option {
	return func(p *Policy) {
		if n >= 0 {
			p.spinLimit = n
		}
	}
}

// WithInterval sets the base sleep duration used once spinning ends.
func WithInterval(d time.Duration) Option {
	return func(p *Policy) {
		if d > 0 {
			p.interval = d
		}
	}
}

// WithDeclineRatio sets the per-attempt growth multiplier applied to the
// sleep duration. Values below 1 are ignored, since a policy that shrinks
// its backoff over time defeats the purpose.
func WithDeclineRatio(r float64) Option {
	return func(p *Policy) {
		if r >= 1 {
			p.declineRatio = r
		}
	}
}

// WithDeclineLimit caps the sleep duration the policy will ever use.
func WithDeclineLimit(d time.Duration) Option {
	return func(p *Policy) {
		if d > 0 {
			p.declineLimit = d
		}
	}
}

// Wait is called once per failed (FULL or EMPTY) attempt, with the
// zero-based attempt count since the last success.
func (p *Policy) Wait(attempt int) {
	if attempt < p.spinLimit {
		runtime.Gosched()
		return
	}

	sleep := time.Duration(float64(p.interval) * math.Pow(p.declineRatio, float64(attempt-p.spinLimit)))
	if p.declineLimit > 0 && sleep > p.declineLimit {
		sleep = p.declineLimit
	}
	time.Sleep(sleep)
}
