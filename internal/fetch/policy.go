package fetch

import (
	"math"
	"time"

	"github.com/sethvargo/go-retry"
)

// RetryPolicy defines how the Fetcher repeats failed download attempts.
//
// The zero value retries forever without delay. Bounded policies stop after
// MaxAttempts.
type RetryPolicy struct {
	// MaxAttempts is the total number of attempts, 0 for unbounded.
	MaxAttempts int
	// InitialDelay is the wait after the first failure, 0 for none.
	InitialDelay time.Duration
	// MaxDelay caps the wait between attempts, 0 for no cap.
	MaxDelay time.Duration
	// Multiplier grows the delay after each failure; values below 1 keep it constant.
	Multiplier float64
}

// DefaultRetryPolicy returns a bounded exponential policy.
func DefaultRetryPolicy() RetryPolicy {
	return RetryPolicy{
		MaxAttempts:  10,
		InitialDelay: 500 * time.Millisecond,
		MaxDelay:     30 * time.Second,
		Multiplier:   2,
	}
}

// UnboundedPolicy retries forever with no backoff. The only way out of a
// fetch under this policy is success or context cancellation.
func UnboundedPolicy() RetryPolicy {
	return RetryPolicy{}
}

// Unbounded reports whether the policy never gives up on its own.
func (p RetryPolicy) Unbounded() bool {
	return p.MaxAttempts <= 0
}

// Delay returns the wait before the next attempt after the given number of
// consecutive failures (1-based).
func (p RetryPolicy) Delay(failures int) time.Duration {
	if p.InitialDelay <= 0 || failures < 1 {
		return 0
	}
	mult := p.Multiplier
	if mult < 1 {
		mult = 1
	}
	delay := float64(p.InitialDelay) * math.Pow(mult, float64(failures-1))
	if p.MaxDelay > 0 && delay > float64(p.MaxDelay) {
		delay = float64(p.MaxDelay)
	}
	if delay > math.MaxInt64 {
		return time.Duration(math.MaxInt64)
	}
	return time.Duration(delay)
}

// Backoff builds a fresh go-retry schedule for one Fetch call.
func (p RetryPolicy) Backoff() retry.Backoff {
	failures := 0
	var b retry.Backoff = retry.BackoffFunc(func() (time.Duration, bool) {
		failures++
		return p.Delay(failures), false
	})
	if !p.Unbounded() {
		b = retry.WithMaxRetries(uint64(p.MaxAttempts-1), b)
	}
	return b
}
