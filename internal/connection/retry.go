// Package connection supervises access to the database and the message broker.
//
// Both dependencies may be unavailable when a command arrives. The Supervisor hands out
// connection handles only after a successful attempt and retries failed attempts according
// to a RetryPolicy: a bounded number of attempts with a constant wait between them.
package connection

import (
	"context"
	"time"

	"github.com/cenkalti/backoff/v4"
)

// Default retry policy values.
const (
	DefaultMaxAttempts = 5
	DefaultInterval    = 5 * time.Second
)

// RetryPolicy runs an operation up to MaxAttempts times waiting Interval between attempts.
type RetryPolicy struct {
	MaxAttempts int
	Interval    time.Duration

	newTimer func() backoff.Timer
}

// NewRetryPolicy returns a policy with the given bounds. Values below one attempt are raised to one.
func NewRetryPolicy(maxAttempts int, interval time.Duration) RetryPolicy {
	if maxAttempts < 1 {
		maxAttempts = 1
	}
	if interval < 0 {
		interval = 0
	}
	return RetryPolicy{MaxAttempts: maxAttempts, Interval: interval}
}

// WithTimer returns a copy of the policy that schedules waits on timers built by newTimer.
// Each Do call builds its own timer.
func (p RetryPolicy) WithTimer(newTimer func() backoff.Timer) RetryPolicy {
	p.newTimer = newTimer
	return p
}

// Attempt is a single try of an operation.
type Attempt func(ctx context.Context) error

// Notify is called after every failed attempt that will be retried.
type Notify func(attempt int, err error, next time.Duration)

// Do runs op until it succeeds, the attempts are exhausted or ctx is done.
// It returns nil on success and otherwise the error of the last attempt, or ctx.Err().
func (p RetryPolicy) Do(ctx context.Context, op Attempt, notify Notify) error {
	maxAttempts := p.MaxAttempts
	if maxAttempts < 1 {
		maxAttempts = 1
	}

	b := backoff.WithContext(
		backoff.WithMaxRetries(backoff.NewConstantBackOff(p.Interval), uint64(maxAttempts-1)),
		ctx,
	)

	attempt := 0
	operation := func() error {
		attempt++
		return op(ctx)
	}

	var onRetry backoff.Notify
	if notify != nil {
		onRetry = func(err error, next time.Duration) {
			notify(attempt, err, next)
		}
	}

	var timer backoff.Timer
	if p.newTimer != nil {
		timer = p.newTimer()
	}

	return backoff.RetryNotifyWithTimer(operation, b, onRetry, timer)
}
