// Package retrypolicy adapts github.com/avast/retry-go/v4 to a small retry
// adapter: a black box that re-invokes an attempt callback under a policy
// of {retries, min_timeout, max_timeout, factor} until the callback stops
// returning a retriable error. The core engine never imports retry-go
// directly; it only decides retriable-ness (collisions and I/O errors from
// acquisition) and hands that decision to this package, keeping
// retry.Do at arm's length from the locking primitive itself.
package retrypolicy

import (
	"context"
	"errors"
	"time"

	"github.com/avast/retry-go/v4"
)

// Policy mirrors the external interface's {retries, min_timeout, max_timeout,
// factor} tuple.
type Policy struct {
	Retries    uint
	MinTimeout time.Duration
	MaxTimeout time.Duration
	Factor     float64
}

// DefaultPolicy matches the zero-retry default from the configuration
// table; callers that set Options.Retries > 0 construct their own Policy.
var DefaultPolicy = Policy{
	Retries:    0,
	MinTimeout: 50 * time.Millisecond,
	MaxTimeout: 2 * time.Second,
	Factor:     2,
}

// retriableError wraps an error to mark it as retriable; Do only retries
// errors whose chain contains one (checked with errors.As), which in
// practice means errors passed through MarkRetriable.
type retriableError struct{ err error }

func (r *retriableError) Error() string { return r.err.Error() }
func (r *retriableError) Unwrap() error { return r.err }

// MarkRetriable tags err so Do's RetryIf check retries it.
func MarkRetriable(err error) error {
	if err == nil {
		return nil
	}
	return &retriableError{err: err}
}

// Do invokes attempt repeatedly under policy until it returns a nil or
// non-retriable error, or the attempt budget is exhausted. An attempt
// signals retriability by returning an error produced via MarkRetriable;
// any other non-nil error stops the loop immediately.
func Do(ctx context.Context, policy Policy, attempt func(ctx context.Context) error) error {
	factor := policy.Factor
	if factor <= 0 {
		factor = 2
	}

	opts := []retry.Option{
		retry.Attempts(policy.Retries + 1),
		retry.Context(ctx),
		retry.DelayType(exponentialDelay(policy.MinTimeout, policy.MaxTimeout, factor)),
		retry.RetryIf(func(err error) bool {
			var re *retriableError
			return errors.As(err, &re)
		}),
		retry.LastErrorOnly(true),
	}

	err := retry.Do(func() error {
		return attempt(ctx)
	}, opts...)
	if err == nil {
		return nil
	}
	var re *retriableError
	if errors.As(err, &re) {
		return re.err
	}
	return err
}

// exponentialDelay grows the delay from minTimeout by factor per attempt,
// capped at maxTimeout, since retry-go's built-in BackOffDelay does not
// expose a configurable base.
func exponentialDelay(minTimeout, maxTimeout time.Duration, factor float64) retry.DelayTypeFunc {
	return func(n uint, _ error, _ *retry.Config) time.Duration {
		d := float64(minTimeout)
		for i := uint(0); i < n; i++ {
			d *= factor
		}
		delay := time.Duration(d)
		if maxTimeout > 0 && delay > maxTimeout {
			return maxTimeout
		}
		if delay < minTimeout {
			return minTimeout
		}
		return delay
	}
}
