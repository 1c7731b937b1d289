package query_service

import (
	"context"
	"errors"
	"time"
)

// RetryPolicy bounded exponential backoff: delay n = min(BaseDelay*2^n, MaxDelay)
type RetryPolicy struct {
	// Attempts total tries, values below 1 mean a single try
	Attempts  int
	BaseDelay time.Duration
	MaxDelay  time.Duration
}

// DefaultRetryPolicy 3 attempts, 1s base, 30s cap
func DefaultRetryPolicy() RetryPolicy {
	return RetryPolicy{Attempts: 3, BaseDelay: time.Second, MaxDelay: 30 * time.Second}
}

// NoRetry single attempt
var NoRetry = RetryPolicy{Attempts: 1}

// Delay wait before retry number n (0-based)
func (p RetryPolicy) Delay(n int) time.Duration {
	if p.BaseDelay <= 0 {
		return 0
	}
	d := p.BaseDelay
	for i := 0; i < n; i++ {
		d *= 2
		if p.MaxDelay > 0 && d >= p.MaxDelay {
			return p.MaxDelay
		}
	}
	if p.MaxDelay > 0 && d > p.MaxDelay {
		return p.MaxDelay
	}
	return d
}

type permanentError struct {
	err error
}

func (e *permanentError) Error() string { return e.err.Error() }
func (e *permanentError) Unwrap() error { return e.err }

// Permanent marks err as not worth retrying
func Permanent(err error) error {
	if err == nil {
		return nil
	}
	return &permanentError{err: err}
}

// IsPermanent reports whether err was marked with Permanent
func IsPermanent(err error) bool {
	var p *permanentError
	return errors.As(err, &p)
}

// Retry runs fn until it succeeds, returns a permanent error, attempts run out or ctx ends
func Retry[T any](ctx context.Context, policy RetryPolicy, fn func(ctx context.Context) (T, error)) (T, error) {
	attempts := policy.Attempts
	if attempts < 1 {
		attempts = 1
	}

	var zero T
	var lastErr error
	for i := 0; i < attempts; i++ {
		v, err := fn(ctx)
		if err == nil {
			return v, nil
		}
		lastErr = err
		if IsPermanent(err) || ctx.Err() != nil || i == attempts-1 {
			break
		}

		timer := time.NewTimer(policy.Delay(i))
		select {
		case <-ctx.Done():
			timer.Stop()
			return zero, errors.Join(lastErr, ctx.Err())
		case <-timer.C:
		}
	}

	var p *permanentError
	if errors.As(lastErr, &p) && p == lastErr {
		return zero, p.err
	}
	return zero, lastErr
}
