package coach

import (
	"context"
	"errors"
	"time"

	"github.com/felixgeelhaar/fortify/retry"
	"github.com/felixgeelhaar/fortify/timeout"

	"github.com/julianstephens/habitlit/internal/constants"
)

// ResilientProvider retries transient failures and bounds the whole call
// with a timeout. Quota errors pass straight through.
type ResilientProvider struct {
	inner       Provider
	maxAttempts int
	timeout     time.Duration
	delay       time.Duration
}

func NewResilientProvider(inner Provider, maxAttempts int, timeout time.Duration) *ResilientProvider {
	if maxAttempts <= 0 {
		maxAttempts = constants.DefaultCoachAttempts
	}
	if timeout <= 0 {
		timeout = constants.DefaultCoachTimeout * time.Second
	}
	return &ResilientProvider{
		inner:       inner,
		maxAttempts: maxAttempts,
		timeout:     timeout,
		delay:       time.Second,
	}
}

func (p *ResilientProvider) ID() string {
	return p.inner.ID()
}

func (p *ResilientProvider) Complete(ctx context.Context, req Request) (*Response, error) {
	r := retry.New[*Response](retry.Config{
		MaxAttempts:        p.maxAttempts,
		InitialDelay:       p.delay,
		BackoffPolicy:      retry.BackoffExponential,
		NonRetryableErrors: []error{ErrQuotaExceeded},
	})

	t := timeout.New[*Response](timeout.Config{
		DefaultTimeout: p.timeout,
	})

	res, err := t.Execute(ctx, p.timeout, func(ctx context.Context) (*Response, error) {
		return r.Do(ctx, func(ctx context.Context) (*Response, error) {
			return p.inner.Complete(ctx, req)
		})
	})
	if err != nil {
		return nil, err
	}
	if res == nil {
		return nil, errors.New("coach provider returned no response")
	}
	return res, nil
}
