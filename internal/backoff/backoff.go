// SPDX-License-Identifier: Apache-2.0

package backoff

import (
	"context"
	"errors"
	"time"

	"github.com/cenkalti/backoff/v4"
)

type Backoff interface {
	RetryNotify(Operation, Notify) error
	Retry(Operation) error
}

type (
	Operation func() error
	Notify    func(error, time.Duration)
)

// Config selects the retry policy. When neither policy is set, operations
// are run once.
type Config struct {
	Exponential *ExponentialConfig
	Constant    *ConstantConfig
}

// ExponentialConfig doubles the wait between attempts, starting at
// InitialInterval and capped at MaxInterval. With no MaxRetries, retries stop
// after the default elapsed time of the underlying backoff.
type ExponentialConfig struct {
	InitialInterval time.Duration
	MaxInterval     time.Duration
	MaxRetries      uint
}

type ConstantConfig struct {
	Interval   time.Duration
	MaxRetries uint
}

// ErrPermanent marks errors that must not be retried. Wrap it to stop a
// retry loop early.
var ErrPermanent = errors.New("permanent error, do not retry")

type Provider func(ctx context.Context) Backoff

// NewProvider returns a backoff provider for the config. A nil or empty
// config provides backoffs that never retry.
func NewProvider(cfg *Config) Provider {
	switch {
	case cfg == nil:
		return func(context.Context) Backoff { return NewStopBackoff() }
	case cfg.Constant != nil:
		return func(ctx context.Context) Backoff {
			return newRetrier(ctx, backoff.NewConstantBackOff(cfg.Constant.Interval), cfg.Constant.MaxRetries)
		}
	case cfg.Exponential != nil:
		return func(ctx context.Context) Backoff {
			return newRetrier(ctx, newExponential(cfg.Exponential), cfg.Exponential.MaxRetries)
		}
	default:
		return func(context.Context) Backoff { return NewStopBackoff() }
	}
}

// IsPermanent reports whether the error was marked as not retriable.
func IsPermanent(err error) bool {
	var permanent *backoff.PermanentError
	return errors.Is(err, ErrPermanent) || errors.As(err, &permanent)
}

func NewStopBackoff() Backoff {
	return &retrier{BackOff: &backoff.StopBackOff{}}
}

func newExponential(cfg *ExponentialConfig) *backoff.ExponentialBackOff {
	exp := backoff.NewExponentialBackOff()
	if cfg.InitialInterval > 0 {
		exp.InitialInterval = cfg.InitialInterval
	}
	if cfg.MaxInterval > 0 {
		exp.MaxInterval = cfg.MaxInterval
	}
	if cfg.MaxRetries > 0 {
		// the number of retries bounds the loop
		exp.MaxElapsedTime = 0
	}
	return exp
}

type retrier struct {
	backoff.BackOff
}

func newRetrier(ctx context.Context, b backoff.BackOff, maxRetries uint) *retrier {
	if maxRetries > 0 {
		b = backoff.WithMaxRetries(b, uint64(maxRetries))
	}
	return &retrier{BackOff: backoff.WithContext(b, ctx)}
}

func (r *retrier) Retry(op Operation) error {
	return r.RetryNotify(op, nil)
}

func (r *retrier) RetryNotify(op Operation, notify Notify) error {
	boOp := func() error {
		err := op()
		if errors.Is(err, ErrPermanent) {
			return backoff.Permanent(err)
		}
		return err
	}
	return backoff.RetryNotify(boOp, r.BackOff, backoff.Notify(notify))
}
