// Package resilience classifies upstream failures and applies bounded retry policies.
package resilience

import (
	"context"
	"time"

	"go.uber.org/zap"
)

// RetryConfig controls retry behavior.
type RetryConfig struct {
	// MaxAttempts is the total number of attempts (including the first try).
	// A value of 1 means no retries. Default: 2.
	MaxAttempts int

	// Delay is the fixed wait before each retry. Zero retries immediately.
	Delay time.Duration

	// Classifier decides which errors may be retried. If nil, a
	// MarkerClassifier with DefaultTransientMarkers is used.
	Classifier Classifier

	// OnRetry is called before each retry sleep with attempt number and error.
	OnRetry func(attempt int, fault Fault, err error)
}

// RetryOnce returns a policy that re-issues a call exactly once, after a
// fixed delay, when c classifies the failure as transient.
func RetryOnce(delay time.Duration, c Classifier) RetryConfig {
	return RetryConfig{
		MaxAttempts: 2,
		Delay:       delay,
		Classifier:  c,
	}
}

// DoVal executes fn, retrying only while the classified fault is retryable.
// Non-retryable errors and the final failure are returned unmodified.
// Context cancellation stops retries immediately.
func DoVal[T any](ctx context.Context, cfg RetryConfig, fn func(ctx context.Context) (T, error)) (T, error) {
	cfg = applyDefaults(cfg)

	var zero T
	var lastErr error
	for attempt := 0; attempt < cfg.MaxAttempts; attempt++ {
		val, err := fn(ctx)
		if err == nil {
			return val, nil
		}
		lastErr = err

		if ctx.Err() != nil {
			return zero, lastErr
		}

		fault := cfg.Classifier.Classify(lastErr)
		if !fault.Retryable() {
			return zero, lastErr
		}

		if attempt >= cfg.MaxAttempts-1 {
			break
		}

		if cfg.OnRetry != nil {
			cfg.OnRetry(attempt+1, fault, lastErr)
		}

		if err := Sleep(ctx, cfg.Delay); err != nil {
			return zero, lastErr
		}
	}

	return zero, lastErr
}

// Sleep waits for d or until ctx is done, whichever comes first.
func Sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

func applyDefaults(cfg RetryConfig) RetryConfig {
	if cfg.MaxAttempts <= 0 {
		cfg.MaxAttempts = 2
	}
	if cfg.Delay < 0 {
		cfg.Delay = 0
	}
	if cfg.Classifier == nil {
		cfg.Classifier = NewMarkerClassifier()
	}
	return cfg
}

// RetryLogger returns an OnRetry callback that logs each retry attempt.
func RetryLogger(service, operation string) func(int, Fault, error) {
	return func(attempt int, fault Fault, err error) {
		zap.L().Warn("retrying operation",
			zap.String("service", service),
			zap.String("operation", operation),
			zap.Int("attempt", attempt),
			zap.Stringer("fault", fault),
			zap.Error(err),
		)
	}
}
