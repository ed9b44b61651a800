package concurrency

import (
	"strings"
	"time"

	"github.com/cenkalti/backoff/v4"
)

// RetryConfig configures Retry. Defaults match §4.6: 3 retries, 50ms
// base, 2000ms cap.
type RetryConfig struct {
	MaxRetries int
	BaseDelay  time.Duration
	MaxDelay   time.Duration
}

// DefaultRetryConfig is §4.6's default.
var DefaultRetryConfig = RetryConfig{
	MaxRetries: 3,
	BaseDelay:  50 * time.Millisecond,
	MaxDelay:   2000 * time.Millisecond,
}

// isBusy reports whether err's message indicates store contention, the
// only retryable condition per §4.6/§8.
func isBusy(err error) bool {
	return err != nil && strings.Contains(err.Error(), "database is locked")
}

// Retry wraps fn with exponential backoff: on a busy error it sleeps
// min(base*2^n, max) and retries up to cfg.MaxRetries times; any other
// error propagates immediately without retrying. After exhaustion the
// last busy error propagates.
func Retry(cfg RetryConfig, fn func() error) error {
	eb := backoff.NewExponentialBackOff()
	eb.InitialInterval = cfg.BaseDelay
	eb.MaxInterval = cfg.MaxDelay
	eb.Multiplier = 2
	// No jitter: each sleep is exactly min(base*2^n, max).
	eb.RandomizationFactor = 0
	eb.MaxElapsedTime = 0 // bounded by MaxRetries below, not by wall-clock

	bounded := backoff.WithMaxRetries(eb, uint64(cfg.MaxRetries))

	return backoff.Retry(func() error {
		err := fn()
		if err == nil {
			return nil
		}
		if !isBusy(err) {
			return backoff.Permanent(err)
		}
		return err
	}, bounded)
}
