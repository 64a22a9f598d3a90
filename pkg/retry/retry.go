package retry

import (
	"context"
	"errors"
	"fmt"
	"time"

	"behancedl/pkg/config"
	errs "behancedl/pkg/errors"
	"behancedl/pkg/logger"
)

// Operation is a function that performs an operation that might need retrying
type Operation func(ctx context.Context) error

// OperationWithResult is a function that returns a result and might need retrying
type OperationWithResult[T any] func(ctx context.Context) (T, error)

// Config holds retry configuration
type Config struct {
	// Retries is how many extra attempts follow a failed first one.
	// 0 runs the operation exactly once.
	Retries int
	// Backoff strategy to use
	Backoff BackoffStrategy
	// RetryIf determines if an error should be retried
	RetryIf func(error) bool
	// OnRetry is called before each retry attempt
	OnRetry func(attempt int, err error, delay time.Duration)
	// Logger for retry attempts
	Logger logger.Logger
}

// DefaultConfig returns a configuration that never retries
func DefaultConfig() *Config {
	return &Config{
		Retries: 0,
		Backoff: DefaultExponentialBackoff(),
		RetryIf: DefaultRetryIf,
		Logger:  logger.GetLogger(),
	}
}

// ForDownloads builds the retry policy for image downloads. A 429 always
// backs off exponentially from ten times the configured delay.
func ForDownloads(cfg config.DownloadConfig, log logger.Logger) *Config {
	base := cfg.RetryDelay
	if base <= 0 {
		base = time.Second
	}

	var backoff BackoffStrategy = &ExponentialBackoff{
		BaseDelay:    base,
		MaxDelay:     30 * base,
		Multiplier:   2.0,
		JitterFactor: 0.1,
	}
	if cfg.RetryBackoff == config.BackoffConstant {
		backoff = &ConstantBackoff{Delay: base}
	}

	return &Config{
		Retries: cfg.RetryAttempts,
		Backoff: &StatusAwareBackoff{
			Default: backoff,
			TooManyRequests: &ExponentialBackoff{
				BaseDelay:    10 * base,
				MaxDelay:     150 * base,
				Multiplier:   1.5,
				JitterFactor: 0.3,
			},
		},
		RetryIf: DefaultRetryIf,
		Logger:  log,
	}
}

// DefaultRetryIf retries network failures and download failures whose
// status may change on a second try. Everything else, context errors
// included, is final.
func DefaultRetryIf(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return false
	}
	return errs.IsRetryable(err)
}

// Do executes an operation with retry logic
func Do(ctx context.Context, op Operation, cfg *Config) error {
	if cfg == nil {
		cfg = DefaultConfig()
	}
	retryIf := cfg.RetryIf
	if retryIf == nil {
		retryIf = DefaultRetryIf
	}
	backoff := cfg.Backoff
	if backoff == nil {
		backoff = DefaultExponentialBackoff()
	}

	for attempt := 1; ; attempt++ {
		err := op(ctx)
		if err == nil {
			if attempt > 1 && cfg.Logger != nil {
				cfg.Logger.DebugWithFields("operation succeeded after retry", map[string]interface{}{
					"attempt": attempt,
				})
			}
			return nil
		}

		if !retryIf(err) {
			return err
		}

		if attempt > cfg.Retries {
			if cfg.Retries == 0 {
				return err
			}
			if cfg.Logger != nil {
				cfg.Logger.ErrorWithFields("retries exhausted", map[string]interface{}{
					"attempts":   attempt,
					"last_error": err.Error(),
				})
			}
			return fmt.Errorf("giving up after %d attempts: %w", attempt, err)
		}

		delay := backoff.NextDelay(attempt, err)

		if cfg.OnRetry != nil {
			cfg.OnRetry(attempt, err, delay)
		}

		if cfg.Logger != nil {
			cfg.Logger.WarnWithFields("retrying operation", map[string]interface{}{
				"attempt":  attempt,
				"error":    err.Error(),
				"delay_ms": delay.Milliseconds(),
				"retries":  cfg.Retries,
			})
		}

		if werr := Wait(ctx, delay); werr != nil {
			return fmt.Errorf("retry cancelled: %w", werr)
		}
	}
}

// DoWithResult executes an operation that returns a result with retry logic
func DoWithResult[T any](ctx context.Context, op OperationWithResult[T], cfg *Config) (T, error) {
	var result T

	err := Do(ctx, func(ctx context.Context) error {
		var opErr error
		result, opErr = op(ctx)
		return opErr
	}, cfg)

	return result, err
}
