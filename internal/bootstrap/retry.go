package bootstrap

import (
	"context"
	"fmt"
	"github.com/cenkalti/backoff/v4"
	"github.com/hashicorp/go-hclog"
	"github.com/kahvecikaan/shopping-list/internal/domain"
	"time"
)

const (
	DefaultAttempts = 12
	DefaultDelay    = 5 * time.Second
)

// RetryPolicy retries an operation a fixed number of times with a fixed
// delay between attempts. Timer is swapped out in tests; nil uses a real one.
type RetryPolicy struct {
	Attempts int
	Delay    time.Duration
	Timer    backoff.Timer
}

func DefaultRetryPolicy() RetryPolicy {
	return RetryPolicy{
		Attempts: DefaultAttempts,
		Delay:    DefaultDelay,
	}
}

// RetryError is returned once every attempt has failed. It wraps the last
// error and is classified as transient.
type RetryError struct {
	Attempts int
	Err      error
}

func (e *RetryError) Error() string {
	return fmt.Sprintf("giving up after %d attempts: %v", e.Attempts, e.Err)
}

func (e *RetryError) Unwrap() []error {
	return []error{domain.ErrTransient, e.Err}
}

// Do runs op until it succeeds or the attempts are used up. Cancelling ctx
// stops the wait between attempts and returns ctx.Err().
func (p RetryPolicy) Do(ctx context.Context, logger hclog.Logger, name string, op func(ctx context.Context) error) error {
	attempts := p.Attempts
	if attempts < 1 {
		attempts = 1
	}

	b := backoff.WithContext(
		backoff.WithMaxRetries(backoff.NewConstantBackOff(p.Delay), uint64(attempts-1)),
		ctx,
	)

	attempt := 0
	operation := func() error {
		attempt++
		return op(ctx)
	}
	notify := func(err error, next time.Duration) {
		logger.Warn("Attempt failed",
			"operation", name,
			"attempt", fmt.Sprintf("%d/%d", attempt, attempts),
			"retry_in", next,
			"error", err,
		)
	}

	err := backoff.RetryNotifyWithTimer(operation, b, notify, p.Timer)
	if err == nil {
		if attempt > 1 {
			logger.Info("Succeeded after retry", "operation", name, "attempt", attempt)
		}
		return nil
	}

	if ctxErr := ctx.Err(); ctxErr != nil {
		return ctxErr
	}

	logger.Warn("Attempt failed",
		"operation", name,
		"attempt", fmt.Sprintf("%d/%d", attempt, attempts),
		"error", err,
	)
	return &RetryError{Attempts: attempt, Err: err}
}
