// internal/bootstrap/retry.go
package bootstrap

import (
	"context"
	"fmt"
	"time"

	"agri-advisory-workers/internal/common/logger"
)

type Retry struct {
	Attempts     int
	InitialDelay time.Duration
}

var DefaultRetry = Retry{Attempts: 10, InitialDelay: 2 * time.Second}

// RetryWithBackoff runs operation until it succeeds, doubling the delay after
// every failure. It stops early when ctx is done.
func RetryWithBackoff(ctx context.Context, r Retry, log logger.Logger, operationName string, operation func(context.Context) error) error {
	attempts := r.Attempts
	if attempts < 1 {
		attempts = 1
	}

	var err error
	delay := r.InitialDelay
	for i := 0; i < attempts; i++ {
		if err = operation(ctx); err == nil {
			return nil
		}
		if i == attempts-1 {
			break
		}

		log.Warn(operationName+" failed, retrying", map[string]interface{}{
			"error":       err,
			"attempt":     i + 1,
			"maxRetries":  attempts,
			"nextRetryIn": delay.String(),
		})

		select {
		case <-ctx.Done():
			return fmt.Errorf("%s cancelled after %d attempts: %w", operationName, i+1, err)
		case <-time.After(delay):
		}
		delay *= 2
	}

	return fmt.Errorf("%s failed after %d attempts: %w", operationName, attempts, err)
}
