package fulfillment

import (
	"context"
	"fmt"
	"time"

	apperrors "dining-concierge/internal/common/errors"
	"dining-concierge/internal/common/logger"
)

// Runner performs a single fulfillment run. *Consumer satisfies it.
type Runner interface {
	RunOnce(ctx context.Context) (Outcome, error)
}

// RunEvery runs r immediately and then once per interval until ctx is done.
// Runs never overlap and each is bounded by timeout.
func RunEvery(ctx context.Context, r Runner, interval, timeout time.Duration, log logger.Logger) error {
	if interval <= 0 {
		return apperrors.NewValidationFailedError("poll_interval", fmt.Sprintf("poll interval must be positive, got %s", interval))
	}
	if timeout <= 0 {
		timeout = interval
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		if ctx.Err() != nil {
			return nil
		}

		runCtx, cancel := context.WithTimeout(ctx, timeout)
		outcome, err := r.RunOnce(runCtx)
		cancel()
		if err != nil {
			log.Error("scheduled fulfillment run failed", map[string]interface{}{"error": err})
		} else {
			log.Debug("scheduled fulfillment run finished", map[string]interface{}{"outcome": string(outcome)})
		}

		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
		}
	}
}
