package feed

import (
	"context"
	"log/slog"
	"math/rand"
	"time"
)

// backoffDelay is the sleep before the attempt following 0-indexed attempt i:
// 2^i seconds plus up to two seconds of random jitter.
func backoffDelay(attempt int) time.Duration {
	secs := float64(uint64(1)<<attempt) + rand.Float64()*2
	return time.Duration(secs * float64(time.Second))
}

// withRetry runs op up to attempts times, sleeping with exponential backoff
// between attempts while retryable reports the error as worth another try.
// There is no sleep after the final attempt; the last error is returned as-is.
func withRetry[T any](
	ctx context.Context,
	attempts int,
	retryable func(error) bool,
	delay func(attempt int) time.Duration,
	log *slog.Logger,
	op func() (T, error),
) (T, error) {
	var lastErr error

	for attempt := 0; attempt < attempts; attempt++ {
		result, err := op()
		if err == nil {
			return result, nil
		}

		lastErr = err

		if attempt == attempts-1 || !retryable(err) {
			break
		}

		wait := delay(attempt)
		log.WarnContext(ctx, "Attempt failed, retrying",
			"error", err,
			"attempt", attempt+1,
			"maxAttempts", attempts,
			"waitSeconds", wait.Seconds())

		select {
		case <-time.After(wait):
		case <-ctx.Done():
			var zero T
			return zero, ctx.Err()
		}
	}

	var zero T
	return zero, lastErr
}
