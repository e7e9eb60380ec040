package llm

import (
	"context"
	"time"

	"github.com/ziadkadry99/flashlearn/internal/logger"
)

// RetryingProvider retries completions that fail with a rate-limit or
// overload error, doubling the pause between attempts.
type RetryingProvider struct {
	provider   Provider
	attempts   int
	backoff    time.Duration
	maxBackoff time.Duration
}

// NewRetryingProvider wraps provider so each completion is tried up to
// attempts times, waiting backoff before the first retry.
func NewRetryingProvider(provider Provider, attempts int, backoff time.Duration) *RetryingProvider {
	if attempts < 1 {
		attempts = 1
	}
	return &RetryingProvider{
		provider:   provider,
		attempts:   attempts,
		backoff:    backoff,
		maxBackoff: 2 * time.Minute,
	}
}

func (r *RetryingProvider) Name() string {
	return r.provider.Name()
}

func (r *RetryingProvider) Complete(ctx context.Context, req CompletionRequest) (*CompletionResponse, error) {
	backoff := r.backoff
	for attempt := 1; ; attempt++ {
		resp, err := r.provider.Complete(ctx, req)
		if err == nil || attempt >= r.attempts || !IsRateLimited(err) {
			return resp, err
		}

		logger.Warn(ctx, "llm rate limited, backing off",
			"provider", r.provider.Name(), "attempt", attempt, "backoff", backoff.String())

		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(backoff):
		}
		backoff = min(backoff*2, r.maxBackoff)
	}
}
