package llm

import (
	"context"
	"fmt"
	"time"

	"golang.org/x/time/rate"
)

// guard bounds every backend call with a rate limiter and a timeout.
type guard struct {
	limiter *rate.Limiter
	timeout time.Duration
}

func newGuard(cfg Config) guard {
	limit := cfg.RateLimit
	if limit <= 0 {
		limit = defaultRateLimit
	}
	burst := cfg.Burst
	if burst <= 0 {
		burst = defaultBurst
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return guard{
		limiter: rate.NewLimiter(rate.Limit(limit), burst),
		timeout: timeout,
	}
}

// do waits for the limiter and runs fn under the call timeout.
func (g guard) do(ctx context.Context, fn func(ctx context.Context) (string, error)) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, g.timeout)
	defer cancel()

	if err := g.limiter.Wait(ctx); err != nil {
		return "", fmt.Errorf("%w: rate limiter: %v", ErrBackendFailure, err)
	}
	return fn(ctx)
}
