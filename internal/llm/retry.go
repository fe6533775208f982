package llm

import (
	"context"
	"errors"
	"math/rand/v2"
	"time"
)

// RetryProvider retries outages and rate limits with exponential backoff.
// A reply that fails the schema gets one more try; truncation and
// cancellation are final.
type RetryProvider struct {
	inner Provider
	cfg   RetryConfig
}

func WithRetry(p Provider, cfg RetryConfig) Provider {
	cfg.MaxAttempts = max(cfg.MaxAttempts, 1)
	return &RetryProvider{inner: p, cfg: cfg}
}

func (r *RetryProvider) ModelID() string { return r.inner.ModelID() }

func (r *RetryProvider) Generate(ctx context.Context, req Request) (*Response, error) {
	var (
		err          error
		schemaMisses int
	)
	for attempt := 1; ; attempt++ {
		var resp *Response
		resp, err = r.inner.Generate(ctx, req)
		if err == nil {
			return resp, nil
		}

		var invalid *ErrInvalidResponse
		if errors.As(err, &invalid) {
			schemaMisses++
		}
		if attempt == r.cfg.MaxAttempts || !r.shouldRetry(err, schemaMisses) {
			return nil, err
		}

		timer := time.NewTimer(r.delay(attempt, err))
		select {
		case <-ctx.Done():
			timer.Stop()
			return nil, ctx.Err()
		case <-timer.C:
		}
	}
}

func (r *RetryProvider) shouldRetry(err error, schemaMisses int) bool {
	var truncated *ErrMaxTokensExceeded
	switch {
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return false
	case errors.As(err, &truncated):
		return false
	}
	return schemaMisses <= 1
}

// delay is the wait before attempt+1: the server's Retry-After when given,
// otherwise InitialWait * Multiplier^(attempt-1) capped at MaxWait, with
// 20% jitter either way.
func (r *RetryProvider) delay(attempt int, err error) time.Duration {
	var rl *ErrRateLimit
	if errors.As(err, &rl) && rl.RetryAfter > 0 {
		return rl.RetryAfter
	}

	wait := float64(r.cfg.InitialWait)
	for i := 1; i < attempt; i++ {
		wait *= r.cfg.Multiplier
		if wait >= float64(r.cfg.MaxWait) {
			wait = float64(r.cfg.MaxWait)
			break
		}
	}
	wait *= 0.8 + 0.4*rand.Float64()
	return time.Duration(wait)
}
