package llm

import (
	"context"
	"errors"
	"math"
	"math/rand/v2"
	"time"

	"go.uber.org/zap"

	"draftwise/internal/port"
)

// RetryConfig controls retry behaviour with exponential backoff and jitter.
type RetryConfig struct {
	// MaxAttempts is the total number of attempts, including the first.
	MaxAttempts int

	InitialBackoff time.Duration
	MaxBackoff     time.Duration
	Multiplier     float64

	// JitterFraction adds random jitter as a fraction of the computed delay.
	JitterFraction float64
}

// DefaultRetryConfig returns the retry policy used for provider calls.
func DefaultRetryConfig() RetryConfig {
	return RetryConfig{
		MaxAttempts:    3,
		InitialBackoff: 500 * time.Millisecond,
		MaxBackoff:     20 * time.Second,
		Multiplier:     2.0,
		JitterFraction: 0.25,
	}
}

// Retrying retries transient failures of the wrapped model. A rate-limited
// reply is returned at once when its Retry-After exceeds MaxBackoff so the
// fallback chain can move on.
type Retrying struct {
	model port.TextModel
	name  string
	cfg   RetryConfig
	sleep func(ctx context.Context, d time.Duration) error
}

// NewRetrying wraps model with cfg.
func NewRetrying(model port.TextModel, name string, cfg RetryConfig) *Retrying {
	if cfg.MaxAttempts < 1 {
		cfg.MaxAttempts = 1
	}
	if cfg.Multiplier < 1 {
		cfg.Multiplier = 2.0
	}
	return &Retrying{model: model, name: name, cfg: cfg, sleep: sleepCtx}
}

func (r *Retrying) Complete(ctx context.Context, prompt string, format port.ResponseFormat) (string, error) {
	var lastErr error
	for attempt := 0; attempt < r.cfg.MaxAttempts; attempt++ {
		out, err := r.model.Complete(ctx, prompt, format)
		if err == nil {
			return out, nil
		}
		lastErr = err

		if ctx.Err() != nil || !IsTransient(err) || attempt == r.cfg.MaxAttempts-1 {
			return "", err
		}

		delay := r.backoff(attempt)
		var rl *RateLimitError
		if errors.As(err, &rl) {
			if rl.RetryAfter > r.cfg.MaxBackoff {
				return "", err
			}
			delay = max(delay, rl.RetryAfter)
		}

		zap.L().Debug("retrying model call",
			zap.String("model", r.name),
			zap.Int("attempt", attempt+1),
			zap.Duration("delay", delay),
			zap.Error(err))
		if err := r.sleep(ctx, delay); err != nil {
			return "", lastErr
		}
	}
	return "", lastErr
}

func (r *Retrying) backoff(attempt int) time.Duration {
	d := float64(r.cfg.InitialBackoff) * math.Pow(r.cfg.Multiplier, float64(attempt))
	if r.cfg.JitterFraction > 0 {
		d += d * r.cfg.JitterFraction * (2*rand.Float64() - 1)
	}
	if r.cfg.MaxBackoff > 0 && d > float64(r.cfg.MaxBackoff) {
		d = float64(r.cfg.MaxBackoff)
	}
	return time.Duration(d)
}

func sleepCtx(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
