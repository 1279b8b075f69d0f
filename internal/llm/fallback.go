package llm

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"draftwise/internal/port"
)

// circuitState tracks rate-limit backoff for a single model.
type circuitState struct {
	mu      sync.RWMutex
	resetAt time.Time // zero value = closed (healthy)
}

func (c *circuitState) isOpenWithReset(now time.Time) (time.Time, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.resetAt, !c.resetAt.IsZero() && now.Before(c.resetAt)
}

func (c *circuitState) open(resetAt time.Time) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.resetAt = resetAt
}

// FallbackModel tries models in order, skipping those whose circuit is open
// after a rate limit. It implements port.TextModel.
type FallbackModel struct {
	models   []port.TextModel
	circuits []*circuitState
	names    []string
	now      func() time.Time
}

// NewFallbackModel creates a FallbackModel from an ordered list of models and their names.
func NewFallbackModel(models []port.TextModel, names []string) *FallbackModel {
	circuits := make([]*circuitState, len(models))
	for i := range circuits {
		circuits[i] = &circuitState{}
	}
	return &FallbackModel{
		models:   models,
		circuits: circuits,
		names:    names,
		now:      time.Now,
	}
}

func (f *FallbackModel) Complete(ctx context.Context, prompt string, format port.ResponseFormat) (string, error) {
	now := f.now()
	var lastErr error
	allRateLimited := true
	var earliestReset time.Time

	noteReset := func(resetAt time.Time) {
		if earliestReset.IsZero() || resetAt.Before(earliestReset) {
			earliestReset = resetAt
		}
	}

	for i, m := range f.models {
		if resetAt, open := f.circuits[i].isOpenWithReset(now); open {
			zap.L().Debug("skipping model, circuit open",
				zap.String("model", f.names[i]), zap.Time("reset_at", resetAt))
			noteReset(resetAt)
			continue
		}

		out, err := m.Complete(ctx, prompt, format)
		if err == nil {
			return out, nil
		}

		zap.L().Warn("model failed", zap.String("model", f.names[i]), zap.Error(err))
		lastErr = err
		if ctx.Err() != nil {
			return "", eris.Wrap(err, "model call cancelled")
		}

		var rlErr *RateLimitError
		if errors.As(err, &rlErr) {
			resetAt := now.Add(rlErr.RetryAfter)
			f.circuits[i].open(resetAt)
			noteReset(resetAt)
		} else {
			allRateLimited = false
		}
	}

	if lastErr == nil || allRateLimited {
		retryAfter := earliestReset.Sub(f.now())
		if retryAfter < time.Second {
			retryAfter = time.Second
		}
		return "", NewRateLimitError("all", errors.New("all models rate limited"), int(retryAfter.Seconds()))
	}
	return "", eris.Wrap(lastErr, "all models failed")
}
