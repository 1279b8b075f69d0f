package llm

import (
	"context"
	"time"

	"github.com/rotisserie/eris"
	"golang.org/x/time/rate"

	"draftwise/internal/port"
)

// RateLimited spaces calls to the wrapped model with a token bucket.
type RateLimited struct {
	model   port.TextModel
	limiter *rate.Limiter
}

// NewRateLimited allows requestsPerMinute calls per minute with a burst of
// one. A non-positive rate disables limiting.
func NewRateLimited(model port.TextModel, requestsPerMinute int) *RateLimited {
	limit := rate.Inf
	if requestsPerMinute > 0 {
		limit = rate.Every(time.Minute / time.Duration(requestsPerMinute))
	}
	return &RateLimited{model: model, limiter: rate.NewLimiter(limit, 1)}
}

func (r *RateLimited) Complete(ctx context.Context, prompt string, format port.ResponseFormat) (string, error) {
	if err := r.limiter.Wait(ctx); err != nil {
		return "", eris.Wrap(err, "rate limiter wait")
	}
	return r.model.Complete(ctx, prompt, format)
}
