package messaging

import (
	"context"

	"golang.org/x/time/rate"
)

// RateLimited paces sends across every game sharing one provider account.
type RateLimited struct {
	inner   Messenger
	limiter *rate.Limiter
}

// NewRateLimited wraps inner with a token bucket of perSecond sends.
// A non-positive rate disables limiting.
func NewRateLimited(inner Messenger, perSecond float64) Messenger {
	if perSecond <= 0 {
		return inner
	}
	burst := int(perSecond)
	if burst < 1 {
		burst = 1
	}
	return &RateLimited{
		inner:   inner,
		limiter: rate.NewLimiter(rate.Limit(perSecond), burst),
	}
}

// SendMessage waits for a token, then delegates.
func (r *RateLimited) SendMessage(ctx context.Context, from, to, body string) (Status, error) {
	if err := r.limiter.Wait(ctx); err != nil {
		return StatusFailed, err
	}
	return r.inner.SendMessage(ctx, from, to, body)
}
