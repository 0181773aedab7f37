package providers

import (
	"context"
	"log/slog"
	"time"

	"github.com/cenkalti/backoff/v4"

	"github.com/preston-bernstein/nhl-notifier/internal/domain/games"
	"github.com/preston-bernstein/nhl-notifier/internal/domain/teams"
	"github.com/preston-bernstein/nhl-notifier/internal/metrics"
)

const (
	defaultRetryAttempts = 3
	defaultBackoff       = 200 * time.Millisecond
	maxBackoff           = 5 * time.Second
)

// retryingProvider wraps a StatsProvider with retry/backoff behavior and
// records every attempt on the metrics recorder.
type retryingProvider struct {
	inner        StatsProvider
	logger       *slog.Logger
	metrics      *metrics.Recorder
	providerName string
	maxAttempts  int
	newBackOff   func() backoff.BackOff
}

// NewRetryingProvider wraps the given provider with retries. If maxAttempts/initial are <= 0, defaults are used.
func NewRetryingProvider(inner StatsProvider, logger *slog.Logger, recorder *metrics.Recorder, providerName string, maxAttempts int, initial time.Duration) StatsProvider {
	if maxAttempts <= 0 {
		maxAttempts = defaultRetryAttempts
	}
	if initial <= 0 {
		initial = defaultBackoff
	}
	if providerName == "" {
		providerName = "provider"
	}
	return &retryingProvider{
		inner:        inner,
		logger:       logger,
		metrics:      recorder,
		providerName: providerName,
		maxAttempts:  maxAttempts,
		newBackOff: func() backoff.BackOff {
			b := backoff.NewExponentialBackOff()
			b.InitialInterval = initial
			b.MaxInterval = maxBackoff
			b.MaxElapsedTime = 0
			return b
		},
	}
}

func (r *retryingProvider) FetchTeam(ctx context.Context, id int) (teams.Team, error) {
	return withRetry(ctx, r, "team", func(ctx context.Context) (teams.Team, error) {
		return r.inner.FetchTeam(ctx, id)
	})
}

func (r *retryingProvider) FetchSchedule(ctx context.Context, date string) (games.Schedule, error) {
	return withRetry(ctx, r, "schedule", func(ctx context.Context) (games.Schedule, error) {
		return r.inner.FetchSchedule(ctx, date)
	})
}

func (r *retryingProvider) FetchGameContent(ctx context.Context, gameID int64) (games.Content, error) {
	return withRetry(ctx, r, "content", func(ctx context.Context) (games.Content, error) {
		return r.inner.FetchGameContent(ctx, gameID)
	})
}

func withRetry[T any](ctx context.Context, r *retryingProvider, op string, fn func(context.Context) (T, error)) (T, error) {
	if r.inner == nil {
		var zero T
		return zero, ErrProviderUnavailable
	}

	policy := &retryAfterBackOff{BackOff: r.newBackOff()}
	bounded := backoff.WithContext(backoff.WithMaxRetries(policy, uint64(r.maxAttempts-1)), ctx)

	attempt := 0
	operation := func() (T, error) {
		attempt++
		start := time.Now()
		out, err := fn(ctx)
		r.metrics.RecordProviderAttempt(r.providerName, time.Since(start), err)
		if err == nil {
			return out, nil
		}
		if rlErr, ok := AsRateLimitError(err); ok {
			r.metrics.RecordRateLimit(r.providerName, rlErr.RetryAfter)
			policy.override = rlErr.RetryAfter
		}
		if IsPermanent(err) {
			return out, backoff.Permanent(err)
		}
		return out, err
	}
	notify := func(err error, next time.Duration) {
		logWithProvider(ctx, r.logger, slog.LevelWarn, r.providerName, "provider fetch retry",
			"op", op, "attempt", attempt, "max_attempts", r.maxAttempts, "next_ms", next.Milliseconds(), "error", err)
	}

	out, err := backoff.RetryNotifyWithData(operation, bounded, notify)
	if err != nil {
		logWithProvider(ctx, r.logger, slog.LevelWarn, r.providerName, "provider fetch failed",
			"op", op, "attempts", attempt, "error", err)
	}
	return out, err
}

// retryAfterBackOff prefers an upstream Retry-After hint over the wrapped policy for one step.
type retryAfterBackOff struct {
	backoff.BackOff
	override time.Duration
}

func (b *retryAfterBackOff) NextBackOff() time.Duration {
	next := b.BackOff.NextBackOff()
	if b.override > 0 && next != backoff.Stop {
		next = b.override
	}
	b.override = 0
	return next
}
