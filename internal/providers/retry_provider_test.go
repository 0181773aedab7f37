package providers

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/cenkalti/backoff/v4"

	"github.com/preston-bernstein/nhl-notifier/internal/domain/games"
	"github.com/preston-bernstein/nhl-notifier/internal/domain/teams"
	"github.com/preston-bernstein/nhl-notifier/internal/metrics"
)

type flakeyProvider struct {
	failures int
	err      error
	calls    int
}

func (f *flakeyProvider) next() error {
	f.calls++
	if f.calls <= f.failures {
		if f.err != nil {
			return f.err
		}
		return errors.New("boom")
	}
	return nil
}

func (f *flakeyProvider) FetchTeam(ctx context.Context, id int) (teams.Team, error) {
	if err := f.next(); err != nil {
		return teams.Team{}, err
	}
	return teams.Team{ID: id, Name: "Boston Bruins"}, nil
}

func (f *flakeyProvider) FetchSchedule(ctx context.Context, date string) (games.Schedule, error) {
	if err := f.next(); err != nil {
		return games.Schedule{}, err
	}
	return games.Schedule{Date: "2024-01-02", Games: []games.ScheduleGame{{ID: 1}}}, nil
}

func (f *flakeyProvider) FetchGameContent(ctx context.Context, gameID int64) (games.Content, error) {
	if err := f.next(); err != nil {
		return games.Content{}, err
	}
	return games.Content{StreamStarted: true}, nil
}

func newTestRetrying(inner StatsProvider, rec *metrics.Recorder, attempts int) *retryingProvider {
	rp := NewRetryingProvider(inner, nil, rec, "flakey", attempts, time.Millisecond).(*retryingProvider)
	rp.newBackOff = func() backoff.BackOff { return &backoff.ZeroBackOff{} }
	return rp
}

func TestRetryingProviderRetriesAndSucceeds(t *testing.T) {
	fp := &flakeyProvider{failures: 2}
	rec := metrics.NewRecorder()
	rp := newTestRetrying(fp, rec, 3)

	schedule, err := rp.FetchSchedule(context.Background(), "")
	if err != nil {
		t.Fatalf("expected success, got error %v", err)
	}
	if len(schedule.Games) != 1 {
		t.Fatalf("unexpected schedule %+v", schedule)
	}
	if fp.calls != 3 {
		t.Fatalf("expected 3 attempts, got %d", fp.calls)
	}
	if rec.ProviderCalls("flakey") != 3 || rec.ProviderErrors("flakey") != 2 {
		t.Fatalf("unexpected metrics %+v", rec.Snapshot("flakey"))
	}
}

func TestRetryingProviderStopsAfterMaxAttempts(t *testing.T) {
	fp := &flakeyProvider{failures: 5}
	rp := newTestRetrying(fp, nil, 2)

	_, err := rp.FetchTeam(context.Background(), 6)
	if err == nil {
		t.Fatal("expected error after retries")
	}
	if fp.calls != 2 {
		t.Fatalf("expected 2 attempts, got %d", fp.calls)
	}
}

func TestRetryingProviderDoesNotRetryPermanentErrors(t *testing.T) {
	fp := &flakeyProvider{failures: 5, err: &StatusError{Provider: "flakey", StatusCode: 404}}
	rp := newTestRetrying(fp, nil, 3)

	_, err := rp.FetchGameContent(context.Background(), 2019020001)
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected not found error, got %v", err)
	}
	if fp.calls != 1 {
		t.Fatalf("expected a single attempt, got %d", fp.calls)
	}
}

func TestRetryingProviderRespectsContextCancel(t *testing.T) {
	fp := &flakeyProvider{failures: 5}
	rp := NewRetryingProvider(fp, nil, nil, "flakey", 3, time.Hour)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := rp.FetchGameContent(ctx, 1)
	if err == nil {
		t.Fatal("expected context error")
	}
	if fp.calls != 1 {
		t.Fatalf("expected no retries after cancel, got %d calls", fp.calls)
	}
}

func TestRetryingProviderRecordsRateLimitMetrics(t *testing.T) {
	fp := &flakeyProvider{failures: 1, err: &RateLimitError{Provider: "flakey", StatusCode: 429, RetryAfter: time.Millisecond}}
	rec := metrics.NewRecorder()
	rp := newTestRetrying(fp, rec, 2)

	content, err := rp.FetchGameContent(context.Background(), 1)
	if err != nil {
		t.Fatalf("expected success after retry, got %v", err)
	}
	if !content.StreamStarted {
		t.Fatalf("unexpected content %+v", content)
	}
	if got := rec.RateLimitHits("flakey"); got != 1 {
		t.Fatalf("expected 1 rate limit hit, got %d", got)
	}
}

func TestRetryAfterBackOffPrefersHint(t *testing.T) {
	b := &retryAfterBackOff{BackOff: backoff.NewConstantBackOff(50 * time.Millisecond)}
	b.override = 3 * time.Second

	if got := b.NextBackOff(); got != 3*time.Second {
		t.Fatalf("expected retry-after delay, got %s", got)
	}
	if got := b.NextBackOff(); got != 50*time.Millisecond {
		t.Fatalf("expected policy delay once hint is consumed, got %s", got)
	}
}

func TestNewRetryingProviderDefaults(t *testing.T) {
	rp := NewRetryingProvider(nil, nil, nil, "", 0, 0).(*retryingProvider)
	if rp.providerName != "provider" {
		t.Fatalf("expected fallback provider name, got %s", rp.providerName)
	}
	if rp.maxAttempts != defaultRetryAttempts {
		t.Fatalf("expected default attempts, got %d", rp.maxAttempts)
	}
	if _, err := rp.FetchTeam(context.Background(), 1); !errors.Is(err, ErrProviderUnavailable) {
		t.Fatalf("expected unavailable error for nil inner provider, got %v", err)
	}
}
