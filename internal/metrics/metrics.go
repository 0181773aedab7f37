package metrics

import (
	"sync"
	"time"
)

type providerStats struct {
	calls           int
	errors          int
	rateLimitHits   int
	lastRetryAfter  time.Duration
	lastCallLatency time.Duration
}

type notificationStats struct {
	sent   int
	failed int
}

// Recorder captures lightweight, in-memory metrics about provider calls,
// poll cycles and notifications, and mirrors them to OpenTelemetry when set up.
// A nil Recorder is valid and records nothing.
type Recorder struct {
	mu            sync.Mutex
	stats         map[string]*providerStats
	notifications map[string]*notificationStats
	pollCycles    map[string]int
	goalsAdded    int
	goalsRemoved  int
	otel          *otelInstruments
}

func NewRecorder() *Recorder {
	return newRecorder(nil)
}

func newRecorder(otel *otelInstruments) *Recorder {
	return &Recorder{
		stats:         make(map[string]*providerStats),
		notifications: make(map[string]*notificationStats),
		pollCycles:    make(map[string]int),
		otel:          otel,
	}
}

// RecordProviderAttempt increments counters for a provider call and stores the last observed latency.
func (r *Recorder) RecordProviderAttempt(provider string, duration time.Duration, err error) {
	if r == nil {
		return
	}

	r.mu.Lock()
	stats := r.ensureStats(provider)
	stats.calls++
	stats.lastCallLatency = duration
	if err != nil {
		stats.errors++
	}
	r.mu.Unlock()

	if r.otel != nil {
		r.otel.recordProviderAttempt(provider, duration, err)
	}
}

// RecordRateLimit tracks that a provider response hit a rate limit and stores the last Retry-After.
func (r *Recorder) RecordRateLimit(provider string, retryAfter time.Duration) {
	if r == nil {
		return
	}

	r.mu.Lock()
	stats := r.ensureStats(provider)
	stats.rateLimitHits++
	if retryAfter > 0 {
		stats.lastRetryAfter = retryAfter
	}
	r.mu.Unlock()

	if r.otel != nil {
		r.otel.recordRateLimit(provider, retryAfter)
	}
}

// RecordPollCycle tracks one orchestrator tick in the given lifecycle status.
func (r *Recorder) RecordPollCycle(status string, duration time.Duration, err error) {
	if r == nil {
		return
	}

	r.mu.Lock()
	r.pollCycles[status]++
	r.mu.Unlock()

	if r.otel != nil {
		r.otel.recordPoll(status, duration, err)
	}
}

// RecordNotification tracks per-recipient delivery outcomes for one notification kind.
func (r *Recorder) RecordNotification(kind string, sent, failed int) {
	if r == nil {
		return
	}

	r.mu.Lock()
	stats, ok := r.notifications[kind]
	if !ok {
		stats = &notificationStats{}
		r.notifications[kind] = stats
	}
	stats.sent += sent
	stats.failed += failed
	r.mu.Unlock()

	if r.otel != nil {
		r.otel.recordNotification(kind, sent, failed)
	}
}

// RecordGoalChanges tracks goals added and retracted by one poll.
func (r *Recorder) RecordGoalChanges(added, removed int) {
	if r == nil {
		return
	}

	r.mu.Lock()
	r.goalsAdded += added
	r.goalsRemoved += removed
	r.mu.Unlock()

	if r.otel != nil {
		r.otel.recordGoalChanges(added, removed)
	}
}

// ProviderCalls returns the total attempts recorded for a provider.
func (r *Recorder) ProviderCalls(provider string) int {
	return r.Snapshot(provider).Calls
}

// ProviderErrors returns the total failed attempts recorded for a provider.
func (r *Recorder) ProviderErrors(provider string) int {
	return r.Snapshot(provider).Errors
}

// RateLimitHits returns the number of rate limit events seen for a provider.
func (r *Recorder) RateLimitHits(provider string) int {
	return r.Snapshot(provider).RateLimitHits
}

// NotificationsSent returns successful deliveries recorded for a kind.
func (r *Recorder) NotificationsSent(kind string) int {
	if r == nil {
		return 0
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if stats, ok := r.notifications[kind]; ok {
		return stats.sent
	}
	return 0
}

// NotificationsFailed returns failed deliveries recorded for a kind.
func (r *Recorder) NotificationsFailed(kind string) int {
	if r == nil {
		return 0
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if stats, ok := r.notifications[kind]; ok {
		return stats.failed
	}
	return 0
}

// PollCycles returns the number of ticks recorded for a status.
func (r *Recorder) PollCycles(status string) int {
	if r == nil {
		return 0
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.pollCycles[status]
}

// GoalChanges returns the totals of added and retracted goals.
func (r *Recorder) GoalChanges() (added, removed int) {
	if r == nil {
		return 0, 0
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.goalsAdded, r.goalsRemoved
}

// Snapshot returns a copy of the current stats for the provider.
type Snapshot struct {
	Calls           int
	Errors          int
	RateLimitHits   int
	LastRetryAfter  time.Duration
	LastCallLatency time.Duration
}

func (r *Recorder) Snapshot(provider string) Snapshot {
	if r == nil {
		return Snapshot{}
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	stats, ok := r.stats[provider]
	if !ok || stats == nil {
		return Snapshot{}
	}
	return Snapshot{
		Calls:           stats.calls,
		Errors:          stats.errors,
		RateLimitHits:   stats.rateLimitHits,
		LastRetryAfter:  stats.lastRetryAfter,
		LastCallLatency: stats.lastCallLatency,
	}
}

// ensureStats must be called with r.mu held.
func (r *Recorder) ensureStats(provider string) *providerStats {
	stats, ok := r.stats[provider]
	if !ok {
		stats = &providerStats{}
		r.stats[provider] = stats
	}
	return stats
}
