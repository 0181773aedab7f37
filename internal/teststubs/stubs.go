package teststubs

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"

	"github.com/preston-bernstein/nhl-notifier/internal/domain/games"
	"github.com/preston-bernstein/nhl-notifier/internal/domain/teams"
	"github.com/preston-bernstein/nhl-notifier/internal/messaging"
	"github.com/preston-bernstein/nhl-notifier/internal/providers"
)

// ContentStep is one scripted answer of StubProvider.FetchGameContent.
type ContentStep struct {
	Content games.Content
	Err     error
}

// StubProvider is a test double for providers.StatsProvider.
// Content answers are served in order per game; the last one repeats.
type StubProvider struct {
	Teams       map[int]teams.Team
	TeamErr     error
	Schedule    games.Schedule
	ScheduleErr error
	Contents    map[int64][]ContentStep

	ScheduleCalls atomic.Int32
	TeamCalls     atomic.Int32

	mu           sync.Mutex
	contentCalls map[int64]int
}

// FetchTeam returns the configured team or TeamErr.
func (s *StubProvider) FetchTeam(ctx context.Context, id int) (teams.Team, error) {
	_ = ctx
	s.TeamCalls.Add(1)
	if s.TeamErr != nil {
		return teams.Team{}, s.TeamErr
	}
	team, ok := s.Teams[id]
	if !ok {
		return teams.Team{}, fmt.Errorf("team %d: %w", id, providers.ErrNotFound)
	}
	return team, nil
}

// FetchSchedule returns the configured schedule and error while tracking calls.
func (s *StubProvider) FetchSchedule(ctx context.Context, date string) (games.Schedule, error) {
	_ = ctx
	_ = date
	s.ScheduleCalls.Add(1)
	return s.Schedule, s.ScheduleErr
}

// FetchGameContent serves the next scripted step for gameID.
func (s *StubProvider) FetchGameContent(ctx context.Context, gameID int64) (games.Content, error) {
	_ = ctx
	s.mu.Lock()
	defer s.mu.Unlock()

	steps := s.Contents[gameID]
	if len(steps) == 0 {
		return games.Content{}, fmt.Errorf("game %d: %w", gameID, providers.ErrNotFound)
	}
	if s.contentCalls == nil {
		s.contentCalls = make(map[int64]int)
	}
	idx := s.contentCalls[gameID]
	s.contentCalls[gameID]++
	if idx >= len(steps) {
		idx = len(steps) - 1
	}
	return steps[idx].Content, steps[idx].Err
}

// ContentCalls reports how many content fetches gameID has received.
func (s *StubProvider) ContentCalls(gameID int64) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.contentCalls[gameID]
}

// SentMessage is one message captured by StubMessenger.
type SentMessage struct {
	From string
	To   string
	Body string
}

// StubMessenger is a test double for messaging.Messenger.
type StubMessenger struct {
	// Status is returned for successful sends; empty means "queued".
	Status messaging.Status
	// FailFor maps a recipient to the error its sends return.
	FailFor map[string]error

	mu   sync.Mutex
	sent []SentMessage
}

// SendMessage records the message and answers according to the stub configuration.
func (m *StubMessenger) SendMessage(ctx context.Context, from, to, body string) (messaging.Status, error) {
	_ = ctx
	m.mu.Lock()
	defer m.mu.Unlock()

	if err, ok := m.FailFor[to]; ok {
		return messaging.StatusFailed, err
	}
	m.sent = append(m.sent, SentMessage{From: from, To: to, Body: body})
	if m.Status == "" {
		return messaging.StatusQueued, nil
	}
	return m.Status, nil
}

// Sent returns a copy of every recorded message.
func (m *StubMessenger) Sent() []SentMessage {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]SentMessage, len(m.sent))
	copy(out, m.sent)
	return out
}

// SetFailure makes sends to recipient fail with err; a nil err clears it.
func (m *StubMessenger) SetFailure(recipient string, err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err == nil {
		delete(m.FailFor, recipient)
		return
	}
	if m.FailFor == nil {
		m.FailFor = make(map[string]error)
	}
	m.FailFor[recipient] = err
}
