package fleet

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/preston-bernstein/nhl-notifier/internal/config"
	"github.com/preston-bernstein/nhl-notifier/internal/domain/games"
	"github.com/preston-bernstein/nhl-notifier/internal/domain/teams"
	"github.com/preston-bernstein/nhl-notifier/internal/game"
	"github.com/preston-bernstein/nhl-notifier/internal/messaging"
	"github.com/preston-bernstein/nhl-notifier/internal/teststubs"
	"github.com/preston-bernstein/nhl-notifier/internal/testutil"
)

func scheduleGame(id int64, home, away int) games.ScheduleGame {
	return games.ScheduleGame{
		ID:        id,
		StartTime: time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC),
		Type:      games.TypeRegular,
		Home:      games.ScheduleTeam{ID: home, Name: fmt.Sprintf("Team %d", home)},
		Away:      games.ScheduleTeam{ID: away, Name: fmt.Sprintf("Team %d", away)},
	}
}

func quickGame() []teststubs.ContentStep {
	return []teststubs.ContentStep{{Content: games.Content{
		Preview:        &games.Preview{Subhead: "tonight"},
		StreamStarted:  true,
		MilestoneItems: []games.MilestoneItem{{Type: games.MilestoneBroadcastEnd}},
	}}}
}

type fixture struct {
	runner    *Runner
	provider  *teststubs.StubProvider
	messenger *teststubs.StubMessenger
	logs      *bytes.Buffer
}

func newFixture(t *testing.T, schedule games.Schedule, subs []config.Subscription) fixture {
	t.Helper()
	provider := &teststubs.StubProvider{
		Schedule: schedule,
		Teams: map[int]teams.Team{
			8:  {ID: 8, Name: "Montréal Canadiens", TeamName: "Canadiens", Abbreviation: "MTL"},
			10: {ID: 10, Name: "Toronto Maple Leafs", TeamName: "Maple Leafs", Abbreviation: "TOR"},
			3:  {ID: 3, Name: "New York Rangers", TeamName: "Rangers", Abbreviation: "NYR"},
		},
		Contents: map[int64][]teststubs.ContentStep{},
	}
	for _, g := range schedule.Games {
		provider.Contents[g.ID] = quickGame()
	}
	messenger := &teststubs.StubMessenger{}
	logger, logs := testutil.NewBufferLogger()
	notifier := messaging.NewBroadcaster(messenger, "+15550000000", logger, nil)
	runner := NewRunner(provider, notifier, NewIndex(subs), game.Config{
		Location:          time.UTC,
		ScheduledInterval: time.Millisecond,
		LiveInterval:      time.Millisecond,
	}, logger, nil)
	return fixture{runner: runner, provider: provider, messenger: messenger, logs: logs}
}

func TestRunRunsSubscribedGamesAndIsolatesFailures(t *testing.T) {
	schedule := games.Schedule{
		Date: "2024-03-01",
		Games: []games.ScheduleGame{
			scheduleGame(1, 8, 10),
			scheduleGame(2, 20, 21),
			scheduleGame(3, 3, 4),
		},
	}
	f := newFixture(t, schedule, []config.Subscription{
		{Team: 8, Numbers: []string{"+15550000001", "+15550000002"}},
		{Team: 10, Numbers: []string{"+15550000002", "+15550000003"}},
		{Team: 3, Numbers: []string{"+15550000004"}},
	})

	summary, err := f.runner.Run(context.Background(), "")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := Summary{Date: "2024-03-01", Games: 3, Teams: 3, Subscribable: 2, Completed: 1, Failed: 1}
	if summary != want {
		t.Fatalf("expected %+v, got %+v", want, summary)
	}

	if f.provider.ContentCalls(2) != 0 {
		t.Fatalf("unsubscribed game must not be polled")
	}
	if f.provider.ContentCalls(3) != 0 {
		t.Fatalf("game with failed team lookup must not be polled")
	}

	perRecipient := map[string]int{}
	for _, m := range f.messenger.Sent() {
		perRecipient[m.To]++
	}
	for _, n := range []string{"+15550000001", "+15550000002", "+15550000003"} {
		if perRecipient[n] != 2 {
			t.Fatalf("expected preview and final for %s, got %d messages", n, perRecipient[n])
		}
	}
	if perRecipient["+15550000004"] != 0 {
		t.Fatalf("expected no messages for the failed game")
	}
}

func TestRunScheduleFailure(t *testing.T) {
	f := newFixture(t, games.Schedule{}, nil)
	f.provider.ScheduleErr = errors.New("feed down")

	if _, err := f.runner.Run(context.Background(), ""); err == nil || !strings.Contains(err.Error(), "feed down") {
		t.Fatalf("expected schedule error, got %v", err)
	}
}

func TestRunEmptySchedule(t *testing.T) {
	f := newFixture(t, games.Schedule{Date: "2024-07-01"}, []config.Subscription{{Team: 8, Numbers: []string{"+1"}}})

	summary, err := f.runner.Run(context.Background(), "2024-07-01")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if summary.Games != 0 || summary.Subscribable != 0 || len(f.messenger.Sent()) != 0 {
		t.Fatalf("expected an idle day, got %+v", summary)
	}
}

func TestRunCancelledStopsGamesWithoutFinal(t *testing.T) {
	schedule := games.Schedule{Date: "2024-03-01", Games: []games.ScheduleGame{scheduleGame(1, 8, 10)}}
	f := newFixture(t, schedule, []config.Subscription{{Team: 8, Numbers: []string{"+15550000001"}}})
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	summary, err := f.runner.Run(ctx, "")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if summary.Stopped != 1 || summary.Completed != 0 || summary.Failed != 0 {
		t.Fatalf("expected one stopped game, got %+v", summary)
	}
	for _, m := range f.messenger.Sent() {
		if strings.Contains(m.Body, "Final score") {
			t.Fatalf("unexpected final message after cancellation")
		}
	}
}

func TestRunReportsRetriedPolls(t *testing.T) {
	schedule := games.Schedule{Date: "2024-03-01", Games: []games.ScheduleGame{scheduleGame(1, 8, 10)}}
	f := newFixture(t, schedule, []config.Subscription{{Team: 10, Numbers: []string{"+15550000003"}}})
	f.provider.Contents[1] = append([]teststubs.ContentStep{
		{Err: errors.New("feed down")},
		{Err: errors.New("feed still down")},
	}, quickGame()...)

	summary, err := f.runner.Run(context.Background(), "")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if summary.Completed != 1 || summary.FailedTicks != 2 {
		t.Fatalf("expected one completed game with 2 failed ticks, got %+v", summary)
	}
	out := f.logs.String()
	if !strings.Contains(out, "game finished") || !strings.Contains(out, "failed_ticks=2") {
		t.Fatalf("expected game health in logs, got %s", out)
	}
}
