package providers

import (
	"context"

	"github.com/preston-bernstein/nhl-notifier/internal/domain/games"
	"github.com/preston-bernstein/nhl-notifier/internal/domain/teams"
)

// TeamProvider looks up a single team.
type TeamProvider interface {
	FetchTeam(ctx context.Context, id int) (teams.Team, error)
}

// ScheduleProvider fetches one day's schedule.
// The date parameter, when provided, should be a YYYY-MM-DD string.
// Providers should interpret an empty date as "today" in their configured timezone.
type ScheduleProvider interface {
	FetchSchedule(ctx context.Context, date string) (games.Schedule, error)
}

// ContentProvider fetches the live content feed of one game.
type ContentProvider interface {
	FetchGameContent(ctx context.Context, gameID int64) (games.Content, error)
}

// StatsProvider combines all stats feed capabilities.
type StatsProvider interface {
	TeamProvider
	ScheduleProvider
	ContentProvider
}
