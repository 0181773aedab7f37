package fixture

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/preston-bernstein/nhl-notifier/internal/domain/games"
	"github.com/preston-bernstein/nhl-notifier/internal/domain/teams"
	"github.com/preston-bernstein/nhl-notifier/internal/providers"
	"github.com/preston-bernstein/nhl-notifier/internal/timeutil"
)

// GameID is the id of the single scripted game.
const GameID int64 = 2019020052

var (
	homeTeam = teams.Team{ID: 8, Name: "Montréal Canadiens", TeamName: "Canadiens", ShortName: "Montréal", LocationName: "Montréal", Abbreviation: "MTL"}
	awayTeam = teams.Team{ID: 10, Name: "Toronto Maple Leafs", TeamName: "Maple Leafs", ShortName: "Toronto", LocationName: "Toronto", Abbreviation: "TOR"}
)

// Provider replays a scripted game for local runs and end-to-end tests.
// Each content fetch advances the script by one step; the last step repeats.
type Provider struct {
	now func() time.Time

	mu   sync.Mutex
	step int
}

// New creates a fixture provider with a time source.
func New() *Provider {
	return &Provider{
		now: time.Now,
	}
}

// FetchTeam returns one of the two scripted teams.
func (p *Provider) FetchTeam(ctx context.Context, id int) (teams.Team, error) {
	_ = ctx
	switch id {
	case homeTeam.ID:
		return homeTeam, nil
	case awayTeam.ID:
		return awayTeam, nil
	default:
		return teams.Team{}, fmt.Errorf("fixture: team %d: %w", id, providers.ErrNotFound)
	}
}

// FetchSchedule returns a single game starting shortly after now.
func (p *Provider) FetchSchedule(ctx context.Context, date string) (games.Schedule, error) {
	_ = ctx

	start := p.now().UTC().Truncate(time.Minute)
	if date == "" {
		date = timeutil.FormatDate(start)
	}

	return games.Schedule{
		Date: date,
		Games: []games.ScheduleGame{
			{
				ID:        GameID,
				StartTime: start,
				Type:      games.TypeRegular,
				Season:    "20192020",
				Home:      games.ScheduleTeam{ID: homeTeam.ID, Name: homeTeam.Name},
				Away:      games.ScheduleTeam{ID: awayTeam.ID, Name: awayTeam.Name},
			},
		},
	}, nil
}

// FetchGameContent returns the next step of the script.
func (p *Provider) FetchGameContent(ctx context.Context, gameID int64) (games.Content, error) {
	_ = ctx
	if gameID != GameID {
		return games.Content{}, fmt.Errorf("fixture: game %d: %w", gameID, providers.ErrNotFound)
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	script := Script()
	idx := p.step
	if idx >= len(script) {
		idx = len(script) - 1
	} else {
		p.step++
	}
	return script[idx], nil
}

// Script is the sequence of content documents served for the fixture game:
// preview, stream start, an away goal, a home goal, that goal retracted while
// the first goal gains a highlight, a home goal and a late home winner with
// the broadcast end.
func Script() []games.Content {
	preview := &games.Preview{
		Headline: "Leafs visit Canadiens",
		Subhead:  "Original Six rivals meet on Saturday night",
	}
	start := games.MilestoneItem{Type: games.MilestoneBroadcastStart, Title: "Broadcast Start"}
	end := games.MilestoneItem{Type: games.MilestoneBroadcastEnd, Title: "Broadcast End"}

	matthews := games.MilestoneItem{
		Type:         games.MilestoneGoal,
		Description:  "Auston Matthews (1) Wrist Shot, assists: Mitchell Marner (1)",
		Period:       "1",
		OrdinalNum:   "1st",
		PeriodTime:   "05:00",
		TeamID:       "10",
		StatsEventID: "101",
	}
	matthewsWithClip := matthews
	matthewsWithClip.Highlight = &games.Highlight{
		ID:          "70001",
		Title:       "Matthews opens scoring",
		Description: "Auston Matthews snaps one home from the slot",
		Playbacks: []games.Playback{
			{Name: "FLASH_450K_400x224", URL: "https://fixture.invalid/70001_450K.mp4"},
			{Name: "FLASH_1800K_896x504", URL: "https://fixture.invalid/70001_1800K.mp4"},
		},
	}
	gallagher := games.MilestoneItem{
		Type:         games.MilestoneGoal,
		Description:  "Brendan Gallagher (1) Tip-In",
		Period:       "2",
		OrdinalNum:   "2nd",
		PeriodTime:   "12:30",
		TeamID:       "8",
		StatsEventID: "202",
	}
	suzuki := games.MilestoneItem{
		Type:         games.MilestoneGoal,
		Description:  "Nick Suzuki (1) Snap Shot",
		Period:       "3",
		OrdinalNum:   "3rd",
		PeriodTime:   "18:00",
		TeamID:       "8",
		StatsEventID: "303",
	}

	caufield := games.MilestoneItem{
		Type:         games.MilestoneGoal,
		Description:  "Cole Caufield (1) Wrist Shot, assists: Nick Suzuki (1)",
		Period:       "3",
		OrdinalNum:   "3rd",
		PeriodTime:   "19:10",
		TeamID:       "8",
		StatsEventID: "304",
	}

	return []games.Content{
		{Preview: preview},
		{Preview: preview, StreamStarted: true, MilestoneItems: []games.MilestoneItem{start}},
		{Preview: preview, StreamStarted: true, MilestoneItems: []games.MilestoneItem{start, matthews}},
		{Preview: preview, StreamStarted: true, MilestoneItems: []games.MilestoneItem{start, matthews, gallagher}},
		{Preview: preview, StreamStarted: true, MilestoneItems: []games.MilestoneItem{start, matthewsWithClip}},
		{Preview: preview, StreamStarted: true, MilestoneItems: []games.MilestoneItem{start, matthewsWithClip, suzuki}},
		{Preview: preview, StreamStarted: true, MilestoneItems: []games.MilestoneItem{start, matthewsWithClip, suzuki, caufield, end}},
	}
}
