package statsapi

import (
	"github.com/preston-bernstein/nhl-notifier/internal/domain/games"
	"github.com/preston-bernstein/nhl-notifier/internal/domain/teams"
)

func mapTeam(t teamResponse) teams.Team {
	return teams.Team{
		ID:           t.ID,
		Name:         t.Name,
		TeamName:     t.TeamName,
		ShortName:    t.ShortName,
		LocationName: t.LocationName,
		Abbreviation: t.Abbreviation,
	}
}

func mapSchedule(requested string, resp scheduleResponse) games.Schedule {
	schedule := games.Schedule{Date: requested}
	if len(resp.Dates) == 0 {
		return schedule
	}
	day := resp.Dates[0]
	if day.Date != "" {
		schedule.Date = day.Date
	}
	schedule.Games = make([]games.ScheduleGame, 0, len(day.Games))
	for _, g := range day.Games {
		schedule.Games = append(schedule.Games, mapScheduleGame(g))
	}
	return schedule
}

func mapScheduleGame(g scheduleGameResponse) games.ScheduleGame {
	return games.ScheduleGame{
		ID:        g.GamePk,
		StartTime: g.GameDate.UTC(),
		Type:      games.GameType(g.GameType),
		Season:    g.Season,
		Home:      games.ScheduleTeam{ID: g.Teams.Home.Team.ID, Name: g.Teams.Home.Team.Name},
		Away:      games.ScheduleTeam{ID: g.Teams.Away.Team.ID, Name: g.Teams.Away.Team.Name},
	}
}

func mapContent(c contentResponse) games.Content {
	content := games.Content{
		StreamStarted: c.Media.Milestones.StreamStart != "",
	}
	if items := c.Media.Milestones.Items; items != nil {
		content.MilestoneItems = make([]games.MilestoneItem, 0, len(items))
		for _, item := range items {
			content.MilestoneItems = append(content.MilestoneItems, mapMilestoneItem(item))
		}
	}
	if previews := c.Editorial.Preview.Items; len(previews) > 0 {
		content.Preview = &games.Preview{
			Headline: previews[0].Headline,
			Subhead:  previews[0].Subhead,
		}
	}
	return content
}

func mapMilestoneItem(item milestoneItemResponse) games.MilestoneItem {
	return games.MilestoneItem{
		Type:         item.Type,
		Title:        item.Title,
		Description:  item.Description,
		Period:       string(item.Period),
		OrdinalNum:   item.OrdinalNum,
		PeriodTime:   item.PeriodTime,
		TeamID:       string(item.TeamID),
		StatsEventID: string(item.StatsEventID),
		Highlight:    mapHighlight(item.Highlight),
	}
}

// mapHighlight drops the empty placeholder object the feed sends before a clip exists.
func mapHighlight(h *highlightResponse) *games.Highlight {
	if h == nil || (h.ID == "" && len(h.Playbacks) == 0) {
		return nil
	}
	out := &games.Highlight{
		ID:          string(h.ID),
		Title:       h.Title,
		Description: h.Description,
	}
	for _, p := range h.Playbacks {
		out.Playbacks = append(out.Playbacks, games.Playback{Name: p.Name, URL: p.URL})
	}
	return out
}
