// Package game owns the per-game notification state machine.
package game

import (
	"time"

	"github.com/preston-bernstein/nhl-notifier/internal/domain/games"
	"github.com/preston-bernstein/nhl-notifier/internal/domain/teams"
	"github.com/preston-bernstein/nhl-notifier/internal/goals"
)

// Status is the lifecycle phase of a game. Transitions only move forward.
type Status int

const (
	StatusScheduled Status = iota
	StatusLive
	StatusEnded
)

func (s Status) String() string {
	switch s {
	case StatusScheduled:
		return "scheduled"
	case StatusLive:
		return "live"
	case StatusEnded:
		return "ended"
	default:
		return "unknown"
	}
}

// Score holds the running tally. It always equals the per-team count of known goals.
type Score struct {
	Home int
	Away int
}

// Game is the state one orchestrator owns for one scheduled game.
type Game struct {
	ID         int64
	StartTime  time.Time
	Type       games.GameType
	Home       teams.Team
	Away       teams.Team
	Recipients []string

	Score              Score
	Goals              goals.Set
	HighlightsNotified []int
	Preview            *games.Preview
	Status             Status
}

// New builds a scheduled game from a schedule entry and its resolved teams.
func New(entry games.ScheduleGame, home, away teams.Team, recipients []string) *Game {
	return &Game{
		ID:         entry.ID,
		StartTime:  entry.StartTime.UTC(),
		Type:       entry.Type,
		Home:       home,
		Away:       away,
		Recipients: recipients,
		Goals:      make(goals.Set),
		Status:     StatusScheduled,
	}
}

// Name renders "Home vs. Away".
func (g *Game) Name() string {
	return g.Home.Name + " vs. " + g.Away.Name
}

// ScoringTeam attributes a goal. Any team id other than the home team's counts for the away side.
func (g *Game) ScoringTeam(teamID int) teams.Team {
	if teamID == g.Home.ID {
		return g.Home
	}
	return g.Away
}

// Winner returns the home team only when it leads strictly; a tie goes to the away team.
func (g *Game) Winner() teams.Team {
	if g.Score.Home > g.Score.Away {
		return g.Home
	}
	return g.Away
}

// advance moves to next if it is later in the lifecycle and reports whether it moved.
func (g *Game) advance(next Status) bool {
	if next <= g.Status {
		return false
	}
	g.Status = next
	return true
}

func (g *Game) credit(goal goals.Goal) {
	if goal.TeamID == g.Home.ID {
		g.Score.Home++
		return
	}
	g.Score.Away++
}

// retract removes a known goal and its contribution to the score.
func (g *Game) retract(goal goals.Goal) {
	if _, ok := g.Goals[goal.EventID]; !ok {
		return
	}
	delete(g.Goals, goal.EventID)
	if goal.TeamID == g.Home.ID {
		g.Score.Home--
		return
	}
	g.Score.Away--
}

func (g *Game) highlightNotified(eventID int) bool {
	for _, id := range g.HighlightsNotified {
		if id == eventID {
			return true
		}
	}
	return false
}

func (g *Game) markHighlight(eventID int) {
	if g.highlightNotified(eventID) {
		return
	}
	g.HighlightsNotified = append(g.HighlightsNotified, eventID)
}
