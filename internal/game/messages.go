package game

import (
	"fmt"
	"time"

	"github.com/preston-bernstein/nhl-notifier/internal/goals"
)

const previewTimeLayout = "03:04:05 PM"

// PreviewMessage announces the game with its local start time and the preview subhead.
func PreviewMessage(g *Game, loc *time.Location) string {
	if loc == nil {
		loc = time.Local
	}
	subhead := ""
	if g.Preview != nil {
		subhead = g.Preview.Subhead
	}
	return fmt.Sprintf("%s @ %s - %s\n\n%s",
		g.Home.Name,
		g.Away.Name,
		g.StartTime.In(loc).Format(previewTimeLayout),
		subhead,
	)
}

// GoalMessage reports a goal with the score after it was credited.
func GoalMessage(g *Game, goal goals.Goal) string {
	return fmt.Sprintf("%s score\n\n%s %s, %s %d - %s %d\n\n%s",
		g.ScoringTeam(goal.TeamID).TeamName,
		goal.RemainingClock(),
		goal.PeriodLabel,
		g.Home.Abbreviation,
		g.Score.Home,
		g.Away.Abbreviation,
		g.Score.Away,
		goal.Description,
	)
}

// HighlightMessage carries a clip link.
func HighlightMessage(description, clipURL string) string {
	return fmt.Sprintf("Highlight\n\n%s\n\n%s", description, clipURL)
}

// FinalMessage reports the winner and final score.
func FinalMessage(g *Game) string {
	return fmt.Sprintf("%s win\n\nFinal score: %s %d - %s %d",
		g.Winner().TeamName,
		g.Home.Abbreviation,
		g.Score.Home,
		g.Away.Abbreviation,
		g.Score.Away,
	)
}
