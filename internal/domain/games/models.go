package games

import "time"

// GameType is the upstream game-type code.
type GameType string

const (
	TypePreseason GameType = "PR"
	TypeRegular   GameType = "R"
	TypePlayoff   GameType = "P"
	TypeAllStar   GameType = "A"
)

// IsPlayoff reports whether the game is a playoff game.
func (t GameType) IsPlayoff() bool {
	return t == TypePlayoff
}

// Milestone item types consumed by the notifier.
const (
	MilestoneGoal           = "GOAL"
	MilestoneBroadcastStart = "BROADCAST_START"
	MilestoneBroadcastEnd   = "BROADCAST_END"
)

// ScheduleTeam identifies one side of a scheduled game.
type ScheduleTeam struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
}

// ScheduleGame is a single entry from today's schedule.
type ScheduleGame struct {
	ID        int64        `json:"id"`
	StartTime time.Time    `json:"startTime"`
	Type      GameType     `json:"type"`
	Season    string       `json:"season"`
	Home      ScheduleTeam `json:"home"`
	Away      ScheduleTeam `json:"away"`
}

// Name renders "Home vs. Away" for logs.
func (g ScheduleGame) Name() string {
	return g.Home.Name + " vs. " + g.Away.Name
}

// Schedule is one day of games.
type Schedule struct {
	Date  string         `json:"date"`
	Games []ScheduleGame `json:"games"`
}

// Playback is one encoding of a highlight clip.
type Playback struct {
	Name string `json:"name"`
	URL  string `json:"url"`
}

// Highlight is a media clip reference attached to a milestone.
type Highlight struct {
	ID          string     `json:"id"`
	Title       string     `json:"title"`
	Description string     `json:"description"`
	Playbacks   []Playback `json:"playbacks"`
}

// MilestoneItem is a raw event record from the content feed. Numeric
// identifiers are kept as the strings the feed sends and parsed downstream.
type MilestoneItem struct {
	Type         string     `json:"type"`
	Title        string     `json:"title"`
	Description  string     `json:"description"`
	Period       string     `json:"period"`
	OrdinalNum   string     `json:"ordinalNum"`
	PeriodTime   string     `json:"periodTime"`
	TeamID       string     `json:"teamId"`
	StatsEventID string     `json:"statsEventId"`
	Highlight    *Highlight `json:"highlight,omitempty"`
}

// Preview is the pre-game editorial article.
type Preview struct {
	Headline string `json:"headline"`
	Subhead  string `json:"subhead"`
}

// Content is one poll of a game's content feed.
// MilestoneItems is nil when the feed has not published an item list yet.
type Content struct {
	StreamStarted  bool            `json:"streamStarted"`
	MilestoneItems []MilestoneItem `json:"milestoneItems"`
	Preview        *Preview        `json:"preview,omitempty"`
}

// HasBroadcastEnded reports whether the item list carries a broadcast-end marker.
func (c Content) HasBroadcastEnded() bool {
	for _, item := range c.MilestoneItems {
		if item.Type == MilestoneBroadcastEnd {
			return true
		}
	}
	return false
}
