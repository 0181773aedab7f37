// Package goals turns raw milestone records into canonical goals and diffs
// successive polls of them.
package goals

import (
	"errors"
	"fmt"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/preston-bernstein/nhl-notifier/internal/domain/games"
)

// HighlightPlayback is the playback encoding sent in highlight notifications.
const HighlightPlayback = "FLASH_1800K_896x504"

const (
	regulationPeriod = 20 * time.Minute
	overtimePeriod   = 5 * time.Minute
)

var (
	// ErrMalformedMilestone marks a goal record missing a parsable id, team or time.
	ErrMalformedMilestone = errors.New("malformed goal milestone")
	// ErrNoPlaybackClip marks a highlight whose clip has not been published yet.
	ErrNoPlaybackClip = errors.New("no playback clip available")
)

// Goal is a single scoring event. Immutable once built from a poll; a later
// poll's record with the same EventID supersedes it.
type Goal struct {
	EventID     int
	TeamID      int
	Description string
	PeriodLabel string
	Remaining   time.Duration
	Highlight   *games.Highlight
}

// RemainingClock formats the time remaining in the period as MM:SS.
func (g Goal) RemainingClock() string {
	total := int(g.Remaining / time.Second)
	return fmt.Sprintf("%02d:%02d", total/60, total%60)
}

// Set holds goals keyed by event id.
type Set map[int]Goal

// IDs returns the event ids in ascending order.
func (s Set) IDs() []int {
	ids := make([]int, 0, len(s))
	for id := range s {
		ids = append(ids, id)
	}
	sort.Ints(ids)
	return ids
}

// Sorted returns the goals ordered by event id.
func (s Set) Sorted() []Goal {
	out := make([]Goal, 0, len(s))
	for _, id := range s.IDs() {
		out = append(out, s[id])
	}
	return out
}

// PeriodLength returns the nominal length of a period. Playoff periods are
// always full length; regular-season overtime is five minutes and a shootout
// has no clock.
func PeriodLength(gameType games.GameType, periodLabel string) time.Duration {
	if gameType.IsPlayoff() {
		return regulationPeriod
	}
	switch periodLabel {
	case "OT":
		return overtimePeriod
	case "SO":
		return 0
	default:
		return regulationPeriod
	}
}

// ParseElapsed parses an MM:SS period timestamp.
func ParseElapsed(raw string) (time.Duration, error) {
	mm, ss, ok := strings.Cut(strings.TrimSpace(raw), ":")
	if !ok {
		return 0, fmt.Errorf("period time %q: expected MM:SS", raw)
	}
	minutes, err := strconv.Atoi(mm)
	if err != nil || minutes < 0 || minutes > 59 {
		return 0, fmt.Errorf("period time %q: bad minutes", raw)
	}
	seconds, err := strconv.Atoi(ss)
	if err != nil || seconds < 0 || seconds > 59 || len(ss) != 2 {
		return 0, fmt.Errorf("period time %q: bad seconds", raw)
	}
	return time.Duration(minutes)*time.Minute + time.Duration(seconds)*time.Second, nil
}

// Remaining computes time left in the period, floored at zero.
func Remaining(gameType games.GameType, periodLabel string, elapsed time.Duration) time.Duration {
	left := PeriodLength(gameType, periodLabel) - elapsed
	if left < 0 {
		return 0
	}
	return left
}

// FromMilestone builds a Goal from a GOAL milestone record.
func FromMilestone(item games.MilestoneItem, gameType games.GameType) (Goal, error) {
	eventID, err := strconv.Atoi(strings.TrimSpace(item.StatsEventID))
	if err != nil {
		return Goal{}, fmt.Errorf("%w: event id %q", ErrMalformedMilestone, item.StatsEventID)
	}
	teamID, err := strconv.Atoi(strings.TrimSpace(item.TeamID))
	if err != nil {
		return Goal{}, fmt.Errorf("%w: event %d team id %q", ErrMalformedMilestone, eventID, item.TeamID)
	}
	elapsed, err := ParseElapsed(item.PeriodTime)
	if err != nil {
		return Goal{}, fmt.Errorf("%w: event %d: %v", ErrMalformedMilestone, eventID, err)
	}

	return Goal{
		EventID:     eventID,
		TeamID:      teamID,
		Description: item.Description,
		PeriodLabel: item.OrdinalNum,
		Remaining:   Remaining(gameType, item.OrdinalNum, elapsed),
		Highlight:   item.Highlight,
	}, nil
}

// Parse builds the candidate goal set for one poll. Malformed goal records
// are dropped and reported in errs; they never fail the whole poll.
func Parse(items []games.MilestoneItem, gameType games.GameType) (set Set, errs []error) {
	set = make(Set)
	for _, item := range items {
		if item.Type != games.MilestoneGoal {
			continue
		}
		goal, err := FromMilestone(item, gameType)
		if err != nil {
			errs = append(errs, err)
			continue
		}
		set[goal.EventID] = goal
	}
	return set, errs
}

// ClipURL picks the notification playback from a highlight.
func ClipURL(h *games.Highlight) (string, error) {
	if h == nil {
		return "", ErrNoPlaybackClip
	}
	for _, p := range h.Playbacks {
		if p.Name == HighlightPlayback && p.URL != "" {
			return p.URL, nil
		}
	}
	return "", ErrNoPlaybackClip
}
