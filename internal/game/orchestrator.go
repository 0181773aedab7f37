package game

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/preston-bernstein/nhl-notifier/internal/goals"
	"github.com/preston-bernstein/nhl-notifier/internal/logging"
	"github.com/preston-bernstein/nhl-notifier/internal/messaging"
	"github.com/preston-bernstein/nhl-notifier/internal/metrics"
	"github.com/preston-bernstein/nhl-notifier/internal/providers"
	"github.com/preston-bernstein/nhl-notifier/internal/timeutil"
)

const (
	defaultScheduledInterval = 10 * time.Minute
	defaultLiveInterval      = 10 * time.Second
)

var (
	// ErrPreviewUnavailable is returned while the content feed has no preview article.
	ErrPreviewUnavailable = errors.New("preview not available")
	// ErrNoMilestoneItems is returned while the milestone list has not been published.
	ErrNoMilestoneItems = errors.New("no milestone items yet")
)

// Notifier delivers one message body to a list of recipients.
type Notifier interface {
	Broadcast(ctx context.Context, kind messaging.Kind, recipients []string, body string) messaging.Delivery
}

// Config controls the orchestrator's timing.
type Config struct {
	EarliestNotification timeutil.Clock
	Location             *time.Location
	ScheduledInterval    time.Duration
	LiveInterval         time.Duration
}

// Health describes the outcome of the orchestrator's ticks. Ticks that found
// content not yet published count as failures.
type Health struct {
	Failures            int
	ConsecutiveFailures int
	LastError           string
	LastAttempt         time.Time
	LastSuccess         time.Time
}

// Orchestrator drives one game from scheduled to ended. All game state is
// mutated by the Run loop only.
type Orchestrator struct {
	game     *Game
	provider providers.ContentProvider
	notifier Notifier
	cfg      Config
	logger   *slog.Logger
	metrics  *metrics.Recorder

	now   func() time.Time
	sleep func(ctx context.Context, d time.Duration) error

	health Health
}

// NewOrchestrator constructs an orchestrator with default intervals where unset.
func NewOrchestrator(g *Game, provider providers.ContentProvider, notifier Notifier, cfg Config, logger *slog.Logger, recorder *metrics.Recorder) *Orchestrator {
	if cfg.ScheduledInterval <= 0 {
		cfg.ScheduledInterval = defaultScheduledInterval
	}
	if cfg.LiveInterval <= 0 {
		cfg.LiveInterval = defaultLiveInterval
	}
	if cfg.Location == nil {
		cfg.Location = time.Local
	}
	if logger != nil {
		logger = logger.With(logging.FieldGameID, g.ID)
	}
	return &Orchestrator{
		game:     g,
		provider: provider,
		notifier: notifier,
		cfg:      cfg,
		logger:   logger,
		metrics:  recorder,
		now:      time.Now,
		sleep:    sleepContext,
	}
}

// Game exposes the orchestrated game. Callers must not mutate it while Run is active.
func (o *Orchestrator) Game() *Game {
	return o.game
}

// Run ticks until the game ends, then sends the final notification. It
// returns the context error if cancelled first, without a final notification.
func (o *Orchestrator) Run(ctx context.Context) error {
	ctx = logging.WithContext(ctx, o.logger)
	logging.Info(o.logger, "running game",
		"game", o.game.Name(),
		"start", o.game.StartTime.In(o.cfg.Location).Format(time.RFC1123Z),
		logging.FieldCount, len(o.game.Recipients),
	)

	for o.game.Status != StatusEnded {
		o.Tick(ctx)
		if o.game.Status == StatusEnded {
			break
		}
		if err := o.sleep(ctx, o.interval()); err != nil {
			logging.Warn(o.logger, "game stopped before end", logging.FieldStatus, o.game.Status.String())
			return err
		}
	}

	o.finish(ctx)
	return nil
}

// Tick performs one poll for the current status. Failures are logged and
// leave the game unchanged so the next tick retries.
func (o *Orchestrator) Tick(ctx context.Context) {
	status := o.game.Status
	start := time.Now()
	o.recordAttempt(o.now())

	var err error
	switch status {
	case StatusScheduled:
		err = o.tickScheduled(ctx)
	case StatusLive:
		err = o.tickLive(ctx)
	default:
		return
	}

	o.metrics.RecordPollCycle(status.String(), time.Since(start), err)
	if err != nil {
		o.recordFailure(err)
		if errors.Is(err, ErrPreviewUnavailable) || errors.Is(err, ErrNoMilestoneItems) {
			logging.Info(o.logger, "content not ready", logging.FieldStatus, status.String(), "reason", err.Error())
			return
		}
		logging.Error(o.logger, "game tick failed", err, logging.FieldStatus, status.String())
		return
	}
	o.recordSuccess()
}

// Health returns the orchestrator's tick outcomes. It must not be called while
// Run is in progress.
func (o *Orchestrator) Health() Health {
	return o.health
}

func (o *Orchestrator) tickScheduled(ctx context.Context) error {
	local := o.now().In(o.cfg.Location)
	if timeutil.ClockOf(local).Before(o.cfg.EarliestNotification) {
		logging.Info(o.logger, "before notification time, sleeping",
			"earliest", o.cfg.EarliestNotification.String(),
		)
		return nil
	}

	content, err := o.provider.FetchGameContent(ctx, o.game.ID)
	if err != nil {
		return fmt.Errorf("fetch game content: %w", err)
	}

	if o.game.Preview == nil {
		if content.Preview == nil {
			return ErrPreviewUnavailable
		}
		preview := *content.Preview
		o.game.Preview = &preview
		logging.Info(o.logger, "got preview", "subhead", preview.Subhead)
		o.notify(ctx, messaging.KindPreview, PreviewMessage(o.game, o.cfg.Location))
		return nil
	}

	if !content.StreamStarted {
		logging.Info(o.logger, "game hasn't started yet, sleeping")
		return nil
	}
	if o.game.advance(StatusLive) {
		logging.Info(o.logger, "game is live")
	}
	return nil
}

func (o *Orchestrator) tickLive(ctx context.Context) error {
	content, err := o.provider.FetchGameContent(ctx, o.game.ID)
	if err != nil {
		return fmt.Errorf("fetch milestones: %w", err)
	}
	if content.MilestoneItems == nil {
		return ErrNoMilestoneItems
	}

	candidates, parseErrs := goals.Parse(content.MilestoneItems, o.game.Type)
	for _, perr := range parseErrs {
		logging.Error(o.logger, "could not parse goal milestone", perr)
	}

	o.applyGoals(ctx, candidates)
	o.notifyHighlights(ctx)

	if content.HasBroadcastEnded() && o.game.advance(StatusEnded) {
		logging.Info(o.logger, "broadcast ended")
	}
	return nil
}

// applyGoals folds one poll's candidate set into the known goals. Retractions
// are applied first so that goal messages carry the corrected score. A poll
// with no parseable goals is ignored.
func (o *Orchestrator) applyGoals(ctx context.Context, candidates goals.Set) {
	if len(candidates) == 0 {
		return
	}
	diff := goals.Compare(o.game.Goals, candidates)

	for _, goal := range diff.Removed {
		o.game.retract(goal)
		logging.Warn(o.logger, "goal retracted",
			logging.FieldEventID, goal.EventID,
			logging.FieldTeamID, goal.TeamID,
		)
	}

	for _, goal := range diff.Added {
		o.game.credit(goal)
		body := GoalMessage(o.game, goal)
		logging.Info(o.logger, "goal",
			logging.FieldEventID, goal.EventID,
			logging.FieldTeamID, goal.TeamID,
			"score", fmt.Sprintf("%d-%d", o.game.Score.Home, o.game.Score.Away),
		)
		o.notify(ctx, messaging.KindGoal, body)
		o.game.Goals[goal.EventID] = goal
	}

	// Later polls supersede earlier records, e.g. once a highlight is attached.
	for id, goal := range candidates {
		o.game.Goals[id] = goal
	}

	if !diff.Empty() {
		o.metrics.RecordGoalChanges(len(diff.Added), len(diff.Removed))
	}
}

func (o *Orchestrator) notifyHighlights(ctx context.Context) {
	for _, goal := range o.game.Goals.Sorted() {
		if goal.Highlight == nil || o.game.highlightNotified(goal.EventID) {
			continue
		}
		clip, err := goals.ClipURL(goal.Highlight)
		if err != nil {
			logging.Warn(o.logger, "highlight not ready",
				logging.FieldEventID, goal.EventID,
				"reason", err.Error(),
			)
			continue
		}
		d := o.notify(ctx, messaging.KindHighlight, HighlightMessage(goal.Highlight.Description, clip))
		if !d.Any() {
			logging.Warn(o.logger, "highlight not delivered, will retry", logging.FieldEventID, goal.EventID)
			continue
		}
		o.game.markHighlight(goal.EventID)
	}
}

func (o *Orchestrator) finish(ctx context.Context) {
	winner := o.game.Winner()
	if o.game.Score.Home == o.game.Score.Away {
		logging.Warn(o.logger, "final score is tied, crediting away team",
			"score", fmt.Sprintf("%d-%d", o.game.Score.Home, o.game.Score.Away),
		)
	}
	logging.Info(o.logger, "game over",
		"winner", winner.TeamName,
		"score", fmt.Sprintf("%d-%d", o.game.Score.Home, o.game.Score.Away),
	)
	o.notify(ctx, messaging.KindFinal, FinalMessage(o.game))
}

func (o *Orchestrator) notify(ctx context.Context, kind messaging.Kind, body string) messaging.Delivery {
	if o.notifier == nil {
		return messaging.Delivery{}
	}
	return o.notifier.Broadcast(ctx, kind, o.game.Recipients, body)
}

func (o *Orchestrator) interval() time.Duration {
	if o.game.Status == StatusLive {
		return o.cfg.LiveInterval
	}
	return o.cfg.ScheduledInterval
}

func (o *Orchestrator) recordAttempt(at time.Time) {
	o.health.LastAttempt = at
}

func (o *Orchestrator) recordSuccess() {
	o.health.ConsecutiveFailures = 0
	o.health.LastError = ""
	o.health.LastSuccess = o.health.LastAttempt
}

func (o *Orchestrator) recordFailure(err error) {
	o.health.Failures++
	o.health.ConsecutiveFailures++
	o.health.LastError = err.Error()
}

func sleepContext(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
