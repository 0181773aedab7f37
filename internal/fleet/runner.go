// Package fleet discovers today's subscribable games and runs one
// orchestrator per game.
package fleet

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync/atomic"

	"golang.org/x/sync/errgroup"

	"github.com/preston-bernstein/nhl-notifier/internal/domain/games"
	"github.com/preston-bernstein/nhl-notifier/internal/game"
	"github.com/preston-bernstein/nhl-notifier/internal/logging"
	"github.com/preston-bernstein/nhl-notifier/internal/metrics"
	"github.com/preston-bernstein/nhl-notifier/internal/providers"
)

// Summary counts what a run did.
type Summary struct {
	Date         string
	Games        int
	Teams        int
	Subscribable int
	Completed    int
	Failed       int
	Stopped      int
	// FailedTicks totals the polls across all games that had to be retried.
	FailedTicks int
}

// Runner fans out orchestrators over today's schedule.
type Runner struct {
	provider providers.StatsProvider
	notifier game.Notifier
	index    Index
	cfg      game.Config
	logger   *slog.Logger
	metrics  *metrics.Recorder
}

// NewRunner wires a runner for one day.
func NewRunner(provider providers.StatsProvider, notifier game.Notifier, index Index, cfg game.Config, logger *slog.Logger, recorder *metrics.Recorder) *Runner {
	return &Runner{
		provider: provider,
		notifier: notifier,
		index:    index,
		cfg:      cfg,
		logger:   logger,
		metrics:  recorder,
	}
}

// Run fetches the schedule for date (today when empty) and blocks until every
// spawned orchestrator has finished. Only a schedule failure is returned;
// per-game failures are logged and counted.
func (r *Runner) Run(ctx context.Context, date string) (Summary, error) {
	schedule, err := r.provider.FetchSchedule(ctx, date)
	if err != nil {
		return Summary{}, fmt.Errorf("fetch schedule: %w", err)
	}

	summary := Summary{
		Date:  schedule.Date,
		Games: len(schedule.Games),
		Teams: len(r.index.Teams()),
	}
	logging.Info(r.logger, "games today", logging.FieldDate, schedule.Date, logging.FieldCount, summary.Games)
	logging.Info(r.logger, "teams with an active subscription", logging.FieldCount, summary.Teams)

	type target struct {
		entry      games.ScheduleGame
		recipients []string
	}
	var targets []target
	for _, entry := range schedule.Games {
		if !r.index.Subscribed(entry.Home.ID) && !r.index.Subscribed(entry.Away.ID) {
			continue
		}
		targets = append(targets, target{entry: entry, recipients: r.index.Recipients(entry.Home.ID, entry.Away.ID)})
	}
	summary.Subscribable = len(targets)
	logging.Info(r.logger, "subscribable games", logging.FieldCount, summary.Subscribable)

	var completed, failed, stopped, failedTicks atomic.Int32
	var g errgroup.Group
	for _, t := range targets {
		t := t
		g.Go(func() error {
			health, err := r.runGame(ctx, t.entry, t.recipients)
			failedTicks.Add(int32(health.Failures))
			switch {
			case err == nil:
				completed.Add(1)
			case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
				stopped.Add(1)
			default:
				failed.Add(1)
				logging.Error(r.logger, "error running game", err,
					logging.FieldGameID, t.entry.ID,
					"game", t.entry.Name(),
				)
			}
			return nil
		})
	}
	_ = g.Wait()

	summary.Completed = int(completed.Load())
	summary.Failed = int(failed.Load())
	summary.Stopped = int(stopped.Load())
	summary.FailedTicks = int(failedTicks.Load())
	return summary, nil
}

func (r *Runner) runGame(ctx context.Context, entry games.ScheduleGame, recipients []string) (game.Health, error) {
	home, err := r.provider.FetchTeam(ctx, entry.Home.ID)
	if err != nil {
		return game.Health{}, fmt.Errorf("fetch home team %d: %w", entry.Home.ID, err)
	}
	away, err := r.provider.FetchTeam(ctx, entry.Away.ID)
	if err != nil {
		return game.Health{}, fmt.Errorf("fetch away team %d: %w", entry.Away.ID, err)
	}

	g := game.New(entry, home, away, recipients)
	o := game.NewOrchestrator(g, r.provider, r.notifier, r.cfg, r.logger, r.metrics)
	err = o.Run(ctx)

	health := o.Health()
	logging.Info(r.logger, "game finished",
		logging.FieldGameID, entry.ID,
		logging.FieldStatus, g.Status.String(),
		"failed_ticks", health.Failures,
		"last_error", health.LastError,
	)
	return health, err
}
