// Package app wires configuration, providers, messaging and metrics into a run.
package app

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/google/uuid"

	"github.com/preston-bernstein/nhl-notifier/internal/config"
	"github.com/preston-bernstein/nhl-notifier/internal/fleet"
	"github.com/preston-bernstein/nhl-notifier/internal/game"
	"github.com/preston-bernstein/nhl-notifier/internal/logging"
	"github.com/preston-bernstein/nhl-notifier/internal/messaging"
	"github.com/preston-bernstein/nhl-notifier/internal/metrics"
	"github.com/preston-bernstein/nhl-notifier/internal/providers"
)

var metricsSetup = metrics.Setup

// App runs today's games once.
type App struct {
	cfg           config.Config
	logger        *slog.Logger
	metrics       *metrics.Recorder
	metricsServer httpServer
	metricsStop   func(context.Context) error
	runner        *fleet.Runner
	runID         string
}

// Option customises App construction.
type Option func(*options)

type options struct {
	httpClient *http.Client
	provider   providers.StatsProvider
	messenger  messaging.Messenger
	recorder   *metrics.Recorder
}

// WithHTTPClient routes provider and messaging traffic through client.
func WithHTTPClient(client *http.Client) Option {
	return func(o *options) { o.httpClient = client }
}

// WithProvider replaces the configured stats provider. It is still wrapped for retries.
func WithProvider(p providers.StatsProvider) Option {
	return func(o *options) { o.provider = p }
}

// WithMessenger replaces the configured messenger.
func WithMessenger(m messaging.Messenger) Option {
	return func(o *options) { o.messenger = m }
}

// WithRecorder skips metrics setup and records into rec.
func WithRecorder(rec *metrics.Recorder) Option {
	return func(o *options) { o.recorder = rec }
}

// New constructs an App from validated configuration.
func New(cfg config.Config, logger *slog.Logger, opts ...Option) *App {
	var o options
	for _, opt := range opts {
		opt(&o)
	}

	runID := uuid.NewString()
	if logger != nil {
		logger = logger.With(logging.FieldRunID, runID)
	}

	recorder, metricsSrv, metricsStop := buildMetrics(cfg, logger, o.recorder)

	var provider providers.StatsProvider
	if o.provider != nil {
		provider = providers.NewRetryingProvider(o.provider, logger, recorder, cfg.Provider, 0, 0)
	} else {
		provider = providerFactory{logger: logger, metrics: recorder, httpClient: o.httpClient}.build(cfg)
	}

	messenger := o.messenger
	if messenger == nil {
		messenger = buildMessenger(cfg, logger, o.httpClient)
	}
	notifier := messaging.NewBroadcaster(messenger, cfg.Twilio.From, logger, recorder)

	runner := fleet.NewRunner(provider, notifier, fleet.NewIndex(cfg.Subscriptions), game.Config{
		EarliestNotification: cfg.EarliestNotification,
		Location:             cfg.Location,
		ScheduledInterval:    cfg.ScheduledPollInterval,
		LiveInterval:         cfg.LivePollInterval,
	}, logger, recorder)

	return &App{
		cfg:           cfg,
		logger:        logger,
		metrics:       recorder,
		metricsServer: metricsSrv,
		metricsStop:   metricsStop,
		runner:        runner,
		runID:         runID,
	}
}

// RunID identifies this run in logs.
func (a *App) RunID() string {
	return a.runID
}

// Metrics exposes the recorder (useful for tests).
func (a *App) Metrics() *metrics.Recorder {
	return a.metrics
}

// Run processes today's schedule until every game has ended or ctx is cancelled.
// Schedule failures are logged, not returned; the run simply has nothing to do.
func (a *App) Run(ctx context.Context) fleet.Summary {
	a.startMetrics()
	defer a.shutdown()

	logging.Info(a.logger, "notifier run starting",
		logging.FieldProvider, a.cfg.Provider,
		"dry_run", a.cfg.DryRun,
	)

	summary, err := a.runner.Run(ctx, "")
	if err != nil {
		logging.Error(a.logger, "could not load today's schedule", err)
		return summary
	}

	logging.Info(a.logger, "notifier run finished",
		logging.FieldDate, summary.Date,
		"completed", summary.Completed,
		"failed", summary.Failed,
		"stopped", summary.Stopped,
		"failed_ticks", summary.FailedTicks,
	)
	return summary
}

func (a *App) startMetrics() {
	if a.metricsServer == nil {
		return
	}
	launchServer("metrics", a.metricsServer, a.logger)
}

func (a *App) shutdown() {
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if a.metricsStop != nil {
		if err := a.metricsStop(shutdownCtx); err != nil {
			logging.Warn(a.logger, "metrics shutdown failed", "error", err)
		}
	}
	if a.metricsServer != nil {
		if err := a.metricsServer.Shutdown(shutdownCtx); err != nil {
			logging.Warn(a.logger, "metrics server shutdown failed", "error", err)
		}
	}
}

func buildMetrics(cfg config.Config, logger *slog.Logger, recorder *metrics.Recorder) (*metrics.Recorder, httpServer, func(context.Context) error) {
	if recorder != nil {
		return recorder, nil, nil
	}

	recCfg := metrics.TelemetryConfig{
		Enabled:      cfg.Metrics.Enabled,
		Port:         cfg.Metrics.Port,
		ServiceName:  cfg.Metrics.ServiceName,
		OtlpEndpoint: cfg.Metrics.OtlpEndpoint,
		OtlpInsecure: cfg.Metrics.OtlpInsecure,
	}

	rec, handler, shutdown, err := metricsSetup(context.Background(), recCfg)
	if err != nil {
		logging.Warn(logger, "metrics setup failed, continuing without telemetry", "err", err)
		return metrics.NewRecorder(), nil, nil
	}

	var metricsSrv httpServer
	if handler != nil && recCfg.Enabled {
		metricsSrv = newMetricsServer(recCfg.Port, handler)
	}
	return rec, metricsSrv, shutdown
}
