package app

import (
	"log/slog"
	"net/http"

	"github.com/preston-bernstein/nhl-notifier/internal/config"
	"github.com/preston-bernstein/nhl-notifier/internal/messaging"
	"github.com/preston-bernstein/nhl-notifier/internal/messaging/twilio"
	"github.com/preston-bernstein/nhl-notifier/internal/metrics"
	"github.com/preston-bernstein/nhl-notifier/internal/providers"
	"github.com/preston-bernstein/nhl-notifier/internal/providers/fixture"
	"github.com/preston-bernstein/nhl-notifier/internal/providers/statsapi"
)

// providerFactory assembles the stats provider with the shared retry wrapper.
type providerFactory struct {
	logger     *slog.Logger
	metrics    *metrics.Recorder
	httpClient *http.Client
}

func (f providerFactory) build(cfg config.Config) providers.StatsProvider {
	return providers.NewRetryingProvider(selectProvider(cfg, f.httpClient), f.logger, f.metrics, cfg.Provider, 0, 0)
}

func selectProvider(cfg config.Config, httpClient *http.Client) providers.StatsProvider {
	switch cfg.Provider {
	case config.ProviderFixture:
		return fixture.New()
	default:
		return statsapi.NewClient(statsapi.Config{
			BaseURL:    cfg.StatsAPIBaseURL,
			HTTPClient: httpClient,
			Timezone:   cfg.Timezone,
		})
	}
}

// buildMessenger returns the rate-limited SMS client, or the log messenger on dry runs.
func buildMessenger(cfg config.Config, logger *slog.Logger, httpClient *http.Client) messaging.Messenger {
	if cfg.DryRun {
		return messaging.NewLogMessenger(logger)
	}
	client := twilio.NewClient(twilio.Config{
		AccountSID: cfg.Twilio.AccountSID,
		AuthToken:  cfg.Twilio.AuthToken,
		BaseURL:    cfg.Twilio.BaseURL,
		HTTPClient: httpClient,
	})
	return messaging.NewRateLimited(client, float64(cfg.SMSRatePerSec))
}
