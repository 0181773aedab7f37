package config

import "time"

const (
	envLogLevel          = "LOG_LEVEL"
	envLogFormat         = "LOG_FORMAT"
	envStatsProvider     = "STATS_PROVIDER"
	envStatsAPIBaseURL   = "STATS_API_BASE_URL"
	envTwilioBaseURL     = "TWILIO_BASE_URL"
	envScheduledInterval = "SCHEDULED_POLL_INTERVAL"
	envLiveInterval      = "LIVE_POLL_INTERVAL"
	envSMSRate           = "SMS_RATE_PER_SEC"
	envDryRun            = "DRY_RUN"
	envMetricsPort       = "METRICS_PORT"
	envMetricsOn         = "METRICS_ENABLED"
	envOtelEndpoint      = "OTEL_EXPORTER_OTLP_ENDPOINT"
	envOtelService       = "OTEL_SERVICE_NAME"
	envOtelInsecure      = "OTEL_EXPORTER_OTLP_INSECURE"

	envTwilioSID   = "TWIL_ACCOUNT_SID"
	envTwilioToken = "TWIL_AUTH_TOKEN"
	envTwilioFrom  = "TWIL_FROM"

	// File keys may be overridden from the environment, e.g. NOTIFIER_TIMEZONE.
	envFilePrefix = "NOTIFIER_"

	// ProviderStatsAPI selects the live stats feed.
	ProviderStatsAPI = "statsapi"
	// ProviderFixture selects the scripted offline game.
	ProviderFixture = "fixture"

	// DefaultConfigFile is the file name written by Generate and read by default.
	DefaultConfigFile = "config.yml"

	defaultLogLevel          = "info"
	defaultLogFormat         = "text"
	defaultStatsProvider     = ProviderStatsAPI
	defaultScheduledInterval = 10 * time.Minute
	defaultLiveInterval      = 10 * time.Second
	defaultSMSRate           = 1
	defaultMetricsPort       = "9090"
	defaultServiceName       = "nhl-notifier"
)
