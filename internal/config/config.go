package config

import (
	"fmt"
	"time"

	"github.com/preston-bernstein/nhl-notifier/internal/timeutil"
)

// Config holds everything a run needs.
type Config struct {
	EarliestNotification timeutil.Clock
	Timezone             string
	Location             *time.Location
	Subscriptions        []Subscription

	LogLevel  string
	LogFormat string

	Provider        string
	StatsAPIBaseURL string
	Twilio          TwilioConfig

	ScheduledPollInterval time.Duration
	LivePollInterval      time.Duration
	SMSRatePerSec         int
	DryRun                bool

	Metrics MetricsConfig
}

// Load reads the YAML file at path, applies environment overrides and
// validates the result. Credentials passed as flags win over the environment.
func Load(path string, flags Credentials) (Config, error) {
	fc, err := loadFile(path)
	if err != nil {
		return Config{}, err
	}

	cfg := Config{
		Timezone:              fc.Timezone,
		LogLevel:              envOrDefault(envLogLevel, defaultLogLevel),
		LogFormat:             envOrDefault(envLogFormat, defaultLogFormat),
		Provider:              envOrDefault(envStatsProvider, defaultStatsProvider),
		StatsAPIBaseURL:       envOrDefault(envStatsAPIBaseURL, ""),
		Twilio:                loadTwilio(flags),
		ScheduledPollInterval: durationEnvOrDefault(envScheduledInterval, defaultScheduledInterval),
		LivePollInterval:      durationEnvOrDefault(envLiveInterval, defaultLiveInterval),
		SMSRatePerSec:         intEnvOrDefault(envSMSRate, defaultSMSRate),
		DryRun:                boolEnvOrDefault(envDryRun, false),
		Metrics:               loadMetrics(),
	}

	if fc.EarliestNotificationTime == "" {
		return Config{}, fmt.Errorf("%w: earliest_notification_time is required", ErrInvalidConfig)
	}
	cfg.EarliestNotification, err = timeutil.ParseClock(fc.EarliestNotificationTime)
	if err != nil {
		return Config{}, fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}

	cfg.Location, err = timeutil.ResolveLocation(fc.Timezone)
	if err != nil {
		return Config{}, fmt.Errorf("%w: timezone %q: %v", ErrInvalidConfig, fc.Timezone, err)
	}

	cfg.Subscriptions, err = normalizeSubscriptions(fc.Subscriptions)
	if err != nil {
		return Config{}, err
	}

	switch cfg.Provider {
	case ProviderStatsAPI, ProviderFixture:
	default:
		return Config{}, fmt.Errorf("%w: unknown %s %q", ErrInvalidConfig, envStatsProvider, cfg.Provider)
	}

	if !cfg.DryRun {
		if err := cfg.Twilio.validate(); err != nil {
			return Config{}, err
		}
	}
	return cfg, nil
}
