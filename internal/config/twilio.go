package config

import (
	"fmt"
	"strings"
)

// Credentials authenticate against the SMS provider.
type Credentials struct {
	AccountSID string
	AuthToken  string
	From       string
}

// TwilioConfig holds the messaging account and endpoint.
type TwilioConfig struct {
	Credentials
	BaseURL string
}

// withEnv fills fields left empty by flags from the environment.
func (c Credentials) withEnv() Credentials {
	if c.AccountSID == "" {
		c.AccountSID = envOrDefault(envTwilioSID, "")
	}
	if c.AuthToken == "" {
		c.AuthToken = envOrDefault(envTwilioToken, "")
	}
	if c.From == "" {
		c.From = envOrDefault(envTwilioFrom, "")
	}
	return c
}

// validate reports every missing credential at once.
func (c Credentials) validate() error {
	var missing []string
	if c.AccountSID == "" {
		missing = append(missing, envTwilioSID)
	}
	if c.AuthToken == "" {
		missing = append(missing, envTwilioToken)
	}
	if c.From == "" {
		missing = append(missing, envTwilioFrom)
	}
	if len(missing) > 0 {
		return fmt.Errorf("%w: set %s", ErrMissingCredentials, strings.Join(missing, ", "))
	}
	return nil
}

func loadTwilio(flags Credentials) TwilioConfig {
	return TwilioConfig{
		Credentials: flags.withEnv(),
		BaseURL:     envOrDefault(envTwilioBaseURL, ""),
	}
}
