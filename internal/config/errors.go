package config

import "errors"

var (
	// ErrMissingCredentials is returned when messaging credentials are required but absent.
	ErrMissingCredentials = errors.New("missing messaging credentials")
	// ErrInvalidSubscription is returned for a subscription with a bad team id or phone number.
	ErrInvalidSubscription = errors.New("invalid subscription")
	// ErrInvalidConfig covers the remaining file validation failures.
	ErrInvalidConfig = errors.New("invalid config")
)
