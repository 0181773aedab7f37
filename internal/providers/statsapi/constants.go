package statsapi

import "time"

const (
	providerName       = "statsapi"
	defaultBaseURL     = "https://statsapi.web.nhl.com/api/v1"
	defaultHTTPTimeout = 10 * time.Second
	maxErrorBody       = 512
)
