package twilio

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/preston-bernstein/nhl-notifier/internal/messaging"
)

const (
	defaultBaseURL     = "https://api.twilio.com/2010-04-01"
	defaultHTTPTimeout = 10 * time.Second
	maxErrorBody       = 512
)

type httpDoer interface {
	Do(req *http.Request) (*http.Response, error)
}

// Config carries account credentials and transport overrides.
type Config struct {
	AccountSID string
	AuthToken  string
	BaseURL    string
	HTTPClient *http.Client
}

// Client sends SMS through the Messages resource.
type Client struct {
	accountSID string
	authToken  string
	baseURL    string
	httpClient httpDoer
}

// NewClient constructs a client for the given account.
func NewClient(cfg Config) *Client {
	base := strings.TrimSuffix(cfg.BaseURL, "/")
	if base == "" {
		base = defaultBaseURL
	}
	var doer httpDoer = &http.Client{Timeout: defaultHTTPTimeout}
	if cfg.HTTPClient != nil {
		doer = cfg.HTTPClient
	}
	return &Client{
		accountSID: cfg.AccountSID,
		authToken:  cfg.AuthToken,
		baseURL:    base,
		httpClient: doer,
	}
}

type messageResponse struct {
	Status       string      `json:"status"`
	ErrorCode    json.Number `json:"error_code"`
	ErrorMessage string      `json:"error_message"`
	Body         string      `json:"body"`
}

type errorResponse struct {
	Code    json.Number `json:"code"`
	Message string      `json:"message"`
}

// SendMessage creates one outbound message and returns the status Twilio reports.
func (c *Client) SendMessage(ctx context.Context, from, to, body string) (messaging.Status, error) {
	form := url.Values{}
	form.Set("From", from)
	form.Set("To", to)
	form.Set("Body", body)

	endpoint := fmt.Sprintf("%s/Accounts/%s/Messages.json", c.baseURL, url.PathEscape(c.accountSID))
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, strings.NewReader(form.Encode()))
	if err != nil {
		return messaging.StatusFailed, err
	}
	req.SetBasicAuth(c.accountSID, c.authToken)
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return messaging.StatusFailed, fmt.Errorf("twilio: send request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		raw, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		var apiErr errorResponse
		if json.Unmarshal(raw, &apiErr) == nil && apiErr.Message != "" {
			return messaging.StatusFailed, fmt.Errorf("twilio: status %d: code %s: %s", resp.StatusCode, apiErr.Code, apiErr.Message)
		}
		return messaging.StatusFailed, fmt.Errorf("twilio: status %d: %s", resp.StatusCode, strings.TrimSpace(string(raw)))
	}

	var msg messageResponse
	if err := json.NewDecoder(resp.Body).Decode(&msg); err != nil {
		return messaging.StatusFailed, fmt.Errorf("twilio: decode response: %w", err)
	}
	status := messaging.Status(msg.Status)
	if !status.Delivered() && msg.ErrorMessage != "" {
		return status, fmt.Errorf("%w: %s (code %s)", messaging.ErrUndelivered, msg.ErrorMessage, msg.ErrorCode)
	}
	return status, nil
}
