package statsapi

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/preston-bernstein/nhl-notifier/internal/domain/games"
	"github.com/preston-bernstein/nhl-notifier/internal/domain/teams"
	"github.com/preston-bernstein/nhl-notifier/internal/providers"
	"github.com/preston-bernstein/nhl-notifier/internal/timeutil"
)

// Config controls how the client reaches the stats feed.
type Config struct {
	BaseURL    string
	HTTPClient *http.Client
	Timezone   string
}

// Client fetches teams, schedules and game content from the stats feed and
// maps them to domain models.
type Client struct {
	baseURL    string
	httpClient httpDoer
	now        func() time.Time
	loc        *time.Location
}

// NewClient constructs a stats feed client with the provided configuration.
func NewClient(cfg Config) *Client {
	return &Client{
		baseURL:    normalizeBaseURL(cfg.BaseURL),
		httpClient: resolveHTTPClient(cfg.HTTPClient),
		now:        time.Now,
		loc:        resolveLocation(cfg.Timezone),
	}
}

// Name identifies the provider in logs and metrics.
func (c *Client) Name() string {
	return providerName
}

// FetchTeam looks up a team by id.
func (c *Client) FetchTeam(ctx context.Context, id int) (teams.Team, error) {
	res, err := c.get(ctx, "teams/"+strconv.Itoa(id), nil, kindTeams)
	if err != nil {
		return teams.Team{}, err
	}
	data, ok := res.(teamsData)
	if !ok {
		return teams.Team{}, unexpected(kindTeams, res)
	}
	if len(data.payload.Teams) == 0 {
		return teams.Team{}, fmt.Errorf("%s: team %d: %w", providerName, id, providers.ErrNotFound)
	}
	return mapTeam(data.payload.Teams[0]), nil
}

// FetchSchedule retrieves the schedule for date, or today in the client's timezone.
func (c *Client) FetchSchedule(ctx context.Context, date string) (games.Schedule, error) {
	day := c.resolveDate(date)
	q := url.Values{}
	q.Set("date", day)

	res, err := c.get(ctx, "schedule", q, kindSchedule)
	if err != nil {
		return games.Schedule{}, err
	}
	data, ok := res.(scheduleData)
	if !ok {
		return games.Schedule{}, unexpected(kindSchedule, res)
	}
	return mapSchedule(day, data.payload), nil
}

// FetchGameContent retrieves the milestone stream and preview article of a game.
func (c *Client) FetchGameContent(ctx context.Context, gameID int64) (games.Content, error) {
	res, err := c.get(ctx, "game/"+strconv.FormatInt(gameID, 10)+"/content", nil, kindContent)
	if err != nil {
		return games.Content{}, err
	}
	data, ok := res.(contentData)
	if !ok {
		return games.Content{}, unexpected(kindContent, res)
	}
	return mapContent(data.payload), nil
}

func (c *Client) get(ctx context.Context, path string, query url.Values, kind responseKind) (result, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/"+path, nil)
	if err != nil {
		return nil, err
	}
	if len(query) > 0 {
		req.URL.RawQuery = query.Encode()
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%s: %s request: %w", providerName, kind, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusTooManyRequests {
		return nil, &providers.RateLimitError{
			Provider:   providerName,
			StatusCode: resp.StatusCode,
			RetryAfter: parseRetryAfter(resp.Header),
		}
	}
	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		return nil, &providers.StatusError{
			Provider:   providerName,
			StatusCode: resp.StatusCode,
			Body:       strings.TrimSpace(string(body)),
		}
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%s: read %s response: %w", providerName, kind, err)
	}
	return decode(kind, body), nil
}

func (c *Client) resolveDate(date string) string {
	if date != "" {
		if _, err := timeutil.ParseDate(date); err == nil {
			return date
		}
	}
	return timeutil.FormatDate(c.now().In(c.loc))
}
