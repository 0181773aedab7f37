package statsapi

import (
	"context"
	"errors"
	"net/http"
	"testing"
	"time"

	"github.com/preston-bernstein/nhl-notifier/internal/providers"
	"github.com/preston-bernstein/nhl-notifier/internal/testutil"
)

func TestFetchTeamHitsTeamsEndpointAndMaps(t *testing.T) {
	rt := testutil.RoundTripperFunc(func(req *http.Request) (*http.Response, error) {
		if req.URL.Path != "/api/v1/teams/3" {
			t.Fatalf("expected /api/v1/teams/3 path, got %s", req.URL.Path)
		}
		return testutil.Response(http.StatusOK, `{
			"teams": [
				{
					"id": 3,
					"name": "New York Rangers",
					"abbreviation": "NYR",
					"teamName": "Rangers",
					"locationName": "New York",
					"shortName": "NY Rangers"
				}
			]
		}`), nil
	})

	client := NewClient(Config{BaseURL: "https://stats.example.com/api/v1/", HTTPClient: testutil.NewHTTPClient(rt)})

	team, err := client.FetchTeam(context.Background(), 3)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if team.ID != 3 || team.TeamName != "Rangers" || team.Abbreviation != "NYR" || team.Name != "New York Rangers" {
		t.Fatalf("unexpected team mapping: %+v", team)
	}
}

func TestFetchTeamEmptyListIsNotFound(t *testing.T) {
	rt := testutil.RoundTripperFunc(func(req *http.Request) (*http.Response, error) {
		return testutil.Response(http.StatusOK, `{"teams": []}`), nil
	})
	client := NewClient(Config{HTTPClient: testutil.NewHTTPClient(rt)})

	_, err := client.FetchTeam(context.Background(), 99)
	if !errors.Is(err, providers.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestFetchScheduleUsesRequestedDate(t *testing.T) {
	var gotQuery string
	rt := testutil.RoundTripperFunc(func(req *http.Request) (*http.Response, error) {
		if req.URL.Path != "/schedule" {
			t.Fatalf("expected /schedule path, got %s", req.URL.Path)
		}
		gotQuery = req.URL.Query().Get("date")
		return testutil.Response(http.StatusOK, `{
			"dates": [
				{
					"date": "2019-10-12",
					"games": [
						{
							"gamePk": 2019020052,
							"gameDate": "2019-10-12T23:00:00Z",
							"gameType": "R",
							"season": "20192020",
							"teams": {
								"away": { "score": 0, "team": { "id": 10, "name": "Toronto Maple Leafs" } },
								"home": { "score": 0, "team": { "id": 8, "name": "Montréal Canadiens" } }
							}
						}
					]
				}
			]
		}`), nil
	})
	client := NewClient(Config{BaseURL: "https://stats.example.com", HTTPClient: testutil.NewHTTPClient(rt)})

	schedule, err := client.FetchSchedule(context.Background(), "2019-10-12")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if gotQuery != "2019-10-12" {
		t.Fatalf("expected date query 2019-10-12, got %q", gotQuery)
	}
	if schedule.Date != "2019-10-12" || len(schedule.Games) != 1 {
		t.Fatalf("unexpected schedule: %+v", schedule)
	}
	g := schedule.Games[0]
	if g.ID != 2019020052 || g.Home.ID != 8 || g.Away.ID != 10 || g.Type != "R" {
		t.Fatalf("unexpected game mapping: %+v", g)
	}
	if !g.StartTime.Equal(time.Date(2019, 10, 12, 23, 0, 0, 0, time.UTC)) {
		t.Fatalf("unexpected start time %v", g.StartTime)
	}
}

func TestFetchScheduleDefaultsToTodayInTimezone(t *testing.T) {
	var gotQuery string
	rt := testutil.RoundTripperFunc(func(req *http.Request) (*http.Response, error) {
		gotQuery = req.URL.Query().Get("date")
		return testutil.Response(http.StatusOK, `{"dates": []}`), nil
	})
	client := NewClient(Config{
		BaseURL:    "https://stats.example.com",
		HTTPClient: testutil.NewHTTPClient(rt),
		Timezone:   "America/New_York",
	})
	client.now = func() time.Time {
		return time.Date(2024, 1, 2, 3, 0, 0, 0, time.UTC) // still Jan 1 in New York
	}

	schedule, err := client.FetchSchedule(context.Background(), "")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if gotQuery != "2024-01-01" {
		t.Fatalf("expected 2024-01-01, got %q", gotQuery)
	}
	if schedule.Date != "2024-01-01" || len(schedule.Games) != 0 {
		t.Fatalf("expected empty schedule for 2024-01-01, got %+v", schedule)
	}
}

func TestFetchGameContentMapsMilestones(t *testing.T) {
	rt := testutil.RoundTripperFunc(func(req *http.Request) (*http.Response, error) {
		if req.URL.Path != "/game/2019020052/content" {
			t.Fatalf("unexpected path %s", req.URL.Path)
		}
		return testutil.Response(http.StatusOK, `{
			"editorial": { "preview": { "items": [ { "headline": "Leafs visit Habs", "subhead": "Rivals meet again" } ] } },
			"media": {
				"milestones": {
					"title": "Milestones",
					"streamStart": "2019-10-12T23:08:00Z",
					"items": [
						{ "type": "BROADCAST_START", "title": "Broadcast Start" },
						{
							"type": "GOAL",
							"description": "Matthews (3) Wrist Shot",
							"period": "1",
							"ordinalNum": "1st",
							"periodTime": "05:00",
							"teamId": "10",
							"statsEventId": 155,
							"highlight": {}
						}
					]
				}
			}
		}`), nil
	})
	client := NewClient(Config{BaseURL: "https://stats.example.com", HTTPClient: testutil.NewHTTPClient(rt)})

	content, err := client.FetchGameContent(context.Background(), 2019020052)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !content.StreamStarted {
		t.Fatalf("expected stream started")
	}
	if content.Preview == nil || content.Preview.Subhead != "Rivals meet again" {
		t.Fatalf("unexpected preview: %+v", content.Preview)
	}
	if len(content.MilestoneItems) != 2 {
		t.Fatalf("expected 2 milestone items, got %d", len(content.MilestoneItems))
	}
	goal := content.MilestoneItems[1]
	if goal.StatsEventID != "155" || goal.TeamID != "10" || goal.Period != "1" || goal.PeriodTime != "05:00" {
		t.Fatalf("unexpected goal mapping: %+v", goal)
	}
	if goal.Highlight != nil {
		t.Fatalf("expected empty highlight to map to nil, got %+v", goal.Highlight)
	}
}

func TestFetchGameContentMissingItemsStaysNil(t *testing.T) {
	rt := testutil.RoundTripperFunc(func(req *http.Request) (*http.Response, error) {
		return testutil.Response(http.StatusOK, `{"media": {"milestones": {"streamStart": ""}}}`), nil
	})
	client := NewClient(Config{HTTPClient: testutil.NewHTTPClient(rt)})

	content, err := client.FetchGameContent(context.Background(), 1)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if content.MilestoneItems != nil {
		t.Fatalf("expected nil milestone items, got %+v", content.MilestoneItems)
	}
	if content.StreamStarted || content.Preview != nil {
		t.Fatalf("expected zero content, got %+v", content)
	}
}

func TestFetchReturnsRateLimitError(t *testing.T) {
	rt := testutil.RoundTripperFunc(func(req *http.Request) (*http.Response, error) {
		resp := testutil.Response(http.StatusTooManyRequests, `{}`)
		resp.Header.Set("Retry-After", "7")
		return resp, nil
	})
	client := NewClient(Config{HTTPClient: testutil.NewHTTPClient(rt)})

	_, err := client.FetchSchedule(context.Background(), "2024-01-01")
	rl, ok := providers.AsRateLimitError(err)
	if !ok {
		t.Fatalf("expected rate limit error, got %v", err)
	}
	if rl.RetryAfter != 7*time.Second {
		t.Fatalf("expected retry after 7s, got %v", rl.RetryAfter)
	}
}

func TestFetchReturnsStatusErrorWithBodyExcerpt(t *testing.T) {
	rt := testutil.RoundTripperFunc(func(req *http.Request) (*http.Response, error) {
		return testutil.Response(http.StatusBadGateway, "  upstream broke \n"), nil
	})
	client := NewClient(Config{HTTPClient: testutil.NewHTTPClient(rt)})

	_, err := client.FetchGameContent(context.Background(), 1)
	var statusErr *providers.StatusError
	if !errors.As(err, &statusErr) {
		t.Fatalf("expected status error, got %v", err)
	}
	if statusErr.StatusCode != http.StatusBadGateway || statusErr.Body != "upstream broke" {
		t.Fatalf("unexpected status error: %+v", statusErr)
	}
}

func TestFetchMalformedBodyIsMalformedResponse(t *testing.T) {
	rt := testutil.RoundTripperFunc(func(req *http.Request) (*http.Response, error) {
		return testutil.Response(http.StatusOK, `{"teams": [`), nil
	})
	client := NewClient(Config{HTTPClient: testutil.NewHTTPClient(rt)})

	_, err := client.FetchTeam(context.Background(), 1)
	if !errors.Is(err, providers.ErrMalformedResponse) {
		t.Fatalf("expected ErrMalformedResponse, got %v", err)
	}
}

func TestFetchPropagatesTransportError(t *testing.T) {
	boom := errors.New("dial failed")
	rt := testutil.RoundTripperFunc(func(req *http.Request) (*http.Response, error) {
		return nil, boom
	})
	client := NewClient(Config{HTTPClient: testutil.NewHTTPClient(rt)})

	_, err := client.FetchTeam(context.Background(), 1)
	if !errors.Is(err, boom) {
		t.Fatalf("expected wrapped transport error, got %v", err)
	}
}

func TestClientName(t *testing.T) {
	if NewClient(Config{}).Name() != "statsapi" {
		t.Fatalf("unexpected provider name")
	}
}
