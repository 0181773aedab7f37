package statsapi

import (
	"bytes"
	"encoding/json"
	"time"
)

// flexString accepts either a JSON string or a bare number; the feed is not
// consistent about identifier types.
type flexString string

func (f *flexString) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		*f = ""
		return nil
	}
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*f = flexString(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return err
	}
	*f = flexString(n.String())
	return nil
}

type teamsResponse struct {
	Teams []teamResponse `json:"teams"`
}

type teamResponse struct {
	ID           int    `json:"id"`
	Name         string `json:"name"`
	Abbreviation string `json:"abbreviation"`
	TeamName     string `json:"teamName"`
	LocationName string `json:"locationName"`
	ShortName    string `json:"shortName"`
}

type scheduleResponse struct {
	Dates []scheduleDateResponse `json:"dates"`
}

type scheduleDateResponse struct {
	Date  string                 `json:"date"`
	Games []scheduleGameResponse `json:"games"`
}

type scheduleGameResponse struct {
	GamePk   int64     `json:"gamePk"`
	GameDate time.Time `json:"gameDate"`
	GameType string    `json:"gameType"`
	Season   string    `json:"season"`
	Teams    struct {
		Away scheduleSideResponse `json:"away"`
		Home scheduleSideResponse `json:"home"`
	} `json:"teams"`
}

type scheduleSideResponse struct {
	Score int `json:"score"`
	Team  struct {
		ID   int    `json:"id"`
		Name string `json:"name"`
	} `json:"team"`
}

type contentResponse struct {
	Editorial struct {
		Preview struct {
			Items []previewItemResponse `json:"items"`
		} `json:"preview"`
	} `json:"editorial"`
	Media struct {
		Milestones milestonesResponse `json:"milestones"`
	} `json:"media"`
}

type previewItemResponse struct {
	Headline string `json:"headline"`
	Subhead  string `json:"subhead"`
}

type milestonesResponse struct {
	Title       string                  `json:"title"`
	StreamStart string                  `json:"streamStart"`
	Items       []milestoneItemResponse `json:"items"`
}

type milestoneItemResponse struct {
	Title        string             `json:"title"`
	Description  string             `json:"description"`
	Type         string             `json:"type"`
	Period       flexString         `json:"period"`
	OrdinalNum   string             `json:"ordinalNum"`
	PeriodTime   string             `json:"periodTime"`
	TeamID       flexString         `json:"teamId"`
	StatsEventID flexString         `json:"statsEventId"`
	Highlight    *highlightResponse `json:"highlight"`
}

type highlightResponse struct {
	ID          flexString         `json:"id"`
	Title       string             `json:"title"`
	Description string             `json:"description"`
	Playbacks   []playbackResponse `json:"playbacks"`
}

type playbackResponse struct {
	Name string `json:"name"`
	URL  string `json:"url"`
}
