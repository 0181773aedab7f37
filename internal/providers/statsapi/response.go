package statsapi

import (
	"encoding/json"
	"fmt"

	"github.com/preston-bernstein/nhl-notifier/internal/providers"
)

type responseKind int

const (
	kindTeams responseKind = iota
	kindSchedule
	kindContent
)

func (k responseKind) String() string {
	switch k {
	case kindTeams:
		return "teams"
	case kindSchedule:
		return "schedule"
	case kindContent:
		return "content"
	default:
		return "unknown"
	}
}

// result is the decoded body of one feed call. Exactly one of the concrete
// variants below is produced per call.
type result interface {
	isResult()
}

type teamsData struct{ payload teamsResponse }

type scheduleData struct{ payload scheduleResponse }

type contentData struct{ payload contentResponse }

type parseFailure struct {
	kind responseKind
	err  error
}

func (teamsData) isResult()    {}
func (scheduleData) isResult() {}
func (contentData) isResult()  {}
func (parseFailure) isResult() {}

func (p parseFailure) Error() string {
	return fmt.Sprintf("%s: decode %s response: %v", providerName, p.kind, p.err)
}

func (p parseFailure) Unwrap() error {
	return providers.ErrMalformedResponse
}

func decode(kind responseKind, body []byte) result {
	switch kind {
	case kindTeams:
		var payload teamsResponse
		if err := json.Unmarshal(body, &payload); err != nil {
			return parseFailure{kind: kind, err: err}
		}
		return teamsData{payload: payload}
	case kindSchedule:
		var payload scheduleResponse
		if err := json.Unmarshal(body, &payload); err != nil {
			return parseFailure{kind: kind, err: err}
		}
		return scheduleData{payload: payload}
	case kindContent:
		var payload contentResponse
		if err := json.Unmarshal(body, &payload); err != nil {
			return parseFailure{kind: kind, err: err}
		}
		return contentData{payload: payload}
	default:
		return parseFailure{kind: kind, err: fmt.Errorf("unsupported response kind %d", kind)}
	}
}

// unexpected reports a variant that does not match the request kind.
func unexpected(want responseKind, got result) error {
	if failure, ok := got.(parseFailure); ok {
		return failure
	}
	return parseFailure{kind: want, err: fmt.Errorf("unexpected %T", got)}
}
