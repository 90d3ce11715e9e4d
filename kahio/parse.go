package kahio

import (
	"strconv"
	"strings"

	"flockr/apierr"
)

const (
	StartPrefix    = "/KAHIO"
	EndCommand     = "/KAHIO/END"
	DefaultSeconds = 15
	maxSegments    = 3
)

type Round struct {
	Question string
	Answer   string
	Seconds  int
}

// ParseStart reads /KAHIO/<question>/<answer>[/<seconds>].
func ParseStart(body string) (Round, error) {
	var segments [maxSegments + 1]strings.Builder
	stage := 0
	for _, r := range strings.TrimPrefix(body, StartPrefix) {
		if r == '/' {
			stage++
			if stage > maxSegments {
				return Round{}, apierr.Input("Invalid kahio start message")
			}
			continue
		}
		segments[stage].WriteRune(r)
	}

	round := Round{
		Question: segments[1].String(),
		Answer:   Normalize(segments[2].String()),
		Seconds:  DefaultSeconds,
	}
	if raw := segments[3].String(); raw != "" {
		raw = strings.TrimPrefix(raw, " ")
		if raw == "" || strings.Trim(raw, "0123456789") != "" {
			return Round{}, apierr.Input("Time given is invalid")
		}
		seconds, err := strconv.Atoi(raw)
		if err != nil {
			return Round{}, apierr.Input("Time given is invalid")
		}
		round.Seconds = seconds
	}
	if round.Question == "" {
		return Round{}, apierr.Input("Question given is invalid")
	}
	if round.Answer == "" {
		return Round{}, apierr.Input("Answer given is invalid")
	}
	return round, nil
}

// Normalize is applied to both the stored answer and every guess.
func Normalize(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

// NextInterval picks how long to wait before the next countdown message.
// The last five seconds tick every second; longer waits snap to multiples
// of 5 and then 30.
func NextInterval(remaining int) int {
	switch {
	case remaining <= 5:
		return 1
	case remaining%5 != 0:
		return remaining % 5
	case remaining <= 30:
		return 5
	case remaining%30 != 0:
		return remaining % 30
	default:
		return 30
	}
}
