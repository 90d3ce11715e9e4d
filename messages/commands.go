package messages

import (
	"strings"

	"flockr/kahio"
)

type Kind int

const (
	PlainText Kind = iota
	WeatherQuery
	HangmanStart
	HangmanGuess
	HangmanStop
	KahioEnd
	KahioStart
	KahioGuess
)

func (k Kind) String() string {
	switch k {
	case WeatherQuery:
		return "weather"
	case HangmanStart:
		return "hangman start"
	case HangmanGuess:
		return "hangman guess"
	case HangmanStop:
		return "hangman stop"
	case KahioEnd:
		return "kahio end"
	case KahioStart:
		return "kahio start"
	case KahioGuess:
		return "kahio guess"
	}
	return "plain"
}

// Command is a message body parsed once before dispatch. Text is what gets
// stored if the command produces a message; Arg is the command operand.
type Command struct {
	Kind Kind
	Text string
	Arg  string
}

const (
	weatherPrefix      = "/weather "
	hangmanStartPrefix = "/hangman start"
	hangmanGuessPrefix = "/guess "
	hangmanStopCommand = "/hangman stop"
)

// Parse classifies body. KahioGuess is never returned here: plain text is
// promoted to a guess at dispatch time when a round is running.
func Parse(body string) Command {
	cmd := Command{Kind: PlainText, Text: body}
	switch {
	case strings.HasPrefix(body, weatherPrefix):
		cmd.Kind = WeatherQuery
		cmd.Arg = strings.TrimSpace(strings.TrimPrefix(body, weatherPrefix))
	case strings.HasPrefix(body, hangmanStartPrefix):
		cmd.Kind = HangmanStart
		cmd.Arg = strings.TrimSpace(strings.TrimPrefix(body, hangmanStartPrefix))
	case strings.HasPrefix(body, hangmanGuessPrefix):
		cmd.Kind = HangmanGuess
	case body == hangmanStopCommand:
		cmd.Kind = HangmanStop
	case strings.HasPrefix(body, kahio.EndCommand):
		cmd.Kind = KahioEnd
	case strings.HasPrefix(body, kahio.StartPrefix):
		cmd.Kind = KahioStart
	}
	return cmd
}
