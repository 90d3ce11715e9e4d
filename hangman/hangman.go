package hangman

import (
	"fmt"
	"strings"
	"time"
	"unicode"
	"unicode/utf8"

	"flockr/apierr"
	"flockr/db"
	"flockr/types"
)

const (
	MaxFailures   = 9
	MinWordLength = 3
	MinMembers    = 2
)

// separators are shown in the reveal pattern from the start.
const separators = " -'"

// NormalizeWord lowercases raw and checks it is made of letters once
// separators are stripped.
func NormalizeWord(raw string) (string, error) {
	word := strings.ToLower(raw)
	letters := 0
	for _, r := range word {
		if strings.ContainsRune(separators, r) {
			continue
		}
		if !unicode.IsLetter(r) {
			return "", apierr.Input("Word is invalid")
		}
		letters++
	}
	if letters < MinWordLength {
		return "", apierr.Input("Word is invalid")
	}
	return word, nil
}

func Mask(word string) []rune {
	out := []rune(word)
	for i, r := range out {
		if !strings.ContainsRune(separators, r) {
			out[i] = '_'
		}
	}
	return out
}

// Start opens a round with word and posts the pinned status message under
// messageID.
func Start(tx *db.Tx, ch *types.Channel, starter *types.User, rawWord string, messageID int, at time.Time) error {
	if ch.Hangman.Active {
		return apierr.Input("A hangman session is already active")
	}
	if ch.Kahio.Active {
		return apierr.Input("A kahio round is running on this channel")
	}
	if len(ch.Members) < MinMembers {
		return apierr.Input("Not enough people to start hangman")
	}
	word, err := NormalizeWord(rawWord)
	if err != nil {
		return err
	}

	ch.Hangman = types.Hangman{
		Active:          true,
		InitiatorID:     starter.ID,
		Word:            word,
		Revealed:        Mask(word),
		Letters:         []string{},
		StatusMessageID: messageID,
	}

	body := fmt.Sprintf("%s has started a game of hangman!\nThe word is: %s", starter.NameFirst, string(ch.Hangman.Revealed))
	m := types.NewMessage(messageID, ch.ID, starter.ID, body, at)
	tx.InsertMessage(m)
	tx.SetPinned(m, true)
	return nil
}

// ParseGuess extracts the letter from "/guess x".
func ParseGuess(body string) (rune, error) {
	rest := strings.TrimPrefix(body, "/guess ")
	r, size := utf8.DecodeRuneInString(rest)
	if size == 0 || size != len(rest) || !unicode.IsLetter(r) {
		return 0, apierr.Input("Guess must be a single letter")
	}
	return unicode.ToLower(r), nil
}

// Guess applies one letter and rewrites the status message.
func Guess(tx *db.Tx, ch *types.Channel, guesser *types.User, body string) error {
	h := &ch.Hangman
	if !h.Active {
		return apierr.Input("Hangman is not active")
	}
	if guesser.ID == h.InitiatorID {
		return apierr.Input("Cannot guess your own word")
	}
	letter, err := ParseGuess(body)
	if err != nil {
		return err
	}
	for _, r := range h.Revealed {
		if r == letter {
			return apierr.Input("Cannot guess already revealed letters")
		}
	}

	h.Guesses++
	if strings.ContainsRune(h.Word, letter) {
		for i, r := range []rune(h.Word) {
			if r == letter {
				h.Revealed[i] = letter
			}
		}
	} else {
		if !contains(h.Letters, string(letter)) {
			h.Letters = append(h.Letters, string(letter))
		}
		h.Failures++
	}

	initiator := tx.User(h.InitiatorID)
	name := ""
	if initiator != nil {
		name = initiator.NameFirst
	}

	switch {
	case string(h.Revealed) == h.Word:
		finish(tx, ch, victoryText(h, name))
	case h.Failures >= MaxFailures:
		finish(tx, ch, lossText(h, name))
	default:
		editStatus(tx, h.StatusMessageID, statusText(h, name))
	}
	return nil
}

// Stop ends the round and deletes the status message.
func Stop(tx *db.Tx, ch *types.Channel, caller *types.User) error {
	h := &ch.Hangman
	if !h.Active {
		return apierr.Input("There is no currently active hangman session")
	}
	if !ch.IsOwner(caller.ID) && h.InitiatorID != caller.ID {
		return apierr.Input("User does not have permission to use command")
	}
	tx.RemoveMessage(h.StatusMessageID)
	h.Active = false
	h.StatusMessageID = 0
	return nil
}

// IsStatusMessage reports whether id is the live status message.
func IsStatusMessage(ch *types.Channel, id int) bool {
	return ch.Hangman.Active && ch.Hangman.StatusMessageID == id
}

func finish(tx *db.Tx, ch *types.Channel, banner string) {
	h := &ch.Hangman
	editStatus(tx, h.StatusMessageID, banner)
	h.Active = false
	h.StatusMessageID = 0
	h.Letters = []string{}
}

func editStatus(tx *db.Tx, messageID int, body string) {
	if m, _ := tx.Message(messageID); m != nil {
		tx.EditMessage(m, body)
	}
}

func statusText(h *types.Hangman, name string) string {
	return fmt.Sprintf("%s has started a hangman!\nWord: %s\nIncorrect letters guessed: %s\n%s",
		name, string(h.Revealed), strings.Join(h.Letters, ", "), Draw(h.Failures))
}

func victoryText(h *types.Hangman, name string) string {
	plural := "es"
	if h.Guesses == 1 {
		plural = ""
	}
	return fmt.Sprintf("=======================================\n"+
		"YOU WIN\n"+
		"=======================================\n"+
		"Congratulations! You won %s's hangman in %d guess%s!\n"+
		"The word was %s.\n%s",
		name, h.Guesses, plural, h.Word, Draw(h.Failures))
}

func lossText(h *types.Hangman, name string) string {
	return fmt.Sprintf("=======================================\n"+
		"GAME OVER\n"+
		"=======================================\n"+
		"Oh well. You lost %s's hangman in %d guesses :(\n"+
		"The word was \"%s\".\n%s",
		name, h.Guesses, h.Word, Draw(MaxFailures))
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}
