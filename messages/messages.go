package messages

import (
	"context"
	"log"
	"sort"
	"strings"
	"time"
	"unicode/utf8"

	"flockr/apierr"
	"flockr/auth"
	"flockr/db"
	"flockr/hangman"
	"flockr/kahio"
	"flockr/scheduler"
	"flockr/types"
)

const MaxLength = 1000

// Weather turns a location into the text that replaces a /weather message.
type Weather interface {
	Lookup(ctx context.Context, location string) (string, error)
}

type Service struct {
	store   db.Repository
	auth    *auth.Service
	kahio   *kahio.Service
	weather Weather
	sched   *scheduler.Scheduler
	now     func() time.Time
}

func NewService(store db.Repository, authService *auth.Service, kahioService *kahio.Service, weather Weather, sched *scheduler.Scheduler) *Service {
	return &Service{
		store:   store,
		auth:    authService,
		kahio:   kahioService,
		weather: weather,
		sched:   sched,
		now:     time.Now,
	}
}

func validBody(body string) error {
	if utf8.RuneCountInString(body) > MaxLength {
		return apierr.Input("Message is more than 1000 characters")
	}
	return nil
}

// sender checks that token may post body to channelID.
func (s *Service) sender(tx *db.Tx, token string, channelID int, body string) (*types.User, *types.Channel, error) {
	u, err := s.auth.Authorize(tx, token)
	if err != nil {
		return nil, nil, err
	}
	if err := validBody(body); err != nil {
		return nil, nil, err
	}
	ch := tx.Channel(channelID)
	if ch == nil {
		return nil, nil, apierr.Input("Channel does not exist")
	}
	if !ch.IsMember(u.ID) {
		return nil, nil, apierr.Access("User is not a member of the channel")
	}
	return u, ch, nil
}

// resolve runs the weather lookup, the only step that leaves the process.
func (s *Service) resolve(ctx context.Context, cmd Command) (Command, error) {
	if cmd.Kind != WeatherQuery {
		return cmd, nil
	}
	if s.weather == nil {
		return cmd, apierr.Input("Weather lookup is not configured")
	}
	text, err := s.weather.Lookup(ctx, cmd.Arg)
	if err != nil {
		return cmd, err
	}
	return Command{Kind: PlainText, Text: text}, nil
}

// Send posts body to the channel, running any command it carries, and
// returns the message id the send consumed.
func (s *Service) Send(ctx context.Context, token string, channelID int, body string) (int, error) {
	cmd := Parse(body)
	if cmd.Kind == WeatherQuery {
		err := s.store.View(func(tx *db.Tx) error {
			_, _, err := s.sender(tx, token, channelID, body)
			return err
		})
		if err != nil {
			return 0, err
		}
	}
	cmd, err := s.resolve(ctx, cmd)
	if err != nil {
		return 0, err
	}

	var id int
	err = s.store.Update(func(tx *db.Tx) error {
		u, ch, err := s.sender(tx, token, channelID, body)
		if err != nil {
			return err
		}
		id, err = s.dispatch(tx, ch, u, cmd, 0, s.now())
		return err
	})
	return id, err
}

// dispatch applies cmd. A reserved id of 0 means the next free id is used
// and only claimed once the command succeeds.
func (s *Service) dispatch(tx *db.Tx, ch *types.Channel, u *types.User, cmd Command, reserved int, at time.Time) (int, error) {
	id := reserved
	if id == 0 {
		id = tx.LastMessageID() + 1
	}
	if cmd.Kind == PlainText && ch.Kahio.Active {
		cmd.Kind = KahioGuess
	}

	var err error
	switch cmd.Kind {
	case HangmanStart:
		err = hangman.Start(tx, ch, u, cmd.Arg, id, at)
	case HangmanGuess:
		if err = hangman.Guess(tx, ch, u, cmd.Text); err == nil {
			tx.InsertMessage(types.NewMessage(id, ch.ID, u.ID, cmd.Text, at))
		}
	case HangmanStop:
		err = hangman.Stop(tx, ch, u)
	case KahioEnd:
		err = s.kahio.End(tx, ch, u, id, at)
	case KahioStart:
		err = s.kahio.Start(tx, ch, u, cmd.Text, id, at)
	case KahioGuess:
		err = s.kahio.Guess(tx, ch, u, cmd.Text, id, at)
	default:
		tx.InsertMessage(types.NewMessage(id, ch.ID, u.ID, cmd.Text, at))
	}
	if err != nil {
		return 0, err
	}
	if reserved == 0 {
		tx.NextMessageID()
	}
	return id, nil
}

// SendLater reserves a message id now and sends body under it at
// timeSent (unix seconds).
func (s *Service) SendLater(token string, channelID int, body string, timeSent int64) (int, error) {
	var id int
	err := s.store.Update(func(tx *db.Tx) error {
		u, ch, err := s.sender(tx, token, channelID, body)
		if err != nil {
			return err
		}
		now := s.now()
		if timeSent <= now.Unix() {
			return apierr.Input("Can't send to the past")
		}

		id = tx.NextMessageID()
		epoch, authorID, chID, msgID := tx.Epoch(), u.ID, ch.ID, id
		delay := time.Unix(timeSent, 0).Sub(now)
		s.sched.Schedule(scheduler.KindSendLater, delay, func() {
			s.deliver(epoch, authorID, chID, msgID, body)
		})
		return nil
	})
	return id, err
}

func (s *Service) deliver(epoch uint64, authorID, channelID, messageID int, body string) {
	cmd, err := s.resolve(context.Background(), Parse(body))
	if err != nil {
		log.Printf("sendlater: dropping message %d: %v", messageID, err)
		return
	}
	err = s.store.Update(func(tx *db.Tx) error {
		if tx.Epoch() != epoch {
			return nil
		}
		u := tx.User(authorID)
		ch := tx.Channel(channelID)
		if u == nil || ch == nil || !ch.IsMember(u.ID) {
			return apierr.Access("User is not a member of the channel")
		}
		_, err := s.dispatch(tx, ch, u, cmd, messageID, s.now())
		return err
	})
	if err != nil {
		log.Printf("sendlater: dropping message %d: %v", messageID, err)
	}
}

// target resolves a message the caller wants to change. The checks run in
// a fixed order so the reported error is stable.
func target(tx *db.Tx, u *types.User, messageID int) (*types.Message, *types.Channel, error) {
	if messageID <= 0 || messageID > tx.LastMessageID() {
		return nil, nil, apierr.Input("Message id is invalid")
	}
	m, ch := tx.Message(messageID)
	if ch != nil && hangman.IsStatusMessage(ch, messageID) {
		return nil, nil, apierr.Input("Cannot change the hangman status message")
	}
	if m == nil {
		return nil, nil, apierr.Input("Message no longer exists")
	}
	if m.AuthorID != u.ID && !ch.IsOwner(u.ID) {
		return nil, nil, apierr.Access("User is not creator or owner")
	}
	return m, ch, nil
}

func (s *Service) Remove(token string, messageID int) error {
	return s.store.Update(func(tx *db.Tx) error {
		u, err := s.auth.Authorize(tx, token)
		if err != nil {
			return err
		}
		m, _, err := target(tx, u, messageID)
		if err != nil {
			return err
		}
		tx.RemoveMessage(m.ID)
		return nil
	})
}

// Edit replaces the body of a message. An empty body removes it.
func (s *Service) Edit(token string, messageID int, body string) error {
	return s.store.Update(func(tx *db.Tx) error {
		u, err := s.auth.Authorize(tx, token)
		if err != nil {
			return err
		}
		if err := validBody(body); err != nil {
			return err
		}
		m, _, err := target(tx, u, messageID)
		if err != nil {
			return err
		}
		if body == "" {
			tx.RemoveMessage(m.ID)
			return nil
		}
		tx.EditMessage(m, body)
		return nil
	})
}

// existing resolves messageID for react and pin operations.
func existing(tx *db.Tx, messageID int) (*types.Message, *types.Channel, error) {
	m, ch := tx.Message(messageID)
	if m == nil {
		return nil, nil, apierr.Input("Message does not exist")
	}
	return m, ch, nil
}

func validReact(reactID int) error {
	if reactID < 1 || reactID > types.NumReacts {
		return apierr.Input("Invalid react id")
	}
	return nil
}

func (s *Service) React(token string, messageID, reactID int) error {
	return s.store.Update(func(tx *db.Tx) error {
		u, err := s.auth.Authorize(tx, token)
		if err != nil {
			return err
		}
		m, _, err := existing(tx, messageID)
		if err != nil {
			return err
		}
		if err := validReact(reactID); err != nil {
			return err
		}
		if m.Reacts[reactID-1].Has(u.ID) {
			return apierr.Input("User has already reacted to this message")
		}
		tx.AddReact(m, reactID, u.ID)
		return nil
	})
}

func (s *Service) Unreact(token string, messageID, reactID int) error {
	return s.store.Update(func(tx *db.Tx) error {
		u, err := s.auth.Authorize(tx, token)
		if err != nil {
			return err
		}
		m, _, err := existing(tx, messageID)
		if err != nil {
			return err
		}
		if err := validReact(reactID); err != nil {
			return err
		}
		if !m.Reacts[reactID-1].Has(u.ID) {
			return apierr.Input("User has not reacted to this message")
		}
		tx.RemoveReact(m, reactID, u.ID)
		return nil
	})
}

func (s *Service) setPinned(token string, messageID int, pinned bool) error {
	return s.store.Update(func(tx *db.Tx) error {
		u, err := s.auth.Authorize(tx, token)
		if err != nil {
			return err
		}
		m, ch, err := existing(tx, messageID)
		if err != nil {
			return err
		}
		if m.IsPinned == pinned {
			if pinned {
				return apierr.Input("Message is already pinned")
			}
			return apierr.Input("Message is not pinned")
		}
		if !ch.IsOwner(u.ID) {
			return apierr.Access("User is not an owner of the channel")
		}
		tx.SetPinned(m, pinned)
		return nil
	})
}

func (s *Service) Pin(token string, messageID int) error {
	return s.setPinned(token, messageID, true)
}

func (s *Service) Unpin(token string, messageID int) error {
	return s.setPinned(token, messageID, false)
}

// Search returns messages from the caller's channels whose body contains
// query, newest first.
func (s *Service) Search(token, query string) ([]types.MessageView, error) {
	var out []types.MessageView
	err := s.store.View(func(tx *db.Tx) error {
		u, err := s.auth.Authorize(tx, token)
		if err != nil {
			return err
		}
		var found []*types.Message
		for _, chID := range types.SortedIDs(u.Channels) {
			ch := tx.Channel(chID)
			if ch == nil {
				continue
			}
			for _, id := range ch.Order {
				if m := ch.Messages[id]; m != nil && strings.Contains(m.Body, query) {
					found = append(found, m)
				}
			}
		}
		sort.SliceStable(found, func(i, j int) bool {
			if !found[i].CreatedAt.Equal(found[j].CreatedAt) {
				return found[i].CreatedAt.After(found[j].CreatedAt)
			}
			return found[i].ID > found[j].ID
		})
		out = make([]types.MessageView, 0, len(found))
		for _, m := range found {
			out = append(out, m.View(u.ID))
		}
		return nil
	})
	return out, err
}
